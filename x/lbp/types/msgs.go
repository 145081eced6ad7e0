package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgInitializeOwnerConfig    = "initialize_owner_config"
	TypeMsgInitializePool           = "initialize_pool"
	TypeMsgSwapExactAssetsForShares = "swap_exact_assets_for_shares"
	TypeMsgSwapAssetsForExactShares = "swap_assets_for_exact_shares"
	TypeMsgSwapExactSharesForAssets = "swap_exact_shares_for_assets"
	TypeMsgSwapSharesForExactAssets = "swap_shares_for_exact_assets"
	TypeMsgRedeem                   = "redeem"
	TypeMsgClosePool                = "close_pool"
	TypeMsgSetFees                  = "set_fees"
	TypeMsgNominateNewOwner         = "nominate_new_owner"
	TypeMsgAcceptNewOwner           = "accept_new_owner"
)

// MsgInitializeOwnerConfig defines the one-time owner config setup
type MsgInitializeOwnerConfig struct {
	Owner         string `json:"owner"`
	FeeRecipient  string `json:"fee_recipient"`
	PlatformFeeBp uint64 `json:"platform_fee_bp"`
	ReferralFeeBp uint64 `json:"referral_fee_bp"`
	SwapFeeBp     uint64 `json:"swap_fee_bp"`
}

// Route implements sdk.Msg
func (msg MsgInitializeOwnerConfig) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgInitializeOwnerConfig) Type() string { return TypeMsgInitializeOwnerConfig }

// ValidateBasic implements sdk.Msg
func (msg MsgInitializeOwnerConfig) ValidateBasic() error {
	if msg.Owner == "" || msg.FeeRecipient == "" {
		return ErrUnauthorized
	}
	if msg.PlatformFeeBp > MaxFeeBps || msg.ReferralFeeBp > MaxFeeBps || msg.SwapFeeBp > MaxFeeBps {
		return ErrMaxFeeExceeded
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgInitializeOwnerConfig) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgInitializeOwnerConfig) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgInitializeOwnerConfig) Reset() { *msg = MsgInitializeOwnerConfig{} }

// String implements proto.Message
func (msg MsgInitializeOwnerConfig) String() string {
	return fmt.Sprintf("MsgInitializeOwnerConfig{Owner: %s, FeeRecipient: %s}", msg.Owner, msg.FeeRecipient)
}

// MsgInitializePool defines pool creation with seed reserves
type MsgInitializePool struct {
	Params PoolCreationParams `json:"params"`
}

// Route implements sdk.Msg
func (msg MsgInitializePool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgInitializePool) Type() string { return TypeMsgInitializePool }

// ValidateBasic implements sdk.Msg
func (msg MsgInitializePool) ValidateBasic() error {
	return msg.Params.Validate()
}

// GetSigners implements sdk.Msg
func (msg MsgInitializePool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Params.Creator)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgInitializePool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgInitializePool) Reset() { *msg = MsgInitializePool{} }

// String implements proto.Message
func (msg MsgInitializePool) String() string {
	return fmt.Sprintf("MsgInitializePool{Creator: %s, Asset: %s, Share: %s}",
		msg.Params.Creator, msg.Params.AssetToken, msg.Params.ShareToken)
}

// MsgInitializePoolResponse carries the derived pool id
type MsgInitializePoolResponse struct {
	PoolID string `json:"pool_id"`
}

// MsgSwap is the shared shape of the four swap entry points. Amount and
// Limit are interpreted per direction: the exact amount supplied and the
// caller's slippage bound. MerkleProof entries are hex-encoded siblings.
type MsgSwap struct {
	Caller      string   `json:"caller"`
	PoolID      string   `json:"pool_id"`
	Amount      uint64   `json:"amount"`
	Limit       uint64   `json:"limit"`
	MerkleProof []string `json:"merkle_proof,omitempty"`
	Referrer    string   `json:"referrer,omitempty"`
}

// ValidateBasic implements sdk.Msg
func (msg MsgSwap) ValidateBasic() error {
	if msg.Caller == "" {
		return ErrCallerDisallowed
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	if msg.Amount == 0 {
		return ErrInvalidAssetValue
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSwap) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

// MsgSwapExactAssetsForShares buys shares with an exact asset amount
type MsgSwapExactAssetsForShares struct {
	MsgSwap
}

// Route implements sdk.Msg
func (msg MsgSwapExactAssetsForShares) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSwapExactAssetsForShares) Type() string { return TypeMsgSwapExactAssetsForShares }

// ProtoMessage implements proto.Message
func (*MsgSwapExactAssetsForShares) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSwapExactAssetsForShares) Reset() { *msg = MsgSwapExactAssetsForShares{} }

// String implements proto.Message
func (msg MsgSwapExactAssetsForShares) String() string {
	return fmt.Sprintf("MsgSwapExactAssetsForShares{Caller: %s, AssetsIn: %d, MinSharesOut: %d}",
		msg.Caller, msg.Amount, msg.Limit)
}

// MsgSwapAssetsForExactShares buys an exact share amount
type MsgSwapAssetsForExactShares struct {
	MsgSwap
}

// Route implements sdk.Msg
func (msg MsgSwapAssetsForExactShares) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSwapAssetsForExactShares) Type() string { return TypeMsgSwapAssetsForExactShares }

// ProtoMessage implements proto.Message
func (*MsgSwapAssetsForExactShares) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSwapAssetsForExactShares) Reset() { *msg = MsgSwapAssetsForExactShares{} }

// String implements proto.Message
func (msg MsgSwapAssetsForExactShares) String() string {
	return fmt.Sprintf("MsgSwapAssetsForExactShares{Caller: %s, SharesOut: %d, MaxAssetsIn: %d}",
		msg.Caller, msg.Amount, msg.Limit)
}

// MsgSwapExactSharesForAssets sells an exact share amount
type MsgSwapExactSharesForAssets struct {
	MsgSwap
}

// Route implements sdk.Msg
func (msg MsgSwapExactSharesForAssets) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSwapExactSharesForAssets) Type() string { return TypeMsgSwapExactSharesForAssets }

// ProtoMessage implements proto.Message
func (*MsgSwapExactSharesForAssets) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSwapExactSharesForAssets) Reset() { *msg = MsgSwapExactSharesForAssets{} }

// String implements proto.Message
func (msg MsgSwapExactSharesForAssets) String() string {
	return fmt.Sprintf("MsgSwapExactSharesForAssets{Caller: %s, SharesIn: %d, MinAssetsOut: %d}",
		msg.Caller, msg.Amount, msg.Limit)
}

// MsgSwapSharesForExactAssets sells shares for an exact asset amount
type MsgSwapSharesForExactAssets struct {
	MsgSwap
}

// Route implements sdk.Msg
func (msg MsgSwapSharesForExactAssets) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSwapSharesForExactAssets) Type() string { return TypeMsgSwapSharesForExactAssets }

// ProtoMessage implements proto.Message
func (*MsgSwapSharesForExactAssets) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSwapSharesForExactAssets) Reset() { *msg = MsgSwapSharesForExactAssets{} }

// String implements proto.Message
func (msg MsgSwapSharesForExactAssets) String() string {
	return fmt.Sprintf("MsgSwapSharesForExactAssets{Caller: %s, AssetsOut: %d, MaxSharesIn: %d}",
		msg.Caller, msg.Amount, msg.Limit)
}

// MsgSwapResponse reports the realized amounts of a swap
type MsgSwapResponse struct {
	Assets      uint64 `json:"assets"`
	Shares      uint64 `json:"shares"`
	SwapFee     uint64 `json:"swap_fee"`
	PlatformFee uint64 `json:"platform_fee"`
	ReferralFee uint64 `json:"referral_fee"`
}

// MsgRedeem releases vested shares to the caller
type MsgRedeem struct {
	Caller string `json:"caller"`
	PoolID string `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgRedeem) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgRedeem) Type() string { return TypeMsgRedeem }

// ValidateBasic implements sdk.Msg
func (msg MsgRedeem) ValidateBasic() error {
	if msg.Caller == "" {
		return ErrCallerDisallowed
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgRedeem) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgRedeem) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgRedeem) Reset() { *msg = MsgRedeem{} }

// String implements proto.Message
func (msg MsgRedeem) String() string {
	return fmt.Sprintf("MsgRedeem{Caller: %s, PoolID: %s}", msg.Caller, msg.PoolID)
}

// MsgRedeemResponse reports the released share amount
type MsgRedeemResponse struct {
	Shares uint64 `json:"shares"`
}

// MsgClosePool marks an ended pool closed
type MsgClosePool struct {
	Caller string `json:"caller"`
	PoolID string `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgClosePool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgClosePool) Type() string { return TypeMsgClosePool }

// ValidateBasic implements sdk.Msg
func (msg MsgClosePool) ValidateBasic() error {
	if msg.Caller == "" {
		return ErrCallerDisallowed
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgClosePool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgClosePool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgClosePool) Reset() { *msg = MsgClosePool{} }

// String implements proto.Message
func (msg MsgClosePool) String() string {
	return fmt.Sprintf("MsgClosePool{Caller: %s, PoolID: %s}", msg.Caller, msg.PoolID)
}

// MsgSetFees updates fee parameters; nil fields are left unchanged
type MsgSetFees struct {
	Owner         string  `json:"owner"`
	FeeRecipient  *string `json:"fee_recipient,omitempty"`
	PlatformFeeBp *uint64 `json:"platform_fee_bp,omitempty"`
	ReferralFeeBp *uint64 `json:"referral_fee_bp,omitempty"`
	SwapFeeBp     *uint64 `json:"swap_fee_bp,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgSetFees) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSetFees) Type() string { return TypeMsgSetFees }

// ValidateBasic implements sdk.Msg
func (msg MsgSetFees) ValidateBasic() error {
	if msg.Owner == "" {
		return ErrUnauthorized
	}
	for _, fee := range []*uint64{msg.PlatformFeeBp, msg.ReferralFeeBp, msg.SwapFeeBp} {
		if fee != nil && *fee > MaxFeeBps {
			return ErrMaxFeeExceeded
		}
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSetFees) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSetFees) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSetFees) Reset() { *msg = MsgSetFees{} }

// String implements proto.Message
func (msg MsgSetFees) String() string {
	return fmt.Sprintf("MsgSetFees{Owner: %s}", msg.Owner)
}

// MsgNominateNewOwner starts the two-phase ownership transfer
type MsgNominateNewOwner struct {
	Owner    string `json:"owner"`
	NewOwner string `json:"new_owner"`
}

// Route implements sdk.Msg
func (msg MsgNominateNewOwner) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgNominateNewOwner) Type() string { return TypeMsgNominateNewOwner }

// ValidateBasic implements sdk.Msg
func (msg MsgNominateNewOwner) ValidateBasic() error {
	if msg.Owner == "" || msg.NewOwner == "" {
		return ErrUnauthorized
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgNominateNewOwner) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgNominateNewOwner) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgNominateNewOwner) Reset() { *msg = MsgNominateNewOwner{} }

// String implements proto.Message
func (msg MsgNominateNewOwner) String() string {
	return fmt.Sprintf("MsgNominateNewOwner{Owner: %s, NewOwner: %s}", msg.Owner, msg.NewOwner)
}

// MsgAcceptNewOwner completes the two-phase ownership transfer
type MsgAcceptNewOwner struct {
	Caller string `json:"caller"`
}

// Route implements sdk.Msg
func (msg MsgAcceptNewOwner) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgAcceptNewOwner) Type() string { return TypeMsgAcceptNewOwner }

// ValidateBasic implements sdk.Msg
func (msg MsgAcceptNewOwner) ValidateBasic() error {
	if msg.Caller == "" {
		return ErrUnauthorized
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgAcceptNewOwner) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgAcceptNewOwner) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgAcceptNewOwner) Reset() { *msg = MsgAcceptNewOwner{} }

// String implements proto.Message
func (msg MsgAcceptNewOwner) String() string {
	return fmt.Sprintf("MsgAcceptNewOwner{Caller: %s}", msg.Caller)
}

// Message type URLs for the interface registry

func (msg *MsgInitializeOwnerConfig) XXX_MessageName() string {
	return "lbpdex.lbp.v1.MsgInitializeOwnerConfig"
}

func (msg *MsgInitializePool) XXX_MessageName() string {
	return "lbpdex.lbp.v1.MsgInitializePool"
}

func (msg *MsgSwapExactAssetsForShares) XXX_MessageName() string {
	return "lbpdex.lbp.v1.MsgSwapExactAssetsForShares"
}

func (msg *MsgSwapAssetsForExactShares) XXX_MessageName() string {
	return "lbpdex.lbp.v1.MsgSwapAssetsForExactShares"
}

func (msg *MsgSwapExactSharesForAssets) XXX_MessageName() string {
	return "lbpdex.lbp.v1.MsgSwapExactSharesForAssets"
}

func (msg *MsgSwapSharesForExactAssets) XXX_MessageName() string {
	return "lbpdex.lbp.v1.MsgSwapSharesForExactAssets"
}

func (msg *MsgRedeem) XXX_MessageName() string {
	return "lbpdex.lbp.v1.MsgRedeem"
}

func (msg *MsgClosePool) XXX_MessageName() string {
	return "lbpdex.lbp.v1.MsgClosePool"
}

func (msg *MsgSetFees) XXX_MessageName() string {
	return "lbpdex.lbp.v1.MsgSetFees"
}

func (msg *MsgNominateNewOwner) XXX_MessageName() string {
	return "lbpdex.lbp.v1.MsgNominateNewOwner"
}

func (msg *MsgAcceptNewOwner) XXX_MessageName() string {
	return "lbpdex.lbp.v1.MsgAcceptNewOwner"
}
