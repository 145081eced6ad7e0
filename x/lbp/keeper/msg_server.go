package keeper

import (
	"context"
	"encoding/hex"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lbp-dex/x/lbp/types"
)

// MsgServer defines the lbp MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// decodeProof parses hex-encoded merkle siblings. A malformed proof is
// indistinguishable from a missing one.
func decodeProof(encoded []string) ([][32]byte, error) {
	if len(encoded) == 0 {
		return nil, nil
	}
	proof := make([][32]byte, 0, len(encoded))
	for _, sibling := range encoded {
		raw, err := hex.DecodeString(sibling)
		if err != nil || len(raw) != 32 {
			return nil, types.ErrWhitelistProof
		}
		var node [32]byte
		copy(node[:], raw)
		proof = append(proof, node)
	}
	return proof, nil
}

func swapResponse(result *SwapResult) *types.MsgSwapResponse {
	return &types.MsgSwapResponse{
		Assets:      result.Assets,
		Shares:      result.Shares,
		SwapFee:     result.SwapFee,
		PlatformFee: result.PlatformFee,
		ReferralFee: result.ReferralFee,
	}
}

// InitializeOwnerConfig handles MsgInitializeOwnerConfig
func (m *MsgServer) InitializeOwnerConfig(ctx context.Context, msg *types.MsgInitializeOwnerConfig) (*types.OwnerConfig, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return m.keeper.InitializeOwnerConfig(sdkCtx, msg.Owner, msg.FeeRecipient, msg.PlatformFeeBp, msg.ReferralFeeBp, msg.SwapFeeBp)
}

// InitializePool handles MsgInitializePool
func (m *MsgServer) InitializePool(ctx context.Context, msg *types.MsgInitializePool) (*types.MsgInitializePoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool, err := m.keeper.InitializePool(sdkCtx, msg.Params)
	if err != nil {
		return nil, err
	}
	return &types.MsgInitializePoolResponse{PoolID: pool.PoolID}, nil
}

// SwapExactAssetsForShares handles MsgSwapExactAssetsForShares
func (m *MsgServer) SwapExactAssetsForShares(ctx context.Context, msg *types.MsgSwapExactAssetsForShares) (*types.MsgSwapResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	proof, err := decodeProof(msg.MerkleProof)
	if err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	result, err := m.keeper.SwapExactAssetsForShares(sdkCtx, msg.Caller, msg.PoolID, msg.Amount, msg.Limit, proof, msg.Referrer)
	if err != nil {
		return nil, err
	}
	return swapResponse(result), nil
}

// SwapAssetsForExactShares handles MsgSwapAssetsForExactShares
func (m *MsgServer) SwapAssetsForExactShares(ctx context.Context, msg *types.MsgSwapAssetsForExactShares) (*types.MsgSwapResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	proof, err := decodeProof(msg.MerkleProof)
	if err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	result, err := m.keeper.SwapAssetsForExactShares(sdkCtx, msg.Caller, msg.PoolID, msg.Amount, msg.Limit, proof, msg.Referrer)
	if err != nil {
		return nil, err
	}
	return swapResponse(result), nil
}

// SwapExactSharesForAssets handles MsgSwapExactSharesForAssets
func (m *MsgServer) SwapExactSharesForAssets(ctx context.Context, msg *types.MsgSwapExactSharesForAssets) (*types.MsgSwapResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	proof, err := decodeProof(msg.MerkleProof)
	if err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	result, err := m.keeper.SwapExactSharesForAssets(sdkCtx, msg.Caller, msg.PoolID, msg.Amount, msg.Limit, proof)
	if err != nil {
		return nil, err
	}
	return swapResponse(result), nil
}

// SwapSharesForExactAssets handles MsgSwapSharesForExactAssets
func (m *MsgServer) SwapSharesForExactAssets(ctx context.Context, msg *types.MsgSwapSharesForExactAssets) (*types.MsgSwapResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	proof, err := decodeProof(msg.MerkleProof)
	if err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	result, err := m.keeper.SwapSharesForExactAssets(sdkCtx, msg.Caller, msg.PoolID, msg.Amount, msg.Limit, proof)
	if err != nil {
		return nil, err
	}
	return swapResponse(result), nil
}

// Redeem handles MsgRedeem
func (m *MsgServer) Redeem(ctx context.Context, msg *types.MsgRedeem) (*types.MsgRedeemResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	shares, err := m.keeper.Redeem(sdkCtx, msg.Caller, msg.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgRedeemResponse{Shares: shares}, nil
}

// ClosePool handles MsgClosePool
func (m *MsgServer) ClosePool(ctx context.Context, msg *types.MsgClosePool) (*types.Pool, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return m.keeper.ClosePool(sdkCtx, msg.Caller, msg.PoolID)
}

// SetFees handles MsgSetFees
func (m *MsgServer) SetFees(ctx context.Context, msg *types.MsgSetFees) (*types.OwnerConfig, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return m.keeper.SetFees(sdkCtx, msg.Owner, msg.FeeRecipient, msg.PlatformFeeBp, msg.ReferralFeeBp, msg.SwapFeeBp)
}

// NominateNewOwner handles MsgNominateNewOwner
func (m *MsgServer) NominateNewOwner(ctx context.Context, msg *types.MsgNominateNewOwner) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return m.keeper.NominateNewOwner(sdkCtx, msg.Owner, msg.NewOwner)
}

// AcceptNewOwner handles MsgAcceptNewOwner
func (m *MsgServer) AcceptNewOwner(ctx context.Context, msg *types.MsgAcceptNewOwner) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return m.keeper.AcceptNewOwner(sdkCtx, msg.Caller)
}
