package keeper

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lbp-dex/x/lbp/types"
)

// InitializeOwnerConfig performs the one-time singleton setup of owner,
// fee recipient and fee parameters.
func (k *Keeper) InitializeOwnerConfig(ctx sdk.Context, owner, feeRecipient string, platformFeeBp, referralFeeBp, swapFeeBp uint64) (*types.OwnerConfig, error) {
	if k.GetOwnerConfig(ctx) != nil {
		return nil, types.ErrConfigAlreadyExists
	}

	cfg := &types.OwnerConfig{
		Owner:         owner,
		FeeRecipient:  feeRecipient,
		PlatformFeeBp: platformFeeBp,
		ReferralFeeBp: referralFeeBp,
		SwapFeeBp:     swapFeeBp,
		UpdatedAt:     ctx.BlockTime().Unix(),
	}
	if err := cfg.ValidateFees(); err != nil {
		return nil, err
	}
	k.SetOwnerConfig(ctx, cfg)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeConfigInitialized,
			sdk.NewAttribute(types.AttributeKeyOwner, owner),
			sdk.NewAttribute(types.AttributeKeyFeeRecipient, feeRecipient),
		),
	)

	k.logger.Info("Owner config initialized",
		"owner", owner,
		"fee_recipient", feeRecipient,
		"platform_fee_bp", platformFeeBp,
		"referral_fee_bp", referralFeeBp,
		"swap_fee_bp", swapFeeBp,
	)
	return cfg, nil
}

// SetFees updates the fee parameters; nil fields keep their current value.
// Owner-gated.
func (k *Keeper) SetFees(ctx sdk.Context, caller string, feeRecipient *string, platformFeeBp, referralFeeBp, swapFeeBp *uint64) (*types.OwnerConfig, error) {
	cfg := k.GetOwnerConfig(ctx)
	if cfg == nil {
		return nil, types.ErrConfigNotFound
	}
	if caller != cfg.Owner {
		return nil, types.ErrUnauthorized
	}

	if feeRecipient != nil {
		cfg.FeeRecipient = *feeRecipient
	}
	if platformFeeBp != nil {
		cfg.PlatformFeeBp = *platformFeeBp
	}
	if referralFeeBp != nil {
		cfg.ReferralFeeBp = *referralFeeBp
	}
	if swapFeeBp != nil {
		cfg.SwapFeeBp = *swapFeeBp
	}
	if err := cfg.ValidateFees(); err != nil {
		return nil, err
	}

	cfg.UpdatedAt = ctx.BlockTime().Unix()
	k.SetOwnerConfig(ctx, cfg)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeesUpdated,
			sdk.NewAttribute(types.AttributeKeyFeeRecipient, cfg.FeeRecipient),
			sdk.NewAttribute(types.AttributeKeyPlatformFee, strconv.FormatUint(cfg.PlatformFeeBp, 10)),
			sdk.NewAttribute(types.AttributeKeyReferralFee, strconv.FormatUint(cfg.ReferralFeeBp, 10)),
			sdk.NewAttribute(types.AttributeKeySwapFee, strconv.FormatUint(cfg.SwapFeeBp, 10)),
		),
	)

	k.logger.Info("Fees updated",
		"platform_fee_bp", cfg.PlatformFeeBp,
		"referral_fee_bp", cfg.ReferralFeeBp,
		"swap_fee_bp", cfg.SwapFeeBp,
	)
	return cfg, nil
}

// NominateNewOwner records a pending owner. Transfer completes only when
// the nominee accepts, so control cannot be lost to a mistyped key.
func (k *Keeper) NominateNewOwner(ctx sdk.Context, caller, newOwner string) error {
	cfg := k.GetOwnerConfig(ctx)
	if cfg == nil {
		return types.ErrConfigNotFound
	}
	if caller != cfg.Owner {
		return types.ErrUnauthorized
	}

	cfg.PendingOwner = newOwner
	cfg.UpdatedAt = ctx.BlockTime().Unix()
	k.SetOwnerConfig(ctx, cfg)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOwnerNominated,
			sdk.NewAttribute(types.AttributeKeyOwner, cfg.Owner),
			sdk.NewAttribute(types.AttributeKeyPendingOwner, newOwner),
		),
	)

	k.logger.Info("New owner nominated", "owner", cfg.Owner, "pending_owner", newOwner)
	return nil
}

// AcceptNewOwner completes the two-phase ownership transfer; only the
// nominated pending owner may accept.
func (k *Keeper) AcceptNewOwner(ctx sdk.Context, caller string) error {
	cfg := k.GetOwnerConfig(ctx)
	if cfg == nil {
		return types.ErrConfigNotFound
	}
	if cfg.PendingOwner == "" {
		return types.ErrNoPendingOwner
	}
	if caller != cfg.PendingOwner {
		return types.ErrUnauthorized
	}

	cfg.Owner = cfg.PendingOwner
	cfg.PendingOwner = ""
	cfg.UpdatedAt = ctx.BlockTime().Unix()
	k.SetOwnerConfig(ctx, cfg)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOwnerAccepted,
			sdk.NewAttribute(types.AttributeKeyOwner, cfg.Owner),
		),
	)

	k.logger.Info("Ownership transfer accepted", "owner", cfg.Owner)
	return nil
}
