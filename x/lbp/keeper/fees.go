package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	lbpmath "github.com/openalpha/lbp-dex/x/lbp/math"
	"github.com/openalpha/lbp-dex/x/lbp/types"
)

// FeeBreakdown is the ledger split of one gross swap amount. Gross is what
// the trader supplies, Net is what reaches the reserves, and the three fee
// components are floored individually, so Net always absorbs the rounding
// dust and Platform+Referral+Swap+Net == Gross exactly.
type FeeBreakdown struct {
	Gross    uint64
	Platform uint64
	Referral uint64
	Swap     uint64
	Net      uint64
}

// splitFees divides a gross input-side amount. Without a valid referrer the
// would-be referral fee accrues to the platform; the total deduction is
// identical either way, so quotes do not depend on referrer presence.
func splitFees(gross uint64, cfg *types.OwnerConfig, hasReferrer bool) (FeeBreakdown, error) {
	platform, err := lbpmath.CheckedMulDiv(gross, cfg.PlatformFeeBp, types.WeightBase)
	if err != nil {
		return FeeBreakdown{}, err
	}
	referral, err := lbpmath.CheckedMulDiv(gross, cfg.ReferralFeeBp, types.WeightBase)
	if err != nil {
		return FeeBreakdown{}, err
	}
	swapFee, err := lbpmath.CheckedMulDiv(gross, cfg.SwapFeeBp, types.WeightBase)
	if err != nil {
		return FeeBreakdown{}, err
	}

	if !hasReferrer {
		platform, err = lbpmath.CheckedAdd(platform, referral)
		if err != nil {
			return FeeBreakdown{}, err
		}
		referral = 0
	}

	net := gross
	for _, fee := range []uint64{platform, referral, swapFee} {
		net, err = lbpmath.CheckedSub(net, fee)
		if err != nil {
			return FeeBreakdown{}, err
		}
	}

	return FeeBreakdown{
		Gross:    gross,
		Platform: platform,
		Referral: referral,
		Swap:     swapFee,
		Net:      net,
	}, nil
}

// grossUpNet inverts splitFees for exact-out quotes: given the net amount
// the pricing formula requires, it returns the smallest gross amount whose
// floored fee split leaves at least that net.
func grossUpNet(net uint64, cfg *types.OwnerConfig) (uint64, error) {
	totalBp := cfg.PlatformFeeBp + cfg.ReferralFeeBp + cfg.SwapFeeBp
	if totalBp >= types.WeightBase {
		return 0, types.ErrMaxFeeExceeded
	}
	if totalBp == 0 {
		return net, nil
	}
	gross := lbpmath.NewDecFromUint(net).
		MulInt64(int64(types.WeightBase)).
		QuoInt64(int64(types.WeightBase - totalBp))
	return lbpmath.DecToUintCeil(gross)
}

// hasValidReferrer applies the referral admission rule: the referrer must be
// present and distinct from the buyer.
func hasValidReferrer(caller, referrer string) bool {
	return referrer != "" && referrer != caller
}

// creditReferral books the referral fee against the referrer's position and
// the pool's running total.
func (k *Keeper) creditReferral(ctx sdk.Context, pool *types.Pool, referrer string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	state := k.getOrCreateUserState(ctx, pool.PoolID, referrer)

	referred, err := lbpmath.CheckedAdd(state.ReferredAssets, amount)
	if err != nil {
		return err
	}
	totalReferred, err := lbpmath.CheckedAdd(pool.TotalReferred, amount)
	if err != nil {
		return err
	}

	state.ReferredAssets = referred
	state.UpdatedAt = ctx.BlockTime().Unix()
	pool.TotalReferred = totalReferred
	k.SetUserState(ctx, state)
	return nil
}
