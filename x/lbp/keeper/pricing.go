package keeper

import (
	sdkmath "cosmossdk.io/math"

	lbpmath "github.com/openalpha/lbp-dex/x/lbp/math"
	"github.com/openalpha/lbp-dex/x/lbp/types"
)

// The pricing engine. All four quote functions derive from the weighted
// constant-value invariant balanceIn^weightIn * balanceOut^weightOut = k,
// evaluated over the virtual-augmented reserves at the weight pair for the
// given timestamp. They are pure: the mutating swaps and the read-only
// previews share them byte for byte.
//
// Rounding is uniformly pro-pool: amounts out truncate, amounts in round up.
//
// Magnitude guards keep the fixed-point power routine inside its precision
// envelope: a single trade may consume at most half of the in-side reserve
// (ErrAmountInTooLarge) and drain at most a third of the out-side reserve
// (ErrAmountOutTooLarge).

// pricingReserves returns the virtual-augmented balances used by every
// calculation.
func pricingReserves(pool *types.Pool) (assetBal, shareBal uint64, err error) {
	assetBal, err = lbpmath.CheckedAdd(pool.AssetReserve, pool.VirtualAssets)
	if err != nil {
		return 0, 0, err
	}
	shareBal, err = lbpmath.CheckedAdd(pool.ShareReserve, pool.VirtualShares)
	if err != nil {
		return 0, 0, err
	}
	return assetBal, shareBal, nil
}

func weightRatio(numeratorBp, denominatorBp uint64) sdkmath.LegacyDec {
	return lbpmath.NewDecFromUint(numeratorBp).Quo(lbpmath.NewDecFromUint(denominatorBp))
}

// quoteOutGivenIn is the shared exact-in formula:
//
//	out = balOut * (1 - (balIn / (balIn + amountIn))^(weightIn/weightOut))
func quoteOutGivenIn(balIn, balOut, amountIn uint64, weightInBp, weightOutBp uint64) (uint64, error) {
	if amountIn == 0 {
		return 0, nil
	}
	if amountIn > balIn/2 {
		return 0, lbpmath.ErrAmountInTooLarge
	}

	newBalIn, err := lbpmath.CheckedAdd(balIn, amountIn)
	if err != nil {
		return 0, err
	}
	base := lbpmath.NewDecFromUint(balIn).Quo(lbpmath.NewDecFromUint(newBalIn))
	power, err := lbpmath.DecPow(base, weightRatio(weightInBp, weightOutBp))
	if err != nil {
		return 0, err
	}

	out := lbpmath.NewDecFromUint(balOut).Mul(sdkmath.LegacyOneDec().Sub(power))
	return lbpmath.DecToUint(out)
}

// quoteInGivenOut is the shared exact-out formula:
//
//	in = balIn * ((balOut / (balOut - amountOut))^(weightOut/weightIn) - 1)
func quoteInGivenOut(balIn, balOut, amountOut uint64, weightInBp, weightOutBp uint64) (uint64, error) {
	if amountOut == 0 {
		return 0, nil
	}
	if amountOut > balOut/3 {
		return 0, lbpmath.ErrAmountOutTooLarge
	}

	newBalOut, err := lbpmath.CheckedSub(balOut, amountOut)
	if err != nil {
		return 0, err
	}
	base := lbpmath.NewDecFromUint(balOut).Quo(lbpmath.NewDecFromUint(newBalOut))
	power, err := lbpmath.DecPow(base, weightRatio(weightOutBp, weightInBp))
	if err != nil {
		return 0, err
	}

	in := lbpmath.NewDecFromUint(balIn).Mul(power.Sub(sdkmath.LegacyOneDec()))
	return lbpmath.DecToUintCeil(in)
}

// SharesOutForExactAssetsIn quotes the buy side for an exact (post-fee)
// asset amount.
func SharesOutForExactAssetsIn(pool *types.Pool, now int64, assetsIn uint64) (uint64, error) {
	assetBal, shareBal, err := pricingReserves(pool)
	if err != nil {
		return 0, err
	}
	w := pool.WeightAt(now)
	return quoteOutGivenIn(assetBal, shareBal, assetsIn, w.AssetWeightBp, w.ShareWeightBp)
}

// AssetsInForExactSharesOut quotes the (post-fee) asset amount required to
// buy an exact share amount. The pool cannot sell shares it does not hold.
func AssetsInForExactSharesOut(pool *types.Pool, now int64, sharesOut uint64) (uint64, error) {
	assetBal, shareBal, err := pricingReserves(pool)
	if err != nil {
		return 0, err
	}
	if sharesOut >= shareBal {
		return 0, types.ErrSharesOutExceeded
	}
	w := pool.WeightAt(now)
	return quoteInGivenOut(assetBal, shareBal, sharesOut, w.AssetWeightBp, w.ShareWeightBp)
}

// AssetsOutForExactSharesIn quotes the sell side for an exact (post-fee)
// share amount.
func AssetsOutForExactSharesIn(pool *types.Pool, now int64, sharesIn uint64) (uint64, error) {
	assetBal, shareBal, err := pricingReserves(pool)
	if err != nil {
		return 0, err
	}
	w := pool.WeightAt(now)
	return quoteOutGivenIn(shareBal, assetBal, sharesIn, w.ShareWeightBp, w.AssetWeightBp)
}

// SharesInForExactAssetsOut quotes the (post-fee) share amount required to
// withdraw an exact asset amount.
func SharesInForExactAssetsOut(pool *types.Pool, now int64, assetsOut uint64) (uint64, error) {
	assetBal, shareBal, err := pricingReserves(pool)
	if err != nil {
		return 0, err
	}
	if assetsOut >= assetBal {
		return 0, lbpmath.ErrAmountOutTooLarge
	}
	w := pool.WeightAt(now)
	return quoteInGivenOut(shareBal, assetBal, assetsOut, w.ShareWeightBp, w.AssetWeightBp)
}
