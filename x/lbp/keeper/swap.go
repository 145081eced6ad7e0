package keeper

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	lbpmath "github.com/openalpha/lbp-dex/x/lbp/math"
	"github.com/openalpha/lbp-dex/x/lbp/types"
)

// SwapResult reports the realized amounts of a committed swap.
type SwapResult struct {
	PoolID      string `json:"pool_id"`
	User        string `json:"user"`
	Assets      uint64 `json:"assets"`
	Shares      uint64 `json:"shares"`
	SwapFee     uint64 `json:"swap_fee"`
	PlatformFee uint64 `json:"platform_fee"`
	ReferralFee uint64 `json:"referral_fee"`
}

// checkAdmission runs the caller-facing gate checks in their fixed order:
// closed flag, sale window, sell flag, whitelist, blocked callers. Cap and
// slippage checks follow the quote and live at the swap sites.
func checkAdmission(pool *types.Pool, now int64, caller string, sell bool, proof [][32]byte) error {
	if pool.Closed {
		return types.ErrTradingDisallowed
	}
	if now < pool.SaleStartTime || now >= pool.SaleEndTime {
		return types.ErrTradingDisallowed
	}
	if sell && !pool.SellingAllowed {
		return types.ErrSellingDisallowed
	}
	if pool.WhitelistEnforced() && !types.VerifyWhitelist(pool.WhitelistMerkleRoot, types.WhitelistLeaf(caller), proof) {
		return types.ErrWhitelistProof
	}
	if caller == pool.Creator {
		return types.ErrCallerDisallowed
	}
	return nil
}

// checkBuyCaps enforces the per-trade pool caps on the realized buy amounts.
// A zero share output cannot satisfy any price cap.
func checkBuyCaps(pool *types.Pool, assetsIn, sharesOut uint64) error {
	if assetsIn > pool.MaxAssetsIn {
		return types.ErrAssetsInExceeded
	}
	if sharesOut > pool.MaxSharesOut {
		return types.ErrSharesOutExceeded
	}
	if sharesOut == 0 {
		return types.ErrAssetsInExceeded
	}
	price, err := lbpmath.CheckedMulDiv(assetsIn, types.SharePriceScale, sharesOut)
	if err != nil {
		return err
	}
	if price > pool.MaxSharePrice {
		return types.ErrAssetsInExceeded
	}
	return nil
}

// quoteBuyExactAssetsIn is the shared buy pipeline for an exact gross asset
// amount: fee split, pricing over the net amount, cap checks. Used verbatim
// by the mutating swap and the preview.
func (k *Keeper) quoteBuyExactAssetsIn(ctx sdk.Context, cfg *types.OwnerConfig, pool *types.Pool, assetsIn uint64, hasReferrer bool) (FeeBreakdown, uint64, error) {
	fees, err := splitFees(assetsIn, cfg, hasReferrer)
	if err != nil {
		return FeeBreakdown{}, 0, err
	}
	sharesOut, err := SharesOutForExactAssetsIn(pool, ctx.BlockTime().Unix(), fees.Net)
	if err != nil {
		return FeeBreakdown{}, 0, err
	}
	if err := checkBuyCaps(pool, fees.Gross, sharesOut); err != nil {
		return FeeBreakdown{}, 0, err
	}
	return fees, sharesOut, nil
}

// quoteBuyExactSharesOut is the shared buy pipeline for an exact share
// amount: pricing for the net asset requirement, gross-up for fees, cap
// checks against the grossed amount.
func (k *Keeper) quoteBuyExactSharesOut(ctx sdk.Context, cfg *types.OwnerConfig, pool *types.Pool, sharesOut uint64, hasReferrer bool) (FeeBreakdown, error) {
	rawAssetsIn, err := AssetsInForExactSharesOut(pool, ctx.BlockTime().Unix(), sharesOut)
	if err != nil {
		return FeeBreakdown{}, err
	}
	gross, err := grossUpNet(rawAssetsIn, cfg)
	if err != nil {
		return FeeBreakdown{}, err
	}
	fees, err := splitFees(gross, cfg, hasReferrer)
	if err != nil {
		return FeeBreakdown{}, err
	}
	if err := checkBuyCaps(pool, fees.Gross, sharesOut); err != nil {
		return FeeBreakdown{}, err
	}
	return fees, nil
}

// quoteSellExactSharesIn is the shared sell pipeline for an exact gross
// share amount. Sell-side fees are taken in shares and carry no referral
// component: the would-be referral portion accrues to the platform.
func (k *Keeper) quoteSellExactSharesIn(ctx sdk.Context, cfg *types.OwnerConfig, pool *types.Pool, sharesIn uint64) (FeeBreakdown, uint64, error) {
	fees, err := splitFees(sharesIn, cfg, false)
	if err != nil {
		return FeeBreakdown{}, 0, err
	}
	assetsOut, err := AssetsOutForExactSharesIn(pool, ctx.BlockTime().Unix(), fees.Net)
	if err != nil {
		return FeeBreakdown{}, 0, err
	}
	return fees, assetsOut, nil
}

// quoteSellExactAssetsOut is the shared sell pipeline for an exact asset
// amount.
func (k *Keeper) quoteSellExactAssetsOut(ctx sdk.Context, cfg *types.OwnerConfig, pool *types.Pool, assetsOut uint64) (FeeBreakdown, error) {
	rawSharesIn, err := SharesInForExactAssetsOut(pool, ctx.BlockTime().Unix(), assetsOut)
	if err != nil {
		return FeeBreakdown{}, err
	}
	gross, err := grossUpNet(rawSharesIn, cfg)
	if err != nil {
		return FeeBreakdown{}, err
	}
	fees, err := splitFees(gross, cfg, false)
	if err != nil {
		return FeeBreakdown{}, err
	}
	return fees, nil
}

// loadSwapState fetches the owner config and pool, failing before any
// computation when either is missing.
func (k *Keeper) loadSwapState(ctx sdk.Context, poolID string) (*types.OwnerConfig, *types.Pool, error) {
	cfg := k.GetOwnerConfig(ctx)
	if cfg == nil {
		return nil, nil, types.ErrConfigNotFound
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, nil, types.ErrPoolNotFound
	}
	return cfg, pool, nil
}

// commitBuy applies a validated buy to pool and user state. Every amount
// was computed on in-memory copies, so a failure before this point leaves
// the store untouched.
func (k *Keeper) commitBuy(ctx sdk.Context, pool *types.Pool, caller, referrer string, fees FeeBreakdown, sharesOut uint64) (*SwapResult, error) {
	now := ctx.BlockTime().Unix()

	assetReserve, err := lbpmath.CheckedAdd(pool.AssetReserve, fees.Net)
	if err != nil {
		return nil, err
	}
	shareReserve, err := lbpmath.CheckedSub(pool.ShareReserve, sharesOut)
	if err != nil {
		return nil, err
	}
	totalPurchased, err := lbpmath.CheckedAdd(pool.TotalPurchased, sharesOut)
	if err != nil {
		return nil, err
	}
	totalSwapFees, err := lbpmath.CheckedAdd(pool.TotalSwapFeesAsset, fees.Swap)
	if err != nil {
		return nil, err
	}

	user := k.getOrCreateUserState(ctx, pool.PoolID, caller)
	purchased, err := lbpmath.CheckedAdd(user.PurchasedShares, sharesOut)
	if err != nil {
		return nil, err
	}

	pool.AssetReserve = assetReserve
	pool.ShareReserve = shareReserve
	pool.TotalPurchased = totalPurchased
	pool.TotalSwapFeesAsset = totalSwapFees
	pool.UpdatedAt = now
	user.PurchasedShares = purchased
	user.UpdatedAt = now

	if fees.Referral > 0 {
		if err := k.creditReferral(ctx, pool, referrer, fees.Referral); err != nil {
			return nil, err
		}
	}

	k.SetUserState(ctx, user)
	k.SetPool(ctx, pool)

	result := &SwapResult{
		PoolID:      pool.PoolID,
		User:        caller,
		Assets:      fees.Gross,
		Shares:      sharesOut,
		SwapFee:     fees.Swap,
		PlatformFee: fees.Platform,
		ReferralFee: fees.Referral,
	}
	k.emitSwapEvent(ctx, types.EventTypeBuy, result, referrer)

	k.logger.Info("Buy committed",
		"pool_id", pool.PoolID,
		"user", caller,
		"assets_in", fees.Gross,
		"shares_out", sharesOut,
		"swap_fee", fees.Swap,
	)
	return result, nil
}

// commitSell applies a validated sell to pool and user state.
func (k *Keeper) commitSell(ctx sdk.Context, pool *types.Pool, caller string, fees FeeBreakdown, assetsOut uint64) (*SwapResult, error) {
	now := ctx.BlockTime().Unix()

	user := k.GetUserState(ctx, pool.PoolID, caller)
	if user == nil {
		return nil, types.ErrInsufficientShares
	}
	sellable, err := lbpmath.CheckedSub(user.PurchasedShares, user.RedeemedShares)
	if err != nil || sellable < fees.Gross {
		return nil, types.ErrInsufficientShares
	}

	shareReserve, err := lbpmath.CheckedAdd(pool.ShareReserve, fees.Net)
	if err != nil {
		return nil, err
	}
	assetReserve, err := lbpmath.CheckedSub(pool.AssetReserve, assetsOut)
	if err != nil {
		return nil, err
	}
	totalPurchased, err := lbpmath.CheckedSub(pool.TotalPurchased, fees.Gross)
	if err != nil {
		return nil, err
	}
	totalSwapFees, err := lbpmath.CheckedAdd(pool.TotalSwapFeesShare, fees.Swap)
	if err != nil {
		return nil, err
	}

	pool.ShareReserve = shareReserve
	pool.AssetReserve = assetReserve
	pool.TotalPurchased = totalPurchased
	pool.TotalSwapFeesShare = totalSwapFees
	pool.UpdatedAt = now
	user.PurchasedShares -= fees.Gross
	user.UpdatedAt = now

	k.SetUserState(ctx, user)
	k.SetPool(ctx, pool)

	result := &SwapResult{
		PoolID:      pool.PoolID,
		User:        caller,
		Assets:      assetsOut,
		Shares:      fees.Gross,
		SwapFee:     fees.Swap,
		PlatformFee: fees.Platform,
		ReferralFee: 0,
	}
	k.emitSwapEvent(ctx, types.EventTypeSell, result, "")

	k.logger.Info("Sell committed",
		"pool_id", pool.PoolID,
		"user", caller,
		"shares_in", fees.Gross,
		"assets_out", assetsOut,
		"swap_fee", fees.Swap,
	)
	return result, nil
}

func (k *Keeper) emitSwapEvent(ctx sdk.Context, eventType string, result *SwapResult, referrer string) {
	attrs := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyPoolID, result.PoolID),
		sdk.NewAttribute(types.AttributeKeyUser, result.User),
		sdk.NewAttribute(types.AttributeKeyAssets, strconv.FormatUint(result.Assets, 10)),
		sdk.NewAttribute(types.AttributeKeyShares, strconv.FormatUint(result.Shares, 10)),
		sdk.NewAttribute(types.AttributeKeySwapFee, strconv.FormatUint(result.SwapFee, 10)),
	}
	if referrer != "" {
		attrs = append(attrs, sdk.NewAttribute(types.AttributeKeyReferrer, referrer))
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(eventType, attrs...))
}

// SwapExactAssetsForShares buys shares with an exact asset amount, failing
// SlippageExceeded when fewer than minSharesOut would be credited.
func (k *Keeper) SwapExactAssetsForShares(ctx sdk.Context, caller, poolID string, assetsIn, minSharesOut uint64, proof [][32]byte, referrer string) (*SwapResult, error) {
	cfg, pool, err := k.loadSwapState(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if err := checkAdmission(pool, ctx.BlockTime().Unix(), caller, false, proof); err != nil {
		return nil, err
	}

	hasReferrer := hasValidReferrer(caller, referrer)
	fees, sharesOut, err := k.quoteBuyExactAssetsIn(ctx, cfg, pool, assetsIn, hasReferrer)
	if err != nil {
		return nil, err
	}
	if sharesOut < minSharesOut {
		return nil, types.ErrSlippageExceeded
	}

	if !hasReferrer {
		referrer = ""
	}
	return k.commitBuy(ctx, pool, caller, referrer, fees, sharesOut)
}

// SwapAssetsForExactShares buys an exact share amount, failing
// SlippageExceeded when more than maxAssetsIn would be charged.
func (k *Keeper) SwapAssetsForExactShares(ctx sdk.Context, caller, poolID string, sharesOut, maxAssetsIn uint64, proof [][32]byte, referrer string) (*SwapResult, error) {
	cfg, pool, err := k.loadSwapState(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if err := checkAdmission(pool, ctx.BlockTime().Unix(), caller, false, proof); err != nil {
		return nil, err
	}

	hasReferrer := hasValidReferrer(caller, referrer)
	fees, err := k.quoteBuyExactSharesOut(ctx, cfg, pool, sharesOut, hasReferrer)
	if err != nil {
		return nil, err
	}
	if fees.Gross > maxAssetsIn {
		return nil, types.ErrSlippageExceeded
	}

	if !hasReferrer {
		referrer = ""
	}
	return k.commitBuy(ctx, pool, caller, referrer, fees, sharesOut)
}

// SwapExactSharesForAssets sells an exact share amount, failing
// SlippageExceeded when fewer than minAssetsOut would be paid out.
func (k *Keeper) SwapExactSharesForAssets(ctx sdk.Context, caller, poolID string, sharesIn, minAssetsOut uint64, proof [][32]byte) (*SwapResult, error) {
	cfg, pool, err := k.loadSwapState(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if err := checkAdmission(pool, ctx.BlockTime().Unix(), caller, true, proof); err != nil {
		return nil, err
	}

	fees, assetsOut, err := k.quoteSellExactSharesIn(ctx, cfg, pool, sharesIn)
	if err != nil {
		return nil, err
	}
	if assetsOut < minAssetsOut {
		return nil, types.ErrSlippageExceeded
	}

	return k.commitSell(ctx, pool, caller, fees, assetsOut)
}

// SwapSharesForExactAssets sells shares for an exact asset amount, failing
// SlippageExceeded when more than maxSharesIn would be taken.
func (k *Keeper) SwapSharesForExactAssets(ctx sdk.Context, caller, poolID string, assetsOut, maxSharesIn uint64, proof [][32]byte) (*SwapResult, error) {
	cfg, pool, err := k.loadSwapState(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if err := checkAdmission(pool, ctx.BlockTime().Unix(), caller, true, proof); err != nil {
		return nil, err
	}

	fees, err := k.quoteSellExactAssetsOut(ctx, cfg, pool, assetsOut)
	if err != nil {
		return nil, err
	}
	if fees.Gross > maxSharesIn {
		return nil, types.ErrSlippageExceeded
	}

	return k.commitSell(ctx, pool, caller, fees, assetsOut)
}
