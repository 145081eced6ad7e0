package keeper

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/openalpha/lbp-dex/x/lbp/types"
)

// TestSwapExactAssetsForShares walks one buy at the weight midpoint, where
// the quote is exact: 10000 gross assets, 180bp total fees, 9820 net into
// a balanced 1M/1M pool buys floor(9820 * 1M / 1009820) = 9724 shares.
func TestSwapExactAssetsForShares(t *testing.T) {
	k, ctx, pool := setupSale(t)
	ctx = atTime(ctx, 1500)

	result, err := k.SwapExactAssetsForShares(ctx, "alice", pool.PoolID, 10_000, 0, nil, "")
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}

	if result.Assets != 10_000 {
		t.Errorf("expected 10000 gross assets, got %d", result.Assets)
	}
	if result.Shares != 9724 {
		t.Errorf("expected 9724 shares out, got %d", result.Shares)
	}
	// without a referrer the 50bp referral fee accrues to the platform
	if result.PlatformFee != 150 || result.ReferralFee != 0 || result.SwapFee != 30 {
		t.Errorf("unexpected fee split: %+v", result)
	}

	stored := k.GetPool(ctx, pool.PoolID)
	if stored.AssetReserve != 1_000_000+9820 {
		t.Errorf("expected asset reserve 1009820, got %d", stored.AssetReserve)
	}
	if stored.ShareReserve != 1_000_000-9724 {
		t.Errorf("expected share reserve 990276, got %d", stored.ShareReserve)
	}
	if stored.TotalPurchased != 9724 {
		t.Errorf("expected total purchased 9724, got %d", stored.TotalPurchased)
	}
	if stored.TotalSwapFeesAsset != 30 {
		t.Errorf("expected asset swap fees 30, got %d", stored.TotalSwapFeesAsset)
	}

	user := k.GetUserState(ctx, pool.PoolID, "alice")
	if user == nil || user.PurchasedShares != 9724 {
		t.Fatalf("expected alice to hold 9724 shares, got %+v", user)
	}
}

// TestPreviewMatchesSwap checks the quote identity: a preview and the swap
// executed at the same block time over the same state realize the same
// amounts for all four directions.
func TestPreviewMatchesSwap(t *testing.T) {
	k, ctx, pool := setupSale(t)
	ctx = atTime(ctx, 1400)

	previewShares, err := k.PreviewSharesOut(ctx, pool.PoolID, 10_000)
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	bought, err := k.SwapExactAssetsForShares(ctx, "alice", pool.PoolID, 10_000, previewShares, nil, "")
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	if bought.Shares != previewShares {
		t.Errorf("preview %d != swap %d", previewShares, bought.Shares)
	}

	previewAssets, err := k.PreviewAssetsIn(ctx, pool.PoolID, 5000)
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	exact, err := k.SwapAssetsForExactShares(ctx, "alice", pool.PoolID, 5000, previewAssets, nil, "")
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	if exact.Assets != previewAssets {
		t.Errorf("preview %d != swap %d", previewAssets, exact.Assets)
	}

	previewOut, err := k.PreviewAssetsOut(ctx, pool.PoolID, 3000)
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	sold, err := k.SwapExactSharesForAssets(ctx, "alice", pool.PoolID, 3000, previewOut, nil)
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	if sold.Assets != previewOut {
		t.Errorf("preview %d != swap %d", previewOut, sold.Assets)
	}

	previewIn, err := k.PreviewSharesIn(ctx, pool.PoolID, 1000)
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	drained, err := k.SwapSharesForExactAssets(ctx, "alice", pool.PoolID, 1000, previewIn, nil)
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	if drained.Shares != previewIn {
		t.Errorf("preview %d != swap %d", previewIn, drained.Shares)
	}
}

// TestSaleWindowBoundaries checks the half-open trading window: the first
// second of the sale trades, the last timestamp does not.
func TestSaleWindowBoundaries(t *testing.T) {
	k, ctx, pool := setupSale(t)

	if _, err := k.SwapExactAssetsForShares(atTime(ctx, 999), "alice", pool.PoolID, 1000, 0, nil, ""); !errors.Is(err, types.ErrTradingDisallowed) {
		t.Errorf("expected ErrTradingDisallowed before sale start, got %v", err)
	}
	if _, err := k.SwapExactAssetsForShares(atTime(ctx, 1000), "alice", pool.PoolID, 1000, 0, nil, ""); err != nil {
		t.Errorf("expected swap at sale start to pass, got %v", err)
	}
	if _, err := k.SwapExactAssetsForShares(atTime(ctx, 2000), "alice", pool.PoolID, 1000, 0, nil, ""); !errors.Is(err, types.ErrTradingDisallowed) {
		t.Errorf("expected ErrTradingDisallowed at sale end, got %v", err)
	}
	if _, err := k.PreviewSharesOut(atTime(ctx, 2000), pool.PoolID, 1000); !errors.Is(err, types.ErrTradingDisallowed) {
		t.Errorf("expected preview at sale end to fail, got %v", err)
	}
}

// TestClosedPoolRejectsTrading checks the closed flag gates both swaps and
// previews even inside the sale window
func TestClosedPoolRejectsTrading(t *testing.T) {
	k, ctx, pool := setupSale(t)

	pool.Closed = true
	k.SetPool(ctx, pool)

	ctx = atTime(ctx, 1500)
	if _, err := k.SwapExactAssetsForShares(ctx, "alice", pool.PoolID, 1000, 0, nil, ""); !errors.Is(err, types.ErrTradingDisallowed) {
		t.Errorf("expected ErrTradingDisallowed, got %v", err)
	}
	if _, err := k.PreviewSharesOut(ctx, pool.PoolID, 1000); !errors.Is(err, types.ErrTradingDisallowed) {
		t.Errorf("expected preview to fail, got %v", err)
	}
}

// TestCreatorBlockedFromTrading checks the creator cannot trade against
// their own pool
func TestCreatorBlockedFromTrading(t *testing.T) {
	k, ctx, pool := setupSale(t)
	ctx = atTime(ctx, 1500)

	if _, err := k.SwapExactAssetsForShares(ctx, "creator", pool.PoolID, 1000, 0, nil, ""); !errors.Is(err, types.ErrCallerDisallowed) {
		t.Errorf("expected ErrCallerDisallowed, got %v", err)
	}
}

// TestSellingDisallowed checks the sell flag blocks both sell directions
// while buys keep working
func TestSellingDisallowed(t *testing.T) {
	k, ctx := setupKeeper(t)
	ctx = atTime(ctx, 500)
	setupConfig(t, k, ctx, 100, 50, 30)

	params := launchParams()
	params.SellingAllowed = false
	pool := launchPool(t, k, ctx, params)

	ctx = atTime(ctx, 1500)
	if _, err := k.SwapExactAssetsForShares(ctx, "alice", pool.PoolID, 10_000, 0, nil, ""); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if _, err := k.SwapExactSharesForAssets(ctx, "alice", pool.PoolID, 1000, 0, nil); !errors.Is(err, types.ErrSellingDisallowed) {
		t.Errorf("expected ErrSellingDisallowed, got %v", err)
	}
	if _, err := k.SwapSharesForExactAssets(ctx, "alice", pool.PoolID, 1000, 1<<62, nil); !errors.Is(err, types.ErrSellingDisallowed) {
		t.Errorf("expected ErrSellingDisallowed, got %v", err)
	}
}

func pairHash(a, b [32]byte) [32]byte {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return sha256.Sum256(append(a[:], b[:]...))
}

// TestWhitelistGate checks a pool with a merkle root admits only provable
// members
func TestWhitelistGate(t *testing.T) {
	k, ctx := setupKeeper(t)
	ctx = atTime(ctx, 500)
	setupConfig(t, k, ctx, 0, 0, 0)

	aliceLeaf := types.WhitelistLeaf("alice")
	bobLeaf := types.WhitelistLeaf("bob")

	params := launchParams()
	params.WhitelistMerkleRoot = pairHash(aliceLeaf, bobLeaf)
	pool := launchPool(t, k, ctx, params)

	ctx = atTime(ctx, 1500)
	if _, err := k.SwapExactAssetsForShares(ctx, "alice", pool.PoolID, 1000, 0, [][32]byte{bobLeaf}, ""); err != nil {
		t.Errorf("expected whitelisted buy to pass, got %v", err)
	}
	if _, err := k.SwapExactAssetsForShares(ctx, "alice", pool.PoolID, 1000, 0, nil, ""); !errors.Is(err, types.ErrWhitelistProof) {
		t.Errorf("expected ErrWhitelistProof without proof, got %v", err)
	}
	if _, err := k.SwapExactAssetsForShares(ctx, "mallory", pool.PoolID, 1000, 0, [][32]byte{bobLeaf}, ""); !errors.Is(err, types.ErrWhitelistProof) {
		t.Errorf("expected ErrWhitelistProof for non-member, got %v", err)
	}
}

// TestBuyCaps checks each per-trade cap maps to its admission error
func TestBuyCaps(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*types.PoolCreationParams)
		err    error
	}{
		{"assets in cap", func(p *types.PoolCreationParams) { p.MaxAssetsIn = 5000 }, types.ErrAssetsInExceeded},
		{"shares out cap", func(p *types.PoolCreationParams) { p.MaxSharesOut = 100 }, types.ErrSharesOutExceeded},
		{"share price cap", func(p *types.PoolCreationParams) { p.MaxSharePrice = 1 }, types.ErrAssetsInExceeded},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			k, ctx := setupKeeper(t)
			ctx = atTime(ctx, 500)
			setupConfig(t, k, ctx, 100, 50, 30)

			params := launchParams()
			tc.mutate(&params)
			pool := launchPool(t, k, ctx, params)

			ctx = atTime(ctx, 1500)
			if _, err := k.SwapExactAssetsForShares(ctx, "alice", pool.PoolID, 10_000, 0, nil, ""); !errors.Is(err, tc.err) {
				t.Errorf("expected %v, got %v", tc.err, err)
			}
		})
	}
}

// TestSlippageLeavesStateUntouched checks a slippage failure happens after
// the quote but before any state mutation
func TestSlippageLeavesStateUntouched(t *testing.T) {
	k, ctx, pool := setupSale(t)
	ctx = atTime(ctx, 1500)

	quote, err := k.PreviewSharesOut(ctx, pool.PoolID, 10_000)
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if _, err := k.SwapExactAssetsForShares(ctx, "alice", pool.PoolID, 10_000, quote+1, nil, ""); !errors.Is(err, types.ErrSlippageExceeded) {
		t.Fatalf("expected ErrSlippageExceeded, got %v", err)
	}

	stored := k.GetPool(ctx, pool.PoolID)
	if stored.AssetReserve != pool.AssetReserve || stored.ShareReserve != pool.ShareReserve {
		t.Errorf("failed swap mutated reserves: %+v", stored)
	}
	if user := k.GetUserState(ctx, pool.PoolID, "alice"); user != nil {
		t.Errorf("failed swap created user state: %+v", user)
	}

	if _, err := k.SwapAssetsForExactShares(ctx, "alice", pool.PoolID, quote, 9_999, nil, ""); !errors.Is(err, types.ErrSlippageExceeded) {
		t.Errorf("expected ErrSlippageExceeded on exact-out buy, got %v", err)
	}
}

// TestSellRequiresPurchasedShares checks sells are bounded by the unredeemed
// purchased balance
func TestSellRequiresPurchasedShares(t *testing.T) {
	k, ctx, pool := setupSale(t)
	ctx = atTime(ctx, 1500)

	if _, err := k.SwapExactSharesForAssets(ctx, "bob", pool.PoolID, 100, 0, nil); !errors.Is(err, types.ErrInsufficientShares) {
		t.Errorf("expected ErrInsufficientShares, got %v", err)
	}

	bought, err := k.SwapExactAssetsForShares(ctx, "alice", pool.PoolID, 10_000, 0, nil, "")
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if _, err := k.SwapExactSharesForAssets(ctx, "alice", pool.PoolID, bought.Shares+1, 0, nil); !errors.Is(err, types.ErrInsufficientShares) {
		t.Errorf("expected ErrInsufficientShares above balance, got %v", err)
	}
}

// TestBuyThenSellRoundTrip checks a full position exit pays out less than
// was paid in and returns the position to zero
func TestBuyThenSellRoundTrip(t *testing.T) {
	k, ctx, pool := setupSale(t)
	ctx = atTime(ctx, 1500)

	bought, err := k.SwapExactAssetsForShares(ctx, "alice", pool.PoolID, 10_000, 0, nil, "")
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	sold, err := k.SwapExactSharesForAssets(ctx, "alice", pool.PoolID, bought.Shares, 0, nil)
	if err != nil {
		t.Fatalf("sell failed: %v", err)
	}

	if sold.Assets >= bought.Assets {
		t.Errorf("round trip profited: paid %d, received %d", bought.Assets, sold.Assets)
	}

	user := k.GetUserState(ctx, pool.PoolID, "alice")
	if user.PurchasedShares != 0 {
		t.Errorf("expected empty position, got %d shares", user.PurchasedShares)
	}
	stored := k.GetPool(ctx, pool.PoolID)
	if stored.TotalPurchased != 0 {
		t.Errorf("expected total purchased back to 0, got %d", stored.TotalPurchased)
	}
	if stored.TotalSwapFeesShare != sold.SwapFee {
		t.Errorf("expected share-side swap fees %d, got %d", sold.SwapFee, stored.TotalSwapFeesShare)
	}
}

// TestReferralAccounting checks the referral fee is booked against the
// referrer's position and the pool total, and that self referral degrades
// to the no-referrer split
func TestReferralAccounting(t *testing.T) {
	k, ctx, pool := setupSale(t)
	ctx = atTime(ctx, 1500)

	result, err := k.SwapExactAssetsForShares(ctx, "alice", pool.PoolID, 10_000, 0, nil, "ref")
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if result.ReferralFee != 50 || result.PlatformFee != 100 {
		t.Errorf("unexpected fee split with referrer: %+v", result)
	}

	refState := k.GetUserState(ctx, pool.PoolID, "ref")
	if refState == nil || refState.ReferredAssets != 50 {
		t.Fatalf("expected referrer credited 50, got %+v", refState)
	}
	if stored := k.GetPool(ctx, pool.PoolID); stored.TotalReferred != 50 {
		t.Errorf("expected pool total referred 50, got %d", stored.TotalReferred)
	}

	selfRef, err := k.SwapExactAssetsForShares(ctx, "bob", pool.PoolID, 10_000, 0, nil, "bob")
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if selfRef.ReferralFee != 0 {
		t.Errorf("self referral earned a fee: %+v", selfRef)
	}
}

// TestSwapMissingState checks the lookup failures surface before any math
func TestSwapMissingState(t *testing.T) {
	k, ctx := setupKeeper(t)
	ctx = atTime(ctx, 1500)

	if _, err := k.SwapExactAssetsForShares(ctx, "alice", "nope", 1000, 0, nil, ""); !errors.Is(err, types.ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}

	setupConfig(t, k, ctx, 0, 0, 0)
	if _, err := k.SwapExactAssetsForShares(ctx, "alice", "nope", 1000, 0, nil, ""); !errors.Is(err, types.ErrPoolNotFound) {
		t.Errorf("expected ErrPoolNotFound, got %v", err)
	}
}
