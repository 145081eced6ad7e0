package keeper

import (
	"errors"
	"testing"

	lbpmath "github.com/openalpha/lbp-dex/x/lbp/math"
	"github.com/openalpha/lbp-dex/x/lbp/types"
)

func testPool() *types.Pool {
	return types.NewPool(launchParams(), 0)
}

// TestSharesOutAtSaleStart checks the exact-in buy quote at the start
// weights (share 90% / asset 10%): 1000 assets into a 1M/1M pool buys
// 1M * (1 - (1M/1.001M)^(1/9)) = 111.05 shares, truncated to 111.
func TestSharesOutAtSaleStart(t *testing.T) {
	pool := testPool()

	out, err := SharesOutForExactAssetsIn(pool, pool.SaleStartTime, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != 111 {
		t.Errorf("expected 111 shares out, got %d", out)
	}
}

// TestZeroAmountQuotes checks that zero in or out quotes to zero
func TestZeroAmountQuotes(t *testing.T) {
	pool := testPool()
	now := pool.SaleStartTime

	if out, err := SharesOutForExactAssetsIn(pool, now, 0); err != nil || out != 0 {
		t.Errorf("expected 0 shares for 0 assets, got %d err %v", out, err)
	}
	if in, err := AssetsInForExactSharesOut(pool, now, 0); err != nil || in != 0 {
		t.Errorf("expected 0 assets for 0 shares, got %d err %v", in, err)
	}
	if out, err := AssetsOutForExactSharesIn(pool, now, 0); err != nil || out != 0 {
		t.Errorf("expected 0 assets for 0 shares in, got %d err %v", out, err)
	}
	if in, err := SharesInForExactAssetsOut(pool, now, 0); err != nil || in != 0 {
		t.Errorf("expected 0 shares for 0 assets out, got %d err %v", in, err)
	}
}

// TestTradeMagnitudeGuards checks the per-trade reserve-fraction limits
func TestTradeMagnitudeGuards(t *testing.T) {
	pool := testPool()
	now := pool.SaleStartTime

	// exact-in may consume at most half the in-side reserve
	if _, err := SharesOutForExactAssetsIn(pool, now, 500_001); !errors.Is(err, lbpmath.ErrAmountInTooLarge) {
		t.Errorf("expected ErrAmountInTooLarge, got %v", err)
	}
	if _, err := SharesOutForExactAssetsIn(pool, now, 500_000); err != nil {
		t.Errorf("expected half-reserve trade to pass, got %v", err)
	}

	// exact-out may drain at most a third of the out-side reserve
	if _, err := AssetsInForExactSharesOut(pool, now, 333_334); !errors.Is(err, lbpmath.ErrAmountOutTooLarge) {
		t.Errorf("expected ErrAmountOutTooLarge, got %v", err)
	}

	// the pool cannot sell its entire share reserve
	if _, err := AssetsInForExactSharesOut(pool, now, 1_000_000); !errors.Is(err, types.ErrSharesOutExceeded) {
		t.Errorf("expected ErrSharesOutExceeded, got %v", err)
	}
	if _, err := SharesInForExactAssetsOut(pool, now, 1_000_000); !errors.Is(err, lbpmath.ErrAmountOutTooLarge) {
		t.Errorf("expected ErrAmountOutTooLarge for full asset drain, got %v", err)
	}
}

// TestExtremeWeightQuoteFails checks that a near-total share weight cannot
// drive the power routine past its range. With a 9999/1 split the exact-out
// exponent is 9999; draining a third of the share reserve raises the base
// to 1.5 and the quote must fail cleanly instead of panicking.
func TestExtremeWeightQuoteFails(t *testing.T) {
	params := launchParams()
	params.Assets = 3_000_000
	params.Shares = 3_000_000
	params.StartWeightBp = 9999
	pool := types.NewPool(params, 0)

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("exact-out quote panicked on valid input: %v", r)
		}
	}()

	if _, err := AssetsInForExactSharesOut(pool, pool.SaleStartTime, 1_000_000); !errors.Is(err, lbpmath.ErrExponentiationOverflow) {
		t.Errorf("expected ErrExponentiationOverflow, got %v", err)
	}
}

// TestBuyRoundTripFavorsPool checks that quoting exact-in and then pricing
// the resulting output exact-out never asks for more than the original
// input. Rounding always lands on the pool's side.
func TestBuyRoundTripFavorsPool(t *testing.T) {
	pool := testPool()
	now := pool.SaleStartTime + 400

	for _, assetsIn := range []uint64{1000, 10_000, 250_000} {
		out, err := SharesOutForExactAssetsIn(pool, now, assetsIn)
		if err != nil {
			t.Fatalf("exact-in quote failed for %d: %v", assetsIn, err)
		}
		in, err := AssetsInForExactSharesOut(pool, now, out)
		if err != nil {
			t.Fatalf("exact-out quote failed for %d shares: %v", out, err)
		}
		if in > assetsIn {
			t.Errorf("round trip for %d assets asked for %d", assetsIn, in)
		}
		if in < assetsIn-assetsIn/50 {
			t.Errorf("round trip for %d assets lost too much: %d", assetsIn, in)
		}
	}
}

// TestSellRoundTripFavorsPool is the sell-side mirror of the buy round trip
func TestSellRoundTripFavorsPool(t *testing.T) {
	pool := testPool()
	now := pool.SaleStartTime + 400

	for _, sharesIn := range []uint64{1000, 10_000, 250_000} {
		out, err := AssetsOutForExactSharesIn(pool, now, sharesIn)
		if err != nil {
			t.Fatalf("exact-in quote failed for %d: %v", sharesIn, err)
		}
		in, err := SharesInForExactAssetsOut(pool, now, out)
		if err != nil {
			t.Fatalf("exact-out quote failed for %d assets: %v", out, err)
		}
		if in > sharesIn+1 {
			t.Errorf("round trip for %d shares asked for %d", sharesIn, in)
		}
	}
}

// TestSharePriceFallsOverTime checks the bootstrapping property: with
// reserves held constant, the same asset amount buys strictly more shares
// at every later point of the sale as the share weight declines.
func TestSharePriceFallsOverTime(t *testing.T) {
	pool := testPool()

	var prev uint64
	for _, now := range []int64{1000, 1250, 1500, 1750, 1999} {
		out, err := SharesOutForExactAssetsIn(pool, now, 10_000)
		if err != nil {
			t.Fatalf("quote failed at %d: %v", now, err)
		}
		if out <= prev {
			t.Errorf("expected shares out at t=%d to exceed %d, got %d", now, prev, out)
		}
		prev = out
	}
}

// TestWeightsPinOutsideWindow checks that quotes before the sale start use
// the start weights and quotes at or after the end use the end weights
func TestWeightsPinOutsideWindow(t *testing.T) {
	pool := testPool()

	early, err := SharesOutForExactAssetsIn(pool, 0, 10_000)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	atStart, err := SharesOutForExactAssetsIn(pool, pool.SaleStartTime, 10_000)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if early != atStart {
		t.Errorf("expected pre-sale quote %d to match sale-start quote %d", early, atStart)
	}

	late, err := SharesOutForExactAssetsIn(pool, pool.SaleEndTime+500, 10_000)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	atEnd, err := SharesOutForExactAssetsIn(pool, pool.SaleEndTime, 10_000)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if late != atEnd {
		t.Errorf("expected post-sale quote %d to match sale-end quote %d", late, atEnd)
	}
}

// TestVirtualReservesRaisePrice checks that virtual assets deepen the asset
// side and make shares more expensive without being withdrawable
func TestVirtualReservesRaisePrice(t *testing.T) {
	plain := testPool()

	params := launchParams()
	params.VirtualAssets = 1_000_000
	augmented := types.NewPool(params, 0)

	now := plain.SaleStartTime
	plainOut, err := SharesOutForExactAssetsIn(plain, now, 10_000)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	augmentedOut, err := SharesOutForExactAssetsIn(augmented, now, 10_000)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if augmentedOut >= plainOut {
		t.Errorf("expected virtual assets to reduce shares out: plain %d, augmented %d", plainOut, augmentedOut)
	}
}
