package keeper

import (
	"errors"
	"testing"

	"github.com/openalpha/lbp-dex/x/lbp/types"
)

func feeConfig(platformBp, referralBp, swapBp uint64) *types.OwnerConfig {
	return &types.OwnerConfig{
		Owner:         "owner",
		FeeRecipient:  "treasury",
		PlatformFeeBp: platformBp,
		ReferralFeeBp: referralBp,
		SwapFeeBp:     swapBp,
	}
}

// TestSplitFeesConservation checks that the fee split is exact for every
// gross amount: the four parts always sum back to the gross, and the total
// deduction does not depend on referrer presence.
func TestSplitFeesConservation(t *testing.T) {
	cfg := feeConfig(100, 50, 30)

	for _, gross := range []uint64{1, 7, 999, 10_000, 123_457} {
		withRef, err := splitFees(gross, cfg, true)
		if err != nil {
			t.Fatalf("split failed for %d: %v", gross, err)
		}
		withoutRef, err := splitFees(gross, cfg, false)
		if err != nil {
			t.Fatalf("split failed for %d: %v", gross, err)
		}

		for name, fees := range map[string]FeeBreakdown{"with referrer": withRef, "without referrer": withoutRef} {
			if sum := fees.Platform + fees.Referral + fees.Swap + fees.Net; sum != gross {
				t.Errorf("%s: parts sum to %d for gross %d", name, sum, gross)
			}
		}
		if withoutRef.Referral != 0 {
			t.Errorf("expected no referral fee without referrer, got %d", withoutRef.Referral)
		}
		if withRef.Net != withoutRef.Net {
			t.Errorf("net depends on referrer presence: %d vs %d", withRef.Net, withoutRef.Net)
		}
		if withoutRef.Platform != withRef.Platform+withRef.Referral {
			t.Errorf("referral fee not folded into platform: %d vs %d+%d",
				withoutRef.Platform, withRef.Platform, withRef.Referral)
		}
	}
}

// TestSplitFeesZeroConfig checks the no-fee path passes the gross through
func TestSplitFeesZeroConfig(t *testing.T) {
	fees, err := splitFees(10_000, feeConfig(0, 0, 0), true)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if fees.Net != 10_000 || fees.Platform != 0 || fees.Referral != 0 || fees.Swap != 0 {
		t.Errorf("expected zero fees and full net, got %+v", fees)
	}
}

// TestGrossUpNetInverse checks that grossing up a net amount and splitting
// the result yields at least that net, within the flooring slack of the
// three fee components.
func TestGrossUpNetInverse(t *testing.T) {
	configs := []*types.OwnerConfig{
		feeConfig(100, 50, 30),
		feeConfig(0, 0, 0),
		feeConfig(9000, 500, 400),
	}

	for _, cfg := range configs {
		for _, net := range []uint64{1, 999, 12_345, 1_000_000} {
			gross, err := grossUpNet(net, cfg)
			if err != nil {
				t.Fatalf("gross-up failed for %d: %v", net, err)
			}
			fees, err := splitFees(gross, cfg, true)
			if err != nil {
				t.Fatalf("split failed for %d: %v", gross, err)
			}
			if fees.Net < net {
				t.Errorf("grossed amount %d leaves net %d, wanted at least %d", gross, fees.Net, net)
			}
			if fees.Net > net+4 {
				t.Errorf("grossed amount %d overshoots: net %d for target %d", gross, fees.Net, net)
			}
		}
	}
}

// TestGrossUpNetFeeCap checks that a combined fee of 100% or more is
// rejected rather than dividing by zero
func TestGrossUpNetFeeCap(t *testing.T) {
	if _, err := grossUpNet(1000, feeConfig(9000, 500, 500)); !errors.Is(err, types.ErrMaxFeeExceeded) {
		t.Errorf("expected ErrMaxFeeExceeded, got %v", err)
	}
}

// TestHasValidReferrer checks the referral admission rule
func TestHasValidReferrer(t *testing.T) {
	if hasValidReferrer("alice", "") {
		t.Error("empty referrer accepted")
	}
	if hasValidReferrer("alice", "alice") {
		t.Error("self referral accepted")
	}
	if !hasValidReferrer("alice", "bob") {
		t.Error("valid referrer rejected")
	}
}
