package keeper

import (
	"errors"
	"testing"

	"github.com/openalpha/lbp-dex/x/lbp/types"
)

func uintPtr(v uint64) *uint64 { return &v }
func strPtr(s string) *string  { return &s }

// TestInitializeOwnerConfig checks the singleton setup happens exactly once
func TestInitializeOwnerConfig(t *testing.T) {
	k, ctx := setupKeeper(t)

	cfg, err := k.InitializeOwnerConfig(ctx, "owner", "treasury", 100, 50, 30)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if cfg.Owner != "owner" || cfg.FeeRecipient != "treasury" {
		t.Errorf("unexpected config: %+v", cfg)
	}

	if _, err := k.InitializeOwnerConfig(ctx, "other", "other", 0, 0, 0); !errors.Is(err, types.ErrConfigAlreadyExists) {
		t.Errorf("expected ErrConfigAlreadyExists, got %v", err)
	}
}

// TestInitializeOwnerConfigFeeCap checks each fee is bounded independently
func TestInitializeOwnerConfigFeeCap(t *testing.T) {
	k, ctx := setupKeeper(t)

	if _, err := k.InitializeOwnerConfig(ctx, "owner", "treasury", 10_001, 0, 0); !errors.Is(err, types.ErrMaxFeeExceeded) {
		t.Errorf("expected ErrMaxFeeExceeded, got %v", err)
	}
	if k.GetOwnerConfig(ctx) != nil {
		t.Error("rejected config was persisted")
	}
}

// TestSetFees checks partial updates keep omitted fields
func TestSetFees(t *testing.T) {
	k, ctx := setupKeeper(t)
	setupConfig(t, k, ctx, 100, 50, 30)

	cfg, err := k.SetFees(ctx, "owner", nil, uintPtr(200), nil, nil)
	if err != nil {
		t.Fatalf("set fees failed: %v", err)
	}
	if cfg.PlatformFeeBp != 200 || cfg.ReferralFeeBp != 50 || cfg.SwapFeeBp != 30 {
		t.Errorf("partial update clobbered fields: %+v", cfg)
	}

	cfg, err = k.SetFees(ctx, "owner", strPtr("vault"), nil, nil, nil)
	if err != nil {
		t.Fatalf("set fees failed: %v", err)
	}
	if cfg.FeeRecipient != "vault" || cfg.PlatformFeeBp != 200 {
		t.Errorf("recipient update clobbered fields: %+v", cfg)
	}

	if _, err := k.SetFees(ctx, "mallory", nil, uintPtr(0), nil, nil); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := k.SetFees(ctx, "owner", nil, uintPtr(10_001), nil, nil); !errors.Is(err, types.ErrMaxFeeExceeded) {
		t.Errorf("expected ErrMaxFeeExceeded, got %v", err)
	}
}

// TestOwnershipTransfer walks the two-phase transfer
func TestOwnershipTransfer(t *testing.T) {
	k, ctx := setupKeeper(t)
	setupConfig(t, k, ctx, 100, 50, 30)

	if err := k.NominateNewOwner(ctx, "mallory", "mallory"); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if err := k.AcceptNewOwner(ctx, "heir"); !errors.Is(err, types.ErrNoPendingOwner) {
		t.Errorf("expected ErrNoPendingOwner, got %v", err)
	}

	if err := k.NominateNewOwner(ctx, "owner", "heir"); err != nil {
		t.Fatalf("nominate failed: %v", err)
	}

	// nomination alone transfers nothing
	if cfg := k.GetOwnerConfig(ctx); cfg.Owner != "owner" || cfg.PendingOwner != "heir" {
		t.Errorf("unexpected config after nomination: %+v", cfg)
	}
	if err := k.AcceptNewOwner(ctx, "mallory"); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for wrong acceptor, got %v", err)
	}

	if err := k.AcceptNewOwner(ctx, "heir"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	cfg := k.GetOwnerConfig(ctx)
	if cfg.Owner != "heir" || cfg.PendingOwner != "" {
		t.Errorf("unexpected config after transfer: %+v", cfg)
	}

	// the old owner lost control, the new one has it
	if _, err := k.SetFees(ctx, "owner", nil, uintPtr(0), nil, nil); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected old owner to be locked out, got %v", err)
	}
	if _, err := k.SetFees(ctx, "heir", nil, uintPtr(0), nil, nil); err != nil {
		t.Errorf("expected new owner to control fees, got %v", err)
	}
}

// TestRenomination checks the owner can replace a pending nominee
func TestRenomination(t *testing.T) {
	k, ctx := setupKeeper(t)
	setupConfig(t, k, ctx, 0, 0, 0)

	if err := k.NominateNewOwner(ctx, "owner", "first"); err != nil {
		t.Fatalf("nominate failed: %v", err)
	}
	if err := k.NominateNewOwner(ctx, "owner", "second"); err != nil {
		t.Fatalf("renominate failed: %v", err)
	}
	if err := k.AcceptNewOwner(ctx, "first"); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected replaced nominee to be rejected, got %v", err)
	}
	if err := k.AcceptNewOwner(ctx, "second"); err != nil {
		t.Errorf("expected current nominee to accept, got %v", err)
	}
}
