package types

import (
	"cosmossdk.io/errors"
)

// Module error codes.
//
// Codes 1-19 are configuration errors raised at initialization time, 20-39
// are admission errors a caller can retry with adjusted parameters, 40+ are
// authorization and bookkeeping failures.
var (
	ErrInvalidAssetOrShare = errors.Register(ModuleName, 1, "invalid asset or share token")
	ErrSalePeriodLow       = errors.Register(ModuleName, 2, "sale period below minimum duration")
	ErrInvalidVestCliff    = errors.Register(ModuleName, 3, "vest cliff before sale end")
	ErrInvalidVestEnd      = errors.Register(ModuleName, 4, "vest end before vest cliff")
	ErrInvalidWeightConfig = errors.Register(ModuleName, 5, "weight outside valid basis point range")
	ErrInvalidAssetValue   = errors.Register(ModuleName, 6, "invalid asset value")
	ErrMaxFeeExceeded      = errors.Register(ModuleName, 7, "fee exceeds maximum basis points")

	ErrAssetsInExceeded    = errors.Register(ModuleName, 20, "assets in exceeds pool cap")
	ErrSharesOutExceeded   = errors.Register(ModuleName, 21, "shares out exceeds pool cap")
	ErrWhitelistProof      = errors.Register(ModuleName, 22, "whitelist proof missing or invalid")
	ErrSlippageExceeded    = errors.Register(ModuleName, 23, "slippage bound exceeded")
	ErrSellingDisallowed   = errors.Register(ModuleName, 24, "selling disallowed for this pool")
	ErrTradingDisallowed   = errors.Register(ModuleName, 25, "trading disallowed")
	ErrClosingDisallowed   = errors.Register(ModuleName, 26, "pool cannot be closed yet")
	ErrRedeemingDisallowed = errors.Register(ModuleName, 27, "no shares redeemable yet")
	ErrCallerDisallowed    = errors.Register(ModuleName, 28, "caller disallowed")
	ErrInsufficientShares  = errors.Register(ModuleName, 29, "insufficient purchased shares")

	ErrUnauthorized        = errors.Register(ModuleName, 40, "unauthorized")
	ErrPoolNotFound        = errors.Register(ModuleName, 41, "pool not found")
	ErrPoolAlreadyExists   = errors.Register(ModuleName, 42, "pool already exists for asset/share/creator")
	ErrConfigNotFound      = errors.Register(ModuleName, 43, "owner config not initialized")
	ErrConfigAlreadyExists = errors.Register(ModuleName, 44, "owner config already initialized")
	ErrNoPendingOwner      = errors.Register(ModuleName, 45, "no pending owner nominated")
)
