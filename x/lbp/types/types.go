package types

import (
	"crypto/sha256"
	"encoding/hex"
)

// Module name and store key
const (
	ModuleName = "lbp"
	StoreKey   = ModuleName
)

// Weight and fee units
const (
	// WeightBase is the basis point denominator; weights and fees are
	// expressed in units of 1/10000.
	WeightBase = uint64(10_000)

	// MinWeightBp / MaxWeightBp bound each side's weight so the opposite
	// side always keeps a positive weight.
	MinWeightBp = uint64(1)
	MaxWeightBp = uint64(9_999)

	// MaxFeeBps caps each fee independently at 100%.
	MaxFeeBps = uint64(10_000)

	// MinSaleDuration is the shortest allowed sale window, in seconds.
	MinSaleDuration = int64(600)

	// SharePriceScale scales the assets-per-share price for the
	// MaxSharePrice cap: price = assetsIn * SharePriceScale / sharesOut.
	SharePriceScale = uint64(1_000_000_000)
)

// Pool status, derived from block time except Closed
const (
	PoolStatusPending = "pending"
	PoolStatusActive  = "active"
	PoolStatusEnded   = "ended"
	PoolStatusClosed  = "closed"
)

// Swap sides for preview queries and the API surface
const (
	SideSharesOutForAssetsIn = "shares_out"
	SideAssetsInForSharesOut = "assets_in"
	SideAssetsOutForSharesIn = "assets_out"
	SideSharesInForAssetsOut = "shares_in"
)

// ZeroRoot is the all-zero whitelist root; it disables whitelist checks.
var ZeroRoot [32]byte

// Pool is the per-sale state record. Identity, virtual reserves, caps,
// weights and the sale/vest schedule are immutable after initialization;
// reserves, flags and running counters mutate with every committed swap.
type Pool struct {
	PoolID     string `json:"pool_id"`
	AssetToken string `json:"asset_token"`
	ShareToken string `json:"share_token"`
	Creator    string `json:"creator"`

	// Real reserves; virtual reserves are added on top for every pricing
	// calculation and are never withdrawable.
	AssetReserve  uint64 `json:"asset_reserve"`
	ShareReserve  uint64 `json:"share_reserve"`
	VirtualAssets uint64 `json:"virtual_assets"`
	VirtualShares uint64 `json:"virtual_shares"`

	// Per-trade hard caps checked on every buy
	MaxSharePrice uint64 `json:"max_share_price"`
	MaxSharesOut  uint64 `json:"max_shares_out"`
	MaxAssetsIn   uint64 `json:"max_assets_in"`

	// Weight schedule, basis points of the share side
	StartWeightBp uint64 `json:"start_weight_bp"`
	EndWeightBp   uint64 `json:"end_weight_bp"`
	SaleStartTime int64  `json:"sale_start_time"`
	SaleEndTime   int64  `json:"sale_end_time"`

	// Vesting schedule for purchased shares
	VestCliff int64 `json:"vest_cliff"`
	VestEnd   int64 `json:"vest_end"`

	SellingAllowed bool `json:"selling_allowed"`
	Closed         bool `json:"closed"`

	// Running counters
	TotalPurchased      uint64 `json:"total_purchased"`
	TotalReferred       uint64 `json:"total_referred"`
	TotalSwapFeesAsset  uint64 `json:"total_swap_fees_asset"`
	TotalSwapFeesShare  uint64 `json:"total_swap_fees_share"`

	WhitelistMerkleRoot [32]byte `json:"whitelist_merkle_root"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// DerivePoolID produces the stable pool key for an asset/share/creator
// triple; one pool may exist per triple.
func DerivePoolID(assetToken, shareToken, creator string) string {
	h := sha256.Sum256([]byte(assetToken + "|" + shareToken + "|" + creator))
	return hex.EncodeToString(h[:])
}

// WhitelistEnforced reports whether a non-zero merkle root is set.
func (p *Pool) WhitelistEnforced() bool {
	return p.WhitelistMerkleRoot != ZeroRoot
}

// Status returns the lifecycle state at the given block time.
func (p *Pool) Status(now int64) string {
	switch {
	case p.Closed:
		return PoolStatusClosed
	case now < p.SaleStartTime:
		return PoolStatusPending
	case now < p.SaleEndTime:
		return PoolStatusActive
	default:
		return PoolStatusEnded
	}
}

// UserStateInPool tracks a buyer's position in one pool, created lazily on
// first purchase. RedeemedShares never exceeds PurchasedShares.
type UserStateInPool struct {
	PoolID string `json:"pool_id"`
	User   string `json:"user"`

	PurchasedShares uint64 `json:"purchased_shares"`
	ReferredAssets  uint64 `json:"referred_assets"`
	RedeemedShares  uint64 `json:"redeemed_shares"`

	UpdatedAt int64 `json:"updated_at"`
}

// OwnerConfig is the singleton fee/governance record. Ownership transfer is
// two-phase: the current owner nominates, the nominee accepts.
type OwnerConfig struct {
	Owner        string `json:"owner"`
	PendingOwner string `json:"pending_owner,omitempty"`
	FeeRecipient string `json:"fee_recipient"`

	PlatformFeeBp uint64 `json:"platform_fee_bp"`
	ReferralFeeBp uint64 `json:"referral_fee_bp"`
	SwapFeeBp     uint64 `json:"swap_fee_bp"`

	UpdatedAt int64 `json:"updated_at"`
}

// ValidateFees rejects any fee above MaxFeeBps.
func (c *OwnerConfig) ValidateFees() error {
	if c.PlatformFeeBp > MaxFeeBps || c.ReferralFeeBp > MaxFeeBps || c.SwapFeeBp > MaxFeeBps {
		return ErrMaxFeeExceeded
	}
	return nil
}

// PoolCreationParams carries every immutable field of a new pool plus the
// seed reserves transferred in at initialization.
type PoolCreationParams struct {
	Creator    string `json:"creator"`
	AssetToken string `json:"asset_token"`
	ShareToken string `json:"share_token"`

	Assets        uint64 `json:"assets"`
	Shares        uint64 `json:"shares"`
	VirtualAssets uint64 `json:"virtual_assets"`
	VirtualShares uint64 `json:"virtual_shares"`

	MaxSharePrice uint64 `json:"max_share_price"`
	MaxSharesOut  uint64 `json:"max_shares_out"`
	MaxAssetsIn   uint64 `json:"max_assets_in"`

	StartWeightBp uint64 `json:"start_weight_bp"`
	EndWeightBp   uint64 `json:"end_weight_bp"`
	SaleStartTime int64  `json:"sale_start_time"`
	SaleEndTime   int64  `json:"sale_end_time"`
	VestCliff     int64  `json:"vest_cliff"`
	VestEnd       int64  `json:"vest_end"`

	WhitelistMerkleRoot [32]byte `json:"whitelist_merkle_root"`
	SellingAllowed      bool     `json:"selling_allowed"`
}

// Validate checks every pool invariant; each violation maps to a distinct
// configuration error.
func (p *PoolCreationParams) Validate() error {
	if p.AssetToken == "" || p.ShareToken == "" || p.AssetToken == p.ShareToken {
		return ErrInvalidAssetOrShare
	}
	if p.Creator == "" {
		return ErrInvalidAssetOrShare
	}
	if p.SaleEndTime-p.SaleStartTime < MinSaleDuration {
		return ErrSalePeriodLow
	}
	if p.VestCliff < p.SaleEndTime {
		return ErrInvalidVestCliff
	}
	if p.VestEnd < p.VestCliff {
		return ErrInvalidVestEnd
	}
	if p.StartWeightBp < MinWeightBp || p.StartWeightBp > MaxWeightBp {
		return ErrInvalidWeightConfig
	}
	if p.EndWeightBp < MinWeightBp || p.EndWeightBp > MaxWeightBp {
		return ErrInvalidWeightConfig
	}
	if p.Assets+p.VirtualAssets == 0 || p.Shares+p.VirtualShares == 0 {
		return ErrInvalidAssetValue
	}
	if p.MaxSharePrice == 0 || p.MaxSharesOut == 0 || p.MaxAssetsIn == 0 {
		return ErrInvalidAssetValue
	}
	return nil
}

// NewPool builds the initial pool record from validated creation params.
func NewPool(params PoolCreationParams, now int64) *Pool {
	return &Pool{
		PoolID:              DerivePoolID(params.AssetToken, params.ShareToken, params.Creator),
		AssetToken:          params.AssetToken,
		ShareToken:          params.ShareToken,
		Creator:             params.Creator,
		AssetReserve:        params.Assets,
		ShareReserve:        params.Shares,
		VirtualAssets:       params.VirtualAssets,
		VirtualShares:       params.VirtualShares,
		MaxSharePrice:       params.MaxSharePrice,
		MaxSharesOut:        params.MaxSharesOut,
		MaxAssetsIn:         params.MaxAssetsIn,
		StartWeightBp:       params.StartWeightBp,
		EndWeightBp:         params.EndWeightBp,
		SaleStartTime:       params.SaleStartTime,
		SaleEndTime:         params.SaleEndTime,
		VestCliff:           params.VestCliff,
		VestEnd:             params.VestEnd,
		WhitelistMerkleRoot: params.WhitelistMerkleRoot,
		SellingAllowed:      params.SellingAllowed,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// NewUserStateInPool creates an empty position record.
func NewUserStateInPool(poolID, user string, now int64) *UserStateInPool {
	return &UserStateInPool{
		PoolID:    poolID,
		User:      user,
		UpdatedAt: now,
	}
}
