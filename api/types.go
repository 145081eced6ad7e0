package api

import (
	"time"

	"github.com/openalpha/lbp-dex/x/lbp/types"
)

// PoolView is the wire representation of one pool, with the derived fields
// a client needs alongside the raw state
type PoolView struct {
	PoolID     string `json:"pool_id"`
	AssetToken string `json:"asset_token"`
	ShareToken string `json:"share_token"`
	Creator    string `json:"creator"`

	AssetReserve  uint64 `json:"asset_reserve"`
	ShareReserve  uint64 `json:"share_reserve"`
	VirtualAssets uint64 `json:"virtual_assets"`
	VirtualShares uint64 `json:"virtual_shares"`

	StartWeightBp uint64 `json:"start_weight_bp"`
	EndWeightBp   uint64 `json:"end_weight_bp"`
	ShareWeightBp uint64 `json:"share_weight_bp"`

	SaleStartTime int64 `json:"sale_start_time"`
	SaleEndTime   int64 `json:"sale_end_time"`
	VestCliff     int64 `json:"vest_cliff"`
	VestEnd       int64 `json:"vest_end"`

	SellingAllowed bool   `json:"selling_allowed"`
	Whitelisted    bool   `json:"whitelisted"`
	Status         string `json:"status"`

	TotalPurchased     uint64 `json:"total_purchased"`
	TotalReferred      uint64 `json:"total_referred"`
	TotalSwapFeesAsset uint64 `json:"total_swap_fees_asset"`
	TotalSwapFeesShare uint64 `json:"total_swap_fees_share"`
}

// NewPoolView projects a pool at the given time
func NewPoolView(pool *types.Pool, now int64) *PoolView {
	return &PoolView{
		PoolID:             pool.PoolID,
		AssetToken:         pool.AssetToken,
		ShareToken:         pool.ShareToken,
		Creator:            pool.Creator,
		AssetReserve:       pool.AssetReserve,
		ShareReserve:       pool.ShareReserve,
		VirtualAssets:      pool.VirtualAssets,
		VirtualShares:      pool.VirtualShares,
		StartWeightBp:      pool.StartWeightBp,
		EndWeightBp:        pool.EndWeightBp,
		ShareWeightBp:      pool.WeightAt(now).ShareWeightBp,
		SaleStartTime:      pool.SaleStartTime,
		SaleEndTime:        pool.SaleEndTime,
		VestCliff:          pool.VestCliff,
		VestEnd:            pool.VestEnd,
		SellingAllowed:     pool.SellingAllowed,
		Whitelisted:        pool.WhitelistEnforced(),
		Status:             pool.Status(now),
		TotalPurchased:     pool.TotalPurchased,
		TotalReferred:      pool.TotalReferred,
		TotalSwapFeesAsset: pool.TotalSwapFeesAsset,
		TotalSwapFeesShare: pool.TotalSwapFeesShare,
	}
}

// CreatePoolRequest carries the pool creation parameters plus the optional
// hex-encoded whitelist root
type CreatePoolRequest struct {
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

	WhitelistRoot  string `json:"whitelist_root,omitempty"`
	SellingAllowed bool   `json:"selling_allowed"`
}

// SwapRequest is one trade against a pool. Side selects the direction and
// which leg is exact; Limit is the caller's slippage bound on the other leg.
type SwapRequest struct {
	Caller      string   `json:"caller"`
	Side        string   `json:"side"`
	Amount      uint64   `json:"amount"`
	Limit       uint64   `json:"limit"`
	MerkleProof []string `json:"merkle_proof,omitempty"`
	Referrer    string   `json:"referrer,omitempty"`
}

// SwapResponse reports the realized amounts of a committed swap
type SwapResponse struct {
	PoolID      string `json:"pool_id"`
	User        string `json:"user"`
	Side        string `json:"side"`
	Assets      uint64 `json:"assets"`
	Shares      uint64 `json:"shares"`
	SwapFee     uint64 `json:"swap_fee"`
	PlatformFee uint64 `json:"platform_fee"`
	ReferralFee uint64 `json:"referral_fee"`
	Timestamp   int64  `json:"timestamp"`
}

// PreviewResponse is one read-only quote
type PreviewResponse struct {
	PoolID string `json:"pool_id"`
	Side   string `json:"side"`
	Amount uint64 `json:"amount"`
	Quote  uint64 `json:"quote"`
}

// UserStateView is a user's position plus the currently releasable shares
type UserStateView struct {
	PoolID          string `json:"pool_id"`
	User            string `json:"user"`
	PurchasedShares uint64 `json:"purchased_shares"`
	ReferredAssets  uint64 `json:"referred_assets"`
	RedeemedShares  uint64 `json:"redeemed_shares"`
	Releasable      uint64 `json:"releasable"`
}

// RedeemRequest releases the caller's vested shares
type RedeemRequest struct {
	Caller string `json:"caller"`
}

// RedeemResponse reports the released amount
type RedeemResponse struct {
	PoolID string `json:"pool_id"`
	User   string `json:"user"`
	Shares uint64 `json:"shares"`
}

// ClosePoolRequest marks an ended pool closed
type ClosePoolRequest struct {
	Caller string `json:"caller"`
}

// ConfigRequest initializes or updates the owner config. Pointer fields are
// optional on update.
type ConfigRequest struct {
	Owner         string  `json:"owner"`
	FeeRecipient  *string `json:"fee_recipient,omitempty"`
	PlatformFeeBp *uint64 `json:"platform_fee_bp,omitempty"`
	ReferralFeeBp *uint64 `json:"referral_fee_bp,omitempty"`
	SwapFeeBp     *uint64 `json:"swap_fee_bp,omitempty"`
}

// OwnerRequest carries the two-phase transfer calls
type OwnerRequest struct {
	Caller   string `json:"caller"`
	NewOwner string `json:"new_owner,omitempty"`
}

// NowMillis returns the current timestamp in milliseconds
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
