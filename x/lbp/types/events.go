package types

// Event types emitted by the lbp module
const (
	EventTypePoolCreated = "lbp_pool_created"
	EventTypePoolClosed  = "lbp_pool_closed"
	EventTypeBuy         = "lbp_buy"
	EventTypeSell        = "lbp_sell"
	EventTypeRedeem      = "lbp_redeem"

	EventTypePreviewSharesOut = "lbp_preview_shares_out"
	EventTypePreviewAssetsIn  = "lbp_preview_assets_in"
	EventTypePreviewAssetsOut = "lbp_preview_assets_out"
	EventTypePreviewSharesIn  = "lbp_preview_shares_in"

	EventTypeConfigInitialized = "lbp_config_initialized"
	EventTypeFeesUpdated       = "lbp_fees_updated"
	EventTypeOwnerNominated    = "lbp_owner_nominated"
	EventTypeOwnerAccepted     = "lbp_owner_accepted"
)

// Event attribute keys
const (
	AttributeKeyPoolID       = "pool_id"
	AttributeKeyUser         = "user"
	AttributeKeyCreator      = "creator"
	AttributeKeyAssets       = "assets"
	AttributeKeyShares       = "shares"
	AttributeKeySwapFee      = "swap_fee"
	AttributeKeyPlatformFee  = "platform_fee"
	AttributeKeyReferralFee  = "referral_fee"
	AttributeKeyReferrer     = "referrer"
	AttributeKeyValue        = "value"
	AttributeKeyOwner        = "owner"
	AttributeKeyPendingOwner = "pending_owner"
	AttributeKeyFeeRecipient = "fee_recipient"
)
