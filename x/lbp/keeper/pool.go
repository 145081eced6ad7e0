package keeper

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lbp-dex/x/lbp/types"
)

// InitializePool validates every pool invariant, seeds the reserves and
// persists the new pool. One pool may exist per asset/share/creator triple.
func (k *Keeper) InitializePool(ctx sdk.Context, params types.PoolCreationParams) (*types.Pool, error) {
	if cfg := k.GetOwnerConfig(ctx); cfg == nil {
		return nil, types.ErrConfigNotFound
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	poolID := types.DerivePoolID(params.AssetToken, params.ShareToken, params.Creator)
	if k.HasPool(ctx, poolID) {
		return nil, types.ErrPoolAlreadyExists
	}

	pool := types.NewPool(params, ctx.BlockTime().Unix())
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolCreated,
			sdk.NewAttribute(types.AttributeKeyPoolID, pool.PoolID),
			sdk.NewAttribute(types.AttributeKeyCreator, pool.Creator),
			sdk.NewAttribute(types.AttributeKeyAssets, strconv.FormatUint(pool.AssetReserve, 10)),
			sdk.NewAttribute(types.AttributeKeyShares, strconv.FormatUint(pool.ShareReserve, 10)),
		),
	)

	k.logger.Info("Pool initialized",
		"pool_id", pool.PoolID,
		"creator", pool.Creator,
		"asset", pool.AssetToken,
		"share", pool.ShareToken,
		"sale_start", pool.SaleStartTime,
		"sale_end", pool.SaleEndTime,
	)
	return pool, nil
}

// ClosePool marks an ended pool closed. Closing is an explicit, terminal
// action by the pool creator or the config owner; a pool still inside its
// sale window cannot be closed.
func (k *Keeper) ClosePool(ctx sdk.Context, caller, poolID string) (*types.Pool, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}

	cfg := k.GetOwnerConfig(ctx)
	if cfg == nil {
		return nil, types.ErrConfigNotFound
	}
	if caller != pool.Creator && caller != cfg.Owner {
		return nil, types.ErrUnauthorized
	}

	now := ctx.BlockTime().Unix()
	if pool.Closed || now < pool.SaleEndTime {
		return nil, types.ErrClosingDisallowed
	}

	pool.Closed = true
	pool.UpdatedAt = now
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolClosed,
			sdk.NewAttribute(types.AttributeKeyPoolID, pool.PoolID),
			sdk.NewAttribute(types.AttributeKeySwapFee, strconv.FormatUint(pool.TotalSwapFeesAsset, 10)),
			sdk.NewAttribute(types.AttributeKeyShares, strconv.FormatUint(pool.TotalPurchased, 10)),
		),
	)

	k.logger.Info("Pool closed",
		"pool_id", pool.PoolID,
		"total_purchased", pool.TotalPurchased,
		"swap_fees_asset", pool.TotalSwapFeesAsset,
		"swap_fees_share", pool.TotalSwapFeesShare,
	)
	return pool, nil
}
