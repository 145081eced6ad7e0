package keeper

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lbp-dex/x/lbp/types"
)

// Previews are read-only quotes over a single atomic snapshot of pool state.
// They run the exact pipeline the mutating swaps run, fee split included,
// and discard the mutation, so for identical pre-swap state the previewed
// amount equals the amount a swap would realize. Only the time-window and
// closed-flag gates apply: previews carry no caller identity, so whitelist
// and blocked-caller checks cannot.

func (k *Keeper) previewGate(pool *types.Pool, now int64) error {
	if pool.Closed {
		return types.ErrTradingDisallowed
	}
	if now < pool.SaleStartTime || now >= pool.SaleEndTime {
		return types.ErrTradingDisallowed
	}
	return nil
}

func (k *Keeper) emitPreviewEvent(ctx sdk.Context, eventType, poolID string, value uint64) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
			sdk.NewAttribute(types.AttributeKeyValue, strconv.FormatUint(value, 10)),
		),
	)
}

// PreviewSharesOut quotes the shares credited for an exact asset amount.
func (k *Keeper) PreviewSharesOut(ctx sdk.Context, poolID string, assetsIn uint64) (uint64, error) {
	cfg, pool, err := k.loadSwapState(ctx, poolID)
	if err != nil {
		return 0, err
	}
	if err := k.previewGate(pool, ctx.BlockTime().Unix()); err != nil {
		return 0, err
	}

	_, sharesOut, err := k.quoteBuyExactAssetsIn(ctx, cfg, pool, assetsIn, false)
	if err != nil {
		return 0, err
	}
	k.emitPreviewEvent(ctx, types.EventTypePreviewSharesOut, poolID, sharesOut)
	return sharesOut, nil
}

// PreviewAssetsIn quotes the assets charged for an exact share amount.
func (k *Keeper) PreviewAssetsIn(ctx sdk.Context, poolID string, sharesOut uint64) (uint64, error) {
	cfg, pool, err := k.loadSwapState(ctx, poolID)
	if err != nil {
		return 0, err
	}
	if err := k.previewGate(pool, ctx.BlockTime().Unix()); err != nil {
		return 0, err
	}

	fees, err := k.quoteBuyExactSharesOut(ctx, cfg, pool, sharesOut, false)
	if err != nil {
		return 0, err
	}
	k.emitPreviewEvent(ctx, types.EventTypePreviewAssetsIn, poolID, fees.Gross)
	return fees.Gross, nil
}

// PreviewAssetsOut quotes the assets paid out for an exact share amount.
func (k *Keeper) PreviewAssetsOut(ctx sdk.Context, poolID string, sharesIn uint64) (uint64, error) {
	cfg, pool, err := k.loadSwapState(ctx, poolID)
	if err != nil {
		return 0, err
	}
	if err := k.previewGate(pool, ctx.BlockTime().Unix()); err != nil {
		return 0, err
	}

	_, assetsOut, err := k.quoteSellExactSharesIn(ctx, cfg, pool, sharesIn)
	if err != nil {
		return 0, err
	}
	k.emitPreviewEvent(ctx, types.EventTypePreviewAssetsOut, poolID, assetsOut)
	return assetsOut, nil
}

// PreviewSharesIn quotes the shares taken for an exact asset amount.
func (k *Keeper) PreviewSharesIn(ctx sdk.Context, poolID string, assetsOut uint64) (uint64, error) {
	cfg, pool, err := k.loadSwapState(ctx, poolID)
	if err != nil {
		return 0, err
	}
	if err := k.previewGate(pool, ctx.BlockTime().Unix()); err != nil {
		return 0, err
	}

	fees, err := k.quoteSellExactAssetsOut(ctx, cfg, pool, assetsOut)
	if err != nil {
		return 0, err
	}
	k.emitPreviewEvent(ctx, types.EventTypePreviewSharesIn, poolID, fees.Gross)
	return fees.Gross, nil
}
