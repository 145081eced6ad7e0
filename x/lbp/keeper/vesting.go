package keeper

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	lbpmath "github.com/openalpha/lbp-dex/x/lbp/math"
	"github.com/openalpha/lbp-dex/x/lbp/types"
)

// RedeemableShares computes the shares releasable at the given time:
// purchased * clamp((now - cliff) / (vestEnd - cliff), 0, 1) - redeemed.
// A cliff equal to the vest end releases everything at the cliff.
func RedeemableShares(pool *types.Pool, user *types.UserStateInPool, now int64) (uint64, error) {
	if now < pool.VestCliff {
		return 0, nil
	}

	vested := user.PurchasedShares
	if now < pool.VestEnd {
		elapsed := uint64(now - pool.VestCliff)
		duration := uint64(pool.VestEnd - pool.VestCliff)
		var err error
		vested, err = lbpmath.CheckedMulDiv(user.PurchasedShares, elapsed, duration)
		if err != nil {
			return 0, err
		}
	}
	return lbpmath.CheckedSub(vested, user.RedeemedShares)
}

// Redeem releases every currently-vested share of the caller's position.
// It fails RedeemingDisallowed before the cliff and once the position is
// fully redeemed.
func (k *Keeper) Redeem(ctx sdk.Context, caller, poolID string) (uint64, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return 0, types.ErrPoolNotFound
	}
	user := k.GetUserState(ctx, poolID, caller)
	if user == nil {
		return 0, types.ErrRedeemingDisallowed
	}

	now := ctx.BlockTime().Unix()
	if now < pool.VestCliff {
		return 0, types.ErrRedeemingDisallowed
	}
	if user.RedeemedShares >= user.PurchasedShares {
		return 0, types.ErrRedeemingDisallowed
	}

	releasable, err := RedeemableShares(pool, user, now)
	if err != nil {
		return 0, err
	}
	if releasable == 0 {
		return 0, types.ErrRedeemingDisallowed
	}

	redeemed, err := lbpmath.CheckedAdd(user.RedeemedShares, releasable)
	if err != nil {
		return 0, err
	}
	user.RedeemedShares = redeemed
	user.UpdatedAt = now
	k.SetUserState(ctx, user)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRedeem,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
			sdk.NewAttribute(types.AttributeKeyUser, caller),
			sdk.NewAttribute(types.AttributeKeyShares, strconv.FormatUint(releasable, 10)),
		),
	)

	k.logger.Info("Shares redeemed",
		"pool_id", poolID,
		"user", caller,
		"shares", releasable,
	)
	return releasable, nil
}
