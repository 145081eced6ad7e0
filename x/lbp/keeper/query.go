package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lbp-dex/x/lbp/types"
)

// QueryServer defines the lbp QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// Pool returns a pool by ID
func (q *QueryServer) Pool(ctx context.Context, poolID string) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := q.keeper.GetPool(sdkCtx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	return pool, nil
}

// Pools returns all pools with offset pagination
func (q *QueryServer) Pools(ctx context.Context, offset, limit uint64) ([]*types.Pool, uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	allPools := q.keeper.GetAllPools(sdkCtx)

	total := uint64(len(allPools))
	if offset >= total {
		return []*types.Pool{}, total, nil
	}

	end := offset + limit
	if end > total || limit == 0 {
		end = total
	}

	return allPools[offset:end], total, nil
}

// PoolsByStatus returns pools whose lifecycle status at block time matches
func (q *QueryServer) PoolsByStatus(ctx context.Context, status string) ([]*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	now := sdkCtx.BlockTime().Unix()

	var matched []*types.Pool
	for _, pool := range q.keeper.GetAllPools(sdkCtx) {
		if pool.Status(now) == status {
			matched = append(matched, pool)
		}
	}
	return matched, nil
}

// UserState returns a user's position in a pool along with the share amount
// currently releasable under the vesting schedule
func (q *QueryServer) UserState(ctx context.Context, poolID, user string) (*types.UserStateInPool, uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := q.keeper.GetPool(sdkCtx, poolID)
	if pool == nil {
		return nil, 0, types.ErrPoolNotFound
	}

	now := sdkCtx.BlockTime().Unix()
	state := q.keeper.GetUserState(sdkCtx, poolID, user)
	if state == nil {
		state = types.NewUserStateInPool(poolID, user, now)
	}

	releasable, err := RedeemableShares(pool, state, now)
	if err != nil {
		return nil, 0, err
	}
	return state, releasable, nil
}

// PoolUserStates returns every recorded position in a pool
func (q *QueryServer) PoolUserStates(ctx context.Context, poolID string) ([]*types.UserStateInPool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if !q.keeper.HasPool(sdkCtx, poolID) {
		return nil, types.ErrPoolNotFound
	}
	return q.keeper.GetPoolUserStates(sdkCtx, poolID), nil
}

// OwnerConfig returns the singleton fee configuration
func (q *QueryServer) OwnerConfig(ctx context.Context) (*types.OwnerConfig, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cfg := q.keeper.GetOwnerConfig(sdkCtx)
	if cfg == nil {
		return nil, types.ErrConfigNotFound
	}
	return cfg, nil
}

// PreviewSharesOut quotes a buy with exact assets in
func (q *QueryServer) PreviewSharesOut(ctx context.Context, poolID string, assetsIn uint64) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return q.keeper.PreviewSharesOut(sdkCtx, poolID, assetsIn)
}

// PreviewAssetsIn quotes a buy with exact shares out
func (q *QueryServer) PreviewAssetsIn(ctx context.Context, poolID string, sharesOut uint64) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return q.keeper.PreviewAssetsIn(sdkCtx, poolID, sharesOut)
}

// PreviewAssetsOut quotes a sell with exact shares in
func (q *QueryServer) PreviewAssetsOut(ctx context.Context, poolID string, sharesIn uint64) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return q.keeper.PreviewAssetsOut(sdkCtx, poolID, sharesIn)
}

// PreviewSharesIn quotes a sell with exact assets out
func (q *QueryServer) PreviewSharesIn(ctx context.Context, poolID string, assetsOut uint64) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return q.keeper.PreviewSharesIn(sdkCtx, poolID, assetsOut)
}
