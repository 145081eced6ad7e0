package keeper

import (
	"encoding/json"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/lbp-dex/x/lbp/types"
)

// Store key prefixes
var (
	PoolKeyPrefix      = []byte{0x01}
	UserStateKeyPrefix = []byte{0x02}
	OwnerConfigKey     = []byte{0x03}
)

// Keeper manages the lbp module state
type Keeper struct {
	cdc      codec.BinaryCodec
	storeKey storetypes.StoreKey
	logger   log.Logger
}

// NewKeeper creates a new lbp keeper
func NewKeeper(cdc codec.BinaryCodec, storeKey storetypes.StoreKey, logger log.Logger) *Keeper {
	return &Keeper{
		cdc:      cdc,
		storeKey: storeKey,
		logger:   logger.With("module", "x/lbp"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// ============ Pool Operations ============

func poolKey(poolID string) []byte {
	return append(PoolKeyPrefix, []byte(poolID)...)
}

// SetPool saves a pool to the store
func (k *Keeper) SetPool(ctx sdk.Context, pool *types.Pool) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(pool)
	store.Set(poolKey(pool.PoolID), bz)
}

// GetPool retrieves a pool from the store
func (k *Keeper) GetPool(ctx sdk.Context, poolID string) *types.Pool {
	store := k.GetStore(ctx)
	bz := store.Get(poolKey(poolID))
	if bz == nil {
		return nil
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil
	}
	return &pool
}

// HasPool reports whether a pool exists
func (k *Keeper) HasPool(ctx sdk.Context, poolID string) bool {
	return k.GetStore(ctx).Has(poolKey(poolID))
}

// GetAllPools returns all pools
func (k *Keeper) GetAllPools(ctx sdk.Context) []*types.Pool {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, PoolKeyPrefix)
	defer iterator.Close()

	var pools []*types.Pool
	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			continue
		}
		pools = append(pools, &pool)
	}
	return pools
}

// ============ User State Operations ============

func userStateKey(poolID, user string) []byte {
	return append(UserStateKeyPrefix, []byte(poolID+":"+user)...)
}

// SetUserState saves a user's position record
func (k *Keeper) SetUserState(ctx sdk.Context, state *types.UserStateInPool) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(state)
	store.Set(userStateKey(state.PoolID, state.User), bz)
}

// GetUserState retrieves a user's position record, or nil if the user never
// bought into the pool
func (k *Keeper) GetUserState(ctx sdk.Context, poolID, user string) *types.UserStateInPool {
	store := k.GetStore(ctx)
	bz := store.Get(userStateKey(poolID, user))
	if bz == nil {
		return nil
	}
	var state types.UserStateInPool
	if err := json.Unmarshal(bz, &state); err != nil {
		return nil
	}
	return &state
}

// getOrCreateUserState returns the existing position or a fresh one; user
// state is created lazily on first purchase
func (k *Keeper) getOrCreateUserState(ctx sdk.Context, poolID, user string) *types.UserStateInPool {
	if state := k.GetUserState(ctx, poolID, user); state != nil {
		return state
	}
	return types.NewUserStateInPool(poolID, user, ctx.BlockTime().Unix())
}

// GetPoolUserStates returns every position record for a pool
func (k *Keeper) GetPoolUserStates(ctx sdk.Context, poolID string) []*types.UserStateInPool {
	store := k.GetStore(ctx)
	prefix := append(UserStateKeyPrefix, []byte(poolID+":")...)
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	var states []*types.UserStateInPool
	for ; iterator.Valid(); iterator.Next() {
		var state types.UserStateInPool
		if err := json.Unmarshal(iterator.Value(), &state); err != nil {
			continue
		}
		states = append(states, &state)
	}
	return states
}

// ============ Owner Config ============

// SetOwnerConfig saves the singleton owner config
func (k *Keeper) SetOwnerConfig(ctx sdk.Context, cfg *types.OwnerConfig) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(cfg)
	store.Set(OwnerConfigKey, bz)
}

// GetOwnerConfig retrieves the owner config, or nil before initialization
func (k *Keeper) GetOwnerConfig(ctx sdk.Context) *types.OwnerConfig {
	store := k.GetStore(ctx)
	bz := store.Get(OwnerConfigKey)
	if bz == nil {
		return nil
	}
	var cfg types.OwnerConfig
	if err := json.Unmarshal(bz, &cfg); err != nil {
		return nil
	}
	return &cfg
}
