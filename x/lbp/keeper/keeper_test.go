package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lbp-dex/x/lbp/types"
)

// setupKeeper creates a test keeper with an in-memory store
func setupKeeper(tb testing.TB) (*Keeper, sdk.Context) {
	tb.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		tb.Fatalf("failed to load store: %v", err)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())

	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	return NewKeeper(cdc, storeKey, log.NewNopLogger()), ctx
}

// atTime pins the block time to the given unix second
func atTime(ctx sdk.Context, sec int64) sdk.Context {
	return ctx.WithBlockTime(time.Unix(sec, 0))
}

// setupConfig initializes the owner config with the given fee basis points
func setupConfig(tb testing.TB, k *Keeper, ctx sdk.Context, platformBp, referralBp, swapBp uint64) {
	tb.Helper()
	if _, err := k.InitializeOwnerConfig(ctx, "owner", "treasury", platformBp, referralBp, swapBp); err != nil {
		tb.Fatalf("failed to initialize owner config: %v", err)
	}
}

// launchParams returns a valid sale configuration: a million-by-million
// pool with the share weight declining from 90% to 10% over a 1000 second
// sale window, followed by a 1000 second linear vest.
func launchParams() types.PoolCreationParams {
	return types.PoolCreationParams{
		Creator:        "creator",
		AssetToken:     "uusdc",
		ShareToken:     "utoken",
		Assets:         1_000_000,
		Shares:         1_000_000,
		MaxSharePrice:  1 << 62,
		MaxSharesOut:   1 << 62,
		MaxAssetsIn:    1 << 62,
		StartWeightBp:  9000,
		EndWeightBp:    1000,
		SaleStartTime:  1000,
		SaleEndTime:    2000,
		VestCliff:      2000,
		VestEnd:        3000,
		SellingAllowed: true,
	}
}

func launchPool(tb testing.TB, k *Keeper, ctx sdk.Context, params types.PoolCreationParams) *types.Pool {
	tb.Helper()
	pool, err := k.InitializePool(ctx, params)
	if err != nil {
		tb.Fatalf("failed to initialize pool: %v", err)
	}
	return pool
}

// setupSale wires a keeper with default fees (1% platform, 0.5% referral,
// 0.3% swap) and one launched pool.
func setupSale(tb testing.TB) (*Keeper, sdk.Context, *types.Pool) {
	tb.Helper()
	k, ctx := setupKeeper(tb)
	ctx = atTime(ctx, 500)
	setupConfig(tb, k, ctx, 100, 50, 30)
	pool := launchPool(tb, k, ctx, launchParams())
	return k, ctx, pool
}
