package api

import (
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	storemetrics "cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lbp-dex/history"
	"github.com/openalpha/lbp-dex/metrics"
	"github.com/openalpha/lbp-dex/x/lbp/keeper"
	"github.com/openalpha/lbp-dex/x/lbp/types"
)

// KeeperService drives the lbp keeper over an in-memory store. All calls
// are serialized through one mutex, so every operation sees one atomic
// snapshot of pool state. Block time is the wall clock at call time.
type KeeperService struct {
	keeper  *keeper.Keeper
	baseCtx sdk.Context
	mu      sync.Mutex

	collector *metrics.Collector
	history   *history.Store
	logger    log.Logger
}

// NewKeeperService creates a KeeperService with a fresh in-memory keeper
func NewKeeperService(logger log.Logger) (*KeeperService, error) {
	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), storemetrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	baseCtx := sdk.NewContext(stateStore, cmtproto.Header{Height: 1}, false, logger)

	return &KeeperService{
		keeper:    keeper.NewKeeper(cdc, storeKey, logger),
		baseCtx:   baseCtx,
		collector: metrics.GetCollector(),
		history:   history.NewStore(),
		logger:    logger.With("component", "api"),
	}, nil
}

// spotPrice is the marginal asset cost of one share at the pool's current
// balances and weights, virtual reserves included
func spotPrice(pool *types.Pool, now int64) float64 {
	weights := pool.WeightAt(now)
	assetBal := float64(pool.AssetReserve + pool.VirtualAssets)
	shareBal := float64(pool.ShareReserve + pool.VirtualShares)
	if shareBal == 0 || weights.AssetWeightBp == 0 {
		return 0
	}
	return assetBal * float64(weights.ShareWeightBp) / (shareBal * float64(weights.AssetWeightBp))
}

func (s *KeeperService) recordSample(pool *types.Pool, now int64, volume uint64) {
	weights := pool.WeightAt(now)
	s.history.Record(pool.PoolID, &history.PricePoint{
		Timestamp:     now,
		SharePrice:    spotPrice(pool, now),
		AssetReserve:  pool.AssetReserve,
		ShareReserve:  pool.ShareReserve,
		ShareWeightBp: weights.ShareWeightBp,
		Volume:        volume,
	})
}

// ctxNow returns a context pinned to the current wall clock
func (s *KeeperService) ctxNow() sdk.Context {
	return s.baseCtx.WithBlockTime(time.Now())
}

func decodeRoot(encoded string) ([32]byte, error) {
	var root [32]byte
	if encoded == "" {
		return root, nil
	}
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return root, fmt.Errorf("whitelist root: %w", err)
	}
	if len(raw) != 32 {
		return root, fmt.Errorf("whitelist root: expected 32 bytes, got %d", len(raw))
	}
	copy(root[:], raw)
	return root, nil
}

func decodeProof(encoded []string) ([][32]byte, error) {
	if len(encoded) == 0 {
		return nil, nil
	}
	proof := make([][32]byte, 0, len(encoded))
	for _, sibling := range encoded {
		raw, err := hex.DecodeString(sibling)
		if err != nil || len(raw) != 32 {
			return nil, types.ErrWhitelistProof
		}
		var node [32]byte
		copy(node[:], raw)
		proof = append(proof, node)
	}
	return proof, nil
}

// CreatePool initializes a new pool from the request
func (s *KeeperService) CreatePool(req *CreatePoolRequest) (*PoolView, error) {
	root, err := decodeRoot(req.WhitelistRoot)
	if err != nil {
		return nil, err
	}

	params := types.PoolCreationParams{
		Creator:             req.Creator,
		AssetToken:          req.AssetToken,
		ShareToken:          req.ShareToken,
		Assets:              req.Assets,
		Shares:              req.Shares,
		VirtualAssets:       req.VirtualAssets,
		VirtualShares:       req.VirtualShares,
		MaxSharePrice:       req.MaxSharePrice,
		MaxSharesOut:        req.MaxSharesOut,
		MaxAssetsIn:         req.MaxAssetsIn,
		StartWeightBp:       req.StartWeightBp,
		EndWeightBp:         req.EndWeightBp,
		SaleStartTime:       req.SaleStartTime,
		SaleEndTime:         req.SaleEndTime,
		VestCliff:           req.VestCliff,
		VestEnd:             req.VestEnd,
		WhitelistMerkleRoot: root,
		SellingAllowed:      req.SellingAllowed,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.ctxNow()
	pool, err := s.keeper.InitializePool(ctx, params)
	if err != nil {
		return nil, err
	}

	now := ctx.BlockTime().Unix()
	s.collector.UpdatePoolState(pool.PoolID, pool.AssetReserve, pool.ShareReserve,
		pool.WeightAt(now).ShareWeightBp, pool.TotalPurchased)
	s.recordSample(pool, now, 0)
	return NewPoolView(pool, now), nil
}

// ListPools returns every pool
func (s *KeeperService) ListPools() []*PoolView {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.ctxNow()
	now := ctx.BlockTime().Unix()

	pools := s.keeper.GetAllPools(ctx)
	views := make([]*PoolView, 0, len(pools))
	active := 0
	for _, pool := range pools {
		if pool.Status(now) == types.PoolStatusActive {
			active++
		}
		views = append(views, NewPoolView(pool, now))
	}
	s.collector.PoolsActive.Set(float64(active))
	return views
}

// GetPool returns one pool by ID
func (s *KeeperService) GetPool(poolID string) (*PoolView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.ctxNow()
	pool := s.keeper.GetPool(ctx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	return NewPoolView(pool, ctx.BlockTime().Unix()), nil
}

// Preview serves one read-only quote for the given side
func (s *KeeperService) Preview(poolID, side string, amount uint64) (*PreviewResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.ctxNow()

	var quote uint64
	var err error
	switch side {
	case types.SideSharesOutForAssetsIn:
		quote, err = s.keeper.PreviewSharesOut(ctx, poolID, amount)
	case types.SideAssetsInForSharesOut:
		quote, err = s.keeper.PreviewAssetsIn(ctx, poolID, amount)
	case types.SideAssetsOutForSharesIn:
		quote, err = s.keeper.PreviewAssetsOut(ctx, poolID, amount)
	case types.SideSharesInForAssetsOut:
		quote, err = s.keeper.PreviewSharesIn(ctx, poolID, amount)
	default:
		return nil, fmt.Errorf("unknown preview side %q", side)
	}
	if err != nil {
		return nil, err
	}

	s.collector.RecordPreview(poolID, side)
	return &PreviewResponse{PoolID: poolID, Side: side, Amount: amount, Quote: quote}, nil
}

// Swap executes one trade for the given side
func (s *KeeperService) Swap(poolID string, req *SwapRequest) (*SwapResponse, error) {
	proof, err := decodeProof(req.MerkleProof)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	timer := metrics.NewTimer()
	ctx := s.ctxNow()

	var result *keeper.SwapResult
	switch req.Side {
	case types.SideSharesOutForAssetsIn:
		result, err = s.keeper.SwapExactAssetsForShares(ctx, req.Caller, poolID, req.Amount, req.Limit, proof, req.Referrer)
	case types.SideAssetsInForSharesOut:
		result, err = s.keeper.SwapAssetsForExactShares(ctx, req.Caller, poolID, req.Amount, req.Limit, proof, req.Referrer)
	case types.SideAssetsOutForSharesIn:
		result, err = s.keeper.SwapExactSharesForAssets(ctx, req.Caller, poolID, req.Amount, req.Limit, proof)
	case types.SideSharesInForAssetsOut:
		result, err = s.keeper.SwapSharesForExactAssets(ctx, req.Caller, poolID, req.Amount, req.Limit, proof)
	default:
		return nil, fmt.Errorf("unknown swap side %q", req.Side)
	}
	if err != nil {
		return nil, err
	}

	s.collector.RecordSwap(poolID, req.Side, result.Assets, result.Shares)
	s.collector.RecordFees(poolID, result.PlatformFee, result.ReferralFee, result.SwapFee)
	s.collector.RecordSwapLatency(req.Side, timer.ElapsedMs())

	now := ctx.BlockTime().Unix()
	if pool := s.keeper.GetPool(ctx, poolID); pool != nil {
		s.collector.UpdatePoolState(poolID, pool.AssetReserve, pool.ShareReserve,
			pool.WeightAt(now).ShareWeightBp, pool.TotalPurchased)
		s.recordSample(pool, now, result.Assets)
	}

	return &SwapResponse{
		PoolID:      result.PoolID,
		User:        result.User,
		Side:        req.Side,
		Assets:      result.Assets,
		Shares:      result.Shares,
		SwapFee:     result.SwapFee,
		PlatformFee: result.PlatformFee,
		ReferralFee: result.ReferralFee,
		Timestamp:   now,
	}, nil
}

// Redeem releases the caller's vested shares
func (s *KeeperService) Redeem(poolID, caller string) (*RedeemResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.ctxNow()
	shares, err := s.keeper.Redeem(ctx, caller, poolID)
	if err != nil {
		return nil, err
	}

	s.collector.RecordRedemption(poolID, shares)
	return &RedeemResponse{PoolID: poolID, User: caller, Shares: shares}, nil
}

// ClosePool marks an ended pool closed
func (s *KeeperService) ClosePool(poolID, caller string) (*PoolView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.ctxNow()
	pool, err := s.keeper.ClosePool(ctx, caller, poolID)
	if err != nil {
		return nil, err
	}
	return NewPoolView(pool, ctx.BlockTime().Unix()), nil
}

// UserState returns one position with its releasable share amount
func (s *KeeperService) UserState(poolID, user string) (*UserStateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.ctxNow()
	pool := s.keeper.GetPool(ctx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}

	now := ctx.BlockTime().Unix()
	state := s.keeper.GetUserState(ctx, poolID, user)
	if state == nil {
		state = types.NewUserStateInPool(poolID, user, now)
	}
	releasable, err := keeper.RedeemableShares(pool, state, now)
	if err != nil {
		return nil, err
	}

	return &UserStateView{
		PoolID:          state.PoolID,
		User:            state.User,
		PurchasedShares: state.PurchasedShares,
		ReferredAssets:  state.ReferredAssets,
		RedeemedShares:  state.RedeemedShares,
		Releasable:      releasable,
	}, nil
}

// PriceHistory returns recorded price samples for a pool in [from, to)
func (s *KeeperService) PriceHistory(poolID string, from, to int64, limit int) []*history.PricePoint {
	return s.history.PriceHistory(poolID, from, to, limit)
}

// Candles returns aggregated OHLCV candles for a pool in [from, to)
func (s *KeeperService) Candles(poolID string, from, to int64, limit int) []*history.Candle {
	return s.history.Candles(poolID, from, to, limit)
}

// InitConfig performs the one-time owner config setup
func (s *KeeperService) InitConfig(req *ConfigRequest) (*types.OwnerConfig, error) {
	feeRecipient := req.Owner
	if req.FeeRecipient != nil {
		feeRecipient = *req.FeeRecipient
	}
	var platform, referral, swap uint64
	if req.PlatformFeeBp != nil {
		platform = *req.PlatformFeeBp
	}
	if req.ReferralFeeBp != nil {
		referral = *req.ReferralFeeBp
	}
	if req.SwapFeeBp != nil {
		swap = *req.SwapFeeBp
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keeper.InitializeOwnerConfig(s.ctxNow(), req.Owner, feeRecipient, platform, referral, swap)
}

// GetConfig returns the owner config
func (s *KeeperService) GetConfig() (*types.OwnerConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.keeper.GetOwnerConfig(s.ctxNow())
	if cfg == nil {
		return nil, types.ErrConfigNotFound
	}
	return cfg, nil
}

// SetFees updates the fee parameters
func (s *KeeperService) SetFees(req *ConfigRequest) (*types.OwnerConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keeper.SetFees(s.ctxNow(), req.Owner, req.FeeRecipient, req.PlatformFeeBp, req.ReferralFeeBp, req.SwapFeeBp)
}

// NominateOwner records a pending ownership transfer
func (s *KeeperService) NominateOwner(req *OwnerRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keeper.NominateNewOwner(s.ctxNow(), req.Caller, req.NewOwner)
}

// AcceptOwner completes a pending ownership transfer
func (s *KeeperService) AcceptOwner(req *OwnerRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keeper.AcceptNewOwner(s.ctxNow(), req.Caller)
}
