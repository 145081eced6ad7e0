// Package e2e drives a full sale lifecycle through the MsgServer and
// QueryServer, verifying state transitions end to end.
package e2e

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
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
	"github.com/stretchr/testify/require"

	"github.com/openalpha/lbp-dex/x/lbp/keeper"
	"github.com/openalpha/lbp-dex/x/lbp/types"
)

type harness struct {
	msgServer   *keeper.MsgServer
	queryServer *keeper.QueryServer
	ctx         sdk.Context
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	cdc := codec.NewProtoCodec(codectypes.NewInterfaceRegistry())
	k := keeper.NewKeeper(cdc, storeKey, log.NewNopLogger())

	return &harness{
		msgServer:   keeper.NewMsgServerImpl(k),
		queryServer: keeper.NewQueryServerImpl(k),
		ctx:         sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger()),
	}
}

func (h *harness) at(sec int64) sdk.Context {
	return h.ctx.WithBlockTime(time.Unix(sec, 0))
}

func TestSaleLifecycle(t *testing.T) {
	h := newHarness(t)

	// Owner config comes first; pools cannot exist without it
	cfg, err := h.msgServer.InitializeOwnerConfig(h.at(500), &types.MsgInitializeOwnerConfig{
		Owner:         "owner",
		FeeRecipient:  "treasury",
		PlatformFeeBp: 100,
		ReferralFeeBp: 50,
		SwapFeeBp:     30,
	})
	require.NoError(t, err)
	require.Equal(t, "owner", cfg.Owner)

	params := types.PoolCreationParams{
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

	created, err := h.msgServer.InitializePool(h.at(500), &types.MsgInitializePool{Params: params})
	require.NoError(t, err)
	poolID := created.PoolID
	require.Equal(t, types.DerivePoolID("uusdc", "utoken", "creator"), poolID)

	// Pending before the window opens
	pending, err := h.queryServer.PoolsByStatus(h.at(500), types.PoolStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// Trading is rejected before the sale starts
	_, err = h.msgServer.SwapExactAssetsForShares(h.at(999), &types.MsgSwapExactAssetsForShares{
		MsgSwap: types.MsgSwap{Caller: "alice", PoolID: poolID, Amount: 10_000},
	})
	require.ErrorIs(t, err, types.ErrTradingDisallowed)

	// At the weight midpoint the quote is exact: 10_000 gross less 180 in
	// fees leaves 9_820 net, which buys 9_724 shares
	quote, err := h.queryServer.PreviewSharesOut(h.at(1500), poolID, 10_000)
	require.NoError(t, err)
	require.Equal(t, uint64(9_724), quote)

	buy, err := h.msgServer.SwapExactAssetsForShares(h.at(1500), &types.MsgSwapExactAssetsForShares{
		MsgSwap: types.MsgSwap{Caller: "alice", PoolID: poolID, Amount: 10_000, Limit: 9_000},
	})
	require.NoError(t, err)
	require.Equal(t, uint64(9_724), buy.Shares)
	require.Equal(t, uint64(10_000), buy.Assets)
	require.Equal(t, uint64(150), buy.PlatformFee)
	require.Equal(t, uint64(0), buy.ReferralFee)
	require.Equal(t, uint64(30), buy.SwapFee)

	// A referred buy splits the referral component out of the platform fee
	referred, err := h.msgServer.SwapExactAssetsForShares(h.at(1500), &types.MsgSwapExactAssetsForShares{
		MsgSwap: types.MsgSwap{Caller: "bob", PoolID: poolID, Amount: 10_000, Referrer: "carol"},
	})
	require.NoError(t, err)
	require.Equal(t, uint64(100), referred.PlatformFee)
	require.Equal(t, uint64(50), referred.ReferralFee)
	require.Equal(t, buy.PlatformFee+buy.ReferralFee, referred.PlatformFee+referred.ReferralFee)

	carol, _, err := h.queryServer.UserState(h.at(1500), poolID, "carol")
	require.NoError(t, err)
	require.Equal(t, uint64(50), carol.ReferredAssets)

	// Bob sells part of his position back
	bobBefore, _, err := h.queryServer.UserState(h.at(1600), poolID, "bob")
	require.NoError(t, err)
	sold, err := h.msgServer.SwapExactSharesForAssets(h.at(1600), &types.MsgSwapExactSharesForAssets{
		MsgSwap: types.MsgSwap{Caller: "bob", PoolID: poolID, Amount: 2_000},
	})
	require.NoError(t, err)
	require.Greater(t, sold.Assets, uint64(0))

	bobAfter, _, err := h.queryServer.UserState(h.at(1600), poolID, "bob")
	require.NoError(t, err)
	require.Equal(t, bobBefore.PurchasedShares-2_000, bobAfter.PurchasedShares)

	// The window closes at the end timestamp
	_, err = h.msgServer.SwapExactAssetsForShares(h.at(2000), &types.MsgSwapExactAssetsForShares{
		MsgSwap: types.MsgSwap{Caller: "alice", PoolID: poolID, Amount: 10_000},
	})
	require.ErrorIs(t, err, types.ErrTradingDisallowed)

	// Nothing vests at the cliff instant
	_, err = h.msgServer.Redeem(h.at(2000), &types.MsgRedeem{Caller: "alice", PoolID: poolID})
	require.ErrorIs(t, err, types.ErrRedeemingDisallowed)

	// Creator closes the pool after the sale
	closed, err := h.msgServer.ClosePool(h.at(2100), &types.MsgClosePool{Caller: "creator", PoolID: poolID})
	require.NoError(t, err)
	require.True(t, closed.Closed)

	// Halfway through vesting alice can release half her position
	_, releasable, err := h.queryServer.UserState(h.at(2500), poolID, "alice")
	require.NoError(t, err)
	require.Equal(t, uint64(4_862), releasable)

	redeemed, err := h.msgServer.Redeem(h.at(2500), &types.MsgRedeem{Caller: "alice", PoolID: poolID})
	require.NoError(t, err)
	require.Equal(t, uint64(4_862), redeemed.Shares)

	// The remainder releases after vesting ends, then the position is spent
	redeemed, err = h.msgServer.Redeem(h.at(3500), &types.MsgRedeem{Caller: "alice", PoolID: poolID})
	require.NoError(t, err)
	require.Equal(t, uint64(9_724-4_862), redeemed.Shares)

	_, err = h.msgServer.Redeem(h.at(3500), &types.MsgRedeem{Caller: "alice", PoolID: poolID})
	require.ErrorIs(t, err, types.ErrRedeemingDisallowed)
}

func TestOwnershipHandoverAndFees(t *testing.T) {
	h := newHarness(t)

	_, err := h.msgServer.InitializeOwnerConfig(h.at(100), &types.MsgInitializeOwnerConfig{
		Owner:         "owner",
		FeeRecipient:  "treasury",
		PlatformFeeBp: 100,
		ReferralFeeBp: 50,
		SwapFeeBp:     30,
	})
	require.NoError(t, err)

	// Only the owner can change fees
	newBp := uint64(200)
	_, err = h.msgServer.SetFees(h.at(200), &types.MsgSetFees{Owner: "mallory", PlatformFeeBp: &newBp})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	updated, err := h.msgServer.SetFees(h.at(200), &types.MsgSetFees{Owner: "owner", PlatformFeeBp: &newBp})
	require.NoError(t, err)
	require.Equal(t, uint64(200), updated.PlatformFeeBp)
	require.Equal(t, uint64(30), updated.SwapFeeBp)

	// Two-phase handover: nominee must accept before taking over
	require.NoError(t, h.msgServer.NominateNewOwner(h.at(300), &types.MsgNominateNewOwner{
		Owner: "owner", NewOwner: "successor",
	}))

	err = h.msgServer.AcceptNewOwner(h.at(300), &types.MsgAcceptNewOwner{Caller: "mallory"})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	require.NoError(t, h.msgServer.AcceptNewOwner(h.at(300), &types.MsgAcceptNewOwner{Caller: "successor"}))

	cfg, err := h.queryServer.OwnerConfig(h.at(300))
	require.NoError(t, err)
	require.Equal(t, "successor", cfg.Owner)
	require.Empty(t, cfg.PendingOwner)

	// The old owner is locked out after the handover
	_, err = h.msgServer.SetFees(h.at(400), &types.MsgSetFees{Owner: "owner", PlatformFeeBp: &newBp})
	require.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestWhitelistedSaleEndToEnd(t *testing.T) {
	h := newHarness(t)

	_, err := h.msgServer.InitializeOwnerConfig(h.at(100), &types.MsgInitializeOwnerConfig{
		Owner:         "owner",
		FeeRecipient:  "treasury",
		PlatformFeeBp: 0,
		ReferralFeeBp: 0,
		SwapFeeBp:     0,
	})
	require.NoError(t, err)

	aliceLeaf := types.WhitelistLeaf("alice")
	bobLeaf := types.WhitelistLeaf("bob")
	root := hashPair(aliceLeaf, bobLeaf)

	params := types.PoolCreationParams{
		Creator:             "creator",
		AssetToken:          "uusdc",
		ShareToken:          "utoken",
		Assets:              1_000_000,
		Shares:              1_000_000,
		MaxSharePrice:       1 << 62,
		MaxSharesOut:        1 << 62,
		MaxAssetsIn:         1 << 62,
		StartWeightBp:       9000,
		EndWeightBp:         1000,
		SaleStartTime:       1000,
		SaleEndTime:         2000,
		VestCliff:           2000,
		VestEnd:             3000,
		WhitelistMerkleRoot: root,
		SellingAllowed:      true,
	}

	created, err := h.msgServer.InitializePool(h.at(500), &types.MsgInitializePool{Params: params})
	require.NoError(t, err)
	poolID := created.PoolID

	proofHex := []string{hexEncode(bobLeaf)}

	// A listed buyer with a valid proof trades; an unlisted one is rejected
	_, err = h.msgServer.SwapExactAssetsForShares(h.at(1500), &types.MsgSwapExactAssetsForShares{
		MsgSwap: types.MsgSwap{Caller: "alice", PoolID: poolID, Amount: 1_000, MerkleProof: proofHex},
	})
	require.NoError(t, err)

	_, err = h.msgServer.SwapExactAssetsForShares(h.at(1500), &types.MsgSwapExactAssetsForShares{
		MsgSwap: types.MsgSwap{Caller: "mallory", PoolID: poolID, Amount: 1_000, MerkleProof: proofHex},
	})
	require.ErrorIs(t, err, types.ErrWhitelistProof)

	_, err = h.msgServer.SwapExactAssetsForShares(h.at(1500), &types.MsgSwapExactAssetsForShares{
		MsgSwap: types.MsgSwap{Caller: "alice", PoolID: poolID, Amount: 1_000},
	})
	require.ErrorIs(t, err, types.ErrWhitelistProof)
}

// hashPair combines two merkle nodes in sorted order, matching the
// commutative scheme the whitelist verifier uses.
func hashPair(a, b [32]byte) [32]byte {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return sha256.Sum256(append(a[:], b[:]...))
	}
	return sha256.Sum256(append(b[:], a[:]...))
}

func hexEncode(node [32]byte) string {
	return hex.EncodeToString(node[:])
}
