package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterLegacyAminoCodec registers the module's messages on the given
// LegacyAmino codec
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgInitializeOwnerConfig{}, "lbp/MsgInitializeOwnerConfig", nil)
	cdc.RegisterConcrete(&MsgInitializePool{}, "lbp/MsgInitializePool", nil)
	cdc.RegisterConcrete(&MsgSwapExactAssetsForShares{}, "lbp/MsgSwapExactAssetsForShares", nil)
	cdc.RegisterConcrete(&MsgSwapAssetsForExactShares{}, "lbp/MsgSwapAssetsForExactShares", nil)
	cdc.RegisterConcrete(&MsgSwapExactSharesForAssets{}, "lbp/MsgSwapExactSharesForAssets", nil)
	cdc.RegisterConcrete(&MsgSwapSharesForExactAssets{}, "lbp/MsgSwapSharesForExactAssets", nil)
	cdc.RegisterConcrete(&MsgRedeem{}, "lbp/MsgRedeem", nil)
	cdc.RegisterConcrete(&MsgClosePool{}, "lbp/MsgClosePool", nil)
	cdc.RegisterConcrete(&MsgSetFees{}, "lbp/MsgSetFees", nil)
	cdc.RegisterConcrete(&MsgNominateNewOwner{}, "lbp/MsgNominateNewOwner", nil)
	cdc.RegisterConcrete(&MsgAcceptNewOwner{}, "lbp/MsgAcceptNewOwner", nil)
}

// RegisterInterfaces registers the module's message implementations
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgInitializeOwnerConfig{},
		&MsgInitializePool{},
		&MsgSwapExactAssetsForShares{},
		&MsgSwapAssetsForExactShares{},
		&MsgSwapExactSharesForAssets{},
		&MsgSwapSharesForExactAssets{},
		&MsgRedeem{},
		&MsgClosePool{},
		&MsgSetFees{},
		&MsgNominateNewOwner{},
		&MsgAcceptNewOwner{},
	)
}

// RegisterMsgServer registers the MsgServer with the message service router
func RegisterMsgServer(s interface{}, srv interface{}) {
	// This is a placeholder - in production, this would use gRPC registration
	// For now, the messages are handled through the module's handler
}
