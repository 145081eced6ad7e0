package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lbp-dex/x/lbp/types"
)

// GetTxCmd returns the transaction commands for the lbp module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "lbp",
		Short:                      "LBP module transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdInitConfig(),
		CmdCreatePool(),
		CmdSwap(),
		CmdRedeem(),
		CmdClosePool(),
		CmdSetFees(),
		CmdNominateOwner(),
		CmdAcceptOwner(),
	)

	return cmd
}

// CmdInitConfig returns the command to initialize the owner config
func CmdInitConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-config [fee-recipient] [platform-fee-bp] [referral-fee-bp] [swap-fee-bp]",
		Short: "Initialize the one-time owner fee configuration",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			platformBp, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid platform fee: %v", err)
			}
			referralBp, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid referral fee: %v", err)
			}
			swapBp, err := strconv.ParseUint(args[3], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid swap fee: %v", err)
			}

			msg := &types.MsgInitializeOwnerConfig{
				Owner:         clientCtx.GetFromAddress().String(),
				FeeRecipient:  args[0],
				PlatformFeeBp: platformBp,
				ReferralFeeBp: referralBp,
				SwapFeeBp:     swapBp,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCreatePool returns the command to create a pool from a params file
func CmdCreatePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-pool [params-file]",
		Short: "Create a new liquidity bootstrapping pool",
		Long: `Create a new liquidity bootstrapping pool from a JSON params file.

The file carries the immutable pool configuration: tokens, seed reserves,
weight schedule, sale window, vesting schedule, caps and the optional
whitelist merkle root.

Example:
  lbpd tx lbp create-pool pool.json --from creator`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("cannot read params file: %v", err)
			}

			var params types.PoolCreationParams
			if err := json.Unmarshal(raw, &params); err != nil {
				return fmt.Errorf("invalid params file: %v", err)
			}
			if params.Creator == "" {
				params.Creator = clientCtx.GetFromAddress().String()
			}

			msg := &types.MsgInitializePool{Params: params}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSwap returns the command to trade against a pool
func CmdSwap() *cobra.Command {
	var proofArg string
	var referrer string

	cmd := &cobra.Command{
		Use:   "swap [pool-id] [direction] [amount] [limit]",
		Short: "Swap assets for shares or shares for assets",
		Long: `Swap against a liquidity bootstrapping pool.

Direction selects the entry point:
  buy-exact-in   spend exactly [amount] assets, receive at least [limit] shares
  buy-exact-out  receive exactly [amount] shares, spend at most [limit] assets
  sell-exact-in  sell exactly [amount] shares, receive at least [limit] assets
  sell-exact-out receive exactly [amount] assets, sell at most [limit] shares

Examples:
  lbpd tx lbp swap POOL buy-exact-in 10000 9500 --from alice
  lbpd tx lbp swap POOL buy-exact-out 500 600 --proof aa..,bb.. --from bob`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			amount, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount: %v", err)
			}
			limit, err := strconv.ParseUint(args[3], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid limit: %v", err)
			}

			var proof []string
			if proofArg != "" {
				for _, node := range strings.Split(proofArg, ",") {
					node = strings.TrimSpace(node)
					if _, err := hex.DecodeString(node); err != nil {
						return fmt.Errorf("invalid proof node %q: %v", node, err)
					}
					proof = append(proof, node)
				}
			}

			swap := types.MsgSwap{
				Caller:      clientCtx.GetFromAddress().String(),
				PoolID:      args[0],
				Amount:      amount,
				Limit:       limit,
				MerkleProof: proof,
				Referrer:    referrer,
			}

			var msg sdk.Msg
			switch strings.ToLower(args[1]) {
			case "buy-exact-in":
				msg = &types.MsgSwapExactAssetsForShares{MsgSwap: swap}
			case "buy-exact-out":
				msg = &types.MsgSwapAssetsForExactShares{MsgSwap: swap}
			case "sell-exact-in":
				msg = &types.MsgSwapExactSharesForAssets{MsgSwap: swap}
			case "sell-exact-out":
				msg = &types.MsgSwapSharesForExactAssets{MsgSwap: swap}
			default:
				return fmt.Errorf("invalid direction: %s", args[1])
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().StringVar(&proofArg, "proof", "", "Comma-separated hex merkle proof nodes")
	cmd.Flags().StringVar(&referrer, "referrer", "", "Referrer address for buy swaps")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRedeem returns the command to redeem vested shares
func CmdRedeem() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redeem [pool-id]",
		Short: "Redeem vested shares from a closed sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgRedeem{
				Caller: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdClosePool returns the command to close an ended pool
func CmdClosePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close-pool [pool-id]",
		Short: "Close a pool whose sale window has ended",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgClosePool{
				Caller: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSetFees returns the command to update fee parameters
func CmdSetFees() *cobra.Command {
	var feeRecipient string
	var platformBp, referralBp, swapBp int64

	cmd := &cobra.Command{
		Use:   "set-fees",
		Short: "Update fee parameters; omitted flags are left unchanged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgSetFees{
				Owner: clientCtx.GetFromAddress().String(),
			}
			if feeRecipient != "" {
				msg.FeeRecipient = &feeRecipient
			}
			if platformBp >= 0 {
				v := uint64(platformBp)
				msg.PlatformFeeBp = &v
			}
			if referralBp >= 0 {
				v := uint64(referralBp)
				msg.ReferralFeeBp = &v
			}
			if swapBp >= 0 {
				v := uint64(swapBp)
				msg.SwapFeeBp = &v
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().StringVar(&feeRecipient, "fee-recipient", "", "New fee recipient address")
	cmd.Flags().Int64Var(&platformBp, "platform-fee-bp", -1, "New platform fee in basis points")
	cmd.Flags().Int64Var(&referralBp, "referral-fee-bp", -1, "New referral fee in basis points")
	cmd.Flags().Int64Var(&swapBp, "swap-fee-bp", -1, "New swap fee in basis points")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdNominateOwner returns the command to nominate a new config owner
func CmdNominateOwner() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nominate-owner [new-owner]",
		Short: "Nominate a new owner for the fee configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgNominateNewOwner{
				Owner:    clientCtx.GetFromAddress().String(),
				NewOwner: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdAcceptOwner returns the command to accept a pending nomination
func CmdAcceptOwner() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept-owner",
		Short: "Accept a pending ownership nomination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgAcceptNewOwner{
				Caller: clientCtx.GetFromAddress().String(),
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
