package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"

	"github.com/openalpha/lbp-dex/x/lbp/types"
)

// GetQueryCmd returns the cli query commands for the lbp module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "lbp",
		Short:                      "Querying commands for the lbp module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdDerivePoolID(),
		CmdWeightsAt(),
		CmdWhitelistLeaf(),
		CmdVerifyWhitelist(),
	)

	return cmd
}

// CmdDerivePoolID returns the command to derive the pool ID for an
// asset/share/creator triple
func CmdDerivePoolID() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool-id [asset-token] [share-token] [creator]",
		Short: "Derive the pool ID for an asset/share/creator triple",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := map[string]string{
				"asset_token": args[0],
				"share_token": args[1],
				"creator":     args[2],
				"pool_id":     types.DerivePoolID(args[0], args[1], args[2]),
			}
			encoded, _ := json.MarshalIndent(out, "", "  ")
			fmt.Println(string(encoded))
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdWeightsAt returns the command to evaluate a weight schedule
func CmdWeightsAt() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weights [start-bp] [end-bp] [sale-start] [sale-end] [at]",
		Short: "Evaluate a share weight schedule at a unix timestamp",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums := make([]int64, 5)
			for i, arg := range args {
				v, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("argument %d: %w", i+1, err)
				}
				nums[i] = v
			}

			pool := &types.Pool{
				StartWeightBp: uint64(nums[0]),
				EndWeightBp:   uint64(nums[1]),
				SaleStartTime: nums[2],
				SaleEndTime:   nums[3],
			}
			weights := pool.WeightAt(nums[4])

			encoded, _ := json.MarshalIndent(weights, "", "  ")
			fmt.Println(string(encoded))
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdWhitelistLeaf returns the command to hash a whitelist address
func CmdWhitelistLeaf() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whitelist-leaf [address]",
		Short: "Compute the whitelist merkle leaf for an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			leaf := types.WhitelistLeaf(args[0])
			fmt.Println(hex.EncodeToString(leaf[:]))
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdVerifyWhitelist returns the command to check a whitelist proof offline
func CmdVerifyWhitelist() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify-whitelist [root] [address] [sibling]...",
		Short: "Verify a whitelist merkle proof against a root",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := decodeNode(args[0])
			if err != nil {
				return fmt.Errorf("root: %w", err)
			}

			proof := make([][32]byte, 0, len(args)-2)
			for _, arg := range args[2:] {
				node, err := decodeNode(arg)
				if err != nil {
					return fmt.Errorf("sibling %s: %w", arg, err)
				}
				proof = append(proof, node)
			}

			ok := types.VerifyWhitelist(root, types.WhitelistLeaf(args[1]), proof)
			out := map[string]interface{}{
				"address": args[1],
				"valid":   ok,
			}
			encoded, _ := json.MarshalIndent(out, "", "  ")
			fmt.Println(string(encoded))
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

func decodeNode(encoded string) ([32]byte, error) {
	var node [32]byte
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return node, err
	}
	if len(raw) != 32 {
		return node, fmt.Errorf("expected 32 bytes, got %d", len(raw))
	}
	copy(node[:], raw)
	return node, nil
}
