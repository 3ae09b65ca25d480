package cmd

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dotandev/rltmarket/internal/market"
)

var purchaseSecretKey string

var purchaseCmd = &cobra.Command{
	Use:   "purchase <listing-id>",
	Short: "Purchase a marketplace listing",
	Long: `Purchase a marketplace listing through the router contract.

The purchase requires a prior allowance (see 'rltmarket approve'). Royalty
and platform-fee settlement happens on-chain; the resulting events can be
inspected with 'rltmarket events'.

Example:
  rltmarket purchase 7 --secret-key SB...`,
	Args: cobra.ExactArgs(1),
	RunE: runPurchase,
}

func init() {
	purchaseCmd.Flags().StringVar(&purchaseSecretKey, "secret-key", "", "Secret seed of the buying account")
}

func runPurchase(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid listing id %q", args[0])
	}

	signer, err := loadSigner(purchaseSecretKey)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	defer setupTracing(ctx)()

	m, net, err := buildMarket(ctx, signer)
	if err != nil {
		return err
	}

	color.Cyan("Purchasing listing %d on %s", id, net.Name)
	result, err := m.PurchaseListing(ctx, market.Session{Address: signer.Address()}, uint32(id))
	if err != nil {
		color.Red("✗ Purchase failed: %v", err)
		return err
	}

	color.Green("✓ Listing %d purchased", id)
	fmt.Printf("Transaction: %s\n", result.Hash)
	fmt.Printf("Ledger: %d\n", result.Ledger)
	return nil
}
