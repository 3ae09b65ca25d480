package cmd

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dotandev/rltmarket/internal/market"
)

var approveSecretKey string

var approveCmd = &cobra.Command{
	Use:   "approve <amount>",
	Short: "Grant the royalty core an allowance on your RLT balance",
	Long: `Grant the royalty core contract an allowance on your RLT balance.

The amount is in whole token stroops (1 RLT = 10,000,000). The invocation is
simulated, fee-assembled, signed locally and submitted, then polled to
finality.

Example:
  rltmarket approve 250000000 --secret-key SB...`,
	Args: cobra.ExactArgs(1),
	RunE: runApprove,
}

func init() {
	approveCmd.Flags().StringVar(&approveSecretKey, "secret-key", "", "Secret seed of the approving account")
}

func runApprove(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[0])
	}

	signer, err := loadSigner(approveSecretKey)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	defer setupTracing(ctx)()

	m, net, err := buildMarket(ctx, signer)
	if err != nil {
		return err
	}

	color.Cyan("Approving allowance on %s", net.Name)
	result, err := m.ApproveAllowance(ctx, market.Session{Address: signer.Address()}, amount)
	if err != nil {
		color.Red("✗ Approval failed: %v", err)
		return err
	}

	color.Green("✓ Allowance approved")
	fmt.Printf("Transaction: %s\n", result.Hash)
	fmt.Printf("Ledger: %d\n", result.Ledger)
	return nil
}
