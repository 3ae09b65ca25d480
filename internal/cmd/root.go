package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dotandev/rltmarket/internal/logger"
)

// InterruptExitCode is returned when the user interrupts a command.
const InterruptExitCode = 130

var (
	networkName string
	rpcURL      string
	verbose     bool
	enableTrace bool
)

var rootCmd = &cobra.Command{
	Use:   "rltmarket",
	Short: "Rltmarket is a command-line client for the RLT royalty marketplace",
	Long: `Rltmarket is a command-line client for the RLT royalty marketplace
on Soroban.

It drives the on-chain side of the marketplace dashboard:
  - Browsing listings through read-only contract queries
  - Approving allowances and purchasing listings with a local signer
  - Decoding royalty and platform-fee settlement events
  - Serving the RPC proxy and read API used by the web frontend`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetVerbose()
		}
	},
}

// Execute runs the CLI under a signal-aware context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// IsInterrupted reports whether the error came from a user interrupt.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&networkName, "network", "n", "futurenet", "Stellar network to use (futurenet, testnet, mainnet)")
	rootCmd.PersistentFlags().StringVar(&rpcURL, "rpc-url", "", "Override the network's Soroban RPC endpoint")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&enableTrace, "trace", false, "Export OTLP traces for pipeline steps")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listingCmd)
	rootCmd.AddCommand(listingsCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(purchaseCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(serveCmd)
}
