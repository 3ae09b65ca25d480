package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dotandev/rltmarket/internal/config"
	"github.com/dotandev/rltmarket/internal/server"
	"github.com/dotandev/rltmarket/internal/store"
)

var (
	serveAddr   string
	serveDBPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the RPC proxy and read-only marketplace API",
	Long: `Serve the HTTP surface the dashboard frontend talks to:

  POST /rpc              pass-through proxy to the ledger RPC endpoint
  GET  /api/listings     page of listing states
  GET  /api/listings/:id one listing state
  GET  /api/settlements  persisted settlement history (requires --db)

Example:
  rltmarket serve --addr :8080 --db rltmarket.db`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "Path of the settlement history database")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	defer setupTracing(ctx)()

	m, net, err := buildMarket(ctx, nil)
	if err != nil {
		return err
	}

	var settlements server.SettlementReader
	if serveDBPath != "" {
		history, err := store.Open(serveDBPath)
		if err != nil {
			return err
		}
		defer history.Close()
		settlements = history
	}

	srv := server.New(net.RPCURL, m, settlements, config.RoyaltyCoreContractID)
	color.Green("▶ Listening on %s (network %s)", serveAddr, net.Name)
	return srv.Run(serveAddr)
}
