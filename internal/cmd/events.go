package cmd

import (
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dotandev/rltmarket/internal/config"
	"github.com/dotandev/rltmarket/internal/ledgerevents"
	"github.com/dotandev/rltmarket/internal/logger"
	"github.com/dotandev/rltmarket/internal/scdec"
	"github.com/dotandev/rltmarket/internal/sorobanrpc"
	"github.com/dotandev/rltmarket/internal/store"
)

// eventLookbackLedgers is how far behind the ledger head a first fetch
// starts when no cursor exists yet (roughly ten minutes).
const eventLookbackLedgers = 120

var (
	eventsContract    string
	eventsSinceLedger uint32
	eventsLimit       uint
	eventsDBPath      string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Fetch and decode royalty settlement events",
	Long: `Fetch contract events from the ledger and decode them into royalty
and platform-fee settlement records.

With --db, decoded records are appended to a local history and subsequent
runs resume from the last processed ledger.

Example:
  rltmarket events
  rltmarket events --since-ledger 1200417 --db rltmarket.db`,
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().StringVar(&eventsContract, "contract", config.RoyaltyCoreContractID, "Contract whose events to fetch")
	eventsCmd.Flags().Uint32Var(&eventsSinceLedger, "since-ledger", 0, "Start ledger (default: stored cursor, else near the ledger head)")
	eventsCmd.Flags().UintVar(&eventsLimit, "limit", 100, "Maximum events to fetch")
	eventsCmd.Flags().StringVar(&eventsDBPath, "db", "", "Path of the settlement history database")
}

func runEvents(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	net, err := resolveNetwork()
	if err != nil {
		return err
	}
	client := newRPCClient(ctx, net)

	var history *store.Store
	if eventsDBPath != "" {
		history, err = store.Open(eventsDBPath)
		if err != nil {
			return err
		}
		defer history.Close()
	}

	startLedger, err := resolveStartLedger(cmd, client, history)
	if err != nil {
		return err
	}

	resp, err := client.GetEvents(ctx, sorobanrpc.GetEventsRequest{
		StartLedger: startLedger,
		Filters: []sorobanrpc.EventFilter{
			{Type: "contract", ContractIDs: []string{eventsContract}},
		},
		Pagination: &sorobanrpc.Pagination{Limit: eventsLimit},
	})
	if err != nil {
		return err
	}

	normalizer := ledgerevents.NewNormalizer(scdec.New())
	records := normalizer.Normalize(rawEvents(resp.Events))

	if len(records) == 0 {
		color.Yellow("No settlements since ledger %d", startLedger)
	}
	for _, r := range records {
		printSettlement(r)
	}

	if history != nil {
		if err := history.SaveSettlements(ctx, records); err != nil {
			return err
		}
		cursor := nextCursor(resp.Events, resp.LatestLedger)
		if err := history.SetCursor(ctx, eventsContract, cursor); err != nil {
			return err
		}
		logger.Logger.Debug("settlement history updated",
			"records", len(records), "cursor", cursor)
	}
	return nil
}

// nextCursor picks the ledger the next run resumes after. A page truncated
// by the fetch limit ends before the head, so the cursor only advances past
// ledgers whose events were actually returned.
func nextCursor(events []sorobanrpc.EventInfo, latestLedger uint32) uint32 {
	if len(events) == 0 {
		return latestLedger
	}
	return events[len(events)-1].Ledger
}

func resolveStartLedger(cmd *cobra.Command, client *sorobanrpc.Client, history *store.Store) (uint32, error) {
	ctx := cmd.Context()
	if eventsSinceLedger > 0 {
		return eventsSinceLedger, nil
	}
	if history != nil {
		ledger, ok, err := history.Cursor(ctx, eventsContract)
		if err != nil {
			return 0, err
		}
		if ok {
			return ledger + 1, nil
		}
	}
	head, err := client.GetLatestLedger(ctx)
	if err != nil {
		return 0, err
	}
	if head.Sequence <= eventLookbackLedgers {
		return 1, nil
	}
	return head.Sequence - eventLookbackLedgers, nil
}

// rawEvents converts wire events into the normalizer's input shape.
func rawEvents(events []sorobanrpc.EventInfo) []ledgerevents.RawEvent {
	raw := make([]ledgerevents.RawEvent, 0, len(events))
	for _, ev := range events {
		closedAt, err := time.Parse(time.RFC3339, ev.LedgerClosedAt)
		if err != nil {
			closedAt = time.Time{}
		}
		raw = append(raw, ledgerevents.RawEvent{
			ContractID: ev.ContractID,
			Topics:     ev.Topics,
			Value:      ev.Value,
			Ledger:     ev.Ledger,
			ClosedAt:   closedAt,
		})
	}
	return raw
}

func printSettlement(r ledgerevents.SettlementRecord) {
	recipient := r.Recipient
	if recipient == "" {
		recipient = "(unknown)"
	}
	if r.Kind == ledgerevents.KindRoyalty {
		color.Green("%-8s  %12s RLT  -> %s  (ledger %d)", r.Kind, r.Amount.StringFixed(2), recipient, r.Ledger)
	} else {
		color.Cyan("%-8s  %12s RLT  -> %s  (ledger %d)", r.Kind, r.Amount.StringFixed(2), recipient, r.Ledger)
	}
}
