package cmd

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dotandev/rltmarket/internal/market"
)

var (
	listingAddress string
	listingsStart  uint32
	listingsCount  int
)

var listingCmd = &cobra.Command{
	Use:   "listing <id>",
	Short: "Read the state of one marketplace listing",
	Long: `Read the state of one marketplace listing via a read-only query.

Nothing is signed or submitted. Without --address the query runs from the
well-known simulation account, which permits unauthenticated browsing.

Example:
  rltmarket listing 7
  rltmarket listing 7 --address GB4F...KLMN`,
	Args: cobra.ExactArgs(1),
	RunE: runListing,
}

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "Read a page of marketplace listings",
	Long: `Read a page of marketplace listings as concurrent read-only queries.

Example:
  rltmarket listings --start 1 --count 10`,
	RunE: runListings,
}

func init() {
	listingCmd.Flags().StringVar(&listingAddress, "address", "", "Query from this account instead of the simulation account")
	listingsCmd.Flags().StringVar(&listingAddress, "address", "", "Query from this account instead of the simulation account")
	listingsCmd.Flags().Uint32Var(&listingsStart, "start", 1, "First listing id of the page")
	listingsCmd.Flags().IntVar(&listingsCount, "count", 10, "Page size")
}

func runListing(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid listing id %q", args[0])
	}

	ctx := cmd.Context()
	m, _, err := buildMarket(ctx, nil)
	if err != nil {
		return err
	}

	view := m.GetListing(ctx, market.Session{Address: listingAddress}, uint32(id))
	printListing(view)
	return nil
}

func runListings(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	m, _, err := buildMarket(ctx, nil)
	if err != nil {
		return err
	}

	page := m.ListListings(ctx, market.Session{Address: listingAddress}, listingsStart, listingsCount)
	if len(page.Listings) == 0 {
		color.Yellow("No listings in range %d..%d", listingsStart, listingsStart+uint32(listingsCount)-1)
		return nil
	}
	for _, view := range page.Listings {
		printListing(view)
	}
	if page.HasMore {
		fmt.Println("More listings available.")
	}
	return nil
}

func printListing(view market.ListingView) {
	switch view.Status {
	case market.StatusActive:
		color.Green("✓ Listing %d: %s", view.ID, view.Status)
	case market.StatusEmpty:
		color.Yellow("- Listing %d: not listed", view.ID)
	default:
		fmt.Printf("Listing %d: %s\n", view.ID, view.Status)
	}
}
