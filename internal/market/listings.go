// Copyright 2026 Rltmarket Users
// SPDX-License-Identifier: Apache-2.0

package market

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ListingPage is one page of listing reads.
type ListingPage struct {
	Listings []ListingView `json:"listings"`
	HasMore  bool          `json:"hasMore"`
}

// ListListings reads the listings [start, start+count) as an unordered set
// of concurrently in-flight queries and collects the results once all
// complete. One failed read degrades to Empty on its own; it neither cancels
// the others nor fails the page. Empty listings are dropped from the page,
// and HasMore is false once a page comes back short.
func (m *Market) ListListings(ctx context.Context, session Session, start uint32, count int) ListingPage {
	if count <= 0 {
		return ListingPage{}
	}

	views := make([]ListingView, count)
	var g errgroup.Group
	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			views[i] = m.GetListing(ctx, session, start+uint32(i))
			return nil
		})
	}
	// Goroutines never return errors; Wait is only a barrier.
	_ = g.Wait()

	page := ListingPage{Listings: make([]ListingView, 0, count)}
	for _, v := range views {
		if v.Status == StatusEmpty {
			continue
		}
		page.Listings = append(page.Listings, v)
	}
	page.HasMore = len(page.Listings) == count
	return page
}
