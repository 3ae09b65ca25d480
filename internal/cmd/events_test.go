package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dotandev/rltmarket/internal/sorobanrpc"
)

func TestNextCursorEmptyPageAdvancesToHead(t *testing.T) {
	assert.Equal(t, uint32(1200417), nextCursor(nil, 1200417))
}

func TestNextCursorTruncatedPageStopsAtLastEvent(t *testing.T) {
	events := []sorobanrpc.EventInfo{
		{Ledger: 1200400},
		{Ledger: 1200405},
		{Ledger: 1200410},
	}
	// Events between 1200410 and the head were not fetched yet; the next
	// run must resume from them, not skip to the head.
	assert.Equal(t, uint32(1200410), nextCursor(events, 1200417))
}
