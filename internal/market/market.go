// Copyright 2026 Rltmarket Users
// SPDX-License-Identifier: Apache-2.0

// Package market exposes the marketplace domain operations: approving a
// token allowance, purchasing a listing and reading listing state. Each call
// carries an explicit session instead of relying on ambient wallet state.
package market

import (
	"context"
	"fmt"

	"github.com/stellar/go/xdr"

	"github.com/dotandev/rltmarket/internal/config"
	"github.com/dotandev/rltmarket/internal/logger"
	"github.com/dotandev/rltmarket/internal/txpipe"
)

// Session identifies the connected wallet for one call. A zero session is
// valid for reads and falls back to the well-known simulation account.
type Session struct {
	Address string
}

func (s Session) source() string {
	if s.Address == "" {
		return config.SimulationAccount
	}
	return s.Address
}

// ListingStatus classifies a listing as seen through a read-only query.
type ListingStatus string

const (
	// StatusActive means the listing query succeeded.
	StatusActive ListingStatus = "active"
	// StatusSold is derived client-side from settlement events, never
	// from the read path.
	StatusSold ListingStatus = "sold"
	// StatusEmpty means the query failed or the listing does not exist.
	// It is a domain state, not an error.
	StatusEmpty ListingStatus = "empty"
)

// ListingView is the per-id result of a listing read.
type ListingView struct {
	ID     uint32        `json:"id"`
	Status ListingStatus `json:"status"`
}

// Contracts names the deployed contracts the operations compose.
type Contracts struct {
	Token       string
	RoyaltyCore string
	Router      string
}

// DefaultContracts returns the configured deployment.
func DefaultContracts() Contracts {
	return Contracts{
		Token:       config.TokenContractID,
		RoyaltyCore: config.RoyaltyCoreContractID,
		Router:      config.RouterContractID,
	}
}

// Querier runs read-only contract queries.
type Querier interface {
	Query(ctx context.Context, spec txpipe.CallSpec) (txpipe.SimulationOutcome, error)
}

// Invoker runs state-changing contract invocations.
type Invoker interface {
	Invoke(ctx context.Context, spec txpipe.CallSpec) (*txpipe.InvocationResult, error)
}

// Market composes the executors with the deployed contract identifiers.
type Market struct {
	contracts Contracts
	query     Querier
	invoke    Invoker
}

// New returns a Market. invoke may be nil for read-only surfaces.
func New(query Querier, invoke Invoker, contracts Contracts) *Market {
	return &Market{contracts: contracts, query: query, invoke: invoke}
}

// ApproveAllowance grants the royalty core a spending allowance on the
// session's token balance.
func (m *Market) ApproveAllowance(ctx context.Context, session Session, amount int64) (*txpipe.InvocationResult, error) {
	if session.Address == "" {
		return nil, fmt.Errorf("approve requires a connected wallet")
	}
	if amount < 0 {
		return nil, fmt.Errorf("allowance amount must be non-negative, got %d", amount)
	}
	owner, err := accountScVal(session.Address)
	if err != nil {
		return nil, err
	}
	spender, err := contractScVal(m.contracts.RoyaltyCore)
	if err != nil {
		return nil, err
	}
	return m.invoke.Invoke(ctx, txpipe.CallSpec{
		ContractID: m.contracts.Token,
		Method:     "approve",
		Args: []xdr.ScVal{
			owner,
			spender,
			i128ScVal(amount),
			u32ScVal(config.AllowanceExpirationLedgers),
		},
		Source: session.Address,
	})
}

// PurchaseListing buys a listing through the router. Two concurrent
// purchases of the same listing are resolved by the ledger, not here.
func (m *Market) PurchaseListing(ctx context.Context, session Session, listingID uint32) (*txpipe.InvocationResult, error) {
	if session.Address == "" {
		return nil, fmt.Errorf("purchase requires a connected wallet")
	}
	buyer, err := accountScVal(session.Address)
	if err != nil {
		return nil, err
	}
	royaltyCore, err := contractScVal(m.contracts.RoyaltyCore)
	if err != nil {
		return nil, err
	}
	return m.invoke.Invoke(ctx, txpipe.CallSpec{
		ContractID: m.contracts.Router,
		Method:     "purchase",
		Args: []xdr.ScVal{
			u32ScVal(listingID),
			buyer,
			royaltyCore,
		},
		Source: session.Address,
	})
}

// GetListing reads one listing. A failed query is the expected "not listed"
// case and maps to StatusEmpty; it never surfaces as an error.
func (m *Market) GetListing(ctx context.Context, session Session, listingID uint32) ListingView {
	outcome, err := m.query.Query(ctx, txpipe.CallSpec{
		ContractID: m.contracts.Router,
		Method:     "get_listing",
		Args:       []xdr.ScVal{u32ScVal(listingID)},
		Source:     session.source(),
	})
	if err != nil {
		logger.Logger.Debug("listing query failed", "id", listingID, "error", err)
		return ListingView{ID: listingID, Status: StatusEmpty}
	}
	if !outcome.OK() {
		return ListingView{ID: listingID, Status: StatusEmpty}
	}
	return ListingView{ID: listingID, Status: StatusActive}
}
