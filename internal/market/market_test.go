package market

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotandev/rltmarket/internal/config"
	"github.com/dotandev/rltmarket/internal/txpipe"
)

const testWallet = "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF"

type fakeQuerier struct {
	mu    sync.Mutex
	specs []txpipe.CallSpec
	fn    func(spec txpipe.CallSpec) (txpipe.SimulationOutcome, error)
}

func (f *fakeQuerier) Query(_ context.Context, spec txpipe.CallSpec) (txpipe.SimulationOutcome, error) {
	f.mu.Lock()
	f.specs = append(f.specs, spec)
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(spec)
	}
	return txpipe.SimulationOutcome{}, nil
}

type fakeInvoker struct {
	specs  []txpipe.CallSpec
	result *txpipe.InvocationResult
	err    error
}

func (f *fakeInvoker) Invoke(_ context.Context, spec txpipe.CallSpec) (*txpipe.InvocationResult, error) {
	f.specs = append(f.specs, spec)
	return f.result, f.err
}

func newMarket(q Querier, inv Invoker) *Market {
	return New(q, inv, DefaultContracts())
}

func specListingID(t *testing.T, spec txpipe.CallSpec) uint32 {
	t.Helper()
	require.NotEmpty(t, spec.Args)
	id, ok := spec.Args[0].GetU32()
	require.True(t, ok)
	return uint32(id)
}

func TestGetListingActive(t *testing.T) {
	q := &fakeQuerier{}
	view := newMarket(q, nil).GetListing(context.Background(), Session{Address: testWallet}, 7)

	assert.Equal(t, ListingView{ID: 7, Status: StatusActive}, view)
	require.Len(t, q.specs, 1)
	assert.Equal(t, config.RouterContractID, q.specs[0].ContractID)
	assert.Equal(t, "get_listing", q.specs[0].Method)
	assert.Equal(t, testWallet, q.specs[0].Source)
	assert.Equal(t, uint32(7), specListingID(t, q.specs[0]))
}

func TestGetListingEmptyOnSimulationError(t *testing.T) {
	q := &fakeQuerier{fn: func(txpipe.CallSpec) (txpipe.SimulationOutcome, error) {
		return txpipe.SimulationOutcome{Diagnostic: "HostError: missing entry"}, nil
	}}

	view := newMarket(q, nil).GetListing(context.Background(), Session{}, 404)
	assert.Equal(t, ListingView{ID: 404, Status: StatusEmpty}, view)
}

func TestGetListingEmptyOnTransportError(t *testing.T) {
	q := &fakeQuerier{fn: func(txpipe.CallSpec) (txpipe.SimulationOutcome, error) {
		return txpipe.SimulationOutcome{}, errors.New("connection refused")
	}}

	view := newMarket(q, nil).GetListing(context.Background(), Session{}, 9)
	assert.Equal(t, StatusEmpty, view.Status)
}

func TestGetListingAnonymousSessionUsesSimulationAccount(t *testing.T) {
	q := &fakeQuerier{}
	newMarket(q, nil).GetListing(context.Background(), Session{}, 1)

	require.Len(t, q.specs, 1)
	assert.Equal(t, config.SimulationAccount, q.specs[0].Source)
}

func TestApproveAllowanceArgs(t *testing.T) {
	inv := &fakeInvoker{result: &txpipe.InvocationResult{Hash: "deadbeef"}}
	m := newMarket(&fakeQuerier{}, inv)

	result, err := m.ApproveAllowance(context.Background(), Session{Address: testWallet}, 250_000_000)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", result.Hash)

	require.Len(t, inv.specs, 1)
	spec := inv.specs[0]
	assert.Equal(t, config.TokenContractID, spec.ContractID)
	assert.Equal(t, "approve", spec.Method)
	assert.Equal(t, testWallet, spec.Source)
	require.Len(t, spec.Args, 4)

	assert.Equal(t, xdr.ScValTypeScvAddress, spec.Args[0].Type)
	assert.Equal(t, xdr.ScValTypeScvAddress, spec.Args[1].Type)

	amount, ok := spec.Args[2].GetI128()
	require.True(t, ok)
	assert.Equal(t, xdr.Uint64(250_000_000), amount.Lo)

	expiration, ok := spec.Args[3].GetU32()
	require.True(t, ok)
	assert.Equal(t, xdr.Uint32(config.AllowanceExpirationLedgers), expiration)
}

func TestApproveAllowanceRejectsNegativeAmount(t *testing.T) {
	inv := &fakeInvoker{}
	_, err := newMarket(&fakeQuerier{}, inv).ApproveAllowance(context.Background(), Session{Address: testWallet}, -1)
	require.Error(t, err)
	assert.Empty(t, inv.specs)
}

func TestApproveAllowanceRequiresWallet(t *testing.T) {
	inv := &fakeInvoker{}
	_, err := newMarket(&fakeQuerier{}, inv).ApproveAllowance(context.Background(), Session{}, 1)
	require.Error(t, err)
	assert.Empty(t, inv.specs)
}

func TestPurchaseListingArgs(t *testing.T) {
	inv := &fakeInvoker{result: &txpipe.InvocationResult{Hash: "cafe"}}
	m := newMarket(&fakeQuerier{}, inv)

	_, err := m.PurchaseListing(context.Background(), Session{Address: testWallet}, 7)
	require.NoError(t, err)

	require.Len(t, inv.specs, 1)
	spec := inv.specs[0]
	assert.Equal(t, config.RouterContractID, spec.ContractID)
	assert.Equal(t, "purchase", spec.Method)
	require.Len(t, spec.Args, 3)
	assert.Equal(t, uint32(7), specListingID(t, spec))
	assert.Equal(t, xdr.ScValTypeScvAddress, spec.Args[1].Type)
	assert.Equal(t, xdr.ScValTypeScvAddress, spec.Args[2].Type)
}

func TestPurchaseListingPropagatesPipelineError(t *testing.T) {
	inv := &fakeInvoker{err: errors.New("signing failed: declined")}
	_, err := newMarket(&fakeQuerier{}, inv).PurchaseListing(context.Background(), Session{Address: testWallet}, 7)
	require.ErrorContains(t, err, "declined")
}

func TestListListingsFullPage(t *testing.T) {
	q := &fakeQuerier{}
	page := newMarket(q, nil).ListListings(context.Background(), Session{}, 1, 5)

	assert.Len(t, page.Listings, 5)
	assert.True(t, page.HasMore)
	for i, view := range page.Listings {
		assert.Equal(t, uint32(i+1), view.ID)
		assert.Equal(t, StatusActive, view.Status)
	}
}

func TestListListingsShortPageClearsHasMore(t *testing.T) {
	// Listings past id 3 do not exist; their queries fail independently.
	q := &fakeQuerier{fn: func(spec txpipe.CallSpec) (txpipe.SimulationOutcome, error) {
		id, _ := spec.Args[0].GetU32()
		if id > 3 {
			return txpipe.SimulationOutcome{Diagnostic: "HostError: missing entry"}, nil
		}
		return txpipe.SimulationOutcome{}, nil
	}}

	page := newMarket(q, nil).ListListings(context.Background(), Session{}, 1, 5)
	assert.Len(t, page.Listings, 3)
	assert.False(t, page.HasMore)
}

func TestListListingsOneFailureDoesNotCancelOthers(t *testing.T) {
	q := &fakeQuerier{fn: func(spec txpipe.CallSpec) (txpipe.SimulationOutcome, error) {
		id, _ := spec.Args[0].GetU32()
		if id == 2 {
			return txpipe.SimulationOutcome{}, errors.New("connection reset")
		}
		return txpipe.SimulationOutcome{}, nil
	}}

	page := newMarket(q, nil).ListListings(context.Background(), Session{}, 1, 4)
	require.Len(t, q.specs, 4, "every id must still be queried")
	assert.Len(t, page.Listings, 3)
	assert.False(t, page.HasMore)
}

func TestListListingsEmptyCount(t *testing.T) {
	q := &fakeQuerier{}
	page := newMarket(q, nil).ListListings(context.Background(), Session{}, 1, 0)
	assert.Empty(t, page.Listings)
	assert.False(t, page.HasMore)
	assert.Empty(t, q.specs)
}
