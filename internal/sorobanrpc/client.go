// Package sorobanrpc is a minimal Soroban RPC client covering the calls the
// transaction pipeline needs: account lookup, simulation, submission,
// finality polling and event retrieval.
package sorobanrpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/rpc/v2/json2"
	goversion "github.com/hashicorp/go-version"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"

	"github.com/dotandev/rltmarket/internal/logger"
)

// MinServerVersion is the oldest RPC server release the client is known to
// work against.
const MinServerVersion = "21.0.0"

// Client talks JSON-RPC to a single Soroban RPC endpoint.
type Client struct {
	url  string
	http *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// NewClient creates a client for the given RPC endpoint URL.
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		url:  url,
		http: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the endpoint the client talks to.
func (c *Client) URL() string { return c.url }

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	body, err := json2.EncodeClientRequest(method, params)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%s request failed: unexpected status %d", method, resp.StatusCode)
	}
	if err := json2.DecodeClientResponse(resp.Body, result); err != nil {
		return fmt.Errorf("%s response invalid: %w", method, err)
	}
	return nil
}

// GetAccount resolves an account's current sequence metadata, needed for
// transaction construction.
func (c *Client) GetAccount(ctx context.Context, address string) (*txnbuild.SimpleAccount, error) {
	var accountID xdr.AccountId
	if err := accountID.SetAddress(address); err != nil {
		return nil, fmt.Errorf("invalid account address %s: %w", address, err)
	}
	key := xdr.LedgerKey{
		Type:    xdr.LedgerEntryTypeAccount,
		Account: &xdr.LedgerKeyAccount{AccountId: accountID},
	}
	keyB64, err := xdr.MarshalBase64(key)
	if err != nil {
		return nil, fmt.Errorf("failed to encode account key: %w", err)
	}

	var resp getLedgerEntriesResponse
	if err := c.call(ctx, "getLedgerEntries", getLedgerEntriesRequest{Keys: []string{keyB64}}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Entries) == 0 {
		return nil, fmt.Errorf("account %s not found", address)
	}

	var data xdr.LedgerEntryData
	if err := xdr.SafeUnmarshalBase64(resp.Entries[0].DataXDR, &data); err != nil {
		return nil, fmt.Errorf("failed to decode account entry: %w", err)
	}
	entry, ok := data.GetAccount()
	if !ok {
		return nil, fmt.Errorf("ledger entry for %s is not an account", address)
	}
	return &txnbuild.SimpleAccount{
		AccountID: address,
		Sequence:  int64(entry.SeqNum),
	}, nil
}

// SimulateTransaction dry-runs a base64 transaction envelope.
func (c *Client) SimulateTransaction(ctx context.Context, txB64 string) (*SimulateResponse, error) {
	var resp SimulateResponse
	if err := c.call(ctx, "simulateTransaction", transactionRequest{Transaction: txB64}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendTransaction submits a signed base64 envelope.
func (c *Client) SendTransaction(ctx context.Context, txB64 string) (*SendResponse, error) {
	var resp SendResponse
	if err := c.call(ctx, "sendTransaction", transactionRequest{Transaction: txB64}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetTransaction fetches the current status of a submitted transaction.
func (c *Client) GetTransaction(ctx context.Context, hash string) (*GetTransactionResponse, error) {
	var resp GetTransactionResponse
	if err := c.call(ctx, "getTransaction", hashRequest{Hash: hash}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetLatestLedger reports the current ledger head sequence.
func (c *Client) GetLatestLedger(ctx context.Context) (*GetLatestLedgerResponse, error) {
	var resp GetLatestLedgerResponse
	if err := c.call(ctx, "getLatestLedger", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetEvents fetches one page of raw contract events.
func (c *Client) GetEvents(ctx context.Context, req GetEventsRequest) (*GetEventsResponse, error) {
	var resp GetEventsResponse
	if err := c.call(ctx, "getEvents", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckVersion verifies the server is at least the given release. The caller
// decides whether a mismatch is fatal; network errors during the check are
// logged and ignored so an unreachable version endpoint never blocks work.
func (c *Client) CheckVersion(ctx context.Context, minimum string) error {
	min, err := goversion.NewVersion(minimum)
	if err != nil {
		return fmt.Errorf("invalid minimum version %q: %w", minimum, err)
	}

	var resp GetVersionInfoResponse
	if err := c.call(ctx, "getVersionInfo", nil, &resp); err != nil {
		logger.Logger.Debug("version check skipped", "error", err)
		return nil
	}
	got, err := goversion.NewVersion(resp.Version)
	if err != nil {
		logger.Logger.Debug("version check skipped", "version", resp.Version, "error", err)
		return nil
	}
	if got.LessThan(min) {
		return fmt.Errorf("rpc server version %s is older than supported minimum %s", resp.Version, minimum)
	}
	return nil
}
