// Copyright 2026 Rltmarket Users
// SPDX-License-Identifier: Apache-2.0

package txpipe

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dotandev/rltmarket/internal/config"
	"github.com/dotandev/rltmarket/internal/logger"
	"github.com/dotandev/rltmarket/internal/sorobanrpc"
)

// InvocationResult is the terminal state of a successful invocation.
type InvocationResult struct {
	Hash        string
	Ledger      uint32
	ReturnValue xdr.ScVal
}

// InvokeExecutor drives a state-changing contract call through the full
// pipeline: build, simulate, assemble, sign, submit, poll. It is the only
// component that mutates ledger state.
type InvokeExecutor struct {
	rpc        LedgerRPC
	signer     Signer
	passphrase string

	pollInterval time.Duration
	pollDeadline time.Duration

	tracer trace.Tracer
}

// InvokeOption configures an InvokeExecutor.
type InvokeOption func(*InvokeExecutor)

// WithPollInterval sets the delay between finality polls.
func WithPollInterval(d time.Duration) InvokeOption {
	return func(e *InvokeExecutor) { e.pollInterval = d }
}

// WithPollDeadline bounds the whole polling phase.
func WithPollDeadline(d time.Duration) InvokeOption {
	return func(e *InvokeExecutor) { e.pollDeadline = d }
}

// NewInvokeExecutor returns an executor signing for the given network
// passphrase.
func NewInvokeExecutor(rpc LedgerRPC, signer Signer, passphrase string, opts ...InvokeOption) *InvokeExecutor {
	e := &InvokeExecutor{
		rpc:          rpc,
		signer:       signer,
		passphrase:   passphrase,
		pollInterval: config.PollInterval,
		pollDeadline: config.PollDeadline,
		tracer:       otel.Tracer("rltmarket/txpipe"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Invoke runs a contract call end to end and waits for finality. Errors are
// tagged with the pipeline stage that failed: ErrSimulation, ErrSigning,
// ErrSubmission, ErrOnLedgerFailure or ErrFinalityTimeout.
func (e *InvokeExecutor) Invoke(ctx context.Context, spec CallSpec) (*InvocationResult, error) {
	ctx, span := e.tracer.Start(ctx, "invoke",
		trace.WithAttributes(
			attribute.String("contract.id", spec.ContractID),
			attribute.String("contract.method", spec.Method),
		))
	defer span.End()

	account, err := e.rpc.GetAccount(ctx, spec.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoking account: %w", err)
	}

	tx, op, err := buildTransaction(account, spec, true, baseFee)
	if err != nil {
		return nil, err
	}

	sim, err := e.simulate(ctx, tx)
	if err != nil {
		return nil, err
	}

	assembled, err := e.assemble(ctx, account, op, sim)
	if err != nil {
		return nil, err
	}

	signedB64, err := e.sign(ctx, assembled)
	if err != nil {
		return nil, err
	}

	hash, err := e.submit(ctx, signedB64)
	if err != nil {
		return nil, err
	}

	return e.poll(ctx, hash)
}

func (e *InvokeExecutor) simulate(ctx context.Context, tx *txnbuild.Transaction) (*sorobanrpc.SimulateResponse, error) {
	ctx, span := e.tracer.Start(ctx, "simulate")
	defer span.End()

	txB64, err := tx.Base64()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}
	resp, err := e.rpc.SimulateTransaction(ctx, txB64)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		// Keep the server's detail; "allowance insufficient" and
		// "contract trap" must stay distinguishable for the caller.
		return nil, fmt.Errorf("%w: %s", ErrSimulation, resp.Error)
	}
	return resp, nil
}

// assemble merges the simulated resource footprint, authorization entries
// and minimum resource fee into the transaction, rebuilding it on the
// already-incremented sequence number.
func (e *InvokeExecutor) assemble(ctx context.Context, account *txnbuild.SimpleAccount, op *txnbuild.InvokeHostFunction, sim *sorobanrpc.SimulateResponse) (string, error) {
	_, span := e.tracer.Start(ctx, "assemble")
	defer span.End()

	var sorobanData xdr.SorobanTransactionData
	if err := xdr.SafeUnmarshalBase64(sim.TransactionDataXDR, &sorobanData); err != nil {
		return "", fmt.Errorf("failed to decode simulated transaction data: %w", err)
	}
	op.Ext = xdr.TransactionExt{V: 1, SorobanData: &sorobanData}

	if len(sim.Results) > 0 {
		auth := make([]xdr.SorobanAuthorizationEntry, 0, len(sim.Results[0].Auth))
		for _, a := range sim.Results[0].Auth {
			var entry xdr.SorobanAuthorizationEntry
			if err := xdr.SafeUnmarshalBase64(a, &entry); err != nil {
				return "", fmt.Errorf("failed to decode authorization entry: %w", err)
			}
			auth = append(auth, entry)
		}
		op.Auth = auth
	}

	minFee, err := strconv.ParseInt(sim.MinResourceFee, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid min resource fee %q: %w", sim.MinResourceFee, err)
	}

	tx, err := wrapOperation(account, op, false, baseFee+minFee)
	if err != nil {
		return "", err
	}
	return tx.Base64()
}

func (e *InvokeExecutor) sign(ctx context.Context, txB64 string) (string, error) {
	ctx, span := e.tracer.Start(ctx, "sign")
	defer span.End()

	signed, err := e.signer.SignTransaction(ctx, txB64, e.passphrase)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return signed, nil
}

func (e *InvokeExecutor) submit(ctx context.Context, signedB64 string) (string, error) {
	ctx, span := e.tracer.Start(ctx, "submit")
	defer span.End()

	resp, err := e.rpc.SendTransaction(ctx, signedB64)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	if resp.Status == sorobanrpc.SendStatusError {
		return "", fmt.Errorf("%w: status %s (%s)", ErrSubmission, resp.Status, resp.ErrorResultXDR)
	}
	return resp.Hash, nil
}

// poll fetches the transaction status at a fixed interval while it is not
// yet found, bounded by the executor's deadline. Any terminal status other
// than FAILED counts as success.
func (e *InvokeExecutor) poll(ctx context.Context, hash string) (*InvocationResult, error) {
	ctx, span := e.tracer.Start(ctx, "poll", trace.WithAttributes(attribute.String("tx.hash", hash)))
	defer span.End()

	deadline := time.Now().Add(e.pollDeadline)
	for {
		resp, err := e.rpc.GetTransaction(ctx, hash)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch transaction %s: %w", hash, err)
		}
		switch resp.Status {
		case sorobanrpc.TxStatusNotFound:
			if time.Now().After(deadline) {
				return nil, fmt.Errorf("%w: %s", ErrFinalityTimeout, hash)
			}
			logger.Logger.Debug("transaction not yet included", "hash", hash)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.pollInterval):
			}
		case sorobanrpc.TxStatusFailed:
			return nil, fmt.Errorf("%w: %s (result %s)", ErrOnLedgerFailure, hash, resp.ResultXDR)
		default:
			return &InvocationResult{
				Hash:        hash,
				Ledger:      resp.Ledger,
				ReturnValue: returnValueFromMeta(resp.ResultMetaXDR),
			}, nil
		}
	}
}
