// Copyright 2026 Rltmarket Users
// SPDX-License-Identifier: Apache-2.0

package txpipe

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dotandev/rltmarket/internal/logger"
)

// QueryExecutor builds and simulates transactions for state reads. It never
// signs, never submits and never mutates ledger state.
type QueryExecutor struct {
	rpc    LedgerRPC
	tracer trace.Tracer
}

// NewQueryExecutor returns a read-only executor over the given RPC boundary.
func NewQueryExecutor(rpc LedgerRPC) *QueryExecutor {
	return &QueryExecutor{
		rpc:    rpc,
		tracer: otel.Tracer("rltmarket/txpipe"),
	}
}

// Query simulates a contract call from the given source account. A contract
// rejection is reported in the outcome's Diagnostic, not as an error; the
// error return covers transport and construction failures only.
func (q *QueryExecutor) Query(ctx context.Context, spec CallSpec) (SimulationOutcome, error) {
	ctx, span := q.tracer.Start(ctx, "query",
		trace.WithAttributes(
			attribute.String("contract.id", spec.ContractID),
			attribute.String("contract.method", spec.Method),
		))
	defer span.End()

	account, err := q.rpc.GetAccount(ctx, spec.Source)
	if err != nil {
		return SimulationOutcome{}, fmt.Errorf("failed to load source account: %w", err)
	}

	tx, _, err := buildTransaction(account, spec, true, baseFee)
	if err != nil {
		return SimulationOutcome{}, err
	}
	txB64, err := tx.Base64()
	if err != nil {
		return SimulationOutcome{}, fmt.Errorf("failed to encode transaction: %w", err)
	}

	resp, err := q.rpc.SimulateTransaction(ctx, txB64)
	if err != nil {
		return SimulationOutcome{}, err
	}
	if resp.Error != "" {
		logger.Logger.Debug("read simulation rejected",
			"contract", spec.ContractID, "method", spec.Method, "error", resp.Error)
		return SimulationOutcome{Diagnostic: resp.Error}, nil
	}
	return SimulationOutcome{
		TransactionDataXDR: resp.TransactionDataXDR,
		MinResourceFee:     resp.MinResourceFee,
		ReturnValue:        returnValueFromSimulation(resp),
	}, nil
}
