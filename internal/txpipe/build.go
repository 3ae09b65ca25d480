// Copyright 2026 Rltmarket Users
// SPDX-License-Identifier: Apache-2.0

// Package txpipe turns logical contract calls into simulated, fee-assembled,
// signed and submitted ledger transactions, and exposes a simulate-only
// variant for state reads.
package txpipe

import (
	"context"
	"fmt"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"

	"github.com/dotandev/rltmarket/internal/config"
	"github.com/dotandev/rltmarket/internal/sorobanrpc"
)

// LedgerRPC is the slice of the RPC client the executors need.
type LedgerRPC interface {
	GetAccount(ctx context.Context, address string) (*txnbuild.SimpleAccount, error)
	SimulateTransaction(ctx context.Context, txB64 string) (*sorobanrpc.SimulateResponse, error)
	SendTransaction(ctx context.Context, txB64 string) (*sorobanrpc.SendResponse, error)
	GetTransaction(ctx context.Context, hash string) (*sorobanrpc.GetTransactionResponse, error)
}

// baseFee is the per-operation fee before resource fees are merged in.
const baseFee = txnbuild.MinBaseFee

// CallSpec is one logical contract call: which contract, which method, the
// ordered arguments and the invoking account.
type CallSpec struct {
	ContractID string
	Method     string
	Args       []xdr.ScVal
	Source     string
}

// SimulationOutcome is the result of one dry run. A non-empty Diagnostic
// means the contract rejected the call; the remaining fields hold the
// resource footprint and return value on success.
type SimulationOutcome struct {
	Diagnostic         string
	TransactionDataXDR string
	MinResourceFee     string
	ReturnValue        xdr.ScVal
}

// OK reports whether the simulation succeeded.
func (o SimulationOutcome) OK() bool { return o.Diagnostic == "" }

// contractScAddress converts a C... strkey into a contract address.
func contractScAddress(contractID string) (xdr.ScAddress, error) {
	raw, err := strkey.Decode(strkey.VersionByteContract, contractID)
	if err != nil {
		return xdr.ScAddress{}, fmt.Errorf("invalid contract id %s: %w", contractID, err)
	}
	var id xdr.ContractId
	copy(id[:], raw)
	return xdr.ScAddress{
		Type:       xdr.ScAddressTypeScAddressTypeContract,
		ContractId: &id,
	}, nil
}

// buildTransaction constructs the single-operation invocation transaction.
// The returned operation is the one inside the transaction so the assemble
// step can attach the simulated footprint to it before rebuilding.
func buildTransaction(account *txnbuild.SimpleAccount, spec CallSpec, incrementSeq bool, baseFee int64) (*txnbuild.Transaction, *txnbuild.InvokeHostFunction, error) {
	contractAddr, err := contractScAddress(spec.ContractID)
	if err != nil {
		return nil, nil, err
	}
	op := &txnbuild.InvokeHostFunction{
		HostFunction: xdr.HostFunction{
			Type: xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
			InvokeContract: &xdr.InvokeContractArgs{
				ContractAddress: contractAddr,
				FunctionName:    xdr.ScSymbol(spec.Method),
				Args:            spec.Args,
			},
		},
		SourceAccount: spec.Source,
	}
	tx, err := wrapOperation(account, op, incrementSeq, baseFee)
	if err != nil {
		return nil, nil, err
	}
	return tx, op, nil
}

// wrapOperation puts the operation into a transaction envelope. The assemble
// step reuses it to rebuild around the same operation after the simulated
// footprint and auth entries have been attached, on the already-incremented
// sequence number.
func wrapOperation(account *txnbuild.SimpleAccount, op *txnbuild.InvokeHostFunction, incrementSeq bool, fee int64) (*txnbuild.Transaction, error) {
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        account,
		IncrementSequenceNum: incrementSeq,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              fee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(int64(config.TxTimeout.Seconds())),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}
	return tx, nil
}

// returnValueFromSimulation decodes the host-function return value from a
// simulation response. Absent or undecodable results yield a zero value.
func returnValueFromSimulation(resp *sorobanrpc.SimulateResponse) xdr.ScVal {
	if len(resp.Results) == 0 {
		return xdr.ScVal{}
	}
	var v xdr.ScVal
	if err := xdr.SafeUnmarshalBase64(resp.Results[0].XDR, &v); err != nil {
		return xdr.ScVal{}
	}
	return v
}

// returnValueFromMeta extracts the host-function return value from a
// transaction's result meta. Undecodable meta yields a zero value.
func returnValueFromMeta(metaB64 string) xdr.ScVal {
	var meta xdr.TransactionMeta
	if err := xdr.SafeUnmarshalBase64(metaB64, &meta); err != nil {
		return xdr.ScVal{}
	}
	switch meta.V {
	case 3:
		if sm := meta.V3.SorobanMeta; sm != nil {
			return sm.ReturnValue
		}
	case 4:
		if sm := meta.V4.SorobanMeta; sm != nil && sm.ReturnValue != nil {
			return *sm.ReturnValue
		}
	}
	return xdr.ScVal{}
}
