// Copyright 2026 Rltmarket Users
// SPDX-License-Identifier: Apache-2.0

package txpipe

import "errors"

var (
	// ErrSimulation indicates the contract rejected the call during the
	// dry run, before anything was signed or submitted.
	ErrSimulation = errors.New("simulation failed")
	// ErrSigning indicates the signer declined or failed; nothing was
	// submitted.
	ErrSigning = errors.New("signing failed")
	// ErrSubmission indicates the network rejected the signed envelope.
	ErrSubmission = errors.New("transaction submission failed")
	// ErrOnLedgerFailure indicates the transaction was included in a
	// ledger but executed with failure.
	ErrOnLedgerFailure = errors.New("transaction failed on-chain")
	// ErrFinalityTimeout indicates polling exhausted its deadline while
	// the transaction was still not found. The transaction may yet be
	// included; this is distinct from an on-ledger failure.
	ErrFinalityTimeout = errors.New("timed out waiting for transaction finality")
)
