// Copyright 2026 Rltmarket Users
// SPDX-License-Identifier: Apache-2.0

package txpipe

import (
	"context"
	"fmt"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

// Signer is the external signing capability. The transaction is handed over
// in serialized form and comes back signed; the pipeline never sees key
// material. Implementations may prompt a user, so signing can take
// arbitrarily long and must respect ctx.
type Signer interface {
	SignTransaction(ctx context.Context, txB64, networkPassphrase string) (string, error)
}

// KeypairSigner signs locally with a parsed secret seed. Used by the CLI;
// browser-wallet style signers implement Signer elsewhere.
type KeypairSigner struct {
	full *keypair.Full
}

// NewKeypairSigner parses a secret seed into a local signer.
func NewKeypairSigner(seed string) (*KeypairSigner, error) {
	full, err := keypair.ParseFull(seed)
	if err != nil {
		return nil, fmt.Errorf("invalid secret seed: %w", err)
	}
	return &KeypairSigner{full: full}, nil
}

// Address returns the signer's public account address.
func (s *KeypairSigner) Address() string {
	return s.full.Address()
}

// SignTransaction signs the serialized transaction for the given network.
func (s *KeypairSigner) SignTransaction(_ context.Context, txB64, networkPassphrase string) (string, error) {
	generic, err := txnbuild.TransactionFromXDR(txB64)
	if err != nil {
		return "", fmt.Errorf("failed to parse transaction: %w", err)
	}
	tx, ok := generic.Transaction()
	if !ok {
		return "", fmt.Errorf("envelope is not a simple transaction")
	}
	signed, err := tx.Sign(networkPassphrase, s.full)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed.Base64()
}
