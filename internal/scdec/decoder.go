// Copyright 2026 Rltmarket Users
// SPDX-License-Identifier: Apache-2.0

// Package scdec decodes base64-encoded Soroban contract values into plain Go
// values: unsigned 32-bit integers, 128-bit amounts, byte vectors and nested
// vectors. Decoding of unknown value tags follows an explicit policy rather
// than a silent fallback.
package scdec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/stellar/go/xdr"
)

var (
	// ErrDecode indicates malformed base64 or XDR input.
	ErrDecode = errors.New("malformed contract value")
	// ErrUnknownTag indicates a value union tag the caller did not expect.
	// Only returned under PolicyStrict.
	ErrUnknownTag = errors.New("unknown value tag")
)

// Policy controls how mismatched value tags are handled.
type Policy int

const (
	// PolicyLenient decodes an unexpected tag to the zero value.
	PolicyLenient Policy = iota
	// PolicyStrict fails with ErrUnknownTag instead.
	PolicyStrict
)

// amountScale is the number of decimal places a raw 128-bit token amount
// carries (1 unit == 10^7 stroops).
const amountScale = 7

// Decoder decodes contract values under a fixed policy.
type Decoder struct {
	policy    Policy
	separator rune
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithPolicy sets the tag-mismatch policy.
func WithPolicy(p Policy) Option {
	return func(d *Decoder) { d.policy = p }
}

// WithAddressSeparator sets the separator the text address strategy splits on.
func WithAddressSeparator(sep rune) Option {
	return func(d *Decoder) { d.separator = sep }
}

// New returns a Decoder. The default policy is lenient and the default
// address separator is ':'.
func New(opts ...Option) *Decoder {
	d := &Decoder{policy: PolicyLenient, separator: ':'}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Bytes decodes a base64 string into raw bytes.
func (d *Decoder) Bytes(b64 string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return raw, nil
}

// Val decodes a base64 string into a contract value union.
func (d *Decoder) Val(b64 string) (xdr.ScVal, error) {
	var v xdr.ScVal
	if err := xdr.SafeUnmarshalBase64(b64, &v); err != nil {
		return xdr.ScVal{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return v, nil
}

// Uint32 extracts an unsigned 32-bit integer from a value union.
func (d *Decoder) Uint32(v xdr.ScVal) (uint32, error) {
	if u, ok := v.GetU32(); ok {
		return uint32(u), nil
	}
	if d.policy == PolicyStrict {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTag, v.Type)
	}
	return 0, nil
}

// Int128 extracts the magnitude of a 128-bit integer, combining the high and
// low words as (hi << 64) + lo.
func (d *Decoder) Int128(v xdr.ScVal) (*big.Int, error) {
	parts, ok := v.GetI128()
	if !ok {
		if d.policy == PolicyStrict {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTag, v.Type)
		}
		return new(big.Int), nil
	}
	n := new(big.Int).SetInt64(int64(parts.Hi))
	n.Lsh(n, 64)
	return n.Add(n, new(big.Int).SetUint64(uint64(parts.Lo))), nil
}

// Amount extracts a 128-bit integer and scales it to a token amount.
func (d *Decoder) Amount(v xdr.ScVal) (decimal.Decimal, error) {
	n, err := d.Int128(v)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(n, -amountScale), nil
}

// ByteVec extracts a byte vector from a value union.
func (d *Decoder) ByteVec(v xdr.ScVal) ([]byte, error) {
	if b, ok := v.GetBytes(); ok {
		return []byte(b), nil
	}
	if d.policy == PolicyStrict {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTag, v.Type)
	}
	return nil, nil
}

// Vec extracts a nested vector of value unions. A missing or mistagged vector
// decodes to nil under the lenient policy.
func (d *Decoder) Vec(v xdr.ScVal) ([]xdr.ScVal, error) {
	if vec, ok := v.GetVec(); ok && vec != nil {
		return []xdr.ScVal(*vec), nil
	}
	if d.policy == PolicyStrict {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTag, v.Type)
	}
	return nil, nil
}
