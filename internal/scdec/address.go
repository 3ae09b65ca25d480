// Copyright 2026 Rltmarket Users
// SPDX-License-Identifier: Apache-2.0

package scdec

import (
	"strings"
	"unicode/utf8"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
)

// ed25519KeyLen is the raw public-key length the trailing-key strategy expects.
const ed25519KeyLen = 32

// Address recovers an account address from a value union. An address-typed
// value is returned directly; byte, string and symbol values run through the
// decoding strategies. An empty result means "address unknown", never an
// error: callers must keep processing.
func (d *Decoder) Address(v xdr.ScVal) string {
	switch v.Type {
	case xdr.ScValTypeScvAddress:
		addr, ok := v.GetAddress()
		if !ok {
			return ""
		}
		s, err := addr.String()
		if err != nil {
			return ""
		}
		return s
	case xdr.ScValTypeScvBytes:
		b, _ := v.GetBytes()
		return d.AddressFromBytes([]byte(b))
	case xdr.ScValTypeScvString:
		s, _ := v.GetStr()
		return d.AddressFromBytes([]byte(s))
	case xdr.ScValTypeScvSymbol:
		s, _ := v.GetSym()
		return d.AddressFromBytes([]byte(s))
	}
	return ""
}

// AddressFromBytes tries the two address strategies in fixed order:
// text-with-separator first, trailing public key second.
func (d *Decoder) AddressFromBytes(b []byte) string {
	if addr, ok := d.textSeparatorAddress(b); ok {
		return addr
	}
	if addr, ok := trailingKeyAddress(b); ok {
		return addr
	}
	return ""
}

// textSeparatorAddress interprets the full span as UTF-8 text and, when it
// contains the separator, returns the substring after the first occurrence.
func (d *Decoder) textSeparatorAddress(b []byte) (string, bool) {
	if !utf8.Valid(b) {
		return "", false
	}
	s := string(b)
	i := strings.IndexRune(s, d.separator)
	if i < 0 {
		return "", false
	}
	addr := s[i+utf8.RuneLen(d.separator):]
	if addr == "" {
		return "", false
	}
	return addr, true
}

// trailingKeyAddress encodes the trailing 32 bytes of the span as an ed25519
// public-key address.
func trailingKeyAddress(b []byte) (string, bool) {
	if len(b) < ed25519KeyLen {
		return "", false
	}
	addr, err := strkey.Encode(strkey.VersionByteAccountID, b[len(b)-ed25519KeyLen:])
	if err != nil {
		return "", false
	}
	return addr, true
}
