// Copyright 2026 Rltmarket Users
// SPDX-License-Identifier: Apache-2.0

package market

import (
	"fmt"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
)

// Argument encoding helpers for the fixed call shapes.

func accountScVal(address string) (xdr.ScVal, error) {
	var accountID xdr.AccountId
	if err := accountID.SetAddress(address); err != nil {
		return xdr.ScVal{}, fmt.Errorf("invalid account address %s: %w", address, err)
	}
	addr := xdr.ScAddress{
		Type:      xdr.ScAddressTypeScAddressTypeAccount,
		AccountId: &accountID,
	}
	return xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &addr}, nil
}

func contractScVal(contractID string) (xdr.ScVal, error) {
	raw, err := strkey.Decode(strkey.VersionByteContract, contractID)
	if err != nil {
		return xdr.ScVal{}, fmt.Errorf("invalid contract id %s: %w", contractID, err)
	}
	var id xdr.ContractId
	copy(id[:], raw)
	addr := xdr.ScAddress{
		Type:       xdr.ScAddressTypeScAddressTypeContract,
		ContractId: &id,
	}
	return xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &addr}, nil
}

func u32ScVal(v uint32) xdr.ScVal {
	u := xdr.Uint32(v)
	return xdr.ScVal{Type: xdr.ScValTypeScvU32, U32: &u}
}

// i128ScVal encodes a non-negative 64-bit amount into the low word of a
// 128-bit value.
func i128ScVal(v int64) xdr.ScVal {
	parts := xdr.Int128Parts{Hi: 0, Lo: xdr.Uint64(v)}
	return xdr.ScVal{Type: xdr.ScValTypeScvI128, I128: &parts}
}
