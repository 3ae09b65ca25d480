package scdec

import (
	"strings"
	"testing"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/require"
)

const testAccount = "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF"

func TestAddressTextSeparatorStrategy(t *testing.T) {
	got := New().AddressFromBytes([]byte("royalty:" + testAccount))
	require.Equal(t, testAccount, got)
}

func TestAddressTextSeparatorFirstOccurrence(t *testing.T) {
	got := New().AddressFromBytes([]byte("a:b:c"))
	require.Equal(t, "b:c", got)
}

func TestAddressCustomSeparator(t *testing.T) {
	d := New(WithAddressSeparator('|'))
	got := d.AddressFromBytes([]byte("royalty|" + testAccount))
	require.Equal(t, testAccount, got)
}

func TestAddressTrailingKeyStrategy(t *testing.T) {
	raw, err := strkey.Decode(strkey.VersionByteAccountID, testAccount)
	require.NoError(t, err)

	// A prefix before the key and no separator forces the second strategy.
	span := append([]byte{0x01, 0x02, 0x03}, raw...)
	got := New().AddressFromBytes(span)
	require.Equal(t, testAccount, got)
}

func TestAddressStrategyOrder(t *testing.T) {
	// A span that is valid text with a separator AND long enough for the
	// trailing-key strategy must resolve through the text strategy.
	tail := strings.Repeat("A", 40)
	got := New().AddressFromBytes([]byte("addr:" + tail))
	require.Equal(t, tail, got)
}

func TestAddressBothStrategiesFail(t *testing.T) {
	got := New().AddressFromBytes([]byte{0xff, 0xfe, 0x01})
	require.Empty(t, got)
}

func TestAddressValDirect(t *testing.T) {
	var accountID xdr.AccountId
	require.NoError(t, accountID.SetAddress(testAccount))
	addr := xdr.ScAddress{Type: xdr.ScAddressTypeScAddressTypeAccount, AccountId: &accountID}
	v := xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &addr}

	require.Equal(t, testAccount, New().Address(v))
}

func TestAddressValBytes(t *testing.T) {
	b := xdr.ScBytes([]byte("owner:" + testAccount))
	v := xdr.ScVal{Type: xdr.ScValTypeScvBytes, Bytes: &b}

	require.Equal(t, testAccount, New().Address(v))
}

func TestAddressValUnsupportedTag(t *testing.T) {
	require.Empty(t, New().Address(u32Val(7)))
}
