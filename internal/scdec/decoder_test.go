package scdec

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/require"
)

func mustB64(t *testing.T, v interface{}) string {
	t.Helper()
	s, err := xdr.MarshalBase64(v)
	require.NoError(t, err)
	return s
}

func u32Val(v uint32) xdr.ScVal {
	u := xdr.Uint32(v)
	return xdr.ScVal{Type: xdr.ScValTypeScvU32, U32: &u}
}

func i128Val(hi int64, lo uint64) xdr.ScVal {
	parts := xdr.Int128Parts{Hi: xdr.Int64(hi), Lo: xdr.Uint64(lo)}
	return xdr.ScVal{Type: xdr.ScValTypeScvI128, I128: &parts}
}

func symVal(s string) xdr.ScVal {
	sym := xdr.ScSymbol(s)
	return xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &sym}
}

func vecVal(vals ...xdr.ScVal) xdr.ScVal {
	vec := xdr.ScVec(vals)
	pv := &vec
	return xdr.ScVal{Type: xdr.ScValTypeScvVec, Vec: &pv}
}

func TestBytesMalformedBase64(t *testing.T) {
	_, err := New().Bytes("not-base64!!!")
	require.ErrorIs(t, err, ErrDecode)
}

func TestValMalformedBase64(t *testing.T) {
	_, err := New().Val("not-base64!!!")
	require.ErrorIs(t, err, ErrDecode)
}

func TestValRoundTrip(t *testing.T) {
	d := New()
	v, err := d.Val(mustB64(t, u32Val(42)))
	require.NoError(t, err)

	got, err := d.Uint32(v)
	require.NoError(t, err)
	require.Equal(t, uint32(42), got)
}

func TestUint32LenientFallback(t *testing.T) {
	got, err := New().Uint32(symVal("purchase"))
	require.NoError(t, err)
	require.Zero(t, got)
}

func TestUint32Strict(t *testing.T) {
	_, err := New(WithPolicy(PolicyStrict)).Uint32(symVal("purchase"))
	require.ErrorIs(t, err, ErrUnknownTag)
}

func TestInt128CombinesWords(t *testing.T) {
	got, err := New().Int128(i128Val(1, 5))
	require.NoError(t, err)

	want := new(big.Int).Lsh(big.NewInt(1), 64)
	want.Add(want, big.NewInt(5))
	require.Zero(t, got.Cmp(want))
}

func TestInt128LenientFallback(t *testing.T) {
	got, err := New().Int128(symVal("x"))
	require.NoError(t, err)
	require.Zero(t, got.Sign())
}

func TestAmountScaling(t *testing.T) {
	got, err := New().Amount(i128Val(0, 250_000_000))
	require.NoError(t, err)
	require.True(t, got.Equal(decimal.RequireFromString("25")), "got %s", got)
}

func TestAmountStrict(t *testing.T) {
	_, err := New(WithPolicy(PolicyStrict)).Amount(u32Val(1))
	require.ErrorIs(t, err, ErrUnknownTag)
}

func TestVec(t *testing.T) {
	d := New()
	vals, err := d.Vec(vecVal(u32Val(1), u32Val(2)))
	require.NoError(t, err)
	require.Len(t, vals, 2)

	first, err := d.Uint32(vals[0])
	require.NoError(t, err)
	require.Equal(t, uint32(1), first)
}

func TestVecLenientFallback(t *testing.T) {
	vals, err := New().Vec(u32Val(1))
	require.NoError(t, err)
	require.Nil(t, vals)
}

func TestVecStrict(t *testing.T) {
	_, err := New(WithPolicy(PolicyStrict)).Vec(u32Val(1))
	require.ErrorIs(t, err, ErrUnknownTag)
}

func TestByteVec(t *testing.T) {
	b := xdr.ScBytes([]byte{1, 2, 3})
	v := xdr.ScVal{Type: xdr.ScValTypeScvBytes, Bytes: &b}

	got, err := New().ByteVec(v)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, got)
}
