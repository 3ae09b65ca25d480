package ledgerevents

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotandev/rltmarket/internal/scdec"
)

const testRecipient = "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF"

func mustB64(t *testing.T, v interface{}) string {
	t.Helper()
	s, err := xdr.MarshalBase64(v)
	require.NoError(t, err)
	return s
}

func i128Val(lo uint64) xdr.ScVal {
	parts := xdr.Int128Parts{Hi: 0, Lo: xdr.Uint64(lo)}
	return xdr.ScVal{Type: xdr.ScValTypeScvI128, I128: &parts}
}

// amountsPayload encodes the (royalty, platform) pair the settlement event
// carries in its value field.
func amountsPayload(t *testing.T, royalty, platform uint64) string {
	t.Helper()
	vec := xdr.ScVec{i128Val(royalty), i128Val(platform)}
	pv := &vec
	return mustB64(t, xdr.ScVal{Type: xdr.ScValTypeScvVec, Vec: &pv})
}

func symTopic(t *testing.T, s string) string {
	t.Helper()
	sym := xdr.ScSymbol(s)
	return mustB64(t, xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &sym})
}

func addressTopic(t *testing.T, address string) string {
	t.Helper()
	b := xdr.ScBytes([]byte("to:" + address))
	return mustB64(t, xdr.ScVal{Type: xdr.ScValTypeScvBytes, Bytes: &b})
}

func settlementEvent(t *testing.T, royalty, platform uint64) RawEvent {
	t.Helper()
	return RawEvent{
		ContractID: "CB3QTLZHBKZEXJ2JIVHGBJ5VVONNMZBYTB7EU44D77M6A2IWMVZC2SML",
		Topics: []string{
			symTopic(t, "settle"),
			symTopic(t, "purchase"),
			addressTopic(t, testRecipient),
			symTopic(t, "extra"),
		},
		Value:    amountsPayload(t, royalty, platform),
		Ledger:   1200417,
		ClosedAt: time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC),
	}
}

func newNormalizer() *Normalizer {
	return NewNormalizer(scdec.New())
}

func TestNormalizeRoyaltyOnly(t *testing.T) {
	records := newNormalizer().Normalize([]RawEvent{settlementEvent(t, 250_000_000, 0)})

	require.Len(t, records, 1)
	assert.Equal(t, KindRoyalty, records[0].Kind)
	assert.True(t, records[0].Amount.Equal(decimal.RequireFromString("25")), "got %s", records[0].Amount)
	assert.Equal(t, testRecipient, records[0].Recipient)
}

func TestNormalizeBothLegs(t *testing.T) {
	records := newNormalizer().Normalize([]RawEvent{settlementEvent(t, 250_000_000, 12_500_000)})

	require.Len(t, records, 2)
	assert.Equal(t, KindRoyalty, records[0].Kind)
	assert.Equal(t, KindPlatform, records[1].Kind)
	assert.True(t, records[1].Amount.Equal(decimal.RequireFromString("1.25")), "got %s", records[1].Amount)
}

func TestNormalizeZeroAmountsEmitNothing(t *testing.T) {
	records := newNormalizer().Normalize([]RawEvent{settlementEvent(t, 0, 0)})
	assert.Empty(t, records)
}

func TestNormalizeRecipientFallsBackToFourthTopic(t *testing.T) {
	ev := settlementEvent(t, 1, 0)
	ev.Topics[2] = symTopic(t, "no-address-here")
	ev.Topics[3] = addressTopic(t, testRecipient)

	records := newNormalizer().Normalize([]RawEvent{ev})
	require.Len(t, records, 1)
	assert.Equal(t, testRecipient, records[0].Recipient)
}

func TestNormalizeMissingRecipientDoesNotFail(t *testing.T) {
	ev := settlementEvent(t, 1, 1)
	ev.Topics = ev.Topics[:2]

	records := newNormalizer().Normalize([]RawEvent{ev})
	require.Len(t, records, 2)
	assert.Empty(t, records[0].Recipient)
	assert.Empty(t, records[1].Recipient)
}

func TestNormalizeMalformedPayloadDegrades(t *testing.T) {
	ev := settlementEvent(t, 1, 1)
	ev.Value = "!!not base64!!"

	assert.Empty(t, newNormalizer().Normalize([]RawEvent{ev}))
}

func TestNormalizeShortVectorDefaultsToZero(t *testing.T) {
	ev := settlementEvent(t, 0, 0)
	vec := xdr.ScVec{i128Val(70_000_000)}
	pv := &vec
	ev.Value = mustB64(t, xdr.ScVal{Type: xdr.ScValTypeScvVec, Vec: &pv})

	records := newNormalizer().Normalize([]RawEvent{ev})
	require.Len(t, records, 1)
	assert.Equal(t, KindRoyalty, records[0].Kind)
	assert.True(t, records[0].Amount.Equal(decimal.RequireFromString("7")))
}

func TestNormalizePreservesEventOrder(t *testing.T) {
	first := settlementEvent(t, 10_000_000, 0)
	second := settlementEvent(t, 0, 20_000_000)
	second.Ledger = first.Ledger + 1

	records := newNormalizer().Normalize([]RawEvent{first, second})
	require.Len(t, records, 2)
	assert.Equal(t, KindRoyalty, records[0].Kind)
	assert.Equal(t, first.Ledger, records[0].Ledger)
	assert.Equal(t, KindPlatform, records[1].Kind)
	assert.Equal(t, second.Ledger, records[1].Ledger)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	events := []RawEvent{settlementEvent(t, 250_000_000, 12_500_000)}
	n := newNormalizer()

	first := n.Normalize(events)
	second := n.Normalize(events)
	require.Equal(t, first, second)
}
