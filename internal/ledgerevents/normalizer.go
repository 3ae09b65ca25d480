// Copyright 2026 Rltmarket Users
// SPDX-License-Identifier: Apache-2.0

// Package ledgerevents turns raw contract events into normalized settlement
// records. The transform is pure: the same input always yields the same
// records and nothing is mutated or kept between calls.
package ledgerevents

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dotandev/rltmarket/internal/scdec"
)

// Kind labels the two legs of a settlement.
type Kind string

const (
	KindRoyalty  Kind = "royalty"
	KindPlatform Kind = "platform"
)

// Candidate topic positions for the recipient address, tried in order.
var recipientTopics = []int{2, 3}

// RawEvent is one contract event as the ledger reports it: base64 topics,
// a base64 value payload and the close time of the containing ledger.
type RawEvent struct {
	ContractID string
	Topics     []string
	Value      string
	Ledger     uint32
	ClosedAt   time.Time
}

// SettlementRecord is one settled transfer leg.
type SettlementRecord struct {
	Kind       Kind            `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Recipient  string          `json:"recipient"`
	ContractID string          `json:"contractId"`
	Ledger     uint32          `json:"ledger"`
	ClosedAt   time.Time       `json:"closedAt"`
}

// Normalizer decodes settlement events.
type Normalizer struct {
	dec *scdec.Decoder
}

// NewNormalizer returns a Normalizer using the given decoder.
func NewNormalizer(dec *scdec.Decoder) *Normalizer {
	return &Normalizer{dec: dec}
}

// Normalize emits at most two records per input event: a royalty leg and a
// platform-fee leg, each only when its decoded amount is strictly positive.
// Output order follows input order. Undecodable payloads degrade to zero
// amounts and undecodable addresses to an empty recipient; neither aborts
// the batch.
func (n *Normalizer) Normalize(events []RawEvent) []SettlementRecord {
	var records []SettlementRecord
	for _, ev := range events {
		royalty, platform := n.amounts(ev.Value)
		recipient := n.recipient(ev.Topics)

		if royalty.IsPositive() {
			records = append(records, SettlementRecord{
				Kind:       KindRoyalty,
				Amount:     royalty,
				Recipient:  recipient,
				ContractID: ev.ContractID,
				Ledger:     ev.Ledger,
				ClosedAt:   ev.ClosedAt,
			})
		}
		if platform.IsPositive() {
			records = append(records, SettlementRecord{
				Kind:       KindPlatform,
				Amount:     platform,
				Recipient:  recipient,
				ContractID: ev.ContractID,
				Ledger:     ev.Ledger,
				ClosedAt:   ev.ClosedAt,
			})
		}
	}
	return records
}

// amounts decodes the value payload as a vector of two scaled 128-bit
// amounts in fixed order: royalty first, platform second. Missing elements
// default to zero.
func (n *Normalizer) amounts(payload string) (royalty, platform decimal.Decimal) {
	royalty, platform = decimal.Zero, decimal.Zero

	val, err := n.dec.Val(payload)
	if err != nil {
		return royalty, platform
	}
	vec, err := n.dec.Vec(val)
	if err != nil {
		return royalty, platform
	}
	if len(vec) > 0 {
		if a, err := n.dec.Amount(vec[0]); err == nil {
			royalty = a
		}
	}
	if len(vec) > 1 {
		if a, err := n.dec.Amount(vec[1]); err == nil {
			platform = a
		}
	}
	return royalty, platform
}

// recipient decodes the recipient address from the candidate topic
// positions; the first non-empty result wins.
func (n *Normalizer) recipient(topics []string) string {
	for _, i := range recipientTopics {
		if i >= len(topics) {
			continue
		}
		val, err := n.dec.Val(topics[i])
		if err != nil {
			continue
		}
		if addr := n.dec.Address(val); addr != "" {
			return addr
		}
	}
	return ""
}
