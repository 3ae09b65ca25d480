// Package store persists normalized settlement records and the per-contract
// event cursor so repeated event fetches resume where they left off.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/dotandev/rltmarket/internal/ledgerevents"
)

const schema = `
CREATE TABLE IF NOT EXISTS settlements (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	amount      TEXT NOT NULL,
	recipient   TEXT NOT NULL,
	contract_id TEXT NOT NULL,
	ledger      INTEGER NOT NULL,
	closed_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_settlements_contract ON settlements(contract_id, ledger);

CREATE TABLE IF NOT EXISTS event_cursor (
	contract_id TEXT PRIMARY KEY,
	last_ledger INTEGER NOT NULL
);
`

// Store is a sqlite-backed settlement history.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSettlements appends records to the history.
func (s *Store) SaveSettlements(ctx context.Context, records []ledgerevents.SettlementRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin settlement write: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO settlements (id, kind, amount, recipient, contract_id, ledger, closed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare settlement insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(), string(r.Kind), r.Amount.String(), r.Recipient,
			r.ContractID, r.Ledger, r.ClosedAt.UTC()); err != nil {
			return fmt.Errorf("failed to insert settlement: %w", err)
		}
	}
	return tx.Commit()
}

// Settlements returns up to limit records for a contract, newest ledger
// first.
func (s *Store) Settlements(ctx context.Context, contractID string, limit int) ([]ledgerevents.SettlementRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, amount, recipient, contract_id, ledger, closed_at
		 FROM settlements WHERE contract_id = ?
		 ORDER BY ledger DESC, closed_at DESC LIMIT ?`, contractID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlements: %w", err)
	}
	defer rows.Close()

	var records []ledgerevents.SettlementRecord
	for rows.Next() {
		var (
			r      ledgerevents.SettlementRecord
			kind   string
			amount string
			closed time.Time
		)
		if err := rows.Scan(&kind, &amount, &r.Recipient, &r.ContractID, &r.Ledger, &closed); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		dec, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("corrupt settlement amount %q: %w", amount, err)
		}
		r.Kind = ledgerevents.Kind(kind)
		r.Amount = dec
		r.ClosedAt = closed
		records = append(records, r)
	}
	return records, rows.Err()
}

// Cursor returns the last processed ledger for a contract, if any.
func (s *Store) Cursor(ctx context.Context, contractID string) (uint32, bool, error) {
	var ledger uint32
	err := s.db.QueryRowContext(ctx,
		`SELECT last_ledger FROM event_cursor WHERE contract_id = ?`, contractID).Scan(&ledger)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read event cursor: %w", err)
	}
	return ledger, true, nil
}

// SetCursor records the last processed ledger for a contract.
func (s *Store) SetCursor(ctx context.Context, contractID string, ledger uint32) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO event_cursor (contract_id, last_ledger) VALUES (?, ?)
		 ON CONFLICT(contract_id) DO UPDATE SET last_ledger = excluded.last_ledger`,
		contractID, ledger)
	if err != nil {
		return fmt.Errorf("failed to write event cursor: %w", err)
	}
	return nil
}
