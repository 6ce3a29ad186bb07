package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stumble/wpgx"

	"github.com/conr2d/restaking/pkg/core"
)

// AccountsSchema creates the single table program state lives in.
const AccountsSchema = `
CREATE TABLE IF NOT EXISTS restaking_accounts (
    address    BYTEA PRIMARY KEY,
    owner      BYTEA NOT NULL,
    data       BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const getAccountSQL = `
SELECT owner, data FROM restaking_accounts WHERE address = $1
`

const upsertAccountSQL = `
INSERT INTO restaking_accounts (address, owner, data, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (address) DO UPDATE
SET owner = EXCLUDED.owner, data = EXCLUDED.data, updated_at = now()
`

// PGStore persists accounts in postgres. Batches commit inside one
// transaction, which provides the store's atomicity guarantee.
type PGStore struct {
	pool *wpgx.Pool
}

func NewPGStore(pool *wpgx.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// CreateSchema ensures the accounts table exists.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	if _, err := s.pool.WConn().WExec(ctx, "restaking_accounts.schema", AccountsSchema); err != nil {
		return fmt.Errorf("failed to create accounts schema: %w", err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, key core.Pubkey) (*Entry, error) {
	var owner, data []byte
	row := s.pool.WConn().WQueryRow(ctx, "restaking_accounts.get", getAccountSQL, key.Bytes())
	if err := row.Scan(&owner, &data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load account %s: %w", key, err)
	}
	ownerKey, err := core.PubkeyFromBytes(owner)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", key, err)
	}
	return &Entry{Key: key, Owner: ownerKey, Data: data}, nil
}

func (s *PGStore) PutBatch(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	_, err := s.pool.Transact(ctx, pgx.TxOptions{}, func(ctx context.Context, tx *wpgx.WTx) (any, error) {
		for _, entry := range entries {
			_, err := tx.WExec(ctx, "restaking_accounts.upsert", upsertAccountSQL,
				entry.Key.Bytes(), entry.Owner.Bytes(), entry.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to upsert account %s: %w", entry.Key, err)
			}
		}
		return nil, nil
	})
	return err
}
