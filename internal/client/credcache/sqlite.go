package credcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/memoirapp/mediakit/internal/dbx"
)

// SQLiteStore persists credentials in the client's local sqlite database,
// one row per scope. The payload is the JSON-serialized Credential.
type SQLiteStore struct {
	db dbx.DBTX
}

func NewSQLiteStore(db dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context, scope Scope) (*Credential, error) {
	var payload []byte

	query := `SELECT payload FROM credentials WHERE scope = ?`
	err := s.db.QueryRowContext(ctx, query, string(scope)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(payload, &cred); err != nil {
		return nil, fmt.Errorf("failed to decode credential: %w", err)
	}
	return &cred, nil
}

func (s *SQLiteStore) Save(ctx context.Context, scope Scope, cred *Credential) error {
	payload, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}

	query := `INSERT INTO credentials (scope, payload)
			VALUES (?, ?)
			ON CONFLICT(scope) DO UPDATE SET payload = excluded.payload`
	if _, err := s.db.ExecContext(ctx, query, string(scope), payload); err != nil {
		return fmt.Errorf("failed to upsert credential: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, scope Scope) error {
	query := `DELETE FROM credentials WHERE scope = ?`
	if _, err := s.db.ExecContext(ctx, query, string(scope)); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}
