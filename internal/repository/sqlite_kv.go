package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
)

// CustomActionsKey is the kv_store key holding the custom action list.
const CustomActionsKey = "customActions"

// SQLiteKVStore implements KVStore on the kv_store table.
type SQLiteKVStore struct {
	db db.DBTX
}

func NewSQLiteKVStore(conn db.DBTX) *SQLiteKVStore {
	return &SQLiteKVStore{db: conn}
}

func (s *SQLiteKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteKVStore) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, key, value, nowUTC()); err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteKVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting key %s: %w", key, err)
	}
	return nil
}

// KVCustomActionRepo keeps the whole custom action list as one JSON document
// under CustomActionsKey.
type KVCustomActionRepo struct {
	kv KVStore
}

func NewKVCustomActionRepo(kv KVStore) *KVCustomActionRepo {
	return &KVCustomActionRepo{kv: kv}
}

// List returns the stored custom actions. A missing key is an empty list.
func (r *KVCustomActionRepo) List(ctx context.Context) ([]domain.CustomAction, error) {
	raw, ok, err := r.kv.Get(ctx, CustomActionsKey)
	if err != nil || !ok {
		return nil, err
	}
	var actions []domain.CustomAction
	if err := json.Unmarshal([]byte(raw), &actions); err != nil {
		return nil, fmt.Errorf("decoding custom actions: %w", err)
	}
	return actions, nil
}

func (r *KVCustomActionRepo) SaveAll(ctx context.Context, actions []domain.CustomAction) error {
	if actions == nil {
		actions = []domain.CustomAction{}
	}
	raw, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("encoding custom actions: %w", err)
	}
	return r.kv.Set(ctx, CustomActionsKey, string(raw))
}
