package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tokengate/internal/allowlist/models"
	"tokengate/internal/sentinel"
	"tokengate/pkg/domain"
)

// SQLiteStore persists allowlists in an embedded SQLite database so registry
// state survives restarts. It mirrors the in-memory store's conditional
// operations; every owner check runs inside the same transaction as the
// mutation it guards.
//
// The caller owns the *sql.DB and is expected to open it with the
// modernc.org/sqlite driver.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite constructs a SQLite-backed allowlist store.
func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Migrate creates the schema if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS allowlist_counters (
	kind    TEXT PRIMARY KEY,
	last_id INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS allowlists (
	kind  TEXT    NOT NULL,
	id    INTEGER NOT NULL,
	name  TEXT    NOT NULL,
	owner TEXT    NOT NULL,
	PRIMARY KEY (kind, id)
);
CREATE TABLE IF NOT EXISTS allowlist_members (
	kind     TEXT    NOT NULL,
	list_id  INTEGER NOT NULL,
	position INTEGER NOT NULL,
	address  TEXT    NOT NULL,
	PRIMARY KEY (kind, list_id, address)
);
CREATE INDEX IF NOT EXISTS idx_members_order
	ON allowlist_members (kind, list_id, position);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate allowlist schema: %w", err)
	}
	return nil
}

// Create allocates the next id for the kind and inserts the list.
func (s *SQLiteStore) Create(ctx context.Context, kind models.Kind, name string, owner domain.Address) (*models.Allowlist, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown allowlist kind %q: %w", kind, sentinel.ErrInvalidInput)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var last uint64
	err = tx.QueryRowContext(ctx,
		`SELECT last_id FROM allowlist_counters WHERE kind = ?`, string(kind),
	).Scan(&last)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		last = 0
	case err != nil:
		return nil, fmt.Errorf("load counter: %w", err)
	}

	id := domain.AllowlistID(last + 1)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO allowlist_counters (kind, last_id) VALUES (?, ?)
		 ON CONFLICT (kind) DO UPDATE SET last_id = excluded.last_id`,
		string(kind), uint64(id),
	); err != nil {
		return nil, fmt.Errorf("advance counter: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO allowlists (kind, id, name, owner) VALUES (?, ?, ?, ?)`,
		string(kind), uint64(id), name, owner.Hex(),
	); err != nil {
		return nil, fmt.Errorf("insert allowlist: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create tx: %w", err)
	}

	return &models.Allowlist{ID: id, Kind: kind, Name: name, Owner: owner}, nil
}

// Get returns the list with members in insertion order.
func (s *SQLiteStore) Get(ctx context.Context, kind models.Kind, id domain.AllowlistID) (*models.Allowlist, error) {
	var (
		name  string
		owner string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT name, owner FROM allowlists WHERE kind = ? AND id = ?`,
		string(kind), uint64(id),
	).Scan(&name, &owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load allowlist: %w", err)
	}
	ownerAddr, err := domain.ParseAddress(owner)
	if err != nil {
		return nil, fmt.Errorf("stored owner corrupt: %w", err)
	}
	members, err := s.Members(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return &models.Allowlist{ID: id, Kind: kind, Name: name, Owner: ownerAddr, Members: members}, nil
}

// LastID returns the highest id ever issued for the kind.
func (s *SQLiteStore) LastID(ctx context.Context, kind models.Kind) (domain.AllowlistID, error) {
	var last uint64
	err := s.db.QueryRowContext(ctx,
		`SELECT last_id FROM allowlist_counters WHERE kind = ?`, string(kind),
	).Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load counter: %w", err)
	}
	return domain.AllowlistID(last), nil
}

// SetOwnerIf updates the owner if the current owner matches expected.
func (s *SQLiteStore) SetOwnerIf(ctx context.Context, kind models.Kind, id domain.AllowlistID, expected, newOwner domain.Address) error {
	return s.withOwnedList(ctx, kind, id, expected, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE allowlists SET owner = ? WHERE kind = ? AND id = ?`,
			newOwner.Hex(), string(kind), uint64(id),
		)
		return err
	})
}

// AddMemberIf appends account if owner matches and account is not a member.
func (s *SQLiteStore) AddMemberIf(ctx context.Context, kind models.Kind, id domain.AllowlistID, owner, account domain.Address) error {
	return s.withOwnedList(ctx, kind, id, owner, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM allowlist_members WHERE kind = ? AND list_id = ? AND address = ?`,
			string(kind), uint64(id), account.Hex(),
		).Scan(&exists)
		if err == nil {
			return sentinel.ErrAlreadyExists
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO allowlist_members (kind, list_id, position, address)
			 VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1
			                FROM allowlist_members WHERE kind = ? AND list_id = ?), ?)`,
			string(kind), uint64(id), string(kind), uint64(id), account.Hex(),
		)
		return err
	})
}

// RemoveMemberIf removes account if owner matches and account is a member.
func (s *SQLiteStore) RemoveMemberIf(ctx context.Context, kind models.Kind, id domain.AllowlistID, owner, account domain.Address) error {
	return s.withOwnedList(ctx, kind, id, owner, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM allowlist_members WHERE kind = ? AND list_id = ? AND address = ?`,
			string(kind), uint64(id), account.Hex(),
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sentinel.ErrNotMember
		}
		return nil
	})
}

// IsMember reports membership; unknown ids answer false without error.
func (s *SQLiteStore) IsMember(ctx context.Context, kind models.Kind, id domain.AllowlistID, account domain.Address) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM allowlist_members WHERE kind = ? AND list_id = ? AND address = ?`,
		string(kind), uint64(id), account.Hex(),
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query membership: %w", err)
	}
	return true, nil
}

// Members returns membership in insertion order.
func (s *SQLiteStore) Members(ctx context.Context, kind models.Kind, id domain.AllowlistID) ([]domain.Address, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT address FROM allowlist_members
		 WHERE kind = ? AND list_id = ? ORDER BY position ASC`,
		string(kind), uint64(id),
	)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	members := []domain.Address{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		addr, err := domain.ParseAddress(raw)
		if err != nil {
			return nil, fmt.Errorf("stored member corrupt: %w", err)
		}
		members = append(members, addr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(members) == 0 {
		// Distinguish an empty list from a never-issued id.
		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM allowlists WHERE kind = ? AND id = ?`,
			string(kind), uint64(id),
		).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("load allowlist: %w", err)
		}
	}
	return members, nil
}

// withOwnedList runs fn in a transaction after verifying the list exists and
// is owned by expected. The owner check is the first observable effect.
func (s *SQLiteStore) withOwnedList(ctx context.Context, kind models.Kind, id domain.AllowlistID, expected domain.Address, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var owner string
	err = tx.QueryRowContext(ctx,
		`SELECT owner FROM allowlists WHERE kind = ? AND id = ?`,
		string(kind), uint64(id),
	).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load owner: %w", err)
	}
	if owner != expected.Hex() {
		return sentinel.ErrNotOwner
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
