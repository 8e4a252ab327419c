package storage

import (
	"context"
	"errors"
	"fmt"
)

// CreateAdminToken creates a new admin token.
// The token is hashed with bcrypt before storage.
func (s *SQLiteStorage) CreateAdminToken(ctx context.Context, name, token string) (int64, error) {
	if name == "" {
		return 0, errors.New("name required")
	}
	if token == "" {
		return 0, errors.New("token required")
	}

	hash, err := HashKey(token)
	if err != nil {
		return 0, fmt.Errorf("failed to hash admin token: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO admin_tokens (name, token_hash) VALUES (?, ?)",
		name, hash,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create admin token: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insert ID: %w", err)
	}

	return id, nil
}

// ValidateAdminToken validates a token and returns its info.
// Returns ErrNotFound if token is invalid.
func (s *SQLiteStorage) ValidateAdminToken(ctx context.Context, token string) (*AdminToken, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	tokens, err := s.listAdminTokens(ctx)
	if err != nil {
		return nil, err
	}

	// Must iterate all tokens - bcrypt hashes are salted and cannot be looked up directly
	for _, at := range tokens {
		if VerifyKey(token, at.TokenHash) == nil {
			return at, nil
		}
	}

	return nil, ErrNotFound
}

// CountAdminTokens returns the number of admin tokens.
func (s *SQLiteStorage) CountAdminTokens(ctx context.Context) (int, error) {
	var count int

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admin_tokens").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count admin tokens: %w", err)
	}

	return count, nil
}

func (s *SQLiteStorage) listAdminTokens(ctx context.Context) ([]*AdminToken, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, token_hash, created_at FROM admin_tokens ORDER BY id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query admin tokens: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var tokens []*AdminToken

	for rows.Next() {
		var at AdminToken
		if err := rows.Scan(&at.ID, &at.Name, &at.TokenHash, &at.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan admin token row: %w", err)
		}
		tokens = append(tokens, &at)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admin tokens: %w", err)
	}

	return tokens, nil
}
