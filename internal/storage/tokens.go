package storage

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
)

// scopeFilter returns the WHERE clause selecting the metrics token row of scope.
func scopeFilter(scope Scope) (string, []any) {
	if scope.IsGlobal() {
		return "event_id IS NULL", nil
	}
	return "event_id = (SELECT id FROM events WHERE slug = ?)", []any{scope.EventSlug}
}

// CreateMetricsToken creates the metrics token of scope with a fresh secret.
// Returns ErrConflict if the scope already has a token and ErrNotFound if the
// event of an event scope does not exist.
func (s *SQLiteStorage) CreateMetricsToken(ctx context.Context, scope Scope) (*MetricsToken, error) {
	secret, err := GenerateSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}

	var result sql.Result
	if scope.IsGlobal() {
		result, err = s.db.ExecContext(ctx,
			"INSERT INTO metrics_tokens (event_id, secret) VALUES (NULL, ?)",
			secret)
	} else {
		result, err = s.db.ExecContext(ctx,
			"INSERT INTO metrics_tokens (event_id, secret) SELECT id, ? FROM events WHERE slug = ?",
			secret, scope.EventSlug)
	}
	if err != nil {
		if isConstraintViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create metrics token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.GetMetricsToken(ctx, scope)
}

// ResetMetricsToken replaces the secret of scope's token.
// Returns ErrNotFound if the scope has no token.
func (s *SQLiteStorage) ResetMetricsToken(ctx context.Context, scope Scope) (*MetricsToken, error) {
	secret, err := GenerateSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}

	where, args := scopeFilter(scope)
	result, err := s.db.ExecContext(ctx,
		"UPDATE metrics_tokens SET secret = ?, updated_at = CURRENT_TIMESTAMP WHERE "+where,
		append([]any{secret}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to reset metrics token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.GetMetricsToken(ctx, scope)
}

// DeleteMetricsToken removes scope's token.
// Returns ErrNotFound if the scope has no token.
func (s *SQLiteStorage) DeleteMetricsToken(ctx context.Context, scope Scope) error {
	where, args := scopeFilter(scope)
	result, err := s.db.ExecContext(ctx, "DELETE FROM metrics_tokens WHERE "+where, args...)
	if err != nil {
		return fmt.Errorf("failed to delete metrics token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetMetricsToken returns scope's token, or ErrNotFound.
func (s *SQLiteStorage) GetMetricsToken(ctx context.Context, scope Scope) (*MetricsToken, error) {
	where, args := scopeFilter(scope)

	t := MetricsToken{Scope: scope}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, secret, created_at, updated_at FROM metrics_tokens WHERE "+where,
		args...).
		Scan(&t.ID, &t.Secret, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get metrics token: %w", err)
	}

	return &t, nil
}

// FindMetricsTokenBySecret returns scope's token only if its secret equals secret.
// The row is selected by scope alone, so a secret never matches another scope's token.
// Returns ErrNotFound on any mismatch.
func (s *SQLiteStorage) FindMetricsTokenBySecret(ctx context.Context, scope Scope, secret string) (*MetricsToken, error) {
	if secret == "" {
		return nil, ErrNotFound
	}

	t, err := s.GetMetricsToken(ctx, scope)
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(secret), []byte(t.Secret)) != 1 {
		return nil, ErrNotFound
	}

	return t, nil
}
