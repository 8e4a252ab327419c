package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateEvent inserts an event.
// Returns ErrInvalidSlug for malformed or reserved slugs and ErrConflict if the slug is taken.
func (s *SQLiteStorage) CreateEvent(ctx context.Context, slug, name string) (*Event, error) {
	if !ValidSlug(slug) || slug == reservedSlug {
		return nil, ErrInvalidSlug
	}
	if name == "" {
		return nil, errors.New("name required")
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO events (slug, name) VALUES (?, ?)",
		slug, name)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if _, err := result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to get insert ID: %w", err)
	}

	return s.GetEvent(ctx, slug)
}

// GetEvent retrieves an event by slug.
// Returns ErrNotFound if the slug doesn't exist.
func (s *SQLiteStorage) GetEvent(ctx context.Context, slug string) (*Event, error) {
	var e Event

	err := s.db.QueryRowContext(ctx,
		"SELECT id, slug, name, created_at FROM events WHERE slug = ?",
		slug).
		Scan(&e.ID, &e.Slug, &e.Name, &e.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &e, nil
}

// ListEvents returns all events in creation order.
// Returns empty slice if no events exist.
func (s *SQLiteStorage) ListEvents(ctx context.Context) ([]*Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, slug, name, created_at FROM events ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	events := make([]*Event, 0)
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Slug, &e.Name, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// DeleteEvent deletes an event by slug.
// Cascades to its submissions and metrics token via foreign key constraints.
// Returns ErrNotFound if the event doesn't exist.
func (s *SQLiteStorage) DeleteEvent(ctx context.Context, slug string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE slug = ?", slug)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
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

// AddSubmission records a submission in the given state for an event.
// Returns ErrInvalidState for unknown states and ErrNotFound for unknown events.
func (s *SQLiteStorage) AddSubmission(ctx context.Context, eventSlug string, state SubmissionState) (*Submission, error) {
	if !state.Valid() {
		return nil, ErrInvalidState
	}

	event, err := s.GetEvent(ctx, eventSlug)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO submissions (event_id, state) VALUES (?, ?)",
		event.ID, string(state))
	if err != nil {
		return nil, fmt.Errorf("failed to insert submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	return &Submission{
		ID:      id,
		EventID: event.ID,
		State:   state,
	}, nil
}

// SetSubmissionState moves a submission to another lifecycle state.
// Returns ErrInvalidState for unknown states and ErrNotFound for unknown submissions.
func (s *SQLiteStorage) SetSubmissionState(ctx context.Context, id int64, state SubmissionState) error {
	if !state.Valid() {
		return ErrInvalidState
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE submissions SET state = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		string(state), id)
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
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
