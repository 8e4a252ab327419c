package storage

import (
	"context"
	"fmt"
)

// countsQuery counts every submission outside the draft and deleted states per
// event. The LEFT JOIN keeps events without qualifying submissions at 0.
const countsQuery = `SELECT e.slug, e.name, COUNT(s.id)
	FROM events e
	LEFT JOIN submissions s
		ON s.event_id = e.id AND s.state NOT IN (?, ?)
	%s
	GROUP BY e.id
	ORDER BY e.id ASC`

// SubmissionCounts returns the counted submissions of the event in scope, or of
// every event for the global scope, ordered by event creation.
// All rows come from a single statement and therefore one read snapshot.
func (s *SQLiteStorage) SubmissionCounts(ctx context.Context, scope Scope) ([]SubmissionCount, error) {
	args := []any{string(StateDraft), string(StateDeleted)}
	where := ""
	if !scope.IsGlobal() {
		where = "WHERE e.slug = ?"
		args = append(args, scope.EventSlug)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(countsQuery, where), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query submission counts: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	counts := make([]SubmissionCount, 0)
	for rows.Next() {
		var c SubmissionCount
		if err := rows.Scan(&c.EventSlug, &c.EventName, &c.Total); err != nil {
			return nil, fmt.Errorf("failed to scan submission count row: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submission counts: %w", err)
	}

	return counts, nil
}
