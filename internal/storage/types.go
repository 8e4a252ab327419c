package storage

import (
	"regexp"
	"time"
)

// maxSlugLength mirrors the column width used for event slugs.
const maxSlugLength = 50

// reservedSlug cannot be used by an event because the global metrics route claims it.
const reservedSlug = "global"

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Scope is the boundary a metrics token is bound to: one event, or every event.
// The zero value is the global scope.
type Scope struct {
	EventSlug string
}

// GlobalScope returns the scope covering all events.
func GlobalScope() Scope {
	return Scope{}
}

// EventScope returns the scope covering a single event.
func EventScope(slug string) Scope {
	return Scope{EventSlug: slug}
}

// IsGlobal reports whether s covers all events.
func (s Scope) IsGlobal() bool {
	return s.EventSlug == ""
}

// Kind returns "global" or "event", suitable as a low-cardinality label.
func (s Scope) Kind() string {
	if s.IsGlobal() {
		return "global"
	}
	return "event"
}

func (s Scope) String() string {
	if s.IsGlobal() {
		return reservedSlug
	}
	return s.EventSlug
}

// ValidSlug reports whether slug can name an event.
func ValidSlug(slug string) bool {
	return len(slug) <= maxSlugLength && slugPattern.MatchString(slug)
}

// MetricsToken is the bearer secret granting read access to one scope's metrics.
type MetricsToken struct {
	ID        int64
	Scope     Scope
	Secret    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Event is a conference whose submissions are counted.
type Event struct {
	ID        int64
	Slug      string
	Name      string
	CreatedAt time.Time
}

// SubmissionState is the lifecycle state of a submission.
type SubmissionState string

const (
	StateSubmitted SubmissionState = "submitted"
	StateAccepted  SubmissionState = "accepted"
	StateRejected  SubmissionState = "rejected"
	StateConfirmed SubmissionState = "confirmed"
	StateCanceled  SubmissionState = "canceled"
	StateWithdrawn SubmissionState = "withdrawn"
	StateDraft     SubmissionState = "draft"
	StateDeleted   SubmissionState = "deleted"
)

// Valid reports whether st is a known lifecycle state.
func (st SubmissionState) Valid() bool {
	switch st {
	case StateSubmitted, StateAccepted, StateRejected, StateConfirmed,
		StateCanceled, StateWithdrawn, StateDraft, StateDeleted:
		return true
	}
	return false
}

// Counted reports whether a submission in this state contributes to submissions_total.
func (st SubmissionState) Counted() bool {
	return st != StateDraft && st != StateDeleted
}

// Submission is a single proposal belonging to an event.
type Submission struct {
	ID        int64
	EventID   int64
	State     SubmissionState
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubmissionCount is the number of counted submissions of one event.
type SubmissionCount struct {
	EventSlug string
	EventName string
	Total     int64
}

// AdminToken represents an admin API credential.
type AdminToken struct {
	ID        int64
	TokenHash string
	Name      string
	CreatedAt time.Time
}
