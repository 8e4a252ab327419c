package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCreateEventValidation(t *testing.T) {
	t.Parallel()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	tests := []struct {
		name    string
		slug    string
		evName  string
		wantErr error
	}{
		{"reserved slug", "global", "Global", ErrInvalidSlug},
		{"empty slug", "", "Empty", ErrInvalidSlug},
		{"slash in slug", "a/b", "Slash", ErrInvalidSlug},
		{"space in slug", "a b", "Space", ErrInvalidSlug},
		{"too long", strings.Repeat("x", 51), "Long", ErrInvalidSlug},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateEvent(ctx, tt.slug, tt.evName)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := s.CreateEvent(ctx, "ok-slug_1", ""); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestCreateEventDuplicate(t *testing.T) {
	t.Parallel()
	s := newTestStorage(t)

	_, err := s.CreateEvent(context.Background(), "democon", "Again")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestListAndDeleteEvents(t *testing.T) {
	t.Parallel()
	s := newTestStorage(t)
	ctx := context.Background()

	events, err := s.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 2 || events[0].Slug != "democon" || events[1].Slug != "othercon" {
		t.Fatalf("unexpected events: %+v", events)
	}

	if err := s.DeleteEvent(ctx, "democon"); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	if err := s.DeleteEvent(ctx, "democon"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetEvent(ctx, "democon"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAddSubmissionErrors(t *testing.T) {
	t.Parallel()
	s := newTestStorage(t)
	ctx := context.Background()

	if _, err := s.AddSubmission(ctx, "democon", "unknown"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if _, err := s.AddSubmission(ctx, "ghost", StateSubmitted); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPingAfterClose(t *testing.T) {
	t.Parallel()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	_ = s.Close()
	if err := s.Ping(context.Background()); err == nil {
		t.Error("expected Ping to fail on closed storage")
	}
}
