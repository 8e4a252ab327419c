package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func addSubmissions(t *testing.T, s *SQLiteStorage, slug string, states ...SubmissionState) {
	t.Helper()
	for _, st := range states {
		if _, err := s.AddSubmission(context.Background(), slug, st); err != nil {
			t.Fatalf("AddSubmission(%s, %s) failed: %v", slug, st, err)
		}
	}
}

func TestSubmissionCountsExcludesDraftAndDeleted(t *testing.T) {
	t.Parallel()
	s := newTestStorage(t)

	addSubmissions(t, s, "democon",
		StateDraft, StateDraft, StateDeleted, StateSubmitted, StateAccepted)

	counts, err := s.SubmissionCounts(context.Background(), EventScope("democon"))
	if err != nil {
		t.Fatalf("SubmissionCounts failed: %v", err)
	}

	want := []SubmissionCount{{EventSlug: "democon", EventName: "DemoCon 2026", Total: 2}}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("expected %+v, got %+v", want, counts)
	}
}

func TestSubmissionCountsCountsEveryOtherState(t *testing.T) {
	t.Parallel()
	s := newTestStorage(t)

	addSubmissions(t, s, "democon",
		StateSubmitted, StateAccepted, StateRejected, StateConfirmed, StateCanceled, StateWithdrawn)

	counts, err := s.SubmissionCounts(context.Background(), EventScope("democon"))
	if err != nil {
		t.Fatalf("SubmissionCounts failed: %v", err)
	}
	if len(counts) != 1 || counts[0].Total != 6 {
		t.Errorf("expected total 6, got %+v", counts)
	}
}

func TestSubmissionCountsGlobal(t *testing.T) {
	t.Parallel()
	s := newTestStorage(t)
	ctx := context.Background()

	addSubmissions(t, s, "democon", StateSubmitted, StateConfirmed, StateDraft)
	addSubmissions(t, s, "othercon", StateDeleted)

	want := []SubmissionCount{
		{EventSlug: "democon", EventName: "DemoCon 2026", Total: 2},
		{EventSlug: "othercon", EventName: "OtherCon", Total: 0},
	}

	for i := 0; i < 3; i++ {
		counts, err := s.SubmissionCounts(ctx, GlobalScope())
		if err != nil {
			t.Fatalf("SubmissionCounts failed: %v", err)
		}
		if !reflect.DeepEqual(counts, want) {
			t.Errorf("call %d: expected %+v, got %+v", i, want, counts)
		}
	}
}

func TestSubmissionCountsEmpty(t *testing.T) {
	t.Parallel()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer func() { _ = s.Close() }()

	counts, err := s.SubmissionCounts(context.Background(), GlobalScope())
	if err != nil {
		t.Fatalf("SubmissionCounts failed: %v", err)
	}
	if counts == nil || len(counts) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", counts)
	}

	counts, err = s.SubmissionCounts(context.Background(), EventScope("missing"))
	if err != nil {
		t.Fatalf("SubmissionCounts failed: %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("expected no rows for unknown event, got %+v", counts)
	}
}

func TestSetSubmissionStateChangesCount(t *testing.T) {
	t.Parallel()
	s := newTestStorage(t)
	ctx := context.Background()

	sub, err := s.AddSubmission(ctx, "democon", StateDraft)
	if err != nil {
		t.Fatalf("AddSubmission failed: %v", err)
	}

	if err := s.SetSubmissionState(ctx, sub.ID, StateSubmitted); err != nil {
		t.Fatalf("SetSubmissionState failed: %v", err)
	}

	counts, err := s.SubmissionCounts(ctx, EventScope("democon"))
	if err != nil {
		t.Fatalf("SubmissionCounts failed: %v", err)
	}
	if counts[0].Total != 1 {
		t.Errorf("expected total 1, got %d", counts[0].Total)
	}

	if err := s.SetSubmissionState(ctx, sub.ID, "bogus"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if err := s.SetSubmissionState(ctx, 9999, StateAccepted); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
