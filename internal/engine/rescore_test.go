package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/store"
)

func TestRescoreOne(t *testing.T) {
	ms := newMockStore()
	e := New(ms, nil, time.Minute, 1, discardLogger())
	id := ms.addAssessment(strongAnswers)

	t.Run("without previous score", func(t *testing.T) {
		r, err := e.RescoreOne(context.Background(), id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !r.Success {
			t.Fatalf("expected success, got error %q", r.Error)
		}
		if r.OldScore != 0 {
			t.Errorf("expected old score 0, got %d", r.OldScore)
		}
		if r.ScoreDifference != r.NewScore {
			t.Errorf("expected difference %d, got %d", r.NewScore, r.ScoreDifference)
		}
	})

	t.Run("with previous score", func(t *testing.T) {
		ms.mu.Lock()
		ms.scores[id].TotalScore = 100
		ms.mu.Unlock()

		r, err := e.RescoreOne(context.Background(), id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.OldScore != 100 {
			t.Errorf("expected old score 100, got %d", r.OldScore)
		}
		if r.ScoreDifference != r.NewScore-100 {
			t.Errorf("expected difference %d, got %d", r.NewScore-100, r.ScoreDifference)
		}
	})

	t.Run("fetch failure surfaces", func(t *testing.T) {
		ms.failGet[id] = errors.New("connection reset")
		defer delete(ms.failGet, id)

		_, err := e.RescoreOne(context.Background(), id)
		if err == nil {
			t.Error("expected error from single-record rescore")
		}
	})
}

func TestRescoreAll(t *testing.T) {
	ms := newMockStore()
	e := New(ms, nil, time.Minute, 1, discardLogger())

	var all []string
	id1 := ms.addAssessment(strongAnswers)
	id2 := ms.addAssessment(store.AssessmentAnswers{
		MRR: store.MRRNone, Employees: store.Employees1to2,
		Investors: store.InvestorsNone, Milestones: store.MilestoneConcept,
	})
	bad := strongAnswers
	bad.Employees = "thousands"
	id3 := ms.addAssessment(bad)
	id4 := ms.addAssessment(strongAnswers)
	for _, id := range []string{id1.String(), id2.String(), id3.String(), id4.String()} {
		all = append(all, id)
	}

	results, err := e.RescoreAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("completeness", func(t *testing.T) {
		if len(results) != 4 {
			t.Fatalf("expected 4 results, got %d", len(results))
		}
	})

	t.Run("order matches iteration order", func(t *testing.T) {
		for i, r := range results {
			if r.AssessmentID.String() != all[i] {
				t.Errorf("result %d: expected %s, got %s", i, all[i], r.AssessmentID)
			}
		}
	})

	t.Run("success xor error", func(t *testing.T) {
		for i, r := range results {
			if r.Success == (r.Error != "") {
				t.Errorf("result %d: success=%v error=%q", i, r.Success, r.Error)
			}
		}
	})

	t.Run("failure does not stop the batch", func(t *testing.T) {
		if results[2].Success {
			t.Error("expected record 3 to fail validation")
		}
		if !strings.Contains(results[2].Error, "compute") {
			t.Errorf("expected compute error, got %q", results[2].Error)
		}
		if !results[0].Success || !results[1].Success || !results[3].Success {
			t.Error("expected remaining records to succeed")
		}
	})

	t.Run("result cache dropped", func(t *testing.T) {
		if e.CachedResults() != 0 {
			t.Errorf("expected empty result cache after rescore, got %d entries", e.CachedResults())
		}
	})
}

func TestRescoreAllBoundedParallelism(t *testing.T) {
	ms := newMockStore()
	e := New(ms, nil, time.Minute, 4, discardLogger())

	var want []string
	for i := 0; i < 20; i++ {
		id := ms.addAssessment(strongAnswers)
		want = append(want, id.String())
	}

	results, err := e.RescoreAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 20 {
		t.Fatalf("expected 20 results, got %d", len(results))
	}
	// Index alignment must hold regardless of completion order.
	for i, r := range results {
		if r.AssessmentID.String() != want[i] {
			t.Errorf("result %d out of order", i)
		}
		if !r.Success {
			t.Errorf("result %d: unexpected failure %q", i, r.Error)
		}
	}
}

func TestRescoreAllCatastrophicFailure(t *testing.T) {
	ms := newMockStore()
	ms.failListIDs = errors.New("database unreachable")
	e := New(ms, nil, time.Minute, 1, discardLogger())

	if _, err := e.RescoreAll(context.Background()); err == nil {
		t.Error("expected error when the ID list cannot be fetched")
	}
}

func TestRescoreAllCancellation(t *testing.T) {
	ms := newMockStore()
	e := New(ms, nil, time.Minute, 1, discardLogger())
	for i := 0; i < 5; i++ {
		ms.addAssessment(strongAnswers)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := e.RescoreAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Success {
			t.Errorf("result %d: no record should start after cancellation", i)
		}
		if r.Error == "" {
			t.Errorf("result %d: expected a cancellation error message", i)
		}
	}
}

func TestRescoreAllMidBatchCancellation(t *testing.T) {
	ms := newMockStore()
	e := New(ms, nil, time.Minute, 1, discardLogger())

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		ids = append(ids, ms.addAssessment(strongAnswers))
	}

	// Cancel while the third record is being persisted: it is in flight and
	// must finish; the remaining two must never start.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ms.onUpsert = func(id uuid.UUID) {
		if id == ids[2] {
			cancel()
		}
	}

	results, err := e.RescoreAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for i := 0; i <= 2; i++ {
		if !results[i].Success {
			t.Errorf("result %d: in-flight and earlier records must be recorded as successes, got error %q", i, results[i].Error)
		}
	}
	for i := 3; i < 5; i++ {
		if results[i].Success {
			t.Errorf("result %d: records after cancellation must not run", i)
		}
		if !strings.Contains(results[i].Error, "cancelled") {
			t.Errorf("result %d: expected cancellation error, got %q", i, results[i].Error)
		}
		if results[i].AssessmentID != ids[i] {
			t.Errorf("result %d: cancelled record must keep its slot", i)
		}
	}
}
