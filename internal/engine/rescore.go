package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/events"
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/scoring"
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/store"
)

// RescoreResult is the per-record outcome of a rescore. Ephemeral — it is
// returned to the caller and logged, never persisted as its own record.
type RescoreResult struct {
	AssessmentID    uuid.UUID `json:"assessment_id"`
	OldScore        int       `json:"old_score"`
	NewScore        int       `json:"new_score"`
	ScoreDifference int       `json:"score_difference"`
	Success         bool      `json:"success"`
	Error           string    `json:"error,omitempty"`
}

// RescoreOne recomputes a single assessment under the current active
// configuration, persisting the new score. Errors surface to the caller;
// the batch loop converts them into failed results instead.
func (e *Engine) RescoreOne(ctx context.Context, id uuid.UUID) (RescoreResult, error) {
	result := RescoreResult{AssessmentID: id}

	oldScore := 0
	prev, err := e.store.GetScore(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		result.Error = fmt.Sprintf("fetch previous score: %v", err)
		return result, err
	}
	if prev != nil {
		oldScore = prev.TotalScore
	}

	a, err := e.store.GetAssessment(ctx, id)
	if err != nil {
		result.Error = fmt.Sprintf("fetch assessment: %v", err)
		return result, err
	}

	cfg, err := e.config.Get(ctx)
	if err != nil {
		result.Error = fmt.Sprintf("fetch configuration: %v", err)
		return result, err
	}

	computed, err := scoring.Compute(a.Answers, cfg)
	if err != nil {
		result.Error = fmt.Sprintf("compute: %v", err)
		return result, err
	}

	if err := e.store.UpsertScore(ctx, storedScore(id, computed)); err != nil {
		result.Error = fmt.Sprintf("persist score: %v", err)
		return result, err
	}

	result.OldScore = oldScore
	result.NewScore = computed.TotalScore
	result.ScoreDifference = computed.TotalScore - oldScore
	result.Success = true

	e.publish(events.SubjectAssessmentRescored(id.String()), scoredEvent(id, computed, false))
	return result, nil
}

// RescoreAll recomputes every persisted assessment under the current active
// configuration. Per-record failures are recorded and do not stop the
// batch; only a failure to list the assessment IDs aborts the run. Output
// order always matches the store's iteration order, not completion order,
// and cancellation is cooperative: in-flight records finish and are
// recorded, records not yet started are marked as cancelled.
func (e *Engine) RescoreAll(ctx context.Context) ([]RescoreResult, error) {
	ids, err := e.store.ListAssessmentIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}

	configVersion := 0
	if cfg, err := e.config.Get(ctx); err == nil {
		configVersion = cfg.Version
	}

	e.logger.Info("rescore started", "assessments", len(ids), "config_version", configVersion)
	e.publish(events.SubjectRescoreStarted, events.RescoreStartedEvent{
		TotalAssessments: len(ids),
		ConfigVersion:    configVersion,
		StartedAt:        time.Now().UTC(),
	})

	results := make([]RescoreResult, len(ids))
	g := new(errgroup.Group)
	g.SetLimit(e.rescoreLimit)

	for i, id := range ids {
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = RescoreResult{AssessmentID: id, Error: "rescore cancelled before start"}
				rescores.WithLabelValues("cancelled").Inc()
				return nil
			}
			r, err := e.RescoreOne(ctx, id)
			if err != nil {
				e.logger.Warn("rescore failed", "assessment_id", id, "error", err)
				rescores.WithLabelValues("failure").Inc()
			} else {
				rescores.WithLabelValues("success").Inc()
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	// Stored scores changed out from under the memoized results.
	e.results.DropAll()

	succeeded, failed := 0, 0
	for _, r := range results {
		if r.Success {
			succeeded++
		} else {
			failed++
		}
	}
	e.logger.Info("rescore completed",
		"assessments", len(ids), "succeeded", succeeded, "failed", failed)
	e.publish(events.SubjectRescoreCompleted, events.RescoreCompletedEvent{
		TotalAssessments: len(ids),
		Succeeded:        succeeded,
		Failed:           failed,
		ConfigVersion:    configVersion,
		CompletedAt:      time.Now().UTC(),
	})
	return results, nil
}
