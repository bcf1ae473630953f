package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/cache"
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/events"
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/scoring"
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/store"
)

// Engine owns the scoring pipeline end to end: assessment and configuration
// reads, the pure computation, result persistence, caching, and lifecycle
// events. The pipeline itself is synchronous; suspension happens only at
// the store boundaries.
type Engine struct {
	store   store.Store
	events  events.Client
	results *cache.ResultCache
	config  *cache.ConfigCache
	logger  *slog.Logger

	rescoreLimit int
}

func New(s store.Store, ev events.Client, configTTL time.Duration, rescoreLimit int, logger *slog.Logger) *Engine {
	if rescoreLimit < 1 {
		rescoreLimit = 1
	}
	e := &Engine{
		store:        s,
		events:       ev,
		results:      cache.NewResultCache(),
		logger:       logger,
		rescoreLimit: rescoreLimit,
	}
	e.config = cache.NewConfigCache(e.fetchActiveConfig, configTTL)
	return e
}

// fetchActiveConfig reads the active configuration, substituting the
// built-in defaults when the store holds no versions yet.
func (e *Engine) fetchActiveConfig(ctx context.Context) (*store.ScoringConfiguration, error) {
	cfg, err := e.store.GetActiveConfiguration(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return scoring.FallbackConfiguration(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// ActiveConfiguration returns the configuration new scores are computed
// with, served through the TTL cache.
func (e *Engine) ActiveConfiguration(ctx context.Context) (*store.ScoringConfiguration, error) {
	return e.config.Get(ctx)
}

// ComputeScore scores one assessment under the active configuration,
// persisting and memoizing the result. A cached result is returned as-is;
// purity of the pipeline makes the two paths indistinguishable.
func (e *Engine) ComputeScore(ctx context.Context, id uuid.UUID) (*scoring.Result, error) {
	a, err := e.store.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}

	cfg, err := e.config.Get(ctx)
	if err != nil {
		return nil, err
	}

	fingerprint := scoring.Fingerprint(scoring.Normalize(a.Answers), cfg.Version)
	if entry, ok := e.results.Get(fingerprint); ok {
		cacheHits.Inc()
		result := entry.Result
		e.publish(events.SubjectAssessmentScored(id.String()), scoredEvent(id, &result, true))
		return &result, nil
	}
	cacheMisses.Inc()

	result, err := scoring.Compute(a.Answers, cfg)
	if err != nil {
		return nil, err
	}

	if err := e.store.UpsertScore(ctx, storedScore(id, result)); err != nil {
		return nil, err
	}
	e.results.Put(fingerprint, *result)
	scoresComputed.Inc()

	e.publish(events.SubjectAssessmentScored(id.String()), scoredEvent(id, result, false))
	e.logger.Info("assessment scored",
		"assessment_id", id,
		"total", result.TotalScore,
		"bucket", result.Bucket,
		"sector", result.Sector,
		"stage", result.Stage,
		"config_version", result.ConfigVersion,
	)
	return result, nil
}

// CreateConfigVersion appends a new configuration version, drops the TTL
// cache so the next score sees it, and announces the activation.
func (e *Engine) CreateConfigVersion(ctx context.Context, req *store.ConfigVersionRequest) (*store.ScoringConfiguration, error) {
	prev, _ := e.config.Get(ctx)

	cfg, err := e.store.CreateConfigVersion(ctx, req)
	if err != nil {
		return nil, err
	}
	e.config.Invalidate()
	configVersions.Inc()

	event := events.ConfigChangedEvent{
		Version: cfg.Version,
		Reason:  req.Reason,
		Actor:   req.Actor,
	}
	if prev != nil {
		event.PreviousVersion = prev.Version
	}
	e.publish(events.SubjectConfigCreated(cfg.Version), event)
	e.publish(events.SubjectConfigActivated(cfg.Version), event)

	e.logger.Info("scoring configuration activated",
		"version", cfg.Version, "actor", req.Actor, "reason", req.Reason)
	return cfg, nil
}

// RevertToVersion creates a fresh version carrying an older version's
// weights. History is never rewritten.
func (e *Engine) RevertToVersion(ctx context.Context, version int, reason, actor string) (*store.ScoringConfiguration, error) {
	cfg, err := e.store.RevertToVersion(ctx, version, reason, actor)
	if err != nil {
		return nil, err
	}
	e.config.Invalidate()
	configVersions.Inc()

	e.publish(events.SubjectConfigReverted(cfg.Version), events.ConfigChangedEvent{
		Version:         cfg.Version,
		PreviousVersion: version,
		Reason:          reason,
		Actor:           actor,
		Reverted:        true,
	})
	e.logger.Info("scoring configuration reverted",
		"target_version", version, "new_version", cfg.Version, "actor", actor)
	return cfg, nil
}

// SetupSubscriptions drops the local caches whenever any instance activates
// a configuration version, keeping multi-instance deployments from serving
// scores computed under a superseded version for a full TTL window.
func (e *Engine) SetupSubscriptions() {
	if e.events == nil {
		return
	}
	err := e.events.Subscribe(events.SubjectConfigAll, func(subject string, _ []byte) {
		e.config.Invalidate()
		e.results.DropAll()
		e.logger.Info("configuration change observed, caches dropped", "subject", subject)
	})
	if err != nil {
		e.logger.Warn("failed to subscribe to configuration events", "error", err)
	}
}

// CachedResults reports the result cache size, used by the admin stats
// endpoint.
func (e *Engine) CachedResults() int {
	return e.results.Len()
}

func (e *Engine) publish(subject string, data interface{}) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(subject, data); err != nil {
		e.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

func scoredEvent(id uuid.UUID, r *scoring.Result, cacheHit bool) events.AssessmentScoredEvent {
	return events.AssessmentScoredEvent{
		AssessmentID:    id.String(),
		TotalScore:      r.TotalScore,
		ReadinessBucket: r.Bucket,
		Sector:          string(r.Sector),
		Stage:           string(r.Stage),
		ConfigVersion:   r.ConfigVersion,
		CacheHit:        cacheHit,
	}
}

func storedScore(id uuid.UUID, r *scoring.Result) *store.StoredScore {
	return &store.StoredScore{
		AssessmentID:            id,
		BusinessIdea:            r.Categories.BusinessIdea.Score,
		BusinessIdeaExplanation: r.Categories.BusinessIdea.Explanation,
		Financials:              r.Categories.Financials.Score,
		FinancialsExplanation:   r.Categories.Financials.Explanation,
		Team:                    r.Categories.Team.Score,
		TeamExplanation:         r.Categories.Team.Explanation,
		Traction:                r.Categories.Traction.Score,
		TractionExplanation:     r.Categories.Traction.Explanation,
		TotalScore:              r.TotalScore,
		ReadinessBucket:         r.Bucket,
		Sector:                  string(r.Sector),
		Stage:                   string(r.Stage),
		ConfigVersion:           r.ConfigVersion,
	}
}
