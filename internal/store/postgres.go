package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Advisory lock key serializing configuration version creation.
const configLockKey = 7741001

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const assessmentColumns = `assessment_id, user_id,
	prototype, revenue, full_time_team, term_sheets, cap_table, external_capital,
	mrr, employees, investors, milestones, funding_goal,
	created_at`

func (s *PostgresStore) CreateAssessment(ctx context.Context, a *Assessment) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO assessments (user_id,
			prototype, revenue, full_time_team, term_sheets, cap_table, external_capital,
			mrr, employees, investors, milestones, funding_goal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING assessment_id, created_at`,
		a.UserID,
		a.Answers.Prototype, a.Answers.Revenue, a.Answers.FullTimeTeam,
		a.Answers.TermSheets, a.Answers.CapTable, a.Answers.ExternalCapital,
		a.Answers.MRR, a.Answers.Employees, a.Answers.Investors, a.Answers.Milestones,
		a.Answers.FundingGoal,
	).Scan(&a.ID, &a.CreatedAt)
}

func (s *PostgresStore) GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	a := &Assessment{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+assessmentColumns+`
		FROM assessments WHERE assessment_id = $1`, id,
	).Scan(
		&a.ID, &a.UserID,
		&a.Answers.Prototype, &a.Answers.Revenue, &a.Answers.FullTimeTeam,
		&a.Answers.TermSheets, &a.Answers.CapTable, &a.Answers.ExternalCapital,
		&a.Answers.MRR, &a.Answers.Employees, &a.Answers.Investors, &a.Answers.Milestones,
		&a.Answers.FundingGoal,
		&a.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *PostgresStore) ListAssessments(ctx context.Context, filter AssessmentFilter) ([]*Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.UserID != "" {
		n++
		query += fmt.Sprintf(" AND user_id = $%d", n)
		args = append(args, filter.UserID)
	}

	query += " ORDER BY created_at ASC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []*Assessment
	for rows.Next() {
		a := &Assessment{}
		if err := rows.Scan(
			&a.ID, &a.UserID,
			&a.Answers.Prototype, &a.Answers.Revenue, &a.Answers.FullTimeTeam,
			&a.Answers.TermSheets, &a.Answers.CapTable, &a.Answers.ExternalCapital,
			&a.Answers.MRR, &a.Answers.Employees, &a.Answers.Investors, &a.Answers.Milestones,
			&a.Answers.FundingGoal,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}

func (s *PostgresStore) ListAssessmentIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT assessment_id FROM assessments ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresStore) UpsertScore(ctx context.Context, sc *StoredScore) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scores (assessment_id,
			business_idea, business_idea_explanation,
			financials, financials_explanation,
			team, team_explanation,
			traction, traction_explanation,
			total_score, readiness_bucket, sector, stage, config_version, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now())
		ON CONFLICT (assessment_id) DO UPDATE SET
			business_idea = EXCLUDED.business_idea,
			business_idea_explanation = EXCLUDED.business_idea_explanation,
			financials = EXCLUDED.financials,
			financials_explanation = EXCLUDED.financials_explanation,
			team = EXCLUDED.team,
			team_explanation = EXCLUDED.team_explanation,
			traction = EXCLUDED.traction,
			traction_explanation = EXCLUDED.traction_explanation,
			total_score = EXCLUDED.total_score,
			readiness_bucket = EXCLUDED.readiness_bucket,
			sector = EXCLUDED.sector,
			stage = EXCLUDED.stage,
			config_version = EXCLUDED.config_version,
			computed_at = now()`,
		sc.AssessmentID,
		sc.BusinessIdea, sc.BusinessIdeaExplanation,
		sc.Financials, sc.FinancialsExplanation,
		sc.Team, sc.TeamExplanation,
		sc.Traction, sc.TractionExplanation,
		sc.TotalScore, sc.ReadinessBucket, sc.Sector, sc.Stage, sc.ConfigVersion,
	)
	return err
}

func (s *PostgresStore) GetScore(ctx context.Context, assessmentID uuid.UUID) (*StoredScore, error) {
	sc := &StoredScore{}
	err := s.pool.QueryRow(ctx, `
		SELECT assessment_id,
			business_idea, business_idea_explanation,
			financials, financials_explanation,
			team, team_explanation,
			traction, traction_explanation,
			total_score, readiness_bucket, sector, stage, config_version, computed_at
		FROM scores WHERE assessment_id = $1`, assessmentID,
	).Scan(
		&sc.AssessmentID,
		&sc.BusinessIdea, &sc.BusinessIdeaExplanation,
		&sc.Financials, &sc.FinancialsExplanation,
		&sc.Team, &sc.TeamExplanation,
		&sc.Traction, &sc.TractionExplanation,
		&sc.TotalScore, &sc.ReadinessBucket, &sc.Sector, &sc.Stage, &sc.ConfigVersion, &sc.ComputedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sc, nil
}

const configColumns = `id, version, weights, sector_overrides, change_reason, created_by, is_active, created_at`

// CreateConfigVersion appends a new configuration version and atomically
// moves the active pointer. Concurrent callers serialize on a transaction-
// scoped advisory lock, so the version counter stays dense and exactly one
// row is active when the transaction commits.
func (s *PostgresStore) CreateConfigVersion(ctx context.Context, req *ConfigVersionRequest) (*ScoringConfiguration, error) {
	return s.createConfigVersion(ctx, req, AuditActionCreate)
}

// createConfigVersion appends the next version and its audit entry in one
// transaction. The audit action distinguishes plain creates from reverts;
// passing it in keeps the audit log strictly append-only.
func (s *PostgresStore) createConfigVersion(ctx context.Context, req *ConfigVersionRequest, action string) (*ScoringConfiguration, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, configLockKey); err != nil {
		return nil, fmt.Errorf("acquire config lock: %w", err)
	}

	var prev *ScoringConfiguration
	row := tx.QueryRow(ctx, `SELECT `+configColumns+` FROM scoring_config WHERE is_active = true`)
	prev, err = scanConfig(row)
	if err != nil && err != ErrNotFound {
		return nil, err
	}

	var maxVersion int
	if err := tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(version), 0) FROM scoring_config`).Scan(&maxVersion); err != nil {
		return nil, err
	}

	if prev != nil {
		if _, err := tx.Exec(ctx, `
			UPDATE scoring_config SET is_active = false WHERE id = $1`, prev.ID); err != nil {
			return nil, fmt.Errorf("deactivate version %d: %w", prev.Version, err)
		}
	}

	weightsJSON, _ := json.Marshal(req.Weights)
	overridesJSON, _ := json.Marshal(req.SectorOverrides)

	next := &ScoringConfiguration{
		Version:         maxVersion + 1,
		Weights:         req.Weights,
		SectorOverrides: req.SectorOverrides,
		ChangeReason:    req.Reason,
		CreatedBy:       req.Actor,
		IsActive:        true,
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO scoring_config (version, weights, sector_overrides, change_reason, created_by, is_active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING id, created_at`,
		next.Version, weightsJSON, overridesJSON, req.Reason, req.Actor,
	).Scan(&next.ID, &next.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert version %d: %w", next.Version, err)
	}

	oldValues := map[string]interface{}{}
	if prev != nil {
		oldValues["version"] = prev.Version
		oldValues["weights"] = prev.Weights
	}
	newValues := map[string]interface{}{
		"version": next.Version,
		"weights": next.Weights,
		"reason":  req.Reason,
	}
	oldJSON, _ := json.Marshal(oldValues)
	newJSON, _ := json.Marshal(newValues)
	if _, err := tx.Exec(ctx, `
		INSERT INTO audit_log (action, actor, config_version, old_values, new_values)
		VALUES ($1, $2, $3, $4, $5)`,
		action, req.Actor, next.Version, oldJSON, newJSON,
	); err != nil {
		return nil, fmt.Errorf("append audit entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return next, nil
}

// RevertToVersion creates a new version carrying the target version's
// weights. The target row itself is never touched, so the history stays
// strictly append-only.
func (s *PostgresStore) RevertToVersion(ctx context.Context, version int, reason, actor string) (*ScoringConfiguration, error) {
	target, err := s.GetConfigVersion(ctx, version)
	if err != nil {
		return nil, err
	}

	revertReason := fmt.Sprintf("revert to version %d", version)
	if reason != "" {
		revertReason += ": " + reason
	}

	return s.createConfigVersion(ctx, &ConfigVersionRequest{
		Weights:         target.Weights,
		SectorOverrides: target.SectorOverrides,
		Reason:          revertReason,
		Actor:           actor,
	}, AuditActionRevert)
}

func (s *PostgresStore) GetActiveConfiguration(ctx context.Context) (*ScoringConfiguration, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+configColumns+` FROM scoring_config WHERE is_active = true`)
	return scanConfig(row)
}

func (s *PostgresStore) GetConfigVersion(ctx context.Context, version int) (*ScoringConfiguration, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+configColumns+` FROM scoring_config WHERE version = $1`, version)
	return scanConfig(row)
}

func (s *PostgresStore) GetConfigHistory(ctx context.Context) ([]*ScoringConfiguration, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+configColumns+` FROM scoring_config ORDER BY version DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []*ScoringConfiguration
	for rows.Next() {
		c, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

func (s *PostgresStore) GetAuditLog(ctx context.Context, limit int) ([]*AuditLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, action, actor, config_version, old_values, new_values, created_at
		FROM audit_log ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*AuditLogEntry
	for rows.Next() {
		e := &AuditLogEntry{}
		var oldJSON, newJSON []byte
		if err := rows.Scan(&e.ID, &e.Action, &e.Actor, &e.ConfigVersion, &oldJSON, &newJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		if oldJSON != nil {
			_ = json.Unmarshal(oldJSON, &e.OldValues)
		}
		if newJSON != nil {
			_ = json.Unmarshal(newJSON, &e.NewValues)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanConfig(row pgx.Row) (*ScoringConfiguration, error) {
	c := &ScoringConfiguration{}
	var weightsJSON, overridesJSON []byte
	err := row.Scan(&c.ID, &c.Version, &weightsJSON, &overridesJSON,
		&c.ChangeReason, &c.CreatedBy, &c.IsActive, &c.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(weightsJSON, &c.Weights); err != nil {
		return nil, fmt.Errorf("decode weights for version %d: %w", c.Version, err)
	}
	if overridesJSON != nil {
		_ = json.Unmarshal(overridesJSON, &c.SectorOverrides)
	}
	return c, nil
}
