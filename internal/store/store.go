package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Weight bounds enforced on every configuration weight, base and override alike.
const (
	MinWeight = 0.10
	MaxWeight = 0.50
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// InvalidConfigurationError is returned when a configuration is rejected at
// creation time. The configuration store is left unchanged.
type InvalidConfigurationError struct {
	Detail string
}

func (e *InvalidConfigurationError) Error() string {
	return "invalid scoring configuration: " + e.Detail
}

type MRRTier string

const (
	MRRNone   MRRTier = "none"
	MRRLow    MRRTier = "low"
	MRRMedium MRRTier = "medium"
	MRRHigh   MRRTier = "high"
)

type EmployeeRange string

const (
	Employees1to2   EmployeeRange = "1-2"
	Employees3to10  EmployeeRange = "3-10"
	Employees11to50 EmployeeRange = "11-50"
	Employees50Plus EmployeeRange = "50+"
)

type InvestorEngagement string

const (
	InvestorsNone      InvestorEngagement = "none"
	InvestorsAngels    InvestorEngagement = "angels"
	InvestorsVC        InvestorEngagement = "vc"
	InvestorsLateStage InvestorEngagement = "lateStage"
)

type Milestone string

const (
	MilestoneConcept Milestone = "concept"
	MilestoneLaunch  Milestone = "launch"
	MilestoneScale   Milestone = "scale"
	MilestoneExit    Milestone = "exit"
)

// AssessmentAnswers is one user's complete set of categorical answers.
// Answers are immutable once submitted.
type AssessmentAnswers struct {
	Prototype       bool `json:"prototype"`
	Revenue         bool `json:"revenue"`
	FullTimeTeam    bool `json:"full_time_team"`
	TermSheets      bool `json:"term_sheets"`
	CapTable        bool `json:"cap_table"`
	ExternalCapital bool `json:"external_capital"`

	MRR        MRRTier            `json:"mrr"`
	Employees  EmployeeRange      `json:"employees"`
	Investors  InvestorEngagement `json:"investors"`
	Milestones Milestone          `json:"milestones"`

	FundingGoal string `json:"funding_goal,omitempty"`
}

type Assessment struct {
	ID        uuid.UUID         `json:"assessment_id"`
	UserID    string            `json:"user_id"`
	Answers   AssessmentAnswers `json:"answers"`
	CreatedAt time.Time         `json:"created_at"`
}

type AssessmentFilter struct {
	UserID string
	Limit  int
	Offset int
}

// StoredScore is one row of the scores collection. Derived, not
// authoritative — recomputable from the assessment and the active
// configuration at any time.
type StoredScore struct {
	AssessmentID uuid.UUID `json:"assessment_id"`

	BusinessIdea            int    `json:"business_idea"`
	BusinessIdeaExplanation string `json:"business_idea_explanation"`
	Financials              int    `json:"financials"`
	FinancialsExplanation   string `json:"financials_explanation"`
	Team                    int    `json:"team"`
	TeamExplanation         string `json:"team_explanation"`
	Traction                int    `json:"traction"`
	TractionExplanation     string `json:"traction_explanation"`

	TotalScore      int    `json:"total_score"`
	ReadinessBucket string `json:"readiness_bucket"`

	Sector        string    `json:"sector"`
	Stage         string    `json:"stage"`
	ConfigVersion int       `json:"config_version"`
	ComputedAt    time.Time `json:"computed_at"`
}

// Weights holds the four category weights in the persisted form.
type Weights struct {
	BusinessIdea float64 `json:"business_idea" yaml:"business_idea"`
	Financials   float64 `json:"financials" yaml:"financials"`
	Team         float64 `json:"team" yaml:"team"`
	Traction     float64 `json:"traction" yaml:"traction"`
}

// Validate checks every weight against the [MinWeight, MaxWeight] range.
func (w Weights) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"business_idea", w.BusinessIdea},
		{"financials", w.Financials},
		{"team", w.Team},
		{"traction", w.Traction},
	} {
		if f.value < MinWeight || f.value > MaxWeight {
			return &InvalidConfigurationError{
				Detail: fmt.Sprintf("weight %s=%.3f outside [%.2f, %.2f]", f.name, f.value, MinWeight, MaxWeight),
			}
		}
	}
	return nil
}

// ScoringConfiguration is one immutable version of the weight configuration.
// Exactly one configuration is active at any time; superseded versions are
// never reactivated or mutated.
type ScoringConfiguration struct {
	ID              uuid.UUID          `json:"id"`
	Version         int                `json:"version"`
	Weights         Weights            `json:"weights"`
	SectorOverrides map[string]Weights `json:"sector_overrides,omitempty"`
	ChangeReason    string             `json:"change_reason"`
	CreatedBy       string             `json:"created_by"`
	IsActive        bool               `json:"is_active"`
	CreatedAt       time.Time          `json:"created_at"`
}

// ConfigVersionRequest carries the inputs for creating a new configuration
// version.
type ConfigVersionRequest struct {
	Weights         Weights            `json:"weights"`
	SectorOverrides map[string]Weights `json:"sector_overrides,omitempty"`
	Reason          string             `json:"reason"`
	Actor           string             `json:"actor"`
}

// Validate rejects out-of-range base weights and sector overrides.
func (r *ConfigVersionRequest) Validate() error {
	if err := r.Weights.Validate(); err != nil {
		return err
	}
	for sector, w := range r.SectorOverrides {
		if err := w.Validate(); err != nil {
			return &InvalidConfigurationError{
				Detail: fmt.Sprintf("sector override %q: %v", sector, err),
			}
		}
	}
	return nil
}

type AuditLogEntry struct {
	ID            uuid.UUID              `json:"id"`
	Action        string                 `json:"action"`
	Actor         string                 `json:"actor"`
	ConfigVersion int                    `json:"config_version"`
	OldValues     map[string]interface{} `json:"old_values,omitempty"`
	NewValues     map[string]interface{} `json:"new_values,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// Audit actions recorded against the configuration store.
const (
	AuditActionCreate = "create"
	AuditActionRevert = "revert"
)

type Store interface {
	CreateAssessment(ctx context.Context, a *Assessment) error
	GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error)
	ListAssessments(ctx context.Context, filter AssessmentFilter) ([]*Assessment, error)
	ListAssessmentIDs(ctx context.Context) ([]uuid.UUID, error)

	UpsertScore(ctx context.Context, s *StoredScore) error
	GetScore(ctx context.Context, assessmentID uuid.UUID) (*StoredScore, error)

	// Configuration versioning. CreateConfigVersion appends version
	// max+1 and atomically flips the active pointer; RevertToVersion
	// creates a new version carrying the target's weights — it never
	// reactivates the old row.
	CreateConfigVersion(ctx context.Context, req *ConfigVersionRequest) (*ScoringConfiguration, error)
	RevertToVersion(ctx context.Context, version int, reason, actor string) (*ScoringConfiguration, error)
	GetActiveConfiguration(ctx context.Context) (*ScoringConfiguration, error)
	GetConfigVersion(ctx context.Context, version int) (*ScoringConfiguration, error)
	GetConfigHistory(ctx context.Context) ([]*ScoringConfiguration, error)

	GetAuditLog(ctx context.Context, limit int) ([]*AuditLogEntry, error)

	Close() error
}
