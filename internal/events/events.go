package events

import "time"

type AssessmentCreatedEvent struct {
	AssessmentID string    `json:"assessment_id"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type AssessmentScoredEvent struct {
	AssessmentID    string `json:"assessment_id"`
	TotalScore      int    `json:"total_score"`
	ReadinessBucket string `json:"readiness_bucket"`
	Sector          string `json:"sector"`
	Stage           string `json:"stage"`
	ConfigVersion   int    `json:"config_version"`
	CacheHit        bool   `json:"cache_hit"`
}

type ConfigChangedEvent struct {
	Version         int    `json:"version"`
	PreviousVersion int    `json:"previous_version,omitempty"`
	Reason          string `json:"reason,omitempty"`
	Actor           string `json:"actor,omitempty"`
	Reverted        bool   `json:"reverted"`
}

type RescoreStartedEvent struct {
	TotalAssessments int       `json:"total_assessments"`
	ConfigVersion    int       `json:"config_version"`
	StartedAt        time.Time `json:"started_at"`
}

type RescoreCompletedEvent struct {
	TotalAssessments int       `json:"total_assessments"`
	Succeeded        int       `json:"succeeded"`
	Failed           int       `json:"failed"`
	ConfigVersion    int       `json:"config_version"`
	CompletedAt      time.Time `json:"completed_at"`
}
