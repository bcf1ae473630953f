package scoring

import (
	"math"

	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/store"
)

// Total score bounds and the fixed normalization factor. The weighted
// category average lands in roughly [0, 100.1]; the 9.99 scale maps it onto
// the 0-999 display range.
const (
	scaleFactor   = 9.99
	totalScoreMax = 999
)

// Readiness buckets exposed to callers for display.
const (
	BucketInvestorReady = "Investor Ready"
	BucketNearlyReady   = "Nearly Ready"
	BucketDeveloping    = "Developing"
	BucketEarlyStage    = "Early Stage"
	BucketPreInvestment = "Pre-Investment"
)

// Aggregate combines the four sub-scores and resolved weights into the
// normalized total, clamped to [0, 999].
func Aggregate(scores CategoryScores, weights WeightSet) int {
	weighted := float64(scores.BusinessIdea.Score)*weights.BusinessIdea +
		float64(scores.Financials.Score)*weights.Financials +
		float64(scores.Team.Score)*weights.Team +
		float64(scores.Traction.Score)*weights.Traction

	total := int(math.Round(weighted * scaleFactor))
	if total > totalScoreMax {
		return totalScoreMax
	}
	if total < 0 {
		return 0
	}
	return total
}

// BucketFor maps a total score onto its readiness bucket.
func BucketFor(total int) string {
	switch {
	case total >= 800:
		return BucketInvestorReady
	case total >= 700:
		return BucketNearlyReady
	case total >= 600:
		return BucketDeveloping
	case total >= 400:
		return BucketEarlyStage
	default:
		return BucketPreInvestment
	}
}

// Result is the complete output of the scoring pipeline for one assessment.
type Result struct {
	Categories    CategoryScores `json:"categories"`
	TotalScore    int            `json:"total_score"`
	Bucket        string         `json:"readiness_bucket"`
	Sector        Sector         `json:"sector"`
	Stage         Stage          `json:"stage"`
	Weights       WeightSet      `json:"weights"`
	ConfigVersion int            `json:"config_version"`
	Fingerprint   string         `json:"fingerprint"`
}

// Compute runs the full pipeline — normalize, evaluate, detect sector and
// stage, resolve weights, aggregate — against one configuration version.
// It is the single scoring path; every caller goes through it.
func Compute(answers store.AssessmentAnswers, cfg *store.ScoringConfiguration) (*Result, error) {
	if cfg == nil {
		cfg = FallbackConfiguration()
	}

	normalized := Normalize(answers)
	categories, err := Evaluate(normalized)
	if err != nil {
		return nil, err
	}

	sector := DetectSector(normalized)
	stage := DetectStage(normalized)
	weights := ResolveWeights(cfg, sector, stage)
	total := Aggregate(categories, weights)

	return &Result{
		Categories:    categories,
		TotalScore:    total,
		Bucket:        BucketFor(total),
		Sector:        sector,
		Stage:         stage,
		Weights:       weights,
		ConfigVersion: cfg.Version,
		Fingerprint:   Fingerprint(normalized, cfg.Version),
	}, nil
}
