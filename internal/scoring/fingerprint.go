package scoring

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/store"
)

// Fingerprint returns the stable cache key for one assessment under one
// configuration version. Fields are serialized in a fixed canonical order,
// so the hash does not depend on how the answers arrived. Because the
// version is part of the key, activating a new configuration invalidates
// every prior entry without explicit eviction.
func Fingerprint(a store.AssessmentAnswers, version int) string {
	canonical := fmt.Sprintf(
		"prototype=%t|revenue=%t|fullTimeTeam=%t|termSheets=%t|capTable=%t|externalCapital=%t|mrr=%s|employees=%s|investors=%s|milestones=%s|fundingGoal=%s",
		a.Prototype, a.Revenue, a.FullTimeTeam, a.TermSheets, a.CapTable, a.ExternalCapital,
		a.MRR, a.Employees, a.Investors, a.Milestones, a.FundingGoal,
	)
	return fmt.Sprintf("%016x:v%d", xxhash.Sum64String(canonical), version)
}
