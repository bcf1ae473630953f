package scoring

import (
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/store"
)

type Sector string

const (
	SectorB2BSaaS     Sector = "B2BSaaS"
	SectorB2CConsumer Sector = "B2CConsumer"
	SectorFinTech     Sector = "FinTech"
	SectorHealthTech  Sector = "HealthTech"
	SectorEcommerce   Sector = "Ecommerce"
	SectorDefault     Sector = "Default"
)

type Stage string

const (
	StagePreSeed Stage = "preSeed"
	StageSeed    Stage = "seed"
)

// DetectSector classifies answers into a market sector. Rules are ordered
// and first-match-wins. The final fallback is B2BSaaS, not Default — the
// Default weight table is reached only through configurations whose
// override map omits a sector.
func DetectSector(a store.AssessmentAnswers) Sector {
	recurring := a.MRR != store.MRRNone

	switch {
	case (a.TermSheets || (a.Revenue && recurring)) && recurring:
		return SectorB2BSaaS
	case a.ExternalCapital && a.TermSheets:
		return SectorFinTech
	case a.Prototype && !a.Revenue:
		return SectorB2CConsumer
	case a.Revenue && !recurring:
		return SectorEcommerce
	default:
		return SectorB2BSaaS
	}
}

// DetectStage classifies funding maturity: seed once outside capital, term
// sheets, or meaningful recurring revenue shows up, preSeed otherwise.
func DetectStage(a store.AssessmentAnswers) Stage {
	if a.ExternalCapital || a.TermSheets {
		return StageSeed
	}
	if a.MRR == store.MRRMedium || a.MRR == store.MRRHigh {
		return StageSeed
	}
	return StagePreSeed
}
