package scoring

import (
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/store"
)

// WeightSet defines the relative importance of the four scoring categories.
// Resolved weights are clamped per-weight into [store.MinWeight,
// store.MaxWeight] and deliberately not re-normalized to sum to 1.0 — the
// aggregator's fixed scale factor is the only normalization.
type WeightSet struct {
	BusinessIdea float64 `json:"business_idea"`
	Financials   float64 `json:"financials"`
	Team         float64 `json:"team"`
	Traction     float64 `json:"traction"`
}

// Stage adjustment delta applied on top of the sector base weights.
const stageDelta = 0.05

// DefaultWeights returns the Default table weight distribution.
func DefaultWeights() WeightSet {
	return WeightSet{
		BusinessIdea: 0.30,
		Financials:   0.25,
		Team:         0.25,
		Traction:     0.20,
	}
}

// DefaultSectorOverrides returns the built-in per-sector weight tables, in
// the persisted form, used to seed the initial configuration version.
func DefaultSectorOverrides() map[string]store.Weights {
	return map[string]store.Weights{
		string(SectorB2BSaaS):     {BusinessIdea: 0.25, Financials: 0.30, Team: 0.20, Traction: 0.25},
		string(SectorB2CConsumer): {BusinessIdea: 0.35, Financials: 0.15, Team: 0.25, Traction: 0.25},
		string(SectorFinTech):     {BusinessIdea: 0.20, Financials: 0.35, Team: 0.25, Traction: 0.20},
		string(SectorHealthTech):  {BusinessIdea: 0.30, Financials: 0.25, Team: 0.30, Traction: 0.15},
		string(SectorEcommerce):   {BusinessIdea: 0.25, Financials: 0.30, Team: 0.20, Traction: 0.25},
	}
}

// FallbackConfiguration is used when the version store holds no rows yet.
// It is never persisted; the first CreateConfigVersion call starts the
// history at version 1.
func FallbackConfiguration() *store.ScoringConfiguration {
	w := DefaultWeights()
	return &store.ScoringConfiguration{
		Version:         0,
		Weights:         w.Stored(),
		SectorOverrides: DefaultSectorOverrides(),
		ChangeReason:    "built-in defaults",
		IsActive:        true,
	}
}

// FromStored converts the persisted weight form.
func FromStored(w store.Weights) WeightSet {
	return WeightSet{
		BusinessIdea: w.BusinessIdea,
		Financials:   w.Financials,
		Team:         w.Team,
		Traction:     w.Traction,
	}
}

// Stored converts back to the persisted form.
func (w WeightSet) Stored() store.Weights {
	return store.Weights{
		BusinessIdea: w.BusinessIdea,
		Financials:   w.Financials,
		Team:         w.Team,
		Traction:     w.Traction,
	}
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	return w.BusinessIdea + w.Financials + w.Team + w.Traction
}

// ResolveWeights combines the configuration's weight tables with the
// detected sector and stage. Sector lookup falls back to the configuration's
// base (Default) table when the override map has no entry for the sector.
func ResolveWeights(cfg *store.ScoringConfiguration, sector Sector, stage Stage) WeightSet {
	w := FromStored(cfg.Weights)
	if override, ok := cfg.SectorOverrides[string(sector)]; ok {
		w = FromStored(override)
	}

	switch stage {
	case StagePreSeed:
		w.BusinessIdea += stageDelta
		w.Team += stageDelta
		w.Financials -= stageDelta
		w.Traction -= stageDelta
	case StageSeed:
		w.BusinessIdea -= stageDelta
		w.Team -= stageDelta
		w.Financials += stageDelta
		w.Traction += stageDelta
	}

	w.BusinessIdea = clamp(w.BusinessIdea, store.MinWeight, store.MaxWeight)
	w.Financials = clamp(w.Financials, store.MinWeight, store.MaxWeight)
	w.Team = clamp(w.Team, store.MinWeight, store.MaxWeight)
	w.Traction = clamp(w.Traction, store.MinWeight, store.MaxWeight)
	return w
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
