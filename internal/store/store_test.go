package store

import (
	"testing"
)

func TestWeightsValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		w := Weights{BusinessIdea: 0.30, Financials: 0.25, Team: 0.25, Traction: 0.20}
		if err := w.Validate(); err != nil {
			t.Errorf("expected valid, got %v", err)
		}
	})

	t.Run("boundary values", func(t *testing.T) {
		w := Weights{BusinessIdea: 0.10, Financials: 0.50, Team: 0.10, Traction: 0.50}
		if err := w.Validate(); err != nil {
			t.Errorf("expected boundary weights valid, got %v", err)
		}
	})

	t.Run("too low", func(t *testing.T) {
		w := Weights{BusinessIdea: 0.05, Financials: 0.25, Team: 0.25, Traction: 0.20}
		if err := w.Validate(); err == nil {
			t.Error("expected error for weight below 0.10")
		}
	})

	t.Run("too high", func(t *testing.T) {
		w := Weights{BusinessIdea: 0.30, Financials: 0.55, Team: 0.25, Traction: 0.20}
		err := w.Validate()
		if err == nil {
			t.Fatal("expected error for weight above 0.50")
		}
		if _, ok := err.(*InvalidConfigurationError); !ok {
			t.Errorf("expected *InvalidConfigurationError, got %T", err)
		}
	})
}

func TestConfigVersionRequestValidate(t *testing.T) {
	valid := Weights{BusinessIdea: 0.30, Financials: 0.25, Team: 0.25, Traction: 0.20}

	t.Run("valid with overrides", func(t *testing.T) {
		req := &ConfigVersionRequest{
			Weights: valid,
			SectorOverrides: map[string]Weights{
				"FinTech": {BusinessIdea: 0.20, Financials: 0.35, Team: 0.25, Traction: 0.20},
			},
		}
		if err := req.Validate(); err != nil {
			t.Errorf("expected valid, got %v", err)
		}
	})

	t.Run("invalid override rejected", func(t *testing.T) {
		req := &ConfigVersionRequest{
			Weights: valid,
			SectorOverrides: map[string]Weights{
				"FinTech": {BusinessIdea: 0.80, Financials: 0.35, Team: 0.25, Traction: 0.20},
			},
		}
		if err := req.Validate(); err == nil {
			t.Error("expected error for out-of-range sector override")
		}
	})
}

func TestEnumerationValues(t *testing.T) {
	mrr := []MRRTier{MRRNone, MRRLow, MRRMedium, MRRHigh}
	expected := []string{"none", "low", "medium", "high"}
	for i, v := range mrr {
		if string(v) != expected[i] {
			t.Errorf("expected %s, got %s", expected[i], v)
		}
	}

	employees := []EmployeeRange{Employees1to2, Employees3to10, Employees11to50, Employees50Plus}
	expectedEmp := []string{"1-2", "3-10", "11-50", "50+"}
	for i, v := range employees {
		if string(v) != expectedEmp[i] {
			t.Errorf("expected %s, got %s", expectedEmp[i], v)
		}
	}

	if string(InvestorsLateStage) != "lateStage" {
		t.Errorf("expected lateStage, got %s", InvestorsLateStage)
	}
	if string(MilestoneConcept) != "concept" {
		t.Errorf("expected concept, got %s", MilestoneConcept)
	}
}
