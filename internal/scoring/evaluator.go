package scoring

import (
	"fmt"

	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/store"
)

// ValidationError reports an answer field the rule set cannot score.
// Callers normalize absent optional fields before evaluation; the evaluator
// itself never substitutes defaults.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid answer field %s=%q", e.Field, e.Value)
}

// CategoryScore is one category sub-score with its explanation.
type CategoryScore struct {
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

// CategoryScores holds the four category sub-scores, each in [0, 100].
type CategoryScores struct {
	BusinessIdea CategoryScore `json:"business_idea"`
	Financials   CategoryScore `json:"financials"`
	Team         CategoryScore `json:"team"`
	Traction     CategoryScore `json:"traction"`
}

// Fixed point contributions. Each category is capped at 100 after summation;
// no contribution is negative.
const (
	prototypePoints   = 60
	noPrototypePoints = 20

	revenuePoints         = 40
	noRevenuePoints       = 15
	capTablePoints        = 20
	externalCapitalPoints = 15

	fullTimePoints = 60
	partTimePoints = 25

	termSheetPoints   = 50
	noTermSheetPoints = 20

	categoryCap = 100
)

var milestonePoints = map[store.Milestone]int{
	store.MilestoneConcept: 10,
	store.MilestoneLaunch:  30,
	store.MilestoneScale:   40,
	store.MilestoneExit:    35,
}

var mrrPoints = map[store.MRRTier]int{
	store.MRRNone:   10,
	store.MRRLow:    25,
	store.MRRMedium: 35,
	store.MRRHigh:   45,
}

var employeePoints = map[store.EmployeeRange]int{
	store.Employees1to2:   15,
	store.Employees3to10:  35,
	store.Employees11to50: 40,
	store.Employees50Plus: 30,
}

var investorPoints = map[store.InvestorEngagement]int{
	store.InvestorsNone:      10,
	store.InvestorsAngels:    30,
	store.InvestorsVC:        40,
	store.InvestorsLateStage: 35,
}

// Normalize maps absent optional enumeration fields to their documented
// defaults. This is the single substitution point: after Normalize, Evaluate
// can assume complete input and fail loudly on anything it does not know.
func Normalize(a store.AssessmentAnswers) store.AssessmentAnswers {
	if a.MRR == "" {
		a.MRR = store.MRRNone
	}
	if a.Employees == "" {
		a.Employees = store.Employees1to2
	}
	if a.Investors == "" {
		a.Investors = store.InvestorsNone
	}
	if a.Milestones == "" {
		a.Milestones = store.MilestoneConcept
	}
	return a
}

// Evaluate turns a complete set of answers into the four category
// sub-scores. It is pure and deterministic: identical inputs always produce
// identical output.
func Evaluate(a store.AssessmentAnswers) (CategoryScores, error) {
	milestone, ok := milestonePoints[a.Milestones]
	if !ok {
		return CategoryScores{}, &ValidationError{Field: "milestones", Value: string(a.Milestones)}
	}
	mrr, ok := mrrPoints[a.MRR]
	if !ok {
		return CategoryScores{}, &ValidationError{Field: "mrr", Value: string(a.MRR)}
	}
	employees, ok := employeePoints[a.Employees]
	if !ok {
		return CategoryScores{}, &ValidationError{Field: "employees", Value: string(a.Employees)}
	}
	investors, ok := investorPoints[a.Investors]
	if !ok {
		return CategoryScores{}, &ValidationError{Field: "investors", Value: string(a.Investors)}
	}

	return CategoryScores{
		BusinessIdea: businessIdeaScore(a, milestone),
		Financials:   financialsScore(a, mrr),
		Team:         teamScore(a, employees),
		Traction:     tractionScore(a, investors),
	}, nil
}

func businessIdeaScore(a store.AssessmentAnswers, milestone int) CategoryScore {
	points := noPrototypePoints
	explanation := "no working prototype yet"
	if a.Prototype {
		points = prototypePoints
		explanation = "working prototype built"
	}
	explanation += fmt.Sprintf(", milestone stage %q", a.Milestones)
	return CategoryScore{Score: capped(points + milestone), Explanation: explanation}
}

func financialsScore(a store.AssessmentAnswers, mrr int) CategoryScore {
	points := noRevenuePoints
	explanation := "pre-revenue"
	if a.Revenue {
		points = revenuePoints
		explanation = "generating revenue"
	}
	points += mrr
	explanation += fmt.Sprintf(", recurring revenue tier %q", a.MRR)
	if a.CapTable {
		points += capTablePoints
		explanation += ", cap table documented"
	}
	if a.ExternalCapital {
		points += externalCapitalPoints
		explanation += ", external capital raised"
	}
	return CategoryScore{Score: capped(points), Explanation: explanation}
}

func teamScore(a store.AssessmentAnswers, employees int) CategoryScore {
	points := partTimePoints
	explanation := "team not yet full-time"
	if a.FullTimeTeam {
		points = fullTimePoints
		explanation = "full-time founding team"
	}
	explanation += fmt.Sprintf(", %s employees", a.Employees)
	return CategoryScore{Score: capped(points + employees), Explanation: explanation}
}

func tractionScore(a store.AssessmentAnswers, investors int) CategoryScore {
	points := noTermSheetPoints
	explanation := "no term sheets yet"
	if a.TermSheets {
		points = termSheetPoints
		explanation = "term sheets received"
	}
	explanation += fmt.Sprintf(", investor engagement %q", a.Investors)
	return CategoryScore{Score: capped(points + investors), Explanation: explanation}
}

func capped(points int) int {
	if points > categoryCap {
		return categoryCap
	}
	if points < 0 {
		return 0
	}
	return points
}
