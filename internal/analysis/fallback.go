package analysis

import (
	"strings"
)

// Keyword groups the heuristic looks for per content type. Coverage drives
// the completeness score.
var expectedTopics = map[ContentType][]string{
	ContentPitchDeck:        {"problem", "solution", "market", "team", "traction", "ask"},
	ContentBusinessPlan:     {"market", "competition", "revenue", "cost", "team", "risk"},
	ContentExecutiveSummary: {"problem", "solution", "market", "ask"},
}

var persuasionMarkers = []string{"growth", "revenue", "customers", "proven", "traction", "unique"}

// Fallback produces a structurally identical analysis record from local
// heuristics. It is a pure function of the request, so repeated calls for
// the same content give the same answer.
func Fallback(req Request) *Result {
	lower := strings.ToLower(req.Content)
	words := strings.Fields(lower)

	clarity := clarityHeuristic(lower, len(words))
	persuasiveness := markerHeuristic(lower, persuasionMarkers)
	completeness := coverageHeuristic(lower, req.ContentType)

	return &Result{
		ClarityScore:        clarity,
		PersuasivenessScore: persuasiveness,
		CompletenessScore:   completeness,
		Suggestions:         suggestions(clarity, persuasiveness, completeness),
		Benchmarks: map[string]int{
			"clarity":        65,
			"persuasiveness": 60,
			"completeness":   70,
		},
		Source: "fallback",
	}
}

// clarityHeuristic favours moderate length and short sentences.
func clarityHeuristic(content string, wordCount int) int {
	score := 40
	switch {
	case wordCount >= 100 && wordCount <= 800:
		score += 30
	case wordCount > 800:
		score += 15
	case wordCount >= 30:
		score += 20
	}
	sentences := strings.Count(content, ".") + strings.Count(content, "!") + strings.Count(content, "?")
	if sentences > 0 && wordCount/sentences <= 25 {
		score += 20
	}
	return clampScore(score)
}

func markerHeuristic(content string, markers []string) int {
	score := 30
	for _, m := range markers {
		if strings.Contains(content, m) {
			score += 10
		}
	}
	return clampScore(score)
}

func coverageHeuristic(content string, contentType ContentType) int {
	topics, ok := expectedTopics[contentType]
	if !ok {
		topics = expectedTopics[ContentExecutiveSummary]
	}
	covered := 0
	for _, topic := range topics {
		if strings.Contains(content, topic) {
			covered++
		}
	}
	return clampScore(20 + covered*80/len(topics))
}

func suggestions(clarity, persuasiveness, completeness int) []string {
	var out []string
	if clarity < 70 {
		out = append(out, "Shorten sentences and lead each section with its conclusion.")
	}
	if persuasiveness < 70 {
		out = append(out, "Back claims with concrete traction or revenue numbers.")
	}
	if completeness < 70 {
		out = append(out, "Cover the standard sections investors expect: problem, solution, market, team, ask.")
	}
	if len(out) == 0 {
		out = append(out, "Content covers the fundamentals; tighten the narrative for your target investors.")
	}
	return out
}
