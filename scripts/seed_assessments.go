// seed_assessments.go — standalone script to post sample assessments and an
// initial scoring configuration to a running instance.
//
// Usage:
//
//	go run scripts/seed_assessments.go -api http://localhost:8700 -user seed -admin-token TOKEN
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
)

type answers struct {
	Prototype       bool   `json:"prototype"`
	Revenue         bool   `json:"revenue"`
	FullTimeTeam    bool   `json:"full_time_team"`
	TermSheets      bool   `json:"term_sheets"`
	CapTable        bool   `json:"cap_table"`
	ExternalCapital bool   `json:"external_capital"`
	MRR             string `json:"mrr,omitempty"`
	Employees       string `json:"employees,omitempty"`
	Investors       string `json:"investors,omitempty"`
	Milestones      string `json:"milestones,omitempty"`
	FundingGoal     string `json:"funding_goal,omitempty"`
}

type assessmentRequest struct {
	Answers answers `json:"answers"`
}

type weights struct {
	BusinessIdea float64 `json:"business_idea"`
	Financials   float64 `json:"financials"`
	Team         float64 `json:"team"`
	Traction     float64 `json:"traction"`
}

type configRequest struct {
	Weights weights `json:"weights"`
	Reason  string  `json:"reason"`
	Actor   string  `json:"actor"`
}

var profiles = []answers{
	// pre-seed solo founder with a concept
	{Prototype: false, Milestones: "concept"},
	// prototype live, no revenue yet
	{Prototype: true, FullTimeTeam: true, Milestones: "launch", Employees: "1-2"},
	// early revenue, raising from angels
	{Prototype: true, Revenue: true, FullTimeTeam: true, MRR: "low", Employees: "3-10",
		Investors: "angels", Milestones: "launch", CapTable: true, FundingGoal: "250k"},
	// strong seed candidate
	{Prototype: true, Revenue: true, FullTimeTeam: true, TermSheets: true, CapTable: true,
		ExternalCapital: true, MRR: "medium", Employees: "3-10", Investors: "vc",
		Milestones: "scale", FundingGoal: "2m"},
	// revenue without recurring income
	{Prototype: true, Revenue: true, FullTimeTeam: true, MRR: "none", Employees: "11-50",
		Investors: "angels", Milestones: "scale", CapTable: true},
}

func main() {
	apiURL := flag.String("api", "http://localhost:8700", "API base URL")
	userID := flag.String("user", "seed", "X-User-ID header value")
	adminToken := flag.String("admin-token", "", "admin bearer token for config seeding")
	score := flag.Bool("score", true, "score each assessment after creating it")
	flag.Parse()

	client := &http.Client{}

	if *adminToken != "" {
		seedConfig(client, *apiURL, *adminToken)
	}

	created, scored := 0, 0
	for i, p := range profiles {
		body, _ := json.Marshal(assessmentRequest{Answers: p})
		req, _ := http.NewRequest("POST", *apiURL+"/api/v1/assessments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", *userID)

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("skip profile %d: %v", i+1, err)
			continue
		}
		var a struct {
			ID string `json:"assessment_id"`
		}
		err = json.NewDecoder(resp.Body).Decode(&a)
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated || err != nil {
			log.Printf("skip profile %d: status %d", i+1, resp.StatusCode)
			continue
		}
		created++

		if !*score {
			continue
		}
		scoreReq, _ := http.NewRequest("POST", *apiURL+"/api/v1/assessments/"+a.ID+"/score", bytes.NewReader([]byte("{}")))
		scoreReq.Header.Set("Content-Type", "application/json")
		scoreReq.Header.Set("X-User-ID", *userID)

		scoreResp, err := client.Do(scoreReq)
		if err != nil {
			log.Printf("score profile %d: %v", i+1, err)
			continue
		}
		var result struct {
			TotalScore int    `json:"total_score"`
			Bucket     string `json:"readiness_bucket"`
		}
		_ = json.NewDecoder(scoreResp.Body).Decode(&result)
		scoreResp.Body.Close()
		if scoreResp.StatusCode == http.StatusOK {
			scored++
			fmt.Printf("[%d] %s: total=%d bucket=%s\n", i+1, a.ID, result.TotalScore, result.Bucket)
		} else {
			log.Printf("score profile %d: status %d", i+1, scoreResp.StatusCode)
		}
	}

	log.Printf("done: %d created, %d scored", created, scored)
}

func seedConfig(client *http.Client, apiURL, token string) {
	body, _ := json.Marshal(configRequest{
		Weights: weights{BusinessIdea: 0.30, Financials: 0.25, Team: 0.25, Traction: 0.20},
		Reason:  "initial configuration",
		Actor:   "seed",
	})
	req, _ := http.NewRequest("POST", apiURL+"/api/v1/scoring/config", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		log.Printf("seed config: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusCreated {
		log.Printf("seeded initial scoring configuration")
	} else {
		log.Printf("seed config: status %d", resp.StatusCode)
	}
}
