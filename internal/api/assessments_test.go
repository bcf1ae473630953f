package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/analysis"
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/engine"
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/scoring"
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/store"
)

// fakeStore is an in-memory store.Store for handler tests.
type fakeStore struct {
	assessments map[uuid.UUID]*store.Assessment
	scores      map[uuid.UUID]*store.StoredScore
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		assessments: make(map[uuid.UUID]*store.Assessment),
		scores:      make(map[uuid.UUID]*store.StoredScore),
	}
}

func (f *fakeStore) CreateAssessment(_ context.Context, a *store.Assessment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	f.assessments[a.ID] = a
	return nil
}

func (f *fakeStore) GetAssessment(_ context.Context, id uuid.UUID) (*store.Assessment, error) {
	a, ok := f.assessments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) ListAssessments(_ context.Context, filter store.AssessmentFilter) ([]*store.Assessment, error) {
	var out []*store.Assessment
	for _, a := range f.assessments {
		if filter.UserID != "" && a.UserID != filter.UserID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeStore) ListAssessmentIDs(_ context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id := range f.assessments {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeStore) UpsertScore(_ context.Context, s *store.StoredScore) error {
	s.ComputedAt = time.Now().UTC()
	f.scores[s.AssessmentID] = s
	return nil
}

func (f *fakeStore) GetScore(_ context.Context, assessmentID uuid.UUID) (*store.StoredScore, error) {
	s, ok := f.scores[assessmentID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) CreateConfigVersion(_ context.Context, _ *store.ConfigVersionRequest) (*store.ScoringConfiguration, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeStore) RevertToVersion(_ context.Context, _ int, _, _ string) (*store.ScoringConfiguration, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeStore) GetActiveConfiguration(_ context.Context) (*store.ScoringConfiguration, error) {
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetConfigVersion(_ context.Context, _ int) (*store.ScoringConfiguration, error) {
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetConfigHistory(_ context.Context) ([]*store.ScoringConfiguration, error) {
	return nil, nil
}

func (f *fakeStore) GetAuditLog(_ context.Context, _ int) ([]*store.AuditLogEntry, error) {
	return nil, nil
}

func (f *fakeStore) Close() error { return nil }

// fakeEvents records published subjects in order.
type fakeEvents struct {
	published []string
}

func (f *fakeEvents) Publish(subject string, _ interface{}) error {
	f.published = append(f.published, subject)
	return nil
}

func (f *fakeEvents) Subscribe(_ string, _ func(string, []byte)) error { return nil }
func (f *fakeEvents) Close()                                           {}

func newTestRouter(f *fakeStore) http.Handler {
	e := engine.New(f, nil, time.Minute, 1, testLogger())
	return NewRouter(f, e, analysis.NewService(nil, testLogger()), nil, "test-admin-token", testLogger())
}

func postJSON(t *testing.T, r http.Handler, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, _ := http.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestCreateAssessment(t *testing.T) {
	f := newFakeStore()
	r := newTestRouter(f)

	rr := postJSON(t, r, "/api/v1/assessments", CreateAssessmentRequest{
		Answers: store.AssessmentAnswers{
			Prototype:    true,
			Revenue:      true,
			FullTimeTeam: true,
		},
	}, map[string]string{"X-User-ID": "founder-1"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}

	var got store.Assessment
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID == uuid.Nil {
		t.Error("assessment id not assigned")
	}
	if got.UserID != "founder-1" {
		t.Errorf("user id = %q, want founder-1", got.UserID)
	}
	// optional enums come back normalized
	if got.Answers.MRR != store.MRRNone {
		t.Errorf("mrr = %q, want none", got.Answers.MRR)
	}
	if got.Answers.Milestones != store.MilestoneConcept {
		t.Errorf("milestones = %q, want concept", got.Answers.Milestones)
	}
}

func TestCreateAssessmentPublishesEvent(t *testing.T) {
	f := newFakeStore()
	ev := &fakeEvents{}
	e := engine.New(f, nil, time.Minute, 1, testLogger())
	r := NewRouter(f, e, analysis.NewService(nil, testLogger()), ev, "test-admin-token", testLogger())

	rr := postJSON(t, r, "/api/v1/assessments", CreateAssessmentRequest{
		Answers: store.AssessmentAnswers{Prototype: true},
	}, map[string]string{"X-User-ID": "founder-1"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}

	if len(ev.published) != 1 {
		t.Fatalf("published %d events, want 1", len(ev.published))
	}
	var got store.Assessment
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := "auricite.assessment." + got.ID.String() + ".created"
	if ev.published[0] != want {
		t.Errorf("subject = %q, want %q", ev.published[0], want)
	}
}

func TestCreateAssessmentRejectsUnknownEnum(t *testing.T) {
	f := newFakeStore()
	r := newTestRouter(f)

	rr := postJSON(t, r, "/api/v1/assessments", CreateAssessmentRequest{
		Answers: store.AssessmentAnswers{MRR: "astronomical"},
	}, map[string]string{"X-User-ID": "founder-1"})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rr.Code, rr.Body.String())
	}
	if len(f.assessments) != 0 {
		t.Error("invalid assessment was persisted")
	}
}

func TestCreateAssessmentRequiresUserID(t *testing.T) {
	f := newFakeStore()
	r := newTestRouter(f)

	rr := postJSON(t, r, "/api/v1/assessments", CreateAssessmentRequest{}, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestScoreAssessment(t *testing.T) {
	f := newFakeStore()
	r := newTestRouter(f)

	a := &store.Assessment{
		UserID: "founder-1",
		Answers: scoring.Normalize(store.AssessmentAnswers{
			Prototype:    true,
			Revenue:      true,
			FullTimeTeam: true,
			MRR:          store.MRRMedium,
		}),
	}
	if err := f.CreateAssessment(context.Background(), a); err != nil {
		t.Fatal(err)
	}

	rr := postJSON(t, r, "/api/v1/assessments/"+a.ID.String()+"/score", struct{}{},
		map[string]string{"X-User-ID": "founder-1"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var result scoring.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.TotalScore < 0 || result.TotalScore > 999 {
		t.Errorf("total score = %d outside [0, 999]", result.TotalScore)
	}
	if result.Bucket == "" {
		t.Error("readiness bucket missing")
	}

	stored, err := f.GetScore(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("score not persisted: %v", err)
	}
	if stored.TotalScore != result.TotalScore {
		t.Errorf("persisted total = %d, response total = %d", stored.TotalScore, result.TotalScore)
	}
}

func TestScoreUnknownAssessment(t *testing.T) {
	f := newFakeStore()
	r := newTestRouter(f)

	rr := postJSON(t, r, "/api/v1/assessments/"+uuid.NewString()+"/score", struct{}{},
		map[string]string{"X-User-ID": "founder-1"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rr.Code, rr.Body.String())
	}
}

func TestGetScoreBeforeScoring(t *testing.T) {
	f := newFakeStore()
	r := newTestRouter(f)

	a := &store.Assessment{UserID: "founder-1", Answers: scoring.Normalize(store.AssessmentAnswers{})}
	if err := f.CreateAssessment(context.Background(), a); err != nil {
		t.Fatal(err)
	}

	req, _ := http.NewRequest("GET", "/api/v1/assessments/"+a.ID.String()+"/score", nil)
	req.Header.Set("X-User-ID", "founder-1")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestAnalyzeFallsBackWithoutLLM(t *testing.T) {
	f := newFakeStore()
	r := newTestRouter(f)

	rr := postJSON(t, r, "/api/v1/analysis", analysis.Request{
		Content:     "Problem: rent collection is manual. Solution: automated payments with proven traction and growing revenue.",
		ContentType: analysis.ContentPitchDeck,
	}, map[string]string{"X-User-ID": "founder-1"})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var result analysis.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Source != "fallback" {
		t.Errorf("source = %q, want fallback", result.Source)
	}
}

func TestAnalyzeRequiresContent(t *testing.T) {
	f := newFakeStore()
	r := newTestRouter(f)

	rr := postJSON(t, r, "/api/v1/analysis", analysis.Request{Content: "   "},
		map[string]string{"X-User-ID": "founder-1"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}
