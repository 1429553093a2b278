package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/internship-assistant/internal/content"
	"github.com/jonathan/internship-assistant/internal/search"
	"github.com/jonathan/internship-assistant/internal/server/ratelimit"
	"github.com/jonathan/internship-assistant/internal/types"
)

const resumeJSON = `{
	"personal_information": {"name": "Sam Lee", "email": "sam@example.com"},
	"skills": ["Python", "React", "PostgreSQL"],
	"education": [{"degree": "B.S. Computer Science", "institution": "State University"}],
	"professional_experience": [{"role": "Developer Intern", "duration": "2024/06 - 2024/09"}]
}`

type fakeStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]types.Internship
	err   error
}

func newFakeStore(items ...types.Internship) *fakeStore {
	s := &fakeStore{items: map[uuid.UUID]types.Internship{}}
	for _, in := range items {
		s.items[in.ID] = in
	}
	return s
}

func (s *fakeStore) ListInternships(_ context.Context, userID uuid.UUID) ([]types.Internship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []types.Internship
	for _, in := range s.items {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (s *fakeStore) GetInternship(_ context.Context, userID, id uuid.UUID) (*types.Internship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.items[id]
	if !ok || in.UserID != userID {
		return nil, nil
	}
	return &in, nil
}

func (s *fakeStore) UpdateInternshipStatus(_ context.Context, userID, id uuid.UUID, status string) (bool, error) {
	st, err := types.ParseStatus(status)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.items[id]
	if !ok || in.UserID != userID {
		return false, nil
	}
	in.Status = st
	s.items[id] = in
	return true, nil
}

func (s *fakeStore) DeleteInternship(_ context.Context, userID, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.items[id]
	if !ok || in.UserID != userID {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

type fakeSearcher struct {
	userID uuid.UUID
	specs  []types.SearchSpec
	err    error
}

func (f *fakeSearcher) Run(_ context.Context, userID uuid.UUID, _ types.ResumeProfile, specs []types.SearchSpec) (*search.Result, error) {
	f.userID = userID
	f.specs = specs
	if f.err != nil {
		return nil, f.err
	}
	return &search.Result{Postings: []types.ScoredPosting{}, Save: search.SaveReport{Saved: 2}}, nil
}

type fakeDrafter struct {
	kind content.Kind
	req  content.Request
}

func (f *fakeDrafter) Draft(_ context.Context, kind content.Kind, req content.Request) content.Draft {
	f.kind = kind
	f.req = req
	return content.Draft{Kind: kind, Text: "Dear Acme team", UsedFallback: true, FallbackReason: "no text generator configured"}
}

var defaultUser = uuid.MustParse("6f1c7c5e-6a55-4d8e-9a1d-3c7f1f0c2b11")

func newTestServer(deps Deps) http.Handler {
	if deps.UserID == uuid.Nil {
		deps.UserID = defaultUser
	}
	return New(Config{Port: 0}, deps, nil).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthEndpoint(t *testing.T) {
	w := do(t, newTestServer(Deps{}), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	w := do(t, newTestServer(Deps{}), http.MethodOptions, "/v1/internships", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestAnalyzeResume(t *testing.T) {
	h := newTestServer(Deps{})

	w := do(t, h, http.MethodPost, "/v1/resume/analyze", resumeJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile := decode[map[string]any](t, w)
	assert.Equal(t, []any{"postgresql", "python", "react"}, profile["skills"])
	assert.Equal(t, "bachelor", profile["education_level"])

	w = do(t, h, http.MethodPost, "/v1/resume/analyze", `["not", "an", "object"]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/v1/resume/analyze", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "invalid JSON")
}

func TestExtractJob(t *testing.T) {
	w := do(t, newTestServer(Deps{}), http.MethodPost, "/v1/jobs/extract",
		`{"title": "Software Engineering Intern", "description": "<p>Python is required for this role.</p>"}`)

	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[map[string]any](t, w)
	assert.Contains(t, profile["required_skills"], "python")
}

func TestAnalyzeResume_MalformedSectionsDegrade(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	h := New(Config{}, Deps{UserID: defaultUser}, zap.New(core)).Handler()

	w := do(t, h, http.MethodPost, "/v1/resume/analyze", `{
		"skills": null,
		"education": [{"degree": "BSc", "years": 2022}],
		"projects": ["Portfolio site", {"name": "Tracker", "technologies": {"lang": "go"}}],
		"professional_experience": [{"duration": "2020/01 - 2023/06", "achievements": {"k": "v"}}]
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	profile := decode[types.ResumeProfile](t, w)
	assert.Zero(t, profile.Skills.Len())
	assert.Equal(t, types.Bachelor, profile.EducationLevel)
	assert.Equal(t, 2, profile.RelevantProjects)
	assert.Equal(t, types.MidLevel, profile.ExperienceLevel)
	assert.Equal(t, 1, logs.FilterMessage("resume does not match the schema, decoding leniently").Len())
}

func TestScore(t *testing.T) {
	h := newTestServer(Deps{})
	job := `{"title": "Software Engineering Intern", "company": "Acme", "description": "Python is required. React is a plus."}`

	w := do(t, h, http.MethodPost, "/v1/score", `{"resume": `+resumeJSON+`, "job": `+job+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	scored := decode[types.ScoredPosting](t, w)
	assert.Greater(t, scored.Compatibility.OverallCompatibility, 0.0)
	assert.LessOrEqual(t, scored.Compatibility.OverallCompatibility, 100.0)
	assert.NotEmpty(t, scored.MatchCategory)
	assert.Equal(t, "Acme", scored.Posting.Company)

	w = do(t, h, http.MethodPost, "/v1/score",
		`{"resume": `+resumeJSON+`, "job": `+job+`, "market": {"competition_level": "high", "application_timing": "late"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	hard := decode[types.ScoredPosting](t, w)
	assert.Equal(t, types.CompetitionHigh, hard.CompetitionLevel)
	assert.LessOrEqual(t, hard.Acceptance.AcceptanceProbability, scored.Acceptance.AcceptanceProbability)
}

func TestScore_BadInput(t *testing.T) {
	h := newTestServer(Deps{})
	job := `{"title": "Intern", "description": "Go"}`

	tests := []struct {
		name string
		body string
	}{
		{"missing resume", `{"job": ` + job + `}`},
		{"missing job", `{"resume": ` + resumeJSON + `}`},
		{"unknown competition", `{"resume": ` + resumeJSON + `, "job": ` + job + `, "market": {"competition_level": "extreme"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/v1/score", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestQueries(t *testing.T) {
	w := do(t, newTestServer(Deps{}), http.MethodPost, "/v1/search/queries", resumeJSON)

	require.Equal(t, http.StatusOK, w.Code)
	specs := decode[[]types.SearchSpec](t, w)
	require.NotEmpty(t, specs)
	assert.LessOrEqual(t, len(specs), 5)
	assert.Equal(t, "python developer intern", specs[0].Query)
}

func TestSearch(t *testing.T) {
	searcher := &fakeSearcher{}
	h := newTestServer(Deps{Searcher: searcher})

	w := do(t, h, http.MethodPost, "/v1/search",
		`{"resume": `+resumeJSON+`, "queries": [{"query_text": "go intern", "location": "Berlin"}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, defaultUser, searcher.userID)
	assert.Equal(t, []types.SearchSpec{{Query: "go intern", Location: "Berlin"}}, searcher.specs)
	assert.Equal(t, 2, decode[search.Result](t, w).Save.Saved)

	other := uuid.New()
	w = do(t, h, http.MethodPost, "/v1/search", `{"resume": `+resumeJSON+`}`, UserHeader, other.String())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, other, searcher.userID)
	assert.Equal(t, "python developer intern", searcher.specs[0].Query, "queries are generated when none are given")
}

func TestSearch_Errors(t *testing.T) {
	w := do(t, newTestServer(Deps{}), http.MethodPost, "/v1/search", `{"resume": `+resumeJSON+`}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	h := newTestServer(Deps{Searcher: &fakeSearcher{}})
	w = do(t, h, http.MethodPost, "/v1/search", `{"resume": `+resumeJSON+`, "queries": [{"location": "x"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/v1/search", `{"resume": `+resumeJSON+`}`, UserHeader, "alice")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	h = newTestServer(Deps{Searcher: &fakeSearcher{err: errors.New("connection reset")}})
	w = do(t, h, http.MethodPost, "/v1/search", `{"resume": `+resumeJSON+`}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal error", decode[map[string]string](t, w)["error"])
}

func TestInternships_Lifecycle(t *testing.T) {
	mine := types.Internship{ID: uuid.New(), UserID: defaultUser, JobTitle: "Go Intern", Status: types.StatusNew}
	theirs := types.Internship{ID: uuid.New(), UserID: uuid.New(), JobTitle: "Rust Intern", Status: types.StatusNew}
	store := newFakeStore(mine, theirs)
	h := newTestServer(Deps{Store: store})

	w := do(t, h, http.MethodGet, "/v1/internships", "")
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[struct {
		Internships []types.Internship `json:"internships"`
		Count       int                `json:"count"`
	}](t, w)
	assert.Equal(t, 1, listed.Count)
	assert.Equal(t, "Go Intern", listed.Internships[0].JobTitle)

	w = do(t, h, http.MethodGet, "/v1/internships/"+mine.ID.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, h, http.MethodGet, "/v1/internships/"+theirs.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPatch, "/v1/internships/"+mine.ID.String()+"/status", `{"status": "applied"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, types.StatusApplied, store.items[mine.ID].Status)

	w = do(t, h, http.MethodDelete, "/v1/internships/"+mine.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, http.MethodDelete, "/v1/internships/"+mine.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInternships_Empty(t *testing.T) {
	w := do(t, newTestServer(Deps{Store: newFakeStore()}), http.MethodGet, "/v1/internships", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"internships": [], "count": 0}`, w.Body.String())
}

func TestUpdateStatus_Errors(t *testing.T) {
	in := types.Internship{ID: uuid.New(), UserID: defaultUser, Status: types.StatusNew}
	store := newFakeStore(in)
	h := newTestServer(Deps{Store: store})
	path := "/v1/internships/" + in.ID.String() + "/status"

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown status", path, `{"status": "ghosted"}`, http.StatusBadRequest},
		{"missing status", path, `{}`, http.StatusBadRequest},
		{"bad id", "/v1/internships/not-a-uuid/status", `{"status": "applied"}`, http.StatusBadRequest},
		{"unknown id", "/v1/internships/" + uuid.NewString() + "/status", `{"status": "applied"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPatch, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
	assert.Equal(t, types.StatusNew, store.items[in.ID].Status, "rejected updates leave the record untouched")
}

func TestInternships_NoStore(t *testing.T) {
	w := do(t, newTestServer(Deps{}), http.MethodGet, "/v1/internships", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "storage is not configured", decode[map[string]string](t, w)["error"])
}

func TestInternships_StoreError(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("connection refused")
	w := do(t, newTestServer(Deps{Store: store}), http.MethodGet, "/v1/internships", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDraft(t *testing.T) {
	drafter := &fakeDrafter{}
	h := newTestServer(Deps{Drafter: drafter})
	body := `{"resume": ` + resumeJSON + `, "posting": {"title": "Go Intern", "company": "Acme", "description": "<b>Build</b> APIs"}, "additional": "Available from June"}`

	w := do(t, h, http.MethodPost, "/v1/content/cover-letter", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	draft := decode[content.Draft](t, w)
	assert.Equal(t, content.KindCoverLetter, draft.Kind)
	assert.True(t, draft.UsedFallback)
	assert.Equal(t, "Build APIs", drafter.req.Posting.Description)
	assert.Equal(t, "Available from June", drafter.req.Additional)
	assert.Equal(t, "Sam Lee", drafter.req.Resume.PersonalInformation.Name)

	w = do(t, h, http.MethodPost, "/v1/content/email", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, content.KindEmail, drafter.kind)
}

func TestDraft_Errors(t *testing.T) {
	h := newTestServer(Deps{Drafter: &fakeDrafter{}})

	w := do(t, h, http.MethodPost, "/v1/content/memo", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/v1/content/email", `{"resume": `+resumeJSON+`, "posting": {"title": "Go Intern"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, newTestServer(Deps{}), http.MethodPost, "/v1/content/email", `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestBodyLimit(t *testing.T) {
	big := `{"skills": ["` + strings.Repeat("a", maxBodyBytes) + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/resume/analyze", bytes.NewBufferString(big))
	w := httptest.NewRecorder()
	newTestServer(Deps{}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := ratelimit.NewConfig(true, 1000, nil, nil)
	cfg.CleanupInterval = 0
	srv := New(Config{RateLimit: cfg}, Deps{UserID: defaultUser, Searcher: &fakeSearcher{}}, nil)
	h := srv.Handler()
	defer srv.stopLimiter()

	body := `{"resume": ` + resumeJSON + `, "queries": [{"query_text": "go intern"}]}`
	for i := 0; i < 2; i++ {
		w := do(t, h, http.MethodPost, "/v1/search", body)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	}

	w := do(t, h, http.MethodPost, "/v1/search", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode[map[string]any](t, w)["error"])

	w = do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStart_StopsOnCancel(t *testing.T) {
	srv := New(Config{Port: 0}, Deps{}, nil)
	srv.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()
	cancel()

	assert.NoError(t, <-done)
}
