package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/internship-assistant/internal/db"
	"github.com/jonathan/internship-assistant/internal/types"
)

type fakeSource struct {
	mu       sync.Mutex
	postings map[string][]types.RawPosting
	errs     map[string]error
	calls    []string
}

func (f *fakeSource) Search(_ context.Context, query, _ string, _ int) ([]types.RawPosting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, query)
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.postings[query], nil
}

type fakeStore struct {
	mu        sync.Mutex
	rows      []types.Internship
	failLinks map[string]bool
}

func (s *fakeStore) InternshipExists(_ context.Context, userID uuid.UUID, link, title, company string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.UserID == userID && (r.ApplicationLink == link || (r.JobTitle == title && r.CompanyName == company)) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) InsertInternship(_ context.Context, in *types.Internship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failLinks[in.ApplicationLink] {
		return errors.New("connection reset")
	}
	for _, r := range s.rows {
		if r.UserID == in.UserID && r.ApplicationLink == in.ApplicationLink {
			return db.ErrDuplicate
		}
	}
	in.ID = uuid.New()
	s.rows = append(s.rows, *in)
	return nil
}

func posting(title, company, link, description string) types.RawPosting {
	return types.RawPosting{
		Title:           title,
		Company:         company,
		ApplicationLink: link,
		Description:     description,
		SourceSite:      "test",
	}
}

func pythonResume() types.ResumeProfile {
	p := types.NewResumeProfile()
	p.Skills.Add("python")
	p.ProgrammingLanguages.Add("python")
	p.TechnicalCategories.Add(types.CategoryProgrammingLanguages)
	return p
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Delay = 0
	return opts
}

var (
	strongPosting = posting("Software Intern", "Acme", "https://jobs.test/1", "Python is required for this role.")
	weakPosting   = posting("Senior Rust Engineer", "Globex", "https://jobs.test/2",
		"Rust and Kubernetes are required. Must have a Master degree and 7 years of experience.")
	otherPosting = posting("Data Intern", "Initech", "https://jobs.test/3", "Help our analysts.")
)

func TestRun_ContinuesAfterFailedQuery(t *testing.T) {
	source := &fakeSource{
		postings: map[string][]types.RawPosting{
			"first":  {strongPosting},
			"second": {otherPosting},
		},
		errs: map[string]error{"broken": errors.New("upstream 503")},
	}
	orch := New(source, nil, nil, testOptions())

	res, err := orch.Run(context.Background(), uuid.New(), pythonResume(), []types.SearchSpec{
		{Query: "first"}, {Query: "broken"}, {Query: "second"},
	})
	require.NoError(t, err)

	assert.Len(t, source.calls, 3)
	assert.Len(t, res.Postings, 2)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "broken", res.Errors[0].Query)
	assert.Contains(t, res.Errors[0].Message, "upstream 503")
	assert.Equal(t, 2, res.Summary.TotalFound)
}

func TestRun_RanksByPriority(t *testing.T) {
	source := &fakeSource{postings: map[string][]types.RawPosting{
		"q": {weakPosting, strongPosting},
	}}
	orch := New(source, nil, nil, testOptions())

	res, err := orch.Run(context.Background(), uuid.Nil, pythonResume(), []types.SearchSpec{{Query: "q"}})
	require.NoError(t, err)

	require.Len(t, res.Postings, 2)
	assert.Equal(t, "Software Intern", res.Postings[0].Posting.Title)
	assert.GreaterOrEqual(t, res.Postings[0].RecommendationPriority, res.Postings[1].RecommendationPriority)
	assert.Equal(t, "q", res.Postings[0].Query)
	assert.Equal(t, types.HighMatch, res.Postings[0].MatchCategory)
	assert.Contains(t, res.Postings[0].Requirements.RequiredSkills.Sorted(), "python")
}

func TestRun_SavesAndSkipsDuplicates(t *testing.T) {
	userID := uuid.New()
	store := &fakeStore{}
	require.NoError(t, store.InsertInternship(context.Background(), &types.Internship{
		UserID: userID, ApplicationLink: otherPosting.ApplicationLink,
	}))

	source := &fakeSource{postings: map[string][]types.RawPosting{
		"a": {strongPosting, otherPosting},
		"b": {strongPosting, weakPosting},
	}}
	orch := New(source, store, nil, testOptions())

	res, err := orch.Run(context.Background(), userID, pythonResume(), []types.SearchSpec{{Query: "a"}, {Query: "b"}})
	require.NoError(t, err)

	assert.Equal(t, SaveReport{Saved: 2, Duplicates: 2, Failed: 0}, res.Save)
	assert.Len(t, store.rows, 3)
	require.Len(t, res.NewlySaved, 2)
	for _, row := range store.rows[1:] {
		assert.Equal(t, types.StatusNew, row.Status)
		assert.Equal(t, userID, row.UserID)
	}
}

func TestRun_SaveFailureDoesNotAbort(t *testing.T) {
	store := &fakeStore{failLinks: map[string]bool{strongPosting.ApplicationLink: true}}
	source := &fakeSource{postings: map[string][]types.RawPosting{
		"q": {strongPosting, weakPosting, otherPosting},
	}}
	orch := New(source, store, nil, testOptions())

	res, err := orch.Run(context.Background(), uuid.New(), pythonResume(), []types.SearchSpec{{Query: "q"}})
	require.NoError(t, err)

	assert.Equal(t, SaveReport{Saved: 2, Failed: 1}, res.Save)
}

func TestRun_AutoSaveDisabled(t *testing.T) {
	store := &fakeStore{}
	source := &fakeSource{postings: map[string][]types.RawPosting{"q": {strongPosting}}}
	opts := testOptions()
	opts.AutoSave = false

	res, err := New(source, store, nil, opts).Run(context.Background(), uuid.New(), pythonResume(), []types.SearchSpec{{Query: "q"}})
	require.NoError(t, err)

	assert.Empty(t, store.rows)
	assert.Zero(t, res.Save.Saved)
}

func TestRun_TruncatesToMaxResults(t *testing.T) {
	source := &fakeSource{postings: map[string][]types.RawPosting{
		"q": {strongPosting, weakPosting, otherPosting},
	}}
	opts := testOptions()
	opts.MaxResults = 2

	res, err := New(source, nil, nil, opts).Run(context.Background(), uuid.Nil, pythonResume(), []types.SearchSpec{{Query: "q"}})
	require.NoError(t, err)
	assert.Len(t, res.Postings, 2)
}

func TestRun_InvalidSpecIsReported(t *testing.T) {
	source := &fakeSource{}

	res, err := New(source, nil, nil, testOptions()).Run(context.Background(), uuid.Nil, pythonResume(), []types.SearchSpec{{Query: ""}})
	require.NoError(t, err)

	assert.Empty(t, source.calls)
	require.Len(t, res.Errors, 1)
	assert.Empty(t, res.Postings)
}

func TestRun_NoSpecs(t *testing.T) {
	_, err := New(&fakeSource{}, nil, nil, testOptions()).Run(context.Background(), uuid.Nil, pythonResume(), nil)
	assert.ErrorIs(t, err, ErrNoQueries)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := testOptions()
	opts.Delay = time.Hour

	_, err := New(&fakeSource{}, nil, nil, opts).Run(ctx, uuid.Nil, pythonResume(), []types.SearchSpec{{Query: "a"}, {Query: "b"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEstimateCompetition(t *testing.T) {
	tests := []struct {
		name    string
		posting types.RawPosting
		want    types.CompetitionLevel
	}{
		{"big tech senior", posting("Senior Engineer", "Google", "", "Lead our platform."), types.CompetitionHigh},
		{"startup intern", posting("Junior Intern", "Tiny Startup", "", "Entry role."), types.CompetitionLow},
		{"nothing", posting("Analyst", "Initech", "", "Spreadsheets."), types.CompetitionMedium},
		{"tie", posting("Intern", "Google", "", ""), types.CompetitionMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateCompetition(tt.posting))
		})
	}
}

func TestScorePostingInMarket(t *testing.T) {
	resume := types.NewResumeProfile()
	resume.Skills = types.NewSet("python")
	p := posting("Junior Intern", "Tiny Startup", "", "Python is required.")

	base := ScorePosting(resume, "q", p)
	assert.Equal(t, types.CompetitionLow, base.CompetitionLevel)
	assert.Equal(t, base, ScorePostingInMarket(resume, "q", p, types.MarketContext{}))

	late := ScorePostingInMarket(resume, "q", p, types.MarketContext{ApplicationTiming: types.TimingLate})
	assert.Equal(t, types.CompetitionLow, late.CompetitionLevel, "competition is still estimated")
	assert.LessOrEqual(t, late.Acceptance.AcceptanceProbability, base.Acceptance.AcceptanceProbability)

	hard := ScorePostingInMarket(resume, "q", p, types.MarketContext{CompetitionLevel: types.CompetitionHigh})
	assert.Equal(t, types.CompetitionHigh, hard.CompetitionLevel)
	assert.Equal(t, base.Compatibility, hard.Compatibility)
	assert.LessOrEqual(t, hard.Acceptance.AcceptanceProbability, base.Acceptance.AcceptanceProbability)
}
