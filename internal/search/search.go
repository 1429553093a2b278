// Package search runs batches of posting queries through the scoring pipeline and persists the results.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/internship-assistant/internal/db"
	"github.com/jonathan/internship-assistant/internal/ranking"
	"github.com/jonathan/internship-assistant/internal/types"
)

// ErrNoQueries is returned when Run is called without search specs.
var ErrNoQueries = errors.New("no search queries given")

// PostingSource returns raw postings for a query. An empty location means a global search;
// zero matches is an empty slice, not an error.
type PostingSource interface {
	Search(ctx context.Context, query, location string, maxResults int) ([]types.RawPosting, error)
}

// Store is the persistence the orchestrator needs. Insert reports an existing posting
// with db.ErrDuplicate.
type Store interface {
	InternshipExists(ctx context.Context, userID uuid.UUID, link, title, company string) (bool, error)
	InsertInternship(ctx context.Context, in *types.Internship) error
}

// Options configures an Orchestrator.
type Options struct {
	// Concurrency is the number of queries in flight at once.
	Concurrency int
	// Delay is held after each query before its slot is released.
	Delay              time.Duration
	MaxResults         int
	AutoSave           bool
	TopRecommendations int
}

// DefaultOptions returns the orchestrator defaults.
func DefaultOptions() Options {
	return Options{
		Concurrency:        2,
		Delay:              2 * time.Second,
		MaxResults:         25,
		AutoSave:           true,
		TopRecommendations: ranking.DefaultTopRecommendations,
	}
}

// QueryError records a posting source failure for one search spec.
type QueryError struct {
	Query    string `json:"query"`
	Location string `json:"location,omitempty"`
	Err      error  `json:"-"`
	Message  string `json:"error"`
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q failed: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// SaveReport counts the persistence outcome of a run.
type SaveReport struct {
	Saved      int `json:"saved"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

// Result is the outcome of one orchestrator run.
type Result struct {
	Postings []types.ScoredPosting `json:"postings"`
	Summary  types.SearchSummary   `json:"summary"`
	Errors   []*QueryError         `json:"query_errors,omitempty"`
	Save     SaveReport            `json:"save"`
	// NewlySaved holds the postings inserted by this run, in ranked order.
	NewlySaved []types.ScoredPosting `json:"-"`
}

// Orchestrator fans search specs out to a posting source, scores every posting
// against one resume profile and saves the ranked results.
type Orchestrator struct {
	source PostingSource
	store  Store
	logger *zap.Logger
	opts   Options
}

// New creates an Orchestrator. A nil store disables persistence.
func New(source PostingSource, store Store, logger *zap.Logger, opts Options) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultOptions()
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaults.Concurrency
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaults.MaxResults
	}
	if opts.TopRecommendations <= 0 {
		opts.TopRecommendations = defaults.TopRecommendations
	}
	return &Orchestrator{source: source, store: store, logger: logger, opts: opts}
}

// Run executes every spec, scores and ranks the postings, and saves them for userID
// when AutoSave is on. A failing query or a failing save is recorded and the rest continue;
// only context cancellation aborts the run.
func (o *Orchestrator) Run(ctx context.Context, userID uuid.UUID, resume types.ResumeProfile, specs []types.SearchSpec) (*Result, error) {
	if len(specs) == 0 {
		return nil, ErrNoQueries
	}

	batches := make([][]types.ScoredPosting, len(specs))
	failures := make([]*QueryError, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Concurrency)
	for i, spec := range specs {
		g.Go(func() error {
			postings, err := o.query(gctx, spec)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				o.logger.Warn("search query failed",
					zap.String("query", spec.Query),
					zap.String("location", spec.Location),
					zap.Error(err))
				failures[i] = &QueryError{Query: spec.Query, Location: spec.Location, Err: err, Message: err.Error()}
			}
			scored := make([]types.ScoredPosting, 0, len(postings))
			for _, p := range postings {
				scored = append(scored, ScorePosting(resume, spec.Query, p))
			}
			batches[i] = scored

			if i < len(specs)-1 {
				return wait(gctx, o.opts.Delay)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search run cancelled: %w", err)
	}

	result := &Result{Postings: []types.ScoredPosting{}}
	for i := range specs {
		result.Postings = append(result.Postings, batches[i]...)
		if failures[i] != nil {
			result.Errors = append(result.Errors, failures[i])
		}
	}

	ranking.Rank(result.Postings)
	result.Summary = ranking.Summarize(result.Postings, o.opts.TopRecommendations)

	o.logger.Info("search run scored postings",
		zap.Int("queries", len(specs)),
		zap.Int("failed_queries", len(result.Errors)),
		zap.Int("postings", len(result.Postings)))

	if o.opts.AutoSave && o.store != nil && userID != uuid.Nil {
		o.save(ctx, userID, result)
	}
	return result, nil
}

func (o *Orchestrator) query(ctx context.Context, spec types.SearchSpec) ([]types.RawPosting, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search spec: %w", err)
	}
	postings, err := o.source.Search(ctx, spec.Query, spec.Location, o.opts.MaxResults)
	if err != nil {
		return nil, err
	}
	if len(postings) > o.opts.MaxResults {
		postings = postings[:o.opts.MaxResults]
	}
	return postings, nil
}

// save persists ranked postings one at a time so an earlier posting wins a duplicate race.
func (o *Orchestrator) save(ctx context.Context, userID uuid.UUID, result *Result) {
	for _, sp := range result.Postings {
		if ctx.Err() != nil {
			return
		}
		p := sp.Posting
		exists, err := o.store.InternshipExists(ctx, userID, p.ApplicationLink, p.Title, p.Company)
		if err != nil {
			o.saveFailed(result, p, err)
			continue
		}
		if exists {
			result.Save.Duplicates++
			continue
		}

		in := types.InternshipFromScored(userID, sp)
		if err := o.store.InsertInternship(ctx, &in); err != nil {
			if errors.Is(err, db.ErrDuplicate) {
				result.Save.Duplicates++
				continue
			}
			o.saveFailed(result, p, err)
			continue
		}
		result.Save.Saved++
		result.NewlySaved = append(result.NewlySaved, sp)
	}

	o.logger.Info("search results saved",
		zap.Stringer("user_id", userID),
		zap.Int("saved", result.Save.Saved),
		zap.Int("duplicates", result.Save.Duplicates),
		zap.Int("failed", result.Save.Failed))
}

func (o *Orchestrator) saveFailed(result *Result, p types.RawPosting, err error) {
	result.Save.Failed++
	o.logger.Warn("failed to save internship",
		zap.String("title", p.Title),
		zap.String("company", p.Company),
		zap.Error(err))
}
