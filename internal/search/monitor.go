package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/internship-assistant/internal/types"
)

// Notifier delivers newly saved high-match postings.
type Notifier interface {
	NotifyMatches(ctx context.Context, userID uuid.UUID, matches []types.ScoredPosting) error
}

// MonitorOptions configures a Monitor.
type MonitorOptions struct {
	Interval               time.Duration
	MaxConsecutiveFailures int
	// OnBatch, when set, receives every successful batch result.
	OnBatch func(batch int, result *Result)
}

// DefaultMonitorOptions returns the monitor defaults.
func DefaultMonitorOptions() MonitorOptions {
	return MonitorOptions{
		Interval:               15 * time.Minute,
		MaxConsecutiveFailures: 5,
	}
}

// Monitor reruns an orchestrator on a fixed interval.
type Monitor struct {
	orch     *Orchestrator
	notifier Notifier
	logger   *zap.Logger
	opts     MonitorOptions
}

// NewMonitor creates a Monitor. A nil notifier disables notifications.
func NewMonitor(orch *Orchestrator, notifier Notifier, logger *zap.Logger, opts MonitorOptions) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultMonitorOptions()
	if opts.Interval <= 0 {
		opts.Interval = defaults.Interval
	}
	if opts.MaxConsecutiveFailures <= 0 {
		opts.MaxConsecutiveFailures = defaults.MaxConsecutiveFailures
	}
	return &Monitor{orch: orch, notifier: notifier, logger: logger, opts: opts}
}

// Run searches, saves and notifies every interval until ctx is cancelled, which returns nil.
// A batch where every query fails counts as a failure; too many in a row stop the loop with an error.
func (m *Monitor) Run(ctx context.Context, userID uuid.UUID, resume types.ResumeProfile, specs []types.SearchSpec) error {
	if len(specs) == 0 {
		return ErrNoQueries
	}

	failures := 0
	for batch := 1; ; batch++ {
		result, err := m.orch.Run(ctx, userID, resume, specs)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil && len(result.Errors) == len(specs) {
			err = errors.Join(queryErrors(result.Errors)...)
		}

		if err != nil {
			failures++
			m.logger.Warn("monitor batch failed",
				zap.Int("batch", batch),
				zap.Int("consecutive_failures", failures),
				zap.Error(err))
			if failures >= m.opts.MaxConsecutiveFailures {
				return fmt.Errorf("monitor stopped after %d consecutive failures: %w", failures, err)
			}
		} else {
			failures = 0
			m.logger.Info("monitor batch complete",
				zap.Int("batch", batch),
				zap.Int("found", result.Summary.TotalFound),
				zap.Int("saved", result.Save.Saved))
			if m.opts.OnBatch != nil {
				m.opts.OnBatch(batch, result)
			}
			m.notify(ctx, userID, result)
		}

		if err := wait(ctx, m.opts.Interval); err != nil {
			return nil
		}
	}
}

func (m *Monitor) notify(ctx context.Context, userID uuid.UUID, result *Result) {
	if m.notifier == nil {
		return
	}
	var matches []types.ScoredPosting
	for _, sp := range result.NewlySaved {
		if sp.MatchCategory == types.HighMatch {
			matches = append(matches, sp)
		}
	}
	if len(matches) == 0 {
		return
	}
	if err := m.notifier.NotifyMatches(ctx, userID, matches); err != nil {
		m.logger.Warn("failed to send match notification", zap.Int("matches", len(matches)), zap.Error(err))
	}
}

func queryErrors(errs []*QueryError) []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}
