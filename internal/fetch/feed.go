package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/jonathan/internship-assistant/internal/types"
)

// FeedSource searches an HTTP endpoint that returns postings as JSON.
// The query is sent as q, location as location and the limit as limit.
type FeedSource struct {
	endpoint string
	client   *http.Client
	opts     *Options
	logger   *zap.Logger
}

// NewFeedSource creates a FeedSource for endpoint.
func NewFeedSource(endpoint string, opts *Options, logger *zap.Logger) *FeedSource {
	if opts == nil {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedSource{
		endpoint: endpoint,
		client:   &http.Client{Timeout: opts.Timeout},
		opts:     opts,
		logger:   logger,
	}
}

// Search fetches postings for query. An empty location searches globally.
func (s *FeedSource) Search(ctx context.Context, query, location string, maxResults int) ([]types.RawPosting, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, &Error{URL: s.endpoint, Message: "invalid feed endpoint", Cause: err}
	}
	params := u.Query()
	params.Set("q", query)
	if location != "" {
		params.Set("location", location)
	}
	if maxResults > 0 {
		params.Set("limit", strconv.Itoa(maxResults))
	}
	u.RawQuery = params.Encode()

	body, err := Get(ctx, s.client, u.String(), s.opts)
	if err != nil {
		return nil, err
	}

	entries, err := decodePostings(body)
	if err != nil {
		return nil, &Error{URL: u.String(), Message: "invalid feed payload", Cause: err}
	}
	postings := normalize(entries, maxResults)

	s.logger.Debug("feed search complete",
		zap.String("query", query),
		zap.String("location", location),
		zap.Int("postings", len(postings)))
	return postings, nil
}

// String identifies the source in logs.
func (s *FeedSource) String() string {
	return fmt.Sprintf("feed(%s)", s.endpoint)
}
