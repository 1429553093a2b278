package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/internship-assistant/internal/types"
)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	published []published
	err       error
	closed    int
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, published{exchange, key, msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed++
	return nil
}

func match(title string, compat float64) types.ScoredPosting {
	return types.ScoredPosting{
		Posting: types.RawPosting{Title: title, Company: "Acme", ApplicationLink: "https://jobs.test/" + title, SourceSite: "lever"},
		Compatibility: types.CompatibilityScore{
			OverallCompatibility: compat,
		},
		Acceptance:             types.AcceptanceEstimate{AcceptanceProbability: 40},
		MatchCategory:          types.HighMatch,
		RecommendationPriority: 0.6*compat + 16,
	}
}

func testPublisher(ch *fakeChannel) *AMQPPublisher {
	p := newPublisher(func() (publisher, error) { return ch, nil }, DefaultExchange, nil)
	p.now = func() time.Time { return time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC) }
	return p
}

func TestNotifyMatches_Publishes(t *testing.T) {
	ch := &fakeChannel{}
	p := testPublisher(ch)
	userID := uuid.New()

	err := p.NotifyMatches(context.Background(), userID, []types.ScoredPosting{match("a", 91), match("b", 84)})
	require.NoError(t, err)

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, DefaultExchange, got.exchange)
	assert.Equal(t, "matches."+userID.String(), got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, 1, ch.closed)

	var msg Message
	require.NoError(t, json.Unmarshal(got.msg.Body, &msg))
	assert.Equal(t, userID, msg.UserID)
	assert.Equal(t, 2, msg.Count)
	assert.Equal(t, "a", msg.Matches[0].Title)
	assert.Equal(t, 91.0, msg.Matches[0].Compatibility)
	assert.Equal(t, types.HighMatch, msg.Matches[1].MatchCategory)
}

func TestNotifyMatches_NothingToSend(t *testing.T) {
	ch := &fakeChannel{}
	require.NoError(t, testPublisher(ch).NotifyMatches(context.Background(), uuid.New(), nil))
	assert.Empty(t, ch.published)
	assert.Zero(t, ch.closed)
}

func TestNotifyMatches_Errors(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	err := testPublisher(ch).NotifyMatches(context.Background(), uuid.New(), []types.ScoredPosting{match("a", 90)})
	assert.ErrorContains(t, err, "failed to publish notification: channel closed")
	assert.Equal(t, 1, ch.closed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = testPublisher(&fakeChannel{}).NotifyMatches(ctx, uuid.New(), []types.ScoredPosting{match("a", 90)})
	assert.ErrorIs(t, err, context.Canceled)

	failing := newPublisher(func() (publisher, error) { return nil, errors.New("no conn") }, DefaultExchange, nil)
	err = failing.NotifyMatches(context.Background(), uuid.New(), []types.ScoredPosting{match("a", 90)})
	assert.ErrorContains(t, err, "failed to open channel")
}

func TestBuildMessage_Empty(t *testing.T) {
	msg := BuildMessage(uuid.Nil, nil, time.Now())
	assert.Zero(t, msg.Count)
	assert.NotNil(t, msg.Matches)
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	require.NoError(t, n.NotifyMatches(context.Background(), uuid.New(), []types.ScoredPosting{match("a", 90), match("b", 85)}))

	entries := logs.FilterMessage("new high match").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ContextMap()["title"])
}
