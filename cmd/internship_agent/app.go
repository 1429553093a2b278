package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/jonathan/internship-assistant/internal/db"
	"github.com/jonathan/internship-assistant/internal/fetch"
	"github.com/jonathan/internship-assistant/internal/llm"
	"github.com/jonathan/internship-assistant/internal/logger"
	"github.com/jonathan/internship-assistant/internal/notify"
	"github.com/jonathan/internship-assistant/internal/schemas"
	"github.com/jonathan/internship-assistant/internal/search"
	"github.com/jonathan/internship-assistant/internal/types"
)

// openStore connects to the configured internship store.
func openStore(ctx context.Context) (db.InternshipStore, error) {
	store, err := db.Open(ctx, cfg.StorageDriver(), cfg.StorageDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StorageDriver(), err)
	}
	log.Debug("store opened", zap.String("driver", cfg.StorageDriver()))
	return store, nil
}

// postingSource picks the HTTP feed when one is configured, else the local postings file.
func postingSource() (search.PostingSource, error) {
	switch {
	case cfg.Search.FeedURL != "":
		return fetch.NewFeedSource(cfg.Search.FeedURL, fetch.DefaultOptions(), logger.Component(log, "fetch")), nil
	case cfg.Search.FeedFile != "":
		return fetch.NewFileSource(cfg.Search.FeedFile), nil
	default:
		return nil, fmt.Errorf("no posting source configured: set search.feed_url or search.feed_file")
	}
}

func orchestrator(source search.PostingSource, store search.Store) *search.Orchestrator {
	return search.New(source, store, logger.Component(log, "search"), search.Options{
		Concurrency: cfg.Search.Concurrency,
		Delay:       cfg.Search.Delay,
		MaxResults:  cfg.Search.MaxResults,
		AutoSave:    cfg.Search.AutoSave && store != nil,
	})
}

// notifier publishes to RabbitMQ when an AMQP URL is set and only logs otherwise.
// The returned close func is never nil.
func notifier() (search.Notifier, func(), error) {
	l := logger.Component(log, "notify")
	if cfg.Notify.AMQPURL == "" {
		return notify.NewLogNotifier(l), func() {}, nil
	}
	pub, err := notify.Dial(cfg.Notify.AMQPURL, cfg.Notify.Exchange, l)
	if err != nil {
		return nil, nil, err
	}
	return pub, func() { _ = pub.Close() }, nil
}

// textGenerator returns nil without an API key; drafts then use the fallback templates.
func textGenerator(ctx context.Context) llm.Client {
	if cfg.LLM.APIKey == "" {
		log.Info("no LLM API key configured, drafts will use templates")
		return nil
	}
	provider, err := llm.ParseProvider(cfg.LLM.Provider)
	if err != nil {
		log.Warn("invalid llm provider", zap.Error(err))
		return nil
	}
	client, err := llm.NewClient(ctx, &llm.Config{
		Provider:    provider,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
	}, cfg.LLM.APIKey)
	if err != nil {
		log.Warn("failed to create llm client, drafts will use templates", zap.Error(err))
		return nil
	}
	return client
}

// readResume loads a resume record file. Fields that do not match the schema are reported
// and decoded as absent.
func readResume(path string) (types.ResumeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ResumeRecord{}, fmt.Errorf("failed to read resume file: %w", err)
	}
	if err := schemas.ValidateResumeRecord(data); err != nil {
		log.Warn("resume does not match the schema, decoding leniently", zap.String("path", path), zap.Error(err))
	}
	record, err := types.ParseResumeRecord(data)
	if err != nil {
		return types.ResumeRecord{}, fmt.Errorf("resume %s: %w", path, err)
	}
	return record, nil
}

// readSpecs loads a search specs file, or returns nil for an empty path.
func readSpecs(path string) ([]types.SearchSpec, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read queries file: %w", err)
	}
	if err := schemas.ValidateSearchSpecs(data); err != nil {
		return nil, fmt.Errorf("queries %s: %w", path, err)
	}
	var specs []types.SearchSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("failed to decode queries: %w", err)
	}
	return specs, nil
}

// readText returns the file contents, or stdin for "-".
func readText(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// writeJSON writes v indented to path, or to stdout when path is empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	if path == "" {
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	log.Info("output written", zap.String("path", path))
	return nil
}
