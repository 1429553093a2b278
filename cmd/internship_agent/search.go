package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/internship-assistant/internal/logger"
	"github.com/jonathan/internship-assistant/internal/observability"
	"github.com/jonathan/internship-assistant/internal/parsing"
	"github.com/jonathan/internship-assistant/internal/search"
	"github.com/jonathan/internship-assistant/internal/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search posting feeds, score every posting and save the matches",
	Long: `Run each search query against the configured posting source, score every posting
against the resume, rank the results and (with search.auto_save) save new postings
to the internship tracker.

Queries are read from --queries; without it they are generated from the resume.`,
	RunE: runSearch,
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Repeat the search on an interval and notify about new high matches",
	Long:  "Rerun the search every search.monitor_interval until interrupted. Newly saved high matches are published to RabbitMQ when notify.amqp_url is set and logged otherwise.",
	RunE:  runMonitor,
}

var (
	queriesFile string
	noSave      bool
)

func init() {
	for _, cmd := range []*cobra.Command{searchCmd, monitorCmd} {
		cmd.Flags().StringVarP(&resumeFile, "resume", "r", "", "Path to resume JSON file")
		cmd.Flags().StringVarP(&queriesFile, "queries", "q", "", "Path to search specs JSON file (generated from the resume when omitted)")
		_ = cmd.MarkFlagRequired("resume")
	}
	searchCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Write the JSON result to this file")
	searchCmd.Flags().BoolVar(&reportMode, "report", false, "Print a human-readable report instead of JSON")
	searchCmd.Flags().BoolVar(&noSave, "no-save", false, "Score only, do not save postings")

	rootCmd.AddCommand(searchCmd, monitorCmd)
}

// searchInputs loads the resume profile and the specs to run.
func searchInputs() (types.ResumeProfile, []types.SearchSpec, error) {
	record, err := readResume(resumeFile)
	if err != nil {
		return types.ResumeProfile{}, nil, err
	}
	profile := parsing.AnalyzeResume(record)
	specs, err := readSpecs(queriesFile)
	if err != nil {
		return types.ResumeProfile{}, nil, err
	}
	if len(specs) == 0 {
		specs = search.GenerateQueries(profile)
		log.Info("generated search queries", zap.Int("count", len(specs)))
	}
	return profile, specs, nil
}

func runSearch(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profile, specs, err := searchInputs()
	if err != nil {
		return err
	}
	source, err := postingSource()
	if err != nil {
		return err
	}

	var store search.Store
	if !noSave && cfg.Search.AutoSave {
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	result, err := orchestrator(source, store).Run(ctx, cfg.ResolvedUserID(), profile, specs)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if reportMode {
		observability.NewPrinter(os.Stdout).PrintSearchResult(result)
		return nil
	}
	return writeJSON(outputFile, result)
}

func runMonitor(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profile, specs, err := searchInputs()
	if err != nil {
		return err
	}
	source, err := postingSource()
	if err != nil {
		return err
	}
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	n, closeNotifier, err := notifier()
	if err != nil {
		return err
	}
	defer closeNotifier()

	printer := observability.NewPrinter(os.Stdout)
	monitor := search.NewMonitor(orchestrator(source, store), n, logger.Component(log, "monitor"), search.MonitorOptions{
		Interval:               cfg.Search.MonitorInterval,
		MaxConsecutiveFailures: cfg.Search.MaxFailures,
		OnBatch: func(batch int, result *search.Result) {
			_, _ = fmt.Fprintf(os.Stdout, "\nBatch %d\n", batch)
			printer.PrintSearchResult(result)
		},
	})

	log.Info("monitor started",
		zap.Duration("interval", cfg.Search.MonitorInterval),
		zap.Int("queries", len(specs)))
	if err := monitor.Run(ctx, cfg.ResolvedUserID(), profile, specs); err != nil {
		return err
	}
	log.Info("monitor stopped")
	return nil
}
