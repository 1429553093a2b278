package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/internship-assistant/internal/content"
	"github.com/jonathan/internship-assistant/internal/db"
	"github.com/jonathan/internship-assistant/internal/logger"
	"github.com/jonathan/internship-assistant/internal/mcptools"
	"github.com/jonathan/internship-assistant/internal/server"
	"github.com/jonathan/internship-assistant/internal/server/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing resume analysis, scoring, search, drafting and the
internship tracker. Routes whose backing service is not configured answer 503.`,
	RunE: runServe,
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve posting scoring and the internship tracker as MCP tools over stdio",
	RunE:  runMCP,
}

func init() {
	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides server.port)")
	mustBind("server.port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd, mcpCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := server.Deps{UserID: cfg.ResolvedUserID()}

	var store db.InternshipStore
	if s, err := openStore(ctx); err != nil {
		log.Warn("internship store unavailable", zap.Error(err))
	} else {
		store = s
		defer store.Close()
		deps.Store = store
	}

	if source, err := postingSource(); err != nil {
		log.Warn("search unavailable", zap.Error(err))
	} else {
		deps.Searcher = orchestrator(source, store)
	}

	// Without a client every draft is rendered from the templates.
	client := textGenerator(ctx)
	if client != nil {
		defer func() { _ = client.Close() }()
	}
	deps.Drafter = content.NewGenerator(client, logger.Component(log, "content"))

	var limits *ratelimit.Config
	if rl := cfg.Server.RateLimit; rl.Enabled {
		limits = ratelimit.NewConfig(rl.Enabled, rl.PerMinute, rl.Whitelist, rl.Blacklist)
	}

	srv := server.New(server.Config{
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		RateLimit:    limits,
	}, deps, logger.Component(log, "server"))

	return srv.Start(ctx)
}

func runMCP(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	var store mcptools.Store
	if s, err := openStore(ctx); err != nil {
		log.Warn("internship store unavailable, only score_posting will work", zap.Error(err))
	} else {
		defer s.Close()
		store = s
	}

	s := mcptools.NewServer(mcptools.New(store, cfg.ResolvedUserID(), logger.Component(log, "mcp")), version)
	if err := mcptools.ServeStdio(s); err != nil {
		return fmt.Errorf("mcp server stopped: %w", err)
	}
	return nil
}
