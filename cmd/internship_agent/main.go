// Package main provides the internship_agent CLI: resume analysis, posting scoring,
// internship search and tracking, application drafting, and the REST and MCP servers.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/internship-assistant/internal/config"
	"github.com/jonathan/internship-assistant/internal/logger"
)

const version = "0.3.0"

var (
	cfgFile string
	v       = viper.New()

	// cfg and log are set by the root command before any subcommand runs.
	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:     "internship_agent",
	Short:   "Find, score and track internships against your resume",
	Long:    "internship_agent analyzes a structured resume, scores job postings against it, searches posting feeds, keeps a tracker of saved internships and drafts application emails and cover letters.",
	Version: version,
	// Errors are printed once by main.
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is internship-agent.yaml in the current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("user", "", "user id owning saved internships (default: the local user)")

	mustBind("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
	mustBind("log.json", rootCmd.PersistentFlags().Lookup("json"))
	mustBind("user_id", rootCmd.PersistentFlags().Lookup("user"))
}

func mustBind(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind flag %s: %v", flag.Name, err))
	}
}

func setup(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	l, err := logger.New(loaded.Log.JSON, loaded.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	cfg, log = loaded, l
	log.Debug("configuration loaded", zap.Any("config", cfg.Redacted()))
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	err := rootCmd.Execute()
	_ = log.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
