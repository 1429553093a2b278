package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/jonathan/internship-assistant/internal/observability"
	"github.com/jonathan/internship-assistant/internal/parsing"
	"github.com/jonathan/internship-assistant/internal/search"
	"github.com/jonathan/internship-assistant/internal/types"
)

var analyzeResumeCmd = &cobra.Command{
	Use:   "analyze-resume",
	Short: "Derive a skill, experience and education profile from a resume",
	Long:  "Analyze a structured resume JSON file into a ResumeProfile: categorized technical skills, experience level, total years, highest education and certifications.",
	RunE:  runAnalyzeResume,
}

var parseJobCmd = &cobra.Command{
	Use:   "parse-job",
	Short: "Extract structured requirements from a job description",
	Long:  "Extract required and preferred skills, experience level, minimum years and education requirements from a job description text file (or stdin with --in -).",
	RunE:  runParseJob,
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one job posting against a resume",
	Long:  "Compute compatibility, acceptance probability and improvement suggestions for a single posting.",
	RunE:  runScore,
}

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Generate search queries from a resume",
	RunE:  runQueries,
}

var (
	resumeFile  string
	outputFile  string
	reportMode  bool
	competition string
	timing      string
)

func init() {
	for _, cmd := range []*cobra.Command{analyzeResumeCmd, scoreCmd, queriesCmd} {
		cmd.Flags().StringVarP(&resumeFile, "resume", "r", "", "Path to resume JSON file")
		_ = cmd.MarkFlagRequired("resume")
	}
	for _, cmd := range []*cobra.Command{analyzeResumeCmd, parseJobCmd, scoreCmd, queriesCmd} {
		cmd.Flags().StringVarP(&outputFile, "out", "o", "", "Write JSON to this file instead of stdout")
	}
	for _, cmd := range []*cobra.Command{analyzeResumeCmd, parseJobCmd, scoreCmd} {
		cmd.Flags().BoolVar(&reportMode, "report", false, "Print a human-readable report instead of JSON")
	}
	for _, cmd := range []*cobra.Command{parseJobCmd, scoreCmd} {
		postingFlags(cmd)
		cmd.MarkFlagsOneRequired("in", "url")
	}
	scoreCmd.Flags().StringVar(&competition, "competition", "", "Competition level: low, medium or high (estimated from the posting when empty)")
	scoreCmd.Flags().StringVar(&timing, "timing", "", "Application timing: early, normal or late")

	rootCmd.AddCommand(analyzeResumeCmd, parseJobCmd, scoreCmd, queriesCmd)
}

func runAnalyzeResume(_ *cobra.Command, _ []string) error {
	record, err := readResume(resumeFile)
	if err != nil {
		return err
	}
	profile := parsing.AnalyzeResume(record)
	if reportMode {
		observability.NewPrinter(os.Stdout).PrintResumeProfile(profile)
		return nil
	}
	return writeJSON(outputFile, profile)
}

func runParseJob(_ *cobra.Command, _ []string) error {
	posting, err := loadPosting(context.Background())
	if err != nil {
		return err
	}
	req := parsing.ExtractJobRequirements(posting.Description, posting.Title)
	if reportMode {
		observability.NewPrinter(os.Stdout).PrintJobRequirements(req)
		return nil
	}
	return writeJSON(outputFile, req)
}

func runScore(_ *cobra.Command, _ []string) error {
	market := types.MarketContext{
		CompetitionLevel:  types.CompetitionLevel(competition),
		ApplicationTiming: types.ApplicationTiming(timing),
	}
	if err := validator.New().Struct(market); err != nil {
		return fmt.Errorf("invalid market context: %w", err)
	}

	record, err := readResume(resumeFile)
	if err != nil {
		return err
	}
	posting, err := loadPosting(context.Background())
	if err != nil {
		return err
	}
	scored := search.ScorePostingInMarket(parsing.AnalyzeResume(record), "", posting, market)
	if reportMode {
		p := observability.NewPrinter(os.Stdout)
		p.PrintCompatibility(scored.Compatibility)
		p.PrintEstimate(scored.Acceptance)
		return nil
	}
	return writeJSON(outputFile, scored)
}

func runQueries(_ *cobra.Command, _ []string) error {
	record, err := readResume(resumeFile)
	if err != nil {
		return err
	}
	return writeJSON(outputFile, search.GenerateQueries(parsing.AnalyzeResume(record)))
}
