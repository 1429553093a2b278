package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/internship-assistant/internal/fetch"
	"github.com/jonathan/internship-assistant/internal/ingestion"
	"github.com/jonathan/internship-assistant/internal/logger"
	"github.com/jonathan/internship-assistant/internal/types"
)

var (
	jobFile    string
	jobURL     string
	jobTitle   string
	jobCompany string
	useBrowser bool
)

// postingFlags registers the flags that describe one job posting.
func postingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&jobFile, "in", "i", "", "Path to job description text file, or - for stdin")
	cmd.Flags().StringVarP(&jobURL, "url", "u", "", "Fetch the job posting from this URL")
	cmd.Flags().StringVarP(&jobTitle, "title", "t", "", "Job title (overrides the title found at --url)")
	cmd.Flags().StringVar(&jobCompany, "company", "", "Company name (overrides the company found at --url)")
	cmd.Flags().BoolVar(&useBrowser, "use-browser", false, "Render thin pages in headless Chrome (with --url)")
	cmd.MarkFlagsMutuallyExclusive("in", "url")
}

// loadPosting builds the posting from --url or --in; explicit --title and --company win.
func loadPosting(ctx context.Context) (types.RawPosting, error) {
	var posting types.RawPosting
	switch {
	case jobURL != "":
		loaded, err := ingestion.FromURL(ctx, jobURL, ingestion.Options{
			UseBrowser: useBrowser,
			ChromePath: cfg.Rendering.ChromePath,
			Logger:     logger.Component(log, "ingestion"),
		})
		if err != nil {
			return types.RawPosting{}, err
		}
		log.Info("posting loaded",
			zap.String("url", jobURL),
			zap.String("site", string(loaded.Metadata.Site)),
			zap.String("quality", loaded.Metadata.Quality.Label),
			zap.Bool("rendered", loaded.Metadata.Rendered))
		posting = loaded.Posting
	case jobFile != "":
		text, err := readText(jobFile)
		if err != nil {
			return types.RawPosting{}, err
		}
		posting.Description = fetch.CleanDescription(text)
	}

	if jobTitle != "" {
		posting.Title = jobTitle
	}
	if jobCompany != "" {
		posting.Company = jobCompany
	}
	return posting, nil
}
