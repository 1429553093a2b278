package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/internship-assistant/internal/content"
	"github.com/jonathan/internship-assistant/internal/logger"
	"github.com/jonathan/internship-assistant/internal/objectstore"
	"github.com/jonathan/internship-assistant/internal/rendering"
	"github.com/jonathan/internship-assistant/internal/types"
)

var draftCmd = &cobra.Command{
	Use:       "draft <email|cover-letter>",
	Short:     "Draft an application email or cover letter for a posting",
	Long:      "Draft an application email or cover letter with the configured LLM. Without an API key, or when generation fails, a template built from the resume is used instead.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"email", "cover-letter"},
	RunE:      runDraft,
}

var (
	draftAdditional string
	draftPDF        string
	draftUpload     bool
)

func init() {
	draftCmd.Flags().StringVarP(&resumeFile, "resume", "r", "", "Path to resume JSON file")
	postingFlags(draftCmd)
	draftCmd.Flags().StringVar(&draftAdditional, "additional", "", "Extra instructions for the draft")
	draftCmd.Flags().StringVar(&draftPDF, "pdf", "", "Also render the draft to this PDF file (requires Chrome)")
	draftCmd.Flags().BoolVar(&draftUpload, "upload", false, "Upload the rendered PDF to the configured object store")
	_ = draftCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(draftCmd)
}

func runDraft(_ *cobra.Command, args []string) error {
	kind, ok := content.ParseKind(args[0])
	if !ok {
		return fmt.Errorf("unknown draft kind %q (want email or cover-letter)", args[0])
	}
	if draftUpload && draftPDF == "" {
		return fmt.Errorf("--upload requires --pdf")
	}
	ctx := context.Background()

	record, err := readResume(resumeFile)
	if err != nil {
		return err
	}
	posting, err := loadPosting(ctx)
	if err != nil {
		return err
	}
	if posting.Title == "" || posting.Company == "" {
		return fmt.Errorf("job title and company are required (use --title and --company)")
	}

	client := textGenerator(ctx)
	if client != nil {
		defer func() { _ = client.Close() }()
	}
	draft := content.NewGenerator(client, logger.Component(log, "content")).Draft(ctx, kind, content.Request{
		Resume:     record,
		Posting:    posting,
		Additional: draftAdditional,
	})
	if draft.UsedFallback {
		log.Warn("used template draft", zap.String("reason", draft.FallbackReason))
	}
	_, _ = fmt.Fprintln(os.Stdout, draft.Text)

	if draftPDF == "" {
		return nil
	}
	return renderDraft(ctx, kind, record, posting, draft)
}

func renderDraft(ctx context.Context, kind content.Kind, record types.ResumeRecord, posting types.RawPosting, draft content.Draft) error {
	title := fmt.Sprintf("%s - %s", strings.ReplaceAll(string(kind), "_", " "), posting.Company)
	pdf, err := rendering.NewPDFRenderer(cfg.Rendering.ChromePath, logger.Component(log, "rendering")).Render(ctx, rendering.Document{
		Title:  title,
		Author: record.PersonalInformation.Name,
		Text:   draft.Text,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(draftPDF, pdf, 0644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	log.Info("PDF written", zap.String("path", draftPDF), zap.Int("bytes", len(pdf)))

	if !draftUpload {
		return nil
	}
	if cfg.ObjectStore.Bucket == "" {
		return fmt.Errorf("objectstore.bucket is not configured")
	}
	store, err := objectstore.New(ctx, objectstore.Config{
		Bucket:    cfg.ObjectStore.Bucket,
		Endpoint:  cfg.ObjectStore.Endpoint,
		Region:    cfg.ObjectStore.Region,
		AccessKey: cfg.ObjectStore.AccessKey,
		SecretKey: cfg.ObjectStore.SecretKey,
		Prefix:    cfg.ObjectStore.Prefix,
	}, logger.Component(log, "objectstore"))
	if err != nil {
		return err
	}
	key, err := store.Put(ctx, objectstore.DocumentKey(cfg.ResolvedUserID(), string(kind), posting.Company, time.Now()), pdf, "application/pdf")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Uploaded to s3://%s/%s\n", cfg.ObjectStore.Bucket, key)
	return nil
}
