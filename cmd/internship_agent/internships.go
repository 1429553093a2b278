package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/internship-assistant/internal/db"
	"github.com/jonathan/internship-assistant/internal/observability"
	"github.com/jonathan/internship-assistant/internal/types"
)

const (
	promptBack    = "Back"
	promptApplied = "Mark applied"
	promptReject  = "Mark rejected"
	promptNew     = "Mark new"
	promptDelete  = "Delete"
	promptOpen    = "Show link"
	promptDone    = "Done"
)

var errDone = errors.New("review finished")

var internshipsCmd = &cobra.Command{
	Use:     "internships",
	Aliases: []string{"tracker"},
	Short:   "Manage saved internships",
}

var internshipsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved internships, new first",
	Args:  cobra.NoArgs,
	RunE:  runInternshipsList,
}

var internshipsStatusCmd = &cobra.Command{
	Use:   "status <id> <new|applied|rejected>",
	Short: "Change the status of a saved internship",
	Args:  cobra.ExactArgs(2),
	RunE:  runInternshipsStatus,
}

var internshipsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved internship",
	Args:  cobra.ExactArgs(1),
	RunE:  runInternshipsDelete,
}

var internshipsReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Interactively walk through saved internships and update them",
	Args:  cobra.NoArgs,
	RunE:  runInternshipsReview,
}

var listJSON bool

func init() {
	internshipsListCmd.Flags().BoolVar(&listJSON, "json-output", false, "Print the list as JSON")

	internshipsCmd.AddCommand(internshipsListCmd, internshipsStatusCmd, internshipsDeleteCmd, internshipsReviewCmd)
	rootCmd.AddCommand(internshipsCmd)
}

func runInternshipsList(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := store.ListInternships(ctx, cfg.ResolvedUserID())
	if err != nil {
		return err
	}
	if listJSON {
		return writeJSON("", list)
	}
	observability.NewPrinter(os.Stdout).PrintInternships(list)
	return nil
}

func runInternshipsStatus(_ *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid internship id: %w", err)
	}
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	ok, err := store.UpdateInternshipStatus(ctx, cfg.ResolvedUserID(), id, args[1])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("internship %s: %w", id, db.ErrNotFound)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Internship %s marked %s\n", id, args[1])
	return nil
}

func runInternshipsDelete(_ *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid internship id: %w", err)
	}
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	ok, err := store.DeleteInternship(ctx, cfg.ResolvedUserID(), id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("internship %s: %w", id, db.ErrNotFound)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Internship %s deleted\n", id)
	return nil
}

func runInternshipsReview(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	userID := cfg.ResolvedUserID()

	for {
		list, err := store.ListInternships(ctx, userID)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			log.Info("no saved internships")
			return nil
		}

		items := make([]string, 0, len(list)+1)
		for _, in := range list {
			items = append(items, reviewLabel(in))
		}
		picker := promptui.Select{
			Label: "Choose an internship and press ENTER",
			Items: append(items, promptDone),
			Size:  10,
		}
		idx, selected, err := picker.Run()
		if err != nil {
			return promptErr(err)
		}
		if selected == promptDone {
			return nil
		}

		if err := reviewOne(ctx, store, userID, list[idx]); err != nil {
			if errors.Is(err, errDone) {
				return nil
			}
			return err
		}
	}
}

func reviewLabel(in types.Internship) string {
	return fmt.Sprintf("[%-8s] %5.1f%%  %s / %s", in.Status, in.CompatibilityScore, in.JobTitle, in.CompanyName)
}

func reviewOne(ctx context.Context, store db.InternshipStore, userID uuid.UUID, in types.Internship) error {
	action := promptui.Select{
		Label: fmt.Sprintf("%s at %s", in.JobTitle, in.CompanyName),
		Items: []string{promptApplied, promptReject, promptNew, promptOpen, promptDelete, promptBack, promptDone},
	}
	_, selected, err := action.Run()
	if err != nil {
		return promptErr(err)
	}

	switch selected {
	case promptBack:
		return nil
	case promptDone:
		return errDone
	case promptOpen:
		_, _ = fmt.Fprintln(os.Stdout, in.ApplicationLink)
		return nil
	case promptDelete:
		if _, err := store.DeleteInternship(ctx, userID, in.ID); err != nil {
			return err
		}
		log.Info("internship deleted", zap.String("id", in.ID.String()))
		return nil
	default:
		status := map[string]types.Status{
			promptApplied: types.StatusApplied,
			promptReject:  types.StatusRejected,
			promptNew:     types.StatusNew,
		}[selected]
		if _, err := store.UpdateInternshipStatus(ctx, userID, in.ID, string(status)); err != nil {
			return err
		}
		log.Info("internship updated", zap.String("id", in.ID.String()), zap.String("status", string(status)))
		return nil
	}
}

// promptErr turns Ctrl-C and Ctrl-D into a clean exit.
func promptErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return nil
	}
	return fmt.Errorf("prompt failed: %w", err)
}
