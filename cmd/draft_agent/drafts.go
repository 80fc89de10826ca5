package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/draft-assistant/internal/db"
	"github.com/jonathan/draft-assistant/internal/draftstore"
	"github.com/jonathan/draft-assistant/internal/observability"
	"github.com/jonathan/draft-assistant/internal/types"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Inspect and manage stored drafts",
}

var draftsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all drafts for a user",
	RunE:  runDraftsList,
}

var draftsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new empty draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftsCreate,
}

var draftsDeleteCmd = &cobra.Command{
	Use:   "delete <draft-id>",
	Short: "Delete a draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftsDelete,
}

var draftsLinkCmd = &cobra.Command{
	Use:   "link <draft-id> <job-id>",
	Short: "Link a draft to a stored job posting",
	Args:  cobra.ExactArgs(2),
	RunE:  runDraftsLink,
}

var (
	draftsDBURL      string
	draftsUserID     string
	draftsTemplateID string
)

func init() {
	draftsCmd.PersistentFlags().StringVar(&draftsDBURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	draftsCmd.PersistentFlags().StringVarP(&draftsUserID, "user-id", "u", "", "User UUID that owns the drafts (required)")
	draftsCreateCmd.Flags().StringVar(&draftsTemplateID, "template", "", "Template identifier for the new draft")

	draftsCmd.AddCommand(draftsListCmd)
	draftsCmd.AddCommand(draftsCreateCmd)
	draftsCmd.AddCommand(draftsDeleteCmd)
	draftsCmd.AddCommand(draftsLinkCmd)
	rootCmd.AddCommand(draftsCmd)
}

func draftsConnect(ctx context.Context) (*db.DB, uuid.UUID, error) {
	if draftsDBURL == "" {
		draftsDBURL = os.Getenv("DATABASE_URL")
	}
	if draftsDBURL == "" {
		return nil, uuid.Nil, fmt.Errorf("database URL is required (use --db-url or DATABASE_URL)")
	}
	if draftsUserID == "" {
		return nil, uuid.Nil, fmt.Errorf("--user-id is required")
	}

	userID, err := uuid.Parse(draftsUserID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("invalid user id: %w", err)
	}

	database, err := db.Connect(ctx, draftsDBURL)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, userID, nil
}

func runDraftsList(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	database, userID, err := draftsConnect(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	drafts, err := database.ListDrafts(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list drafts: %w", err)
	}
	if len(drafts) == 0 {
		fmt.Println("No drafts found.")
		return nil
	}

	for _, d := range drafts {
		job := "-"
		if d.Metadata.Job != nil {
			job = d.Metadata.Job.JobID
		}
		fmt.Printf("%s  %-30s  job=%s  updated=%s\n", d.ID, d.Name, job, d.Metadata.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runDraftsCreate(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	database, userID, err := draftsConnect(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	draft := types.NewDraft(args[0], draftsTemplateID, nil)
	stored, err := database.CreateDraft(ctx, userID, draft)
	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintDraft(stored)
	return nil
}

func runDraftsDelete(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	database, userID, err := draftsConnect(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	draftID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid draft id: %w", err)
	}

	if err := database.DeleteDraft(ctx, userID, draftID); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	fmt.Printf("Deleted draft %s\n", draftID)
	return nil
}

func runDraftsLink(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	database, userID, err := draftsConnect(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	draftID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid draft id: %w", err)
	}

	posting, err := database.GetJobPosting(ctx, userID, args[1])
	if err != nil {
		return fmt.Errorf("failed to look up job posting: %w", err)
	}
	if posting == nil {
		return fmt.Errorf("no job posting stored with id %s", args[1])
	}

	link := posting.Link()
	updated, err := database.UpdateDraft(ctx, userID, draftID, draftstore.DraftPatch{Job: &link})
	if err != nil {
		return fmt.Errorf("failed to link draft: %w", err)
	}
	if updated == nil {
		return fmt.Errorf("no draft found with id %s", draftID)
	}

	fmt.Printf("Linked draft %q to %s at %s (%s)\n", updated.Name, posting.Title, posting.Company, link.JobID)
	return nil
}
