package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/draft-assistant/internal/config"
	"github.com/jonathan/draft-assistant/internal/events"
	"github.com/jonathan/draft-assistant/internal/generation"
	"github.com/jonathan/draft-assistant/internal/ingestion"
	"github.com/jonathan/draft-assistant/internal/llm"
	"github.com/jonathan/draft-assistant/internal/observability"
	"github.com/jonathan/draft-assistant/internal/orchestrator"
	"github.com/jonathan/draft-assistant/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run a segmented generation against a job posting",
	Long: `Runs the base segment plus any requested optional segments against a job
posting, then prints the merged result as JSON.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runGenerate,
}

var (
	genConfigPath  string
	genProfilePath string
	genJobURL      string
	genJobFile     string
	genSkills      bool
	genExperience  bool
	genVerbose     bool
	genAPIKey      string
	genProvider    string
	genOut         string
)

func init() {
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	generateCmd.Flags().StringVarP(&genProfilePath, "profile", "p", "", "Path to candidate profile JSON file (required)")
	generateCmd.Flags().StringVar(&genJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	generateCmd.Flags().StringVarP(&genJobFile, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	generateCmd.Flags().BoolVar(&genSkills, "skills", false, "Include the skill-ordering segment")
	generateCmd.Flags().BoolVar(&genExperience, "experience", false, "Include the experience rewrite segment")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed debug information")
	generateCmd.Flags().StringVar(&genAPIKey, "api-key", "", "LLM API key (optional, defaults to provider env var)")
	generateCmd.Flags().StringVar(&genProvider, "provider", "", "LLM provider (gemini, openai, anthropic)")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "Write merged result JSON to this file instead of stdout")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if genConfigPath != "" {
		loaded, err := config.LoadConfig(genConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("provider") {
		cfg.Provider = genProvider
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = genAPIKey
	}
	if cfg.APIKey == "" {
		cfg.APIKey = apiKeyFromEnv(cfg.Provider)
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("LLM API key is required (use --api-key or the provider env var)")
	}

	if genProfilePath == "" {
		return fmt.Errorf("--profile is required")
	}
	if genJobURL == "" && genJobFile == "" {
		return fmt.Errorf("either --job or --job-url must be provided")
	}
	if genJobURL != "" && genJobFile != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}

	profile, err := os.ReadFile(genProfilePath)
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}
	if !json.Valid(profile) {
		return fmt.Errorf("profile file is not valid JSON")
	}

	// Resolve the job posting text
	var jobText, jobID string
	if genJobURL != "" {
		fmt.Printf("Fetching job posting from %s...\n", genJobURL)
		posting, err := ingestion.FetchJobPosting(ctx, genJobURL, nil)
		if err != nil {
			return fmt.Errorf("failed to fetch job posting: %w", err)
		}
		jobText = posting.Description
		if posting.Title != "" {
			jobText = fmt.Sprintf("%s at %s\n\n%s", posting.Title, posting.Company, posting.Description)
		}
		jobID = ingestion.JobID(genJobURL)
	} else {
		raw, err := os.ReadFile(genJobFile)
		if err != nil {
			return fmt.Errorf("failed to read job posting: %w", err)
		}
		jobText = string(raw)
		jobID = ingestion.JobID(genJobFile)
	}

	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	svc := generation.NewService(client, &generation.StaticSource{
		Profile: string(profile),
		Job:     jobText,
	})

	bus := events.NewBus()
	bus.Subscribe(func(ev events.Event) {
		switch ev.Type {
		case events.TypeRunStarted:
			fmt.Printf("Generation started (job %s)\n", ev.JobID)
		case events.TypeSegmentCompleted:
			if ev.Error != "" {
				fmt.Printf("  segment %-12s %s: %s\n", ev.Segment, ev.Status, ev.Error)
			} else {
				fmt.Printf("  segment %-12s %s\n", ev.Segment, ev.Status)
			}
		}
	})

	orch := orchestrator.New(svc, bus)
	opts := types.GenerationOptions{
		IncludeSkills:     genSkills,
		IncludeExperience: genExperience,
	}

	if err := orch.Run(ctx, uuid.New(), jobID, opts); err != nil {
		if genVerbose {
			observability.NewPrinter(os.Stdout).PrintRunState(orch.State(), orch.LastError())
		}
		return fmt.Errorf("generation failed: %w", err)
	}

	merged := orch.Result()
	if genVerbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintRunState(orch.State(), orch.LastError())
		printer.PrintMergedContent(merged)
	}

	out, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if genOut != "" {
		if err := os.WriteFile(genOut, out, 0644); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		fmt.Printf("Merged result written to %s\n", genOut)
		return nil
	}

	fmt.Println(string(out))
	return nil
}
