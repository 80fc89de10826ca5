// Package main provides the entry point for the draft assistant CLI and
// HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "draft_agent",
	Short: "AI job-application document assistant",
	Long:  "draft_agent manages tailored application document drafts: segmented LLM generation against a job posting, draft versioning with undo history, and a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
