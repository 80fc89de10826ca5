package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/draft-assistant/internal/config"
	"github.com/jonathan/draft-assistant/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development JWT for the HTTP API",
	Long: `Generates a signed JWT for the given user using JWT_SECRET from the
environment. Intended for local development and testing against the serve
command; production deployments should issue tokens from their identity
provider.`,
	RunE: runToken,
}

var tokenUserID string

func init() {
	tokenCmd.Flags().StringVarP(&tokenUserID, "user-id", "u", "", "User UUID to embed in the token (defaults to a new random UUID)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	userID := uuid.New()
	if tokenUserID != "" {
		parsed, err := uuid.Parse(tokenUserID)
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		userID = parsed
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	token, err := server.NewJWTService(jwtConfig).GenerateToken(userID)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	fmt.Printf("User ID: %s\n", userID)
	fmt.Printf("Token:   %s\n", token)
	return nil
}
