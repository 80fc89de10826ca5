package generation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/draft-assistant/internal/ingestion"
)

// ProfileStore reads stored candidate profiles.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (json.RawMessage, error)
}

// PostingStore reads previously ingested job postings.
type PostingStore interface {
	GetJobPosting(ctx context.Context, userID uuid.UUID, jobID string) (*ingestion.JobPosting, error)
}

// StoreSource resolves prompt context from stored profiles and postings.
type StoreSource struct {
	profiles ProfileStore
	postings PostingStore
}

// NewStoreSource creates a ContextSource backed by persistent stores.
func NewStoreSource(profiles ProfileStore, postings PostingStore) *StoreSource {
	return &StoreSource{profiles: profiles, postings: postings}
}

// PromptContext loads the user's profile and the posting text for jobID.
func (s *StoreSource) PromptContext(ctx context.Context, userID uuid.UUID, jobID string) (*PromptContext, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("no profile stored for user %s", userID)
	}

	posting, err := s.postings.GetJobPosting(ctx, userID, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job posting: %w", err)
	}
	if posting == nil {
		return nil, fmt.Errorf("no job posting stored with id %s", jobID)
	}

	job := posting.Description
	if posting.Title != "" {
		job = fmt.Sprintf("%s at %s\n\n%s", posting.Title, posting.Company, posting.Description)
	}

	return &PromptContext{
		Profile: string(profile),
		Job:     job,
	}, nil
}

// StaticSource returns the same prompt context for every request. It serves
// single-shot CLI runs where the profile and posting are already in hand.
type StaticSource struct {
	Profile string
	Job     string
}

// PromptContext returns the fixed context.
func (s *StaticSource) PromptContext(context.Context, uuid.UUID, string) (*PromptContext, error) {
	if s.Profile == "" {
		return nil, fmt.Errorf("profile is required")
	}
	if s.Job == "" {
		return nil, fmt.Errorf("job posting text is required")
	}
	return &PromptContext{Profile: s.Profile, Job: s.Job}, nil
}
