package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/draft-assistant/internal/draftstore"
	"github.com/jonathan/draft-assistant/internal/types"
)

const draftColumns = `id, name, template_id, content, sections, job, created_at, updated_at`

// ListDrafts retrieves every draft record owned by the user, oldest first.
func (db *DB) ListDrafts(ctx context.Context, userID uuid.UUID) ([]*types.Draft, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+draftColumns+` FROM drafts WHERE user_id = $1 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*types.Draft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// GetDraft retrieves one draft record. Returns (nil, nil) when not found.
func (db *DB) GetDraft(ctx context.Context, userID, id uuid.UUID) (*types.Draft, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+draftColumns+` FROM drafts WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	draft, err := scanDraft(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

// CreateDraft inserts a new draft record and returns the stored
// representation.
func (db *DB) CreateDraft(ctx context.Context, userID uuid.UUID, draft *types.Draft) (*types.Draft, error) {
	contentJSON, err := json.Marshal(draft.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content: %w", err)
	}
	sectionsJSON, err := json.Marshal(draft.Metadata.Sections)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sections: %w", err)
	}
	var jobJSON []byte
	if draft.Metadata.Job != nil {
		if jobJSON, err = json.Marshal(draft.Metadata.Job); err != nil {
			return nil, fmt.Errorf("failed to marshal job link: %w", err)
		}
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO drafts (id, user_id, name, template_id, content, sections, job)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+draftColumns,
		draft.ID, userID, draft.Name, draft.TemplateID, contentJSON, sectionsJSON, jobJSON,
	)
	stored, err := scanDraft(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}
	return stored, nil
}

// UpdateDraft applies a partial update and returns the stored
// representation. Returns (nil, nil) when the draft does not exist.
func (db *DB) UpdateDraft(ctx context.Context, userID, id uuid.UUID, patch draftstore.DraftPatch) (*types.Draft, error) {
	query := `UPDATE drafts SET updated_at = NOW()`
	args := []any{}
	argNum := 1

	if patch.Name != nil {
		query += fmt.Sprintf(", name = $%d", argNum)
		args = append(args, *patch.Name)
		argNum++
	}
	if patch.TemplateID != nil {
		query += fmt.Sprintf(", template_id = $%d", argNum)
		args = append(args, *patch.TemplateID)
		argNum++
	}
	if patch.Job != nil {
		jobJSON, err := json.Marshal(patch.Job)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal job link: %w", err)
		}
		query += fmt.Sprintf(", job = $%d", argNum)
		args = append(args, jobJSON)
		argNum++
	}
	if patch.Content != nil {
		contentJSON, err := json.Marshal(patch.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal content: %w", err)
		}
		query += fmt.Sprintf(", content = $%d", argNum)
		args = append(args, contentJSON)
		argNum++
	}
	if patch.Sections != nil {
		sectionsJSON, err := json.Marshal(patch.Sections)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal sections: %w", err)
		}
		query += fmt.Sprintf(", sections = $%d", argNum)
		args = append(args, sectionsJSON)
		argNum++
	}

	query += fmt.Sprintf(" WHERE user_id = $%d AND id = $%d RETURNING ", argNum, argNum+1) + draftColumns
	args = append(args, userID, id)

	row := db.pool.QueryRow(ctx, query, args...)
	stored, err := scanDraft(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}
	return stored, nil
}

// DeleteDraft removes a draft record.
func (db *DB) DeleteDraft(ctx context.Context, userID, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM drafts WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", draftstore.ErrNotFound, id)
	}
	return nil
}

// scanDraft builds a Draft from a drafts row.
func scanDraft(row pgx.Row) (*types.Draft, error) {
	var draft types.Draft
	var templateID *string
	var contentJSON, sectionsJSON, jobJSON []byte

	err := row.Scan(&draft.ID, &draft.Name, &templateID, &contentJSON, &sectionsJSON, &jobJSON,
		&draft.Metadata.CreatedAt, &draft.Metadata.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if templateID != nil {
		draft.TemplateID = *templateID
	}
	if len(contentJSON) > 0 {
		if err := json.Unmarshal(contentJSON, &draft.Content); err != nil {
			return nil, fmt.Errorf("failed to unmarshal content: %w", err)
		}
	}
	if len(sectionsJSON) > 0 {
		if err := json.Unmarshal(sectionsJSON, &draft.Metadata.Sections); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sections: %w", err)
		}
	}
	if len(jobJSON) > 0 {
		var job types.JobLink
		if err := json.Unmarshal(jobJSON, &job); err != nil {
			return nil, fmt.Errorf("failed to unmarshal job link: %w", err)
		}
		draft.Metadata.Job = &job
	}
	return &draft, nil
}
