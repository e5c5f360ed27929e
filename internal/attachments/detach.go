package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/repository"
	"github.com/JaimeStill/steward/pkg/storage"
)

// Detacher removes the attachments of resources that are being deleted.
// The Detach methods run inside the caller's transaction and return the
// storage keys of the removed rows. Purge deletes those blobs after commit.
type Detacher interface {
	DetachProject(ctx context.Context, tx *sql.Tx, projectID uuid.UUID) ([]string, error)
	DetachTask(ctx context.Context, tx *sql.Tx, taskID uuid.UUID) ([]string, error)
	Purge(ctx context.Context, keys []string)
}

const detachProjectSQL = `
	DELETE FROM attachments
	WHERE (resource_type = 'project' AND resource_id = $1)
		OR (resource_type = 'task' AND resource_id IN (SELECT id FROM tasks WHERE project_id = $1))
	RETURNING storage_key`

const detachTaskSQL = `
	DELETE FROM attachments
	WHERE resource_type = 'task' AND resource_id = $1
	RETURNING storage_key`

// DetachProject removes attachments on the project and on every task in it.
func (r *repo) DetachProject(ctx context.Context, tx *sql.Tx, projectID uuid.UUID) ([]string, error) {
	keys, err := repository.QueryMany(ctx, tx, detachProjectSQL, []any{projectID}, scanKey)
	if err != nil {
		return nil, fmt.Errorf("detach project %s: %w", projectID, err)
	}
	return keys, nil
}

// DetachTask removes attachments on a single task.
func (r *repo) DetachTask(ctx context.Context, tx *sql.Tx, taskID uuid.UUID) ([]string, error) {
	keys, err := repository.QueryMany(ctx, tx, detachTaskSQL, []any{taskID}, scanKey)
	if err != nil {
		return nil, fmt.Errorf("detach task %s: %w", taskID, err)
	}
	return keys, nil
}

// Purge deletes blobs whose rows are gone. Blobs already missing are skipped
// and other failures are logged, since the rows cannot be restored.
func (r *repo) Purge(ctx context.Context, keys []string) {
	for _, key := range keys {
		err := r.storage.Delete(ctx, key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("blob delete failed after DB delete", "key", key, "error", err)
		}
	}
	if len(keys) > 0 {
		r.logger.Info("attachment blobs purged", "count", len(keys))
	}
}

func scanKey(s repository.Scanner) (string, error) {
	var key string
	err := s.Scan(&key)
	return key, err
}
