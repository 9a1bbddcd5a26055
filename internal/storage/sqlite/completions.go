package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nickholt/routine/internal/models"
	"github.com/nickholt/routine/internal/storage"
)

func (s *Store) Completions() storage.Repository[*models.Completion] {
	return &completionRepo{store: s}
}

type completionRepo struct {
	store *Store
}

func (r *completionRepo) FetchAll() ([]*models.Completion, error) {
	rows, err := r.store.db.Query(`
		SELECT id, activity_id, day, status, created_at
		FROM completions ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCouldNotFetch, err)
	}
	defer rows.Close()

	var completions []*models.Completion
	for rows.Next() {
		var c models.Completion
		var day, createdAt string
		var status int

		if err := rows.Scan(&c.ID, &c.ActivityID, &day, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrCouldNotFetch, err)
		}

		c.Day = models.Day(day)
		c.Status = models.Status(status)

		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for completion %s: %w", c.ID, err)
		}
		c.CreatedAt = t

		completions = append(completions, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCouldNotFetch, err)
	}

	return completions, nil
}

func (r *completionRepo) Insert(c *models.Completion) {
	r.store.stage(pendingOp{
		desc: "upsert completion " + c.ID,
		exec: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				INSERT INTO completions (id, activity_id, day, status, created_at)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					activity_id = excluded.activity_id,
					day = excluded.day,
					status = excluded.status`,
				c.ID, c.ActivityID, string(c.Day), int(c.Status),
				c.CreatedAt.Format(time.RFC3339))
			return err
		},
	})
}

func (r *completionRepo) Delete(c *models.Completion) {
	id := c.ID
	r.store.stage(pendingOp{
		desc: "delete completion " + id,
		exec: func(tx *sql.Tx) error {
			_, err := tx.Exec(`DELETE FROM completions WHERE id = ?`, id)
			return err
		},
	})
}
