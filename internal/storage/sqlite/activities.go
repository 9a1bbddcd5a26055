package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nickholt/routine/internal/models"
	"github.com/nickholt/routine/internal/storage"
)

func (s *Store) Activities() storage.Repository[*models.Activity] {
	return &activityRepo{store: s}
}

type activityRepo struct {
	store *Store
}

func (r *activityRepo) FetchAll() ([]*models.Activity, error) {
	rows, err := r.store.db.Query(`
		SELECT id, title, days_of_week, start_date, active, created_at
		FROM activities ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCouldNotFetch, err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCouldNotFetch, err)
	}

	return activities, nil
}

func scanActivity(rows *sql.Rows) (*models.Activity, error) {
	var a models.Activity
	var days int
	var startDate, createdAt string

	if err := rows.Scan(&a.ID, &a.Title, &days, &startDate, &a.Active, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCouldNotFetch, err)
	}

	a.Days = models.DaySetFromBits(uint8(days))
	a.StartDate = models.Day(startDate)

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for activity %s: %w", a.ID, err)
	}
	a.CreatedAt = t

	return &a, nil
}

func (r *activityRepo) Insert(a *models.Activity) {
	r.store.stage(pendingOp{
		desc: "upsert activity " + a.ID,
		exec: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				INSERT INTO activities (id, title, days_of_week, start_date, active, created_at)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					title = excluded.title,
					days_of_week = excluded.days_of_week,
					start_date = excluded.start_date,
					active = excluded.active`,
				a.ID, a.Title, int(a.Days.Bits()), string(a.StartDate), a.Active,
				a.CreatedAt.Format(time.RFC3339))
			return err
		},
	})
}

func (r *activityRepo) Delete(a *models.Activity) {
	id := a.ID
	r.store.stage(pendingOp{
		desc: "delete activity " + id,
		exec: func(tx *sql.Tx) error {
			_, err := tx.Exec(`DELETE FROM activities WHERE id = ?`, id)
			return err
		},
	})
}
