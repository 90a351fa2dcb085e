package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dskvich/catpic-telegram-bot/pkg/domain"
)

// pgSeenImagesRepository is the durable variant of the seen-image set,
// used when a database is configured. The unique index on
// (user_id, source_id, image_id) makes RecordIfNew a single atomic
// statement.
type pgSeenImagesRepository struct {
	db *sql.DB
}

func NewPgSeenImagesRepository(db *sql.DB) *pgSeenImagesRepository {
	return &pgSeenImagesRepository{db: db}
}

func (r *pgSeenImagesRepository) IsNew(ctx context.Context, userID int64, ref domain.ImageRef) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM seen_images
			WHERE user_id = $1 AND source_id = $2 AND image_id = $3
		)
	`

	var seen bool
	if err := r.db.QueryRowContext(ctx, query, userID, ref.SourceID, ref.ImageID).Scan(&seen); err != nil {
		return false, fmt.Errorf("checking seen image: %w", err)
	}

	return !seen, nil
}

func (r *pgSeenImagesRepository) Record(ctx context.Context, userID int64, ref domain.ImageRef) error {
	if _, err := r.insert(ctx, userID, ref); err != nil {
		return err
	}
	return nil
}

func (r *pgSeenImagesRepository) RecordIfNew(ctx context.Context, userID int64, ref domain.ImageRef) (bool, error) {
	return r.insert(ctx, userID, ref)
}

func (r *pgSeenImagesRepository) insert(ctx context.Context, userID int64, ref domain.ImageRef) (bool, error) {
	const query = `
		INSERT INTO seen_images (user_id, source_id, image_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query, userID, ref.SourceID, ref.ImageID)
	if err != nil {
		return false, fmt.Errorf("recording seen image: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}

	return inserted == 1, nil
}

func (r *pgSeenImagesRepository) Stats(ctx context.Context) (map[int64]int, error) {
	const query = `
		SELECT user_id, COUNT(*)
		FROM seen_images
		GROUP BY user_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetching seen image stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[int64]int)
	for rows.Next() {
		var userID int64
		var count int
		if err := rows.Scan(&userID, &count); err != nil {
			return nil, fmt.Errorf("scanning stats row: %w", err)
		}
		stats[userID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stats rows: %w", err)
	}

	return stats, nil
}
