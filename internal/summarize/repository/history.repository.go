package repository

import (
	"database/sql"
	"errors"

	"summarist/internal/summarize/model"
	"summarist/pkg/logger"
)

type HistoryRepository struct {
	DB *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

// Append writes one history record inside a transaction and returns the
// store-assigned id. An empty imagePath is stored as NULL.
func (r *HistoryRepository) Append(username, topic, summary, imagePath string) (int64, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		logger.Sugar.Errorf("Failed to begin history transaction: %v", err)
		return 0, err
	}

	image := sql.NullString{String: imagePath, Valid: imagePath != ""}
	var id int64
	err = tx.QueryRow(
		`INSERT INTO history (username, topic, summary, image_path, timestamp) VALUES ($1, $2, $3, $4, NOW()) RETURNING id`,
		username, topic, summary, image,
	).Scan(&id)
	if err != nil {
		tx.Rollback()
		logger.Sugar.Errorf("Failed to append history for user %s: %v", username, err)
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		logger.Sugar.Errorf("Failed to commit history for user %s: %v", username, err)
		return 0, err
	}
	return id, nil
}

// ListByUser returns the caller's records, newest first.
func (r *HistoryRepository) ListByUser(username string) ([]model.HistoryRecord, error) {
	rows, err := r.DB.Query(
		`SELECT id, username, topic, summary, image_path, timestamp FROM history WHERE username = $1 ORDER BY id DESC`,
		username,
	)
	if err != nil {
		logger.Sugar.Errorf("Failed to list history for user %s: %v", username, err)
		return nil, err
	}
	defer rows.Close()

	var records []model.HistoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			logger.Sugar.Errorf("Failed to scan history row: %v", err)
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetByID fetches a single record scoped to its owner. A missing id and an
// ownership mismatch are both model.ErrNotFound.
func (r *HistoryRepository) GetByID(id int64, username string) (model.HistoryRecord, error) {
	row := r.DB.QueryRow(
		`SELECT id, username, topic, summary, image_path, timestamp FROM history WHERE id = $1 AND username = $2`,
		id, username,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.HistoryRecord{}, model.ErrNotFound
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to get history record %d: %v", id, err)
		return model.HistoryRecord{}, err
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (model.HistoryRecord, error) {
	var rec model.HistoryRecord
	var image sql.NullString
	if err := row.Scan(&rec.ID, &rec.Username, &rec.Topic, &rec.Summary, &image, &rec.CreatedAt); err != nil {
		return model.HistoryRecord{}, err
	}
	rec.ImagePath = image.String
	return rec, nil
}
