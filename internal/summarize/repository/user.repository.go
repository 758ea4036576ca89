package repository

import (
	"database/sql"
	"errors"

	"summarist/internal/summarize/model"
	"summarist/pkg/logger"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Create inserts a new account. A duplicate username maps to
// model.ErrDuplicateUser so the handler can show a precise notice.
func (r *UserRepository) Create(username, passwordHash string) error {
	_, err := r.DB.Exec(`INSERT INTO users (username, password) VALUES ($1, $2)`, username, passwordHash)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return model.ErrDuplicateUser
		}
		logger.Sugar.Errorf("Failed to create user %s: %v", username, err)
		return err
	}
	return nil
}

// GetByUsername fetches one account, or model.ErrNotFound.
func (r *UserRepository) GetByUsername(username string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRow(`SELECT id, username, password FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrNotFound
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to get user %s: %v", username, err)
		return model.User{}, err
	}
	return u, nil
}
