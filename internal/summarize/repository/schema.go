package repository

import (
	"database/sql"

	"summarist/pkg/logger"
)

// CreateSchema creates the two application tables if they do not exist.
// Runs once at startup so a fresh database works without migrations.
func CreateSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS history (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL,
			topic TEXT,
			summary TEXT NOT NULL,
			image_path TEXT,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			logger.Sugar.Errorf("Failed to create schema: %v", err)
			return err
		}
	}
	return nil
}
