package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"summarist/config/database"
	"summarist/internal/gemini"
	"summarist/internal/qa"
	"summarist/internal/summarize/repository"
	"summarist/internal/summarize/service"
	"summarist/pkg/logger"
	"summarist/router"

	"github.com/joho/godotenv"
)

func main() {
	logger.Init()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Sugar.Info("No .env file found, using environment variables from OS")
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		logger.Sugar.Fatal("JWT_SECRET environment variable is not set")
	}

	uploadDir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		logger.Sugar.Fatalf("Failed to create upload directory %s: %v", uploadDir, err)
	}

	db := database.Connect()
	defer db.Close()

	if err := repository.CreateSchema(db); err != nil {
		logger.Sugar.Fatalf("Failed to create database schema: %v", err)
	}

	// Without an API key the app still serves auth, history, and downloads;
	// generation requests are rejected with a notice instead.
	var (
		gen    service.Generator
		engine *qa.Engine
	)
	if apiKey := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); apiKey != "" {
		client, err := gemini.New(context.Background(), apiKey)
		if err != nil {
			logger.Sugar.Fatalf("Failed to create Gemini client: %v", err)
		}
		gen = client
		engine = qa.NewEngine(client, client)
	} else {
		logger.Sugar.Warn("GOOGLE_API_KEY is not set; generation requests will be rejected")
	}

	addr := strings.TrimSpace(os.Getenv("ADDR"))
	if addr == "" {
		addr = ":8080"
	}

	logger.Sugar.Infof("Listening on %s", addr)
	if err := http.ListenAndServe(addr, router.Setup(db, gen, engine, []byte(secret), uploadDir)); err != nil {
		logger.Sugar.Fatalf("Server stopped: %v", err)
	}
}
