package router

import (
	"database/sql"
	"net/http"

	"summarist/internal/qa"
	handler "summarist/internal/summarize"
	"summarist/internal/summarize/repository"
	"summarist/internal/summarize/service"
	"summarist/middleware"
)

// Setup wires repositories, services, and handlers onto the HTTP surface.
// gen and engine may be nil when no generation API key is configured; the
// pipeline then rejects generation requests with a user-visible notice.
func Setup(db *sql.DB, gen service.Generator, engine *qa.Engine, secret []byte, uploadDir string) http.Handler {
	mux := http.NewServeMux()

	userRepo := repository.NewUserRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	authService := service.NewAuthService(userRepo, secret)
	summaryService := service.NewSummaryService(historyRepo, gen, engine)
	h := handler.NewHandler(authService, summaryService, uploadDir)
	auth := middleware.Auth(secret)

	mux.HandleFunc("GET /{$}", h.LoginPage)
	mux.HandleFunc("POST /{$}", h.Login)
	mux.HandleFunc("GET /register", h.RegisterPage)
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("GET /logout", h.Logout)

	mux.Handle("GET /dashboard", auth(http.HandlerFunc(h.Dashboard)))
	mux.Handle("POST /process", auth(http.HandlerFunc(h.Process)))
	mux.Handle("POST /ask", auth(http.HandlerFunc(h.Ask)))
	mux.Handle("POST /chat_pdf", auth(http.HandlerFunc(h.ChatPDF)))
	mux.Handle("GET /history", auth(http.HandlerFunc(h.History)))
	mux.Handle("GET /download/{id}", auth(http.HandlerFunc(h.Download)))

	return mux
}
