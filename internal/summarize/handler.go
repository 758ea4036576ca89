package handler

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"summarist/internal/extract"
	"summarist/internal/gemini"
	"summarist/internal/summarize/model"
	"summarist/internal/summarize/service"
	"summarist/middleware"
	"summarist/pkg/logger"
	"summarist/web"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
)

const maxUploadBytes = 32 << 20

type Handler struct {
	Auth      *service.AuthService
	Summary   *service.SummaryService
	UploadDir string
	tmpl      *template.Template
}

func NewHandler(auth *service.AuthService, summary *service.SummaryService, uploadDir string) *Handler {
	return &Handler{
		Auth:      auth,
		Summary:   summary,
		UploadDir: uploadDir,
		tmpl:      template.Must(template.ParseFS(web.Templates, "templates/*.html")),
	}
}

// --- page data and rendering ---

type flashMessage struct {
	Category string
	Message  string
}

type historyView struct {
	ID        int64
	Topic     string
	Summary   template.HTML
	ImagePath string
	CreatedAt time.Time
}

type pageData struct {
	Username     string
	Flash        *flashMessage
	ResultType   string
	Summary      template.HTML
	ImageURL     string
	NewHistoryID int64
	AskAnswer    template.HTML
	ChatAnswer   template.HTML
	Records      []historyView
}

var markdown = goldmark.New()

// renderMarkdown converts stored summary markup to display HTML. Raw HTML
// inside the markdown stays escaped, so model output cannot inject markup.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(buf.String())
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if data.Username == "" {
		data.Username = middleware.Username(r.Context())
	}
	if data.Flash == nil {
		data.Flash = popFlash(w, r)
	}
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		logger.Sugar.Errorf("Failed to render %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// --- flash notices (one-shot cookie, read and cleared on next render) ---

const flashCookie = "flash"

func setFlash(w http.ResponseWriter, category, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(category + "|" + message),
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60,
	})
}

func popFlash(w http.ResponseWriter, r *http.Request) *flashMessage {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})

	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(raw, "|")
	if !ok {
		return nil
	}
	return &flashMessage{Category: category, Message: message}
}

// --- authentication routes ---

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", pageData{})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	token, err := h.Auth.Login(username, password)
	if errors.Is(err, model.ErrInvalidCredentials) {
		h.render(w, r, "login.html", pageData{Flash: &flashMessage{"danger", "Invalid username or password."}})
		return
	}
	if err != nil {
		logger.Sugar.Errorf("Login failed for %s: %v", username, err)
		h.render(w, r, "login.html", pageData{Flash: &flashMessage{"danger", "An error occurred. Please try again."}})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.html", pageData{})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		h.render(w, r, "register.html", pageData{Flash: &flashMessage{"danger", "Username and password are required."}})
		return
	}

	err := h.Auth.Register(username, password)
	if errors.Is(err, model.ErrDuplicateUser) {
		h.render(w, r, "register.html", pageData{Flash: &flashMessage{"danger", "Username already exists"}})
		return
	}
	if err != nil {
		logger.Sugar.Errorf("Registration failed for %s: %v", username, err)
		h.render(w, r, "register.html", pageData{Flash: &flashMessage{"danger", "An error occurred. Please try again."}})
		return
	}

	setFlash(w, "success", "Registration successful! Please log in.")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: middleware.SessionCookie, Value: "", Path: "/", MaxAge: -1})
	setFlash(w, "success", "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusFound)
}

// --- core application routes ---

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "dashboard.html", pageData{})
}

func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	username := middleware.Username(r.Context())
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		setFlash(w, "danger", "Invalid form submission.")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	req := model.ProcessRequest{
		InputType: model.InputType(r.FormValue("input_type")),
		Style:     model.SummaryStyle(r.FormValue("summary_style")),
	}

	switch req.InputType {
	case model.InputTopic:
		req.Topic = strings.TrimSpace(r.FormValue("topic"))
		if req.Topic == "" {
			setFlash(w, "danger", "Please enter a topic.")
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
	case model.InputURL:
		req.URL = strings.TrimSpace(r.FormValue("url"))
		if req.URL == "" {
			setFlash(w, "danger", "Please enter a URL.")
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
	case model.InputPDF:
		file, header, err := r.FormFile("file")
		if err != nil {
			setFlash(w, "danger", "Please upload a PDF file.")
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
		defer file.Close()
		path, name, err := h.saveUpload(file, header)
		if err != nil {
			logger.Sugar.Errorf("Failed to save upload: %v", err)
			setFlash(w, "danger", "Could not save the uploaded file.")
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
		req.FilePath, req.FileName = path, name
	default:
		setFlash(w, "danger", "Invalid submission type.")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	result, err := h.Summary.Summarize(r.Context(), username, req)
	if err != nil {
		h.flashPipelineError(w, err)
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	h.render(w, r, "dashboard.html", pageData{
		ResultType:   string(req.InputType),
		Summary:      renderMarkdown(result.Summary),
		ImageURL:     result.ImagePath,
		NewHistoryID: result.HistoryID,
	})
}

func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	question := strings.TrimSpace(r.FormValue("question"))
	if question == "" {
		setFlash(w, "danger", "Please ask a question.")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	temperature := float32(0.7)
	if t := r.FormValue("temperature"); t != "" {
		if parsed, err := strconv.ParseFloat(t, 32); err == nil && parsed >= 0 && parsed <= 1 {
			temperature = float32(parsed)
		}
	}

	answer, err := h.Summary.Ask(r.Context(), question, temperature)
	if err != nil {
		h.flashPipelineError(w, err)
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	h.render(w, r, "dashboard.html", pageData{
		ResultType: "ask",
		AskAnswer:  renderMarkdown(answer),
	})
}

func (h *Handler) ChatPDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		setFlash(w, "danger", "Invalid form submission.")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	question := strings.TrimSpace(r.FormValue("question"))
	file, header, err := r.FormFile("pdf_file")
	if err != nil || question == "" {
		setFlash(w, "danger", "Please upload a file and ask a question.")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	defer file.Close()

	path, _, err := h.saveUpload(file, header)
	if err != nil {
		logger.Sugar.Errorf("Failed to save upload: %v", err)
		setFlash(w, "danger", "Could not save the uploaded file.")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	answer, err := h.Summary.ChatPDF(r.Context(), path, question)
	if err != nil {
		h.flashPipelineError(w, err)
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	h.render(w, r, "dashboard.html", pageData{
		ResultType: "chat",
		ChatAnswer: renderMarkdown(answer),
	})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	username := middleware.Username(r.Context())
	records, err := h.Summary.ListHistory(username)
	if err != nil {
		logger.Sugar.Errorf("Failed to list history for %s: %v", username, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	views := make([]historyView, 0, len(records))
	for _, rec := range records {
		views = append(views, historyView{
			ID:        rec.ID,
			Topic:     rec.Topic,
			Summary:   renderMarkdown(rec.Summary),
			ImagePath: rec.ImagePath,
			CreatedAt: rec.CreatedAt,
		})
	}
	h.render(w, r, "history.html", pageData{Records: views})
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	username := middleware.Username(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		setFlash(w, "danger", "Record not found")
		http.Redirect(w, r, "/history", http.StatusFound)
		return
	}

	path, err := h.Summary.Report(id, username)
	if errors.Is(err, model.ErrNotFound) {
		setFlash(w, "danger", "Record not found")
		http.Redirect(w, r, "/history", http.StatusFound)
		return
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to generate report for record %d: %v", id, err)
		setFlash(w, "danger", "Could not generate the report.")
		http.Redirect(w, r, "/history", http.StatusFound)
		return
	}
	defer os.Remove(path)

	w.Header().Set("Content-Disposition", `attachment; filename="summary.pdf"`)
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}

// --- error mapping ---

// flashPipelineError maps pipeline failures onto user-visible notices.
// Nothing was persisted on any of these paths.
func (h *Handler) flashPipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrMissingAPIKey):
		setFlash(w, "danger", "Google API key not found. Please set GOOGLE_API_KEY in your environment.")
	case errors.Is(err, extract.ErrNoContent):
		setFlash(w, "danger", "No readable content was found in that source.")
	case errors.Is(err, gemini.ErrUnavailable):
		setFlash(w, "danger", "The AI service is unavailable right now. Please try again shortly.")
	case errors.Is(err, service.ErrInvalidInputType):
		setFlash(w, "danger", "Invalid submission type.")
	default:
		logger.Sugar.Errorf("Request pipeline failed: %v", err)
		setFlash(w, "danger", "An error occurred while processing your request.")
	}
}

// --- uploads ---

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// saveUpload writes the uploaded file under the upload directory with a
// unique prefix, so simultaneous uploads of the same filename never clobber
// each other. Returns the stored path and the sanitized original name.
func (h *Handler) saveUpload(file multipart.File, header *multipart.FileHeader) (string, string, error) {
	name := unsafeNameChars.ReplaceAllString(filepath.Base(header.Filename), "_")
	if name == "" || name == "." {
		name = "upload.pdf"
	}
	stored := uuid.NewString() + "_" + name
	path := filepath.Join(h.UploadDir, stored)

	dst, err := os.Create(path)
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", "", err
	}
	return path, name, nil
}
