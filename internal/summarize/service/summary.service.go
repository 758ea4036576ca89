package service

import (
	"context"
	"errors"
	"fmt"

	"summarist/internal/extract"
	"summarist/internal/qa"
	"summarist/internal/report"
	"summarist/internal/summarize/model"
	"summarist/internal/summarize/repository"
)

// maxPromptChars caps extracted content before it reaches the model, a
// crude token budget for the generation call.
const maxPromptChars = 16000

// summaryTemperature keeps /process output stable; /ask lets the user pick.
const summaryTemperature float32 = 0.3

// ErrInvalidInputType is returned for an unrecognized input_type value.
var ErrInvalidInputType = errors.New("invalid submission type")

// Generator produces text from a prompt. Satisfied by gemini.Client and by
// test fakes.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float32) (string, error)
}

var styleTemplates = map[model.SummaryStyle]string{
	model.StyleDetailed: `Your task is to generate a comprehensive summary structured primarily with detailed bullet points. Cover every major theme, include supporting facts and figures, and finish with a short conclusion.

%s`,
	model.StyleConcise: `Your task is to generate a concise summary in two or three short paragraphs. Keep only the essential points and plain language.

%s`,
	model.StyleBullet: `Your task is to generate a summary as a flat list of plain bullet points, one key fact or idea per bullet, with no introduction or conclusion.

%s`,
}

// SummaryService drives the request-to-answer pipeline: prepare content,
// invoke generation, persist the result. Gen and QA are nil when no API key
// is configured; every operation then rejects before touching the upstream.
type SummaryService struct {
	History *repository.HistoryRepository
	Gen     Generator
	QA      *qa.Engine
}

func NewSummaryService(history *repository.HistoryRepository, gen Generator, engine *qa.Engine) *SummaryService {
	return &SummaryService{History: history, Gen: gen, QA: engine}
}

// Summarize runs one /process submission end to end. Exactly one history
// record is appended on success; on any failure nothing is persisted.
func (s *SummaryService) Summarize(ctx context.Context, username string, req model.ProcessRequest) (*model.Result, error) {
	if s.Gen == nil {
		return nil, model.ErrMissingAPIKey
	}

	var (
		topic     string
		content   string
		imagePath string
	)

	switch req.InputType {
	case model.InputTopic:
		topic = req.Topic
		content = "The topic of: " + req.Topic

	case model.InputURL:
		topic = "URL: " + req.URL
		text, err := extract.FromURL(ctx, req.URL)
		if err != nil {
			return nil, err
		}
		content = truncate(text, maxPromptChars)
		imagePath = extract.ImageFromURL(ctx, req.URL)

	case model.InputPDF:
		topic = "PDF: " + req.FileName
		text, err := extract.FromPDF(req.FilePath)
		if err != nil {
			return nil, err
		}
		content = truncate(text, maxPromptChars)

	default:
		return nil, ErrInvalidInputType
	}

	prompt := fmt.Sprintf(styleTemplate(req.Style), content)
	summary, err := s.Gen.Generate(ctx, prompt, summaryTemperature)
	if err != nil {
		return nil, err
	}

	id, err := s.History.Append(username, topic, summary, imagePath)
	if err != nil {
		return nil, err
	}

	return &model.Result{Summary: summary, ImagePath: imagePath, HistoryID: id}, nil
}

// Ask answers a free-standing question at the caller's chosen temperature.
// Nothing is persisted for this route.
func (s *SummaryService) Ask(ctx context.Context, question string, temperature float32) (string, error) {
	if s.Gen == nil {
		return "", model.ErrMissingAPIKey
	}
	prompt := fmt.Sprintf("Please provide a helpful and comprehensive answer to the following question:\n\nQuestion: %s\n\nAnswer:", question)
	return s.Gen.Generate(ctx, prompt, temperature)
}

// ChatPDF answers a question grounded in the uploaded document only.
func (s *SummaryService) ChatPDF(ctx context.Context, pdfPath, question string) (string, error) {
	if s.QA == nil {
		return "", model.ErrMissingAPIKey
	}
	text, err := extract.FromPDF(pdfPath)
	if err != nil {
		return "", err
	}
	return s.QA.Answer(ctx, text, question)
}

// ListHistory returns the caller's records, newest first.
func (s *SummaryService) ListHistory(username string) ([]model.HistoryRecord, error) {
	return s.History.ListByUser(username)
}

// Report regenerates the downloadable PDF for a record owned by the caller.
// A foreign or unknown id is model.ErrNotFound. The returned path is a
// per-request temp file the caller must remove after sending.
func (s *SummaryService) Report(id int64, username string) (string, error) {
	rec, err := s.History.GetByID(id, username)
	if err != nil {
		return "", err
	}
	return report.Generate(rec.Summary, rec.ImagePath)
}

func styleTemplate(style model.SummaryStyle) string {
	if t, ok := styleTemplates[style]; ok {
		return t
	}
	return styleTemplates[model.StyleDetailed]
}

// truncate caps s at max characters, never cutting inside a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
