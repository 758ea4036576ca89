package model

import "time"

// User is an account row. The password is stored as a bcrypt hash.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// HistoryRecord is one persisted generation result. Records are written
// exactly once per successful request and never mutated.
type HistoryRecord struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Topic     string    `json:"topic"`
	Summary   string    `json:"summary"`
	ImagePath string    `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}

// InputType selects which source the /process pipeline reads.
type InputType string

const (
	InputTopic InputType = "topic"
	InputURL   InputType = "url"
	InputPDF   InputType = "pdf"
)

// SummaryStyle selects the prompt template used for /process.
type SummaryStyle string

const (
	StyleDetailed SummaryStyle = "detailed"
	StyleConcise  SummaryStyle = "concise"
	StyleBullet   SummaryStyle = "bullet"
)

// ProcessRequest carries a validated /process submission into the pipeline.
// For PDF input, FilePath points at the saved upload and FileName keeps the
// client's original name for display.
type ProcessRequest struct {
	InputType InputType
	Style     SummaryStyle
	Topic     string
	URL       string
	FilePath  string
	FileName  string
}

// Result is the outcome of a successful generation request.
type Result struct {
	Summary   string
	ImagePath string
	HistoryID int64
}
