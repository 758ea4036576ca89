package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"summarist/internal/summarize/model"
	"summarist/internal/summarize/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	prompt      string
	temperature float32
	output      string
	err         error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, temperature float32) (string, error) {
	f.prompt = prompt
	f.temperature = temperature
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

func newSummaryService(t *testing.T, gen Generator) (*SummaryService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSummaryService(repository.NewHistoryRepository(db), gen, nil), mock
}

func TestSummarizeTopicPersistsExactlyOneRecord(t *testing.T) {
	gen := &fakeGenerator{output: "Quantum computing, summarized."}
	svc, mock := newSummaryService(t, gen)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO history").
		WithArgs("alice", "quantum computing", "Quantum computing, summarized.", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectCommit()

	result, err := svc.Summarize(context.Background(), "alice", model.ProcessRequest{
		InputType: model.InputTopic,
		Style:     model.StyleDetailed,
		Topic:     "quantum computing",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.HistoryID)
	assert.Equal(t, "Quantum computing, summarized.", result.Summary)
	assert.Contains(t, gen.prompt, "The topic of: quantum computing")
	assert.Contains(t, gen.prompt, "detailed bullet points")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummarizeGenerationFailurePersistsNothing(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream exploded")}
	svc, mock := newSummaryService(t, gen)

	_, err := svc.Summarize(context.Background(), "alice", model.ProcessRequest{
		InputType: model.InputTopic,
		Topic:     "anything",
	})
	require.Error(t, err)
	// No Expect* were registered: any store write would fail the mock.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummarizeUnknownStyleFallsBackToDetailed(t *testing.T) {
	gen := &fakeGenerator{output: "ok"}
	svc, mock := newSummaryService(t, gen)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO history").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	_, err := svc.Summarize(context.Background(), "alice", model.ProcessRequest{
		InputType: model.InputTopic,
		Style:     model.SummaryStyle("mystery"),
		Topic:     "anything",
	})
	require.NoError(t, err)
	assert.Contains(t, gen.prompt, "detailed bullet points")
}

func TestSummarizeInvalidInputType(t *testing.T) {
	svc, _ := newSummaryService(t, &fakeGenerator{})

	_, err := svc.Summarize(context.Background(), "alice", model.ProcessRequest{InputType: "carrier-pigeon"})
	assert.ErrorIs(t, err, ErrInvalidInputType)
}

func TestSummarizeWithoutAPIKey(t *testing.T) {
	svc, _ := newSummaryService(t, nil)

	_, err := svc.Summarize(context.Background(), "alice", model.ProcessRequest{
		InputType: model.InputTopic,
		Topic:     "anything",
	})
	assert.ErrorIs(t, err, model.ErrMissingAPIKey)
}

func TestAskDoesNotPersist(t *testing.T) {
	gen := &fakeGenerator{output: "4"}
	svc, mock := newSummaryService(t, gen)

	answer, err := svc.Ask(context.Background(), "What is 2+2?", 0.7)
	require.NoError(t, err)
	assert.Equal(t, "4", answer)
	assert.Equal(t, float32(0.7), gen.temperature)
	assert.Contains(t, gen.prompt, "What is 2+2?")
	// This route never touches the history store.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", maxPromptChars+500)
	assert.Len(t, truncate(long, maxPromptChars), maxPromptChars)
	assert.Equal(t, "short", truncate("short", maxPromptChars))
}

func TestTruncateCountsCharactersNotBytes(t *testing.T) {
	long := strings.Repeat("世", maxPromptChars+500)
	got := truncate(long, maxPromptChars)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, maxPromptChars, utf8.RuneCountInString(got))

	// Multi-byte text within the character budget passes through untouched.
	short := strings.Repeat("世", 100)
	assert.Equal(t, short, truncate(short, maxPromptChars))
}
