package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kelime/internal/models"
	"kelime/internal/store"
	"kelime/internal/store/memstore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeAnalyzer struct {
	mu    sync.Mutex
	words []string
}

func (f *fakeAnalyzer) AnalyzeWord(ctx context.Context, word string) models.WordAnalysis {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.words = append(f.words, word)
	return models.WordAnalysis{Turkish: "tr:" + word, Example: "ex:" + word, ExampleTurkish: "extr:" + word}
}

type fakeQuiz struct {
	questions []models.QuizQuestion
	got       []string
}

func (f *fakeQuiz) GenerateQuiz(ctx context.Context, words []string) []models.QuizQuestion {
	f.got = words
	return f.questions
}

func threeQuestions() []models.QuizQuestion {
	qs := make([]models.QuizQuestion, 3)
	for i := range qs {
		qs[i] = models.QuizQuestion{Question: "Q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "a"}
	}
	return qs
}

func newProfile(t *testing.T, s *memstore.Store, username string) *models.Profile {
	t.Helper()
	p, err := s.CreateProfile(context.Background(), store.NewProfile{Username: username, Password: "pw"})
	require.NoError(t, err)
	return p
}

func wordCount(t *testing.T, s store.Store, userID string) int {
	t.Helper()
	p, err := s.GetProfile(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.WordCount
}

// manualTimers collects delayed actions so tests can run them in order
type manualTimers struct {
	mu      sync.Mutex
	pending []func()
	delays  []time.Duration
}

func (m *manualTimers) afterFunc(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, f)
	m.delays = append(m.delays, d)
}

func (m *manualTimers) runAll() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, f := range pending {
		f()
	}
}
