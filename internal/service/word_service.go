package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"kelime/internal/models"
	"kelime/internal/store"
)

// DefaultImportLimit caps how many entries one upload adds
const DefaultImportLimit = 3

// ErrWordRequired is returned when the word text is blank
var ErrWordRequired = errors.New("word is required")

// WordService adds, deletes, lists and imports a user's words
type WordService struct {
	store       store.Store
	analyzer    WordAnalyzer
	importLimit int
	logger      *slog.Logger
}

// NewWordService creates a new word service
func NewWordService(s store.Store, analyzer WordAnalyzer, importLimit int, logger *slog.Logger) *WordService {
	if importLimit <= 0 {
		importLimit = DefaultImportLimit
	}
	return &WordService{store: s, analyzer: analyzer, importLimit: importLimit, logger: logger}
}

// Add analyzes text and saves it as a new word owned by userID, then bumps
// the owner's word count. A failed counter update is logged and never
// undoes the insert.
func (s *WordService) Add(ctx context.Context, userID, text string) (*models.Word, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrWordRequired
	}

	analysis := s.analyzer.AnalyzeWord(ctx, text)

	w, err := s.store.CreateWord(ctx, store.NewWord{
		UserID:          userID,
		English:         text,
		Turkish:         analysis.Turkish,
		ExampleSentence: analysis.Example,
		ExampleTurkish:  analysis.ExampleTurkish,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create word: %w", err)
	}

	if err := s.store.IncrementWordCount(ctx, userID); err != nil {
		consistencyWarning(s.logger, "Word count increment failed, falling back to manual update", userID, err)
		if err := s.store.AdjustWordCount(ctx, userID, 1); err != nil {
			consistencyWarning(s.logger, "Word count fallback update failed", userID, err)
		}
	}

	s.logger.Info("Word added",
		slog.String("user_id", userID),
		slog.String("word_id", w.ID),
		slog.Bool("placeholder_analysis", analysis.Placeholder))
	return w, nil
}

// Delete removes one of userID's words and decrements the word count
func (s *WordService) Delete(ctx context.Context, userID, wordID string) error {
	if err := s.store.DeleteWord(ctx, wordID, userID); err != nil {
		return fmt.Errorf("failed to delete word: %w", err)
	}

	if err := s.store.AdjustWordCount(ctx, userID, -1); err != nil {
		consistencyWarning(s.logger, "Word count decrement failed", userID, err)
	}
	return nil
}

// List returns userID's words, newest first
func (s *WordService) List(ctx context.Context, userID string) ([]models.Word, error) {
	words, err := s.store.ListWordsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list words: %w", err)
	}
	if words == nil {
		words = []models.Word{}
	}
	return words, nil
}

// ImportError describes one entry that could not be added
type ImportError struct {
	Line  int    `json:"line"`
	Word  string `json:"word"`
	Error string `json:"error"`
}

// ImportReport summarizes an upload
type ImportReport struct {
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Added  int           `json:"added"`
	Words  []models.Word `json:"words"`
	Errors []ImportError `json:"errors,omitempty"`
}

// Import parses an uploaded word list and adds its first entries through
// Add, one after another
func (s *WordService) Import(ctx context.Context, userID, filename string, r io.Reader) (*ImportReport, error) {
	entries, err := ParseImport(filename, r)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{Total: len(entries), Limit: s.importLimit, Words: []models.Word{}}
	if len(entries) > s.importLimit {
		entries = entries[:s.importLimit]
	}

	for i, entry := range entries {
		w, err := s.Add(ctx, userID, entry)
		if err != nil {
			s.logger.Error("Import entry failed",
				slog.String("user_id", userID),
				slog.String("word", entry),
				slog.Any("error", err))
			report.Errors = append(report.Errors, ImportError{Line: i + 1, Word: entry, Error: err.Error()})
			continue
		}
		report.Added++
		report.Words = append(report.Words, *w)
	}

	s.logger.Info("Import finished",
		slog.String("user_id", userID),
		slog.String("file", filename),
		slog.Int("total", report.Total),
		slog.Int("added", report.Added))
	return report, nil
}
