// Package service holds the application flows that sit between the HTTP
// handlers and the store and AI clients
package service

import (
	"context"
	"log/slog"

	"kelime/internal/models"
)

// KindConsistencyWarning tags logs about a denormalized counter that may
// have drifted from the rows it mirrors
const KindConsistencyWarning = "consistency_warning"

// WordAnalyzer annotates a new word. It never fails.
type WordAnalyzer interface {
	AnalyzeWord(ctx context.Context, word string) models.WordAnalysis
}

// QuizGenerator builds a quiz from English words. An empty result means no
// quiz could be generated.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, words []string) []models.QuizQuestion
}

func consistencyWarning(logger *slog.Logger, msg, userID string, err error) {
	logger.Warn(msg,
		slog.String("kind", KindConsistencyWarning),
		slog.String("user_id", userID),
		slog.Any("error", err))
}
