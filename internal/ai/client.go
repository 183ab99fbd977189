// Package ai wraps the Gemini text-generation API for word analysis and
// quiz generation. Every operation degrades to a placeholder or an empty
// result instead of returning an error.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"kelime/internal/models"
)

const (
	DefaultModel = "gemini-2.5-flash"

	// QuizContextWords is how many words are sent to the quiz prompt
	QuizContextWords = 5
	// QuizQuestions is the size of a generated quiz
	QuizQuestions = 3
	quizOptions   = 4
)

var (
	// MissingKeyAnalysis is returned by AnalyzeWord when no API key is configured
	MissingKeyAnalysis = models.WordAnalysis{
		Turkish:        "API Key Eksik",
		Definition:     "Lütfen API Key giriniz.",
		Example:        "Example sentence unavailable.",
		ExampleTurkish: "Örnek cümle mevcut değil.",
		Placeholder:    true,
	}

	// FailedAnalysis is returned by AnalyzeWord when the call fails
	FailedAnalysis = models.WordAnalysis{
		Turkish:        "Hata",
		Definition:     "Çeviri alınamadı.",
		Example:        "-",
		ExampleTurkish: "-",
		Placeholder:    true,
	}

	errEmptyResponse = errors.New("empty response")
)

// Generator produces a JSON document for prompt constrained by schema
type Generator interface {
	GenerateJSON(ctx context.Context, model, prompt string, schema *genai.Schema) (string, error)
}

// Client is the analysis client used by the word and study flows
type Client struct {
	gen     Generator
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient creates a client backed by gen. A nil gen behaves as if no API
// key were configured. A zero timeout leaves calls bounded only by ctx.
func NewClient(gen Generator, model string, timeout time.Duration, logger *slog.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{gen: gen, model: model, timeout: timeout, logger: logger}
}

// Enabled reports whether an API key is configured
func (c *Client) Enabled() bool {
	return c.gen != nil
}

// AnalyzeWord translates and annotates word
func (c *Client) AnalyzeWord(ctx context.Context, word string) models.WordAnalysis {
	if c.gen == nil {
		return MissingKeyAnalysis
	}

	prompt := fmt.Sprintf(`Analyze the English word "%s". Return a JSON object with:
1. "turkish": the Turkish translation.
2. "definition": A simple English definition suitable for a learner.
3. "example": A simple example sentence in English using the word.
4. "example_turkish": The Turkish translation of that example sentence.`, word)

	var out models.WordAnalysis
	if err := c.generate(ctx, prompt, analysisSchema, &out); err != nil {
		c.logger.Error("Word analysis failed", slog.String("word", word), slog.Any("error", err))
		return FailedAnalysis
	}
	return out
}

// GenerateQuiz asks for a 3-question multiple-choice quiz over the first
// five words. It returns exactly QuizQuestions valid questions or none.
func (c *Client) GenerateQuiz(ctx context.Context, words []string) []models.QuizQuestion {
	if c.gen == nil || len(words) == 0 {
		return nil
	}
	if len(words) > QuizContextWords {
		words = words[:QuizContextWords]
	}

	prompt := fmt.Sprintf(`Create a multiple-choice quiz (%d questions) based on these words: %s.
Return a JSON array of objects. Each object should have:
- question: The question text.
- options: Array of %d strings.
- correctAnswer: The correct string from options.
- explanation: Brief explanation.`, QuizQuestions, strings.Join(words, ", "), quizOptions)

	var raw []models.QuizQuestion
	if err := c.generate(ctx, prompt, quizSchema, &raw); err != nil {
		c.logger.Error("Quiz generation failed", slog.Int("words", len(words)), slog.Any("error", err))
		return nil
	}

	valid := make([]models.QuizQuestion, 0, QuizQuestions)
	for _, q := range raw {
		if len(q.Options) != quizOptions || !q.HasOption(q.CorrectAnswer) {
			c.logger.Warn("Dropping malformed quiz question", slog.String("question", q.Question))
			continue
		}
		valid = append(valid, q)
		if len(valid) == QuizQuestions {
			return valid
		}
	}

	c.logger.Warn("Quiz response had too few valid questions",
		slog.Int("valid", len(valid)),
		slog.Int("received", len(raw)))
	return nil
}

func (c *Client) generate(ctx context.Context, prompt string, schema *genai.Schema, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.gen.GenerateJSON(ctx, c.model, prompt, schema)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errEmptyResponse
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
