package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	text    string
	err     error
	prompts []string
	schemas []*genai.Schema
	models  []string
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, model, prompt string, schema *genai.Schema) (string, error) {
	f.models = append(f.models, model)
	f.prompts = append(f.prompts, prompt)
	f.schemas = append(f.schemas, schema)
	return f.text, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAnalyzeWordWithoutKey(t *testing.T) {
	c := NewClient(nil, "", 0, discardLogger())
	assert.False(t, c.Enabled())

	got := c.AnalyzeWord(context.Background(), "apple")
	assert.Equal(t, MissingKeyAnalysis, got)
	assert.True(t, got.Placeholder)
}

func TestAnalyzeWord(t *testing.T) {
	gen := &fakeGenerator{text: `{"turkish":"elma","definition":"a fruit","example":"I eat an apple.","example_turkish":"Bir elma yerim."}`}
	c := NewClient(gen, "", 0, discardLogger())

	got := c.AnalyzeWord(context.Background(), "apple")
	assert.Equal(t, "elma", got.Turkish)
	assert.Equal(t, "Bir elma yerim.", got.ExampleTurkish)
	assert.False(t, got.Placeholder)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], `"apple"`)
	assert.Equal(t, DefaultModel, gen.models[0])
	assert.Same(t, analysisSchema, gen.schemas[0])
}

func TestAnalyzeWordFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{name: "call error", gen: &fakeGenerator{err: errors.New("quota exceeded")}},
		{name: "empty text", gen: &fakeGenerator{text: "  "}},
		{name: "invalid json", gen: &fakeGenerator{text: "not json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.gen, "", 0, discardLogger())
			assert.Equal(t, FailedAnalysis, c.AnalyzeWord(context.Background(), "apple"))
		})
	}
}

const threeQuestions = `[
 {"question":"Q1","options":["a","b","c","d"],"correctAnswer":"a","explanation":"e1"},
 {"question":"Q2","options":["a","b","c","d"],"correctAnswer":"b","explanation":"e2"},
 {"question":"Q3","options":["a","b","c","d"],"correctAnswer":"c","explanation":"e3"}
]`

func TestGenerateQuiz(t *testing.T) {
	gen := &fakeGenerator{text: threeQuestions}
	c := NewClient(gen, "gemini-test", 0, discardLogger())

	qs := c.GenerateQuiz(context.Background(), []string{"one", "two", "three", "four", "five", "six"})
	require.Len(t, qs, 3)
	assert.Equal(t, "b", qs[1].CorrectAnswer)

	assert.Contains(t, gen.prompts[0], "one, two, three, four, five.")
	assert.NotContains(t, gen.prompts[0], "six")
	assert.Equal(t, "gemini-test", gen.models[0])
}

func TestGenerateQuizEmptyCases(t *testing.T) {
	tests := []struct {
		name  string
		gen   Generator
		words []string
	}{
		{name: "no key", gen: nil, words: []string{"a"}},
		{name: "no words", gen: &fakeGenerator{text: threeQuestions}, words: nil},
		{name: "call error", gen: &fakeGenerator{err: errors.New("boom")}, words: []string{"a"}},
		{name: "too few valid", gen: &fakeGenerator{text: `[
 {"question":"Q1","options":["a","b","c","d"],"correctAnswer":"a","explanation":""},
 {"question":"Q2","options":["a","b","c"],"correctAnswer":"a","explanation":""},
 {"question":"Q3","options":["a","b","c","d"],"correctAnswer":"z","explanation":""}
]`}, words: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.gen, "", 0, discardLogger())
			assert.Empty(t, c.GenerateQuiz(context.Background(), tt.words))
		})
	}
}

func TestGenerateQuizTruncatesExtraQuestions(t *testing.T) {
	gen := &fakeGenerator{text: `[
 {"question":"Q1","options":["a","b","c","d"],"correctAnswer":"a","explanation":""},
 {"question":"Q2","options":["a","b","c","d"],"correctAnswer":"a","explanation":""},
 {"question":"Q3","options":["a","b","c","d"],"correctAnswer":"a","explanation":""},
 {"question":"Q4","options":["a","b","c","d"],"correctAnswer":"a","explanation":""}
]`}
	c := NewClient(gen, "", 0, discardLogger())

	qs := c.GenerateQuiz(context.Background(), []string{"a"})
	require.Len(t, qs, 3)
	assert.Equal(t, "Q3", qs[2].Question)
}

type slowGenerator struct{}

func (slowGenerator) GenerateJSON(ctx context.Context, model, prompt string, schema *genai.Schema) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestTimeoutFallsBack(t *testing.T) {
	c := NewClient(slowGenerator{}, "", 10*time.Millisecond, discardLogger())
	assert.Equal(t, FailedAnalysis, c.AnalyzeWord(context.Background(), "apple"))
}

func TestNewGeminiClientWithoutKey(t *testing.T) {
	c, err := NewGeminiClient(context.Background(), "", "", 0, discardLogger())
	require.NoError(t, err)
	assert.False(t, c.Enabled())
}
