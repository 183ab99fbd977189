// Package study holds the per-user quiz and flashcard state machine.
//
// The machine does no I/O and starts no timers. Callers read the current
// epoch, run their store or AI calls, and hand the results back together
// with that epoch; results issued under an older epoch are rejected with
// ErrStale. Every mode change bumps the epoch.
package study

import (
	"errors"
	"math/rand/v2"

	"kelime/internal/models"
)

// Mode is the state of a study session
type Mode string

const (
	ModeMenu         Mode = "menu"
	ModeQuizActive   Mode = "quiz_active"
	ModeQuizFinished Mode = "quiz_finished"
	ModeFlashcards   Mode = "flashcards"
)

const (
	MinQuizWords     = 3
	QuizSampleSize   = 5
	PointsPerCorrect = 10
)

var (
	ErrNotEnoughQuizWords = errors.New("Test oluşturmak için en az 3 kelime eklemelisin!")
	ErrNoFlashcardWords   = errors.New("Kelime kartları için önce kelime eklemelisin!")
	ErrQuizUnavailable    = errors.New("Test oluşturulamadı, lütfen tekrar deneyin.")

	// ErrWrongMode is returned for an action the current mode does not accept
	ErrWrongMode = errors.New("action not allowed in the current mode")
	// ErrStale is returned when the epoch changed since the caller read it
	ErrStale = errors.New("study session changed")
)

// Machine is one user's study session. It is not safe for concurrent use.
type Machine struct {
	mode  Mode
	epoch uint64

	questions []models.QuizQuestion
	index     int
	score     int
	answered  bool
	selected  string
	submitted bool

	cards     []models.Word
	cardIndex int
	flipped   bool
}

// NewMachine returns a machine in the menu
func NewMachine() *Machine {
	return &Machine{mode: ModeMenu}
}

func (m *Machine) Mode() Mode {
	return m.mode
}

// Epoch identifies the current mode instance
func (m *Machine) Epoch() uint64 {
	return m.epoch
}

func (m *Machine) transition(mode Mode) {
	m.mode = mode
	m.epoch++
}

func (m *Machine) check(epoch uint64, mode Mode) error {
	if epoch != m.epoch {
		return ErrStale
	}
	if m.mode != mode {
		return ErrWrongMode
	}
	return nil
}

// PrepareQuiz validates the user's words and picks the sample whose English
// text seeds the quiz prompt
func (m *Machine) PrepareQuiz(epoch uint64, words []models.Word, rng *rand.Rand) ([]string, error) {
	if err := m.check(epoch, ModeMenu); err != nil {
		return nil, err
	}
	if len(words) < MinQuizWords {
		return nil, ErrNotEnoughQuizWords
	}

	sample := SampleWords(rng, words, QuizSampleSize)
	english := make([]string, len(sample))
	for i, w := range sample {
		english[i] = w.English
	}
	return english, nil
}

// StartQuiz enters quiz_active with the generated questions. An empty list
// leaves the machine in the menu.
func (m *Machine) StartQuiz(epoch uint64, questions []models.QuizQuestion) error {
	if err := m.check(epoch, ModeMenu); err != nil {
		return err
	}
	if len(questions) == 0 {
		return ErrQuizUnavailable
	}

	m.questions = questions
	m.index = 0
	m.score = 0
	m.answered = false
	m.selected = ""
	m.submitted = false
	m.transition(ModeQuizActive)
	return nil
}

// AnswerResult reports the outcome of Answer
type AnswerResult struct {
	// Accepted is false when the current question was already answered
	Accepted      bool
	Correct       bool
	CorrectAnswer string
	Explanation   string
	Score         int
	// Epoch is the token to pass to Advance
	Epoch uint64
}

// Answer records the first selection for the current question
func (m *Machine) Answer(option string) (AnswerResult, error) {
	if m.mode != ModeQuizActive {
		return AnswerResult{}, ErrWrongMode
	}

	q := m.questions[m.index]
	res := AnswerResult{
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Epoch:         m.epoch,
	}
	if m.answered {
		res.Correct = m.selected == q.CorrectAnswer
		res.Score = m.score
		return res, nil
	}

	m.answered = true
	m.selected = option
	res.Accepted = true
	if option == q.CorrectAnswer {
		res.Correct = true
		m.score += PointsPerCorrect
	}
	res.Score = m.score
	return res, nil
}

// AdvanceResult reports the outcome of Advance
type AdvanceResult struct {
	Finished bool
	Score    int
	// Submit is true exactly once per quiz, when it finished with a
	// positive score that has not been submitted yet
	Submit bool
}

// Advance moves past an answered question, finishing the quiz after the
// last one
func (m *Machine) Advance(epoch uint64) (AdvanceResult, error) {
	if err := m.check(epoch, ModeQuizActive); err != nil {
		return AdvanceResult{}, err
	}
	if !m.answered {
		return AdvanceResult{}, ErrWrongMode
	}

	if m.index < len(m.questions)-1 {
		m.index++
		m.answered = false
		m.selected = ""
		m.epoch++
		return AdvanceResult{Score: m.score}, nil
	}

	m.transition(ModeQuizFinished)
	res := AdvanceResult{Finished: true, Score: m.score}
	if m.score > 0 && !m.submitted {
		m.submitted = true
		res.Submit = true
	}
	return res, nil
}

// StartFlashcards enters flashcards with a shuffled deck of words
func (m *Machine) StartFlashcards(epoch uint64, words []models.Word, rng *rand.Rand) error {
	if err := m.check(epoch, ModeMenu); err != nil {
		return err
	}
	if len(words) == 0 {
		return ErrNoFlashcardWords
	}

	m.cards = Shuffle(rng, words)
	m.cardIndex = 0
	m.flipped = false
	m.transition(ModeFlashcards)
	return nil
}

// Flip toggles the visible side of the current card
func (m *Machine) Flip() error {
	if m.mode != ModeFlashcards {
		return ErrWrongMode
	}
	m.flipped = !m.flipped
	return nil
}

// Unflip shows the front of the card and returns the epoch to pass to Move
func (m *Machine) Unflip() (uint64, error) {
	if m.mode != ModeFlashcards {
		return 0, ErrWrongMode
	}
	m.flipped = false
	return m.epoch, nil
}

// Move steps the deck by step cards, wrapping in both directions
func (m *Machine) Move(epoch uint64, step int) error {
	if err := m.check(epoch, ModeFlashcards); err != nil {
		return err
	}
	n := len(m.cards)
	m.cardIndex = ((m.cardIndex+step)%n + n) % n
	return nil
}

// Menu returns to the menu from any mode, dropping quiz and deck state.
// Leaving a quiz whose last question is answered finishes it first; the
// result carries the score to submit.
func (m *Machine) Menu() AdvanceResult {
	var res AdvanceResult
	if m.mode == ModeQuizActive && m.answered && m.index == len(m.questions)-1 {
		res, _ = m.Advance(m.epoch)
	}

	m.questions = nil
	m.cards = nil
	m.index, m.score, m.cardIndex = 0, 0, 0
	m.answered, m.flipped = false, false
	m.selected = ""
	m.transition(ModeMenu)
	return res
}
