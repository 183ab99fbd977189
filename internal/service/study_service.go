package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"kelime/internal/study"
	"kelime/internal/store"
)

const (
	DefaultQuizFeedbackDelay  = 2 * time.Second
	DefaultFlashcardFlipDelay = 200 * time.Millisecond
)

// StudyOptions configures a StudyService
type StudyOptions struct {
	// FeedbackDelay is how long an answered question stays on screen
	FeedbackDelay time.Duration
	// FlipDelay separates un-flipping a card from moving to the next one
	FlipDelay time.Duration
	// Rand drives word sampling and deck shuffles. Nil seeds a new source.
	Rand *rand.Rand
}

// StudyService owns one study machine per user and runs the delayed
// transitions and the score submission around them
type StudyService struct {
	store         store.Store
	quiz          QuizGenerator
	feedbackDelay time.Duration
	flipDelay     time.Duration
	logger        *slog.Logger

	// afterFunc schedules delayed actions; replaced in tests
	afterFunc func(d time.Duration, f func())

	mu       sync.Mutex
	sessions map[string]*studySession

	rngMu sync.Mutex
	rng   *rand.Rand
}

type studySession struct {
	mu sync.Mutex
	m  *study.Machine
}

// NewStudyService creates a new study service
func NewStudyService(s store.Store, quiz QuizGenerator, opts StudyOptions, logger *slog.Logger) *StudyService {
	if opts.FeedbackDelay <= 0 {
		opts.FeedbackDelay = DefaultQuizFeedbackDelay
	}
	if opts.FlipDelay <= 0 {
		opts.FlipDelay = DefaultFlashcardFlipDelay
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &StudyService{
		store:         s,
		quiz:          quiz,
		feedbackDelay: opts.FeedbackDelay,
		flipDelay:     opts.FlipDelay,
		logger:        logger,
		afterFunc:     func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		sessions:      make(map[string]*studySession),
		rng:           opts.Rand,
	}
}

func (s *StudyService) session(userID string) *studySession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &studySession{m: study.NewMachine()}
		s.sessions[userID] = sess
	}
	return sess
}

// withRand runs fn with exclusive use of the shared random source
func (s *StudyService) withRand(fn func(rng *rand.Rand)) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	fn(s.rng)
}

// View returns the user's current study state
func (s *StudyService) View(userID string) study.View {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.m.View()
}

// StartQuiz loads the user's words, asks for a quiz over a random sample
// and enters it. Results arriving after the user left the menu are dropped.
func (s *StudyService) StartQuiz(ctx context.Context, userID string) (study.View, error) {
	sess := s.session(userID)
	sess.mu.Lock()
	epoch := sess.m.Epoch()
	sess.mu.Unlock()

	words, err := s.store.ListWordsByOwner(ctx, userID)
	if err != nil {
		return study.View{}, fmt.Errorf("failed to load words: %w", err)
	}

	var sample []string
	sess.mu.Lock()
	s.withRand(func(rng *rand.Rand) {
		sample, err = sess.m.PrepareQuiz(epoch, words, rng)
	})
	sess.mu.Unlock()
	if err != nil {
		return study.View{}, err
	}

	questions := s.quiz.GenerateQuiz(ctx, sample)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.m.StartQuiz(epoch, questions); err != nil {
		return sess.m.View(), err
	}
	s.logger.Info("Quiz started", slog.String("user_id", userID), slog.Int("questions", len(questions)))
	return sess.m.View(), nil
}

// Answer records the user's choice for the current question and schedules
// the move to the next question after the feedback delay
func (s *StudyService) Answer(ctx context.Context, userID, option string) (study.AnswerResult, error) {
	sess := s.session(userID)
	sess.mu.Lock()
	res, err := sess.m.Answer(option)
	sess.mu.Unlock()
	if err != nil || !res.Accepted {
		return res, err
	}

	detached := context.WithoutCancel(ctx)
	s.afterFunc(s.feedbackDelay, func() {
		s.advance(detached, userID, sess, res.Epoch)
	})
	return res, nil
}

func (s *StudyService) advance(ctx context.Context, userID string, sess *studySession, epoch uint64) {
	sess.mu.Lock()
	res, err := sess.m.Advance(epoch)
	sess.mu.Unlock()
	if err != nil {
		s.logger.Debug("Dropping stale quiz advance", slog.String("user_id", userID), slog.Any("error", err))
		return
	}
	if res.Submit {
		s.submitScore(ctx, userID, res.Score)
	}
}

// submitScore adds a finished quiz's score to the user's points, falling
// back to a manual update when the atomic increment fails
func (s *StudyService) submitScore(ctx context.Context, userID string, score int) {
	if err := s.store.IncrementPoints(ctx, userID, score); err != nil {
		consistencyWarning(s.logger, "Points increment failed, falling back to manual update", userID, err)
		if err := s.store.AdjustPoints(ctx, userID, score); err != nil {
			s.logger.Error("Failed to submit quiz score",
				slog.String("user_id", userID),
				slog.Int("score", score),
				slog.Any("error", err))
			return
		}
	}
	s.logger.Info("Quiz score submitted", slog.String("user_id", userID), slog.Int("score", score))
}

// StartFlashcards loads the user's words and enters a shuffled deck
func (s *StudyService) StartFlashcards(ctx context.Context, userID string) (study.View, error) {
	sess := s.session(userID)
	sess.mu.Lock()
	epoch := sess.m.Epoch()
	sess.mu.Unlock()

	words, err := s.store.ListWordsByOwner(ctx, userID)
	if err != nil {
		return study.View{}, fmt.Errorf("failed to load words: %w", err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.withRand(func(rng *rand.Rand) {
		err = sess.m.StartFlashcards(epoch, words, rng)
	})
	return sess.m.View(), err
}

// Flip turns the current card over
func (s *StudyService) Flip(userID string) (study.View, error) {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	err := sess.m.Flip()
	return sess.m.View(), err
}

// Navigate un-flips the current card at once and moves step cards after
// the flip delay
func (s *StudyService) Navigate(userID string, step int) (study.View, error) {
	sess := s.session(userID)
	sess.mu.Lock()
	epoch, err := sess.m.Unflip()
	view := sess.m.View()
	sess.mu.Unlock()
	if err != nil {
		return view, err
	}

	s.afterFunc(s.flipDelay, func() {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		if err := sess.m.Move(epoch, step); err != nil && !errors.Is(err, study.ErrStale) {
			s.logger.Warn("Flashcard move failed", slog.String("user_id", userID), slog.Any("error", err))
		}
	})
	return view, nil
}

// Menu returns the user to the study menu. A quiz left while its last
// answer is on screen is finished and its score submitted first.
func (s *StudyService) Menu(ctx context.Context, userID string) study.View {
	sess := s.session(userID)
	sess.mu.Lock()
	res := sess.m.Menu()
	view := sess.m.View()
	sess.mu.Unlock()

	if res.Submit {
		s.submitScore(context.WithoutCancel(ctx), userID, res.Score)
	}
	return view
}
