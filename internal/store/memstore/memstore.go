// Package memstore is an in-process store.Store used for demos and tests
package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"kelime/internal/models"
	"kelime/internal/security"
	"kelime/internal/store"
)

// Operation names accepted by FailOn
const (
	OpLogin              = "login"
	OpGetProfile         = "get_profile"
	OpListProfiles       = "list_profiles"
	OpCreateProfile      = "create_profile"
	OpUpdateAvatar       = "update_avatar"
	OpCreateWord         = "create_word"
	OpDeleteWord         = "delete_word"
	OpListWordsByOwner   = "list_words_by_owner"
	OpListAllWords       = "list_all_words"
	OpListRecentWords    = "list_recent_words"
	OpIncrementPoints    = "increment_points"
	OpIncrementWordCount = "increment_word_count"
	OpAdjustPoints       = "adjust_points"
	OpAdjustWordCount    = "adjust_word_count"
	OpRecountWordCount   = "recount_word_count"
)

type profileRow struct {
	models.Profile
	passwordHash string
}

// Store keeps profiles and words in maps guarded by a mutex
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*profileRow
	words    map[string]models.Word
	failures map[string]error

	// Now stamps created_at on new rows
	Now func() time.Time
}

var _ store.Store = (*Store)(nil)

// New creates an empty store
func New() *Store {
	return &Store{
		profiles: make(map[string]*profileRow),
		words:    make(map[string]models.Word),
		failures: make(map[string]error),
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// FailOn makes every later call of op return err. A nil err clears it.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) fail(op string) error {
	if err, ok := s.failures[op]; ok {
		return &store.ExternalError{Service: "memstore", Op: op, Err: err}
	}
	return nil
}

// PutWord inserts a fully formed word, bypassing the counters. Used to seed
// fixtures with specific timestamps.
func (s *Store) PutWord(w models.Word) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.Status == "" {
		w.Status = models.StatusNew
	}
	s.words[w.ID] = w
}

func (s *Store) Login(ctx context.Context, username, password string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail(OpLogin); err != nil {
		return nil, err
	}

	for _, row := range s.profiles {
		if row.Username != username {
			continue
		}
		if !security.CheckPassword(password, row.passwordHash) {
			return nil, store.ErrInvalidCredentials
		}
		p := row.Profile
		return &p, nil
	}
	return nil, store.ErrInvalidCredentials
}

func (s *Store) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail(OpGetProfile); err != nil {
		return nil, err
	}

	row, ok := s.profiles[id]
	if !ok {
		return nil, nil
	}
	p := row.Profile
	return &p, nil
}

func (s *Store) ListProfilesByPointsDesc(ctx context.Context) ([]models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail(OpListProfiles); err != nil {
		return nil, err
	}

	out := make([]models.Profile, 0, len(s.profiles))
	for _, row := range s.profiles {
		out = append(out, row.Profile)
	}
	slices.SortFunc(out, func(a, b models.Profile) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Username, b.Username)
	})
	return out, nil
}

func (s *Store) CreateProfile(ctx context.Context, np store.NewProfile) (*models.Profile, error) {
	hash, err := security.HashPassword(np.Password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpCreateProfile); err != nil {
		return nil, err
	}
	for _, row := range s.profiles {
		if row.Username == np.Username {
			return nil, store.ErrUsernameTaken
		}
	}

	role := np.Role
	if role == "" {
		role = models.RoleUser
	}
	row := &profileRow{
		Profile: models.Profile{
			ID:        uuid.NewString(),
			Username:  np.Username,
			Role:      role,
			AvatarURL: np.AvatarURL,
			CreatedAt: s.Now(),
		},
		passwordHash: hash,
	}
	s.profiles[row.ID] = row
	p := row.Profile
	return &p, nil
}

func (s *Store) UpdateAvatar(ctx context.Context, userID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpUpdateAvatar); err != nil {
		return err
	}

	row, ok := s.profiles[userID]
	if !ok {
		return store.ErrNotFound
	}
	row.AvatarURL = url
	return nil
}

func (s *Store) CreateWord(ctx context.Context, nw store.NewWord) (*models.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpCreateWord); err != nil {
		return nil, err
	}

	w := models.Word{
		ID:              uuid.NewString(),
		UserID:          nw.UserID,
		English:         nw.English,
		Turkish:         nw.Turkish,
		ExampleSentence: nw.ExampleSentence,
		ExampleTurkish:  nw.ExampleTurkish,
		Status:          models.StatusNew,
		CreatedAt:       s.Now(),
	}
	s.words[w.ID] = w
	return &w, nil
}

func (s *Store) DeleteWord(ctx context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpDeleteWord); err != nil {
		return err
	}

	w, ok := s.words[id]
	if !ok || w.UserID != ownerID {
		return store.ErrNotFound
	}
	delete(s.words, id)
	return nil
}

func (s *Store) ListWordsByOwner(ctx context.Context, ownerID string) ([]models.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail(OpListWordsByOwner); err != nil {
		return nil, err
	}

	var out []models.Word
	for _, w := range s.words {
		if w.UserID == ownerID {
			out = append(out, w)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *Store) ListAllWords(ctx context.Context) ([]models.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail(OpListAllWords); err != nil {
		return nil, err
	}

	out := make([]models.Word, 0, len(s.words))
	for _, w := range s.words {
		out = append(out, w)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *Store) ListRecentWords(ctx context.Context, limit int) ([]models.RecentWord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail(OpListRecentWords); err != nil {
		return nil, err
	}

	all := make([]models.Word, 0, len(s.words))
	for _, w := range s.words {
		all = append(all, w)
	}
	sortNewestFirst(all)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	out := make([]models.RecentWord, 0, len(all))
	for _, w := range all {
		rw := models.RecentWord{Word: w}
		if row, ok := s.profiles[w.UserID]; ok {
			rw.Owner = models.Owner{Username: row.Username, AvatarURL: row.AvatarURL}
		}
		out = append(out, rw)
	}
	return out, nil
}

func (s *Store) IncrementPoints(ctx context.Context, userID string, delta int) error {
	return s.bump(OpIncrementPoints, userID, func(p *models.Profile) { p.Points += delta })
}

func (s *Store) IncrementWordCount(ctx context.Context, userID string) error {
	return s.bump(OpIncrementWordCount, userID, func(p *models.Profile) { p.WordCount++ })
}

func (s *Store) AdjustPoints(ctx context.Context, userID string, delta int) error {
	return s.bump(OpAdjustPoints, userID, func(p *models.Profile) { p.Points = max(p.Points+delta, 0) })
}

func (s *Store) AdjustWordCount(ctx context.Context, userID string, delta int) error {
	return s.bump(OpAdjustWordCount, userID, func(p *models.Profile) { p.WordCount = max(p.WordCount+delta, 0) })
}

func (s *Store) RecountWordCount(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpRecountWordCount); err != nil {
		return 0, err
	}

	row, ok := s.profiles[userID]
	if !ok {
		return 0, store.ErrNotFound
	}
	count := 0
	for _, w := range s.words {
		if w.UserID == userID {
			count++
		}
	}
	row.WordCount = count
	return count, nil
}

func (s *Store) bump(op, userID string, apply func(*models.Profile)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(op); err != nil {
		return err
	}

	row, ok := s.profiles[userID]
	if !ok {
		return store.ErrNotFound
	}
	apply(&row.Profile)
	return nil
}

func sortNewestFirst(words []models.Word) {
	slices.SortStableFunc(words, func(a, b models.Word) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
