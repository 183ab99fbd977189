package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"kelime/internal/credentials"
	"kelime/internal/models"
	"kelime/internal/store"
)

// ErrUsernameRequired is returned when a profile is created without a name
var ErrUsernameRequired = errors.New("username is required")

// AuthService handles login and profile administration
type AuthService struct {
	store  store.Store
	logger *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(s store.Store, logger *slog.Logger) *AuthService {
	return &AuthService{store: s, logger: logger}
}

// Login authenticates a username/password pair
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Profile, error) {
	p, err := s.store.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User logged in", slog.String("user_id", p.ID), slog.String("role", p.Role))
	return p, nil
}

// Bootstrap creates an admin profile when the store has none yet. It does
// nothing unless both username and password are set.
func (s *AuthService) Bootstrap(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}

	profiles, err := s.store.ListProfilesByPointsDesc(ctx)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	if len(profiles) > 0 {
		return nil
	}

	p, err := s.store.CreateProfile(ctx, store.NewProfile{
		Username: username,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	s.logger.Info("Created bootstrap admin", slog.String("user_id", p.ID), slog.String("username", p.Username))
	return nil
}

// CreatedProfile is the result of CreateProfile. GeneratedPassword is set
// only when the caller left the password empty.
type CreatedProfile struct {
	Profile           *models.Profile `json:"profile"`
	GeneratedPassword string          `json:"generated_password,omitempty"`
}

// ListProfiles returns every profile, highest points first
func (s *AuthService) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	profiles, err := s.store.ListProfilesByPointsDesc(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// CreateProfile adds a family member with the user role and zeroed
// counters. An empty password is replaced by a generated one.
func (s *AuthService) CreateProfile(ctx context.Context, username, password, avatarURL string) (*CreatedProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	var generated string
	if password == "" {
		var err error
		generated, err = credentials.GeneratePassword(credentials.DefaultPasswordLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate password: %w", err)
		}
		password = generated
	}

	p, err := s.store.CreateProfile(ctx, store.NewProfile{
		Username:  username,
		Password:  password,
		Role:      models.RoleUser,
		AvatarURL: strings.TrimSpace(avatarURL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("Profile created", slog.String("user_id", p.ID), slog.String("username", p.Username))
	return &CreatedProfile{Profile: p, GeneratedPassword: generated}, nil
}

// SetAvatar stores a profile's avatar URL. An empty URL clears it.
func (s *AuthService) SetAvatar(ctx context.Context, userID, avatarURL string) error {
	if err := s.store.UpdateAvatar(ctx, userID, strings.TrimSpace(avatarURL)); err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	return nil
}
