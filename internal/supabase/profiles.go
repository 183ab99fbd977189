package supabase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"kelime/internal/models"
	"kelime/internal/security"
	"kelime/internal/store"
)

const profileSelect = "id,username,role,points,word_count,avatar_url,created_at"

type profileRow struct {
	models.Profile
	Password string `json:"password"`
}

// Login fetches the profile by username and verifies the stored password.
// Stored values that are not bcrypt hashes are legacy plaintext rows; they
// are compared in constant time and reported so they can be rehashed.
func (c *Client) Login(ctx context.Context, username, password string) (*models.Profile, error) {
	q := url.Values{}
	q.Set("select", profileSelect+",password")
	q.Set("username", eq(username))
	q.Set("limit", "1")

	var rows []profileRow
	if err := c.do(ctx, "login", request{method: http.MethodGet, path: "/profiles", query: q}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrInvalidCredentials
	}

	row := rows[0]
	if security.IsBcryptHash(row.Password) {
		if !security.CheckPassword(password, row.Password) {
			return nil, store.ErrInvalidCredentials
		}
		return &row.Profile, nil
	}

	if !security.CheckLegacyPassword(password, row.Password) {
		return nil, store.ErrInvalidCredentials
	}
	c.logger.Warn("Profile has a plaintext password; rehash it",
		slog.String("kind", "legacy_password"),
		slog.String("user_id", row.ID))
	return &row.Profile, nil
}

// GetProfile returns nil, nil when no row has the id
func (c *Client) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	q := url.Values{}
	q.Set("select", profileSelect)
	q.Set("id", eq(id))

	var rows []models.Profile
	if err := c.do(ctx, "get profile", request{method: http.MethodGet, path: "/profiles", query: q}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (c *Client) ListProfilesByPointsDesc(ctx context.Context) ([]models.Profile, error) {
	q := url.Values{}
	q.Set("select", profileSelect)
	q.Set("order", "points.desc,created_at.asc,username.asc")

	rows := []models.Profile{}
	if err := c.do(ctx, "list profiles", request{method: http.MethodGet, path: "/profiles", query: q}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) CreateProfile(ctx context.Context, np store.NewProfile) (*models.Profile, error) {
	hash, err := security.HashPassword(np.Password)
	if err != nil {
		return nil, err
	}
	role := np.Role
	if role == "" {
		role = models.RoleUser
	}

	body := map[string]any{
		"username":   np.Username,
		"password":   hash,
		"role":       role,
		"points":     0,
		"word_count": 0,
	}
	if np.AvatarURL != "" {
		body["avatar_url"] = np.AvatarURL
	}

	q := url.Values{}
	q.Set("select", profileSelect)

	var rows []models.Profile
	err = c.do(ctx, "create profile", request{method: http.MethodPost, path: "/profiles", query: q, body: body, returnRows: true}, &rows)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == "23505" {
			return nil, store.ErrUsernameTaken
		}
		return nil, err
	}
	if len(rows) == 0 {
		return nil, c.external("create profile", errors.New("no row returned"))
	}
	return &rows[0], nil
}

func (c *Client) UpdateAvatar(ctx context.Context, userID, avatarURL string) error {
	return c.patchProfile(ctx, "update avatar", userID, map[string]any{"avatar_url": avatarURL})
}

// IncrementPoints calls the add_points RPC
func (c *Client) IncrementPoints(ctx context.Context, userID string, delta int) error {
	body := map[string]any{"user_id_param": userID, "points": delta}
	return c.do(ctx, "add_points", request{method: http.MethodPost, path: "/rpc/add_points", body: body}, nil)
}

// IncrementWordCount calls the increment_word_count RPC
func (c *Client) IncrementWordCount(ctx context.Context, userID string) error {
	body := map[string]any{"user_id_param": userID}
	return c.do(ctx, "increment_word_count", request{method: http.MethodPost, path: "/rpc/increment_word_count", body: body}, nil)
}

// AdjustPoints reads the current points and writes back the sum
func (c *Client) AdjustPoints(ctx context.Context, userID string, delta int) error {
	p, err := c.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if p == nil {
		return store.ErrNotFound
	}
	return c.patchProfile(ctx, "adjust points", userID, map[string]any{"points": max(p.Points+delta, 0)})
}

// AdjustWordCount reads the current count and writes back the sum. A
// decrement of a zero count is skipped.
func (c *Client) AdjustWordCount(ctx context.Context, userID string, delta int) error {
	p, err := c.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if p == nil {
		return store.ErrNotFound
	}
	if delta < 0 && p.WordCount == 0 {
		return nil
	}
	return c.patchProfile(ctx, "adjust word count", userID, map[string]any{"word_count": max(p.WordCount+delta, 0)})
}

// RecountWordCount counts the profile's words and writes the result to
// word_count
func (c *Client) RecountWordCount(ctx context.Context, userID string) (int, error) {
	words, err := c.ListWordsByOwner(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := c.patchProfile(ctx, "recount word count", userID, map[string]any{"word_count": len(words)}); err != nil {
		return 0, err
	}
	return len(words), nil
}

func (c *Client) patchProfile(ctx context.Context, op, userID string, fields map[string]any) error {
	q := url.Values{}
	q.Set("id", eq(userID))
	q.Set("select", "id")

	var rows []struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, op, request{method: http.MethodPatch, path: "/profiles", query: q, body: fields, returnRows: true}, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return store.ErrNotFound
	}
	return nil
}
