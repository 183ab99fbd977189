package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"kelime/internal/models"
	"kelime/internal/store"
)

const (
	wordSelect = "id,user_id,english,turkish,example_sentence,example_turkish,status,created_at"
	// pageSize stays under the default PostgREST max-rows
	pageSize = 1000
)

func (c *Client) CreateWord(ctx context.Context, nw store.NewWord) (*models.Word, error) {
	body := map[string]any{
		"user_id":          nw.UserID,
		"english":          nw.English,
		"turkish":          nw.Turkish,
		"example_sentence": nw.ExampleSentence,
		"example_turkish":  nw.ExampleTurkish,
		"status":           models.StatusNew,
	}
	q := url.Values{}
	q.Set("select", wordSelect)

	var rows []models.Word
	if err := c.do(ctx, "create word", request{method: http.MethodPost, path: "/words", query: q, body: body, returnRows: true}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, c.external("create word", errors.New("no row returned"))
	}
	return &rows[0], nil
}

// DeleteWord removes the word only when ownerID owns it
func (c *Client) DeleteWord(ctx context.Context, id, ownerID string) error {
	q := url.Values{}
	q.Set("id", eq(id))
	q.Set("user_id", eq(ownerID))
	q.Set("select", "id")

	var rows []struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, "delete word", request{method: http.MethodDelete, path: "/words", query: q, returnRows: true}, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c *Client) ListWordsByOwner(ctx context.Context, ownerID string) ([]models.Word, error) {
	q := url.Values{}
	q.Set("user_id", eq(ownerID))
	return c.listWords(ctx, "list words by owner", q)
}

func (c *Client) ListAllWords(ctx context.Context) ([]models.Word, error) {
	return c.listWords(ctx, "list all words", url.Values{})
}

// listWords pages through /words newest first
func (c *Client) listWords(ctx context.Context, op string, filter url.Values) ([]models.Word, error) {
	out := []models.Word{}
	for offset := 0; ; offset += pageSize {
		q := url.Values{}
		for k, v := range filter {
			q[k] = v
		}
		q.Set("select", wordSelect)
		q.Set("order", "created_at.desc,id.asc")
		q.Set("limit", strconv.Itoa(pageSize))
		q.Set("offset", strconv.Itoa(offset))

		var page []models.Word
		if err := c.do(ctx, op, request{method: http.MethodGet, path: "/words", query: q}, &page); err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < pageSize {
			return out, nil
		}
	}
}

func (c *Client) ListRecentWords(ctx context.Context, limit int) ([]models.RecentWord, error) {
	q := url.Values{}
	q.Set("select", wordSelect+",profiles(username,avatar_url)")
	q.Set("order", "created_at.desc")
	q.Set("limit", strconv.Itoa(limit))

	rows := []models.RecentWord{}
	if err := c.do(ctx, "list recent words", request{method: http.MethodGet, path: "/words", query: q}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
