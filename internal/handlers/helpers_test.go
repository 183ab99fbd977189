package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kelime/internal/avatar"
	"kelime/internal/models"
	"kelime/internal/security"
	"kelime/internal/service"
	"kelime/internal/session"
	"kelime/internal/store"
	"kelime/internal/store/memstore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubAnalyzer struct{}

func (stubAnalyzer) AnalyzeWord(ctx context.Context, word string) models.WordAnalysis {
	return models.WordAnalysis{Turkish: "tr:" + word, Example: "ex", ExampleTurkish: "ex-tr"}
}

type stubQuiz struct{}

func (stubQuiz) GenerateQuiz(ctx context.Context, words []string) []models.QuizQuestion {
	qs := make([]models.QuizQuestion, 3)
	for i := range qs {
		qs[i] = models.QuizQuestion{Question: words[i], Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "a"}
	}
	return qs
}

type testApp struct {
	store  *memstore.Store
	server *httptest.Server
}

type appOptions struct {
	loginLimit int
}

func newTestApp(t *testing.T, opts appOptions) *testApp {
	t.Helper()
	logger := discardLogger()
	ms := memstore.New()

	sessions := session.NewManager(session.Options{Secret: "test-secret", MaxAge: time.Hour}, ms, logger)
	csrf := security.NewCSRFGenerator("test-secret")
	var limiter *security.RateLimiter
	if opts.loginLimit > 0 {
		limiter = security.NewRateLimiter(opts.loginLimit, time.Minute)
	}
	avatars := avatar.NewResolver(map[string]string{"harun": "https://img.test/harun.svg"}, "")

	authService := service.NewAuthService(ms, logger)
	wordService := service.NewWordService(ms, stubAnalyzer{}, 3, logger)
	studyService := service.NewStudyService(ms, stubQuiz{}, service.StudyOptions{
		FeedbackDelay: 5 * time.Millisecond,
		FlipDelay:     time.Millisecond,
		Rand:          rand.New(rand.NewPCG(1, 2)),
	}, logger)
	dashboardService := service.NewDashboardService(ms, time.UTC)

	router := Router{
		Middleware: NewMiddleware(sessions, csrf, limiter, logger),
		Auth:       NewAuthHandler(authService, sessions, csrf, avatars, logger),
		Dashboard:  NewDashboardHandler(dashboardService, avatars, logger),
		Words:      NewWordHandler(wordService, 1<<20, logger),
		Study:      NewStudyHandler(studyService, logger),
		Admin:      NewAdminHandler(authService, avatars, logger),
		Logger:     logger,
	}

	server := httptest.NewServer(router.Handler())
	t.Cleanup(server.Close)
	return &testApp{store: ms, server: server}
}

func (a *testApp) createProfile(t *testing.T, username, password, role string) *models.Profile {
	t.Helper()
	p, err := a.store.CreateProfile(context.Background(), store.NewProfile{Username: username, Password: password, Role: role})
	require.NoError(t, err)
	return p
}

// client is a browser with its own cookie jar and CSRF token
type client struct {
	t    *testing.T
	app  *testApp
	hc   *http.Client
	csrf string
}

func (a *testApp) newClient(t *testing.T) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, app: a, hc: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, body any) (*http.Response, []byte) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.app.server.URL+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

func (c *client) upload(path, filename, content string) (*http.Response, []byte) {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(c.t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, c.app.server.URL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req)
}

func (c *client) send(req *http.Request) (*http.Response, []byte) {
	c.t.Helper()
	if c.csrf != "" {
		req.Header.Set(security.CSRFHeader, c.csrf)
	}
	resp, err := c.hc.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, raw
}

// login signs in and keeps the CSRF token for later calls
func (c *client) login(username, password string) SessionResponse {
	c.t.Helper()
	resp, raw := c.do(http.MethodPost, "/api/login", map[string]string{"username": username, "password": password})
	require.Equal(c.t, http.StatusOK, resp.StatusCode, string(raw))
	var sess SessionResponse
	require.NoError(c.t, json.Unmarshal(raw, &sess))
	c.csrf = sess.CSRFToken
	return sess
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}
