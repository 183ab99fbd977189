package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"kelime/internal/security"
)

// Router wires the handlers to their routes
type Router struct {
	Middleware *Middleware
	Auth       *AuthHandler
	Dashboard  *DashboardHandler
	Words      *WordHandler
	Study      *StudyHandler
	Admin      *AdminHandler
	Logger     *slog.Logger

	AllowedOrigins []string
	// StaticPath is the built single-page app. Empty or missing disables it.
	StaticPath     string
	RequestTimeout time.Duration
}

// Handler builds the chi router
func (rt Router) Handler() http.Handler {
	m := rt.Middleware
	timeout := rt.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(NewStructuredLogger(rt.Logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   rt.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", security.CSRFHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/login", m.RateLimit(rt.Auth.Login))
		r.Post("/logout", rt.Auth.Logout)
		r.Get("/session", rt.Auth.Session)

		r.Get("/dashboard", m.RequireAuth(rt.Dashboard.Dashboard))

		r.Get("/words", m.RequireAuth(rt.Words.ListWords))
		r.Post("/words", m.RequireAuth(m.CSRFProtect(rt.Words.AddWord)))
		r.Post("/words/import", m.RequireAuth(m.CSRFProtect(rt.Words.ImportWords)))
		r.Delete("/words/{id}", m.RequireAuth(m.CSRFProtect(rt.Words.DeleteWord)))

		r.Get("/study", m.RequireAuth(rt.Study.View))
		r.Post("/study/quiz", m.RequireAuth(m.CSRFProtect(rt.Study.StartQuiz)))
		r.Post("/study/quiz/answer", m.RequireAuth(m.CSRFProtect(rt.Study.Answer)))
		r.Post("/study/flashcards", m.RequireAuth(m.CSRFProtect(rt.Study.StartFlashcards)))
		r.Post("/study/flashcards/flip", m.RequireAuth(m.CSRFProtect(rt.Study.Flip)))
		r.Post("/study/flashcards/next", m.RequireAuth(m.CSRFProtect(rt.Study.Next)))
		r.Post("/study/flashcards/prev", m.RequireAuth(m.CSRFProtect(rt.Study.Prev)))
		r.Post("/study/menu", m.RequireAuth(m.CSRFProtect(rt.Study.Menu)))

		// Admin routes
		r.Get("/admin/profiles", m.RequireAdmin(rt.Admin.ListProfiles))
		r.Post("/admin/profiles", m.RequireAdmin(m.CSRFProtect(rt.Admin.CreateProfile)))
		r.Put("/admin/profiles/{id}/avatar", m.RequireAdmin(m.CSRFProtect(rt.Admin.SetAvatar)))
	})

	if rt.StaticPath != "" {
		if _, err := os.Stat(rt.StaticPath); err == nil {
			r.Handle("/*", http.FileServer(http.Dir(rt.StaticPath)))
		} else {
			rt.Logger.Warn("Static path not found, serving the API only", slog.String("path", rt.StaticPath))
		}
	}

	return r
}
