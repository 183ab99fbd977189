package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"kelime/internal/ai"
	"kelime/internal/avatar"
	"kelime/internal/config"
	"kelime/internal/database"
	"kelime/internal/handlers"
	"kelime/internal/logging"
	"kelime/internal/repository"
	"kelime/internal/scheduler"
	"kelime/internal/security"
	"kelime/internal/service"
	"kelime/internal/session"
	"kelime/internal/store"
	"kelime/internal/store/memstore"
	"kelime/internal/supabase"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", slog.Any("error", err))
	}

	cfg, err := config.Load("./configs")
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.IsDev(), cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	backend, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	st := store.WithTimeout(backend, cfg.Timeouts.External)

	aiClient, err := ai.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Timeouts.External, logger)
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if !aiClient.Enabled() {
		logger.Warn("GEMINI_API_KEY is not set, word analysis returns placeholders and quizzes are unavailable")
	}

	// Initialize services
	authService := service.NewAuthService(st, logger)
	wordService := service.NewWordService(st, aiClient, cfg.Import.Limit, logger)
	studyService := service.NewStudyService(st, aiClient, service.StudyOptions{
		FeedbackDelay: cfg.Study.QuizFeedbackDelay,
		FlipDelay:     cfg.Study.FlashcardFlipDelay,
	}, logger)
	dashboardService := service.NewDashboardService(st, loc)
	reconcileService := service.NewReconcileService(st, logger)

	if err := authService.Bootstrap(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword); err != nil {
		logger.Error("Failed to bootstrap admin profile", slog.Any("error", err))
	}

	sched := scheduler.New(reconcileService, cfg.ReconcileInterval, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	var limiter *security.RateLimiter
	if cfg.LoginRateLimit > 0 {
		limiter = security.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
		go limiter.Cleanup(ctx, cfg.LoginRateWindow)
	}

	sessions := session.NewManager(session.Options{
		Secret:         cfg.Session.Secret,
		Secure:         cfg.Session.CookieSecure,
		MaxAge:         cfg.Session.MaxAge,
		RefreshTimeout: cfg.Timeouts.Refresh,
	}, st, logger)
	csrf := security.NewCSRFGenerator(cfg.Session.Secret)
	avatars := avatar.NewResolver(cfg.Avatars.Overrides, cfg.Avatars.Background)

	// Initialize handlers
	router := handlers.Router{
		Middleware:     handlers.NewMiddleware(sessions, csrf, limiter, logger),
		Auth:           handlers.NewAuthHandler(authService, sessions, csrf, avatars, logger),
		Dashboard:      handlers.NewDashboardHandler(dashboardService, avatars, logger),
		Words:          handlers.NewWordHandler(wordService, cfg.Import.MaxUploadBytes, logger),
		Study:          handlers.NewStudyHandler(studyService, logger),
		Admin:          handlers.NewAdminHandler(authService, avatars, logger),
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		StaticPath:     cfg.StaticPath,
	}

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			slog.String("addr", server.Addr),
			slog.String("store_backend", cfg.StoreBackend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	logger.Info("Server exited")
	return nil
}

// openStore connects the configured backend. The returned func releases it.
func openStore(cfg *config.Config, logger *slog.Logger) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendSQL:
		db, err := database.InitializeWithConfig(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("Database ready", slog.String("type", db.Dialect.DriverName()))
		return repository.NewStore(db), func() { db.Close() }, nil

	case config.BackendSupabase:
		info, err := security.InspectAPIKey(cfg.Supabase.AnonKey)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid SUPABASE_ANON_KEY: %w", err)
		}
		for _, problem := range info.Problems(time.Now()) {
			logger.Warn("Supabase key problem", slog.String("problem", problem))
		}
		client := supabase.New(cfg.Supabase.URL, cfg.Supabase.AnonKey, &http.Client{}, logger)
		logger.Info("Using Supabase store", slog.String("url", cfg.Supabase.URL), slog.String("key_role", info.Role))
		return client, func() {}, nil

	case config.BackendMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		return memstore.New(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store backend: %s", cfg.StoreBackend)
	}
}
