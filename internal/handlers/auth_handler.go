package handlers

import (
	"log/slog"
	"net/http"

	"kelime/internal/avatar"
	"kelime/internal/models"
	"kelime/internal/security"
	"kelime/internal/service"
	"kelime/internal/session"
)

type loginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler handles login, logout and the session lookup
type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Manager
	csrf        *security.CSRFGenerator
	avatars     *avatar.Resolver
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, sessions *session.Manager, csrf *security.CSRFGenerator, avatars *avatar.Resolver, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		csrf:        csrf,
		avatars:     avatars,
		logger:      logger,
	}
}

// Login checks the credentials and saves the profile in the session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithServiceError(w, h.logger, err, "", "")
		return
	}

	profile, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithServiceError(w, h.logger, err, MsgExternalService, "Login failed")
		return
	}

	if err := h.sessions.Save(w, r, profile); err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, MsgInternalError, "Failed to save session", err)
		return
	}
	h.respondWithSession(w, r, profile)
}

// Logout clears the session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.logger.Error("Failed to clear session", slog.Any("error", err))
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "ok"})
}

// Session returns the saved profile refreshed from the store
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	profile := h.sessions.Restore(r.Context(), w, r)
	if profile == nil {
		respondWithError(w, h.logger, http.StatusUnauthorized, MsgLoginRequired, "", nil)
		return
	}
	h.respondWithSession(w, r, profile)
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, r *http.Request, profile *models.Profile) {
	token, err := h.csrf.GenerateToken(h.sessions.Nonce(r))
	if err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, MsgInternalError, "Failed to generate CSRF token", err)
		return
	}

	respondWithJSON(w, http.StatusOK, SessionResponse{
		Profile:   newProfileView(*profile, h.avatars),
		Views:     viewsFor(profile),
		CSRFToken: token,
	})
}
