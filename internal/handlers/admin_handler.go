package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kelime/internal/avatar"
	"kelime/internal/service"
)

type createProfileRequest struct {
	Username  string `json:"username" validate:"required,max=50"`
	Password  string `json:"password" validate:"max=100"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

type avatarRequest struct {
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

// AdminHandler handles profile management for admins
type AdminHandler struct {
	authService *service.AuthService
	avatars     *avatar.Resolver
	logger      *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *service.AuthService, avatars *avatar.Resolver, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		avatars:     avatars,
		logger:      logger,
	}
}

// ListProfiles returns every profile with its resolved avatar
func (h *AdminHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.authService.ListProfiles(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "", "Failed to list profiles")
		return
	}

	views := make([]ProfileView, len(profiles))
	for i, p := range profiles {
		views[i] = newProfileView(p, h.avatars)
	}
	respondWithJSON(w, http.StatusOK, ProfilesResponse{Profiles: views})
}

// CreateProfile adds a family member. An empty password is generated and
// returned once.
func (h *AdminHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithServiceError(w, h.logger, err, "", "")
		return
	}

	created, err := h.authService.CreateProfile(r.Context(), req.Username, req.Password, req.AvatarURL)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "", "Failed to create profile")
		return
	}

	admin := GetProfileFromContext(r.Context())
	h.logger.Info("Admin created profile",
		slog.String("admin_id", admin.ID),
		slog.String("user_id", created.Profile.ID))

	respondWithJSON(w, http.StatusCreated, CreateProfileResponse{
		Message:           MsgProfileCreated,
		Profile:           newProfileView(*created.Profile, h.avatars),
		GeneratedPassword: created.GeneratedPassword,
	})
}

// SetAvatar stores the avatar URL of a profile
func (h *AdminHandler) SetAvatar(w http.ResponseWriter, r *http.Request) {
	var req avatarRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithServiceError(w, h.logger, err, "", "")
		return
	}

	if err := h.authService.SetAvatar(r.Context(), chi.URLParam(r, "id"), req.AvatarURL); err != nil {
		respondWithServiceError(w, h.logger, err, "", "Failed to update avatar")
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: MsgAvatarUpdated})
}
