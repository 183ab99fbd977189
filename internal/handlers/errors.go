package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"kelime/internal/service"
	"kelime/internal/store"
	"kelime/internal/study"
	"kelime/internal/validation"
)

var errMalformedBody = errors.New("malformed request body")

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to encode response", slog.Any("error", err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"` + MsgInternalError + `"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func respondWithError(w http.ResponseWriter, logger *slog.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(context.Background(), level, logMsg, slog.Int("status", status), slog.Any("error", err))
	}

	respondWithJSON(w, status, errorResponse{Error: userMsg})
}

// statusFor maps a service error to a status code and the message shown to
// the user. fallback is used for external failures and unknown errors.
func statusFor(err error, fallback string) (int, string) {
	if fallback == "" {
		fallback = MsgInternalError
	}

	switch {
	case errors.Is(err, errMalformedBody):
		return http.StatusBadRequest, MsgInvalidRequest
	case errors.Is(err, store.ErrInvalidCredentials):
		return http.StatusUnauthorized, MsgInvalidCredentials
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, MsgNotFound
	case errors.Is(err, store.ErrUsernameTaken):
		return http.StatusConflict, MsgUsernameTaken
	case errors.Is(err, service.ErrWordRequired):
		return http.StatusBadRequest, "Lütfen bir kelime girin."
	case errors.Is(err, service.ErrUsernameRequired):
		return http.StatusBadRequest, "Kullanıcı adı gerekli."
	case errors.Is(err, service.ErrUnsupportedFormat):
		return http.StatusBadRequest, MsgImportFormat
	case errors.Is(err, service.ErrEmptyImport):
		return http.StatusBadRequest, MsgImportEmpty
	case errors.Is(err, study.ErrNotEnoughQuizWords),
		errors.Is(err, study.ErrNoFlashcardWords),
		errors.Is(err, study.ErrQuizUnavailable):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, study.ErrWrongMode), errors.Is(err, study.ErrStale):
		return http.StatusConflict, MsgStudyConflict
	case store.IsExternal(err):
		if fallback == MsgInternalError {
			fallback = MsgExternalService
		}
		return http.StatusBadGateway, fallback
	default:
		return http.StatusInternalServerError, fallback
	}
}

// respondWithServiceError writes err as a JSON error. Validation failures
// carry their per-field messages.
func respondWithServiceError(w http.ResponseWriter, logger *slog.Logger, err error, fallback, logMsg string) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Fields: verr.Fields})
		return
	}

	status, msg := statusFor(err, fallback)
	if status < http.StatusInternalServerError {
		// client errors are expected and not logged
		err = nil
	}
	respondWithError(w, logger, status, msg, logMsg, err)
}

// decodeJSON reads the request body into dst and validates it
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errMalformedBody
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	return validation.Struct(dst)
}
