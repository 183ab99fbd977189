package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"kelime/internal/service"
	"kelime/internal/store"
	"kelime/internal/study"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, discardLogger(), 418, "Teapot", "", nil)

	assert.Equal(t, 418, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Teapot"}`, recorder.Body.String())
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	recorder := httptest.NewRecorder()

	respondWithError(recorder, logger, http.StatusInternalServerError, MsgInternalError, "", errors.New("boom"))

	logOutput := buf.String()
	assert.Contains(t, logOutput, "level=ERROR")
	assert.Contains(t, logOutput, "boom")
	assert.NotContains(t, recorder.Body.String(), "boom", "internal cause is not exposed")
}

func TestStatusFor(t *testing.T) {
	external := &store.ExternalError{Service: "supabase", Op: "insert", Err: errors.New("down")}

	tests := []struct {
		name       string
		err        error
		fallback   string
		wantStatus int
		wantMsg    string
	}{
		{name: "bad credentials", err: store.ErrInvalidCredentials, wantStatus: 401, wantMsg: MsgInvalidCredentials},
		{name: "wrapped not found", err: fmt.Errorf("delete: %w", store.ErrNotFound), wantStatus: 404, wantMsg: MsgNotFound},
		{name: "duplicate username", err: store.ErrUsernameTaken, wantStatus: 409, wantMsg: MsgUsernameTaken},
		{name: "too few quiz words", err: study.ErrNotEnoughQuizWords, wantStatus: 422, wantMsg: study.ErrNotEnoughQuizWords.Error()},
		{name: "stale study action", err: study.ErrStale, wantStatus: 409, wantMsg: MsgStudyConflict},
		{name: "unsupported file", err: service.ErrUnsupportedFormat, wantStatus: 400, wantMsg: MsgImportFormat},
		{name: "external with toast", err: external, fallback: MsgWordAddFailed, wantStatus: 502, wantMsg: MsgWordAddFailed},
		{name: "external default", err: external, wantStatus: 502, wantMsg: MsgExternalService},
		{name: "unknown", err: errors.New("?"), wantStatus: 500, wantMsg: MsgInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := statusFor(tt.err, tt.fallback)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var dst loginRequest
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"elif","password":"x","admin":true}`))
	assert.ErrorIs(t, decodeJSON(r, &dst), errMalformedBody)
}
