package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kelime/internal/service"
)

// DefaultMaxUploadBytes bounds an import upload when none is configured
const DefaultMaxUploadBytes = 5 << 20

type addWordRequest struct {
	Word string `json:"word" validate:"required,max=100"`
}

// WordHandler handles the word manager
type WordHandler struct {
	wordService    *service.WordService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewWordHandler creates a new word handler
func NewWordHandler(wordService *service.WordService, maxUploadBytes int64, logger *slog.Logger) *WordHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &WordHandler{
		wordService:    wordService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// ListWords returns the user's words, newest first
func (h *WordHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	words, err := h.wordService.List(r.Context(), profile.ID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "", "Failed to list words")
		return
	}
	respondWithJSON(w, http.StatusOK, WordsResponse{Words: words})
}

// AddWord analyzes and stores a new word
func (h *WordHandler) AddWord(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	var req addWordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithServiceError(w, h.logger, err, "", "")
		return
	}

	word, err := h.wordService.Add(r.Context(), profile.ID, req.Word)
	if err != nil {
		respondWithServiceError(w, h.logger, err, MsgWordAddFailed, "Failed to add word")
		return
	}
	respondWithJSON(w, http.StatusCreated, word)
}

// DeleteWord removes one of the user's words
func (h *WordHandler) DeleteWord(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())
	wordID := chi.URLParam(r, "id")

	if err := h.wordService.Delete(r.Context(), profile.ID, wordID); err != nil {
		respondWithServiceError(w, h.logger, err, MsgWordDeleteFailed, "Failed to delete word")
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "deleted"})
}

// ImportWords adds words from an uploaded .txt, .csv or .xlsx file sent
// as the "file" form field
func (h *WordHandler) ImportWords(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, MsgImportFailed, "Failed to parse upload", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, MsgImportFailed, "Missing upload", err)
		return
	}
	defer file.Close()

	report, err := h.wordService.Import(r.Context(), profile.ID, header.Filename, file)
	if err != nil {
		respondWithServiceError(w, h.logger, err, MsgImportFailed, "Failed to import words")
		return
	}

	respondWithJSON(w, http.StatusOK, ImportResponse{
		Message:      fmt.Sprintf(MsgImportAdded, report.Added),
		ImportReport: report,
	})
}
