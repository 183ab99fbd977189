package handlers

import (
	"log/slog"
	"net/http"

	"kelime/internal/service"
	"kelime/internal/study"
)

type answerRequest struct {
	Option string `json:"option" validate:"required"`
}

// StudyHandler drives the quiz and flashcard session of the current user
type StudyHandler struct {
	studyService *service.StudyService
	logger       *slog.Logger
}

// NewStudyHandler creates a new study handler
func NewStudyHandler(studyService *service.StudyService, logger *slog.Logger) *StudyHandler {
	return &StudyHandler{studyService: studyService, logger: logger}
}

// View returns the current study state
func (h *StudyHandler) View(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())
	respondWithJSON(w, http.StatusOK, h.studyService.View(profile.ID))
}

// StartQuiz generates a quiz from the user's words
func (h *StudyHandler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	view, err := h.studyService.StartQuiz(r.Context(), profile.ID)
	if err != nil {
		h.respondWithStudyError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// Answer records the selected option of the current question
func (h *StudyHandler) Answer(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithServiceError(w, h.logger, err, "", "")
		return
	}

	res, err := h.studyService.Answer(r.Context(), profile.ID, req.Option)
	if err != nil {
		h.respondWithStudyError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, AnswerResponse{
		Accepted:      res.Accepted,
		Correct:       res.Correct,
		CorrectAnswer: res.CorrectAnswer,
		Explanation:   res.Explanation,
		Score:         res.Score,
		View:          h.studyService.View(profile.ID),
	})
}

// StartFlashcards deals a shuffled deck of the user's words
func (h *StudyHandler) StartFlashcards(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	view, err := h.studyService.StartFlashcards(r.Context(), profile.ID)
	if err != nil {
		h.respondWithStudyError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// Flip turns the current card
func (h *StudyHandler) Flip(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())
	view, err := h.studyService.Flip(profile.ID)
	h.respondWithView(w, view, err)
}

// Next moves to the following card
func (h *StudyHandler) Next(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())
	view, err := h.studyService.Navigate(profile.ID, 1)
	h.respondWithView(w, view, err)
}

// Prev moves to the previous card
func (h *StudyHandler) Prev(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())
	view, err := h.studyService.Navigate(profile.ID, -1)
	h.respondWithView(w, view, err)
}

// Menu leaves the quiz or the deck
func (h *StudyHandler) Menu(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())
	respondWithJSON(w, http.StatusOK, h.studyService.Menu(r.Context(), profile.ID))
}

func (h *StudyHandler) respondWithView(w http.ResponseWriter, view study.View, err error) {
	if err != nil {
		h.respondWithStudyError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

func (h *StudyHandler) respondWithStudyError(w http.ResponseWriter, err error) {
	respondWithServiceError(w, h.logger, err, "", "Study action failed")
}
