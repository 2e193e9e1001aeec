package api

import (
	"net/http"
	"time"

	"github.com/deckmate/deckmate-api/internal/api/shared"
	"github.com/deckmate/deckmate-api/internal/domain/srs"
	"github.com/deckmate/deckmate-api/internal/service/learning"
)

// LearningHandler handles the study loop API requests: fetching the study
// queue and recording difficulty grades.
type LearningHandler struct {
	learningService learning.Service
	now             func() time.Time // Injectable for testing
}

// NewLearningHandler creates a new LearningHandler with the given dependencies.
func NewLearningHandler(learningService learning.Service) *LearningHandler {
	return &LearningHandler{
		learningService: learningService,
		now:             time.Now,
	}
}

// CardsToLearn handles GET /decks/{deckID}/learn.
func (h *LearningHandler) CardsToLearn(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}
	deckID, ok := pathUUID(w, r, "deckID")
	if !ok {
		return
	}

	cards, err := h.learningService.CardsToLearn(r.Context(), person, deckID, h.now())
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewCardResponses(cards))
}

// SubmitGrade handles POST /cards/{cardID}/grade.
func (h *LearningHandler) SubmitGrade(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}
	cardID, ok := pathUUID(w, r, "cardID")
	if !ok {
		return
	}

	var req GradeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	progress, err := h.learningService.SubmitGrade(
		r.Context(), person, cardID, srs.Grade(*req.Grade), h.now())
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewProgressResponse(progress))
}

// GetProgress handles GET /cards/{cardID}/progress.
func (h *LearningHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}
	cardID, ok := pathUUID(w, r, "cardID")
	if !ok {
		return
	}

	progress, err := h.learningService.GetProgress(r.Context(), person, cardID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewProgressResponse(progress))
}
