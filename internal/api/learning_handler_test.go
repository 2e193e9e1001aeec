package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckmate/deckmate-api/internal/api/shared"
	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/domain/srs"
	"github.com/deckmate/deckmate-api/internal/service"
	"github.com/deckmate/deckmate-api/internal/store"
)

// mockLearningService is a function-field implementation of learning.Service.
type mockLearningService struct {
	cardsToLearnFn func(ctx context.Context, learner *domain.Person, deckID uuid.UUID, now time.Time) ([]*domain.Card, error)
	submitGradeFn  func(ctx context.Context, learner *domain.Person, cardID uuid.UUID, grade srs.Grade, now time.Time) (*domain.LearningProgress, error)
	getProgressFn  func(ctx context.Context, learner *domain.Person, cardID uuid.UUID) (*domain.LearningProgress, error)
}

func (m *mockLearningService) CardsToLearn(
	ctx context.Context,
	learner *domain.Person,
	deckID uuid.UUID,
	now time.Time,
) ([]*domain.Card, error) {
	return m.cardsToLearnFn(ctx, learner, deckID, now)
}

func (m *mockLearningService) SubmitGrade(
	ctx context.Context,
	learner *domain.Person,
	cardID uuid.UUID,
	grade srs.Grade,
	now time.Time,
) (*domain.LearningProgress, error) {
	return m.submitGradeFn(ctx, learner, cardID, grade, now)
}

func (m *mockLearningService) GetProgress(
	ctx context.Context,
	learner *domain.Person,
	cardID uuid.UUID,
) (*domain.LearningProgress, error) {
	return m.getProgressFn(ctx, learner, cardID)
}

func handlerTestPerson(t *testing.T) *domain.Person {
	t.Helper()
	person, err := domain.NewPerson("learner", "learner@example.com", "a-long-password-1")
	require.NoError(t, err)
	return person
}

// serveLearning routes the request through chi so URL parameters resolve,
// with the person injected the way the auth middleware would.
func serveLearning(
	handler *LearningHandler,
	person *domain.Person,
	req *http.Request,
) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/decks/{deckID}/learn", handler.CardsToLearn)
	r.Post("/cards/{cardID}/grade", handler.SubmitGrade)
	r.Get("/cards/{cardID}/progress", handler.GetProgress)

	if person != nil {
		ctx := context.WithValue(req.Context(), shared.PersonContextKey, person)
		req = req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCardsToLearnHandler(t *testing.T) {
	t.Parallel()

	person := handlerTestPerson(t)
	deckID := uuid.New()
	fixedNow := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

	t.Run("returns the study queue", func(t *testing.T) {
		t.Parallel()

		card, err := domain.NewCard(deckID, "front", "back", false)
		require.NoError(t, err)

		handler := NewLearningHandler(&mockLearningService{
			cardsToLearnFn: func(_ context.Context, learner *domain.Person, id uuid.UUID, now time.Time) ([]*domain.Card, error) {
				assert.Equal(t, person.ID, learner.ID)
				assert.Equal(t, deckID, id)
				assert.Equal(t, fixedNow, now)
				return []*domain.Card{card}, nil
			},
		})
		handler.now = func() time.Time { return fixedNow }

		req := httptest.NewRequest(http.MethodGet, "/decks/"+deckID.String()+"/learn", nil)
		rec := serveLearning(handler, person, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body []CardResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, card.ID, body[0].ID)
	})

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()

		handler := NewLearningHandler(&mockLearningService{})
		req := httptest.NewRequest(http.MethodGet, "/decks/"+deckID.String()+"/learn", nil)
		rec := serveLearning(handler, nil, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed deck ID", func(t *testing.T) {
		t.Parallel()

		handler := NewLearningHandler(&mockLearningService{})
		req := httptest.NewRequest(http.MethodGet, "/decks/not-a-uuid/learn", nil)
		rec := serveLearning(handler, person, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("permission errors map to 403", func(t *testing.T) {
		t.Parallel()

		handler := NewLearningHandler(&mockLearningService{
			cardsToLearnFn: func(context.Context, *domain.Person, uuid.UUID, time.Time) ([]*domain.Card, error) {
				return nil, service.ErrPermissionDenied
			},
		})
		req := httptest.NewRequest(http.MethodGet, "/decks/"+deckID.String()+"/learn", nil)
		rec := serveLearning(handler, person, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestSubmitGradeHandler(t *testing.T) {
	t.Parallel()

	person := handlerTestPerson(t)
	cardID := uuid.New()

	newProgress := func(t *testing.T) *domain.LearningProgress {
		t.Helper()
		progress, err := domain.NewLearningProgress(cardID, person.ID)
		require.NoError(t, err)
		return progress
	}

	post := func(handler *LearningHandler, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(
			http.MethodPost, "/cards/"+cardID.String()+"/grade", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return serveLearning(handler, person, req)
	}

	t.Run("records a grade", func(t *testing.T) {
		t.Parallel()

		handler := NewLearningHandler(&mockLearningService{
			submitGradeFn: func(_ context.Context, _ *domain.Person, id uuid.UUID, grade srs.Grade, _ time.Time) (*domain.LearningProgress, error) {
				assert.Equal(t, cardID, id)
				assert.Equal(t, srs.Grade(4), grade)
				return newProgress(t), nil
			},
		})

		rec := post(handler, `{"grade": 4}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body ProgressResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, cardID, body.CardID)
	})

	t.Run("grade zero is a valid grade, not a missing field", func(t *testing.T) {
		t.Parallel()

		var got srs.Grade = -1
		handler := NewLearningHandler(&mockLearningService{
			submitGradeFn: func(_ context.Context, _ *domain.Person, _ uuid.UUID, grade srs.Grade, _ time.Time) (*domain.LearningProgress, error) {
				got = grade
				return newProgress(t), nil
			},
		})

		rec := post(handler, `{"grade": 0}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, srs.Grade(0), got)
	})

	t.Run("missing grade is rejected", func(t *testing.T) {
		t.Parallel()

		handler := NewLearningHandler(&mockLearningService{})
		rec := post(handler, `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("out of range grade is rejected by validation", func(t *testing.T) {
		t.Parallel()

		handler := NewLearningHandler(&mockLearningService{})
		rec := post(handler, `{"grade": 6}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown card maps to 404", func(t *testing.T) {
		t.Parallel()

		handler := NewLearningHandler(&mockLearningService{
			submitGradeFn: func(context.Context, *domain.Person, uuid.UUID, srs.Grade, time.Time) (*domain.LearningProgress, error) {
				return nil, store.ErrCardNotFound
			},
		})

		rec := post(handler, `{"grade": 3}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetProgressHandler(t *testing.T) {
	t.Parallel()

	person := handlerTestPerson(t)
	cardID := uuid.New()

	t.Run("returns the progress", func(t *testing.T) {
		t.Parallel()

		progress, err := domain.NewLearningProgress(cardID, person.ID)
		require.NoError(t, err)

		handler := NewLearningHandler(&mockLearningService{
			getProgressFn: func(context.Context, *domain.Person, uuid.UUID) (*domain.LearningProgress, error) {
				return progress, nil
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/cards/"+cardID.String()+"/progress", nil)
		rec := serveLearning(handler, person, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body ProgressResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, person.ID, body.PersonID)
	})

	t.Run("never graded card maps to 404", func(t *testing.T) {
		t.Parallel()

		handler := NewLearningHandler(&mockLearningService{
			getProgressFn: func(context.Context, *domain.Person, uuid.UUID) (*domain.LearningProgress, error) {
				return nil, store.ErrProgressNotFound
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/cards/"+cardID.String()+"/progress", nil)
		rec := serveLearning(handler, person, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
