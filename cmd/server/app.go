package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/deckmate/deckmate-api/internal/config"
	"github.com/deckmate/deckmate-api/internal/domain/srs"
	"github.com/deckmate/deckmate-api/internal/events"
	"github.com/deckmate/deckmate-api/internal/platform/mail"
	"github.com/deckmate/deckmate-api/internal/platform/postgres"
	"github.com/deckmate/deckmate-api/internal/service"
	"github.com/deckmate/deckmate-api/internal/service/auth"
	"github.com/deckmate/deckmate-api/internal/service/learning"
	"github.com/deckmate/deckmate-api/internal/store"
)

// application holds the assembled dependency graph of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	personStore   store.PersonStore
	deckStore     store.DeckStore
	cardStore     store.CardStore
	progressStore store.LearningProgressStore

	jwtService      auth.JWTService
	personService   service.PersonService
	deckService     service.DeckService
	cardService     service.CardService
	learningService learning.Service
}

// newApplication wires up stores, services and collaborators.
func newApplication(cfg *config.Config) (*application, error) {
	logger := slog.Default()

	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	personStore := postgres.NewPostgresPersonStore(db, logger)
	deckStore := postgres.NewPostgresDeckStore(db, logger)
	cardStore := postgres.NewPostgresCardStore(db, logger)
	progressStore := postgres.NewPostgresLearningProgressStore(db, logger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	scheduler := srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		MinEaseFactor:   cfg.SRS.MinEaseFactor,
		PassThreshold:   srs.Grade(cfg.SRS.PassThreshold),
		FirstInterval:   cfg.SRS.FirstInterval,
		SecondInterval:  cfg.SRS.SecondInterval,
		RelearnInterval: cfg.SRS.RelearnInterval,
		MaxInterval:     cfg.SRS.MaxInterval,
	}))

	// Deck moderation notifications flow through the in-memory emitter to
	// the mail notifier.
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(mail.NewNotifier(cfg.Mail, logger))

	personService := service.NewPersonService(
		personStore,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		auth.NewBcryptVerifier(),
		db,
		logger,
	)
	deckService := service.NewDeckService(deckStore, cardStore, personStore, emitter, db, logger)
	cardService := service.NewCardService(cardStore, deckStore, db, logger)
	learningService := learning.NewService(cardStore, deckStore, progressStore, scheduler, db, logger)

	return &application{
		config:          cfg,
		logger:          logger,
		db:              db,
		personStore:     personStore,
		deckStore:       deckStore,
		cardStore:       cardStore,
		progressStore:   progressStore,
		jwtService:      jwtService,
		personService:   personService,
		deckService:     deckService,
		cardService:     cardService,
		learningService: learningService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
