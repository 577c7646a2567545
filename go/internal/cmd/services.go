package main

import (
	"database/sql"

	"github.com/goosetap/goosetap/go/internal/outbox"
	outboxdb "github.com/goosetap/goosetap/go/internal/outbox/db"
	"github.com/goosetap/goosetap/go/internal/outbox/worker"
	"github.com/goosetap/goosetap/go/internal/participants"
	"github.com/goosetap/goosetap/go/internal/reconcile"
	"github.com/goosetap/goosetap/go/internal/rounds"
	roundsdb "github.com/goosetap/goosetap/go/internal/rounds/db"
	"github.com/goosetap/goosetap/go/internal/tap"
	"github.com/goosetap/goosetap/go/internal/users"
	usersdb "github.com/goosetap/goosetap/go/internal/users/db"
	"github.com/jonboulle/clockwork"
)

type Services struct {
	Users      *users.App
	Rounds     *rounds.App
	Tap        *tap.Processor
	Outbox     *outbox.App
	Reconciler *reconcile.Reconciler
}

func setupServices(database *sql.DB, publisher worker.EventPublisher, reconcileCfg reconcile.Config) *Services {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer
	clock := clockwork.NewRealClock()

	// Users
	userQueries := usersdb.New(database)
	userRepo := users.NewRepository(userQueries)
	userApp := users.NewApp(userRepo)

	// Outbox
	outboxQueries := outboxdb.New(database)
	outboxRepo := outbox.NewRepository(outboxQueries)
	outboxApp := outbox.NewApp(outboxRepo)

	// Rounds
	roundQueries := roundsdb.New(database)
	roundRepo := rounds.NewRepository(roundQueries)
	roundApp := rounds.NewApp(roundRepo, outboxApp, clock)

	// Tap processing
	participantStore := participants.NewRepository(database)
	var notifier tap.Notifier
	if publisher != nil {
		notifier = outbox.NewNotifier(publisher)
	}
	tapProcessor := tap.NewProcessor(userApp, roundApp, participantStore, notifier, clock)

	// Reconciler
	reconciler := reconcile.NewReconciler(roundRepo, clock, reconcileCfg)

	return &Services{
		Users:      userApp,
		Rounds:     roundApp,
		Tap:        tapProcessor,
		Outbox:     outboxApp,
		Reconciler: reconciler,
	}
}
