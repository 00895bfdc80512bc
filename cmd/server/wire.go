// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"castlecare_backend/internal/app"
	"castlecare_backend/internal/application"
	"castlecare_backend/internal/cart"
	"castlecare_backend/internal/catalog"
	"castlecare_backend/internal/config"
	"castlecare_backend/internal/hiring"
	"castlecare_backend/internal/identity"
	"castlecare_backend/internal/jobs"
	"castlecare_backend/internal/order"
	"castlecare_backend/internal/platform/database"
	"castlecare_backend/internal/platform/logger"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		database.NewRedis,

		// Identity Provider
		identity.NewFirebaseProvider,
		wire.Bind(new(identity.Provider), new(*identity.FirebaseProvider)),

		// Hiring Wizard
		hiring.NewRedisStore,
		hiring.NewController,
		hiring.NewHandler,

		// Application Store
		application.NewRedisRepository,
		application.NewService,
		wire.Bind(new(hiring.SubmissionGateway), new(*application.Service)),
		application.NewHandler,

		// Cart
		cart.NewRedisRepository,
		cart.NewService,
		cart.NewHandler,

		// Catalog
		catalog.NewGORMRepository,
		catalog.NewService,
		catalog.NewHandler,

		// Orders
		order.NewGORMRepository,
		order.NewService,
		order.NewHandler,

		// Jobs
		jobs.NewDraftCleanupJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
