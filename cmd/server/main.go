package main

import (
	"context"
	"fmt"

	"github.com/mkarpenko/recipebox/internal/config"
	myHTTP "github.com/mkarpenko/recipebox/internal/handler/http"
	"github.com/mkarpenko/recipebox/internal/logger"
	"github.com/mkarpenko/recipebox/internal/server"
	"github.com/mkarpenko/recipebox/internal/service"
	"github.com/mkarpenko/recipebox/internal/store"
	"github.com/mkarpenko/recipebox/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("recipebox-server", "info").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger("recipebox-server", cfg.App.LogLevel)
	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = migrations.Migrate(db.DB, db.Driver()); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	storages := store.NewStorages(db, log)
	services := service.NewServices(storages, *cfg, log)

	bootstrapSuperuser(ctx, services.AuthService, cfg.App, log)

	handler := myHTTP.NewHandler(services, log)

	srv, err := server.NewServer(handler, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

// bootstrapSuperuser provisions the admin account from configuration.
// Skipped entirely when no admin credentials are configured; a failure is
// logged but does not prevent the server from starting.
func bootstrapSuperuser(ctx context.Context, auth service.AuthService, cfg config.App, log *logger.Logger) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}

	if _, err := auth.RegisterSuperuser(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Error().Err(err).Str("email", cfg.AdminEmail).Msg("superuser bootstrap failed")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
