package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/dilekiremozbay/2homework/internal/api"
	"github.com/dilekiremozbay/2homework/internal/controller"
	"github.com/dilekiremozbay/2homework/internal/migrations"
	"github.com/dilekiremozbay/2homework/internal/service"
	"github.com/dilekiremozbay/2homework/internal/storage/postgres"
	"github.com/dilekiremozbay/2homework/internal/storage/redis"
	"github.com/dilekiremozbay/2homework/internal/util"

	_ "github.com/lib/pq"
)

func main() {
	ctx := context.Background()
	logger := util.NewZapLogger()

	db, dbCleanup, err := util.NewDBConnection(logger)
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	if err := migrations.RunMigrations(db, logger, "./internal/migrations"); err != nil {
		logger.Fatal(zap.Error(err))
	}

	redisClient, redisCleanup, err := util.NewRedisClient(logger, util.NewRedisConfig())
	if err != nil {
		logger.Fatal(zap.Error(err))
	}

	cleanupFuncs := []func(){dbCleanup, redisCleanup}

	storage := postgres.NewStorage(db)
	sessionStore := redis.NewSessionStore(redisClient)
	sessionConfig := util.NewSessionConfig()

	tokenService := service.NewTokenService(util.NewTokenConfig())
	credentialVerifier := service.NewCredentialVerifier(storage)
	authService := service.NewAuthService(storage, sessionStore, tokenService, credentialVerifier, sessionConfig, logger)

	controller := controller.NewController(logger, authService, sessionConfig)

	apiServer := api.NewAPI(controller, authService, util.NewServerConfig(), logger, cleanupFuncs)
	apiServer.Run(ctx)
}
