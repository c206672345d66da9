package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/EdersonPinheiro/desafio-flugo/internal/api/http"
	"github.com/EdersonPinheiro/desafio-flugo/internal/api/http/handlers"
	"github.com/EdersonPinheiro/desafio-flugo/internal/auth"
	"github.com/EdersonPinheiro/desafio-flugo/internal/config"
	"github.com/EdersonPinheiro/desafio-flugo/internal/docstore"
	"github.com/EdersonPinheiro/desafio-flugo/internal/events"
	"github.com/EdersonPinheiro/desafio-flugo/internal/observability"
	"github.com/EdersonPinheiro/desafio-flugo/internal/persistence"
	"github.com/EdersonPinheiro/desafio-flugo/internal/readmodel"
	"github.com/EdersonPinheiro/desafio-flugo/internal/repository"
	"github.com/EdersonPinheiro/desafio-flugo/internal/service"
	"github.com/EdersonPinheiro/desafio-flugo/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var backend docstore.Backend
	var userRepo repository.UserRepository
	if pool := pg.PoolHandle(); pool != nil {
		backend = docstore.NewPostgresBackend(pool)
		userRepo = repository.NewUserRepository(pool)
	} else {
		logger.Warn("running with in-memory stores; records and accounts will not survive a restart")
		backend = docstore.NewMemoryBackend()
		userRepo = repository.NewMemoryUserRepository()
	}
	store := docstore.New(backend, docstore.NewRedisFeed(redis.Client, logger), logger)
	defer store.Close()

	collaboratorRepo := repository.NewCollaboratorRepository(store, logger)
	departmentRepo := repository.NewDepartmentRepository(store, logger)

	directory := readmodel.NewDirectory(collaboratorRepo, departmentRepo)
	defer directory.Close()

	dispatcher := events.NewInMemoryDispatcher(logger)
	metrics := observability.NewMetrics()

	orgService := service.NewOrgService(service.OrgDependencies{
		CollaboratorRepo: collaboratorRepo,
		DepartmentRepo:   departmentRepo,
		Directory:        directory,
		Dispatcher:       dispatcher,
		Metrics:          metrics,
		Logger:           logger,
	})

	revocation := auth.NewRevocationList(redis.Client)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Revocation: revocation,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, revocation)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Collaborators:  handlers.NewCollaboratorsHandler(orgService, directory, collaboratorRepo),
		Departments:    handlers.NewDepartmentsHandler(orgService, directory, departmentRepo),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
