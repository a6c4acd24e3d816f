package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/access"
	"github.com/yukikurage/project-management-api/internal/auth"
	"github.com/yukikurage/project-management-api/internal/config"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/handlers"
	"github.com/yukikurage/project-management-api/internal/logger"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/storage"
	"github.com/yukikurage/project-management-api/internal/views"
	"go.uber.org/zap"
)

// backend is the opened persistence layer.
type backend struct {
	repos *repository.Repositories
	ping  handlers.Pinger
	close func(ctx context.Context) error
}

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level: cfg.LogLevel,
		Dev:   cfg.LogDev,
		File:  cfg.LogFile,
	})
	if err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	defer log.Sync()

	gin.SetMode(cfg.GinMode)
	dto.RegisterValidators()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}

	// Initialize services
	hasher := auth.NewPasswordHasher()
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	roles := access.NewResolver(cfg.AllowAnonymousMutations)
	assembler := views.NewAssembler(store.repos, roles)

	userService := services.NewUserService(store.repos.Users, hasher, imageStore(cfg), log)
	authService := services.NewAuthService(store.repos.Users, hasher, tokens, log)
	projectService := services.NewProjectService(store.repos, assembler, roles, cfg.ProjectsEmptyPolicy, log)
	taskService := services.NewTaskService(store.repos, assembler, roles, services.TaskServiceOptions{
		EnforceRoles: cfg.EnforceTaskRoles,
		EmptyPolicy:  cfg.TasksEmptyPolicy,
	}, log)

	// Initialize handlers
	r := handlers.NewRouter(handlers.Handlers{
		Auth:     handlers.NewAuthHandler(authService, log),
		Users:    handlers.NewUserHandler(userService, log),
		Projects: handlers.NewProjectHandler(projectService, log),
		Tasks:    handlers.NewTaskHandler(taskService, log),
		Health:   handlers.NewHealthHandler(store.ping),
	}, tokens, log)

	if cfg.ImageStorage != config.ImageStorageDataURI {
		r.Static(cfg.UploadURLPrefix, cfg.UploadDir)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http server shutdown failed", zap.Error(err))
	}
	if err := store.close(shutdownCtx); err != nil {
		log.Warn("database close failed", zap.Error(err))
	}
}

// openBackend connects to the configured database and prepares its schema.
func openBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (*backend, error) {
	if cfg.DBDriver == config.DriverMongo {
		client, db, err := database.ConnectMongo(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &backend{
			repos: repository.NewMongo(db),
			ping: func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			},
			close: client.Disconnect,
		}, nil
	}

	if err := database.Connect(cfg, log); err != nil {
		return nil, err
	}
	db := database.GetDB()
	if err := database.Migrate(db, log); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}

	return &backend{
		repos: repository.New(db),
		ping:  sqlDB.PingContext,
		close: func(context.Context) error {
			return sqlDB.Close()
		},
	}, nil
}

func imageStore(cfg *config.Config) storage.BlobStore {
	if cfg.ImageStorage == config.ImageStorageDataURI {
		return storage.NewDataURIStore(cfg.MaxImageBytes)
	}
	return storage.NewLocalStore(cfg.UploadDir, cfg.UploadURLPrefix, cfg.MaxImageBytes)
}
