package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"interview-alchemist/internal/catalog"
	"interview-alchemist/internal/config"
	"interview-alchemist/internal/evaluator"
	"interview-alchemist/internal/events"
	"interview-alchemist/internal/feedback"
	"interview-alchemist/internal/generator"
	"interview-alchemist/internal/handlers"
	"interview-alchemist/internal/interview"
	"interview-alchemist/internal/jobs"
	"interview-alchemist/internal/llm"
	_ "interview-alchemist/internal/llm/gemini"
	_ "interview-alchemist/internal/llm/openai"
	"interview-alchemist/internal/metrics"
	"interview-alchemist/internal/models"
	"interview-alchemist/internal/prompts"
	"interview-alchemist/internal/repositories"
	"interview-alchemist/internal/repositories/memory"
	mongorepo "interview-alchemist/internal/repositories/mongo"
	"interview-alchemist/internal/routers"
	"interview-alchemist/internal/utils"
)

const serviceName = "interview-alchemist"

// dependencies the router is built from
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	provider   llm.Provider
	prompts    prompts.PromptProvider
	store      repositories.InterviewStore
	publisher  events.Publisher
	feedback   *feedback.Manager
	controller *interview.Controller
}

func newRouter(a *app) *chi.Mux {
	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware(serviceName))

	interviewHandler := handlers.NewInterviewHandler(a.controller, a.logger)
	feedbackHandler := handlers.NewFeedbackHandler(a.feedback, a.controller, a.logger)

	routers.HealthRoutes(router, handlers.NewHealthHandler(a.provider, a.prompts, a.cfg, a.store))
	routers.CatalogRoutes(router, handlers.NewCatalogHandler(catalog.MustDefault()))
	routers.InterviewRoutes(router, a.cfg.JWTSecret, interviewHandler, feedbackHandler)
	routers.AdminRoutes(router, a.cfg.JWTSecret, interviewHandler, feedbackHandler)
	return router
}

// newController wires the generator, evaluator and optional collaborators
func newController(a *app) *interview.Controller {
	opts := []interview.Option{
		interview.WithPublisher(a.publisher),
		interview.WithPageSize(a.cfg.PageSize),
	}
	if a.feedback != nil {
		opts = append(opts, interview.WithFeedback(a.feedback))
	}
	return interview.New(a.store,
		generator.New(a.provider, a.prompts, a.logger),
		evaluator.New(a.provider, a.prompts, a.logger),
		a.logger, opts...)
}

// buildStore returns the configured session store and a func releasing it
func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.InterviewStore, func(context.Context), error) {
	if cfg.StoreBackend == "memory" {
		logger.Warn("using in-memory interview store, sessions are lost on restart")
		return memory.NewStore(), func(context.Context) {}, nil
	}

	client, err := mongorepo.NewClient(cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return nil, nil, err
	}
	repo := mongorepo.NewInterviewRepo(client, cfg.MongoCollection)
	// the client connects lazily, an unreachable server only fails readiness
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Warn("failed to ensure interview indexes", zap.Error(err))
	}
	return repo, func(ctx context.Context) {
		if err := client.Disconnect(ctx); err != nil {
			logger.Warn("mongo disconnect failed", zap.Error(err))
		}
	}, nil
}

func buildPublisher(cfg *config.Config, logger *zap.Logger) (events.Publisher, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, completion events are not published")
		return events.NopPublisher{}, func() {}
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	return events.NewRedisPublisher(rdb, cfg.RedisChannel), func() { _ = rdb.Close() }
}

// initDatabase opens postgres for feedback storage and migrates its table
func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.AIFeedback{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func main() {
	// a missing .env is fine, the environment wins anyway
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.IsDevelopment())
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("store", cfg.StoreBackend))

	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	provider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	store, closeStore, err := buildStore(startCtx, cfg, logger)
	cancelStart()
	if err != nil {
		logger.Fatal("Failed to initialize interview store", zap.Error(err))
	}

	publisher, closePublisher := buildPublisher(cfg, logger)

	a := &app{
		cfg:       cfg,
		logger:    logger,
		provider:  provider,
		prompts:   promptManager,
		store:     store,
		publisher: publisher,
	}

	var exporter *jobs.FeedbackExporter
	if cfg.Feedback.Enabled {
		db, err := initDatabase(cfg)
		if err != nil {
			logger.Error("Failed to initialize database, feedback system will be disabled", zap.Error(err))
		} else {
			a.feedback = feedback.NewManager(db, cfg.Feedback.CacheTTL, logger)
			exporter = jobs.NewFeedbackExporter(a.feedback, jobs.ExporterConfig{
				Schedule:      cfg.Feedback.ExportSchedule,
				ExportDir:     cfg.Feedback.ExportDir,
				ExportEnabled: cfg.Feedback.ExportEnabled,
			}, logger)
			if err := exporter.Start(); err != nil {
				logger.Error("Failed to start feedback exporter job", zap.Error(err))
			}
			logger.Info("Feedback system initialized")
		}
	}

	a.controller = newController(a)
	router := newRouter(a)

	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if exporter != nil {
		exporter.Stop()
	}
	if a.feedback != nil {
		a.feedback.Close()
	}
	closePublisher()
	closeStore(ctx)

	logger.Info("Interview service exited")
}
