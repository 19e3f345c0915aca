package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/handler"
	"github.com/Dan9191/cashflow-service/internal/integrations/gemini"
	"github.com/Dan9191/cashflow-service/internal/repository"
	"github.com/Dan9191/cashflow-service/internal/scheduler"
	"github.com/Dan9191/cashflow-service/internal/service"
	"github.com/Dan9191/cashflow-service/internal/utils/email"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Optional .env for local runs
	_ = godotenv.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Classification setup
	exemplars, err := service.LoadExemplars(cfg.ExemplarsFile)
	if err != nil {
		logger.Fatalf("Failed to load exemplars: %v", err)
	}
	lexical := service.NewLexicalScorer(exemplars)
	opts := []service.Option{service.WithScorer(lexical)}

	// AI collaborators
	if cfg.AIEnabled() {
		client, err := gemini.NewClient(context.Background(), cfg, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		opts = append(opts,
			service.WithEnhancer(gemini.NewEnhancer(client, logger)),
			service.WithReviewer(gemini.NewReviewer(client)),
		)
		if cfg.ClassifierBackend == config.BackendEmbedding {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
			embeddings, err := service.NewEmbeddingScorer(ctx, client, exemplars, lexical)
			cancel()
			if err != nil {
				logger.Fatalf("Failed to initialize embedding classifier: %v", err)
			}
			opts = append(opts, service.WithEmbeddings(embeddings))
			logger.Infof("Embedding classifier initialized with %d categories", len(exemplars))
		}
	} else {
		logger.Info("GEMINI_API_KEY not set, AI enhancement disabled")
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, logger, cfg, opts...)
	h := handler.NewHandler(svc, logger)

	// Scheduled reports
	if cfg.ReportSchedule != "" {
		sched := scheduler.NewScheduler(svc, email.NewSender(cfg, logger), cfg, logger)
		if err := sched.Start(); err != nil {
			logger.Fatalf("Failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      http.TimeoutHandler(h.Router(cfg), cfg.RequestTimeout, `{"error":"request timed out"}`),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}
