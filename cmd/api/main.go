package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/prepvoice/interview-coach/pkg/validator"

	"github.com/prepvoice/interview-coach/internal/adapter/handler"
	"github.com/prepvoice/interview-coach/internal/infrastructure/media"
	"github.com/prepvoice/interview-coach/internal/infrastructure/storage"
	"github.com/prepvoice/interview-coach/internal/infrastructure/vision"
	"github.com/prepvoice/interview-coach/internal/usecase/analysis"
	"github.com/prepvoice/interview-coach/internal/usecase/report"
	pkgai "github.com/prepvoice/interview-coach/pkg/ai"
	"github.com/prepvoice/interview-coach/pkg/analysisctx"
	"github.com/prepvoice/interview-coach/pkg/config"
	"github.com/prepvoice/interview-coach/pkg/pdf"
)

// @title           Interview Coach API
// @version         1.0
// @description     Interview-practice feedback API: upload a spoken answer, get a composite score and a PDF coaching report.

// @host      localhost:8080
// @BasePath  /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Upload and report storage
	log.Println("📦 Initializing upload store...")
	uploadStore, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload store: %v", err)
	}

	var analysisArchive analysis.Archiver
	var reportArchive report.Archiver
	if cfg.Storage.Archive.Enabled {
		log.Println("📦 Connecting to archive storage...")
		archiveStore, err := storage.NewArchiveStore(&cfg.Storage.Archive)
		if err != nil {
			log.Fatalf("Failed to connect to archive storage: %v", err)
		}
		analysisArchive = archiveStore
		reportArchive = archiveStore
	}

	// Model clients
	log.Println("🤖 Initializing model clients...")
	var transcriber analysis.Transcriber
	whisperClient := pkgai.NewWhisperClient(&cfg.Whisper)
	switch cfg.Transcribe.Provider {
	case "assemblyai":
		transcriber = pkgai.NewAssemblyAITranscriber(&cfg.Assembly)
	default:
		transcriber = whisperClient
	}
	sentimentClient := pkgai.NewSentimentClient(&cfg.Sentiment)
	emotionClient := pkgai.NewEmotionClient(&cfg.Emotion)

	// Face detector: loaded once, shared read-only by all requests
	log.Println("👤 Loading face cascade...")
	detector, err := vision.NewCascadeDetector(cfg.Analysis.CascadePath)
	if err != nil {
		log.Fatalf("Failed to load face cascade: %v", err)
	}

	// Video decoding
	executor := media.NewExecutor(cfg.Analysis.DecoderThreads)
	opener := analysis.OpenerFunc(func(ctx context.Context, path string) (analysis.FrameReader, error) {
		return executor.OpenVideo(ctx, path)
	})

	confidenceScorer := analysis.NewConfidenceScorer(
		opener,
		detector,
		emotionClient,
		cfg.Analysis.FrameStride,
		cfg.Analysis.TargetWidth,
		cfg.Analysis.MaxFaces,
		logger,
	)

	// Analysis pipeline
	log.Println("⚙️  Initializing analysis service...")
	analysisService := analysis.NewService(
		uploadStore,
		transcriber,
		sentimentClient,
		confidenceScorer,
		media.ProbeDuration,
		analysisArchive,
		cfg.Analysis.DefaultDurationSec,
		cfg.Analysis.StageTimeout,
		logger,
	)

	// Report building
	log.Println("📝 Initializing report service...")
	reportService, err := report.NewService(pdf.NewRenderer(), cfg.Storage.ReportDir, reportArchive, logger)
	if err != nil {
		log.Fatalf("Failed to initialize report service: %v", err)
	}

	// Handlers and routes
	log.Println("🛣️  Setting up routes...")
	analyzeHandler := handler.NewAnalyzeHandler(analysisService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	router := handler.NewRouter(cfg, analyzeHandler, reportHandler)
	router.Setup(e)

	// Warm up model sidecars in the background so the first request does not
	// pay the cold-start cost.
	warmupCtx, warmupCancel := context.WithCancel(context.Background())
	defer warmupCancel()
	probes := map[string]func(context.Context) error{
		"sentiment": sentimentClient.Ping,
		"emotion":   emotionClient.Ping,
	}
	if cfg.Transcribe.Provider == "whisper" {
		probes["whisper"] = whisperClient.Ping
	}
	go warmupModels(warmupCtx, logger, probes)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

// warmupModels pings each model sidecar until it answers. Request-path model
// calls stay single-shot; only this startup loop retries.
func warmupModels(ctx context.Context, logger *zap.Logger, probes map[string]func(context.Context) error) {
	for name, ping := range probes {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = 2 * time.Second
		bo.MaxInterval = 10 * time.Second
		bo.MaxElapsedTime = 2 * time.Minute

		probe := func() error {
			pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := ping(pctx); err != nil {
				if analysisctx.IsRetryableError(err) {
					return err
				}
				return backoff.Permanent(err)
			}
			return nil
		}

		if err := backoff.Retry(probe, backoff.WithContext(bo, ctx)); err != nil {
			logger.Warn("model sidecar not ready after warmup",
				zap.String("service", name),
				zap.Error(err))
			continue
		}
		logger.Info("model sidecar ready", zap.String("service", name))
	}
}
