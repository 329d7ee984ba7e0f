package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Whisper    WhisperConfig
	Assembly   AssemblyAIConfig
	Sentiment  SentimentConfig
	Emotion    EmotionConfig
	Analysis   AnalysisConfig
	Transcribe TranscribeConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// StorageConfig holds upload/report storage configuration
type StorageConfig struct {
	UploadDir string
	ReportDir string
	Archive   ArchiveConfig
}

// ArchiveConfig holds optional object-storage archive configuration
type ArchiveConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// TranscribeConfig selects the transcriber backend
type TranscribeConfig struct {
	// Provider is "whisper" (HTTP server) or "assemblyai"
	Provider string
}

// WhisperConfig holds faster-whisper server configuration
type WhisperConfig struct {
	BaseURL  string
	Model    string
	Language string
	// VADFilter trims silence before decoding
	VADFilter           bool
	MinSpeechDurationMS int
	BeamSize            int
	Temperature         float64
	Timeout             time.Duration
}

// AssemblyAIConfig holds AssemblyAI configuration
type AssemblyAIConfig struct {
	APIKey string
}

// SentimentConfig holds sentiment classifier endpoint configuration
type SentimentConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// EmotionConfig holds emotion classifier endpoint configuration
type EmotionConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AnalysisConfig holds scorer tuning knobs. Loaded with envconfig so the
// variable names stay compatible with the FA_* convention.
type AnalysisConfig struct {
	FrameStride        int           `envconfig:"FA_FRAME_STRIDE" default:"10"`
	TargetWidth        int           `envconfig:"FA_TARGET_WIDTH" default:"320"`
	MaxFaces           int           `envconfig:"FA_MAX_FACES" default:"1"`
	DecoderThreads     int           `envconfig:"FA_DECODER_THREADS" default:"1"`
	CascadePath        string        `envconfig:"FA_CASCADE_PATH" default:"cascade/facefinder"`
	DefaultDurationSec float64       `envconfig:"DEFAULT_DURATION_SEC" default:"60"`
	StageTimeout       time.Duration `envconfig:"ANALYSIS_STAGE_TIMEOUT" default:"2m"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Storage: StorageConfig{
			UploadDir: getEnv("UPLOAD_DIR", "uploads"),
			ReportDir: getEnv("REPORT_DIR", "reports"),
			Archive: ArchiveConfig{
				Enabled:         getEnvAsBool("ARCHIVE_ENABLED", false),
				Endpoint:        getEnv("ARCHIVE_ENDPOINT", "localhost:9000"),
				AccessKeyID:     getEnv("ARCHIVE_ACCESS_KEY", "minioadmin"),
				SecretAccessKey: getEnv("ARCHIVE_SECRET_KEY", "minioadmin"),
				BucketName:      getEnv("ARCHIVE_BUCKET", "interview-coach"),
				UseSSL:          getEnvAsBool("ARCHIVE_USE_SSL", false),
			},
		},
		Transcribe: TranscribeConfig{
			Provider: getEnv("TRANSCRIBER", "whisper"),
		},
		Whisper: WhisperConfig{
			BaseURL:             getEnv("WHISPER_URL", "http://localhost:8000"),
			Model:               getEnv("WHISPER_MODEL", "base"),
			Language:            getEnv("WHISPER_LANGUAGE", "en"),
			VADFilter:           getEnvAsBool("WHISPER_VAD_FILTER", true),
			MinSpeechDurationMS: getEnvAsInt("WHISPER_MIN_SPEECH_MS", 300),
			BeamSize:            getEnvAsInt("WHISPER_BEAM_SIZE", 1),
			Temperature:         getEnvAsFloat("WHISPER_TEMPERATURE", 0),
			Timeout:             getEnvAsDuration("WHISPER_TIMEOUT", "90s"),
		},
		Assembly: AssemblyAIConfig{
			APIKey: getEnv("ASSEMBLYAI_API_KEY", ""),
		},
		Sentiment: SentimentConfig{
			BaseURL: getEnv("SENTIMENT_URL", "http://localhost:8001"),
			Model:   getEnv("SENTIMENT_MODEL", "distilbert-base-uncased-finetuned-sst-2-english"),
			Timeout: getEnvAsDuration("SENTIMENT_TIMEOUT", "30s"),
		},
		Emotion: EmotionConfig{
			BaseURL: getEnv("EMOTION_URL", "http://localhost:8002"),
			Timeout: getEnvAsDuration("EMOTION_TIMEOUT", "30s"),
		},
	}

	if err := envconfig.Process("", &config.Analysis); err != nil {
		return nil, fmt.Errorf("failed to process analysis config: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Transcribe.Provider {
	case "whisper":
		if c.Whisper.BaseURL == "" {
			return fmt.Errorf("WHISPER_URL is required when TRANSCRIBER=whisper")
		}
	case "assemblyai":
		if c.Assembly.APIKey == "" {
			return fmt.Errorf("ASSEMBLYAI_API_KEY is required when TRANSCRIBER=assemblyai")
		}
	default:
		return fmt.Errorf("unknown TRANSCRIBER %q (use whisper or assemblyai)", c.Transcribe.Provider)
	}
	if c.Analysis.FrameStride < 1 {
		return fmt.Errorf("FA_FRAME_STRIDE must be >= 1")
	}
	if c.Analysis.MaxFaces < 1 {
		return fmt.Errorf("FA_MAX_FACES must be >= 1")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
