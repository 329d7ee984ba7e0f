package ai

import (
	"context"
	"fmt"
	"os"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/prepvoice/interview-coach/pkg/config"
)

// AssemblyAITranscriber transcribes local audio files through the official
// AssemblyAI SDK (upload + poll). Alternative to the whisper server backend
// for deployments without a local model sidecar.
type AssemblyAITranscriber struct {
	client *aai.Client
}

// NewAssemblyAITranscriber creates an AssemblyAI transcriber using the
// provided config. If cfg is nil, falls back to environment variables.
func NewAssemblyAITranscriber(cfg *config.AssemblyAIConfig) *AssemblyAITranscriber {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	return &AssemblyAITranscriber{
		client: aai.NewClient(apiKey),
	}
}

// Transcribe uploads the file and blocks until the transcript is ready.
func (t *AssemblyAITranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	transcript, err := t.client.Transcripts.TranscribeFromReader(ctx, f, nil)
	if err != nil {
		return "", fmt.Errorf("assemblyai transcribe: %w", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", fmt.Errorf("assemblyai transcript failed: %s", msg)
	}
	if transcript.Text == nil {
		return "", nil
	}
	return *transcript.Text, nil
}
