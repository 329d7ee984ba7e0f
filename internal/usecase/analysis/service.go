package analysis

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/prepvoice/interview-coach/errors"
	"github.com/prepvoice/interview-coach/internal/domain/entities"
	"github.com/prepvoice/interview-coach/internal/infrastructure/storage"
	"github.com/prepvoice/interview-coach/pkg/ai"
	"github.com/prepvoice/interview-coach/pkg/analysisctx"
)

// Transcriber turns an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// SentimentScorer classifies text into the binary POSITIVE/NEGATIVE space.
type SentimentScorer interface {
	Score(ctx context.Context, text string) (ai.SentimentResult, error)
}

// DurationProber reads an audio file's duration from metadata.
type DurationProber func(path string) (float64, error)

// Archiver copies processed media into long-term storage. Optional.
type Archiver interface {
	ArchiveFile(ctx context.Context, prefix, path string) error
}

// Upload is one incoming media file.
type Upload struct {
	Filename string
	Content  io.Reader
}

// Service runs the full analysis pipeline for one request: persist uploads,
// transcribe, score sentiment/clarity/pace from the transcript, score
// confidence from the video, aggregate.
type Service struct {
	store           *storage.LocalStore
	transcriber     Transcriber
	sentiment       SentimentScorer
	confidence      *ConfidenceScorer
	probeDuration   DurationProber
	archive         Archiver
	defaultDuration float64
	stageTimeout    time.Duration
	logger          *zap.Logger
}

// NewService constructs the orchestrator. archive may be nil.
func NewService(
	store *storage.LocalStore,
	transcriber Transcriber,
	sentiment SentimentScorer,
	confidence *ConfidenceScorer,
	probeDuration DurationProber,
	archive Archiver,
	defaultDuration float64,
	stageTimeout time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		store:           store,
		transcriber:     transcriber,
		sentiment:       sentiment,
		confidence:      confidence,
		probeDuration:   probeDuration,
		archive:         archive,
		defaultDuration: defaultDuration,
		stageTimeout:    stageTimeout,
		logger:          logger,
	}
}

// Analyze executes the pipeline and returns the aggregated result. The audio
// upload is required; video is optional. The audio and video paths are
// causally independent and run as a scatter/gather pair.
func (s *Service) Analyze(ctx context.Context, audio Upload, video *Upload) (*entities.AnalysisResult, error) {
	if audio.Filename == "" {
		return nil, apperrors.ErrEmptyAudioFilename()
	}

	requestID := uuid.New()

	audioPath, err := s.store.Save(requestID, audio.Filename, audio.Content)
	if err != nil {
		return nil, err
	}

	videoPath := ""
	if video != nil && video.Filename != "" {
		videoPath, err = s.store.Save(requestID, video.Filename, video.Content)
		if err != nil {
			return nil, err
		}
	}

	// Video path: independent of the transcript, so it runs concurrently with
	// the audio path. Result is read only after wg.Wait.
	confidenceScore := entities.NeutralConfidence
	confidenceSource := entities.ConfidenceSourceDefault

	var wg sync.WaitGroup
	if videoPath != "" {
		confidenceSource = entities.ConfidenceSourceVideo
		wg.Add(1)
		go func() {
			defer wg.Done()
			vctx, cancel := analysisctx.StageBegin(ctx, requestID, analysisctx.StageVideoScan, s.stageTimeout)
			defer cancel()
			confidenceScore = s.confidence.Score(vctx, videoPath)
			if s.logger != nil {
				s.logger.Info("video scan finished",
					zap.String("request_id", requestID.String()),
					zap.Float64("confidence", confidenceScore),
					zap.Duration("elapsed", analysisctx.Elapsed(vctx)))
			}
		}()
	}

	transcript := s.transcribe(ctx, requestID, audioPath)

	sctx, cancel := analysisctx.StageBegin(ctx, requestID, analysisctx.StageSentiment, s.stageTimeout)
	sent, err := s.sentiment.Score(sctx, transcript)
	cancel()
	if err != nil {
		wg.Wait()
		return nil, apperrors.ErrSentimentFailed(err)
	}

	durationSec := s.duration(requestID, audioPath)

	clarity := ClarityScore(transcript)
	pace, err := PaceScore(transcript, durationSec)
	if err != nil {
		wg.Wait()
		return nil, err
	}

	wg.Wait()

	result, err := entities.NewAnalysisResult(
		transcript,
		entities.Sentiment{Label: sent.Label, Score: sent.Score},
		clarity,
		pace,
		confidenceScore,
		durationSec,
		confidenceSource,
	)
	if err != nil {
		return nil, apperrors.ErrAnalysisFailed(err)
	}

	s.archiveUploads(requestID, audioPath, videoPath)

	return result, nil
}

// transcribe obtains the transcript. A transcriber failure degrades into a
// visible error string instead of failing the request; sentiment, clarity and
// pace then score that string.
func (s *Service) transcribe(ctx context.Context, requestID uuid.UUID, audioPath string) string {
	tctx, cancel := analysisctx.StageBegin(ctx, requestID, analysisctx.StageTranscribe, s.stageTimeout)
	defer cancel()

	transcript, err := s.transcriber.Transcribe(tctx, audioPath)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("transcription failed, continuing with degraded transcript",
				zap.String("request_id", requestID.String()),
				zap.Error(err))
		}
		return fmt.Sprintf("Error during transcription: %v", err)
	}
	return transcript
}

// duration probes the audio metadata, falling back to the configured default
// when the probe fails or yields a non-positive value.
func (s *Service) duration(requestID uuid.UUID, audioPath string) float64 {
	durationSec, err := s.probeDuration(audioPath)
	if err != nil || durationSec <= 0 {
		if s.logger != nil {
			s.logger.Warn("duration probe failed, using default",
				zap.String("request_id", requestID.String()),
				zap.Float64("default_sec", s.defaultDuration),
				zap.Error(err))
		}
		return s.defaultDuration
	}
	return durationSec
}

// archiveUploads copies the stored media to the archive, best effort.
func (s *Service) archiveUploads(requestID uuid.UUID, paths ...string) {
	if s.archive == nil {
		return
	}
	prefix := "uploads/" + requestID.String()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		for _, p := range paths {
			if p == "" {
				continue
			}
			if err := s.archive.ArchiveFile(ctx, prefix, p); err != nil && s.logger != nil {
				s.logger.Warn("failed to archive upload",
					zap.String("request_id", requestID.String()),
					zap.String("path", p),
					zap.Error(err))
			}
		}
	}()
}
