package analysis

import (
	"context"
	"errors"
	"image"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/prepvoice/interview-coach/internal/domain/entities"
	"github.com/prepvoice/interview-coach/internal/infrastructure/media"
)

// FrameReader yields grayscale video frames in decode order.
type FrameReader interface {
	// Next returns the next frame, or io.EOF when the stream ends.
	Next() (*image.Gray, error)
	// Close releases the decoder. Must be safe to call on every exit path.
	Close() error
}

// FrameOpener opens a video file for sequential frame reading.
type FrameOpener interface {
	Open(ctx context.Context, path string) (FrameReader, error)
}

// OpenerFunc adapts a plain function to the FrameOpener interface.
type OpenerFunc func(ctx context.Context, path string) (FrameReader, error)

// Open implements FrameOpener.
func (f OpenerFunc) Open(ctx context.Context, path string) (FrameReader, error) {
	return f(ctx, path)
}

// FaceDetector finds face regions in a grayscale frame, in detector order.
type FaceDetector interface {
	Detect(img *image.Gray, maxFaces int) []image.Rectangle
}

// EmotionClassifier assigns one of the seven emotion labels to a face crop.
type EmotionClassifier interface {
	Classify(ctx context.Context, face *image.Gray) (string, error)
}

// videoExtensions is the closed set of recognized container extensions.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
}

// ConfidenceScorer derives a facial-confidence score from a video file by
// sampling frames, detecting faces and classifying their emotion.
type ConfidenceScorer struct {
	opener      FrameOpener
	detector    FaceDetector
	classifier  EmotionClassifier
	frameStride int
	targetWidth int
	maxFaces    int
	logger      *zap.Logger
}

// NewConfidenceScorer constructs a ConfidenceScorer with the given sampling
// knobs. frameStride and maxFaces must be >= 1 (enforced by config).
func NewConfidenceScorer(opener FrameOpener, detector FaceDetector, classifier EmotionClassifier, frameStride, targetWidth, maxFaces int, logger *zap.Logger) *ConfidenceScorer {
	return &ConfidenceScorer{
		opener:      opener,
		detector:    detector,
		classifier:  classifier,
		frameStride: frameStride,
		targetWidth: targetWidth,
		maxFaces:    maxFaces,
		logger:      logger,
	}
}

// Score returns a confidence score in [0,1]. Unrecognized extensions and
// unopenable files score 0.0, as does a video with no detected faces across
// all sampled frames.
func (s *ConfidenceScorer) Score(ctx context.Context, path string) float64 {
	if !IsVideo(path) {
		return 0.0
	}

	reader, err := s.opener.Open(ctx, path)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to open video", zap.String("path", path), zap.Error(err))
		}
		return 0.0
	}
	defer reader.Close()

	var scores []float64
	frameIdx := 0

	for {
		if ctx.Err() != nil {
			break
		}

		frame, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// The raw stream is positional; a decode error means the rest of
			// the stream cannot be trusted.
			if s.logger != nil {
				s.logger.Warn("frame decode failed, stopping scan",
					zap.String("path", path),
					zap.Int("frame", frameIdx),
					zap.Error(err))
			}
			break
		}
		frameIdx++

		// Skip frames to reduce compute
		if frameIdx%s.frameStride != 0 {
			continue
		}

		frame = media.DownscaleGray(frame, s.targetWidth)

		for _, region := range s.detector.Detect(frame, s.maxFaces) {
			face := cropGray(frame, region)
			if face == nil {
				continue
			}

			emotion, err := s.classifier.Classify(ctx, face)
			if err != nil {
				if s.logger != nil {
					s.logger.Warn("emotion classification failed, skipping face",
						zap.Int("frame", frameIdx), zap.Error(err))
				}
				continue
			}
			scores = append(scores, emotionConfidence(emotion))
		}
	}

	if len(scores) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, v := range scores {
		sum += v
	}
	return entities.Round2(sum / float64(len(scores)))
}

// IsVideo reports whether the path carries a recognized video extension.
func IsVideo(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// emotionConfidence maps an emotion label to a heuristic confidence value.
func emotionConfidence(emotion string) float64 {
	switch emotion {
	case "Happy", "Neutral":
		return 1.0
	case "Sad", "Surprise":
		return 0.7
	default: // Angry, Disgust, Fear
		return 0.5
	}
}

func cropGray(img *image.Gray, region image.Rectangle) *image.Gray {
	r := region.Intersect(img.Bounds())
	if r.Empty() {
		return nil
	}
	return img.SubImage(r).(*image.Gray)
}
