package analysisctx

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey string

var (
	keyRequestID contextKey = "request_id"
	keyStage     contextKey = "stage"
	keyStartTime contextKey = "start_time"
)

// Pipeline stages, used for logging and timeout attribution.
const (
	StageTranscribe = "transcribe"
	StageSentiment  = "sentiment"
	StageVideoScan  = "video_scan"
	StageReport     = "report"
)

// StageBegin derives a context for one pipeline stage with a deadline and
// identifying metadata. Model inference and video scanning must run inside a
// stage context so a stuck sidecar cannot hang the request.
func StageBegin(parent context.Context, requestID uuid.UUID, stage string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	ctx = context.WithValue(ctx, keyRequestID, requestID)
	ctx = context.WithValue(ctx, keyStage, stage)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())
	return ctx, cancel
}

// RequestID extracts the request ID from a stage context.
func RequestID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyRequestID).(uuid.UUID)
	return id, ok
}

// Stage extracts the stage name from a stage context.
func Stage(ctx context.Context) (string, bool) {
	stage, ok := ctx.Value(keyStage).(string)
	return stage, ok
}

// Elapsed reports how long the stage has been running.
func Elapsed(ctx context.Context) time.Duration {
	start, ok := ctx.Value(keyStartTime).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}

// IsRetryableError classifies errors for the startup warmup probe. Model
// calls inside a request are single-shot; only the warmup loop retries.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Network errors while a sidecar is still coming up
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Server still loading model weights
	if strings.Contains(errStr, "status 5") ||
		strings.Contains(errStr, "service unavailable") {
		return true
	}

	return false
}
