package analysisctx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStageBegin(t *testing.T) {
	id := uuid.New()
	ctx, cancel := StageBegin(context.Background(), id, StageTranscribe, time.Minute)
	defer cancel()

	gotID, ok := RequestID(ctx)
	if !ok || gotID != id {
		t.Fatalf("RequestID = %v, %v", gotID, ok)
	}
	stage, ok := Stage(ctx)
	if !ok || stage != StageTranscribe {
		t.Fatalf("Stage = %q, %v", stage, ok)
	}
	if _, ok := ctx.Deadline(); !ok {
		t.Fatal("stage context has no deadline")
	}
	if Elapsed(ctx) < 0 {
		t.Fatal("negative elapsed time")
	}
}

func TestStageBeginTimeout(t *testing.T) {
	ctx, cancel := StageBegin(context.Background(), uuid.New(), StageSentiment, time.Millisecond)
	defer cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("stage context did not expire")
	}
}

func TestIsRetryableError(t *testing.T) {
	retryable := []error{
		errors.New("dial tcp 127.0.0.1:9000: connect: connection refused"),
		errors.New("read tcp: connection reset by peer"),
		errors.New("dial tcp: lookup whisper: no such host"),
		errors.New("context deadline exceeded: i/o timeout"),
		errors.New("whisper server returned status 503"),
		errors.New("Service Unavailable"),
	}
	for _, err := range retryable {
		if !IsRetryableError(err) {
			t.Fatalf("IsRetryableError(%v) = false, want true", err)
		}
	}

	permanent := []error{
		nil,
		errors.New("whisper server returned status 400"),
		errors.New("unknown emotion label \"Ecstatic\""),
	}
	for _, err := range permanent {
		if IsRetryableError(err) {
			t.Fatalf("IsRetryableError(%v) = true, want false", err)
		}
	}
}
