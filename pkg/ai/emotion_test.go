package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prepvoice/interview-coach/pkg/config"
)

func newEmotionServer(t *testing.T, emotion string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req classifyFaceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}

		// Payload must be a decodable 48x48 PNG.
		raw, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			t.Errorf("image is not base64: %v", err)
		}
		img, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			t.Errorf("image is not a PNG: %v", err)
		} else if b := img.Bounds(); b.Dx() != 48 || b.Dy() != 48 {
			t.Errorf("face crop is %dx%d, want 48x48", b.Dx(), b.Dy())
		}

		json.NewEncoder(w).Encode(classifyFaceResponse{Emotion: emotion})
	}))
}

func newEmotionTestClient(url string) *EmotionClient {
	return NewEmotionClient(&config.EmotionConfig{BaseURL: url, Timeout: 5 * time.Second})
}

func TestEmotionClassify(t *testing.T) {
	srv := newEmotionServer(t, "Happy")
	defer srv.Close()

	face := image.NewGray(image.Rect(0, 0, 64, 80))
	got, err := newEmotionTestClient(srv.URL).Classify(context.Background(), face)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got != "Happy" {
		t.Fatalf("emotion = %q, want Happy", got)
	}
}

func TestEmotionClassifyRejectsUnknownLabel(t *testing.T) {
	srv := newEmotionServer(t, "Ecstatic")
	defer srv.Close()

	face := image.NewGray(image.Rect(0, 0, 48, 48))
	if _, err := newEmotionTestClient(srv.URL).Classify(context.Background(), face); err == nil {
		t.Fatal("expected error for label outside the closed set")
	}
}

func TestEmotionClassifyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	face := image.NewGray(image.Rect(0, 0, 48, 48))
	if _, err := newEmotionTestClient(srv.URL).Classify(context.Background(), face); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestNormalizeFacePreservesExactSize(t *testing.T) {
	face := image.NewGray(image.Rect(0, 0, 48, 48))
	if got := normalizeFace(face); got != face {
		t.Fatal("48x48 crop should pass through unchanged")
	}
}
