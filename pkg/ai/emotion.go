package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"os"

	"golang.org/x/image/draw"

	"github.com/prepvoice/interview-coach/pkg/config"
)

// EmotionLabels is the closed 7-label space of the facial emotion classifier.
var EmotionLabels = []string{"Angry", "Disgust", "Fear", "Happy", "Sad", "Surprise", "Neutral"}

// faceInputSize is the side length the classifier expects for face crops.
const faceInputSize = 48

// EmotionClient is a minimal client for the facial emotion classification
// sidecar. Face crops are normalized to 48x48 grayscale and sent as base64
// PNG.
type EmotionClient struct {
	baseURL string
	client  *http.Client
}

// NewEmotionClient creates an emotion client using the provided config.
// If cfg is nil, falls back to environment variables.
func NewEmotionClient(cfg *config.EmotionConfig) *EmotionClient {
	c := &EmotionClient{client: &http.Client{}}
	if cfg != nil {
		c.baseURL = cfg.BaseURL
		c.client.Timeout = cfg.Timeout
	}
	if c.baseURL == "" {
		c.baseURL = os.Getenv("EMOTION_URL")
	}
	return c
}

// classifyFaceRequest is the payload for /classify
type classifyFaceRequest struct {
	Image string `json:"image"`
}

// classifyFaceResponse is the minimal response shape
type classifyFaceResponse struct {
	Emotion string `json:"emotion"`
}

// Classify normalizes the crop and returns one of the seven emotion labels.
func (e *EmotionClient) Classify(ctx context.Context, face *image.Gray) (string, error) {
	normalized := normalizeFace(face)

	var buf bytes.Buffer
	if err := png.Encode(&buf, normalized); err != nil {
		return "", fmt.Errorf("encode face crop: %w", err)
	}

	b, err := json.Marshal(classifyFaceRequest{
		Image: base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/classify", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("emotion server returned status %d", resp.StatusCode)
	}

	var cr classifyFaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if !isKnownEmotion(cr.Emotion) {
		return "", fmt.Errorf("unknown emotion label %q", cr.Emotion)
	}
	return cr.Emotion, nil
}

// Ping checks whether the emotion server is reachable.
func (e *EmotionClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", e.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("emotion server returned status %d", resp.StatusCode)
	}
	return nil
}

func isKnownEmotion(label string) bool {
	for _, l := range EmotionLabels {
		if l == label {
			return true
		}
	}
	return false
}

// normalizeFace scales a crop to the classifier's 48x48 input size.
func normalizeFace(face *image.Gray) *image.Gray {
	b := face.Bounds()
	if b.Dx() == faceInputSize && b.Dy() == faceInputSize {
		return face
	}
	dst := image.NewGray(image.Rect(0, 0, faceInputSize, faceInputSize))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), face, b, draw.Src, nil)
	return dst
}
