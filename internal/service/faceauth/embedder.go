package faceauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"online-voting/internal/domain"
)

type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Detection struct {
	Box        Box        `json:"box"`
	Descriptor Descriptor `json:"descriptor"`
	Score      float64    `json:"score"`
}

// Embedder detects faces in an image and computes one descriptor per face.
// With multi unset at most one detection is returned.
type Embedder interface {
	Detect(ctx context.Context, image []byte, contentType string, multi bool) ([]Detection, error)
}

// HTTPEmbedder calls the face embedding service.
type HTTPEmbedder struct {
	baseURL string
	client  *http.Client
}

func NewHTTPEmbedder(baseURL string, timeout time.Duration) *HTTPEmbedder {
	return &HTTPEmbedder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type detectResponse struct {
	Faces []Detection `json:"faces"`
	Error string      `json:"error,omitempty"`
}

func (e *HTTPEmbedder) Detect(ctx context.Context, image []byte, contentType string, multi bool) ([]Detection, error) {
	url := e.baseURL + "/v1/detect?multi=false"
	if multi {
		url = e.baseURL + "/v1/detect?multi=true"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: face detect request: %v", domain.ErrCollaboratorFailed, err)
	}
	defer resp.Body.Close()

	var body detectResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: malformed face detect response (status %d): %v", domain.ErrCollaboratorFailed, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || body.Error != "" {
		return nil, fmt.Errorf("%w: face service returned %d: %s", domain.ErrCollaboratorFailed, resp.StatusCode, body.Error)
	}

	if !multi && len(body.Faces) > 1 {
		body.Faces = body.Faces[:1]
	}
	return body.Faces, nil
}
