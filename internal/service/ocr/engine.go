// Package ocr talks to the text recognition service and pulls voter
// fields out of the recognised text.
package ocr

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"online-voting/internal/domain"
)

// ProgressFunc receives the recognition progress as a ratio in [0,1].
type ProgressFunc func(ratio float64)

type Engine interface {
	Recognize(ctx context.Context, image []byte, contentType string, progress ProgressFunc) (string, error)
}

// HTTPEngine posts the image to the OCR service, which answers with
// newline-delimited JSON: zero or more {"progress": r} lines followed by
// one {"text": "..."} or {"error": "..."} line.
type HTTPEngine struct {
	baseURL string
	client  *http.Client
}

func NewHTTPEngine(baseURL string, timeout time.Duration) *HTTPEngine {
	return &HTTPEngine{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type recognizeLine struct {
	Progress *float64 `json:"progress,omitempty"`
	Text     *string  `json:"text,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func (e *HTTPEngine) Recognize(ctx context.Context, image []byte, contentType string, progress ProgressFunc) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/recognize", bytes.NewReader(image))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: ocr request: %v", domain.ErrCollaboratorFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: ocr service returned %d: %s", domain.ErrCollaboratorFailed, resp.StatusCode, bytes.TrimSpace(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var msg recognizeLine
		if err := json.Unmarshal(line, &msg); err != nil {
			return "", fmt.Errorf("%w: malformed ocr response: %v", domain.ErrCollaboratorFailed, err)
		}
		switch {
		case msg.Error != "":
			return "", fmt.Errorf("%w: ocr: %s", domain.ErrCollaboratorFailed, msg.Error)
		case msg.Text != nil:
			if progress != nil {
				progress(1)
			}
			return *msg.Text, nil
		case msg.Progress != nil && progress != nil:
			progress(clamp(*msg.Progress))
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: reading ocr response: %v", domain.ErrCollaboratorFailed, err)
	}
	return "", fmt.Errorf("%w: ocr response ended without text", domain.ErrCollaboratorFailed)
}

func clamp(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
