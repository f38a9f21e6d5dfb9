package faceauth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrStreamClosed = errors.New("faceauth: camera stream is closed")
	ErrNoFrame      = errors.New("faceauth: no frame captured yet")
)

type Frame struct {
	Data        []byte
	ContentType string
	CapturedAt  time.Time
}

// Track is one acquired media track of a camera stream.
type Track struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

// Stream is a live camera stream. Stop releases every track and may be
// called any number of times.
type Stream interface {
	Snapshot() (Frame, error)
	Tracks() []Track
	Stop()
}

// PushStream is a camera stream fed by frames the client uploads.
type PushStream struct {
	mu      sync.Mutex
	tracks  []Track
	latest  *Frame
	stopped bool
}

func NewPushStream() *PushStream {
	return &PushStream{
		tracks: []Track{{ID: uuid.NewString(), Kind: "video"}},
	}
}

func (s *PushStream) Push(frame Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStreamClosed
	}
	if frame.CapturedAt.IsZero() {
		frame.CapturedAt = time.Now()
	}
	s.latest = &frame
	return nil
}

func (s *PushStream) Snapshot() (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return Frame{}, ErrStreamClosed
	}
	if s.latest == nil {
		return Frame{}, ErrNoFrame
	}
	return *s.latest, nil
}

func (s *PushStream) Tracks() []Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Track, len(s.tracks))
	copy(out, s.tracks)
	return out
}

func (s *PushStream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	s.tracks = nil
	s.latest = nil
}

func (s *PushStream) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}
