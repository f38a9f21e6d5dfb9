// Package faceauth admits a voter to the ballot only after a live camera
// frame matches one of the registered faces at the chosen location.
package faceauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"online-voting/internal/domain"
	"online-voting/internal/repository"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StatePolling
	StateMatched
	StateTimedOut
	StateFailed
	StateCancelled
)

var stateNames = [...]string{"idle", "loading", "polling", "matched", "timed_out", "failed", "cancelled"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) Terminal() bool {
	return s >= StateMatched
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Result struct {
	Voter *domain.Voter `json:"voter"`
	Match Match         `json:"match"`
}

type GateConfig struct {
	Threshold    float64
	PollInterval time.Duration
	Timeout      time.Duration
}

// Gate runs one face authentication attempt at a time per call to Run.
type Gate struct {
	voterRepo repository.VoterRepository
	embedder  Embedder
	cfg       GateConfig
	logger    *slog.Logger
}

func NewGate(voterRepo repository.VoterRepository, embedder Embedder, cfg GateConfig, logger *slog.Logger) *Gate {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Gate{voterRepo: voterRepo, embedder: embedder, cfg: cfg, logger: logger}
}

// Run loads the reference faces for loc and polls stream until a frame
// matches a voter, the timeout passes or ctx is cancelled. The stream is
// stopped on every return path. onState, when set, sees every transition.
func (g *Gate) Run(ctx context.Context, loc domain.LocationPath, stream Stream, onState func(State)) (*Result, error) {
	defer stream.Stop()

	set := func(s State) {
		if onState != nil {
			onState(s)
		}
	}
	fail := func(s State, err error) (*Result, error) {
		set(s)
		return nil, err
	}

	set(StateLoading)
	matcher, voters, err := g.buildMatcher(ctx, loc)
	if err != nil {
		if ctx.Err() != nil {
			return fail(StateCancelled, domain.ErrSessionCancelled)
		}
		return fail(StateFailed, err)
	}

	set(StatePolling)
	timeout := time.NewTimer(g.cfg.Timeout)
	defer timeout.Stop()
	ticker := time.NewTicker(g.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fail(StateCancelled, domain.ErrSessionCancelled)
		case <-timeout.C:
			g.logger.Info("face authentication timed out", "location", loc.String())
			return fail(StateTimedOut, domain.ErrAuthTimeout)
		case <-ticker.C:
			match, ok := g.poll(ctx, stream, matcher)
			if !ok {
				continue
			}
			// A cancel racing the final tick wins.
			if ctx.Err() != nil {
				return fail(StateCancelled, domain.ErrSessionCancelled)
			}
			set(StateMatched)
			g.logger.Info("voter authenticated", "voter_number", match.Label, "distance", match.Distance)
			return &Result{Voter: voters[match.Label], Match: match}, nil
		}
	}
}

// poll checks the current frame once. Missing frames, a torn down stream and
// detection failures all count as no match for this tick.
func (g *Gate) poll(ctx context.Context, stream Stream, matcher *Matcher) (Match, bool) {
	frame, err := stream.Snapshot()
	if err != nil {
		return Match{}, false
	}

	detections, err := g.embedder.Detect(ctx, frame.Data, frame.ContentType, true)
	if err != nil {
		if ctx.Err() == nil {
			g.logger.Debug("face detection failed on live frame", "error", err)
		}
		return Match{}, false
	}

	for _, d := range detections {
		m := matcher.FindBestMatch(d.Descriptor)
		if matcher.Accepts(m) {
			return m, true
		}
	}
	return Match{}, false
}

func (g *Gate) buildMatcher(ctx context.Context, loc domain.LocationPath) (*Matcher, map[string]*domain.Voter, error) {
	voters, err := g.voterRepo.ListByLocation(ctx, loc)
	if err != nil {
		return nil, nil, err
	}
	if len(voters) == 0 {
		return nil, nil, domain.ErrNoRegisteredVoters
	}

	byLabel := make(map[string]*domain.Voter, len(voters))
	refs := make([]LabeledDescriptors, 0, len(voters))
	for i := range voters {
		v := &voters[i]
		if v.FaceImage == "" {
			continue
		}
		data, contentType, err := domain.DecodeImage(v.FaceImage)
		if err != nil {
			g.logger.Debug("skipping voter with undecodable face image", "voter_number", v.VoterNumber)
			continue
		}
		detections, err := g.embedder.Detect(ctx, data, contentType, false)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			g.logger.Debug("skipping voter, face detection failed", "voter_number", v.VoterNumber, "error", err)
			continue
		}
		if len(detections) == 0 {
			g.logger.Debug("skipping voter, no face detected", "voter_number", v.VoterNumber)
			continue
		}
		refs = append(refs, LabeledDescriptors{Label: v.VoterNumber, Descriptors: []Descriptor{detections[0].Descriptor}})
		byLabel[v.VoterNumber] = v
	}
	if len(refs) == 0 {
		return nil, nil, domain.ErrNoFaceData
	}

	matcher, err := NewMatcher(refs, g.cfg.Threshold)
	if err != nil {
		return nil, nil, err
	}
	return matcher, byLabel, nil
}
