package faceauth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"online-voting/internal/domain"
)

type SessionStatus struct {
	ID           string              `json:"id"`
	State        State               `json:"state"`
	Location     domain.LocationPath `json:"location"`
	Voter        *domain.Voter       `json:"voter,omitempty"`
	Match        *Match              `json:"match,omitempty"`
	Error        string              `json:"error,omitempty"`
	ActiveTracks int                 `json:"active_tracks"`
	StartedAt    time.Time           `json:"started_at"`
	UpdatedAt    time.Time           `json:"updated_at"`

	err error
}

// Err is the error the attempt ended with, if any.
func (s SessionStatus) Err() error {
	return s.err
}

type session struct {
	id         string
	operatorID string
	loc        domain.LocationPath
	stream     *PushStream
	cancel     context.CancelFunc
	done       chan struct{}
	startedAt  time.Time

	mu        sync.Mutex
	state     State
	terminal  State
	result    *Result
	err       error
	updatedAt time.Time
}

// setState records a transition. Terminal states are held back until
// finish so a reader never sees "matched" without the matched voter.
func (s *session) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state.Terminal() {
		s.terminal = state
		return
	}
	s.state = state
	s.updatedAt = time.Now()
}

func (s *session) finish(result *Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.terminal
	s.result = result
	s.err = err
	s.updatedAt = time.Now()
}

// release cancels the attempt and waits until its camera stream is stopped.
func (s *session) release() {
	s.cancel()
	s.stream.Stop()
	<-s.done
}

func (s *session) status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := SessionStatus{
		ID:           s.id,
		State:        s.state,
		Location:     s.loc,
		ActiveTracks: len(s.stream.Tracks()),
		StartedAt:    s.startedAt,
		UpdatedAt:    s.updatedAt,
		err:          s.err,
	}
	if s.result != nil {
		voter := *s.result.Voter
		voter.FaceImage = ""
		match := s.result.Match
		st.Voter = &voter
		st.Match = &match
	}
	if s.err != nil {
		st.Error = s.err.Error()
	}
	return st
}

// Sessions tracks the face authentication attempt of each operator. An
// operator has at most one attempt; idle attempts expire after the TTL and
// expiry cancels them.
type Sessions struct {
	gate  *Gate
	cache *cache.Cache

	startMu    sync.Mutex
	mu         sync.Mutex
	byOperator map[string]string
}

func NewSessions(gate *Gate, ttl time.Duration) *Sessions {
	s := &Sessions{
		gate:       gate,
		cache:      cache.New(ttl, ttl/2),
		byOperator: make(map[string]string),
	}
	s.cache.OnEvicted(func(id string, v interface{}) {
		sess := v.(*session)
		sess.release()

		s.mu.Lock()
		if s.byOperator[sess.operatorID] == id {
			delete(s.byOperator, sess.operatorID)
		}
		s.mu.Unlock()
	})
	return s
}

// Start begins a new attempt for operatorID at loc. Any earlier attempt of the
// same operator is cancelled and its stream released first.
func (s *Sessions) Start(operatorID string, loc domain.LocationPath) (SessionStatus, error) {
	if err := loc.Validate(); err != nil {
		return SessionStatus{}, err
	}

	s.startMu.Lock()
	defer s.startMu.Unlock()

	s.mu.Lock()
	previous := s.byOperator[operatorID]
	s.mu.Unlock()
	if previous != "" {
		s.cache.Delete(previous)
	}

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	sess := &session{
		id:         uuid.NewString(),
		operatorID: operatorID,
		loc:        loc,
		stream:     NewPushStream(),
		cancel:     cancel,
		done:       make(chan struct{}),
		startedAt:  now,
		state:      StateIdle,
		updatedAt:  now,
	}

	s.mu.Lock()
	s.byOperator[operatorID] = sess.id
	s.mu.Unlock()
	s.cache.SetDefault(sess.id, sess)

	go func() {
		defer close(sess.done)
		result, err := s.gate.Run(ctx, loc, sess.stream, sess.setState)
		sess.finish(result, err)
	}()

	return sess.status(), nil
}

// PushFrame hands a captured camera frame to the running attempt and keeps
// the session alive.
func (s *Sessions) PushFrame(operatorID, id string, frame Frame) (SessionStatus, error) {
	sess, err := s.lookup(operatorID, id)
	if err != nil {
		return SessionStatus{}, err
	}
	if err := sess.stream.Push(frame); err != nil {
		return sess.status(), nil
	}
	s.cache.SetDefault(id, sess)
	return sess.status(), nil
}

func (s *Sessions) Status(operatorID, id string) (SessionStatus, error) {
	sess, err := s.lookup(operatorID, id)
	if err != nil {
		return SessionStatus{}, err
	}
	return sess.status(), nil
}

// Cancel stops the attempt and releases its stream. The final status is
// returned; the session is forgotten afterwards.
func (s *Sessions) Cancel(operatorID, id string) (SessionStatus, error) {
	sess, err := s.lookup(operatorID, id)
	if err != nil {
		return SessionStatus{}, err
	}
	s.cache.Delete(id)
	return sess.status(), nil
}

func (s *Sessions) lookup(operatorID, id string) (*session, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	sess := v.(*session)
	if sess.operatorID != operatorID {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}
