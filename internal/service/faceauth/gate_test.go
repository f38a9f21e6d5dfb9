package faceauth_test

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"online-voting/internal/domain"
	"online-voting/internal/mocks"
	"online-voting/internal/service/faceauth"
)

var wagholi = domain.LocationPath{State: "MH", District: "Pune", SubDistrict: "Haveli", Village: "Wagholi"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func faceImage(content string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(content))
}

// fakeEmbedder returns a fixed descriptor per image content.
type fakeEmbedder struct {
	faces map[string]faceauth.Descriptor
}

func (e *fakeEmbedder) Detect(ctx context.Context, image []byte, contentType string, multi bool) ([]faceauth.Detection, error) {
	d, ok := e.faces[string(image)]
	if !ok {
		return nil, nil
	}
	return []faceauth.Detection{{Descriptor: d, Score: 0.99}}, nil
}

type stateRecorder struct {
	mu     sync.Mutex
	states []faceauth.State
}

func (r *stateRecorder) record(s faceauth.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *stateRecorder) all() []faceauth.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]faceauth.State(nil), r.states...)
}

func registeredVoters() []domain.Voter {
	return []domain.Voter{
		{VoterNumber: "ABC0000001", VoterName: "Asha", FaceImage: faceImage("face-asha"), Location: wagholi},
		{VoterNumber: "ABC0000002", VoterName: "Bala", FaceImage: faceImage("face-bala"), Location: wagholi},
		{VoterNumber: "ABC0000003", VoterName: "No Photo", Location: wagholi},
		{VoterNumber: "ABC0000004", VoterName: "Blurry", FaceImage: faceImage("blurry"), Location: wagholi},
	}
}

func embedder() *fakeEmbedder {
	return &fakeEmbedder{faces: map[string]faceauth.Descriptor{
		"face-asha":  {0, 0},
		"face-bala":  {1, 1},
		"live-asha":  {0.1, 0},
		"live-other": {5, 5},
	}}
}

func newGate(repo *mocks.VoterRepository, timeout time.Duration) *faceauth.Gate {
	return faceauth.NewGate(repo, embedder(), faceauth.GateConfig{
		Threshold:    faceauth.DefaultThreshold,
		PollInterval: 5 * time.Millisecond,
		Timeout:      timeout,
	}, discardLogger())
}

func TestGate_Run_Match(t *testing.T) {
	repo := new(mocks.VoterRepository)
	repo.On("ListByLocation", mock.Anything, wagholi).Return(registeredVoters(), nil).Once()
	stream := faceauth.NewPushStream()
	require.NoError(t, stream.Push(faceauth.Frame{Data: []byte("live-asha"), ContentType: "image/png"}))
	rec := &stateRecorder{}

	result, err := newGate(repo, time.Second).Run(context.Background(), wagholi, stream, rec.record)

	require.NoError(t, err)
	assert.Equal(t, "ABC0000001", result.Voter.VoterNumber)
	assert.InDelta(t, 0.1, result.Match.Distance, 1e-9)
	assert.Equal(t, []faceauth.State{faceauth.StateLoading, faceauth.StatePolling, faceauth.StateMatched}, rec.all())
	assert.Empty(t, stream.Tracks())
}

func TestGate_Run_NoRegisteredVoters(t *testing.T) {
	repo := new(mocks.VoterRepository)
	repo.On("ListByLocation", mock.Anything, wagholi).Return([]domain.Voter{}, nil).Once()
	stream := faceauth.NewPushStream()
	rec := &stateRecorder{}

	_, err := newGate(repo, time.Second).Run(context.Background(), wagholi, stream, rec.record)

	assert.ErrorIs(t, err, domain.ErrNoRegisteredVoters)
	assert.Equal(t, faceauth.StateFailed, rec.all()[len(rec.all())-1])
	assert.Empty(t, stream.Tracks())
}

func TestGate_Run_NoFaceData(t *testing.T) {
	repo := new(mocks.VoterRepository)
	repo.On("ListByLocation", mock.Anything, wagholi).Return([]domain.Voter{
		{VoterNumber: "ABC0000003", Location: wagholi},
		{VoterNumber: "ABC0000004", FaceImage: faceImage("blurry"), Location: wagholi},
		{VoterNumber: "ABC0000005", FaceImage: "not-base64!", Location: wagholi},
	}, nil).Once()
	stream := faceauth.NewPushStream()

	_, err := newGate(repo, time.Second).Run(context.Background(), wagholi, stream, nil)

	assert.ErrorIs(t, err, domain.ErrNoFaceData)
	assert.Empty(t, stream.Tracks())
}

func TestGate_Run_Timeout(t *testing.T) {
	repo := new(mocks.VoterRepository)
	repo.On("ListByLocation", mock.Anything, wagholi).Return(registeredVoters(), nil).Once()
	stream := faceauth.NewPushStream()
	require.NoError(t, stream.Push(faceauth.Frame{Data: []byte("live-other"), ContentType: "image/png"}))
	rec := &stateRecorder{}

	_, err := newGate(repo, 50*time.Millisecond).Run(context.Background(), wagholi, stream, rec.record)

	assert.ErrorIs(t, err, domain.ErrAuthTimeout)
	states := rec.all()
	assert.Equal(t, faceauth.StateTimedOut, states[len(states)-1])
	assert.Empty(t, stream.Tracks())
}

func TestGate_Run_Cancel(t *testing.T) {
	repo := new(mocks.VoterRepository)
	repo.On("ListByLocation", mock.Anything, wagholi).Return(registeredVoters(), nil).Once()
	stream := faceauth.NewPushStream()
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := newGate(repo, 5*time.Second).Run(ctx, wagholi, stream, nil)

	assert.ErrorIs(t, err, domain.ErrSessionCancelled)
	assert.Empty(t, stream.Tracks())
}

func TestGate_Run_ToleratesTornDownStream(t *testing.T) {
	repo := new(mocks.VoterRepository)
	repo.On("ListByLocation", mock.Anything, wagholi).Return(registeredVoters(), nil).Once()
	stream := faceauth.NewPushStream()
	stream.Stop()

	_, err := newGate(repo, 30*time.Millisecond).Run(context.Background(), wagholi, stream, nil)

	assert.ErrorIs(t, err, domain.ErrAuthTimeout)
}

func TestPushStream_StopIsIdempotent(t *testing.T) {
	stream := faceauth.NewPushStream()
	assert.Len(t, stream.Tracks(), 1)

	_, err := stream.Snapshot()
	assert.ErrorIs(t, err, faceauth.ErrNoFrame)

	stream.Stop()
	stream.Stop()

	assert.Empty(t, stream.Tracks())
	assert.True(t, stream.Stopped())
	assert.ErrorIs(t, stream.Push(faceauth.Frame{Data: []byte("x")}), faceauth.ErrStreamClosed)
	_, err = stream.Snapshot()
	assert.ErrorIs(t, err, faceauth.ErrStreamClosed)
}
