package voting_test

import (
	"context"
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
	"online-voting/internal/repository"
	"online-voting/internal/service/events"
	"online-voting/internal/service/voting"
	"online-voting/internal/store"
)

var wagholi = domain.LocationPath{State: "MH", District: "Pune", SubDistrict: "Haveli", Village: "Wagholi"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_ListCandidates_EmptyIsNotAnError(t *testing.T) {
	repo := new(mocks.CandidateRepository)
	svc := voting.NewService(repo, events.NewNoopPublisher(), false, discardLogger())
	ctx := context.Background()

	repo.On("ListByLocation", ctx, wagholi).Return(nil, nil).Once()

	list, err := svc.ListCandidates(ctx, wagholi)

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestService_CastVote(t *testing.T) {
	repo := new(mocks.CandidateRepository)
	publisher := new(mocks.Publisher)
	svc := voting.NewService(repo, publisher, false, discardLogger())
	ctx := context.Background()
	published := make(chan events.VoteCast, 1)

	repo.On("Get", ctx, wagholi, "C1").Return(&domain.Candidate{ID: "C1", VoteCount: 4}, nil).Once()
	repo.On("RecordVote", ctx, wagholi, "C1", mock.AnythingOfType("time.Time"), (*repository.VoteGuard)(nil)).
		Return(int64(5), nil).Once()
	publisher.On("PublishVoteCast", mock.Anything, mock.Anything).Return(nil).Once().
		Run(func(args mock.Arguments) { published <- args.Get(1).(events.VoteCast) })

	receipt, err := svc.CastVote(ctx, "op-1", domain.CastVoteInput{Location: wagholi, CandidateID: "C1"})

	require.NoError(t, err)
	assert.Equal(t, int64(5), receipt.VoteCount)
	select {
	case e := <-published:
		assert.Equal(t, "C1", e.CandidateID)
		assert.Equal(t, int64(5), e.VoteCount)
	case <-time.After(2 * time.Second):
		t.Fatal("vote event was not published")
	}
	repo.AssertExpectations(t)
}

func TestService_CastVote_CandidateVanished(t *testing.T) {
	repo := new(mocks.CandidateRepository)
	svc := voting.NewService(repo, events.NewNoopPublisher(), false, discardLogger())
	ctx := context.Background()

	repo.On("Get", ctx, wagholi, "C9").Return(nil, nil).Once()

	_, err := svc.CastVote(ctx, "op-1", domain.CastVoteInput{Location: wagholi, CandidateID: "C9"})

	assert.ErrorIs(t, err, domain.ErrCandidateVanished)
	repo.AssertNotCalled(t, "RecordVote", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CastVote_SingleBallot(t *testing.T) {
	repo := new(mocks.CandidateRepository)
	svc := voting.NewService(repo, events.NewNoopPublisher(), true, discardLogger())
	ctx := context.Background()

	_, err := svc.CastVote(ctx, "op-1", domain.CastVoteInput{Location: wagholi, CandidateID: "C1"})
	assert.True(t, domain.IsValidationError(err))

	guard := &repository.VoteGuard{Location: wagholi, VoterNumber: "ABC1234567"}
	repo.On("Get", ctx, wagholi, "C1").Return(&domain.Candidate{ID: "C1"}, nil).Once()
	repo.On("RecordVote", ctx, wagholi, "C1", mock.Anything, guard).Return(int64(0), domain.ErrAlreadyVoted).Once()

	_, err = svc.CastVote(ctx, "op-1", domain.CastVoteInput{Location: wagholi, CandidateID: "C1", VoterNumber: "ABC1234567"})

	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
}

func TestService_CastVote_OneVoteInFlightPerOperator(t *testing.T) {
	repo := new(mocks.CandidateRepository)
	svc := voting.NewService(repo, events.NewNoopPublisher(), false, discardLogger())
	ctx := context.Background()
	entered := make(chan struct{})
	unblock := make(chan struct{})

	repo.On("Get", ctx, wagholi, "C1").Return(&domain.Candidate{ID: "C1"}, nil)
	repo.On("RecordVote", ctx, wagholi, "C1", mock.Anything, mock.Anything).Return(int64(1), nil).
		Run(func(mock.Arguments) {
			select {
			case entered <- struct{}{}:
				<-unblock
			default:
			}
		})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.CastVote(ctx, "op-1", domain.CastVoteInput{Location: wagholi, CandidateID: "C1"})
		assert.NoError(t, err)
	}()
	<-entered

	_, err := svc.CastVote(ctx, "op-1", domain.CastVoteInput{Location: wagholi, CandidateID: "C1"})
	assert.ErrorIs(t, err, domain.ErrOperationInProgress)

	_, err = svc.CastVote(ctx, "op-2", domain.CastVoteInput{Location: wagholi, CandidateID: "C1"})
	assert.NoError(t, err)

	close(unblock)
	wg.Wait()
}

func TestService_CastVote_ConcurrentVotersNeverLoseUpdates(t *testing.T) {
	docs := store.NewMemoryStore()
	repo := repository.NewCandidateRepository(docs)
	svc := voting.NewService(repo, events.NewNoopPublisher(), false, discardLogger())
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &domain.Candidate{ID: "C1", Name: "Asha", Party: "Independent", Location: wagholi}))

	var wg sync.WaitGroup
	for _, op := range []string{"op-1", "op-2"} {
		wg.Add(1)
		go func(op string) {
			defer wg.Done()
			_, err := svc.CastVote(ctx, op, domain.CastVoteInput{Location: wagholi, CandidateID: "C1"})
			assert.NoError(t, err)
		}(op)
	}
	wg.Wait()

	c, err := repo.Get(ctx, wagholi, "C1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.VoteCount)
	assert.NotNil(t, c.LastVoteTimestamp)
}
