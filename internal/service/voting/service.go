package voting

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"online-voting/internal/domain"
	"online-voting/internal/repository"
	"online-voting/internal/service/events"
)

type Service interface {
	ListCandidates(ctx context.Context, loc domain.LocationPath) ([]domain.Candidate, error)
	CastVote(ctx context.Context, operatorID string, input domain.CastVoteInput) (*domain.VoteReceipt, error)
}

type service struct {
	candidateRepo repository.CandidateRepository
	events        events.Publisher
	singleBallot  bool
	logger        *slog.Logger
	now           func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewService builds the voting flow. With singleBallot set each voter number
// may vote once per location.
func NewService(candidateRepo repository.CandidateRepository, publisher events.Publisher, singleBallot bool, logger *slog.Logger) Service {
	return &service{
		candidateRepo: candidateRepo,
		events:        publisher,
		singleBallot:  singleBallot,
		logger:        logger,
		now:           time.Now,
		inFlight:      make(map[string]struct{}),
	}
}

func (s *service) ListCandidates(ctx context.Context, loc domain.LocationPath) ([]domain.Candidate, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	candidates, err := s.candidateRepo.ListByLocation(ctx, loc)
	if err != nil {
		return nil, err
	}
	if candidates == nil {
		candidates = []domain.Candidate{}
	}
	return candidates, nil
}

func (s *service) CastVote(ctx context.Context, operatorID string, input domain.CastVoteInput) (*domain.VoteReceipt, error) {
	if err := input.Location.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.CandidateID) == "" {
		return nil, domain.NewValidationError("candidate_id", "is required")
	}
	var guard *repository.VoteGuard
	if s.singleBallot {
		if strings.TrimSpace(input.VoterNumber) == "" || strings.Contains(input.VoterNumber, "/") {
			return nil, domain.NewValidationError("voter_number", "a valid voter number is required")
		}
		guard = &repository.VoteGuard{Location: input.Location, VoterNumber: input.VoterNumber}
	}

	if !s.acquire(operatorID) {
		return nil, domain.ErrOperationInProgress
	}
	defer s.release(operatorID)

	candidate, err := s.candidateRepo.Get(ctx, input.Location, input.CandidateID)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, domain.ErrCandidateVanished
	}

	at := s.now()
	count, err := s.candidateRepo.RecordVote(ctx, input.Location, input.CandidateID, at, guard)
	if err != nil {
		return nil, err
	}

	s.logger.Info("vote recorded", "candidate_id", input.CandidateID, "location", input.Location.String())

	event := events.VoteCast{
		CandidateID: input.CandidateID,
		State:       input.Location.State,
		District:    input.Location.District,
		SubDistrict: input.Location.SubDistrict,
		Village:     input.Location.Village,
		VoteCount:   count,
		CastAt:      at.UnixMilli(),
	}
	go func() {
		if err := s.events.PublishVoteCast(context.Background(), event); err != nil {
			s.logger.Warn("failed to publish vote event", "candidate_id", event.CandidateID, "error", err)
		}
	}()

	return &domain.VoteReceipt{
		CandidateID: input.CandidateID,
		VoteCount:   count,
		RecordedAt:  at.UTC(),
	}, nil
}

// acquire enforces one pending vote per operator.
func (s *service) acquire(operatorID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[operatorID]; busy {
		return false
	}
	s.inFlight[operatorID] = struct{}{}
	return true
}

func (s *service) release(operatorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, operatorID)
}
