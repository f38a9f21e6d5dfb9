package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"online-voting/internal/domain"
	"online-voting/internal/repository"
)

type CandidateRepository struct {
	mock.Mock
}

func (m *CandidateRepository) Create(ctx context.Context, candidate *domain.Candidate) error {
	args := m.Called(ctx, candidate)
	return args.Error(0)
}

func (m *CandidateRepository) Get(ctx context.Context, loc domain.LocationPath, id string) (*domain.Candidate, error) {
	args := m.Called(ctx, loc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *CandidateRepository) ListByLocation(ctx context.Context, loc domain.LocationPath) ([]domain.Candidate, error) {
	args := m.Called(ctx, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

func (m *CandidateRepository) ListLeaves(ctx context.Context) ([]domain.CandidateLeaf, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CandidateLeaf), args.Error(1)
}

func (m *CandidateRepository) RootExists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *CandidateRepository) StateExists(ctx context.Context, state string) (bool, error) {
	args := m.Called(ctx, state)
	return args.Bool(0), args.Error(1)
}

func (m *CandidateRepository) RecordVote(ctx context.Context, loc domain.LocationPath, id string, at time.Time, guard *repository.VoteGuard) (int64, error) {
	args := m.Called(ctx, loc, id, at, guard)
	return args.Get(0).(int64), args.Error(1)
}
