package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"online-voting/internal/domain"
)

type VoterRepository struct {
	mock.Mock
}

func (m *VoterRepository) Create(ctx context.Context, voter *domain.Voter) error {
	args := m.Called(ctx, voter)
	return args.Error(0)
}

func (m *VoterRepository) Get(ctx context.Context, loc domain.LocationPath, voterNumber string) (*domain.Voter, error) {
	args := m.Called(ctx, loc, voterNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voter), args.Error(1)
}

func (m *VoterRepository) Exists(ctx context.Context, loc domain.LocationPath, voterNumber string) (bool, error) {
	args := m.Called(ctx, loc, voterNumber)
	return args.Bool(0), args.Error(1)
}

func (m *VoterRepository) ListByLocation(ctx context.Context, loc domain.LocationPath) ([]domain.Voter, error) {
	args := m.Called(ctx, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Voter), args.Error(1)
}
