package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"online-voting/internal/service/events"
)

type Publisher struct {
	mock.Mock
}

func (m *Publisher) PublishVoteCast(ctx context.Context, event events.VoteCast) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *Publisher) PublishVoterRegistered(ctx context.Context, event events.VoterRegistered) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
