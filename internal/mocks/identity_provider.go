package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"online-voting/internal/domain"
)

type IdentityProvider struct {
	mock.Mock
}

func (m *IdentityProvider) Name() string {
	return m.Called().String(0)
}

func (m *IdentityProvider) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *IdentityProvider) Exchange(ctx context.Context, code string) (*domain.FederatedIdentity, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FederatedIdentity), args.Error(1)
}
