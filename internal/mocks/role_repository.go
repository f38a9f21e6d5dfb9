package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"online-voting/internal/domain"
)

type RoleRepository struct {
	mock.Mock
}

func (m *RoleRepository) GetRole(ctx context.Context, userID string) (domain.Role, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Role), args.Bool(1), args.Error(2)
}

func (m *RoleRepository) SetRole(ctx context.Context, userID string, role domain.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *RoleRepository) SaveProfile(ctx context.Context, userID string, role domain.Role, profile domain.UserProfile) error {
	args := m.Called(ctx, userID, role, profile)
	return args.Error(0)
}

func (m *RoleRepository) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}
