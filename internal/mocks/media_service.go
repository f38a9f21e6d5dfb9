package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"online-voting/internal/domain"
)

type MediaService struct {
	mock.Mock
}

func (m *MediaService) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MediaService) PutIDDocument(ctx context.Context, loc domain.LocationPath, voterNumber string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, loc, voterNumber, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MediaService) Remove(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}
