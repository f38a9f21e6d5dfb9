package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"online-voting/internal/service/ocr"
)

type OCREngine struct {
	mock.Mock
}

func (m *OCREngine) Recognize(ctx context.Context, image []byte, contentType string, progress ocr.ProgressFunc) (string, error) {
	args := m.Called(ctx, image, contentType, progress)
	return args.String(0), args.Error(1)
}
