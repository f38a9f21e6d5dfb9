package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, name, role string) error {
	args := m.Called(ctx, toEmail, name, role)
	return args.Error(0)
}

func (m *EmailService) SendVoterRegisteredEmail(ctx context.Context, toEmail, operatorName, voterName, voterNumber, location string) error {
	args := m.Called(ctx, toEmail, operatorName, voterName, voterNumber, location)
	return args.Error(0)
}
