package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/resend/resend-go/v3"

	"online-voting/internal/config"
)

//go:embed templates/*.html
var templates embed.FS

type Service interface {
	SendWelcomeEmail(ctx context.Context, toEmail, name, role string) error
	SendVoterRegisteredEmail(ctx context.Context, toEmail, operatorName, voterName, voterNumber, location string) error
}

// Sender is the part of the resend client used to deliver mail.
type Sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type service struct {
	sender Sender
	config *config.Config
	logger *slog.Logger
}

// NewService returns a service that only logs when no API key is configured.
func NewService(cfg *config.Config, logger *slog.Logger) Service {
	var sender Sender
	if cfg.ResendAPIKey != "" {
		sender = resend.NewClient(cfg.ResendAPIKey).Emails
	}
	return NewServiceWithSender(sender, cfg, logger)
}

func NewServiceWithSender(sender Sender, cfg *config.Config, logger *slog.Logger) Service {
	return &service{sender: sender, config: cfg, logger: logger}
}

func (s *service) sendEmail(toEmail, subject, templateName string, data interface{}) error {
	if s.sender == nil {
		s.logger.Debug("email delivery disabled, skipping", "to", toEmail, "subject", subject)
		return nil
	}

	tmpl, err := template.ParseFS(templates, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		return fmt.Errorf("failed to parse email templates: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, "layout", data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Online Voting <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err = s.sender.Send(params)
	return err
}

func (s *service) SendWelcomeEmail(ctx context.Context, toEmail, name, role string) error {
	data := struct {
		Title string
		Name  string
		Role  string
		Link  string
	}{
		Title: "Welcome to the Online Voting System",
		Name:  name,
		Role:  role,
		Link:  fmt.Sprintf("https://%s/login", s.config.Domain),
	}
	return s.sendEmail(toEmail, "Welcome to the Online Voting System", "welcome.html", data)
}

func (s *service) SendVoterRegisteredEmail(ctx context.Context, toEmail, operatorName, voterName, voterNumber, location string) error {
	data := struct {
		Title       string
		Name        string
		VoterName   string
		VoterNumber string
		Location    string
	}{
		Title:       "Voter registered",
		Name:        operatorName,
		VoterName:   voterName,
		VoterNumber: voterNumber,
		Location:    location,
	}
	return s.sendEmail(toEmail, fmt.Sprintf("Voter %s registered", voterNumber), "voter_registered.html", data)
}
