package candidate

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"online-voting/internal/domain"
	"online-voting/internal/location"
	"online-voting/internal/repository"
)

// ConfirmationDismissAfter is how long clients keep the success dialog open.
const ConfirmationDismissAfter = 2 * time.Second

var (
	aadharPattern = regexp.MustCompile(`^\d{12}$`)
	phonePattern  = regexp.MustCompile(`^\d{10}$`)
)

type Service interface {
	Register(ctx context.Context, input domain.CreateCandidateInput) (*domain.Candidate, error)
	List(ctx context.Context, loc domain.LocationPath) ([]domain.Candidate, error)
	Get(ctx context.Context, loc domain.LocationPath, id string) (*domain.Candidate, error)
}

type service struct {
	candidateRepo repository.CandidateRepository
	locations     *location.Directory
	logger        *slog.Logger
	now           func() time.Time

	mu     sync.Mutex
	lastID int64
}

func NewService(candidateRepo repository.CandidateRepository, locations *location.Directory, logger *slog.Logger) Service {
	return newService(candidateRepo, locations, logger, time.Now)
}

func newService(candidateRepo repository.CandidateRepository, locations *location.Directory, logger *slog.Logger, now func() time.Time) *service {
	return &service{
		candidateRepo: candidateRepo,
		locations:     locations,
		logger:        logger,
		now:           now,
	}
}

func (s *service) Register(ctx context.Context, input domain.CreateCandidateInput) (*domain.Candidate, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	now := s.now()
	c := &domain.Candidate{
		ID:                s.nextID(now),
		Name:              strings.TrimSpace(input.Name),
		AadharNumber:      input.AadharNumber,
		PhoneNumber:       input.PhoneNumber,
		Party:             input.Party,
		SymbolName:        strings.TrimSpace(input.SymbolName),
		SymbolImageBase64: "data:" + input.SymbolImageType + ";base64," + base64.StdEncoding.EncodeToString(input.SymbolImage),
		Location:          input.Location,
		VoteCount:         0,
		Timestamp:         now.UTC(),
	}

	if err := s.candidateRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save candidate: %w", err)
	}

	s.logger.Info("candidate registered", "candidate_id", c.ID, "party", c.Party, "location", c.Location.String())
	return c, nil
}

func (s *service) List(ctx context.Context, loc domain.LocationPath) ([]domain.Candidate, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return s.candidateRepo.ListByLocation(ctx, loc)
}

func (s *service) Get(ctx context.Context, loc domain.LocationPath, id string) (*domain.Candidate, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	c, err := s.candidateRepo.Get(ctx, loc, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *service) validate(input domain.CreateCandidateInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domain.NewValidationError("name", "is required")
	}
	if !aadharPattern.MatchString(input.AadharNumber) {
		return domain.NewValidationError("aadhar_number", "must be exactly 12 digits")
	}
	if !phonePattern.MatchString(input.PhoneNumber) {
		return domain.NewValidationError("phone_number", "must be exactly 10 digits")
	}
	if !domain.IsKnownParty(input.Party) {
		return domain.NewValidationError("party", "must be one of the registered parties")
	}
	if strings.TrimSpace(input.SymbolName) == "" {
		return domain.NewValidationError("symbol_name", "is required")
	}
	if len(input.SymbolImage) == 0 {
		return domain.NewValidationError("symbol_image", "is required")
	}
	if len(input.SymbolImage) > domain.MaxSymbolImageSize {
		return domain.NewValidationError("symbol_image", "must be 5MB or smaller")
	}
	if !strings.HasPrefix(input.SymbolImageType, "image/") {
		return domain.NewValidationError("symbol_image", "must be an image")
	}
	if err := input.Location.Validate(); err != nil {
		return err
	}
	return s.locations.Validate(input.Location)
}

// nextID returns C{unix millis}, bumped past the previous id when two
// registrations land in the same millisecond.
func (s *service) nextID(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return fmt.Sprintf("C%d", id)
}
