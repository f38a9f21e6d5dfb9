package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"online-voting/internal/domain"
	"online-voting/internal/location"
	"online-voting/internal/repository"
	"online-voting/internal/service/email"
	"online-voting/internal/service/events"
	"online-voting/internal/service/media"
	"online-voting/internal/service/ocr"
)

// Extraction is what was read off an uploaded ID card. Fields prefill the
// personal info stage and stay editable.
type Extraction struct {
	Fields ocr.Fields `json:"fields"`
	Text   string     `json:"text"`
}

type Service interface {
	ExtractFromID(ctx context.Context, image []byte, contentType string, progress ocr.ProgressFunc) (*Extraction, error)
	Validate(stage domain.RegistrationStage, draft *domain.RegistrationDraft) error
	Submit(ctx context.Context, operatorID uuid.UUID, draft *domain.RegistrationDraft) (*domain.Voter, error)
	ListVoters(ctx context.Context, loc domain.LocationPath) ([]domain.Voter, error)
}

type service struct {
	engine    ocr.Engine
	voterRepo repository.VoterRepository
	userRepo  repository.UserRepository
	locations *location.Directory
	media     media.Service
	email     email.Service
	events    events.Publisher
	logger    *slog.Logger
}

func NewService(
	engine ocr.Engine,
	voterRepo repository.VoterRepository,
	userRepo repository.UserRepository,
	locations *location.Directory,
	mediaService media.Service,
	emailService email.Service,
	publisher events.Publisher,
	logger *slog.Logger,
) Service {
	return &service{
		engine:    engine,
		voterRepo: voterRepo,
		userRepo:  userRepo,
		locations: locations,
		media:     mediaService,
		email:     emailService,
		events:    publisher,
		logger:    logger,
	}
}

func (s *service) ExtractFromID(ctx context.Context, image []byte, contentType string, progress ocr.ProgressFunc) (*Extraction, error) {
	if len(image) == 0 {
		return nil, domain.NewValidationError("id_image", "an ID document image is required")
	}

	text, err := s.engine.Recognize(ctx, image, contentType, progress)
	if err != nil {
		return nil, err
	}

	fields, err := ocr.Extract(text)
	if err != nil {
		s.logger.Debug("no voter fields found in ID image", "text_length", len(text))
		return nil, err
	}
	return &Extraction{Fields: fields, Text: text}, nil
}

func (s *service) Validate(stage domain.RegistrationStage, draft *domain.RegistrationDraft) error {
	return domain.NewRegistrationWizard(draft).AdvanceThrough(stage)
}

func (s *service) Submit(ctx context.Context, operatorID uuid.UUID, draft *domain.RegistrationDraft) (*domain.Voter, error) {
	wizard := domain.NewRegistrationWizard(draft)
	if err := wizard.AdvanceThrough(domain.StageFaceCapture); err != nil {
		return nil, err
	}
	if !wizard.Ready() {
		return nil, domain.NewValidationError("stage", "registration is incomplete")
	}
	if err := s.locations.Validate(draft.Location); err != nil {
		return nil, err
	}
	if _, _, err := domain.DecodeImage(draft.FaceImage); err != nil {
		return nil, domain.NewValidationError("face_image", "must be a base64 encoded image")
	}

	exists, err := s.voterRepo.Exists(ctx, draft.Location, draft.VoterNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrVoterExists
	}

	idDocumentPath, err := s.archiveIDDocument(ctx, draft)
	if err != nil {
		return nil, err
	}

	voter := &domain.Voter{
		VoterNumber:    draft.VoterNumber,
		VoterName:      draft.VoterName,
		FatherName:     draft.FatherName,
		Gender:         draft.Gender,
		DateOfBirth:    draft.DateOfBirth,
		Address:        domain.Address{Street: draft.Street, ZipCode: draft.ZipCode},
		FaceImage:      draft.FaceImage,
		Location:       draft.Location,
		IDDocumentPath: idDocumentPath,
		RegisteredBy:   operatorID.String(),
		Timestamp:      time.Now().UTC(),
	}

	if err := s.voterRepo.Create(ctx, voter); err != nil {
		// The archive path is keyed by voter number, so after a lost race it
		// belongs to the record that won.
		if errors.Is(err, domain.ErrVoterExists) {
			return nil, err
		}
		if idDocumentPath != "" {
			if rmErr := s.media.Remove(context.Background(), idDocumentPath); rmErr != nil {
				s.logger.Warn("failed to remove archived ID document", "path", idDocumentPath, "error", rmErr)
			}
		}
		return nil, fmt.Errorf("failed to save voter: %w", err)
	}

	s.logger.Info("voter registered",
		"voter_number", voter.VoterNumber,
		"location", voter.Location.String(),
		"registered_by", voter.RegisteredBy,
	)

	go s.announce(operatorID, *voter)

	return voter, nil
}

func (s *service) ListVoters(ctx context.Context, loc domain.LocationPath) ([]domain.Voter, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return s.voterRepo.ListByLocation(ctx, loc)
}

// archiveIDDocument stores the ID image when one was supplied and object
// storage is configured. It returns the object path, or "" when nothing was stored.
func (s *service) archiveIDDocument(ctx context.Context, draft *domain.RegistrationDraft) (string, error) {
	if draft.IDImage == "" || !s.media.Enabled() {
		return "", nil
	}
	data, contentType, err := domain.DecodeImage(draft.IDImage)
	if err != nil {
		return "", domain.NewValidationError("id_image", "must be a base64 encoded image")
	}

	path, err := s.media.PutIDDocument(ctx, draft.Location, draft.VoterNumber, data, contentType)
	if errors.Is(err, media.ErrArchiveDisabled) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: archiving ID document: %v", domain.ErrCollaboratorFailed, err)
	}
	return path, nil
}

func (s *service) announce(operatorID uuid.UUID, voter domain.Voter) {
	ctx := context.Background()

	err := s.events.PublishVoterRegistered(ctx, events.VoterRegistered{
		VoterNumber:  voter.VoterNumber,
		State:        voter.Location.State,
		District:     voter.Location.District,
		SubDistrict:  voter.Location.SubDistrict,
		Village:      voter.Location.Village,
		RegisteredBy: voter.RegisteredBy,
		RegisteredAt: voter.Timestamp.UnixMilli(),
	})
	if err != nil {
		s.logger.Warn("failed to publish voter registration", "voter_number", voter.VoterNumber, "error", err)
	}

	operator, err := s.userRepo.GetByID(ctx, operatorID)
	if err != nil || operator == nil {
		s.logger.Warn("registration confirmation not sent, operator unknown", "user_id", operatorID, "error", err)
		return
	}
	err = s.email.SendVoterRegisteredEmail(ctx, operator.Email, operator.FullName(), voter.VoterName, voter.VoterNumber, voter.Location.String())
	if err != nil {
		s.logger.Error("failed to send registration confirmation", "to", operator.Email, "error", err)
	}
}
