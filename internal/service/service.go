package service

import (
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/nats-io/nats.go"

	"online-voting/internal/config"
	"online-voting/internal/location"
	"online-voting/internal/repository"
	"online-voting/internal/service/auth"
	"online-voting/internal/service/candidate"
	"online-voting/internal/service/email"
	"online-voting/internal/service/events"
	"online-voting/internal/service/faceauth"
	"online-voting/internal/service/media"
	"online-voting/internal/service/ocr"
	"online-voting/internal/service/registration"
	"online-voting/internal/service/results"
	"online-voting/internal/service/voting"
)

type Services struct {
	Auth         auth.Service
	Registration registration.Service
	Candidate    candidate.Service
	Voting       voting.Service
	Results      results.Service
	FaceAuth     *faceauth.Sessions
	Email        email.Service
	Media        media.Service
	Events       events.Publisher
	Locations    *location.Directory
}

// NewServices wires every service. minioClient and natsConn may be nil, which
// disables ID document archiving and event publishing respectively.
func NewServices(
	repos *repository.Repositories,
	minioClient *minio.Client,
	natsConn *nats.Conn,
	locations *location.Directory,
	cfg *config.Config,
	logger *slog.Logger,
) (*Services, error) {
	shape, err := results.ParseShapeMode(cfg.ResultsTreeShape)
	if err != nil {
		return nil, err
	}

	publisher := events.NewNoopPublisher()
	if natsConn != nil {
		publisher = events.NewNATSPublisher(natsConn)
	}

	var provider auth.IdentityProvider
	if google := auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL); google != nil {
		provider = google
	}

	emailService := email.NewService(cfg, logger)
	mediaService := media.NewService(minioClient, cfg, logger)
	ocrEngine := ocr.NewCachedEngine(ocr.NewHTTPEngine(cfg.OCRServiceURL, cfg.CollaboratorTimeout), cfg.OCRCacheTTL)

	gate := faceauth.NewGate(
		repos.Voter,
		faceauth.NewHTTPEmbedder(cfg.FaceServiceURL, cfg.CollaboratorTimeout),
		faceauth.GateConfig{
			Threshold:    cfg.FaceMatchThreshold,
			PollInterval: cfg.FaceAuthPollInterval,
			Timeout:      cfg.FaceAuthTimeout,
		},
		logger.With("component", "faceauth"),
	)

	sessionTTL := cfg.FaceAuthSessionTTL
	if sessionTTL < cfg.FaceAuthTimeout {
		sessionTTL = cfg.FaceAuthTimeout + time.Minute
	}

	return &Services{
		Auth:         auth.NewService(repos.User, repos.Session, repos.Role, emailService, provider, cfg, logger),
		Registration: registration.NewService(ocrEngine, repos.Voter, repos.User, locations, mediaService, emailService, publisher, logger),
		Candidate:    candidate.NewService(repos.Candidate, locations, logger),
		Voting:       voting.NewService(repos.Candidate, publisher, cfg.SingleBallot, logger),
		Results:      results.NewService(repos.Candidate, shape, cfg.ResultsSingleState, logger),
		FaceAuth:     faceauth.NewSessions(gate, sessionTTL),
		Email:        emailService,
		Media:        mediaService,
		Events:       publisher,
		Locations:    locations,
	}, nil
}
