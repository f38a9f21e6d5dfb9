package candidate

import (
	"log/slog"
	"time"

	"online-voting/internal/location"
	"online-voting/internal/repository"
)

func NewServiceWithClock(repo repository.CandidateRepository, locations *location.Directory, logger *slog.Logger, now func() time.Time) Service {
	return newService(repo, locations, logger, now)
}
