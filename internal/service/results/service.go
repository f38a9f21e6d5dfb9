package results

import (
	"context"
	"log/slog"

	"online-voting/internal/repository"
)

type Service interface {
	// Compute reads the whole candidate tree once and aggregates it.
	Compute(ctx context.Context) (*Results, error)
	View(ctx context.Context, selection string) (View, error)
}

type service struct {
	candidateRepo  repository.CandidateRepository
	mode           ShapeMode
	singleStateKey string
	logger         *slog.Logger
}

func NewService(candidateRepo repository.CandidateRepository, mode ShapeMode, singleStateKey string, logger *slog.Logger) Service {
	if mode == "" {
		mode = ModeAuto
	}
	return &service{
		candidateRepo:  candidateRepo,
		mode:           mode,
		singleStateKey: singleStateKey,
		logger:         logger,
	}
}

func (s *service) Compute(ctx context.Context) (*Results, error) {
	exists, err := s.candidateRepo.RootExists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return Aggregate(nil, Options{SingleStateKey: s.singleStateKey}), nil
	}

	shape, err := s.resolveShape(ctx)
	if err != nil {
		return nil, err
	}

	leaves, err := s.candidateRepo.ListLeaves(ctx)
	if err != nil {
		return nil, err
	}

	r := Aggregate(leaves, Options{Shape: shape, SingleStateKey: s.singleStateKey})
	s.logger.Debug("aggregated results",
		"shape", shape.String(),
		"leaves", len(leaves),
		"districts", len(r.Districts),
		"total_votes", r.TotalVotes,
	)
	return r, nil
}

func (s *service) View(ctx context.Context, selection string) (View, error) {
	r, err := s.Compute(ctx)
	if err != nil {
		return View{}, err
	}
	return r.View(selection)
}

// resolveShape picks the shape for one pass; the answer is not cached so a
// later pass sees a tree that changed shape.
func (s *service) resolveShape(ctx context.Context) (Shape, error) {
	switch s.mode {
	case ModeSingle:
		return ShapeSingleState, nil
	case ModeMulti:
		return ShapeMultiState, nil
	}
	single, err := s.candidateRepo.StateExists(ctx, s.singleStateKey)
	if err != nil {
		return 0, err
	}
	if single {
		return ShapeSingleState, nil
	}
	return ShapeMultiState, nil
}
