package departures

import (
	"context"
	"log/slog"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/Domenick1991/busreservation/internal/logging"
	"github.com/Domenick1991/busreservation/internal/repository"
)

type DepartureUseCase interface {
	List(ctx context.Context) ([]domain.Departure, error)
	GetByID(ctx context.Context, id int64) (*domain.Departure, error)
}

type DepartureCache interface {
	GetDepartures(ctx context.Context) ([]domain.Departure, error)
	SetDepartures(ctx context.Context, departures []domain.Departure) error
}

type DepartureService struct {
	repo   repository.DepartureRepository
	cache  DepartureCache
	logger *slog.Logger
}

// NewDepartureService builds the read side over repo. cache may be nil.
func NewDepartureService(repo repository.DepartureRepository, cache DepartureCache, logger *slog.Logger) *DepartureService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &DepartureService{repo: repo, cache: cache, logger: logger}
}

func (s *DepartureService) List(ctx context.Context) ([]domain.Departure, error) {
	if s.cache != nil {
		cached, err := s.cache.GetDepartures(ctx)
		if err != nil {
			s.logger.Warn("departures cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	departures, err := s.repo.List(ctx)
	if err != nil {
		return nil, domain.StorageFailure(err)
	}
	if s.cache != nil {
		if err := s.cache.SetDepartures(ctx, departures); err != nil {
			s.logger.Warn("departures cache write failed", "error", err)
		}
	}
	return departures, nil
}

func (s *DepartureService) GetByID(ctx context.Context, id int64) (*domain.Departure, error) {
	if id <= 0 {
		return nil, domain.Invalid("departure_id", "must be positive")
	}
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.StorageFailure(err)
	}
	return d, nil
}

var _ DepartureUseCase = (*DepartureService)(nil)
