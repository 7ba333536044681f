package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"evdash/backend/services/stations-api/internal/models"
	"evdash/backend/services/stations-api/internal/repository"
)

// ErrStationNotFound is returned when the requested station does not exist.
var ErrStationNotFound = errors.New("station: not found")

// StationRepository defines storage contract used by StationService.
type StationRepository interface {
	List(ctx context.Context, f models.StationFilter, page, perPage int) ([]models.Station, int, error)
	ListAll(ctx context.Context, f models.StationFilter) ([]models.Station, error)
	GetByID(ctx context.Context, id int64) (*models.Station, error)
	Create(ctx context.Context, s *models.Station) error
	Update(ctx context.Context, s *models.Station) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.StationStats, error)
}

// maxOffset bounds (page-1)*per_page so huge page numbers read an empty page instead of
// overflowing the OFFSET.
const maxOffset = math.MaxInt32

// Pagination bounds list requests.
type Pagination struct {
	DefaultPerPage int
	MaxPerPage     int
}

// StationService validates and orchestrates station operations.
type StationService struct {
	repo   StationRepository
	paging Pagination
	logger *zap.Logger
}

// NewStationService builds StationService.
func NewStationService(repo StationRepository, paging Pagination, logger *zap.Logger) *StationService {
	if paging.MaxPerPage <= 0 {
		paging.MaxPerPage = 100
	}
	if paging.DefaultPerPage <= 0 || paging.DefaultPerPage > paging.MaxPerPage {
		paging.DefaultPerPage = paging.MaxPerPage
	}
	return &StationService{repo: repo, paging: paging, logger: logger}
}

// List returns one page of stations. page below 1 becomes 1; perPage is defaulted and capped.
func (s *StationService) List(ctx context.Context, f models.StationFilter, page, perPage int) (*models.StationPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = s.paging.DefaultPerPage
	}
	if perPage > s.paging.MaxPerPage {
		perPage = s.paging.MaxPerPage
	}
	if last := maxOffset/perPage + 1; page > last {
		page = last
	}

	stations, total, err := s.repo.List(ctx, f, page, perPage)
	if err != nil {
		return nil, err
	}

	pages := int(math.Ceil(float64(total) / float64(perPage)))
	return &models.StationPage{
		Stations:    stations,
		Total:       total,
		Pages:       pages,
		CurrentPage: page,
		PerPage:     perPage,
		HasNext:     page < pages,
		HasPrev:     page > 1,
	}, nil
}

// Get returns one station.
func (s *StationService) Get(ctx context.Context, id int64) (*models.Station, error) {
	st, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrStationNotFound) {
		return nil, ErrStationNotFound
	}
	return st, err
}

// Create validates a full station body and stores it. A missing status means OPERATIONAL.
func (s *StationService) Create(ctx context.Context, in StationInput) (*models.Station, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	st := &models.Station{Status: models.StatusOperational}
	in.apply(st)

	if err := s.repo.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("create station: %w", err)
	}
	s.logger.Info("station created", zap.Int64("station_id", st.ID), zap.String("name", st.Name))
	return st, nil
}

// Update validates the present fields and applies them to the stored station.
func (s *StationService) Update(ctx context.Context, id int64, in StationInput) (*models.Station, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	st, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(st)

	if err := s.repo.Update(ctx, st); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, fmt.Errorf("update station: %w", err)
	}
	s.logger.Info("station updated", zap.Int64("station_id", st.ID))
	return st, nil
}

// Delete removes a station.
func (s *StationService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return ErrStationNotFound
		}
		return fmt.Errorf("delete station: %w", err)
	}
	s.logger.Info("station deleted", zap.Int64("station_id", id))
	return nil
}

// Stats returns aggregate counts.
func (s *StationService) Stats(ctx context.Context) (*models.StationStats, error) {
	return s.repo.Stats(ctx)
}

// ByLocation lists stations by exact state and city substring; empty arguments match all.
func (s *StationService) ByLocation(ctx context.Context, state, city string) ([]models.Station, error) {
	return s.repo.ListAll(ctx, models.StationFilter{State: strings.TrimSpace(state), City: strings.TrimSpace(city)})
}

// ByStatus lists stations with the given status.
func (s *StationService) ByStatus(ctx context.Context, status string) ([]models.Station, error) {
	v, err := NormalizeEnum("status", status, models.Statuses)
	if err != nil {
		return nil, err
	}
	return s.repo.ListAll(ctx, models.StationFilter{Status: v})
}

// ByType lists stations with the given charger type.
func (s *StationService) ByType(ctx context.Context, chargerType string) ([]models.Station, error) {
	v, err := NormalizeEnum("charger_type", chargerType, models.ChargerTypes)
	if err != nil {
		return nil, err
	}
	return s.repo.ListAll(ctx, models.StationFilter{Type: v})
}
