package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"evdash/backend/services/dashboard/internal/models"
)

// StationsClient calls the /cargas endpoints.
type StationsClient struct {
	base *BaseClient
}

// NewStationsClient returns client.
func NewStationsClient(base *BaseClient) *StationsClient {
	return &StationsClient{base: base}
}

func stationPath(id int64) string {
	return "/cargas/" + strconv.FormatInt(id, 10)
}

// ListStations fetches one page of stations.
func (c *StationsClient) ListStations(ctx context.Context, query url.Values) (*models.StationPage, error) {
	var out models.StationPage
	if err := c.base.Do(ctx, http.MethodGet, "/cargas", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStation fetches one station.
func (c *StationsClient) GetStation(ctx context.Context, id int64) (*models.Station, error) {
	var out models.Station
	if err := c.base.Do(ctx, http.MethodGet, stationPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type stationEnvelope struct {
	Station models.Station `json:"station"`
}

// CreateStation posts a new station.
func (c *StationsClient) CreateStation(ctx context.Context, p models.StationPayload) (*models.Station, error) {
	var out stationEnvelope
	if err := c.base.Do(ctx, http.MethodPost, "/cargas", nil, p, &out); err != nil {
		return nil, err
	}
	return &out.Station, nil
}

// UpdateStation replaces a station's fields.
func (c *StationsClient) UpdateStation(ctx context.Context, id int64, p models.StationPayload) (*models.Station, error) {
	var out stationEnvelope
	if err := c.base.Do(ctx, http.MethodPut, stationPath(id), nil, p, &out); err != nil {
		return nil, err
	}
	return &out.Station, nil
}

// DeleteStation removes a station.
func (c *StationsClient) DeleteStation(ctx context.Context, id int64) error {
	return c.base.Do(ctx, http.MethodDelete, stationPath(id), nil, nil, nil)
}

// Stats fetches aggregate counts.
func (c *StationsClient) Stats(ctx context.Context) (*models.StationStats, error) {
	var out models.StationStats
	if err := c.base.Do(ctx, http.MethodGet, "/cargas/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
