package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"evdash/backend/services/stations-api/internal/models"
)

// ErrStationNotFound represents missing station rows.
var ErrStationNotFound = errors.New("station not found")

const stationColumns = `id, name, latitude, longitude, charger_type, power_kw, num_spots, status, state, city, created_at, updated_at`

const topStatesLimit = 5

// StationRepository handles CRUD and aggregate queries for charging_stations.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository instance.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// whereClause accumulates AND-ed predicates with positional arguments.
type whereClause struct {
	parts []string
	args  []interface{}
}

func (w *whereClause) add(format string, arg interface{}) {
	w.args = append(w.args, arg)
	w.parts = append(w.parts, fmt.Sprintf(format, len(w.args)))
}

func (w *whereClause) String() string {
	if len(w.parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.parts, " AND ")
}

func buildWhere(f models.StationFilter) *whereClause {
	w := &whereClause{}
	if f.Type != "" {
		w.add("charger_type = $%d", strings.ToUpper(f.Type))
	}
	if f.Status != "" {
		w.add("status = $%d", strings.ToUpper(f.Status))
	}
	if f.State != "" {
		w.add("state = $%d", strings.ToUpper(f.State))
	}
	if f.City != "" {
		w.add("city ILIKE $%d", "%"+escapeLike(f.City)+"%")
	}
	if f.MinPower != nil {
		w.add("power_kw >= $%d", *f.MinPower)
	}
	if f.MaxPower != nil {
		w.add("power_kw <= $%d", *f.MaxPower)
	}
	return w
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns one page of stations matching the filter, ordered by id, plus the total match count.
func (r *StationRepository) List(ctx context.Context, f models.StationFilter, page, perPage int) ([]models.Station, int, error) {
	w := buildWhere(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM charging_stations`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stations: %w", err)
	}

	args := append(append([]interface{}{}, w.args...), perPage, (page-1)*perPage)
	query := fmt.Sprintf(`SELECT %s FROM charging_stations%s ORDER BY id LIMIT $%d OFFSET $%d`,
		stationColumns, w.String(), len(w.args)+1, len(w.args)+2)

	stations, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return stations, total, nil
}

// ListAll returns every station matching the filter, ordered by id.
func (r *StationRepository) ListAll(ctx context.Context, f models.StationFilter) ([]models.Station, error) {
	w := buildWhere(f)
	return r.query(ctx, `SELECT `+stationColumns+` FROM charging_stations`+w.String()+` ORDER BY id`, w.args...)
}

// GetByID fetches one station.
func (r *StationRepository) GetByID(ctx context.Context, id int64) (*models.Station, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+stationColumns+` FROM charging_stations WHERE id = $1`, id)
	var s models.Station
	if err := scanStation(row, &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create inserts a station and fills its id and timestamps.
func (r *StationRepository) Create(ctx context.Context, s *models.Station) error {
	const query = `
		INSERT INTO charging_stations (name, latitude, longitude, charger_type, power_kw, num_spots, status, state, city)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		s.Name, s.Latitude, s.Longitude, s.ChargerType, s.PowerKW, s.NumSpots, s.Status, s.State, s.City,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// Update overwrites every mutable column of an existing station.
func (r *StationRepository) Update(ctx context.Context, s *models.Station) error {
	const query = `
		UPDATE charging_stations
		SET name = $2, latitude = $3, longitude = $4, charger_type = $5, power_kw = $6,
		    num_spots = $7, status = $8, state = $9, city = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		s.ID, s.Name, s.Latitude, s.Longitude, s.ChargerType, s.PowerKW, s.NumSpots, s.Status, s.State, s.City,
	).Scan(&s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrStationNotFound
	}
	return err
}

// Delete removes a station.
func (r *StationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM charging_stations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrStationNotFound)
}

// Count returns the number of stored stations.
func (r *StationRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM charging_stations`).Scan(&n)
	return n, err
}

// Stats aggregates counts by status, charger type and the busiest states.
func (r *StationRepository) Stats(ctx context.Context) (*models.StationStats, error) {
	stats := &models.StationStats{
		StatusDistribution:      map[string]int{},
		ChargerTypeDistribution: map[string]int{},
		TopStates:               []models.StateCount{},
	}

	total, err := r.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count stations: %w", err)
	}
	stats.TotalStations = total

	if err := r.groupCount(ctx, "status", stats.StatusDistribution); err != nil {
		return nil, err
	}
	if err := r.groupCount(ctx, "charger_type", stats.ChargerTypeDistribution); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT state, COUNT(*) AS n
		FROM charging_stations
		GROUP BY state
		ORDER BY n DESC, state
		LIMIT $1
	`, topStatesLimit)
	if err != nil {
		return nil, fmt.Errorf("top states: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sc models.StateCount
		if err := rows.Scan(&sc.State, &sc.Count); err != nil {
			return nil, err
		}
		stats.TopStates = append(stats.TopStates, sc)
	}
	return stats, rows.Err()
}

// groupCount fills dst with COUNT(*) grouped by a fixed column name.
func (r *StationRepository) groupCount(ctx context.Context, column string, dst map[string]int) error {
	rows, err := r.db.QueryContext(ctx, `SELECT `+column+`, COUNT(*) FROM charging_stations GROUP BY `+column)
	if err != nil {
		return fmt.Errorf("group by %s: %w", column, err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		dst[key] = n
	}
	return rows.Err()
}

func (r *StationRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.Station, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	defer rows.Close()

	stations := make([]models.Station, 0)
	for rows.Next() {
		var s models.Station
		if err := scanStation(rows, &s); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStation(row scanner, s *models.Station) error {
	return row.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.ChargerType, &s.PowerKW,
		&s.NumSpots, &s.Status, &s.State, &s.City, &s.CreatedAt, &s.UpdatedAt)
}
