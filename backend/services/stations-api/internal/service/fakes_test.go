package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"evdash/backend/services/stations-api/internal/models"
	"evdash/backend/services/stations-api/internal/repository"
)

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return repository.ErrUsernameTaken
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash, role string) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.Role = role
	return nil
}

// plainHasher keeps tests fast; bcrypt is covered in the password package.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func (plainHasher) Compare(hash, p string) error {
	if hash != "hashed:"+p {
		return ErrInvalidCredentials
	}
	return nil
}

type fakeStationRepo struct {
	stations map[int64]*models.Station
	nextID   int64

	lastPage, lastPerPage int
	lastFilter            models.StationFilter
}

func newFakeStationRepo() *fakeStationRepo {
	return &fakeStationRepo{stations: map[int64]*models.Station{}}
}

func (f *fakeStationRepo) matches(s *models.Station, flt models.StationFilter) bool {
	if flt.Type != "" && s.ChargerType != strings.ToUpper(flt.Type) {
		return false
	}
	if flt.Status != "" && s.Status != strings.ToUpper(flt.Status) {
		return false
	}
	if flt.State != "" && s.State != strings.ToUpper(flt.State) {
		return false
	}
	if flt.City != "" && !strings.Contains(strings.ToLower(s.City), strings.ToLower(flt.City)) {
		return false
	}
	return true
}

func (f *fakeStationRepo) ListAll(_ context.Context, flt models.StationFilter) ([]models.Station, error) {
	f.lastFilter = flt
	ids := make([]int64, 0, len(f.stations))
	for id := range f.stations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := []models.Station{}
	for _, id := range ids {
		if s := f.stations[id]; f.matches(s, flt) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStationRepo) List(ctx context.Context, flt models.StationFilter, page, perPage int) ([]models.Station, int, error) {
	f.lastPage, f.lastPerPage = page, perPage
	all, _ := f.ListAll(ctx, flt)
	start := (page - 1) * perPage
	if start > len(all) {
		start = len(all)
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (f *fakeStationRepo) GetByID(_ context.Context, id int64) (*models.Station, error) {
	s, ok := f.stations[id]
	if !ok {
		return nil, repository.ErrStationNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStationRepo) Create(_ context.Context, s *models.Station) error {
	f.nextID++
	s.ID = f.nextID
	cp := *s
	f.stations[s.ID] = &cp
	return nil
}

func (f *fakeStationRepo) Update(_ context.Context, s *models.Station) error {
	if _, ok := f.stations[s.ID]; !ok {
		return repository.ErrStationNotFound
	}
	cp := *s
	f.stations[s.ID] = &cp
	return nil
}

func (f *fakeStationRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.stations[id]; !ok {
		return repository.ErrStationNotFound
	}
	delete(f.stations, id)
	return nil
}

func (f *fakeStationRepo) Stats(context.Context) (*models.StationStats, error) {
	stats := &models.StationStats{StatusDistribution: map[string]int{}, ChargerTypeDistribution: map[string]int{}}
	for _, s := range f.stations {
		stats.TotalStations++
		stats.StatusDistribution[s.Status]++
		stats.ChargerTypeDistribution[s.ChargerType]++
	}
	return stats, nil
}
