package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"

	"evdash/backend/services/stations-api/internal/models"
)

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64  { return &f }
func numPtr(s string) *json.Number { n := json.Number(s); return &n }

func validInput() StationInput {
	return StationInput{
		Name:        strPtr("Estação Shopping Ibirapuera"),
		Latitude:    floatPtr(-23.5875),
		Longitude:   floatPtr(-46.6564),
		ChargerType: strPtr("ac"),
		PowerKW:     floatPtr(22),
		NumSpots:    numPtr("6"),
		State:       strPtr("sp"),
		City:        strPtr("São Paulo"),
	}
}

func newStationService() (*StationService, *fakeStationRepo) {
	repo := newFakeStationRepo()
	return NewStationService(repo, Pagination{DefaultPerPage: 50, MaxPerPage: 100}, zap.NewNop()), repo
}

func TestCreateNormalizesAndDefaultsStatus(t *testing.T) {
	svc, _ := newStationService()

	st, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if st.ChargerType != "AC" || st.State != "SP" {
		t.Errorf("enums not upper-cased: %+v", st)
	}
	if st.Status != models.StatusOperational {
		t.Errorf("status = %q, want OPERATIONAL", st.Status)
	}
	if st.ID == 0 {
		t.Error("id not assigned")
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StationInput)
		field  string
	}{
		{"latitude out of range", func(in *StationInput) { in.Latitude = floatPtr(95) }, "latitude"},
		{"longitude out of range", func(in *StationInput) { in.Longitude = floatPtr(-181) }, "longitude"},
		{"power not positive", func(in *StationInput) { in.PowerKW = floatPtr(0) }, "power_kw"},
		{"spots not integer", func(in *StationInput) { in.NumSpots = numPtr("2.5") }, "num_spots"},
		{"spots not positive", func(in *StationInput) { in.NumSpots = numPtr("0") }, "num_spots"},
		{"bad charger type", func(in *StationInput) { in.ChargerType = strPtr("USB") }, "charger_type"},
		{"bad status", func(in *StationInput) { in.Status = strPtr("BROKEN") }, "status"},
		{"bad state", func(in *StationInput) { in.State = strPtr("SPX") }, "state"},
		{"missing city", func(in *StationInput) { in.City = nil }, "city"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newStationService()
			in := validInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), in)
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Create() error = %v, want ValidationErrors", err)
			}
			if verrs[0].Field != tt.field {
				t.Errorf("field = %q, want %q", verrs[0].Field, tt.field)
			}
			if len(repo.stations) != 0 {
				t.Error("invalid station was stored")
			}
		})
	}
}

func TestUpdatePartial(t *testing.T) {
	svc, _ := newStationService()
	ctx := context.Background()
	st, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	updated, err := svc.Update(ctx, st.ID, StationInput{Status: strPtr("maintenance")})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Status != models.StatusMaintenance || updated.Name != st.Name {
		t.Errorf("Update() = %+v", updated)
	}

	if _, err := svc.Update(ctx, 999, StationInput{Status: strPtr("INACTIVE")}); !errors.Is(err, ErrStationNotFound) {
		t.Errorf("Update() missing error = %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, repo := newStationService()
	ctx := context.Background()
	st, _ := svc.Create(ctx, validInput())

	if err := svc.Delete(ctx, st.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if len(repo.stations) != 0 {
		t.Error("station still stored")
	}
	if err := svc.Delete(ctx, st.ID); !errors.Is(err, ErrStationNotFound) {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestListPagination(t *testing.T) {
	svc, repo := newStationService()
	ctx := context.Background()
	for i := 0; i < 120; i++ {
		if _, err := svc.Create(ctx, validInput()); err != nil {
			t.Fatal(err)
		}
	}

	page, err := svc.List(ctx, models.StationFilter{}, 0, 500)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if repo.lastPerPage != 100 || page.PerPage != 100 {
		t.Errorf("per_page = %d, want capped at 100", page.PerPage)
	}
	if page.CurrentPage != 1 || page.Pages != 2 || !page.HasNext || page.HasPrev {
		t.Errorf("page = %+v", page)
	}

	page, _ = svc.List(ctx, models.StationFilter{}, 3, 0)
	if page.PerPage != 50 || page.Pages != 3 || page.HasNext || !page.HasPrev {
		t.Errorf("page 3 = %+v", page)
	}
	if len(page.Stations) != 20 {
		t.Errorf("len(stations) = %d, want 20", len(page.Stations))
	}
}

func TestListHugePageIsEmpty(t *testing.T) {
	svc, repo := newStationService()
	ctx := context.Background()
	if _, err := svc.Create(ctx, validInput()); err != nil {
		t.Fatal(err)
	}

	page, err := svc.List(ctx, models.StationFilter{}, math.MaxInt, 50)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if offset := (repo.lastPage - 1) * repo.lastPerPage; offset < 0 || offset > math.MaxInt32 {
		t.Errorf("offset = %d, want within 0..MaxInt32", offset)
	}
	if len(page.Stations) != 0 || page.Total != 1 || page.HasNext || !page.HasPrev {
		t.Errorf("page = %+v", page)
	}
}

func TestListEmpty(t *testing.T) {
	svc, _ := newStationService()
	page, err := svc.List(context.Background(), models.StationFilter{Status: "INACTIVE"}, 1, 50)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if page.Total != 0 || page.Pages != 0 || page.HasNext || page.HasPrev || page.Stations == nil {
		t.Errorf("page = %+v", page)
	}
}

func TestByStatusAndType(t *testing.T) {
	svc, _ := newStationService()
	ctx := context.Background()
	in := validInput()
	in.Status = strPtr("MAINTENANCE")
	svc.Create(ctx, in)
	svc.Create(ctx, validInput())

	got, err := svc.ByStatus(ctx, "maintenance")
	if err != nil || len(got) != 1 {
		t.Fatalf("ByStatus() = %v, %v", got, err)
	}
	if _, err := svc.ByStatus(ctx, "unknown"); err == nil {
		t.Error("expected error for unknown status")
	}
	got, err = svc.ByType(ctx, "AC")
	if err != nil || len(got) != 2 {
		t.Fatalf("ByType() = %v, %v", got, err)
	}
	if all, _ := svc.ByLocation(ctx, "", ""); len(all) != 2 {
		t.Errorf("ByLocation() without filters = %d stations, want 2", len(all))
	}
	got, _ = svc.ByLocation(ctx, "sp", "paulo")
	if len(got) != 2 {
		t.Errorf("ByLocation() = %d stations, want 2", len(got))
	}
}

func TestValidationErrorMessage(t *testing.T) {
	in := validInput()
	in.Latitude = floatPtr(95)
	in.PowerKW = floatPtr(-1)
	err := in.validate(true)
	if err == nil || !strings.Contains(err.Error(), "; ") {
		t.Errorf("error = %v, want joined messages", err)
	}
}
