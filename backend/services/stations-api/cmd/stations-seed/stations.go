package main

import (
	"encoding/json"
	"strconv"

	"evdash/backend/services/stations-api/internal/service"
)

type seedStation struct {
	name        string
	lat, lng    float64
	chargerType string
	powerKW     float64
	spots       int
	status      string
	state       string
	city        string
}

func (s seedStation) input() service.StationInput {
	spots := json.Number(strconv.Itoa(s.spots))
	return service.StationInput{
		Name:        &s.name,
		Latitude:    &s.lat,
		Longitude:   &s.lng,
		ChargerType: &s.chargerType,
		PowerKW:     &s.powerKW,
		NumSpots:    &spots,
		Status:      &s.status,
		State:       &s.state,
		City:        &s.city,
	}
}

var sampleStations = []seedStation{
	{"Estação Shopping Ibirapuera", -23.5875, -46.6564, "AC", 22, 6, "OPERATIONAL", "SP", "São Paulo"},
	{"Estação Copacabana Beach", -22.9711, -43.1822, "DC", 50, 4, "OPERATIONAL", "RJ", "Rio de Janeiro"},
	{"Estação Centro Histórico BH", -19.9245, -43.9352, "BOTH", 75, 8, "OPERATIONAL", "MG", "Belo Horizonte"},
	{"Estação Aeroporto Brasília", -15.8697, -47.9208, "DC", 150, 12, "OPERATIONAL", "DF", "Brasília"},
	{"Estação Porto Alegre Centro", -30.0346, -51.2177, "AC", 11, 3, "MAINTENANCE", "RS", "Porto Alegre"},
	{"Estação Recife Antigo", -8.0631, -34.8711, "DC", 60, 5, "OPERATIONAL", "PE", "Recife"},
	{"Estação Salvador Pelourinho", -12.9714, -38.5014, "AC", 22, 4, "OPERATIONAL", "BA", "Salvador"},
	{"Estação Fortaleza Beira Mar", -3.7319, -38.5267, "BOTH", 100, 10, "OPERATIONAL", "CE", "Fortaleza"},
	{"Estação Curitiba Centro", -25.4284, -49.2733, "AC", 22, 6, "INACTIVE", "PR", "Curitiba"},
	{"Estação Manaus Centro", -3.1190, -60.0217, "DC", 50, 3, "OPERATIONAL", "AM", "Manaus"},
	{"Estação Campinas Unicamp", -22.8186, -47.0647, "BOTH", 43, 8, "OPERATIONAL", "SP", "Campinas"},
	{"Estação Florianópolis Centro", -27.5954, -48.5480, "AC", 11, 4, "OPERATIONAL", "SC", "Florianópolis"},
	{"Estação Goiânia Setor Bueno", -16.7011, -49.2539, "DC", 75, 6, "MAINTENANCE", "GO", "Goiânia"},
	{"Estação Vitória Centro", -20.3155, -40.3128, "AC", 22, 5, "OPERATIONAL", "ES", "Vitória"},
	{"Estação Campo Grande Centro", -20.4697, -54.6201, "BOTH", 50, 7, "OPERATIONAL", "MS", "Campo Grande"},
}
