package insights

import (
	"testing"

	"fueltrack-api/models"
)

func locatedPurchase(id string, lat, lng, price float64, station string) models.FuelPurchase {
	p := purchase(id, 0, 10, price)
	p.Latitude = &lat
	p.Longitude = &lng
	p.Station = &station
	return p
}

func TestStationAreas(t *testing.T) {
	purchases := []models.FuelPurchase{
		locatedPurchase("a1", 41.0370, 28.9850, 42, "Taksim Shell"),
		locatedPurchase("a2", 41.0371, 28.9851, 44, "Taksim Opet"),
		locatedPurchase("b1", 39.9208, 32.8541, 40, "Kizilay BP"),
		purchase("unlocated", 0, 10, 30),
	}

	report := StationAreas(purchases)
	if report.Located != 3 {
		t.Fatalf("expected 3 located purchases, got %d", report.Located)
	}
	if len(report.Areas) != 2 {
		t.Fatalf("expected 2 areas, got %d", len(report.Areas))
	}
	if report.Cheapest == nil || report.Cheapest.AvgPrice != 40 {
		t.Fatalf("expected the 40/L area to be cheapest, got %+v", report.Cheapest)
	}

	busy := report.Areas[1]
	if busy.Purchases != 2 || busy.AvgPrice != 43 || busy.MinPrice != 42 {
		t.Fatalf("unexpected merged area: %+v", busy)
	}
	if len(busy.Stations) != 2 || busy.Stations[0] != "Taksim Opet" {
		t.Fatalf("expected sorted station names, got %v", busy.Stations)
	}
}

func TestStationAreasEmpty(t *testing.T) {
	report := StationAreas(nil)
	if report.Cheapest != nil || len(report.Areas) != 0 || report.Located != 0 {
		t.Fatalf("expected an empty report, got %+v", report)
	}
}
