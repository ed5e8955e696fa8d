// File: /insights/stations.go
package insights

import (
	"sort"

	"fueltrack-api/models"
	"github.com/golang/geo/s2"
)

// StationCellLevel groups purchases into roughly 1 km² S2 cells
const StationCellLevel = 13

type StationArea struct {
	Token     string   `json:"token"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Purchases int      `json:"purchases"`
	AvgPrice  float64  `json:"avg_price"`
	MinPrice  float64  `json:"min_price"`
	Stations  []string `json:"stations"`
}

type StationReport struct {
	Areas    []StationArea `json:"areas"`
	Cheapest *StationArea  `json:"cheapest,omitempty"`
	Located  int           `json:"located"`
}

// StationAreas groups purchases with coordinates by S2 cell and reports average prices.
// Areas are ordered by average price, cheapest first.
func StationAreas(purchases []models.FuelPurchase) StationReport {
	type acc struct {
		cell     s2.CellID
		sum      float64
		min      float64
		count    int
		stations map[string]bool
	}

	byCell := make(map[s2.CellID]*acc)
	located := 0
	for _, p := range purchases {
		if !p.HasLocation() || p.PricePerLiter <= 0 {
			continue
		}
		located++

		cell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(*p.Latitude, *p.Longitude)).Parent(StationCellLevel)
		a, ok := byCell[cell]
		if !ok {
			a = &acc{cell: cell, min: p.PricePerLiter, stations: make(map[string]bool)}
			byCell[cell] = a
		}
		a.sum += p.PricePerLiter
		a.count++
		if p.PricePerLiter < a.min {
			a.min = p.PricePerLiter
		}
		if p.Station != nil && *p.Station != "" {
			a.stations[*p.Station] = true
		}
	}

	areas := make([]StationArea, 0, len(byCell))
	for _, a := range byCell {
		center := a.cell.LatLng()
		stations := make([]string, 0, len(a.stations))
		for name := range a.stations {
			stations = append(stations, name)
		}
		sort.Strings(stations)

		areas = append(areas, StationArea{
			Token:     a.cell.ToToken(),
			Latitude:  center.Lat.Degrees(),
			Longitude: center.Lng.Degrees(),
			Purchases: a.count,
			AvgPrice:  a.sum / float64(a.count),
			MinPrice:  a.min,
			Stations:  stations,
		})
	}

	sort.Slice(areas, func(i, j int) bool {
		if areas[i].AvgPrice != areas[j].AvgPrice {
			return areas[i].AvgPrice < areas[j].AvgPrice
		}
		return areas[i].Token < areas[j].Token
	})

	report := StationReport{Areas: areas, Located: located}
	if len(areas) > 0 {
		report.Cheapest = &areas[0]
	}
	return report
}
