package insights

import (
	"math"
	"testing"
	"time"

	"fueltrack-api/models"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregatePeriod_LogsAndPurchases(t *testing.T) {
	logs := []models.TripLog{
		tripLog("a", -2, 100, 8, 320),
		tripLog("b", -1, 50, 6, 120),
		tripLog("old", -40, 500, 9, 1800),
	}
	purchases := []models.FuelPurchase{purchase("p1", -1, 20, 40)}

	agg := AggregatePeriod(logs, purchases, testNow.AddDate(0, 0, -7), testNow)

	if agg.TotalDistance != 150 {
		t.Fatalf("expected distance 150 from logs only, got %v", agg.TotalDistance)
	}
	if agg.TotalCost != 320+120+800 {
		t.Fatalf("expected log and purchase cost summed, got %v", agg.TotalCost)
	}
	if !approx(agg.TotalFuel, 8+3+20) {
		t.Fatalf("expected fuel 31, got %v", agg.TotalFuel)
	}
	if !approx(agg.AverageConsumption, agg.TotalFuel/150*100) {
		t.Fatalf("unexpected consumption %v", agg.AverageConsumption)
	}
	if !approx(agg.CostPerKm, agg.TotalCost/150) {
		t.Fatalf("unexpected cost per km %v", agg.CostPerKm)
	}
	if agg.LogCount != 2 || agg.PurchaseCount != 1 {
		t.Fatalf("unexpected counts: %d logs, %d purchases", agg.LogCount, agg.PurchaseCount)
	}
}

func TestAggregatePeriod_InclusiveBounds(t *testing.T) {
	logs := []models.TripLog{tripLog("start", -3, 10, 5, 10), tripLog("end", 0, 10, 5, 10)}

	// start and end carry times of day; matching is by calendar day
	start := testNow.AddDate(0, 0, -3).Add(5 * time.Hour)
	agg := AggregatePeriod(logs, nil, start, testNow)
	if agg.LogCount != 2 {
		t.Fatalf("expected both boundary logs included, got %d", agg.LogCount)
	}
}

func TestAggregatePeriod_ZeroDistanceGuards(t *testing.T) {
	purchases := []models.FuelPurchase{purchase("p1", 0, 30, 42)}

	agg := AggregatePeriod(nil, purchases, testNow, testNow)
	if agg.TotalDistance != 0 || agg.AverageConsumption != 0 || agg.CostPerKm != 0 {
		t.Fatalf("expected zero rates without distance, got %+v", agg)
	}
	if agg.TotalCost != 30*42 {
		t.Fatalf("expected purchase cost counted, got %v", agg.TotalCost)
	}
}

func TestAggregatePeriod_SkipsMalformedDates(t *testing.T) {
	bad := tripLog("bad", 0, 100, 5, 100)
	bad.Date = "15/03/2025"
	logs := []models.TripLog{bad, tripLog("ok", 0, 20, 5, 40)}

	agg := AggregatePeriod(logs, nil, testNow.AddDate(0, 0, -1), testNow)
	if agg.Skipped != 1 {
		t.Fatalf("expected one skipped record, got %d", agg.Skipped)
	}
	if agg.TotalDistance != 20 {
		t.Fatalf("expected only valid log aggregated, got %v", agg.TotalDistance)
	}
}

func TestAggregatePeriod_Additivity(t *testing.T) {
	logs := []models.TripLog{
		tripLog("a", -9, 120, 7.5, 360),
		tripLog("b", -6, 80, 6.2, 198.4),
		tripLog("c", -5, 40, 9.1, 145.6),
		tripLog("d", -1, 15, 5.0, 30),
	}
	purchases := []models.FuelPurchase{
		purchase("p1", -8, 35, 41.2),
		purchase("p2", -5, 20, 42.0),
		purchase("p3", 0, 10, 43.5),
	}

	start := testNow.AddDate(0, 0, -10)
	mid := testNow.AddDate(0, 0, -5)

	whole := AggregatePeriod(logs, purchases, start, testNow)
	first := AggregatePeriod(logs, purchases, start, mid)
	second := AggregatePeriod(logs, purchases, mid.AddDate(0, 0, 1), testNow)
	merged := first.Merge(second)

	if !approx(whole.TotalDistance, merged.TotalDistance) ||
		!approx(whole.TotalCost, merged.TotalCost) ||
		!approx(whole.TotalFuel, merged.TotalFuel) {
		t.Fatalf("sums differ: whole=%+v merged=%+v", whole, merged)
	}
	if !approx(whole.AverageConsumption, merged.AverageConsumption) || !approx(whole.CostPerKm, merged.CostPerKm) {
		t.Fatalf("rates must be recomputed from merged sums: whole=%+v merged=%+v", whole, merged)
	}
	if whole.LogCount != merged.LogCount || whole.PurchaseCount != merged.PurchaseCount {
		t.Fatalf("counts differ: whole=%+v merged=%+v", whole, merged)
	}
}

func TestMonthlyBuckets_SortedAscending(t *testing.T) {
	logs := []models.TripLog{
		{ID: "mar", Date: "2025-03-02", DistanceTraveled: 10, FuelConsumedLiters: 1, TotalCost: 40},
		{ID: "jan", Date: "2025-01-20", DistanceTraveled: 30, FuelConsumedLiters: 2, TotalCost: 80},
		{ID: "dec", Date: "2024-12-31", DistanceTraveled: 20, FuelConsumedLiters: 1, TotalCost: 40},
	}
	purchases := []models.FuelPurchase{{ID: "feb", Date: "2025-02-11", Liters: 30, PricePerLiter: 40, TotalAmount: 1200}}

	buckets := MonthlyBuckets(logs, purchases, time.UTC)

	got := ids(buckets, func(b MonthlyAggregate) string { return b.Month })
	want := []string{"2024-12", "2025-01", "2025-02", "2025-03"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	feb := buckets[2]
	if feb.TotalDistance != 0 || feb.TotalCost != 1200 || feb.TotalFuel != 30 {
		t.Fatalf("purchase-only month should carry cost and fuel only, got %+v", feb.Aggregate)
	}

	recent := RecentMonths(buckets, 2)
	if len(recent) != 2 || recent[0].Month != "2025-02" {
		t.Fatalf("expected last two months, got %v", ids(recent, func(b MonthlyAggregate) string { return b.Month }))
	}
}

func TestCompareMonths(t *testing.T) {
	now := time.Date(2025, time.March, 31, 12, 0, 0, 0, time.UTC)
	logs := []models.TripLog{
		{ID: "this", Date: "2025-03-10", DistanceTraveled: 200, TotalCost: 600},
		{ID: "last", Date: "2025-02-28", DistanceTraveled: 100, TotalCost: 400},
		{ID: "too-old", Date: "2025-01-31", DistanceTraveled: 999, TotalCost: 999},
	}

	cmp := CompareMonths(logs, nil, now)

	if cmp.Previous.TotalDistance != 100 {
		t.Fatalf("previous period should end on Feb 28, got distance %v", cmp.Previous.TotalDistance)
	}
	if !approx(cmp.DistanceChange, 100) || !approx(cmp.CostChange, 50) {
		t.Fatalf("unexpected changes: distance %v cost %v", cmp.DistanceChange, cmp.CostChange)
	}
	if cmp.FuelChange != 0 {
		t.Fatalf("expected 0%% change from an empty base, got %v", cmp.FuelChange)
	}
}

func TestTrailingConsumption(t *testing.T) {
	logs := []models.TripLog{
		tripLog("a", -1, 100, 6, 0),
		tripLog("b", -2, 100, 8, 0),
		tripLog("old", -60, 100, 20, 0),
	}
	if got := TrailingConsumption(logs, testNow, 30); !approx(got, 7) {
		t.Fatalf("expected 7 L/100km, got %v", got)
	}
	if got := TrailingConsumption(nil, testNow, 30); got != 0 {
		t.Fatalf("expected 0 without logs, got %v", got)
	}
}
