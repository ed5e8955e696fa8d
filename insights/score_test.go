package insights

import (
	"fmt"
	"math"
	"testing"

	"fueltrack-api/models"
)

// ratesChronological builds logs whose dates ascend with the slice order
func ratesChronological(rates ...float64) []models.TripLog {
	logs := make([]models.TripLog, len(rates))
	for i, r := range rates {
		logs[i] = tripLog(fmt.Sprintf("log-%d", i), -len(rates)+i+1, 50, r, 100)
	}
	return logs
}

func TestComputeScore_InsufficientData(t *testing.T) {
	logs := []models.TripLog{
		tripLog("a", 0, 50, 7, 100),
		tripLog("b", -1, 50, 7, 100),
		tripLog("old-1", -31, 50, 7, 100),
		tripLog("old-2", -45, 50, 7, 100),
	}
	if s := ComputeScore(logs, nil, testNow); s != nil {
		t.Fatalf("expected nil score with 2 logs in the last 30 days, got %+v", s)
	}
}

func TestComputeScore_ReferenceDriver(t *testing.T) {
	s := ComputeScore(ratesChronological(8, 8, 8, 8), nil, testNow)
	if s == nil {
		t.Fatalf("expected a score")
	}
	if s.SubScores.Efficiency != 100 || s.SubScores.Consistency != 100 {
		t.Fatalf("expected perfect efficiency and consistency, got %+v", s.SubScores)
	}
	if s.SubScores.Trend != 75 || s.SubScores.CostAwareness != 70 {
		t.Fatalf("expected neutral trend and cost awareness, got %+v", s.SubScores)
	}
	if s.Overall != 89 || s.Grade != "A" {
		t.Fatalf("expected 89/A, got %d/%s", s.Overall, s.Grade)
	}
	if s.SampleSize != 4 {
		t.Fatalf("expected sample size 4, got %d", s.SampleSize)
	}
}

func TestComputeScore_EfficiencyAndConsistency(t *testing.T) {
	s := ComputeScore(ratesChronological(9, 11, 9, 11), nil, testNow)
	if s == nil {
		t.Fatalf("expected a score")
	}
	// mean 10 -> 100 - 2*10 = 80; std 1 -> 100 - 20 = 80
	if math.Abs(s.SubScores.Efficiency-80) > 1e-9 || math.Abs(s.SubScores.Consistency-80) > 1e-9 {
		t.Fatalf("unexpected sub scores %+v", s.SubScores)
	}
}

func TestComputeScore_Trend(t *testing.T) {
	improving := ComputeScore(ratesChronological(10, 10, 9.5, 9.5), nil, testNow)
	// 5% better -> 75 + 10
	if math.Abs(improving.SubScores.Trend-85) > 1e-9 {
		t.Fatalf("expected trend 85, got %v", improving.SubScores.Trend)
	}

	worsening := ComputeScore(ratesChronological(8, 8, 10, 10), nil, testNow)
	// 25% worse -> 75 - 50
	if math.Abs(worsening.SubScores.Trend-25) > 1e-9 {
		t.Fatalf("expected trend 25, got %v", worsening.SubScores.Trend)
	}

	capped := ComputeScore(ratesChronological(10, 10, 6, 6), nil, testNow)
	if capped.SubScores.Trend != 100 {
		t.Fatalf("expected trend capped at 100, got %v", capped.SubScores.Trend)
	}

	noBase := ComputeScore(ratesChronological(0, 0, 7, 7), nil, testNow)
	if noBase.SubScores.Trend != 75 {
		t.Fatalf("expected baseline when the first half has no consumption, got %v", noBase.SubScores.Trend)
	}
}

func TestComputeScore_CostAwareness(t *testing.T) {
	logs := ratesChronological(8, 8, 8)
	purchases := []models.FuelPurchase{
		purchase("cheap-old", -200, 10, 30),
		purchase("dear-old", -150, 10, 50),
		purchase("r1", -3, 10, 35),
		purchase("r2", -1, 10, 45),
	}

	s := ComputeScore(logs, purchases, testNow)
	if math.Abs(s.SubScores.CostAwareness-75) > 1e-9 {
		t.Fatalf("expected 75 for a mid-range buyer, got %v", s.SubScores.CostAwareness)
	}

	oneRecent := ComputeScore(logs, purchases[:3], testNow)
	if oneRecent.SubScores.CostAwareness != 70 {
		t.Fatalf("expected neutral 70 with one recent purchase, got %v", oneRecent.SubScores.CostAwareness)
	}

	flat := []models.FuelPurchase{purchase("a", -2, 10, 40), purchase("b", -1, 10, 40)}
	if got := ComputeScore(logs, flat, testNow).SubScores.CostAwareness; got != 70 {
		t.Fatalf("expected neutral 70 when all prices are equal, got %v", got)
	}

	dearest := []models.FuelPurchase{purchase("old", -90, 10, 30), purchase("a", -2, 10, 50), purchase("b", -1, 10, 50)}
	if got := ComputeScore(logs, dearest, testNow).SubScores.CostAwareness; got != 50 {
		t.Fatalf("expected floor of 50 for the dearest buyer, got %v", got)
	}
}

func TestComputeScore_Bounds(t *testing.T) {
	s := ComputeScore(ratesChronological(2, 40, 1, 45, 3, 50), nil, testNow)
	for name, v := range map[string]float64{
		"efficiency":     s.SubScores.Efficiency,
		"consistency":    s.SubScores.Consistency,
		"trend":          s.SubScores.Trend,
		"cost awareness": s.SubScores.CostAwareness,
	} {
		if v < 0 || v > 100 {
			t.Errorf("%s out of bounds: %v", name, v)
		}
	}
	if s.Overall < 0 || s.Overall > 100 {
		t.Fatalf("overall out of bounds: %d", s.Overall)
	}

	best := ComputeScore(ratesChronological(4, 4, 4, 4), nil, testNow)
	if best.SubScores.Efficiency != 100 {
		t.Fatalf("efficiency must be clamped to 100, got %v", best.SubScores.Efficiency)
	}
}

func TestGradeFor(t *testing.T) {
	cases := map[int]string{
		100: "A+", 90: "A+", 89: "A", 80: "A", 79: "B", 70: "B",
		69: "C", 60: "C", 59: "D", 0: "D",
	}
	for score, want := range cases {
		if got := GradeFor(score); got != want {
			t.Errorf("score %d: expected %s, got %s", score, want, got)
		}
	}
}
