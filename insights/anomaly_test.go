package insights

import (
	"fmt"
	"testing"

	"fueltrack-api/models"
)

func costLogs(costs ...float64) []models.TripLog {
	logs := make([]models.TripLog, len(costs))
	for i, c := range costs {
		// later entries are more recent
		logs[i] = tripLog(fmt.Sprintf("log-%d", i), -len(costs)+i+1, 50, 0, c)
	}
	return logs
}

func TestDetectAnomalies_RequiresMinimumLogs(t *testing.T) {
	logs := costLogs(10, 10, 10, 500)
	if got := DetectAnomalies(logs, DefaultAnomalyConfig); len(got) != 0 {
		t.Fatalf("expected no anomalies below 5 logs, got %d", len(got))
	}
}

func TestDetectAnomalies_CostThresholdIsStrict(t *testing.T) {
	// mean = 75 / 6 = 12.5, so 25 is exactly 2.0x
	exact := costLogs(10, 10, 10, 10, 10, 25)
	if got := DetectAnomalies(exact, DefaultAnomalyConfig); len(got) != 0 {
		t.Fatalf("cost of exactly 2.0x mean must not be flagged, got %+v", got)
	}

	// mean = 76 / 6 = 12.67, 26 is about 2.05x
	above := costLogs(10, 10, 10, 10, 10, 26)
	got := DetectAnomalies(above, DefaultAnomalyConfig)
	if len(got) != 1 || got[0].Kind != AnomalyHighCost || got[0].Log.ID != "log-5" {
		t.Fatalf("expected log-5 flagged as high_cost, got %+v", got)
	}
	if got[0].DeviationPercent <= 100 {
		t.Fatalf("expected deviation above 100%%, got %v", got[0].DeviationPercent)
	}
}

func TestDetectAnomalies_OnlyRecentWindow(t *testing.T) {
	costs := make([]float64, 15)
	for i := range costs {
		costs[i] = 10
	}
	costs[0] = 400 // oldest entry, outside the last 10
	logs := costLogs(costs...)

	if got := DetectAnomalies(logs, DefaultAnomalyConfig); len(got) != 0 {
		t.Fatalf("old outliers must not be flagged, got %+v", got)
	}
}

func TestDetectAnomalies_CapAndRecencyOrder(t *testing.T) {
	logs := seqLogs(12, 6, 10) // log-0 is today, log-11 is oldest
	for _, i := range []int{1, 3, 5, 7} {
		logs[i].TotalCost = 100
	}
	logs[3].ConsumptionRate = 15

	got := DetectAnomalies(logs, DefaultAnomalyConfig)
	if len(got) != 3 {
		t.Fatalf("expected at most 3 flags, got %d", len(got))
	}

	want := []struct {
		id   string
		kind AnomalyKind
	}{
		{"log-1", AnomalyHighCost},
		{"log-3", AnomalyHighCost},
		{"log-3", AnomalyHighConsumption},
	}
	for i, w := range want {
		if got[i].Log.ID != w.id || got[i].Kind != w.kind {
			t.Fatalf("flag %d: expected %s/%s, got %s/%s", i, w.id, w.kind, got[i].Log.ID, got[i].Kind)
		}
	}
}

func TestDetectAnomalies_ConsumptionMeanIgnoresZeroRates(t *testing.T) {
	logs := seqLogs(6, 6, 10)
	logs[1].ConsumptionRate = 0
	logs[2].ConsumptionRate = 0
	logs[0].ConsumptionRate = 8.5 // mean of positive rates = 26.5/4 = 6.625, threshold 9.94

	if got := DetectAnomalies(logs, DefaultAnomalyConfig); len(got) != 0 {
		t.Fatalf("zero rates must not drag the mean down, got %+v", got)
	}
}

func TestDetectAnomalies_ConfigurableWindowAndCap(t *testing.T) {
	logs := seqLogs(8, 6, 10)
	logs[6].TotalCost = 200

	cfg := DefaultAnomalyConfig
	cfg.Window = 5
	if got := DetectAnomalies(logs, cfg); len(got) != 0 {
		t.Fatalf("log-6 is outside a 5-log window, got %+v", got)
	}

	cfg.Window = 8
	cfg.MaxFlags = 1
	if got := DetectAnomalies(logs, cfg); len(got) != 1 {
		t.Fatalf("expected one flag, got %d", len(got))
	}
}
