package utils

import "testing"

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Ab1!", false},
		{"abcdefgh", false},
		{"abcdef12", false},
		{"Abcdef12", true},
		{"abcdef1!", true},
		{"Secret12!", true},
	}
	for _, tt := range tests {
		if got := IsValidPassword(tt.password); got != tt.want {
			t.Errorf("IsValidPassword(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}

func TestIsValidEstimateInput(t *testing.T) {
	if !IsValidEstimateInput(250, 14, 6) {
		t.Fatal("expected a normal trip to be valid")
	}
	if IsValidEstimateInput(0, 14, 6) || IsValidEstimateInput(250, 0, 6) || IsValidEstimateInput(250, 14, 60) {
		t.Fatal("expected out-of-range inputs to be rejected")
	}
}

func TestIsValidDateAndCoordinate(t *testing.T) {
	if !IsValidDate("2025-02-28") || IsValidDate("2025-02-30") || IsValidDate("28/02/2025") {
		t.Fatal("date validation mismatch")
	}
	if !IsValidCoordinate(41.01, 28.97) || IsValidCoordinate(91, 0) || IsValidCoordinate(0, -181) {
		t.Fatal("coordinate validation mismatch")
	}
}
