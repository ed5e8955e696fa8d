// File: /utils/validators.go
package utils

import (
	"regexp"
	"time"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPassword wants at least 6 characters drawn from 3 of: upper, lower, digit, symbol
func IsValidPassword(password string) bool {
	if len(password) < 6 {
		return false
	}

	classes := make(map[string]bool, 4)
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			classes["upper"] = true
		case unicode.IsLower(char):
			classes["lower"] = true
		case unicode.IsNumber(char):
			classes["digit"] = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			classes["symbol"] = true
		}
	}
	return len(classes) >= 3
}

// IsValidEstimateInput bounds a trip estimate. Prices are currency-agnostic and only need to be positive.
func IsValidEstimateInput(distanceKm, fuelPrice, consumptionRate float64) bool {
	return distanceKm > 0 && distanceKm <= 10000 &&
		fuelPrice > 0 &&
		consumptionRate > 0 && consumptionRate <= 50
}

// IsValidDate accepts a YYYY-MM-DD calendar day
func IsValidDate(value string) bool {
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

func IsValidCoordinate(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
