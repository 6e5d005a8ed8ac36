package utils

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

// CountryCode is the default phone region for rider numbers.
var CountryCode = "AE"

func IsValidEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	regex := regexp.MustCompile(pattern)
	return regex.MatchString(email)
}

// NormalizePhone parses and reformats a phone number to E.164.
func NormalizePhone(phoneNumber, countryCode string) (string, error) {
	p, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return "", err
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", fmt.Errorf("phone number is not valid")
	}
	return libphonenumber.Format(p, libphonenumber.E164), nil
}

// FormatBatterySnapshot renders battery readings as a comma-joined list with
// two decimals, e.g. "87.50,12.25". The transition history stores this string
// verbatim.
func FormatBatterySnapshot(percentages []float64) string {
	parts := make([]string, 0, len(percentages))
	for _, p := range percentages {
		parts = append(parts, fmt.Sprintf("%.2f", p))
	}
	return strings.Join(parts, ",")
}

func GenerateUniqueFilename() string {
	timestamp := time.Now().UnixNano()
	random := rand.Intn(1000)
	return fmt.Sprintf("%d_%d", timestamp, random)
}

func ProcessValidationErrors(err error) map[string]string {
	errorResponse := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errorResponse["error"] = err.Error()
		return errorResponse
	}
	for _, fieldErr := range validationErrors {
		field := strings.ToLower(fieldErr.Field())
		switch fieldErr.Tag() {
		case "required":
			errorResponse[field] = fmt.Sprintf("%s is required", field)
		default:
			errorResponse[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return errorResponse
}
