package utils

import "math"

func Ptr[T any](v T) *T {
	return &v
}

func Val[T any](p *T) T {
	if p != nil {
		return *p
	}
	var zero T
	return zero
}

// RupeesToPaise converts a rupee amount from the API boundary into the
// integer paise representation stored in the database.
func RupeesToPaise(rupees float64) int64 {
	return int64(math.Round(rupees * 100))
}

// PaiseToRupees converts back for response DTOs.
func PaiseToRupees(paise int64) float64 {
	return float64(paise) / 100
}
