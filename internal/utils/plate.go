package utils // plate helpers shared by handlers and the telemetry consumer

import (
	"regexp"
	"strings"
)

// krPlateRe matches Korean licence plates after normalization:
// an optional two-hangul region prefix, two or three digits, one
// hangul class character and four digits (e.g. 12가3456, 123나4567,
// 서울12아3456).
var krPlateRe = regexp.MustCompile(`^(?:[가-힣]{2})?[0-9]{2,3}[가-힣][0-9]{4}$`)

// NormalizePlate strips all whitespace and upper-cases the plate.
// Conflict checks and camera matching always compare normalized
// values so that "12가 3456" and "12가3456" are the same vehicle.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), ""))
}

// ValidPlate reports whether the plate is acceptable for booking.
// The backend contract only requires a minimum length; the stricter
// pattern check is advisory and matches the standard plate formats.
func ValidPlate(plate string) bool {
	n := NormalizePlate(plate)
	if len([]rune(n)) < 5 {
		return false
	}
	return krPlateRe.MatchString(n)
}
