package utils

import "time"

// RangesOverlap reports whether two [checkIn, checkOut) stay ranges collide.
// Checkout day equals another stay's check-in day without conflict.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// NightsBetween returns the number of nights between check-in and check-out,
// 0 when the range is inverted or empty
func NightsBetween(checkIn, checkOut time.Time) int {
	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights < 0 {
		return 0
	}
	return nights
}
