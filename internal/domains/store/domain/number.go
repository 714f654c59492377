package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// MaxDailySequence is the largest suffix an order number can carry.
const MaxDailySequence = 9999

var (
	ErrInvalidOrderNumber = errors.New("order number must match ORD-YYMMDD-NNNN")
	ErrSequenceExhausted  = errors.New("daily order number sequence exhausted")
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{6}-\d{4}$`)

// DayKey is the YYMMDD stamp of day in its own location.
func DayKey(day time.Time) string {
	return day.Format("060102")
}

// FormatOrderNumber renders ORD-YYMMDD-NNNN.
func FormatOrderNumber(day time.Time, seq int) (string, error) {
	if seq < 1 || seq > MaxDailySequence {
		return "", ErrSequenceExhausted
	}
	return fmt.Sprintf("ORD-%s-%04d", DayKey(day), seq), nil
}

// ValidOrderNumber reports whether number has the ORD-YYMMDD-NNNN shape.
func ValidOrderNumber(number string) bool {
	return orderNumberPattern.MatchString(number)
}

// DayBounds returns the start of day and the start of the next day in day's location.
func DayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}
