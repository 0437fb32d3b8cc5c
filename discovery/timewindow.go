package discovery

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesOfDay parses an "HH:MM" time into minutes since local midnight.
func MinutesOfDay(hhmm string) (int, bool) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// CanonicalHHMM parses a clock time and re-renders it zero-padded.
// Stored open/close times must be canonical: the store predicate compares
// them lexicographically, and an unpadded hour like "8:00" would sort
// after every padded now-string and never match.
func CanonicalHHMM(hhmm string) (string, bool) {
	minutes, ok := MinutesOfDay(hhmm)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), true
}

// OpenWithin reports whether nowMinutes falls inside the [open, close]
// window, inclusive at both ends. A window whose close time precedes its
// open time (an overnight window like 22:00-02:00) never matches.
func OpenWithin(openTime, closeTime string, nowMinutes int) bool {
	open, ok := MinutesOfDay(openTime)
	if !ok {
		return false
	}
	close, ok := MinutesOfDay(closeTime)
	if !ok {
		return false
	}
	return open <= nowMinutes && nowMinutes <= close
}

// NowMinutes converts a wall-clock instant to minutes since midnight.
func NowMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ClockHHMM formats an instant as zero-padded "HH:MM". Lexicographic
// order of these strings matches chronological order, so they can be
// compared directly in store predicates.
func ClockHHMM(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}
