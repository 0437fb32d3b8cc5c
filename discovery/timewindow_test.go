package discovery

import (
	"testing"
	"time"
)

func TestMinutesOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00:00", 0, true},
		{"08:00", 480, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"noon", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := MinutesOfDay(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("MinutesOfDay(%q) = (%d, %v), want (%d, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestOpenWithinInclusiveBounds(t *testing.T) {
	if !OpenWithin("08:00", "22:00", 480) {
		t.Error("expected open exactly at open time")
	}
	if !OpenWithin("08:00", "22:00", 1320) {
		t.Error("expected open exactly at close time")
	}
	if OpenWithin("08:00", "22:00", 479) {
		t.Error("expected closed one minute before opening")
	}
	if OpenWithin("08:00", "22:00", 1321) {
		t.Error("expected closed one minute after closing")
	}
}

func TestOvernightWindowNeverOpen(t *testing.T) {
	// close < open is never satisfied, at any minute of the day
	for minute := 0; minute < 24*60; minute++ {
		if OpenWithin("22:00", "02:00", minute) {
			t.Fatalf("overnight window reported open at minute %d", minute)
		}
	}
}

func TestCanonicalHHMM(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"08:00", "08:00", true},
		{"8:00", "08:00", true},
		{"9:5", "09:05", true},
		{"23:59", "23:59", true},
		{"24:00", "", false},
		{"8", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := CanonicalHHMM(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("CanonicalHHMM(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

// Canonical times must behave identically under the minutes model and the
// lexicographic string comparison the store predicate uses.
func TestCanonicalTimesMatchStorePredicate(t *testing.T) {
	inputs := []struct{ open, close string }{
		{"8:00", "22:00"},
		{"08:00", "22:00"},
		{"9:5", "21:30"},
		{"00:00", "23:59"},
		{"10:15", "10:15"},
	}
	for _, in := range inputs {
		open, ok := CanonicalHHMM(in.open)
		if !ok {
			t.Fatalf("CanonicalHHMM(%q) rejected", in.open)
		}
		close, ok := CanonicalHHMM(in.close)
		if !ok {
			t.Fatalf("CanonicalHHMM(%q) rejected", in.close)
		}
		for minute := 0; minute < 24*60; minute++ {
			at := time.Date(2025, 6, 1, minute/60, minute%60, 0, 0, time.Local)
			nowStr := ClockHHMM(at)
			stringOpen := open <= nowStr && nowStr <= close
			minutesOpen := OpenWithin(open, close, minute)
			if stringOpen != minutesOpen {
				t.Fatalf("window %s-%s at %s: string predicate %v, minutes model %v",
					open, close, nowStr, stringOpen, minutesOpen)
			}
		}
	}
}

func TestClockHHMMZeroPadded(t *testing.T) {
	at := time.Date(2025, 6, 1, 7, 5, 0, 0, time.Local)
	if got := ClockHHMM(at); got != "07:05" {
		t.Fatalf("ClockHHMM = %q, want %q", got, "07:05")
	}
	if got := NowMinutes(at); got != 7*60+5 {
		t.Fatalf("NowMinutes = %d, want %d", got, 7*60+5)
	}
}
