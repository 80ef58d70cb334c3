package timex

import (
	"testing"
	"time"
)

func TestPtr(t *testing.T) {
	t.Parallel()

	if got := Ptr(time.Time{}); got != nil {
		t.Fatalf("Ptr(zero) = %v, want nil", got)
	}

	now := time.Now()
	got := Ptr(now)
	if got == nil || !got.Equal(now) {
		t.Fatalf("Ptr(now) = %v, want %v", got, now)
	}
}

func TestDayUTC(t *testing.T) {
	t.Parallel()

	in := time.Date(2024, 3, 15, 22, 45, 12, 999, time.FixedZone("x", 3600))
	got := DayUTC(in)
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("DayUTC = %v, want %v", got, want)
	}
}

func TestLocalDate_CrossesMidnight(t *testing.T) {
	t.Parallel()

	// 23:30 UTC at +60 is already the next civil day
	in := time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC)
	if got := LocalDate(in, 60); got != "2024-03-16" {
		t.Fatalf("LocalDate(+60) = %q, want 2024-03-16", got)
	}
	// 00:30 UTC at -60 is still the previous civil day
	in = time.Date(2024, 3, 16, 0, 30, 0, 0, time.UTC)
	if got := LocalDate(in, -60); got != "2024-03-15" {
		t.Fatalf("LocalDate(-60) = %q, want 2024-03-15", got)
	}
}

func TestLocalClock(t *testing.T) {
	t.Parallel()

	in := time.Date(2024, 3, 15, 11, 55, 0, 0, time.UTC)
	h, m := LocalClock(in, 90)
	if h != 13 || m != 25 {
		t.Fatalf("LocalClock = %02d:%02d, want 13:25", h, m)
	}
}

func TestClockString(t *testing.T) {
	t.Parallel()

	if got := ClockString(9, 5); got != "09:05" {
		t.Fatalf("ClockString = %q, want 09:05", got)
	}
}
