package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/flightlog/internal/timecalc"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 0m"},
		{90, "1h 30m"},
		{61, "1h 1m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDuration(tt.minutes)
		if got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	if got := timecalc.FormatHours(timecalc.New(1, 30)); got != "1.30 hours" {
		t.Errorf("FormatHours = %q, want %q", got, "1.30 hours")
	}
}

func TestParseDate(t *testing.T) {
	d, err := timecalc.ParseDate("2026-02-27")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !d.Equal(time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate = %v", d)
	}
	if _, err := timecalc.ParseDate("27.02.2026"); err == nil {
		t.Error("ParseDate: expected error for wrong layout")
	}
}

func TestMonthRange(t *testing.T) {
	mid := time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC)
	first, last := timecalc.MonthRange(mid)

	wantFirst := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	wantLast := time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC)

	if !first.Equal(wantFirst) {
		t.Errorf("MonthRange first = %v, want %v", first, wantFirst)
	}
	if !last.Equal(wantLast) {
		t.Errorf("MonthRange last = %v, want %v", last, wantLast)
	}
}

func TestMonthLabel(t *testing.T) {
	got := timecalc.MonthLabel(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	if got != "2026-10" {
		t.Errorf("MonthLabel = %q, want %q", got, "2026-10")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
}

func TestSameMonth(t *testing.T) {
	a := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC)
	c := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameMonth(a, b) {
		t.Error("SameMonth: expected same month for a and b")
	}
	if timecalc.SameMonth(a, c) {
		t.Error("SameMonth: same month of a different year must not match")
	}
}
