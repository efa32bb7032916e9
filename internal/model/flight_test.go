package model_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/flightlog/internal/model"
	"github.com/Tiliavir/flightlog/internal/timecalc"
)

func TestSortFlightsStable(t *testing.T) {
	day1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	flights := []model.Flight{
		{ID: "c", Date: day2},
		{ID: "a", Date: day1},
		{ID: "b", Date: day1},
		{ID: "d", Date: day2},
	}
	model.SortFlights(flights)

	want := []string{"a", "b", "c", "d"}
	for i, f := range flights {
		if f.ID != want[i] {
			t.Errorf("flights[%d] = %q, want %q", i, f.ID, want[i])
		}
	}
}

func TestAircraftSetupComplete(t *testing.T) {
	tests := []struct {
		name     string
		aircraft *model.Aircraft
		want     bool
	}{
		{"nil", nil, false},
		{"no registration", &model.Aircraft{BaseHours: timecalc.New(10, 0)}, false},
		{"invalid base", &model.Aircraft{Registration: "D-EABC", BaseHours: timecalc.New(10, 75)}, false},
		{"zero base", &model.Aircraft{Registration: "D-EABC"}, true},
		{"complete", &model.Aircraft{Registration: "D-EABC", BaseHours: timecalc.New(1234, 30)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.aircraft.SetupComplete(); got != tt.want {
				t.Errorf("SetupComplete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewFlightIDUnique(t *testing.T) {
	a, b := model.NewFlightID(), model.NewFlightID()
	if a == "" || a == b {
		t.Errorf("NewFlightID returned %q and %q", a, b)
	}
}
