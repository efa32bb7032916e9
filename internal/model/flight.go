package model

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/flightlog/internal/timecalc"
)

// Flight is a single logbook entry between two hour-meter readings.
type Flight struct {
	ID              string                `json:"id"`
	Date            time.Time             `json:"date"`
	PilotName       string                `json:"pilot_name"`
	StartTime       timecalc.HoursMinutes `json:"start_time"`
	EndTime         timecalc.HoursMinutes `json:"end_time"`
	Comments        string                `json:"comments"`
	CalendarEventID string                `json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

// NewFlightID returns a fresh flight identifier.
func NewFlightID() string {
	return uuid.NewString()
}

// Aircraft is the logged aircraft and its meter reading when logging began.
type Aircraft struct {
	ID           int64                 `json:"id"`
	Registration string                `json:"registration"`
	BaseHours    timecalc.HoursMinutes `json:"base_hours"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// SetupComplete reports whether the aircraft can anchor a flight chain.
func (a *Aircraft) SetupComplete() bool {
	return a != nil && a.Registration != "" && timecalc.Validate(&a.BaseHours) == nil
}

// Row is one line of a multi-flight submission. Start is nil until the user
// or the chain fills it in.
type Row struct {
	Start *timecalc.HoursMinutes `json:"start,omitempty"`
	End   timecalc.HoursMinutes  `json:"end"`
}

// Logbook is the top-level document stored by the JSON backend.
type Logbook struct {
	Aircraft *Aircraft `json:"aircraft"`
	Flights  []Flight  `json:"flights"`
}

// SortFlights orders flights by date. Flights on the same date keep their
// relative (insertion) order.
func SortFlights(flights []Flight) {
	sort.SliceStable(flights, func(i, j int) bool {
		return flights[i].Date.Before(flights[j].Date)
	})
}
