// Package chain keeps consecutive flights linked: every flight starts at the
// hour-meter reading the previous one ended on, and the first flight starts at
// the aircraft's base hours.
package chain

import (
	"errors"
	"fmt"
	"time"

	"github.com/Tiliavir/flightlog/internal/model"
	"github.com/Tiliavir/flightlog/internal/timecalc"
)

var (
	// ErrChainViolation is returned when a flight does not end after it starts.
	ErrChainViolation = errors.New("end time must be greater than start time")
	// ErrEmptyBatch is returned when a submission has no rows.
	ErrEmptyBatch = errors.New("no flights to log")
)

// Field names reported by FieldError.
const (
	FieldStart = "start time"
	FieldEnd   = "end time"
)

// FieldError ties a validation failure to the start or end reading.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %v", e.Field, e.Err) }

func (e *FieldError) Unwrap() error { return e.Err }

// RowError reports which row of a batch was rejected. Row is zero-based.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row+1, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// Batch carries the fields shared by every row of a multi-flight submission.
// LockFirst pins the first row to the initial start time, which callers set
// whenever a previous flight exists.
type Batch struct {
	Date      time.Time
	PilotName string
	Comments  string
	LockFirst bool
}

// Duration returns the minutes between start and end. Both readings must be
// valid hours.minutes and end must be strictly after start.
func Duration(start, end timecalc.HoursMinutes) (int, error) {
	s, err := timecalc.DecodeToMinutes(start)
	if err != nil {
		return 0, &FieldError{Field: FieldStart, Err: err}
	}
	e, err := timecalc.DecodeToMinutes(end)
	if err != nil {
		return 0, &FieldError{Field: FieldEnd, Err: err}
	}
	if e <= s {
		return 0, &FieldError{Field: FieldEnd, Err: fmt.Errorf("%w (start %s, end %s)", ErrChainViolation, start, end)}
	}
	return e - s, nil
}

// TotalTime is the flight's duration in hours.minutes.
func TotalTime(f model.Flight) (timecalc.HoursMinutes, error) {
	m, err := Duration(f.StartTime, f.EndTime)
	if err != nil {
		return 0, err
	}
	return timecalc.EncodeFromMinutes(m), nil
}

// NextStartTime returns the reading the next flight should start at: the end
// of the last flight in the given order, or base when there are none.
func NextStartTime(base timecalc.HoursMinutes, flights []model.Flight) timecalc.HoursMinutes {
	if len(flights) == 0 {
		return base
	}
	return flights[len(flights)-1].EndTime
}

// ChainMultiple turns the rows of one submission into flight payloads. Row 0
// starts at initial unless it carries its own start and the batch is not
// locked; every later row starts where the previous one ended, whatever the
// row itself says. The first invalid row rejects the whole batch.
func ChainMultiple(batch Batch, rows []model.Row, initial timecalc.HoursMinutes) ([]model.Flight, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyBatch
	}

	flights := make([]model.Flight, 0, len(rows))
	for i, row := range rows {
		start := initial
		switch {
		case i > 0:
			start = rows[i-1].End
		case !batch.LockFirst && row.Start != nil:
			start = *row.Start
		}

		if _, err := Duration(start, row.End); err != nil {
			return nil, &RowError{Row: i, Err: err}
		}

		flights = append(flights, model.Flight{
			Date:      batch.Date,
			PilotName: batch.PilotName,
			StartTime: start,
			EndTime:   row.End,
			Comments:  batch.Comments,
		})
	}
	return flights, nil
}

// AppendRow adds an empty row that starts at the last row's end.
func AppendRow(rows []model.Row) []model.Row {
	out := cloneRows(rows)
	var start timecalc.HoursMinutes
	if len(out) > 0 {
		start = out[len(out)-1].End
	}
	return append(out, model.Row{Start: &start})
}

// RemoveRowRecalculate drops rows[index] and relinks the rest: the first row
// falls back to initial when it has no start of its own, later rows start at
// their predecessor's end. The last remaining row cannot be removed and an
// out-of-range index is ignored; both return an unchanged copy.
func RemoveRowRecalculate(rows []model.Row, index int, initial timecalc.HoursMinutes) []model.Row {
	out := cloneRows(rows)
	if len(out) <= 1 || index < 0 || index >= len(out) {
		return out
	}

	out = append(out[:index], out[index+1:]...)
	if out[0].Start == nil || *out[0].Start == 0 {
		first := initial
		out[0].Start = &first
	}
	for i := 1; i < len(out); i++ {
		prev := out[i-1].End
		out[i].Start = &prev
	}
	return out
}

func cloneRows(rows []model.Row) []model.Row {
	out := make([]model.Row, len(rows))
	for i, r := range rows {
		out[i].End = r.End
		if r.Start != nil {
			s := *r.Start
			out[i].Start = &s
		}
	}
	return out
}

// MonthlyTotal sums the flight time of flights dated in now's calendar month.
func MonthlyTotal(flights []model.Flight, now time.Time) (timecalc.HoursMinutes, error) {
	var totals []timecalc.HoursMinutes
	for _, f := range flights {
		if !timecalc.SameMonth(f.Date, now) {
			continue
		}
		tt, err := TotalTime(f)
		if err != nil {
			return 0, fmt.Errorf("flight %s: %w", f.ID, err)
		}
		totals = append(totals, tt)
	}
	return timecalc.Sum(totals...)
}

// TotalHoursWithBase is the aircraft's current meter total: base plus the
// flight time of every flight.
func TotalHoursWithBase(flights []model.Flight, base timecalc.HoursMinutes) (timecalc.HoursMinutes, error) {
	totals := []timecalc.HoursMinutes{base}
	for _, f := range flights {
		tt, err := TotalTime(f)
		if err != nil {
			return 0, fmt.Errorf("flight %s: %w", f.ID, err)
		}
		totals = append(totals, tt)
	}
	return timecalc.Sum(totals...)
}

// Gap is a broken link: the flight at Index did not start where its
// predecessor (or the base hours) ended.
type Gap struct {
	Index    int
	FlightID string
	Expected timecalc.HoursMinutes
	Actual   timecalc.HoursMinutes
}

// Gaps lists every broken link in flights, in order. It only reports; deleting
// a flight from the middle of the log leaves a gap here rather than rewriting
// later flights.
func Gaps(base timecalc.HoursMinutes, flights []model.Flight) []Gap {
	var gaps []Gap
	expected := base
	for i, f := range flights {
		if f.StartTime != expected {
			gaps = append(gaps, Gap{Index: i, FlightID: f.ID, Expected: expected, Actual: f.StartTime})
		}
		expected = f.EndTime
	}
	return gaps
}
