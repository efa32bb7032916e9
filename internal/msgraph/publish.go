package msgraph

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Tiliavir/flightlog/internal/chain"
	"github.com/Tiliavir/flightlog/internal/logger"
	"github.com/Tiliavir/flightlog/internal/model"
	"github.com/Tiliavir/flightlog/internal/timecalc"
)

// graphDateTime is the zone-less layout Graph expects with a separate timeZone.
const graphDateTime = "2006-01-02T15:04:05"

// EventWriter creates and updates calendar events. *Client implements it.
type EventWriter interface {
	CreateEvent(ctx context.Context, ev Event) (Event, error)
	UpdateEvent(ctx context.Context, id string, ev Event) error
}

// FlightUpdater stores the calendar event ID of a published flight.
type FlightUpdater interface {
	UpdateFlight(ctx context.Context, f model.Flight) error
}

// PublishOptions configures a publish run.
type PublishOptions struct {
	Registration string
	// Timezone is the IANA zone of the all-day events; empty means UTC.
	Timezone string
	Category string
	DryRun   bool
	// Out receives one progress line per flight. Nil discards them.
	Out io.Writer
}

// PublishResult holds counters for a publish run.
type PublishResult struct {
	Created int
	Updated int
	Errors  int
}

// MapFlightToEvent converts a flight into an all-day calendar event on its date.
func MapFlightToEvent(f model.Flight, opts PublishOptions) (Event, error) {
	total, err := chain.TotalTime(f)
	if err != nil {
		return Event{}, err
	}

	tz := opts.Timezone
	if tz == "" {
		tz = "UTC"
	}
	day := timecalc.DateOf(f.Date)

	subject := fmt.Sprintf("Flight %s: %s", opts.Registration, timecalc.FormatHours(total))
	if opts.Registration == "" {
		subject = "Flight: " + timecalc.FormatHours(total)
	}

	lines := []string{
		"Pilot: " + f.PilotName,
		fmt.Sprintf("Hour meter: %s - %s", f.StartTime, f.EndTime),
	}
	if f.Comments != "" {
		lines = append(lines, f.Comments)
	}

	ev := Event{
		Subject:  subject,
		Body:     &ItemBody{ContentType: "text", Content: strings.Join(lines, "\n")},
		IsAllDay: true,
		ShowAs:   "free",
		Start:    DateTimeTimeZone{DateTime: day.Format(graphDateTime), TimeZone: tz},
		End:      DateTimeTimeZone{DateTime: day.AddDate(0, 0, 1).Format(graphDateTime), TimeZone: tz},
	}
	if opts.Category != "" {
		ev.Categories = []string{opts.Category}
	}
	return ev, nil
}

// PublishFlights creates an event for every flight that has none yet and
// updates the events of the others. New event IDs are written back through
// store. A failing flight is counted and skipped; the run continues.
func PublishFlights(ctx context.Context, w EventWriter, store FlightUpdater, flights []model.Flight, opts PublishOptions) (PublishResult, error) {
	var result PublishResult

	if opts.Timezone != "" {
		if _, err := time.LoadLocation(opts.Timezone); err != nil {
			return result, fmt.Errorf("invalid timezone %q: %w", opts.Timezone, err)
		}
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	for _, f := range flights {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		label := fmt.Sprintf("%s %s-%s", f.Date.Format(timecalc.DateLayout), f.StartTime, f.EndTime)
		ev, err := MapFlightToEvent(f, opts)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping %s: %v\n", label, err)
			logger.Warn("cannot map flight to event", "flight", f.ID, "err", err)
			result.Errors++
			continue
		}

		if f.CalendarEventID != "" {
			if !opts.DryRun {
				if err := w.UpdateEvent(ctx, f.CalendarEventID, ev); err != nil {
					fmt.Fprintf(out, "  ! Error updating %s: %v\n", label, err)
					logger.Error("update event failed", "flight", f.ID, "event", f.CalendarEventID, "err", err)
					result.Errors++
					continue
				}
			}
			fmt.Fprintf(out, "  ↑ Updated:  %s\n", label)
			result.Updated++
			continue
		}

		if !opts.DryRun {
			created, err := w.CreateEvent(ctx, ev)
			if err != nil {
				fmt.Fprintf(out, "  ! Error creating %s: %v\n", label, err)
				logger.Error("create event failed", "flight", f.ID, "err", err)
				result.Errors++
				continue
			}
			f.CalendarEventID = created.ID
			if err := store.UpdateFlight(ctx, f); err != nil {
				fmt.Fprintf(out, "  ! Error saving event ID for %s: %v\n", label, err)
				logger.Error("saving event id failed", "flight", f.ID, "event", created.ID, "err", err)
				result.Errors++
				continue
			}
		}
		fmt.Fprintf(out, "  ✓ Created:  %s\n", label)
		result.Created++
	}

	logger.Info("published flights", "created", result.Created, "updated", result.Updated, "errors", result.Errors, "dry_run", opts.DryRun)
	return result, nil
}
