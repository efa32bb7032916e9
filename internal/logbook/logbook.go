// Package logbook applies the hour-meter chain rules to the stored aircraft
// and flights.
package logbook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/flightlog/internal/chain"
	"github.com/Tiliavir/flightlog/internal/logger"
	"github.com/Tiliavir/flightlog/internal/model"
	"github.com/Tiliavir/flightlog/internal/storage"
	"github.com/Tiliavir/flightlog/internal/timecalc"
)

var (
	// ErrNoAircraft is returned when flights are logged before the aircraft is set up.
	ErrNoAircraft = errors.New(`aircraft not set up (run "flightlog init")`)
	// ErrRegistrationRequired is returned for a blank registration.
	ErrRegistrationRequired = errors.New("registration is required")
	// ErrPilotRequired is returned when a flight has no pilot name.
	ErrPilotRequired = errors.New("pilot name is required")
)

// Service reads a consistent snapshot of the aircraft and its flights, runs
// the chain rules over it and only then persists.
type Service struct {
	repo storage.Repository
	now  func() time.Time
}

// New returns a Service backed by repo.
func New(repo storage.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Aircraft returns the configured aircraft, or ErrNoAircraft before setup.
func (s *Service) Aircraft(ctx context.Context) (*model.Aircraft, error) {
	a, err := s.repo.GetAircraft(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoAircraft
	}
	if err != nil {
		return nil, err
	}
	if !a.SetupComplete() {
		return nil, ErrNoAircraft
	}
	return a, nil
}

// SetupAircraft creates or replaces the aircraft. The registration is stored
// upper-cased.
func (s *Service) SetupAircraft(ctx context.Context, registration string, baseHours timecalc.HoursMinutes) (*model.Aircraft, error) {
	registration = strings.ToUpper(strings.TrimSpace(registration))
	if registration == "" {
		return nil, ErrRegistrationRequired
	}
	if err := timecalc.Validate(&baseHours); err != nil {
		return nil, fmt.Errorf("base hours: %w", err)
	}

	a := &model.Aircraft{
		Registration: registration,
		BaseHours:    baseHours,
		UpdatedAt:    s.now().UTC(),
	}
	if err := s.repo.SaveAircraft(ctx, a); err != nil {
		return nil, fmt.Errorf("saving aircraft: %w", err)
	}
	logger.Info("aircraft saved", "registration", a.Registration, "base_hours", a.BaseHours)
	return a, nil
}

// NextStartTime returns the reading the next flight starts at.
func (s *Service) NextStartTime(ctx context.Context) (timecalc.HoursMinutes, error) {
	a, flights, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return chain.NextStartTime(a.BaseHours, flights), nil
}

// LogFlights chains rows onto the existing log and stores them as one batch.
// Once any flight exists the first row is pinned to the previous end, so an
// explicit start on row 0 only applies to the very first flight. Nothing is
// stored unless every row is valid.
func (s *Service) LogFlights(ctx context.Context, batch chain.Batch, rows []model.Row) ([]model.Flight, error) {
	batch.PilotName = strings.TrimSpace(batch.PilotName)
	if batch.PilotName == "" {
		return nil, ErrPilotRequired
	}

	a, existing, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if batch.Date.IsZero() {
		batch.Date = now
	}
	batch.Date = timecalc.DateOf(batch.Date)
	batch.LockFirst = len(existing) > 0

	initial := chain.NextStartTime(a.BaseHours, existing)
	flights, err := chain.ChainMultiple(batch, rows, initial)
	if err != nil {
		logger.Debug("batch rejected", "rows", len(rows), "err", err)
		return nil, err
	}

	for i := range flights {
		flights[i].ID = model.NewFlightID()
		flights[i].CreatedAt = now.UTC()
	}
	if err := s.repo.CreateFlights(ctx, flights); err != nil {
		return nil, fmt.Errorf("saving flights: %w", err)
	}
	logger.Info("flights logged", "count", len(flights), "from", flights[0].StartTime, "to", flights[len(flights)-1].EndTime)
	return flights, nil
}

// Edit replaces every user-editable field of a flight.
type Edit struct {
	Date      time.Time
	PilotName string
	StartTime timecalc.HoursMinutes
	EndTime   timecalc.HoursMinutes
	Comments  string
}

// EditFrom returns an Edit prefilled with f's current values.
func EditFrom(f model.Flight) Edit {
	return Edit{
		Date:      f.Date,
		PilotName: f.PilotName,
		StartTime: f.StartTime,
		EndTime:   f.EndTime,
		Comments:  f.Comments,
	}
}

// EditFlight validates and applies e to the flight with the given ID. Later
// flights are not relinked; Audit reports any gap the edit leaves.
func (s *Service) EditFlight(ctx context.Context, id string, e Edit) (*model.Flight, error) {
	e.PilotName = strings.TrimSpace(e.PilotName)
	if e.PilotName == "" {
		return nil, ErrPilotRequired
	}
	if _, err := chain.Duration(e.StartTime, e.EndTime); err != nil {
		return nil, err
	}

	f, err := s.repo.GetFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.Date.IsZero() {
		f.Date = timecalc.DateOf(e.Date)
	}
	f.PilotName = e.PilotName
	f.StartTime = e.StartTime
	f.EndTime = e.EndTime
	f.Comments = e.Comments

	if err := s.repo.UpdateFlight(ctx, *f); err != nil {
		return nil, fmt.Errorf("updating flight %s: %w", id, err)
	}
	logger.Info("flight edited", "id", id, "start", f.StartTime, "end", f.EndTime)
	return f, nil
}

// DeleteFlights removes the given flights. Remaining flights keep their
// readings, so deleting from the middle of the log leaves a gap.
func (s *Service) DeleteFlights(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.repo.DeleteFlights(ctx, ids...); err != nil {
		return err
	}
	logger.Info("flights deleted", "count", len(ids))
	return nil
}

// Flights returns every flight in log order.
func (s *Service) Flights(ctx context.Context) ([]model.Flight, error) {
	return s.repo.ListFlights(ctx)
}

// Flight returns a single flight.
func (s *Service) Flight(ctx context.Context, id string) (*model.Flight, error) {
	return s.repo.GetFlight(ctx, id)
}

// Summary is the aggregate view of the log.
type Summary struct {
	Registration string
	BaseHours    timecalc.HoursMinutes
	FlightCount  int
	MonthlyTotal timecalc.HoursMinutes
	// TotalHours is base hours plus all flight time, i.e. the current meter total.
	TotalHours timecalc.HoursMinutes
	NextStart  timecalc.HoursMinutes
}

// Summary computes the totals for now's calendar month and the whole log.
func (s *Service) Summary(ctx context.Context, now time.Time) (Summary, error) {
	a, flights, err := s.snapshot(ctx)
	if err != nil {
		return Summary{}, err
	}

	monthly, err := chain.MonthlyTotal(flights, now)
	if err != nil {
		return Summary{}, err
	}
	total, err := chain.TotalHoursWithBase(flights, a.BaseHours)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Registration: a.Registration,
		BaseHours:    a.BaseHours,
		FlightCount:  len(flights),
		MonthlyTotal: monthly,
		TotalHours:   total,
		NextStart:    chain.NextStartTime(a.BaseHours, flights),
	}, nil
}

// Audit lists every place where the log's hour-meter chain is broken.
func (s *Service) Audit(ctx context.Context) ([]chain.Gap, error) {
	a, flights, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return chain.Gaps(a.BaseHours, flights), nil
}

func (s *Service) snapshot(ctx context.Context) (*model.Aircraft, []model.Flight, error) {
	a, err := s.Aircraft(ctx)
	if err != nil {
		return nil, nil, err
	}
	flights, err := s.repo.ListFlights(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing flights: %w", err)
	}
	return a, flights, nil
}
