// Package storage persists the aircraft and its flights.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Tiliavir/flightlog/internal/model"
)

// ErrNotFound is returned when an aircraft or flight does not exist.
var ErrNotFound = errors.New("not found")

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Repository defines the storage interface for the logbook.
type Repository interface {
	// GetAircraft returns the logged aircraft, or ErrNotFound before setup.
	GetAircraft(ctx context.Context) (*model.Aircraft, error)

	// SaveAircraft creates the aircraft or replaces the existing one.
	SaveAircraft(ctx context.Context, a *model.Aircraft) error

	// ListFlights returns all flights ordered by date, insertion order within a date.
	ListFlights(ctx context.Context) ([]model.Flight, error)

	// GetFlight retrieves a flight by ID.
	GetFlight(ctx context.Context, id string) (*model.Flight, error)

	// CreateFlights stores a batch in order. Either every flight is stored or none is.
	CreateFlights(ctx context.Context, flights []model.Flight) error

	// UpdateFlight replaces a stored flight.
	UpdateFlight(ctx context.Context, f model.Flight) error

	// DeleteFlights removes the given flights. If any ID is unknown nothing is deleted.
	DeleteFlights(ctx context.Context, ids ...string) error

	// Close releases any resources held by the repository.
	Close() error
}

// Open returns the repository for backend, storing its data at path.
func Open(backend, path string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("storage error creating directories: %w", err)
	}
	switch backend {
	case BackendJSON:
		return NewJSONStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// FileName returns the default data file name for backend.
func FileName(backend string) string {
	if backend == BackendSQLite {
		return "flightlog.db"
	}
	return "logbook.json"
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}
