package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Tiliavir/flightlog/internal/model"
)

// JSONStore keeps the whole logbook in one human-readable JSON file.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store backed by the file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the backing file.
func (s *JSONStore) Path() string { return s.path }

// load reads the logbook document. A missing file is an empty logbook.
func (s *JSONStore) load() (model.Logbook, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return model.Logbook{Flights: []model.Flight{}}, nil
	}
	if err != nil {
		return model.Logbook{}, fmt.Errorf("storage error reading %s: %w", s.path, err)
	}

	var lb model.Logbook
	if err := json.Unmarshal(data, &lb); err != nil {
		// Back up corrupt file and abort.
		backupPath := s.path + ".corrupt"
		_ = os.Rename(s.path, backupPath)
		return model.Logbook{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", s.path, backupPath, err)
	}
	if lb.Flights == nil {
		lb.Flights = []model.Flight{}
	}
	return lb, nil
}

// save atomically writes the logbook document.
func (s *JSONStore) save(lb model.Logbook) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(lb, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// GetAircraft implements Repository.
func (s *JSONStore) GetAircraft(ctx context.Context) (*model.Aircraft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lb, err := s.load()
	if err != nil {
		return nil, err
	}
	if lb.Aircraft == nil {
		return nil, notFound("aircraft", "")
	}
	a := *lb.Aircraft
	return &a, nil
}

// SaveAircraft implements Repository.
func (s *JSONStore) SaveAircraft(ctx context.Context, a *model.Aircraft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lb, err := s.load()
	if err != nil {
		return err
	}
	a.ID = 1
	saved := *a
	lb.Aircraft = &saved
	return s.save(lb)
}

// ListFlights implements Repository.
func (s *JSONStore) ListFlights(ctx context.Context) ([]model.Flight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lb, err := s.load()
	if err != nil {
		return nil, err
	}
	model.SortFlights(lb.Flights)
	return lb.Flights, nil
}

// GetFlight implements Repository.
func (s *JSONStore) GetFlight(ctx context.Context, id string) (*model.Flight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lb, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range lb.Flights {
		if lb.Flights[i].ID == id {
			f := lb.Flights[i]
			return &f, nil
		}
	}
	return nil, notFound("flight", id)
}

// CreateFlights implements Repository. The batch lands in a single write.
func (s *JSONStore) CreateFlights(ctx context.Context, flights []model.Flight) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(flights) == 0 {
		return nil
	}
	lb, err := s.load()
	if err != nil {
		return err
	}
	for _, f := range flights {
		for _, existing := range lb.Flights {
			if existing.ID == f.ID {
				return fmt.Errorf("flight %s already exists", f.ID)
			}
		}
	}
	lb.Flights = append(lb.Flights, flights...)
	return s.save(lb)
}

// UpdateFlight implements Repository.
func (s *JSONStore) UpdateFlight(ctx context.Context, f model.Flight) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lb, err := s.load()
	if err != nil {
		return err
	}
	for i := range lb.Flights {
		if lb.Flights[i].ID == f.ID {
			lb.Flights[i] = f
			return s.save(lb)
		}
	}
	return notFound("flight", f.ID)
}

// DeleteFlights implements Repository.
func (s *JSONStore) DeleteFlights(ctx context.Context, ids ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lb, err := s.load()
	if err != nil {
		return err
	}

	remove := make(map[string]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}
	kept := lb.Flights[:0:0]
	for _, f := range lb.Flights {
		if remove[f.ID] {
			delete(remove, f.ID)
			continue
		}
		kept = append(kept, f)
	}
	for _, id := range ids {
		if remove[id] {
			return notFound("flight", id)
		}
	}
	lb.Flights = kept
	return s.save(lb)
}

// Close implements Repository.
func (s *JSONStore) Close() error { return nil }
