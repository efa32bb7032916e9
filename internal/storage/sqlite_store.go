package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Tiliavir/flightlog/internal/model"
	"github.com/Tiliavir/flightlog/internal/timecalc"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path and runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// GetAircraft implements Repository.
func (s *SQLiteStore) GetAircraft(ctx context.Context) (*model.Aircraft, error) {
	query := `SELECT id, registration, base_hours, updated_at FROM aircraft ORDER BY id ASC LIMIT 1`

	var (
		a         model.Aircraft
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx, query).Scan(&a.ID, &a.Registration, &a.BaseHours, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("aircraft", "")
	}
	if err != nil {
		return nil, fmt.Errorf("querying aircraft: %w", err)
	}
	if updatedAt != "" {
		a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	}
	return &a, nil
}

// SaveAircraft implements Repository.
func (s *SQLiteStore) SaveAircraft(ctx context.Context, a *model.Aircraft) error {
	existing, err := s.GetAircraft(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	updatedAt := a.UpdatedAt.Format(time.RFC3339)
	if existing != nil {
		_, err := s.db.ExecContext(ctx,
			`UPDATE aircraft SET registration = ?, base_hours = ?, updated_at = ? WHERE id = ?`,
			a.Registration, a.BaseHours, updatedAt, existing.ID)
		if err != nil {
			return fmt.Errorf("updating aircraft: %w", err)
		}
		a.ID = existing.ID
		return nil
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO aircraft (registration, base_hours, updated_at) VALUES (?, ?, ?)`,
		a.Registration, a.BaseHours, updatedAt)
	if err != nil {
		return fmt.Errorf("inserting aircraft: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	a.ID = id
	return nil
}

const flightColumns = `id, date, pilot_name, start_time, end_time, comments, calendar_event_id, created_at`

// ListFlights implements Repository.
func (s *SQLiteStore) ListFlights(ctx context.Context) ([]model.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights ORDER BY date ASC, seq ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying flights: %w", err)
	}
	defer func() { _ = rows.Close() }()

	flights := []model.Flight{}
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating flights: %w", err)
	}
	return flights, nil
}

// GetFlight implements Repository.
func (s *SQLiteStore) GetFlight(ctx context.Context, id string) (*model.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE id = ?`

	f, err := scanFlight(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("flight", id)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFlight(row scanner) (*model.Flight, error) {
	var (
		f         model.Flight
		date      string
		createdAt string
	)
	err := row.Scan(&f.ID, &date, &f.PilotName, &f.StartTime, &f.EndTime, &f.Comments, &f.CalendarEventID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning flight: %w", err)
	}

	f.Date, err = timecalc.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("parsing flight date: %w", err)
	}
	f.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	return &f, nil
}

// CreateFlights implements Repository. The batch is inserted in one transaction.
func (s *SQLiteStore) CreateFlights(ctx context.Context, flights []model.Flight) error {
	if len(flights) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO flights (`+flightColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, f := range flights {
		if _, err := stmt.ExecContext(ctx,
			f.ID,
			f.Date.Format(timecalc.DateLayout),
			f.PilotName,
			f.StartTime,
			f.EndTime,
			f.Comments,
			f.CalendarEventID,
			f.CreatedAt.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("inserting flight: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// UpdateFlight implements Repository.
func (s *SQLiteStore) UpdateFlight(ctx context.Context, f model.Flight) error {
	query := `
		UPDATE flights
		SET date = ?, pilot_name = ?, start_time = ?, end_time = ?, comments = ?, calendar_event_id = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		f.Date.Format(timecalc.DateLayout),
		f.PilotName,
		f.StartTime,
		f.EndTime,
		f.Comments,
		f.CalendarEventID,
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("updating flight: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound("flight", f.ID)
	}
	return nil
}

// DeleteFlights implements Repository.
func (s *SQLiteStore) DeleteFlights(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		result, err := tx.ExecContext(ctx, `DELETE FROM flights WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("deleting flight %s: %w", id, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return notFound("flight", id)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close implements Repository.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
