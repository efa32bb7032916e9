package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/flightlog/internal/model"
	"github.com/Tiliavir/flightlog/internal/storage"
	"github.com/Tiliavir/flightlog/internal/timecalc"
)

var backends = []string{storage.BackendJSON, storage.BackendSQLite}

func newTestRepo(t *testing.T, backend string) storage.Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", storage.FileName(backend))
	repo, err := storage.Open(backend, path)
	if err != nil {
		t.Fatalf("Open(%s): %v", backend, err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func makeFlight(id, date, start, end string) model.Flight {
	d, err := timecalc.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return model.Flight{
		ID:        id,
		Date:      d,
		PilotName: "Sam",
		StartTime: timecalc.MustParse(start),
		EndTime:   timecalc.MustParse(end),
		Comments:  "local",
		CreatedAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, repo storage.Repository)) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			fn(t, newTestRepo(t, backend))
		})
	}
}

func TestAircraft(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo storage.Repository) {
		ctx := context.Background()

		if _, err := repo.GetAircraft(ctx); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("GetAircraft on empty store: err = %v, want ErrNotFound", err)
		}

		a := &model.Aircraft{Registration: "D-EABC", BaseHours: timecalc.New(1234, 30), UpdatedAt: time.Now().UTC()}
		if err := repo.SaveAircraft(ctx, a); err != nil {
			t.Fatalf("SaveAircraft: %v", err)
		}
		if a.ID == 0 {
			t.Error("expected ID to be set after save")
		}

		a.BaseHours = timecalc.New(1240, 0)
		if err := repo.SaveAircraft(ctx, a); err != nil {
			t.Fatalf("SaveAircraft (update): %v", err)
		}

		got, err := repo.GetAircraft(ctx)
		if err != nil {
			t.Fatalf("GetAircraft: %v", err)
		}
		if got.Registration != "D-EABC" || got.BaseHours != timecalc.New(1240, 0) {
			t.Errorf("GetAircraft = %+v", got)
		}
		if got.ID != a.ID {
			t.Errorf("ID changed on update: %d -> %d", a.ID, got.ID)
		}
	})
}

func TestCreateAndListFlights(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo storage.Repository) {
		ctx := context.Background()

		first := []model.Flight{
			makeFlight("b", "2026-10-02", "11.00", "12.00"),
			makeFlight("c", "2026-10-02", "12.00", "12.45"),
		}
		if err := repo.CreateFlights(ctx, first); err != nil {
			t.Fatalf("CreateFlights: %v", err)
		}
		if err := repo.CreateFlights(ctx, []model.Flight{makeFlight("a", "2026-10-01", "10.00", "11.00")}); err != nil {
			t.Fatalf("CreateFlights: %v", err)
		}

		flights, err := repo.ListFlights(ctx)
		if err != nil {
			t.Fatalf("ListFlights: %v", err)
		}
		want := []string{"a", "b", "c"}
		if len(flights) != len(want) {
			t.Fatalf("ListFlights len = %d, want %d", len(flights), len(want))
		}
		for i, f := range flights {
			if f.ID != want[i] {
				t.Errorf("flights[%d] = %q, want %q", i, f.ID, want[i])
			}
		}

		c := flights[2]
		if c.StartTime.String() != "12.00" || c.EndTime.String() != "12.45" {
			t.Errorf("flight c times = %s-%s", c.StartTime, c.EndTime)
		}
		if c.PilotName != "Sam" || c.Comments != "local" {
			t.Errorf("flight c fields = %+v", c)
		}
		if !c.Date.Equal(time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("flight c date = %v", c.Date)
		}
	})
}

func TestCreateFlightsAllOrNothing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo storage.Repository) {
		ctx := context.Background()

		if err := repo.CreateFlights(ctx, []model.Flight{makeFlight("a", "2026-10-01", "10.00", "11.00")}); err != nil {
			t.Fatalf("CreateFlights: %v", err)
		}

		// The duplicate ID in the second position must abort the whole batch.
		batch := []model.Flight{
			makeFlight("x", "2026-10-02", "11.00", "12.00"),
			makeFlight("a", "2026-10-02", "12.00", "13.00"),
		}
		if err := repo.CreateFlights(ctx, batch); err == nil {
			t.Fatal("expected error for duplicate ID")
		}

		flights, err := repo.ListFlights(ctx)
		if err != nil {
			t.Fatalf("ListFlights: %v", err)
		}
		if len(flights) != 1 {
			t.Errorf("flights = %d, want 1 (batch must not be partially stored)", len(flights))
		}
	})
}

func TestGetAndUpdateFlight(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo storage.Repository) {
		ctx := context.Background()

		if err := repo.CreateFlights(ctx, []model.Flight{makeFlight("a", "2026-10-01", "10.00", "11.00")}); err != nil {
			t.Fatalf("CreateFlights: %v", err)
		}

		f, err := repo.GetFlight(ctx, "a")
		if err != nil {
			t.Fatalf("GetFlight: %v", err)
		}
		f.EndTime = timecalc.New(11, 20)
		f.CalendarEventID = "evt-1"
		if err := repo.UpdateFlight(ctx, *f); err != nil {
			t.Fatalf("UpdateFlight: %v", err)
		}

		got, err := repo.GetFlight(ctx, "a")
		if err != nil {
			t.Fatalf("GetFlight after update: %v", err)
		}
		if got.EndTime.String() != "11.20" || got.CalendarEventID != "evt-1" {
			t.Errorf("updated flight = %+v", got)
		}

		if _, err := repo.GetFlight(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetFlight(missing) err = %v, want ErrNotFound", err)
		}
		missing := makeFlight("missing", "2026-10-01", "1.00", "2.00")
		if err := repo.UpdateFlight(ctx, missing); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("UpdateFlight(missing) err = %v, want ErrNotFound", err)
		}
	})
}

func TestDeleteFlights(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo storage.Repository) {
		ctx := context.Background()

		batch := []model.Flight{
			makeFlight("a", "2026-10-01", "10.00", "11.00"),
			makeFlight("b", "2026-10-02", "11.00", "12.00"),
			makeFlight("c", "2026-10-03", "12.00", "13.00"),
		}
		if err := repo.CreateFlights(ctx, batch); err != nil {
			t.Fatalf("CreateFlights: %v", err)
		}

		if err := repo.DeleteFlights(ctx, "a", "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("DeleteFlights with unknown id: err = %v, want ErrNotFound", err)
		}
		flights, _ := repo.ListFlights(ctx)
		if len(flights) != 3 {
			t.Fatalf("flights after failed delete = %d, want 3", len(flights))
		}

		if err := repo.DeleteFlights(ctx, "a", "c"); err != nil {
			t.Fatalf("DeleteFlights: %v", err)
		}
		flights, _ = repo.ListFlights(ctx)
		if len(flights) != 1 || flights[0].ID != "b" {
			t.Errorf("flights after delete = %+v, want only b", flights)
		}
	})
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := storage.Open("csv", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestJSONStoreCorruptFileBackedUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logbook.json")
	if err := os.WriteFile(path, []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}

	repo := storage.NewJSONStore(path)
	if _, err := repo.ListFlights(context.Background()); err == nil {
		t.Fatal("expected error for corrupt JSON, got nil")
	}

	if _, err := os.Stat(path + ".corrupt"); os.IsNotExist(err) {
		t.Error("expected backup file to exist after corrupt JSON")
	}
}

func TestJSONStoreWritesReadableDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logbook.json")
	repo := storage.NewJSONStore(path)
	if err := repo.CreateFlights(context.Background(), []model.Flight{makeFlight("a", "2026-10-01", "10.00", "11.30")}); err != nil {
		t.Fatalf("CreateFlights: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"start_time": 10.00`, `"end_time": 11.30`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("document missing %s:\n%s", want, data)
		}
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}
}
