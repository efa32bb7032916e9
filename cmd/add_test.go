package cmd

import (
	"errors"
	"testing"

	"github.com/Tiliavir/flightlog/internal/chain"
	"github.com/Tiliavir/flightlog/internal/timecalc"
)

func TestBuildRows(t *testing.T) {
	rows, err := buildRows("", []string{"1.00", "2.30"})
	if err != nil {
		t.Fatalf("buildRows: %v", err)
	}
	if len(rows) != 2 || rows[0].Start != nil {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[1].End != timecalc.MustParse("2.30") {
		t.Errorf("rows[1].End = %s", rows[1].End)
	}

	rows, err = buildRows("0.45", []string{"1.00"})
	if err != nil {
		t.Fatalf("buildRows: %v", err)
	}
	if rows[0].Start == nil || *rows[0].Start != timecalc.MustParse("0.45") {
		t.Errorf("explicit start not applied: %+v", rows[0])
	}
}

func TestBuildRows_Errors(t *testing.T) {
	if _, err := buildRows("", nil); !errors.Is(err, chain.ErrEmptyBatch) {
		t.Errorf("no ends: got %v", err)
	}

	_, err := buildRows("", []string{"1.00", "2.75"})
	var rowErr *chain.RowError
	if !errors.As(err, &rowErr) || rowErr.Row != 1 {
		t.Fatalf("expected RowError for row 1, got %v", err)
	}
	if !errors.Is(err, timecalc.ErrInvalidTimeFormat) {
		t.Errorf("expected ErrInvalidTimeFormat, got %v", err)
	}

	if _, err := buildRows("x", []string{"1.00"}); !errors.Is(err, timecalc.ErrInvalidTimeFormat) {
		t.Errorf("bad start: got %v", err)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID = %q", got)
	}
}
