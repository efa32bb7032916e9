package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/flightlog/internal/model"
	"github.com/Tiliavir/flightlog/internal/timecalc"
)

func sampleReport(t *testing.T) monthReport {
	t.Helper()
	a := &model.Aircraft{Registration: "D-EABC", BaseHours: timecalc.MustParse("100.00")}
	flights := append(sampleFlights(), model.Flight{
		ID:        "cccccccc-3333",
		Date:      time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		PilotName: "Robin",
		StartTime: timecalc.MustParse("101.45"),
		EndTime:   timecalc.MustParse("103.00"),
	})
	r, err := buildReport(a, flights, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("buildReport: %v", err)
	}
	return r
}

func TestBuildReport(t *testing.T) {
	r := sampleReport(t)

	if r.Month != "2026-10" {
		t.Errorf("Month = %q", r.Month)
	}
	if len(r.Flights) != 1 || r.Flights[0].Pilot != "Kim" {
		t.Fatalf("Flights = %+v", r.Flights)
	}
	if r.MonthTotal != timecalc.MustParse("0.45") || r.MonthMinutes != 45 {
		t.Errorf("MonthTotal = %s (%d min)", r.MonthTotal, r.MonthMinutes)
	}
	// Meter total at the end of October ignores the November flight.
	if r.TotalHours != timecalc.MustParse("101.45") {
		t.Errorf("TotalHours = %s, want 101.45", r.TotalHours)
	}
}

func TestRenderReport_Markdown(t *testing.T) {
	var buf bytes.Buffer
	if err := renderReport(&buf, sampleReport(t), "md"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"# D-EABC 2026-10",
		"| 2026-10-02 | Kim | 101.00 | 101.45 | 0.45 | Pattern work, three landings |",
		"Month total: 0.45 hours (45m)",
		"Total hours: 101.45",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestRenderReport_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := renderReport(&buf, sampleReport(t), "csv"); err != nil {
		t.Fatal(err)
	}
	want := "date,pilot,start,end,total_time,minutes,comments\n" +
		"2026-10-02,Kim,101.00,101.45,0.45,45,\"Pattern work,\nthree landings\"\n"
	if buf.String() != want {
		t.Errorf("csv =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestRenderReport_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderReport(&buf, sampleReport(t), "json"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"month_total": 0.45`) {
		t.Errorf("expected bare hours.minutes number in JSON:\n%s", buf.String())
	}

	var decoded monthReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report JSON does not decode: %v", err)
	}
	if decoded.TotalHours != timecalc.MustParse("101.45") {
		t.Errorf("decoded TotalHours = %s", decoded.TotalHours)
	}
}

func TestRenderReport_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := renderReport(&buf, sampleReport(t), "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
