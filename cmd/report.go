package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/flightlog/internal/chain"
	"github.com/Tiliavir/flightlog/internal/model"
	"github.com/Tiliavir/flightlog/internal/timecalc"
)

var (
	reportMonth  string
	reportFormat string
	reportCopy   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the monthly flight report",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportMonth, "month", "", "Report month (YYYY-MM, default this month)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
	reportCmd.Flags().BoolVar(&reportCopy, "copy", false, "Also copy the report to the clipboard")
}

// reportFlight is one flight line of a report.
type reportFlight struct {
	ID       string                `json:"id"`
	Date     string                `json:"date"`
	Pilot    string                `json:"pilot"`
	Start    timecalc.HoursMinutes `json:"start_time"`
	End      timecalc.HoursMinutes `json:"end_time"`
	Time     timecalc.HoursMinutes `json:"total_time"`
	Minutes  int                   `json:"minutes"`
	Comments string                `json:"comments"`
}

// monthReport aggregates one calendar month of flights.
type monthReport struct {
	Month        string                `json:"month"`
	Registration string                `json:"registration"`
	Flights      []reportFlight        `json:"flights"`
	MonthTotal   timecalc.HoursMinutes `json:"month_total"`
	MonthMinutes int                   `json:"month_minutes"`
	// TotalHours is the meter total at the end of the month.
	TotalHours timecalc.HoursMinutes `json:"total_hours"`
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	month := time.Now()
	if reportMonth != "" {
		var err error
		if month, err = parseMonth(reportMonth); err != nil {
			return err
		}
	}

	a, err := svc.Aircraft(ctx)
	if err != nil {
		return err
	}
	flights, err := svc.Flights(ctx)
	if err != nil {
		return err
	}

	r, err := buildReport(a, flights, month)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := renderReport(&buf, r, reportFormat); err != nil {
		return err
	}
	text := buf.String()
	if _, err := io.WriteString(cmd.OutOrStdout(), text); err != nil {
		return err
	}

	if reportCopy {
		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), colorOK.Sprint("✓ Report copied to clipboard"))
	}
	return nil
}

func buildReport(a *model.Aircraft, flights []model.Flight, month time.Time) (monthReport, error) {
	r := monthReport{
		Month:        timecalc.MonthLabel(month),
		Registration: a.Registration,
		Flights:      []reportFlight{},
	}

	_, monthEnd := timecalc.MonthRange(timecalc.DateOf(month))
	var upToMonth []model.Flight
	for _, f := range flights {
		if f.Date.After(monthEnd) {
			continue
		}
		upToMonth = append(upToMonth, f)
		if !timecalc.SameMonth(f.Date, month) {
			continue
		}
		m, err := chain.Duration(f.StartTime, f.EndTime)
		if err != nil {
			return monthReport{}, fmt.Errorf("flight %s: %w", shortID(f.ID), err)
		}
		r.Flights = append(r.Flights, reportFlight{
			ID:       f.ID,
			Date:     f.Date.Format(timecalc.DateLayout),
			Pilot:    f.PilotName,
			Start:    f.StartTime,
			End:      f.EndTime,
			Time:     timecalc.EncodeFromMinutes(m),
			Minutes:  m,
			Comments: f.Comments,
		})
	}

	var err error
	if r.MonthTotal, err = chain.MonthlyTotal(flights, month); err != nil {
		return monthReport{}, err
	}
	if r.MonthMinutes, err = timecalc.DecodeToMinutes(r.MonthTotal); err != nil {
		return monthReport{}, err
	}
	if r.TotalHours, err = chain.TotalHoursWithBase(upToMonth, a.BaseHours); err != nil {
		return monthReport{}, err
	}
	return r, nil
}

func renderReport(w io.Writer, r monthReport, format string) error {
	switch format {
	case "csv":
		fmt.Fprintln(w, "date,pilot,start,end,total_time,minutes,comments")
		for _, f := range r.Flights {
			fmt.Fprintf(w, "%s,%s,%s,%s,%s,%d,%s\n",
				f.Date, csvEscape(f.Pilot), f.Start, f.End, f.Time, f.Minutes, csvEscape(f.Comments))
		}
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "md":
		fmt.Fprintf(w, "# %s %s\n\n", r.Registration, r.Month)
		if len(r.Flights) == 0 {
			fmt.Fprintln(w, "No flights this month.")
		} else {
			fmt.Fprintln(w, "| Date | Pilot | Start | End | Time | Comments |")
			fmt.Fprintln(w, "|------|-------|------:|----:|-----:|----------|")
			for _, f := range r.Flights {
				fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
					f.Date, mdEscape(f.Pilot), f.Start, f.End, f.Time, mdEscape(f.Comments))
			}
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Month total: %s (%s)\n", timecalc.FormatHours(r.MonthTotal), timecalc.FormatDuration(r.MonthMinutes))
		fmt.Fprintf(w, "Total hours: %s\n", r.TotalHours)
	default:
		return fmt.Errorf("unknown format %q (want md, csv or json)", format)
	}
	return nil
}

// mdEscape keeps a value inside a single markdown table cell.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
