package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/flightlog/internal/chain"
	"github.com/Tiliavir/flightlog/internal/model"
	"github.com/Tiliavir/flightlog/internal/timecalc"
)

var (
	listMonth string
	listLast  int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List logged flights",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVar(&listMonth, "month", "", "Only flights of this month (YYYY-MM)")
	listCmd.Flags().IntVarP(&listLast, "last", "n", 0, "Only the last N flights")
}

func runList(cmd *cobra.Command, args []string) error {
	flights, err := svc.Flights(cmd.Context())
	if err != nil {
		return err
	}

	if listMonth != "" {
		month, err := parseMonth(listMonth)
		if err != nil {
			return err
		}
		flights = flightsInMonth(flights, month)
	}
	if listLast > 0 && len(flights) > listLast {
		flights = flights[len(flights)-listLast:]
	}

	printFlights(cmd.OutOrStdout(), flights, termWidth())
	return nil
}

// parseMonth parses a YYYY-MM month.
func parseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return t, nil
}

func flightsInMonth(flights []model.Flight, month time.Time) []model.Flight {
	var out []model.Flight
	for _, f := range flights {
		if timecalc.SameMonth(f.Date, month) {
			out = append(out, f)
		}
	}
	return out
}

// printFlights renders flights as a table followed by their total time.
func printFlights(w io.Writer, flights []model.Flight, width int) {
	if len(flights) == 0 {
		fmt.Fprintln(w, "No flights found.")
		return
	}

	fmt.Fprintln(w, renderFlightTable(flights, width))

	var totals []timecalc.HoursMinutes
	for _, f := range flights {
		if tt, err := chain.TotalTime(f); err == nil {
			totals = append(totals, tt)
		}
	}
	total, _ := timecalc.Sum(totals...)
	fmt.Fprintf(w, "%d flight(s), %s\n", len(flights), colorHours.Sprint(timecalc.FormatHours(total)))
}

func renderFlightTable(flights []model.Flight, width int) string {
	// Fixed columns take roughly 70 cells; comments get the rest.
	commentWidth := width - 70
	if commentWidth < 10 {
		commentWidth = 10
	}

	rows := make([][]string, 0, len(flights))
	for _, f := range flights {
		total := "invalid"
		if tt, err := chain.TotalTime(f); err == nil {
			total = tt.String()
		}
		rows = append(rows, []string{
			shortID(f.ID),
			f.Date.Format(timecalc.DateLayout),
			f.PilotName,
			f.StartTime.String(),
			f.EndTime.String(),
			total,
			truncate(strings.Join(strings.Fields(f.Comments), " "), commentWidth),
		})
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	numberStyle := cellStyle.Align(lipgloss.Right)
	mutedStyle := cellStyle.Faint(true)

	t := table.New().
		Headers("ID", "Date", "Pilot", "Start", "End", "Time", "Comments").
		Border(lipgloss.RoundedBorder()).
		BorderHeader(true).
		BorderColumn(true).
		BorderRow(false).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return mutedStyle
			case col >= 3 && col <= 5:
				return numberStyle
			default:
				return cellStyle
			}
		})
	return t.Render()
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
