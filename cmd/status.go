package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/flightlog/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show aircraft totals",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	now := time.Now()
	out := cmd.OutOrStdout()

	sum, err := svc.Summary(cmd.Context(), now)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Aircraft: %s\n", colorHeader.Sprint(sum.Registration))
	fmt.Fprintf(out, "  Base hours:    %s\n", sum.BaseHours)
	fmt.Fprintf(out, "  Total hours:   %s\n", colorHours.Sprint(sum.TotalHours))
	fmt.Fprintf(out, "  Flights:       %d\n", sum.FlightCount)
	fmt.Fprintf(out, "  This month:    %s (%s)\n", timecalc.FormatHours(sum.MonthlyTotal), timecalc.MonthLabel(now))
	fmt.Fprintf(out, "  Next start:    %s\n", colorHours.Sprint(sum.NextStart))
	return nil
}
