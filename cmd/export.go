package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/flightlog/internal/chain"
	"github.com/Tiliavir/flightlog/internal/model"
	"github.com/Tiliavir/flightlog/internal/timecalc"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole logbook to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	a, err := svc.Aircraft(ctx)
	if err != nil {
		return err
	}
	flights, err := svc.Flights(ctx)
	if err != nil {
		return err
	}

	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(model.Logbook{Aircraft: a, Flights: flights}, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "csv":
		printCSV(out, flights)
	default:
		return fmt.Errorf("unknown format %q (want csv or json)", exportFormat)
	}
	return nil
}

func printCSV(w io.Writer, flights []model.Flight) {
	fmt.Fprintln(w, "id,date,pilot,start,end,total_time,duration_minutes,comments")
	for _, f := range flights {
		total, minutes := "", ""
		if m, err := chain.Duration(f.StartTime, f.EndTime); err == nil {
			total = timecalc.EncodeFromMinutes(m).String()
			minutes = fmt.Sprint(m)
		}
		fmt.Fprintf(w, "%s,%s,%s,%s,%s,%s,%s,%s\n",
			f.ID,
			f.Date.Format(timecalc.DateLayout),
			csvEscape(f.PilotName),
			f.StartTime,
			f.EndTime,
			total,
			minutes,
			csvEscape(f.Comments),
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
