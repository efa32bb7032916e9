package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/flightlog/internal/chain"
	"github.com/Tiliavir/flightlog/internal/model"
	"github.com/Tiliavir/flightlog/internal/timecalc"
	"github.com/Tiliavir/flightlog/internal/wizard"
)

var (
	addEnds        []string
	addStart       string
	addDate        string
	addPilot       string
	addComment     string
	addInteractive bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Log one or more consecutive flights",
	Long: `Log flights by their hour meter end readings. Repeat --end for several
flights on the same day; each starts where the previous one ended.

  flightlog add --pilot Robin --end 1235.10 --end 1236.00

--start only applies to the very first flight of a new logbook; afterwards
the start is always the previous flight's end.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringArrayVar(&addEnds, "end", nil, "End reading in hours.minutes (repeatable)")
	addCmd.Flags().StringVar(&addStart, "start", "", "Start reading of the first flight")
	addCmd.Flags().StringVar(&addDate, "date", "", "Flight date (YYYY-MM-DD, default today)")
	addCmd.Flags().StringVar(&addPilot, "pilot", "", "Pilot name (default from config)")
	addCmd.Flags().StringVar(&addComment, "comment", "", "Comment shared by all flights")
	addCmd.Flags().BoolVarP(&addInteractive, "interactive", "i", false, "Enter flights in an interactive form")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pilot := addPilot
	if pilot == "" {
		pilot = cfg.Logbook.DefaultPilot
	}

	var (
		batch chain.Batch
		rows  []model.Row
		err   error
	)
	if addInteractive || len(addEnds) == 0 {
		if !interactive() {
			return errors.New("at least one --end is required when not running in a terminal")
		}
		initial, err := svc.NextStartTime(ctx)
		if err != nil {
			return err
		}
		flights, err := svc.Flights(ctx)
		if err != nil {
			return err
		}
		editor := wizard.NewBatchEditor(initial, len(flights) > 0)
		batch, rows, err = wizard.RunBatch(&wizard.BatchInput{Date: addDate, Pilot: pilot, Comments: addComment}, editor)
		if err != nil {
			return err
		}
	} else {
		rows, err = buildRows(addStart, addEnds)
		if err != nil {
			return err
		}
		batch = chain.Batch{PilotName: pilot, Comments: addComment}
		if addDate != "" {
			batch.Date, err = timecalc.ParseDate(addDate)
			if err != nil {
				return err
			}
		} else {
			batch.Date = time.Now()
		}
	}

	flights, err := svc.LogFlights(ctx, batch, rows)
	if err != nil {
		return err
	}
	printLogged(cmd.OutOrStdout(), flights)
	return nil
}

// buildRows parses the --start and --end flags into batch rows.
func buildRows(start string, ends []string) ([]model.Row, error) {
	if len(ends) == 0 {
		return nil, chain.ErrEmptyBatch
	}
	rows := make([]model.Row, len(ends))
	for i, e := range ends {
		end, err := timecalc.Parse(e)
		if err != nil {
			return nil, &chain.RowError{Row: i, Err: &chain.FieldError{Field: chain.FieldEnd, Err: err}}
		}
		rows[i].End = end
	}
	if strings.TrimSpace(start) != "" {
		s, err := timecalc.Parse(start)
		if err != nil {
			return nil, &chain.RowError{Row: 0, Err: &chain.FieldError{Field: chain.FieldStart, Err: err}}
		}
		rows[0].Start = &s
	}
	return rows, nil
}

func printLogged(w io.Writer, flights []model.Flight) {
	for _, f := range flights {
		dur := ""
		if m, err := chain.Duration(f.StartTime, f.EndTime); err == nil {
			dur = fmt.Sprintf(" (%s)", timecalc.FormatDuration(m))
		}
		fmt.Fprintf(w, "%s Logged %s  %s → %s%s  %s\n",
			colorOK.Sprint("✓"),
			f.Date.Format(timecalc.DateLayout),
			f.StartTime, colorHours.Sprint(f.EndTime), dur,
			colorMuted.Sprint(shortID(f.ID)))
	}
}

// shortID is the prefix of a flight ID shown in listings. Commands taking an
// ID accept it in place of the full ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
