package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/flightlog/internal/logbook"
	"github.com/Tiliavir/flightlog/internal/model"
	"github.com/Tiliavir/flightlog/internal/storage"
	"github.com/Tiliavir/flightlog/internal/timecalc"
)

var (
	editDate    string
	editPilot   string
	editStart   string
	editEnd     string
	editComment string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a logged flight",
	Long: `Change the date, pilot, readings or comment of a flight. Unset flags keep
their current value. Later flights are not moved; run "flightlog check"
afterwards to find any break in the chain.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editDate, "date", "", "Flight date (YYYY-MM-DD)")
	editCmd.Flags().StringVar(&editPilot, "pilot", "", "Pilot name")
	editCmd.Flags().StringVar(&editStart, "start", "", "Start reading in hours.minutes")
	editCmd.Flags().StringVar(&editEnd, "end", "", "End reading in hours.minutes")
	editCmd.Flags().StringVar(&editComment, "comment", "", "Comment")
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ids, err := resolveIDs(ctx, args)
	if err != nil {
		return err
	}
	f, err := svc.Flight(ctx, ids[0])
	if err != nil {
		return err
	}

	e := logbook.EditFrom(*f)
	flags := cmd.Flags()
	if flags.Changed("date") {
		if e.Date, err = timecalc.ParseDate(editDate); err != nil {
			return err
		}
	}
	if flags.Changed("pilot") {
		e.PilotName = editPilot
	}
	if flags.Changed("start") {
		if e.StartTime, err = timecalc.Parse(editStart); err != nil {
			return fmt.Errorf("start time: %w", err)
		}
	}
	if flags.Changed("end") {
		if e.EndTime, err = timecalc.Parse(editEnd); err != nil {
			return fmt.Errorf("end time: %w", err)
		}
	}
	if flags.Changed("comment") {
		e.Comments = editComment
	}

	updated, err := svc.EditFlight(ctx, f.ID, e)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Updated %s  %s → %s  %s\n",
		colorOK.Sprint("✓"),
		updated.Date.Format(timecalc.DateLayout),
		updated.StartTime, colorHours.Sprint(updated.EndTime),
		colorMuted.Sprint(shortID(updated.ID)))
	return nil
}

// resolveIDs expands each argument, a full flight ID or a unique prefix of
// one, to the full ID.
func resolveIDs(ctx context.Context, args []string) ([]string, error) {
	flights, err := svc.Flights(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(args))
	for _, arg := range args {
		id, err := matchID(flights, arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func matchID(flights []model.Flight, prefix string) (string, error) {
	var matches []string
	for _, f := range flights {
		if f.ID == prefix {
			return f.ID, nil
		}
		if strings.HasPrefix(f.ID, prefix) {
			matches = append(matches, f.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("flight %s: %w", prefix, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("flight ID %q is ambiguous (%d matches)", prefix, len(matches))
	}
}
