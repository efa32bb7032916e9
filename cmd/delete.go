package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"rm"},
	Short:   "Delete one or more flights",
	Long: `Delete flights by ID or ID prefix. The remaining flights keep their
readings, so deleting anything but the last flight leaves a gap that
"flightlog check" reports.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	ids, err := resolveIDs(ctx, args)
	if err != nil {
		return err
	}

	if !deleteYes {
		if !interactive() {
			return fmt.Errorf("refusing to delete %d flight(s) without --yes", len(ids))
		}
		confirmed := false
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Delete %d flight(s)?", len(ids))).
					Description("This cannot be undone.").
					Value(&confirmed),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive form error: %w", err)
		}
		if !confirmed {
			fmt.Fprintln(out, "Nothing deleted.")
			return nil
		}
	}

	if err := svc.DeleteFlights(ctx, ids...); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Deleted %d flight(s)\n", colorOK.Sprint("✓"), len(ids))

	gaps, err := svc.Audit(ctx)
	if err == nil && len(gaps) > 0 {
		fmt.Fprintln(out, colorWarn.Sprintf(`The chain now has %d gap(s); run "flightlog check" for details.`, len(gaps)))
	}
	return nil
}
