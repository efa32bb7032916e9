package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that every flight starts where the previous one ended",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	gaps, err := svc.Audit(ctx)
	if err != nil {
		return err
	}
	if len(gaps) == 0 {
		fmt.Fprintf(out, "%s Hour meter chain is continuous\n", colorOK.Sprint("✓"))
		return nil
	}

	flights, err := svc.Flights(ctx)
	if err != nil {
		return err
	}
	for _, g := range gaps {
		f := flights[g.Index]
		fmt.Fprintf(out, "%s %s %s starts at %s, expected %s\n",
			colorWarn.Sprint("!"),
			f.Date.Format("2006-01-02"),
			colorMuted.Sprint(shortID(g.FlightID)),
			colorHours.Sprint(g.Actual), g.Expected)
	}
	return fmt.Errorf("hour meter chain has %d gap(s)", len(gaps))
}
