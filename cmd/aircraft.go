package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/flightlog/internal/timecalc"
)

var (
	aircraftRegistration string
	aircraftBase         string
)

var aircraftCmd = &cobra.Command{
	Use:   "aircraft",
	Short: "Show or change the aircraft",
	Args:  cobra.NoArgs,
	RunE:  runAircraft,
}

func init() {
	aircraftCmd.Flags().StringVar(&aircraftRegistration, "registration", "", "New registration")
	aircraftCmd.Flags().StringVar(&aircraftBase, "base", "", "New base hours in hours.minutes")
}

func runAircraft(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	a, err := svc.Aircraft(ctx)
	if err != nil {
		return err
	}

	if aircraftRegistration == "" && aircraftBase == "" {
		fmt.Fprintf(out, "Registration: %s\n", colorHeader.Sprint(a.Registration))
		fmt.Fprintf(out, "Base hours:   %s\n", colorHours.Sprint(a.BaseHours))
		return nil
	}

	registration := a.Registration
	if aircraftRegistration != "" {
		registration = aircraftRegistration
	}
	base := a.BaseHours
	if aircraftBase != "" {
		base, err = timecalc.Parse(aircraftBase)
		if err != nil {
			return fmt.Errorf("base hours: %w", err)
		}
	}

	updated, err := svc.SetupAircraft(ctx, registration, base)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Aircraft %s, base hours %s\n",
		colorOK.Sprint("✓"), colorHeader.Sprint(updated.Registration), colorHours.Sprint(updated.BaseHours))
	if updated.BaseHours != a.BaseHours {
		fmt.Fprintln(out, colorWarn.Sprint(`Base hours changed; run "flightlog check" to review the chain.`))
	}
	return nil
}
