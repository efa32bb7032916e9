package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/flightlog/internal/logbook"
	"github.com/Tiliavir/flightlog/internal/timecalc"
	"github.com/Tiliavir/flightlog/internal/wizard"
)

var (
	initRegistration string
	initBase         string
	initForce        bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up the aircraft and its base hours",
	Long: `Set up the logged aircraft. Without flags an interactive form asks for
the registration and the hour meter reading before the first logged flight.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initRegistration, "registration", "", "Aircraft registration, e.g. D-EABC")
	initCmd.Flags().StringVar(&initBase, "base", "", "Base hours in hours.minutes, e.g. 1234.30")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Replace an existing aircraft")
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	existing, err := svc.Aircraft(ctx)
	switch {
	case err == nil && !initForce:
		return fmt.Errorf("aircraft %s is already set up; use \"flightlog aircraft\" to change it or --force to replace it", existing.Registration)
	case err != nil && !errors.Is(err, logbook.ErrNoAircraft):
		return err
	}

	var (
		registration string
		base         timecalc.HoursMinutes
	)
	if initRegistration == "" && initBase == "" {
		if !interactive() {
			return errors.New("--registration and --base are required when not running in a terminal")
		}
		registration, base, err = wizard.RunAircraft(&wizard.AircraftInput{})
	} else {
		registration, base, err = wizard.AircraftInput{Registration: initRegistration, BaseHours: initBase}.Parse()
	}
	if err != nil {
		return err
	}

	a, err := svc.SetupAircraft(ctx, registration, base)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Aircraft %s set up with base hours %s\n",
		colorOK.Sprint("✓"), colorHeader.Sprint(a.Registration), colorHours.Sprint(a.BaseHours))
	return nil
}
