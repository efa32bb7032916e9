package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/flightlog/internal/msgraph"
)

var (
	outlookSyncMonth  string
	outlookSyncDryRun bool
	outlookSyncTZ     string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Publish logged flights as all-day Outlook calendar events",
	Long: `Publish flights to the signed-in user's Outlook calendar. Flights without
an event get a new one; flights published before have their event updated.
Sign-in uses the Microsoft device code flow; the token is kept under
~/.flightlog/auth/.`,
	Args: cobra.NoArgs,
	RunE: runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncMonth, "month", "", "Only flights of this month (YYYY-MM)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned operations without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for the events (default from config)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
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
	if outlookSyncMonth != "" {
		month, err := parseMonth(outlookSyncMonth)
		if err != nil {
			return err
		}
		flights = flightsInMonth(flights, month)
	}
	if len(flights) == 0 {
		fmt.Fprintln(out, "No flights to publish.")
		return nil
	}

	timezone := cfg.Outlook.Timezone
	if outlookSyncTZ != "" {
		timezone = outlookSyncTZ
	}

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Fprintf(out, "Publishing %d flight(s) of %s to Outlook%s...\n\n", len(flights), a.Registration, dryTag)

	var writer msgraph.EventWriter
	if !outlookSyncDryRun {
		store := msgraph.NewTokenStore(cfg.Dir)
		tok, oauthCfg, err := msgraph.Authenticate(ctx, cfg.Outlook.TenantID, cfg.Outlook.ClientID, store, out)
		if err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
		writer = msgraph.NewClient(ctx, tok, oauthCfg, store)
	}

	result, err := msgraph.PublishFlights(ctx, writer, repo, flights, msgraph.PublishOptions{
		Registration: a.Registration,
		Timezone:     timezone,
		Category:     cfg.Outlook.Category,
		DryRun:       outlookSyncDryRun,
		Out:          out,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  %d created\n", result.Created)
	fmt.Fprintf(out, "  %d updated\n", result.Updated)
	if result.Errors > 0 {
		fmt.Fprintf(out, "  %d errors\n", result.Errors)
		return fmt.Errorf("%d flight(s) could not be published", result.Errors)
	}
	return nil
}
