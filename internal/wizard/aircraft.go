// Package wizard holds the interactive huh forms for aircraft setup and
// multi-flight entry.
package wizard

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/Tiliavir/flightlog/internal/timecalc"
)

// AircraftInput holds the raw text of the aircraft setup form.
type AircraftInput struct {
	Registration string
	BaseHours    string
}

// Parse validates the input and returns the registration and base hours.
func (in AircraftInput) Parse() (string, timecalc.HoursMinutes, error) {
	reg := strings.ToUpper(strings.TrimSpace(in.Registration))
	if reg == "" {
		return "", 0, errors.New("registration is required")
	}
	base, err := timecalc.Parse(in.BaseHours)
	if err != nil {
		return "", 0, err
	}
	return reg, base, nil
}

// NewAircraftForm builds the setup form bound to in.
func NewAircraftForm(in *AircraftInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Aircraft setup").
				Description("Meter readings use hours.minutes: 1234.30 is 1234 hours 30 minutes."),
			huh.NewInput().
				Title("Registration").
				Placeholder("D-EABC").
				Value(&in.Registration).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("registration is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Base hours").
				Description("Hour meter reading before the first logged flight").
				Value(&in.BaseHours).
				Validate(requiredReading),
		),
	)
}

// RunAircraft shows the setup form and returns the parsed result.
func RunAircraft(in *AircraftInput) (string, timecalc.HoursMinutes, error) {
	if err := NewAircraftForm(in).Run(); err != nil {
		return "", 0, err
	}
	return in.Parse()
}

// requiredReading validates a mandatory hours.minutes field.
func requiredReading(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("value is required")
	}
	return optionalReading(s)
}

// optionalReading validates an hours.minutes field that may be left blank.
func optionalReading(s string) error {
	if err := timecalc.ValidateInput(s); err != nil {
		return errors.New(timecalc.Message(err))
	}
	return nil
}
