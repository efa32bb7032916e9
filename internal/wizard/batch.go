package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/Tiliavir/flightlog/internal/chain"
	"github.com/Tiliavir/flightlog/internal/model"
	"github.com/Tiliavir/flightlog/internal/timecalc"
)

// ErrCancelled is returned when the user leaves the batch editor without saving.
var ErrCancelled = errors.New("cancelled")

// BatchEditor is the row state of a multi-flight entry. Rows stay linked as
// they are added and removed: each row starts where the previous one ended,
// and the first row starts at Initial.
type BatchEditor struct {
	Rows    []model.Row
	Initial timecalc.HoursMinutes
	// Locked pins the first row to Initial; set once any flight is logged.
	Locked bool
}

// NewBatchEditor returns an empty editor chained onto initial.
func NewBatchEditor(initial timecalc.HoursMinutes, locked bool) *BatchEditor {
	return &BatchEditor{Initial: initial, Locked: locked}
}

// Add appends a row ending at end.
func (b *BatchEditor) Add(end timecalc.HoursMinutes) {
	rows := chain.AppendRow(b.Rows)
	last := len(rows) - 1
	if last == 0 {
		start := b.Initial
		rows[0].Start = &start
	}
	rows[last].End = end
	b.Rows = rows
}

// Remove drops row i and relinks the rest. The last remaining row stays.
func (b *BatchEditor) Remove(i int) {
	b.Rows = chain.RemoveRowRecalculate(b.Rows, i, b.Initial)
	if b.Locked && len(b.Rows) > 0 {
		start := b.Initial
		b.Rows[0].Start = &start
	}
}

// SetFirstStart overrides the first row's start. It is ignored when locked.
func (b *BatchEditor) SetFirstStart(start timecalc.HoursMinutes) {
	if b.Locked || len(b.Rows) == 0 {
		return
	}
	b.Rows[0].Start = &start
}

// NextStart is where a newly added row would start.
func (b *BatchEditor) NextStart() timecalc.HoursMinutes {
	if len(b.Rows) == 0 {
		return b.Initial
	}
	return b.Rows[len(b.Rows)-1].End
}

// Preview chains the rows exactly as logging them would.
func (b *BatchEditor) Preview(batch chain.Batch) ([]model.Flight, error) {
	batch.LockFirst = b.Locked
	return chain.ChainMultiple(batch, b.Rows, b.Initial)
}

// Lines renders one line per row, e.g. "1. 10.00 -> 11.30 (1h 30m)".
func (b *BatchEditor) Lines() []string {
	lines := make([]string, 0, len(b.Rows))
	for i, r := range b.Rows {
		start := b.Initial
		if r.Start != nil {
			start = *r.Start
		}
		dur := "invalid"
		if m, err := chain.Duration(start, r.End); err == nil {
			dur = timecalc.FormatDuration(m)
		}
		lines = append(lines, fmt.Sprintf("%d. %s -> %s (%s)", i+1, start, r.End, dur))
	}
	return lines
}

// BatchInput holds the raw text of the fields shared by every row.
type BatchInput struct {
	Date     string
	Pilot    string
	Comments string
}

// Batch validates the shared fields.
func (in BatchInput) Batch() (chain.Batch, error) {
	pilot := strings.TrimSpace(in.Pilot)
	if pilot == "" {
		return chain.Batch{}, errors.New("pilot name is required")
	}
	date, err := timecalc.ParseDate(strings.TrimSpace(in.Date))
	if err != nil {
		return chain.Batch{}, err
	}
	return chain.Batch{Date: date, PilotName: pilot, Comments: strings.TrimSpace(in.Comments)}, nil
}

func newBatchHeaderForm(in *BatchInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Placeholder(timecalc.DateLayout).
				Value(&in.Date).
				Validate(func(s string) error {
					_, err := timecalc.ParseDate(strings.TrimSpace(s))
					return err
				}),
			huh.NewInput().
				Title("Pilot").
				Value(&in.Pilot).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("pilot name is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Comments").
				Value(&in.Comments),
		),
	)
}

const (
	actionAdd    = "add"
	actionRemove = "remove"
	actionStart  = "start"
	actionSave   = "save"
	actionCancel = "cancel"
)

// RunBatch drives the interactive batch editor. It returns the shared batch
// fields and the rows to log, or ErrCancelled.
func RunBatch(in *BatchInput, b *BatchEditor) (chain.Batch, []model.Row, error) {
	if in.Date == "" {
		in.Date = time.Now().Format(timecalc.DateLayout)
	}
	if err := newBatchHeaderForm(in).Run(); err != nil {
		return chain.Batch{}, nil, err
	}
	batch, err := in.Batch()
	if err != nil {
		return chain.Batch{}, nil, err
	}

	for {
		if len(b.Rows) == 0 {
			if err := promptEnd(b); err != nil {
				return chain.Batch{}, nil, err
			}
			continue
		}

		action, err := promptAction(b)
		if err != nil {
			return chain.Batch{}, nil, err
		}

		switch action {
		case actionAdd:
			if err := promptEnd(b); err != nil {
				return chain.Batch{}, nil, err
			}
		case actionRemove:
			if err := promptRemove(b); err != nil {
				return chain.Batch{}, nil, err
			}
		case actionStart:
			if err := promptFirstStart(b); err != nil {
				return chain.Batch{}, nil, err
			}
		case actionSave:
			if _, err := b.Preview(batch); err != nil {
				fmt.Printf("Cannot save: %v\n", err)
				continue
			}
			return batch, b.Rows, nil
		case actionCancel:
			return chain.Batch{}, nil, ErrCancelled
		}
	}
}

func promptAction(b *BatchEditor) (string, error) {
	options := []huh.Option[string]{huh.NewOption("Add flight", actionAdd)}
	if len(b.Rows) > 1 {
		options = append(options, huh.NewOption("Remove flight", actionRemove))
	}
	if !b.Locked {
		options = append(options, huh.NewOption("Change first start time", actionStart))
	}
	options = append(options,
		huh.NewOption("Save", actionSave),
		huh.NewOption("Cancel", actionCancel),
	)

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Flights").
				Description(strings.Join(b.Lines(), "\n")),
			huh.NewSelect[string]().
				Title("Next step").
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("interactive form error: %w", err)
	}
	return choice, nil
}

func promptEnd(b *BatchEditor) error {
	start := b.NextStart()
	var text string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("End time (start %s)", start)).
				Value(&text).
				Validate(func(s string) error {
					if err := requiredReading(s); err != nil {
						return err
					}
					end, _ := timecalc.Parse(s)
					_, err := chain.Duration(start, end)
					return err
				}),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive form error: %w", err)
	}
	end, err := timecalc.Parse(text)
	if err != nil {
		return err
	}
	b.Add(end)
	return nil
}

func promptRemove(b *BatchEditor) error {
	options := make([]huh.Option[string], 0, len(b.Rows))
	for i, line := range b.Lines() {
		options = append(options, huh.NewOption(line, strconv.Itoa(i)))
	}
	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Remove which flight?").
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive form error: %w", err)
	}
	i, err := strconv.Atoi(choice)
	if err != nil {
		return err
	}
	b.Remove(i)
	return nil
}

func promptFirstStart(b *BatchEditor) error {
	text := b.Initial.String()
	if b.Rows[0].Start != nil {
		text = b.Rows[0].Start.String()
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("First start time").
				Value(&text).
				Validate(requiredReading),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive form error: %w", err)
	}
	start, err := timecalc.Parse(text)
	if err != nil {
		return err
	}
	b.SetFirstStart(start)
	return nil
}
