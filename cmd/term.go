package cmd

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across commands.
var (
	colorHeader = color.New(color.Bold)
	// Hours: bold cyan so meter readings stand out
	colorHours = color.New(color.FgCyan, color.Bold)
	colorOK    = color.New(color.FgGreen)
	colorWarn  = color.New(color.FgYellow)
	colorError = color.New(color.FgRed, color.Bold)
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 100
	}
	return width
}

// interactive reports whether stdin is a terminal the forms can drive.
func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
