// Package output renders conflictdiff reports to the terminal and as JSON.
package output

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color schemes
var (
	ColorSuccess = color.New(color.FgGreen)
	ColorError   = color.New(color.FgRed)
	ColorWarning = color.New(color.FgYellow)
	ColorInfo    = color.New(color.FgCyan)
	ColorDebug   = color.New(color.FgHiBlack)
	ColorHeader  = color.New(color.Bold, color.FgWhite)

	// ColorUpgrade marks pairs whose losing version orders below the winner
	ColorUpgrade = color.New(color.FgGreen)
	// ColorDowngrade marks pairs whose losing version orders above the winner
	ColorDowngrade = color.New(color.FgRed)
	// ColorEqual marks pairs with equal versions
	ColorEqual = color.New(color.FgBlue)
)

// IsColorEnabled checks if color output should be enabled
func IsColorEnabled() bool {
	if !isTerminal(os.Stdout) {
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	t := os.Getenv("TERM")
	if t == "dumb" || t == "" {
		return false
	}

	return true
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// DisableColors disables all color output
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output
func EnableColors() {
	color.NoColor = false
}
