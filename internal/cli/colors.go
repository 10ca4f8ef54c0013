// Package cli styles terminal output for the startup banner and console logs.
package cli

import (
	"fmt"
	"os"
)

const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
)

// disableColor is a cached check for the environment variable
var disableColor = checkNoColor()

func checkNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// Enabled reports whether ANSI styling is applied.
func Enabled() bool {
	return !disableColor
}

// Style wraps text in a color code.
func Style(text string, colorCode string) string {
	if disableColor {
		return text
	}
	return fmt.Sprintf("%s%s%s", colorCode, text, Reset)
}

func CheckMark() string {
	return Style("✔", Green)
}

func CrossMark() string {
	return Style("✘", Red)
}

func WarningSign() string {
	return Style("⚠", Yellow)
}

// ProviderLine renders one provider of the startup summary, e.g.
//
//	✔ openrouter   remote  x-ai/grok-4-fast:free (default)
func ProviderLine(id, kind, model string, isDefault bool) string {
	line := fmt.Sprintf("%s %s %s %s",
		CheckMark(),
		Style(fmt.Sprintf("%-12s", id), Bold),
		Style(fmt.Sprintf("%-7s", kind), Cyan),
		model,
	)
	if isDefault {
		line += " " + Style("(default)", Dim)
	}
	return line
}
