package main

import (
	"encoding/json"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
)

// Output helpers shared by the commands: either a raw structured dump
// (--raw) or colored human-readable text.

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	dim    = color.New(color.Faint)
	bold   = color.New(color.Bold)
)

// printRaw renders any typed record as indented JSON on stdout.
func printRaw(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTab returns a tab-aligned writer for table output. Callers must
// Flush.
func newTab() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

// stateColor picks a color for issue/PR open-closed-merged states.
func stateColor(state string, merged bool) *color.Color {
	if merged {
		return cyan
	}
	switch state {
	case "open", "OPEN":
		return green
	case "closed", "CLOSED":
		return red
	}
	return yellow
}

// reviewStateColor picks a color for review verdict states.
func reviewStateColor(state string) *color.Color {
	switch state {
	case "APPROVED":
		return green
	case "CHANGES_REQUESTED":
		return red
	case "COMMENTED":
		return yellow
	}
	return dim
}

// conclusionColor picks a color for check run conclusions.
func conclusionColor(conclusion string) *color.Color {
	switch conclusion {
	case "success":
		return green
	case "failure", "cancelled", "timed_out":
		return red
	case "skipped", "neutral":
		return dim
	}
	return yellow
}
