package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	Magenta     = color.New(color.FgMagenta).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// PrintLogo renders the colored ganttcore logo to stderr.
func PrintLogo() {
	w := os.Stderr
	frame := color.New(color.FgCyan)
	bars := color.New(color.FgYellow)
	brand := color.New(color.Bold, color.FgMagenta)
	tag := color.New(color.Faint)

	fmt.Fprintln(w)
	frame.Fprintln(w, "   +----------------------------+")
	bars.Fprintln(w, "   |  ====                      |")
	bars.Fprintln(w, "   |     ========               |")
	bars.Fprintln(w, "   |         ======== <-- CP    |")
	bars.Fprintln(w, "   |             ==========     |")
	brand.Fprintln(w, "   |  G A N T T C O R E        |")
	frame.Fprintln(w, "   +----------------------------+")
	tag.Fprintf(w, "   %s Calendar-aware CPM scheduling\n", Dim("◫"))
	fmt.Fprintln(w)
}

// CriticalMark returns the marker column for a critical activity.
func CriticalMark(critical bool) string {
	if critical {
		return BoldYellow("⚡")
	}
	return " "
}

// KindIcon returns a colored icon for an activity kind string.
func KindIcon(kind string) string {
	switch kind {
	case "summary":
		return Cyan("▣")
	case "start-milestone", "finish-milestone":
		return Magenta("◆")
	default:
		return Dim("▪")
	}
}

// DelayMark flags a leveling delay or over-allocation.
func DelayMark(delayDays int, overAllocated bool) string {
	switch {
	case overAllocated:
		return Red("!")
	case delayDays > 0:
		return Yellow(fmt.Sprintf("+%dd", delayDays))
	default:
		return ""
	}
}
