package util

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/buger/goterm"
	"github.com/dustin/go-humanize"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/sidkik/squirt/pkg/client"
)

const (
	// progressPadding is the space on a line that's taken by everything but
	// the bar itself.
	progressPadding = 20
	minBarWidth     = 10
)

// Mocked out for unit testing.
var (
	isTerminal    = terminal.IsTerminal
	terminalWidth = goterm.Width
)

// ProgressBar draws the progress of a transfer on a single terminal line.
type ProgressBar struct {
	out   io.Writer
	width int
}

// StdoutIsTerminal returns whether stdout is attached to a terminal.
func StdoutIsTerminal() bool {
	return isTerminal(int(os.Stdout.Fd()))
}

// NewProgress returns a ProgressBar that draws to stdout if stdout is a
// terminal, and a progress that discards updates otherwise.
func NewProgress() client.Progress {
	if !StdoutIsTerminal() {
		return client.NoProgress{}
	}
	return NewProgressBar(os.Stdout, terminalWidth())
}

// NewProgressBar creates a ProgressBar for a terminal that's `width`
// characters wide.
func NewProgressBar(out io.Writer, width int) *ProgressBar {
	barWidth := width - progressPadding
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	return &ProgressBar{out: out, width: barWidth}
}

// Update redraws the bar.
func (bar *ProgressBar) Update(transferred, total uint32, elapsed time.Duration) {
	// Return to the start of the line and clear it.
	fmt.Fprint(bar.out, "\r\x1b[K", bar.render(transferred, total, elapsed))
	if transferred >= total {
		fmt.Fprintln(bar.out)
	}
}

func (bar *ProgressBar) render(transferred, total uint32, elapsed time.Duration) string {
	percentage := 100
	if total != 0 {
		percentage = int(uint64(transferred) * 100 / uint64(total))
	}

	filled := percentage * bar.width / 100
	var sb strings.Builder
	fmt.Fprintf(&sb, "%02d%% [", percentage)
	for i := 0; i < bar.width; i++ {
		switch {
		case i < filled:
			sb.WriteByte('=')
		case i == filled:
			sb.WriteByte('>')
		default:
			sb.WriteByte(' ')
		}
	}
	sb.WriteString("] ")
	sb.WriteString(FormatSpeed(uint64(transferred), elapsed))
	return sb.String()
}

// FormatSpeed formats the average speed of a transfer with SI units.
func FormatSpeed(bytes uint64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "-"
	}
	perSecond := float64(bytes) / elapsed.Seconds()
	return humanize.Bytes(uint64(perSecond)) + "/s"
}
