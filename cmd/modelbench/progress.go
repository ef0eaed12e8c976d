package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/microsoft/modelbench/internal/orchestration"
	"golang.org/x/term"
)

// progressPrinter renders runner events. On a terminal it redraws a single
// status line; otherwise, or when verbose, it prints one line per cell.
type progressPrinter struct {
	mu      sync.Mutex
	w       io.Writer
	tty     bool
	verbose bool
}

func newProgressPrinter(w io.Writer, verbose bool) *progressPrinter {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return &progressPrinter{w: w, tty: tty, verbose: verbose}
}

func (p *progressPrinter) listen(ev orchestration.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev.EventType {
	case orchestration.EventRunStart:
		fmt.Fprintf(p.w, "Run %s: %d cells\n", ev.RunID, ev.TotalTests) //nolint:errcheck
	case orchestration.EventCellComplete:
		status := "ok"
		if ev.Error != "" {
			status = "FAILED: " + ev.Error
		} else if ev.ServedBy != "" && ev.ServedBy != ev.ModelID {
			status = "ok (served by " + ev.ServedBy + ")"
		}
		if p.tty && !p.verbose {
			fmt.Fprintf(p.w, "\r\033[K[%d/%d] %s / %s", ev.TestNum, ev.TotalTests, ev.ModelID, ev.TestName) //nolint:errcheck
			return
		}
		fmt.Fprintf(p.w, "[%d/%d] %s / %s %dms %s\n", //nolint:errcheck
			ev.TestNum, ev.TotalTests, ev.ModelID, ev.TestName, ev.DurationMs, status)
	case orchestration.EventRunComplete, orchestration.EventRunFailed:
		if p.tty && !p.verbose {
			fmt.Fprint(p.w, "\r\033[K") //nolint:errcheck
		}
		if ev.EventType == orchestration.EventRunFailed {
			fmt.Fprintf(p.w, "Run %s failed: %s\n", ev.RunID, ev.Error) //nolint:errcheck
			return
		}
		fmt.Fprintf(p.w, "Run %s completed in %dms\n", ev.RunID, ev.DurationMs) //nolint:errcheck
	}
}
