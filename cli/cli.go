// Package cli carries the plumbing shared by the objio commands:
// logger construction, terminal detection, common flags, and error
// reporting.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewLogger builds a logfmt logger on stderr. Debug records are
// dropped unless verbose is set.
func NewLogger(verbose bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	if verbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

// Flags are the switches every objio command takes.
type Flags struct {
	Verbose bool
	Color   bool
	NoColor bool
}

func (f *Flags) Register(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&f.Verbose, "verbose", "v", false, "log decode progress")
	cmd.PersistentFlags().BoolVar(&f.Color, "color", false, "force color output")
	cmd.PersistentFlags().BoolVar(&f.NoColor, "no-color", false, "disable color output")
}

// UseColor resolves the color switches; with neither set, color
// follows whether stdout is a terminal.
func (f *Flags) UseColor() bool {
	if f.NoColor {
		return false
	}
	if f.Color {
		return true
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// PrintError writes err to stderr, with the attached stack trace laid
// out as an aligned location/function table when one is available.
func PrintError(err error) {
	fprintError(os.Stderr, err)
}

func fprintError(w io.Writer, err error) {
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "Error: %s\n", err)
	tracer, ok := err.(stackTracer)
	if !ok {
		return
	}
	type frame struct {
		loc    string
		method string
	}
	var frames []frame
	for _, f := range tracer.StackTrace() {
		fr := frame{
			loc:    fmt.Sprintf("%s:%d", f, f),
			method: fmt.Sprintf("%n", f),
		}
		frames = append(frames, fr)
		if fr.method == "main" {
			break
		}
	}
	width := 0
	for _, f := range frames {
		if len(f.loc) > width {
			width = len(f.loc)
		}
	}
	for _, f := range frames {
		fmt.Fprintf(w, "%-*s | %s()\n", width, f.loc, f.method)
	}
}
