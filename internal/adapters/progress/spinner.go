package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/trebuchet-org/tokendeploy/internal/domain/config"
	"github.com/trebuchet-org/tokendeploy/internal/usecase"
)

// SpinnerSink shows deployment progress as a spinner on stderr
type SpinnerSink struct {
	spinner *spinner.Spinner
	out     io.Writer
}

// NewSpinnerSink creates a spinner-based progress sink writing to out
func NewSpinnerSink(out io.Writer) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerSink{
		spinner: s,
		out:     out,
	}
}

// NewSink picks the spinner when stderr is a terminal and nothing machine
// readable or verbose is being written, the no-op sink otherwise
func NewSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.JSON || cfg.Debug || !isatty.IsTerminal(os.Stderr.Fd()) {
		return NewNopSink()
	}
	return NewSpinnerSink(os.Stderr)
}

// OnProgress handles progress events
func (s *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Spinner {
		s.spinner.Lock()
		s.spinner.Suffix = " " + event.Message
		s.spinner.Unlock()
		if !s.spinner.Active() {
			s.spinner.Start()
		}
		return
	}

	if s.spinner.Active() {
		s.spinner.Stop()
	}
}

// Info prints an info message
func (s *SpinnerSink) Info(message string) {
	s.pause(func() {
		fmt.Fprintln(s.out, color.New(color.FgYellow).Sprint(message))
	})
}

// pause stops the spinner around a write and restarts it if it was running
func (s *SpinnerSink) pause(write func()) {
	wasActive := s.spinner.Active()
	if wasActive {
		s.spinner.Stop()
	}

	write()

	if wasActive {
		s.spinner.Start()
	}
}

// Ensure SpinnerSink implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerSink)(nil)
