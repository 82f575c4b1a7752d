package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Spinner shows an animated status line on stderr while a vault call is in
// flight. It stays silent when stderr is not a terminal.
type Spinner struct {
	message string
	frames  []string
	out     io.Writer
	enabled bool
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	current int
	stopped bool
}

// Default spinner frames (dots style)
var defaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a spinner on stderr.
func NewSpinner(message string) *Spinner {
	return newSpinner(message, os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
}

func newSpinner(message string, out io.Writer, enabled bool) *Spinner {
	return &Spinner{
		message: message,
		frames:  defaultFrames,
		out:     out,
		enabled: enabled,
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if !s.enabled {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				s.mu.Lock()
				frame := s.frames[s.current%len(s.frames)]
				s.current++
				s.mu.Unlock()
				fmt.Fprintf(s.out, "\r%s %s", Accent.Bold(true).Render(frame), s.message)
			}
		}
	}()
}

// Stop stops the spinner and clears its line. It is safe to call twice.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()
}
