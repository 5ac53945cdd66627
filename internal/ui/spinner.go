package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SpinnerState represents the current state of a spinner.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerInProgress
	SpinnerSuccess
	SpinnerFailed
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const spinnerInterval = 80 * time.Millisecond

// Spinner shows an animated status line while a CLI command waits on the
// producer, then replaces it with a final result line.
type Spinner struct {
	mu           sync.Mutex
	label        string
	state        SpinnerState
	frame        int
	startTime    time.Time
	stopChan     chan struct{}
	doneChan     chan struct{}
	out          io.Writer
	running      bool
	lastRendered string
}

// NewSpinner creates a spinner writing to out.
func NewSpinner(label string, out io.Writer) *Spinner {
	return &Spinner{
		label: label,
		state: SpinnerPending,
		out:   out,
	}
}

// Start begins the animation. Calling Start on a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.state = SpinnerInProgress
	s.startTime = time.Now()
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	s.mu.Unlock()

	s.render()

	go s.animate()
}

// Stop halts the animation without changing state.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	<-s.doneChan
}

// Success stops the spinner and prints message as a success line.
func (s *Spinner) Success(message string) {
	s.finish(SpinnerSuccess, message)
}

// Fail stops the spinner and prints message as a failure line.
func (s *Spinner) Fail(message string) {
	s.finish(SpinnerFailed, message)
}

// State returns the current spinner state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Spinner) finish(state SpinnerState, message string) {
	s.Stop()
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.renderFinal(message)
}

func (s *Spinner) animate() {
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	defer close(s.doneChan)

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(spinnerFrames)
			s.mu.Unlock()
			s.render()
		}
	}
}

func (s *Spinner) render() {
	s.mu.Lock()
	defer s.mu.Unlock()

	color := spinnerColors[(s.frame/2)%len(spinnerColors)]
	symbol := lipgloss.NewStyle().Foreground(color).Render(spinnerFrames[s.frame])
	line := fmt.Sprintf("%s %s...", symbol, s.label)

	s.clearLine()
	fmt.Fprint(s.out, line)
	s.lastRendered = line
}

func (s *Spinner) renderFinal(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if message == "" {
		message = s.label
	}
	timing := Muted(formatDuration(time.Since(s.startTime)))

	s.clearLine()
	fmt.Fprintf(s.out, "%s %s\n", ResultLine(s.state == SpinnerSuccess, message), timing)
	s.lastRendered = ""
}

// clearLine blanks the previously rendered frame. Callers hold s.mu.
func (s *Spinner) clearLine() {
	if s.lastRendered == "" {
		return
	}
	n := lipgloss.Width(s.lastRendered)
	fmt.Fprint(s.out, "\r"+strings.Repeat(" ", n)+"\r")
}

// formatDuration formats a duration for display (e.g., "0.3s", "1.2s").
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
