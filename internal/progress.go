package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a one-line status message until stopped. Writes go
// through lock so they do not interleave with other output on w.
type Spinner struct {
	w       io.Writer
	lock    sync.Locker
	message string

	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a stopped spinner
func NewSpinner(w io.Writer, lock sync.Locker, message string) *Spinner {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &Spinner{w: w, lock: lock, message: message}
}

// Start begins animating; it is a no-op if already running
func (s *Spinner) Start() {
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func(stop <-chan struct{}, done chan<- struct{}) {
		defer close(done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.lock.Lock()
				fmt.Fprintf(s.w, "\r%s %s", progressStyle.Render(spinnerChars[i%len(spinnerChars)]), s.message)
				s.lock.Unlock()
				i++
			}
		}
	}(s.stop, s.done)
}

// Stop halts the animation and waits for the goroutine to exit. The caller
// must not hold the spinner's lock.
func (s *Spinner) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop, s.done = nil, nil
}

// Running reports whether the spinner is animating
func (s *Spinner) Running() bool {
	return s.stop != nil
}

// ShowProgress runs fn, showing a spinner on a terminal and a log line otherwise
func ShowProgress(ctx context.Context, message string, fn func() error) error {
	if !isTerminal(os.Stderr) {
		LogInfo("%s", message)
		return fn()
	}

	done := make(chan error, 1)
	spinner := NewSpinner(os.Stderr, nil, message)
	spinner.Start()

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		spinner.Stop()
		if err != nil {
			fmt.Fprintf(os.Stderr, "\r%s %s\n", errorStyle.Render("✗"), message)
			return err
		}
		fmt.Fprintf(os.Stderr, "\r%s %s\n", successStyle.Render("✓"), message)
		return nil
	case <-ctx.Done():
		spinner.Stop()
		return ctx.Err()
	}
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// IsTerminal reports whether stream, a reader or a writer, is an
// interactive terminal
func IsTerminal(stream any) bool {
	if f, ok := stream.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	if isTerminal(os.Stdout) {
		fmt.Printf("%s %s\n", successStyle.Render("✓"), message)
	} else {
		fmt.Println(message)
	}
}

// PrintError prints an error message
func PrintError(message string) {
	if isTerminal(os.Stderr) {
		fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("✗"), message)
	} else {
		fmt.Fprintf(os.Stderr, "%s\n", message)
	}
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	if isTerminal(os.Stdout) {
		fmt.Printf("%s %s\n", progressStyle.Render("ℹ"), message)
	} else {
		fmt.Println(message)
	}
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	if isTerminal(os.Stderr) {
		fmt.Fprintf(os.Stderr, "%s %s\n", warningStyle.Render("⚠"), message)
	} else {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", message)
	}
}
