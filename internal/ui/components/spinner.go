package components

import (
	"fmt"
	"time"

	"github.com/yildizm/ResumeLens/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a braille loading indicator advanced by UI ticks
type Spinner struct {
	Frame     int
	StartTime time.Time
	Label     string
}

// NewSpinner creates a spinner with a label
func NewSpinner(label string) *Spinner {
	return &Spinner{StartTime: time.Now(), Label: label}
}

// Tick advances the animation by one frame
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(spinnerFrames)
}

// Reset restarts the elapsed-time counter
func (s *Spinner) Reset() {
	s.Frame = 0
	s.StartTime = time.Now()
}

// Elapsed is the time since the spinner was (re)started
func (s *Spinner) Elapsed() time.Duration {
	return time.Since(s.StartTime)
}

// Render draws the current frame and label.
func (s *Spinner) Render() string {
	styles := theme.GetStyles()
	char := styles.Info.Render(spinnerFrames[s.Frame%len(spinnerFrames)])

	if s.Label == "" {
		return char
	}
	if elapsed := s.Elapsed(); elapsed >= 2*time.Second {
		return fmt.Sprintf("%s %s %s", char, s.Label, styles.Muted.Render(formatElapsed(elapsed)))
	}
	return fmt.Sprintf("%s %s", char, s.Label)
}

func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("(%ds)", int(d.Seconds()))
	}
	return fmt.Sprintf("(%dm%02ds)", int(d.Minutes()), int(d.Seconds())%60)
}
