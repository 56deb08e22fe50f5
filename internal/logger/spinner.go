package logger

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sqve/wtm/internal/styles"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	spinnerInterval = 80 * time.Millisecond

	// Runs shorter than this report no duration.
	slowThreshold = time.Second
)

// Spinner shows progress for a slow git call. In plain mode every message is
// printed once as its own line instead of being animated.
type Spinner struct {
	message atomic.Value
	started time.Time
	plain   bool
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func StartSpinner(message string) *Spinner {
	s := &Spinner{
		started: time.Now(),
		plain:   isPlain(),
		done:    make(chan struct{}),
	}
	s.message.Store(message)

	if s.plain {
		Info("%s", message)
		return s
	}

	s.wg.Add(1)
	go s.animate()
	return s
}

func (s *Spinner) animate() {
	defer s.wg.Done()
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i = (i + 1) % len(spinnerFrames) {
		select {
		case <-s.done:
			fmt.Fprint(os.Stderr, "\r\033[K")
			return
		case <-ticker.C:
			msg, _ := s.message.Load().(string)
			fmt.Fprintf(os.Stderr, "\r\033[K%s %s", styles.Render(&styles.Info, spinnerFrames[i]), msg)
		}
	}
}

// Update replaces the message, for multi-step work such as creating a branch
// and then checking it out.
func (s *Spinner) Update(message string) {
	if prev, _ := s.message.Swap(message).(string); prev == message {
		return
	}
	if s.plain {
		Info("%s", message)
	}
}

// Stop clears the spinner line and returns how long the spinner ran.
func (s *Spinner) Stop() time.Duration {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
	return time.Since(s.started)
}

func (s *Spinner) StopWithSuccess(message string) {
	Success("%s%s", message, elapsedSuffix(s.Stop()))
}

func (s *Spinner) StopWithError(message string) {
	Error("%s%s", message, elapsedSuffix(s.Stop()))
}

func elapsedSuffix(d time.Duration) string {
	if d < slowThreshold {
		return ""
	}
	return fmt.Sprintf(" (%s)", d.Round(100*time.Millisecond))
}
