package upgrade

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Observer receives structured events from the orchestrator. Tests assert
// on recorded events instead of capturing process-wide output.
type Observer interface {
	// Printf emits a free-form message.
	Printf(format string, v ...interface{})

	// Event emits a structured event.
	Event(event Event)
}

// Event represents one orchestration event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g. "connect", "install")
	Message   string            // Human-readable message
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of orchestration event.
type EventType string

const (
	// EventPhaseStarted indicates a phase of the upgrade sequence has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a phase failed.
	EventPhaseFailed EventType = "phase.failed"
	// EventPhaseSkipped indicates a phase was not needed.
	EventPhaseSkipped EventType = "phase.skipped"

	// EventProbeAttempt indicates one reconnection attempt during the
	// reboot wait.
	EventProbeAttempt EventType = "probe.attempt"
	// EventProbeWarning indicates an unexpected error while probing; the
	// loop continues regardless.
	EventProbeWarning EventType = "probe.warning"

	// EventOutcome carries the terminal outcome of the run.
	EventOutcome EventType = "outcome"
)

// ConsoleObserver implements Observer using the standard log package.
type ConsoleObserver struct {
	// Verbose enables per-attempt probe output; off by default because a
	// reboot wait produces dozens of identical attempts.
	Verbose bool
}

// NewConsoleObserver creates a console-backed observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{}
}

func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

func (o *ConsoleObserver) Event(event Event) {
	if event.Type == EventProbeAttempt && !o.Verbose {
		return
	}
	log.Print(formatEvent(event))
}

// FileObserver appends events to a log file that accumulates across runs.
type FileObserver struct {
	f *os.File
}

// NewFileObserver opens (or creates) the log file in append mode.
func NewFileObserver(path string) (*FileObserver, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return &FileObserver{f: f}, nil
}

func (o *FileObserver) Printf(format string, v ...interface{}) {
	fmt.Fprintf(o.f, time.Now().Format(time.RFC3339)+" "+format+"\n", v...)
}

func (o *FileObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	fmt.Fprintln(o.f, event.Timestamp.Format(time.RFC3339)+" "+formatEvent(event))
}

// Close flushes and closes the underlying file.
func (o *FileObserver) Close() error {
	return o.f.Close()
}

// MultiObserver fans events out to several observers.
type MultiObserver []Observer

func (m MultiObserver) Printf(format string, v ...interface{}) {
	for _, o := range m {
		o.Printf(format, v...)
	}
}

func (m MultiObserver) Event(event Event) {
	for _, o := range m {
		o.Event(event)
	}
}

// NopObserver discards everything.
type NopObserver struct{}

func (NopObserver) Printf(string, ...interface{}) {}
func (NopObserver) Event(Event)                   {}

// formatEvent renders an event as a single log line.
func formatEvent(event Event) string {
	parts := []string{string(event.Type)}

	if event.Phase != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Phase))
	}
	parts = append(parts, event.Message)

	if len(event.Fields) > 0 {
		fieldParts := make([]string, 0, len(event.Fields))
		for k, v := range event.Fields {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, v))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fieldParts, ", ")))
	}

	return strings.Join(parts, " ")
}
