// Package progress defines the progress event stream the pipeline, session
// apply, and processing manager report through. The CLI prints events with
// level prefixes; the TUI renders a rolling log.
package progress

// Level indicates the severity/type of a progress message.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// Event represents a progress update.
type Event struct {
	Message string
	Level   Level
}

// Func receives progress events. A nil Func discards them.
type Func func(Event)

// Emit sends an event when f is non-nil.
func (f Func) Emit(level Level, message string) {
	if f != nil {
		f(Event{Message: message, Level: level})
	}
}
