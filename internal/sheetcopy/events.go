package sheetcopy

import (
	"fmt"
	"log/slog"

	"sheetPush/internal/logger"
)

// EventKind distinguishes progress updates from log lines.
type EventKind int

const (
	EventLog EventKind = iota
	EventProgress
)

// Event is published by the Copier while it works.
type Event struct {
	Kind    EventKind
	Level   slog.Level
	Message string

	// Progress fields, set when Kind is EventProgress.
	Current int
	Total   int
	Label   string
}

// Observer receives events synchronously, in order.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Notify(e Event) { f(e) }

// Callbacks adapts the progress/log callback pair to Observer. Either field
// may be nil.
type Callbacks struct {
	Progress func(current, total int, label string)
	Log      func(message string)
}

func (c Callbacks) Notify(e Event) {
	switch e.Kind {
	case EventProgress:
		if c.Progress != nil {
			c.Progress(e.Current, e.Total, e.Label)
		}
	default:
		if c.Log != nil {
			c.Log(e.Message)
		}
	}
}

// ChannelObserver forwards events to ch. Sends block, so the consumer must
// keep draining ch until the copy call returns.
type ChannelObserver chan<- Event

func (ch ChannelObserver) Notify(e Event) { ch <- e }

type nopObserver struct{}

func (nopObserver) Notify(Event) {}

// reporter fans an event out to the observer and the run log.
type reporter struct {
	obs Observer
}

func (r reporter) log(level slog.Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Log(level, msg)
	r.obs.Notify(Event{Kind: EventLog, Level: level, Message: msg})
}

func (r reporter) info(format string, args ...any)  { r.log(slog.LevelInfo, format, args...) }
func (r reporter) warn(format string, args ...any)  { r.log(slog.LevelWarn, format, args...) }
func (r reporter) error(format string, args ...any) { r.log(slog.LevelError, format, args...) }

func (r reporter) progress(current, total int, label string) {
	logger.Debug("Progress", "current", current, "total", total, "label", label)
	r.obs.Notify(Event{Kind: EventProgress, Current: current, Total: total, Label: label})
}
