package engine

import "github.com/rs/zerolog"

// Lifecycle event names.
const (
	EventModelLoaded     = "model_loaded"
	EventModelReleased   = "model_released"
	EventContextCreated  = "context_created"
	EventContextReleased = "context_released"
)

// Event is a handle lifecycle transition. Fields carries extras such as the
// model path or the owning model handle.
type Event struct {
	Name   string
	Handle uint64
	Fields map[string]any
}

// EventPublisher observes lifecycle events. Publish runs on the goroutine
// that made the transition and must not block.
type EventPublisher interface {
	Publish(Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// LogPublisher writes every event to Log at debug level.
type LogPublisher struct {
	Log zerolog.Logger
}

func (p LogPublisher) Publish(ev Event) {
	le := p.Log.Debug().Str("event", ev.Name).Uint64("handle", ev.Handle)
	for k, v := range ev.Fields {
		le = le.Interface(k, v)
	}
	le.Msg("lifecycle")
}
