package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"remake/internal/vehicle"
)

type EventType int

const (
	EventSkidStarted EventType = iota
	EventSkidEnded
	EventEngineStarted
	EventEngineStopped
	EventModeChanged
)

func (t EventType) String() string {
	switch t {
	case EventSkidStarted:
		return "skid_started"
	case EventSkidEnded:
		return "skid_ended"
	case EventEngineStarted:
		return "engine_started"
	case EventEngineStopped:
		return "engine_stopped"
	case EventModeChanged:
		return "mode_changed"
	}
	return "unknown"
}

type Event struct {
	Type     EventType
	Tick     uint64
	Position mgl64.Vec3
	Speed    float64
	Mode     vehicle.LongitudinalMode // set on EventModeChanged
}

type EventHandler func(Event)

type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	if eb == nil {
		return
	}
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
