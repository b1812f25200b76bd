package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter EventType = "node_enter"
	EventChoose    EventType = "choose"
	EventEnd       EventType = "end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NodeEvent represents entering a node, or failing to.
type NodeEvent struct {
	EventBase
	NodeID string `json:"node_id"`
}

// ChoiceEvent represents a choice being taken.
type ChoiceEvent struct {
	EventBase
	NodeID   string `json:"node_id"`
	Index    int    `json:"index"`
	Label    string `json:"label"`
	TargetID string `json:"target_id"`
}

// PlaybackHooks defines callbacks for playback observability.
type PlaybackHooks struct {
	OnNodeEnter func(*NodeEvent)
	OnChoose    func(*ChoiceEvent)
	OnEnd       func(*NodeEvent)
}

// Merge returns hooks that call h first and then other.
func (h PlaybackHooks) Merge(other PlaybackHooks) PlaybackHooks {
	return PlaybackHooks{
		OnNodeEnter: chain(h.OnNodeEnter, other.OnNodeEnter),
		OnChoose:    chain(h.OnChoose, other.OnChoose),
		OnEnd:       chain(h.OnEnd, other.OnEnd),
	}
}

func chain[E any](a, b func(E)) func(E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e E) {
		a(e)
		b(e)
	}
}
