package domain

import "errors"

// ErrNodeNotFound is returned when a node id does not resolve to a node in the graph.
var ErrNodeNotFound = errors.New("node not found")

// ErrChoiceOutOfRange is returned when a choice index is outside the node's choice list.
var ErrChoiceOutOfRange = errors.New("choice index out of range")

// ErrGraphNotFound is returned when a graph cannot be found in a store.
var ErrGraphNotFound = errors.New("graph not found")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoPathSelected is returned when the host dialog was dismissed without a path.
var ErrNoPathSelected = errors.New("no file selected or invalid file path")

// ErrPlaybackEnded is returned when a choice is made after playback reached a missing node.
var ErrPlaybackEnded = errors.New("playback ended")
