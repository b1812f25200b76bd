package domain

// PlaybackStatus defines where a playback session stands.
type PlaybackStatus string

const (
	StatusIdle       PlaybackStatus = "idle"       // Not started
	StatusDisplaying PlaybackStatus = "displaying" // Showing the current node
	StatusEnded      PlaybackStatus = "ended"      // Advanced to a node that does not exist
)

// PlaybackState is the serializable snapshot of a playback session.
type PlaybackState struct {
	// CurrentNodeID is the node being displayed. It may name a missing node
	// when Status is StatusEnded.
	CurrentNodeID string `json:"current_node_id"`

	Status PlaybackStatus `json:"status"`

	// AwaitingChoice is set once the current node's choices were presented.
	AwaitingChoice bool `json:"awaiting_choice,omitempty"`

	// History lists every node id passed to Start, in order.
	History []string `json:"history"`

	// Sealed carries an encrypted copy of the state written by an
	// encrypting store. The other fields are blank when it is set.
	Sealed string `json:"sealed,omitempty"`
}

// NewPlaybackState returns a state that has not started yet.
func NewPlaybackState() *PlaybackState {
	return &PlaybackState{
		Status:  StatusIdle,
		History: []string{},
	}
}

// Snapshot returns a deep copy of the state.
func (s *PlaybackState) Snapshot() *PlaybackState {
	c := *s
	c.History = make([]string, len(s.History))
	copy(c.History, s.History)
	return &c
}

// Ended reports whether playback reached a missing node.
func (s *PlaybackState) Ended() bool {
	return s.Status == StatusEnded
}
