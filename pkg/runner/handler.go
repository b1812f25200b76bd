package runner

import (
	"context"
	"errors"

	"github.com/aretw0/parley/pkg/player"
)

// ErrUnknownCommand is returned by handlers for input that names no action.
var ErrUnknownCommand = errors.New("unknown command")

// Action is what the reader asked the player to do.
type Action string

const (
	ActionContinue Action = "continue"
	ActionChoose   Action = "choose"
	ActionQuit     Action = "quit"
)

// Command is one parsed line of reader input.
type Command struct {
	Action Action `json:"action"`
	// Index is the zero-based choice for ActionChoose.
	Index int `json:"index,omitempty"`
}

// IOHandler defines the strategy for interacting with the reader.
// This allows switching between Text (CLI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the current playback view.
	Output(ctx context.Context, view player.View) error

	// Input reads the next command. It returns io.EOF when the input is exhausted.
	Input(ctx context.Context) (Command, error)

	// SystemOutput presents a meta-message to the reader (e.g. status updates).
	// This is distinct from dialogue rendering.
	SystemOutput(ctx context.Context, msg string) error
}
