package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/parley/pkg/player"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
//
// Every view is written as one JSON object per line. Input lines are commands
// such as {"action": "choose", "index": 0}; an empty line continues.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// SystemMessage is the JSON line written by SystemOutput.
type SystemMessage struct {
	System string `json:"system"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, view player.View) error {
	return h.Encoder.Encode(view)
}

func (h *JSONHandler) Input(ctx context.Context) (Command, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return Command{}, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Command{Action: ActionContinue}, nil
	}

	var cmd Command
	if err := json.Unmarshal([]byte(text), &cmd); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrUnknownCommand, err)
	}
	switch cmd.Action {
	case ActionContinue, ActionChoose, ActionQuit:
		return cmd, nil
	default:
		return Command{}, fmt.Errorf("%w: action %q", ErrUnknownCommand, cmd.Action)
	}
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(SystemMessage{System: msg})
}
