package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/player"
)

// TextHandler implements the standard text-based interface.
//
// An empty line continues, a number picks the matching (one-based) choice and
// "quit" or "exit" stops playback.
type TextHandler struct {
	Reader    *bufio.Reader
	Writer    io.Writer
	Renderer  ContentRenderer
	Sanitizer Sanitizer

	inputChan chan inputResult
	startOnce sync.Once

	// shown tracks what of the current node is already on screen.
	shownStep    int
	shownChoices bool
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithMaxInputSize bounds the length of one input line.
func WithMaxInputSize(n int) TextHandlerOption {
	return func(h *TextHandler) {
		h.Sanitizer.MaxSize = n
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:    bufio.NewReader(r),
		Writer:    w,
		Sanitizer: NewSanitizer(),
		shownStep: -1,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff for persistent read failures.
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Output prints the node text once per visit and the numbered choices once
// they are revealed.
func (h *TextHandler) Output(ctx context.Context, view player.View) error {
	if view.Status != domain.StatusDisplaying {
		return nil
	}

	step := len(view.History)
	if step != h.shownStep {
		h.shownStep = step
		h.shownChoices = false

		output := view.Text
		if h.Renderer != nil {
			if rendered, err := h.Renderer(view.Text); err == nil {
				output = rendered
			}
		}
		if _, err := fmt.Fprintln(h.Writer, strings.TrimSpace(output)); err != nil {
			return err
		}
	}

	if len(view.Choices) > 0 && !h.shownChoices {
		h.shownChoices = true
		for _, opt := range view.Choices {
			if _, err := fmt.Fprintf(h.Writer, "  %d) %s\n", opt.Index+1, opt.Label); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *TextHandler) Input(ctx context.Context) (Command, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return Command{}, ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return Command{}, ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return Command{}, io.EOF
			}
			if res.err != nil {
				return Command{}, res.err
			}

			clean, err := h.Sanitizer.Clean(strings.TrimRight(res.text, "\r\n"))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return ParseCommand(clean)
		}
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "\n[System] %s\n", msg)
	return err
}

// ParseCommand interprets one line of text input. Choice numbers are one-based.
func ParseCommand(line string) (Command, error) {
	switch strings.ToLower(line) {
	case "":
		return Command{Action: ActionContinue}, nil
	case "quit", "exit":
		return Command{Action: ActionQuit}, nil
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
	}
	return Command{Action: ActionChoose, Index: n - 1}, nil
}
