package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders dialogue text as markdown
// using glamour. Text is returned unchanged if no renderer can be built.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return func(text string) (string, error) {
			return text, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
