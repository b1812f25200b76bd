package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/parley/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
)

func TestPrintBanner(t *testing.T) {
	var out bytes.Buffer
	tui.PrintBanner(&out, "1.2.3\n")

	assert.Contains(t, out.String(), "v1.2.3")
	assert.Contains(t, out.String(), "|_|")
}

func TestNewRenderer(t *testing.T) {
	render := tui.NewRenderer()

	out, err := render("**Hello**")
	assert.NoError(t, err)
	assert.Contains(t, out, "Hello")
}
