package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInputSize bounds one line of reader input, in bytes.
const DefaultMaxInputSize = 4096

// EnvMaxInputSize overrides DefaultMaxInputSize.
const EnvMaxInputSize = "PARLEY_MAX_INPUT_SIZE"

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Sanitizer cleans one line of reader input before it is parsed as a command.
type Sanitizer struct {
	// MaxSize rejects longer lines. Zero means DefaultMaxInputSize.
	MaxSize int
}

// NewSanitizer returns a Sanitizer honoring EnvMaxInputSize.
func NewSanitizer() Sanitizer {
	s := Sanitizer{MaxSize: DefaultMaxInputSize}
	if v := os.Getenv(EnvMaxInputSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.MaxSize = n
		}
	}
	return s
}

// Clean rejects oversized or malformed lines, removes terminal escape
// sequences (arrow keys, colors) and other control characters, and trims
// surrounding space. Oversized input is rejected rather than truncated.
func (s Sanitizer) Clean(line string) (string, error) {
	limit := s.MaxSize
	if limit <= 0 {
		limit = DefaultMaxInputSize
	}
	if len(line) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(line), limit)
	}
	if !utf8.ValidString(line) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(line, unicode.IsControl) < 0 {
		return strings.TrimSpace(line), nil
	}

	var b strings.Builder
	b.Grow(len(line))
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\x1b' {
			i = skipEscape(runes, i)
			continue
		}
		if r == '\t' {
			b.WriteRune(' ')
			continue
		}
		if !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// skipEscape returns the index of the last rune of the escape sequence
// starting at runes[i]. CSI sequences ("ESC [ params final") are consumed
// whole; any other escape swallows the next rune.
func skipEscape(runes []rune, i int) int {
	if i+1 >= len(runes) {
		return i
	}
	if runes[i+1] != '[' {
		return i + 1
	}
	for j := i + 2; j < len(runes); j++ {
		if runes[j] >= 0x40 && runes[j] <= 0x7e {
			return j
		}
	}
	return len(runes) - 1
}

// SanitizeInput cleans line with NewSanitizer.
func SanitizeInput(line string) (string, error) {
	return NewSanitizer().Clean(line)
}
