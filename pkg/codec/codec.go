package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/parley/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format names a persisted representation.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
// Anything that is not .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat validates a user supplied format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown graph format %q", name)
	}
}

// Extension returns the canonical file extension for f, including the dot.
func (f Format) Extension() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// document is the persisted shape: one array field named nodes.
type document struct {
	Nodes []*domain.Node `json:"nodes" yaml:"nodes"`
}

// Marshal serializes the full ordered node sequence of g.
// JSON output is indented with two spaces. Strings that are not valid
// UTF-8 are rejected with ErrInvalidUTF8 in every format.
func Marshal(g *domain.Graph, f Format) ([]byte, error) {
	if g == nil {
		g = domain.NewGraph()
	}
	if err := checkUTF8(g); err != nil {
		return nil, err
	}
	// Encode a normalized copy so callers never see their graph mutated.
	c := g.Clone()
	c.Normalize()
	doc := document{Nodes: c.Nodes}

	switch f {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to marshal graph: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal graph: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON, "":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal graph: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown graph format %q", f)
	}
}

func checkUTF8(g *domain.Graph) error {
	for i, n := range g.Nodes {
		if n == nil {
			continue
		}
		for _, s := range []string{n.ID, n.Text, n.NextID} {
			if !utf8.ValidString(s) {
				return fmt.Errorf("failed to marshal graph: node %d %q: %w", i, n.ID, ErrInvalidUTF8)
			}
		}
		for j, c := range n.Choices {
			if !utf8.ValidString(c.Text) || !utf8.ValidString(c.TargetNodeID) {
				return fmt.Errorf("failed to marshal graph: node %d %q choice %d: %w", i, n.ID, j, ErrInvalidUTF8)
			}
		}
	}
	return nil
}

// Unmarshal parses a persisted graph. Malformed input yields a *ParseError
// and a nil graph.
func Unmarshal(data []byte, f Format) (*domain.Graph, error) {
	if f == "" {
		f = FormatJSON
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Format: f, Err: ErrEmptyDocument}
	}

	var doc document
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &ParseError{Format: f, Err: err}
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &ParseError{Format: f, Err: err}
		}
	default:
		return nil, fmt.Errorf("unknown graph format %q", f)
	}

	g := &domain.Graph{Nodes: doc.Nodes}
	g.Normalize()
	return g, nil
}

// Encode writes the serialized graph to w.
func Encode(w io.Writer, g *domain.Graph, f Format) error {
	data, err := Marshal(g, f)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write graph: %w", err)
	}
	return nil
}

// Decode reads a whole document from r and parses it.
func Decode(r io.Reader, f Format) (*domain.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph: %w", err)
	}
	return Unmarshal(data, f)
}
