// Package validator checks the links of a dialogue graph.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/parley/pkg/domain"
)

// Severity ranks an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single finding.
type Issue struct {
	Severity Severity `json:"severity"`
	NodeID   string   `json:"node_id,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.NodeID == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: node %q: %s", i.Severity, i.NodeID, i.Message)
}

// Report lists the findings in graph order.
type Report struct {
	Issues []Issue `json:"issues"`
}

// Errors counts issues of SeverityError.
func (r *Report) Errors() int {
	return r.count(SeverityError)
}

// Warnings counts issues of SeverityWarning.
func (r *Report) Warnings() int {
	return r.count(SeverityWarning)
}

func (r *Report) count(s Severity) int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == s {
			n++
		}
	}
	return n
}

// Err returns nil when the report has no errors.
func (r *Report) Err() error {
	if r.Errors() == 0 {
		return nil
	}
	lines := make([]string, 0, len(r.Issues))
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			lines = append(lines, i.String())
		}
	}
	return fmt.Errorf("found %d errors:\n- %s", len(lines), strings.Join(lines, "\n- "))
}

func (r *Report) add(s Severity, nodeID, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: s, NodeID: nodeID, Message: fmt.Sprintf(format, args...)})
}

// Inspect checks every link in g. Missing start nodes, duplicate ids and
// links to missing nodes are errors. Unset choice targets and next links
// shadowed by choices are warnings. Reachability is not checked.
func Inspect(g *domain.Graph, startNodeID string) *Report {
	r := &Report{}

	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seen[n.ID] {
			r.add(SeverityError, n.ID, "duplicate id, lookups resolve to the first node")
		}
		seen[n.ID] = true
	}

	for _, n := range g.Nodes {
		for i, c := range n.Choices {
			switch {
			case !c.HasTarget():
				r.add(SeverityWarning, n.ID, "choice %d (%q) has no target", i+1, c.Text)
			case !seen[c.TargetNodeID]:
				r.add(SeverityError, n.ID, "choice %d (%q) targets missing node %q", i+1, c.Text, c.TargetNodeID)
			}
		}
		if n.NextID == "" {
			continue
		}
		if len(n.Choices) > 0 {
			r.add(SeverityWarning, n.ID, "next %q is ignored because the node has choices", n.NextID)
		} else if !seen[n.NextID] {
			r.add(SeverityError, n.ID, "next targets missing node %q", n.NextID)
		}
	}

	if _, ok := g.FindNode(startNodeID); !ok {
		r.add(SeverityError, "", "start node %q not found", startNodeID)
	}
	return r
}

// ValidateGraph returns an error listing every error-level issue in g.
func ValidateGraph(g *domain.Graph, startNodeID string) error {
	return Inspect(g, startNodeID).Err()
}
