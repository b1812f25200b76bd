/*
Package codec converts a dialogue graph to and from its persisted text form.

The document holds a single "nodes" array; each entry carries id, text,
nextId, choices and rect. There is no schema version and no migration path.
JSON is the default format, YAML is accepted for hand-authored graphs.

Decoding never partially succeeds: callers receive either a complete graph or
a *ParseError, and should keep their current graph in the latter case.
*/
package codec
