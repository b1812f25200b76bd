/*
Package parley is a branching-dialogue toolkit: a graph model for dialogue
trees, an editor interaction engine for laying them out, and a playback
engine that walks them.

A dialogue is a graph of nodes. Each node holds text and a list of labeled
choices leading to other nodes; a node without choices may name a next node
instead. The editor (pkg/editor) turns raw pointer events into node moves,
resizes and canvas pans, and computes the curves connecting choices to their
targets. The player (pkg/player) shows a node, reveals its choices on
continue and follows the one picked. Hosts supply the surfaces: a terminal
editor and player, an HTTP API and an MCP server ship in this module.

# Usage

	g, err := parley.Open(ctx, "dialogue.json")
	if err != nil {
		log.Fatal(err)
	}

	r := parley.NewRunner(runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)))
	if err := r.Run(ctx, g, "1"); err != nil {
		log.Fatal(err)
	}

Graphs are stored as JSON or YAML (pkg/codec), on disk (pkg/adapters/file)
or in Redis (pkg/adapters/redis). Playback sessions are persisted through
pkg/session so several hosts can share them.
*/
package parley
