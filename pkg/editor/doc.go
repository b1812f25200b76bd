/*
Package editor implements the interaction core of the dialogue graph editor.

A Session owns one graph and turns pointer events into graph edits through a
small state machine:

	Idle --primary down on node body--> DraggingNode --primary up--> Idle
	Idle --primary down on resize handle--> ResizingNode --any up--> Idle
	Idle --secondary down--> PanningCanvas --secondary up--> Idle

The host supplies the window: it forwards PointerEvents, repaints when asked,
draws what Session.Draw emits on a Canvas, and answers file Dialog prompts.
Every node gets a stable Handle that survives reordering and removal, so hosts
never need to key their widgets by slice position.

A Session is not safe for concurrent use; hosts deliver events one at a time.
*/
package editor
