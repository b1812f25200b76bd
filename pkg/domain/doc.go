/*
Package domain contains the core models of a parley dialogue graph.

It defines the entities the editor mutates and the player walks: Nodes,
Choices and the Graph that orders them, together with the geometry the editor
needs to place nodes on a canvas. This package is kept pure and free of I/O;
persistence lives in codec and the adapters, presentation in the hosts.

# Key Entities

  - Node: a unit of dialogue text with an optional linear successor (NextID) and
    optional branching Choices, placed on the canvas by its Rect.
  - Choice: a labeled branch owned by exactly one Node.
  - Graph: the insertion-ordered collection of Nodes.
  - PlaybackState: a serializable snapshot of a playback session.
*/
package domain
