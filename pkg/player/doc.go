/*
Package player walks a dialogue graph for a reader.

An Engine owns a private copy of the graph and a PlaybackState. Hosts drive
it through two input ports, OnContinue and OnChoose, and receive output
through a Presenter:

	Start(id) --> Displaying(node) --OnContinue--> choices presented
	                  |                                 |
	                  | no choices, nextId set          | OnChoose(i)
	                  v                                 v
	             Start(nextId)                   Start(target)

Starting a node that does not exist ends playback. A node with neither choices
nor a next id stalls: further continues do nothing.
*/
package player
