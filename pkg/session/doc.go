/*
Package session coordinates playback sessions shared by concurrent hosts.

A Manager serializes access to each session through a reference-counted lock
map, optionally backed by a distributed lock so several server replicas can
share one state store. Play and Start load a session's PlaybackState, run a
player.Engine against it and persist the result in one locked step.
*/
package session
