/*
Package ports defines the driven ports (interfaces) of parley.

These interfaces decouple the editor and the player from concrete storage, so
the same core works against the filesystem, memory or Redis.

# Key Interfaces

  - GraphStore: saves and loads whole dialogue graphs by name.
  - StateStore: persists playback session state for the multi-session hosts.
  - DistributedLocker: coordinates session access across server replicas.
*/
package ports
