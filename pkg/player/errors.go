package player

import "errors"

// ErrNotStarted is returned when input arrives before the first Start.
var ErrNotStarted = errors.New("playback not started")
