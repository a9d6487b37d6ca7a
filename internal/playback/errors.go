package playback

import "errors"

var (
	// ErrEmptyStore indicates a controller built over no scenarios.
	ErrEmptyStore = errors.New("playback: scenario store is empty")

	// ErrClosed indicates use of a closed Player.
	ErrClosed = errors.New("playback: player closed")
)
