package schema

import "errors"

var (
	// ErrInvalidConfig indicates the bridge configuration is unusable.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrEmptyPrompt indicates the rendered prompt was empty.
	ErrEmptyPrompt = errors.New("empty prompt")
	// ErrSurfaceGone indicates the surface was destroyed before the
	// operation could act on it.
	ErrSurfaceGone = errors.New("surface gone")
	// ErrHostUnavailable indicates the display host cannot be reached.
	ErrHostUnavailable = errors.New("display host unavailable")
	// ErrInvalidRange indicates a malformed line range.
	ErrInvalidRange = errors.New("invalid line range")
)
