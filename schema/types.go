package schema

// SurfaceID identifies a display surface owned by the host.
type SurfaceID string

// ProcessID identifies a subprocess attached to a display surface.
type ProcessID int

// Surface describes a display surface and the subprocess it hosts.
// A PID of zero means no subprocess is attached.
type Surface struct {
	ID    SurfaceID
	PID   ProcessID
	Title string
}

// LineRange is an inclusive, 1-indexed span of lines.
type LineRange struct {
	Start int
	End   int
}

// NewLineRange builds a normalized range from two line numbers in any order.
func NewLineRange(a, b int) LineRange {
	if a > b {
		a, b = b, a
	}
	return LineRange{Start: a, End: b}
}

// Normalized returns the range with Start <= End.
func (r LineRange) Normalized() LineRange {
	return NewLineRange(r.Start, r.End)
}

// Single reports whether the range covers exactly one line.
func (r LineRange) Single() bool {
	return r.Start == r.End
}

// EditorContext snapshots the editor state a request was captured with.
// Range is nil when the request originated outside a selection; it is
// only meaningful for the request it was captured with.
type EditorContext struct {
	Path  string
	Line  int
	Range *LineRange
}

// SelectionRange returns the normalized selection bounds, or nil when
// no selection was captured.
func (c EditorContext) SelectionRange() *LineRange {
	if c.Range == nil {
		return nil
	}
	r := c.Range.Normalized()
	return &r
}
