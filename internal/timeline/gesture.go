package timeline

import "github.com/alexanderramin/studyplan/internal/domain"

// SelectThresholdPercent is the smallest selection that creates an item.
const SelectThresholdPercent = 2.0

// Phase is the stage of a pointer event.
type Phase int

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
	PhaseLeave
)

// TargetKind identifies what the pointer was over when pressed.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetTrack
	TargetItemBody
	TargetStartHandle
	TargetEndHandle
)

// Target is the hit-test result supplied by the renderer.
type Target struct {
	Kind   TargetKind
	ItemID string
}

// PointerEvent is one pointer sample in the coordinate space of the track.
type PointerEvent struct {
	X, Y   float64
	Phase  Phase
	Target Target
}

// Rect is the bounding box of the rendered track.
type Rect struct {
	X, Y, Width, Height float64
}

// Percent converts an x coordinate into a track percentage in [0, 100].
func (r Rect) Percent(x float64) float64 {
	if r.Width <= 0 {
		return 0
	}
	return clampFloat((x-r.X)/r.Width*100, 0, 100)
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Edge is the bound a resize gesture moves.
type Edge int

const (
	EdgeStart Edge = iota
	EdgeEnd
)

func (e Edge) String() string {
	if e == EdgeEnd {
		return "end"
	}
	return "start"
}

// Gesture is the single active interaction. Exactly one of Idle,
// SelectingRange, Resizing or Moving.
type Gesture interface {
	gesture()
}

// Idle means no pointer button is held.
type Idle struct{}

// SelectingRange sweeps out a new interval on the creation track.
type SelectingRange struct {
	Start float64
	End   float64
}

// Resizing drags one bound of an existing item.
type Resizing struct {
	Edge      Edge
	ItemID    string
	OriginPct float64
	Origin    domain.Schedule
}

// Moving shifts an item, keeping its duration.
type Moving struct {
	ItemID    string
	OriginPct float64
	Origin    domain.Schedule
}

func (Idle) gesture()           {}
func (SelectingRange) gesture() {}
func (Resizing) gesture()       {}
func (Moving) gesture()         {}
