package otglyph

import "fmt"

// Pt is a point in the font's coordinate system, i.e. in font units with
// the y-axis pointing up. Variable-font interpolation produces fractional
// coordinates, therefore float64.
type Pt struct {
	X, Y float64
}

// Point is one outline point of a glyph contour. Off-curve points are
// quadratic Bézier control points.
type Point struct {
	Pt
	OnCurve bool
}

// Outline is the decoded outline of a single glyph: a flat list of points
// partitioned into contours. Ends[i] is the index one past the last point
// of contour i.
type Outline struct {
	Points []Point
	Ends   []int
}

// Contour returns the points of contour i.
func (o *Outline) Contour(i int) []Point {
	if i < 0 || i >= len(o.Ends) {
		return nil
	}
	start := 0
	if i > 0 {
		start = o.Ends[i-1]
	}
	return o.Points[start:o.Ends[i]]
}

// ContourCount returns the number of contours of the outline.
func (o *Outline) ContourCount() int {
	return len(o.Ends)
}

// --- Path commands ---------------------------------------------------------

// PathOp is the operation of a path command.
type PathOp int

// Path operations, mirroring the usual graphics-path vocabulary. TrueType
// outlines only ever produce quadratic curve segments.
const (
	MoveTo PathOp = iota // start a new contour at To
	LineTo               // straight segment to To
	QuadTo               // quadratic Bézier via Ctrl to To
	ClosePath            // close the current contour
)

func (op PathOp) String() string {
	switch op {
	case MoveTo:
		return "MoveTo"
	case LineTo:
		return "LineTo"
	case QuadTo:
		return "QuadTo"
	case ClosePath:
		return "ClosePath"
	}
	return fmt.Sprintf("PathOp(%d)", int(op))
}

// PathCommand is one segment of a glyph's path. Ctrl is only meaningful
// for QuadTo; To is unused for ClosePath.
type PathCommand struct {
	Op   PathOp
	To   Pt
	Ctrl Pt
}

func (cmd PathCommand) String() string {
	switch cmd.Op {
	case QuadTo:
		return fmt.Sprintf("QuadTo(%g,%g %g,%g)", cmd.Ctrl.X, cmd.Ctrl.Y, cmd.To.X, cmd.To.Y)
	case ClosePath:
		return "ClosePath"
	}
	return fmt.Sprintf("%s(%g,%g)", cmd.Op, cmd.To.X, cmd.To.Y)
}

// Path converts the outline's contours into a flat list of path commands.
//
// Every non-degenerate contour produces a MoveTo, a sequence of LineTo and
// QuadTo segments, and a ClosePath. Implied on-curve points halfway between
// consecutive control points are resolved into explicit QuadTo targets.
// Contours with fewer than two points render nothing.
func (o *Outline) Path() []PathCommand {
	var cmds []PathCommand
	for i := 0; i < len(o.Ends); i++ {
		cmds = appendContourPath(cmds, o.Contour(i))
	}
	return cmds
}

func midpoint(a, b Pt) Pt {
	return Pt{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// appendContourPath emits the path commands for a single contour.
//
// The contour start depends on where on-curve points sit: if the first
// point is off-curve, the contour starts at the last point if that one is
// on-curve, or at the implied midpoint of first and last point if both are
// control points.
func appendContourPath(cmds []PathCommand, pts []Point) []PathCommand {
	if len(pts) < 2 {
		return cmds
	}
	first, last := pts[0], pts[len(pts)-1]
	var start Pt
	switch {
	case first.OnCurve:
		start = first.Pt
		pts = pts[1:]
	case last.OnCurve:
		start = last.Pt
		pts = pts[:len(pts)-1]
	default:
		start = midpoint(first.Pt, last.Pt)
	}
	cmds = append(cmds, PathCommand{Op: MoveTo, To: start})
	var ctrl Pt
	pending := false // a control point is waiting for its curve target
	for _, p := range pts {
		if p.OnCurve {
			if pending {
				cmds = append(cmds, PathCommand{Op: QuadTo, Ctrl: ctrl, To: p.Pt})
				pending = false
			} else {
				cmds = append(cmds, PathCommand{Op: LineTo, To: p.Pt})
			}
		} else {
			if pending {
				mid := midpoint(ctrl, p.Pt)
				cmds = append(cmds, PathCommand{Op: QuadTo, Ctrl: ctrl, To: mid})
			}
			ctrl = p.Pt
			pending = true
		}
	}
	if pending {
		cmds = append(cmds, PathCommand{Op: QuadTo, Ctrl: ctrl, To: start})
	}
	return append(cmds, PathCommand{Op: ClosePath})
}
