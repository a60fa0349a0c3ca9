package otglyph

import (
	"github.com/npillmayer/glyphpath/ot"
)

// Location is a position in a variable font's design space, mapping axis
// tags to user-scale values, e.g.
//
//	otglyph.Location{ot.T("wght"): 600, ot.T("wdth"): 85}
//
// Axes not present in the location stay at their default value; values
// outside an axis' range are clamped to it. For non-variable fonts a
// location is ignored. A nil Location means the default outlines.
type Location map[ot.Tag]float64

// Decoder extracts glyph outlines from a font. It is safe for concurrent
// use: decoding only ever reads from the underlying font data.
type Decoder struct {
	otf       *ot.Font
	glyf      []byte
	loca      *ot.LocaTable
	hmtx      *ot.HMtxTable
	numGlyphs int
}

// NewDecoder creates an outline decoder for a parsed font. The font must
// carry the tables needed for TrueType outline extraction ('glyf', 'loca',
// 'maxp', 'head', 'hmtx'); otherwise an application error with code
// core.EMISSING is returned.
func NewDecoder(otf *ot.Font) (*Decoder, error) {
	if otf == nil {
		return nil, errMissingTable("glyf")
	}
	switch {
	case otf.Outline.Glyf == nil:
		return nil, errMissingTable("glyf")
	case otf.Outline.Loca == nil:
		return nil, errMissingTable("loca")
	case otf.Outline.MaxP == nil:
		return nil, errMissingTable("maxp")
	case otf.Outline.Head == nil:
		return nil, errMissingTable("head")
	case otf.Outline.HMtx == nil:
		return nil, errMissingTable("hmtx")
	}
	return &Decoder{
		otf:       otf,
		glyf:      otf.Outline.Glyf.Binary(),
		loca:      otf.Outline.Loca,
		hmtx:      otf.Outline.HMtx,
		numGlyphs: otf.NumGlyphs(),
	}, nil
}

// Outline decodes the outline of a glyph, interpolated at a design-space
// location. Glyphs without outline data (e.g. the space character) yield
// an outline with zero contours.
func (d *Decoder) Outline(gid ot.GlyphIndex, loc Location) (*Outline, error) {
	if int(gid) >= d.numGlyphs {
		return nil, ot.ErrDecode(ot.UnknownGlyphID, "glyph ID %d outside of glyph count %d",
			gid, d.numGlyphs)
	}
	coords := d.normalizedCoords(loc)
	z, err := d.glyphZone(gid, coords, 0)
	if err != nil {
		tracer().Errorf("glyph %d: %v", gid, err)
		return nil, err
	}
	n := len(z.points) - phantomCount
	// The left phantom point captures the origin shift a variation may
	// have introduced; outline points are reported relative to it.
	shift := z.points[n].X
	out := &Outline{Points: make([]Point, n), Ends: z.ends}
	for i := 0; i < n; i++ {
		out.Points[i] = z.points[i]
		out.Points[i].X -= shift
	}
	return out, nil
}

// Path decodes the outline of a glyph and converts it into path commands.
// It is shorthand for calling Outline followed by Outline.Path.
func (d *Decoder) Path(gid ot.GlyphIndex, loc Location) ([]PathCommand, error) {
	outline, err := d.Outline(gid, loc)
	if err != nil {
		return nil, err
	}
	return outline.Path(), nil
}

// Advance returns the horizontal advance width of a glyph in font units,
// adjusted for the design-space location if the font is variable.
func (d *Decoder) Advance(gid ot.GlyphIndex, loc Location) (float64, error) {
	if int(gid) >= d.numGlyphs {
		return 0, ot.ErrDecode(ot.UnknownGlyphID, "glyph ID %d outside of glyph count %d",
			gid, d.numGlyphs)
	}
	coords := d.normalizedCoords(loc)
	z, err := d.glyphZone(gid, coords, 0)
	if err != nil {
		return 0, err
	}
	n := len(z.points) - phantomCount
	return z.points[n+1].X - z.points[n].X, nil
}

// Every glyph carries four phantom points (origin, advance, top, bottom),
// which participate in variation interpolation but are not part of the
// outline.
const phantomCount = 4

const maxCompositeDepth = 8

// glyphZone is a glyph's point array during decoding: the contour points
// followed by the four phantom points.
type glyphZone struct {
	points []Point
	ends   []int
}

func (d *Decoder) glyphZone(gid ot.GlyphIndex, coords []float64, depth int) (glyphZone, error) {
	if depth > maxCompositeDepth {
		return glyphZone{}, ot.ErrDecode(ot.CompositeCycle,
			"composite glyph nesting deeper than %d levels", maxCompositeDepth)
	}
	if int(gid) >= d.numGlyphs {
		return glyphZone{}, ot.ErrDecode(ot.UnknownGlyphID, "composite glyph references glyph ID %d", gid)
	}
	start, end, ok := d.loca.GlyphRange(gid)
	if !ok {
		return glyphZone{}, ot.ErrDecode(ot.TruncatedData, "loca entry for glyph %d unreadable", gid)
	}
	if int(end) > len(d.glyf) {
		return glyphZone{}, ot.ErrDecode(ot.TruncatedData,
			"glyph %d data extends past 'glyf' table", gid)
	}
	if start == end { // glyph without outline data
		z := glyphZone{}
		d.appendPhantoms(&z, gid, 0)
		if err := d.applyVariation(gid, &z, coords, false); err != nil {
			return glyphZone{}, err
		}
		return z, nil
	}
	data := d.glyf[start:end]
	if len(data) < 10 {
		return glyphZone{}, ot.ErrDecode(ot.TruncatedData, "glyph %d header truncated", gid)
	}
	contourCount := gI16(data, 0)
	xMin := gI16(data, 2)
	if contourCount >= 0 {
		z, err := d.simpleGlyph(gid, data, int(contourCount))
		if err != nil {
			return glyphZone{}, err
		}
		d.appendPhantoms(&z, gid, float64(xMin))
		if err := d.applyVariation(gid, &z, coords, true); err != nil {
			return glyphZone{}, err
		}
		return z, nil
	}
	return d.compositeGlyph(gid, data, coords, float64(xMin), depth)
}

// appendPhantoms appends the four phantom points for a glyph. The first is
// the glyph origin (xMin shifted left by the side bearing), the second the
// advance-width point. Vertical metrics are not interpreted, so the top
// and bottom phantoms sit at the origin.
func (d *Decoder) appendPhantoms(z *glyphZone, gid ot.GlyphIndex, xMin float64) {
	advance, lsb := d.hmtx.Metrics(gid)
	left := xMin - float64(lsb)
	z.points = append(z.points,
		Point{Pt: Pt{X: left}},
		Point{Pt: Pt{X: left + float64(advance)}},
		Point{},
		Point{},
	)
}

// Simple glyph description flags.
const (
	flagOnCurve      = 0x01
	flagXShort       = 0x02
	flagYShort       = 0x04
	flagRepeat       = 0x08
	flagXSameOrPlus  = 0x10
	flagYSameOrPlus  = 0x20
)

// simpleGlyph decodes a simple glyph description: contour end indices,
// a flag per point, and delta-encoded x and y coordinates.
func (d *Decoder) simpleGlyph(gid ot.GlyphIndex, data []byte, contourCount int) (glyphZone, error) {
	var z glyphZone
	pos := 10
	if len(data) < pos+contourCount*2+2 {
		return z, ot.ErrDecode(ot.TruncatedData, "glyph %d contour ends truncated", gid)
	}
	z.ends = make([]int, contourCount)
	prev := -1
	for i := 0; i < contourCount; i++ {
		e := int(gU16(data, pos))
		if e < prev {
			return z, ot.ErrDecode(ot.MalformedContour,
				"glyph %d: contour end %d after end %d", gid, e, prev)
		}
		prev = e
		z.ends[i] = e + 1
		pos += 2
	}
	pointCount := 0
	if contourCount > 0 {
		pointCount = z.ends[contourCount-1]
	}
	instructionLength := int(gU16(data, pos))
	pos += 2 + instructionLength // hinting instructions are not interpreted
	// Flags, with the repeat shorthand expanded.
	flags := make([]byte, pointCount)
	for i := 0; i < pointCount; {
		if pos >= len(data) {
			return z, ot.ErrDecode(ot.TruncatedData, "glyph %d point flags truncated", gid)
		}
		f := data[pos]
		pos++
		flags[i] = f
		i++
		if f&flagRepeat != 0 {
			if pos >= len(data) {
				return z, ot.ErrDecode(ot.TruncatedData, "glyph %d point flags truncated", gid)
			}
			for n := int(data[pos]); n > 0 && i < pointCount; n-- {
				flags[i] = f
				i++
			}
			pos++
		}
	}
	z.points = make([]Point, pointCount, pointCount+phantomCount)
	// X coordinates: shorts are unsigned with a sign flag, words are
	// signed deltas, and the same-or-positive flag doubles as a skip
	// marker for words.
	var x int32
	for i := 0; i < pointCount; i++ {
		f := flags[i]
		switch {
		case f&flagXShort != 0:
			if pos >= len(data) {
				return z, ot.ErrDecode(ot.TruncatedData, "glyph %d x coordinates truncated", gid)
			}
			dx := int32(data[pos])
			pos++
			if f&flagXSameOrPlus == 0 {
				dx = -dx
			}
			x += dx
		case f&flagXSameOrPlus == 0:
			if pos+2 > len(data) {
				return z, ot.ErrDecode(ot.TruncatedData, "glyph %d x coordinates truncated", gid)
			}
			x += int32(gI16(data, pos))
			pos += 2
		}
		z.points[i].X = float64(x)
		z.points[i].OnCurve = f&flagOnCurve != 0
	}
	var y int32
	for i := 0; i < pointCount; i++ {
		f := flags[i]
		switch {
		case f&flagYShort != 0:
			if pos >= len(data) {
				return z, ot.ErrDecode(ot.TruncatedData, "glyph %d y coordinates truncated", gid)
			}
			dy := int32(data[pos])
			pos++
			if f&flagYSameOrPlus == 0 {
				dy = -dy
			}
			y += dy
		case f&flagYSameOrPlus == 0:
			if pos+2 > len(data) {
				return z, ot.ErrDecode(ot.TruncatedData, "glyph %d y coordinates truncated", gid)
			}
			y += int32(gI16(data, pos))
			pos += 2
		}
		z.points[i].Y = float64(y)
	}
	return z, nil
}

// Composite glyph component flags.
const (
	cfArgsAreWords        = 0x0001
	cfArgsAreXYValues     = 0x0002
	cfHaveScale           = 0x0008
	cfMoreComponents      = 0x0020
	cfHaveXYScale         = 0x0040
	cfHave2x2             = 0x0080
	cfUseMyMetrics        = 0x0200
	cfScaledComponentOffs = 0x0800
)

type component struct {
	gid            ot.GlyphIndex
	flags          uint16
	dx, dy         float64 // offset, if args are x/y values
	parentPoint    int     // anchor points, if args are point numbers
	childPoint     int
	xx, xy, yx, yy float64 // 2x2 transform
}

// compositeGlyph decodes a composite glyph: a list of component glyphs,
// each placed by an offset or anchor-point pair and an optional transform.
// Variation deltas of a composite glyph adjust the component offsets, one
// pseudo-point per component.
func (d *Decoder) compositeGlyph(gid ot.GlyphIndex, data []byte, coords []float64,
	xMin float64, depth int) (glyphZone, error) {
	//
	var components []component
	pos := 10
	for {
		if pos+4 > len(data) {
			return glyphZone{}, ot.ErrDecode(ot.TruncatedData, "glyph %d component truncated", gid)
		}
		flags := gU16(data, pos)
		comp := component{
			gid:   ot.GlyphIndex(gU16(data, pos+2)),
			flags: flags,
			xx:    1, yy: 1,
		}
		pos += 4
		argLen := 2
		if flags&cfArgsAreWords != 0 {
			argLen = 4
		}
		if pos+argLen > len(data) {
			return glyphZone{}, ot.ErrDecode(ot.TruncatedData, "glyph %d component truncated", gid)
		}
		if flags&cfArgsAreXYValues != 0 {
			if flags&cfArgsAreWords != 0 {
				comp.dx = float64(gI16(data, pos))
				comp.dy = float64(gI16(data, pos+2))
			} else {
				comp.dx = float64(int8(data[pos]))
				comp.dy = float64(int8(data[pos+1]))
			}
		} else {
			if flags&cfArgsAreWords != 0 {
				comp.parentPoint = int(gU16(data, pos))
				comp.childPoint = int(gU16(data, pos+2))
			} else {
				comp.parentPoint = int(data[pos])
				comp.childPoint = int(data[pos+1])
			}
		}
		pos += argLen
		switch {
		case flags&cfHaveScale != 0:
			if pos+2 > len(data) {
				return glyphZone{}, ot.ErrDecode(ot.TruncatedData, "glyph %d component truncated", gid)
			}
			s := f2dot14(gI16(data, pos))
			comp.xx, comp.yy = s, s
			pos += 2
		case flags&cfHaveXYScale != 0:
			if pos+4 > len(data) {
				return glyphZone{}, ot.ErrDecode(ot.TruncatedData, "glyph %d component truncated", gid)
			}
			comp.xx = f2dot14(gI16(data, pos))
			comp.yy = f2dot14(gI16(data, pos+2))
			pos += 4
		case flags&cfHave2x2 != 0:
			if pos+8 > len(data) {
				return glyphZone{}, ot.ErrDecode(ot.TruncatedData, "glyph %d component truncated", gid)
			}
			comp.xx = f2dot14(gI16(data, pos))
			comp.xy = f2dot14(gI16(data, pos+2))
			comp.yx = f2dot14(gI16(data, pos+4))
			comp.yy = f2dot14(gI16(data, pos+6))
			pos += 8
		}
		components = append(components, comp)
		if flags&cfMoreComponents == 0 {
			break
		}
	}
	// Variation pseudo-zone: one point per component offset, plus the
	// phantom points. No delta inference applies to composites.
	pseudo := glyphZone{points: make([]Point, 0, len(components)+phantomCount)}
	for _, comp := range components {
		pseudo.points = append(pseudo.points, Point{Pt: Pt{X: comp.dx, Y: comp.dy}})
	}
	d.appendPhantoms(&pseudo, gid, xMin)
	if err := d.applyVariation(gid, &pseudo, coords, false); err != nil {
		return glyphZone{}, err
	}
	var z glyphZone
	var metricPhantoms []Point
	for i, comp := range components {
		child, err := d.glyphZone(comp.gid, coords, depth+1)
		if err != nil {
			return glyphZone{}, err
		}
		if comp.flags&cfUseMyMetrics != 0 && metricPhantoms == nil {
			// The composite inherits this component's advance and lsb.
			metricPhantoms = append([]Point(nil),
				child.points[len(child.points)-phantomCount:]...)
		}
		pts := child.points[:len(child.points)-phantomCount]
		for j := range pts {
			x, y := pts[j].X, pts[j].Y
			pts[j].X = comp.xx*x + comp.yx*y
			pts[j].Y = comp.xy*x + comp.yy*y
		}
		var off Pt
		if comp.flags&cfArgsAreXYValues != 0 {
			off = pseudo.points[i].Pt
			if comp.flags&cfScaledComponentOffs != 0 && comp.flags&cfHave2x2 == 0 {
				off = Pt{
					X: comp.xx*off.X + comp.yx*off.Y,
					Y: comp.xy*off.X + comp.yy*off.Y,
				}
			}
		} else {
			// Anchor alignment: move the child so that its anchor point
			// coincides with a point already placed in the parent.
			if comp.parentPoint >= len(z.points) || comp.childPoint >= len(pts) {
				return glyphZone{}, ot.ErrDecode(ot.MalformedContour,
					"glyph %d: component anchor points out of range", gid)
			}
			parent := z.points[comp.parentPoint].Pt
			anchor := pts[comp.childPoint].Pt
			off = Pt{X: parent.X - anchor.X, Y: parent.Y - anchor.Y}
		}
		base := len(z.points)
		for _, p := range pts {
			p.X += off.X
			p.Y += off.Y
			z.points = append(z.points, p)
		}
		for _, e := range child.ends {
			z.ends = append(z.ends, base+e)
		}
	}
	if metricPhantoms != nil {
		z.points = append(z.points, metricPhantoms...)
	} else {
		z.points = append(z.points, pseudo.points[len(pseudo.points)-phantomCount:]...)
	}
	return z, nil
}

// --- Raw data access -------------------------------------------------------

// Callers bounds-check before reading.

func gU16(b []byte, i int) uint16 {
	return uint16(b[i])<<8 | uint16(b[i+1])
}

func gI16(b []byte, i int) int16 {
	return int16(gU16(b, i))
}

func f2dot14(v int16) float64 {
	return float64(v) / 16384
}
