package fontbuild

// GlyphPoint is one contour point of a glyph under construction.
type GlyphPoint struct {
	X, Y int16
	On   bool // on-curve point
}

// SimpleGlyph encodes a simple glyph description from its contours. The
// bounding box is computed from the points; coordinates are always written
// as 16-bit deltas, no flag compression is attempted. The result is padded
// to even length so it can be addressed by a short 'loca' table.
func SimpleGlyph(contours ...[]GlyphPoint) []byte {
	var pts []GlyphPoint
	var ends []int
	for _, c := range contours {
		pts = append(pts, c...)
		ends = append(ends, len(pts)-1)
	}
	minX, minY, maxX, maxY := int16(0), int16(0), int16(0), int16(0)
	if len(pts) > 0 {
		minX, minY, maxX, maxY = pts[0].X, pts[0].Y, pts[0].X, pts[0].Y
		for _, p := range pts[1:] {
			if p.X < minX {
				minX = p.X
			}
			if p.X > maxX {
				maxX = p.X
			}
			if p.Y < minY {
				minY = p.Y
			}
			if p.Y > maxY {
				maxY = p.Y
			}
		}
	}
	g := make([]byte, 0, 10+len(pts)*5)
	g = appendU16(g, uint16(len(contours)))
	g = appendU16(g, uint16(minX))
	g = appendU16(g, uint16(minY))
	g = appendU16(g, uint16(maxX))
	g = appendU16(g, uint16(maxY))
	for _, e := range ends {
		g = appendU16(g, uint16(e))
	}
	g = appendU16(g, 0) // no instructions
	for _, p := range pts {
		var f byte
		if p.On {
			f = 0x01
		}
		g = append(g, f)
	}
	x := int16(0)
	for _, p := range pts {
		g = appendU16(g, uint16(p.X-x))
		x = p.X
	}
	y := int16(0)
	for _, p := range pts {
		g = appendU16(g, uint16(p.Y-y))
		y = p.Y
	}
	if len(g)%2 != 0 {
		g = append(g, 0)
	}
	return g
}

// Component is one entry of a composite glyph.
type Component struct {
	GlyphID uint16
	DX, DY  int16
	Scale   float64 // uniform scale; 0 means none
}

// CompositeGlyph encodes a composite glyph referencing the given
// components, with word-sized x/y offsets.
func CompositeGlyph(bbox [4]int16, components ...Component) []byte {
	g := make([]byte, 0, 10+len(components)*8)
	g = appendU16(g, 0xffff) // numberOfContours = -1
	for _, v := range bbox {
		g = appendU16(g, uint16(v))
	}
	for i, comp := range components {
		flags := uint16(0x0001 | 0x0002) // words, args are x/y values
		if comp.Scale != 0 {
			flags |= 0x0008
		}
		if i < len(components)-1 {
			flags |= 0x0020 // more components
		}
		g = appendU16(g, flags)
		g = appendU16(g, comp.GlyphID)
		g = appendU16(g, uint16(comp.DX))
		g = appendU16(g, uint16(comp.DY))
		if comp.Scale != 0 {
			g = appendU16(g, uint16(int16(comp.Scale*16384)))
		}
	}
	return g
}

// GlyfTable concatenates encoded glyph descriptions into a 'glyf' table
// and returns the table plus the offsets array for the matching 'loca'
// table (len(glyphs)+1 entries).
func GlyfTable(glyphs ...[]byte) (table []byte, offsets []uint32) {
	offsets = make([]uint32, 0, len(glyphs)+1)
	offsets = append(offsets, 0)
	for _, g := range glyphs {
		table = append(table, g...)
		offsets = append(offsets, uint32(len(table)))
	}
	return table, offsets
}
