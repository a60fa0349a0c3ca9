package fontbuild

// Axis declares one design-space axis for an 'fvar' table under
// construction.
type Axis struct {
	Tag           string
	Min, Def, Max float64
	NameID        uint16
}

// FVar builds an 'fvar' table from axis declarations, without named
// instances.
func FVar(axes ...Axis) []byte {
	t := make([]byte, 0, 16+len(axes)*20)
	t = appendU16(t, 1) // major version
	t = appendU16(t, 0)
	t = appendU16(t, 16) // axes array offset
	t = appendU16(t, 2)  // reserved
	t = appendU16(t, uint16(len(axes)))
	t = appendU16(t, 20) // axis record size
	t = appendU16(t, 0)  // instance count
	t = appendU16(t, 0)
	for _, ax := range axes {
		tag := (ax.Tag + "    ")[:4]
		t = append(t, tag...)
		t = appendU32(t, uint32(int32(ax.Min*65536)))
		t = appendU32(t, uint32(int32(ax.Def*65536)))
		t = appendU32(t, uint32(int32(ax.Max*65536)))
		t = appendU16(t, 0) // flags
		t = appendU16(t, ax.NameID)
	}
	return t
}

// Tuple is one tuple variation of a glyph under construction. Peak holds
// normalized coordinates (one per axis); Points lists the affected point
// numbers, nil meaning all points of the glyph including phantoms.
type Tuple struct {
	Peak    []float64
	Points  []uint16
	DeltasX []int16
	DeltasY []int16
}

// GlyphVariation serializes the variation data of one glyph: tuple headers
// with embedded peaks followed by the serialized point numbers and deltas.
func GlyphVariation(tuples ...Tuple) []byte {
	var bodies [][]byte
	for _, tv := range tuples {
		var body []byte
		if tv.Points != nil {
			body = appendPackedPoints(body, tv.Points)
		}
		body = appendPackedDeltas(body, tv.DeltasX)
		body = appendPackedDeltas(body, tv.DeltasY)
		bodies = append(bodies, body)
	}
	headerSize := 4
	for _, tv := range tuples {
		headerSize += 4 + len(tv.Peak)*2
	}
	data := make([]byte, 0, headerSize)
	data = appendU16(data, uint16(len(tuples))) // no shared point numbers
	data = appendU16(data, uint16(headerSize))
	for i, tv := range tuples {
		data = appendU16(data, uint16(len(bodies[i])))
		flags := uint16(0x8000) // embedded peak tuple
		if tv.Points != nil {
			flags |= 0x2000 // private point numbers
		}
		data = appendU16(data, flags)
		for _, c := range tv.Peak {
			data = appendU16(data, uint16(int16(c*16384)))
		}
	}
	for _, body := range bodies {
		data = append(data, body...)
	}
	return data
}

// GVar builds a 'gvar' table with short offsets and no shared tuples.
// perGlyph holds one serialized variation-data blob per glyph (empty
// slices for glyphs without variation data).
func GVar(axisCount int, perGlyph ...[]byte) []byte {
	glyphCount := len(perGlyph)
	offsetsLen := (glyphCount + 1) * 2
	dataStart := 20 + offsetsLen
	t := make([]byte, 0, dataStart)
	t = appendU16(t, 1) // major version
	t = appendU16(t, 0)
	t = appendU16(t, uint16(axisCount))
	t = appendU16(t, 0) // shared tuple count
	t = appendU32(t, 0) // shared tuples offset
	t = appendU16(t, uint16(glyphCount))
	t = appendU16(t, 0) // flags: short offsets
	t = appendU32(t, uint32(dataStart))
	var data []byte
	t = appendU16(t, 0)
	for _, g := range perGlyph {
		data = append(data, g...)
		if len(data)%2 != 0 { // short offsets are stored halved
			data = append(data, 0)
		}
		t = appendU16(t, uint16(len(data)/2))
	}
	return append(t, data...)
}

func appendPackedPoints(b []byte, points []uint16) []byte {
	b = append(b, byte(len(points))) // < 128 points is plenty for fixtures
	prev := uint16(0)
	for i := 0; i < len(points); i += 128 {
		run := points[i:]
		if len(run) > 128 {
			run = run[:128]
		}
		b = append(b, byte(0x80|(len(run)-1))) // point deltas as words
		for _, p := range run {
			b = appendU16(b, p-prev)
			prev = p
		}
	}
	return b
}

func appendPackedDeltas(b []byte, deltas []int16) []byte {
	for i := 0; i < len(deltas); i += 64 {
		run := deltas[i:]
		if len(run) > 64 {
			run = run[:64]
		}
		b = append(b, byte(0x40|(len(run)-1))) // deltas as words
		for _, d := range run {
			b = appendU16(b, uint16(d))
		}
	}
	return b
}
