package ot

// Variable fonts encode a continuous design space. Three tables are
// involved in outline variation:
//
//   - 'fvar' declares the design-space axes (tag, min/default/max) and
//     optional named instances;
//   - 'avar' optionally distorts the normalized axis scale piecewise
//     linearly;
//   - 'gvar' stores per-glyph point deltas, organized as tuple variations
//     with a region of applicability each.
//
// This file reads the binary structure of these tables. The interpolation
// math that turns a design-space coordinate plus tuple variations into
// point deltas is homed in package otglyph.

// --- fvar ------------------------------------------------------------------

// VariationAxis describes one axis of a variable font's design space.
// A design-space coordinate maps axis tags to values, each clamped to
// [Minimum, Maximum].
type VariationAxis struct {
	Tag     Tag
	Minimum float64
	Default float64
	Maximum float64
	Flags   uint16
	NameID  uint16 // key into the name table for the axis' display name
}

// NamedInstance is a location in design space which the font designer gave
// a name, e.g. "Condensed Bold".
type NamedInstance struct {
	NameID      uint16
	Coordinates []float64 // in axis order of FVarTable.Axes
}

// FVarTable represents the font variations header table 'fvar'.
type FVarTable struct {
	tableBase
	Axes      []VariationAxis
	Instances []NamedInstance
}

func newFVarTable(tag Tag, b binarySegm, offset, size uint32) *FVarTable {
	t := &FVarTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}

// Axis returns the axis definition for a tag.
func (t *FVarTable) Axis(tag Tag) (VariationAxis, bool) {
	for _, ax := range t.Axes {
		if ax.Tag == tag {
			return ax, true
		}
	}
	return VariationAxis{}, false
}

func parseFVar(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	// Header: u16 major, u16 minor, u16 axesArrayOffset, u16 reserved,
	// u16 axisCount, u16 axisSize, u16 instanceCount, u16 instanceSize.
	const headerSize = 16
	if b.Size() < headerSize {
		return nil, errTruncated("fvar table")
	}
	axesOffset, _ := b.u16(4)
	axisCount, _ := b.u16(8)
	axisSize, _ := b.u16(10)
	instCount, _ := b.u16(12)
	instSize, _ := b.u16(14)
	if axisSize < 20 || int(axesOffset)+int(axisCount)*int(axisSize) > b.Size() {
		return nil, errTruncated("fvar axis records")
	}
	t := newFVarTable(tag, b, offset, size)
	t.Axes = make([]VariationAxis, axisCount)
	for i := range t.Axes {
		rec, err := b.view(int(axesOffset)+i*int(axisSize), int(axisSize))
		if err != nil {
			return nil, errTruncated("fvar axis record")
		}
		axtag, _ := rec.u32(0)
		min, _ := rec.fixed1616(4)
		def, _ := rec.fixed1616(8)
		max, _ := rec.fixed1616(12)
		flags, _ := rec.u16(16)
		nameID, _ := rec.u16(18)
		t.Axes[i] = VariationAxis{
			Tag:     Tag(axtag),
			Minimum: min,
			Default: def,
			Maximum: max,
			Flags:   flags,
			NameID:  nameID,
		}
	}
	// Instance records follow the axis records immediately. Each holds a
	// name ID, flags, and a coordinate per axis; a trailing PostScript
	// name ID is optional and skipped.
	instBase := int(axesOffset) + int(axisCount)*int(axisSize)
	if instCount > 0 && instSize >= 4+axisCount*4 {
		if instBase+int(instCount)*int(instSize) > b.Size() {
			return nil, errTruncated("fvar instance records")
		}
		t.Instances = make([]NamedInstance, instCount)
		for i := range t.Instances {
			rec, _ := b.view(instBase+i*int(instSize), int(instSize))
			nameID, _ := rec.u16(0)
			coords := make([]float64, axisCount)
			for a := range coords {
				coords[a], _ = rec.fixed1616(4 + a*4)
			}
			t.Instances[i] = NamedInstance{NameID: nameID, Coordinates: coords}
		}
	}
	return t, nil
}

// --- avar ------------------------------------------------------------------

// AVarTable represents the axis variations table 'avar'. It modifies the
// normalized coordinate of each axis with a piecewise linear map, allowing
// designers to distort interpolation along an axis without changing the
// axis extremes.
type AVarTable struct {
	tableBase
	segmentMaps [][]axisValueMap // one segment map per axis, in fvar order
}

type axisValueMap struct {
	from, to float64 // normalized coordinates, -1 … 1
}

func newAVarTable(tag Tag, b binarySegm, offset, size uint32) *AVarTable {
	t := &AVarTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}

func parseAVar(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	// Header: u16 major, u16 minor, u16 reserved, u16 axisCount.
	const headerSize = 8
	axisCount, err := b.u16(6)
	if err != nil {
		return nil, errTruncated("avar table")
	}
	t := newAVarTable(tag, b, offset, size)
	t.segmentMaps = make([][]axisValueMap, axisCount)
	pos := headerSize
	for i := 0; i < int(axisCount); i++ {
		mapCount, err := b.u16(pos)
		if err != nil {
			return nil, errTruncated("avar segment map")
		}
		pos += 2
		maps := make([]axisValueMap, mapCount)
		for j := range maps {
			from, err1 := b.f2dot14(pos)
			to, err2 := b.f2dot14(pos + 2)
			if err1 != nil || err2 != nil {
				return nil, errTruncated("avar axis value map")
			}
			maps[j] = axisValueMap{from: from, to: to}
			pos += 4
		}
		t.segmentMaps[i] = maps
	}
	return t, nil
}

// Map remaps a normalized axis coordinate through the segment map of the
// axis with the given index (fvar axis order). Axes without a segment map
// and coordinates outside the mapped range pass through unchanged at the
// boundaries.
func (t *AVarTable) Map(axis int, v float64) float64 {
	if axis < 0 || axis >= len(t.segmentMaps) {
		return v
	}
	maps := t.segmentMaps[axis]
	if len(maps) < 2 {
		return v
	}
	if v <= maps[0].from {
		return maps[0].to
	}
	for i := 1; i < len(maps); i++ {
		if v <= maps[i].from {
			prev, next := maps[i-1], maps[i]
			if next.from == prev.from {
				return next.to
			}
			r := (v - prev.from) / (next.from - prev.from)
			return prev.to + r*(next.to-prev.to)
		}
	}
	return maps[len(maps)-1].to
}

// --- gvar ------------------------------------------------------------------

// GVarTable represents the glyph variations table 'gvar'. For each glyph
// it stores a list of tuple variations: a region of the design space plus
// a delta per outline point (sparse sets permitted).
type GVarTable struct {
	tableBase
	AxisCount    int
	sharedTuples [][]float64
	glyphCount   int
	longOffsets  bool
	offsets      binarySegm // glyphVariationDataOffsets array
	dataBase     binarySegm // glyph variation data array
}

func newGVarTable(tag Tag, b binarySegm, offset, size uint32) *GVarTable {
	t := &GVarTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}

func parseGVar(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	// Header: u16 major, u16 minor, u16 axisCount, u16 sharedTupleCount,
	// u32 sharedTuplesOffset, u16 glyphCount, u16 flags,
	// u32 glyphVariationDataArrayOffset.
	const headerSize = 20
	if b.Size() < headerSize {
		return nil, errTruncated("gvar table")
	}
	axisCount, _ := b.u16(4)
	sharedCount, _ := b.u16(6)
	sharedOffset, _ := b.u32(8)
	glyphCount, _ := b.u16(12)
	flags, _ := b.u16(14)
	dataOffset, _ := b.u32(16)
	t := newGVarTable(tag, b, offset, size)
	t.AxisCount = int(axisCount)
	t.glyphCount = int(glyphCount)
	t.longOffsets = flags&0x0001 != 0
	offsetsLen := (int(glyphCount) + 1) * 2
	if t.longOffsets {
		offsetsLen *= 2
	}
	var err error
	if t.offsets, err = b.view(headerSize, offsetsLen); err != nil {
		return nil, errTruncated("gvar glyph variation offsets")
	}
	if dataOffset > uint32(b.Size()) {
		return nil, errTruncated("gvar glyph variation data")
	}
	t.dataBase = b[dataOffset:]
	if sharedCount > 0 {
		tuples, err := b.view(int(sharedOffset), int(sharedCount)*t.AxisCount*2)
		if err != nil {
			return nil, errTruncated("gvar shared tuples")
		}
		t.sharedTuples = make([][]float64, sharedCount)
		for i := range t.sharedTuples {
			t.sharedTuples[i] = make([]float64, t.AxisCount)
			for a := 0; a < t.AxisCount; a++ {
				t.sharedTuples[i][a], _ = tuples.f2dot14(i*t.AxisCount*2 + a*2)
			}
		}
	}
	return t, nil
}

// variationData returns the glyph variation data segment for a glyph.
// A zero-length segment is legal and means the glyph has no variation
// data.
func (t *GVarTable) variationData(gid GlyphIndex) (binarySegm, error) {
	if int(gid) >= t.glyphCount {
		return binarySegm{}, nil
	}
	var from, to uint32
	if t.longOffsets {
		from, _ = t.offsets.u32(int(gid) * 4)
		to, _ = t.offsets.u32(int(gid)*4 + 4)
	} else {
		// Short offsets are stored halved.
		f, _ := t.offsets.u16(int(gid) * 2)
		s, _ := t.offsets.u16(int(gid)*2 + 2)
		from, to = uint32(f)*2, uint32(s)*2
	}
	if from == to {
		return binarySegm{}, nil
	}
	if to < from || int(to) > t.dataBase.Size() {
		return nil, errTruncated("glyph variation data")
	}
	return t.dataBase[from:to], nil
}

// TupleVariation is one entry of a glyph's variation data: a region of the
// normalized design space plus a delta per affected point.
//
// The region is given by its peak coordinates and, for intermediate
// regions, explicit start and end coordinates (otherwise Start and End are
// nil and the region spans from zero to the peak on each axis).
//
// Points lists the point numbers with explicit deltas; a nil Points means
// the tuple carries a delta for every point of the glyph, including the
// four phantom points.
type TupleVariation struct {
	Peak    []float64
	Start   []float64
	End     []float64
	Points  []uint16
	DeltasX []int16
	DeltasY []int16
}

// Flags of the tupleVariationCount field and of tuple variation headers.
const (
	sharedPointNumbers   = 0x8000
	tupleCountMask       = 0x0fff
	embeddedPeakTuple    = 0x8000
	intermediateRegion   = 0x4000
	privatePointNumbers  = 0x2000
	tupleIndexMask       = 0x0fff
)

// Variations decodes the tuple variations for a glyph. pointCount is the
// number of points the glyph has including the four phantom points; it
// determines the delta count of tuples which apply to all points.
//
// A glyph without variation data yields (nil, nil): missing variation data
// is not an error.
func (t *GVarTable) Variations(gid GlyphIndex, pointCount int) ([]TupleVariation, error) {
	data, err := t.variationData(gid)
	if err != nil {
		return nil, err
	}
	if data.Size() == 0 {
		return nil, nil
	}
	// GlyphVariationData header: u16 tupleVariationCount, u16 dataOffset,
	// then the tuple variation headers.
	tupleCountField, err := data.u16(0)
	if err != nil {
		return nil, errTruncated("glyph variation data")
	}
	serializedOffset, err := data.u16(2)
	if err != nil || int(serializedOffset) > data.Size() {
		return nil, errTruncated("glyph variation data")
	}
	tupleCount := int(tupleCountField & tupleCountMask)
	tuples := make([]TupleVariation, 0, tupleCount)
	serialized := data[serializedOffset:]
	var sharedPoints []uint16
	if tupleCountField&sharedPointNumbers != 0 {
		var n int
		sharedPoints, n, err = unpackPointNumbers(serialized)
		if err != nil {
			return nil, err
		}
		serialized = serialized[n:]
	}
	pos := 4 // cursor into the tuple variation headers
	for i := 0; i < tupleCount; i++ {
		dataSize, err1 := data.u16(pos)
		tupleIndex, err2 := data.u16(pos + 2)
		if err1 != nil || err2 != nil {
			return nil, errTruncated("tuple variation header")
		}
		pos += 4
		tv := TupleVariation{}
		if tupleIndex&embeddedPeakTuple != 0 {
			tv.Peak = make([]float64, t.AxisCount)
			for a := range tv.Peak {
				if tv.Peak[a], err = data.f2dot14(pos); err != nil {
					return nil, errTruncated("embedded peak tuple")
				}
				pos += 2
			}
		} else {
			shared := int(tupleIndex & tupleIndexMask)
			if shared >= len(t.sharedTuples) {
				return nil, errTruncated("shared tuple index")
			}
			tv.Peak = t.sharedTuples[shared]
		}
		if tupleIndex&intermediateRegion != 0 {
			tv.Start = make([]float64, t.AxisCount)
			tv.End = make([]float64, t.AxisCount)
			for a := range tv.Start {
				if tv.Start[a], err = data.f2dot14(pos); err != nil {
					return nil, errTruncated("intermediate start tuple")
				}
				pos += 2
			}
			for a := range tv.End {
				if tv.End[a], err = data.f2dot14(pos); err != nil {
					return nil, errTruncated("intermediate end tuple")
				}
				pos += 2
			}
		}
		// The serialized data section holds, per tuple: optional private
		// point numbers, then packed x deltas, then packed y deltas.
		if int(dataSize) > serialized.Size() {
			return nil, errTruncated("serialized tuple data")
		}
		body := serialized[:dataSize]
		serialized = serialized[dataSize:]
		points := sharedPoints
		if tupleIndex&privatePointNumbers != 0 {
			var n int
			points, n, err = unpackPointNumbers(body)
			if err != nil {
				return nil, err
			}
			body = body[n:]
		}
		tv.Points = points
		deltaCount := pointCount
		if points != nil {
			deltaCount = len(points)
		}
		var n int
		if tv.DeltasX, n, err = unpackDeltas(body, deltaCount); err != nil {
			return nil, err
		}
		body = body[n:]
		if tv.DeltasY, _, err = unpackDeltas(body, deltaCount); err != nil {
			return nil, err
		}
		tuples = append(tuples, tv)
	}
	return tuples, nil
}

// unpackPointNumbers decodes a packed point-number list. It returns the
// point numbers (nil meaning "all points"), the number of bytes consumed,
// and an error for truncated data.
func unpackPointNumbers(b binarySegm) ([]uint16, int, error) {
	c0, err := b.u8(0)
	if err != nil {
		return nil, 0, errTruncated("packed point numbers")
	}
	if c0 == 0 {
		return nil, 1, nil // all points
	}
	count := int(c0)
	pos := 1
	if c0&0x80 != 0 {
		c1, err := b.u8(1)
		if err != nil {
			return nil, 0, errTruncated("packed point numbers")
		}
		count = int(c0&0x7f)<<8 | int(c1)
		pos = 2
	}
	points := make([]uint16, 0, count)
	var point uint16
	for len(points) < count {
		control, err := b.u8(pos)
		if err != nil {
			return nil, 0, errTruncated("packed point run")
		}
		pos++
		run := int(control&0x7f) + 1
		if control&0x80 != 0 { // points in this run are u16 deltas
			for j := 0; j < run && len(points) < count; j++ {
				d, err := b.u16(pos)
				if err != nil {
					return nil, 0, errTruncated("packed point run")
				}
				pos += 2
				point += d
				points = append(points, point)
			}
		} else { // u8 deltas
			for j := 0; j < run && len(points) < count; j++ {
				d, err := b.u8(pos)
				if err != nil {
					return nil, 0, errTruncated("packed point run")
				}
				pos++
				point += uint16(d)
				points = append(points, point)
			}
		}
	}
	return points, pos, nil
}

// unpackDeltas decodes count packed deltas. It returns the deltas and the
// number of bytes consumed.
func unpackDeltas(b binarySegm, count int) ([]int16, int, error) {
	deltas := make([]int16, 0, count)
	pos := 0
	for len(deltas) < count {
		control, err := b.u8(pos)
		if err != nil {
			return nil, 0, errTruncated("packed deltas")
		}
		pos++
		run := int(control&0x3f) + 1
		switch {
		case control&0x80 != 0: // run of zero deltas
			for j := 0; j < run && len(deltas) < count; j++ {
				deltas = append(deltas, 0)
			}
		case control&0x40 != 0: // deltas are words
			for j := 0; j < run && len(deltas) < count; j++ {
				d, err := b.i16(pos)
				if err != nil {
					return nil, 0, errTruncated("packed delta run")
				}
				pos += 2
				deltas = append(deltas, d)
			}
		default: // deltas are signed bytes
			for j := 0; j < run && len(deltas) < count; j++ {
				d, err := b.u8(pos)
				if err != nil {
					return nil, 0, errTruncated("packed delta run")
				}
				pos++
				deltas = append(deltas, int16(int8(d)))
			}
		}
	}
	return deltas, pos, nil
}
