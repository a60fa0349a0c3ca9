package ot

/*
Some of the lookup code in this file has originally been derived from
https://github.com/golang/image/tree/master/font/sfnt.
I understand it's legal to do so, as long as the license information stays
intact.

   Copyright 2017 The Go Authors. All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

// CMapTable represents an OpenType cmap table, i.e. the table to receive
// glyphs from code-points.
//
// See https://docs.microsoft.com/en-us/typography/opentype/spec/cmap
//
// A cmap table may contain more than one lookup table, but we will only
// instantiate the most appropriate one. Clients who need access to all the
// lookup tables will have to parse them themselves.
type CMapTable struct {
	tableBase
	GlyphIndexMap CMapGlyphIndex
}

func newCMapTable(tag Tag, b binarySegm, offset, size uint32) *CMapTable {
	t := &CMapTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}

// CMapGlyphIndex retrieves a glyph index from a code-point.
type CMapGlyphIndex interface {
	Lookup(rune) GlyphIndex        // central activity of CMap
	ReverseLookup(GlyphIndex) rune // non-standard, but helps with tests
}

// platformEncodingWidth returns the number of bytes per character assumed
// by the given Platform ID and Platform Specific ID.
//
// Old fonts, from when Unicode meant the Basic Multilingual Plane (BMP),
// assume that 2 bytes per character is sufficient. Recent fonts naturally
// support the full range of Unicode code points.
func platformEncodingWidth(pid, psid uint16) int {
	switch pid {
	case 0: // Unicode platform
		switch psid {
		case 3: // Unicode BMP
			return 2
		case 4, 10: // Unicode full (include 10 from FontForge bug)
			return 4
		}
	case 3: // Windows platform
		switch psid {
		case 1: // Unicode BMP
			return 2
		case 10: // Unicode full
			return 4
		}
	}
	return 0 // width 0 will never get selected
}

// Of the available cmap formats, only 4 and 12 are appropriate for new
// fonts, and they cover the fixture fonts this module deals with. We
// support the following platform/encoding/format combinations:
//
//	0 (Unicode)  3    4   Unicode BMP
//	0 (Unicode)  4    12  Unicode full
//	3 (Win)      1    4   Unicode BMP
//	3 (Win)      10   12  Unicode full
func supportedCmapFormat(format, pid, psid uint16) bool {
	return (pid == 0 && psid == 3 && format == 4) ||
		(pid == 0 && psid == 4 && format == 12) ||
		(pid == 3 && psid == 1 && format == 4) ||
		(pid == 3 && psid == 10 && format == 12)
}

type encodingRecord struct {
	format uint16
	offset uint32 // subtable offset from the start of the cmap table
	width  int    // encoding width in bytes
}

// parseCMap selects the best supported encoding record and builds an
// in-memory glyph index from its subtable. A cmap with no supported
// subtable yields a table with a nil GlyphIndexMap; interpretation
// failures of a selected subtable are reported as decode errors.
func parseCMap(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	n, err := b.u16(2) // number of sub-tables
	if err != nil {
		return nil, errTruncated("cmap table")
	}
	tracer().Debugf("font cmap has %d sub-tables in %d bytes", n, size)
	t := newCMapTable(tag, b, offset, size)
	const headerSize, entrySize = 4, 8
	if size < headerSize+entrySize*uint32(n) {
		return nil, errTruncated("cmap encoding records")
	}
	var enc encodingRecord
	for i := 0; i < int(n); i++ {
		rec, _ := b.view(headerSize+entrySize*i, entrySize)
		pid, psid := u16(rec), u16(rec[2:])
		width := platformEncodingWidth(pid, psid)
		if width <= enc.width {
			continue
		}
		subOffset := u32(rec[4:])
		if subOffset >= uint32(len(b)) {
			tracer().Infof("cmap sub-table offset out of bounds, skipping")
			continue
		}
		format := binarySegm(b[subOffset:]).U16(0)
		tracer().Debugf("cmap table contains subtable with format %d", format)
		if supportedCmapFormat(format, pid, psid) {
			enc.width = width
			enc.format = format
			enc.offset = subOffset
		}
	}
	if enc.width == 0 {
		// Unsupported mappings are retained as raw bytes but not
		// interpreted.
		tracer().Infof("font has no supported cmap format")
		return t, nil
	}
	subtable := binarySegm(b[enc.offset:])
	switch enc.format {
	case 4:
		t.GlyphIndexMap, err = makeGlyphIndexFormat4(subtable)
	case 12:
		t.GlyphIndexMap, err = makeGlyphIndexFormat12(subtable)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// --- Format 4: segment mapping to delta values ------------------------------

// Format 4 is the standard character-to-glyph-index mapping subtable for
// fonts that support only Unicode Basic Multilingual Plane characters
// (U+0000 to U+FFFF). It holds four parallel arrays describing segments,
// one segment for each contiguous range of codes.
type format4GlyphIndex struct {
	segCnt   int
	entries  []cmapEntry16
	glyphIds array
}

type cmapEntry16 struct {
	end, start, delta, offset uint16
}

func (f4 format4GlyphIndex) Lookup(r rune) GlyphIndex {
	if uint32(r) > 0xffff { // format 4 is for BMP code-points only
		return 0 // return index for 'missing character'
	}
	c := uint16(r)
	N := len(f4.entries)
	for i, j := 0, N; i < j; {
		h := i + (j-i)/2 // binary search on f4.entries (which may get large)
		entry := &f4.entries[h]
		if c < entry.start {
			j = h
		} else if entry.end < c {
			i = h + 1
		} else if entry.offset == 0 {
			return GlyphIndex(c + entry.delta)
		} else {
			// The spec indexes the glyph ID array with an "obscure trick":
			// the offset is relative to the position of the idRangeOffset
			// entry itself. We sliced the subtable into separate arrays, so
			// reverse that arithmetic and compute a clean array index.
			deltaToEndOfEntries := (N - h) * 2 // 2 = byte size of offset array entry
			index := (int(entry.offset) - deltaToEndOfEntries) / 2
			index += int(c - entry.start)
			glyphInx := f4.glyphIds.Get(index).U16(0)
			if glyphInx > 0 {
				// If the value obtained from the indexing operation is not 0
				// (which indicates missingGlyph), idDelta[i] is added to it.
				glyphInx += entry.delta
			}
			return GlyphIndex(glyphInx) // will be 0 in case of indexing error
		}
	}
	return GlyphIndex(0)
}

// ReverseLookup retrieves a code-point for a given glyph. The cmap formats
// do not support this operation, thus it is inefficient. However, for
// testing and debugging purposes it is often useful.
func (f4 format4GlyphIndex) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	for _, entry := range f4.entries {
		if entry.end < entry.start || entry.start == 0xffff {
			break
		}
		for c := entry.start; c <= entry.end; c++ {
			if f4.Lookup(rune(c)) == gid {
				return rune(c)
			}
		}
	}
	return 0
}

// The format's data is divided into three parts, which must occur in the
// following order:
//
//   - a four-word header giving parameters for an optimized search of the
//     segment list;
//   - four parallel arrays describing the segments;
//   - a variable-length array of glyph IDs.
func makeGlyphIndexFormat4(b binarySegm) (CMapGlyphIndex, error) {
	const headerSize = 14
	if headerSize > b.Size() {
		return nil, errTruncated("cmap subtable")
	}
	size, _ := b.u16(2)
	segCount, _ := b.u16(6)
	if segCount&1 != 0 {
		return nil, errFontFormat("cmap format 4, illegal segment count")
	}
	segCount /= 2
	eLength := 8*int(segCount) + 2
	if eLength > b.Size() || headerSize+eLength > int(size) {
		return nil, errTruncated("cmap segment arrays")
	}
	// The declared subtable length must not exceed the bytes present.
	if int(size) > b.Size() {
		return nil, errTruncated("cmap subtable")
	}
	b = b[headerSize:size]
	endCodes := viewArray16(b[:segCount*2])
	next := int(segCount)*2 + 2 // 2 is a padding entry in the cmap table
	startCodes := viewArray16(b[next : next+int(segCount)*2])
	next += int(segCount) * 2
	deltas := viewArray16(b[next : next+int(segCount)*2])
	next += int(segCount) * 2
	offsets := viewArray16(b[next : next+int(segCount)*2])
	next += int(segCount) * 2
	entries := make([]cmapEntry16, segCount)
	for i := range entries {
		entries[i] = cmapEntry16{
			end:    endCodes.Get(i).U16(0),
			start:  startCodes.Get(i).U16(0),
			delta:  deltas.Get(i).U16(0),
			offset: offsets.Get(i).U16(0),
		}
	}
	return format4GlyphIndex{
		segCnt:   int(segCount),
		entries:  entries,
		glyphIds: viewArray16(b[next:]),
	}, nil
}

// --- Format 12: segmented coverage ------------------------------------------

// Each sequential map group record specifies a character range and the
// starting glyph ID mapped from the first character. Glyph IDs for
// subsequent characters follow in sequence.
type format12GlyphIndex struct {
	grpCnt  int
	entries []cmapEntry32
}

type cmapEntry32 struct {
	start, end, delta uint32
}

func (f12 format12GlyphIndex) Lookup(r rune) GlyphIndex {
	c := uint32(r)
	for i, j := 0, len(f12.entries); i < j; {
		h := i + (j-i)/2 // binary search on f12.entries (which may get large)
		entry := &f12.entries[h]
		if c < entry.start {
			j = h
		} else if entry.end < c {
			i = h + 1
		} else {
			return GlyphIndex(c - entry.start + entry.delta)
		}
	}
	return 0
}

// ReverseLookup retrieves a code-point for a given glyph; see the format 4
// comment on efficiency.
func (f12 format12GlyphIndex) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	cid := uint32(gid)
	for _, entry := range f12.entries {
		for c := entry.start; c <= entry.end; c++ {
			if c-entry.start+entry.delta == cid {
				return rune(c)
			}
		}
	}
	return 0
}

// Format 12 is the standard character-to-glyph-index mapping subtable for
// fonts supporting Unicode repertoires with supplementary-plane characters
// (U+10000 to U+10FFFF). It is similar to format 4 in that it defines
// segments for a sparse representation, but uses 32-bit character codes
// and a much simpler glyph ID calculation.
func makeGlyphIndexFormat12(b binarySegm) (CMapGlyphIndex, error) {
	const headerSize = 16
	if headerSize > b.Size() {
		return nil, errTruncated("cmap subtable")
	}
	size, _ := b.u32(4)
	grpCount, _ := b.u32(12)
	eLength := 12 * int(grpCount)
	if eLength > b.Size() || eLength+headerSize > int(size) {
		return nil, errTruncated("cmap sequential map groups")
	}
	// The declared subtable length must not exceed the bytes present.
	if int(size) > b.Size() {
		return nil, errTruncated("cmap subtable")
	}
	b = b[headerSize:size]
	// SequentialMapGroup record:
	// u32 startCharCode, u32 endCharCode, u32 startGlyphID
	groups := viewArray(b, 12)
	entries := make([]cmapEntry32, grpCount)
	for i := range entries {
		entries[i] = cmapEntry32{
			start: groups.Get(i).U32(0),
			end:   groups.Get(i).U32(4),
			delta: groups.Get(i).U32(8),
		}
	}
	return format12GlyphIndex{
		grpCnt:  int(grpCount),
		entries: entries,
	}, nil
}
