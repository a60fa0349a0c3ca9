/*
Package fontbuild assembles minimal TrueType fonts in memory.

It exists for testing: table payloads are built programmatically and
stitched together into a binary SFNT blob, so tests can exercise font
parsing and outline decoding without shipping font files. Checksums are
not computed, as parsing does not verify them.
*/
package fontbuild

import (
	"encoding/binary"
	"sort"
)

// Builder collects font tables and assembles them into an SFNT binary.
type Builder struct {
	tables map[string][]byte
}

// New creates an empty font builder.
func New() *Builder {
	return &Builder{tables: make(map[string][]byte)}
}

// AddTable sets the payload for a table tag, replacing any previous one.
func (b *Builder) AddTable(tag string, data []byte) *Builder {
	b.tables[tag] = data
	return b
}

// Bytes assembles the font: offset table, table directory sorted by tag,
// and the table payloads aligned to 4-byte boundaries.
func (b *Builder) Bytes() []byte {
	tags := make([]string, 0, len(b.tables))
	for tag := range b.tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	n := len(tags)
	buf := make([]byte, 0, 1024)
	buf = appendU32(buf, 0x00010000) // TrueType outlines
	entrySelector, searchRange := uint16(0), uint16(16)
	for searchRange*2 <= uint16(n)*16 {
		searchRange *= 2
		entrySelector++
	}
	buf = appendU16(buf, uint16(n))
	buf = appendU16(buf, searchRange)
	buf = appendU16(buf, entrySelector)
	buf = appendU16(buf, uint16(n)*16-searchRange)
	offset := uint32(12 + n*16)
	for _, tag := range tags {
		data := b.tables[tag]
		buf = append(buf, tag...)
		buf = appendU32(buf, 0) // checksum, unverified
		buf = appendU32(buf, offset)
		buf = appendU32(buf, uint32(len(data)))
		offset += uint32(len(data)+3) &^ 3
	}
	for _, tag := range tags {
		buf = append(buf, b.tables[tag]...)
		for len(buf)%4 != 0 {
			buf = append(buf, 0)
		}
	}
	return buf
}

// --- Fixed-layout tables ---------------------------------------------------

// Head builds a 'head' table with the given units-per-em and loca format
// (0 short, 1 long). All other fields are zero.
func Head(unitsPerEm uint16, indexToLocFormat uint16) []byte {
	t := make([]byte, 54)
	binary.BigEndian.PutUint32(t[0:], 0x00010000)  // version
	binary.BigEndian.PutUint32(t[12:], 0x5f0f3cf5) // magic number
	binary.BigEndian.PutUint16(t[18:], unitsPerEm)
	binary.BigEndian.PutUint16(t[50:], indexToLocFormat)
	return t
}

// MaxP builds a 'maxp' table declaring a glyph count.
func MaxP(numGlyphs uint16) []byte {
	t := make([]byte, 32)
	binary.BigEndian.PutUint32(t[0:], 0x00010000)
	binary.BigEndian.PutUint16(t[4:], numGlyphs)
	return t
}

// HHea builds a 'hhea' table with vertical metrics and the number of
// entries the 'hmtx' table will carry.
func HHea(ascent, descent, lineGap int16, numberOfHMetrics uint16) []byte {
	t := make([]byte, 36)
	binary.BigEndian.PutUint32(t[0:], 0x00010000)
	binary.BigEndian.PutUint16(t[4:], uint16(ascent))
	binary.BigEndian.PutUint16(t[6:], uint16(descent))
	binary.BigEndian.PutUint16(t[8:], uint16(lineGap))
	binary.BigEndian.PutUint16(t[34:], numberOfHMetrics)
	return t
}

// Metric is one 'hmtx' entry.
type Metric struct {
	Advance uint16
	LSB     int16
}

// HMtx builds a 'hmtx' table holding full metric entries for the given
// glyphs. Trailing side-bearing-only entries are not produced.
func HMtx(metrics ...Metric) []byte {
	t := make([]byte, 0, len(metrics)*4)
	for _, m := range metrics {
		t = appendU16(t, m.Advance)
		t = appendU16(t, uint16(m.LSB))
	}
	return t
}

// LocaShort builds a short-format 'loca' table from glyph data offsets
// (actual byte offsets; they are stored halved). Offsets must be even and
// include the final end offset, i.e. glyph count + 1 entries.
func LocaShort(offsets ...uint32) []byte {
	t := make([]byte, 0, len(offsets)*2)
	for _, off := range offsets {
		t = appendU16(t, uint16(off/2))
	}
	return t
}

// LocaLong builds a long-format 'loca' table.
func LocaLong(offsets ...uint32) []byte {
	t := make([]byte, 0, len(offsets)*4)
	for _, off := range offsets {
		t = appendU32(t, off)
	}
	return t
}

// CMap4 builds a 'cmap' table with a single format 4 subtable for
// platform 3 (Windows), encoding 1 (Unicode BMP). One segment is produced
// per code point, which is wasteful but trivially correct.
func CMap4(mapping map[rune]uint16) []byte {
	codes := make([]rune, 0, len(mapping))
	for c := range mapping {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	segCount := len(codes) + 1 // plus the required 0xFFFF terminator
	sub := make([]byte, 0, 16+segCount*8)
	sub = appendU16(sub, 4) // format
	sub = appendU16(sub, uint16(16+segCount*8))
	sub = appendU16(sub, 0) // language
	sub = appendU16(sub, uint16(segCount*2))
	sub = appendU16(sub, 0) // searchRange etc. unused by parsers
	sub = appendU16(sub, 0)
	sub = appendU16(sub, 0)
	for _, c := range codes { // endCode
		sub = appendU16(sub, uint16(c))
	}
	sub = appendU16(sub, 0xffff)
	sub = appendU16(sub, 0) // reservedPad
	for _, c := range codes { // startCode
		sub = appendU16(sub, uint16(c))
	}
	sub = appendU16(sub, 0xffff)
	for _, c := range codes { // idDelta, glyph = code + delta mod 65536
		sub = appendU16(sub, mapping[c]-uint16(c))
	}
	sub = appendU16(sub, 1)
	for i := 0; i < segCount; i++ { // idRangeOffsets
		sub = appendU16(sub, 0)
	}
	t := make([]byte, 0, 12+len(sub))
	t = appendU16(t, 0) // version
	t = appendU16(t, 1) // numTables
	t = appendU16(t, 3) // platform ID
	t = appendU16(t, 1) // encoding ID
	t = appendU32(t, 12)
	return append(t, sub...)
}

// Name builds a 'name' table with UTF-16 records for platform 3,
// encoding 1, language 0x0409.
func Name(names map[uint16]string) []byte {
	ids := make([]int, 0, len(names))
	for id := range names {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	var strbuf []byte
	t := make([]byte, 0, 64)
	t = appendU16(t, 0) // format
	t = appendU16(t, uint16(len(ids)))
	t = appendU16(t, uint16(6+len(ids)*12)) // string storage offset
	for _, id := range ids {
		var enc []byte
		for _, r := range names[uint16(id)] {
			enc = appendU16(enc, uint16(r)) // BMP only
		}
		t = appendU16(t, 3) // platform ID
		t = appendU16(t, 1) // encoding ID
		t = appendU16(t, 0x0409)
		t = appendU16(t, uint16(id))
		t = appendU16(t, uint16(len(enc)))
		t = appendU16(t, uint16(len(strbuf)))
		strbuf = append(strbuf, enc...)
	}
	return append(t, strbuf...)
}

// --- Raw helpers -----------------------------------------------------------

func appendU16(b []byte, v uint16) []byte {
	return append(b, byte(v>>8), byte(v))
}

func appendU32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
