package ot

// Font represents the internal structure of an OpenType or TrueType font.
// It is created by Parse and is a read-only view into the font's byte blob:
// no method of Font or of any table derived from it mutates shared state,
// which makes a Font safe for concurrent use.
type Font struct {
	Header  *FontHeader
	tables  map[Tag]Table
	CMap    *CMapTable // character to glyph mapping, optional
	Names   *NameTable // naming table, optional
	Outline struct {   // tables needed for glyph outline extraction
		Head *HeadTable // font header, global font information
		MaxP *MaxPTable // maximum profile, carries the glyph count
		Loca *LocaTable // glyph locations within 'glyf'
		Glyf Table      // raw outline data, interpreted by package otglyph
		HHea *HHeaTable // horizontal header
		HMtx *HMtxTable // horizontal metrics
	}
	Var struct { // variable-font tables, all optional
		FVar *FVarTable // design-space axis definitions
		AVar *AVarTable // axis value remapping
		GVar *GVarTable // per-glyph outline deltas
	}
}

// FontHeader is the fixed-size header in front of a font's table directory.
//
// Fonts with TrueType outlines carry the value 0x00010000 as their FontType,
// fonts with CFF data carry 0x4F54544F ('OTTO'). The Apple specification
// additionally allows 'true'.
type FontHeader struct {
	FontType   uint32
	TableCount uint16
}

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, nil is returned.
//
// Unknown table tags are retained during parsing, i.e. Table will return at
// least a generic table for every table contained in the font, but only the
// tables needed for outline extraction are interpreted.
func (otf *Font) Table(tag Tag) Table {
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// TableTags returns a list of tags, one for each table contained in the font.
func (otf *Font) TableTags() []Tag {
	var tags = make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	return tags
}

// NumGlyphs returns the number of glyphs contained in the font, as declared
// by the maximum-profile table. Glyph IDs 0 … NumGlyphs-1 are valid.
func (otf *Font) NumGlyphs() int {
	if otf.Outline.MaxP == nil {
		return 0
	}
	return otf.Outline.MaxP.NumGlyphs
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is a 4-byte identifier, used for tables, design-variation axes,
// scripts, and more. It is defined by the OpenType spec as an array of four
// uint8s, which we carry as a big-endian uint32.
type Tag uint32

// MakeTag creates a Tag from the first 4 bytes of b.
// If b is shorter or longer, it will be silently extended or cut as
// appropriate.
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string, e.g. T("glyf").
// If t is shorter or longer, it will be silently extended or cut as
// appropriate.
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// --- Table -----------------------------------------------------------------

// Table represents one of the various OpenType font tables.
//
// Tables this package interprets semantically ('head', 'maxp', 'loca',
// 'hhea', 'hmtx', 'cmap', 'name', 'fvar', 'avar', 'gvar') can be converted
// to their concrete type through Self, e.g.:
//
//	maxp := otf.Table(ot.T("maxp")).Self().AsMaxP()
//
// Any other table is represented as a generic table, exposing its extent
// and raw binary data only.
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the bytes of this table; should be treated as read-only by clients
	Self() TableSelf          // reference to itself
}

func newTable(tag Tag, b binarySegm, offset, size uint32) *genericTable {
	t := &genericTable{tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	},
	}
	t.self = t
	return t
}

type genericTable struct {
	tableBase
}

// tableBase is a common parent for all kinds of OpenType tables.
type tableBase struct {
	data   binarySegm // a table is a slice of font data
	name   Tag        // 4-byte name as an integer
	offset uint32     // from offset
	length uint32     // to offset + length
	self   interface{}
}

// Extent returns offset and byte size of this table within the font's
// binary data.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Binary returns the bytes of this table. Should be treated as read-only by
// clients, as it is a view into the original data.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

// TableSelf is a reference to a table. Its primary use is for converting
// a generic table to a concrete table flavour, and for reproducing the
// name tag of a table.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the 4-letter name of a table.
func (tself TableSelf) NameTag() Tag {
	return tself.tableBase.name
}

func safeSelf(tself TableSelf) interface{} {
	if tself.tableBase == nil || tself.tableBase.self == nil {
		return TableSelf{}
	}
	return tself.tableBase.self
}

// AsCMap returns this table as a cmap table, or nil.
func (tself TableSelf) AsCMap() *CMapTable {
	if k, ok := safeSelf(tself).(*CMapTable); ok {
		return k
	}
	return nil
}

// AsHead returns this table as a head table, or nil.
func (tself TableSelf) AsHead() *HeadTable {
	if k, ok := safeSelf(tself).(*HeadTable); ok {
		return k
	}
	return nil
}

// AsMaxP returns this table as a maxp table, or nil.
func (tself TableSelf) AsMaxP() *MaxPTable {
	if k, ok := safeSelf(tself).(*MaxPTable); ok {
		return k
	}
	return nil
}

// AsLoca returns this table as a loca table, or nil.
func (tself TableSelf) AsLoca() *LocaTable {
	if k, ok := safeSelf(tself).(*LocaTable); ok {
		return k
	}
	return nil
}

// AsHHea returns this table as a hhea table, or nil.
func (tself TableSelf) AsHHea() *HHeaTable {
	if k, ok := safeSelf(tself).(*HHeaTable); ok {
		return k
	}
	return nil
}

// AsHMtx returns this table as a hmtx table, or nil.
func (tself TableSelf) AsHMtx() *HMtxTable {
	if k, ok := safeSelf(tself).(*HMtxTable); ok {
		return k
	}
	return nil
}

// AsName returns this table as a name table, or nil.
func (tself TableSelf) AsName() *NameTable {
	if k, ok := safeSelf(tself).(*NameTable); ok {
		return k
	}
	return nil
}

// AsFVar returns this table as an fvar table, or nil.
func (tself TableSelf) AsFVar() *FVarTable {
	if k, ok := safeSelf(tself).(*FVarTable); ok {
		return k
	}
	return nil
}

// AsAVar returns this table as an avar table, or nil.
func (tself TableSelf) AsAVar() *AVarTable {
	if k, ok := safeSelf(tself).(*AVarTable); ok {
		return k
	}
	return nil
}

// AsGVar returns this table as a gvar table, or nil.
func (tself TableSelf) AsGVar() *GVarTable {
	if k, ok := safeSelf(tself).(*GVarTable); ok {
		return k
	}
	return nil
}

// --- Concrete table implementations ----------------------------------------

// HeadTable gives global information about the font. Only the fields needed
// for outline extraction are made public.
type HeadTable struct {
	tableBase
	Flags            uint16
	UnitsPerEm       uint16 // values 16 … 16384 are valid
	IndexToLocFormat uint16 // needed to interpret the loca table: 0 short, 1 long
}

func newHeadTable(tag Tag, b binarySegm, offset, size uint32) *HeadTable {
	t := &HeadTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}

// MaxPTable establishes the memory requirements for this font.
// The 'maxp' table contains a count for the number of glyphs in the font.
type MaxPTable struct {
	tableBase
	NumGlyphs int
}

func newMaxPTable(tag Tag, b binarySegm, offset, size uint32) *MaxPTable {
	t := &MaxPTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}

// LocaTable stores the offsets to the locations of the glyphs in the font,
// relative to the beginning of the glyph data table. By definition, index
// zero points to the "missing character".
//
// The table comes in a short and a long version; which one is in use is
// flagged by the font header table and set up during parsing.
type LocaTable struct {
	tableBase
	inx2loc func(t *LocaTable, gid GlyphIndex) (uint32, bool)
	entries int // number of location entries, glyph count + 1
}

func newLocaTable(tag Tag, b binarySegm, offset, size uint32) *LocaTable {
	t := &LocaTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.inx2loc = shortLocaVersion // may get changed by font consistency check
	t.entries = 0                // has to be set during consistency check
	t.self = t
	return t
}

// GlyphRange returns the extent of a glyph's data within the 'glyf' table.
// The returned range has been read from the loca entries of gid and gid+1;
// ok is false if either entry lies outside the loca table. An empty range
// (start == end) is legal and denotes a glyph without an outline.
func (t *LocaTable) GlyphRange(gid GlyphIndex) (start, end uint32, ok bool) {
	start, ok = t.inx2loc(t, gid)
	if !ok {
		return 0, 0, false
	}
	end, ok = t.inx2loc(t, gid+1)
	if !ok || end < start {
		return 0, 0, false
	}
	return start, end, true
}

func shortLocaVersion(t *LocaTable, gid GlyphIndex) (uint32, bool) {
	if int(gid) >= t.entries {
		return 0, false
	}
	loc, err := t.data.u16(int(gid) * 2)
	if err != nil {
		return 0, false
	}
	return uint32(loc) * 2, true
}

func longLocaVersion(t *LocaTable, gid GlyphIndex) (uint32, bool) {
	if int(gid) >= t.entries {
		return 0, false
	}
	loc, err := t.data.u32(int(gid) * 4)
	if err != nil {
		return 0, false
	}
	return loc, true
}

// HHeaTable contains information for horizontal layout.
type HHeaTable struct {
	tableBase
	NumberOfHMetrics int
}

func newHHeaTable(tag Tag, b binarySegm, offset, size uint32) *HHeaTable {
	t := &HHeaTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}

// HMtxTable contains metric information for the horizontal layout of each
// of the glyphs in the font. Each element of the contained hMetrics array
// has two parts: the advance width and the left side bearing. The value
// NumberOfHMetrics is taken from the 'hhea' table and is copied into the
// HMtxTable during parsing for easier access. Glyphs past that count share
// the advance of the last hMetrics entry and draw their left side bearing
// from a trailing array.
type HMtxTable struct {
	tableBase
	NumberOfHMetrics int
}

func newHMtxTable(tag Tag, b binarySegm, offset, size uint32) *HMtxTable {
	t := &HMtxTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}

// Metrics returns the advance width and left side bearing of a glyph.
// Out-of-range glyph IDs and truncated metric arrays yield (0, 0).
func (t *HMtxTable) Metrics(gid GlyphIndex) (advance uint16, lsb int16) {
	n := t.NumberOfHMetrics
	if n == 0 {
		return 0, 0
	}
	if int(gid) < n {
		advance, _ = t.data.u16(int(gid) * 4)
		lsb, _ = t.data.i16(int(gid)*4 + 2)
		return advance, lsb
	}
	advance, _ = t.data.u16((n - 1) * 4)
	lsb, _ = t.data.i16(n*4 + (int(gid)-n)*2)
	return advance, lsb
}
