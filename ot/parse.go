package ot

// Code comments often cite passages from the OpenType specification,
// version 1.9; see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// Parse parses an OpenType font from a byte blob.
//
// An ot.Font needs ongoing access to the font's byte data after Parse
// returns; the blob is assumed immutable while the ot.Font remains in use.
// Parse never reads past the blob's end: a malformed directory is reported
// as a DecodeError (InvalidMagic, TruncatedData or TableCountOverflow) and
// no partially parsed Font is returned.
func Parse(font []byte) (*Font, error) {
	// The Offset Table is 12 bytes:
	// u32 sfntVersion, u16 numTables, u16 searchRange, u16 entrySelector,
	// u16 rangeShift.
	src := binarySegm(font)
	magic, err := src.u32(0)
	if err != nil {
		return nil, errTruncated("font header")
	}
	if !(magic == 0x4f54544f || // OTTO
		magic == 0x00010000 || // TrueType
		magic == 0x74727565) { // true
		return nil, ErrDecode(InvalidMagic, "unrecognized font signature 0x%08x", magic)
	}
	tableCount, err := src.u16(4)
	if err != nil {
		return nil, errTruncated("font header")
	}
	h := &FontHeader{FontType: magic, TableCount: tableCount}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())
	if tableCount > 0 && len(font) <= 12 {
		// The count declares a directory, but the blob has no room for even
		// a single entry.
		return nil, ErrDecode(TableCountOverflow,
			"declared %d tables, but no directory entries fit in %d bytes", tableCount, len(font))
	}
	otf := &Font{Header: h, tables: make(map[Tag]Table)}
	// "The Offset Table is followed immediately by the Table Record
	// entries", 16 bytes each: u32 tag, u32 checksum, u32 offset, u32 length.
	for i := 0; i < int(tableCount); i++ {
		rec, err := src.view(12+16*i, 16)
		if err != nil {
			return nil, errTruncated("table directory")
		}
		tag := MakeTag(rec)
		off, size := u32(rec[8:12]), u32(rec[12:16])
		// Each record's bounds must validate independently; overlapping
		// records are permitted (some formats share data).
		if uint64(off)+uint64(size) > uint64(len(font)) {
			return nil, errTruncated("table record " + tag.String())
		}
		if _, ok := otf.tables[tag]; ok {
			// Duplicate tags keep the first occurrence.
			tracer().Infof("font contains duplicate table (%s), keeping first", tag)
			continue
		}
		otf.tables[tag], err = parseTable(tag, src[off:off+size], off, size)
		if err != nil {
			return nil, err
		}
	}
	linkOutlineTables(otf)
	return otf, nil
}

// linkOutlineTables collects shortcuts to the tables involved in outline
// extraction and wires cross-table information: the loca table needs the
// index-to-location format from 'head' and the entry count from 'maxp',
// the hmtx table needs the metrics count from 'hhea'.
func linkOutlineTables(otf *Font) {
	if t := otf.Table(T("cmap")); t != nil {
		otf.CMap = t.Self().AsCMap()
	}
	if t := otf.Table(T("name")); t != nil {
		otf.Names = t.Self().AsName()
	}
	if t := otf.Table(T("head")); t != nil {
		otf.Outline.Head = t.Self().AsHead()
	}
	if t := otf.Table(T("maxp")); t != nil {
		otf.Outline.MaxP = t.Self().AsMaxP()
	}
	if t := otf.Table(T("hhea")); t != nil {
		otf.Outline.HHea = t.Self().AsHHea()
	}
	if t := otf.Table(T("hmtx")); t != nil {
		otf.Outline.HMtx = t.Self().AsHMtx()
		if otf.Outline.HHea != nil {
			otf.Outline.HMtx.NumberOfHMetrics = otf.Outline.HHea.NumberOfHMetrics
		}
	}
	otf.Outline.Glyf = otf.Table(T("glyf"))
	if t := otf.Table(T("loca")); t != nil {
		loca := t.Self().AsLoca()
		if otf.Outline.Head != nil && otf.Outline.Head.IndexToLocFormat == 1 {
			loca.inx2loc = longLocaVersion
		}
		if otf.Outline.MaxP != nil {
			loca.entries = otf.Outline.MaxP.NumGlyphs + 1
		}
		otf.Outline.Loca = loca
	}
	if t := otf.Table(T("fvar")); t != nil {
		otf.Var.FVar = t.Self().AsFVar()
	}
	if t := otf.Table(T("avar")); t != nil {
		otf.Var.AVar = t.Self().AsAVar()
	}
	if t := otf.Table(T("gvar")); t != nil {
		otf.Var.GVar = t.Self().AsGVar()
	}
}

func parseTable(t Tag, b binarySegm, offset, size uint32) (Table, error) {
	switch t {
	case T("cmap"):
		return parseCMap(t, b, offset, size)
	case T("head"):
		return parseHead(t, b, offset, size)
	case T("maxp"):
		return parseMaxP(t, b, offset, size)
	case T("loca"):
		return newLocaTable(t, b, offset, size), nil
	case T("hhea"):
		return parseHHea(t, b, offset, size)
	case T("hmtx"):
		return newHMtxTable(t, b, offset, size), nil
	case T("name"):
		return parseName(t, b, offset, size)
	case T("fvar"):
		return parseFVar(t, b, offset, size)
	case T("avar"):
		return parseAVar(t, b, offset, size)
	case T("gvar"):
		return parseGVar(t, b, offset, size)
	case T("glyf"):
		return newTable(t, b, offset, size), nil // interpreted by package otglyph
	}
	tracer().Debugf("font contains table (%s), will not be interpreted", t)
	return newTable(t, b, offset, size), nil
}

// --- Head table ------------------------------------------------------------

func parseHead(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 54 {
		return nil, errTruncated("head table")
	}
	t := newHeadTable(tag, b, offset, size)
	t.Flags, _ = b.u16(16)
	t.UnitsPerEm, _ = b.u16(18)
	// IndexToLocFormat is needed to interpret the loca table:
	// 0 for short offsets, 1 for long.
	t.IndexToLocFormat, _ = b.u16(50)
	return t, nil
}

// --- MaxP table ------------------------------------------------------------

func parseMaxP(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 6 {
		return nil, errTruncated("maxp table")
	}
	t := newMaxPTable(tag, b, offset, size)
	n, _ := b.u16(4)
	t.NumGlyphs = int(n)
	return t, nil
}

// --- HHea table ------------------------------------------------------------

func parseHHea(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 36 {
		return nil, errTruncated("hhea table")
	}
	t := newHHeaTable(tag, b, offset, size)
	n, _ := b.u16(34)
	t.NumberOfHMetrics = int(n)
	return t, nil
}
