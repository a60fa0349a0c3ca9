package ot

import (
	"testing"

	"github.com/npillmayer/glyphpath/core"
	"github.com/npillmayer/glyphpath/internal/fontbuild"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// buildTestFont assembles a minimal two-glyph TrueType font: glyph 0 is
// empty (.notdef), glyph 1 is a triangle mapped from 'A'.
func buildTestFont(t *testing.T) []byte {
	t.Helper()
	triangle := fontbuild.SimpleGlyph([]fontbuild.GlyphPoint{
		{X: 0, Y: 0, On: true},
		{X: 10, Y: 0, On: true},
		{X: 5, Y: 10, On: true},
	})
	glyf, offsets := fontbuild.GlyfTable(nil, triangle)
	return fontbuild.New().
		AddTable("head", fontbuild.Head(1000, 0)).
		AddTable("maxp", fontbuild.MaxP(2)).
		AddTable("loca", fontbuild.LocaShort(offsets...)).
		AddTable("glyf", glyf).
		AddTable("hhea", fontbuild.HHea(800, -200, 0, 2)).
		AddTable("hmtx", fontbuild.HMtx(fontbuild.Metric{Advance: 500}, fontbuild.Metric{Advance: 10})).
		AddTable("cmap", fontbuild.CMap4(map[rune]uint16{'A': 1})).
		AddTable("name", fontbuild.Name(map[uint16]string{1: "Fixture Sans", 2: "Regular"})).
		Bytes()
}

func parseTestFont(t *testing.T) *Font {
	t.Helper()
	otf, err := Parse(buildTestFont(t))
	if err != nil {
		core.UserError(err)
		t.Fatal(err)
	}
	return otf
}

func TestParseHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	otf := parseTestFont(t)
	t.Logf("otf.header.tag = %x", otf.Header.FontType)
	if otf.Header.FontType != 0x00010000 {
		t.Fatalf("expected font type 0x00010000, is %x", otf.Header.FontType)
	}
	if otf.Header.TableCount != 8 {
		t.Errorf("expected 8 tables in font, got %d", otf.Header.TableCount)
	}
	if otf.NumGlyphs() != 2 {
		t.Errorf("expected 2 glyphs in font, got %d", otf.NumGlyphs())
	}
}

func TestParseBadMagic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	font := buildTestFont(t)
	font[0], font[1], font[2], font[3] = 'A', 'B', 'C', 'D'
	_, err := Parse(font)
	if err == nil {
		t.Fatal("expected parsing to fail on unknown magic number")
	}
	if KindOf(err) != InvalidMagic {
		t.Errorf("expected error kind InvalidMagic, got %v", KindOf(err))
	}
}

func TestParseTruncatedDirectory(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	// A header declaring 5 tables, followed by space for just 2 entries.
	font := make([]byte, 12+2*16)
	font[1] = 0x01 // version 0x00010000
	font[5] = 5    // numTables
	_, err := Parse(font)
	if err == nil {
		t.Fatal("expected parsing to fail on truncated table directory")
	}
	if KindOf(err) != TruncatedData {
		t.Errorf("expected error kind TruncatedData, got %v", KindOf(err))
	}
}

func TestParseTableCountOverflow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	// A bare 12-byte header cannot hold a single directory entry.
	font := make([]byte, 12)
	font[1] = 0x01 // version 0x00010000
	font[4] = 0xff // numTables = 0xff00
	_, err := Parse(font)
	if err == nil {
		t.Fatal("expected parsing to fail on absurd table count")
	}
	if KindOf(err) != TableCountOverflow {
		t.Errorf("expected error kind TableCountOverflow, got %v", KindOf(err))
	}
}

func TestParseRecordOutOfBounds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	font := buildTestFont(t)
	// Patch the length of the first directory entry to reach past the
	// end of the blob.
	font[12+12] = 0xff
	_, err := Parse(font)
	if err == nil {
		t.Fatal("expected parsing to fail on table record out of bounds")
	}
	if KindOf(err) != TruncatedData {
		t.Errorf("expected error kind TruncatedData, got %v", KindOf(err))
	}
}

func TestParseDuplicateTablesKeepFirst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	// Hand-rolled font with two directory entries for the same unknown
	// tag, pointing at different payloads.
	font := []byte{
		0x00, 0x01, 0x00, 0x00, // sfnt version
		0x00, 0x02, // numTables
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		'z', 'z', 'z', 'z',
		0x00, 0x00, 0x00, 0x00, // checksum
		0x00, 0x00, 0x00, 0x2c, // offset 44
		0x00, 0x00, 0x00, 0x02, // length 2
		'z', 'z', 'z', 'z',
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x2e, // offset 46
		0x00, 0x00, 0x00, 0x02,
		0xca, 0xfe, // payload of the first entry
		0xbe, 0xef, // payload of the second entry
	}
	otf, err := Parse(font)
	if err != nil {
		core.UserError(err)
		t.Fatal(err)
	}
	if len(otf.TableTags()) != 1 {
		t.Fatalf("expected 1 distinct table, got %d", len(otf.TableTags()))
	}
	table := otf.Table(T("zzzz"))
	if table == nil {
		t.Fatal("table zzzz not found in font")
	}
	if off, _ := table.Extent(); off != 44 {
		t.Errorf("expected first of the duplicate entries to win, got offset %d", off)
	}
}

func TestLocaGlyphRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	otf := parseTestFont(t)
	loca := otf.Outline.Loca
	start, end, ok := loca.GlyphRange(0)
	if !ok || start != end {
		t.Errorf("expected glyph 0 to have an empty range, got (%d, %d, %v)", start, end, ok)
	}
	start, end, ok = loca.GlyphRange(1)
	if !ok || end <= start {
		t.Fatalf("expected glyph 1 to have a non-empty range, got (%d, %d, %v)", start, end, ok)
	}
	if _, _, ok := loca.GlyphRange(7); ok {
		t.Error("expected out-of-range glyph ID to yield ok=false")
	}
}

func TestHMtxMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	otf := parseTestFont(t)
	advance, lsb := otf.Outline.HMtx.Metrics(1)
	if advance != 10 || lsb != 0 {
		t.Errorf("expected metrics (10, 0) for glyph 1, got (%d, %d)", advance, lsb)
	}
}

func TestCMapGlyphIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	otf := parseTestFont(t)
	cmap := otf.Table(T("cmap")).Self().AsCMap()
	if cmap == nil {
		t.Fatal("cannot convert cmap table")
	}
	glyph := cmap.GlyphIndexMap.Lookup('A')
	t.Logf("glyph ID = %d | 0x%x", glyph, glyph)
	if glyph != 1 {
		t.Errorf("expected glyph index for 'A' to be 1, got %d", glyph)
	}
	if g := cmap.GlyphIndexMap.Lookup('B'); g != 0 {
		t.Errorf("expected unmapped code-point to yield glyph 0, got %d", g)
	}
	if r := cmap.GlyphIndexMap.ReverseLookup(1); r != 'A' {
		t.Errorf("expected reverse lookup of glyph 1 to yield 'A', got %q", r)
	}
}

func TestCMapOversizedSubtableLength(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	// A format 4 subtable declaring a length far beyond the bytes present.
	cm := []byte{
		0, 0, 0, 1, // version, numTables
		0, 3, 0, 1, // platform 3, encoding 1 (Unicode BMP)
		0, 0, 0, 12, // subtable offset
		0, 4, 0xff, 0xf0, // format 4, declared length 0xfff0
		0, 0, // language
		0, 2, // segCountX2
		0, 0, 0, 0, 0, 0, // searchRange, entrySelector, rangeShift
		0xff, 0xff, // endCode[0]
		0, 0, // reservedPad
		0xff, 0xff, // startCode[0]
	}
	_, err := parseCMap(T("cmap"), cm, 0, uint32(len(cm)))
	if err == nil {
		t.Fatal("expected cmap with oversized subtable length to fail")
	}
	if KindOf(err) != TruncatedData {
		t.Errorf("expected a truncated-data error, got %v", err)
	}
}

func TestCMapOversizedSubtableLengthFormat12(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	cm := []byte{
		0, 0, 0, 1, // version, numTables
		0, 3, 0, 10, // platform 3, encoding 10 (Unicode full)
		0, 0, 0, 12, // subtable offset
		0, 12, 0, 0, // format 12, reserved
		0, 0, 0xff, 0xf0, // declared length 0xfff0
		0, 0, 0, 0, // language
		0, 0, 0, 0, // numGroups
	}
	_, err := parseCMap(T("cmap"), cm, 0, uint32(len(cm)))
	if err == nil {
		t.Fatal("expected cmap with oversized subtable length to fail")
	}
	if KindOf(err) != TruncatedData {
		t.Errorf("expected a truncated-data error, got %v", err)
	}
}

func TestNameTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	otf := parseTestFont(t)
	if otf.Names == nil {
		t.Fatal("font has no name table")
	}
	if family := otf.Names.Get(1); family != "Fixture Sans" {
		t.Errorf("expected family name 'Fixture Sans', got %q", family)
	}
	if missing := otf.Names.Get(17); missing != "" {
		t.Errorf("expected empty string for absent name ID, got %q", missing)
	}
}
