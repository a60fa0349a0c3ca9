package otglyph

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/glyphpath/core"
	"github.com/npillmayer/glyphpath/internal/fontbuild"
	"github.com/npillmayer/glyphpath/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// Fixture glyphs:
//
//	0  empty (.notdef)
//	1  triangle, all points on-curve
//	2  one quadratic curve segment
//	3  contour of control points only
//	4  composite referencing glyph 1, shifted right
//	5  composite referencing itself
//	6  degenerate single-point contour
func buildFixtureFont(t *testing.T) []byte {
	t.Helper()
	triangle := fontbuild.SimpleGlyph([]fontbuild.GlyphPoint{
		{X: 0, Y: 0, On: true},
		{X: 10, Y: 0, On: true},
		{X: 5, Y: 10, On: true},
	})
	quad := fontbuild.SimpleGlyph([]fontbuild.GlyphPoint{
		{X: 0, Y: 0, On: true},
		{X: 5, Y: 10, On: false},
		{X: 10, Y: 0, On: true},
	})
	curls := fontbuild.SimpleGlyph([]fontbuild.GlyphPoint{
		{X: 0, Y: 0, On: false},
		{X: 10, Y: 0, On: false},
		{X: 10, Y: 10, On: false},
		{X: 0, Y: 10, On: false},
	})
	shifted := fontbuild.CompositeGlyph([4]int16{20, 0, 30, 10},
		fontbuild.Component{GlyphID: 1, DX: 20})
	cyclic := fontbuild.CompositeGlyph([4]int16{0, 0, 10, 10},
		fontbuild.Component{GlyphID: 5})
	dot := fontbuild.SimpleGlyph([]fontbuild.GlyphPoint{
		{X: 3, Y: 3, On: true},
	})
	glyf, offsets := fontbuild.GlyfTable(nil, triangle, quad, curls, shifted, cyclic, dot)
	return fontbuild.New().
		AddTable("head", fontbuild.Head(1000, 0)).
		AddTable("maxp", fontbuild.MaxP(7)).
		AddTable("loca", fontbuild.LocaShort(offsets...)).
		AddTable("glyf", glyf).
		AddTable("hhea", fontbuild.HHea(800, -200, 0, 7)).
		AddTable("hmtx", fontbuild.HMtx(
			fontbuild.Metric{Advance: 500},
			fontbuild.Metric{Advance: 10},
			fontbuild.Metric{Advance: 10},
			fontbuild.Metric{Advance: 10},
			fontbuild.Metric{Advance: 40, LSB: 20},
			fontbuild.Metric{Advance: 10},
			fontbuild.Metric{Advance: 6, LSB: 3},
		)).
		AddTable("cmap", fontbuild.CMap4(map[rune]uint16{'A': 1})).
		Bytes()
}

func fixtureDecoder(t *testing.T) *Decoder {
	t.Helper()
	otf, err := ot.Parse(buildFixtureFont(t))
	if err != nil {
		core.UserError(err)
		t.Fatal(err)
	}
	dec, err := NewDecoder(otf)
	if err != nil {
		core.UserError(err)
		t.Fatal(err)
	}
	return dec
}

func TestDecodeTriangle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	dec := fixtureDecoder(t)
	cmds, err := dec.Path(1, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []PathCommand{
		{Op: MoveTo, To: Pt{0, 0}},
		{Op: LineTo, To: Pt{10, 0}},
		{Op: LineTo, To: Pt{5, 10}},
		{Op: ClosePath},
	}
	if diff := cmp.Diff(want, cmds); diff != "" {
		t.Errorf("triangle path differs (-want +got):\n%s", diff)
	}
}

func TestDecodeQuadSegment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	dec := fixtureDecoder(t)
	cmds, err := dec.Path(2, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []PathCommand{
		{Op: MoveTo, To: Pt{0, 0}},
		{Op: QuadTo, Ctrl: Pt{5, 10}, To: Pt{10, 0}},
		{Op: ClosePath},
	}
	if diff := cmp.Diff(want, cmds); diff != "" {
		t.Errorf("quad path differs (-want +got):\n%s", diff)
	}
}

func TestDecodeAllOffCurve(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	// A contour consisting of control points only starts at the implied
	// midpoint of first and last point, with implied on-curve points
	// between every pair of controls.
	dec := fixtureDecoder(t)
	cmds, err := dec.Path(3, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []PathCommand{
		{Op: MoveTo, To: Pt{0, 5}},
		{Op: QuadTo, Ctrl: Pt{0, 0}, To: Pt{5, 0}},
		{Op: QuadTo, Ctrl: Pt{10, 0}, To: Pt{10, 5}},
		{Op: QuadTo, Ctrl: Pt{10, 10}, To: Pt{5, 10}},
		{Op: QuadTo, Ctrl: Pt{0, 10}, To: Pt{0, 5}},
		{Op: ClosePath},
	}
	if diff := cmp.Diff(want, cmds); diff != "" {
		t.Errorf("all-off-curve path differs (-want +got):\n%s", diff)
	}
}

func TestDecodeEmptyGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	dec := fixtureDecoder(t)
	outline, err := dec.Outline(0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if outline.ContourCount() != 0 || len(outline.Points) != 0 {
		t.Errorf("expected empty outline for glyph 0, got %d contours", outline.ContourCount())
	}
	if cmds := outline.Path(); len(cmds) != 0 {
		t.Errorf("expected no path commands for glyph 0, got %v", cmds)
	}
}

func TestDecodeSinglePointContour(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	dec := fixtureDecoder(t)
	outline, err := dec.Outline(6, nil)
	if err != nil {
		t.Fatal(err)
	}
	if outline.ContourCount() != 1 {
		t.Fatalf("expected 1 contour, got %d", outline.ContourCount())
	}
	if cmds := outline.Path(); len(cmds) != 0 {
		t.Errorf("expected degenerate contour to render nothing, got %v", cmds)
	}
}

func TestDecodeUnknownGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	dec := fixtureDecoder(t)
	_, err := dec.Outline(77, nil)
	if err == nil {
		t.Fatal("expected decoding of out-of-range glyph ID to fail")
	}
	if ot.KindOf(err) != ot.UnknownGlyphID {
		t.Errorf("expected error kind UnknownGlyphID, got %v", ot.KindOf(err))
	}
}

func TestDecodeComposite(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	dec := fixtureDecoder(t)
	cmds, err := dec.Path(4, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []PathCommand{
		{Op: MoveTo, To: Pt{20, 0}},
		{Op: LineTo, To: Pt{30, 0}},
		{Op: LineTo, To: Pt{25, 10}},
		{Op: ClosePath},
	}
	if diff := cmp.Diff(want, cmds); diff != "" {
		t.Errorf("composite path differs (-want +got):\n%s", diff)
	}
}

func TestDecodeCompositeCycle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	dec := fixtureDecoder(t)
	_, err := dec.Outline(5, nil)
	if err == nil {
		t.Fatal("expected decoding of self-referencing composite to fail")
	}
	if ot.KindOf(err) != ot.CompositeCycle {
		t.Errorf("expected error kind CompositeCycle, got %v", ot.KindOf(err))
	}
}

func TestDecodeMalformedContourEnds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	twoContours := fontbuild.SimpleGlyph(
		[]fontbuild.GlyphPoint{{X: 0, Y: 0, On: true}, {X: 4, Y: 0, On: true}, {X: 2, Y: 4, On: true}},
		[]fontbuild.GlyphPoint{{X: 6, Y: 0, On: true}, {X: 8, Y: 2, On: true}},
	)
	// Swap the contour end indices so they decrease.
	twoContours[10], twoContours[11], twoContours[12], twoContours[13] = 0, 4, 0, 2
	glyf, offsets := fontbuild.GlyfTable(twoContours)
	font := fontbuild.New().
		AddTable("head", fontbuild.Head(1000, 0)).
		AddTable("maxp", fontbuild.MaxP(1)).
		AddTable("loca", fontbuild.LocaShort(offsets...)).
		AddTable("glyf", glyf).
		AddTable("hhea", fontbuild.HHea(800, -200, 0, 1)).
		AddTable("hmtx", fontbuild.HMtx(fontbuild.Metric{Advance: 10})).
		Bytes()
	otf, err := ot.Parse(font)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := NewDecoder(otf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = dec.Outline(0, nil); err == nil {
		t.Fatal("expected decoding of decreasing contour ends to fail")
	} else if ot.KindOf(err) != ot.MalformedContour {
		t.Errorf("expected error kind MalformedContour, got %v", ot.KindOf(err))
	}
}

func TestDecoderRequiresOutlineTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	font := fontbuild.New().
		AddTable("head", fontbuild.Head(1000, 0)).
		AddTable("maxp", fontbuild.MaxP(1)).
		Bytes()
	otf, err := ot.Parse(font)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = NewDecoder(otf); err == nil {
		t.Fatal("expected decoder creation to fail without a glyf table")
	} else if core.Code(err) != core.EMISSING {
		t.Errorf("expected error code EMISSING, got %d", core.Code(err))
	}
}

func TestDecodeIsRepeatable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	dec := fixtureDecoder(t)
	first, err := dec.Outline(1, nil)
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outline, err := dec.Outline(1, nil)
			if err != nil {
				t.Error(err)
				return
			}
			if diff := cmp.Diff(first, outline); diff != "" {
				t.Errorf("repeated decode differs (-first +got):\n%s", diff)
			}
		}()
	}
	wg.Wait()
}

func TestAdvance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	dec := fixtureDecoder(t)
	advance, err := dec.Advance(1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if advance != 10 {
		t.Errorf("expected advance 10 for glyph 1, got %g", advance)
	}
}
