package otquery

import (
	"testing"

	"github.com/npillmayer/glyphpath/internal/fontbuild"
	"github.com/npillmayer/glyphpath/ot"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/sfnt"
)

// --- Test Suite Preparation ------------------------------------------------

type QueryTestEnviron struct {
	suite.Suite
	fixture *ot.Font
}

// listen for 'go test' command --> run test methods
func TestQueryFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	suite.Run(t, new(QueryTestEnviron))
}

// run once, before test suite methods
func (env *QueryTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("glyphpath.fonts").SetTraceLevel(tracing.LevelError)
	env.fixture = buildFixture(env.T())
	tracing.Select("glyphpath.fonts").SetTraceLevel(tracing.LevelInfo)
}

// run once, after test suite methods
func (env *QueryTestEnviron) TearDownSuite() {
	env.T().Log("Tearing down test suite")
}

// --- Tests -----------------------------------------------------------------

func (env *QueryTestEnviron) TestFontType() {
	env.Equal("TrueType", FontType(env.fixture), "expected fixture to be a TrueType font")
}

func (env *QueryTestEnviron) TestGlyphIndex() {
	gid := GlyphIndex(env.fixture, 'A')
	env.Equal(ot.GlyphIndex(1), gid, "expected glyph index of 'A' in fixture font to be 1")
	env.Equal(ot.GlyphIndex(0), GlyphIndex(env.fixture, 'B'),
		"expected unmapped code-point to map to .notdef")
}

func (env *QueryTestEnviron) TestCodePointForGlyph() {
	env.Equal('A', CodePointForGlyph(env.fixture, 1))
}

func (env *QueryTestEnviron) TestGlyphMetrics() {
	m := GlyphMetrics(env.fixture, 1)
	env.T().Logf("metrics = %v", m)
	env.Equal(sfnt.Units(10), m.Advance, "expected advance of glyph 1 to be 10 units")
	env.Equal(sfnt.Units(0), m.LSB)
	env.Equal(sfnt.Units(10), m.BBox.Dx(), "expected bounding box width of 10 units")
	env.Equal(sfnt.Units(0), m.RSB)
}

func (env *QueryTestEnviron) TestFontMetrics() {
	m := FontMetrics(env.fixture)
	env.Equal(sfnt.Units(1000), m.UnitsPerEm)
	env.Equal(sfnt.Units(800), m.Ascent)
	env.Equal(sfnt.Units(-200), m.Descent)
}

func (env *QueryTestEnviron) TestNameInfo() {
	names := NameInfo(env.fixture)
	env.Equal("Fixture Sans", names["family"], "expected family name in fixture font")
	env.Equal("Regular", names["subfamily"])
}

func (env *QueryTestEnviron) TestAxisList() {
	env.True(IsVariableFont(env.fixture), "expected fixture to be a variable font")
	axes := AxisList(env.fixture)
	env.Require().Len(axes, 1, "expected 1 design-space axis")
	env.Equal("wght", axes[0].Tag)
	env.Equal("Weight", axes[0].Name, "expected axis name from the name table")
	env.Equal(400.0, axes[0].Default)
	env.Equal(700.0, axes[0].Maximum)
}

func (env *QueryTestEnviron) TestNamedInstances() {
	env.Empty(NamedInstances(env.fixture), "fixture declares no named instances")
}

// --- Helpers ---------------------------------------------------------------

func buildFixture(t *testing.T) *ot.Font {
	triangle := fontbuild.SimpleGlyph([]fontbuild.GlyphPoint{
		{X: 0, Y: 0, On: true},
		{X: 10, Y: 0, On: true},
		{X: 5, Y: 10, On: true},
	})
	glyf, offsets := fontbuild.GlyfTable(nil, triangle)
	font := fontbuild.New().
		AddTable("head", fontbuild.Head(1000, 0)).
		AddTable("maxp", fontbuild.MaxP(2)).
		AddTable("loca", fontbuild.LocaShort(offsets...)).
		AddTable("glyf", glyf).
		AddTable("hhea", fontbuild.HHea(800, -200, 0, 2)).
		AddTable("hmtx", fontbuild.HMtx(fontbuild.Metric{Advance: 500}, fontbuild.Metric{Advance: 10})).
		AddTable("cmap", fontbuild.CMap4(map[rune]uint16{'A': 1})).
		AddTable("name", fontbuild.Name(map[uint16]string{
			1:   "Fixture Sans",
			2:   "Regular",
			256: "Weight",
		})).
		AddTable("fvar", fontbuild.FVar(
			fontbuild.Axis{Tag: "wght", Min: 400, Def: 400, Max: 700, NameID: 256})).
		AddTable("gvar", fontbuild.GVar(1, nil, nil)).
		Bytes()
	otf, err := ot.Parse(font)
	if err != nil {
		t.Fatalf("cannot parse fixture font: %s", err)
	}
	return otf
}
