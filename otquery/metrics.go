package otquery

import (
	"github.com/npillmayer/glyphpath/ot"
	"golang.org/x/image/font/sfnt"
)

// FontMetricsInfo carries selected global metrics of a font, in font units.
type FontMetricsInfo struct {
	UnitsPerEm sfnt.Units
	Ascent     sfnt.Units
	Descent    sfnt.Units
	LineGap    sfnt.Units
	MaxAdvance sfnt.Units
}

// GlyphMetricsInfo carries the metrics of a single glyph, in font units.
type GlyphMetricsInfo struct {
	Advance sfnt.Units
	LSB     sfnt.Units // left side bearing
	RSB     sfnt.Units // right side bearing
	BBox    BoundingBox
}

// BoundingBox is the bounding box of a glyph's outline.
type BoundingBox struct {
	MinX, MinY sfnt.Units
	MaxX, MaxY sfnt.Units
}

// Empty is true for a bounding box with no extent.
func (bbox BoundingBox) Empty() bool {
	return bbox.MinX == bbox.MaxX && bbox.MinY == bbox.MaxY
}

// Dx returns the horizontal extent of the bounding box.
func (bbox BoundingBox) Dx() sfnt.Units {
	return bbox.MaxX - bbox.MinX
}

// Dy returns the vertical extent of the bounding box.
func (bbox BoundingBox) Dy() sfnt.Units {
	return bbox.MaxY - bbox.MinY
}

// FontMetrics retrieves selected metrics of a font.
func FontMetrics(otf *ot.Font) FontMetricsInfo {
	metrics := FontMetricsInfo{}
	if otf.Outline.Head != nil {
		metrics.UnitsPerEm = sfnt.Units(otf.Outline.Head.UnitsPerEm)
	}
	hhea := otf.Table(ot.T("hhea"))
	if hhea == nil {
		return metrics
	}
	b := hhea.Binary()
	if len(b) < 12 {
		return metrics
	}
	metrics.Ascent = sfnt.Units(i16(b[4:]))
	metrics.Descent = sfnt.Units(i16(b[6:]))
	metrics.LineGap = sfnt.Units(i16(b[8:]))
	metrics.MaxAdvance = sfnt.Units(u16(b[10:]))
	if metrics.Ascent == 0 && metrics.Descent == 0 {
		// Some fonts leave the hhea values zeroed and rely on OS/2.
		if os2 := otf.Table(ot.T("OS/2")); os2 != nil {
			b := os2.Binary()
			if len(b) >= 72 {
				a := sfnt.Units(i16(b[68:]))
				if a > metrics.Ascent {
					tracer().Debugf("override of ascent: %d -> %d", metrics.Ascent, a)
					metrics.Ascent = a
				}
				d := sfnt.Units(i16(b[70:]))
				if d < metrics.Descent {
					tracer().Debugf("override of descent: %d -> %d", metrics.Descent, d)
					metrics.Descent = d
				}
			}
		}
	}
	return metrics
}

// --- Glyph Routines --------------------------------------------------------

// GlyphIndex returns the glyph index for a given code-point.
// If the code-point cannot be found, 0 is returned.
//
// From the OpenType specification: character codes that do not correspond to any glyph in
// the font should be mapped to glyph index 0. The glyph at this location must be a special
// glyph representing a missing character, commonly known as '.notdef'.
func GlyphIndex(otf *ot.Font, codepoint rune) ot.GlyphIndex {
	if otf.CMap == nil || otf.CMap.GlyphIndexMap == nil {
		return 0
	}
	return otf.CMap.GlyphIndexMap.Lookup(codepoint)
}

// CodePointForGlyph returns the code-point for a given glyph index.
//
// This is an inefficient operation: All code-points contained in the font's CMap
// are checked sequentially if they produce the given glyph.
// If the glyph index does not correspond to a code-point, 0 is returned.
func CodePointForGlyph(otf *ot.Font, gid ot.GlyphIndex) rune {
	if gid == 0 || otf.CMap == nil || otf.CMap.GlyphIndexMap == nil {
		return 0
	}
	return otf.CMap.GlyphIndexMap.ReverseLookup(gid)
}

// GlyphMetrics retrieves metrics for a given glyph.
func GlyphMetrics(otf *ot.Font, gid ot.GlyphIndex) GlyphMetricsInfo {
	metrics := GlyphMetricsInfo{}
	if otf.Outline.HMtx == nil {
		return metrics
	}
	advance, lsb := otf.Outline.HMtx.Metrics(gid)
	metrics.Advance = sfnt.Units(advance)
	metrics.LSB = sfnt.Units(lsb)
	//
	// table glyf: bounding box
	if glyf := otf.Outline.Glyf; glyf != nil && otf.Outline.Loca != nil {
		if from, to, ok := otf.Outline.Loca.GlyphRange(gid); ok && to-from >= 10 {
			b := glyf.Binary()
			if int(to) <= len(b) {
				b = b[from:]
				metrics.BBox = BoundingBox{
					MinX: sfnt.Units(i16(b[2:])),
					MinY: sfnt.Units(i16(b[4:])),
					MaxX: sfnt.Units(i16(b[6:])),
					MaxY: sfnt.Units(i16(b[8:])),
				}
			}
		}
	}
	// RSB calculation: rsb = aw - (lsb + xMax - xMin)
	// From the spec:
	// If a glyph has no contours, xMax/xMin are not defined. The left side bearing indicated
	// in the 'hmtx' table for such glyphs should be zero.
	if !metrics.BBox.Empty() { // leave RSB for empty bboxes
		metrics.RSB = metrics.Advance - (metrics.LSB + metrics.BBox.Dx())
	}
	return metrics
}

// --- Helpers ----------------------------------------------------------

func u16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func i16(b []byte) int16 {
	return int16(b[0])<<8 | int16(b[1])<<0
}
