/*
Package otglyph decodes glyph outlines from OpenType fonts with TrueType
outline data.

A Decoder is created for a parsed font and extracts the outline of single
glyphs, identified by glyph index. For variable fonts a design-space
location may be given; the decoder will then interpolate the outline
points accordingly before returning them.

	otf, err := ot.Parse(fontBytes)
	…
	dec, err := otglyph.NewDecoder(otf)
	…
	path, err := dec.Path(gid, otglyph.Location{ot.T("wght"): 600})

Outlines are sequences of contours of quadratic Bézier segments. Clients
may either walk the raw contour points (Decoder.Outline) or receive a
flat list of path commands (Decoder.Path), with implied on-curve points
between consecutive control points already resolved.

# Status

CFF outlines ('CFF ', 'CFF2') are not interpreted; fonts carrying them
parse fine, but NewDecoder will report the missing 'glyf' table.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package otglyph

import (
	"github.com/npillmayer/glyphpath/core"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glyphpath.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("glyphpath.fonts")
}

func errMissingTable(table string) error {
	return core.Error(core.EMISSING, "font has no usable '%s' table", table)
}
