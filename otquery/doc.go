/*
Package otquery queries metrics and other information from OpenType fonts.

Package otquery provides functions to query global and per-glyph
information from a font. It knows about the various tables contained in
OpenType fonts and which ones to address for queries. Clients of this
package will, amongst other, be:

▪︎ glyph rasterizers, such as FreeType (https://github.com/golang/freetype)

▪︎ tools inspecting the design-space of variable fonts

# Status

Font collections are not supported yet.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphpath.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphpath.fonts")
}
