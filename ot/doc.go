/*
Package ot reads the binary table structure of OpenType and TrueType fonts.

A font file is handed to this package as an immutable byte blob; package ot
never performs I/O itself and never copies table data out of the blob. All
table types are views into the original bytes, addressed as offset+length
pairs, and every read through them is bounds-checked. Malformed input is
reported as an error value, never as a panic and never as an out-of-bounds
access.

Clients start with Parse:

	otf, err := ot.Parse(data)
	if err != nil { … }
	glyf := otf.Table(ot.T("glyf"))

Parse locates the top-level tables and interprets the small set of tables
this module needs for outline extraction: 'head', 'maxp', 'loca', 'hhea',
'hmtx', 'cmap', 'name', and the variable-font tables 'fvar', 'avar' and
'gvar'. All other tables are retained as generic tables: no table
information is dropped, but interpretation is up to the client.

The actual decoding of glyph outlines—including interpolation across a
variable font's design space—is homed in the sister package otglyph.

Since an ot.Font only ever reads from its underlying blob, any number of
goroutines may share one Font without locking.

# Status

Font collections (.ttc) are not supported. Of the cmap formats, only the
two that matter in practice (4 and 12) are interpreted.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>

Some cmap-routines have originally been derived from
golang.org/x/image/font/sfnt/cmap.go, as they are not accessible through
the sfnt package's API.

	Copyright 2017 The Go Authors. All rights reserved.
	Use of this source code is governed by a BSD-style
	license that can be found in the LICENSE file.
*/
package ot

import (
	"github.com/npillmayer/glyphpath/core"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphpath.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphpath.fonts")
}

// errFontFormat produces user level errors for font parsing.
func errFontFormat(x string) error {
	return core.Error(core.EINVALID, "OpenType font format: %s", x)
}

// errMissingTable produces user level errors for tables which are required
// but not present in a font.
func errMissingTable(x string) error {
	return core.Error(core.EMISSING, "font has no table %s", x)
}
