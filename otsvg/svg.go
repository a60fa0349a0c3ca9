/*
Package otsvg serializes glyph paths into SVG path data.

The output of otglyph.Decoder.Path maps naturally onto the SVG path
grammar: MoveTo/LineTo/QuadTo/ClosePath become M/L/Q/Z. This package
renders a command list into a 'd' attribute string, optionally flipping
the y-axis (SVG grows downwards, font coordinates grow upwards).

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package otsvg

import (
	"strconv"
	"strings"

	"github.com/npillmayer/glyphpath/otglyph"
)

// Options steer the serialization of path data.
type Options struct {
	Precision int     // digits after the decimal point; 0 keeps full precision
	Relative  bool    // emit relative commands (m/l/q) instead of absolute ones
	FlipY     bool    // mirror the y-axis, usually combined with OffsetY = ascender
	OffsetX   float64 // translation applied after the optional flip
	OffsetY   float64
}

// PathData renders a list of path commands into an SVG path 'd' string,
// e.g. "M 0 0 L 10 0 L 5 10 Z".
func PathData(cmds []otglyph.PathCommand, opts Options) string {
	var b strings.Builder
	tx := func(p otglyph.Pt) (float64, float64) {
		x, y := p.X, p.Y
		if opts.FlipY {
			y = -y
		}
		return x + opts.OffsetX, y + opts.OffsetY
	}
	num := func(v float64) string {
		if opts.Precision > 0 {
			s := strconv.FormatFloat(v, 'f', opts.Precision, 64)
			s = strings.TrimRight(s, "0")
			return strings.TrimRight(s, ".")
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	var cx, cy, sx, sy float64 // current point and subpath start
	pt := func(p otglyph.Pt) {
		x, y := tx(p)
		if opts.Relative {
			x, y = x-cx, y-cy
		}
		b.WriteString(num(x))
		b.WriteByte(' ')
		b.WriteString(num(y))
	}
	letter := func(abs string) {
		if opts.Relative {
			b.WriteString(strings.ToLower(abs))
		} else {
			b.WriteString(abs)
		}
	}
	for i, cmd := range cmds {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch cmd.Op {
		case otglyph.MoveTo:
			letter("M ")
			pt(cmd.To)
			cx, cy = tx(cmd.To)
			sx, sy = cx, cy
		case otglyph.LineTo:
			letter("L ")
			pt(cmd.To)
			cx, cy = tx(cmd.To)
		case otglyph.QuadTo:
			letter("Q ")
			pt(cmd.Ctrl)
			b.WriteByte(' ')
			pt(cmd.To)
			cx, cy = tx(cmd.To)
		case otglyph.ClosePath:
			letter("Z")
			cx, cy = sx, sy
		}
	}
	return b.String()
}

// Document wraps path data into a minimal standalone SVG document with the
// given view box, mainly useful for eyeballing decoded outlines.
func Document(d string, width, height int) string {
	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)
	b.WriteString(strconv.Itoa(width))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(height))
	b.WriteString("\">\n  <path d=\"")
	b.WriteString(d)
	b.WriteString("\"/>\n</svg>\n")
	return b.String()
}
