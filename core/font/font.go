/*
Package font is for locating and loading font files.

It deals with fonts as containers of binary data only; interpreting the
data is the business of package ot and its siblings. Fonts may be loaded
from an explicit file path or located by name among the installed system
fonts.

----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package font

import (
	"os"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/glyphpath/core"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'glyphpath.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphpath.fonts")
}

// ScalableFont is a font file held in memory.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container
}

// LoadOpenTypeFont reads a font file into memory.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont wraps raw font bytes into a ScalableFont, picking up
// the font's full name along the way.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "not a parsable OpenType font")
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return f, nil
}

// FindFont locates a font by file path or, failing that, by name among
// the installed system fonts.
func FindFont(name string) (*ScalableFont, error) {
	if _, err := os.Stat(name); err == nil {
		return LoadOpenTypeFont(name)
	}
	fpath, err := findfont.Find(name)
	if err != nil || fpath == "" {
		return nil, core.Error(core.EMISSING, "font %s is not an installed system font", name)
	}
	tracer().Debugf("%s is a system font: %s", name, fpath)
	return LoadOpenTypeFont(fpath)
}

// NormalizeFontname reduces a font name to lower case without punctuation,
// used for fuzzy matching of font names.
func NormalizeFontname(fname string) string {
	fname = strings.ToLower(fname)
	for _, s := range []string{"-", "_", " ", ".ttf", ".otf"} {
		fname = strings.ReplaceAll(fname, s, "")
	}
	return fname
}
