package ot

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// NameTable represents the naming table 'name'. It stores strings used
// throughout the font: family and style names, copyright notices, and—
// relevant for variable fonts—the display names of design-space axes and
// named instances, which are referenced by name ID from the fvar table.
//
// Strings come in many platform/encoding/language combinations; we only
// interpret the Unicode-encoded ones (platform 0, or platform 3 with
// encoding 1), which every font in practice carries.
type NameTable struct {
	tableBase
	strbuf  binarySegm // string storage area
	records array      // NameRecord entries, 12 bytes each
}

func newNameTable(tag Tag, b binarySegm, offset, size uint32) *NameTable {
	t := &NameTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}

// parseName reads the header of a 'name' table (format 0 or 1; the
// language-tag extension of format 1 adds records we do not interpret).
func parseName(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	const headerSize = 6
	count, err := b.u16(2)
	if err != nil {
		return nil, errTruncated("name table")
	}
	strOffset, _ := b.u16(4)
	if uint32(strOffset) > size || headerSize+int(count)*12 > int(size) {
		return nil, errTruncated("name records")
	}
	t := newNameTable(tag, b, offset, size)
	t.strbuf = b[strOffset:]
	t.records = viewArray(b[headerSize:headerSize+int(count)*12], 12)
	return t, nil
}

// Get returns the name string for a given name ID, or "" if the font has
// no Unicode-encoded entry for it.
func (t *NameTable) Get(nameID uint16) string {
	for i := 0; i < t.records.length; i++ {
		rec := t.records.Get(i)
		pltf := rec.U16(0)
		enc := rec.U16(2)
		if !((pltf == 0) || (pltf == 3 && enc == 1)) {
			continue
		}
		if rec.U16(6) != nameID {
			continue
		}
		strlen := rec.U16(8)
		stroff := rec.U16(10)
		str, err := t.strbuf.view(int(stroff), int(strlen))
		if err != nil {
			return ""
		}
		s, err := decodeUtf16(str)
		if err != nil {
			tracer().Infof("name record %d: %v", nameID, err)
			return ""
		}
		return s
	}
	return ""
}

func decodeUtf16(str []byte) (string, error) {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	decoder := enc.NewDecoder()
	s, err := decoder.Bytes(str)
	if err != nil {
		return "", fmt.Errorf("decoding UTF-16 error: %v", err)
	}
	return string(s), nil
}
