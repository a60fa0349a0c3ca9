package ot

// Reading bytes from a font's binary representation.
//
// Every accessor in this file validates that the requested range lies
// within the underlying buffer. Out-of-range access yields an error value
// (errBufferBounds, wrapped into a TruncatedData DecodeError at the call
// sites which know what they were reading), never a panic.

var errBufferBounds = ErrDecode(TruncatedData, "buffer bounds exceeded")

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

// binarySegm is a segment of byte data.
// We use it throughout this module to navigate the font's binary data.
// A binarySegm never owns its bytes; it is a view into the font blob.
type binarySegm []byte

// Size returns the size in bytes.
func (b binarySegm) Size() int {
	return len(b)
}

// Bytes returns the segment as a byte slice. Callers must treat it as
// read-only.
func (b binarySegm) Bytes() []byte {
	return b
}

// view returns n bytes at the given offset.
// The byte segment returned is a sub-slice of b.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n <= 0 || offset+n > len(b) {
		return nil, errBufferBounds
	}
	return b[offset : offset+n], nil
}

// u8 returns the byte in b at offset i.
func (b binarySegm) u8(i int) (uint8, error) {
	if i < 0 || i >= len(b) {
		return 0, errBufferBounds
	}
	return b[i], nil
}

// u16 returns the uint16 in b at the relative offset i.
func (b binarySegm) u16(i int) (uint16, error) {
	buf, err := b.view(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(buf), nil
}

// i16 returns the int16 in b at the relative offset i.
func (b binarySegm) i16(i int) (int16, error) {
	n, err := b.u16(i)
	return int16(n), err
}

// u32 returns the uint32 in b at the relative offset i.
func (b binarySegm) u32(i int) (uint32, error) {
	buf, err := b.view(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(buf), nil
}

// U16 is a non-failing convenience accessor: out-of-range reads return 0.
func (b binarySegm) U16(i int) uint16 {
	n, err := b.u16(i)
	if err != nil {
		return 0
	}
	return n
}

// U32 is a non-failing convenience accessor: out-of-range reads return 0.
func (b binarySegm) U32(i int) uint32 {
	n, err := b.u32(i)
	if err != nil {
		return 0
	}
	return n
}

// fixed1616 reads a 16.16 fixed-point number as a float64.
func (b binarySegm) fixed1616(i int) (float64, error) {
	n, err := b.u32(i)
	if err != nil {
		return 0, err
	}
	return float64(int32(n)) / 65536, nil
}

// f2dot14 reads a 2.14 fixed-point number as a float64.
func (b binarySegm) f2dot14(i int) (float64, error) {
	n, err := b.u16(i)
	if err != nil {
		return 0, err
	}
	return float64(int16(n)) / 16384, nil
}

// --- Arrays of fixed size records ------------------------------------------

// array is a view on a linear sequence of equal-sized records.
type array struct {
	recordSize int
	length     int
	loc        binarySegm
}

func viewArray(b binarySegm, recordSize int) array {
	n := 0
	if recordSize > 0 {
		n = b.Size() / recordSize
	}
	return array{
		recordSize: recordSize,
		length:     n,
		loc:        b,
	}
}

func viewArray16(b binarySegm) array {
	return viewArray(b, 2)
}

// Get returns record #i as a byte segment. Out-of-range indices return
// record 0, mirroring the font convention of index 0 as the "missing"
// entry.
func (a array) Get(i int) binarySegm {
	if i < 0 || (i+1)*a.recordSize > len(a.loc) {
		i = 0
	}
	b, err := a.loc.view(i*a.recordSize, a.recordSize)
	if err != nil {
		return binarySegm{}
	}
	return b
}
