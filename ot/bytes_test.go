package ot

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestSegmentView(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	seg := binarySegm{1, 2, 3, 4, 5, 6}
	v, err := seg.view(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if v.Size() != 2 || v[0] != 3 {
		t.Errorf("expected view [3 4], got %v", v)
	}
	if _, err = seg.view(4, 4); err == nil {
		t.Error("expected out-of-bounds view to fail")
	}
	if _, err = seg.view(-1, 2); err == nil {
		t.Error("expected negative offset view to fail")
	}
}

func TestSegmentNumbers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	seg := binarySegm{0x00, 0x01, 0xff, 0xfe, 0x40, 0x00}
	if n, _ := seg.u16(0); n != 1 {
		t.Errorf("expected u16(0) = 1, got %d", n)
	}
	if n, _ := seg.i16(2); n != -2 {
		t.Errorf("expected i16(2) = -2, got %d", n)
	}
	if f, _ := seg.f2dot14(4); f != 1.0 {
		t.Errorf("expected f2dot14(4) = 1.0, got %g", f)
	}
	if _, err := seg.u32(4); err == nil {
		t.Error("expected u32 read past segment end to fail")
	}
	// The zero-value variants report out-of-range reads as 0.
	if n := seg.U16(10); n != 0 {
		t.Errorf("expected U16 out of range to be 0, got %d", n)
	}
}

func TestViewArray(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.fonts")
	defer teardown()
	//
	seg := binarySegm{0x00, 0x0a, 0x00, 0x14, 0x00, 0x1e}
	a := viewArray16(seg)
	if a.length != 3 {
		t.Fatalf("expected array of 3 entries, got %d", a.length)
	}
	if n := a.Get(1).U16(0); n != 20 {
		t.Errorf("expected entry 1 to be 20, got %d", n)
	}
	if n := a.Get(17).U16(0); n != 10 {
		t.Errorf("expected out-of-range access to yield entry 0, got %d", n)
	}
}
