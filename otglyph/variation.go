package otglyph

import (
	"math"

	"github.com/npillmayer/glyphpath/ot"
)

// normalizedCoords maps a design-space location onto the normalized
// coordinate scale of the font's axes: -1 … 1, with 0 at each axis'
// default. User values are clamped to the axis range, remapped through
// 'avar' if present, and quantized to the F2Dot14 grid (which is how
// rasterizers agree on interpolation results).
//
// A nil return value means the location is equivalent to the default
// position and no interpolation is necessary.
func (d *Decoder) normalizedCoords(loc Location) []float64 {
	fvar := d.otf.Var.FVar
	if fvar == nil || len(loc) == 0 {
		return nil
	}
	coords := make([]float64, len(fvar.Axes))
	nonDefault := false
	for i, ax := range fvar.Axes {
		v, ok := loc[ax.Tag]
		if !ok {
			continue
		}
		if v < ax.Minimum {
			v = ax.Minimum
		}
		if v > ax.Maximum {
			v = ax.Maximum
		}
		var n float64
		switch {
		case v < ax.Default && ax.Default != ax.Minimum:
			n = -(ax.Default - v) / (ax.Default - ax.Minimum)
		case v > ax.Default && ax.Maximum != ax.Default:
			n = (v - ax.Default) / (ax.Maximum - ax.Default)
		}
		if avar := d.otf.Var.AVar; avar != nil {
			n = avar.Map(i, n)
		}
		n = math.Round(n*16384) / 16384
		coords[i] = n
		if n != 0 {
			nonDefault = true
		}
	}
	if !nonDefault {
		return nil
	}
	return coords
}

// tupleScalar computes the weight of a tuple variation at the given
// normalized coordinates: the product of per-axis factors of the tuple's
// region, a piecewise linear tent with value 1 at the peak.
func tupleScalar(coords []float64, tv ot.TupleVariation) float64 {
	scalar := 1.0
	for i, peak := range tv.Peak {
		if i >= len(coords) {
			break
		}
		if peak == 0 {
			continue // axis does not participate in this tuple
		}
		v := coords[i]
		if v == peak {
			continue
		}
		start, end := math.Min(peak, 0), math.Max(peak, 0)
		if tv.Start != nil {
			start, end = tv.Start[i], tv.End[i]
			if start > peak || peak > end {
				continue // malformed region, axis ignored
			}
			if start < 0 && end > 0 {
				continue // regions spanning zero are ignored
			}
		}
		if v < start || v > end {
			return 0
		}
		if v < peak {
			scalar *= (v - start) / (peak - start)
		} else {
			scalar *= (end - v) / (end - peak)
		}
	}
	return scalar
}

// applyVariation interpolates a glyph's points (including phantoms) at
// the given normalized coordinates, accumulating the weighted deltas of
// every applicable tuple variation. infer enables delta inference for
// contour points a sparse tuple leaves out; it is set for simple glyphs
// only, composite pseudo-points receive no inferred deltas.
func (d *Decoder) applyVariation(gid ot.GlyphIndex, z *glyphZone, coords []float64, infer bool) error {
	if coords == nil {
		return nil
	}
	gvar := d.otf.Var.GVar
	if gvar == nil {
		return nil
	}
	tuples, err := gvar.Variations(gid, len(z.points))
	if err != nil {
		return err
	}
	if len(tuples) == 0 {
		return nil
	}
	n := len(z.points)
	accX := make([]float64, n)
	accY := make([]float64, n)
	dx := make([]float64, n) // per-tuple scratch
	dy := make([]float64, n)
	ref := make([]bool, n)
	for _, tv := range tuples {
		scalar := tupleScalar(coords, tv)
		if scalar == 0 {
			continue
		}
		if tv.Points == nil { // tuple carries a delta for each point
			for i := 0; i < n; i++ {
				accX[i] += scalar * float64(tv.DeltasX[i])
				accY[i] += scalar * float64(tv.DeltasY[i])
			}
			continue
		}
		for i := 0; i < n; i++ {
			dx[i], dy[i], ref[i] = 0, 0, false
		}
		for k, pn := range tv.Points {
			if int(pn) >= n {
				continue // out-of-range point numbers are dropped
			}
			dx[pn] = float64(tv.DeltasX[k])
			dy[pn] = float64(tv.DeltasY[k])
			ref[pn] = true
		}
		if infer {
			start := 0
			for _, end := range z.ends {
				inferContourDeltas(z.points[start:end], dx[start:end], dy[start:end], ref[start:end])
				start = end
			}
		}
		for i := 0; i < n; i++ {
			accX[i] += scalar * dx[i]
			accY[i] += scalar * dy[i]
		}
	}
	for i := 0; i < n; i++ {
		z.points[i].X += accX[i]
		z.points[i].Y += accY[i]
	}
	return nil
}

// inferContourDeltas fills in deltas for the points of one contour which a
// sparse tuple did not reference. Each unreferenced point takes its delta
// from the nearest referenced neighbours on the contour, interpolated per
// coordinate: linear if the point lies between the neighbours' coordinate
// values, the delta of the closer extreme otherwise.
//
// A contour without any referenced point keeps zero deltas; a contour with
// exactly one referenced point is shifted as a whole.
func inferContourDeltas(pts []Point, dx, dy []float64, ref []bool) {
	var refs []int
	for i, r := range ref {
		if r {
			refs = append(refs, i)
		}
	}
	if len(refs) == 0 || len(refs) == len(pts) {
		return
	}
	for i := range pts {
		if ref[i] {
			continue
		}
		prev, next := neighbours(refs, i)
		dx[i] = inferDelta(pts[i].X, pts[prev].X, pts[next].X, dx[prev], dx[next])
		dy[i] = inferDelta(pts[i].Y, pts[prev].Y, pts[next].Y, dy[prev], dy[next])
	}
}

// neighbours returns the referenced points preceding and following index i
// on the contour, wrapping around at the ends. refs is sorted and
// non-empty.
func neighbours(refs []int, i int) (prev, next int) {
	prev, next = refs[len(refs)-1], refs[0]
	for _, r := range refs {
		if r < i {
			prev = r
		}
		if r > i {
			next = r
			break
		}
	}
	return prev, next
}

func inferDelta(target, c1, c2, d1, d2 float64) float64 {
	if c1 == c2 {
		if d1 == d2 {
			return d1
		}
		return 0
	}
	if c1 > c2 {
		c1, c2, d1, d2 = c2, c1, d2, d1
	}
	switch {
	case target <= c1:
		return d1
	case target >= c2:
		return d2
	}
	return d1 + (target-c1)/(c2-c1)*(d2-d1)
}
