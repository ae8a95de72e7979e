package miniply

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const infeasibleAngle = 10000.0

// TriangulatePolygon fans or ear-clips the simple planar polygon given
// by the n = len(inIdx) vertex indices in inIdx (each indexing into the
// numVerts-vertex, 3-float-per-vertex array vertPos), writing 3*(n-2)
// indices to outIdx and returning the triangle count. outIdx must have
// room for 3*(n-2) int32s.
//
// n < 3 produces no triangles. n == 3 copies the triangle as given.
// n == 4 splits on the 1-3 diagonal into (0,1,3) and (2,3,1). n >= 5
// ear-clips by repeatedly
// removing the remaining vertex with the smallest feasible interior
// angle, which is O(n^2) but robust for the small polygons PLY face
// lists hold in practice.
//
// Any inIdx value outside [0, numVerts) aborts the whole polygon and
// returns 0.
func TriangulatePolygon(vertPos []float32, numVerts uint32, inIdx, outIdx []int32) int {
	n := len(inIdx)
	if n < 3 {
		return 0
	}
	for _, idx := range inIdx {
		if idx < 0 || uint32(idx) >= numVerts {
			return 0
		}
	}

	switch n {
	case 3:
		outIdx[0], outIdx[1], outIdx[2] = inIdx[0], inIdx[1], inIdx[2]
		return 1
	case 4:
		outIdx[0], outIdx[1], outIdx[2] = inIdx[0], inIdx[1], inIdx[3]
		outIdx[3], outIdx[4], outIdx[5] = inIdx[2], inIdx[3], inIdx[1]
		return 2
	}

	return earClip(vertPos, inIdx, outIdx)
}

func vertAt(vertPos []float32, idx int32) mgl32.Vec3 {
	base := idx * 3
	return mgl32.Vec3{vertPos[base], vertPos[base+1], vertPos[base+2]}
}

// faceBasis2D builds an orthonormal (u, v) basis for the polygon's
// plane from its first, second, and last vertex, then projects every
// vertex into that plane.
func faceBasis2D(vertPos []float32, inIdx []int32) []mgl32.Vec2 {
	n := len(inIdx)
	p0 := vertAt(vertPos, inIdx[0])
	p1 := vertAt(vertPos, inIdx[1])
	pLast := vertAt(vertPos, inIdx[n-1])

	u := p1.Sub(p0).Normalize()
	normal := u.Cross(pLast.Sub(p0).Normalize()).Normalize()
	v := normal.Cross(u).Normalize()

	pts := make([]mgl32.Vec2, n)
	for i, idx := range inIdx {
		d := vertAt(vertPos, idx).Sub(p0)
		pts[i] = mgl32.Vec2{d.Dot(u), d.Dot(v)}
	}
	return pts
}

// interiorAngle returns the polygon interior angle at vertex i, given
// its neighbors prev and next in the 2D projection, normalized to
// (0, 2*pi]. Reflex and degenerate vertices land outside (0, pi) and
// are treated as infeasible ears by the caller.
func interiorAngle(pts []mgl32.Vec2, prev, i, next int) float64 {
	toPrev := pts[prev].Sub(pts[i])
	toNext := pts[next].Sub(pts[i])
	cross := float64(toNext.X()*toPrev.Y() - toNext.Y()*toPrev.X())
	dot := float64(toNext.Dot(toPrev))
	angle := math.Atan2(cross, dot)
	if angle <= 0 {
		angle += 2 * math.Pi
	}
	return angle
}

func earClip(vertPos []float32, inIdx, outIdx []int32) int {
	n := len(inIdx)
	pts := faceBasis2D(vertPos, inIdx)

	next := make([]int, n)
	prev := make([]int, n)
	alive := make([]bool, n)
	for i := 0; i < n; i++ {
		next[i] = (i + 1) % n
		prev[i] = (i - 1 + n) % n
		alive[i] = true
	}

	triCount := 0
	remaining := n
	for remaining > 3 {
		bestI := -1
		bestAngle := math.MaxFloat64
		for i := 0; i < n; i++ {
			if !alive[i] {
				continue
			}
			angle := interiorAngle(pts, prev[i], i, next[i])
			if angle <= 0 || angle >= math.Pi {
				angle = infeasibleAngle
			}
			if angle < bestAngle {
				bestAngle = angle
				bestI = i
			}
		}
		if bestI < 0 {
			bestI = firstAlive(alive)
		}

		base := triCount * 3
		outIdx[base] = inIdx[bestI]
		outIdx[base+1] = inIdx[next[bestI]]
		outIdx[base+2] = inIdx[prev[bestI]]
		triCount++

		next[prev[bestI]] = next[bestI]
		prev[next[bestI]] = prev[bestI]
		alive[bestI] = false
		remaining--
	}

	last := firstAlive(alive)
	base := triCount * 3
	outIdx[base] = inIdx[last]
	outIdx[base+1] = inIdx[next[last]]
	outIdx[base+2] = inIdx[prev[last]]
	triCount++

	return triCount
}

func firstAlive(alive []bool) int {
	for i, a := range alive {
		if a {
			return i
		}
	}
	return -1
}

// ExtractTriangles triangulates every row of the loaded list property
// prop (a face's vertex-index list) against the numVerts-vertex array
// vertPos, appending all resulting triangle indices to dst in row
// order, and returns the total triangle count written.
func (r *Reader) ExtractTriangles(prop *Property, vertPos []float32, numVerts uint32, dst []int32) int {
	if !prop.IsList() {
		return 0
	}
	written := 0
	row := make([]int32, 0, 8)
	tri := make([]int32, 0, 8)

	for rowIdx, count := range prop.RowCount {
		if count < 3 {
			continue
		}
		start := prop.RowStart[rowIdx]
		row = row[:0]
		for i := 0; i < count; i++ {
			off := start + i*prop.Type.Size()
			row = append(row, int32(decodeInt64(prop.ListData[off:off+prop.Type.Size()], prop.Type)))
		}

		need := (count - 2) * 3
		if cap(tri) < need {
			tri = make([]int32, need)
		} else {
			tri = tri[:need]
		}
		n := TriangulatePolygon(vertPos, numVerts, row, tri)
		if written+n*3 > len(dst) {
			n = (len(dst) - written) / 3
		}
		copy(dst[written:written+n*3], tri[:n*3])
		written += n * 3
	}
	return written / 3
}
