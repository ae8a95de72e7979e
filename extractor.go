package miniply

import (
	"encoding/binary"
	"math"
)

// HasProperty reports whether the current element has a property with
// the given name.
func (r *Reader) HasProperty(name string) bool {
	e := r.CurrentElement()
	if e == nil {
		return false
	}
	_, ok := e.FindProperty(name)
	return ok
}

// HasScalarTuple reports whether the current element has every named
// property, each a non-list scalar.
func (r *Reader) HasScalarTuple(names ...string) bool {
	e := r.CurrentElement()
	if e == nil {
		return false
	}
	for _, name := range names {
		p, ok := e.FindProperty(name)
		if !ok || p.IsList() {
			return false
		}
	}
	return true
}

// ExtractScalarTuple writes e.Count k-float tuples (k = len(names)) to
// dst, reading each named scalar property's column from the currently
// loaded element. It chooses the cheapest applicable strategy: a single
// bulk copy when the requested columns are f32 and span the whole row
// contiguously, a strided per-row copy when they're f32 and contiguous
// but not the whole row, and a per-field conversion otherwise. Returns
// false if any name is missing, is a list property, or the element
// isn't loaded.
func (r *Reader) ExtractScalarTuple(names []string, dst []float32) bool {
	e := r.CurrentElement()
	if e == nil || !e.loaded {
		return false
	}
	k := len(names)
	if k == 0 || len(dst) < e.Count*k {
		return false
	}

	props := make([]*Property, k)
	for i, name := range names {
		p, ok := e.FindProperty(name)
		if !ok || p.IsList() {
			return false
		}
		props[i] = p
	}

	if allF32Contiguous(props) {
		if len(e.Properties) == k && props[0].Offset == 0 {
			return extractBulkF32(e, props, dst)
		}
		return extractStridedF32(e, props, dst)
	}
	return extractMixed(e, props, dst)
}

// allF32Contiguous reports whether props are all f32 and occupy
// consecutive 4-byte offsets in declaration order.
func allF32Contiguous(props []*Property) bool {
	for i, p := range props {
		if p.Type != TypeF32 {
			return false
		}
		if i > 0 && p.Offset != props[i-1].Offset+4 {
			return false
		}
	}
	return true
}

func extractBulkF32(e *Element, props []*Property, dst []float32) bool {
	k := len(props)
	base := props[0].Offset
	n := e.Count * k * 4
	raw := e.data[base : base+n]
	for i := 0; i < e.Count*k; i++ {
		dst[i] = float32frombits(raw[i*4 : i*4+4])
	}
	return true
}

func extractStridedF32(e *Element, props []*Property, dst []float32) bool {
	k := len(props)
	base := props[0].Offset
	for row := 0; row < e.Count; row++ {
		rowBase := row*e.RowStride + base
		for i := 0; i < k; i++ {
			dst[row*k+i] = float32frombits(e.data[rowBase+i*4 : rowBase+i*4+4])
		}
	}
	return true
}

func extractMixed(e *Element, props []*Property, dst []float32) bool {
	k := len(props)
	for row := 0; row < e.Count; row++ {
		rowBase := row * e.RowStride
		for i, p := range props {
			off := rowBase + p.Offset
			var v float32
			switch p.Type {
			case TypeF32:
				v = float32frombits(e.data[off : off+4])
			case TypeF64:
				v = float32(float64frombits(e.data[off : off+8]))
			default:
				v = float32(decodeInt64(e.data[off:off+p.Type.Size()], p.Type))
			}
			dst[row*k+i] = v
		}
	}
	return true
}

func float32frombits(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func float64frombits(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// ListRowCounts returns a fresh slice holding prop's per-row item
// counts, in row order.
func (r *Reader) ListRowCounts(prop *Property) []int {
	out := make([]int, len(prop.RowCount))
	copy(out, prop.RowCount)
	return out
}

// SumOfListCounts returns the total number of values across every row
// of prop.
func (r *Reader) SumOfListCounts(prop *Property) int {
	sum := 0
	for _, c := range prop.RowCount {
		sum += c
	}
	return sum
}

// CountTriangles returns the number of triangles a fan triangulation of
// every row of prop would produce: sum of max(0, rowCount[i]-2).
func (r *Reader) CountTriangles(prop *Property) int {
	total := 0
	for _, c := range prop.RowCount {
		if c > 2 {
			total += c - 2
		}
	}
	return total
}

// AllRowsHaveN reports whether every row of prop has exactly n items.
func (r *Reader) AllRowsHaveN(prop *Property, n int) bool {
	for _, c := range prop.RowCount {
		if c != n {
			return false
		}
	}
	return true
}

// ExtractListAs copies every value of prop, row by row, into dst,
// converting from prop's on-disk scalar type to T. dst must be at least
// SumOfListCounts(prop) long. Returns false if prop isn't a loaded list
// property or dst is too short.
func ExtractListAs[T Numeric](prop *Property, dst []T) bool {
	if !prop.IsList() || prop.RowCount == nil {
		return false
	}
	size := prop.Type.Size()
	total := 0
	for _, c := range prop.RowCount {
		total += c
	}
	if len(dst) < total {
		return false
	}

	idx := 0
	for row, count := range prop.RowCount {
		start := prop.RowStart[row]
		for i := 0; i < count; i++ {
			off := start + i*size
			dst[idx] = convertScalar[T](prop.ListData[off:off+size], prop.Type)
			idx++
		}
	}
	return true
}

func convertScalar[T Numeric](data []byte, t ScalarType) T {
	if t == TypeF32 {
		return T(float32frombits(data))
	}
	if t == TypeF64 {
		return T(float64frombits(data))
	}
	return T(decodeInt64(data, t))
}
