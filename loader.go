package miniply

import (
	"encoding/binary"
	"math"
)

// decodeInt64 interprets a size-t.Size() native-order byte span as an
// integer, widening or truncating as needed. Used for list counts and
// for the extractors' integer conversions.
func decodeInt64(data []byte, t ScalarType) int64 {
	switch t {
	case TypeI8:
		return int64(int8(data[0]))
	case TypeU8:
		return int64(data[0])
	case TypeI16:
		return int64(int16(binary.LittleEndian.Uint16(data)))
	case TypeU16:
		return int64(binary.LittleEndian.Uint16(data))
	case TypeI32:
		return int64(int32(binary.LittleEndian.Uint32(data)))
	case TypeU32:
		return int64(binary.LittleEndian.Uint32(data))
	case TypeF32:
		return int64(math.Float32frombits(binary.LittleEndian.Uint32(data)))
	case TypeF64:
		return int64(math.Float64frombits(binary.LittleEndian.Uint64(data)))
	default:
		return 0
	}
}

func encodeIntScalar(dst []byte, t ScalarType, v int64) {
	switch t {
	case TypeI8, TypeU8:
		dst[0] = byte(v)
	case TypeI16, TypeU16:
		binary.LittleEndian.PutUint16(dst, uint16(v))
	case TypeI32, TypeU32:
		binary.LittleEndian.PutUint32(dst, uint32(v))
	}
}

func encodeFloatScalar(dst []byte, t ScalarType, v float64) {
	switch t {
	case TypeF32:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(v)))
	case TypeF64:
		binary.LittleEndian.PutUint64(dst, math.Float64bits(v))
	}
}

// parseASCIIScalar reads one textual literal of type t and returns its
// encoded, native-order bytes.
func parseASCIIScalar(l *lexer, t ScalarType) ([]byte, bool) {
	buf := make([]byte, t.Size())
	if t == TypeF32 || t == TypeF64 {
		v, ok := l.doubleLiteral()
		if !ok {
			return nil, false
		}
		encodeFloatScalar(buf, t, v)
		return buf, true
	}
	v, ok := l.intLiteral()
	if !ok {
		return nil, false
	}
	encodeIntScalar(buf, t, v)
	return buf, true
}

// readBinaryScalar reads t.Size() bytes from the reader's cursor,
// swapping them if the file is big-endian, and returns the native-order
// encoding.
func (r *Reader) readBinaryScalar(t ScalarType) ([]byte, bool) {
	n := t.Size()
	if !r.br.ensure(n) {
		return nil, false
	}
	buf := make([]byte, n)
	copy(buf, r.br.window[r.br.pos:r.br.pos+n])
	if !r.br.advanceBytes(n) {
		return nil, false
	}
	if r.br.bigEndian {
		swapScalar(buf, t)
	}
	return buf, true
}

// loadElement reads e's payload into memory using whichever of the
// three strategies matches the file's format and e's layout.
func (r *Reader) loadElement(e *Element) bool {
	e.data = make([]byte, e.Count*e.RowStride)
	for i := range e.Properties {
		p := &e.Properties[i]
		if p.IsList() {
			p.ListData = nil
			p.RowStart = make([]int, e.Count)
			p.RowCount = make([]int, e.Count)
		}
	}

	var ok bool
	switch {
	case r.format == FormatASCII:
		ok = r.loadElementASCII(e)
	case e.FixedSize:
		ok = r.loadElementFixedBinary(e)
	default:
		ok = r.loadElementVariableBinary(e)
	}
	if ok {
		e.loaded = true
	}
	return ok
}

func (r *Reader) loadElementFixedBinary(e *Element) bool {
	total := e.Count * e.RowStride
	if total == 0 {
		return true
	}
	raw, ok := r.br.readBytes(total)
	if !ok {
		return false
	}
	if r.br.bigEndian {
		for row := 0; row < e.Count; row++ {
			base := row * e.RowStride
			for i := range e.Properties {
				p := &e.Properties[i]
				swapScalar(raw[base+p.Offset:base+p.Offset+p.Type.Size()], p.Type)
			}
		}
	}
	e.data = raw
	return true
}

func (r *Reader) loadElementVariableBinary(e *Element) bool {
	for row := 0; row < e.Count; row++ {
		rowBase := row * e.RowStride
		for i := range e.Properties {
			p := &e.Properties[i]
			if !p.IsList() {
				field, ok := r.readBinaryScalar(p.Type)
				if !ok {
					return false
				}
				copy(e.data[rowBase+p.Offset:rowBase+p.Offset+p.Type.Size()], field)
				continue
			}

			countField, ok := r.readBinaryScalar(p.CountType)
			if !ok {
				return false
			}
			count := decodeInt64(countField, p.CountType)
			if count < 0 {
				return false
			}
			p.RowStart[row] = len(p.ListData)
			p.RowCount[row] = int(count)
			for n := int64(0); n < count; n++ {
				valField, ok := r.readBinaryScalar(p.Type)
				if !ok {
					return false
				}
				p.ListData = append(p.ListData, valField...)
			}
		}
	}
	return true
}

func (r *Reader) loadElementASCII(e *Element) bool {
	for row := 0; row < e.Count; row++ {
		rowBase := row * e.RowStride
		for i := range e.Properties {
			p := &e.Properties[i]
			r.lex.advance()
			if !p.IsList() {
				field, ok := parseASCIIScalar(r.lex, p.Type)
				if !ok {
					return false
				}
				copy(e.data[rowBase+p.Offset:rowBase+p.Offset+p.Type.Size()], field)
				continue
			}

			count, ok := r.lex.intLiteral()
			if !ok || count < 0 {
				return false
			}
			p.RowStart[row] = len(p.ListData)
			p.RowCount[row] = int(count)
			for n := int64(0); n < count; n++ {
				r.lex.advance()
				valField, ok := parseASCIIScalar(r.lex, p.Type)
				if !ok {
					return false
				}
				p.ListData = append(p.ListData, valField...)
			}
		}
		if !r.lex.nextLine() {
			return false
		}
	}
	return true
}

// skipElement advances past e's on-disk payload without retaining any
// of it, using whichever strategy matches the file's format and e's
// layout.
func (r *Reader) skipElement(e *Element) bool {
	switch {
	case r.format == FormatASCII:
		return r.skipElementASCII(e)
	case e.FixedSize:
		return r.skipElementFixedBinary(e)
	default:
		return r.skipElementVariableBinary(e)
	}
}

func (r *Reader) skipElementASCII(e *Element) bool {
	for row := 0; row < e.Count; row++ {
		if !r.lex.nextLine() {
			return false
		}
	}
	return true
}

func (r *Reader) skipElementFixedBinary(e *Element) bool {
	total := int64(e.Count) * int64(e.RowStride)
	if total == 0 {
		return true
	}
	return r.br.seekForward(r.br.absolutePos() + total)
}

func (r *Reader) skipElementVariableBinary(e *Element) bool {
	for row := 0; row < e.Count; row++ {
		for i := range e.Properties {
			p := &e.Properties[i]
			if !p.IsList() {
				if !r.br.advanceBytes(p.Type.Size()) {
					return false
				}
				continue
			}
			countField, ok := r.readBinaryScalar(p.CountType)
			if !ok {
				return false
			}
			count := decodeInt64(countField, p.CountType)
			if count < 0 {
				return false
			}
			if !r.br.advanceBytes(int(count) * p.Type.Size()) {
				return false
			}
		}
	}
	return true
}
