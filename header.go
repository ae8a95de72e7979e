package miniply

import "fmt"

// maxNameLength bounds element and property names (and the keywords
// that share the same identifier lexer) read from a header.
const maxNameLength = 255

// Property describes one column of an element, as declared in the
// header. For a list property, Type is the type of each value in the
// row and CountType is the type of the per-row count prefix; for a
// scalar property CountType is TypeNone.
//
// ListData, RowStart, and RowCount are populated only after the owning
// Element has been loaded, and only for list properties.
type Property struct {
	Name      string
	Type      ScalarType
	CountType ScalarType
	Offset    int // byte offset within a fixed-size row; -1 for list properties

	ListData []byte // concatenated list payloads, Type-typed, native byte order
	RowStart []int  // per-row byte offset into ListData
	RowCount []int  // per-row element count
}

// IsList reports whether p is a list property.
func (p *Property) IsList() bool {
	return p.CountType != TypeNone
}

// Element describes one element block declared in the header: its
// name, declared row count, and ordered properties. FixedSize and
// RowStride are computed once the property list is known; RowStride is
// the byte size of one row's scalar properties (list properties add
// nothing to it), whether or not the element is fixed-size.
type Element struct {
	Name       string
	Count      int
	Properties []Property

	FixedSize bool
	RowStride int

	data   []byte // scalar columns of every row, RowStride bytes per row
	loaded bool
}

// FindProperty returns the named property of e, if present.
func (e *Element) FindProperty(name string) (*Property, bool) {
	for i := range e.Properties {
		if e.Properties[i].Name == name {
			return &e.Properties[i], true
		}
	}
	return nil, false
}

// computeLayout walks the declared properties left to right, assigning
// byte offsets to scalar properties and marking the element as
// variable-size as soon as a list property is seen. An element with no
// properties at all is treated as fixed-size with a zero stride.
func (e *Element) computeLayout() {
	e.FixedSize = true
	offset := 0
	for i := range e.Properties {
		p := &e.Properties[i]
		if p.IsList() {
			e.FixedSize = false
			p.Offset = -1
			continue
		}
		p.Offset = offset
		offset += p.Type.Size()
	}
	e.RowStride = offset
}

// scalarTypeNames maps every PLY type token — the classical names and
// the explicit-width aliases — to its ScalarType.
var scalarTypeNames = map[string]ScalarType{
	"char":    TypeI8,
	"int8":    TypeI8,
	"uchar":   TypeU8,
	"uint8":   TypeU8,
	"short":   TypeI16,
	"int16":   TypeI16,
	"ushort":  TypeU16,
	"uint16":  TypeU16,
	"int":     TypeI32,
	"int32":   TypeI32,
	"uint":    TypeU32,
	"uint32":  TypeU32,
	"float":   TypeF32,
	"float32": TypeF32,
	"double":  TypeF64,
	"float64": TypeF64,
}

// parseHeader reads the "ply" magic line through "end_header" and
// returns the declared format, version, and element list. It leaves the
// reader's cursor positioned at the first byte of the element body
// data. A false return means the header is malformed; the reader that
// owns l is left in an invalid state by the caller.
func parseHeader(l *lexer) (format Format, versionMajor, versionMinor int, elements []*Element, ok bool) {
	if !l.keyword("ply") {
		return 0, 0, 0, nil, false
	}
	if !l.nextLine() {
		return 0, 0, 0, nil, false
	}

	format, versionMajor, versionMinor, ok = parseFormatLine(l)
	if !ok {
		return 0, 0, 0, nil, false
	}

	var current *Element
	for {
		l.advance()
		switch {
		case l.keyword("comment"):
			if !l.nextLine() {
				return 0, 0, 0, nil, false
			}
		case l.keyword("element"):
			el, ok := parseElementLine(l)
			if !ok {
				return 0, 0, 0, nil, false
			}
			elements = append(elements, el)
			current = el
		case l.keyword("property"):
			if current == nil {
				return 0, 0, 0, nil, false
			}
			prop, ok := parsePropertyLine(l)
			if !ok {
				return 0, 0, 0, nil, false
			}
			current.Properties = append(current.Properties, prop)
			if !l.nextLine() {
				return 0, 0, 0, nil, false
			}
		case l.keyword("end_header"):
			l.endOfLine()
			for _, el := range elements {
				el.computeLayout()
			}
			return format, versionMajor, versionMinor, elements, true
		default:
			return 0, 0, 0, nil, false
		}
	}
}

func parseFormatLine(l *lexer) (format Format, major, minor int, ok bool) {
	l.advance()
	if !l.keyword("format") {
		return 0, 0, 0, false
	}
	l.advance()
	switch {
	case l.keyword("ascii"):
		format = FormatASCII
	case l.keyword("binary_little_endian"):
		format = FormatBinaryLE
	case l.keyword("binary_big_endian"):
		format = FormatBinaryBE
	default:
		return 0, 0, 0, false
	}
	l.advance()
	majorV, ok := l.intLiteral()
	if !ok || majorV < 0 {
		return 0, 0, 0, false
	}
	if !l.br.ensure(1) || l.br.peek() != '.' {
		return 0, 0, 0, false
	}
	l.br.advanceBytes(1)
	minorV, ok := l.intLiteral()
	if !ok || minorV < 0 {
		return 0, 0, 0, false
	}
	if !l.nextLine() {
		return 0, 0, 0, false
	}
	return format, int(majorV), int(minorV), true
}

func parseElementLine(l *lexer) (*Element, bool) {
	l.advance()
	name, ok := l.identifier(maxNameLength)
	if !ok {
		return nil, false
	}
	l.advance()
	count, ok := l.intLiteral()
	if !ok || count < 0 {
		return nil, false
	}
	if !l.nextLine() {
		return nil, false
	}
	return &Element{Name: name, Count: int(count)}, true
}

func parsePropertyLine(l *lexer) (Property, bool) {
	l.advance()
	if l.keyword("list") {
		l.advance()
		countWord, ok := l.identifier(maxNameLength)
		if !ok {
			return Property{}, false
		}
		countType, ok := scalarTypeNames[countWord]
		if !ok || !countType.isIntegerType() {
			return Property{}, false
		}
		l.advance()
		typeWord, ok := l.identifier(maxNameLength)
		if !ok {
			return Property{}, false
		}
		valType, ok := scalarTypeNames[typeWord]
		if !ok {
			return Property{}, false
		}
		l.advance()
		name, ok := l.identifier(maxNameLength)
		if !ok {
			return Property{}, false
		}
		return Property{Name: name, Type: valType, CountType: countType}, true
	}

	typeWord, ok := l.identifier(maxNameLength)
	if !ok {
		return Property{}, false
	}
	valType, ok := scalarTypeNames[typeWord]
	if !ok {
		return Property{}, false
	}
	l.advance()
	name, ok := l.identifier(maxNameLength)
	if !ok {
		return Property{}, false
	}
	return Property{Name: name, Type: valType, CountType: TypeNone}, true
}

// ConvertListToFixedSize is a header-time transformation, called before
// LoadElement: it splices prop — expected to hold exactly n values on
// every row — out of e's property list and replaces it with one scalar
// count property (of prop's original count type, its value ignored on
// load) followed by n scalar properties of prop's original value type.
// Offsets and RowStride are recomputed, and FixedSize becomes true if
// prop was the element's only list property, which lets the fastest
// load path handle what was a variable-size list.
//
// It returns the indices, into e.Properties, of the n new value
// columns, for the caller to read back with ExtractScalarTuple. It
// returns false, leaving e unmodified, if prop isn't a property of e,
// isn't a list property, or e has already been loaded.
func (e *Element) ConvertListToFixedSize(prop *Property, n int) ([]int, bool) {
	if e.loaded {
		return nil, false
	}
	idx := -1
	for i := range e.Properties {
		if &e.Properties[i] == prop {
			idx = i
			break
		}
	}
	if idx < 0 || !e.Properties[idx].IsList() {
		return nil, false
	}
	old := e.Properties[idx]

	replaced := make([]Property, 0, len(e.Properties)+n)
	replaced = append(replaced, e.Properties[:idx]...)
	replaced = append(replaced, Property{Name: old.Name + ".count", Type: old.CountType, CountType: TypeNone})

	colIndices := make([]int, n)
	for i := 0; i < n; i++ {
		replaced = append(replaced, Property{
			Name:      fmt.Sprintf("%s[%d]", old.Name, i),
			Type:      old.Type,
			CountType: TypeNone,
		})
		colIndices[i] = idx + 1 + i
	}
	replaced = append(replaced, e.Properties[idx+1:]...)

	e.Properties = replaced
	e.computeLayout()
	return colIndices, true
}

func (e *Element) String() string {
	return fmt.Sprintf("%s[%d]", e.Name, e.Count)
}
