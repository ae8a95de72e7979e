package miniply

// ScalarType identifies one of the eight PLY primitive types, or None
// for the count-type field of a scalar (non-list) property.
type ScalarType byte

const (
	TypeI8 ScalarType = iota
	TypeU8
	TypeI16
	TypeU16
	TypeI32
	TypeU32
	TypeF32
	TypeF64
	TypeNone
)

// Size returns the on-disk byte size of t, or 0 for TypeNone.
func (t ScalarType) Size() int {
	switch t {
	case TypeI8, TypeU8:
		return 1
	case TypeI16, TypeU16:
		return 2
	case TypeI32, TypeU32, TypeF32:
		return 4
	case TypeF64:
		return 8
	default:
		return 0
	}
}

func (t ScalarType) String() string {
	switch t {
	case TypeI8:
		return "i8"
	case TypeU8:
		return "u8"
	case TypeI16:
		return "i16"
	case TypeU16:
		return "u16"
	case TypeI32:
		return "i32"
	case TypeU32:
		return "u32"
	case TypeF32:
		return "f32"
	case TypeF64:
		return "f64"
	default:
		return "none"
	}
}

// isIntegerType reports whether t is one of the signed/unsigned integer
// scalar types (used to validate list count-type tokens).
func (t ScalarType) isIntegerType() bool {
	switch t {
	case TypeI8, TypeU8, TypeI16, TypeU16, TypeI32, TypeU32:
		return true
	default:
		return false
	}
}

// Format identifies the encoding of a PLY file's body.
type Format byte

const (
	FormatASCII Format = iota
	FormatBinaryLE
	FormatBinaryBE
)

func (f Format) String() string {
	switch f {
	case FormatASCII:
		return "ascii"
	case FormatBinaryLE:
		return "binary_little_endian"
	case FormatBinaryBE:
		return "binary_big_endian"
	default:
		return "unknown"
	}
}

// Numeric is the set of scalar kinds ExtractListAs can convert into.
type Numeric interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64
}
