package miniply

import "testing"

func parseTestHeader(t *testing.T, src string) (Format, int, int, []*Element) {
	t.Helper()
	l := newTestLexer(src)
	format, major, minor, elements, ok := parseHeader(l)
	if !ok {
		t.Fatalf("parseHeader(%q) failed", src)
	}
	return format, major, minor, elements
}

func TestParseHeaderASCIICube(t *testing.T) {
	src := "ply\n" +
		"format ascii 1.0\n" +
		"comment made by a test\n" +
		"element vertex 8\n" +
		"property float x\n" +
		"property float y\n" +
		"property float z\n" +
		"element face 6\n" +
		"property list uchar int vertex_indices\n" +
		"end_header\n"

	format, major, minor, elements := parseTestHeader(t, src)
	if format != FormatASCII {
		t.Fatalf("format = %v, want ascii", format)
	}
	if major != 1 || minor != 0 {
		t.Fatalf("version = %d.%d, want 1.0", major, minor)
	}
	if len(elements) != 2 {
		t.Fatalf("len(elements) = %d, want 2", len(elements))
	}

	vertex := elements[0]
	if vertex.Name != "vertex" || vertex.Count != 8 {
		t.Fatalf("vertex = %+v, want name=vertex count=8", vertex)
	}
	if !vertex.FixedSize || vertex.RowStride != 12 {
		t.Fatalf("vertex fixedSize/rowStride = %v/%d, want true/12", vertex.FixedSize, vertex.RowStride)
	}
	for i, want := range []string{"x", "y", "z"} {
		if vertex.Properties[i].Name != want || vertex.Properties[i].Offset != i*4 {
			t.Fatalf("vertex.Properties[%d] = %+v, want name=%s offset=%d", i, vertex.Properties[i], want, i*4)
		}
	}

	face := elements[1]
	if face.FixedSize {
		t.Fatalf("face.FixedSize = true, want false (has a list property)")
	}
	p, ok := face.FindProperty("vertex_indices")
	if !ok || !p.IsList() || p.Type != TypeI32 || p.CountType != TypeU8 {
		t.Fatalf("vertex_indices property = %+v, %v", p, ok)
	}
}

func TestParseHeaderBinaryLittleEndian(t *testing.T) {
	src := "ply\n" +
		"format binary_little_endian 1.0\n" +
		"element vertex 1\n" +
		"property float32 x\n" +
		"end_header\n"
	format, _, _, _ := parseTestHeader(t, src)
	if format != FormatBinaryLE {
		t.Fatalf("format = %v, want binary_little_endian", format)
	}
}

func TestParseHeaderRejectsMissingMagic(t *testing.T) {
	l := newTestLexer("format ascii 1.0\nend_header\n")
	if _, _, _, _, ok := parseHeader(l); ok {
		t.Fatalf("parseHeader without 'ply' magic succeeded, want failure")
	}
}

func TestParseHeaderRejectsPropertyBeforeElement(t *testing.T) {
	l := newTestLexer("ply\nformat ascii 1.0\nproperty float x\nend_header\n")
	if _, _, _, _, ok := parseHeader(l); ok {
		t.Fatalf("parseHeader with a property before any element succeeded, want failure")
	}
}

func TestParseHeaderRejectsNegativeCount(t *testing.T) {
	l := newTestLexer("ply\nformat ascii 1.0\nelement vertex -1\nend_header\n")
	if _, _, _, _, ok := parseHeader(l); ok {
		t.Fatalf("parseHeader with a negative element count succeeded, want failure")
	}
}

func TestConvertListToFixedSize(t *testing.T) {
	_, _, _, elements := parseTestHeader(t, "ply\n"+
		"format ascii 1.0\n"+
		"element face 2\n"+
		"property list uchar int vertex_indices\n"+
		"end_header\n")
	face := elements[0]
	prop, _ := face.FindProperty("vertex_indices")

	cols, ok := face.ConvertListToFixedSize(prop, 3)
	if !ok {
		t.Fatalf("ConvertListToFixedSize failed")
	}
	if len(cols) != 3 || cols[0] != 1 || cols[1] != 2 || cols[2] != 3 {
		t.Fatalf("column indices = %v, want [1 2 3]", cols)
	}
	if !face.FixedSize {
		t.Fatalf("face.FixedSize = false after splicing its only list, want true")
	}
	if face.RowStride != 1+3*4 {
		t.Fatalf("face.RowStride = %d, want %d", face.RowStride, 1+3*4)
	}
	if len(face.Properties) != 4 {
		t.Fatalf("len(face.Properties) = %d, want 4", len(face.Properties))
	}
}
