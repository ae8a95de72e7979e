package miniply

import "testing"

func TestTriangulatePolygonTooFewVertices(t *testing.T) {
	vertPos := []float32{0, 0, 0, 1, 0, 0}
	out := make([]int32, 3)
	if n := TriangulatePolygon(vertPos, 2, []int32{0, 1}, out); n != 0 {
		t.Fatalf("n = %d, want 0", n)
	}
}

func TestTriangulatePolygonTriangleFastPath(t *testing.T) {
	vertPos := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	in := []int32{0, 1, 2}
	out := make([]int32, 3)
	n := TriangulatePolygon(vertPos, 3, in, out)
	if n != 1 {
		t.Fatalf("n = %d, want 1", n)
	}
	if out[0] != 0 || out[1] != 1 || out[2] != 2 {
		t.Fatalf("out = %v, want [0 1 2]", out)
	}
}

func TestTriangulatePolygonQuadFastPath(t *testing.T) {
	// A planar unit square in the XY plane, CCW wound.
	vertPos := []float32{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
	}
	in := []int32{0, 1, 2, 3}
	out := make([]int32, 6)
	n := TriangulatePolygon(vertPos, 4, in, out)
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	want := []int32{0, 1, 3, 2, 3, 1}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out = %v, want %v", out, want)
		}
	}
}

func TestTriangulatePolygonRejectsOutOfRangeIndex(t *testing.T) {
	vertPos := []float32{0, 0, 0, 1, 0, 0, 1, 1, 0}
	in := []int32{0, 1, 5}
	out := make([]int32, 3)
	if n := TriangulatePolygon(vertPos, 3, in, out); n != 0 {
		t.Fatalf("n = %d, want 0 (index 5 out of range for numVerts=3)", n)
	}
}

func TestTriangulatePolygonConcavePentagon(t *testing.T) {
	// A concave pentagon (arrow shape) in the XY plane, CCW wound, with
	// vertex 3 reflex.
	vertPos := []float32{
		0, 0, 0,
		4, 0, 0,
		4, 4, 0,
		2, 1.5, 0, // reflex vertex pulled in toward the centroid
		0, 4, 0,
	}
	in := []int32{0, 1, 2, 3, 4}
	out := make([]int32, 9)
	n := TriangulatePolygon(vertPos, 5, in, out)
	if n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}

	seen := map[int32]int{}
	for _, idx := range out[:n*3] {
		seen[idx]++
	}
	for _, idx := range in {
		if seen[idx] == 0 {
			t.Fatalf("vertex %d never appears in any emitted triangle", idx)
		}
	}
}

func TestTriangulatePolygonConvexPentagon(t *testing.T) {
	vertPos := make([]float32, 0, 15)
	pts := [][2]float32{
		{1, 0}, {0.31, 0.95}, {-0.81, 0.59}, {-0.81, -0.59}, {0.31, -0.95},
	}
	for _, p := range pts {
		vertPos = append(vertPos, p[0], p[1], 0)
	}
	in := []int32{0, 1, 2, 3, 4}
	out := make([]int32, 9)
	n := TriangulatePolygon(vertPos, 5, in, out)
	if n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}
}

func TestExtractTrianglesSumsAcrossRows(t *testing.T) {
	vertPos := []float32{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
		0.5, 2, 0,
	}
	src := []byte("ply\nformat ascii 1.0\n" +
		"element face 2\nproperty list uchar int vertex_indices\nend_header\n" +
		"4 0 1 2 3\n3 1 2 4\n")
	r := mustOpen(t, src)
	if !r.LoadElement() {
		t.Fatalf("LoadElement failed")
	}
	p, _ := r.CurrentElement().FindProperty("vertex_indices")

	dst := make([]int32, r.CountTriangles(p)*3)
	n := r.ExtractTriangles(p, vertPos, 5, dst)
	if n != 3 {
		t.Fatalf("ExtractTriangles = %d, want 3", n)
	}
}
