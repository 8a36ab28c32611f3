package gltf

import "testing"

func matAlmostEqual(a, b [16]float64) bool {
	for i := range a {
		d := a[i] - b[i]
		if d > 1e-9 || d < -1e-9 {
			return false
		}
	}
	return true
}

func TestNodeLocalMatrixTRS(t *testing.T) {
	n := Node{
		Translation: [3]float64{1, 2, 3},
		Rotation:    [4]float64{0, 0, 0, 1},
		Scale:       [3]float64{2, 2, 2},
	}
	got := NodeLocalMatrix(&n)
	want := [16]float64{
		2, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 2, 0,
		1, 2, 3, 1,
	}
	if !matAlmostEqual(got, want) {
		t.Fatalf("NodeLocalMatrix = %v, want %v", got, want)
	}
}

func TestNodeWorldMatrixComposesAncestors(t *testing.T) {
	parent := Node{
		Translation: [3]float64{1, 2, 3},
		Rotation:    [4]float64{0, 0, 0, 1},
		Scale:       [3]float64{2, 2, 2},
	}
	child := Node{
		Rotation: [4]float64{0, 0, 0, 1},
		Scale:    [3]float64{1, 1, 1},
		Parent:   &parent,
	}

	world := NodeWorldMatrix(&child)
	parentLocal := NodeLocalMatrix(&parent)
	if !matAlmostEqual(world, parentLocal) {
		t.Fatalf("identity child's world matrix should equal parent's local matrix\ngot  %v\nwant %v", world, parentLocal)
	}
}

func TestNodeLocalMatrixUsesExplicitMatrix(t *testing.T) {
	m := [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		5, 6, 7, 1,
	}
	n := Node{HasMatrix: true, Matrix: m}
	got := NodeLocalMatrix(&n)
	if got != m {
		t.Fatalf("NodeLocalMatrix should return Matrix verbatim when HasMatrix is set")
	}
}
