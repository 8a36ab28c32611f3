package gltf

// transform.go computes a Node's local and world transform matrices.
// Generalizes common/math.go's Euler-angle BuildModelMatrix into the
// quaternion TRS composition glTF nodes actually use, keeping the same
// column-major [16]float64 layout and Mul4 multiply order.

// identityMatrix returns the 4x4 identity in column-major layout
// (index = column*4 + row), matching common/math.go's convention.
func identityMatrix() [16]float64 {
	return [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul4 multiplies two column-major 4x4 matrices, a*b.
func Mul4(a, b [16]float64) [16]float64 {
	var out [16]float64
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

func translationMatrix(t [3]float64) [16]float64 {
	m := identityMatrix()
	m[12], m[13], m[14] = t[0], t[1], t[2]
	return m
}

func scaleMatrix(s [3]float64) [16]float64 {
	m := identityMatrix()
	m[0], m[5], m[10] = s[0], s[1], s[2]
	return m
}

// quatToMatrix converts a unit quaternion (x,y,z,w) to a rotation matrix.
func quatToMatrix(q [4]float64) [16]float64 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	x2, y2, z2 := x+x, y+y, z+z
	xx, xy, xz := x*x2, x*y2, x*z2
	yy, yz, zz := y*y2, y*z2, z*z2
	wx, wy, wz := w*x2, w*y2, w*z2

	m := identityMatrix()
	m[0], m[1], m[2] = 1-(yy+zz), xy+wz, xz-wy
	m[4], m[5], m[6] = xy-wz, 1-(xx+zz), yz+wx
	m[8], m[9], m[10] = xz+wy, yz-wx, 1-(xx+yy)
	return m
}

// NodeLocalMatrix returns a Node's local transform: Matrix verbatim if
// HasMatrix, otherwise T * R * S composed from Translation/Rotation/Scale.
func NodeLocalMatrix(n *Node) [16]float64 {
	if n.HasMatrix {
		return n.Matrix
	}
	t := translationMatrix(n.Translation)
	r := quatToMatrix(n.Rotation)
	s := scaleMatrix(n.Scale)
	return Mul4(t, Mul4(r, s))
}

// NodeWorldMatrix returns a Node's world transform: its local matrix
// multiplied by every ancestor's local matrix, walking Parent back-links
// set by the resolver.
func NodeWorldMatrix(n *Node) [16]float64 {
	local := NodeLocalMatrix(n)
	if n.Parent == nil {
		return local
	}
	return Mul4(NodeWorldMatrix(n.Parent), local)
}
