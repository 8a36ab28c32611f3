package gltf

import (
	"encoding/binary"
	"math"
)

// accessor.go performs the typed readout of accessor data: pure functions
// over already-resolved Document buffer bytes, no JSON or indices left to
// chase. Generalizes a per-shape ReadVec2/Vec3/Vec4/Scalar/Mat4/Indices/
// JointsAccessor family into one shape-driven implementation.

// componentSize returns the byte width of one scalar component.
func componentSize(ct ComponentType) int {
	switch ct {
	case ComponentI8, ComponentU8:
		return 1
	case ComponentI16, ComponentU16:
		return 2
	case ComponentU32, ComponentF32:
		return 4
	default:
		return 0
	}
}

// shapeComponentCount returns the number of scalar components in one
// accessor element.
func shapeComponentCount(s AccessorShape) int {
	switch s {
	case ShapeScalar:
		return 1
	case ShapeVec2:
		return 2
	case ShapeVec3:
		return 3
	case ShapeVec4, ShapeMat2:
		return 4
	case ShapeMat3:
		return 9
	case ShapeMat4:
		return 16
	default:
		return 0
	}
}

func roundUp4(n int) int {
	return (n + 3) &^ 3
}

// packedElementSize is the tightly-packed byte size of one accessor
// element: componentSize * component count, except MAT2 and MAT3 whose
// columns are individually padded to a 4-byte boundary per the glTF
// packed-matrix alignment rules. This is also what the resolver uses to
// default Accessor.Stride when no BufferView.Stride applies.
func packedElementSize(ct ComponentType, shape AccessorShape) int {
	size := componentSize(ct)
	switch shape {
	case ShapeMat2:
		col := roundUp4(size * 2)
		return col * 2
	case ShapeMat3:
		col := roundUp4(size * 3)
		return col * 3
	default:
		return size * shapeComponentCount(shape)
	}
}

// normalizeFactor returns the divisor used to map a normalized integer
// component to [0,1] (unsigned) or [-1,1] (signed), per the glTF
// normalized-integer rules. Returns 0 for component types that cannot be
// normalized (F32, U32).
func normalizeFactor(ct ComponentType) float64 {
	switch ct {
	case ComponentU8:
		return 255
	case ComponentI8:
		return 127
	case ComponentU16:
		return 65535
	case ComponentI16:
		return 32767
	default:
		return 0
	}
}

// readComponent decodes one scalar component at buf[off:] as a float64,
// applying normalization if normalized is true.
func readComponent(buf []byte, off int, ct ComponentType, normalized bool) float64 {
	switch ct {
	case ComponentU8:
		v := float64(buf[off])
		if normalized {
			return math.Max(v/255, 0)
		}
		return v
	case ComponentI8:
		v := float64(int8(buf[off]))
		if normalized {
			return math.Max(v/127, -1)
		}
		return v
	case ComponentU16:
		v := float64(binary.LittleEndian.Uint16(buf[off:]))
		if normalized {
			return math.Max(v/65535, 0)
		}
		return v
	case ComponentI16:
		v := float64(int16(binary.LittleEndian.Uint16(buf[off:])))
		if normalized {
			return math.Max(v/32767, -1)
		}
		return v
	case ComponentU32:
		return float64(binary.LittleEndian.Uint32(buf[off:]))
	case ComponentF32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])))
	default:
		return 0
	}
}

// elementByteOffset returns the byte offset of element i within the
// BufferView-backed data, given an already-resolved accessor (Stride
// defaulted by the resolver).
func elementByteOffset(acc *Accessor, i int) int {
	return acc.Offset + i*acc.Stride
}

// componentByteOffset returns the byte offset of component k within a
// single packed element, honoring the MAT2/MAT3 per-column padding rule.
// For every other shape components are simply contiguous.
func componentByteOffset(ct ComponentType, shape AccessorShape, k int) int {
	size := componentSize(ct)
	switch shape {
	case ShapeMat2:
		col, row := k/2, k%2
		return col*roundUp4(size*2) + row*size
	case ShapeMat3:
		col, row := k/3, k%3
		return col*roundUp4(size*3) + row*size
	default:
		return k * size
	}
}

// AccessorReadFloat reads accessor element i into out, which must have
// length shapeComponentCount(acc.Shape), from the accessor's plain
// BufferView-backed storage. It fails for a sparse accessor, or one with
// no BufferView at all, rather than silently treating either as a valid
// all-zero read — callers that need the sparse overlay applied call
// AccessorReadFloatSparse instead.
//
// Parameters:
//   - acc: a resolved accessor (BufferView.Get(), Stride already defaulted)
//   - i: the 0-based element index, 0 <= i < acc.Count
//   - out: destination slice, length shapeComponentCount(acc.Shape)
//
// Returns:
//   - error: KindInvalidGltf if i is out of range, acc is sparse or has no
//     BufferView, or buffer data is missing
func AccessorReadFloat(acc *Accessor, i int, out []float64) error {
	if i < 0 || i >= acc.Count {
		return newError(KindInvalidGltf, "accessor element index %d out of range [0,%d)", i, acc.Count)
	}
	if acc.Sparse != nil {
		return newError(KindInvalidGltf, "accessor is sparse; use AccessorReadFloatSparse")
	}
	bv := acc.BufferView.Get()
	if bv == nil {
		return newError(KindInvalidGltf, "accessor has no bufferView")
	}
	n := shapeComponentCount(acc.Shape)
	if len(out) < n {
		return newError(KindInvalidGltf, "output slice too small for shape (need %d, got %d)", n, len(out))
	}

	buf := bv.Buffer.Get()
	if buf == nil || buf.Data == nil {
		return newError(KindInvalidGltf, "accessor bufferView has no loaded buffer data")
	}
	base := bv.Offset + elementByteOffset(acc, i)
	size := componentSize(acc.ComponentType)
	for k := 0; k < n; k++ {
		off := base + componentByteOffset(acc.ComponentType, acc.Shape, k)
		if off+size > len(buf.Data) {
			return newError(KindInvalidGltf, "accessor element %d reads past buffer end", i)
		}
		out[k] = readComponent(buf.Data, off, acc.ComponentType, acc.Normalized)
	}
	return nil
}

// AccessorReadFloatSparse reads accessor element i like AccessorReadFloat,
// but additionally supports sparse accessors: the base BufferView (or an
// all-zero base, if the accessor has none) is read first, then overwritten
// by the sparse overlay if i is one of the accessor's overridden indices.
//
// Parameters:
//   - acc: a resolved accessor (BufferView.Get(), Stride already defaulted)
//   - i: the 0-based element index, 0 <= i < acc.Count
//   - out: destination slice, length shapeComponentCount(acc.Shape)
//
// Returns:
//   - error: KindInvalidGltf if i is out of range or buffer data is missing
func AccessorReadFloatSparse(acc *Accessor, i int, out []float64) error {
	if i < 0 || i >= acc.Count {
		return newError(KindInvalidGltf, "accessor element index %d out of range [0,%d)", i, acc.Count)
	}
	n := shapeComponentCount(acc.Shape)
	if len(out) < n {
		return newError(KindInvalidGltf, "output slice too small for shape (need %d, got %d)", n, len(out))
	}

	for k := 0; k < n; k++ {
		out[k] = 0
	}

	if bv := acc.BufferView.Get(); bv != nil {
		buf := bv.Buffer.Get()
		if buf == nil || buf.Data == nil {
			return newError(KindInvalidGltf, "accessor bufferView has no loaded buffer data")
		}
		base := bv.Offset + elementByteOffset(acc, i)
		size := componentSize(acc.ComponentType)
		for k := 0; k < n; k++ {
			off := base + componentByteOffset(acc.ComponentType, acc.Shape, k)
			if off+size > len(buf.Data) {
				return newError(KindInvalidGltf, "accessor element %d reads past buffer end", i)
			}
			out[k] = readComponent(buf.Data, off, acc.ComponentType, acc.Normalized)
		}
	}

	if acc.Sparse != nil {
		if err := applySparseOverlay(acc, i, out); err != nil {
			return err
		}
	}
	return nil
}

// applySparseOverlay scans the sparse index list for element i and, if
// found, overwrites out with the corresponding row from the values view.
// This is a linear scan bounded by Sparse.Count; callers reading every
// element of a sparse accessor in order pay O(count*sparseCount), which is
// acceptable at the scale sparse overlays are used for.
func applySparseOverlay(acc *Accessor, i int, out []float64) error {
	s := acc.Sparse
	indicesView := s.IndicesView.Get()
	valuesView := s.ValuesView.Get()
	if indicesView == nil || valuesView == nil {
		return newError(KindInvalidGltf, "sparse accessor missing indices or values bufferView")
	}
	indicesBuf := indicesView.Buffer.Get()
	valuesBuf := valuesView.Buffer.Get()
	if indicesBuf == nil || valuesBuf == nil || indicesBuf.Data == nil || valuesBuf.Data == nil {
		return newError(KindInvalidGltf, "sparse accessor bufferView has no loaded buffer data")
	}

	indexSize := componentSize(s.IndicesComponent)
	n := shapeComponentCount(acc.Shape)
	compSize := componentSize(acc.ComponentType)
	elemSize := packedElementSize(acc.ComponentType, acc.Shape)

	for j := 0; j < s.Count; j++ {
		idxOff := indicesView.Offset + s.IndicesOffset + j*indexSize
		if idxOff+indexSize > len(indicesBuf.Data) {
			return newError(KindInvalidGltf, "sparse index %d reads past buffer end", j)
		}
		target := int(readComponent(indicesBuf.Data, idxOff, s.IndicesComponent, false))
		if target != i {
			continue
		}
		valBase := valuesView.Offset + s.ValuesOffset + j*elemSize
		for k := 0; k < n; k++ {
			off := valBase + componentByteOffset(acc.ComponentType, acc.Shape, k)
			if off+compSize > len(valuesBuf.Data) {
				return newError(KindInvalidGltf, "sparse value %d reads past buffer end", j)
			}
			out[k] = readComponent(valuesBuf.Data, off, acc.ComponentType, acc.Normalized)
		}
		return nil
	}
	return nil
}

// AccessorReadIndex reads element i of a SCALAR, non-normalized, integer
// accessor (the shape used for primitive.indices and sparse index lists)
// as a uint32. Returns KindInvalidGltf if the accessor is not an integer
// scalar.
func AccessorReadIndex(acc *Accessor, i int) (uint32, error) {
	if acc.Shape != ShapeScalar {
		return 0, newError(KindInvalidGltf, "index accessor must be SCALAR")
	}
	if acc.ComponentType == ComponentF32 {
		return 0, newError(KindInvalidGltf, "index accessor cannot have FLOAT componentType")
	}
	var v [1]float64
	if err := AccessorReadFloat(acc, i, v[:]); err != nil {
		return 0, err
	}
	return uint32(v[0]), nil
}
