package gltf

// validate.go runs post-resolution consistency checks the resolver itself
// doesn't perform: byte-range bounds against declared buffer/view sizes,
// attribute count agreement across a primitive and its morph targets, and
// the weights-length contract between meshes and the nodes instancing
// them. Every check here is pure inspection of already-resolved tables;
// none of it re-walks tokens.

// Validate runs every structural consistency check against an
// already-resolved Document and returns the first violation found, or nil.
// Parse always calls this; it is also exported so a caller re-checking a
// Document built or mutated some other way can invoke it directly.
func Validate(doc *Document) error {
	for i := range doc.BufferViews {
		if err := validateBufferView(doc, &doc.BufferViews[i], i); err != nil {
			return err
		}
	}
	for i := range doc.Accessors {
		if err := validateAccessor(&doc.Accessors[i], i); err != nil {
			return err
		}
	}
	for i := range doc.Meshes {
		if err := validateMesh(&doc.Meshes[i], i); err != nil {
			return err
		}
	}
	for i := range doc.Nodes {
		if err := validateNodeWeights(&doc.Nodes[i], i); err != nil {
			return err
		}
	}
	return nil
}

func validateBufferView(doc *Document, bv *BufferView, idx int) error {
	buf := bv.Buffer.Get()
	if buf == nil {
		return newError(KindInvalidGltf, "bufferView %d has no resolved buffer", idx)
	}
	if bv.Offset < 0 || bv.Size < 0 || bv.Offset+bv.Size > buf.Size {
		return newError(KindInvalidGltf, "bufferView %d range [%d,%d) exceeds buffer size %d", idx, bv.Offset, bv.Offset+bv.Size, buf.Size)
	}
	return nil
}

// accessorByteSpan returns the number of bytes from Accessor.Offset to the
// end of its last element, using the already-defaulted Stride.
func accessorByteSpan(acc *Accessor) int {
	if acc.Count == 0 {
		return 0
	}
	elemSize := packedElementSize(acc.ComponentType, acc.Shape)
	return acc.Offset + (acc.Count-1)*acc.Stride + elemSize
}

func validateAccessor(acc *Accessor, idx int) error {
	if bv := acc.BufferView.Get(); bv != nil {
		span := accessorByteSpan(acc)
		if span > bv.Size {
			return newError(KindInvalidGltf, "accessor %d byte span %d exceeds bufferView size %d", idx, span, bv.Size)
		}
	}
	if acc.Sparse != nil {
		if err := validateAccessorSparse(acc, idx); err != nil {
			return err
		}
	}
	if len(acc.Min) != 0 && len(acc.Min) != shapeComponentCount(acc.Shape) {
		return newError(KindInvalidGltf, "accessor %d min has %d components, want %d", idx, len(acc.Min), shapeComponentCount(acc.Shape))
	}
	if len(acc.Max) != 0 && len(acc.Max) != shapeComponentCount(acc.Shape) {
		return newError(KindInvalidGltf, "accessor %d max has %d components, want %d", idx, len(acc.Max), shapeComponentCount(acc.Shape))
	}
	return nil
}

func validateAccessorSparse(acc *Accessor, idx int) error {
	s := acc.Sparse
	if s.Count < 0 || s.Count > acc.Count {
		return newError(KindInvalidGltf, "accessor %d sparse count %d exceeds accessor count %d", idx, s.Count, acc.Count)
	}
	switch s.IndicesComponent {
	case ComponentU8, ComponentU16, ComponentU32:
	default:
		return newError(KindInvalidGltf, "accessor %d sparse indices componentType must be an unsigned integer type", idx)
	}

	indicesView := s.IndicesView.Get()
	valuesView := s.ValuesView.Get()
	if indicesView == nil || valuesView == nil {
		return newError(KindInvalidGltf, "accessor %d sparse indices/values bufferView unresolved", idx)
	}

	indexSize := componentSize(s.IndicesComponent)
	indicesSpan := s.IndicesOffset + s.Count*indexSize
	if indicesSpan > indicesView.Size {
		return newError(KindInvalidGltf, "accessor %d sparse indices span %d exceeds bufferView size %d", idx, indicesSpan, indicesView.Size)
	}

	elemSize := packedElementSize(acc.ComponentType, acc.Shape)
	valuesSpan := s.ValuesOffset + s.Count*elemSize
	if valuesSpan > valuesView.Size {
		return newError(KindInvalidGltf, "accessor %d sparse values span %d exceeds bufferView size %d", idx, valuesSpan, valuesView.Size)
	}

	if buf := indicesView.Buffer.Get(); buf != nil && buf.Data != nil {
		for j := 0; j < s.Count; j++ {
			off := indicesView.Offset + s.IndicesOffset + j*indexSize
			target := int(readComponent(buf.Data, off, s.IndicesComponent, false))
			if target < 0 || target >= acc.Count {
				return newError(KindDataTooShort, "accessor %d sparse index %d value %d out of range [0,%d)", idx, j, target, acc.Count)
			}
		}
	}
	return nil
}

func validateMesh(m *Mesh, idx int) error {
	var targetCount = -1
	var attrCount = -1
	for pi := range m.Primitives {
		p := &m.Primitives[pi]

		if targetCount == -1 {
			targetCount = len(p.Targets)
		} else if len(p.Targets) != targetCount {
			return newError(KindInvalidGltf, "mesh %d primitive %d has %d morph targets, want %d", idx, pi, len(p.Targets), targetCount)
		}

		if idxAcc := p.Indices.Get(); idxAcc != nil {
			switch idxAcc.ComponentType {
			case ComponentU8, ComponentU16, ComponentU32:
			default:
				return newError(KindInvalidGltf, "mesh %d primitive %d indices componentType must be an unsigned integer type", idx, pi)
			}
		}

		primCount := -1
		for _, a := range p.Attributes {
			acc := a.Accessor.Get()
			if acc == nil {
				continue
			}
			if primCount == -1 {
				primCount = acc.Count
			} else if acc.Count != primCount {
				return newError(KindInvalidGltf, "mesh %d primitive %d attribute %q count %d disagrees with %d", idx, pi, a.Name, acc.Count, primCount)
			}
		}
		if attrCount == -1 {
			attrCount = primCount
		}

		for ti, target := range p.Targets {
			for _, a := range target.Attributes {
				acc := a.Accessor.Get()
				if acc == nil {
					continue
				}
				if primCount != -1 && acc.Count != primCount {
					return newError(KindInvalidGltf, "mesh %d primitive %d target %d attribute %q count %d disagrees with primitive count %d", idx, pi, ti, a.Name, acc.Count, primCount)
				}
			}
		}
	}

	if len(m.Weights) != 0 && targetCount > 0 && len(m.Weights) != targetCount {
		return newError(KindInvalidGltf, "mesh %d weights length %d disagrees with morph target count %d", idx, len(m.Weights), targetCount)
	}
	return nil
}

func validateNodeWeights(n *Node, idx int) error {
	if len(n.Weights) == 0 {
		return nil
	}
	mesh := n.Mesh.Get()
	if mesh == nil {
		return newError(KindInvalidGltf, "node %d has weights but no mesh", idx)
	}
	if len(mesh.Weights) != 0 && len(n.Weights) != len(mesh.Weights) {
		return newError(KindInvalidGltf, "node %d weights length %d disagrees with mesh weights length %d", idx, len(n.Weights), len(mesh.Weights))
	}
	return nil
}
