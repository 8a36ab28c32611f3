package gltf

// resolve.go is the second deserialization pass: every Ref[T] built by
// deserialize.go carries a table index, not a usable pointer, until this
// pass runs. It also fixes up Node.Parent back-links and defaults each
// Accessor's effective Stride.

// resolveRequired rewrites ref from index to a pointer into table, failing
// if the reference was never set or is out of range.
func resolveRequired[T any](ref *Ref[T], table []T, what string) error {
	if !ref.IsSet() {
		return newError(KindInvalidGltf, "missing required %s reference", what)
	}
	idx := ref.Index()
	if idx < 0 || idx >= len(table) {
		return newError(KindInvalidGltf, "%s index %d out of range [0,%d)", what, idx, len(table))
	}
	ref.resolve(&table[idx])
	return nil
}

// resolveOptional is resolveRequired but a no-op when ref was never set.
func resolveOptional[T any](ref *Ref[T], table []T, what string) error {
	if !ref.IsSet() {
		return nil
	}
	return resolveRequired(ref, table, what)
}

// resolveDocument rewrites every Ref[T] in doc from table index to direct
// pointer, fixes up Node.Parent back-links, and defaults each resolved
// Accessor's effective byte stride.
func resolveDocument(doc *Document) error {
	if err := resolveOptional(&doc.DefaultScene, doc.Scenes, "scene"); err != nil {
		return err
	}

	for i := range doc.Scenes {
		s := &doc.Scenes[i]
		for j := range s.Nodes {
			if err := resolveRequired(&s.Nodes[j], doc.Nodes, "scene node"); err != nil {
				return err
			}
		}
	}

	for i := range doc.BufferViews {
		bv := &doc.BufferViews[i]
		if err := resolveRequired(&bv.Buffer, doc.Buffers, "bufferView.buffer"); err != nil {
			return err
		}
	}

	for i := range doc.Accessors {
		acc := &doc.Accessors[i]
		if err := resolveOptional(&acc.BufferView, doc.BufferViews, "accessor.bufferView"); err != nil {
			return err
		}
		if acc.Sparse != nil {
			if err := resolveRequired(&acc.Sparse.IndicesView, doc.BufferViews, "accessor.sparse.indices.bufferView"); err != nil {
				return err
			}
			if err := resolveRequired(&acc.Sparse.ValuesView, doc.BufferViews, "accessor.sparse.values.bufferView"); err != nil {
				return err
			}
		}
		if bv := acc.BufferView.Get(); bv != nil {
			if bv.Stride != 0 {
				acc.Stride = bv.Stride
			} else {
				acc.Stride = packedElementSize(acc.ComponentType, acc.Shape)
			}
		}
	}

	for i := range doc.Images {
		im := &doc.Images[i]
		if err := resolveOptional(&im.BufferView, doc.BufferViews, "image.bufferView"); err != nil {
			return err
		}
	}

	for i := range doc.Textures {
		t := &doc.Textures[i]
		if err := resolveOptional(&t.Image, doc.Images, "texture.source"); err != nil {
			return err
		}
		if err := resolveOptional(&t.Sampler, doc.Samplers, "texture.sampler"); err != nil {
			return err
		}
	}

	for i := range doc.Materials {
		if err := resolveMaterialTextures(doc, &doc.Materials[i]); err != nil {
			return err
		}
	}

	for i := range doc.Meshes {
		m := &doc.Meshes[i]
		for j := range m.Primitives {
			p := &m.Primitives[j]
			if err := resolveOptional(&p.Indices, doc.Accessors, "primitive.indices"); err != nil {
				return err
			}
			if err := resolveOptional(&p.Material, doc.Materials, "primitive.material"); err != nil {
				return err
			}
			if err := resolveAttributes(doc, p.Attributes); err != nil {
				return err
			}
			for k := range p.Targets {
				if err := resolveAttributes(doc, p.Targets[k].Attributes); err != nil {
					return err
				}
			}
		}
	}

	for i := range doc.Skins {
		sk := &doc.Skins[i]
		for j := range sk.Joints {
			if err := resolveRequired(&sk.Joints[j], doc.Nodes, "skin.joints"); err != nil {
				return err
			}
		}
		if err := resolveOptional(&sk.Skeleton, doc.Nodes, "skin.skeleton"); err != nil {
			return err
		}
		if err := resolveOptional(&sk.InverseBindMatrices, doc.Accessors, "skin.inverseBindMatrices"); err != nil {
			return err
		}
	}

	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		if err := resolveOptional(&n.Mesh, doc.Meshes, "node.mesh"); err != nil {
			return err
		}
		if err := resolveOptional(&n.Skin, doc.Skins, "node.skin"); err != nil {
			return err
		}
		if err := resolveOptional(&n.Camera, doc.Cameras, "node.camera"); err != nil {
			return err
		}
		if err := resolveOptional(&n.Light, doc.Lights, "node.light (KHR_lights_punctual)"); err != nil {
			return err
		}
		for j := range n.Children {
			if err := resolveRequired(&n.Children[j], doc.Nodes, "node.children"); err != nil {
				return err
			}
		}
	}

	for i := range doc.Animations {
		a := &doc.Animations[i]
		for j := range a.Samplers {
			s := &a.Samplers[j]
			if err := resolveRequired(&s.Input, doc.Accessors, "animation.sampler.input"); err != nil {
				return err
			}
			if err := resolveRequired(&s.Output, doc.Accessors, "animation.sampler.output"); err != nil {
				return err
			}
		}
		for j := range a.Channels {
			ch := &a.Channels[j]
			if err := resolveRequired(&ch.Sampler, a.Samplers, "animation.channel.sampler"); err != nil {
				return err
			}
			if err := resolveOptional(&ch.TargetNode, doc.Nodes, "animation.channel.target.node"); err != nil {
				return err
			}
		}
	}

	return resolveNodeHierarchy(doc)
}

func resolveAttributes(doc *Document, attrs []Attribute) error {
	for i := range attrs {
		if err := resolveRequired(&attrs[i].Accessor, doc.Accessors, "attribute accessor"); err != nil {
			return err
		}
	}
	return nil
}

func resolveTextureView(doc *Document, tv *TextureView, what string) error {
	if tv == nil {
		return nil
	}
	return resolveRequired(&tv.Texture, doc.Textures, what)
}

func resolveMaterialTextures(doc *Document, m *Material) error {
	if m.PbrMetallicRoughness != nil {
		if err := resolveTextureView(doc, m.PbrMetallicRoughness.BaseColorTexture, "material.pbrMetallicRoughness.baseColorTexture"); err != nil {
			return err
		}
		if err := resolveTextureView(doc, m.PbrMetallicRoughness.MetallicRoughnessTexture, "material.pbrMetallicRoughness.metallicRoughnessTexture"); err != nil {
			return err
		}
	}
	if m.HasPbrSpecularGlossiness {
		sg := &m.PbrSpecularGlossiness
		if err := resolveTextureView(doc, sg.DiffuseTexture, "material.extensions.KHR_materials_pbrSpecularGlossiness.diffuseTexture"); err != nil {
			return err
		}
		if err := resolveTextureView(doc, sg.SpecularGlossinessTexture, "material.extensions.KHR_materials_pbrSpecularGlossiness.specularGlossinessTexture"); err != nil {
			return err
		}
	}
	if err := resolveTextureView(doc, m.NormalTexture, "material.normalTexture"); err != nil {
		return err
	}
	if err := resolveTextureView(doc, m.OcclusionTexture, "material.occlusionTexture"); err != nil {
		return err
	}
	if err := resolveTextureView(doc, m.EmissiveTexture, "material.emissiveTexture"); err != nil {
		return err
	}
	return nil
}

// resolveNodeHierarchy sets each Node's Parent back-link from the
// Node.Children lists, rejecting a node claimed by more than one parent,
// then checks Scene.Nodes to reject a node that is both someone's child
// and listed as a scene root. Skin.Joints plays no part here.
func resolveNodeHierarchy(doc *Document) error {
	parentIdx := make([]int, len(doc.Nodes))
	for i := range parentIdx {
		parentIdx[i] = -1
	}

	claim := func(childIdx, parent int) error {
		if parentIdx[childIdx] != -1 && parentIdx[childIdx] != parent {
			return newError(KindInvalidGltf, "node %d has more than one parent", childIdx)
		}
		parentIdx[childIdx] = parent
		return nil
	}

	for i := range doc.Nodes {
		for _, childRef := range doc.Nodes[i].Children {
			if err := claim(childRef.Index(), i); err != nil {
				return err
			}
		}
	}

	for i := range parentIdx {
		if parentIdx[i] != -1 {
			doc.Nodes[i].Parent = &doc.Nodes[parentIdx[i]]
		}
	}

	for si := range doc.Scenes {
		for _, rootRef := range doc.Scenes[si].Nodes {
			if parentIdx[rootRef.Index()] != -1 {
				return newError(KindInvalidGltf, "node %d is both a scene root and a child node", rootRef.Index())
			}
		}
	}

	return nil
}
