package gltf

import (
	"strconv"
	"strings"
)

// deserialize.go walks the flat token array from tokenizer.go with a
// key-dispatched recursive-descent interpreter, one function per schema
// object, producing a Document whose Ref[T] fields are still unresolved
// (table indices, not direct pointers — resolve.go rewrites those in a
// second pass). Follows the field shapes and error-wrapping idiom of a
// typical hand-rolled schema walker over a token array.

// ctx holds the source bytes and token array for one deserialization pass.
type ctx struct {
	src  []byte
	toks []Token
}

// nextIndexAfter returns the index of the token immediately following the
// subtree rooted at idx. For a leaf token that is idx+1; for a container
// it is the first later token whose byte range starts at or after the
// container's own End. Each call on a container scans that container's
// whole subtree, so a full nested walk visits a token once per enclosing
// container level rather than once overall.
func nextIndexAfter(toks []Token, idx int) int {
	tok := toks[idx]
	if tok.Kind != TokenObject && tok.Kind != TokenArray {
		return idx + 1
	}
	j := idx + 1
	for j < len(toks) && toks[j].Start < tok.End {
		j++
	}
	return j
}

// forEachObjectKey iterates the key/value pairs of the object token at
// objIdx, calling fn for every member. fn returning a non-nil error stops
// the walk and propagates it.
func (c *ctx) forEachObjectKey(objIdx int, fn func(key string, valIdx int) error) error {
	obj := c.toks[objIdx]
	if obj.Kind != TokenObject {
		return newError(KindInvalidJSON, "expected object at byte %d", obj.Start)
	}
	pos := objIdx + 1
	for i := 0; i < obj.Size; i++ {
		if pos >= len(c.toks) {
			return newError(KindInvalidJSON, "truncated object")
		}
		keyTok := c.toks[pos]
		if keyTok.Kind != TokenString {
			return newError(KindInvalidJSON, "expected string key at byte %d", keyTok.Start)
		}
		key := string(c.src[keyTok.Start:keyTok.End])
		valIdx := pos + 1
		if valIdx >= len(c.toks) {
			return newError(KindInvalidJSON, "missing value for key %q", key)
		}
		if err := fn(key, valIdx); err != nil {
			return err
		}
		pos = nextIndexAfter(c.toks, valIdx)
	}
	return nil
}

// forEachArrayElem iterates the elements of the array token at arrIdx.
func (c *ctx) forEachArrayElem(arrIdx int, fn func(i int, elemIdx int) error) error {
	arr := c.toks[arrIdx]
	if arr.Kind != TokenArray {
		return newError(KindInvalidJSON, "expected array at byte %d", arr.Start)
	}
	pos := arrIdx + 1
	for i := 0; i < arr.Size; i++ {
		if pos >= len(c.toks) {
			return newError(KindInvalidJSON, "truncated array")
		}
		if err := fn(i, pos); err != nil {
			return err
		}
		pos = nextIndexAfter(c.toks, pos)
	}
	return nil
}

func (c *ctx) str(idx int) string {
	t := c.toks[idx]
	return string(c.src[t.Start:t.End])
}

func (c *ctx) isNull(idx int) bool {
	t := c.toks[idx]
	return t.Kind == TokenPrimitive && string(c.src[t.Start:t.End]) == "null"
}

func (c *ctx) parseInt(idx int) (int, error) {
	t := c.toks[idx]
	if t.Kind != TokenPrimitive {
		return 0, newError(KindInvalidJSON, "expected number at byte %d", t.Start)
	}
	f, err := strconv.ParseFloat(string(c.src[t.Start:t.End]), 64)
	if err != nil {
		return 0, newError(KindInvalidJSON, "invalid number at byte %d: %v", t.Start, err)
	}
	return int(f), nil
}

func (c *ctx) parseFloat(idx int) (float64, error) {
	t := c.toks[idx]
	if t.Kind != TokenPrimitive {
		return 0, newError(KindInvalidJSON, "expected number at byte %d", t.Start)
	}
	f, err := strconv.ParseFloat(string(c.src[t.Start:t.End]), 64)
	if err != nil {
		return 0, newError(KindInvalidJSON, "invalid number at byte %d: %v", t.Start, err)
	}
	return f, nil
}

func (c *ctx) parseBool(idx int) (bool, error) {
	t := c.toks[idx]
	if t.Kind != TokenPrimitive {
		return false, newError(KindInvalidJSON, "expected boolean at byte %d", t.Start)
	}
	switch string(c.src[t.Start:t.End]) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, newError(KindInvalidJSON, "invalid boolean at byte %d", t.Start)
	}
}

func (c *ctx) parseFloatArray(idx int, n int) ([]float64, error) {
	out := make([]float64, 0, n)
	err := c.forEachArrayElem(idx, func(_ int, elemIdx int) error {
		v, err := c.parseFloat(elemIdx)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

func (c *ctx) parseFloatArrayFixed(idx int, out []float64) error {
	i := 0
	err := c.forEachArrayElem(idx, func(_ int, elemIdx int) error {
		if i >= len(out) {
			return nil
		}
		v, err := c.parseFloat(elemIdx)
		if err != nil {
			return err
		}
		out[i] = v
		i++
		return nil
	})
	return err
}

func (c *ctx) parseExtras(idx int) Extras {
	t := c.toks[idx]
	return Extras{Start: t.Start, End: t.End}
}

// deserializeDocument parses the root glTF object at token index 0.
func deserializeDocument(src []byte, toks []Token) (*Document, error) {
	c := &ctx{src: src, toks: toks}
	if len(toks) == 0 || toks[0].Kind != TokenObject {
		return nil, newError(KindInvalidJSON, "document root must be a JSON object")
	}

	doc := &Document{json: src}
	var sceneIdx = -1

	err := c.forEachObjectKey(0, func(key string, valIdx int) error {
		switch key {
		case "asset":
			asset, err := c.parseAsset(valIdx)
			if err != nil {
				return err
			}
			doc.Asset = asset
		case "scene":
			i, err := c.parseInt(valIdx)
			if err != nil {
				return err
			}
			sceneIdx = i
		case "scenes":
			return c.forEachArrayElem(valIdx, func(i int, elemIdx int) error {
				s, err := c.parseScene(elemIdx)
				if err != nil {
					return err
				}
				doc.Scenes = append(doc.Scenes, s)
				return nil
			})
		case "nodes":
			return c.forEachArrayElem(valIdx, func(i int, elemIdx int) error {
				n, err := c.parseNode(elemIdx)
				if err != nil {
					return err
				}
				doc.Nodes = append(doc.Nodes, n)
				return nil
			})
		case "meshes":
			return c.forEachArrayElem(valIdx, func(i int, elemIdx int) error {
				m, err := c.parseMesh(elemIdx)
				if err != nil {
					return err
				}
				doc.Meshes = append(doc.Meshes, m)
				return nil
			})
		case "accessors":
			return c.forEachArrayElem(valIdx, func(i int, elemIdx int) error {
				a, err := c.parseAccessor(elemIdx)
				if err != nil {
					return err
				}
				doc.Accessors = append(doc.Accessors, a)
				return nil
			})
		case "bufferViews":
			return c.forEachArrayElem(valIdx, func(i int, elemIdx int) error {
				bv, err := c.parseBufferView(elemIdx)
				if err != nil {
					return err
				}
				doc.BufferViews = append(doc.BufferViews, bv)
				return nil
			})
		case "buffers":
			return c.forEachArrayElem(valIdx, func(i int, elemIdx int) error {
				b, err := c.parseBuffer(elemIdx)
				if err != nil {
					return err
				}
				doc.Buffers = append(doc.Buffers, b)
				return nil
			})
		case "materials":
			return c.forEachArrayElem(valIdx, func(i int, elemIdx int) error {
				m, err := c.parseMaterial(elemIdx)
				if err != nil {
					return err
				}
				doc.Materials = append(doc.Materials, m)
				return nil
			})
		case "textures":
			return c.forEachArrayElem(valIdx, func(i int, elemIdx int) error {
				t, err := c.parseTexture(elemIdx)
				if err != nil {
					return err
				}
				doc.Textures = append(doc.Textures, t)
				return nil
			})
		case "images":
			return c.forEachArrayElem(valIdx, func(i int, elemIdx int) error {
				im, err := c.parseImage(elemIdx)
				if err != nil {
					return err
				}
				doc.Images = append(doc.Images, im)
				return nil
			})
		case "samplers":
			return c.forEachArrayElem(valIdx, func(i int, elemIdx int) error {
				s, err := c.parseSampler(elemIdx)
				if err != nil {
					return err
				}
				doc.Samplers = append(doc.Samplers, s)
				return nil
			})
		case "skins":
			return c.forEachArrayElem(valIdx, func(i int, elemIdx int) error {
				s, err := c.parseSkin(elemIdx)
				if err != nil {
					return err
				}
				doc.Skins = append(doc.Skins, s)
				return nil
			})
		case "cameras":
			return c.forEachArrayElem(valIdx, func(i int, elemIdx int) error {
				cam, err := c.parseCamera(elemIdx)
				if err != nil {
					return err
				}
				doc.Cameras = append(doc.Cameras, cam)
				return nil
			})
		case "animations":
			return c.forEachArrayElem(valIdx, func(i int, elemIdx int) error {
				a, err := c.parseAnimation(elemIdx)
				if err != nil {
					return err
				}
				doc.Animations = append(doc.Animations, a)
				return nil
			})
		case "extensionsUsed":
			return c.forEachArrayElem(valIdx, func(i int, elemIdx int) error {
				doc.ExtensionsUsed = append(doc.ExtensionsUsed, c.str(elemIdx))
				return nil
			})
		case "extensionsRequired":
			return c.forEachArrayElem(valIdx, func(i int, elemIdx int) error {
				doc.ExtensionsRequired = append(doc.ExtensionsRequired, c.str(elemIdx))
				return nil
			})
		case "extensions":
			return c.forEachObjectKey(valIdx, func(extName string, extValIdx int) error {
				if extName == "KHR_lights_punctual" {
					return c.forEachObjectKey(extValIdx, func(k string, v int) error {
						if k != "lights" {
							return nil
						}
						return c.forEachArrayElem(v, func(i int, elemIdx int) error {
							l, err := c.parseLight(elemIdx)
							if err != nil {
								return err
							}
							doc.Lights = append(doc.Lights, l)
							return nil
						})
					})
				}
				return nil // unrecognized extension: skip
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if doc.Asset.Version == "" {
		return nil, newError(KindInvalidGltf, "missing required asset.version")
	}

	if sceneIdx >= 0 {
		doc.DefaultScene = newUnresolvedRef[Scene](sceneIdx)
	}

	return doc, nil
}

// parseAsset parses the required top-level "asset" object.
func (c *ctx) parseAsset(idx int) (Asset, error) {
	var a Asset
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		switch key {
		case "copyright":
			a.Copyright = c.str(valIdx)
		case "generator":
			a.Generator = c.str(valIdx)
		case "version":
			a.Version = c.str(valIdx)
		case "minVersion":
			a.MinVersion = c.str(valIdx)
		case "extras":
			a.Extras = c.parseExtras(valIdx)
		}
		return nil
	})
	return a, err
}

func (c *ctx) parseScene(idx int) (Scene, error) {
	var s Scene
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		switch key {
		case "name":
			s.Name = c.str(valIdx)
		case "nodes":
			return c.forEachArrayElem(valIdx, func(_ int, elemIdx int) error {
				i, err := c.parseInt(elemIdx)
				if err != nil {
					return err
				}
				s.Nodes = append(s.Nodes, newUnresolvedRef[Node](i))
				return nil
			})
		case "extras":
			s.Extras = c.parseExtras(valIdx)
		}
		return nil
	})
	return s, err
}

// parseNode applies the default TRS (identity rotation, unit scale) before
// parsing: absent keys keep these values.
func (c *ctx) parseNode(idx int) (Node, error) {
	n := Node{
		Rotation: [4]float64{0, 0, 0, 1},
		Scale:    [3]float64{1, 1, 1},
	}
	var hasMesh, hasSkin, hasCamera bool
	var meshIdx, skinIdx, cameraIdx int

	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "name":
			n.Name = c.str(valIdx)
		case "children":
			return c.forEachArrayElem(valIdx, func(_ int, elemIdx int) error {
				i, err := c.parseInt(elemIdx)
				if err != nil {
					return err
				}
				n.Children = append(n.Children, newUnresolvedRef[Node](i))
				return nil
			})
		case "mesh":
			meshIdx, err = c.parseInt(valIdx)
			hasMesh = true
		case "skin":
			skinIdx, err = c.parseInt(valIdx)
			hasSkin = true
		case "camera":
			cameraIdx, err = c.parseInt(valIdx)
			hasCamera = true
		case "matrix":
			n.HasMatrix = true
			err = c.parseFloatArrayFixed(valIdx, n.Matrix[:])
		case "translation":
			err = c.parseFloatArrayFixed(valIdx, n.Translation[:])
		case "rotation":
			err = c.parseFloatArrayFixed(valIdx, n.Rotation[:])
		case "scale":
			err = c.parseFloatArrayFixed(valIdx, n.Scale[:])
		case "weights":
			n.Weights, err = c.parseFloatArray(valIdx, 0)
		case "extras":
			n.Extras = c.parseExtras(valIdx)
		case "extensions":
			err = c.forEachObjectKey(valIdx, func(extName string, extValIdx int) error {
				if extName == "KHR_lights_punctual" {
					return c.forEachObjectKey(extValIdx, func(k string, v int) error {
						if k != "light" {
							return nil
						}
						i, err := c.parseInt(v)
						if err != nil {
							return err
						}
						n.Light = newUnresolvedRef[Light](i)
						return nil
					})
				}
				return nil
			})
		}
		return err
	})
	if err != nil {
		return n, err
	}
	if hasMesh {
		n.Mesh = newUnresolvedRef[Mesh](meshIdx)
	}
	if hasSkin {
		n.Skin = newUnresolvedRef[Skin](skinIdx)
	}
	if hasCamera {
		n.Camera = newUnresolvedRef[Camera](cameraIdx)
	}
	return n, nil
}

func (c *ctx) parseMesh(idx int) (Mesh, error) {
	var m Mesh
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		switch key {
		case "name":
			m.Name = c.str(valIdx)
		case "primitives":
			return c.forEachArrayElem(valIdx, func(_ int, elemIdx int) error {
				p, err := c.parsePrimitive(elemIdx)
				if err != nil {
					return err
				}
				m.Primitives = append(m.Primitives, p)
				return nil
			})
		case "weights":
			var err error
			m.Weights, err = c.parseFloatArray(valIdx, 0)
			return err
		case "extras":
			m.Extras = c.parseExtras(valIdx)
		}
		return nil
	})
	return m, err
}

// parsePrimitive defaults Topology to TopologyTriangles before parsing.
func (c *ctx) parsePrimitive(idx int) (Primitive, error) {
	p := Primitive{Topology: TopologyTriangles}
	var hasIndices, hasMaterial bool
	var indicesIdx, materialIdx int

	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "attributes":
			p.Attributes, err = c.parseAttributeMap(valIdx)
		case "indices":
			indicesIdx, err = c.parseInt(valIdx)
			hasIndices = true
		case "material":
			materialIdx, err = c.parseInt(valIdx)
			hasMaterial = true
		case "mode":
			var mode int
			mode, err = c.parseInt(valIdx)
			if err == nil {
				p.Topology = intToTopology(mode)
			}
		case "targets":
			err = c.forEachArrayElem(valIdx, func(_ int, elemIdx int) error {
				attrs, err := c.parseAttributeMap(elemIdx)
				if err != nil {
					return err
				}
				p.Targets = append(p.Targets, MorphTarget{Attributes: attrs})
				return nil
			})
		case "extras":
			p.Extras = c.parseExtras(valIdx)
		}
		return err
	})
	if err != nil {
		return p, err
	}
	if hasIndices {
		p.Indices = newUnresolvedRef[Accessor](indicesIdx)
	}
	if hasMaterial {
		p.Material = newUnresolvedRef[Material](materialIdx)
	}
	return p, nil
}

// parseAttributeMap parses a `{"POSITION": 0, "TEXCOORD_0": 1, ...}`
// object into Attribute entries, splitting each key at the last "_" to
// recover the semantic and set-index.
func (c *ctx) parseAttributeMap(idx int) ([]Attribute, error) {
	var attrs []Attribute
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		i, err := c.parseInt(valIdx)
		if err != nil {
			return err
		}
		semantic, setIndex := parseAttributeName(key)
		attrs = append(attrs, Attribute{
			Name:     key,
			Semantic: semantic,
			SetIndex: setIndex,
			Accessor: newUnresolvedRef[Accessor](i),
		})
		return nil
	})
	return attrs, err
}

// parseAttributeName splits "TEXCOORD_1" into (SemanticTexCoord, 1); a
// name with no "_" suffix defaults to set index 0.
func parseAttributeName(name string) (AttributeSemantic, int) {
	prefix := name
	setIndex := 0
	if i := strings.LastIndexByte(name, '_'); i >= 0 {
		if n, err := strconv.Atoi(name[i+1:]); err == nil {
			prefix = name[:i]
			setIndex = n
		}
	}
	switch prefix {
	case "POSITION":
		return SemanticPosition, setIndex
	case "NORMAL":
		return SemanticNormal, setIndex
	case "TANGENT":
		return SemanticTangent, setIndex
	case "TEXCOORD":
		return SemanticTexCoord, setIndex
	case "COLOR":
		return SemanticColor, setIndex
	case "JOINTS":
		return SemanticJoints, setIndex
	case "WEIGHTS":
		return SemanticWeights, setIndex
	default:
		return SemanticUnknown, 0
	}
}

func intToTopology(mode int) PrimitiveTopology {
	switch mode {
	case 0:
		return TopologyPoints
	case 1:
		return TopologyLines
	case 2:
		return TopologyLineLoop
	case 3:
		return TopologyLineStrip
	case 5:
		return TopologyTriStrip
	case 6:
		return TopologyTriFan
	default:
		return TopologyTriangles
	}
}

var componentTypeTable = map[int]ComponentType{
	5120: ComponentI8,
	5121: ComponentU8,
	5122: ComponentI16,
	5123: ComponentU16,
	5125: ComponentU32,
	5126: ComponentF32,
}

var accessorShapeTable = map[string]AccessorShape{
	"SCALAR": ShapeScalar,
	"VEC2":   ShapeVec2,
	"VEC3":   ShapeVec3,
	"VEC4":   ShapeVec4,
	"MAT2":   ShapeMat2,
	"MAT3":   ShapeMat3,
	"MAT4":   ShapeMat4,
}

func (c *ctx) parseAccessor(idx int) (Accessor, error) {
	a := Accessor{}
	var hasBufferView bool
	var bufferViewIdx int
	var componentTypeRaw int

	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "name":
			a.Name = c.str(valIdx)
		case "bufferView":
			bufferViewIdx, err = c.parseInt(valIdx)
			hasBufferView = true
		case "byteOffset":
			a.Offset, err = c.parseInt(valIdx)
		case "componentType":
			componentTypeRaw, err = c.parseInt(valIdx)
		case "normalized":
			a.Normalized, err = c.parseBool(valIdx)
		case "count":
			a.Count, err = c.parseInt(valIdx)
		case "type":
			typeName := c.str(valIdx)
			shape, ok := accessorShapeTable[typeName]
			if !ok {
				return newError(KindInvalidGltf, "unknown accessor type %q", typeName)
			}
			a.Shape = shape
		case "min":
			a.Min, err = c.parseFloatArray(valIdx, 0)
		case "max":
			a.Max, err = c.parseFloatArray(valIdx, 0)
		case "sparse":
			var sparse AccessorSparse
			sparse, err = c.parseAccessorSparse(valIdx)
			a.Sparse = &sparse
		case "extras":
			a.Extras = c.parseExtras(valIdx)
		}
		return err
	})
	if err != nil {
		return a, err
	}

	ct, ok := componentTypeTable[componentTypeRaw]
	if !ok {
		return a, newError(KindInvalidGltf, "unknown accessor componentType %d", componentTypeRaw)
	}
	a.ComponentType = ct

	if hasBufferView {
		a.BufferView = newUnresolvedRef[BufferView](bufferViewIdx)
	}
	return a, nil
}

func (c *ctx) parseAccessorSparse(idx int) (AccessorSparse, error) {
	var s AccessorSparse
	var indicesViewIdx, valuesViewIdx int
	var indicesComponentRaw int

	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "count":
			s.Count, err = c.parseInt(valIdx)
		case "indices":
			err = c.forEachObjectKey(valIdx, func(k string, v int) error {
				var err error
				switch k {
				case "bufferView":
					indicesViewIdx, err = c.parseInt(v)
				case "byteOffset":
					s.IndicesOffset, err = c.parseInt(v)
				case "componentType":
					indicesComponentRaw, err = c.parseInt(v)
				}
				return err
			})
		case "values":
			err = c.forEachObjectKey(valIdx, func(k string, v int) error {
				var err error
				switch k {
				case "bufferView":
					valuesViewIdx, err = c.parseInt(v)
				case "byteOffset":
					s.ValuesOffset, err = c.parseInt(v)
				}
				return err
			})
		}
		return err
	})
	if err != nil {
		return s, err
	}
	ct, ok := componentTypeTable[indicesComponentRaw]
	if !ok {
		return s, newError(KindInvalidGltf, "unknown sparse indices componentType %d", indicesComponentRaw)
	}
	s.IndicesComponent = ct
	s.IndicesView = newUnresolvedRef[BufferView](indicesViewIdx)
	s.ValuesView = newUnresolvedRef[BufferView](valuesViewIdx)
	return s, nil
}

var bufferViewUsageTable = map[int]BufferViewUsage{
	34962: BufferViewUsageVertices,
	34963: BufferViewUsageIndices,
}

func (c *ctx) parseBufferView(idx int) (BufferView, error) {
	var bv BufferView
	var bufferIdx int
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "name":
			bv.Name = c.str(valIdx)
		case "buffer":
			bufferIdx, err = c.parseInt(valIdx)
		case "byteOffset":
			bv.Offset, err = c.parseInt(valIdx)
		case "byteLength":
			bv.Size, err = c.parseInt(valIdx)
		case "byteStride":
			bv.Stride, err = c.parseInt(valIdx)
		case "target":
			var t int
			t, err = c.parseInt(valIdx)
			if err == nil {
				bv.Usage = bufferViewUsageTable[t]
			}
		case "extras":
			bv.Extras = c.parseExtras(valIdx)
		}
		return err
	})
	bv.Buffer = newUnresolvedRef[Buffer](bufferIdx)
	return bv, err
}

func (c *ctx) parseBuffer(idx int) (Buffer, error) {
	var b Buffer
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "name":
			b.Name = c.str(valIdx)
		case "uri":
			b.URI = c.str(valIdx)
		case "byteLength":
			b.Size, err = c.parseInt(valIdx)
		case "extras":
			b.Extras = c.parseExtras(valIdx)
		}
		return err
	})
	return b, err
}

// parseTextureInfo parses a `{"index":..., "texCoord":...}`-shaped object
// (textureInfo, normalTextureInfo, occlusionTextureInfo all share this
// base) plus scale/strength and the KHR_texture_transform extension.
// scale defaults to 1.
func (c *ctx) parseTextureInfo(idx int) (TextureView, error) {
	tv := TextureView{Scale: 1, Transform: TextureTransform{Scale: [2]float64{1, 1}}}
	var textureIdx int
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "index":
			textureIdx, err = c.parseInt(valIdx)
		case "texCoord":
			tv.TexCoord, err = c.parseInt(valIdx)
		case "scale", "strength":
			tv.Scale, err = c.parseFloat(valIdx)
		case "extensions":
			err = c.forEachObjectKey(valIdx, func(extName string, extValIdx int) error {
				if extName != "KHR_texture_transform" {
					return nil
				}
				tv.HasTransform = true
				return c.forEachObjectKey(extValIdx, func(k string, v int) error {
					var err error
					switch k {
					case "offset":
						err = c.parseFloatArrayFixed(v, tv.Transform.Offset[:])
					case "rotation":
						tv.Transform.Rotation, err = c.parseFloat(v)
					case "scale":
						err = c.parseFloatArrayFixed(v, tv.Transform.Scale[:])
					case "texCoord":
						tv.Transform.TexCoord, err = c.parseInt(v)
						tv.Transform.HasTexCoord = true
					}
					return err
				})
			})
		}
		return err
	})
	tv.Texture = newUnresolvedRef[Texture](textureIdx)
	return tv, err
}

func (c *ctx) parsePbrMetallicRoughness(idx int) (PbrMetallicRoughness, error) {
	pbr := PbrMetallicRoughness{
		BaseColorFactor: [4]float64{1, 1, 1, 1},
		MetallicFactor:  1,
		RoughnessFactor: 1,
	}
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "baseColorFactor":
			err = c.parseFloatArrayFixed(valIdx, pbr.BaseColorFactor[:])
		case "baseColorTexture":
			var tv TextureView
			tv, err = c.parseTextureInfo(valIdx)
			pbr.BaseColorTexture = &tv
		case "metallicFactor":
			pbr.MetallicFactor, err = c.parseFloat(valIdx)
		case "roughnessFactor":
			pbr.RoughnessFactor, err = c.parseFloat(valIdx)
		case "metallicRoughnessTexture":
			var tv TextureView
			tv, err = c.parseTextureInfo(valIdx)
			pbr.MetallicRoughnessTexture = &tv
		}
		return err
	})
	return pbr, err
}

func (c *ctx) parsePbrSpecularGlossiness(idx int) (PbrSpecularGlossiness, error) {
	sg := PbrSpecularGlossiness{
		DiffuseFactor:    [4]float64{1, 1, 1, 1},
		SpecularFactor:   [3]float64{1, 1, 1},
		GlossinessFactor: 1,
	}
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "diffuseFactor":
			err = c.parseFloatArrayFixed(valIdx, sg.DiffuseFactor[:])
		case "diffuseTexture":
			var tv TextureView
			tv, err = c.parseTextureInfo(valIdx)
			sg.DiffuseTexture = &tv
		case "specularFactor":
			err = c.parseFloatArrayFixed(valIdx, sg.SpecularFactor[:])
		case "glossinessFactor":
			sg.GlossinessFactor, err = c.parseFloat(valIdx)
		case "specularGlossinessTexture":
			var tv TextureView
			tv, err = c.parseTextureInfo(valIdx)
			sg.SpecularGlossinessTexture = &tv
		}
		return err
	})
	return sg, err
}

// parseMaterial applies the glTF factor defaults before parsing (base
// color (1,1,1,1), metallic=roughness=1, alphaCutoff=0.5);
// the pbrMetallicRoughness block itself is only allocated if present.
func (c *ctx) parseMaterial(idx int) (Material, error) {
	m := Material{AlphaCutoff: 0.5, EmissiveFactor: [3]float64{0, 0, 0}}
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "name":
			m.Name = c.str(valIdx)
		case "pbrMetallicRoughness":
			var pbr PbrMetallicRoughness
			pbr, err = c.parsePbrMetallicRoughness(valIdx)
			m.PbrMetallicRoughness = &pbr
		case "normalTexture":
			var tv TextureView
			tv, err = c.parseTextureInfo(valIdx)
			m.NormalTexture = &tv
		case "occlusionTexture":
			var tv TextureView
			tv, err = c.parseTextureInfo(valIdx)
			m.OcclusionTexture = &tv
		case "emissiveTexture":
			var tv TextureView
			tv, err = c.parseTextureInfo(valIdx)
			m.EmissiveTexture = &tv
		case "emissiveFactor":
			err = c.parseFloatArrayFixed(valIdx, m.EmissiveFactor[:])
		case "alphaMode":
			switch c.str(valIdx) {
			case "OPAQUE":
				m.AlphaMode = AlphaModeOpaque
			case "MASK":
				m.AlphaMode = AlphaModeMask
			case "BLEND":
				m.AlphaMode = AlphaModeBlend
			default:
				return newError(KindInvalidGltf, "unknown alphaMode %q", c.str(valIdx))
			}
		case "alphaCutoff":
			m.AlphaCutoff, err = c.parseFloat(valIdx)
		case "doubleSided":
			m.DoubleSided, err = c.parseBool(valIdx)
		case "extras":
			m.Extras = c.parseExtras(valIdx)
		case "extensions":
			err = c.forEachObjectKey(valIdx, func(extName string, extValIdx int) error {
				switch extName {
				case "KHR_materials_pbrSpecularGlossiness":
					m.HasPbrSpecularGlossiness = true
					sg, err := c.parsePbrSpecularGlossiness(extValIdx)
					if err != nil {
						return err
					}
					m.PbrSpecularGlossiness = sg
					return nil
				case "KHR_materials_unlit":
					m.Unlit = true
					return nil
				}
				return nil
			})
		}
		return err
	})
	return m, err
}

func (c *ctx) parseTexture(idx int) (Texture, error) {
	var t Texture
	var hasSource, hasSampler bool
	var sourceIdx, samplerIdx int
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "name":
			t.Name = c.str(valIdx)
		case "source":
			sourceIdx, err = c.parseInt(valIdx)
			hasSource = true
		case "sampler":
			samplerIdx, err = c.parseInt(valIdx)
			hasSampler = true
		case "extras":
			t.Extras = c.parseExtras(valIdx)
		}
		return err
	})
	if hasSource {
		t.Image = newUnresolvedRef[Image](sourceIdx)
	}
	if hasSampler {
		t.Sampler = newUnresolvedRef[Sampler](samplerIdx)
	}
	return t, err
}

func (c *ctx) parseImage(idx int) (Image, error) {
	var im Image
	var hasBufferView bool
	var bufferViewIdx int
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "name":
			im.Name = c.str(valIdx)
		case "uri":
			im.URI = c.str(valIdx)
		case "mimeType":
			im.MimeType = c.str(valIdx)
		case "bufferView":
			bufferViewIdx, err = c.parseInt(valIdx)
			hasBufferView = true
		case "extras":
			im.Extras = c.parseExtras(valIdx)
		}
		return err
	})
	if hasBufferView {
		im.BufferView = newUnresolvedRef[BufferView](bufferViewIdx)
	}
	return im, err
}

// parseSampler defaults wrapS/wrapT to 10497 (REPEAT).
func (c *ctx) parseSampler(idx int) (Sampler, error) {
	s := Sampler{WrapS: 10497, WrapT: 10497}
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "name":
			s.Name = c.str(valIdx)
		case "magFilter":
			s.MagFilter, err = c.parseInt(valIdx)
		case "minFilter":
			s.MinFilter, err = c.parseInt(valIdx)
		case "wrapS":
			s.WrapS, err = c.parseInt(valIdx)
		case "wrapT":
			s.WrapT, err = c.parseInt(valIdx)
		case "extras":
			s.Extras = c.parseExtras(valIdx)
		}
		return err
	})
	return s, err
}

func (c *ctx) parseSkin(idx int) (Skin, error) {
	var s Skin
	var hasSkeleton, hasInverseBind bool
	var skeletonIdx, inverseBindIdx int
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "name":
			s.Name = c.str(valIdx)
		case "joints":
			err = c.forEachArrayElem(valIdx, func(_ int, elemIdx int) error {
				i, err := c.parseInt(elemIdx)
				if err != nil {
					return err
				}
				s.Joints = append(s.Joints, newUnresolvedRef[Node](i))
				return nil
			})
		case "skeleton":
			skeletonIdx, err = c.parseInt(valIdx)
			hasSkeleton = true
		case "inverseBindMatrices":
			inverseBindIdx, err = c.parseInt(valIdx)
			hasInverseBind = true
		case "extras":
			s.Extras = c.parseExtras(valIdx)
		}
		return err
	})
	if hasSkeleton {
		s.Skeleton = newUnresolvedRef[Node](skeletonIdx)
	}
	if hasInverseBind {
		s.InverseBindMatrices = newUnresolvedRef[Accessor](inverseBindIdx)
	}
	return s, err
}

func (c *ctx) parseCamera(idx int) (Camera, error) {
	var cam Camera
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "name":
			cam.Name = c.str(valIdx)
		case "type":
			switch c.str(valIdx) {
			case "perspective":
				cam.Kind = CameraPerspective
			case "orthographic":
				cam.Kind = CameraOrthographic
			default:
				return newError(KindInvalidGltf, "unknown camera type %q", c.str(valIdx))
			}
		case "perspective":
			err = c.forEachObjectKey(valIdx, func(k string, v int) error {
				var err error
				switch k {
				case "aspectRatio":
					cam.Perspective.AspectRatio, err = c.parseFloat(v)
					cam.Perspective.HasAspect = true
				case "yfov":
					cam.Perspective.YFov, err = c.parseFloat(v)
				case "zfar":
					cam.Perspective.ZFar, err = c.parseFloat(v)
					cam.Perspective.HasZFar = true
				case "znear":
					cam.Perspective.ZNear, err = c.parseFloat(v)
				}
				return err
			})
		case "orthographic":
			err = c.forEachObjectKey(valIdx, func(k string, v int) error {
				var err error
				switch k {
				case "xmag":
					cam.Orthographic.XMag, err = c.parseFloat(v)
				case "ymag":
					cam.Orthographic.YMag, err = c.parseFloat(v)
				case "zfar":
					cam.Orthographic.ZFar, err = c.parseFloat(v)
				case "znear":
					cam.Orthographic.ZNear, err = c.parseFloat(v)
				}
				return err
			})
		case "extras":
			cam.Extras = c.parseExtras(valIdx)
		}
		return err
	})
	return cam, err
}

// parseLight parses one KHR_lights_punctual light entry; color defaults
// to white and intensity to 1, per the extension spec.
func (c *ctx) parseLight(idx int) (Light, error) {
	l := Light{Color: [3]float64{1, 1, 1}, Intensity: 1, OuterCone: 0.7853981633974483}
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "name":
			l.Name = c.str(valIdx)
		case "color":
			err = c.parseFloatArrayFixed(valIdx, l.Color[:])
		case "intensity":
			l.Intensity, err = c.parseFloat(valIdx)
		case "type":
			switch c.str(valIdx) {
			case "directional":
				l.Kind = LightDirectional
			case "point":
				l.Kind = LightPoint
			case "spot":
				l.Kind = LightSpot
			default:
				return newError(KindInvalidGltf, "unknown light type %q", c.str(valIdx))
			}
		case "range":
			l.Range, err = c.parseFloat(valIdx)
			l.HasRange = true
		case "spot":
			err = c.forEachObjectKey(valIdx, func(k string, v int) error {
				var err error
				switch k {
				case "innerConeAngle":
					l.InnerCone, err = c.parseFloat(v)
				case "outerConeAngle":
					l.OuterCone, err = c.parseFloat(v)
				}
				return err
			})
		}
		return err
	})
	return l, err
}

func (c *ctx) parseAnimation(idx int) (Animation, error) {
	var a Animation
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "name":
			a.Name = c.str(valIdx)
		case "samplers":
			err = c.forEachArrayElem(valIdx, func(_ int, elemIdx int) error {
				s, err := c.parseAnimationSampler(elemIdx)
				if err != nil {
					return err
				}
				a.Samplers = append(a.Samplers, s)
				return nil
			})
		case "channels":
			err = c.forEachArrayElem(valIdx, func(_ int, elemIdx int) error {
				ch, err := c.parseAnimationChannel(elemIdx)
				if err != nil {
					return err
				}
				a.Channels = append(a.Channels, ch)
				return nil
			})
		case "extras":
			a.Extras = c.parseExtras(valIdx)
		}
		return err
	})
	return a, err
}

// parseAnimationSampler defaults Interpolation to Linear.
func (c *ctx) parseAnimationSampler(idx int) (AnimationSampler, error) {
	s := AnimationSampler{Interpolation: InterpolationLinear}
	var inputIdx, outputIdx int
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "input":
			inputIdx, err = c.parseInt(valIdx)
		case "output":
			outputIdx, err = c.parseInt(valIdx)
		case "interpolation":
			switch c.str(valIdx) {
			case "LINEAR":
				s.Interpolation = InterpolationLinear
			case "STEP":
				s.Interpolation = InterpolationStep
			case "CUBICSPLINE":
				s.Interpolation = InterpolationCubicSpline
			default:
				return newError(KindInvalidGltf, "unknown interpolation %q", c.str(valIdx))
			}
		}
		return err
	})
	s.Input = newUnresolvedRef[Accessor](inputIdx)
	s.Output = newUnresolvedRef[Accessor](outputIdx)
	return s, err
}

func (c *ctx) parseAnimationChannel(idx int) (AnimationChannel, error) {
	var ch AnimationChannel
	var samplerIdx int
	err := c.forEachObjectKey(idx, func(key string, valIdx int) error {
		var err error
		switch key {
		case "sampler":
			samplerIdx, err = c.parseInt(valIdx)
		case "target":
			err = c.forEachObjectKey(valIdx, func(k string, v int) error {
				var err error
				switch k {
				case "node":
					var nodeIdx int
					nodeIdx, err = c.parseInt(v)
					if err == nil {
						ch.TargetNode = newUnresolvedRef[Node](nodeIdx)
					}
				case "path":
					switch c.str(v) {
					case "translation":
						ch.TargetPath = PathTranslation
					case "rotation":
						ch.TargetPath = PathRotation
					case "scale":
						ch.TargetPath = PathScale
					case "weights":
						ch.TargetPath = PathWeights
					default:
						return newError(KindInvalidGltf, "unknown animation path %q", c.str(v))
					}
				}
				return err
			})
		}
		return err
	})
	ch.Sampler = newUnresolvedRef[AnimationSampler](samplerIdx)
	return ch, err
}
