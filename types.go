package gltf

// types.go defines the in-memory object graph for a parsed asset: a
// Document owning contiguous per-kind tables, with cross-entity references
// modeled as Ref[T] handles. Grounded on engine/loader/gltf_types.go's
// field shapes, generalized from encoding/json struct tags + pointer-or-
// zero optionals to the tokenizer-driven model and a two-phase Ref[T]
// resolution contract.

// Ref is a cross-entity reference. During deserialization it is
// constructed via newUnresolvedRef with a 0-based table index; after the
// resolver pass it holds a direct pointer into the owning table. The zero
// value means "absent" for optional reference fields.
//
// This is the idiomatic-Go rendering of the classic C "pointer-as-index"
// trick: rather than casting (index+1) into a pointer-sized slot, Ref[T]
// threads the same two states (Unresolved(index) / Resolved(*T)) through
// an explicit small struct, so a accidentally-dereferenced unresolved Ref
// panics instead of reading garbage.
type Ref[T any] struct {
	set      bool
	index    int
	resolved *T
}

// newUnresolvedRef builds a Ref recording a 0-based table index, to be
// rewritten to a direct pointer by the resolver.
func newUnresolvedRef[T any](index int) Ref[T] {
	return Ref[T]{set: true, index: index}
}

// IsSet reports whether the reference was present in the source JSON.
func (r Ref[T]) IsSet() bool {
	return r.set
}

// Index returns the 0-based table index recorded during deserialization.
// Resolution does not change it, so it still reports the same index
// afterwards; callers normally use Get after Parse returns.
func (r Ref[T]) Index() int {
	return r.index
}

// Get returns the direct link set by the resolver, or nil if the
// reference was never set. It also returns nil for a set reference that
// has not been resolved yet (Parse never returns a Document in that
// state).
func (r Ref[T]) Get() *T {
	if !r.set {
		return nil
	}
	return r.resolved
}

// resolve fills in the direct pointer; called once by the resolver pass.
func (r *Ref[T]) resolve(target *T) {
	r.resolved = target
}

// --- Enumerations -----------------------------------------------------

// ComponentType is an accessor's per-component data type.
type ComponentType int

const (
	ComponentTypeNone ComponentType = iota
	ComponentI8
	ComponentU8
	ComponentI16
	ComponentU16
	ComponentU32
	ComponentF32
)

// AccessorShape is the logical element shape of an accessor (scalar,
// vecN, matN).
type AccessorShape int

const (
	ShapeNone AccessorShape = iota
	ShapeScalar
	ShapeVec2
	ShapeVec3
	ShapeVec4
	ShapeMat2
	ShapeMat3
	ShapeMat4
)

// BufferViewUsage is the GPU-buffer usage hint on a BufferView.
type BufferViewUsage int

const (
	BufferViewUsageUnknown BufferViewUsage = iota
	BufferViewUsageIndices
	BufferViewUsageVertices
)

// AttributeSemantic is the parsed prefix of a primitive/morph-target
// attribute name.
type AttributeSemantic int

const (
	SemanticUnknown AttributeSemantic = iota
	SemanticPosition
	SemanticNormal
	SemanticTangent
	SemanticTexCoord
	SemanticColor
	SemanticJoints
	SemanticWeights
)

// PrimitiveTopology is the draw-mode of a mesh primitive.
type PrimitiveTopology int

const (
	TopologyPoints PrimitiveTopology = iota
	TopologyLines
	TopologyLineLoop
	TopologyLineStrip
	TopologyTriangles
	TopologyTriStrip
	TopologyTriFan
)

// AlphaMode is a material's alpha-blending behavior.
type AlphaMode int

const (
	AlphaModeOpaque AlphaMode = iota
	AlphaModeMask
	AlphaModeBlend
)

// Interpolation is an animation sampler's keyframe interpolation mode.
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
	InterpolationCubicSpline
)

// CameraKind distinguishes perspective from orthographic cameras.
type CameraKind int

const (
	CameraPerspective CameraKind = iota
	CameraOrthographic
)

// LightKind is the KHR_lights_punctual light type.
type LightKind int

const (
	LightDirectional LightKind = iota
	LightPoint
	LightSpot
)

// AnimationPath is the animated property of an animation channel target.
type AnimationPath int

const (
	PathTranslation AnimationPath = iota
	PathRotation
	PathScale
	PathWeights
)

// --- Extras -------------------------------------------------------------

// Extras captures the literal byte range of an `extras` value as recorded
// during deserialization. A zero value (Start==End) means no extras were
// present.
type Extras struct {
	Start, End int
}

// --- Entities -------------------------------------------------------------

// Asset carries the glTF asset header.
type Asset struct {
	Copyright  string
	Generator  string
	Version    string
	MinVersion string
	Extras     Extras
}

// Buffer is a contiguous binary payload, either embedded (GLB chunk 1) or
// referenced by URI and filled in later by LoadBuffers.
type Buffer struct {
	Name   string
	Size   int
	URI    string
	Data   []byte // nil until LoadBuffers populates it
	Extras Extras
}

// BufferView is a byte-range slice of a Buffer.
type BufferView struct {
	Name   string
	Buffer Ref[Buffer]
	Offset int
	Size   int
	Stride int // byteStride from the JSON, 0 when absent; the resolver leaves it unchanged
	Usage  BufferViewUsage
	Extras Extras
}

// AccessorSparse overlays a small indexed update onto an Accessor's base
// range (or onto zeros, if the Accessor has no BufferView).
type AccessorSparse struct {
	Count            int
	IndicesView      Ref[BufferView]
	IndicesOffset    int
	IndicesComponent ComponentType
	ValuesView       Ref[BufferView]
	ValuesOffset     int
}

// Accessor is a typed window over a BufferView.
type Accessor struct {
	Name          string
	ComponentType ComponentType
	Normalized    bool
	Shape         AccessorShape
	Count         int
	BufferView    Ref[BufferView]
	Offset        int
	Stride        int // 0 until the resolver defaults it
	Min, Max      []float64
	Sparse        *AccessorSparse
	Extras        Extras
}

// Attribute binds a semantic/set-index pair to an Accessor.
type Attribute struct {
	Name     string // raw JSON key, e.g. "TEXCOORD_1"
	Semantic AttributeSemantic
	SetIndex int
	Accessor Ref[Accessor]
}

// MorphTarget is one set of per-primitive attribute deltas.
type MorphTarget struct {
	Attributes []Attribute
}

// Primitive is one drawable unit of a Mesh.
type Primitive struct {
	Topology   PrimitiveTopology
	Indices    Ref[Accessor]
	Material   Ref[Material]
	Attributes []Attribute
	Targets    []MorphTarget
	Extras     Extras
}

// Mesh is a set of Primitives plus default morph-target weights.
type Mesh struct {
	Name       string
	Primitives []Primitive
	Weights    []float64
	Extras     Extras
}

// Image is a texture image source, either by URI or embedded in a
// BufferView (decoding the bytes is out of scope).
type Image struct {
	Name       string
	URI        string
	MimeType   string
	BufferView Ref[BufferView]
	Extras     Extras
}

// Sampler defines texture sampling parameters.
type Sampler struct {
	Name      string
	MagFilter int
	MinFilter int
	WrapS     int
	WrapT     int
	Extras    Extras
}

// Texture combines an Image and a Sampler.
type Texture struct {
	Name    string
	Image   Ref[Image]
	Sampler Ref[Sampler]
	Extras  Extras
}

// TextureTransform is the KHR_texture_transform extension payload.
type TextureTransform struct {
	Offset      [2]float64
	Rotation    float64
	Scale       [2]float64
	TexCoord    int
	HasTexCoord bool
}

// TextureView binds a Texture plus the KHR_texture_transform extension.
type TextureView struct {
	Texture      Ref[Texture]
	TexCoord     int
	Scale        float64 // normal scale factor / occlusion strength; default 1
	HasTransform bool
	Transform    TextureTransform
}

// PbrMetallicRoughness is the metallic-roughness material model.
type PbrMetallicRoughness struct {
	BaseColorFactor          [4]float64
	BaseColorTexture         *TextureView
	MetallicFactor           float64
	RoughnessFactor          float64
	MetallicRoughnessTexture *TextureView
}

// PbrSpecularGlossiness is the KHR_materials_pbrSpecularGlossiness payload.
type PbrSpecularGlossiness struct {
	DiffuseFactor             [4]float64
	DiffuseTexture            *TextureView
	SpecularFactor            [3]float64
	GlossinessFactor          float64
	SpecularGlossinessTexture *TextureView
}

// Material defines the appearance of a Primitive.
type Material struct {
	Name                     string
	PbrMetallicRoughness     *PbrMetallicRoughness
	HasPbrSpecularGlossiness bool
	PbrSpecularGlossiness    PbrSpecularGlossiness
	NormalTexture            *TextureView
	OcclusionTexture         *TextureView
	EmissiveTexture          *TextureView
	EmissiveFactor           [3]float64
	AlphaMode                AlphaMode
	AlphaCutoff              float64
	DoubleSided              bool
	Unlit                    bool
	Extras                   Extras
}

// Skin binds joint Nodes plus inverse-bind matrices for vertex skinning.
type Skin struct {
	Name                string
	Joints              []Ref[Node]
	Skeleton            Ref[Node]
	InverseBindMatrices Ref[Accessor]
	Extras              Extras
}

// PerspectiveCamera holds perspective-projection parameters.
type PerspectiveCamera struct {
	AspectRatio float64
	HasAspect   bool
	YFov        float64
	ZFar        float64
	HasZFar     bool
	ZNear       float64
}

// OrthographicCamera holds orthographic-projection parameters.
type OrthographicCamera struct {
	XMag  float64
	YMag  float64
	ZFar  float64
	ZNear float64
}

// Camera is a projection definition referenced by a Node.
type Camera struct {
	Name         string
	Kind         CameraKind
	Perspective  PerspectiveCamera
	Orthographic OrthographicCamera
	Extras       Extras
}

// Light is a KHR_lights_punctual light definition.
type Light struct {
	Name       string
	Kind       LightKind
	Color      [3]float64
	Intensity  float64
	Range      float64
	HasRange   bool
	InnerCone  float64
	OuterCone  float64
}

// Node is one entry in the scene's transform hierarchy.
type Node struct {
	Name     string
	Mesh     Ref[Mesh]
	Skin     Ref[Skin]
	Camera   Ref[Camera]
	Light    Ref[Light]
	Children []Ref[Node]
	Parent   *Node // set by the resolver; non-owning back-link

	HasMatrix   bool
	Matrix      [16]float64
	Translation [3]float64
	Rotation    [4]float64 // quaternion x,y,z,w
	Scale       [3]float64

	Weights []float64
	Extras  Extras
}

// Scene is a set of root Nodes.
type Scene struct {
	Name   string
	Nodes  []Ref[Node]
	Extras Extras
}

// AnimationSampler defines keyframe input/output accessors.
type AnimationSampler struct {
	Input         Ref[Accessor]
	Output        Ref[Accessor]
	Interpolation Interpolation
}

// AnimationChannel connects an AnimationSampler to a target Node/property.
type AnimationChannel struct {
	Sampler    Ref[AnimationSampler]
	TargetNode Ref[Node]
	TargetPath AnimationPath
}

// Animation is a set of channels driven by samplers.
type Animation struct {
	Name     string
	Samplers []AnimationSampler
	Channels []AnimationChannel
	Extras   Extras
}

// Document is the root of a parsed glTF asset: it owns every per-kind
// table and the raw byte slices needed for extras retrieval and buffer
// loading. Its lifetime governs every Ref[T] and Extras it hands out.
type Document struct {
	Asset Asset

	Scenes       []Scene
	DefaultScene Ref[Scene]
	Nodes        []Node
	Meshes      []Mesh
	Accessors   []Accessor
	BufferViews []BufferView
	Buffers     []Buffer
	Materials   []Material
	Textures    []Texture
	Images      []Image
	Samplers    []Sampler
	Skins       []Skin
	Cameras     []Camera
	Lights      []Light
	Animations  []Animation

	ExtensionsUsed     []string
	ExtensionsRequired []string

	// json is the original JSON byte slice this Document was parsed from;
	// Extras byte ranges index into it. Retained for the lifetime of the
	// Document.
	json []byte

	// bin is the optional embedded binary chunk from a GLB container, or
	// nil for a JSON-text asset.
	bin []byte

	// fileData holds the raw bytes read by ParseFile's convenience
	// loader, retained so callers relying on Document.FileData() can get
	// them back.
	fileData []byte
}

// FileData returns the raw bytes ParseFile read from disk, or nil if the
// Document was produced by Parse instead.
func (d *Document) FileData() []byte {
	return d.fileData
}

// JSON returns the original JSON byte slice the Document was parsed from
// (the JSON chunk, for a GLB container). CopyExtrasJSON indexes into this.
func (d *Document) JSON() []byte {
	return d.json
}

// BinaryChunk returns the embedded BIN chunk of a GLB container, or nil.
func (d *Document) BinaryChunk() []byte {
	return d.bin
}

// Free is a documented no-op: Go's garbage collector reclaims a Document
// when it becomes unreferenced. Kept as a public operation so callers
// porting code from a manual-free API have somewhere to put the call.
func Free(*Document) {}
