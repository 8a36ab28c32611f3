package gltf

import "testing"

func TestParseAttributeNameSplitsSetIndex(t *testing.T) {
	cases := []struct {
		name    string
		wantSem AttributeSemantic
		wantSet int
	}{
		{"POSITION", SemanticPosition, 0},
		{"TEXCOORD_0", SemanticTexCoord, 0},
		{"TEXCOORD_1", SemanticTexCoord, 1},
		{"COLOR_0", SemanticColor, 0},
		{"JOINTS_0", SemanticJoints, 0},
		{"WEIGHTS_0", SemanticWeights, 0},
		{"_CUSTOM_ATTR", SemanticUnknown, 0},
	}
	for _, c := range cases {
		sem, set := parseAttributeName(c.name)
		if sem != c.wantSem || set != c.wantSet {
			t.Errorf("parseAttributeName(%q) = (%v, %d), want (%v, %d)", c.name, sem, set, c.wantSem, c.wantSet)
		}
	}
}

func TestParseNodeDefaultTRS(t *testing.T) {
	doc, err := Parse([]byte(`{"asset":{"version":"2.0"},"nodes":[{}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	n := doc.Nodes[0]
	if n.Rotation != [4]float64{0, 0, 0, 1} {
		t.Errorf("default rotation = %v, want identity quaternion", n.Rotation)
	}
	if n.Scale != [3]float64{1, 1, 1} {
		t.Errorf("default scale = %v, want unit scale", n.Scale)
	}
	if n.Translation != [3]float64{0, 0, 0} {
		t.Errorf("default translation = %v, want zero", n.Translation)
	}
	if n.HasMatrix {
		t.Errorf("node with no matrix key should not have HasMatrix set")
	}
}

func TestParsePrimitiveDefaultTopology(t *testing.T) {
	doc, err := Parse([]byte(`{
		"asset":{"version":"2.0"},
		"meshes":[{"primitives":[{"attributes":{}}]}]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Meshes[0].Primitives[0].Topology != TopologyTriangles {
		t.Fatalf("default primitive topology = %v, want TopologyTriangles", doc.Meshes[0].Primitives[0].Topology)
	}
}

func TestParseSamplerWrapDefaults(t *testing.T) {
	doc, err := Parse([]byte(`{"asset":{"version":"2.0"},"samplers":[{}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := doc.Samplers[0]
	if s.WrapS != 10497 || s.WrapT != 10497 {
		t.Fatalf("default wrap modes = (%d,%d), want (10497,10497)", s.WrapS, s.WrapT)
	}
}

func TestParseMaterialFactorDefaults(t *testing.T) {
	doc, err := Parse([]byte(`{"asset":{"version":"2.0"},"materials":[{"pbrMetallicRoughness":{}}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := doc.Materials[0]
	if m.AlphaCutoff != 0.5 {
		t.Errorf("default alphaCutoff = %v, want 0.5", m.AlphaCutoff)
	}
	pbr := m.PbrMetallicRoughness
	if pbr == nil {
		t.Fatalf("expected pbrMetallicRoughness block")
	}
	if pbr.BaseColorFactor != [4]float64{1, 1, 1, 1} {
		t.Errorf("default baseColorFactor = %v, want (1,1,1,1)", pbr.BaseColorFactor)
	}
	if pbr.MetallicFactor != 1 || pbr.RoughnessFactor != 1 {
		t.Errorf("default metallic/roughness = (%v,%v), want (1,1)", pbr.MetallicFactor, pbr.RoughnessFactor)
	}
}

func TestParseMaterialUnlitExtension(t *testing.T) {
	doc, err := Parse([]byte(`{
		"asset":{"version":"2.0"},
		"materials":[{"extensions":{"KHR_materials_unlit":{}}}]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !doc.Materials[0].Unlit {
		t.Fatalf("expected Unlit to be set from KHR_materials_unlit")
	}
}

func TestParseMaterialSpecularGlossinessExtension(t *testing.T) {
	doc, err := Parse([]byte(`{
		"asset":{"version":"2.0"},
		"materials":[{
			"extensions":{
				"KHR_materials_pbrSpecularGlossiness":{
					"diffuseFactor":[0.1,0.2,0.3,0.4],
					"glossinessFactor":0.5
				}
			}
		}]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := doc.Materials[0]
	if !m.HasPbrSpecularGlossiness {
		t.Fatalf("expected HasPbrSpecularGlossiness to be set")
	}
	if m.PbrSpecularGlossiness.GlossinessFactor != 0.5 {
		t.Errorf("glossinessFactor = %v, want 0.5", m.PbrSpecularGlossiness.GlossinessFactor)
	}
	if m.PbrSpecularGlossiness.SpecularFactor != [3]float64{1, 1, 1} {
		t.Errorf("default specularFactor = %v, want (1,1,1)", m.PbrSpecularGlossiness.SpecularFactor)
	}
}

func TestParseTextureTransformExtension(t *testing.T) {
	doc, err := Parse([]byte(`{
		"asset":{"version":"2.0"},
		"images":[{"uri":"a.png"}],
		"textures":[{"source":0}],
		"materials":[{
			"pbrMetallicRoughness":{
				"baseColorTexture":{
					"index":0,
					"extensions":{
						"KHR_texture_transform":{
							"offset":[0.25,0.5],
							"scale":[2,3],
							"texCoord":1
						}
					}
				}
			}
		}]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tv := doc.Materials[0].PbrMetallicRoughness.BaseColorTexture
	if tv == nil || !tv.HasTransform {
		t.Fatalf("expected KHR_texture_transform to be captured")
	}
	if tv.Transform.Offset != [2]float64{0.25, 0.5} {
		t.Errorf("transform offset = %v, want (0.25,0.5)", tv.Transform.Offset)
	}
	if tv.Transform.Scale != [2]float64{2, 3} {
		t.Errorf("transform scale = %v, want (2,3)", tv.Transform.Scale)
	}
	if !tv.Transform.HasTexCoord || tv.Transform.TexCoord != 1 {
		t.Errorf("transform texCoord = (%v,%d), want (true,1)", tv.Transform.HasTexCoord, tv.Transform.TexCoord)
	}
}

func TestParseLightsPunctualDefaults(t *testing.T) {
	doc, err := Parse([]byte(`{
		"asset":{"version":"2.0"},
		"extensions":{"KHR_lights_punctual":{"lights":[{"type":"point"}]}},
		"nodes":[{"extensions":{"KHR_lights_punctual":{"light":0}}}]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Lights) != 1 {
		t.Fatalf("expected one light, got %d", len(doc.Lights))
	}
	l := doc.Lights[0]
	if l.Kind != LightPoint {
		t.Errorf("light kind = %v, want LightPoint", l.Kind)
	}
	if l.Color != [3]float64{1, 1, 1} || l.Intensity != 1 {
		t.Errorf("light defaults = color %v intensity %v, want (1,1,1) and 1", l.Color, l.Intensity)
	}
	if got := doc.Nodes[0].Light.Get(); got == nil || got != &doc.Lights[0] {
		t.Fatalf("node.light should resolve to &doc.Lights[0]")
	}
}

func TestParseAnimationSamplerInterpolationDefault(t *testing.T) {
	doc, err := Parse([]byte(`{
		"asset":{"version":"2.0"},
		"accessors":[
			{"componentType":5126,"count":2,"type":"SCALAR"},
			{"componentType":5126,"count":2,"type":"VEC3"}
		],
		"animations":[{
			"samplers":[{"input":0,"output":1}],
			"channels":[{"sampler":0,"target":{"path":"translation"}}]
		}]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := doc.Animations[0].Samplers[0]
	if s.Interpolation != InterpolationLinear {
		t.Fatalf("default interpolation = %v, want InterpolationLinear", s.Interpolation)
	}
}

func TestParseUnknownKeysSkipped(t *testing.T) {
	doc, err := Parse([]byte(`{
		"asset":{"version":"2.0","futureField":"ignored"},
		"futureTopLevelArray":[1,2,3],
		"nodes":[{"name":"n","futureNodeField":{"nested":true}}]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Nodes[0].Name != "n" {
		t.Fatalf("unknown sibling keys should not disturb known field parsing")
	}
}
