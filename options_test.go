package gltf

import "testing"

func TestBuildOptionsDefaults(t *testing.T) {
	o, err := buildOptions(nil)
	if err != nil {
		t.Fatalf("buildOptions(nil): %v", err)
	}
	if o.FileKind != FileKindAuto || o.TokenCount != 0 {
		t.Fatalf("unexpected zero-value Options: %+v", o)
	}
}

func TestBuildOptionsAppliesInOrder(t *testing.T) {
	o, err := buildOptions([]Option{WithFileKind(FileKindBinary), WithTokenCount(1), WithTokenCount(42)})
	if err != nil {
		t.Fatalf("buildOptions: %v", err)
	}
	if o.FileKind != FileKindBinary || o.TokenCount != 42 {
		t.Fatalf("options not applied: %+v", o)
	}
}

func TestBuildOptionsRejectsMismatchedAllocator(t *testing.T) {
	o := Options{}
	o.Allocator.Alloc = func(any, int) ([]byte, error) { return nil, nil }
	_, err := buildOptions([]Option{func(opt *Options) { *opt = o }})
	if err == nil {
		t.Fatalf("expected error for alloc set without free")
	}
	if k, ok := ErrorKind(err); !ok || k != KindInvalidOptions {
		t.Fatalf("expected KindInvalidOptions, got %v", err)
	}
}

func TestWithAllocatorSetsBothTogether(t *testing.T) {
	var userData = "ctx"
	_, err := buildOptions([]Option{WithAllocator(
		func(any, int) ([]byte, error) { return nil, nil },
		func(any, []byte) {},
		userData,
	)})
	if err != nil {
		t.Fatalf("buildOptions: %v", err)
	}
}
