package gltf

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBuffersDataURI(t *testing.T) {
	doc := &Document{
		Buffers: []Buffer{{URI: "data:application/octet-stream;base64,QUJD", Size: 3}},
	}
	if err := LoadBuffers(doc, "."); err != nil {
		t.Fatalf("LoadBuffers: %v", err)
	}
	want := []byte{0x41, 0x42, 0x43}
	if string(doc.Buffers[0].Data) != string(want) {
		t.Fatalf("decoded %v, want %v", doc.Buffers[0].Data, want)
	}
}

func TestLoadBuffersRoundTripRandomBytes(t *testing.T) {
	raw := []byte{0, 1, 2, 3, 255, 254, 128, 7, 9, 200}
	encoded := base64.StdEncoding.EncodeToString(raw)

	doc := &Document{
		Buffers: []Buffer{{URI: "data:application/octet-stream;base64," + encoded, Size: len(raw)}},
	}
	if err := LoadBuffers(doc, "."); err != nil {
		t.Fatalf("LoadBuffers: %v", err)
	}
	got := doc.Buffers[0].Data
	if len(got) != len(raw) {
		t.Fatalf("decoded length %d, want %d", len(got), len(raw))
	}
	for i := range raw {
		if got[i] != raw[i] {
			t.Fatalf("byte %d = %d, want %d", i, got[i], raw[i])
		}
	}
}

func TestLoadBuffersGLBEmbeddedChunk(t *testing.T) {
	doc := &Document{
		Buffers: []Buffer{{Size: 4}},
		bin:     []byte{9, 8, 7, 6, 5}, // longer than declared: must be truncated to Size
	}
	if err := LoadBuffers(doc, "."); err != nil {
		t.Fatalf("LoadBuffers: %v", err)
	}
	if len(doc.Buffers[0].Data) != 4 {
		t.Fatalf("expected embedded buffer truncated to declared size 4, got %d", len(doc.Buffers[0].Data))
	}
}

func TestLoadBuffersRejectsRemoteScheme(t *testing.T) {
	doc := &Document{
		Buffers: []Buffer{{URI: "http://example.com/buffer.bin", Size: 4}},
	}
	err := LoadBuffers(doc, ".")
	if err == nil {
		t.Fatalf("expected error for remote URI scheme")
	}
	if k, ok := ErrorKind(err); !ok || k != KindUnknownFormat {
		t.Fatalf("expected KindUnknownFormat, got %v", err)
	}
}

func TestLoadBuffersRelativeFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte("hello buffer")
	if err := os.WriteFile(filepath.Join(dir, "data.bin"), data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	doc := &Document{
		Buffers: []Buffer{{URI: "data.bin", Size: len(data)}},
	}
	if err := LoadBuffers(doc, dir); err != nil {
		t.Fatalf("LoadBuffers: %v", err)
	}
	if string(doc.Buffers[0].Data) != string(data) {
		t.Fatalf("read %q, want %q", doc.Buffers[0].Data, data)
	}
}

func TestLoadBuffersFileNotFound(t *testing.T) {
	doc := &Document{
		Buffers: []Buffer{{URI: "missing.bin", Size: 4}},
	}
	err := LoadBuffers(doc, t.TempDir())
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if k, ok := ErrorKind(err); !ok || k != KindFileNotFound {
		t.Fatalf("expected KindFileNotFound, got %v", err)
	}
}
