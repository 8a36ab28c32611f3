package gltf

import (
	"encoding/binary"
	"testing"
)

func buildGLB(jsonChunk, binChunk []byte) []byte {
	pad := func(b []byte) []byte {
		for len(b)%4 != 0 {
			b = append(b, ' ')
		}
		return b
	}
	jsonChunk = pad(append([]byte{}, jsonChunk...))

	total := glbHeaderSize + glbChunkHeaderSize + len(jsonChunk)
	if binChunk != nil {
		total += glbChunkHeaderSize + len(binChunk)
	}

	out := make([]byte, 0, total)
	header := make([]byte, glbHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], glbMagic)
	binary.LittleEndian.PutUint32(header[4:8], glbVersion)
	binary.LittleEndian.PutUint32(header[8:12], uint32(total))
	out = append(out, header...)

	chunkHeader := make([]byte, glbChunkHeaderSize)
	binary.LittleEndian.PutUint32(chunkHeader[0:4], uint32(len(jsonChunk)))
	binary.LittleEndian.PutUint32(chunkHeader[4:8], glbChunkJSON)
	out = append(out, chunkHeader...)
	out = append(out, jsonChunk...)

	if binChunk != nil {
		bh := make([]byte, glbChunkHeaderSize)
		binary.LittleEndian.PutUint32(bh[0:4], uint32(len(binChunk)))
		binary.LittleEndian.PutUint32(bh[4:8], glbChunkBIN)
		out = append(out, bh...)
		out = append(out, binChunk...)
	}
	return out
}

func TestDemultiplexGLBMagicDetection(t *testing.T) {
	src := buildGLB([]byte(`{"asset":{"version":"2.0"}}`), nil)

	result, err := demultiplex(src, FileKindAuto)
	if err != nil {
		t.Fatalf("demultiplex: %v", err)
	}
	if !result.isBinary {
		t.Fatalf("expected GLB to be detected as binary")
	}
	if result.bin != nil {
		t.Fatalf("expected no BIN chunk, got %d bytes", len(result.bin))
	}
}

func TestDemultiplexGLBWithBinChunk(t *testing.T) {
	src := buildGLB([]byte(`{"asset":{"version":"2.0"}}`), []byte{0x41, 0x42, 0x43, 0x44})
	result, err := demultiplex(src, FileKindAuto)
	if err != nil {
		t.Fatalf("demultiplex: %v", err)
	}
	if len(result.bin) != 4 {
		t.Fatalf("expected 4-byte BIN chunk, got %d", len(result.bin))
	}
}

func TestDemultiplexPlainJSON(t *testing.T) {
	src := []byte(`{"asset":{"version":"2.0"}}`)
	result, err := demultiplex(src, FileKindAuto)
	if err != nil {
		t.Fatalf("demultiplex: %v", err)
	}
	if result.isBinary {
		t.Fatalf("plain JSON misdetected as binary")
	}
}

func TestDemultiplexGLBTruncatedHeader(t *testing.T) {
	_, err := demultiplex([]byte{0x67, 0x6C, 0x54, 0x46}, FileKindBinary)
	if err == nil {
		t.Fatalf("expected error for truncated GLB header")
	}
	if k, ok := ErrorKind(err); !ok || k != KindDataTooShort {
		t.Fatalf("expected KindDataTooShort, got %v", err)
	}
}

func TestDemultiplexGLBBadMagic(t *testing.T) {
	src := buildGLB([]byte(`{}`), nil)
	src[0] = 0x00
	_, err := demultiplexGLB(src)
	if err == nil {
		t.Fatalf("expected error for bad magic")
	}
	if k, ok := ErrorKind(err); !ok || k != KindUnknownFormat {
		t.Fatalf("expected KindUnknownFormat, got %v", err)
	}
}
