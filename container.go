package gltf

import (
	"encoding/binary"
)

// container.go classifies input bytes as JSON text or a GLB binary
// container and, for GLB, splits out the JSON and optional BIN chunks.
// Grounded on engine/loader/gltf_parser.go's parseGLB (magic/version/chunk
// framing, little-endian reads) and gltf_types.go's gltfGLBHeader /
// gltfGLBChunkHeader constants.

const (
	glbMagic       uint32 = 0x46546C67 // "glTF"
	glbVersion     uint32 = 2
	glbChunkJSON   uint32 = 0x4E4F534A // "JSON"
	glbChunkBIN    uint32 = 0x004E4942 // "BIN\0"
	glbHeaderSize         = 12
	glbChunkHeaderSize     = 8
)

// demuxResult is the output of classifying a raw input buffer: the JSON
// chunk bytes (always present on success) and an optional binary chunk.
type demuxResult struct {
	isBinary bool
	json     []byte
	bin      []byte
}

// demultiplex classifies src per the FileKind hint and, for a binary
// container, validates chunk framing and extracts the JSON/BIN chunks.
//
// Parameters:
//   - src: the raw input bytes
//   - kind: FileKindAuto detects by magic; FileKindJSON/FileKindBinary force it
//
// Returns:
//   - demuxResult: the classified chunks
//   - error: KindUnknownFormat or KindDataTooShort on malformed framing
func demultiplex(src []byte, kind FileKind) (demuxResult, error) {
	isBinary := false
	switch kind {
	case FileKindBinary:
		isBinary = true
	case FileKindJSON:
		isBinary = false
	default: // FileKindAuto
		isBinary = len(src) >= 4 && binary.LittleEndian.Uint32(src[:4]) == glbMagic
	}

	if !isBinary {
		return demuxResult{json: src}, nil
	}
	return demultiplexGLB(src)
}

// demultiplexGLB validates the 12-byte GLB header and walks its chunk
// list: first chunk must be JSON, second (if present) must be BIN, every
// declared length must fit inside src.
func demultiplexGLB(src []byte) (demuxResult, error) {
	if len(src) < glbHeaderSize {
		return demuxResult{}, newError(KindDataTooShort, "GLB header needs %d bytes, got %d", glbHeaderSize, len(src))
	}

	magic := binary.LittleEndian.Uint32(src[0:4])
	version := binary.LittleEndian.Uint32(src[4:8])
	totalLength := binary.LittleEndian.Uint32(src[8:12])

	if magic != glbMagic {
		return demuxResult{}, newError(KindUnknownFormat, "bad GLB magic %#x", magic)
	}
	if version != glbVersion {
		return demuxResult{}, newError(KindUnknownFormat, "unsupported GLB version %d", version)
	}
	if uint64(totalLength) > uint64(len(src)) {
		return demuxResult{}, newError(KindDataTooShort, "GLB declares length %d, input is %d bytes", totalLength, len(src))
	}

	var jsonChunk, binChunk []byte
	pos := glbHeaderSize
	chunkIndex := 0
	for pos < int(totalLength) {
		if pos+glbChunkHeaderSize > int(totalLength) {
			return demuxResult{}, newError(KindDataTooShort, "truncated chunk header at byte %d", pos)
		}
		chunkLength := binary.LittleEndian.Uint32(src[pos : pos+4])
		chunkType := binary.LittleEndian.Uint32(src[pos+4 : pos+8])
		pos += glbChunkHeaderSize

		if pos+int(chunkLength) > int(totalLength) {
			return demuxResult{}, newError(KindDataTooShort, "chunk at byte %d overruns declared length", pos)
		}
		chunkData := src[pos : pos+int(chunkLength)]
		pos += int(chunkLength)

		switch chunkIndex {
		case 0:
			if chunkType != glbChunkJSON {
				return demuxResult{}, newError(KindUnknownFormat, "first GLB chunk must be JSON, got type %#x", chunkType)
			}
			jsonChunk = chunkData
		case 1:
			if chunkType != glbChunkBIN {
				return demuxResult{}, newError(KindUnknownFormat, "second GLB chunk must be BIN, got type %#x", chunkType)
			}
			binChunk = chunkData
		default:
			// Chunks after the second are ignored.
		}
		chunkIndex++
	}

	if jsonChunk == nil {
		return demuxResult{}, newError(KindDataTooShort, "GLB file missing JSON chunk")
	}

	return demuxResult{isBinary: true, json: jsonChunk, bin: binChunk}, nil
}
