// Package gltf parses and validates glTF 2.0 scene assets (.gltf JSON text
// or .glb binary containers) into an in-memory Document: a bounded-memory
// tokenizer feeds a two-phase deserializer, a resolver rewrites every
// cross-entity reference from table index to direct pointer, and a
// validator checks the bounds and consistency rules a well-formed asset
// must satisfy.
// Loading buffer payloads and reading accessor data back out are separate
// steps (LoadBuffers, AccessorReadFloat) so a caller that only needs the
// scene graph never pays for buffer I/O.
package gltf

import (
	"os"
)

// Parse parses src (JSON text or a GLB container) into a Document,
// running the full tokenize -> deserialize -> resolve -> validate
// pipeline. Buffer payloads are not loaded; call LoadBuffers afterward if
// accessor data needs to be read.
//
// Parameters:
//   - src: the raw input bytes
//   - opts: functional options (file-kind hint, token-count hint, allocator)
//
// Returns:
//   - *Document: the parsed, resolved, and validated asset
//   - error: a *Error describing the first failure encountered
func Parse(src []byte, opts ...Option) (*Document, error) {
	options, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	demux, err := demultiplex(src, options.FileKind)
	if err != nil {
		return nil, err
	}

	tokenCount := options.TokenCount
	if tokenCount == 0 {
		tokenCount, err = CountTokens(demux.json)
		if err != nil {
			return nil, err
		}
	}
	tokens := make([]Token, tokenCount)
	if _, err := Tokenize(demux.json, tokens); err != nil {
		return nil, err
	}

	doc, err := deserializeDocument(demux.json, tokens)
	if err != nil {
		return nil, err
	}
	doc.bin = demux.bin

	if err := resolveDocument(doc); err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseFile reads path from disk and parses it with Parse, additionally
// populating Document.FileData() with the raw bytes read. It does not
// load buffer payloads; pass filepath.Dir(path) to LoadBuffers afterward
// to resolve relative buffer URIs against the asset's own directory.
//
// Parameters:
//   - path: filesystem path to a .gltf or .glb file
//   - opts: functional options, forwarded to Parse
//
// Returns:
//   - *Document: the parsed, resolved, and validated asset
//   - error: KindFileNotFound / KindIoError for a failed read, or any
//     error Parse itself can return
func ParseFile(path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, wrapError(KindFileNotFound, err, "file not found: %s", path)
		}
		return nil, wrapError(KindIoError, err, "failed to read file: %s", path)
	}
	doc, err := Parse(data, opts...)
	if err != nil {
		return nil, err
	}
	doc.fileData = data
	return doc, nil
}
