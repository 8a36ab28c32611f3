package gltf

// extras.go retrieves the raw `extras` JSON byte range deserialize.go
// recorded for any schema object, copying out at most capacity-1 bytes
// plus a trailing NUL, with a dest==nil size query.

// CopyExtrasJSON copies the literal JSON text of extras into dest. If
// dest is nil, no copy happens and the function only reports the size
// needed (excluding the trailing NUL), letting a caller size a buffer
// first. Otherwise it writes min(size, len(dest)-1) bytes of extras JSON
// followed by a NUL byte at dest[n], and returns n, truncating to fit
// rather than returning an error on a too-small buffer.
//
// Parameters:
//   - doc: the Document extras was captured from (owns the backing JSON)
//   - extras: the byte range to copy, as recorded on any schema object
//   - dest: destination buffer, or nil to query the required size
//
// Returns:
//   - int: bytes written (excluding the NUL), or the full size if dest is nil
//   - error: KindInvalidOptions if dest is non-nil but has zero capacity
func CopyExtrasJSON(doc *Document, extras Extras, dest []byte) (int, error) {
	var data []byte
	if extras.End > extras.Start {
		data = doc.json[extras.Start:extras.End]
	}

	if dest == nil {
		return len(data), nil
	}
	if len(dest) == 0 {
		return 0, newError(KindInvalidOptions, "destination buffer has zero capacity")
	}

	n := len(data)
	if n > len(dest)-1 {
		n = len(dest) - 1
	}
	copy(dest[:n], data[:n])
	dest[n] = 0
	return n, nil
}

// HasExtras reports whether a byte range was actually captured.
func HasExtras(extras Extras) bool {
	return extras.End > extras.Start
}
