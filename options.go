package gltf

// FileKind is a hint for how to interpret the input bytes passed to Parse.
type FileKind int

const (
	// FileKindAuto detects JSON vs. binary by magic number (the default).
	FileKindAuto FileKind = iota
	// FileKindJSON forces JSON-text interpretation.
	FileKindJSON
	// FileKindBinary forces GLB-container interpretation.
	FileKindBinary
)

// Allocator is a pluggable allocate/free pair, kept for callers porting
// code from a manual-allocation API. Go's garbage collector owns every
// allocation gltfdoc makes; the default Options leaves both fields nil and
// every code path in this package ignores them. See the Open Questions in
// DESIGN.md.
type Allocator struct {
	Alloc func(userData any, size int) ([]byte, error)
	Free  func(userData any, buf []byte)
}

// Options configures Parse and ParseFile. The zero value is valid: it
// auto-detects the container kind and lets the tokenizer compute its own
// token count.
type Options struct {
	// FileKind hints the container format; FileKindAuto detects by magic.
	FileKind FileKind

	// TokenCount, if nonzero, is used verbatim instead of running the
	// tokenizer's null-buffer pre-pass to compute it. Supplying a value
	// too small causes KindOutOfMemory; Parse never silently grows the
	// token array mid-scan (see tokenizer.go).
	TokenCount int

	// Allocator is an optional allocate/free pair. See the Allocator
	// doc comment: both fields must be set together or left both nil.
	Allocator Allocator

	// UserData is opaque context passed through to Allocator calls.
	UserData any
}

// Option mutates an Options value being built up by Parse/ParseFile. This
// follows the common WithX(...) functional-option convention for building
// up a configuration struct one field at a time.
type Option func(*Options)

// WithFileKind forces container-kind detection instead of auto-sensing the
// magic number.
//
// Parameters:
//   - kind: the container kind to assume
//
// Returns:
//   - Option: an option that applies the file-kind hint
func WithFileKind(kind FileKind) Option {
	return func(o *Options) {
		o.FileKind = kind
	}
}

// WithTokenCount supplies a precomputed token count, skipping the
// tokenizer's null-buffer pre-pass.
//
// Parameters:
//   - count: the exact number of tokens the JSON chunk will produce
//
// Returns:
//   - Option: an option that applies the token-count hint
func WithTokenCount(count int) Option {
	return func(o *Options) {
		o.TokenCount = count
	}
}

// WithAllocator supplies a custom allocate/free pair and its user data.
// Both alloc and free must be non-nil, or both nil; a mismatched pair
// makes Parse return a KindInvalidOptions error rather than silently
// substituting a default for the missing half (see DESIGN.md Open
// Questions).
//
// Parameters:
//   - alloc: the allocate function
//   - free: the free function
//   - userData: opaque context passed to both
//
// Returns:
//   - Option: an option that applies the allocator pair
func WithAllocator(alloc func(userData any, size int) ([]byte, error), free func(userData any, buf []byte), userData any) Option {
	return func(o *Options) {
		o.Allocator = Allocator{Alloc: alloc, Free: free}
		o.UserData = userData
	}
}

// buildOptions applies a set of Option values over the zero-valued
// Options, validating the allocator mix-and-match rule.
//
// Parameters:
//   - opts: options to apply, in order
//
// Returns:
//   - Options: the built configuration
//   - error: KindInvalidOptions if alloc/free are mismatched
func buildOptions(opts []Option) (Options, error) {
	var o Options
	for _, apply := range opts {
		apply(&o)
	}
	allocSet := o.Allocator.Alloc != nil
	freeSet := o.Allocator.Free != nil
	if allocSet != freeSet {
		return o, newError(KindInvalidOptions, "allocator and free must both be set or both be nil")
	}
	return o, nil
}
