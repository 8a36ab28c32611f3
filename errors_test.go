package gltf

import (
	"errors"
	"testing"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	err := newError(KindInvalidGltf, "node %d bad", 3)
	sentinel := &Error{Kind: KindInvalidGltf}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected errors.Is to match on Kind")
	}
	other := &Error{Kind: KindDataTooShort}
	if errors.Is(err, other) {
		t.Fatalf("errors.Is should not match a different Kind")
	}
}

func TestErrorKindUnwrapsWrappedCause(t *testing.T) {
	cause := errors.New("disk exploded")
	err := wrapError(KindIoError, cause, "reading %s", "buffer.bin")

	k, ok := ErrorKind(err)
	if !ok || k != KindIoError {
		t.Fatalf("ErrorKind = %v, %v; want KindIoError, true", k, ok)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected Unwrap chain to reach the wrapped cause")
	}
}

func TestErrorKindOnPlainError(t *testing.T) {
	_, ok := ErrorKind(errors.New("not a gltfdoc error"))
	if ok {
		t.Fatalf("expected ErrorKind to report false for a non-gltfdoc error")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindDataTooShort:   "DataTooShort",
		KindUnknownFormat:  "UnknownFormat",
		KindInvalidJSON:    "InvalidJson",
		KindInvalidGltf:    "InvalidGltf",
		KindInvalidOptions: "InvalidOptions",
		KindFileNotFound:   "FileNotFound",
		KindIoError:        "IoError",
		KindOutOfMemory:    "OutOfMemory",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", k, got, want)
		}
	}
}
