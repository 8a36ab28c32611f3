package gltf

import "testing"

func TestCopyExtrasJSONSizeQueryThenCopy(t *testing.T) {
	doc, err := Parse([]byte(`{"asset":{"version":"2.0","extras":{"foo":"bar"}}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !HasExtras(doc.Asset.Extras) {
		t.Fatalf("expected asset.extras to be captured")
	}

	size, err := CopyExtrasJSON(doc, doc.Asset.Extras, nil)
	if err != nil {
		t.Fatalf("size query: %v", err)
	}
	if size != len(`{"foo":"bar"}`) {
		t.Fatalf("size = %d, want %d", size, len(`{"foo":"bar"}`))
	}

	buf := make([]byte, size+1)
	n, err := CopyExtrasJSON(doc, doc.Asset.Extras, buf)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if string(buf[:n]) != `{"foo":"bar"}` {
		t.Fatalf("copied %q, want %q", buf[:n], `{"foo":"bar"}`)
	}
	if buf[n] != 0 {
		t.Fatalf("expected trailing NUL at buf[%d]", n)
	}
}

func TestCopyExtrasJSONTruncatesToCapacity(t *testing.T) {
	doc, err := Parse([]byte(`{"asset":{"version":"2.0","extras":{"foo":"bar"}}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	buf := make([]byte, 4) // capacity for 3 data bytes + NUL
	n, err := CopyExtrasJSON(doc, doc.Asset.Extras, buf)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if n != 3 {
		t.Fatalf("n = %d, want 3 (capacity-1)", n)
	}
	if buf[3] != 0 {
		t.Fatalf("expected NUL terminator at buf[3]")
	}
}

func TestCopyExtrasJSONAbsent(t *testing.T) {
	doc, err := Parse([]byte(`{"asset":{"version":"2.0"}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if HasExtras(doc.Asset.Extras) {
		t.Fatalf("expected no extras on bare asset")
	}
	size, err := CopyExtrasJSON(doc, doc.Asset.Extras, nil)
	if err != nil || size != 0 {
		t.Fatalf("size = %d, err = %v; want 0, nil", size, err)
	}
}
