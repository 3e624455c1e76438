package mediahash

import "testing"

func TestHash_KnownVector(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Hash([]byte("abc")); got != want {
		t.Errorf("Hash(\"abc\") = %q, want %q", got, want)
	}
}

func TestHash_EmptyInput(t *testing.T) {
	// sha256("")
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Hash(nil); got != want {
		t.Errorf("Hash(nil) = %q, want %q", got, want)
	}
}

func TestHash_EqualBytesEqualDigest(t *testing.T) {
	a := Hash([]byte("same payload"))
	b := Hash([]byte("same payload"))
	if a != b {
		t.Errorf("equal bytes should hash equal: %q vs %q", a, b)
	}

	c := Hash([]byte("different payload"))
	if a == c {
		t.Error("different bytes should not collide in tests")
	}
}
