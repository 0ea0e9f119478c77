package builder

import (
	"testing"

	"github.com/zdocfmt/zdoc/internal/hash"
)

func TestInternerDeduplicatesIdenticalContent(t *testing.T) {
	in := newInterner(0)
	defer in.release()

	r1 := in.intern([]byte("hello"))
	r2 := in.intern([]byte("hello"))
	if r1 != r2 {
		t.Errorf("identical content interned twice: %+v != %+v", r1, r2)
	}
	if in.buf.Len() != 5 {
		t.Errorf("blob length = %d, want 5 (no duplicate bytes written)", in.buf.Len())
	}
}

func TestInternerKeepsDistinctContentSeparate(t *testing.T) {
	in := newInterner(0)
	defer in.release()

	r1 := in.intern([]byte("abc"))
	r2 := in.intern([]byte("xyz"))
	if r1 == r2 {
		t.Error("distinct content should not share a range")
	}
	if in.buf.Len() != 6 {
		t.Errorf("blob length = %d, want 6", in.buf.Len())
	}
}

func TestInternerHashCollisionFallsBackToByteCompare(t *testing.T) {
	in := newInterner(0)
	defer in.release()

	// Force two different strings under a shared hash bucket by inserting
	// one, then manually aliasing it into the bucket the second string
	// hashes to, the way a real xxHash64 collision would; intern must still
	// distinguish them because it verifies candidate bytes, not just the hash.
	r1 := in.intern([]byte("first"))
	sharedHash := hash.ID("second")
	in.index[sharedHash] = append(in.index[sharedHash], r1)

	r2 := in.intern([]byte("second"))
	if r2.Offset == r1.Offset && r2.Length == r1.Length {
		t.Error("distinct content must not be merged even under a shared hash bucket")
	}
}
