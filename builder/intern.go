package builder

import (
	"bytes"

	"github.com/zdocfmt/zdoc/format"
	"github.com/zdocfmt/zdoc/internal/hash"
	"github.com/zdocfmt/zdoc/internal/pool"
)

// blobPool reuses the teacher's byte buffer pool for the builder's scratch
// blob instead of metric-blob payload assembly.
var blobPool = pool.NewByteBufferPool(pool.BlobBufferDefaultSize, pool.BlobBufferMaxThreshold)

// interner deduplicates identical string/binary content into shared blob
// ranges, as spec.md's builder component mandates. It uses the same
// hash-then-verify discipline as a content-addressed cache: an xxHash64 of
// the candidate bytes picks a short list of prior ranges that might be a
// match, and each candidate is verified with a full byte comparison before
// being reused, so a hash collision can never corrupt a string.
type interner struct {
	buf   *pool.ByteBuffer
	index map[uint64][]format.Range
}

// newInterner borrows a scratch buffer from the pool, or allocates one
// sized to capacityHint directly when the hint exceeds what the pool's
// buffer already holds (see builder.WithBlobCapacityHint). A hint of 0
// always uses the pooled buffer as-is.
func newInterner(capacityHint int) *interner {
	buf := blobPool.Get()
	if capacityHint > cap(buf.B) {
		buf = pool.NewByteBuffer(capacityHint)
	}

	return &interner{
		buf:   buf,
		index: make(map[uint64][]format.Range),
	}
}

// intern appends data to the blob, unless identical bytes are already
// present, in which case the existing range is reused.
func (in *interner) intern(data []byte) format.Range {
	h := hash.ID(string(data))

	for _, r := range in.index[h] {
		if bytes.Equal(in.buf.Bytes()[r.Offset:r.Offset+r.Length], data) {
			return r
		}
	}

	offset := uint32(in.buf.Len())
	in.buf.MustWrite(data)
	r := format.Range{Offset: offset, Length: uint32(len(data))}
	in.index[h] = append(in.index[h], r)

	return r
}

// bytes returns the accumulated blob.
func (in *interner) bytes() []byte { return in.buf.Bytes() }

// release returns the scratch buffer to the pool.
func (in *interner) release() { blobPool.Put(in.buf) }
