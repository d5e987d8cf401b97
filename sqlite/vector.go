package sqlite

import (
	"encoding/binary"
	"math"

	"github.com/fwojciec/recall"
)

// Embedding vectors are stored as little-endian float32 blobs, four bytes
// per component.

// encodeVector serializes an embedding vector for storage.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector deserializes a stored embedding blob.
// The blob length must be a multiple of four bytes.
func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, recall.Errorf(recall.EINTERNAL, "malformed embedding blob: %d bytes", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
