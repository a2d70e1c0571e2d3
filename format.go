// Package streamvbyte implements the StreamVByte family of integer stream
// codecs: a variable-byte encoding for slices of uint32 that separates
// per-element length metadata ("keys") from payload bytes so a vectorized
// implementation can decode several integers per instruction.
//
// Ten codec pairs are provided, chosen along two independent axes: the key
// format ("1234", two bits select 1/2/3/4 stored bytes, or "0124", two bits
// select 0/1/2/4 stored bytes) and the preprocessing applied before encoding
// (none, zigzag, delta, delta+zigzag, delta+transpose). Each pair has a
// SIMD-accelerated implementation on amd64 and a portable scalar fallback
// that produce byte-identical streams.
//
// The package keeps no mutable state between calls; tables are read-only
// program-lifetime constants and concurrent calls on disjoint buffers need
// no coordination.
package streamvbyte

// Bound returns the maximum number of bytes any Enc* function in this
// package can write when encoding n elements. Callers must size the
// destination buffer to at least Bound(n) before calling an encoder.
func Bound(n int) int {
	if n < 0 {
		panic("streamvbyte: negative count")
	}
	return keyBlockLen(n) + 4*n
}

// keyBlockLen returns the number of key bytes needed for n elements: four
// 2-bit keys per byte, rounded up.
func keyBlockLen(n int) int {
	return (n + 3) >> 2
}
