package streamvbyte

// simdAvailable is flipped to true by simd_codec.go's init on amd64 builds
// with SSE2 and SSE4.1 present. On every other build it stays false and every
// variant runs through the scalar kernels in scalar_codec.go.
var simdAvailable bool

// IsSIMDAvailable reports whether the SIMD-accelerated encode/decode paths
// are active for this process. Absent SSE2 or SSE4.1 (or off amd64, or built
// with the noasm or purego tag), every variant falls back to the scalar kernels, which
// always produce byte-identical streams.
func IsSIMDAvailable() bool {
	return simdAvailable
}

// encodeBase1234/decodeBase1234 and their 0124 counterparts perform the
// un-preprocessed "base" codec: the eight-wide SIMD kernel on amd64 when
// SSE2 and SSE4.1 are available (see simd_codec.go's init), the scalar kernel
// otherwise. Every other variant below layers a preprocessing pass on top
// of these.
var (
	encodeBase1234 func(dst []byte, src []uint32) []byte     = scalarEncodeBase1234
	decodeBase1234 func(dst []uint32, src []byte, n int) int = scalarDecodeBase1234
	encodeBase0124 func(dst []byte, src []uint32) []byte     = scalarEncodeBase0124
	decodeBase0124 func(dst []uint32, src []byte, n int) int = scalarDecodeBase0124

	zigzagEncodeArray func(buf []uint32)                        = zigzagEncodeInPlace
	zigzagDecodeArray func(buf []uint32)                        = zigzagDecodeInPlace
	deltaEncodeArray  func(dst, src []uint32, previous uint32)  = deltaEncodeScalar
	deltaDecodeArray  func(dst, src []uint32, previous uint32)  = deltaDecodeScalar
)

// Enc1234 encodes src using the "1234" key format with no preprocessing.
// dst must be at least Bound(len(src)) bytes; the returned slice is the
// written prefix of dst.
func Enc1234(dst []byte, src []uint32) []byte { return encodeBase1234(dst, src) }

// Dec1234 decodes n elements written by Enc1234 into dst (which must have
// length >= n), returning the number of bytes of src consumed.
func Dec1234(dst []uint32, src []byte, n int) int { return decodeBase1234(dst, src, n) }

// Enc0124 encodes src using the "0124" key format with no preprocessing.
func Enc0124(dst []byte, src []uint32) []byte { return encodeBase0124(dst, src) }

// Dec0124 decodes n elements written by Enc0124.
func Dec0124(dst []uint32, src []byte, n int) int { return decodeBase0124(dst, src, n) }

// EncZigZag1234 zigzag-encodes src before applying the "1234" base codec.
func EncZigZag1234(dst []byte, src []uint32) []byte {
	tmp := make([]uint32, len(src))
	copy(tmp, src)
	zigzagEncodeArray(tmp)
	return encodeBase1234(dst, tmp)
}

// DecZigZag1234 inverts EncZigZag1234.
func DecZigZag1234(dst []uint32, src []byte, n int) int {
	consumed := decodeBase1234(dst, src, n)
	zigzagDecodeArray(dst[:n])
	return consumed
}

// EncZigZag0124 zigzag-encodes src before applying the "0124" base codec.
func EncZigZag0124(dst []byte, src []uint32) []byte {
	tmp := make([]uint32, len(src))
	copy(tmp, src)
	zigzagEncodeArray(tmp)
	return encodeBase0124(dst, tmp)
}

// DecZigZag0124 inverts EncZigZag0124.
func DecZigZag0124(dst []uint32, src []byte, n int) int {
	consumed := decodeBase0124(dst, src, n)
	zigzagDecodeArray(dst[:n])
	return consumed
}

// EncDelta1234 delta-encodes src against the seed previous (x[-1]) before
// applying the "1234" base codec. previous is not stored in the stream;
// the caller must supply the same value to the matching decoder.
func EncDelta1234(dst []byte, src []uint32, previous uint32) []byte {
	tmp := make([]uint32, len(src))
	deltaEncodeArray(tmp, src, previous)
	return encodeBase1234(dst, tmp)
}

// DecDelta1234 inverts EncDelta1234.
func DecDelta1234(dst []uint32, src []byte, n int, previous uint32) int {
	consumed := decodeBase1234(dst, src, n)
	deltaDecodeArray(dst[:n], dst[:n], previous)
	return consumed
}

// EncDelta0124 delta-encodes src against previous before applying the
// "0124" base codec.
func EncDelta0124(dst []byte, src []uint32, previous uint32) []byte {
	tmp := make([]uint32, len(src))
	deltaEncodeArray(tmp, src, previous)
	return encodeBase0124(dst, tmp)
}

// DecDelta0124 inverts EncDelta0124.
func DecDelta0124(dst []uint32, src []byte, n int, previous uint32) int {
	consumed := decodeBase0124(dst, src, n)
	deltaDecodeArray(dst[:n], dst[:n], previous)
	return consumed
}

// EncDeltaZigZag1234 delta-encodes src against previous, zigzag-encodes
// the deltas, then applies the "1234" base codec.
func EncDeltaZigZag1234(dst []byte, src []uint32, previous uint32) []byte {
	tmp := make([]uint32, len(src))
	deltaEncodeArray(tmp, src, previous)
	zigzagEncodeArray(tmp)
	return encodeBase1234(dst, tmp)
}

// DecDeltaZigZag1234 inverts EncDeltaZigZag1234.
func DecDeltaZigZag1234(dst []uint32, src []byte, n int, previous uint32) int {
	consumed := decodeBase1234(dst, src, n)
	zigzagDecodeArray(dst[:n])
	deltaDecodeArray(dst[:n], dst[:n], previous)
	return consumed
}

// EncDeltaZigZag0124 delta-encodes src against previous, zigzag-encodes
// the deltas, then applies the "0124" base codec.
func EncDeltaZigZag0124(dst []byte, src []uint32, previous uint32) []byte {
	tmp := make([]uint32, len(src))
	deltaEncodeArray(tmp, src, previous)
	zigzagEncodeArray(tmp)
	return encodeBase0124(dst, tmp)
}

// DecDeltaZigZag0124 inverts EncDeltaZigZag0124.
func DecDeltaZigZag0124(dst []uint32, src []byte, n int, previous uint32) int {
	consumed := decodeBase0124(dst, src, n)
	zigzagDecodeArray(dst[:n])
	deltaDecodeArray(dst[:n], dst[:n], previous)
	return consumed
}

// EncDeltaTranspose1234 applies the delta-transpose preprocessing (64-
// element tiles transposed into four interleaved delta chains, see
// transpose.go) before the "1234" base codec. It is most effective on long
// runs of at least one tile.
func EncDeltaTranspose1234(dst []byte, src []uint32, previous uint32) []byte {
	tmp := make([]uint32, len(src))
	deltaTransposeEncode(tmp, src, previous)
	return encodeBase1234(dst, tmp)
}

// DecDeltaTranspose1234 inverts EncDeltaTranspose1234.
func DecDeltaTranspose1234(dst []uint32, src []byte, n int, previous uint32) int {
	consumed := decodeBase1234(dst, src, n)
	tmp := make([]uint32, n)
	copy(tmp, dst[:n])
	deltaTransposeDecode(dst[:n], tmp, previous)
	return consumed
}

// EncDeltaTranspose0124 applies the delta-transpose preprocessing before
// the "0124" base codec.
func EncDeltaTranspose0124(dst []byte, src []uint32, previous uint32) []byte {
	tmp := make([]uint32, len(src))
	deltaTransposeEncode(tmp, src, previous)
	return encodeBase0124(dst, tmp)
}

// DecDeltaTranspose0124 inverts EncDeltaTranspose0124.
func DecDeltaTranspose0124(dst []uint32, src []byte, n int, previous uint32) int {
	consumed := decodeBase0124(dst, src, n)
	tmp := make([]uint32, n)
	copy(tmp, dst[:n])
	deltaTransposeDecode(dst[:n], tmp, previous)
	return consumed
}
