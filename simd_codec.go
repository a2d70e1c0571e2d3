//go:build amd64 && !purego && !noasm

package streamvbyte

import "golang.org/x/sys/cpu"

func init() {
	if cpu.X86.HasSSE2 && cpu.X86.HasSSE41 {
		encodeBase1234 = simdEncodeBase1234
		decodeBase1234 = simdDecodeBase1234
		encodeBase0124 = simdEncodeBase0124
		decodeBase0124 = simdDecodeBase0124
		zigzagEncodeArray = zigzagEncodeSIMD
		zigzagDecodeArray = zigzagDecodeSIMD
		deltaEncodeArray = deltaEncodeSIMD
		deltaDecodeArray = deltaDecodeSIMD
		simdAvailable = true
	}
}

// Assembly entry points generated by internal/avo (see internal/avo/shuffle.go,
// internal/avo/zigzag.go, internal/avo/delta.go). Each encode8/decode8 kernel
// processes exactly eight elements per call using the PSHUFB control tables
// in tables.go; callers must fall back to the scalar kernel for any
// trailing tail shorter than eight elements.
//
//go:noescape
func encode8_1234(src *uint32, key *byte, data *byte) uint32

//go:noescape
func decode8_1234(key *byte, data *byte, dst *uint32) uint32

//go:noescape
func encode8_0124(src *uint32, key *byte, data *byte) uint32

//go:noescape
func decode8_0124(key *byte, data *byte, dst *uint32) uint32

//go:noescape
func zigzagEncodeSIMDAsm(buf *uint32, n int)

//go:noescape
func zigzagDecodeSIMDAsm(buf *uint32, n int)

//go:noescape
func deltaEncodeSIMDAsm(dst *uint32, src *uint32, n int) uint32

//go:noescape
func deltaDecodeSIMDAsm(dst *uint32, src *uint32, n int)

func simdEncodeBase1234(dst []byte, src []uint32) []byte {
	return simdEncodeBase(format1234, encode8_1234, dst, src)
}

func simdDecodeBase1234(dst []uint32, src []byte, n int) int {
	return simdDecodeBase(format1234, decode8_1234, dst, src, n)
}

func simdEncodeBase0124(dst []byte, src []uint32) []byte {
	return simdEncodeBase(format0124, encode8_0124, dst, src)
}

func simdDecodeBase0124(dst []uint32, src []byte, n int) int {
	return simdDecodeBase(format0124, decode8_0124, dst, src, n)
}

// simdEncodeBase drives the eight-wide kernel across src, falling back to
// the scalar encoder for the remainder (0-7 elements). Because the kernel
// only ever runs at offsets that are multiples of eight, the tail always
// starts on a whole key byte, so the scalar tail's key bytes can be written
// straight into dst without any bit-shifting merge.
func simdEncodeBase(f *keyFormat, kernel func(*uint32, *byte, *byte) uint32, dst []byte, src []uint32) []byte {
	n := len(src)
	keyLen := keyBlockLen(n)
	data := dst[keyLen:]
	dataPos := 0
	i := 0
	for ; i+8 <= n; i += 8 {
		w := kernel(&src[i], &dst[i/4], &data[dataPos])
		dataPos += int(w)
	}
	if i < n {
		dataPos += scalarEncodeInto(f, dst[i/4:keyLen], data[dataPos:], src[i:])
	}
	return dst[:keyLen+dataPos]
}

func simdDecodeBase(f *keyFormat, kernel func(*byte, *byte, *uint32) uint32, dst []uint32, src []byte, n int) int {
	keyLen := keyBlockLen(n)
	data := src[keyLen:]
	dataPos := 0
	i := 0
	for ; i+8 <= n; i += 8 {
		w := kernel(&src[i/4], &data[dataPos], &dst[i])
		dataPos += int(w)
	}
	if i < n {
		dataPos += scalarDecodeInto(f, dst[i:n], src[i/4:keyLen], data[dataPos:], n-i)
	}
	return keyLen + dataPos
}

func zigzagEncodeSIMD(buf []uint32) {
	if len(buf) == 0 {
		return
	}
	zigzagEncodeSIMDAsm(&buf[0], len(buf))
}

func zigzagDecodeSIMD(buf []uint32) {
	if len(buf) == 0 {
		return
	}
	zigzagDecodeSIMDAsm(&buf[0], len(buf))
}

// deltaEncodeSIMD runs the generated kernel (which assumes an implicit
// x[-1]=0 seed) over the whole slice, then patches dst[0] to account for
// the real seed: every other element is already src[i]-src[i-1], which
// does not depend on previous at all.
func deltaEncodeSIMD(dst, src []uint32, previous uint32) {
	n := len(src)
	if n == 0 {
		return
	}
	deltaEncodeSIMDAsm(&dst[0], &src[0], n)
	dst[0] = src[0] - previous
}

// deltaDecodeSIMD runs the generated prefix-sum kernel assuming a zero
// seed, then shifts every element by the real seed.
func deltaDecodeSIMD(dst, src []uint32, previous uint32) {
	n := len(src)
	if n == 0 {
		return
	}
	deltaDecodeSIMDAsm(&dst[0], &src[0], n)
	for i := 0; i < n; i++ {
		dst[i] += previous
	}
}
