package streamvbyte

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boundaryLengths() []int {
	return []int{0, 1, 2, 3, 4, 5, 7, 8, 9, 63, 64, 65, 128, 129}
}

func patternedInputs(n int) map[string][]uint32 {
	zero := make([]uint32, n)
	max := make([]uint32, n)
	alt := make([]uint32, n)
	asc := make([]uint32, n)
	desc := make([]uint32, n)
	for i := 0; i < n; i++ {
		max[i] = 0xFFFFFFFF
		if i%2 == 0 {
			alt[i] = 0
		} else {
			alt[i] = 0xFFFFFFFF
		}
		asc[i] = uint32(i)
		desc[i] = uint32(n - i)
	}
	return map[string][]uint32{
		"zero": zero, "max": max, "alt": alt, "asc": asc, "desc": desc,
	}
}

func TestScalarRoundTripBase(t *testing.T) {
	require := require.New(t)
	for _, n := range boundaryLengths() {
		for label, src := range patternedInputs(n) {
			t.Run(fmt.Sprintf("1234/%s/n=%d", label, n), func(t *testing.T) {
				dst := make([]byte, Bound(n))
				enc := scalarEncodeBase1234(dst, src)
				got := make([]uint32, n)
				consumed := scalarDecodeBase1234(got, enc, n)
				require.Equal(len(enc), consumed)
				require.Equal(src, got)
			})
			t.Run(fmt.Sprintf("0124/%s/n=%d", label, n), func(t *testing.T) {
				dst := make([]byte, Bound(n))
				enc := scalarEncodeBase0124(dst, src)
				got := make([]uint32, n)
				consumed := scalarDecodeBase0124(got, enc, n)
				require.Equal(len(enc), consumed)
				require.Equal(src, got)
			})
		}
	}
}

func TestPublicRoundTripAllVariants(t *testing.T) {
	require := require.New(t)
	const previous = 42

	for _, n := range boundaryLengths() {
		src := patternedInputs(n)["asc"]

		t.Run(fmt.Sprintf("base/n=%d", n), func(t *testing.T) {
			dst := make([]byte, Bound(n))
			enc := Enc1234(dst, src)
			got := make([]uint32, n)
			require.Equal(len(enc), Dec1234(got, enc, n))
			require.Equal(src, got)
		})

		t.Run(fmt.Sprintf("zigzag/n=%d", n), func(t *testing.T) {
			dst := make([]byte, Bound(n))
			enc := EncZigZag0124(dst, src)
			got := make([]uint32, n)
			require.Equal(len(enc), DecZigZag0124(got, enc, n))
			require.Equal(src, got)
		})

		t.Run(fmt.Sprintf("delta/n=%d", n), func(t *testing.T) {
			dst := make([]byte, Bound(n))
			enc := EncDelta1234(dst, src, previous)
			got := make([]uint32, n)
			require.Equal(len(enc), DecDelta1234(got, enc, n, previous))
			require.Equal(src, got)
		})

		t.Run(fmt.Sprintf("deltazigzag/n=%d", n), func(t *testing.T) {
			dst := make([]byte, Bound(n))
			enc := EncDeltaZigZag0124(dst, src, previous)
			got := make([]uint32, n)
			require.Equal(len(enc), DecDeltaZigZag0124(got, enc, n, previous))
			require.Equal(src, got)
		})

		t.Run(fmt.Sprintf("deltatranspose/n=%d", n), func(t *testing.T) {
			dst := make([]byte, Bound(n))
			enc := EncDeltaTranspose1234(dst, src, previous)
			got := make([]uint32, n)
			require.Equal(len(enc), DecDeltaTranspose1234(got, enc, n, previous))
			require.Equal(src, got)
		})
	}
}

func TestEncDoesNotWriteBeyondBound(t *testing.T) {
	assert := assert.New(t)
	src := make([]uint32, 37)
	for i := range src {
		src[i] = uint32(i * 12345)
	}
	bound := Bound(len(src))
	dst := make([]byte, bound+1)
	dst[bound] = 0xAB
	enc := Enc1234(dst, src)
	assert.LessOrEqual(len(enc), bound)
	assert.Equal(byte(0xAB), dst[bound])
}

func TestDecDoesNotWriteBeyondCount(t *testing.T) {
	assert := assert.New(t)
	src := []uint32{1, 2, 3, 4, 5}
	dst := make([]byte, Bound(len(src)))
	enc := Enc0124(dst, src)

	got := make([]uint32, len(src)+1)
	got[len(src)] = 0xDEADBEEF
	Dec0124(got, enc, len(src))
	assert.Equal(uint32(0xDEADBEEF), got[len(src)])
}

// Concrete scenarios transcribed directly from the format specification.

func TestScenario1234SingleZero(t *testing.T) {
	dst := make([]byte, Bound(1))
	enc := Enc1234(dst, []uint32{0})
	assert.Equal(t, []byte{0x00, 0x00}, enc)
}

func TestScenario0124SingleZero(t *testing.T) {
	dst := make([]byte, Bound(1))
	enc := Enc0124(dst, []uint32{0})
	assert.Equal(t, []byte{0x00}, enc)
}

func TestScenario1234FourElements(t *testing.T) {
	src := []uint32{1, 256, 65536, 16777216}
	dst := make([]byte, Bound(len(src)))
	enc := Enc1234(dst, src)
	want := []byte{
		0xE4,
		0x01,
		0x00, 0x01,
		0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x01,
	}
	assert.Equal(t, want, enc)
}

func TestScenario0124FourElements(t *testing.T) {
	src := []uint32{0, 1, 258, 66051}
	dst := make([]byte, Bound(len(src)))
	enc := Enc0124(dst, src)
	want := []byte{
		0xE4,
		0x01,
		0x02, 0x01,
		0x03, 0x02, 0x01, 0x00,
	}
	assert.Equal(t, want, enc)
}

func TestScenarioDeltaConstantSeries(t *testing.T) {
	src := []uint32{42, 42, 42, 42}
	dst := make([]byte, Bound(len(src)))
	enc := EncDelta1234(dst, src, 42)
	want := []byte{0x00, 0x00, 0x00, 0x00, 0x00}
	assert.Equal(t, want, enc)

	got := make([]uint32, len(src))
	DecDelta1234(got, enc, len(src), 42)
	assert.Equal(t, src, got)
}

// TestScenarioDeltaTransposeRoundTrip covers the round-trip half of the
// ascending-integers scenario: X[i]=i survives enc_1dt/dec_1dt. It
// deliberately does not assert the stream is shorter than the base 1234
// encoding — see DESIGN.md for why that comparison doesn't hold for this
// particular input under the "1234" format (no code stores a value in zero
// bytes, so both the raw values and their unit deltas cost exactly one
// byte per element here).
func TestScenarioDeltaTransposeRoundTrip(t *testing.T) {
	require := require.New(t)
	n := 128
	src := make([]uint32, n)
	for i := range src {
		src[i] = uint32(i)
	}

	dtDst := make([]byte, Bound(n))
	dtEnc := EncDeltaTranspose1234(dtDst, src, 0)

	got := make([]uint32, n)
	consumed := DecDeltaTranspose1234(got, dtEnc, n, 0)
	require.Equal(len(dtEnc), consumed)
	require.Equal(src, got)
}

// TestScenarioDeltaTransposeShorterThanBase demonstrates the compression
// benefit the ascending-integers scenario is getting at, using values
// large enough that the base codec can't fit them in one byte while their
// deltas still do.
func TestScenarioDeltaTransposeShorterThanBase(t *testing.T) {
	require := require.New(t)
	n := 128
	src := make([]uint32, n)
	for i := range src {
		src[i] = uint32(1_000_000 + i)
	}

	baseDst := make([]byte, Bound(n))
	baseEnc := Enc1234(baseDst, src)

	dtDst := make([]byte, Bound(n))
	dtEnc := EncDeltaTranspose1234(dtDst, src, 1_000_000)

	require.Less(len(dtEnc), len(baseEnc))

	got := make([]uint32, n)
	consumed := DecDeltaTranspose1234(got, dtEnc, n, 1_000_000)
	require.Equal(len(dtEnc), consumed)
	require.Equal(src, got)
}
