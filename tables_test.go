package streamvbyte

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinCode1234(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(byte(0), minCode1234(0))
	assert.Equal(byte(0), minCode1234(255))
	assert.Equal(byte(1), minCode1234(256))
	assert.Equal(byte(1), minCode1234(65535))
	assert.Equal(byte(2), minCode1234(65536))
	assert.Equal(byte(2), minCode1234(16777215))
	assert.Equal(byte(3), minCode1234(16777216))
	assert.Equal(byte(3), minCode1234(0xFFFFFFFF))
}

func TestMinCode0124(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(byte(0), minCode0124(0))
	assert.Equal(byte(1), minCode0124(1))
	assert.Equal(byte(1), minCode0124(255))
	assert.Equal(byte(2), minCode0124(256))
	assert.Equal(byte(2), minCode0124(65535))
	assert.Equal(byte(3), minCode0124(65536))
	assert.Equal(byte(3), minCode0124(0xFFFFFFFF))
}

func TestEncodeShuffleRowLengthMatchesCodeLen(t *testing.T) {
	require := require.New(t)
	for _, f := range []*keyFormat{format1234, format0124} {
		for key := 0; key < 256; key++ {
			row, n := encodeShuffleRow(f, byte(key))
			want := 0
			for elem := 0; elem < 4; elem++ {
				code := (byte(key) >> uint(elem*2)) & 3
				want += f.codeLen[code]
			}
			require.Equal(want, int(n), "key=%d", key)
			require.LessOrEqual(int(n), 16)
			_ = row
		}
	}
}

func TestDecodeShuffleRowIsInverseOfEncode(t *testing.T) {
	require := require.New(t)
	for _, name := range []string{"1234", "0124"} {
		f := formatByName(name)
		for key := 0; key < 256; key++ {
			encRow, n := encodeShuffleRow(f, byte(key))
			decRow := decodeShuffleRow(f, byte(key))

			// decRow[sourceByte] names which compact byte supplies it;
			// encRow[compactPos] names which source byte landed there.
			// For every compact position < n, decoding must point back
			// to a source byte whose own encode entry is that position.
			for pos := 0; pos < int(n); pos++ {
				srcByte := encRow[pos]
				require.Equal(byte(pos), decRow[srcByte], "key=%d pos=%d", key, pos)
			}
		}
	}
}

func TestLengthAndEncodeShuffleTablesMatchRows(t *testing.T) {
	require := require.New(t)
	for _, name := range []string{"1234", "0124"} {
		lt := LengthTable(name)
		et := EncodeShuffleTable(name)
		for key := 0; key < 256; key++ {
			_, n := encodeShuffleRow(formatByName(name), byte(key))
			require.Equal(n, lt[key])
			require.Equal(et[key], func() [16]byte { r, _ := encodeShuffleRow(formatByName(name), byte(key)); return r }())
		}
	}
}

func TestDecodeShuffleTableUsesSentinelForZeroFill(t *testing.T) {
	dt := DecodeShuffleTable("0124")
	// key 0 (all four elements code 00 => 0 bytes each in "0124") must be
	// entirely sentinel: nothing is ever read for a zero-width element.
	for _, b := range dt[0] {
		assert.Equal(t, byte(0xFF), b)
	}
}

func TestFormatByNamePanicsOnUnknown(t *testing.T) {
	assert.Panics(t, func() { formatByName("bogus") })
}
