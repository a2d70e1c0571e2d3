// Package patch demonstrates the codec being used as a building block for
// exception storage: a bit-packed value array paired with a sparse table of
// positions whose values did not fit the inline width and were spilled
// out-of-band whole.
//
// This mirrors the exception/patch layout of a bit-packed integer codec,
// except the spilled values are themselves StreamVByte-encoded (using
// this module's own "0124" base codec) instead of depending on an external
// StreamVByte package, since that would be circular for this module.
package patch

import (
	"encoding/binary"
	"errors"
	"fmt"

	streamvbyte "github.com/viterin/streamvbyte-go"
)

// ErrInvalidBuffer is returned when a patch table buffer is too small or
// malformed to decode.
var ErrInvalidBuffer = errors.New("patch: invalid buffer")

var bo = binary.LittleEndian

// Write serializes the exceptions among values whose magnitude exceeds
// maxInline (an inclusive bound, e.g. 0xFF for an 8-bit inline width) into
// dst, returning the written prefix. Layout:
//
//	dst[0:4]   : exception count (uint32 little-endian)
//	dst[4:]    : positions, one uint32 per exception, ascending
//	dst[...]   : StreamVByte "0124"-encoded full values, one per exception
//
// positions and highBits are scratch slices the caller provides with
// capacity >= len(values); Write does not allocate beyond the StreamVByte
// encode buffer.
func Write(dst []byte, values []uint32, maxInline uint32, positions, highBits []uint32) []byte {
	positions = positions[:0]
	highBits = highBits[:0]
	for i, v := range values {
		if v > maxInline {
			positions = append(positions, uint32(i))
			highBits = append(highBits, v)
		}
	}

	bo.PutUint32(dst[0:4], uint32(len(positions)))
	pos := 4
	for _, p := range positions {
		bo.PutUint32(dst[pos:pos+4], p)
		pos += 4
	}

	payload := streamvbyte.Enc0124(dst[pos:], highBits)
	return dst[:pos+len(payload)]
}

// Apply reads a Write-produced buffer and overwrites dst at each recorded
// position with its spilled value.
func Apply(dst []uint32, buf []byte) error {
	if len(buf) < 4 {
		return fmt.Errorf("%w: missing exception count", ErrInvalidBuffer)
	}
	count := int(bo.Uint32(buf[0:4]))
	posEnd := 4 + count*4
	if len(buf) < posEnd {
		return fmt.Errorf("%w: truncated position table (need %d bytes, got %d)",
			ErrInvalidBuffer, posEnd, len(buf))
	}

	keyEnd := posEnd + (count+3)/4
	need := keyEnd
	if len(buf) >= keyEnd {
		lens := streamvbyte.LengthTable("0124")
		for _, k := range buf[posEnd:keyEnd] {
			need += int(lens[k])
		}
	}
	if len(buf) < need {
		return fmt.Errorf("%w: truncated exception payload", ErrInvalidBuffer)
	}

	highBits := make([]uint32, count)
	streamvbyte.Dec0124(highBits, buf[posEnd:], count)

	for i := 0; i < count; i++ {
		p := bo.Uint32(buf[4+i*4:])
		if int(p) >= len(dst) {
			return fmt.Errorf("%w: exception position %d out of range for %d values",
				ErrInvalidBuffer, p, len(dst))
		}
		dst[p] = highBits[i]
	}
	return nil
}

// Bound returns the worst-case byte length Write needs for up to n
// exceptions: the count prefix, n position words, and the StreamVByte
// bound for n exception values.
func Bound(n int) int {
	return 4 + 4*n + streamvbyte.Bound(n)
}
