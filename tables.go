package streamvbyte

// keyFormat captures the two-bit-key semantics that distinguish the "1234"
// and "0124" wire formats: codeLen[c] is the number of stored bytes for key
// value c, and minCode picks the smallest code that represents v exactly.
type keyFormat struct {
	codeLen [4]int
	minCode func(uint32) byte
}

func minCode1234(v uint32) byte {
	switch {
	case v < 1<<8:
		return 0
	case v < 1<<16:
		return 1
	case v < 1<<24:
		return 2
	default:
		return 3
	}
}

func minCode0124(v uint32) byte {
	switch {
	case v == 0:
		return 0
	case v < 1<<8:
		return 1
	case v < 1<<16:
		return 2
	default:
		return 3
	}
}

var format1234 = &keyFormat{codeLen: [4]int{1, 2, 3, 4}, minCode: minCode1234}
var format0124 = &keyFormat{codeLen: [4]int{0, 1, 2, 4}, minCode: minCode0124}

// encodeShuffleRow and decodeShuffleRow compute one row of the PSHUFB
// control tables a vectorized kernel uses to pack/unpack four elements
// (16 little-endian source/dest bytes) addressed by an 8-bit key byte
// (four 2-bit codes, element 0 in bits 0-1). They are derived directly from
// the format's codeLen so the tables never drift from the key semantics.
//
// encodeShuffleRow[j] names, for output position j, which of the 16
// source bytes should land there; unused high positions are left at 0
// (harmless: they are past the row's declared length and get overwritten
// by the next store). decodeShuffleRow[k] names, for source element byte k
// (element*4+byteIndex), which compact input byte supplies it, or 0xFF
// (the PSHUFB zero-fill sentinel) when that byte is implicitly zero.
func encodeShuffleRow(f *keyFormat, key byte) (row [16]byte, length byte) {
	var decoded [16]byte
	_ = decoded
	pos := 0
	for elem := 0; elem < 4; elem++ {
		code := (key >> uint(elem*2)) & 3
		n := f.codeLen[code]
		for b := 0; b < n; b++ {
			row[pos] = byte(elem*4 + b)
			pos++
		}
	}
	return row, byte(pos)
}

func decodeShuffleRow(f *keyFormat, key byte) [16]byte {
	var row [16]byte
	for i := range row {
		row[i] = 0xFF
	}
	pos := 0
	for elem := 0; elem < 4; elem++ {
		code := (key >> uint(elem*2)) & 3
		n := f.codeLen[code]
		for b := 0; b < n; b++ {
			row[elem*4+b] = byte(pos)
			pos++
		}
	}
	return row
}

// LengthTable returns, for every possible 8-bit key byte (four packed
// 2-bit codes), the number of payload bytes it describes. The same table
// serves encoder and decoder: byte count per control byte does not depend
// on direction.
func LengthTable(formatName string) [256]byte {
	f := formatByName(formatName)
	var t [256]byte
	for key := 0; key < 256; key++ {
		_, n := encodeShuffleRow(f, byte(key))
		t[key] = n
	}
	return t
}

// EncodeShuffleTable returns the full 256-row encoder PSHUFB control table
// for the named format ("1234" or "0124"). A real SIMD kernel only needs
// the 64 rows reachable once the top two bits of the key are ignored (see
// SPEC_FULL.md §4.2); this export gives the avo code generator and tests one
// authoritative source for all 256 rows.
func EncodeShuffleTable(formatName string) [256][16]byte {
	f := formatByName(formatName)
	var t [256][16]byte
	for key := 0; key < 256; key++ {
		row, _ := encodeShuffleRow(f, byte(key))
		t[key] = row
	}
	return t
}

// DecodeShuffleTable returns the full 256-row decoder PSHUFB control table
// for the named format. Unlike the encoder table this cannot be truncated:
// every key value changes how the fourth element zero-extends.
func DecodeShuffleTable(formatName string) [256][16]byte {
	f := formatByName(formatName)
	var t [256][16]byte
	for key := 0; key < 256; key++ {
		t[key] = decodeShuffleRow(f, byte(key))
	}
	return t
}

func formatByName(name string) *keyFormat {
	switch name {
	case "1234":
		return format1234
	case "0124":
		return format0124
	default:
		panic("streamvbyte: unknown key format " + name)
	}
}
