//go:build avogen
// +build avogen

package main

import (
	. "github.com/mmcloughlin/avo/build"
	op "github.com/mmcloughlin/avo/operand"
	"github.com/mmcloughlin/avo/reg"

	streamvbyte "github.com/viterin/streamvbyte-go"
)

// This file generates the eight-wide base encode/decode kernels for both
// key formats. Each call processes two four-lane vectors (eight uint32s):
// for every lane a scalar CMPL against the format's byte-width thresholds
// (classifyLaneCode) derives a 2-bit length code, the four codes of a
// vector form one key byte, then a PSHUFB against the format's per-key
// control row packs the live bytes contiguously. The control and length tables are generated
// directly from tables.go so the assembly and the scalar fallback can
// never disagree about a code's meaning.
var (
	codeLen1234 = [4]int{1, 2, 3, 4}
	codeLen0124 = [4]int{0, 1, 2, 4}
)

// declareShuffleTable emits a 16*len(rows)-byte read-only data blob and
// returns it as a Mem operand so PSHUFB control vectors can be loaded with
// a single indexed MOVOU.
func declareShuffleTable(name string, rows [][16]byte) op.Mem {
	table := GLOBL(name, RODATA|NOPTR)
	for i, row := range rows {
		for j, b := range row {
			DATA(i*16+j, op.U8(b))
		}
	}
	return table
}

// declareLengthTable emits a one-byte-per-row payload-length table used to
// advance the data cursor after each four-lane half is shuffled out.
func declareLengthTable(name string, lens []byte) op.Mem {
	table := GLOBL(name, RODATA|NOPTR)
	for i, l := range lens {
		DATA(i, op.U8(l))
	}
	return table
}

func tableRows16(full [256][16]byte) [][16]byte {
	rows := make([][16]byte, len(full))
	for i := range full {
		rows[i] = full[i]
	}
	return rows
}

// genEncode8Kernel emits encode8_<format>(src *uint32, key *byte, data
// *byte) uint32. It computes the eight lane codes the same way the scalar
// encoder does (see tables.go's encodeShuffleRow derivation),
// packs them two-per-nibble into the caller's key byte pair, shuffles each
// four-lane half through the format's control table, and returns the
// total payload bytes written across both halves.
func genEncode8Kernel(formatName string, codeLen [4]int) {
	TEXT("encode8_"+formatName, NOSPLIT, "func(src *uint32, key *byte, data *byte) uint32")
	Doc("encode8_" + formatName + " encodes eight uint32s starting at src, writes two packed")
	Doc("key bytes at key, writes the payload at data, and returns the payload length.")

	encTable := declareShuffleTable("encShuffle"+formatName, tableRows16(streamvbyte.EncodeShuffleTable(formatName)))
	lengths := streamvbyte.LengthTable(formatName)
	lenTable := declareLengthTable("encLen"+formatName, lengths[:])

	srcBase := Load(Param("src"), GP64())
	keyBase := Load(Param("key"), GP64())
	dataBase := Load(Param("data"), GP64())

	total := GP32()
	XORL(total, total)

	for half := 0; half < 2; half++ {
		vec := XMM()
		MOVOU(op.Mem{Base: srcBase, Disp: half * 16}, vec)

		code := GP32()
		XORL(code, code)
		for lane := 0; lane < 4; lane++ {
			elem := GP32()
			MOVL(op.Mem{Base: srcBase, Disp: half*16 + lane*4}, elem)
			laneCode := GP32()
			classifyLaneCode(elem, codeLen, laneCode)
			if lane > 0 {
				SHLL(op.Imm(uint64(lane*2)), laneCode)
			}
			ORL(laneCode, code)
		}

		MOVB(code.As8(), op.Mem{Base: keyBase, Disp: half})

		keyIdx := GP64()
		MOVL(code, keyIdx.As32())

		ctrlIdx := GP64()
		MOVQ(keyIdx, ctrlIdx)
		SHLQ(op.Imm(4), ctrlIdx)

		ctrl := XMM()
		MOVOU(encTable.Idx(ctrlIdx, 1), ctrl)
		PSHUFB(ctrl, vec)

		MOVOU(vec, op.Mem{Base: dataBase})

		width := GP32()
		MOVBLZX(lenTable.Idx(keyIdx, 1), width)
		ADDQ(width.As64(), dataBase)
		ADDL(width, total)
	}

	Store(total, ReturnIndex(0))
	RET()
}

// classifyLaneCode computes the 2-bit length code for one element the way
// tables.go's encodeShuffleRow expects it: the smallest index i such that
// elem fits in codeLen[i] bytes.
func classifyLaneCode(elem reg.GPVirtual, codeLen [4]int, out reg.GPVirtual) {
	XORL(out.As32(), out.As32())
	for i := 0; i < 3; i++ {
		bits := codeLen[i] * 8
		if bits >= 32 {
			continue
		}
		threshold := uint64(1) << uint(bits)
		cmp := GP32()
		MOVL(elem.As32(), cmp.As32())
		CMPL(cmp.As32(), op.Imm(threshold))
		next := freshLabel()
		JB(op.LabelRef(next))
		INCL(out.As32())
		Label(next)
	}
}

var labelCounter int

func freshLabel() string {
	labelCounter++
	return "shuffle_skip_" + itoa(labelCounter)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}

// genDecode8Kernel emits decode8_<format>(key *byte, data *byte, dst
// *uint32) uint32, the inverse of genEncode8Kernel: for each of the two
// packed key bytes it loads the data-dependent payload width from the
// length table, PSHUFB-scatters the compact bytes into a four-lane vector
// using the format's decode control row (zero-filling absent high bytes),
// stores the vector, and returns total bytes consumed.
func genDecode8Kernel(formatName string, codeLen [4]int) {
	TEXT("decode8_"+formatName, NOSPLIT, "func(key *byte, data *byte, dst *uint32) uint32")
	Doc("decode8_" + formatName + " decodes eight uint32s and returns the number of payload bytes consumed.")

	decTable := declareShuffleTable("decShuffle"+formatName, tableRows16(streamvbyte.DecodeShuffleTable(formatName)))
	lengths := streamvbyte.LengthTable(formatName)
	lenTable := declareLengthTable("decLen"+formatName, lengths[:])

	keyBase := Load(Param("key"), GP64())
	dataBase := Load(Param("data"), GP64())
	dstBase := Load(Param("dst"), GP64())

	total := GP32()
	XORL(total, total)

	for half := 0; half < 2; half++ {
		keyIdx := GP64()
		MOVBLZX(op.Mem{Base: keyBase, Disp: half}, keyIdx.As32())

		ctrlIdx := GP64()
		MOVQ(keyIdx, ctrlIdx)
		SHLQ(op.Imm(4), ctrlIdx)

		ctrl := XMM()
		MOVOU(decTable.Idx(ctrlIdx, 1), ctrl)

		payload := XMM()
		MOVOU(op.Mem{Base: dataBase}, payload)
		PSHUFB(ctrl, payload)
		MOVOU(payload, op.Mem{Base: dstBase, Disp: half * 16})

		width := GP32()
		MOVBLZX(lenTable.Idx(keyIdx, 1), width)
		ADDQ(width.As64(), dataBase)
		ADDL(width, total)
	}

	Store(total, ReturnIndex(0))
	RET()
}
