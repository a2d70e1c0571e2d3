//go:build avogen
// +build avogen

package main

import (
	. "github.com/mmcloughlin/avo/build"
	op "github.com/mmcloughlin/avo/operand"
	"github.com/mmcloughlin/avo/reg"
)

// This file generates the SSE2 kernels backing the z/dz variant families
// (EncZigZag1234/0124 and EncDeltaZigZag1234/0124 in dispatch.go). Plain
// delta-encoded streams are still signed in spirit — a value that dropped
// is a negative delta — but every codec in this package stores uint32, so
// zigzag maps each signed delta to an unsigned one that keeps small
// magnitudes (positive or negative) cheap to store: 1i32 and -1i32 both
// land next to 0 instead of one of them wrapping to near 0xFFFFFFFF.
//
// The math follows the well-known bit trick (see e.g.
// https://lemire.me/blog/2022/11/25/making-all-your-integers-positive-with-zigzag-encoding/):
//
//	decode(x) = (x >> 1) ^ -(x & 1)
//	encode(x) = (x << 1) ^ (x >> 31)   // x as a signed int32

func genZigZagEncodeKernel() {
	TEXT("zigzagEncodeSIMDAsm", NOSPLIT, "func(buf *uint32, n int)")
	Doc("zigzagEncodeSIMDAsm zigzag-maps n deltas (signed, stored as uint32) at buf")
	Doc("to their unsigned form in place, as used by the z/dz encode variants.")

	bufParam := Load(Param("buf"), GP64())
	bufPtr := bufParam.(reg.GPVirtual)
	n := Load(Param("n"), GP64())

	vecCount := GP64()
	MOVQ(n, vecCount)
	ANDQ(op.Imm(0xfffffffc), vecCount)

	tailCount := GP64()
	MOVQ(n, tailCount)
	ANDQ(op.Imm(3), tailCount)

	vecRemaining := GP64()
	MOVQ(vecCount, vecRemaining)

	// Unrolled loop for processing 4 vectors (16 integers) at a time.
	unrollLoop := "svb_zigzag_enc_unroll"
	unrollDone := "svb_zigzag_enc_unroll_done"

	Label(unrollLoop)
	CMPQ(vecRemaining, op.Imm(16))
	JL(op.LabelRef(unrollDone))

	// Allocate registers for 4 blocks
	var v, s [4]reg.VecVirtual
	for i := 0; i < 4; i++ {
		v[i] = XMM()
		s[i] = XMM()
	}

	// Load 4 vectors
	for i := 0; i < 4; i++ {
		MOVO(op.Mem{Base: bufPtr, Disp: i * 16}, v[i])
	}

	// Formula: (n << 1) ^ (n >> 31)
	// s = n >> 31 (Arithmetic shift preserves sign)
	for i := 0; i < 4; i++ {
		MOVO(v[i], s[i])
		PSRAL(op.Imm(31), s[i])
	}

	// v = n << 1
	for i := 0; i < 4; i++ {
		PSLLL(op.Imm(1), v[i])
	}

	// v = v ^ s
	for i := 0; i < 4; i++ {
		PXOR(s[i], v[i])
	}

	// Store back
	for i := 0; i < 4; i++ {
		MOVO(v[i], op.Mem{Base: bufPtr, Disp: i * 16})
	}

	ADDQ(op.Imm(64), bufPtr)
	SUBQ(op.Imm(16), vecRemaining)
	JMP(op.LabelRef(unrollLoop))

	Label(unrollDone)

	// Vector loop (for remaining blocks of 4)
	vecLoop := "svb_zigzag_enc_vec"
	vecDone := "svb_zigzag_enc_vec_done"

	valVec := XMM()
	signVec := XMM()
	shiftVec := XMM()

	Label(vecLoop)
	CMPQ(vecRemaining, op.Imm(0))
	JE(op.LabelRef(vecDone))

	MOVO(op.Mem{Base: bufPtr}, valVec)

	// signVec = valVec >> 31
	MOVO(valVec, signVec)
	PSRAL(op.Imm(31), signVec)

	// shiftVec = valVec << 1
	MOVO(valVec, shiftVec)
	PSLLL(op.Imm(1), shiftVec)

	// result = shiftVec ^ signVec
	PXOR(signVec, shiftVec)

	MOVO(shiftVec, op.Mem{Base: bufPtr})

	ADDQ(op.Imm(16), bufPtr)
	SUBQ(op.Imm(4), vecRemaining)
	JMP(op.LabelRef(vecLoop))

	Label(vecDone)

	// Tail loop for remaining elements (0-3)
	tailLoop := "svb_zigzag_enc_tail"
	tailDone := "svb_zigzag_enc_tail_done"

	tailVal := GP32()
	tailSign := GP32()

	Label(tailLoop)
	CMPQ(tailCount, op.Imm(0))
	JE(op.LabelRef(tailDone))

	MOVL(op.Mem{Base: bufPtr}, tailVal)
	MOVL(tailVal, tailSign)
	SARL(op.Imm(31), tailSign) // Arithmetic shift for sign
	SHLL(op.Imm(1), tailVal)
	XORL(tailSign, tailVal)
	MOVL(tailVal, op.Mem{Base: bufPtr})

	ADDQ(op.Imm(4), bufPtr)
	DECQ(tailCount)
	JMP(op.LabelRef(tailLoop))

	Label(tailDone)
	RET()
}

func genZigZagDecodeKernel() {
	TEXT("zigzagDecodeSIMDAsm", NOSPLIT, "func(buf *uint32, n int)")
	Doc("zigzagDecodeSIMDAsm inverts genZigZagEncodeKernel's mapping in place, recovering")
	Doc("the n signed deltas the z/dz decode variants add back onto the running sum.")

	bufParam := Load(Param("buf"), GP64())
	bufPtr := bufParam.(reg.GPVirtual)
	n := Load(Param("n"), GP64())

	vecCount := GP64()
	MOVQ(n, vecCount)
	ANDQ(op.Imm(0xfffffffc), vecCount)

	tailCount := GP64()
	MOVQ(n, tailCount)
	ANDQ(op.Imm(3), tailCount)

	vecRemaining := GP64()
	MOVQ(vecCount, vecRemaining)

	// Prepare constant mask for LSB isolation - Optimized out
	// ones := XMM()
	// PXOR(ones, ones)
	// PCMPEQL(ones, ones)     // Set all bits to 1
	// PSRLL(op.Imm(31), ones) // Shift right logical to get 0x00000001 in each lane

	// Unrolled loop for processing 4 vectors (16 integers) at a time.
	unrollLoop := "svb_zigzag_dec_unroll"
	unrollDone := "svb_zigzag_dec_unroll_done"

	Label(unrollLoop)
	CMPQ(vecRemaining, op.Imm(16))
	JL(op.LabelRef(unrollDone))

	var v, l [4]reg.VecVirtual
	for i := 0; i < 4; i++ {
		v[i] = XMM()
		l[i] = XMM()
	}

	for i := 0; i < 4; i++ {
		MOVO(op.Mem{Base: bufPtr, Disp: i * 16}, v[i])
	}

	// Formula: (n >>> 1) ^ -(n & 1)
	// -(n & 1) is equivalent to (n << 31) >> 31 (arithmetic shift),
	// which broadcasts the LSB to all bits.

	for i := 0; i < 4; i++ {
		// Block i
		MOVO(v[i], l[i])
		PSLLL(op.Imm(31), l[i])
		PSRAL(op.Imm(31), l[i])
	}

	// v = n >>> 1
	for i := 0; i < 4; i++ {
		PSRLL(op.Imm(1), v[i])
	}

	// v = v ^ l
	for i := 0; i < 4; i++ {
		PXOR(l[i], v[i])
	}

	for i := 0; i < 4; i++ {
		MOVO(v[i], op.Mem{Base: bufPtr, Disp: i * 16})
	}

	ADDQ(op.Imm(64), bufPtr)
	SUBQ(op.Imm(16), vecRemaining)
	JMP(op.LabelRef(unrollLoop))

	Label(unrollDone)

	valVec := XMM()
	lsbVec := XMM()
	shiftVec := XMM()

	vecLoop := "svb_zigzag_dec_vec"
	vecDone := "svb_zigzag_dec_vec_done"

	Label(vecLoop)
	CMPQ(vecRemaining, op.Imm(0))
	JE(op.LabelRef(vecDone))

	MOVO(op.Mem{Base: bufPtr}, valVec)

	// lsbVec = -(valVec & 1) -> (valVec << 31) >> 31
	MOVO(valVec, lsbVec)
	PSLLL(op.Imm(31), lsbVec)
	PSRAL(op.Imm(31), lsbVec)

	// shiftVec = valVec >>> 1
	MOVO(valVec, shiftVec)
	PSRLL(op.Imm(1), shiftVec)

	// result = shiftVec ^ lsbVec
	PXOR(lsbVec, shiftVec)

	MOVO(shiftVec, op.Mem{Base: bufPtr})

	ADDQ(op.Imm(16), bufPtr)
	SUBQ(op.Imm(4), vecRemaining)
	JMP(op.LabelRef(vecLoop))

	Label(vecDone)

	tailLoop := "svb_zigzag_dec_tail"
	tailDone := "svb_zigzag_dec_tail_done"

	tailVal := GP32()
	tailShift := GP32()
	tailMask := GP32()

	Label(tailLoop)
	CMPQ(tailCount, op.Imm(0))
	JE(op.LabelRef(tailDone))

	MOVL(op.Mem{Base: bufPtr}, tailVal)
	MOVL(tailVal, tailMask)
	ANDL(op.Imm(1), tailMask)
	NEGL(tailMask) // tailMask = -(n & 1)

	MOVL(tailVal, tailShift)
	SHRL(op.Imm(1), tailShift) // tailShift = n >>> 1
	XORL(tailMask, tailShift)
	MOVL(tailShift, op.Mem{Base: bufPtr})

	ADDQ(op.Imm(4), bufPtr)
	DECQ(tailCount)
	JMP(op.LabelRef(tailLoop))

	Label(tailDone)
	RET()
}
