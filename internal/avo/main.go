//go:build avogen
// +build avogen

package main

import (
	"flag"
	"strings"

	. "github.com/mmcloughlin/avo/build"
)

var (
	component = flag.String("component", "all", "component to generate")
)

// main emits the delta, zigzag, and shuffle kernels so go:generate stays
// simple.
func main() {
	flag.Parse()

	comp := strings.ToLower(*component)

	Package("github.com/viterin/streamvbyte-go")
	ConstraintExpr("amd64")
	ConstraintExpr("!noasm")

	if comp == "delta" || comp == "all" {
		genDeltaEncodeKernel()
		genDeltaDecodeKernel()
	}

	if comp == "zigzag" || comp == "all" {
		genZigZagEncodeKernel()
		genZigZagDecodeKernel()
	}

	if comp == "shuffle" || comp == "all" {
		genEncode8Kernel("1234", codeLen1234)
		genDecode8Kernel("1234", codeLen1234)
		genEncode8Kernel("0124", codeLen0124)
		genDecode8Kernel("0124", codeLen0124)
	}

	Generate()
}
