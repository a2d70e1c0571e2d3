// Command svbcat reads newline-delimited decimal uint32 values from stdin,
// encodes them with a chosen codec variant, and reports the compressed
// size. It exists to exercise the public codec surface the way a real
// consumer would, not as a general-purpose compression tool.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	streamvbyte "github.com/viterin/streamvbyte-go"
)

func main() {
	variant := flag.String("variant", "1234", "codec variant: 1234, 0124, z1234, z0124, d1234, d0124, dz1234, dz0124, dt1234, dt0124")
	previous := flag.Uint64("previous", 0, "seed for delta-based variants")
	flag.Parse()

	values, err := readValues(os.Stdin)
	if err != nil {
		log.Fatalf("svbcat: %v", err)
	}

	encoded, err := encode(*variant, values, uint32(*previous))
	if err != nil {
		log.Fatalf("svbcat: %v", err)
	}

	fmt.Printf("variant=%s elements=%d encoded_bytes=%d bound=%d simd=%v\n",
		*variant, len(values), len(encoded), streamvbyte.Bound(len(values)), streamvbyte.IsSIMDAvailable())
}

func readValues(f *os.File) ([]uint32, error) {
	var values []uint32
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", line, err)
		}
		values = append(values, uint32(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

func encode(variant string, values []uint32, previous uint32) ([]byte, error) {
	dst := make([]byte, streamvbyte.Bound(len(values)))
	switch variant {
	case "1234":
		return streamvbyte.Enc1234(dst, values), nil
	case "0124":
		return streamvbyte.Enc0124(dst, values), nil
	case "z1234":
		return streamvbyte.EncZigZag1234(dst, values), nil
	case "z0124":
		return streamvbyte.EncZigZag0124(dst, values), nil
	case "d1234":
		return streamvbyte.EncDelta1234(dst, values, previous), nil
	case "d0124":
		return streamvbyte.EncDelta0124(dst, values, previous), nil
	case "dz1234":
		return streamvbyte.EncDeltaZigZag1234(dst, values, previous), nil
	case "dz0124":
		return streamvbyte.EncDeltaZigZag0124(dst, values, previous), nil
	case "dt1234":
		return streamvbyte.EncDeltaTranspose1234(dst, values, previous), nil
	case "dt0124":
		return streamvbyte.EncDeltaTranspose0124(dst, values, previous), nil
	default:
		return nil, fmt.Errorf("unknown variant %q", variant)
	}
}
