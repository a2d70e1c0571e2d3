package streamvbyte

// tileSize is the element count of one delta-transpose tile: 16 "rows" of
// 4 elements each.
const tileSize = 64

// transposeTileForward reorders one delta-encoded tile into the storage
// order the reference SSE2 kernel (svb1dt_enc_x64) produces: viewing the
// tile as 16 rows r by 4 columns c with column c holding tile[c*16..c*16+15],
// output is read out row by row, all four columns of a row together, two
// rows' worth (eight deltas) per SVB1_ENCODE8 call. Position p = r*4+c ends
// up holding tile[c*16+r] — four interleaved output channels, one per
// column, each visiting every fourth output position.
func transposeTileForward(dst, tile *[tileSize]uint32) {
	for p := 0; p < tileSize; p++ {
		r := p / 4
		c := p % 4
		dst[p] = tile[c*16+r]
	}
}

// transposeTileInverse undoes transposeTileForward.
func transposeTileInverse(dst, transposed *[tileSize]uint32) {
	for o := 0; o < tileSize; o++ {
		c := o / 16
		r := o % 16
		dst[o] = transposed[r*4+c]
	}
}

// deltaTransposeEncode fills dst with the delta-transpose preprocessing of
// src. Tracing the reference kernel's per-vector subtractions (each 4-lane
// SVB_TRANSPOSE output is immediately differenced against the previous
// column's pre-transpose value, and the carry threaded between tiles via
// _mm_alignr_epi8 is always the true previous element, never a synthetic
// per-lane seed) shows the quarter-tile boundary bookkeeping collapses to
// one ordinary sequential delta chain over the whole array: transposing
// only changes where each differenced value is *stored*, not what it is
// differenced against. So src is first delta-encoded exactly like the
// plain delta variant (reusing the same dispatched, SIMD-capable kernel),
// and only then are full tiles permuted into the reference storage order.
// A trailing tail shorter than one tile keeps its plain sequential order
// untouched. dst and src must not alias.
func deltaTransposeEncode(dst, src []uint32, previous uint32) {
	n := len(src)
	deltaEncodeArray(dst, src, previous)

	var tile, transposed [tileSize]uint32
	for i := 0; i+tileSize <= n; i += tileSize {
		copy(tile[:], dst[i:i+tileSize])
		transposeTileForward(&transposed, &tile)
		copy(dst[i:i+tileSize], transposed[:])
	}
}

// deltaTransposeDecode inverts deltaTransposeEncode: every full tile is
// un-transposed back into plain sequential-delta order, the tail is
// already in that order, and then a single prefix sum (the same
// dispatched delta decoder used by the plain delta variant) recovers the
// original values across tile boundaries. dst and src may alias.
func deltaTransposeDecode(dst, src []uint32, previous uint32) {
	n := len(src)
	var transposed, tile [tileSize]uint32

	i := 0
	for ; i+tileSize <= n; i += tileSize {
		copy(transposed[:], src[i:i+tileSize])
		transposeTileInverse(&tile, &transposed)
		copy(dst[i:i+tileSize], tile[:])
	}
	if i < n {
		copy(dst[i:n], src[i:n])
	}

	deltaDecodeArray(dst, dst, previous)
}
