// Package pcg64mcg implements the PCG-XSL-RR-128/64 "MCG" pseudo-random
// generator (O'Neill, "PCG: A Family of Simple Fast Space-Efficient
// Statistically Good Algorithms for Random Number Generation"), bit-for-bit
// compatible with the rand_pcg crate's Pcg64Mcg as seeded and consumed by
// original_source/app/src/self_test.rs (rand_pcg::Pcg64Mcg::seed_from_u64
// followed by RngCore::fill_bytes).
//
// This generator exists purely to reproduce the self-test KAT in spec.md
// §6/§8; it is not used anywhere else, has no relation to SpongeHash-AES256
// itself, and must not be used for anything security-sensitive.
package pcg64mcg

import "math/bits"

// multiplier is the 128-bit MCG multiplier used by Pcg64Mcg.
var multiplier = u128{hi: 0x2360ed051fc65da4, lo: 0x4385df649fccf645}

// u128 is a minimal 128-bit unsigned integer, stored as (hi, lo) 64-bit
// halves, with just the operations Pcg64Mcg needs.
type u128 struct {
	hi, lo uint64
}

func (a u128) mul(b u128) u128 {
	// Full 128x128 -> low 128 bits multiplication.
	hi, lo := bits.Mul64(a.lo, b.lo)
	hi += a.lo*b.hi + a.hi*b.lo
	return u128{hi: hi, lo: lo}
}

// Source is a PCG64-MCG generator instance.
type Source struct {
	state u128
}

// New seeds a new Source exactly as rand_pcg's Pcg64Mcg::seed_from_u64 does.
// rand_core's SeedableRng::seed_from_u64 default impl (which Pcg64Mcg does
// not override) is explicitly documented as PCG32-based, not SplitMix64: a
// 64-bit LCG state is advanced once per 4-byte chunk of the 16-byte seed,
// each chunk filled from that LCG's own PCG XSH-RR 32-bit output. The
// resulting 16 bytes are read as two little-endian u64 halves and combined
// into the MCG's initial 128-bit state, forced odd (Mcg128Xsl64::from_seed
// requires an odd state for the MCG recurrence to visit a full period).
func New(seed uint64) *Source {
	seedBytes := seedFromU64(seed, 16)
	lo := leU64(seedBytes[0:8])
	hi := leU64(seedBytes[8:16])
	st := u128{hi: hi, lo: lo}
	st.lo |= 1
	return &Source{state: st}
}

// seedFromU64 reproduces rand_core::SeedableRng's default seed_from_u64:
// a 64-bit state is seeded with the input, then repeatedly advanced with
// the constants of Knuth's 64-bit LCG (multiplier 6364136223846793005,
// increment 11634580027462260723 — PCG's default stream increment), each
// step's state feeding the PCG XSH-RR output function to produce one
// 32-bit word, filling n bytes 4 bytes at a time, little-endian.
func seedFromU64(seed uint64, n int) []byte {
	const mul uint64 = 6364136223846793005
	const inc uint64 = 11634580027462260723

	out := make([]byte, 0, n)
	state := seed
	for len(out) < n {
		// Advance first, away from the raw input value, exactly as
		// rand_core does, before producing output from the new state.
		state = state*mul + inc

		xorshifted := uint32(((state >> 18) ^ state) >> 27)
		rot := uint32(state >> 59)
		x := bits.RotateLeft32(xorshifted, -int(rot))

		chunk := [4]byte{byte(x), byte(x >> 8), byte(x >> 16), byte(x >> 24)}
		remain := n - len(out)
		if remain > 4 {
			remain = 4
		}
		out = append(out, chunk[:remain]...)
	}
	return out
}

func leU64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// next advances the MCG state and returns the next 64-bit output word via
// the XSL-RR (xorshift-low, rotate-right) output function, rotating by the
// amount carried in the state's top 6 bits.
func (s *Source) next() uint64 {
	s.state = s.state.mul(multiplier)
	rot := uint(s.state.hi >> 58) // top 6 bits of the 128-bit state
	xored := s.state.hi ^ s.state.lo
	return bits.RotateLeft64(xored, -int(rot))
}

// FillBytes fills buf with output words from the generator, little-endian
// word by word, truncating the final word if buf's length isn't a multiple
// of 8 — matching RngCore::fill_bytes's byte-order convention.
func (s *Source) FillBytes(buf []byte) {
	for len(buf) > 0 {
		word := s.next()
		n := 8
		if n > len(buf) {
			n = len(buf)
		}
		for i := 0; i < n; i++ {
			buf[i] = byte(word >> (8 * i))
		}
		buf = buf[n:]
	}
}
