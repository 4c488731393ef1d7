package spongehash

import "github.com/lordmulder/sponge-hash-aes256/internal/aesperm"

// blockSize is the width, in bytes, of each of the three state blocks and of
// the rate (the portion of the state that is absorbed into / squeezed from).
const blockSize = aesperm.BlockSize

// state holds the 384-bit sponge state: S0 is the rate (absorbing and
// squeezing block), S1 and S2 together form the hidden 256-bit capacity.
// Mutated by absorb, pad, squeeze, permute and reset; nothing zeroes a state
// when it is released (only permute's temporaries and reset clear bytes).
type state struct {
	s0, s1, s2 [blockSize]byte
	offset     int
	rounds     int
}

// Fixed permutation constants from spec.md §4.2.
var (
	constX = fill(0x5c)
	constY = fill(0x36)
	constZ = fill(0x6a)
)

func fill(b byte) [blockSize]byte {
	var a [blockSize]byte
	for i := range a {
		a[i] = b
	}
	return a
}

func newState(rounds int) *state {
	if rounds < 1 {
		panic("spongehash: round count must be >= 1")
	}
	return &state{rounds: rounds}
}

// absorb XORs each byte of p into S0, permuting whenever the block fills.
func (st *state) absorb(p []byte) {
	for _, b := range p {
		st.s0[st.offset] ^= b
		st.offset++
		if st.offset == blockSize {
			st.permute()
			st.offset = 0
		}
	}
}

// pad appends the single 0x80 padding byte and mixes in the Z constant, per
// spec.md §4.2. Must be called exactly once, immediately before squeezing.
func (st *state) pad() {
	st.s0[st.offset] ^= 0x80
	st.permute()
	xorBlock(&st.s0, &constZ)
}

// squeeze produces len(out) bytes of digest output, permuting before every
// blockSize-sized chunk.
func (st *state) squeeze(out []byte) {
	for len(out) > 0 {
		st.permute()
		n := copy(out, st.s0[:])
		out = out[n:]
	}
}

// permute runs the keyed three-way AES-256 mixing function st.rounds times.
func (st *state) permute() {
	var t0, t1, t2 [blockSize]byte
	for i := 0; i < st.rounds; i++ {
		aesperm.Encrypt(t0[:], st.s0[:], st.s1[:], st.s2[:])
		aesperm.Encrypt(t1[:], st.s1[:], st.s2[:], st.s0[:])
		aesperm.Encrypt(t2[:], st.s2[:], st.s0[:], st.s1[:])

		xorBlock(&st.s0, &t0)
		xorBlock(&st.s1, &t1)
		xorBlock(&st.s2, &t2)

		xorBlock(&st.s1, &constX)
		xorBlock(&st.s2, &constY)
	}
	zeroBlock(&t0)
	zeroBlock(&t1)
	zeroBlock(&t2)
}

// reset clears the state back to its zero-value and drops the offset,
// leaving rounds untouched.
func (st *state) reset() {
	zeroBlock(&st.s0)
	zeroBlock(&st.s1)
	zeroBlock(&st.s2)
	st.offset = 0
}

// clone returns an independent deep copy of st.
func (st *state) clone() *state {
	cp := *st
	return &cp
}

func xorBlock(dst, src *[blockSize]byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

func zeroBlock(b *[blockSize]byte) {
	for i := range b {
		b[i] = 0
	}
}
