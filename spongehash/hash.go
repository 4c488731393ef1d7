// Package spongehash implements SpongeHash-AES256: a variable-output sponge
// construction built on a 384-bit state (16-byte rate, 32-byte capacity)
// permuted by three keyed AES-256 encryptions per round (internal/aesperm).
//
// A Hash is created with New, fed input with Write/Update, and finalized
// with Digest/DigestTo. The "snail level" selects the round count R used by
// the permutation, trading speed for (an unproven, purely defensive)
// slowdown margin; see SnailLevel and its constants Level0..Level4.
package spongehash

import "io"

// MaxDigestSize is the largest digest length, in bytes, this package will
// produce in one finalization (spec.md §3).
const MaxDigestSize = 256

// DefaultDigestSize is the digest length used by Sum and by the reference
// KATs in spec.md §8 (256 bits).
const DefaultDigestSize = 32

// MaxInfoSize is the largest InfoString this package accepts (spec.md §3).
const MaxInfoSize = 255

// SnailLevel selects the permutation round count R, per the table in
// spec.md §4.3. Level 0 is the default (fastest) setting.
type SnailLevel int

const (
	Level0 SnailLevel = iota // R = 1 (default)
	Level1                   // R = 13
	Level2                   // R = 251
	Level3                   // R = 4093
	Level4                   // R = 65521
)

// MaxSnailLevel is the highest valid SnailLevel.
const MaxSnailLevel = Level4

var roundsByLevel = [...]int{1, 13, 251, 4093, 65521}

// Rounds returns the permutation round count R for this snail level.
func (l SnailLevel) Rounds() int {
	if l < Level0 || l > MaxSnailLevel {
		panic("spongehash: invalid snail level")
	}
	return roundsByLevel[l]
}

// Hash is a streaming SpongeHash-AES256 instance. The zero value is not
// usable; create one with New. A Hash is not safe for concurrent use: the
// state is exclusively owned by whichever goroutine is hashing (spec.md §3
// "Ownership").
type Hash struct {
	st       *state
	squeezed bool
}

// New creates a streaming Hash at the given snail level, absorbing the
// optional info string (nil or empty means no domain separation) as the
// construction's very first bytes: one length byte followed by the raw info
// bytes (spec.md §4.2 "Initialization").
//
// New panics if info is longer than MaxInfoSize bytes; that is a
// construction error, not a runtime one.
func New(level SnailLevel, info []byte) *Hash {
	if len(info) > MaxInfoSize {
		panic("spongehash: info string exceeds 255 bytes")
	}
	h := &Hash{st: newState(level.Rounds())}
	h.st.absorb([]byte{byte(len(info))})
	h.st.absorb(info)
	return h
}

// Update absorbs more input. It panics if called after Digest/DigestTo/Sum
// have already squeezed output from this instance — like the teacher's
// sha3.ShakeHash, a sponge cannot be fed more input once the padding has run.
func (h *Hash) Update(p []byte) {
	if h.squeezed {
		panic("spongehash: Update after Digest")
	}
	h.st.absorb(p)
}

// Write implements io.Writer as an alias for Update, so a Hash can be used
// anywhere an io.Writer is expected (io.Copy(h, r), etc.), matching the
// io.Writer-shaped sponge API the teacher's sha3 package exposes.
func (h *Hash) Write(p []byte) (int, error) {
	h.Update(p)
	return len(p), nil
}

var _ io.Writer = (*Hash)(nil)

// Digest finalizes the hash and returns a freshly allocated digest of
// length l. It does not mutate h beyond marking it squeezed; calling Digest
// again with a different length is legal and yields a value consistent with
// the length-independence property (spec.md §8 property 3), since the
// padding step only ever runs once per instance.
func (h *Hash) Digest(l int) []byte {
	out := make([]byte, l)
	h.DigestTo(out)
	return out
}

// DigestTo finalizes the hash (padding exactly once, on first call) and
// writes len(out) bytes of digest into out.
func (h *Hash) DigestTo(out []byte) {
	if len(out) == 0 {
		panic("spongehash: zero-length digest")
	}
	if !h.squeezed {
		h.st.pad()
		h.squeezed = true
	}
	st := h.st.clone()
	st.squeeze(out)
}

// Sum appends the default-length digest of the bytes absorbed so far to b
// and returns the resulting slice, in the style of hash.Hash.Sum. It does
// not modify h's state beyond the implicit Digest finalization rules above.
func (h *Hash) Sum(b []byte) []byte {
	d := h.Digest(DefaultDigestSize)
	return append(b, d...)
}

// Reset clears h back to a fresh state with the same round count, dropping
// any absorbed input and info string. It does not re-run New's info
// absorption; callers that need a fresh info string should call New again.
func (h *Hash) Reset() {
	h.st.reset()
	h.squeezed = false
}

// Compute is the one-shot form: it hashes message (with optional info) at
// the given snail level and returns a freshly allocated digest of length l.
func Compute(level SnailLevel, info, message []byte, l int) []byte {
	out := make([]byte, l)
	ComputeTo(out, level, info, message)
	return out
}

// ComputeTo is the one-shot form writing directly into a caller-provided
// slice, avoiding an extra allocation.
func ComputeTo(out []byte, level SnailLevel, info, message []byte) {
	h := New(level, info)
	h.Update(message)
	h.DigestTo(out)
}
