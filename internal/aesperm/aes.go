// Package aesperm implements the single-block AES-256 encryption used as
// the keyed permutation underlying the sponge core (spongehash).
//
// The 256-bit key is formed by concatenating two 128-bit halves: key0
// followed by key1, exactly as spec.md §4.1 requires. No mode beyond plain
// single-block ECB encryption is used.
package aesperm

import "crypto/aes"

// BlockSize is the width, in bytes, of an AES block and of each of the two
// key halves.
const BlockSize = 16

// Encrypt computes out = AES256(in, key = key0 ‖ key1). out and in may
// overlap in the same way crypto/cipher.Block.Encrypt permits (out must not
// overlap in with any offset other than zero). All four arguments must have
// length BlockSize.
func Encrypt(out, in, key0, key1 []byte) {
	if len(in) != BlockSize || len(out) != BlockSize || len(key0) != BlockSize || len(key1) != BlockSize {
		panic("aesperm: invalid block length")
	}

	var key [2 * BlockSize]byte
	copy(key[:BlockSize], key0)
	copy(key[BlockSize:], key1)
	defer zero(key[:])

	block, err := aes.NewCipher(key[:])
	if err != nil {
		// aes.NewCipher only fails on a bad key length, which cannot happen
		// here since key is always exactly 32 bytes.
		panic(err)
	}
	block.Encrypt(out, in)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
