package hmap

import "encoding/binary"

// Fmix32 is the MurmurHash3 32-bit finalizer. It is the hash primitive
// behind U16Hash and U32Hash: both load a fixed-width integer and run it
// through this mixer before sanitization.
func Fmix32(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return h
}

// Fmix64 is the MurmurHash3 64-bit finalizer. It backs U64Hash, which
// truncates its result to 32 bits.
func Fmix64(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33

	return h
}

// U16Hash hashes a 16-bit key by zero-extending it and running the
// 32-bit finalizer.
func U16Hash(key uint16) uint32 {
	return Fmix32(uint32(key))
}

// U32Hash hashes a 32-bit key with the 32-bit finalizer.
func U32Hash(key uint32) uint32 {
	return Fmix32(key)
}

// U64Hash hashes a 64-bit key with the 64-bit finalizer, truncating the
// result to 32 bits (sanitization happens independently on insert).
func U64Hash(key uint64) uint32 {
	return uint32(Fmix64(key))
}

// U16Equal, U32Equal and U64Equal are the pointwise equality helpers
// paired with the hash functions above.
func U16Equal(a, b uint16) bool { return a == b }
func U32Equal(a, b uint32) bool { return a == b }
func U64Equal(a, b uint64) bool { return a == b }

// HashBytes32 computes the 32-bit x86 MurmurHash3 of data with the given
// seed. It is the hash used for byte-region keys (e.g. the flow table's
// match-key index) rather than for fixed-width integers. Equality for
// such keys is a plain byte-slice comparison by the caller.
func HashBytes32(seed uint32, data []byte) uint32 {
	const (
		c1 = 0xcc9e2d51
		c2 = 0x1b873593
	)

	h := seed
	n := len(data)
	nBlocks := n / 4

	for i := range nBlocks {
		k := binary.LittleEndian.Uint32(data[i*4 : i*4+4])

		k *= c1
		k = (k << 15) | (k >> 17)
		k *= c2

		h ^= k
		h = (h << 13) | (h >> 19)
		h = h*5 + 0xe6546b64
	}

	tail := data[nBlocks*4:]

	var k1 uint32

	switch len(tail) {
	case 3:
		k1 ^= uint32(tail[2]) << 16

		fallthrough
	case 2:
		k1 ^= uint32(tail[1]) << 8

		fallthrough
	case 1:
		k1 ^= uint32(tail[0])
		k1 *= c1
		k1 = (k1 << 15) | (k1 >> 17)
		k1 *= c2
		h ^= k1
	}

	h ^= uint32(n)
	h = Fmix32(h)

	return h
}
