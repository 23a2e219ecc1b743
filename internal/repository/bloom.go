// Package repository holds helpers shared by the storage backends.
package repository

import (
	"fmt"
	"hash/crc32"
	"hash/fnv"
)

// BloomHashes is the number of bit positions set per key.
const BloomHashes = 3

// BloomOffsets returns the bit positions of id in a filter of size bits.
func BloomOffsets(id int64, size uint64) [BloomHashes]uint64 {
	data := fmt.Appendf(nil, "%d", id)

	var offsets [BloomHashes]uint64
	offsets[0] = uint64(crc32.ChecksumIEEE(data)) % size

	h := fnv.New64()
	h.Write(data)
	offsets[1] = h.Sum64() % size

	offsets[2] = (offsets[0] + offsets[1] + 0xABC) % size
	return offsets
}
