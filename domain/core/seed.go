package core

import (
	"encoding/binary"
	"hash/fnv"
)

// DeriveSeed mixes a base seed with a stream name and iteration counter into
// an independent seed. Every (name, iteration) pair maps to its own stream,
// so permutation iterations can run concurrently in any order and still
// reproduce the same draws for a given base seed.
func DeriveSeed(base int64, name string, iteration int) int64 {
	h := fnv.New64a()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(base))
	h.Write(buf[:])
	h.Write([]byte(name))
	binary.LittleEndian.PutUint64(buf[:], uint64(iteration))
	h.Write(buf[:])

	return int64(h.Sum64())
}
