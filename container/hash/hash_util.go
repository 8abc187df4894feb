package hash

import (
	"encoding/binary"

	"github.com/kovdb75/postgres/types"
	"github.com/spaolacci/murmur3"
)

const prime_factor uint32 = 10000019

func HashBytes(bytes []byte, length uint32) uint32 {
	// https://github.com/greenplum-db/gpos/blob/b53c1acd6285de94044ff91fbee91589543feba1/libgpos/src/utils.cpp#L126
	var hash uint32 = length
	for i := 0; i < int(length); i++ {
		hash = ((hash << 5) ^ (hash >> 27)) ^ uint32(bytes[i])
	}
	return hash
}

func CombineHashes(l uint32, r uint32) uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:], l)
	binary.LittleEndian.PutUint32(buf[4:], r)
	return HashBytes(buf[:], 4*2)
}

func SumHashes(l uint32, r uint32) uint32 { return (l%prime_factor + r%prime_factor) % prime_factor }

// HashValue hashes the tuple encoding of val. Equal values of one type hash
// alike whatever memory their payload lives in.
func HashValue(val types.Value) uint32 {
	switch val.ValueType() {
	case types.Boolean, types.Integer, types.BigInt, types.Float, types.Varchar:
		return GenHashMurMur(val.Serialize())
	case types.Decimal:
		// 1.50 and 1.5 are equal
		return GenHashMurMur([]byte(val.ToDecimal().String()))
	}
	panic("not supported type!")
}

func GenHashMurMur(key []byte) uint32 {
	h := murmur3.New128()
	h.Write(key)
	hash := h.Sum(nil)
	return binary.LittleEndian.Uint32(hash)
}
