package hash

import (
	"encoding/binary"

	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/execution/slot"
	"github.com/kovdb75/postgres/memory"
	"github.com/kovdb75/postgres/storage/table/schema"
	"github.com/kovdb75/postgres/storage/tuple"
	pair "github.com/notEpsilon/go-pair"
	"github.com/pkg/errors"
)

// hashPrefixSize is the part of an entry's extra bytes holding its hash.
const hashPrefixSize = 4

/**
 * TupleHashTable groups rows by key columns, as hashed grouping and
 * duplicate elimination need. The first row of every group is kept as a
 * minimal tuple in the table's memory context. The extra bytes in front of
 * it hold the row's hash followed by additionalSize bytes the caller may use
 * for per group state.
 *
 * NULL key values compare equal to each other.
 */
type TupleHashTable struct {
	mcxt           *memory.Context
	desc           *schema.Schema
	keyCols        []int // attribute numbers, 1-based
	additionalSize uint32
	entries        []pair.Pair[uint32, *tuple.MinimalTuple] // insertion order
	buckets        map[uint32][]int                         // hash -> index into entries
	probe          *slot.TupleTableSlot                     // minimal slot reading stored entries
}

func NewTupleHashTable(desc *schema.Schema, keyCols []int, additionalSize uint32, parent *memory.Context) *TupleHashTable {
	common.SH_Assert(len(keyCols) > 0, "TupleHashTable: no key columns")
	for _, attnum := range keyCols {
		common.SH_Assertf(attnum > 0 && attnum <= int(desc.GetColumnCount()), "TupleHashTable: invalid key column %d", attnum)
	}
	mcxt := memory.NewContext("TupleHashTable", parent)
	return &TupleHashTable{
		mcxt:           mcxt,
		desc:           desc,
		keyCols:        keyCols,
		additionalSize: additionalSize,
		entries:        make([]pair.Pair[uint32, *tuple.MinimalTuple], 0),
		buckets:        make(map[uint32][]int),
		probe:          slot.MakeSingleTupleTableSlot(desc, slot.KindMinimalTuple, mcxt),
	}
}

// hashSlot combines the hashes of the key columns of the row in s.
func (ht *TupleHashTable) hashSlot(s *slot.TupleTableSlot) (uint32, error) {
	var hash uint32
	for _, attnum := range ht.keyCols {
		v, isnull, err := s.GetAttr(attnum)
		if err != nil {
			return 0, err
		}
		// rotate so that column order matters
		hash = (hash << 1) | (hash >> 31)
		if !isnull {
			hash ^= HashValue(v)
		}
	}
	return hash, nil
}

func (ht *TupleHashTable) keysEqual(s *slot.TupleTableSlot, entry *tuple.MinimalTuple) (bool, error) {
	if err := ht.probe.StoreMinimalTuple(entry, false); err != nil {
		return false, err
	}
	for _, attnum := range ht.keyCols {
		l, lnull, err := s.GetAttr(attnum)
		if err != nil {
			return false, err
		}
		r, rnull, err := ht.probe.GetAttr(attnum)
		if err != nil {
			return false, err
		}
		if lnull != rnull {
			return false, nil
		}
		if !lnull && !l.CompareEquals(r) {
			return false, nil
		}
	}
	return true, nil
}

func (ht *TupleHashTable) find(s *slot.TupleTableSlot, hash uint32) (*tuple.MinimalTuple, error) {
	defer ht.probe.Clear()
	for _, idx := range ht.buckets[hash] {
		entry := ht.entries[idx].Second
		equal, err := ht.keysEqual(s, entry)
		if err != nil {
			return nil, err
		}
		if equal {
			return entry, nil
		}
	}
	return nil, nil
}

func (ht *TupleHashTable) checkShape(s *slot.TupleTableSlot) error {
	if s.Natts() != int(ht.desc.GetColumnCount()) {
		return errors.Wrapf(slot.ErrShapeMismatch, "row of %d attributes for a table of %d", s.Natts(), ht.desc.GetColumnCount())
	}
	return nil
}

// LookupOrInsert returns the entry of the group the row in s belongs to,
// creating it from a copy of the row when the group is new.
func (ht *TupleHashTable) LookupOrInsert(s *slot.TupleTableSlot) (*tuple.MinimalTuple, bool, error) {
	if err := ht.checkShape(s); err != nil {
		return nil, false, err
	}
	hash, err := ht.hashSlot(s)
	if err != nil {
		return nil, false, err
	}
	entry, err := ht.find(s, hash)
	if err != nil || entry != nil {
		return entry, false, err
	}

	entry, err = s.CopyMinimalTuple(ht.mcxt, hashPrefixSize+ht.additionalSize)
	if err != nil {
		return nil, false, err
	}
	binary.LittleEndian.PutUint32(entry.Extra(), hash)
	ht.buckets[hash] = append(ht.buckets[hash], len(ht.entries))
	ht.entries = append(ht.entries, pair.Pair[uint32, *tuple.MinimalTuple]{First: hash, Second: entry})

	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO, "TupleHashTable: new group hash=%08x groups=%d\n", hash, len(ht.entries))
	}
	return entry, true, nil
}

// Lookup returns the entry of the group of the row in s, nil if there is none.
func (ht *TupleHashTable) Lookup(s *slot.TupleTableSlot) (*tuple.MinimalTuple, error) {
	if err := ht.checkShape(s); err != nil {
		return nil, err
	}
	hash, err := ht.hashSlot(s)
	if err != nil {
		return nil, err
	}
	return ht.find(s, hash)
}

// EntryHash returns the hash stored in front of an entry.
func EntryHash(entry *tuple.MinimalTuple) uint32 {
	return binary.LittleEndian.Uint32(entry.Extra())
}

// EntryData returns the caller's per group bytes of an entry.
func (ht *TupleHashTable) EntryData(entry *tuple.MinimalTuple) []byte {
	return entry.Extra()[hashPrefixSize : hashPrefixSize+ht.additionalSize]
}

func (ht *TupleHashTable) Len() int {
	return len(ht.entries)
}

// Entries returns (hash, entry) pairs in insertion order.
func (ht *TupleHashTable) Entries() []pair.Pair[uint32, *tuple.MinimalTuple] {
	ret := make([]pair.Pair[uint32, *tuple.MinimalTuple], len(ht.entries))
	copy(ret, ht.entries)
	return ret
}

// Reset drops every group and keeps the table usable.
func (ht *TupleHashTable) Reset() {
	for _, e := range ht.entries {
		e.Second.Free()
	}
	ht.entries = ht.entries[:0]
	ht.buckets = make(map[uint32][]int)
}

// Destroy releases the memory of the table. The table can not be used afterwards.
func (ht *TupleHashTable) Destroy() {
	slot.DropSingleTupleTableSlot(ht.probe)
	ht.entries = nil
	ht.buckets = nil
	ht.mcxt.Delete()
}
