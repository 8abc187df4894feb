// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package tuple

import (
	"encoding/binary"
	"fmt"

	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/memory"
	"github.com/kovdb75/postgres/storage/page"
	"github.com/kovdb75/postgres/storage/table/schema"
	"github.com/kovdb75/postgres/types"
)

/**
 * Heap tuple format:
 * -------------------------------------------------------------------------------------------------
 * | xmin(4) | xmax(4) | ctid page(4) | ctid slot(4) | natts(2) | infomask(2) | hoff(1) | null bitmap | data |
 * -------------------------------------------------------------------------------------------------
 *                                                   ^ body (also the whole of a minimal tuple)
 *
 * hoff counts from the start of the body. The null bitmap is present only when
 * InfoHasNulls is set; bit i set means attribute i is not null. Null attributes
 * take no space in data. Fixed width values are stored unaligned, variable
 * width values carry a 4 byte length prefix.
 */
const (
	offsetXmin     = 0
	offsetXmax     = 4
	offsetCtidPage = 8
	offsetCtidSlot = 12

	// MinimalTupleOffset is the size of the header part a minimal tuple omits.
	MinimalTupleOffset = 16

	offsetNatts    = 0
	offsetInfomask = 2
	offsetHoff     = 4
	// BodyHeaderSize is the fixed part of the body before the null bitmap.
	BodyHeaderSize = 5
)

const (
	InfoHasNulls    uint16 = 0x0001
	InfoHasVarWidth uint16 = 0x0002
)

// HeapTuple is a full tuple. Its bytes may live in a buffer page (borrowed),
// in a chunk of a memory context (owned by whoever holds the context chunk),
// or, for the wrapper of a minimal tuple, consist of a body only.
type HeapTuple struct {
	self     page.RID
	tableOid types.OID
	data     []byte // whole tuple, nil for a minimal tuple wrapper
	body     []byte
	mcxt     *memory.Context // context whose chunk data is, nil when borrowed
}

func bitmapLen(natts int) int {
	return (natts + 7) / 8
}

// ComputeDataSize returns the size of the data area needed for values.
func ComputeDataSize(schema_ *schema.Schema, values []types.Value, isnull []bool) uint32 {
	size := uint32(0)
	for i := uint32(0); i < schema_.GetColumnCount(); i++ {
		if isnull[i] {
			continue
		}
		col := schema_.GetColumn(i)
		if col.IsInlined() {
			size += col.FixedLength()
		} else {
			size += values[i].Size()
		}
	}
	return size
}

func hasNulls(isnull []bool) bool {
	for _, n := range isnull {
		if n {
			return true
		}
	}
	return false
}

func bodySize(schema_ *schema.Schema, values []types.Value, isnull []bool) (uint32, uint8) {
	hoff := BodyHeaderSize
	if hasNulls(isnull) {
		hoff += bitmapLen(int(schema_.GetColumnCount()))
	}
	return uint32(hoff) + ComputeDataSize(schema_, values, isnull), uint8(hoff)
}

// fillBody writes natts, infomask, hoff, bitmap and data into body, which must
// be exactly bodySize bytes and zeroed.
func fillBody(body []byte, hoff uint8, schema_ *schema.Schema, values []types.Value, isnull []bool) {
	natts := int(schema_.GetColumnCount())
	infomask := uint16(0)
	withNulls := hasNulls(isnull)
	if withNulls {
		infomask |= InfoHasNulls
	}

	off := uint32(hoff)
	for i := 0; i < natts; i++ {
		if isnull[i] {
			continue
		}
		if withNulls {
			body[BodyHeaderSize+i/8] |= 1 << (uint(i) % 8)
		}
		col := schema_.GetColumn(uint32(i))
		common.SH_Assertf(values[i].ValueType() == col.GetType(),
			"tuple: attribute %d holds %v, column type is %v", i+1, values[i].ValueType(), col.GetType())
		if col.IsByRef() {
			infomask |= InfoHasVarWidth
		}
		off += values[i].SerializeTo(body[off:])
	}
	common.SH_Assert(off == uint32(len(body)), "tuple: data size mismatch")

	binary.LittleEndian.PutUint16(body[offsetNatts:], uint16(natts))
	binary.LittleEndian.PutUint16(body[offsetInfomask:], infomask)
	body[offsetHoff] = hoff
}

func allocBytes(ctx *memory.Context, size int) []byte {
	if ctx == nil {
		return make([]byte, size)
	}
	return ctx.Alloc(size)
}

// FormHeapTuple encodes values into a new heap tuple allocated in ctx. A nil
// ctx allocates from the Go heap; such a tuple can not be freed.
func FormHeapTuple(ctx *memory.Context, schema_ *schema.Schema, values []types.Value, isnull []bool) *HeapTuple {
	common.SH_Assert(len(values) >= int(schema_.GetColumnCount()) && len(isnull) >= int(schema_.GetColumnCount()),
		"tuple: fewer values than columns")
	size, hoff := bodySize(schema_, values, isnull)
	data := allocBytes(ctx, MinimalTupleOffset+int(size))
	fillBody(data[MinimalTupleOffset:], hoff, schema_, values, isnull)

	ret := &HeapTuple{page.InvalidRID, types.InvalidOID, data, data[MinimalTupleOffset:], ctx}
	ret.SetXmin(types.InvalidTxnID)
	ret.SetXmax(types.InvalidTxnID)
	ret.writeCtid()
	return ret
}

// NewHeapTupleFromBytes wraps data without copying. The caller keeps data
// alive while the tuple is used.
func NewHeapTupleFromBytes(data []byte, self page.RID, tableOid types.OID) *HeapTuple {
	common.SH_Assert(len(data) >= MinimalTupleOffset+BodyHeaderSize, "tuple: bytes shorter than the header")
	return &HeapTuple{self, tableOid, data, data[MinimalTupleOffset:], nil}
}

func (t *HeapTuple) writeCtid() {
	if t.data == nil {
		return
	}
	binary.LittleEndian.PutUint32(t.data[offsetCtidPage:], uint32(t.self.PageId))
	binary.LittleEndian.PutUint32(t.data[offsetCtidSlot:], t.self.SlotNum)
}

// Copy returns a copy of t allocated in ctx. The copy of a minimal tuple
// wrapper gets a fresh full header.
func (t *HeapTuple) Copy(ctx *memory.Context) *HeapTuple {
	if t.data == nil {
		ret := newHeapFromBody(ctx, t.body)
		ret.tableOid = t.tableOid
		return ret
	}
	data := allocBytes(ctx, len(t.data))
	copy(data, t.data)
	return &HeapTuple{t.self, t.tableOid, data, data[MinimalTupleOffset:], ctx}
}

func newHeapFromBody(ctx *memory.Context, body []byte) *HeapTuple {
	data := allocBytes(ctx, MinimalTupleOffset+len(body))
	copy(data[MinimalTupleOffset:], body)
	ret := &HeapTuple{page.InvalidRID, types.InvalidOID, data, data[MinimalTupleOffset:], ctx}
	ret.SetXmin(types.InvalidTxnID)
	ret.SetXmax(types.InvalidTxnID)
	ret.writeCtid()
	return ret
}

// ToMinimal copies the body of t into a new minimal tuple with extra reserved bytes.
func (t *HeapTuple) ToMinimal(ctx *memory.Context, extra uint32) *MinimalTuple {
	return newMinimalFromBody(ctx, t.body, extra)
}

// Free returns the bytes of t to their context.
func (t *HeapTuple) Free() {
	common.SH_Assert(t.mcxt != nil, "tuple: free of a tuple not owned by a memory context")
	t.mcxt.Free(t.data)
	t.data = nil
	t.body = nil
	t.mcxt = nil
}

// BindMinimal turns t into the wrapper of m. t then shares the bytes of m.
func (t *HeapTuple) BindMinimal(m *MinimalTuple) {
	t.self = page.InvalidRID
	t.tableOid = types.InvalidOID
	t.data = nil
	t.body = m.data
	t.mcxt = nil
}

// Unbind drops the bytes t refers to without freeing them.
func (t *HeapTuple) Unbind() {
	t.data = nil
	t.body = nil
	t.mcxt = nil
}

func (t *HeapTuple) IsMinimalWrapper() bool {
	return t.data == nil
}

// Data returns the whole tuple. It is nil for a minimal tuple wrapper.
func (t *HeapTuple) Data() []byte {
	return t.data
}

// Body returns the part of the tuple shared with the minimal format.
func (t *HeapTuple) Body() []byte {
	return t.body
}

func (t *HeapTuple) Len() uint32 {
	if t.data == nil {
		return uint32(len(t.body))
	}
	return uint32(len(t.data))
}

// Owner returns the context owning the bytes, nil when they are borrowed.
func (t *HeapTuple) Owner() *memory.Context {
	return t.mcxt
}

func (t *HeapTuple) Natts() int {
	return int(binary.LittleEndian.Uint16(t.body[offsetNatts:]))
}

func (t *HeapTuple) Infomask() uint16 {
	return binary.LittleEndian.Uint16(t.body[offsetInfomask:])
}

func (t *HeapTuple) HasNulls() bool {
	return t.Infomask()&InfoHasNulls != 0
}

func (t *HeapTuple) HasVarWidth() bool {
	return t.Infomask()&InfoHasVarWidth != 0
}

// Hoff is the offset of the data area from the start of the body.
func (t *HeapTuple) Hoff() uint32 {
	return uint32(t.body[offsetHoff])
}

// AttIsNull reports the null bit of the 0-based attribute attno, which must
// be below Natts.
func (t *HeapTuple) AttIsNull(attno int) bool {
	if !t.HasNulls() {
		return false
	}
	return t.body[BodyHeaderSize+attno/8]&(1<<(uint(attno)%8)) == 0
}

// DataArea returns the bytes following the header and bitmap.
func (t *HeapTuple) DataArea() []byte {
	return t.body[t.Hoff():]
}

func (t *HeapTuple) GetSelf() page.RID {
	return t.self
}

// SetSelf records the location of the tuple. Full tuples also keep it in ctid.
func (t *HeapTuple) SetSelf(rid page.RID) {
	t.self = rid
	t.writeCtid()
}

func (t *HeapTuple) GetTableOid() types.OID {
	return t.tableOid
}

func (t *HeapTuple) SetTableOid(oid types.OID) {
	t.tableOid = oid
}

func (t *HeapTuple) Xmin() types.TxnID {
	if t.data == nil {
		return types.InvalidTxnID
	}
	return types.NewTxnIDFromBytes(t.data[offsetXmin:])
}

func (t *HeapTuple) Xmax() types.TxnID {
	if t.data == nil {
		return types.InvalidTxnID
	}
	return types.NewTxnIDFromBytes(t.data[offsetXmax:])
}

func (t *HeapTuple) SetXmin(txnID types.TxnID) {
	copy(t.data[offsetXmin:], txnID.Serialize())
}

func (t *HeapTuple) SetXmax(txnID types.TxnID) {
	copy(t.data[offsetXmax:], txnID.Serialize())
}

// Ctid returns the row id stored in the header, which may point to a newer
// version of the row.
func (t *HeapTuple) Ctid() page.RID {
	if t.data == nil {
		return page.InvalidRID
	}
	return page.RID{
		PageId:  types.NewPageIDFromBytes(t.data[offsetCtidPage:]),
		SlotNum: binary.LittleEndian.Uint32(t.data[offsetCtidSlot:]),
	}
}

func (t *HeapTuple) String() string {
	return fmt.Sprintf("HeapTuple{self:%v natts:%d len:%d}", t.self, t.Natts(), t.Len())
}
