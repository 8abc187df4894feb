// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import (
	"sync/atomic"

	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/types"
)

/**
 * Page is the basic unit of storage within the database system. Page provides a wrapper for actual data pages being
 * held in main memory. Page also contains book-keeping information that is used by the buffer pool manager, e.g.
 * pin count, dirty flag, page id, etc.
 *
 * A Page object stays bound to its buffer frame: when the frame is reused for
 * another page the same data array is overwritten, so bytes borrowed from an
 * unpinned page may change under the borrower.
 */

type PageIF interface {
	GetPageId() types.PageID
	DecPinCount()
	IncPinCount()
	PinCount() int32
}

// Page represents an abstract page on disk
type Page struct {
	id       types.PageID           // idenfies the page. It is used to find the offset of the page on disk
	pinCount int32                  // counts how many holders reference the frame
	isDirty  bool                   // the page was modified but not flushed
	data     *[common.PageSize]byte // bytes stored in disk
	rwlatch_ common.ReaderWriterLatch
}

// IncPinCount increments pin count
func (p *Page) IncPinCount() {
	atomic.AddInt32(&p.pinCount, 1)
}

// DecPinCount decrements pin count
func (p *Page) DecPinCount() {
	atomic.AddInt32(&p.pinCount, -1)
}

// PinCount retunds the pin count
func (p *Page) PinCount() int32 {
	return atomic.LoadInt32(&p.pinCount)
}

// GetPageId retunds the page id
func (p *Page) GetPageId() types.PageID {
	return p.id
}

// Data returns the data of the page
func (p *Page) Data() *[common.PageSize]byte {
	return p.data
}

// SetIsDirty sets the isDirty bit
func (p *Page) SetIsDirty(isDirty bool) {
	p.isDirty = isDirty
}

// IsDirty check if the page is dirty
func (p *Page) IsDirty() bool {
	return p.isDirty
}

// Copy copies data to the page's data
func (p *Page) Copy(offset uint32, data []byte) {
	copy(p.data[offset:], data)
}

// Rebind makes the frame hold page id with a single pin. The caller fills the data.
func (p *Page) Rebind(id types.PageID) {
	p.id = id
	atomic.StoreInt32(&p.pinCount, 1)
	p.isDirty = false
}

// New creates a new page
func New(id types.PageID, isDirty bool, data *[common.PageSize]byte) *Page {
	return &Page{id, int32(1), isDirty, data, common.NewLatch()}
}

// NewEmpty creates a new empty page
func NewEmpty(id types.PageID) *Page {
	return &Page{id, int32(1), false, &[common.PageSize]byte{}, common.NewLatch()}
}

/** Acquire the page write latch. */
func (p *Page) WLatch() {
	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO_DETAIL, "WLatch: pageId=%d\n", p.GetPageId())
	}
	p.rwlatch_.WLock()
}

/** Release the page write latch. */
func (p *Page) WUnlatch() {
	p.rwlatch_.WUnlock()
}

/** Acquire the page read latch. */
func (p *Page) RLatch() {
	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO_DETAIL, "RLatch: pageId=%d\n", p.GetPageId())
	}
	p.rwlatch_.RLock()
}

/** Release the page read latch. */
func (p *Page) RUnlatch() {
	p.rwlatch_.RUnlock()
}
