// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	"fmt"
	"sort"

	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/storage/disk"
	"github.com/kovdb75/postgres/storage/page"
	"github.com/kovdb75/postgres/types"
	"github.com/ncw/directio"
	"github.com/pkg/errors"
	"github.com/sasha-s/go-deadlock"
)

const (
	ErrPageNotFound  = common.Error("could not find page")
	ErrPageNotPinned = common.Error("page is not pinned")
	ErrPagePinned    = common.Error("Pin count greater than 0")
)

// BufferPoolManager represents the buffer pool manager.
//
// Frames are allocated once and reused: evicting a page overwrites the bytes
// of the frame in place, so a holder of bytes from an unpinned page sees them
// change.
type BufferPoolManager struct {
	diskManager disk.DiskManager
	pages       []*page.Page // index is FrameID
	replacer    *ClockReplacer
	freeList    []FrameID
	pageTable   map[types.PageID]FrameID
	mutex       *deadlock.Mutex
}

// FetchPage fetches the requested page from the buffer pool and pins it.
// It returns nil when every frame is pinned or the page can not be read.
func (b *BufferPoolManager) FetchPage(pageID types.PageID) *page.Page {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	// if it is on buffer pool return it
	if frameID, ok := b.pageTable[pageID]; ok {
		pg := b.pages[frameID]
		pg.IncPinCount()
		b.replacer.Pin(frameID)
		if common.EnableDebug {
			common.ShPrintf(common.DEBUG_INFO, "FetchPage: PageId=%d PinCount=%d\n", pg.GetPageId(), pg.PinCount())
		}
		return pg
	}

	// get the id from free list or from replacer
	frameID, isFromFreeList := b.getFrameID()
	if frameID == nil {
		common.ShPrintf(common.WARN, "FetchPage: no evictable frame for page %d\n", pageID)
		return nil
	}

	if !isFromFreeList {
		if err := b.evict(*frameID); err != nil {
			common.ShPrintf(common.ERROR, "FetchPage: %v\n", err)
			b.replacer.Unpin(*frameID)
			return nil
		}
	}

	pg := b.bindFrame(*frameID, pageID)
	if err := b.diskManager.ReadPage(pageID, pg.Data()[:]); err != nil {
		common.ShPrintf(common.WARN, "FetchPage: read of page %d failed: %v\n", pageID, err)
		delete(b.pageTable, pageID)
		pg.DecPinCount()
		b.freeList = append(b.freeList, *frameID)
		return nil
	}

	if common.EnableDebug && common.ActiveLogKindSetting&common.PIN_COUNT_ASSERT > 0 {
		common.SH_Assert(pg.PinCount() == 1,
			fmt.Sprintf("BPM::FetchPage pin count must be one here. pageId:%d", pg.GetPageId()))
	}
	return pg
}

// UnpinPage unpins the target page from the buffer pool.
func (b *BufferPoolManager) UnpinPage(pageID types.PageID, isDirty bool) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	frameID, ok := b.pageTable[pageID]
	if !ok {
		return errors.Wrapf(ErrPageNotFound, "unpin page %d", pageID)
	}

	pg := b.pages[frameID]
	if pg.PinCount() <= 0 {
		return errors.Wrapf(ErrPageNotPinned, "unpin page %d", pageID)
	}
	pg.DecPinCount()

	if pg.PinCount() == 0 {
		b.replacer.Unpin(frameID)
	}

	if isDirty {
		pg.SetIsDirty(true)
	}

	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO, "UnpinPage: PageId=%d PinCount=%d\n", pg.GetPageId(), pg.PinCount())
	}
	return nil
}

// IncPinOfPage adds a pin to a page the caller already holds a pin on.
func (b *BufferPoolManager) IncPinOfPage(page_ page.PageIF) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	common.SH_Assertf(page_.PinCount() > 0, "IncPinOfPage: page %d is not pinned", page_.GetPageId())
	page_.IncPinCount()
}

// FlushPage Flushes the target page to disk.
func (b *BufferPoolManager) FlushPage(pageID types.PageID) bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	frameID, ok := b.pageTable[pageID]
	if !ok {
		return false
	}
	pg := b.pages[frameID]
	if err := b.diskManager.WritePage(pageID, pg.Data()[:]); err != nil {
		common.ShPrintf(common.ERROR, "FlushPage: %v\n", err)
		return false
	}
	pg.SetIsDirty(false)
	return true
}

// NewPage allocates a new page in the buffer pool with the disk manager help.
// The page comes back pinned and zeroed.
func (b *BufferPoolManager) NewPage() *page.Page {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	frameID, isFromFreeList := b.getFrameID()
	if frameID == nil {
		return nil // the buffer is full, it can't find a frame
	}

	if !isFromFreeList {
		if err := b.evict(*frameID); err != nil {
			common.ShPrintf(common.ERROR, "NewPage: %v\n", err)
			b.replacer.Unpin(*frameID)
			return nil
		}
	}

	pageID := b.diskManager.AllocatePage()
	pg := b.bindFrame(*frameID, pageID)
	*pg.Data() = [common.PageSize]byte{}
	// the page must exist on disk before it can be evicted and read back
	pg.SetIsDirty(true)

	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO, "NewPage: returned pageID: %d\n", pageID)
	}
	return pg
}

// DeletePage deletes a page from the buffer pool and frees its disk space.
func (b *BufferPoolManager) DeletePage(pageID types.PageID) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	frameID, ok := b.pageTable[pageID]
	if ok {
		pg := b.pages[frameID]
		if pg.PinCount() > 0 {
			return errors.Wrapf(ErrPagePinned, "delete page %d", pageID)
		}
		delete(b.pageTable, pageID)
		b.replacer.Pin(frameID)
		b.freeList = append(b.freeList, frameID)
	}
	b.diskManager.DeallocatePage(pageID)
	return nil
}

// FlushAllPages flushes all the pages in the buffer pool to disk.
func (b *BufferPoolManager) FlushAllPages() {
	pageIDs := make([]types.PageID, 0)
	b.mutex.Lock()
	for pageID := range b.pageTable {
		pageIDs = append(pageIDs, pageID)
	}
	b.mutex.Unlock()

	for _, pageID := range pageIDs {
		b.FlushPage(pageID)
	}
}

// evict writes back the page held by frameID and forgets it. Called with the mutex held.
func (b *BufferPoolManager) evict(frameID FrameID) error {
	currentPage := b.pages[frameID]
	if currentPage == nil {
		return nil
	}
	if currentPage.PinCount() != 0 {
		panic(fmt.Sprintf("BPM: pin count of page to be cache out must be zero!!!. pageId:%d PinCount:%d", currentPage.GetPageId(), currentPage.PinCount()))
	}
	if common.EnableDebug {
		common.ShPrintf(common.BUFFER_INTERNAL_STATE, "BPM: cache out page %d from frame %d\n", currentPage.GetPageId(), frameID)
	}
	if currentPage.IsDirty() {
		if err := b.diskManager.WritePage(currentPage.GetPageId(), currentPage.Data()[:]); err != nil {
			return errors.Wrapf(err, "write back page %d", currentPage.GetPageId())
		}
	}
	delete(b.pageTable, currentPage.GetPageId())
	return nil
}

// bindFrame makes frameID hold pageID with one pin. Called with the mutex held.
func (b *BufferPoolManager) bindFrame(frameID FrameID, pageID types.PageID) *page.Page {
	pg := b.pages[frameID]
	if pg == nil {
		data := directio.AlignedBlock(common.PageSize)
		pg = page.New(pageID, false, (*[common.PageSize]byte)(data))
		b.pages[frameID] = pg
	} else {
		pg.Rebind(pageID)
	}
	b.pageTable[pageID] = frameID
	return pg
}

func (b *BufferPoolManager) getFrameID() (*FrameID, bool) {
	if len(b.freeList) > 0 {
		frameID, newFreeList := b.freeList[0], b.freeList[1:]
		b.freeList = newFreeList

		return &frameID, true
	}

	return b.replacer.Victim(), false
}

// GetPoolSize returns the number of pages currently resident.
func (b *BufferPoolManager) GetPoolSize() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.pageTable)
}

// PinnedPages lists (pageID, pin count) of every pinned resident page, ordered by page id.
func (b *BufferPoolManager) PinnedPages() [][2]int32 {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	var pages []*page.Page
	for _, frameID := range b.pageTable {
		if pg := b.pages[frameID]; pg.PinCount() > 0 {
			pages = append(pages, pg)
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].GetPageId() < pages[j].GetPageId() })

	ret := make([][2]int32, 0, len(pages))
	for _, pg := range pages {
		ret = append(ret, [2]int32{int32(pg.GetPageId()), pg.PinCount()})
	}
	return ret
}

func (b *BufferPoolManager) PrintBufferUsageState(callerAdditionalInfo string) {
	printStr := fmt.Sprintf("BPM::PrintBufferUsageState %s ", callerAdditionalInfo)
	for _, p := range b.PinnedPages() {
		printStr += fmt.Sprintf("(%d,%d)-", p[0], p[1])
	}
	common.ShPrintf(common.BUFFER_INTERNAL_STATE, "%s\n", printStr)
}

// NewBufferPoolManager returns a empty buffer pool manager
func NewBufferPoolManager(poolSize uint32, DiskManager disk.DiskManager) *BufferPoolManager {
	freeList := make([]FrameID, poolSize)
	pages := make([]*page.Page, poolSize)
	for i := uint32(0); i < poolSize; i++ {
		freeList[i] = FrameID(i)
		pages[i] = nil
	}

	replacer := NewClockReplacer(poolSize)
	return &BufferPoolManager{DiskManager, pages, replacer, freeList, make(map[types.PageID]FrameID), new(deadlock.Mutex)}
}
