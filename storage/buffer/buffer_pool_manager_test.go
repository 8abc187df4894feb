package buffer

import (
	"crypto/rand"
	"testing"

	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/storage/disk"
	"github.com/kovdb75/postgres/storage/page"
	testingpkg "github.com/kovdb75/postgres/testing/testing_assert"
	"github.com/kovdb75/postgres/types"
)

func TestBinaryData(t *testing.T) {
	poolSize := uint32(10)

	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(poolSize, dm)

	page0 := bpm.NewPage()

	// Scenario: The buffer pool is empty. We should be able to create a new page.
	testingpkg.Equals(t, types.PageID(0), page0.GetPageId())

	// Generate random binary data
	randomBinaryData := make([]byte, common.PageSize)
	rand.Read(randomBinaryData)

	// Insert terminal characters both in the middle and at end
	randomBinaryData[common.PageSize/2] = '0'
	randomBinaryData[common.PageSize-1] = '0'

	var fixedRandomBinaryData [common.PageSize]byte
	copy(fixedRandomBinaryData[:], randomBinaryData[:common.PageSize])

	// Scenario: Once we have a page, we should be able to read and write content.
	page0.Copy(0, randomBinaryData)
	testingpkg.Equals(t, fixedRandomBinaryData, *page0.Data())

	// Scenario: We should be able to create new pages until we fill up the buffer pool.
	for i := uint32(1); i < poolSize; i++ {
		p := bpm.NewPage()
		testingpkg.Equals(t, types.PageID(i), p.GetPageId())
	}

	// Scenario: Once the buffer pool is full, we should not be able to create any new pages.
	for i := poolSize; i < poolSize*2; i++ {
		testingpkg.Equals(t, (*page.Page)(nil), bpm.NewPage())
	}

	// Scenario: After unpinning pages {0, 1, 2, 3, 4} and pinning another 4 new pages,
	// there would still be one cache frame left for reading page 0.
	for i := 0; i < 5; i++ {
		testingpkg.Ok(t, bpm.UnpinPage(types.PageID(i), true))
		bpm.FlushPage(types.PageID(i))
	}
	for i := 0; i < 4; i++ {
		p := bpm.NewPage()
		testingpkg.Ok(t, bpm.UnpinPage(p.GetPageId(), false))
	}

	// Scenario: We should be able to fetch the data we wrote a while ago.
	page0 = bpm.FetchPage(types.PageID(0))
	testingpkg.Equals(t, fixedRandomBinaryData, *page0.Data())
	testingpkg.Ok(t, bpm.UnpinPage(types.PageID(0), true))
}

func TestSample(t *testing.T) {
	poolSize := uint32(10)

	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(poolSize, dm)

	page0 := bpm.NewPage()

	// Scenario: The buffer pool is empty. We should be able to create a new page.
	testingpkg.Equals(t, types.PageID(0), page0.GetPageId())

	// Scenario: Once we have a page, we should be able to read and write content.
	page0.Copy(0, []byte("Hello"))
	testingpkg.Equals(t, [common.PageSize]byte{'H', 'e', 'l', 'l', 'o'}, *page0.Data())

	// Scenario: We should be able to create new pages until we fill up the buffer pool.
	for i := uint32(1); i < poolSize; i++ {
		p := bpm.NewPage()
		testingpkg.Equals(t, types.PageID(i), p.GetPageId())
	}

	// Scenario: Once the buffer pool is full, we should not be able to create any new pages.
	for i := poolSize; i < poolSize*2; i++ {
		testingpkg.Equals(t, (*page.Page)(nil), bpm.NewPage())
	}

	// Scenario: After unpinning pages {0, 1, 2, 3, 4} and pinning another 4 new pages,
	// there would still be one cache frame left for reading page 0.
	for i := 0; i < 5; i++ {
		testingpkg.Ok(t, bpm.UnpinPage(types.PageID(i), true))
		bpm.FlushPage(types.PageID(i))
	}
	for i := 0; i < 4; i++ {
		bpm.NewPage()
	}
	// Scenario: We should be able to fetch the data we wrote a while ago.
	page0 = bpm.FetchPage(types.PageID(0))
	testingpkg.Equals(t, [common.PageSize]byte{'H', 'e', 'l', 'l', 'o'}, *page0.Data())

	// Scenario: If we unpin page 0 and then make a new page, all the buffer pages should
	// now be pinned. Fetching page 0 should fail.
	testingpkg.Ok(t, bpm.UnpinPage(types.PageID(0), true))

	testingpkg.Equals(t, types.PageID(14), bpm.NewPage().GetPageId())
	testingpkg.Equals(t, (*page.Page)(nil), bpm.NewPage())
	testingpkg.Equals(t, (*page.Page)(nil), bpm.FetchPage(types.PageID(0)))
}

func TestPinCounting(t *testing.T) {
	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(2, dm)

	pg := bpm.NewPage()
	pageID := pg.GetPageId()

	// Scenario: every holder adds one pin, and the page stays resident until the last one leaves.
	bpm.IncPinOfPage(pg)
	same := bpm.FetchPage(pageID)
	testingpkg.Assert(t, same == pg, "fetch of a resident page returns the same frame")
	testingpkg.Equals(t, int32(3), pg.PinCount())
	testingpkg.Equals(t, [][2]int32{{int32(pageID), 3}}, bpm.PinnedPages())

	for i := 0; i < 3; i++ {
		testingpkg.Ok(t, bpm.UnpinPage(pageID, false))
	}
	testingpkg.Equals(t, int32(0), pg.PinCount())
	testingpkg.Equals(t, 0, len(bpm.PinnedPages()))

	// Scenario: one unpin too many is reported, not absorbed.
	testingpkg.ErrorIs(t, bpm.UnpinPage(pageID, false), ErrPageNotPinned)
	testingpkg.ErrorIs(t, bpm.UnpinPage(types.PageID(99), false), ErrPageNotFound)

	// Scenario: a pinned page can not be deleted.
	pg2 := bpm.NewPage()
	testingpkg.ErrorIs(t, bpm.DeletePage(pg2.GetPageId()), ErrPagePinned)
	testingpkg.Ok(t, bpm.UnpinPage(pg2.GetPageId(), false))
	testingpkg.Ok(t, bpm.DeletePage(pg2.GetPageId()))
	testingpkg.Equals(t, 1, bpm.GetPoolSize())
}

func TestEvictionOverwritesFrame(t *testing.T) {
	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(1, dm)

	pg := bpm.NewPage()
	pg.Copy(0, []byte("first"))
	borrowed := pg.Data()[:5]
	testingpkg.Ok(t, bpm.UnpinPage(pg.GetPageId(), true))

	// Scenario: bytes borrowed from an unpinned page change when its frame is reused.
	other := bpm.NewPage()
	testingpkg.Assert(t, other == pg, "single frame pool reuses the page object")
	other.Copy(0, []byte("later"))
	testingpkg.Equals(t, "later", string(borrowed))
	testingpkg.Ok(t, bpm.UnpinPage(other.GetPageId(), true))

	// Scenario: the evicted page was written back and reads back intact.
	again := bpm.FetchPage(types.PageID(0))
	testingpkg.Equals(t, "first", string(again.Data()[:5]))
	testingpkg.Equals(t, "first", string(borrowed))
	testingpkg.Ok(t, bpm.UnpinPage(types.PageID(0), false))

	bpm.FlushAllPages()
	testingpkg.Equals(t, int64(2*common.PageSize), dm.Size())
}
