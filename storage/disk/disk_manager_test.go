package disk

import (
	"testing"

	"github.com/kovdb75/postgres/common"
	testingpkg "github.com/kovdb75/postgres/testing/testing_assert"
	"github.com/kovdb75/postgres/types"
)

func TestReadWritePage(t *testing.T) {
	dm := NewDiskManagerTest()
	defer dm.ShutDown()

	data := make([]byte, common.PageSize)
	buffer := make([]byte, common.PageSize)

	copy(data, "A test string.")

	// Scenario: nothing was written yet, so the read runs past the end.
	testingpkg.Equals(t, ErrReadPastEOF, dm.ReadPage(0, buffer))

	testingpkg.Ok(t, dm.WritePage(0, data))
	testingpkg.Ok(t, dm.ReadPage(0, buffer))
	testingpkg.Equals(t, data, buffer)

	copy(data, "Another test string.")

	testingpkg.Ok(t, dm.WritePage(5, data))
	testingpkg.Ok(t, dm.ReadPage(5, buffer))
	testingpkg.Equals(t, data, buffer)
	testingpkg.Equals(t, int64(6*common.PageSize), dm.Size())
	testingpkg.Equals(t, uint64(2), dm.GetNumWrites())
}

func TestDeallocatedPageSpaceIsReused(t *testing.T) {
	dm := NewDiskManagerTest()
	defer dm.ShutDown()

	p0 := dm.AllocatePage()
	p1 := dm.AllocatePage()
	testingpkg.Equals(t, types.PageID(0), p0)
	testingpkg.Equals(t, types.PageID(1), p1)

	data := make([]byte, common.PageSize)
	copy(data, "page zero")
	testingpkg.Ok(t, dm.WritePage(p0, data))

	dm.DeallocatePage(p0)
	buffer := make([]byte, common.PageSize)
	testingpkg.Equals(t, error(types.DeallocatedPageErr), dm.ReadPage(p0, buffer))

	// Scenario: the next page id is fresh but lands on the space of page 0.
	p2 := dm.AllocatePage()
	testingpkg.Equals(t, types.PageID(2), p2)
	copy(data, "page two")
	testingpkg.Ok(t, dm.WritePage(p2, data))
	testingpkg.Ok(t, dm.ReadPage(p2, buffer))
	testingpkg.Equals(t, data, buffer)
	testingpkg.Equals(t, int64(common.PageSize), dm.Size())
}
