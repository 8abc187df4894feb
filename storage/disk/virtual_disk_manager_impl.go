package disk

import (
	"sync"

	"github.com/dsnet/golib/memfile"
	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/types"
	"github.com/pkg/errors"
)

const ErrReadPastEOF = common.Error("I/O error past end of file")

// VirtualDiskManagerImpl keeps the database file in memory.
type VirtualDiskManagerImpl struct {
	db              *memfile.File
	fileName        string
	nextPageID      types.PageID
	numWrites       uint64
	size            int64
	dbFileMutex     *sync.Mutex
	reusableSpceIDs []types.PageID
	spaceIDConvMap  map[types.PageID]types.PageID
	deallocedIDMap  map[types.PageID]bool
}

func NewVirtualDiskManagerImpl(dbFilename string) DiskManager {
	return &VirtualDiskManagerImpl{
		db:              memfile.New(make([]byte, 0)),
		fileName:        dbFilename,
		nextPageID:      types.PageID(0),
		dbFileMutex:     new(sync.Mutex),
		reusableSpceIDs: make([]types.PageID, 0),
		spaceIDConvMap:  make(map[types.PageID]types.PageID),
		deallocedIDMap:  make(map[types.PageID]bool),
	}
}

// ShutDown closes of the database file
func (d *VirtualDiskManagerImpl) ShutDown() {
	// do nothing
}

// spaceID(pageID) conversion for reuse of file space which is allocated to deallocated page
func (d *VirtualDiskManagerImpl) convToSpaceID(pageID types.PageID) (spaceID types.PageID) {
	if convedID, exist := d.spaceIDConvMap[pageID]; exist {
		return convedID
	}
	return pageID
}

// Write a page to the database file
func (d *VirtualDiskManagerImpl) WritePage(pageId types.PageID, pageData []byte) error {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()

	offset := int64(d.convToSpaceID(pageId)) * int64(common.PageSize)
	if _, err := d.db.WriteAt(pageData, offset); err != nil {
		return errors.Wrapf(err, "write page %d", pageId)
	}
	d.numWrites++

	if offset+int64(len(pageData)) > d.size {
		d.size = offset + int64(len(pageData))
	}

	return nil
}

// Read a page from the database file
func (d *VirtualDiskManagerImpl) ReadPage(pageID types.PageID, pageData []byte) error {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()

	if _, exist := d.deallocedIDMap[pageID]; exist {
		return types.DeallocatedPageErr
	}

	offset := int64(d.convToSpaceID(pageID)) * int64(common.PageSize)
	if offset > d.size || offset+int64(len(pageData)) > d.size {
		return ErrReadPastEOF
	}

	if _, err := d.db.ReadAt(pageData, offset); err != nil {
		return errors.Wrapf(err, "read page %d", pageID)
	}
	return nil
}

// AllocatePage allocates a new page
func (d *VirtualDiskManagerImpl) AllocatePage() types.PageID {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()

	ret := d.nextPageID
	if len(d.reusableSpceIDs) > 0 {
		d.spaceIDConvMap[ret] = d.reusableSpceIDs[0]
		d.reusableSpceIDs = d.reusableSpceIDs[1:]
	}
	d.nextPageID++

	return ret
}

// DeallocatePage marks the page dead and queues its file space for reuse.
func (d *VirtualDiskManagerImpl) DeallocatePage(pageID types.PageID) {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()
	d.deallocedIDMap[pageID] = true
	if convedID, exist := d.spaceIDConvMap[pageID]; exist {
		d.reusableSpceIDs = append(d.reusableSpceIDs, convedID)
		delete(d.spaceIDConvMap, pageID)
	} else {
		d.reusableSpceIDs = append(d.reusableSpceIDs, pageID)
	}
}

// GetNumWrites returns the number of disk writes
func (d *VirtualDiskManagerImpl) GetNumWrites() uint64 {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()
	return d.numWrites
}

// Size returns the size of the file in disk
func (d *VirtualDiskManagerImpl) Size() int64 {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()
	return d.size
}
