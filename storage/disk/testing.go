package disk

// NewDiskManagerTest returns an in-memory DiskManager for tests.
func NewDiskManagerTest() DiskManager {
	return NewVirtualDiskManagerImpl("test.db")
}
