// Package memory provides scoped allocation for tuple data.
//
// A Context hands out byte chunks and remembers which of them are still live.
// Chunks are returned one by one with Free, or all at once when the context is
// reset or deleted. Using a chunk after it has been returned is a bug; the
// context cannot detect it. Contexts form a tree: resetting or deleting a
// context does the same to its children.
package memory

import (
	"fmt"
	"unsafe"

	"github.com/kovdb75/postgres/common"
)

type Context struct {
	name     string
	parent   *Context
	children []*Context
	chunks   map[*byte]int
	bytes    int
	allocs   uint64
	frees    uint64
	deleted  bool
}

func NewContext(name string, parent *Context) *Context {
	ctx := &Context{name: name, parent: parent, chunks: make(map[*byte]int)}
	if parent != nil {
		common.SH_Assert(!parent.deleted, "memory: parent context is deleted")
		parent.children = append(parent.children, ctx)
	}
	return ctx
}

func (c *Context) Name() string { return c.name }

func (c *Context) Parent() *Context { return c.parent }

// Alloc returns a zeroed chunk of size bytes owned by c. Zero-sized requests
// still produce a distinct chunk so they can be freed like any other.
func (c *Context) Alloc(size int) []byte {
	common.SH_Assert(!c.deleted, "memory: alloc in deleted context "+c.name)
	common.SH_Assertf(size >= 0, "memory: invalid alloc size %d", size)
	capacity := size
	if capacity == 0 {
		capacity = 1
	}
	buf := make([]byte, size, capacity)
	c.chunks[unsafe.SliceData(buf[:capacity])] = size
	c.bytes += size
	c.allocs++
	return buf
}

// Owns reports whether buf is a live chunk of c.
func (c *Context) Owns(buf []byte) bool {
	if cap(buf) == 0 {
		return false
	}
	_, ok := c.chunks[unsafe.SliceData(buf[:cap(buf)])]
	return ok
}

// Free returns a chunk obtained from Alloc. buf must start where the chunk starts.
func (c *Context) Free(buf []byte) {
	common.SH_Assert(cap(buf) > 0, "memory: free of empty slice")
	key := unsafe.SliceData(buf[:cap(buf)])
	size, ok := c.chunks[key]
	if !ok {
		panic(fmt.Sprintf("memory: chunk %p is not live in context %s", key, c.name))
	}
	delete(c.chunks, key)
	c.bytes -= size
	c.frees++
}

// Reset returns every chunk of c and of its descendants. Children are deleted.
func (c *Context) Reset() {
	for _, child := range c.children {
		child.deleteTree()
	}
	c.children = nil
	c.chunks = make(map[*byte]int)
	c.bytes = 0
}

// Delete resets c and detaches it from its parent.
func (c *Context) Delete() {
	if c.deleted {
		return
	}
	if c.parent != nil {
		siblings := c.parent.children
		for i, s := range siblings {
			if s == c {
				c.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	c.deleteTree()
}

func (c *Context) deleteTree() {
	for _, child := range c.children {
		child.deleteTree()
	}
	c.children = nil
	c.chunks = nil
	c.bytes = 0
	c.deleted = true
}

func (c *Context) IsDeleted() bool { return c.deleted }

// LiveChunks counts chunks of c (not of its children) not yet returned.
func (c *Context) LiveChunks() int { return len(c.chunks) }

// LiveBytes sums the sizes of the live chunks of c.
func (c *Context) LiveBytes() int { return c.bytes }

// Stats returns the number of Alloc and Free calls served by c.
func (c *Context) Stats() (allocs uint64, frees uint64) { return c.allocs, c.frees }
