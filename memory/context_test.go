package memory

import (
	"testing"

	testingpkg "github.com/kovdb75/postgres/testing/testing_assert"
)

func TestAllocFree(t *testing.T) {
	ctx := NewContext("test", nil)
	a := ctx.Alloc(16)
	b := ctx.Alloc(0)
	testingpkg.Equals(t, 16, len(a))
	testingpkg.Equals(t, 0, len(b))
	testingpkg.Equals(t, 2, ctx.LiveChunks())
	testingpkg.Equals(t, 16, ctx.LiveBytes())
	testingpkg.SimpleAssert(t, ctx.Owns(a))
	testingpkg.SimpleAssert(t, ctx.Owns(b))

	// Scenario: a slice of a chunk from its start is the chunk.
	ctx.Free(a[:4])
	testingpkg.SimpleAssert(t, !ctx.Owns(a))
	testingpkg.Equals(t, 0, ctx.LiveBytes())
	ctx.Free(b)
	testingpkg.Equals(t, 0, ctx.LiveChunks())

	allocs, frees := ctx.Stats()
	testingpkg.Equals(t, uint64(2), allocs)
	testingpkg.Equals(t, uint64(2), frees)

	// Scenario: double free is a bug and panics.
	testingpkg.Panics(t, func() { ctx.Free(a) })
	testingpkg.SimpleAssert(t, !ctx.Owns(make([]byte, 4)))
}

func TestContextTree(t *testing.T) {
	root := NewContext("root", nil)
	child := NewContext("child", root)
	grandChild := NewContext("grandchild", child)
	testingpkg.Equals(t, root, child.Parent())
	testingpkg.Equals(t, "grandchild", grandChild.Name())

	root.Alloc(8)
	child.Alloc(8)
	grandChild.Alloc(8)

	// Scenario: reset keeps the context and deletes its children.
	root.Reset()
	testingpkg.Equals(t, 0, root.LiveChunks())
	testingpkg.SimpleAssert(t, !root.IsDeleted())
	testingpkg.SimpleAssert(t, child.IsDeleted())
	testingpkg.SimpleAssert(t, grandChild.IsDeleted())
	testingpkg.Panics(t, func() { child.Alloc(1) })
	testingpkg.Panics(t, func() { NewContext("late", child) })

	other := NewContext("other", root)
	other.Alloc(4)
	other.Delete()
	other.Delete()
	testingpkg.SimpleAssert(t, other.IsDeleted())
	testingpkg.SimpleAssert(t, !root.IsDeleted())
	root.Alloc(1)
	testingpkg.Equals(t, 1, root.LiveChunks())
	root.Delete()
	testingpkg.SimpleAssert(t, root.IsDeleted())
}
