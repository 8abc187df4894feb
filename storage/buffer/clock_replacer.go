// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import "github.com/kovdb75/postgres/common"

// FrameID is the type for frame id
type FrameID uint32

/**
 * ClockReplacer sweeps a hand over the frames of the pool and picks the first
 * unpinned frame whose reference bit is clear. Passing a frame with the bit
 * set clears it, so a recently unpinned frame survives one more turn.
 * It is not safe for concurrent use; BufferPoolManager calls it under its own mutex.
 */
type ClockReplacer struct {
	candidate []bool // unpinned, may be victimized
	refBit    []bool
	hand      FrameID
	size      uint32
}

// Victim removes the victim frame as defined by the replacement policy.
// It returns nil when every frame is pinned.
func (c *ClockReplacer) Victim() *FrameID {
	if c.size == 0 {
		return nil
	}

	for {
		frameID := c.hand
		c.hand = (c.hand + 1) % FrameID(len(c.candidate))
		if !c.candidate[frameID] {
			continue
		}
		if c.refBit[frameID] {
			c.refBit[frameID] = false
			continue
		}
		c.remove(frameID)
		return &frameID
	}
}

// Unpin unpins a frame, indicating that it can now be victimized
func (c *ClockReplacer) Unpin(id FrameID) {
	common.SH_Assertf(int(id) < len(c.candidate), "ClockReplacer::Unpin frame %d out of %d", id, len(c.candidate))
	if c.candidate[id] {
		return
	}
	c.candidate[id] = true
	c.refBit[id] = true
	c.size++
}

// Pin pins a frame, indicating that it should not be victimized until it is unpinned
func (c *ClockReplacer) Pin(id FrameID) {
	if int(id) >= len(c.candidate) || !c.candidate[id] {
		return
	}
	c.remove(id)
}

func (c *ClockReplacer) remove(id FrameID) {
	c.candidate[id] = false
	c.refBit[id] = false
	c.size--
}

// Size returns the number of frames which can be victimized
func (c *ClockReplacer) Size() uint32 {
	return c.size
}

// NewClockReplacer instantiates a new clock replacer
func NewClockReplacer(poolSize uint32) *ClockReplacer {
	return &ClockReplacer{
		candidate: make([]bool, poolSize),
		refBit:    make([]bool, poolSize),
	}
}
