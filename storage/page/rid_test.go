package page

import (
	"testing"

	testingpkg "github.com/kovdb75/postgres/testing/testing_assert"
	"github.com/kovdb75/postgres/types"
)

func TestRID(t *testing.T) {
	rid := RID{}
	rid.Set(types.PageID(3), uint32(7))
	testingpkg.Equals(t, types.PageID(3), rid.GetPageId())
	testingpkg.Equals(t, uint32(7), rid.GetSlotNum())
	testingpkg.Assert(t, rid.IsValid(), "rid should be valid")
	testingpkg.Assert(t, !InvalidRID.IsValid(), "InvalidRID should be invalid")

	// Scenario: packing survives the round trip, also for the invalid page id.
	testingpkg.Equals(t, rid, UnpackRID(rid.Pack()))
	testingpkg.Equals(t, InvalidRID, UnpackRID(InvalidRID.Pack()))
}
