package scan

import (
	"fmt"
	"iter"
)

// Vertical slot band scanned for every column. Slot y is a sub-chunk index, world Y is 16*y plus
// the local y inside the sub-chunk.
const (
	MinSlotY  = -4
	MaxSlotY  = 19
	SlotCount = MaxSlotY - MinSlotY + 1
)

// SubChunkSize is the edge length of a sub-chunk volume.
const SubChunkSize = 16

// Bounds limits a scan to the columns in [-LimitX, LimitX) x [-LimitZ, LimitZ).
type Bounds struct {
	LimitX int32
	LimitZ int32
}

type ColumnPos struct {
	X int32
	Z int32
}

func (p ColumnPos) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Z)
}

// SlotPos addresses a single sub-chunk.
type SlotPos struct {
	X int32
	Y int32
	Z int32
}

func (p SlotPos) String() string {
	return fmt.Sprintf("%d,%d,%d", p.X, p.Y, p.Z)
}

// Column returns the column the slot belongs to.
func (p SlotPos) Column() ColumnPos {
	return ColumnPos{X: p.X, Z: p.Z}
}

// Columns yields every column inside b, x outer and z inner, without materialising the range. Zero
// or negative limits yield nothing.
func Columns(b Bounds) iter.Seq[ColumnPos] {
	return func(yield func(ColumnPos) bool) {
		if b.LimitX <= 0 || b.LimitZ <= 0 {
			return
		}
		for x := -b.LimitX; x < b.LimitX; x++ {
			for z := -b.LimitZ; z < b.LimitZ; z++ {
				if !yield(ColumnPos{X: x, Z: z}) {
					return
				}
			}
		}
	}
}

// worldCoord maps a local sub-chunk coordinate to a world coordinate on one axis.
func worldCoord(local uint8, slot int32) int32 {
	return int32(local) + SubChunkSize*slot
}
