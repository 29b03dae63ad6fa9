package scan

import (
	"errors"

	"github.com/willf/bitset"
)

// Air is the block identifier of empty space. Blocks with this name are never extracted.
const Air = "minecraft:air"

var ErrUnknownBlock = errors.New("scan: unknown block")

// Volume is a decoded 16x16x16 sub-chunk.
type Volume interface {
	// Position returns the slot the volume was stored at. It is used for world coordinates instead
	// of the scan loop indices.
	Position() SlotPos
	// Block returns the block identifier at a local coordinate in [0,16).
	Block(x, y, z uint8) (string, error)
}

// World is the read side of a world database.
type World interface {
	// Exists reports whether a sub-chunk was ever written at pos without decoding it.
	Exists(pos SlotPos) bool
	// SubChunk decodes the sub-chunk at pos. It never fails: a missing or undecodable sub-chunk is
	// returned as an EmptyVolume.
	SubChunk(pos SlotPos) Volume
}

// Column is the extraction result for one column, ready to be exported.
type Column struct {
	Pos ColumnPos
	// Slots has bit i set when slot MinSlotY+i was present in the world.
	Slots   *bitset.BitSet
	Records []BlockRecord
}

// Exporter persists a column. It returns the path of the file written, or an empty path when no
// file survived.
type Exporter interface {
	Export(col Column) (string, error)
}

type BlockRecord struct {
	X    int32
	Y    int32
	Z    int32
	Name string
}

type emptyVolume struct {
	pos SlotPos
}

// EmptyVolume returns a volume at pos in which every block is Air.
func EmptyVolume(pos SlotPos) Volume {
	return emptyVolume{pos: pos}
}

func (v emptyVolume) Position() SlotPos {
	return v.pos
}

func (v emptyVolume) Block(_, _, _ uint8) (string, error) {
	return Air, nil
}

// NewSlotMask returns an empty mask sized for the scanned slot band.
func NewSlotMask() *bitset.BitSet {
	return bitset.New(SlotCount)
}

// SlotBit returns the mask bit for slot y.
func SlotBit(y int32) uint {
	return uint(y - MinSlotY)
}
