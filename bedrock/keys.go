package bedrock

import (
	"encoding/binary"

	"github.com/df-mc/dragonfly/server/world"
)

// keySubChunkData follows the chunk index and precedes the sub-chunk y byte.
const keySubChunkData = '/'

// index returns the LevelDB key prefix of a chunk column. The dimension id is only written for
// dimensions other than the overworld.
func index(pos world.ChunkPos, dim world.Dimension) []byte {
	id, _ := world.DimensionID(dim)
	b := make([]byte, 12)

	binary.LittleEndian.PutUint32(b, uint32(pos[0]))
	binary.LittleEndian.PutUint32(b[4:], uint32(pos[1]))
	if id == 0 {
		return b[:8]
	}
	binary.LittleEndian.PutUint32(b[8:], uint32(id))
	return b
}

// subChunkKey returns the key the terrain of the sub-chunk at slot y is stored under.
func subChunkKey(pos world.ChunkPos, dim world.Dimension, y int32) []byte {
	return append(index(pos, dim), keySubChunkData, byte(int8(y)))
}
