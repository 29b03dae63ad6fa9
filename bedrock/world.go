// Package bedrock reads sub-chunks from a Minecraft Bedrock Edition LevelDB world.
package bedrock

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	_ "unsafe"

	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/dragonfly/server/world/chunk"
	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/opt"
	"github.com/sirupsen/logrus"

	"github.com/murkmap/chunker/scan"
)

// noinspection ALL
//
//go:linkname world_finaliseBlockRegistry github.com/df-mc/dragonfly/server/world.finaliseBlockRegistry
func world_finaliseBlockRegistry()

// noinspection ALL
//
//go:linkname chunk_decodeSubChunk github.com/df-mc/dragonfly/server/world/chunk.decodeSubChunk
func chunk_decodeSubChunk(buf *bytes.Buffer, c *chunk.Chunk, index *byte, e chunk.Encoding) (*chunk.SubChunk, error)

func init() {
	// Runtime IDs are only assigned once the registry is finalised, which normally happens when a
	// server starts.
	world_finaliseBlockRegistry()
}

// World reads the overworld of a Bedrock world straight from its LevelDB database. The database is
// opened read-only. World is not safe for concurrent use.
type World struct {
	ldb *leveldb.DB
	dim world.Dimension
	log logrus.FieldLogger

	// template carries the air runtime ID and the vertical range sub-chunks are decoded against.
	template *chunk.Chunk
}

// Open opens the world folder dir, which holds level.dat and the db/ LevelDB directory. A missing,
// corrupt or locked database is an error; nothing is created on disk.
func Open(dir string, log logrus.FieldLogger) (*World, error) {
	air, ok := chunk.StateToRuntimeID(scan.Air, nil)
	if !ok {
		return nil, errors.New("open world: air has no runtime ID")
	}
	ldb, err := leveldb.OpenFile(filepath.Join(dir, "db"), &opt.Options{
		ReadOnly:       true,
		ErrorIfMissing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open world %s: %w", dir, err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &World{
		ldb:      ldb,
		dim:      world.Overworld,
		log:      log,
		template: chunk.New(air, world.Overworld.Range()),
	}, nil
}

// probeOptions keeps existence probes out of the LevelDB block cache.
var probeOptions = &opt.ReadOptions{DontFillCache: true}

// Exists checks for the raw sub-chunk key without decoding anything. Lookup errors are logged and
// reported as absent.
func (w *World) Exists(pos scan.SlotPos) bool {
	ok, err := w.ldb.Has(subChunkKey(chunkPos(pos), w.dim, pos.Y), probeOptions)
	if err != nil {
		w.log.WithError(err).Warnf("probe sub-chunk %s", pos)
		return false
	}
	return ok
}

// SubChunk reads and decodes the sub-chunk at pos. A key that cannot be read or bytes that cannot be
// decoded yield an all-air volume.
func (w *World) SubChunk(pos scan.SlotPos) scan.Volume {
	data, err := w.ldb.Get(subChunkKey(chunkPos(pos), w.dim, pos.Y), nil)
	if err != nil {
		if !errors.Is(err, leveldb.ErrNotFound) {
			w.log.WithError(err).Warnf("read sub-chunk %s", pos)
		}
		return scan.EmptyVolume(pos)
	}

	var index byte
	sub, err := chunk_decodeSubChunk(bytes.NewBuffer(data), w.template, &index, chunk.DiskEncoding)
	if err != nil {
		w.log.WithError(err).Warnf("sub-chunk %s replaced by air", pos)
		return scan.EmptyVolume(pos)
	}
	return volume{pos: pos, sub: sub}
}

// Close releases the underlying LevelDB handle.
func (w *World) Close() error {
	return w.ldb.Close()
}

func chunkPos(pos scan.SlotPos) world.ChunkPos {
	return world.ChunkPos{pos.X, pos.Z}
}

// volume exposes one decoded sub-chunk by block name.
type volume struct {
	pos scan.SlotPos
	sub *chunk.SubChunk
}

func (v volume) Position() scan.SlotPos {
	return v.pos
}

func (v volume) Block(x, y, z uint8) (string, error) {
	rid := v.sub.Block(x, y, z, 0)
	name, _, ok := chunk.RuntimeIDToState(rid)
	if !ok {
		return "", fmt.Errorf("runtime id %d: %w", rid, scan.ErrUnknownBlock)
	}
	return name, nil
}
