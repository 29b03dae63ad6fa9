package export

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
	"github.com/willf/bitset"
	"github.com/zeebo/xxh3"

	"github.com/murkmap/chunker/scan"
)

const binaryMagic = 0x4D4D4246 // "MMBF"

// maxPayloadSize bounds both payload sizes a header may declare. A full column of 24 sub-chunks
// encodes to a few MiB.
const maxPayloadSize = 64 << 20

var ErrBadMagic = errors.New("export: not a chunk binary file")
var ErrTruncated = errors.New("export: truncated chunk binary file")
var ErrChecksum = errors.New("export: chunk binary checksum mismatch")
var ErrTooLarge = errors.New("export: chunk binary payload too large")

// binaryHeader precedes the zstd-compressed gob payload. All fields are big-endian.
type binaryHeader struct {
	Magic            uint32
	ColumnX          int32
	ColumnZ          int32
	Slots            uint32
	Checksum         uint64
	CompressedSize   uint32
	UncompressedSize uint32
}

// Binary writes a column as a header followed by the gob-encoded records compressed with zstd.
type Binary struct {
	Dir string
	Log logrus.FieldLogger
}

// Export writes col to Dir. A column without records creates no file and returns an empty path.
func (e Binary) Export(col scan.Column) (string, error) {
	if len(col.Records) == 0 {
		return "", nil
	}
	path := filepath.Join(e.Dir, FileName(col, "mmbf"))
	return writeFile(path, e.Log, func(w io.Writer) error {
		return WriteBinary(w, col)
	})
}

// WriteBinary encodes col and writes it to w in a single call.
func WriteBinary(w io.Writer, col scan.Column) (err error) {
	var payload bytes.Buffer
	if err = gob.NewEncoder(&payload).Encode(col.Records); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return err
	}
	compressed := enc.EncodeAll(payload.Bytes(), nil)
	if err = enc.Close(); err != nil {
		return err
	}

	header := binaryHeader{
		Magic:            binaryMagic,
		ColumnX:          col.Pos.X,
		ColumnZ:          col.Pos.Z,
		Slots:            slotsToMask(col),
		Checksum:         xxh3.Hash(payload.Bytes()),
		CompressedSize:   uint32(len(compressed)),
		UncompressedSize: uint32(payload.Len()),
	}

	var out bytes.Buffer
	out.Grow(binary.Size(header) + len(compressed))
	if err = binary.Write(&out, binary.BigEndian, header); err != nil {
		return
	}
	out.Write(compressed)
	_, err = w.Write(out.Bytes())
	return
}

// ReadBinary decodes a file written by WriteBinary.
func ReadBinary(r io.Reader) (col scan.Column, err error) {
	var header binaryHeader
	if err = binary.Read(r, binary.BigEndian, &header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = ErrTruncated
		}
		return
	}
	if header.Magic != binaryMagic {
		return col, ErrBadMagic
	}

	if header.CompressedSize > maxPayloadSize || header.UncompressedSize > maxPayloadSize {
		return col, ErrTooLarge
	}

	compressed := make([]byte, header.CompressedSize)
	if _, err = io.ReadFull(r, compressed); err != nil {
		return col, ErrTruncated
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxPayloadSize))
	if err != nil {
		return
	}
	defer dec.Close()
	payload, err := dec.DecodeAll(compressed, make([]byte, 0, header.UncompressedSize))
	if err != nil {
		return col, fmt.Errorf("zstd decode: %w", err)
	}
	if uint32(len(payload)) != header.UncompressedSize {
		return col, ErrTruncated
	}
	if xxh3.Hash(payload) != header.Checksum {
		return col, ErrChecksum
	}

	col.Pos = scan.ColumnPos{X: header.ColumnX, Z: header.ColumnZ}
	col.Slots = maskToSlots(header.Slots)
	if err = gob.NewDecoder(bytes.NewReader(payload)).Decode(&col.Records); err != nil {
		return col, fmt.Errorf("gob decode: %w", err)
	}
	return col, nil
}

func slotsToMask(col scan.Column) (mask uint32) {
	if col.Slots == nil {
		return 0
	}
	for i := uint(0); i < scan.SlotCount; i++ {
		if col.Slots.Test(i) {
			mask |= 1 << i
		}
	}
	return mask
}

func maskToSlots(mask uint32) *bitset.BitSet {
	slots := scan.NewSlotMask()
	for i := uint(0); i < scan.SlotCount; i++ {
		if mask&(1<<i) != 0 {
			slots.Set(i)
		}
	}
	return slots
}
