package scan

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/willf/bitset"
)

// Driver scans a world column by column and hands every populated column to an Exporter. A Driver
// is not safe for concurrent use.
type Driver struct {
	World     World
	Extractor Extractor
	Exporter  Exporter
	Log       logrus.FieldLogger
}

// Summary counts what a Run did.
type Summary struct {
	Columns   int
	Populated int
	SubChunks int
	Records   int
	Files     int
}

// Run scans every column inside b. The first extraction or export error stops the run; files of
// columns exported before it are left in place.
func (d *Driver) Run(b Bounds) (sum Summary, err error) {
	for pos := range Columns(b) {
		sum.Columns++

		vols, slots := d.readColumn(pos)
		if len(vols) == 0 {
			continue
		}
		sum.Populated++
		sum.SubChunks += len(vols)

		records, err := d.Extractor.Extract(vols)
		if err != nil {
			return sum, fmt.Errorf("extract column %s: %w", pos, err)
		}
		sum.Records += len(records)

		path, err := d.Exporter.Export(Column{Pos: pos, Slots: slots, Records: records})
		if err != nil {
			return sum, fmt.Errorf("export column %s: %w", pos, err)
		}
		if path != "" {
			sum.Files++
		}
		d.logger().WithFields(logrus.Fields{
			"column":  pos.String(),
			"slots":   slots.String(),
			"records": len(records),
		}).Info("column exported")
	}
	return sum, nil
}

// readColumn probes the slots of a column from the top down and decodes the ones that exist.
func (d *Driver) readColumn(pos ColumnPos) ([]Volume, *bitset.BitSet) {
	var vols []Volume
	slots := NewSlotMask()
	for y := int32(MaxSlotY); y >= MinSlotY; y-- {
		slot := SlotPos{X: pos.X, Y: y, Z: pos.Z}
		exists := d.World.Exists(slot)
		d.logger().Debugf("sub-chunk %s exists=%v", slot, exists)
		if !exists {
			continue
		}
		slots.Set(SlotBit(y))
		vols = append(vols, d.World.SubChunk(slot))
	}
	return vols, slots
}

func (d *Driver) logger() logrus.FieldLogger {
	if d.Log == nil {
		return logrus.StandardLogger()
	}
	return d.Log
}
