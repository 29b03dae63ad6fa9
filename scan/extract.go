package scan

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Extractor turns decoded sub-chunks into block records.
type Extractor struct {
	// Air is the name filtered out of the results. Empty means the Air constant.
	Air string
	// Strict makes an unreadable block abort the extraction instead of being skipped.
	Strict bool
	Log    logrus.FieldLogger
}

// Extract walks every volume in order, then y, x and z over the local range, and returns the
// non-air blocks in that order with world coordinates.
func (e Extractor) Extract(vols []Volume) ([]BlockRecord, error) {
	air := e.Air
	if air == "" {
		air = Air
	}

	var records []BlockRecord
	for _, vol := range vols {
		pos := vol.Position()
		for y := uint8(0); y < SubChunkSize; y++ {
			for x := uint8(0); x < SubChunkSize; x++ {
				for z := uint8(0); z < SubChunkSize; z++ {
					wx, wy, wz := worldCoord(x, pos.X), worldCoord(y, pos.Y), worldCoord(z, pos.Z)

					name, err := vol.Block(x, y, z)
					if err != nil {
						if e.Strict {
							return nil, fmt.Errorf("read block %d,%d,%d in sub-chunk %s: %w", wx, wy, wz, pos, err)
						}
						if e.Log != nil {
							e.Log.WithError(err).Warnf("skipping unreadable block %d,%d,%d", wx, wy, wz)
						}
						continue
					}
					if name == air {
						continue
					}
					records = append(records, BlockRecord{X: wx, Y: wy, Z: wz, Name: name})
				}
			}
		}
	}
	return records, nil
}
