// Package export writes extracted columns to disk, one file per column.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/murkmap/chunker/scan"
)

// FileName returns the output file name of a column. The name comes from the world X and Z of the
// first record, not from the column coordinate. A column without records falls back to its own
// coordinate.
func FileName(col scan.Column, ext string) string {
	if len(col.Records) == 0 {
		return fmt.Sprintf("%d_%d.%s", col.Pos.X, col.Pos.Z, ext)
	}
	first := col.Records[0]
	return fmt.Sprintf("%d_%d.%s", first.X, first.Z, ext)
}

// writeFile creates path, lets body fill it and closes it on every path. A file that ends up empty
// is removed and reported with an empty path.
func writeFile(path string, log logrus.FieldLogger, body func(w io.Writer) error) (written string, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", err
	}

	var result *multierror.Error
	if err = body(f); err != nil {
		result = multierror.Append(result, fmt.Errorf("write %s: %w", path, err))
	}
	if err = f.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close %s: %w", path, err))
	}
	if err = result.ErrorOrNil(); err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() == 0 {
		if err = os.Remove(path); err != nil {
			return "", err
		}
		logger(log).Debugf("removed empty %s", path)
		return "", nil
	}
	logger(log).Infof("wrote %s (%s)", filepath.Base(path), humanize.Bytes(uint64(info.Size())))
	return path, nil
}

func logger(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}
