package export

import (
	"bufio"
	"io"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/murkmap/chunker/scan"
)

// CSV writes a column as text, one `x,y,z,"name"` line per record.
type CSV struct {
	Dir string
	Log logrus.FieldLogger
}

// Export writes col to Dir. A column without records creates no file and returns an empty path.
func (e CSV) Export(col scan.Column) (string, error) {
	if len(col.Records) == 0 {
		return "", nil
	}
	path := filepath.Join(e.Dir, FileName(col, "csv"))
	return writeFile(path, e.Log, func(w io.Writer) error {
		return WriteCSV(w, col.Records)
	})
}

// WriteCSV writes records as lines and flushes after every line.
func WriteCSV(w io.Writer, records []scan.BlockRecord) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := bw.WriteString(Line(r)); err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Line formats one record the way the text output stores it.
func Line(r scan.BlockRecord) string {
	b := make([]byte, 0, 32+len(r.Name))
	b = strconv.AppendInt(b, int64(r.X), 10)
	b = append(b, ',')
	b = strconv.AppendInt(b, int64(r.Y), 10)
	b = append(b, ',')
	b = strconv.AppendInt(b, int64(r.Z), 10)
	b = append(b, ',')
	b = strconv.AppendQuote(b, r.Name)
	b = append(b, '\n')
	return string(b)
}
