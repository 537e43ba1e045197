// Package export writes fetched records to CSV, JSON and XLSX files.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// FilePerm is the permission of written files.
const FilePerm = 0o644

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is a record with named text fields.
type Row interface {
	String(column string) string
}

// SelectColumns returns the preferred columns that are available,
// in preferred order, and the preferred columns that are not.
func SelectColumns(available, preferred []string) (cols, missing []string) {
	have := make(map[string]bool, len(available))
	for _, c := range available {
		have[c] = true
	}
	for _, c := range preferred {
		if have[c] {
			cols = append(cols, c)
		} else {
			missing = append(missing, c)
		}
	}
	return cols, missing
}

// WriteCSV writes a header and one line per row, restricted to cols.
// The file starts with a UTF-8 byte order mark so spreadsheet programs
// detect the encoding.
func WriteCSV[R Row](path string, rows []R, cols []string) error {
	return writeFile(path, func(w io.Writer) error {
		if _, err := w.Write(utf8BOM); err != nil {
			return err
		}
		cw := csv.NewWriter(w)
		if err := cw.Write(cols); err != nil {
			return err
		}
		line := make([]string, len(cols))
		for _, r := range rows {
			for i, c := range cols {
				line[i] = r.String(c)
			}
			if err := cw.Write(line); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// WriteJSON writes v as JSON indented by two spaces.
// Non-ASCII text and HTML characters are written unescaped.
func WriteJSON(path string, v any) error {
	return writeFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

// WriteXLSX writes the same view as WriteCSV to a single-sheet workbook.
func WriteXLSX[R Row](path, sheet string, rows []R, cols []string) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return errors.Wrapf(err, "renaming sheet to %q", sheet)
	}
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for n, r := range rows {
		line := make([]any, len(cols))
		for i, c := range cols {
			line[i] = r.String(c)
		}
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			return err
		}
	}
	return writeFile(path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
}

// writeFile replaces path with the output of write. The data goes to a
// temporary file in the same directory first, so a failed write leaves
// any previous file in place.
func writeFile(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrapf(err, "could not create tmp file for %s", path)
	}
	fail := func(err error, format string) error {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrapf(err, format, tmp.Name())
	}

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return fail(err, "could not write to tmp file %s")
	}
	if err := bw.Flush(); err != nil {
		return fail(err, "could not write to tmp file %s")
	}
	if err := tmp.Chmod(FilePerm); err != nil {
		return fail(err, "could not chmod tmp file %s")
	}
	if err := tmp.Sync(); err != nil {
		return fail(err, "could not sync tmp file %s")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "could not close tmp file %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "could not replace %s with %s", path, tmp.Name())
	}
	return nil
}
