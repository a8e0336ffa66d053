package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/models"
	enricherrors "github.com/razstvien01/pbi-top-ph-youtubers-2024/pkg/errors"
)

const utf8BOM = "\uFEFF"

var ErrEmptyInput = errors.New("input has no header row")

// ReadCSV loads a table from path. Any failure is an *errors.IOError.
func ReadCSV(path string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, enricherrors.NewIOError("read", path, err)
	}
	defer f.Close()

	table, err := Decode(f)
	if err != nil {
		return nil, enricherrors.NewIOError("read", path, err)
	}
	return table, nil
}

// Decode parses comma-separated data with a header row. Short rows are
// padded with empty cells; rows wider than the header are rejected.
func Decode(r io.Reader) (*models.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	table := &models.Table{Header: header}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse row: %w", err)
		}
		if len(record) > len(header) {
			return nil, fmt.Errorf("line %d: %d fields, header has %d", line, len(record), len(header))
		}
		if len(record) < len(header) {
			padded := make([]string, len(header))
			copy(padded, record)
			record = padded
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

// Encode writes the header and every row as comma-separated text.
func Encode(w io.Writer, table *models.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Header); err != nil {
		return err
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return err
	}
	return writer.Error()
}

// WriteCSV replaces path with the encoded table. The data is written to a
// temporary file in the same directory and renamed into place, so a failed
// write never leaves a truncated output. Any failure is an *errors.IOError.
func WriteCSV(path string, table *models.Table) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return enricherrors.NewIOError("write", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return enricherrors.NewIOError("write", path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, table); err != nil {
		return enricherrors.NewIOError("write", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return enricherrors.NewIOError("write", path, err)
	}
	if err = tmp.Close(); err != nil {
		return enricherrors.NewIOError("write", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return enricherrors.NewIOError("write", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return enricherrors.NewIOError("write", path, err)
	}
	return nil
}
