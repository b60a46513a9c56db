package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/alexanderramin/worklog/internal/domain"
)

// CSVWriter writes comma-separated reports with a trailing newline per row.
type CSVWriter struct {
	Display Display
}

func (w *CSVWriter) Write(path string, entries []domain.ReportEntry) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: closing %s: %w", ErrIO, path, cerr)
		}
	}()

	if err := w.encode(f, entries); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrIO, path, err)
	}
	return nil
}

func (w *CSVWriter) encode(out io.Writer, entries []domain.ReportEntry) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(w.Display.Row(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Row is one parsed report line in display form.
type Row struct {
	Date   string
	Day    string
	Start  string
	Finish string
}

// ReadCSV parses a report written by CSVWriter, checking the header.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty report")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if !slices.Equal(head, Header) {
		return nil, fmt.Errorf("unexpected header %v", head)
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, Row{Date: rec[0], Day: rec[1], Start: rec[2], Finish: rec[3]})
	}
	return rows, nil
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()
	return ReadCSV(f)
}
