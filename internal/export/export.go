// Package export turns report entries into files and delivers them.
package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

var (
	// ErrIO wraps failures writing a report file.
	ErrIO = errors.New("report file write failed")

	// ErrTransport wraps failures delivering a report by email.
	ErrTransport = errors.New("report delivery failed")
)

// Header is the first row of every report file.
var Header = []string{"Date", "Day", "Start", "Finish"}

// Format selects the report file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx".
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatXLSX:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown report format %q (want csv or xlsx)", s)
}

// Display holds the layouts used to render timestamps in a report.
type Display struct {
	DateFormat string
	TimeFormat string
}

// DefaultDisplay renders 04/03/2024 and 09:00.
var DefaultDisplay = Display{DateFormat: "02/01/2006", TimeFormat: "15:04"}

// Row renders one entry as Date, Day, Start, Finish. An open session has an
// empty Finish.
func (d Display) Row(e domain.ReportEntry) []string {
	finish := ""
	if e.Finish != nil {
		finish = d.clock(*e.Finish)
	}
	return []string{e.Start.Format(d.DateFormat), e.Day, d.clock(e.Start), finish}
}

func (d Display) clock(t time.Time) string {
	return t.Format(d.TimeFormat)
}

// ReportWriter writes entries to a file at path, replacing any existing file.
type ReportWriter interface {
	Write(path string, entries []domain.ReportEntry) error
}

// NewWriter returns the ReportWriter for format.
func NewWriter(format Format, display Display) (ReportWriter, error) {
	switch format {
	case FormatCSV, "":
		return &CSVWriter{Display: display}, nil
	case FormatXLSX:
		return &XLSXWriter{Display: display}, nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}
