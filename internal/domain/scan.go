package domain

import (
	"strings"
	"time"
)

// ScanPage is one captured page held in memory until it is saved or
// discarded. The store owns the byte buffer exclusively.
type ScanPage struct {
	ID         string    `json:"id"`
	Data       []byte    `json:"-"`
	CapturedAt time.Time `json:"captured_at"`
}

// PageInfo is the metadata-only view of a page returned to clients.
type PageInfo struct {
	ID         string    `json:"id"`
	CapturedAt time.Time `json:"captured_at"`
}

// OutputFormat is the artifact format requested at save time.
type OutputFormat string

const (
	FormatJPEG OutputFormat = "jpeg"
	FormatPNG  OutputFormat = "png"
	FormatTIFF OutputFormat = "tiff"
	FormatPDF  OutputFormat = "pdf"
)

// ParseOutputFormat normalizes and validates a format string.
// "jpg" is accepted as an alias for "jpeg".
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "tiff":
		return FormatTIFF, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", &ValidationError{Field: "format", Message: "must be one of jpeg, png, tiff, pdf"}
	}
}

// MultiPage reports whether the format can hold more than one page.
func (f OutputFormat) MultiPage() bool {
	return f == FormatPDF
}

// PageSize identifies the physical scan area.
type PageSize string

const (
	PageSizeA4     PageSize = "A4"
	PageSizeLetter PageSize = "Letter"
	PageSizeLegal  PageSize = "Legal"
	PageSizeA3     PageSize = "A3"
)

// ParsePageSize validates a page size string.
func ParsePageSize(s string) (PageSize, error) {
	switch PageSize(strings.TrimSpace(s)) {
	case PageSizeA4, PageSizeLetter, PageSizeLegal, PageSizeA3:
		return PageSize(strings.TrimSpace(s)), nil
	default:
		return "", &ValidationError{Field: "page_size", Message: "must be one of A4, Letter, Legal, A3"}
	}
}

// Resolution bounds in DPI supported by the capture pipeline.
const (
	MinResolution = 150
	MaxResolution = 1200
)

// ScanSettings are the per-capture parameters. They are validated
// before the controller is invoked and never stored.
type ScanSettings struct {
	Resolution int
	PageSize   PageSize
	AutoTrim   bool
}

// Validate checks resolution bounds and page size.
func (s ScanSettings) Validate() error {
	if s.Resolution < MinResolution || s.Resolution > MaxResolution {
		return &ValidationError{Field: "resolution", Message: "must be between 150 and 1200 DPI"}
	}
	if _, err := ParsePageSize(string(s.PageSize)); err != nil {
		return err
	}
	return nil
}

// SaveSettings are the per-save parameters.
type SaveSettings struct {
	Format         OutputFormat
	OutputDir      string
	FilenamePrefix string
}

// Validate checks format and destination.
func (s SaveSettings) Validate() error {
	if _, err := ParseOutputFormat(string(s.Format)); err != nil {
		return err
	}
	if strings.TrimSpace(s.OutputDir) == "" {
		return &ValidationError{Field: "output_folder", Message: "is required"}
	}
	if strings.TrimSpace(s.FilenamePrefix) == "" {
		return &ValidationError{Field: "filename_prefix", Message: "is required"}
	}
	return nil
}

// CaptureResult is returned from a successful capture.
type CaptureResult struct {
	PageID     string
	CapturedAt time.Time
}

// SaveResult is returned from a successful save.
type SaveResult struct {
	Filename  string
	SavedPath string
	Pages     int
}
