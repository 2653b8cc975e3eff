package convert

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/aerissecure/rfpconvert/workbook"
	"github.com/aerissecure/rfpconvert/xls"
	"github.com/aerissecure/rfpconvert/xlsx"
)

// Format is a supported workbook file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatXLS
	FormatXLSX
)

func (f Format) String() string {
	switch f {
	case FormatXLS:
		return "xls"
	case FormatXLSX:
		return "xlsx"
	}
	return "unknown"
}

var zipMagic = []byte("PK\x03\x04")

// DetectFormat sniffs the workbook format from the first bytes of a file.
func DetectFormat(head []byte) Format {
	switch {
	case xls.IsXLS(head):
		return FormatXLS
	case bytes.HasPrefix(head, zipMagic):
		return FormatXLSX
	}
	return FormatUnknown
}

// Book is one opened input workbook.
type Book struct {
	Path     string
	Name     string // base name, as reported in progress events
	Format   Format
	Workbook *workbook.Workbook
}

// Sheets returns the sheets that carry requirements: all but the first one,
// which is reserved for conventions.
func (b *Book) Sheets() []*workbook.Sheet {
	if b.Workbook == nil || len(b.Workbook.Sheets) < 2 {
		return nil
	}
	return b.Workbook.Sheets[1:]
}

// Source holds the input workbooks of a run, in caller order.
type Source struct {
	Books []*Book
}

var openSource = OpenSource

// OpenSource reads every workbook in paths. Source files are opened read-only.
func OpenSource(ctx context.Context, paths []string) (*Source, error) {
	src := &Source{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := openBook(path)
		if err != nil {
			return nil, err
		}
		src.Books = append(src.Books, b)
	}
	return src, nil
}

func openBook(path string) (*Book, error) {
	format, err := sniff(path)
	if err != nil {
		return nil, &FileFormatError{Path: path, Err: err}
	}
	var wb *workbook.Workbook
	switch format {
	case FormatXLS:
		wb, err = xls.Open(path)
	case FormatXLSX:
		wb, err = xlsx.Open(path)
	default:
		return nil, &FileFormatError{Path: path}
	}
	if err != nil {
		return nil, &FileFormatError{Path: path, Err: err}
	}
	return &Book{Path: path, Name: filepath.Base(path), Format: format, Workbook: wb}, nil
}

func sniff(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()
	head := make([]byte, 8)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FormatUnknown, err
	}
	return DetectFormat(head[:n]), nil
}

// Close drops the parsed workbooks.
func (s *Source) Close() error {
	s.Books = nil
	return nil
}
