// Package xls reads legacy Excel 97-2003 workbooks (BIFF8 inside an OLE2
// compound file) into the workbook IR, keeping the named cell style of every
// cell so headings can be recognized.
package xls

import (
	"bytes"
	"io"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"

	"github.com/aerissecure/rfpconvert/workbook"
)

// ErrNoWorkbookStream is returned for compound files that carry no Workbook
// (or Book) stream, e.g. Word or PowerPoint documents.
var ErrNoWorkbookStream = errors.New("no workbook stream in compound file")

var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// IsXLS reports whether head starts with the OLE2 compound file signature.
func IsXLS(head []byte) bool {
	return len(head) >= 4 && bytes.Equal(head[:4], oleMagic[:4])
}

// Open reads the workbook at path.
func Open(path string) (*workbook.Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open "+path)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat "+path)
	}
	wb, err := ParseWorkbookModel(f, fi.Size())
	if err != nil {
		return nil, errors.Wrapf(err, "read %q", path)
	}
	wb.Path = path
	return wb, nil
}

// ParseWorkbookModel reads an XLS from r/size and returns the intermediate representation.
func ParseWorkbookModel(r io.ReaderAt, size int64) (*workbook.Workbook, error) {
	doc, err := mscfb.New(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, errors.Wrap(err, "open compound file")
	}
	var (
		stream []byte
		props  = make(map[string]string)
	)
	for {
		entry, err := doc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read compound file directory")
		}
		switch {
		case entry.Name == "Workbook" || (entry.Name == "Book" && stream == nil):
			if stream, err = io.ReadAll(entry); err != nil {
				return nil, errors.Wrap(err, "read "+entry.Name+" stream")
			}
		case msoleps.IsMSOLEPS(entry.Initial):
			// Summary information is optional; a damaged property set must not
			// make an otherwise readable workbook fail.
			readProperties(entry, props)
		}
	}
	if stream == nil {
		return nil, ErrNoWorkbookStream
	}
	wb, err := parseStream(stream)
	if err != nil {
		return nil, err
	}
	wb.Properties = workbook.Properties{
		Title:    props["Title"],
		Subject:  props["Subject"],
		Author:   props["Author"],
		Keywords: props["Keywords"],
		Comments: props["Comments"],
	}
	return wb, nil
}

func readProperties(r io.Reader, into map[string]string) {
	ps := msoleps.New()
	if err := ps.Reset(r); err != nil {
		return
	}
	for _, p := range ps.Property {
		if _, ok := into[p.Name]; !ok {
			into[p.Name] = strings.TrimRight(p.String(), "\x00")
		}
	}
}

type boundSheet struct {
	name   string
	offset int
}

type xf struct {
	parent  uint16
	isStyle bool
}

// globals is the state gathered from the workbook globals substream.
type globals struct {
	sheets []boundSheet
	sst    []string
	xfs    []xf
	styles map[uint16]string // style XF index -> style name
}

// styleName resolves the named style of the cell XF at index ixfe.
func (g *globals) styleName(ixfe uint16) string {
	if int(ixfe) >= len(g.xfs) {
		return ""
	}
	x := g.xfs[ixfe]
	if x.isStyle {
		return g.styles[ixfe]
	}
	return g.styles[x.parent]
}

func parseStream(b []byte) (*workbook.Workbook, error) {
	rr := &recordReader{b: b}
	g, err := parseGlobals(rr)
	if err != nil {
		return nil, err
	}
	wb := &workbook.Workbook{}
	for _, bs := range g.sheets {
		sh, err := parseSheet(rr, g, bs)
		if err != nil {
			return nil, errors.Wrapf(err, "sheet %q", bs.name)
		}
		wb.Sheets = append(wb.Sheets, sh)
	}
	return wb, nil
}

func checkBOF(rec record, want uint16) error {
	if rec.id != recBOF || len(rec.data) < 4 {
		return errors.Wrapf(ErrNotBIFF8, "record 0x%04X at %d is not a BOF", rec.id, rec.offset)
	}
	if v := le.Uint16(rec.data); v != biff8Version {
		return errors.Wrapf(ErrNotBIFF8, "BOF version 0x%04X", v)
	}
	if dt := le.Uint16(rec.data[2:]); dt != want {
		return errors.Wrapf(ErrNotBIFF8, "BOF type 0x%04X, want 0x%04X", dt, want)
	}
	return nil
}

func parseGlobals(rr *recordReader) (*globals, error) {
	rec, err := rr.next()
	if err != nil {
		return nil, errors.Wrap(ErrNotBIFF8, "empty workbook stream")
	}
	if err = checkBOF(rec, bofGlobals); err != nil {
		return nil, err
	}
	g := &globals{styles: make(map[uint16]string)}
	for {
		if rec, err = rr.next(); err != nil {
			if err == io.EOF {
				return nil, errors.Wrap(ErrTruncated, "globals substream without EOF")
			}
			return nil, err
		}
		switch rec.id {
		case recEOF:
			return g, nil
		case recBoundSheet:
			if len(rec.data) < 8 {
				return nil, errors.Wrap(ErrTruncated, "BOUNDSHEET")
			}
			if rec.data[5] != sheetTypeWorks {
				continue // chart, macro or VBA module sheet
			}
			name, _, err := shortUnicodeString(rec.data[6:])
			if err != nil {
				return nil, errors.Wrap(err, "BOUNDSHEET name")
			}
			g.sheets = append(g.sheets, boundSheet{name: name, offset: int(le.Uint32(rec.data))})
		case recSST:
			segs, err := newSegments(rec.data, rr)
			if err != nil {
				return nil, err
			}
			if g.sst, err = parseSST(segs); err != nil {
				return nil, errors.Wrap(err, "SST")
			}
		case recXF:
			if len(rec.data) < 6 {
				return nil, errors.Wrap(ErrTruncated, "XF")
			}
			flags := le.Uint16(rec.data[4:])
			g.xfs = append(g.xfs, xf{parent: flags >> 4, isStyle: flags&0x0004 != 0})
		case recStyle:
			ixfe, name, err := parseStyle(rec.data)
			if err != nil {
				return nil, errors.Wrap(err, "STYLE")
			}
			if name != "" {
				g.styles[ixfe] = name
			}
		}
	}
}

func parseSST(s *segments) ([]string, error) {
	if _, err := s.u32(); err != nil { // cstTotal
		return nil, err
	}
	unique, err := s.u32()
	if err != nil {
		return nil, err
	}
	// every entry takes at least three bytes, so a larger count is corrupt
	sst := make([]string, 0, min(int(unique), s.remaining()/3))
	for i := uint32(0); i < unique; i++ {
		cch, err := s.u16()
		if err != nil {
			return sst, err
		}
		flags, err := s.u8()
		if err != nil {
			return sst, err
		}
		var runs uint16
		var ext uint32
		if flags&0x08 != 0 {
			if runs, err = s.u16(); err != nil {
				return sst, err
			}
		}
		if flags&0x04 != 0 {
			if ext, err = s.u32(); err != nil {
				return sst, err
			}
		}
		str, err := s.chars(int(cch), flags&0x01 != 0)
		if err != nil {
			return sst, errors.Wrapf(err, "string %d", i)
		}
		if err = s.skip(4*int(runs) + int(ext)); err != nil {
			return sst, errors.Wrapf(err, "string %d formatting", i)
		}
		sst = append(sst, str)
	}
	return sst, nil
}

// parseStyle returns the XF index a STYLE record names and that name.
func parseStyle(b []byte) (uint16, string, error) {
	if len(b) < 4 {
		return 0, "", ErrTruncated
	}
	v := le.Uint16(b)
	ixfe := v & 0x0FFF
	if v&0x8000 != 0 {
		return ixfe, workbook.BuiltinStyle(b[2]), nil
	}
	name, _, err := unicodeString(b[2:])
	return ixfe, name, err
}

// parseSheet reads the cells of the worksheet substream starting at bs.offset.
// Substreams embedded in the worksheet (charts) are skipped.
func parseSheet(rr *recordReader, g *globals, bs boundSheet) (*workbook.Sheet, error) {
	rr.seek(bs.offset)
	rec, err := rr.next()
	if err != nil {
		return nil, errors.Wrap(err, "sheet BOF")
	}
	if err = checkBOF(rec, bofWorksheet); err != nil {
		return nil, err
	}
	sh := &workbook.Sheet{Name: bs.name}
	set := func(row, col, ixfe uint16, c workbook.Cell) {
		c.Style = g.styleName(ixfe)
		sh.Set(int(row), int(col), c)
	}
	var (
		depth   = 1
		pending *[3]uint16 // FORMULA awaiting its STRING record
	)
	for depth > 0 {
		if rec, err = rr.next(); err != nil {
			if err == io.EOF {
				return nil, errors.Wrap(ErrTruncated, "worksheet substream without EOF")
			}
			return nil, err
		}
		switch rec.id {
		case recBOF:
			depth++
			continue
		case recEOF:
			depth--
			continue
		}
		if depth > 1 {
			continue
		}
		d := rec.data
		switch rec.id {
		case recLabelSST:
			if len(d) < 10 {
				return nil, errors.Wrap(ErrTruncated, "LABELSST")
			}
			idx := le.Uint32(d[6:])
			if int(idx) >= len(g.sst) {
				return nil, errors.Errorf("LABELSST at %d refers to string %d of %d", rec.offset, idx, len(g.sst))
			}
			set(le.Uint16(d), le.Uint16(d[2:]), le.Uint16(d[4:]), textCell(g.sst[idx]))
		case recLabel, recRString:
			if len(d) < 6 {
				return nil, errors.Wrap(ErrTruncated, "LABEL")
			}
			s, _, err := unicodeString(d[6:])
			if err != nil {
				return nil, errors.Wrap(err, "LABEL")
			}
			set(le.Uint16(d), le.Uint16(d[2:]), le.Uint16(d[4:]), textCell(s))
		case recNumber:
			if len(d) < 14 {
				return nil, errors.Wrap(ErrTruncated, "NUMBER")
			}
			set(le.Uint16(d), le.Uint16(d[2:]), le.Uint16(d[4:]),
				workbook.Cell{Kind: workbook.Number, Number: math.Float64frombits(le.Uint64(d[6:]))})
		case recRK:
			if len(d) < 10 {
				return nil, errors.Wrap(ErrTruncated, "RK")
			}
			set(le.Uint16(d), le.Uint16(d[2:]), le.Uint16(d[4:]),
				workbook.Cell{Kind: workbook.Number, Number: decodeRK(le.Uint32(d[6:]))})
		case recMulRK:
			if len(d) < 6 {
				return nil, errors.Wrap(ErrTruncated, "MULRK")
			}
			row, col := le.Uint16(d), le.Uint16(d[2:])
			for p := 4; p+6 <= len(d)-2; p += 6 {
				set(row, col, le.Uint16(d[p:]),
					workbook.Cell{Kind: workbook.Number, Number: decodeRK(le.Uint32(d[p+2:]))})
				col++
			}
		case recBlank:
			if len(d) < 6 {
				return nil, errors.Wrap(ErrTruncated, "BLANK")
			}
			set(le.Uint16(d), le.Uint16(d[2:]), le.Uint16(d[4:]), workbook.Cell{})
		case recMulBlank:
			if len(d) < 6 {
				return nil, errors.Wrap(ErrTruncated, "MULBLANK")
			}
			row, col := le.Uint16(d), le.Uint16(d[2:])
			for p := 4; p+2 <= len(d)-2; p += 2 {
				set(row, col, le.Uint16(d[p:]), workbook.Cell{})
				col++
			}
		case recBoolErr:
			if len(d) < 8 {
				return nil, errors.Wrap(ErrTruncated, "BOOLERR")
			}
			set(le.Uint16(d), le.Uint16(d[2:]), le.Uint16(d[4:]), boolErrCell(d[6], d[7] != 0))
		case recFormula:
			if len(d) < 14 {
				return nil, errors.Wrap(ErrTruncated, "FORMULA")
			}
			row, col, ixfe := le.Uint16(d), le.Uint16(d[2:]), le.Uint16(d[4:])
			val := d[6:14]
			if le.Uint16(val[6:]) != 0xFFFF {
				set(row, col, ixfe, workbook.Cell{Kind: workbook.Number, Number: math.Float64frombits(le.Uint64(val))})
				continue
			}
			switch val[0] {
			case 0x00:
				pending = &[3]uint16{row, col, ixfe}
			case 0x01:
				set(row, col, ixfe, boolErrCell(val[2], false))
			case 0x02:
				set(row, col, ixfe, boolErrCell(val[2], true))
			case 0x03:
				set(row, col, ixfe, textCell(""))
			}
		case recString:
			if pending == nil {
				continue
			}
			s, _, err := unicodeString(d)
			if err != nil {
				return nil, errors.Wrap(err, "STRING")
			}
			set(pending[0], pending[1], pending[2], textCell(s))
			pending = nil
		}
	}
	return sh, nil
}

func textCell(s string) workbook.Cell {
	if s == "" {
		return workbook.Cell{}
	}
	return workbook.Cell{Kind: workbook.Text, Text: s}
}

func boolErrCell(v uint8, isErr bool) workbook.Cell {
	if isErr {
		name, ok := errorNames[v]
		if !ok {
			name = "#ERR!"
		}
		return workbook.Cell{Kind: workbook.Error, Text: name, Number: float64(v)}
	}
	return workbook.Cell{Kind: workbook.Bool, Number: float64(v)}
}

// decodeRK decodes the compressed RK number representation.
func decodeRK(rk uint32) float64 {
	var v float64
	if rk&0x02 != 0 {
		v = float64(int32(rk) >> 2)
	} else {
		v = math.Float64frombits(uint64(rk&0xFFFFFFFC) << 32)
	}
	if rk&0x01 != 0 {
		v /= 100
	}
	return v
}
