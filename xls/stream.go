package xls

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
)

var (
	// ErrNotBIFF8 is returned for OLE2 files whose workbook stream is not BIFF8
	// (Excel 97 to 2003), e.g. BIFF5 files written by Excel 95.
	ErrNotBIFF8 = errors.New("not a BIFF8 workbook stream")
	// ErrTruncated is returned when a record ends before its fields do.
	ErrTruncated = errors.New("truncated record")
)

var le = binary.LittleEndian

type record struct {
	id     uint16
	data   []byte
	offset int // stream offset of the record header
}

// recordReader walks the records of a workbook stream.
type recordReader struct {
	b   []byte
	off int
}

func (r *recordReader) seek(off int) { r.off = off }

func (r *recordReader) next() (record, error) {
	if r.off >= len(r.b) {
		return record{}, io.EOF
	}
	if r.off+4 > len(r.b) {
		return record{}, errors.Wrapf(ErrTruncated, "record header at %d", r.off)
	}
	id := le.Uint16(r.b[r.off:])
	n := int(le.Uint16(r.b[r.off+2:]))
	start := r.off + 4
	if start+n > len(r.b) {
		return record{}, errors.Wrapf(ErrTruncated, "record 0x%04X at %d wants %d bytes", id, r.off, n)
	}
	rec := record{id: id, data: r.b[start : start+n], offset: r.off}
	r.off = start + n
	return rec, nil
}

// peek returns the id of the next record without consuming it.
func (r *recordReader) peek() (uint16, bool) {
	if r.off+4 > len(r.b) {
		return 0, false
	}
	return le.Uint16(r.b[r.off:]), true
}

// segments reads a record together with its CONTINUE records as a single
// logical value. Strings that cross a segment boundary restart with a fresh
// option byte telling whether the remaining characters are compressed.
type segments struct {
	segs [][]byte
	seg  int
	pos  int
}

func newSegments(first []byte, rr *recordReader) (*segments, error) {
	s := &segments{segs: [][]byte{first}}
	for {
		id, ok := rr.peek()
		if !ok || id != recContinue {
			return s, nil
		}
		rec, err := rr.next()
		if err != nil {
			return nil, err
		}
		s.segs = append(s.segs, rec.data)
	}
}

// remaining returns the unread bytes across all segments.
func (s *segments) remaining() int {
	if s.seg >= len(s.segs) {
		return 0
	}
	n := 0
	for i := s.seg; i < len(s.segs); i++ {
		n += len(s.segs[i])
	}
	return n - s.pos
}

func (s *segments) avail() int {
	if s.seg >= len(s.segs) {
		return 0
	}
	return len(s.segs[s.seg]) - s.pos
}

// ensure moves to the next segment when the current one is used up.
func (s *segments) ensure() error {
	for s.avail() == 0 {
		if s.seg+1 >= len(s.segs) {
			return ErrTruncated
		}
		s.seg++
		s.pos = 0
	}
	return nil
}

func (s *segments) bytes(n int) ([]byte, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	if s.avail() < n {
		return nil, ErrTruncated
	}
	b := s.segs[s.seg][s.pos : s.pos+n]
	s.pos += n
	return b, nil
}

func (s *segments) u8() (uint8, error) {
	b, err := s.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s *segments) u16() (uint16, error) {
	b, err := s.bytes(2)
	if err != nil {
		return 0, err
	}
	return le.Uint16(b), nil
}

func (s *segments) u32() (uint32, error) {
	b, err := s.bytes(4)
	if err != nil {
		return 0, err
	}
	return le.Uint32(b), nil
}

func (s *segments) skip(n int) error {
	for n > 0 {
		if err := s.ensure(); err != nil {
			return err
		}
		k := min(n, s.avail())
		s.pos += k
		n -= k
	}
	return nil
}

// chars reads n characters that started out with the given compression flag.
func (s *segments) chars(n int, high bool) (string, error) {
	buf := make([]byte, 0, 2*n)
	for n > 0 {
		if s.avail() == 0 {
			if s.seg+1 >= len(s.segs) {
				return "", ErrTruncated
			}
			s.seg++
			s.pos = 0
			flags, err := s.u8()
			if err != nil {
				return "", err
			}
			high = flags&0x01 != 0
		}
		width := 1
		if high {
			width = 2
		}
		k := min(n, s.avail()/width)
		if k == 0 {
			return "", ErrTruncated
		}
		b := s.segs[s.seg][s.pos : s.pos+k*width]
		s.pos += k * width
		buf = appendUTF16(buf, b, high)
		n -= k
	}
	return decodeUTF16(buf)
}

// appendUTF16 appends b to buf as UTF-16LE code units. Compressed characters
// are the low bytes of code units whose high byte is zero.
func appendUTF16(buf, b []byte, high bool) []byte {
	if high {
		return append(buf, b...)
	}
	for _, c := range b {
		buf = append(buf, c, 0)
	}
	return buf
}

func decodeUTF16(b []byte) (string, error) {
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrap(err, "decode UTF-16")
	}
	return string(out), nil
}

// unicodeString reads an XLUnicodeString (16-bit length) from the start of b
// and returns the string and the number of bytes consumed.
func unicodeString(b []byte) (string, int, error) {
	if len(b) < 3 {
		return "", 0, ErrTruncated
	}
	return stringBody(b[2:], int(le.Uint16(b)), 2)
}

// shortUnicodeString reads a ShortXLUnicodeString (8-bit length).
func shortUnicodeString(b []byte) (string, int, error) {
	if len(b) < 2 {
		return "", 0, ErrTruncated
	}
	return stringBody(b[1:], int(b[0]), 1)
}

func stringBody(b []byte, cch, hdr int) (string, int, error) {
	high := b[0]&0x01 != 0
	width := 1
	if high {
		width = 2
	}
	end := 1 + cch*width
	if len(b) < end {
		return "", 0, ErrTruncated
	}
	s, err := decodeUTF16(appendUTF16(make([]byte, 0, 2*cch), b[1:end], high))
	return s, hdr + end, err
}
