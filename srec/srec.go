// Package srec decodes Motorola S-record images: ASCII lines of the
// form S<type><count><address><data><checksum> where count covers the
// address, data, and checksum bytes, and the checksum is the one's
// complement of the low byte of the sum of everything after the type
// field. S1/S2/S3 carry loadable data behind 2, 3, and 4-byte
// addresses, S5/S6 carry a transmitted-record count, S7/S8/S9 end the
// image with the execution address. Decoding only; this package never
// writes records.
package srec

import (
	"bufio"
	"encoding/hex"
	"io"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrBadRecord  = errors.New("malformed S-record")
	ErrRecordType = errors.New("unknown record type")
	ErrChecksum   = errors.New("checksum mismatch")
	ErrCount      = errors.New("record count mismatch")
	ErrOverlap    = errors.New("overlapping data records")
)

// RecordType is the digit after the 'S'.
type RecordType byte

const (
	S0 RecordType = iota // header
	S1                   // data, 2-byte address
	S2                   // data, 3-byte address
	S3                   // data, 4-byte address
	s4                   // reserved
	S5                   // record count, 2-byte
	S6                   // record count, 3-byte
	S7                   // termination, 4-byte entry
	S8                   // termination, 3-byte entry
	S9                   // termination, 2-byte entry
)

// addrBytes gives the address field width per record type; 0 marks a
// type that never appears in well-formed input.
var addrBytes = [10]int{2, 2, 3, 4, 0, 2, 3, 4, 3, 2}

// Record is one decoded line. Addr is the data address, the record
// count, or the entry point depending on Type.
type Record struct {
	Type RecordType
	Addr uint32
	Data []byte
}

// IsData reports whether the record carries loadable bytes.
func (r *Record) IsData() bool {
	return r.Type == S1 || r.Type == S2 || r.Type == S3
}

func (r *Record) isCount() bool {
	return r.Type == S5 || r.Type == S6
}

func (r *Record) isTerm() bool {
	return r.Type == S7 || r.Type == S8 || r.Type == S9
}

// Checksum computes the checksum byte over the count, address, and
// data bytes of a record body.
func Checksum(body []byte) byte {
	sum := byte(0)
	for _, b := range body {
		sum += b
	}
	return ^sum
}

// ParseRecord decodes one line. The line may carry a trailing CR or
// surrounding blanks; the caller strips line terminators.
func ParseRecord(line string) (Record, error) {
	line = strings.TrimSpace(line)
	if len(line) < 2 || line[0] != 'S' {
		return Record{}, errors.Wrap(ErrBadRecord, "no record prefix")
	}
	t := line[1]
	if t < '0' || t > '9' || t == '4' {
		return Record{}, errors.Wrapf(ErrRecordType, "S%c", t)
	}
	typ := RecordType(t - '0')

	buf, err := hex.DecodeString(line[2:])
	if err != nil {
		return Record{}, errors.Wrap(ErrBadRecord, err.Error())
	}
	if len(buf) < 1 || int(buf[0]) != len(buf)-1 {
		return Record{}, errors.Wrapf(ErrBadRecord, "count %d with %d bytes", buf[0], len(buf)-1)
	}
	body := buf[:len(buf)-1]
	if cks := Checksum(body); cks != buf[len(buf)-1] {
		return Record{}, errors.Wrapf(ErrChecksum, "have %#x, want %#x", buf[len(buf)-1], cks)
	}

	alen := addrBytes[typ]
	if int(buf[0]) < alen+1 {
		return Record{}, errors.Wrapf(ErrBadRecord, "S%c record of %d bytes", t, buf[0])
	}
	addr := uint32(0)
	for _, b := range body[1 : 1+alen] {
		addr = addr<<8 | uint32(b)
	}
	data := append([]byte(nil), body[1+alen:]...)
	return Record{Type: typ, Addr: addr, Data: data}, nil
}

// Reader scans records off a stream one line at a time, skipping
// blank lines and reporting the line number on errors.
type Reader struct {
	s    *bufio.Scanner
	line int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{s: bufio.NewScanner(r)}
}

// Next returns the next record, or io.EOF after the last line.
func (r *Reader) Next() (Record, error) {
	for r.s.Scan() {
		r.line++
		text := strings.TrimSpace(r.s.Text())
		if text == "" {
			continue
		}
		rec, err := ParseRecord(text)
		if err != nil {
			return Record{}, errors.Wrapf(err, "line %d", r.line)
		}
		return rec, nil
	}
	if err := r.s.Err(); err != nil {
		return Record{}, errors.Wrapf(err, "line %d", r.line)
	}
	return Record{}, io.EOF
}

// Segment is a contiguous run of image bytes.
type Segment struct {
	Addr uint32
	Data []byte
}

// Image is a whole decoded S-record file. Records counts the data
// records seen; Entry is zero when no termination record appears.
type Image struct {
	Header   string
	Segments []Segment
	Entry    uint32
	Records  int
}

// ReadImage decodes a complete file, assembling data records into
// contiguous segments no matter the order they arrive in. A count
// record that disagrees with the number of data records read so far
// fails with ErrCount.
func ReadImage(r io.Reader) (*Image, error) {
	img := &Image{}
	rd := NewReader(r)
	for {
		rec, err := rd.Next()
		if err == io.EOF {
			return img, nil
		}
		if err != nil {
			return nil, err
		}
		switch {
		case rec.Type == S0:
			img.Header = string(rec.Data)
		case rec.IsData():
			if err := img.place(rec.Addr, rec.Data); err != nil {
				return nil, errors.Wrapf(err, "line %d", rd.line)
			}
			img.Records++
		case rec.isCount():
			if int(rec.Addr) != img.Records {
				return nil, errors.Wrapf(ErrCount, "line %d: counted %d, file says %d", rd.line, img.Records, rec.Addr)
			}
		case rec.isTerm():
			img.Entry = rec.Addr
		}
	}
}

// place inserts a data run, keeping segments sorted by address and
// merging runs that touch.
func (img *Image) place(addr uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	end := uint64(addr) + uint64(len(data))
	i := 0
	for i < len(img.Segments) && img.Segments[i].Addr <= addr {
		i++
	}
	if i > 0 {
		prev := &img.Segments[i-1]
		prevEnd := uint64(prev.Addr) + uint64(len(prev.Data))
		if uint64(addr) < prevEnd {
			return errors.Wrapf(ErrOverlap, "%#x", addr)
		}
		if uint64(addr) == prevEnd {
			prev.Data = append(prev.Data, data...)
			img.mergeAt(i - 1)
			return nil
		}
	}
	if i < len(img.Segments) {
		next := &img.Segments[i]
		if end > uint64(next.Addr) {
			return errors.Wrapf(ErrOverlap, "%#x", addr)
		}
		if end == uint64(next.Addr) {
			next.Data = append(append([]byte(nil), data...), next.Data...)
			next.Addr = addr
			return nil
		}
	}
	seg := Segment{Addr: addr, Data: append([]byte(nil), data...)}
	img.Segments = append(img.Segments, Segment{})
	copy(img.Segments[i+1:], img.Segments[i:])
	img.Segments[i] = seg
	return nil
}

// mergeAt folds segment i+1 into i when they touch.
func (img *Image) mergeAt(i int) {
	if i+1 >= len(img.Segments) {
		return
	}
	a := &img.Segments[i]
	b := img.Segments[i+1]
	if uint64(a.Addr)+uint64(len(a.Data)) == uint64(b.Addr) {
		a.Data = append(a.Data, b.Data...)
		img.Segments = append(img.Segments[:i+1], img.Segments[i+2:]...)
	}
}

// Size returns the total number of image bytes across segments.
func (img *Image) Size() int {
	n := 0
	for i := range img.Segments {
		n += len(img.Segments[i].Data)
	}
	return n
}
