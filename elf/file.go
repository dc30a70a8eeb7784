package elf

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/objtools/objio/byteorder"
)

// Decode operations are valid in a fixed sequence: validate the
// header, load the two header tables, load payloads, then read
// symbols and strings. state tracks where a session is in that
// sequence.
type state int

const (
	stateUnopened state = iota
	stateWriteOnly
	stateHeaderValid
	stateTablesLoaded
	statePayloadsLoaded
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateUnopened:
		return "unopened"
	case stateWriteOnly:
		return "write-only"
	case stateHeaderValid:
		return "header-valid"
	case stateTablesLoaded:
		return "tables-loaded"
	case statePayloadsLoaded:
		return "payloads-loaded"
	case stateClosed:
		return "closed"
	}
	return "invalid"
}

// Options adjusts a decode session. The zero value opens read-only
// with no logging and no metrics.
type Options struct {
	Mode    Mode
	Logger  log.Logger
	Metrics *Metrics
}

// section pairs a decoded header with its loaded payload, keeping the
// one-payload-slot-per-section invariant structural.
type section struct {
	hdr     SectionHeader
	payload []byte
}

// File is a decode session over one ELF32 object. Loaded tables and
// payloads live on the session until Close releases them. A File is
// not safe for concurrent use.
type File struct {
	logger  log.Logger
	metrics *Metrics

	stream *stream
	mode   Mode
	order  binary.ByteOrder
	state  state

	hdr      FileHeader
	phdrs    []ProgHeader
	sections []section
	strCache map[int]map[uint32]string
}

// Open opens path and validates the file header, leaving the session
// ready for table loads. options may be nil.
func Open(path string, options *Options) (*File, error) {
	if options == nil {
		options = &Options{}
	}
	s, err := openStream(path, options.Mode)
	if err != nil {
		return nil, err
	}
	f, err := newFile(s, options)
	if err != nil {
		s.close()
		return nil, err
	}
	return f, nil
}

// NewFile decodes from r, which the caller owns and keeps open; Close
// then releases only the session's buffers. options may be nil.
func NewFile(r io.ReaderAt, options *Options) (*File, error) {
	if options == nil {
		options = &Options{}
	}
	if options.Mode != ModeRead {
		return nil, errors.Wrap(ErrBadMode, "reader sessions are read-only")
	}
	return newFile(&stream{r: r}, options)
}

func newFile(s *stream, options *Options) (*File, error) {
	f := &File{
		logger:  options.Logger,
		metrics: options.Metrics,
		stream:  s,
		mode:    options.Mode,
	}
	if f.logger == nil {
		f.logger = log.NewNopLogger()
	}
	if f.mode == ModeWrite {
		f.state = stateWriteOnly
		return f, nil
	}
	if err := f.readHeader(); err != nil {
		f.metrics.decodeError("header")
		return nil, err
	}
	f.state = stateHeaderValid
	f.metrics.open()
	level.Debug(f.logger).Log("msg", "header validated",
		"class", ClassName(f.hdr.Class()),
		"encoding", DataName(f.hdr.Data()),
		"type", TypeName(Type(f.hdr.Type)),
		"machine", f.MachineName())
	return f, nil
}

func (f *File) readHeader() error {
	buf, err := f.stream.readAt(0, HeaderSize)
	if err != nil {
		return errors.Wrap(err, "file header")
	}
	if !bytes.Equal(buf[:len(magic)], magic) {
		return errors.Wrapf(ErrBadMagic, "ident starts %x", buf[:len(magic)])
	}
	h := &f.hdr
	if err := struc.UnpackWithOrder(bytes.NewReader(buf), h, byteorder.Native()); err != nil {
		return errors.Wrap(err, "file header")
	}
	if h.Class() != ELFCLASS32 {
		return errors.Wrapf(ErrBadClass, "class %d", h.Class())
	}
	switch h.Data() {
	case ELFDATA2LSB:
		f.order = binary.LittleEndian
	case ELFDATA2MSB:
		f.order = binary.BigEndian
	default:
		return errors.Wrapf(ErrBadEncoding, "encoding %d", h.Data())
	}
	normalizeHeader(h, f.order, byteorder.Native())
	return nil
}

// normalizeHeader swaps the header's multi-byte fields when the file
// encoding differs from the host order. Ident bytes are order-free.
func normalizeHeader(h *FileHeader, src, host binary.ByteOrder) {
	if src == host {
		return
	}
	h.Type = byteorder.Swap16(h.Type)
	h.Machine = byteorder.Swap16(h.Machine)
	h.Version = byteorder.Swap32(h.Version)
	h.Entry = byteorder.Swap32(h.Entry)
	h.Phoff = byteorder.Swap32(h.Phoff)
	h.Shoff = byteorder.Swap32(h.Shoff)
	h.Flags = byteorder.Swap32(h.Flags)
	h.Ehsize = byteorder.Swap16(h.Ehsize)
	h.Phentsize = byteorder.Swap16(h.Phentsize)
	h.Phnum = byteorder.Swap16(h.Phnum)
	h.Shentsize = byteorder.Swap16(h.Shentsize)
	h.Shnum = byteorder.Swap16(h.Shnum)
	h.Shstrndx = byteorder.Swap16(h.Shstrndx)
}

func normalizeProg(p *ProgHeader, src, host binary.ByteOrder) {
	if src == host {
		return
	}
	p.Type = byteorder.Swap32(p.Type)
	p.Off = byteorder.Swap32(p.Off)
	p.Vaddr = byteorder.Swap32(p.Vaddr)
	p.Paddr = byteorder.Swap32(p.Paddr)
	p.Filesz = byteorder.Swap32(p.Filesz)
	p.Memsz = byteorder.Swap32(p.Memsz)
	p.Flags = byteorder.Swap32(p.Flags)
	p.Align = byteorder.Swap32(p.Align)
}

func normalizeSection(sh *SectionHeader, src, host binary.ByteOrder) {
	if src == host {
		return
	}
	sh.Name = byteorder.Swap32(sh.Name)
	sh.Type = byteorder.Swap32(sh.Type)
	sh.Flags = byteorder.Swap32(sh.Flags)
	sh.Addr = byteorder.Swap32(sh.Addr)
	sh.Off = byteorder.Swap32(sh.Off)
	sh.Size = byteorder.Swap32(sh.Size)
	sh.Link = byteorder.Swap32(sh.Link)
	sh.Info = byteorder.Swap32(sh.Info)
	sh.Addralign = byteorder.Swap32(sh.Addralign)
	sh.Entsize = byteorder.Swap32(sh.Entsize)
}

// LoadProgHeaders reads and normalizes the program header table. The
// header's entry size must match ProgHeaderSize; a zero-entry table
// is valid and loads empty.
func (f *File) LoadProgHeaders() error {
	if f.state != stateHeaderValid {
		return errors.Wrapf(ErrState, "program headers in state %s", f.state)
	}
	if f.phdrs != nil {
		return errors.Wrap(ErrState, "program headers already loaded")
	}
	h := &f.hdr
	if int(h.Phentsize) != ProgHeaderSize {
		f.metrics.decodeError("phdrs")
		return errors.Wrapf(ErrEntSize, "program header entry size %d, want %d", h.Phentsize, ProgHeaderSize)
	}
	phdrs := make([]ProgHeader, h.Phnum)
	if err := f.unpackTable(int64(h.Phoff), ProgHeaderSize, len(phdrs), func(i int, r io.Reader) error {
		if err := struc.UnpackWithOrder(r, &phdrs[i], byteorder.Native()); err != nil {
			return errors.Wrapf(err, "program header %d", i)
		}
		normalizeProg(&phdrs[i], f.order, byteorder.Native())
		return nil
	}); err != nil {
		f.metrics.decodeError("phdrs")
		return err
	}
	f.phdrs = phdrs
	f.afterTables()
	level.Debug(f.logger).Log("msg", "program headers loaded", "count", len(phdrs))
	return nil
}

// LoadSectHeaders reads and normalizes the section header table under
// the same rules as LoadProgHeaders.
func (f *File) LoadSectHeaders() error {
	if f.state != stateHeaderValid {
		return errors.Wrapf(ErrState, "section headers in state %s", f.state)
	}
	if f.sections != nil {
		return errors.Wrap(ErrState, "section headers already loaded")
	}
	h := &f.hdr
	if int(h.Shentsize) != SectionHeaderSize {
		f.metrics.decodeError("shdrs")
		return errors.Wrapf(ErrEntSize, "section header entry size %d, want %d", h.Shentsize, SectionHeaderSize)
	}
	sections := make([]section, h.Shnum)
	if err := f.unpackTable(int64(h.Shoff), SectionHeaderSize, len(sections), func(i int, r io.Reader) error {
		if err := struc.UnpackWithOrder(r, &sections[i].hdr, byteorder.Native()); err != nil {
			return errors.Wrapf(err, "section header %d", i)
		}
		normalizeSection(&sections[i].hdr, f.order, byteorder.Native())
		return nil
	}); err != nil {
		f.metrics.decodeError("shdrs")
		return err
	}
	f.sections = sections
	f.afterTables()
	level.Debug(f.logger).Log("msg", "section headers loaded", "count", len(sections))
	return nil
}

// unpackTable reads count*entsize bytes at off in one pass and hands
// each record to decode through a bounded reader.
func (f *File) unpackTable(off int64, entsize, count int, decode func(int, io.Reader) error) error {
	if count == 0 {
		return nil
	}
	buf, err := f.stream.readAt(off, count*entsize)
	if err != nil {
		return errors.Wrap(err, "header table")
	}
	br := bytes.NewReader(buf)
	for i := 0; i < count; i++ {
		sr := io.NewSectionReader(br, int64(i*entsize), int64(entsize))
		if err := decode(i, sr); err != nil {
			return err
		}
	}
	return nil
}

func (f *File) afterTables() {
	if f.phdrs != nil && f.sections != nil {
		f.state = stateTablesLoaded
	}
}

// LoadPayloads reads every section's contents into session-owned
// buffers. SHT_NOBITS sections and sections with a zero size are
// skipped and keep a nil payload.
func (f *File) LoadPayloads() error {
	if f.state != stateTablesLoaded {
		return errors.Wrapf(ErrState, "payloads in state %s", f.state)
	}
	total := 0
	for i := range f.sections {
		sec := &f.sections[i]
		if SectionType(sec.hdr.Type) == SHT_NOBITS || sec.hdr.Size == 0 {
			continue
		}
		buf, err := f.stream.readAt(int64(sec.hdr.Off), int(sec.hdr.Size))
		if err != nil {
			f.metrics.decodeError("payloads")
			return errors.Wrapf(err, "section %d payload", i)
		}
		sec.payload = buf
		total += len(buf)
	}
	f.state = statePayloadsLoaded
	f.metrics.payload(total)
	level.Debug(f.logger).Log("msg", "payloads loaded", "sections", len(f.sections), "bytes", total)
	return nil
}

// Header returns the normalized file header. It is the zero value
// before a successful open and after Close.
func (f *File) Header() FileHeader { return f.hdr }

// ByteOrder returns the declared encoding of the file, nil for
// write-only sessions.
func (f *File) ByteOrder() binary.ByteOrder { return f.order }

// MachineName returns the descriptive name of the header's machine.
func (f *File) MachineName() string { return MachineName(Machine(f.hdr.Machine)) }

func (f *File) NumProg() int { return len(f.phdrs) }
func (f *File) NumSect() int { return len(f.sections) }

// ProgHeader returns one normalized program header by index.
func (f *File) ProgHeader(i int) (ProgHeader, error) {
	if f.phdrs == nil {
		return ProgHeader{}, errors.Wrap(ErrState, "program headers not loaded")
	}
	if i < 0 || i >= len(f.phdrs) {
		return ProgHeader{}, errors.Wrapf(ErrIndexRange, "program header %d of %d", i, len(f.phdrs))
	}
	return f.phdrs[i], nil
}

// SectHeader returns one normalized section header by index.
func (f *File) SectHeader(i int) (SectionHeader, error) {
	if f.sections == nil {
		return SectionHeader{}, errors.Wrap(ErrState, "section headers not loaded")
	}
	if i < 0 || i >= len(f.sections) {
		return SectionHeader{}, errors.Wrapf(ErrIndexRange, "section header %d of %d", i, len(f.sections))
	}
	return f.sections[i].hdr, nil
}

// Payload returns a section's loaded contents. The slice is owned by
// the session and valid until Close; skipped sections return nil with
// no error.
func (f *File) Payload(i int) ([]byte, error) {
	if f.state != statePayloadsLoaded {
		return nil, errors.Wrapf(ErrState, "payloads in state %s", f.state)
	}
	if i < 0 || i >= len(f.sections) {
		return nil, errors.Wrapf(ErrIndexRange, "section %d of %d", i, len(f.sections))
	}
	return f.sections[i].payload, nil
}

// Close releases payloads, tables, and the header view, then closes
// the stream when the session owns it. Closing twice fails with
// ErrState.
func (f *File) Close() error {
	if f.state == stateUnopened || f.state == stateClosed {
		return errors.Wrapf(ErrState, "close in state %s", f.state)
	}
	f.sections = nil
	f.phdrs = nil
	f.strCache = nil
	f.hdr = FileHeader{}
	f.order = nil
	f.state = stateClosed
	s := f.stream
	f.stream = nil
	return errors.Wrap(s.close(), "close")
}
