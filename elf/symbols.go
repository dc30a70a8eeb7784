package elf

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/objtools/objio/byteorder"
)

// symPayload validates that section holds a loaded table of
// symbol-sized records and returns its payload.
func (f *File) symPayload(section int) ([]byte, error) {
	if f.state != statePayloadsLoaded {
		return nil, errors.Wrapf(ErrState, "symbols in state %s", f.state)
	}
	if section < 0 || section >= len(f.sections) {
		return nil, errors.Wrapf(ErrIndexRange, "section %d of %d", section, len(f.sections))
	}
	sec := &f.sections[section]
	if int(sec.hdr.Entsize) != SymSize {
		return nil, errors.Wrapf(ErrEntSize, "section %d entry size %d, want %d", section, sec.hdr.Entsize, SymSize)
	}
	if sec.payload == nil {
		return nil, errors.Wrapf(ErrNoPayload, "section %d", section)
	}
	return sec.payload, nil
}

// NumSyms returns how many symbol records a loaded symbol table
// section holds.
func (f *File) NumSyms(section int) (int, error) {
	p, err := f.symPayload(section)
	if err != nil {
		return 0, err
	}
	return len(p) / SymSize, nil
}

// Sym decodes one symbol record from a loaded symbol table section.
// The record's numeric fields come back in host order; the result is
// a copy with no aliasing into the payload.
func (f *File) Sym(section, index int) (Sym, error) {
	p, err := f.symPayload(section)
	if err != nil {
		return Sym{}, err
	}
	if index < 0 || index >= len(p)/SymSize {
		return Sym{}, errors.Wrapf(ErrIndexRange, "symbol %d, section holds %d", index, len(p)/SymSize)
	}
	var sym Sym
	sr := io.NewSectionReader(bytes.NewReader(p), int64(index)*SymSize, SymSize)
	if err := struc.UnpackWithOrder(sr, &sym, byteorder.Native()); err != nil {
		return Sym{}, errors.Wrapf(err, "symbol %d", index)
	}
	normalizeSym(&sym, f.order, byteorder.Native())
	return sym, nil
}

// normalizeSym swaps the 32-bit fields and the section index; Info and
// Other are single bytes and never swap.
func normalizeSym(s *Sym, src, host binary.ByteOrder) {
	if src == host {
		return
	}
	s.Name = byteorder.Swap32(s.Name)
	s.Value = byteorder.Swap32(s.Value)
	s.Size = byteorder.Swap32(s.Size)
	s.Shndx = byteorder.Swap16(s.Shndx)
}
