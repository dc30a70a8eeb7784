package elf

import (
	"bytes"

	"github.com/pkg/errors"
)

// StringAt reads the NUL-terminated string at off in a loaded string
// table section. Results are cached per section on the session.
func (f *File) StringAt(section int, off uint32) (string, error) {
	if f.state != statePayloadsLoaded {
		return "", errors.Wrapf(ErrState, "strings in state %s", f.state)
	}
	if section < 0 || section >= len(f.sections) {
		return "", errors.Wrapf(ErrIndexRange, "section %d of %d", section, len(f.sections))
	}
	if c := f.strCache[section]; c != nil {
		if s, ok := c[off]; ok {
			return s, nil
		}
	}
	p := f.sections[section].payload
	if p == nil {
		return "", errors.Wrapf(ErrNoPayload, "section %d", section)
	}
	if off >= uint32(len(p)) {
		return "", errors.Wrapf(ErrStrRange, "offset %#x in %d-byte table", off, len(p))
	}
	end := bytes.IndexByte(p[off:], 0)
	if end < 0 {
		return "", errors.Wrapf(ErrStrRange, "unterminated string at %#x", off)
	}
	s := string(p[off : int(off)+end])
	if f.strCache == nil {
		f.strCache = make(map[int]map[uint32]string)
	}
	c := f.strCache[section]
	if c == nil {
		c = make(map[uint32]string)
		f.strCache[section] = c
	}
	c[off] = s
	return s, nil
}

// SectionName resolves a section's name from the section name string
// table the header points at. Payloads must be loaded first.
func (f *File) SectionName(section int) (string, error) {
	if f.state != statePayloadsLoaded {
		return "", errors.Wrapf(ErrState, "section names in state %s", f.state)
	}
	if section < 0 || section >= len(f.sections) {
		return "", errors.Wrapf(ErrIndexRange, "section %d of %d", section, len(f.sections))
	}
	if f.hdr.Shstrndx == SHN_UNDEF {
		return "", errors.Wrap(ErrNoStrings, "section names")
	}
	return f.StringAt(int(f.hdr.Shstrndx), f.sections[section].hdr.Name)
}

// SymbolName resolves a symbol's name against a string table section,
// normally the symbol section's Link. Index zero is the reserved empty
// name.
func (f *File) SymbolName(strtab int, sym Sym) (string, error) {
	if sym.Name == 0 {
		return "", nil
	}
	return f.StringAt(strtab, sym.Name)
}
