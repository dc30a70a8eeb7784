package elf

import "github.com/pkg/errors"

// Sentinel errors. Decode operations wrap these with positional
// context; callers discriminate with errors.Is. Anything else coming
// out of this package wraps an underlying I/O failure.
var (
	ErrBadMagic    = errors.New("not an ELF file")
	ErrBadClass    = errors.New("not a 32-bit ELF file")
	ErrBadEncoding = errors.New("unknown data encoding")
	ErrEntSize     = errors.New("entry size mismatch")
	ErrState       = errors.New("operation out of sequence")
	ErrBadMode     = errors.New("invalid open mode")
	ErrNameTooLong = errors.New("file name too long")
	ErrIndexRange  = errors.New("index out of range")
	ErrNoPayload   = errors.New("section has no payload")
	ErrNoStrings   = errors.New("no string table")
	ErrStrRange    = errors.New("string offset out of range")
)
