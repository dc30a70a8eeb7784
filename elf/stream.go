package elf

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// Mode selects what a session may do with its file.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
)

// Path names longer than this are rejected before touching the
// filesystem.
const maxNameLen = 255

// stream is the byte source a session decodes from. readAt returns
// exactly the requested range or an error; there is no partial result.
type stream struct {
	r      io.ReaderAt
	closer io.Closer
}

func openStream(path string, mode Mode) (*stream, error) {
	if len(path) > maxNameLen {
		return nil, errors.Wrapf(ErrNameTooLong, "%d bytes", len(path))
	}
	var (
		f   *os.File
		err error
	)
	switch mode {
	case ModeRead:
		f, err = os.Open(path)
	case ModeWrite:
		f, err = os.Create(path)
	default:
		return nil, errors.Wrapf(ErrBadMode, "mode %d", int(mode))
	}
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	return &stream{r: f, closer: f}, nil
}

func (s *stream) readAt(off int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := s.r.ReadAt(buf, off); err != nil {
		return nil, errors.Wrapf(err, "read %d bytes at %#x", n, off)
	}
	return buf, nil
}

func (s *stream) close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
