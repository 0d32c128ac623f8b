// SPDX-License-Identifier: EPL-2.0

package storage

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// fileStream streams a raw asset from its file.
type fileStream struct {
	name string
	file afero.File
	size int64
	pos  int64
	r    *bufio.Reader
}

func (s *fileStream) Name() string { return s.name }

func (s *fileStream) Available() int {
	if s.r == nil {
		return 0
	}
	return int(s.size - s.pos)
}

func (s *fileStream) ReadByte() (byte, error) {
	if s.r == nil || s.pos >= s.size {
		return 0, io.EOF
	}
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, err
	}
	s.pos++
	return b, nil
}

func (s *fileStream) Rewind() error {
	if s.r == nil {
		return fmt.Errorf("rewind %s: %w", s.name, afero.ErrFileClosed)
	}
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind %s: %w", s.name, err)
	}
	s.r.Reset(s.file)
	s.pos = 0
	return nil
}

func (s *fileStream) Close() error {
	if s.r == nil {
		return nil
	}
	s.r = nil
	return s.file.Close()
}

// memStream reads an asset held in memory. The data is shared between
// streams and never written.
type memStream struct {
	name   string
	data   []byte
	pos    int
	closed bool
}

func newMemStream(name string, data []byte) *memStream {
	return &memStream{name: name, data: data}
}

func (s *memStream) Name() string { return s.name }

func (s *memStream) Available() int {
	if s.closed {
		return 0
	}
	return len(s.data) - s.pos
}

func (s *memStream) ReadByte() (byte, error) {
	if s.closed || s.pos >= len(s.data) {
		return 0, io.EOF
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

func (s *memStream) Rewind() error {
	s.pos = 0
	return nil
}

func (s *memStream) Close() error {
	s.closed = true
	return nil
}
