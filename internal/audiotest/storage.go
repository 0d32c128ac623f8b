// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"fmt"
	"io"
	"sync"

	"github.com/ik5/audmix/audio"
)

// Storage is an in-memory audio.Storage that records every open.
type Storage struct {
	mu      sync.Mutex
	assets  map[string][]byte
	opens   []string
	streams []*Stream
}

var _ audio.Storage = (*Storage)(nil)

// NewStorage returns a store holding assets.
func NewStorage(assets map[string][]byte) *Storage {
	if assets == nil {
		assets = make(map[string][]byte)
	}
	return &Storage{assets: assets}
}

// Put adds or replaces an asset.
func (s *Storage) Put(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[name] = data
}

func (s *Storage) Open(name string) (audio.ByteStream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.opens = append(s.opens, name)
	data, ok := s.assets[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, audio.ErrAssetNotFound)
	}
	st := &Stream{name: name, data: data}
	s.streams = append(s.streams, st)
	return st, nil
}

// Opens lists every name Open was called with, in order.
func (s *Storage) Opens() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.opens...)
}

// Streams lists every stream handed out, in order.
func (s *Storage) Streams() []*Stream {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Stream(nil), s.streams...)
}

// Stream is a byte stream over a fixed slice that counts reads and rewinds.
type Stream struct {
	mu      sync.Mutex
	name    string
	data    []byte
	pos     int
	reads   int
	rewinds int
	closed  bool
}

func (s *Stream) Name() string { return s.name }

func (s *Stream) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	return len(s.data) - s.pos
}

func (s *Stream) ReadByte() (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.pos >= len(s.data) {
		return 0, io.EOF
	}
	b := s.data[s.pos]
	s.pos++
	s.reads++
	return b, nil
}

func (s *Stream) Rewind() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = 0
	s.rewinds++
	return nil
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Reads is the number of bytes consumed so far.
func (s *Stream) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// Rewinds is the number of Rewind calls.
func (s *Stream) Rewinds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rewinds
}

// Closed reports whether Close was called.
func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Ramp returns n bytes counting up from start, wrapping at 256.
func Ramp(start, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(start + i)
	}
	return out
}

// Fill returns n copies of v.
func Fill(v int8, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(v)
	}
	return out
}
