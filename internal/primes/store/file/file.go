// Package file persists a prime registry as a flat binary stream of
// native-byte-order uint64 values, one per prime, in ascending order, with
// no header, footer, or checksum.
//
// Loaded values are trusted. Checking them would cost as much as finding
// them again, so a corrupted file produces a corrupted registry.
package file

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"primenum/internal/primes/registry"
	"primenum/pkg/platform/sentinel"
)

const valueSize = 8

// LoadFrom appends every value read from r that is greater than the
// registry's current last entry, skipping the rest. A trailing partial
// record is ignored. It returns the number of values appended.
func LoadFrom(reg *registry.Registry, r io.Reader) (int, error) {
	br := bufio.NewReader(r)
	buf := make([]byte, valueSize)
	added := 0
	for {
		if _, err := io.ReadFull(br, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return added, nil
			}
			return added, fmt.Errorf("read prime: %w", err)
		}
		value := binary.NativeEndian.Uint64(buf)
		if last, ok := reg.Last(); ok && value <= last {
			continue
		}
		if _, err := reg.Append(value); err != nil {
			return added, err
		}
		added++
	}
}

// Load opens path and calls LoadFrom.
func Load(reg *registry.Registry, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open primes file: %w", err)
	}
	defer f.Close()
	return LoadFrom(reg, f)
}

// Writer encodes primes onto an io.Writer as they are found. Writes are not
// buffered: a value is on the stream as soon as Found returns.
type Writer struct {
	w   io.Writer
	buf [valueSize]byte
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write encodes one value. Failures wrap sentinel.ErrStorageExhausted.
func (w *Writer) Write(value uint64) error {
	binary.NativeEndian.PutUint64(w.buf[:], value)
	if _, err := w.w.Write(w.buf[:]); err != nil {
		return fmt.Errorf("write prime %d: %v: %w", value, err, sentinel.ErrStorageExhausted)
	}
	return nil
}

// Found implements sieve.FoundObserver.
func (w *Writer) Found(value uint64) error {
	return w.Write(value)
}

// Dump writes every entry of reg in order.
func (w *Writer) Dump(reg *registry.Registry) error {
	for value := range reg.All() {
		if err := w.Write(value); err != nil {
			return err
		}
	}
	return nil
}

// Create truncates or creates path for writing.
func Create(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create primes file: %v: %w", err, sentinel.ErrStorageExhausted)
	}
	return f, nil
}

// Store keeps a registry in a single file for long-running callers. Appends
// go to an append-only handle opened on first use.
type Store struct {
	path string

	mu         sync.Mutex
	appendFile *os.File
}

// NewStore returns a Store backed by path. Nothing is opened until used.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load restores reg from the file. A missing file is an empty store.
func (s *Store) Load(_ context.Context, reg *registry.Registry) (int, error) {
	n, err := Load(reg, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	return n, err
}

// Append adds one value to the end of the file.
func (s *Store) Append(_ context.Context, value uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendFile == nil {
		f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open primes file: %v: %w", err, sentinel.ErrStorageExhausted)
		}
		s.appendFile = f
	}
	return NewWriter(s.appendFile).Write(value)
}

// Save replaces the file content with values.
func (s *Store) Save(_ context.Context, values []uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := Create(s.path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	w := NewWriter(bw)
	for _, v := range values {
		if err := w.Write(v); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush primes file: %v: %w", err, sentinel.ErrStorageExhausted)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close primes file: %v: %w", err, sentinel.ErrStorageExhausted)
	}
	return nil
}

// Close releases the append handle, if any.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendFile == nil {
		return nil
	}
	err := s.appendFile.Close()
	s.appendFile = nil
	return err
}
