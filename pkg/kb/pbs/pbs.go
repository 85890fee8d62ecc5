// Package pbs implements the Positional Blob Store: a write-once
// uint64-keyed byte-blob map persisted as a single file. Blobs are
// written sequentially during compile; at Close a trailer mapping each
// key to its blob offset is appended and the header is patched to point
// at it.
package pbs

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/korelkb/kb/pkg/kb/internalerr"
)

const headerSize = 8 // trailer offset, patched at Close

// Store is a Positional Blob Store, open for either writing (compile)
// or reading (query), never both.
type Store struct {
	f        *os.File
	w        *bufio.Writer
	writeOff uint64
	offsets  map[uint64]uint64 // key -> offset, populated while writing or after Open
	closed   bool
	writable bool
	readable bool
}

// Create creates a new PBS file at path for writing.
func Create(path string) (*Store, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("pbs: create %s: %w", path, err)
	}
	hdr := make([]byte, headerSize)
	if _, err := f.Write(hdr); err != nil {
		f.Close()
		return nil, fmt.Errorf("pbs: write header %s: %w", path, err)
	}
	return &Store{
		f:        f,
		w:        bufio.NewWriter(f),
		writeOff: headerSize,
		offsets:  make(map[uint64]uint64),
		writable: true,
	}, nil
}

// Open opens an existing PBS file at path for reading. The trailer is
// loaded into memory; blob data is read on demand.
func Open(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pbs: open %s: %w", path, err)
	}
	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(f, hdr); err != nil {
		f.Close()
		return nil, fmt.Errorf("pbs: read header %s: %w", path, err)
	}
	trailerOffset := binary.LittleEndian.Uint64(hdr)
	if trailerOffset == 0 {
		f.Close()
		return nil, fmt.Errorf("pbs: %s: store was never closed after writing: %w", path, internalerr.ErrInvalidInput)
	}

	if _, err := f.Seek(int64(trailerOffset), io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("pbs: seek trailer %s: %w", path, err)
	}
	countBuf := make([]byte, 8)
	if _, err := io.ReadFull(f, countBuf); err != nil {
		f.Close()
		return nil, fmt.Errorf("pbs: read trailer count %s: %w", path, err)
	}
	count := binary.LittleEndian.Uint64(countBuf)

	pairBuf := make([]byte, count*16)
	if _, err := io.ReadFull(f, pairBuf); err != nil {
		f.Close()
		return nil, fmt.Errorf("pbs: read trailer pairs %s: %w", path, err)
	}
	offsets := make(map[uint64]uint64, count)
	for i := uint64(0); i < count; i++ {
		off := i * 16
		key := binary.LittleEndian.Uint64(pairBuf[off : off+8])
		blobOff := binary.LittleEndian.Uint64(pairBuf[off+8 : off+16])
		offsets[key] = blobOff
	}

	return &Store{
		f:        f,
		offsets:  offsets,
		readable: true,
	}, nil
}

// IsWritable reports whether Put may be called.
func (s *Store) IsWritable() bool { return s.writable && !s.closed }

// IsReadable reports whether Get may be called.
func (s *Store) IsReadable() bool { return s.readable && !s.closed }

// Put writes a blob at the given key. Valid only on a store opened with
// Create. A duplicate key overwrites the earlier key-to-offset mapping;
// the earlier blob bytes remain in the file but become unreachable.
func (s *Store) Put(key uint64, blob []byte) error {
	if !s.IsWritable() {
		return fmt.Errorf("pbs: put: %w", internalerr.ErrStoreUnavailable)
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(blob)))
	if _, err := s.w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("pbs: put %d: %w", key, err)
	}
	if _, err := s.w.Write(blob); err != nil {
		return fmt.Errorf("pbs: put %d: %w", key, err)
	}
	s.offsets[key] = s.writeOff
	s.writeOff += 4 + uint64(len(blob))
	return nil
}

// Get returns the blob stored at key, or internalerr.ErrNotFound if
// absent. Valid only on a store opened with Open.
func (s *Store) Get(key uint64) ([]byte, error) {
	if !s.IsReadable() {
		return nil, fmt.Errorf("pbs: get: %w", internalerr.ErrStoreUnavailable)
	}
	offset, ok := s.offsets[key]
	if !ok {
		return nil, fmt.Errorf("pbs: key %d: %w", key, internalerr.ErrNotFound)
	}
	lenBuf := make([]byte, 4)
	if _, err := s.f.ReadAt(lenBuf, int64(offset)); err != nil {
		return nil, fmt.Errorf("pbs: read blob length at %d: %w", offset, err)
	}
	blobLen := binary.LittleEndian.Uint32(lenBuf)
	blob := make([]byte, blobLen)
	if _, err := s.f.ReadAt(blob, int64(offset)+4); err != nil {
		return nil, fmt.Errorf("pbs: read blob at %d: %w", offset, err)
	}
	return blob, nil
}

// Keys returns every key present in the store, read or write side.
func (s *Store) Keys() []uint64 {
	out := make([]uint64, 0, len(s.offsets))
	for k := range s.offsets {
		out = append(out, k)
	}
	return out
}

// Close finalizes the store. If it was opened with Create, the trailer
// is appended and the header patched to point at it, then the file is
// fsynced. If it was opened with Open, it is simply closed.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.readable {
		return s.f.Close()
	}

	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("pbs: flush: %w", err)
	}

	trailerOffset := s.writeOff
	trailer := make([]byte, 8+len(s.offsets)*16)
	binary.LittleEndian.PutUint64(trailer[0:8], uint64(len(s.offsets)))
	i := 0
	for key, off := range s.offsets {
		base := 8 + i*16
		binary.LittleEndian.PutUint64(trailer[base:base+8], key)
		binary.LittleEndian.PutUint64(trailer[base+8:base+16], off)
		i++
	}
	if _, err := s.f.WriteAt(trailer, int64(trailerOffset)); err != nil {
		return fmt.Errorf("pbs: write trailer: %w", err)
	}

	hdr := make([]byte, 8)
	binary.LittleEndian.PutUint64(hdr, trailerOffset)
	if _, err := s.f.WriteAt(hdr, 0); err != nil {
		return fmt.Errorf("pbs: patch header: %w", err)
	}

	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("pbs: fsync: %w", err)
	}
	return s.f.Close()
}
