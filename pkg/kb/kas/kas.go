// Package kas implements the Keyed Append Store: a write-once
// string-to-bytes map persisted as a single file, `.cdb`-style. During
// compile, Put appends records sequentially; at Close an on-disk open
// addressing hash table is built so a re-opened store answers Get in
// O(1) average without loading the whole file into memory.
package kas

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
	"os"

	"github.com/korelkb/kb/pkg/kb/internalerr"
)

const (
	magic      uint64 = 0x4b41535f76310000 // "KAS_v1" tag, high bits
	headerSize        = 16                 // magic:u64 + footerOffset:u64
	slotSize          = 16                 // hash:u64 + recordOffset:u64
)

// Store is a Keyed Append Store, open for either writing (compile) or
// reading (query), never both.
type Store struct {
	f          *os.File
	w          *bufio.Writer // non-nil while writing
	writeOff   uint64
	entries    []entry // recorded during writing, consumed at Close
	slots      []slot  // loaded at Open for reading
	tableSize  uint64
	readOffset int64 // start of the data region, always headerSize
	closed     bool
	writable   bool
	readable   bool
}

type entry struct {
	key    string
	offset uint64
}

type slot struct {
	hash   uint64
	offset uint64 // 0 means empty
}

// Create creates a new KAS file at path for writing. The caller must
// call Close to build the read index and make the store durable.
func Create(path string) (*Store, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("kas: create %s: %w", path, err)
	}
	hdr := make([]byte, headerSize)
	binary.LittleEndian.PutUint64(hdr[0:8], magic)
	binary.LittleEndian.PutUint64(hdr[8:16], 0) // footer offset, patched at Close
	if _, err := f.Write(hdr); err != nil {
		f.Close()
		return nil, fmt.Errorf("kas: write header %s: %w", path, err)
	}
	return &Store{
		f:        f,
		w:        bufio.NewWriter(f),
		writeOff: headerSize,
		writable: true,
	}, nil
}

// Open opens an existing KAS file at path for reading. The on-disk hash
// table is loaded into memory; record data is read on demand with
// positioned reads (ReadAt, no mmap).
func Open(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("kas: open %s: %w", path, err)
	}
	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(f, hdr); err != nil {
		f.Close()
		return nil, fmt.Errorf("kas: read header %s: %w", path, err)
	}
	if binary.LittleEndian.Uint64(hdr[0:8]) != magic {
		f.Close()
		return nil, fmt.Errorf("kas: %s: %w", path, internalerr.ErrInvalidInput)
	}
	footerOffset := binary.LittleEndian.Uint64(hdr[8:16])
	if footerOffset == 0 {
		f.Close()
		return nil, fmt.Errorf("kas: %s: store was never closed after writing: %w", path, internalerr.ErrInvalidInput)
	}

	if _, err := f.Seek(int64(footerOffset), io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("kas: seek footer %s: %w", path, err)
	}
	footerHdr := make([]byte, 16)
	if _, err := io.ReadFull(f, footerHdr); err != nil {
		f.Close()
		return nil, fmt.Errorf("kas: read footer header %s: %w", path, err)
	}
	tableSize := binary.LittleEndian.Uint64(footerHdr[0:8])

	slots := make([]slot, tableSize)
	raw := make([]byte, tableSize*slotSize)
	if _, err := io.ReadFull(f, raw); err != nil {
		f.Close()
		return nil, fmt.Errorf("kas: read slot table %s: %w", path, err)
	}
	for i := uint64(0); i < tableSize; i++ {
		off := i * slotSize
		slots[i] = slot{
			hash:   binary.LittleEndian.Uint64(raw[off : off+8]),
			offset: binary.LittleEndian.Uint64(raw[off+8 : off+16]),
		}
	}

	return &Store{
		f:          f,
		slots:      slots,
		tableSize:  tableSize,
		readOffset: headerSize,
		readable:   true,
	}, nil
}

// IsWritable reports whether Put may be called.
func (s *Store) IsWritable() bool { return s.writable && !s.closed }

// IsReadable reports whether Get may be called.
func (s *Store) IsReadable() bool { return s.readable && !s.closed }

// Put appends a key/value record. Valid only on a store opened with
// Create, before Close. Duplicate keys are not rejected; after Close,
// Get returns the value of the first Put for a duplicated key.
func (s *Store) Put(key string, value []byte) error {
	if !s.IsWritable() {
		return fmt.Errorf("kas: put: %w", internalerr.ErrStoreUnavailable)
	}
	recOff := s.writeOff
	var lenBuf [4]byte

	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(key)))
	if _, err := s.w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("kas: put %q: %w", key, err)
	}
	if _, err := s.w.WriteString(key); err != nil {
		return fmt.Errorf("kas: put %q: %w", key, err)
	}
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(value)))
	if _, err := s.w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("kas: put %q: %w", key, err)
	}
	if _, err := s.w.Write(value); err != nil {
		return fmt.Errorf("kas: put %q: %w", key, err)
	}

	s.writeOff += 4 + uint64(len(key)) + 4 + uint64(len(value))
	s.entries = append(s.entries, entry{key: key, offset: recOff})
	return nil
}

// Get looks up key, returning internalerr.ErrNotFound if absent. Valid
// only on a store opened with Open.
func (s *Store) Get(key string) ([]byte, error) {
	if !s.IsReadable() {
		return nil, fmt.Errorf("kas: get: %w", internalerr.ErrStoreUnavailable)
	}
	if s.tableSize == 0 {
		return nil, fmt.Errorf("kas: %q: %w", key, internalerr.ErrNotFound)
	}
	h := hashKey(key)
	idx := h % s.tableSize
	for probes := uint64(0); probes < s.tableSize; probes++ {
		sl := s.slots[idx]
		if sl.offset == 0 {
			return nil, fmt.Errorf("kas: %q: %w", key, internalerr.ErrNotFound)
		}
		if sl.hash == h {
			gotKey, value, err := s.readRecord(sl.offset)
			if err != nil {
				return nil, err
			}
			if gotKey == key {
				return value, nil
			}
		}
		idx = (idx + 1) % s.tableSize
	}
	return nil, fmt.Errorf("kas: %q: %w", key, internalerr.ErrNotFound)
}

func (s *Store) readRecord(offset uint64) (string, []byte, error) {
	lenBuf := make([]byte, 4)
	if _, err := s.f.ReadAt(lenBuf, int64(offset)); err != nil {
		return "", nil, fmt.Errorf("kas: read record at %d: %w", offset, err)
	}
	keyLen := binary.LittleEndian.Uint32(lenBuf)
	keyBuf := make([]byte, keyLen)
	if _, err := s.f.ReadAt(keyBuf, int64(offset)+4); err != nil {
		return "", nil, fmt.Errorf("kas: read record key at %d: %w", offset, err)
	}
	valLenBuf := make([]byte, 4)
	valLenOff := int64(offset) + 4 + int64(keyLen)
	if _, err := s.f.ReadAt(valLenBuf, valLenOff); err != nil {
		return "", nil, fmt.Errorf("kas: read record value length at %d: %w", offset, err)
	}
	valLen := binary.LittleEndian.Uint32(valLenBuf)
	valBuf := make([]byte, valLen)
	if _, err := s.f.ReadAt(valBuf, valLenOff+4); err != nil {
		return "", nil, fmt.Errorf("kas: read record value at %d: %w", offset, err)
	}
	return string(keyBuf), valBuf, nil
}

// Close finalizes the store. If it was opened with Create, the hash
// index is built from the recorded entries, appended as a trailer, the
// header is patched to point at it, and the file is fsynced before
// being closed. If it was opened with Open, it is simply closed.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.readable {
		return s.f.Close()
	}

	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("kas: flush: %w", err)
	}

	tableSize := nextPow2(uint64(len(s.entries))*2 + 1)
	slots := make([]slot, tableSize)
	for _, e := range s.entries {
		h := hashKey(e.key)
		idx := h % tableSize
		for slots[idx].offset != 0 {
			idx = (idx + 1) % tableSize
		}
		slots[idx] = slot{hash: h, offset: e.offset}
	}

	footerOffset := s.writeOff
	footerBuf := make([]byte, 16+tableSize*slotSize)
	binary.LittleEndian.PutUint64(footerBuf[0:8], tableSize)
	binary.LittleEndian.PutUint64(footerBuf[8:16], uint64(len(s.entries)))
	for i, sl := range slots {
		off := 16 + uint64(i)*slotSize
		binary.LittleEndian.PutUint64(footerBuf[off:off+8], sl.hash)
		binary.LittleEndian.PutUint64(footerBuf[off+8:off+16], sl.offset)
	}
	if _, err := s.f.WriteAt(footerBuf, int64(footerOffset)); err != nil {
		return fmt.Errorf("kas: write footer: %w", err)
	}

	hdr := make([]byte, 8)
	binary.LittleEndian.PutUint64(hdr, footerOffset)
	if _, err := s.f.WriteAt(hdr, 8); err != nil {
		return fmt.Errorf("kas: patch header: %w", err)
	}

	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("kas: fsync: %w", err)
	}
	return s.f.Close()
}

func hashKey(key string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return h.Sum64()
}

func nextPow2(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}
