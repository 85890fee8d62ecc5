package matrix

import (
	"errors"
	"fmt"

	"github.com/korelkb/kb/pkg/kb/arity"
	"github.com/korelkb/kb/pkg/kb/internalerr"
	"github.com/korelkb/kb/pkg/kb/pbs"
)

// Unreachable is the sentinel Get returns for a pair with no recorded
// distance.
const Unreachable float32 = -1

// Reader serves Get/Row lookups against a matrix built by BuildMatrix
// and persisted to a PBS file.
type Reader struct {
	store *pbs.Store
}

// Open opens the matrix PBS file at path for reading.
func Open(path string) (*Reader, error) {
	store, err := pbs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("matrix: open %s: %w", path, err)
	}
	return &Reader{store: store}, nil
}

// Close closes the underlying store.
func (r *Reader) Close() error { return r.store.Close() }

// Get returns the distance between a and b, swapping them so the
// lookup honors the symmetric storage convention (rows are keyed by the
// smaller id). Returns Unreachable if no entry is present, including
// when either arity's row was never built.
func (r *Reader) Get(a, b arity.ID) (float32, error) {
	if a > b {
		a, b = b, a
	}
	row, err := r.Row(a)
	if err != nil {
		return Unreachable, err
	}
	d, ok := row[b]
	if !ok {
		return Unreachable, nil
	}
	return d, nil
}

// Row returns every distance recorded for source a, keyed by the target
// arity id (targets b >= a only, per the symmetric storage convention).
// A source with no row at all returns an empty map, not an error.
func (r *Reader) Row(a arity.ID) (map[arity.ID]float32, error) {
	blob, err := r.store.Get(uint64(a))
	if err != nil {
		if errors.Is(err, internalerr.ErrNotFound) {
			return map[arity.ID]float32{}, nil
		}
		return nil, fmt.Errorf("matrix: row %d: %w", a, err)
	}
	return decodeRow(blob)
}
