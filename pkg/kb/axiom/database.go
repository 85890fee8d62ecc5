package axiom

import (
	"fmt"

	"github.com/korelkb/kb/pkg/kb/arity"
	"github.com/korelkb/kb/pkg/kb/codec"
	"github.com/korelkb/kb/pkg/kb/internalerr"
	"github.com/korelkb/kb/pkg/kb/logic"
	"github.com/korelkb/kb/pkg/kb/pbs"
)

// Database is the positional-blob-store-backed record of every axiom
// inserted during compile, keyed by its monotonic id.
type Database struct {
	store        *pbs.Store
	reg          *arity.Registry
	nextID       ID
	unnamedCount int
	writable     bool
	// pending holds the records written in compile state, so Get can
	// serve them before the write-only store is closed.
	pending map[ID][]byte
}

// NewForCompile creates a new axiom database backed by a PBS file at
// path, ready to accept Put calls.
func NewForCompile(path string, reg *arity.Registry) (*Database, error) {
	store, err := pbs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("axiom: new database: %w", err)
	}
	return &Database{store: store, reg: reg, writable: true, pending: make(map[ID][]byte)}, nil
}

// NewForQuery opens an existing axiom database at path read-only.
func NewForQuery(path string, reg *arity.Registry) (*Database, error) {
	store, err := pbs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("axiom: open database: %w", err)
	}
	return &Database{store: store, reg: reg}, nil
}

// Put assigns the next monotonic id to f, generating a name if name is
// empty, serializes the record (id, name, func), and appends it to the
// database. It returns the id assigned.
func (d *Database) Put(name string, f *logic.Function) (ID, error) {
	if !d.writable {
		return 0, fmt.Errorf("axiom: put: %w", internalerr.ErrStoreUnavailable)
	}
	if name == "" {
		name = GenerateName(d.unnamedCount)
		d.unnamedCount++
	}
	id := d.nextID
	d.nextID++

	w := codec.NewWriter()
	w.PutU64(uint64(id))
	w.PutString(name)
	if err := logic.EncodeFunction(w, f, d.reg); err != nil {
		return 0, fmt.Errorf("axiom: put %q: %w", name, err)
	}
	if err := d.store.Put(uint64(id), w.Bytes()); err != nil {
		return 0, fmt.Errorf("axiom: put %q: %w", name, err)
	}
	d.pending[id] = w.Bytes()
	return id, nil
}

// Get reads the axiom record for id. If id is unknown, it returns the
// internalerr.ErrNotFound sentinel; callers that want query-time
// robustness (per the facade's empty-axiom sentinel policy) should
// translate this into an empty Axiom rather than propagate it. In
// compile state the records put so far are served from memory.
func (d *Database) Get(id ID) (*Axiom, error) {
	var blob []byte
	if d.writable {
		b, ok := d.pending[id]
		if !ok {
			return nil, fmt.Errorf("axiom: get %d: %w", id, internalerr.ErrNotFound)
		}
		blob = b
	} else {
		b, err := d.store.Get(uint64(id))
		if err != nil {
			return nil, fmt.Errorf("axiom: get %d: %w", id, err)
		}
		blob = b
	}
	r := codec.NewReader(blob)
	gotID, err := r.U64()
	if err != nil {
		return nil, fmt.Errorf("axiom: decode %d: %w", id, err)
	}
	name, err := r.String()
	if err != nil {
		return nil, fmt.Errorf("axiom: decode %d: %w", id, err)
	}
	f, err := logic.DecodeFunction(r, d.reg)
	if err != nil {
		return nil, fmt.Errorf("axiom: decode %d: %w", id, err)
	}
	return &Axiom{ID: ID(gotID), Name: name, Func: f}, nil
}

// NumAxioms returns the number of axioms inserted so far (compile) or
// persisted (query).
func (d *Database) NumAxioms() int {
	if d.writable {
		return int(d.nextID)
	}
	return len(d.store.Keys())
}

// Close closes the underlying store.
func (d *Database) Close() error { return d.store.Close() }
