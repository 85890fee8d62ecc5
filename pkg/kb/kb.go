// Package kb is the knowledge base facade: a single owned handle that
// walks the NULL/COMPILE/QUERY lifecycle, accumulating axioms during
// compile and answering lookups during query, all backed by the
// on-disk stores in the sibling packages.
package kb

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/korelkb/kb/pkg/kb/argset"
	"github.com/korelkb/kb/pkg/kb/arity"
	"github.com/korelkb/kb/pkg/kb/axiom"
	"github.com/korelkb/kb/pkg/kb/codec"
	"github.com/korelkb/kb/pkg/kb/distance"
	"github.com/korelkb/kb/pkg/kb/internalerr"
	"github.com/korelkb/kb/pkg/kb/journal"
	"github.com/korelkb/kb/pkg/kb/kas"
	"github.com/korelkb/kb/pkg/kb/kbconf"
	"github.com/korelkb/kb/pkg/kb/logic"
	"github.com/korelkb/kb/pkg/kb/matrix"
	"github.com/korelkb/kb/pkg/kb/pbs"
	"github.com/korelkb/kb/pkg/kb/postponement"
)

// State is a position in the knowledge base's lifecycle.
type State uint8

const (
	StateNull State = iota
	StateCompile
	StateQuery
)

func (s State) String() string {
	switch s {
	case StateNull:
		return "NULL"
	case StateCompile:
		return "COMPILE"
	case StateQuery:
		return "QUERY"
	default:
		return "UNKNOWN"
	}
}

// Options configures a KB instance.
type Options struct {
	// Prefix is the filesystem path prefix every on-disk store is
	// written under (prefix + ".arity.dat", prefix + ".name.cdb", ...).
	Prefix string
	// MaxDistance is the reachable-matrix cutoff. <= 0 means unlimited.
	MaxDistance float32
	// DistanceProvider names the distance plug-in ("basic", "cost-based",
	// "null"). Empty defaults to "basic".
	DistanceProvider string
	// DistanceProviderParams is persisted alongside the provider name.
	DistanceProviderParams string
	// Workers bounds the matrix builder's parallelism. <= 0 defaults to 1.
	Workers int
	// StopWords names arities excluded entirely from the reachable
	// matrix. Ignored when DisableStopWord is true.
	StopWords []string
	// DisableStopWord turns off stop-word exclusion even if StopWords is
	// non-empty, so every registered arity gets a matrix row.
	DisableStopWord bool
	// Logger receives compile-time warnings and matrix build progress.
	// A nil Logger defaults to log.Default().
	Logger *log.Logger
	// Journal, if non-nil, records each compile run.
	Journal *journal.Journal
}

// KB is the knowledge base facade. Transitions between states are
// caller-serialized: no internal lock defends against concurrent
// PrepareCompile/PrepareQuery/Finalize calls.
type KB struct {
	prefix      string
	state       State
	maxDistance float32
	distFn      distance.Func
	workers     int
	stopWords   map[string]bool
	logger      *log.Logger
	journal     *journal.Journal

	// populated in COMPILE
	reg                   *arity.Registry
	axiomDB               *axiom.Database
	index                 *axiom.Index
	postponements         *postponement.Table
	arityToPostponementID map[string]axiom.ID
	argSets               *argset.Table
	compileStartedAt      time.Time

	// populated in QUERY
	conf         kbconf.Config
	qReg         *arity.Registry
	qAxiomDB     *axiom.Database
	nameKAS      *kas.Store
	lhsKAS       *kas.Store
	rhsKAS       *kas.Store
	incKAS       *kas.Store
	groupKAS     *kas.Store
	unippKAS     *kas.Store
	argSetKAS    *kas.Store
	matrixReader *matrix.Reader
}

// New constructs a KB handle in the NULL state.
func New(opts Options) (*KB, error) {
	if opts.Prefix == "" {
		return nil, fmt.Errorf("kb: new: %w", internalerr.ErrInvalidConfig)
	}
	providerName := opts.DistanceProvider
	if providerName == "" {
		providerName = "basic"
	}
	tag, err := distance.TagForName(providerName)
	if err != nil {
		return nil, fmt.Errorf("kb: new: %w", err)
	}
	distFn, err := distance.Get(tag, opts.DistanceProviderParams)
	if err != nil {
		return nil, fmt.Errorf("kb: new: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	var stopWords map[string]bool
	if !opts.DisableStopWord && len(opts.StopWords) > 0 {
		stopWords = make(map[string]bool, len(opts.StopWords))
		for _, w := range opts.StopWords {
			stopWords[w] = true
		}
	}

	return &KB{
		prefix:      opts.Prefix,
		state:       StateNull,
		maxDistance: opts.MaxDistance,
		distFn:      distFn,
		workers:     workers,
		stopWords:   stopWords,
		logger:      logger,
		journal:     opts.Journal,
	}, nil
}

// State returns the KB's current lifecycle state.
func (k *KB) State() State { return k.state }

func (k *KB) path(suffix string) string { return k.prefix + suffix }

// PrepareCompile transitions NULL -> COMPILE. It is rejected from
// COMPILE or QUERY; a caller in QUERY must call Finalize first to
// return to NULL.
func (k *KB) PrepareCompile() error {
	if k.state != StateNull {
		return fmt.Errorf("kb: prepare_compile from %s: %w", k.state, internalerr.ErrWrongState)
	}
	k.reg = arity.New()
	k.axiomDB = nil
	k.index = axiom.NewIndex()
	k.postponements = postponement.NewTable(k.logger)
	k.arityToPostponementID = make(map[string]axiom.ID)
	k.argSets = argset.NewTable()
	k.compileStartedAt = time.Now()

	db, err := axiom.NewForCompile(k.path(".axioms.dat"), k.reg)
	if err != nil {
		return fmt.Errorf("kb: prepare_compile: %w", err)
	}
	k.axiomDB = db
	k.state = StateCompile
	return nil
}

func (k *KB) registerLiteralArities(f *logic.Function) {
	for _, lit := range logic.CollectLiterals(f) {
		k.reg.Add(lit.Arity)
	}
}

// InsertImplication inserts an IMPLY(lhs, rhs) axiom. On malformed
// input the insertion is skipped and the error returned describes why;
// the caller is expected to log it and continue compiling.
func (k *KB) InsertImplication(name string, f *logic.Function) (axiom.ID, error) {
	if k.state != StateCompile {
		return 0, fmt.Errorf("kb: insert_implication: %w", internalerr.ErrWrongState)
	}
	lhs, rhs, err := logic.ImplyParts(f)
	if err != nil {
		k.logger.Printf("kb: insert_implication %q: %v, skipping", name, err)
		return 0, err
	}
	k.registerLiteralArities(lhs)
	k.registerLiteralArities(rhs)

	id, err := k.axiomDB.Put(name, f)
	if err != nil {
		k.logger.Printf("kb: insert_implication %q: %v, skipping", name, err)
		return 0, err
	}
	ax, _ := k.axiomDB.Get(id)
	k.index.AddImplication(*ax, lhs, rhs)
	return id, nil
}

// InsertInconsistency inserts an INCONSISTENT(l1, l2) axiom.
func (k *KB) InsertInconsistency(name string, f *logic.Function) (axiom.ID, error) {
	if k.state != StateCompile {
		return 0, fmt.Errorf("kb: insert_inconsistency: %w", internalerr.ErrWrongState)
	}
	l1, l2, err := logic.InconsistentParts(f)
	if err != nil {
		k.logger.Printf("kb: insert_inconsistency %q: %v, skipping", name, err)
		return 0, err
	}
	k.reg.Add(l1.Lit.Arity)
	k.reg.Add(l2.Lit.Arity)

	id, err := k.axiomDB.Put(name, f)
	if err != nil {
		k.logger.Printf("kb: insert_inconsistency %q: %v, skipping", name, err)
		return 0, err
	}
	ax, _ := k.axiomDB.Get(id)
	k.index.AddInconsistency(*ax, l1, l2)
	return id, nil
}

// InsertUnificationPostponement inserts a LITERAL(l) postponement
// configuration for l's arity. A duplicate insert for an arity already
// configured is logged as a warning; the first insert wins and its
// axiom id is returned.
func (k *KB) InsertUnificationPostponement(f *logic.Function) (axiom.ID, error) {
	if k.state != StateCompile {
		return 0, fmt.Errorf("kb: insert_unification_postponement: %w", internalerr.ErrWrongState)
	}
	entry, err := postponement.BuildEntry(f)
	if err != nil {
		k.logger.Printf("kb: insert_unification_postponement: %v, skipping", err)
		return 0, err
	}

	if existingID, exists := k.arityToPostponementID[entry.Arity]; exists {
		k.logger.Printf("postponement: duplicate insert for arity %q ignored, first insert wins", entry.Arity)
		return existingID, nil
	}

	k.reg.Add(entry.Arity)
	id, err := k.axiomDB.Put("", f)
	if err != nil {
		k.logger.Printf("kb: insert_unification_postponement: %v, skipping", err)
		return 0, err
	}
	k.postponements.Insert(entry)
	k.arityToPostponementID[entry.Arity] = id
	return id, nil
}

// InsertArgumentSet declares that l's terms occupy one argument set:
// all terms of l are unioned together, so the set also takes in every
// other argument-set declaration for l's arity that shares any term
// with it, whatever the slot. Unlike the other three insertion operations
// this declares no axiom and returns no id — only the resolved
// per-slot set id, available after Finalize through
// SearchArgumentSetID, is queryable.
func (k *KB) InsertArgumentSet(f *logic.Function) error {
	if k.state != StateCompile {
		return fmt.Errorf("kb: insert_argument_set: %w", internalerr.ErrWrongState)
	}
	if f == nil || f.Op != logic.OpLiteral || len(f.Lit.Terms) == 0 {
		err := fmt.Errorf("kb: insert_argument_set: %w", internalerr.ErrInvalidInput)
		k.logger.Printf("%v, skipping", err)
		return err
	}
	k.reg.Add(f.Lit.Arity)
	if err := k.argSets.Insert(f.Lit.Arity, f.Lit.Terms); err != nil {
		k.logger.Printf("kb: insert_argument_set: %v, skipping", err)
		return err
	}
	return nil
}

// extendInconsistency is a documented no-op hook, run first in
// Finalize's COMPILE branch. No inconsistency-derivation rule is
// defined yet; it exists so one can be added without relocating the
// finalize step order.
func (k *KB) extendInconsistency() {}

// Finalize performs the end-of-phase work for the current state. In
// COMPILE: extends inconsistencies (no-op hook), flushes the inverted
// indices, writes the group index in both directions, builds and
// writes the reachable matrix, writes the config, closes every store,
// clears the transient compile-time maps, and transitions to NULL. In
// QUERY: closes the read-only stores and transitions to NULL. In NULL,
// Finalize is a no-op.
func (k *KB) Finalize(ctx context.Context) error {
	switch k.state {
	case StateNull:
		return nil
	case StateQuery:
		return k.finalizeQuery()
	case StateCompile:
		return k.finalizeCompile(ctx)
	default:
		return fmt.Errorf("kb: finalize: %w", internalerr.ErrWrongState)
	}
}

func (k *KB) finalizeQuery() error {
	closers := []func() error{
		k.nameKAS.Close, k.lhsKAS.Close, k.rhsKAS.Close, k.incKAS.Close,
		k.groupKAS.Close, k.unippKAS.Close, k.argSetKAS.Close,
		k.qAxiomDB.Close, k.matrixReader.Close,
	}
	var firstErr error
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	k.qReg, k.qAxiomDB = nil, nil
	k.nameKAS, k.lhsKAS, k.rhsKAS, k.incKAS, k.groupKAS, k.unippKAS, k.argSetKAS = nil, nil, nil, nil, nil, nil, nil
	k.matrixReader = nil
	k.state = StateNull
	if firstErr != nil {
		return fmt.Errorf("kb: finalize: %w", firstErr)
	}
	return nil
}

func (k *KB) finalizeCompile(ctx context.Context) error {
	k.extendInconsistency()

	nameKAS, err := kas.Create(k.path(".name.cdb"))
	if err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}
	if err := k.index.FlushNameIndex(nameKAS); err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}
	if err := nameKAS.Close(); err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}

	lhsKAS, err := kas.Create(k.path(".lhs.cdb"))
	if err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}
	if err := k.index.FlushLHSIndex(lhsKAS); err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}
	if err := lhsKAS.Close(); err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}

	rhsKAS, err := kas.Create(k.path(".rhs.cdb"))
	if err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}
	if err := k.index.FlushRHSIndex(rhsKAS); err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}
	if err := rhsKAS.Close(); err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}

	incKAS, err := kas.Create(k.path(".inc.pred.cdb"))
	if err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}
	if err := k.index.FlushIncIndex(incKAS); err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}
	if err := incKAS.Close(); err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}

	argSetKAS, err := kas.Create(k.path(".arg_set.cdb"))
	if err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}
	if err := argset.Flush(argSetKAS, k.argSets.Finalize()); err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}
	if err := argSetKAS.Close(); err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}

	groupKAS, err := kas.Create(k.path(".group.cdb"))
	if err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}
	if err := k.index.FlushGroupIndex(groupKAS); err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}
	if err := groupKAS.Close(); err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}

	unippKAS, err := kas.Create(k.path(".unipp.cdb"))
	if err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}
	for arityName, id := range k.arityToPostponementID {
		w := codec.NewWriter()
		w.PutU64(uint64(id))
		if err := unippKAS.Put(arityName, w.Bytes()); err != nil {
			return fmt.Errorf("kb: finalize: %w", err)
		}
	}
	if err := unippKAS.Close(); err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}

	matrixWriter, err := pbs.Create(k.path(".rm.dat"))
	if err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}
	err = matrix.BuildMatrix(ctx, k.reg, k.axiomDB, k.distFn, matrixWriter, matrix.BuildOptions{
		MaxDistance: k.maxDistance,
		Workers:     k.workers,
		Logger:      k.logger,
		StopWords:   k.stopWords,
	})
	if err != nil {
		matrixWriter.Close()
		return fmt.Errorf("kb: finalize: %w", err)
	}
	if err := matrixWriter.Close(); err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}

	conf := kbconf.Config{
		Version:        kbconf.CurrentVersion,
		MaxDistance:    k.maxDistance,
		ProviderTag:    k.distFn.Tag(),
		ProviderParams: k.distFn.Params(),
	}
	if err := kbconf.Write(k.path(".conf"), conf); err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}

	if err := os.WriteFile(k.path(".arity.dat"), k.reg.Encode(), 0o644); err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}

	numAxioms := k.axiomDB.NumAxioms()
	if err := k.axiomDB.Close(); err != nil {
		return fmt.Errorf("kb: finalize: %w", err)
	}

	if k.journal != nil {
		_ = k.journal.Record(ctx, journal.Entry{
			Prefix:      k.prefix,
			NumAxioms:   numAxioms,
			MaxDistance: k.maxDistance,
			StartedAt:   k.compileStartedAt,
			FinishedAt:  time.Now(),
		})
	}

	k.reg, k.axiomDB, k.index, k.postponements, k.arityToPostponementID, k.argSets = nil, nil, nil, nil, nil, nil
	k.state = StateNull
	return nil
}

// PrepareQuery transitions NULL -> QUERY: the config is loaded first,
// then every store is opened read-only.
func (k *KB) PrepareQuery() error {
	if k.state != StateNull {
		return fmt.Errorf("kb: prepare_query from %s: %w", k.state, internalerr.ErrWrongState)
	}

	conf, err := kbconf.Load(k.path(".conf"))
	if err != nil {
		return fmt.Errorf("kb: prepare_query: %w", err)
	}
	distFn, err := distance.Get(conf.ProviderTag, conf.ProviderParams)
	if err != nil {
		return fmt.Errorf("kb: prepare_query: %w", err)
	}

	regBytes, err := os.ReadFile(k.path(".arity.dat"))
	if err != nil {
		return fmt.Errorf("kb: prepare_query: %w", err)
	}
	reg, err := arity.Decode(regBytes)
	if err != nil {
		return fmt.Errorf("kb: prepare_query: %w", err)
	}

	axiomDB, err := axiom.NewForQuery(k.path(".axioms.dat"), reg)
	if err != nil {
		return fmt.Errorf("kb: prepare_query: %w", err)
	}

	opened := map[string]**kas.Store{
		".name.cdb":     &k.nameKAS,
		".lhs.cdb":      &k.lhsKAS,
		".rhs.cdb":      &k.rhsKAS,
		".inc.pred.cdb": &k.incKAS,
		".group.cdb":    &k.groupKAS,
		".unipp.cdb":    &k.unippKAS,
		".arg_set.cdb":  &k.argSetKAS,
	}
	for suffix, slot := range opened {
		store, err := kas.Open(k.path(suffix))
		if err != nil {
			return fmt.Errorf("kb: prepare_query: %w", err)
		}
		*slot = store
	}

	matrixReader, err := matrix.Open(k.path(".rm.dat"))
	if err != nil {
		return fmt.Errorf("kb: prepare_query: %w", err)
	}

	k.conf = conf
	k.qReg = reg
	k.qAxiomDB = axiomDB
	k.matrixReader = matrixReader
	k.distFn = distFn
	k.maxDistance = conf.MaxDistance
	k.state = StateQuery
	return nil
}

// GetAxiom returns the axiom for id. An unknown id is a sentinel: a
// warning is logged and an empty Axiom is returned, not an error. A
// call outside QUERY is a state violation and is fatal.
func (k *KB) GetAxiom(id axiom.ID) (axiom.Axiom, error) {
	if k.state != StateQuery {
		return axiom.Axiom{}, fmt.Errorf("kb: get_axiom: %w", internalerr.ErrWrongState)
	}
	ax, err := k.qAxiomDB.Get(id)
	if err != nil {
		k.logger.Printf("kb: get_axiom: unknown id %d", id)
		return axiom.Axiom{}, nil
	}
	return *ax, nil
}

// AxiomsWithLHS returns the ids of implication axioms with a literal of
// this arity on the LHS.
func (k *KB) AxiomsWithLHS(arityName string) ([]axiom.ID, error) {
	if k.state != StateQuery {
		return nil, fmt.Errorf("kb: axioms_with_lhs: %w", internalerr.ErrWrongState)
	}
	return axiom.LookupIDs(k.lhsKAS, arityName)
}

// AxiomsWithRHS returns the ids of implication axioms with a literal of
// this arity on the RHS.
func (k *KB) AxiomsWithRHS(arityName string) ([]axiom.ID, error) {
	if k.state != StateQuery {
		return nil, fmt.Errorf("kb: axioms_with_rhs: %w", internalerr.ErrWrongState)
	}
	return axiom.LookupIDs(k.rhsKAS, arityName)
}

// SearchInconsistencies returns the ids of inconsistency axioms
// involving a literal of this arity.
func (k *KB) SearchInconsistencies(arityName string) ([]axiom.ID, error) {
	if k.state != StateQuery {
		return nil, fmt.Errorf("kb: search_inconsistencies: %w", internalerr.ErrWrongState)
	}
	return axiom.LookupIDs(k.incKAS, arityName)
}

// SearchAxiomGroup returns every axiom id sharing a group with id
// (the union of the membership of every group id belongs to).
func (k *KB) SearchAxiomGroup(id axiom.ID) ([]axiom.ID, error) {
	if k.state != StateQuery {
		return nil, fmt.Errorf("kb: search_axiom_group: %w", internalerr.ErrWrongState)
	}
	groups, err := axiom.LookupGroups(k.groupKAS, id)
	if err != nil {
		return nil, fmt.Errorf("kb: search_axiom_group: %w", err)
	}
	seen := make(map[axiom.ID]struct{})
	var out []axiom.ID
	for _, g := range groups {
		members, err := axiom.LookupGroupMembers(k.groupKAS, g)
		if err != nil {
			return nil, fmt.Errorf("kb: search_axiom_group: %w", err)
		}
		for _, m := range members {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out, nil
}

// GetUnificationPostponement returns the postponement entry configured
// for arityName, or nil if none was configured.
func (k *KB) GetUnificationPostponement(arityName string) (*postponement.Entry, error) {
	if k.state != StateQuery {
		return nil, fmt.Errorf("kb: get_unification_postponement: %w", internalerr.ErrWrongState)
	}
	blob, err := k.unippKAS.Get(arityName)
	if err != nil {
		if errors.Is(err, internalerr.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("kb: get_unification_postponement: %w", err)
	}
	r := codec.NewReader(blob)
	idVal, err := r.U64()
	if err != nil {
		return nil, fmt.Errorf("kb: get_unification_postponement: %w", err)
	}
	ax, err := k.qAxiomDB.Get(axiom.ID(idVal))
	if err != nil {
		return nil, fmt.Errorf("kb: get_unification_postponement: %w", err)
	}
	return postponement.BuildEntry(ax.Func)
}

// GetDistance returns the reachable-matrix distance between arity1 and
// arity2. An unregistered arity is a sentinel: a warning is logged and
// matrix.Unreachable is returned, not an error. A call outside QUERY is
// a state violation and is fatal.
func (k *KB) GetDistance(arity1, arity2 string) (float32, error) {
	if k.state != StateQuery {
		return matrix.Unreachable, fmt.Errorf("kb: get_distance: %w", internalerr.ErrWrongState)
	}
	a1, err := k.qReg.ArityToID(arity1)
	if err != nil {
		k.logger.Printf("kb: get_distance: unregistered arity %q", arity1)
		return matrix.Unreachable, nil
	}
	a2, err := k.qReg.ArityToID(arity2)
	if err != nil {
		k.logger.Printf("kb: get_distance: unregistered arity %q", arity2)
		return matrix.Unreachable, nil
	}
	d, err := k.matrixReader.Get(a1, a2)
	if err != nil {
		k.logger.Printf("kb: get_distance(%q, %q): %v", arity1, arity2, err)
		return matrix.Unreachable, nil
	}
	return d, nil
}

// SearchArgumentSetID returns the resolved argument-set id for the
// term at position termIdx of arityName's declared argument sets. A
// slot that was never declared is a sentinel: argset.Invalid, not an
// error.
func (k *KB) SearchArgumentSetID(arityName string, termIdx int) (argset.ID, error) {
	if k.state != StateQuery {
		return argset.Invalid, fmt.Errorf("kb: search_argument_set_id: %w", internalerr.ErrWrongState)
	}
	return argset.Lookup(k.argSetKAS, arityName, termIdx)
}

// IsValidVersion reports whether the opened KB's on-disk format version
// matches what this build understands. Valid only after PrepareQuery.
func (k *KB) IsValidVersion() bool { return k.conf.IsValidVersion() }

// NumAxioms returns the number of axioms in the knowledge base: the
// count inserted so far in COMPILE, or the count persisted in QUERY.
func (k *KB) NumAxioms() int {
	switch k.state {
	case StateCompile:
		return k.axiomDB.NumAxioms()
	case StateQuery:
		return k.qAxiomDB.NumAxioms()
	default:
		return 0
	}
}
