// Package matrix builds and serves the reachable matrix: the minimum
// forward/backward chaining distance between every ordered pair of
// predicate arities, subject to a pluggable distance function and an
// optional cutoff.
package matrix

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/korelkb/kb/pkg/kb/arity"
	"github.com/korelkb/kb/pkg/kb/axiom"
	"github.com/korelkb/kb/pkg/kb/codec"
	"github.com/korelkb/kb/pkg/kb/distance"
	"github.com/korelkb/kb/pkg/kb/logic"
	"github.com/korelkb/kb/pkg/kb/pbs"
)

// AxiomSource is the narrow view of the axiom database the matrix
// builder needs: enough to walk every implication's literal arities.
// axiom.Database satisfies this directly.
type AxiomSource interface {
	NumAxioms() int
	Get(id axiom.ID) (*axiom.Axiom, error)
}

type graphEdge struct {
	to     arity.ID
	weight float32
}

// BuildOptions configures BuildMatrix.
type BuildOptions struct {
	// MaxDistance is the cutoff. <= 0 means unlimited.
	MaxDistance float32
	// Workers bounds the number of goroutines computing rows in
	// parallel. <= 0 defaults to 1.
	Workers int
	// Logger receives periodic progress reports. A nil Logger defaults
	// to log.Default().
	Logger *log.Logger
	// StopWords names arities excluded entirely from the reachable
	// matrix: no row is built for them and no direct edge touches them,
	// so a lookup to or from one is always Unreachable. A nil map
	// excludes nothing.
	StopWords map[string]bool
}

// BuildMatrix computes the reachable matrix for every arity in reg and
// writes one row per source arity into writer, keyed by arity id, with
// entries stored only for b >= a (the symmetric storage convention).
// Rows are independent of each other; PBS appends are serialized
// through a mutex while row computation itself runs across
// opts.Workers goroutines.
func BuildMatrix(ctx context.Context, reg *arity.Registry, src AxiomSource, dist distance.Func, writer *pbs.Store, opts BuildOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	graph, err := buildDirectEdges(reg, src, dist, opts.StopWords)
	if err != nil {
		return fmt.Errorf("matrix: build direct edges: %w", err)
	}

	arities := reg.All()
	if opts.StopWords != nil {
		filtered := make([]string, 0, len(arities))
		for _, name := range arities {
			if opts.StopWords[name] {
				continue
			}
			filtered = append(filtered, name)
		}
		arities = filtered
	}
	total := len(arities)
	var (
		mu          sync.Mutex
		done        int
		lastReport  = time.Now()
		reportEvery = time.Second
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, name := range arities {
		name := name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := reg.ArityToID(name)
			if err != nil {
				return err
			}
			dists := shortestPathsFrom(graph, a, opts.MaxDistance)

			row := rowForSource(a, dists)
			blob := encodeRow(row)

			mu.Lock()
			putErr := writer.Put(uint64(a), blob)
			done++
			shouldReport := time.Since(lastReport) >= reportEvery
			if shouldReport {
				lastReport = time.Now()
			}
			mu.Unlock()

			if shouldReport {
				logger.Printf("matrix: %d/%d rows written", done, total)
			}
			return putErr
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("matrix: build: %w", err)
	}
	logger.Printf("matrix: %d/%d rows written", total, total)
	return nil
}

// buildDirectEdges derives the step-1 direct edges: for every
// implication axiom, every LHS literal arity is connected to every RHS
// literal arity with the axiom's distance as weight, undirected (the
// matrix answers both forward and backward chaining distance). An
// axiom whose distance provider reports a negative value contributes no
// edge. When multiple axioms connect the same pair, the smallest weight
// wins. Any literal whose arity is in stopWords is excluded entirely,
// on either side of the implication.
func buildDirectEdges(reg *arity.Registry, src AxiomSource, dist distance.Func, stopWords map[string]bool) (map[arity.ID][]graphEdge, error) {
	graph := make(map[arity.ID][]graphEdge)
	weights := make(map[[2]arity.ID]float32)

	addEdge := func(a, b arity.ID, w float32) {
		if a == b {
			return
		}
		key := [2]arity.ID{a, b}
		if existing, ok := weights[key]; !ok || w < existing {
			weights[key] = w
		}
	}

	for i := 0; i < src.NumAxioms(); i++ {
		ax, err := src.Get(axiom.ID(i))
		if err != nil {
			continue
		}
		if ax.Func == nil || ax.Func.Op != logic.OpImply {
			continue
		}
		lhs, rhs, err := logic.ImplyParts(ax.Func)
		if err != nil {
			continue
		}
		w := dist.Distance(ax.Func)
		if w < 0 {
			continue
		}

		lhsLits := logic.CollectLiterals(lhs)
		rhsLits := logic.CollectLiterals(rhs)
		for _, l := range lhsLits {
			if stopWords[l.Arity] {
				continue
			}
			aID, err := reg.ArityToID(l.Arity)
			if err != nil {
				continue
			}
			for _, r := range rhsLits {
				if stopWords[r.Arity] {
					continue
				}
				bID, err := reg.ArityToID(r.Arity)
				if err != nil {
					continue
				}
				if aID < bID {
					addEdge(aID, bID, w)
				} else {
					addEdge(bID, aID, w)
				}
			}
		}
	}

	for key, w := range weights {
		a, b := key[0], key[1]
		graph[a] = append(graph[a], graphEdge{to: b, weight: w})
		graph[b] = append(graph[b], graphEdge{to: a, weight: w})
	}
	return graph, nil
}

// shortestPathsFrom runs a bounded label-correcting frontier expansion
// from source over graph: repeatedly relax every edge out of the
// current frontier, skipping any relaxation that would exceed the
// cutoff or that is not an improvement over the current best distance.
// A distance exactly at the cutoff is still stored (every stored
// distance is <= maxDistance); a node is re-queued for the next
// frontier only while its distance stays strictly under the cutoff,
// since no edge out of it could still land within bounds otherwise.
// maxDistance <= 0 means unlimited.
func shortestPathsFrom(graph map[arity.ID][]graphEdge, source arity.ID, maxDistance float32) map[arity.ID]float32 {
	dist := map[arity.ID]float32{source: 0}
	frontier := []arity.ID{source}

	for len(frontier) > 0 {
		var next []arity.ID
		seen := make(map[arity.ID]bool)
		for _, u := range frontier {
			for _, e := range graph[u] {
				dPrime := dist[u] + e.weight
				if maxDistance > 0 && dPrime > maxDistance {
					continue
				}
				if existing, ok := dist[e.to]; ok && dPrime >= existing {
					continue
				}
				dist[e.to] = dPrime
				if (maxDistance <= 0 || dPrime < maxDistance) && !seen[e.to] {
					seen[e.to] = true
					next = append(next, e.to)
				}
			}
		}
		frontier = next
	}
	return dist
}

// rowForSource filters dists to the symmetric storage convention: only
// targets b >= a are kept (the diagonal a==a is included).
func rowForSource(a arity.ID, dists map[arity.ID]float32) map[arity.ID]float32 {
	row := make(map[arity.ID]float32)
	for b, d := range dists {
		if b >= a {
			row[b] = d
		}
	}
	return row
}

func encodeRow(row map[arity.ID]float32) []byte {
	w := codec.NewWriter()
	w.PutU64(uint64(len(row)))
	for b, d := range row {
		w.PutU64(uint64(b))
		w.PutF32(d)
	}
	return w.Bytes()
}

func decodeRow(b []byte) (map[arity.ID]float32, error) {
	r := codec.NewReader(b)
	count, err := r.U64()
	if err != nil {
		return nil, fmt.Errorf("matrix: decode row: %w", err)
	}
	row := make(map[arity.ID]float32, count)
	for i := uint64(0); i < count; i++ {
		bID, err := r.U64()
		if err != nil {
			return nil, fmt.Errorf("matrix: decode row entry %d: %w", i, err)
		}
		d, err := r.F32()
		if err != nil {
			return nil, fmt.Errorf("matrix: decode row entry %d: %w", i, err)
		}
		row[arity.ID(bID)] = d
	}
	return row, nil
}
