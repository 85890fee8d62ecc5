package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/korelkb/kb/pkg/kb"
	"github.com/korelkb/kb/pkg/kb/axiom"
)

func main() {
	prefix := flag.String("prefix", "", "Compiled knowledge base prefix (required)")
	op := flag.String("op", "", "Query to run: axiom, lhs, rhs, inconsistencies, group, unipp, distance, argset")
	arg1 := flag.String("arg1", "", "First argument (arity, axiom id, or arity for distance/argset)")
	arg2 := flag.String("arg2", "", "Second argument (arity for distance, term index for argset)")
	flag.Parse()

	if *prefix == "" || *op == "" {
		log.Fatal("--prefix and --op are required")
	}

	ctx := context.Background()

	k, err := kb.New(kb.Options{Prefix: *prefix})
	if err != nil {
		log.Fatalf("new kb: %v", err)
	}
	if err := k.PrepareQuery(); err != nil {
		log.Fatalf("prepare_query: %v", err)
	}
	defer k.Finalize(ctx)

	if !k.IsValidVersion() {
		log.Fatalf("%s: on-disk format version is not supported by this build", *prefix)
	}

	if err := runQuery(k, *op, *arg1, *arg2); err != nil {
		log.Fatal(err)
	}
}

func runQuery(k *kb.KB, op, arg1, arg2 string) error {
	switch op {
	case "axiom":
		id, err := strconv.ParseUint(arg1, 10, 64)
		if err != nil {
			return fmt.Errorf("axiom: invalid id %q: %w", arg1, err)
		}
		ax, err := k.GetAxiom(axiom.ID(id))
		if err != nil {
			return err
		}
		fmt.Printf("id=%d name=%q func=%+v\n", ax.ID, ax.Name, ax.Func)

	case "lhs":
		ids, err := k.AxiomsWithLHS(arg1)
		if err != nil {
			return err
		}
		fmt.Println(ids)

	case "rhs":
		ids, err := k.AxiomsWithRHS(arg1)
		if err != nil {
			return err
		}
		fmt.Println(ids)

	case "inconsistencies":
		ids, err := k.SearchInconsistencies(arg1)
		if err != nil {
			return err
		}
		fmt.Println(ids)

	case "group":
		id, err := strconv.ParseUint(arg1, 10, 64)
		if err != nil {
			return fmt.Errorf("group: invalid id %q: %w", arg1, err)
		}
		ids, err := k.SearchAxiomGroup(axiom.ID(id))
		if err != nil {
			return err
		}
		fmt.Println(ids)

	case "unipp":
		entry, err := k.GetUnificationPostponement(arg1)
		if err != nil {
			return err
		}
		fmt.Printf("%+v\n", entry)

	case "distance":
		d, err := k.GetDistance(arg1, arg2)
		if err != nil {
			return err
		}
		fmt.Println(d)

	case "argset":
		idx, err := strconv.Atoi(arg2)
		if err != nil {
			return fmt.Errorf("argset: invalid term index %q: %w", arg2, err)
		}
		id, err := k.SearchArgumentSetID(arg1, idx)
		if err != nil {
			return err
		}
		fmt.Println(id)

	default:
		return fmt.Errorf("unknown op %q", op)
	}
	return nil
}
