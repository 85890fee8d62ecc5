package main

import (
	"context"
	"flag"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/korelkb/kb/pkg/kb"
	"github.com/korelkb/kb/pkg/kb/corpus"
	"github.com/korelkb/kb/pkg/kb/journal"
)

// manifest is the YAML build manifest consumed by kb-compile: the
// corpus file list, the matrix cutoff, worker count, and the distance
// provider to compile with.
type manifest struct {
	Prefix                 string   `yaml:"prefix"`
	Sources                []string `yaml:"sources"`
	MaxDistance            float32  `yaml:"max_distance"`
	Workers                int      `yaml:"workers"`
	DistanceProvider       string   `yaml:"distance_provider"`
	DistanceProviderParams string   `yaml:"distance_provider_params"`
	JournalPath            string   `yaml:"journal_path"`
}

func loadManifest(path string) (manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest{}, err
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return manifest{}, err
	}
	return m, nil
}

func main() {
	manifestPath := flag.String("manifest", "", "Path to the YAML compile manifest (required)")
	flag.Parse()

	if *manifestPath == "" {
		log.Fatal("--manifest is required")
	}

	m, err := loadManifest(*manifestPath)
	if err != nil {
		log.Fatalf("load manifest: %v", err)
	}
	if m.Prefix == "" {
		log.Fatal("manifest: prefix is required")
	}
	if len(m.Sources) == 0 {
		log.Fatal("manifest: at least one source is required")
	}

	ctx := context.Background()

	var j *journal.Journal
	if m.JournalPath != "" {
		j, err = journal.Open(ctx, m.JournalPath)
		if err != nil {
			log.Fatalf("open journal: %v", err)
		}
		defer j.Close()
	}

	k, err := kb.New(kb.Options{
		Prefix:                 m.Prefix,
		MaxDistance:            m.MaxDistance,
		DistanceProvider:       m.DistanceProvider,
		DistanceProviderParams: m.DistanceProviderParams,
		Workers:                m.Workers,
		Journal:                j,
	})
	if err != nil {
		log.Fatalf("new kb: %v", err)
	}

	if err := k.PrepareCompile(); err != nil {
		log.Fatalf("prepare_compile: %v", err)
	}

	inserted, skipped := 0, 0
	for _, src := range m.Sources {
		stmts, lineErrs, err := corpus.ParseFileLenient(src)
		if err != nil {
			log.Fatalf("parse %s: %v", src, err)
		}
		for _, le := range lineErrs {
			log.Printf("%s: %v, skipping", src, le)
			skipped++
		}
		for _, s := range stmts {
			if err := insertStatement(k, s); err != nil {
				log.Printf("%s:%d: %v, skipping", src, s.Line, err)
				skipped++
				continue
			}
			inserted++
		}
	}

	log.Printf("inserted %d statements, skipped %d", inserted, skipped)

	if err := k.Finalize(ctx); err != nil {
		log.Fatalf("finalize: %v", err)
	}

	log.Printf("compiled knowledge base at %s", m.Prefix)
}

func insertStatement(k *kb.KB, s corpus.Statement) error {
	switch s.Kind {
	case corpus.KindImplication:
		_, err := k.InsertImplication(s.Name, s.Func)
		return err
	case corpus.KindInconsistency:
		_, err := k.InsertInconsistency(s.Name, s.Func)
		return err
	case corpus.KindPostponement:
		_, err := k.InsertUnificationPostponement(s.Func)
		return err
	case corpus.KindArgumentSet:
		return k.InsertArgumentSet(s.Func)
	default:
		return nil
	}
}
