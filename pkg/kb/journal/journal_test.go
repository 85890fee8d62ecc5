package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Prefix: "mykb", NumAxioms: 10, MaxDistance: 3, StartedAt: now, FinishedAt: now.Add(time.Second)},
		{Prefix: "mykb", NumAxioms: 12, MaxDistance: 3, StartedAt: now.Add(time.Hour), FinishedAt: now.Add(time.Hour + time.Second)},
		{Prefix: "other", NumAxioms: 1, MaxDistance: -1, StartedAt: now, FinishedAt: now},
	}
	for _, e := range entries {
		if err := j.Record(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := j.Recent(ctx, "mykb", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d entries, want 2", len(recent))
	}
	if recent[0].NumAxioms != 12 {
		t.Fatalf("expected newest-first, got %+v", recent[0])
	}
}

func TestRecentLimit(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	now := time.Now()
	for i := 0; i < 5; i++ {
		if err := j.Record(ctx, Entry{Prefix: "p", NumAxioms: i, StartedAt: now, FinishedAt: now}); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := j.Recent(ctx, "p", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d entries, want 2", len(recent))
	}
}

func TestNilJournalIsNoOp(t *testing.T) {
	var j *Journal
	if err := j.Record(context.Background(), Entry{}); err != nil {
		t.Fatal(err)
	}
	recent, err := j.Recent(context.Background(), "x", 10)
	if err != nil {
		t.Fatal(err)
	}
	if recent != nil {
		t.Fatalf("expected nil result from nil journal, got %v", recent)
	}
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}
}
