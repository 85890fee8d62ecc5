package kbconf

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/korelkb/kb/pkg/kb/distance"
	"github.com/korelkb/kb/pkg/kb/internalerr"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := Config{
		Version:        CurrentVersion,
		MaxDistance:    3.5,
		ProviderTag:    distance.TagCostBased,
		ProviderParams: "k=2",
	}
	got, err := Decode(c.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if got != c {
		t.Fatalf("got %+v want %+v", got, c)
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.conf")
	c := Config{Version: CurrentVersion, MaxDistance: -1, ProviderTag: distance.TagBasic}
	if err := Write(path, c); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != c {
		t.Fatalf("got %+v want %+v", got, c)
	}
}

func TestLoadRejectsWrongVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.conf")
	c := Config{Version: CurrentVersion + 1, MaxDistance: 1, ProviderTag: distance.TagBasic}
	if err := Write(path, c); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, internalerr.ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestIsValidVersion(t *testing.T) {
	c := Config{Version: CurrentVersion}
	if !c.IsValidVersion() {
		t.Fatal("expected current version to be valid")
	}
	c.Version = CurrentVersion + 1
	if c.IsValidVersion() {
		t.Fatal("expected mismatched version to be invalid")
	}
}
