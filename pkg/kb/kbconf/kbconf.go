// Package kbconf persists the small per-knowledge-base configuration
// record (P.conf): the distance cutoff, which distance provider built
// the reachable matrix, and a format version so a re-opened KB can
// refuse to serve an incompatible on-disk layout.
package kbconf

import (
	"fmt"
	"os"

	"github.com/korelkb/kb/pkg/kb/codec"
	"github.com/korelkb/kb/pkg/kb/distance"
	"github.com/korelkb/kb/pkg/kb/internalerr"
)

// CurrentVersion is the format version this build writes and expects.
const CurrentVersion uint8 = 1

// Config is the compiled knowledge base's configuration record.
type Config struct {
	Version        uint8
	MaxDistance    float32
	ProviderTag    distance.Tag
	ProviderParams string
}

// IsValidVersion reports whether c's version matches what this build
// understands.
func (c Config) IsValidVersion() bool {
	return c.Version == CurrentVersion
}

// Encode serializes c as max_distance:f32, distance_provider_tag:u8,
// version:u8, then the provider's auxiliary parameter string.
func (c Config) Encode() []byte {
	w := codec.NewWriter()
	w.PutF32(c.MaxDistance)
	w.PutU8(uint8(c.ProviderTag))
	w.PutU8(c.Version)
	w.PutString(c.ProviderParams)
	return w.Bytes()
}

// Decode rebuilds a Config from the format written by Encode.
func Decode(b []byte) (Config, error) {
	r := codec.NewReader(b)
	maxDistance, err := r.F32()
	if err != nil {
		return Config{}, fmt.Errorf("kbconf: decode: %w", err)
	}
	tag, err := r.U8()
	if err != nil {
		return Config{}, fmt.Errorf("kbconf: decode: %w", err)
	}
	version, err := r.U8()
	if err != nil {
		return Config{}, fmt.Errorf("kbconf: decode: %w", err)
	}
	params, err := r.String()
	if err != nil {
		return Config{}, fmt.Errorf("kbconf: decode: %w", err)
	}
	return Config{
		Version:        version,
		MaxDistance:    maxDistance,
		ProviderTag:    distance.Tag(tag),
		ProviderParams: params,
	}, nil
}

// Write serializes c and writes it to path, replacing any existing
// file.
func Write(path string, c Config) error {
	if err := os.WriteFile(path, c.Encode(), 0o644); err != nil {
		return fmt.Errorf("kbconf: write %s: %w", path, err)
	}
	return nil
}

// Load reads and decodes the config at path, rejecting it if its
// version does not match CurrentVersion.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("kbconf: load %s: %w", path, err)
	}
	c, err := Decode(b)
	if err != nil {
		return Config{}, fmt.Errorf("kbconf: load %s: %w", path, err)
	}
	if !c.IsValidVersion() {
		return Config{}, fmt.Errorf("kbconf: %s: version %d unsupported: %w", path, c.Version, internalerr.ErrVersionMismatch)
	}
	return c, nil
}
