// Package config loads generator parameters from a typegen.toml manifest,
// following the same find-upward-then-decode convention the teacher toolchain
// uses for its own project manifest.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"typegen/internal/features"
	"typegen/internal/generator"
)

// GeneratorParams is the full set of knobs the generate/batch/inhabit
// commands need, merging generator.Params with the run-level settings that
// aren't part of the core algorithm itself.
type GeneratorParams struct {
	N        int
	Seed     int64
	Features features.Set
	Sizes    generator.Params
}

// manifest mirrors typegen.toml's shape for decoding.
type manifest struct {
	Generate manifestGenerate `toml:"generate"`
}

type manifestGenerate struct {
	N        int              `toml:"n"`
	Seed     int64            `toml:"seed"`
	Features manifestFeatures `toml:"features"`
	Sizes    manifestSizes    `toml:"sizes"`
}

type manifestFeatures struct {
	SharedEverything  bool `toml:"shared_everything"`
	ExceptionHandling bool `toml:"exception_handling"`
	Multivalue        bool `toml:"multivalue"`
	SIMD              bool `toml:"simd"`
}

type manifestSizes struct {
	MaxTupleSize  uint32 `toml:"max_tuple_size"`
	MaxParams     uint32 `toml:"max_params"`
	MaxStructSize uint32 `toml:"max_struct_size"`
}

// Default returns the parameters used when no typegen.toml is found.
func Default() GeneratorParams {
	return GeneratorParams{
		N:        32,
		Seed:     1,
		Features: features.All(),
		Sizes:    generator.DefaultParams(),
	}
}

// FindManifest walks upward from startDir looking for typegen.toml, the way
// the teacher toolchain's findSurgeToml locates surge.toml.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "typegen.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads typegen.toml starting the search at startDir, falling back to
// Default when none is found.
func Load(startDir string) (GeneratorParams, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return GeneratorParams{}, err
	}
	if !ok {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile decodes a specific typegen.toml path.
func LoadFile(path string) (GeneratorParams, error) {
	var m manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return GeneratorParams{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	params := Default()
	if m.Generate.N > 0 {
		params.N = m.Generate.N
	}
	if m.Generate.Seed != 0 {
		params.Seed = m.Generate.Seed
	}
	params.Features = features.Set{
		SharedEverything:  m.Generate.Features.SharedEverything,
		ExceptionHandling: m.Generate.Features.ExceptionHandling,
		Multivalue:        m.Generate.Features.Multivalue,
		SIMD:              m.Generate.Features.SIMD,
	}
	if m.Generate.Sizes.MaxTupleSize >= 2 {
		params.Sizes.MaxTupleSize = m.Generate.Sizes.MaxTupleSize
	}
	params.Sizes.MaxParams = m.Generate.Sizes.MaxParams
	params.Sizes.MaxStructSize = m.Generate.Sizes.MaxStructSize
	return params, nil
}
