package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"typegen/internal/config"
	"typegen/internal/generator"
	"typegen/internal/graphcache"
	"typegen/internal/heaptype"
	"typegen/internal/inhabit"
	"typegen/internal/observ"
	"typegen/internal/testkit"
	"typegen/internal/xrand"
)

var (
	generateN          int
	generateSeed       int64
	generateNoInhabit  bool
	generateNoCache    bool
	generateManifest   string
	generateVerify     bool
	generateShowGraph  bool
)

func init() {
	generateCmd.Flags().IntVar(&generateN, "n", 0, "number of heap types to generate (0 uses the manifest/default)")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "random seed (0 uses the manifest/default)")
	generateCmd.Flags().BoolVar(&generateNoInhabit, "no-inhabit", false, "skip the inhabitability repair pass")
	generateCmd.Flags().BoolVar(&generateNoCache, "no-cache", false, "bypass the on-disk graph cache")
	generateCmd.Flags().StringVar(&generateManifest, "manifest", "", "path to a typegen.toml file (default: search upward from cwd)")
	generateCmd.Flags().BoolVar(&generateVerify, "verify", false, "check structural and inhabitability invariants after generating")
	generateCmd.Flags().BoolVar(&generateShowGraph, "print", false, "print each generated type to stdout")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random heap-type graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := loadParamsWithOverrides()
		if err != nil {
			return err
		}

		timer := observ.NewTimer()
		quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

		var cache *graphcache.Cache
		if !generateNoCache {
			cache, err = graphcache.Open("typegen")
			if err != nil {
				if !quiet {
					fmt.Fprintf(os.Stderr, "warning: cache unavailable: %v\n", err)
				}
				cache = nil
			}
		}

		result, fromCache, err := generateWithCache(cache, timer, params)
		if err != nil {
			return err
		}

		if !generateNoInhabit {
			idx := timer.Begin("inhabit")
			repaired, err := inhabit.MakeInhabitable(result.Types)
			timer.End(idx, "")
			if err != nil {
				return fmt.Errorf("inhabit: %w", err)
			}
			result.Types = repaired
		}

		if generateVerify {
			if err := runInvariantChecks(result); err != nil {
				return err
			}
		}

		if generateShowGraph {
			printTypes(cmd.OutOrStdout(), result.Types)
		}

		if !quiet {
			origin := "generated"
			if fromCache {
				origin = "cache hit"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d types (seed %d)\n", origin, len(result.Types), params.Seed)
		}

		if showTimings, _ := cmd.Root().PersistentFlags().GetBool("timings"); showTimings {
			fmt.Fprint(cmd.OutOrStdout(), timer.Summary())
		}
		warnSlowPhases(cmd, timer)

		return nil
	},
}

// loadParamsWithOverrides resolves generator parameters from --manifest (or
// an upward search for typegen.toml), then applies any --n/--seed flags on
// top, the same layering the teacher toolchain uses for its own manifest.
func loadParamsWithOverrides() (config.GeneratorParams, error) {
	var (
		params config.GeneratorParams
		err    error
	)
	if generateManifest != "" {
		params, err = config.LoadFile(generateManifest)
	} else {
		params, err = config.Load(".")
	}
	if err != nil {
		return config.GeneratorParams{}, err
	}
	if generateN > 0 {
		params.N = generateN
	}
	if generateSeed != 0 {
		params.Seed = generateSeed
	}
	return params, nil
}

// generateWithCache looks up a cached snapshot for params before falling
// back to generator.Generate, storing a freshly generated result back into
// the cache for next time.
func generateWithCache(cache *graphcache.Cache, timer *observ.Timer, params config.GeneratorParams) (generator.Result, bool, error) {
	key := graphcache.KeyFor(params.Seed, params.N, params.Features, params.Sizes)
	if cache != nil {
		idx := timer.Begin("cache-lookup")
		if snap, ok, err := cache.Get(key); err == nil && ok {
			timer.End(idx, "hit")
			types, err := graphcache.FromSnapshot(snap)
			if err != nil {
				return generator.Result{}, false, fmt.Errorf("cache: corrupt snapshot: %w", err)
			}
			return generator.Result{Types: types, SubtypeIndices: snap.SubtypeIndices}, true, nil
		}
		timer.End(idx, "miss")
	}

	planIdx := timer.Begin("plan+populate")
	rand := xrand.New(params.Seed)
	result, err := generator.Generate(rand, params.Features, params.Sizes, params.N)
	timer.End(planIdx, "")
	if err != nil {
		return generator.Result{}, false, fmt.Errorf("generate: %w", err)
	}

	if cache != nil {
		snap := graphcache.ToSnapshot(params.Seed, params.Features, params.Sizes, result)
		if err := cache.Put(key, snap); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write cache entry: %v\n", err)
		}
	}
	return result, false, nil
}

func runInvariantChecks(result generator.Result) error {
	if err := testkit.CheckGenerateInvariants(result.Types); err != nil {
		return err
	}
	if err := testkit.CheckSubtypeIndicesReflexive(result.SubtypeIndices); err != nil {
		return err
	}
	if err := testkit.CheckInhabitableInvariants(result.Types); err != nil {
		return err
	}
	return nil
}

func printTypes(out io.Writer, types []heaptype.HeapType) {
	for i, t := range types {
		if t.IsBasic() {
			fmt.Fprintf(out, "[%4d] %s\n", i, t.Basic)
			continue
		}
		kind := t.GetKind()
		super := "-"
		if s, ok := t.GetDeclaredSuperType(); ok {
			super = fmt.Sprintf("%d", s.Def.Index)
		}
		fmt.Fprintf(out, "[%4d] %-9s share=%-8s super=%s group=[%d,%d)\n",
			i, kind, t.Share(), super, t.Def.RecGroupStart, t.Def.RecGroupEnd)
	}
}

func warnSlowPhases(cmd *cobra.Command, timer *observ.Timer) {
	budget, _ := cmd.Root().PersistentFlags().GetDuration("timings-warn")
	if budget <= 0 {
		return
	}
	slow := timer.Slow(budget)
	if len(slow) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "warning: phases exceeded %s: %v\n", budget, slow)
}
