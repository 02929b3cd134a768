package graphcache

import (
	"encoding/hex"
	"path/filepath"
	"testing"

	"typegen/internal/features"
	"typegen/internal/generator"
	"typegen/internal/testkit"
	"typegen/internal/xrand"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := Open("typegen-test")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return cache
}

func TestKeyForIsStableAndSensitiveToInputs(t *testing.T) {
	fset := features.All()
	params := generator.DefaultParams()

	k1 := KeyFor(1, 10, fset, params)
	k2 := KeyFor(1, 10, fset, params)
	if k1 != k2 {
		t.Fatal("KeyFor() should be deterministic for identical inputs")
	}

	k3 := KeyFor(2, 10, fset, params)
	if k1 == k3 {
		t.Fatal("KeyFor() should differ when the seed differs")
	}

	k4 := KeyFor(1, 11, fset, params)
	if k1 == k4 {
		t.Fatal("KeyFor() should differ when n differs")
	}
}

func TestIsSHA256RejectsZeroKey(t *testing.T) {
	var zero Key
	if IsSHA256(zero) {
		t.Fatal("the zero key should not be considered a valid SHA-256 key")
	}
	k := KeyFor(1, 1, features.All(), generator.DefaultParams())
	if !IsSHA256(k) {
		t.Fatal("a real KeyFor() result should be considered a valid SHA-256 key")
	}
}

func TestSnapshotRoundTripsThroughToAndFromSnapshot(t *testing.T) {
	fset := features.All()
	params := generator.DefaultParams()
	result, err := generator.Generate(xrand.New(11), fset, params, 24)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	snap := ToSnapshot(11, fset, params, result)
	restored, err := FromSnapshot(snap)
	if err != nil {
		t.Fatalf("FromSnapshot() error = %v", err)
	}
	if err := testkit.CheckGenerateInvariants(restored); err != nil {
		t.Fatalf("restored graph violates invariants: %v", err)
	}
	if len(restored) != len(result.Types) {
		t.Fatalf("restored %d types, want %d", len(restored), len(result.Types))
	}
	for i := range restored {
		if restored[i].GetKind() != result.Types[i].GetKind() {
			t.Fatalf("slot %d kind changed across round trip", i)
		}
	}
}

func TestCachePutThenGetRoundTrips(t *testing.T) {
	cache := openTestCache(t)
	fset := features.All()
	params := generator.DefaultParams()
	result, err := generator.Generate(xrand.New(3), fset, params, 12)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	snap := ToSnapshot(3, fset, params, result)
	key := KeyFor(3, 12, fset, params)

	if err := cache.Put(key, snap); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, ok, err := cache.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, %v; want a hit", got, ok, err)
	}
	if got.N != snap.N || got.Seed != snap.Seed {
		t.Fatalf("Get() = %+v, want N=%d Seed=%d", got, snap.N, snap.Seed)
	}
}

func TestCacheGetMissReturnsFalse(t *testing.T) {
	cache := openTestCache(t)
	_, ok, err := cache.Get(KeyFor(999, 1, features.All(), generator.DefaultParams()))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Fatal("Get() should report a miss for a key never written")
	}
}

func TestCacheDropAllRemovesEntries(t *testing.T) {
	cache := openTestCache(t)
	key := KeyFor(1, 1, features.All(), generator.DefaultParams())
	snap := ToSnapshot(1, features.All(), generator.DefaultParams(), generator.Result{})
	if err := cache.Put(key, snap); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll() error = %v", err)
	}
	_, ok, err := cache.Get(key)
	if err != nil {
		t.Fatalf("Get() after DropAll() error = %v", err)
	}
	if ok {
		t.Fatal("Get() should miss after DropAll()")
	}
}

func TestNilCacheIsSafeNoOp(t *testing.T) {
	var cache *Cache
	if err := cache.Put(Key{}, Snapshot{}); err != nil {
		t.Fatalf("Put() on nil *Cache error = %v", err)
	}
	_, ok, err := cache.Get(Key{})
	if err != nil || ok {
		t.Fatalf("Get() on nil *Cache = %v, %v; want false, nil", ok, err)
	}
}

func TestCachePathForIsHexEncodedUnderGraphsDir(t *testing.T) {
	cache := openTestCache(t)
	key := KeyFor(1, 1, features.All(), generator.DefaultParams())
	p := cache.pathFor(key)
	if filepath.Base(filepath.Dir(p)) != "graphs" {
		t.Fatalf("pathFor() = %q, want a graphs/ subdirectory", p)
	}
	if filepath.Ext(p) != ".mp" {
		t.Fatalf("pathFor() = %q, want a .mp extension", p)
	}
	if want := hex.EncodeToString(key[:]) + ".mp"; filepath.Base(p) != want {
		t.Fatalf("pathFor() = %q, want file name %q", p, want)
	}
}
