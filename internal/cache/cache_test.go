package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/graderd/lumen/pkg/report"
)

func sampleReport() *report.AnalysisReport {
	return &report.AnalysisReport{
		Complexity: report.ComplexityEstimate{Class: report.ClassLinear},
		Fraud:      report.FraudVerdict{Risk: report.RiskNone},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	key := HashSource([]byte("class Main {}"))
	if _, ok := c.Get(key); ok {
		t.Error("expected miss before Put")
	}

	if err := c.Put(key, sampleReport()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if got.Complexity.Class != report.ClassLinear {
		t.Errorf("got class %q, want %q", got.Complexity.Class, report.ClassLinear)
	}
}

func TestHashSourceDeterministic(t *testing.T) {
	a := HashSource([]byte("int x = 1;"))
	b := HashSource([]byte("int x = 1;"))
	if a != b {
		t.Errorf("same source hashed differently: %s vs %s", a, b)
	}
	if c := HashSource([]byte("int x = 2;")); c == a {
		t.Error("different sources hashed identically")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64", len(a))
	}
}

func TestDisabledCache(t *testing.T) {
	c, err := New("", false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	key := HashSource([]byte("class A {}"))
	if err := c.Put(key, sampleReport()); err != nil {
		t.Errorf("Put on disabled cache: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("disabled cache returned a hit")
	}

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("disabled cache has %d entries", stats.Entries)
	}
}

func TestInvalidate(t *testing.T) {
	c, err := New(t.TempDir(), true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	key := HashSource([]byte("class B {}"))
	if err := c.Put(key, sampleReport()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := c.Invalidate(key); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("entry survived Invalidate")
	}
	// Invalidating a missing key is not an error.
	if err := c.Invalidate(key); err != nil {
		t.Errorf("second Invalidate failed: %v", err)
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, src := range []string{"class A {}", "class B {}", "class C {}"} {
		if err := c.Put(HashSource([]byte(src)), sampleReport()); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Entries != 3 {
		t.Errorf("entries = %d, want 3", stats.Entries)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("cache dir still exists after Clear")
	}
}

func TestCorruptEntryMisses(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	key := HashSource([]byte("class D {}"))
	if err := os.WriteFile(filepath.Join(dir, key+".json"), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt entry: %v", err)
	}

	if _, ok := c.Get(key); ok {
		t.Error("corrupt entry returned a hit")
	}
	if _, err := os.Stat(filepath.Join(dir, key+".json")); !os.IsNotExist(err) {
		t.Error("corrupt entry not removed")
	}
}
