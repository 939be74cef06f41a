package dedup

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func newTestDetector(t *testing.T, threshold int) *Detector {
	t.Helper()
	d, err := NewDetector(DifferenceHash, threshold)
	if err != nil {
		t.Fatalf("NewDetector failed: %v", err)
	}
	return d
}

func TestNewDetector_UnknownAlgorithm(t *testing.T) {
	if _, err := NewDetector(Algorithm(99), 10); err == nil {
		t.Error("expected configuration error for unknown algorithm")
	}
}

func TestFindDuplicates_SimilarPair(t *testing.T) {
	x := NewCandidate("x.jpg", 2048)
	x.SetFingerprint("f0f0")
	y := NewCandidate("y.jpg", 1024)
	y.SetFingerprint("f0f1")

	d := newTestDetector(t, 4)
	groups := d.FindDuplicates([]*Candidate{x, y})

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	g := groups[0]
	if g.Size() != 2 {
		t.Errorf("group size = %d, want 2", g.Size())
	}
	if g.Best() != x {
		t.Errorf("Best() = %s, want x.jpg (larger size)", g.Best().Path)
	}
	removals := g.ToRemove()
	if len(removals) != 1 || removals[0] != y {
		t.Errorf("ToRemove() should be [y.jpg]")
	}
	if g.WastedSpace() != 1024 {
		t.Errorf("WastedSpace() = %d, want 1024", g.WastedSpace())
	}
}

func TestFindDuplicates_Empty(t *testing.T) {
	d := newTestDetector(t, 10)
	if groups := d.FindDuplicates(nil); len(groups) != 0 {
		t.Errorf("expected no groups for empty input, got %d", len(groups))
	}
}

func TestFindDuplicates_NoFingerprintExcluded(t *testing.T) {
	a := NewCandidate("a.jpg", 100)
	a.SetFingerprint("f0f0")
	b := NewCandidate("b.jpg", 100) // fingerprint absent
	c := NewCandidate("c.jpg", 100)
	c.SetFingerprint("f0f0")

	d := newTestDetector(t, 0)
	groups := d.FindDuplicates([]*Candidate{a, b, c})

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	for _, member := range groups[0].Candidates {
		if member.Fingerprint() == "" {
			t.Error("group contains a candidate without a fingerprint")
		}
	}
	if groups[0].Size() != 2 {
		t.Errorf("group size = %d, want 2", groups[0].Size())
	}
}

func TestFindDuplicates_AnchorOnlyMembership(t *testing.T) {
	// b and c are each within the threshold of the anchor a, but 8 bits
	// apart from each other. The anchor policy still puts all three in one
	// group; membership is never re-checked pairwise.
	a := NewCandidate("a.jpg", 100)
	a.SetFingerprint("00")
	b := NewCandidate("b.jpg", 100)
	b.SetFingerprint("0f")
	c := NewCandidate("c.jpg", 100)
	c.SetFingerprint("f0")

	if HammingDistance("0f", "f0") <= 4 {
		t.Fatal("test fixture broken: members should exceed the threshold pairwise")
	}

	d := newTestDetector(t, 4)
	groups := d.FindDuplicates([]*Candidate{a, b, c})

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Size() != 3 {
		t.Errorf("group size = %d, want 3", groups[0].Size())
	}
}

func TestFindDuplicates_ConsumedOnce(t *testing.T) {
	// b matches both a and c, but it is consumed by a's group; c then has
	// no partner left and forms no group.
	a := NewCandidate("a.jpg", 100)
	a.SetFingerprint("00")
	b := NewCandidate("b.jpg", 100)
	b.SetFingerprint("03")
	c := NewCandidate("c.jpg", 100)
	c.SetFingerprint("0f")

	d := newTestDetector(t, 2)
	groups := d.FindDuplicates([]*Candidate{a, b, c})

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Size() != 2 {
		t.Errorf("group size = %d, want 2", groups[0].Size())
	}

	seen := make(map[*Candidate]bool)
	for _, g := range groups {
		for _, member := range g.Candidates {
			if seen[member] {
				t.Errorf("%s appears in two groups", member.Path)
			}
			seen[member] = true
		}
	}
}

func TestFindDuplicates_OrderDependent(t *testing.T) {
	mk := func() (*Candidate, *Candidate, *Candidate) {
		a := NewCandidate("a.jpg", 100)
		a.SetFingerprint("00")
		b := NewCandidate("b.jpg", 100)
		b.SetFingerprint("0f")
		c := NewCandidate("c.jpg", 100)
		c.SetFingerprint("f0")
		return a, b, c
	}

	d := newTestDetector(t, 4)

	// Anchored at a, everything merges into one group.
	a, b, c := mk()
	if groups := d.FindDuplicates([]*Candidate{a, b, c}); len(groups) != 1 {
		t.Errorf("anchor a: expected 1 group, got %d", len(groups))
	}

	// Anchored at b, c is too far away; only a joins.
	a, b, c = mk()
	groups := d.FindDuplicates([]*Candidate{b, c, a})
	if len(groups) != 1 {
		t.Fatalf("anchor b: expected 1 group, got %d", len(groups))
	}
	if groups[0].Size() != 2 {
		t.Errorf("anchor b: group size = %d, want 2", groups[0].Size())
	}
}

func TestFindExactDuplicates(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, content string) *Candidate {
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return NewCandidate(path, int64(len(content)))
	}

	a := write("a.jpg", "same bytes")
	b := write("b.jpg", "same bytes")
	c := write("c.jpg", "different bytes")

	d := newTestDetector(t, 10)
	groups := d.FindExactDuplicates([]*Candidate{a, b, c})

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	g := groups[0]
	if g.Size() != 2 {
		t.Errorf("group size = %d, want 2", g.Size())
	}
	digest := g.Candidates[0].Digest()
	for _, member := range g.Candidates {
		if member.Digest() != digest {
			t.Error("group members should share one digest")
		}
	}
}

func TestFindExactDuplicates_EmptyDigestsPool(t *testing.T) {
	// Digest computation fails for missing files, leaving empty digests.
	// Those candidates pool under the empty key; the limitation is kept
	// as-is rather than special-cased.
	a := NewCandidate("/missing/a.jpg", 100)
	b := NewCandidate("/missing/b.jpg", 100)

	d := newTestDetector(t, 10)
	groups := d.FindExactDuplicates([]*Candidate{a, b})

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Candidates[0].Digest() != "" {
		t.Error("expected the pooled group to carry empty digests")
	}
}

func TestFindExactDuplicates_Empty(t *testing.T) {
	d := newTestDetector(t, 10)
	if groups := d.FindExactDuplicates(nil); len(groups) != 0 {
		t.Errorf("expected no groups for empty input, got %d", len(groups))
	}
}

func TestComputeStatistics(t *testing.T) {
	x := NewCandidate("x.jpg", 2048)
	y := NewCandidate("y.jpg", 1024)
	p := NewCandidate("p.jpg", 4096)
	q := NewCandidate("q.jpg", 4096)
	r := NewCandidate("r.jpg", 1024)

	groups := []*Group{
		NewGroup([]*Candidate{x, y}),
		NewGroup([]*Candidate{p, q, r}),
	}

	stats := ComputeStatistics(groups)

	if stats.DuplicateGroups != 2 {
		t.Errorf("DuplicateGroups = %d, want 2", stats.DuplicateGroups)
	}
	if stats.TotalFilesInGroups != 5 {
		t.Errorf("TotalFilesInGroups = %d, want 5", stats.TotalFilesInGroups)
	}
	if stats.DuplicateFiles != 3 {
		t.Errorf("DuplicateFiles = %d, want 3", stats.DuplicateFiles)
	}
	if stats.OriginalFiles != 2 {
		t.Errorf("OriginalFiles = %d, want 2", stats.OriginalFiles)
	}
	if stats.TotalSizeBytes != 12288 {
		t.Errorf("TotalSizeBytes = %d, want 12288", stats.TotalSizeBytes)
	}
	// First group wastes 1024; second keeps one 4096 copy and wastes 5120.
	if stats.WastedSpaceBytes != 6144 {
		t.Errorf("WastedSpaceBytes = %d, want 6144", stats.WastedSpaceBytes)
	}
	want := float64(6144) / float64(12288) * 100
	if math.Abs(stats.SpaceSavingsPercent-want) > 1e-9 {
		t.Errorf("SpaceSavingsPercent = %f, want %f", stats.SpaceSavingsPercent, want)
	}
}

func TestComputeStatistics_Empty(t *testing.T) {
	stats := ComputeStatistics(nil)
	if stats != (Statistics{}) {
		t.Errorf("expected all-zero statistics, got %+v", stats)
	}
}
