package dedup

import (
	"path/filepath"
	"testing"
)

func TestGroup_BestBySize(t *testing.T) {
	x := NewCandidate("x.jpg", 2048)
	y := NewCandidate("y.jpg", 1024)
	g := NewGroup([]*Candidate{y, x})

	if got := g.Best(); got != x {
		t.Errorf("Best() = %s, want x.jpg", got.Path)
	}

	removals := g.ToRemove()
	if len(removals) != 1 || removals[0] != y {
		t.Errorf("ToRemove() = %v, want [y.jpg]", removals)
	}
}

func TestGroup_BestByAreaOnSizeTie(t *testing.T) {
	tmpDir := t.TempDir()
	bigPath := filepath.Join(tmpDir, "big.png")
	smallPath := filepath.Join(tmpDir, "small.png")
	writePNG(t, bigPath, gradientImage(50, 50))
	writePNG(t, smallPath, gradientImage(5, 5))

	big := NewCandidate(bigPath, 4096)
	small := NewCandidate(smallPath, 4096)
	g := NewGroup([]*Candidate{small, big})

	if got := g.Best(); got != big {
		t.Errorf("Best() = %s, want the larger-area file", got.Path)
	}
}

func TestGroup_BestFirstWinsFullTie(t *testing.T) {
	a := NewCandidate("a.jpg", 100)
	b := NewCandidate("b.jpg", 100)
	g := NewGroup([]*Candidate{b, a})

	// On a complete tie the earliest member is kept.
	if got := g.Best(); got != b {
		t.Errorf("Best() = %s, want first member b.jpg", got.Path)
	}
}

func TestGroup_Sizes(t *testing.T) {
	x := NewCandidate("x.jpg", 2048)
	y := NewCandidate("y.jpg", 1024)
	z := NewCandidate("z.jpg", 512)
	g := NewGroup([]*Candidate{x, y, z})

	if got := g.Size(); got != 3 {
		t.Errorf("Size() = %d, want 3", got)
	}
	if got := g.TotalSize(); got != 3584 {
		t.Errorf("TotalSize() = %d, want 3584", got)
	}
	if got := g.WastedSpace(); got != 1536 {
		t.Errorf("WastedSpace() = %d, want 1536", got)
	}

	// Wasted space plus the kept file always equals the group total.
	if g.WastedSpace()+g.Best().ByteSize != g.TotalSize() {
		t.Error("wasted + best size should equal total size")
	}
}
