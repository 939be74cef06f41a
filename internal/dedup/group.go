package dedup

// Group is a set of two or more candidates judged duplicates by one policy
// (fingerprint similarity or exact digest equality). A candidate belongs to
// at most one group per detection pass.
type Group struct {
	Candidates []*Candidate

	best *Candidate
}

// NewGroup creates a group over the given candidates.
func NewGroup(candidates []*Candidate) *Group {
	return &Group{Candidates: candidates}
}

// Size returns the number of candidates in the group.
func (g *Group) Size() int {
	return len(g.Candidates)
}

// Best returns the candidate to keep: the one maximizing (byte size, pixel
// area) compared lexicographically. Quality metrics are deliberately not
// consulted here; see Candidate.IsBetterQualityThan for the report-facing
// comparator.
func (g *Group) Best() *Candidate {
	if g.best == nil && len(g.Candidates) > 0 {
		best := g.Candidates[0]
		for _, c := range g.Candidates[1:] {
			if c.ByteSize > best.ByteSize ||
				(c.ByteSize == best.ByteSize && c.Area() > best.Area()) {
				best = c
			}
		}
		g.best = best
	}
	return g.best
}

// ToRemove returns every candidate except the best one.
func (g *Group) ToRemove() []*Candidate {
	best := g.Best()
	removals := make([]*Candidate, 0, len(g.Candidates)-1)
	for _, c := range g.Candidates {
		if c != best {
			removals = append(removals, c)
		}
	}
	return removals
}

// TotalSize returns the combined byte size of all candidates in the group.
func (g *Group) TotalSize() int64 {
	var total int64
	for _, c := range g.Candidates {
		total += c.ByteSize
	}
	return total
}

// WastedSpace returns the bytes reclaimed by removing everything but the
// best candidate.
func (g *Group) WastedSpace() int64 {
	var wasted int64
	for _, c := range g.ToRemove() {
		wasted += c.ByteSize
	}
	return wasted
}
