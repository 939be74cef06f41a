package dedup

// Detector finds duplicate groups among candidates, either by fingerprint
// similarity or by exact content digest.
type Detector struct {
	fingerprinter *Fingerprinter
	threshold     int
}

// NewDetector creates a Detector for the given algorithm and Hamming
// distance threshold. The algorithm is validated here; an unsupported value
// is a configuration error raised before any scanning begins.
func NewDetector(algorithm Algorithm, threshold int) (*Detector, error) {
	fp, err := NewFingerprinter(algorithm)
	if err != nil {
		return nil, err
	}
	if threshold < 0 {
		threshold = 0
	}
	return &Detector{fingerprinter: fp, threshold: threshold}, nil
}

// Fingerprinter returns the detector's fingerprinter, for collaborators that
// compute fingerprints up front (scanner, cache).
func (d *Detector) Fingerprinter() *Fingerprinter {
	return d.fingerprinter
}

// Threshold returns the similarity threshold.
func (d *Detector) Threshold() int {
	return d.threshold
}

// FindDuplicates groups candidates by fingerprint similarity using a single
// anchor pass in input order: each unconsumed candidate opens a group, and
// every later unconsumed candidate within the threshold of that anchor joins
// it. Membership is decided against the anchor only, so a group is not
// necessarily a similarity clique; that is the documented policy, and input
// order determines the result. Candidates without a fingerprint never enter
// any group.
func (d *Detector) FindDuplicates(candidates []*Candidate) []*Group {
	var groups []*Group
	consumed := make([]bool, len(candidates))

	for i, anchor := range candidates {
		if consumed[i] || anchor.Fingerprint() == "" {
			continue
		}

		members := []*Candidate{anchor}
		consumed[i] = true

		for j := i + 1; j < len(candidates); j++ {
			if consumed[j] || candidates[j].Fingerprint() == "" {
				continue
			}
			if Similar(anchor.Fingerprint(), candidates[j].Fingerprint(), d.threshold) {
				members = append(members, candidates[j])
				consumed[j] = true
			}
		}

		if len(members) > 1 {
			groups = append(groups, NewGroup(members))
		}
	}

	return groups
}

// FindExactDuplicates groups candidates whose full file bytes are identical,
// using the SHA-256 content digest. Candidates whose digest computation
// failed carry an empty digest and therefore pool under the same key; this
// is a known limitation, kept rather than special-cased.
func (d *Detector) FindExactDuplicates(candidates []*Candidate) []*Group {
	byDigest := make(map[string][]*Candidate)
	var order []string

	for _, c := range candidates {
		digest := c.Digest()
		if _, seen := byDigest[digest]; !seen {
			order = append(order, digest)
		}
		byDigest[digest] = append(byDigest[digest], c)
	}

	var groups []*Group
	for _, digest := range order {
		if members := byDigest[digest]; len(members) > 1 {
			groups = append(groups, NewGroup(members))
		}
	}
	return groups
}

// Statistics summarizes a set of duplicate groups.
type Statistics struct {
	DuplicateGroups     int     `json:"duplicate_groups"`
	TotalFilesInGroups  int     `json:"total_files_in_groups"`
	DuplicateFiles      int     `json:"duplicate_files"`
	OriginalFiles       int     `json:"original_files"`
	TotalSizeBytes      int64   `json:"total_size_bytes"`
	WastedSpaceBytes    int64   `json:"wasted_space_bytes"`
	SpaceSavingsPercent float64 `json:"space_savings_percent"`
}

// ComputeStatistics reduces duplicate groups into summary counts and byte
// totals for reporting.
func ComputeStatistics(groups []*Group) Statistics {
	var stats Statistics
	stats.DuplicateGroups = len(groups)

	for _, g := range groups {
		stats.TotalFilesInGroups += g.Size()
		stats.DuplicateFiles += g.Size() - 1
		stats.TotalSizeBytes += g.TotalSize()
		stats.WastedSpaceBytes += g.WastedSpace()
	}

	stats.OriginalFiles = stats.TotalFilesInGroups - stats.DuplicateFiles
	if stats.TotalSizeBytes > 0 {
		stats.SpaceSavingsPercent = float64(stats.WastedSpaceBytes) / float64(stats.TotalSizeBytes) * 100
	}
	return stats
}
