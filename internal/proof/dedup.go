package proof

// commentKey identifies a comment within one run
type commentKey struct {
	page    string
	proof   string
	remarks string
}

// Deduplicator tracks the comments already emitted during a single run.
// The zero value is not usable; create one with NewDeduplicator per run.
type Deduplicator struct {
	seen map[commentKey]struct{}
}

// NewDeduplicator returns an empty deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[commentKey]struct{})}
}

// CheckAndRecord registers the (page, proof, remarks) triple and reports
// whether it had not been seen before.
func (d *Deduplicator) CheckAndRecord(page, proof, remarks string) bool {
	key := commentKey{page: page, proof: proof, remarks: remarks}
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

// Len returns the number of distinct comments recorded
func (d *Deduplicator) Len() int {
	return len(d.seen)
}
