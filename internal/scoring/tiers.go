package scoring

// ResolveTier maps a score to a tier id, or nil when no tier qualifies.
//
// The tier list is walked in configuration order and the last entry whose
// threshold is <= score wins. The list is NOT sorted first: authors are
// expected to list tiers in ascending threshold order, and configurations
// that don't are resolved exactly as written.
func (p Policy) ResolveTier(score int) *string {
	var current *string
	for i := range p.Tiers {
		if score >= p.Tiers[i].Threshold {
			current = &p.Tiers[i].ID
		}
	}
	return current
}
