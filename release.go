package camerafy

// ReleaseYearResolver resolves the year a camera model was released.
type ReleaseYearResolver struct {
	ix *Index
}

// NewReleaseYearResolver returns a resolver reading from ix.
func NewReleaseYearResolver(ix *Index) *ReleaseYearResolver {
	return &ReleaseYearResolver{ix: ix}
}

// ReleaseYear looks up model, "make model", then make, each in the primary
// map before the alias map. There is no pattern fallback: ok is false when
// no candidate is in the catalog.
func (r *ReleaseYearResolver) ReleaseYear(cam Camera) (year int, ok bool) {
	if r == nil || r.ix == nil {
		return 0, false
	}
	rel := &r.ix.release

	for _, candidate := range lookupCandidates(cam) {
		key, ok := Normalize(candidate)
		if !ok {
			continue
		}
		if y, ok := rel.models[key]; ok {
			return y, true
		}
		if y, ok := rel.aliases[key]; ok {
			return y, true
		}
	}
	return 0, false
}

// lookupCandidates is the candidate order shared by the release-year and
// classic lookups. The sensor classifier tries make before "make model".
func lookupCandidates(cam Camera) []string {
	return []string{cam.Model, joinParts(cam.Make, cam.Model), cam.Make}
}
