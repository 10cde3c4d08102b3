package camerafy

// ClassicDetector decides whether a camera is exempt from the release-year
// cutoff.
type ClassicDetector struct {
	ix *Index
}

// NewClassicDetector returns a detector reading from ix.
func NewClassicDetector(ix *Index) *ClassicDetector {
	return &ClassicDetector{ix: ix}
}

// IsClassic reports whether model, "make model" or make names a classic
// camera, directly or through an alias of one.
func (d *ClassicDetector) IsClassic(cam Camera) bool {
	if d == nil || d.ix == nil {
		return false
	}
	c := &d.ix.classic

	for _, candidate := range lookupCandidates(cam) {
		key, ok := Normalize(candidate)
		if !ok {
			continue
		}
		if c.models[key] {
			return true
		}
		if canonical, ok := c.aliases[key]; ok && c.models[canonical] {
			return true
		}
	}
	return false
}
