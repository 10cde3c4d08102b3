package camerafy

import "maps"

// NormalizeModel collapses s with the strict alnum-only policy and maps it
// through the classic-camera alias table, so "IXY DIGITAL 10" and its
// canonical spelling yield the same key. Unknown models come back collapsed.
// ok is false when nothing alphanumeric is left.
func (ix *Index) NormalizeModel(s string) (string, bool) {
	key := Collapse(s)
	if key == "" {
		return "", false
	}
	if canonical, ok := ix.classic.strict[key]; ok {
		return canonical, true
	}
	return key, true
}

// TokenizeModel splits a model name into letter and digit tokens.
func (ix *Index) TokenizeModel(s string) []string {
	return Tokenize(s)
}

// CanonicalModels lists the strict keys of every classic model, in catalog
// order and without duplicates.
func (ix *Index) CanonicalModels() []string {
	return append([]string(nil), ix.classic.canonical...)
}

// AliasLookup returns a copy of the strict classic alias table
// (alias key → canonical key, canonical keys map to themselves).
func (ix *Index) AliasLookup() map[string]string {
	return maps.Clone(ix.classic.strict)
}
