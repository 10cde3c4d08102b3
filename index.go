package camerafy

import (
	"log/slog"
	"regexp"
	"sync"
)

// Index is the immutable lookup structure built from Catalogs. Build it once
// with NewIndex and share it; every read is safe for concurrent use.
type Index struct {
	sensor  sensorIndex
	release releaseIndex
	classic classicIndex
	stats   IndexStats
}

type sensorIndex struct {
	patterns []patternRule
	models   map[string]SensorType
	aliases  map[string]SensorType
}

type patternRule struct {
	re     *regexp.Regexp
	sensor SensorType
}

type releaseIndex struct {
	models  map[string]int
	aliases map[string]int
}

type classicIndex struct {
	models  map[string]bool
	aliases map[string]string // alias key → canonical key

	// Strict (alnum-only) view used by NormalizeModel.
	strict    map[string]string
	canonical []string
}

// IndexStats counts what survived the build.
type IndexStats struct {
	SensorPatterns int `json:"sensorPatterns"`
	SensorModels   int `json:"sensorModels"`
	SensorAliases  int `json:"sensorAliases"`
	ReleaseModels  int `json:"releaseModels"`
	ReleaseAliases int `json:"releaseAliases"`
	ClassicModels  int `json:"classicModels"`
	ClassicAliases int `json:"classicAliases"`
	Dropped        int `json:"dropped"` // invalid entries and dangling aliases
}

// NewIndex builds an Index from cats. Invalid entries (empty labels,
// out-of-range sensor values, regexps that do not compile) and aliases whose
// canonical label is not in the primary catalog are dropped individually.
func NewIndex(cats Catalogs) *Index {
	ix := &Index{}
	ix.buildSensor(cats.Sensor)
	ix.buildRelease(cats.Release)
	ix.buildClassic(cats.Classic)

	ix.stats.SensorPatterns = len(ix.sensor.patterns)
	ix.stats.SensorModels = len(ix.sensor.models)
	ix.stats.SensorAliases = len(ix.sensor.aliases)
	ix.stats.ReleaseModels = len(ix.release.models)
	ix.stats.ReleaseAliases = len(ix.release.aliases)
	ix.stats.ClassicModels = len(ix.classic.models)
	ix.stats.ClassicAliases = len(ix.classic.aliases)

	slog.Debug("camerafy: catalog index built", "stats", ix.stats)
	return ix
}

// Stats reports entry counts of the index.
func (ix *Index) Stats() IndexStats {
	return ix.stats
}

func (ix *Index) buildSensor(cat SensorCatalog) {
	s := &ix.sensor
	s.models = make(map[string]SensorType, len(cat.Models))
	s.aliases = make(map[string]SensorType)

	for _, p := range cat.Patterns {
		if !validSensor(p.Sensor) || p.Pattern == "" {
			ix.drop("sensor pattern", p.Pattern)
			continue
		}
		re, err := regexp.Compile("(?i)" + p.Pattern)
		if err != nil {
			slog.Warn("camerafy: invalid sensor pattern", "pattern", p.Pattern, "error", err.Error())
			ix.stats.Dropped++
			continue
		}
		s.patterns = append(s.patterns, patternRule{re: re, sensor: p.Sensor})
	}

	for _, m := range cat.Models {
		key, ok := Normalize(m.Label)
		if !ok || !validSensor(m.Sensor) {
			ix.drop("sensor model", m.Label)
			continue
		}
		s.models[key] = m.Sensor
	}

	for _, a := range cat.Aliases {
		canonical, ok := Normalize(a.Canonical)
		t, found := s.models[canonical]
		if !ok || !found {
			ix.dangling("sensor", a.Canonical, len(a.Aliases))
			continue
		}
		for _, alias := range a.Aliases {
			key, ok := Normalize(alias)
			if !ok {
				continue
			}
			if _, primary := s.models[key]; primary {
				continue
			}
			s.aliases[key] = t
		}
	}
}

func (ix *Index) buildRelease(cat ReleaseCatalog) {
	r := &ix.release
	r.models = make(map[string]int, len(cat.Models))
	r.aliases = make(map[string]int)

	for _, m := range cat.Models {
		key, ok := Normalize(m.Label)
		if !ok {
			ix.drop("release model", m.Label)
			continue
		}
		r.models[key] = m.Year
	}

	for _, a := range cat.Aliases {
		key, okAlias := Normalize(a.Alias)
		canonical, okCanonical := Normalize(a.Canonical)
		year, found := r.models[canonical]
		if !okAlias || !okCanonical || !found {
			ix.dangling("release", a.Canonical, 1)
			continue
		}
		if _, primary := r.models[key]; primary {
			continue
		}
		r.aliases[key] = year
	}
}

func (ix *Index) buildClassic(cat ClassicCatalog) {
	c := &ix.classic
	c.models = make(map[string]bool, len(cat.Models))
	c.aliases = make(map[string]string)
	c.strict = make(map[string]string, len(cat.Models))
	strictModels := make(map[string]bool, len(cat.Models))

	for _, label := range cat.Models {
		key, ok := Normalize(label)
		if !ok {
			ix.drop("classic model", label)
			continue
		}
		c.models[key] = true
		if strict := Collapse(label); strict != "" {
			c.strict[strict] = strict
			strictModels[strict] = true
		}
	}

	for _, a := range cat.Aliases {
		key, okAlias := Normalize(a.Alias)
		canonical, okCanonical := Normalize(a.Canonical)
		if !okAlias || !okCanonical || !c.models[canonical] {
			ix.dangling("classic", a.Canonical, 1)
			continue
		}
		if !c.models[key] {
			c.aliases[key] = canonical
		}

		if strictAlias := Collapse(a.Alias); strictAlias != "" && !strictModels[strictAlias] {
			c.strict[strictAlias] = Collapse(a.Canonical)
		}
	}

	seen := make(map[string]bool, len(cat.Models))
	for _, label := range cat.Models {
		if m, ok := ix.NormalizeModel(label); ok && !seen[m] {
			seen[m] = true
			c.canonical = append(c.canonical, m)
		}
	}
}

func (ix *Index) drop(kind, label string) {
	ix.stats.Dropped++
	slog.Warn("camerafy: dropping invalid catalog entry", "kind", kind, "label", label)
}

func (ix *Index) dangling(catalog, canonical string, n int) {
	ix.stats.Dropped += n
	slog.Debug("camerafy: dropping dangling alias", "catalog", catalog, "canonical", canonical, "aliases", n)
}

func validSensor(t SensorType) bool {
	return t >= SensorUnknown && t <= SensorFoveon
}

var defaultIndex = sync.OnceValue(func() *Index {
	cats, err := DefaultCatalogs()
	if err != nil {
		slog.Error("camerafy: embedded catalogs unreadable", "error", err.Error())
	}
	return NewIndex(cats)
})

// DefaultIndex returns the index over the embedded catalogs, built on first
// use. Concurrent first calls build it exactly once.
func DefaultIndex() *Index {
	return defaultIndex()
}
