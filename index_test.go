package camerafy

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// syntheticCatalogs is a small catalog set exercising precedence and
// dangling aliases.
func syntheticCatalogs() Catalogs {
	return Catalogs{
		Sensor: SensorCatalog{
			Patterns: []PatternRule{
				{Pattern: `\bTEST CAM\b`, Sensor: SensorCMOS},
				{Pattern: `\bTEST\b`, Sensor: SensorFoveon},
				{Pattern: `(?<=lookbehind)`, Sensor: SensorCCD}, // not RE2, dropped
			},
			Models: []SensorModel{
				{Label: "Test Cam 1", Sensor: SensorCCD},
				{Label: "Alias Clash", Sensor: SensorCMOS},
				{Label: "   ", Sensor: SensorCCD},   // empty label, dropped
				{Label: "Out Of Range", Sensor: 42}, // dropped
				{Label: "Known Unknown", Sensor: SensorUnknown},
			},
			Aliases: []SensorAlias{
				{Canonical: "test cam 1", Aliases: []string{"TC1", "Alias Clash", ""}},
				{Canonical: "Missing Camera", Aliases: []string{"MC", "MC2"}},
			},
		},
		Release: ReleaseCatalog{
			Models: []ReleaseModel{
				{Label: "Test Cam 1", Year: 2005},
				{Label: "Maker", Year: 1990},
				{Label: "TC2", Year: 2011},
			},
			Aliases: []Alias{
				{Alias: "TC1", Canonical: "Test Cam 1"},
				{Alias: "TC2", Canonical: "Test Cam 1"}, // TC2 is primary, ignored
				{Alias: "Ghost", Canonical: "Missing Camera"},
			},
		},
		Classic: ClassicCatalog{
			Models: []string{"Test Cam 1", "Test-Cam 1", "Old Timer"},
			Aliases: []Alias{
				{Alias: "TC1", Canonical: "Test Cam 1"},
				{Alias: "OT", Canonical: "Old Timer"},
				{Alias: "Ghost", Canonical: "Missing Camera"},
			},
		},
	}
}

func TestNewIndexStats(t *testing.T) {
	t.Parallel()

	got := NewIndex(syntheticCatalogs()).Stats()
	want := IndexStats{
		SensorPatterns: 2,
		SensorModels:   3,
		SensorAliases:  1, // TC1; "Alias Clash" is primary
		ReleaseModels:  3,
		ReleaseAliases: 1, // TC1
		ClassicModels:  3,
		ClassicAliases: 2,
		// lookbehind, empty label, out of range, 2 sensor aliases of
		// Missing Camera, release Ghost, classic Ghost.
		Dropped: 7,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}
}

func TestDanglingAliasNeverResolves(t *testing.T) {
	t.Parallel()

	ix := NewIndex(syntheticCatalogs())

	if got := NewSensorClassifier(ix).Classify(Camera{Model: "MC"}); got != SensorUnknown {
		t.Errorf("Classify(dangling alias) = %v, want UNKNOWN", got)
	}
	if y, ok := NewReleaseYearResolver(ix).ReleaseYear(Camera{Model: "Ghost"}); ok {
		t.Errorf("ReleaseYear(dangling alias) = %d, want unresolved", y)
	}
	if NewClassicDetector(ix).IsClassic(Camera{Model: "Ghost"}) {
		t.Error("IsClassic(dangling alias) = true, want false")
	}
}

func TestPrimaryBeatsAlias(t *testing.T) {
	t.Parallel()

	ix := NewIndex(syntheticCatalogs())

	// "Alias Clash" is declared both as a CMOS model and as an alias of a CCD model.
	if got := NewSensorClassifier(ix).Classify(Camera{Model: "alias clash"}); got != SensorCMOS {
		t.Errorf("Classify(primary/alias clash) = %v, want CMOS", got)
	}
	// "TC2" is a release model (2011) and an alias of Test Cam 1 (2005).
	if y, _ := NewReleaseYearResolver(ix).ReleaseYear(Camera{Model: "TC2"}); y != 2011 {
		t.Errorf("ReleaseYear(primary/alias clash) = %d, want 2011", y)
	}
}

func TestExactBeatsPattern(t *testing.T) {
	t.Parallel()

	c := NewSensorClassifier(NewIndex(syntheticCatalogs()))

	// "TEST CAM 1" is an exact CCD label and also matches the CMOS rule.
	if got := c.Classify(Camera{Model: "Test Cam 1"}); got != SensorCCD {
		t.Errorf("Classify(exact label) = %v, want CCD", got)
	}
	// An explicit UNKNOWN label stops the search before pattern rules.
	if got := c.Classify(Camera{Make: "TEST", Model: "Known Unknown"}); got != SensorUnknown {
		t.Errorf("Classify(known unknown) = %v, want UNKNOWN", got)
	}
}

func TestPatternsFirstMatchWins(t *testing.T) {
	t.Parallel()

	c := NewSensorClassifier(NewIndex(syntheticCatalogs()))

	tests := []struct {
		cam  Camera
		want SensorType
	}{
		{Camera{Model: "Test Cam 9"}, SensorCMOS},            // both rules match, first wins
		{Camera{Make: "test", Model: "X"}, SensorFoveon},     // only the second rule
		{Camera{Model: "Other", Lens: "Test"}, SensorFoveon}, // lens joins the haystack
		{Camera{Model: "Other"}, SensorUnknown},
	}
	for _, tc := range tests {
		if got := c.Classify(tc.cam); got != tc.want {
			t.Errorf("Classify(%+v) = %v, want %v", tc.cam, got, tc.want)
		}
	}
}

func TestIndexConcurrentReads(t *testing.T) {
	t.Parallel()

	e := NewEngine(NewIndex(syntheticCatalogs()))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if e.Classify(Camera{Model: "TC1"}) != SensorCCD {
					t.Error("Classify(TC1) changed under concurrency")
					return
				}
				if y, _ := e.ReleaseYear(Camera{Model: "TC1"}); y != 2005 {
					t.Error("ReleaseYear(TC1) changed under concurrency")
					return
				}
				if !e.IsClassic(Camera{Model: "OT"}) {
					t.Error("IsClassic(OT) changed under concurrency")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestDefaultIndexBuiltOnce(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	got := make([]*Index, 8)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = DefaultIndex()
		}()
	}
	wg.Wait()
	for i, ix := range got {
		if ix != got[0] {
			t.Errorf("DefaultIndex() call %d returned a different index", i)
		}
	}
}

func TestNilResolvers(t *testing.T) {
	t.Parallel()

	var (
		c *SensorClassifier
		r *ReleaseYearResolver
		d *ClassicDetector
	)
	if c.Classify(Camera{Model: "x"}) != SensorUnknown {
		t.Error("nil classifier should return UNKNOWN")
	}
	if _, ok := r.ReleaseYear(Camera{Model: "x"}); ok {
		t.Error("nil resolver should not resolve")
	}
	if d.IsClassic(Camera{Model: "x"}) {
		t.Error("nil detector should return false")
	}
}

func TestEmptyIndex(t *testing.T) {
	t.Parallel()

	e := NewEngine(NewIndex(Catalogs{}))
	if got := e.Classify(Camera{Make: "Canon", Model: "PowerShot G7"}); got != SensorUnknown {
		t.Errorf("Classify on empty index = %v, want UNKNOWN", got)
	}
	if e.IsClassic(Camera{Model: "Leica M9"}) {
		t.Error("IsClassic on empty index = true")
	}
	if diff := cmp.Diff(IndexStats{}, e.Index().Stats()); diff != "" {
		t.Errorf("empty index stats (-want +got):\n%s", diff)
	}
}
