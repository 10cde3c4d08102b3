package camerafy

// Engine bundles the three resolvers over one shared Index.
type Engine struct {
	Sensors  *SensorClassifier
	Releases *ReleaseYearResolver
	Classics *ClassicDetector

	index *Index
}

// NewEngine wires every resolver to ix. A nil ix means DefaultIndex().
func NewEngine(ix *Index) *Engine {
	if ix == nil {
		ix = DefaultIndex()
	}
	return &Engine{
		Sensors:  NewSensorClassifier(ix),
		Releases: NewReleaseYearResolver(ix),
		Classics: NewClassicDetector(ix),
		index:    ix,
	}
}

// Index returns the index the engine reads from.
func (e *Engine) Index() *Index { return e.index }

func (e *Engine) Classify(cam Camera) SensorType { return e.Sensors.Classify(cam) }

func (e *Engine) ReleaseYear(cam Camera) (int, bool) { return e.Releases.ReleaseYear(cam) }

func (e *Engine) IsClassic(cam Camera) bool { return e.Classics.IsClassic(cam) }

func (e *Engine) IsCCD(exif EXIF) bool { return e.Sensors.IsCCD(exif) }

// Classify resolves cam against the embedded catalogs.
func Classify(cam Camera) SensorType {
	return NewSensorClassifier(DefaultIndex()).Classify(cam)
}

// ReleaseYear resolves cam's release year against the embedded catalogs.
func ReleaseYear(cam Camera) (int, bool) {
	return NewReleaseYearResolver(DefaultIndex()).ReleaseYear(cam)
}

// IsClassic checks cam against the embedded classic-camera catalog.
func IsClassic(cam Camera) bool {
	return NewClassicDetector(DefaultIndex()).IsClassic(cam)
}

// IsCCD reports whether exif classifies as CCD against the embedded catalogs.
func IsCCD(exif EXIF) bool {
	return NewSensorClassifier(DefaultIndex()).IsCCD(exif)
}
