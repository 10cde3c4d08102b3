package camerafy

import (
	"net/http"
	"time"
)

// DefaultCutoffYear is the newest release year accepted for uploads of
// non-classic cameras.
const DefaultCutoffYear = 2014

// DefaultMaxUploadBytes caps the image bytes read per upload.
const DefaultMaxUploadBytes = 32 << 20

// Config holds the dependencies of the upload gate and inspector.
// The zero value is usable: every field has a default.
type Config struct {
	Engine     *Engine      // nil = NewEngine(DefaultIndex())
	CutoffYear int          // default: DefaultCutoffYear (2014)
	HTTPClient *http.Client // used by Fetch (nil = http.DefaultClient)
	UserAgent  string       // default: "Mozilla/5.0 (compatible; go-camerafy/1.0)"

	// MaxUploadBytes bounds Fetch downloads (default: DefaultMaxUploadBytes).
	MaxUploadBytes int64

	// FetchTimeout bounds a single Fetch (default: 15s).
	FetchTimeout time.Duration

	// Workers is the InspectBatch concurrency (default: 3).
	Workers int

	// Optional callbacks for metrics/logging.
	OnDecision func(DecisionEvent)
	OnPanic    func(tag string, r any)
}

// DecisionEvent is reported to Config.OnDecision for every gate evaluation.
type DecisionEvent struct {
	Camera  Camera
	Sensor  SensorType
	Blocked bool
	Reason  string
}

const (
	defaultWorkers      = 3
	defaultFetchTimeout = 15 * time.Second
)

// withDefaults returns a copy of cfg with zero-value fields filled in.
// cfg itself is never modified, so a shared Config is safe across goroutines.
func (cfg *Config) withDefaults() Config {
	c := *cfg
	if c.Engine == nil {
		c.Engine = NewEngine(nil)
	}
	if c.CutoffYear <= 0 {
		c.CutoffYear = DefaultCutoffYear
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (compatible; go-camerafy/1.0)"
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = defaultFetchTimeout
	}
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	return c
}
