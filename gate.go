package camerafy

import (
	"log/slog"
	"strconv"
)

// GateSignal is one piece of evidence behind an upload decision.
type GateSignal struct {
	Source  string `json:"source"` // "classic", "release_year", "sensor"
	Detail  string `json:"detail"`
	Blocked bool   `json:"blocked"` // what this signal alone would decide
}

// UploadDecision is the verdict of the upload gate for one camera.
type UploadDecision struct {
	Camera      Camera       `json:"camera"`
	Sensor      SensorType   `json:"sensor"`
	ReleaseYear int          `json:"releaseYear,omitempty"` // 0 when unknown
	Classic     bool         `json:"classic"`
	Blocked     bool         `json:"blocked"`
	Reason      string       `json:"reason"`
	Signals     []GateSignal `json:"signals"` // never nil
}

// HasReleaseYear reports whether the release year was resolved.
func (d UploadDecision) HasReleaseYear() bool { return d.ReleaseYear != 0 }

// Evaluate decides whether a photo taken with cam may be uploaded.
//
// Resolution order: a classic camera is always accepted; otherwise a known
// release year is compared against the cutoff (newer is blocked); with no
// release year the photo is accepted only when the sensor is CCD.
// An UNKNOWN sensor therefore blocks.
func (cfg *Config) Evaluate(cam Camera) UploadDecision {
	c := cfg.withDefaults()
	e := c.Engine

	d := UploadDecision{
		Camera:  cam,
		Sensor:  e.Classify(cam),
		Classic: e.IsClassic(cam),
		Signals: make([]GateSignal, 0, 3), //nolint:mnd // classic, release year, sensor
	}
	year, hasYear := e.ReleaseYear(cam)
	if hasYear {
		d.ReleaseYear = year
	}

	if d.Classic {
		d.Signals = append(d.Signals, GateSignal{
			Source: "classic",
			Detail: "listed as a classic camera",
		})
	}
	if hasYear {
		newer := year > c.CutoffYear
		d.Signals = append(d.Signals, GateSignal{
			Source:  "release_year",
			Detail:  "released " + strconv.Itoa(year) + ", cutoff " + strconv.Itoa(c.CutoffYear),
			Blocked: newer,
		})
	}
	d.Signals = append(d.Signals, GateSignal{
		Source:  "sensor",
		Detail:  "sensor " + d.Sensor.String(),
		Blocked: d.Sensor != SensorCCD,
	})

	switch {
	case d.Classic:
		d.Reason = "classic camera exempt from cutoff"
	case hasYear && year > c.CutoffYear:
		d.Blocked = true
		d.Reason = "released after " + strconv.Itoa(c.CutoffYear)
	case hasYear:
		d.Reason = "released in or before " + strconv.Itoa(c.CutoffYear)
	case d.Sensor == SensorCCD:
		d.Reason = "unknown release year, CCD sensor"
	default:
		d.Blocked = true
		d.Reason = "unknown release year, sensor is not CCD"
	}

	slog.Debug("camerafy: upload decision",
		"make", cam.Make, "model", cam.Model,
		"sensor", d.Sensor.String(), "blocked", d.Blocked, "reason", d.Reason)
	if c.OnDecision != nil {
		c.OnDecision(DecisionEvent{Camera: cam, Sensor: d.Sensor, Blocked: d.Blocked, Reason: d.Reason})
	}
	return d
}
