package camerafy

import (
	"encoding/json"
	"strings"
)

// SensorType is the image-sensor technology of a camera.
type SensorType int

const (
	SensorUnknown SensorType = iota // no catalog entry or rule matched
	SensorCCD
	SensorCMOS
	SensorFoveon
)

// SensorTypes lists every sensor type in display order.
var SensorTypes = []SensorType{SensorCCD, SensorCMOS, SensorFoveon, SensorUnknown}

func (s SensorType) String() string {
	switch s {
	case SensorCCD:
		return "CCD"
	case SensorCMOS:
		return "CMOS"
	case SensorFoveon:
		return "FOVEON"
	default:
		return "UNKNOWN"
	}
}

// Label returns the human-readable name shown next to a photo.
func (s SensorType) Label() string {
	switch s {
	case SensorFoveon:
		return "Foveon X3"
	case SensorUnknown:
		return "Unknown"
	default:
		return s.String()
	}
}

// ParseSensorType maps "ccd", "CMOS", "Foveon", ... to a SensorType.
// ok is false for anything that is not one of the four names.
func ParseSensorType(s string) (t SensorType, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CCD":
		return SensorCCD, true
	case "CMOS":
		return SensorCMOS, true
	case "FOVEON":
		return SensorFoveon, true
	case "UNKNOWN":
		return SensorUnknown, true
	default:
		return SensorUnknown, false
	}
}

func (s SensorType) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SensorType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s, _ = ParseSensorType(raw)
	return nil
}

// Camera holds the free-text EXIF fields used for lookups.
// An empty field means the tag was absent.
type Camera struct {
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
	Lens  string `json:"lens,omitempty"`
}

// SensorClassifier resolves sensor technology against an Index.
type SensorClassifier struct {
	ix *Index
}

// NewSensorClassifier returns a classifier reading from ix.
func NewSensorClassifier(ix *Index) *SensorClassifier {
	return &SensorClassifier{ix: ix}
}

// Classify resolves the sensor type of cam.
//
// Exact lookups run first over model, make, and "make model" (primary map,
// then alias map); the first hit wins. Only when none of them resolves is
// "make model lens" tested against the pattern rules, in catalog order.
// Returns SensorUnknown when nothing matches.
func (c *SensorClassifier) Classify(cam Camera) SensorType {
	if c == nil || c.ix == nil {
		return SensorUnknown
	}
	s := &c.ix.sensor

	for _, candidate := range []string{cam.Model, cam.Make, joinParts(cam.Make, cam.Model)} {
		key, ok := Normalize(candidate)
		if !ok {
			continue
		}
		if t, ok := s.models[key]; ok {
			return t
		}
		if t, ok := s.aliases[key]; ok {
			return t
		}
	}

	haystack, ok := Normalize(joinParts(cam.Make, cam.Model, cam.Lens))
	if !ok {
		return SensorUnknown
	}
	for _, rule := range s.patterns {
		if rule.re.MatchString(haystack) {
			return rule.sensor
		}
	}
	return SensorUnknown
}

// EXIF is the subset of EXIF fields the CCD helper looks at.
type EXIF struct {
	Make  string
	Model string
}

// IsCCD reports whether the camera in exif classifies as CCD.
// The lens is not consulted.
func (c *SensorClassifier) IsCCD(exif EXIF) bool {
	return c.Classify(Camera{Make: exif.Make, Model: exif.Model}) == SensorCCD
}
