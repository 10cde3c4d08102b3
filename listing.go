package camerafy

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Photo is one record of the archive listing.
type Photo struct {
	ID     string    `json:"id"`
	Src    string    `json:"src"`
	Alt    string    `json:"alt,omitempty"`
	Width  int       `json:"width,omitempty"`
	Height int       `json:"height,omitempty"`
	EXIF   PhotoEXIF `json:"exif"`
}

// CCD status values of an annotated photo.
const (
	CCDStatusCCD     = "ccd"
	CCDStatusNonCCD  = "non-ccd"
	CCDStatusUnknown = "unknown"
)

// AnnotatePhotos classifies every photo (make, camera and lens) and fills in
// exif.sensor, exif.ccd and exif.ccdStatus. With ccdOnly set, only photos
// classified as CCD are returned. photos is not modified.
func (e *Engine) AnnotatePhotos(photos []Photo, ccdOnly bool) []Photo {
	out := make([]Photo, 0, len(photos))
	for _, p := range photos {
		sensor := e.Classify(p.EXIF.CameraInput())
		ccd := sensor == SensorCCD

		status := CCDStatusUnknown
		switch {
		case p.EXIF.Camera == "", sensor == SensorUnknown:
		case ccd:
			status = CCDStatusCCD
		default:
			status = CCDStatusNonCCD
		}

		if ccdOnly && !ccd {
			continue
		}
		p.EXIF.Sensor = sensor.String()
		p.EXIF.CCD = &ccd
		p.EXIF.CCDStatus = status
		out = append(out, p)
	}
	return out
}

// ParseBoolParam interprets a query flag: "1" and "true" (any case) are true.
func ParseBoolParam(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

// ReadPhotos decodes a JSON array of photos.
func ReadPhotos(r io.Reader) ([]Photo, error) {
	var photos []Photo
	if err := json.NewDecoder(r).Decode(&photos); err != nil {
		return nil, fmt.Errorf("decode photos: %w", err)
	}
	return photos, nil
}

// LoadPhotos reads the photo manifest at path.
func LoadPhotos(path string) ([]Photo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open photo manifest: %w", err)
	}
	defer f.Close()
	return ReadPhotos(f)
}
