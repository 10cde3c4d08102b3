package camerafy

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/bep/imagemeta"
)

// PhotoEXIF holds the EXIF capture fields read from an uploaded image.
type PhotoEXIF struct {
	Make      string `json:"make,omitempty"`
	Camera    string `json:"camera,omitempty"` // EXIF Model
	Lens      string `json:"lens,omitempty"`
	ISO       int    `json:"iso,omitempty"`
	F         string `json:"f,omitempty"` // "f/2.8"
	S         string `json:"s,omitempty"` // "1/250"
	Year      int    `json:"year,omitempty"`
	Taken     string `json:"taken,omitempty"` // raw DateTimeOriginal
	Sensor    string `json:"sensor,omitempty"`
	CCD       *bool  `json:"ccd,omitempty"`
	CCDStatus string `json:"ccdStatus,omitempty"`
}

// CameraInput returns the lookup input for the resolvers.
func (e PhotoEXIF) CameraInput() Camera {
	return Camera{Make: e.Make, Model: e.Camera, Lens: e.Lens}
}

// wantedEXIFTags lists the EXIF tags read from uploads.
var wantedEXIFTags = map[string]bool{
	"Make":             true,
	"Model":            true,
	"LensModel":        true,
	"ISO":              true,
	"FNumber":          true,
	"ExposureTime":     true,
	"DateTimeOriginal": true,
	"CreateDate":       true,
	"ModifyDate":       true,
}

// ExtractPhotoEXIF parses the camera-related EXIF tags from raw image bytes.
// Returns nil if the data is empty, not a supported container (JPEG, PNG,
// WebP, TIFF) or carries none of the wanted tags. Never returns an error.
func ExtractPhotoEXIF(data []byte) *PhotoEXIF {
	format, ok := sniffImageFormat(data)
	if !ok {
		return nil
	}

	exif := &PhotoEXIF{}
	found := false
	var fallbackDate string

	_, err := imagemeta.Decode(imagemeta.Options{
		R:           bytes.NewReader(data),
		ImageFormat: format,
		Sources:     imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return ti.Source == imagemeta.EXIF && wantedEXIFTags[ti.Tag]
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			if handleEXIFTag(exif, ti, &fallbackDate) {
				found = true
			}
			return nil
		},
	})

	if err != nil || !found {
		return nil
	}
	if exif.Taken == "" {
		exif.Taken = fallbackDate
	}
	exif.Year = yearOf(exif.Taken)
	return exif
}

// handleEXIFTag stores one tag value; it reports whether anything was set.
func handleEXIFTag(exif *PhotoEXIF, ti imagemeta.TagInfo, fallbackDate *string) bool {
	switch ti.Tag {
	case "Make":
		exif.Make = strings.TrimSpace(tagValueString(ti.Value))
		return exif.Make != ""
	case "Model":
		exif.Camera = strings.TrimSpace(tagValueString(ti.Value))
		return exif.Camera != ""
	case "LensModel":
		exif.Lens = strings.TrimSpace(tagValueString(ti.Value))
		return exif.Lens != ""
	case "ISO":
		if v, ok := tagValueFloat(ti.Value); ok && v > 0 {
			exif.ISO = int(math.Round(v))
			return true
		}
	case "FNumber":
		if v, ok := tagValueFloat(ti.Value); ok && v > 0 {
			exif.F = formatFNumber(v)
			return true
		}
	case "ExposureTime":
		if v, ok := tagValueFloat(ti.Value); ok && v > 0 {
			exif.S = formatExposure(v)
			return true
		}
	case "DateTimeOriginal":
		exif.Taken = tagValueString(ti.Value)
		return exif.Taken != ""
	case "CreateDate", "ModifyDate":
		if *fallbackDate == "" {
			*fallbackDate = tagValueString(ti.Value)
		}
	}
	return false
}

// sniffImageFormat detects the container from its magic bytes.
func sniffImageFormat(data []byte) (imagemeta.ImageFormat, bool) {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return imagemeta.JPEG, true
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return imagemeta.PNG, true
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return imagemeta.WebP, true
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return imagemeta.TIFF, true
	default:
		return 0, false
	}
}

// tagValueString extracts a string from a tag value.
func tagValueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		if len(val) > 0 {
			return val[0]
		}
		return ""
	case []any:
		if len(val) > 0 {
			if s, ok := val[0].(string); ok {
				return s
			}
		}
		return ""
	case fmt.Stringer:
		return val.String()
	default:
		return ""
	}
}

// tagValueFloat extracts a number from the integer, float and rational
// representations imagemeta produces.
func tagValueFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case []uint16:
		if len(val) > 0 {
			return float64(val[0]), true
		}
	case interface{ Float64() float64 }:
		return val.Float64(), true
	}
	return 0, false
}

func formatFNumber(v float64) string {
	return "f/" + strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}

func formatExposure(v float64) string {
	if v >= 1 {
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".") + "s"
	}
	return fmt.Sprintf("1/%d", int(math.Round(1/v)))
}

// yearOf reads the year from an EXIF date ("2006:05:14 10:22:01").
func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year := 0
	for i := 0; i < 4; i++ {
		c := date[i]
		if !isDigit(c) {
			return 0
		}
		year = year*10 + int(c-'0')
	}
	return year
}
