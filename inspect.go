package camerafy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Upload is one pending image to inspect.
type Upload struct {
	Name string
	Data []byte
}

// InspectedUpload is the inspection result for one upload.
type InspectedUpload struct {
	ID       string         `json:"id"`
	FileName string         `json:"fileName"`
	FileSize int            `json:"fileSize"`
	Width    int            `json:"width,omitempty"`
	Height   int            `json:"height,omitempty"`
	EXIF     PhotoEXIF      `json:"exif"`
	Decision UploadDecision `json:"decision"`
	Error    string         `json:"error,omitempty"`
}

// Inspect reads EXIF and header dimensions from up and runs the upload gate.
// Images without EXIF are evaluated with empty camera fields, which the gate
// blocks (unknown release year, UNKNOWN sensor). An upload whose inspection
// does not complete is blocked as well.
func (cfg *Config) Inspect(ctx context.Context, up Upload) InspectedUpload {
	return cfg.inspect(ctx, newUploadID(), up)
}

func (cfg *Config) inspect(ctx context.Context, id string, up Upload) InspectedUpload {
	res := InspectedUpload{
		ID:       id,
		FileName: up.Name,
		FileSize: len(up.Data),
	}
	if err := ctx.Err(); err != nil {
		return failedInspection(res, err.Error())
	}

	if exif := ExtractPhotoEXIF(up.Data); exif != nil {
		res.EXIF = *exif
	} else {
		slog.Debug("camerafy: no EXIF payload", "file", up.Name)
	}
	res.Width, res.Height = ProbeDimensions(up.Data)

	res.Decision = cfg.Evaluate(res.EXIF.CameraInput())
	res.EXIF.Sensor = res.Decision.Sensor.String()
	return res
}

func newUploadID() string {
	return "upload-" + uuid.NewString()
}

// failedInspection marks res as blocked with the inspection error msg.
func failedInspection(res InspectedUpload, msg string) InspectedUpload {
	res.Error = msg
	res.EXIF.Sensor = SensorUnknown.String()
	res.Decision = UploadDecision{
		Camera:  res.EXIF.CameraInput(),
		Sensor:  SensorUnknown,
		Blocked: true,
		Reason:  "inspection failed",
		Signals: []GateSignal{},
	}
	return res
}

// InspectBatch inspects uploads concurrently with at most cfg.Workers in
// flight. Results keep the order of uploads. A panic while inspecting one
// upload is recovered, reported in that result's Error, and the upload is
// blocked.
func (cfg *Config) InspectBatch(ctx context.Context, uploads []Upload) []InspectedUpload {
	c := cfg.withDefaults()

	results := make([]InspectedUpload, len(uploads))
	sem := make(chan struct{}, c.Workers)
	var wg sync.WaitGroup

	for i, up := range uploads {
		wg.Add(1)
		go func(i int, up Upload) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = c.inspectOne(ctx, up)
		}(i, up)
	}
	wg.Wait()

	return results
}

func (cfg *Config) inspectOne(ctx context.Context, up Upload) (res InspectedUpload) {
	id := newUploadID()
	defer func() {
		if r := recover(); r != nil {
			if cfg.OnPanic != nil {
				cfg.OnPanic("inspectUpload", r)
			}
			slog.Warn("camerafy: inspect panicked", "file", up.Name, "panic", r)
			base := InspectedUpload{ID: id, FileName: up.Name, FileSize: len(up.Data)}
			res = failedInspection(base, fmt.Sprint("inspect failed: ", r))
		}
	}()
	return cfg.inspect(ctx, id, up)
}

// BlockedCount counts the blocked uploads in results.
func BlockedCount(results []InspectedUpload) int {
	n := 0
	for _, r := range results {
		if r.Decision.Blocked {
			n++
		}
	}
	return n
}
