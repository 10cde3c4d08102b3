package camerafy

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	_ "golang.org/x/image/webp"
)

// ProbeDimensions reads the pixel size from the image header only; pixel
// data is never decoded. Returns (0, 0) when the format is not recognised.
func ProbeDimensions(data []byte) (width, height int) {
	if len(data) == 0 {
		return 0, 0
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		slog.Debug("camerafy: dimension probe failed", "error", err.Error())
		return 0, 0
	}
	slog.Debug("camerafy: dimensions", "format", format, "width", cfg.Width, "height", cfg.Height)
	return cfg.Width, cfg.Height
}
