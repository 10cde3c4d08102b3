package web

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go-camerafy"
)

// multipartMemory is the in-memory part of a parsed upload form; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type photosResponse struct {
	Photos []camerafy.Photo `json:"photos"`
}

// handlePhotos lists the archive with sensor annotations. ?ccd=1 or
// ?ccd=true keeps only CCD photos.
func (s *Server) handlePhotos(w http.ResponseWriter, r *http.Request) {
	ccdOnly := camerafy.ParseBoolParam(r.URL.Query().Get("ccd"))
	writeJSON(w, http.StatusOK, photosResponse{Photos: s.engine.AnnotatePhotos(s.photos, ccdOnly)})
}

type classifyResponse struct {
	Camera      camerafy.Camera     `json:"camera"`
	Sensor      camerafy.SensorType `json:"sensor"`
	Label       string              `json:"label"`
	CCD         bool                `json:"ccd"`
	ReleaseYear int                 `json:"releaseYear,omitempty"`
	Classic     bool                `json:"classic"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cam := camerafy.Camera{Make: q.Get("make"), Model: q.Get("model"), Lens: q.Get("lens")}
	if strings.TrimSpace(cam.Make+cam.Model+cam.Lens) == "" {
		writeError(w, r, http.StatusBadRequest, "make, model or lens is required")
		return
	}

	sensor := s.engine.Classify(cam)
	resp := classifyResponse{
		Camera:  cam,
		Sensor:  sensor,
		Label:   sensor.Label(),
		CCD:     sensor == camerafy.SensorCCD,
		Classic: s.engine.IsClassic(cam),
	}
	if year, ok := s.engine.ReleaseYear(cam); ok {
		resp.ReleaseYear = year
	}
	writeJSON(w, http.StatusOK, resp)
}

type uploadCheckResponse struct {
	Uploads      []camerafy.InspectedUpload `json:"uploads"`
	BlockedCount int                        `json:"blockedCount"`
}

// handleUploadCheck inspects every multipart "file" field and reports the
// gate decision per file.
func (s *Server) handleUploadCheck(w http.ResponseWriter, r *http.Request) {
	limit := s.maxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, r, http.StatusBadRequest, "file too large or invalid form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		writeError(w, r, http.StatusBadRequest, "no file provided")
		return
	}

	uploads := make([]camerafy.Upload, 0, len(headers))
	for _, h := range headers {
		data, err := readPart(h, limit)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("read %s: %v", h.Filename, err))
			return
		}
		uploads = append(uploads, camerafy.Upload{Name: h.Filename, Data: data})
	}

	results := s.gate.InspectBatch(r.Context(), uploads)
	writeJSON(w, http.StatusOK, uploadCheckResponse{
		Uploads:      results,
		BlockedCount: camerafy.BlockedCount(results),
	})
}

func (s *Server) maxUploadBytes() int64 {
	if s.gate.MaxUploadBytes > 0 {
		return s.gate.MaxUploadBytes
	}
	return camerafy.DefaultMaxUploadBytes
}

func readPart(h *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, limit))
}
