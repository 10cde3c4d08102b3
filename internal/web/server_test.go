package web

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/anatolykoptev/go-camerafy"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(Options{
		Photos: []camerafy.Photo{
			{ID: "1", Src: "/g7.jpg", EXIF: camerafy.PhotoEXIF{Make: "Canon", Camera: "Canon PowerShot G7"}},
			{ID: "2", Src: "/r5.jpg", EXIF: camerafy.PhotoEXIF{Make: "Canon", Camera: "Canon EOS R5"}},
			{ID: "3", Src: "/none.jpg"},
		},
	})
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestServer(t), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
}

func TestPhotos(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	tests := []struct {
		query      string
		wantIDs    []string
		wantStatus []string
	}{
		{query: "", wantIDs: []string{"1", "2", "3"}, wantStatus: []string{"ccd", "non-ccd", "unknown"}},
		{query: "?ccd=1", wantIDs: []string{"1"}, wantStatus: []string{"ccd"}},
		{query: "?ccd=TRUE", wantIDs: []string{"1"}, wantStatus: []string{"ccd"}},
		{query: "?ccd=0", wantIDs: []string{"1", "2", "3"}, wantStatus: []string{"ccd", "non-ccd", "unknown"}},
	}
	for _, tc := range tests {
		rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/photos"+tc.query, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", tc.query, rec.Code)
		}
		body := decode[photosResponse](t, rec)
		var ids, statuses []string
		for _, p := range body.Photos {
			ids = append(ids, p.ID)
			statuses = append(statuses, p.EXIF.CCDStatus)
		}
		if diff := cmp.Diff(tc.wantIDs, ids); diff != "" {
			t.Errorf("%s: ids (-want +got):\n%s", tc.query, diff)
		}
		if diff := cmp.Diff(tc.wantStatus, statuses); diff != "" {
			t.Errorf("%s: ccdStatus (-want +got):\n%s", tc.query, diff)
		}
	}
}

func TestPhotosJSONShape(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestServer(t), httptest.NewRequest(http.MethodGet, "/api/photos?ccd=1", nil))
	var raw struct {
		Photos []struct {
			EXIF map[string]any `json:"exif"`
		} `json:"photos"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	exif := raw.Photos[0].EXIF
	if exif["ccd"] != true || exif["ccdStatus"] != "ccd" || exif["sensor"] != "CCD" {
		t.Errorf("exif = %v", exif)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/classify?make=Canon&model=PowerShot+G7", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	got := decode[classifyResponse](t, rec)
	want := classifyResponse{
		Camera:      camerafy.Camera{Make: "Canon", Model: "PowerShot G7"},
		Sensor:      camerafy.SensorCCD,
		Label:       "CCD",
		CCD:         true,
		ReleaseYear: 2006,
		Classic:     true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("classify (-want +got):\n%s", diff)
	}

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/classify?make=SIGMA&model=SIGMA+DP2+Merrill", nil))
	if got := decode[classifyResponse](t, rec); got.Sensor != camerafy.SensorFoveon || got.Label != "Foveon X3" {
		t.Errorf("SIGMA DP2 Merrill = %+v", got)
	}
}

func TestClassifyRequiresInput(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestServer(t), httptest.NewRequest(http.MethodGet, "/api/classify", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decode[errorResponse](t, rec); body.Error == "" {
		t.Error("expected error message")
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func multipartRequest(t *testing.T, files map[string][]byte, order []string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, name := range order {
		fw, err := mw.CreateFormFile("file", name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(files[name]); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/check", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadCheck(t *testing.T) {
	t.Parallel()

	files := map[string][]byte{
		"a.png": encodePNG(t, 5, 3),
		"b.txt": []byte("plain text"),
	}
	rec := do(t, newTestServer(t), multipartRequest(t, files, []string{"a.png", "b.txt"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	got := decode[uploadCheckResponse](t, rec)
	if len(got.Uploads) != 2 {
		t.Fatalf("got %d uploads, want 2", len(got.Uploads))
	}
	if got.Uploads[0].FileName != "a.png" || got.Uploads[0].Width != 5 || got.Uploads[0].Height != 3 {
		t.Errorf("first upload = %+v", got.Uploads[0])
	}
	if got.Uploads[1].FileName != "b.txt" {
		t.Errorf("second upload = %+v", got.Uploads[1])
	}
	// Neither file carries EXIF, so both are blocked.
	if got.BlockedCount != 2 {
		t.Errorf("blockedCount = %d, want 2", got.BlockedCount)
	}
}

func TestUploadCheckErrors(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	rec := do(t, s, multipartRequest(t, nil, nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty form: status = %d, want 400", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/check", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "text/plain")
	if rec := do(t, s, req); rec.Code != http.StatusBadRequest {
		t.Errorf("non-multipart: status = %d, want 400", rec.Code)
	}

	small := NewServer(Options{Gate: &camerafy.Config{MaxUploadBytes: 64}})
	rec = do(t, small, multipartRequest(t, map[string][]byte{"big.png": encodePNG(t, 200, 200)}, []string{"big.png"}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("oversized: status = %d, want 400", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestServer(t), httptest.NewRequest(http.MethodGet, "/api/uploads/check", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestServeGracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer(Options{ShutdownGrace: time.Second}).Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		cancel()
		t.Fatalf("GET /healthz: %v", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
