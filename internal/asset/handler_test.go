package asset

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/inamate/whiteboard/internal/typeid"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	return img
}

func encode(t *testing.T, format string, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	case "bmp":
		err = bmp.Encode(&buf, img)
	default:
		t.Fatalf("no encoder for %s", format)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", format, err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, field, name string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, name)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/assets/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadFormats(t *testing.T) {
	for _, format := range []string{"png", "gif", "bmp"} {
		t.Run(format, func(t *testing.T) {
			data := encode(t, format, testImage(64, 32))
			rec := httptest.NewRecorder()
			NewHandler(0).Upload(rec, uploadRequest(t, "file", "pic."+format, data))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
			}
			var resp UploadResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Width != 64 || resp.Height != 32 {
				t.Errorf("size = %dx%d, want 64x32", resp.Width, resp.Height)
			}
			if resp.Type != format || resp.Name != "pic."+format {
				t.Errorf("type = %q name = %q", resp.Type, resp.Name)
			}
			if err := typeid.Validate(resp.ID, typeid.PrefixAsset); err != nil {
				t.Errorf("id: %v", err)
			}
			prefix := "data:image/" + format + ";base64,"
			if !strings.HasPrefix(resp.Src, prefix) {
				t.Fatalf("src = %.40s...", resp.Src)
			}
			decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(resp.Src, prefix))
			if err != nil || !bytes.Equal(decoded, data) {
				t.Errorf("src does not round-trip the upload (err=%v)", err)
			}
		})
	}
}

func TestUploadRejects(t *testing.T) {
	pngData := encode(t, "png", testImage(4, 4))
	tests := []struct {
		name    string
		handler *Handler
		req     *http.Request
	}{
		{"not an image", NewHandler(0), uploadRequest(t, "file", "notes.txt", []byte("hello"))},
		{"wrong field", NewHandler(0), uploadRequest(t, "image", "a.png", pngData)},
		{"too large", NewHandler(16), uploadRequest(t, "file", "a.png", pngData)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler.Upload(rec, tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Errorf("body = %s", rec.Body)
			}
		})
	}
}

func TestUploadPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(0).Upload(rec, httptest.NewRequest(http.MethodOptions, "/assets/upload", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
