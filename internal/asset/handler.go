package asset

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/inamate/whiteboard/internal/typeid"
)

// DefaultMaxUploadBytes bounds an upload when the handler is given no limit.
const DefaultMaxUploadBytes = 10 << 20 // 10MB

// UploadResponse is returned from the upload endpoint. Src is a data URI
// that can be used directly as an image element's src.
type UploadResponse struct {
	ID     string `json:"id"`
	Src    string `json:"src"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   string `json:"type"`
	Name   string `json:"name"`
}

// formats maps the decoder names registered above to MIME subtypes.
var formats = map[string]string{
	"png":  "png",
	"jpeg": "jpeg",
	"gif":  "gif",
	"webp": "webp",
	"bmp":  "bmp",
}

// Handler turns uploaded images into data URIs. Nothing is stored on the
// server; the board keeps the image inline.
type Handler struct {
	maxBytes int64
}

func NewHandler(maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &Handler{maxBytes: maxBytes}
}

// Upload handles POST /assets/upload (multipart form with "file" field).
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("file too large (max %dMB)", h.maxBytes>>20),
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("read upload", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read file"})
		return
	}

	resp, err := Describe(data, header.Filename)
	if err != nil {
		slog.Warn("rejected upload", "error", err, "name", header.Filename)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	slog.Info("asset uploaded", "id", resp.ID, "type", resp.Type, "width", resp.Width, "height", resp.Height)
	writeJSON(w, http.StatusOK, resp)
}

// Describe detects an image's format and size and encodes it as a data URI.
func Describe(data []byte, name string) (*UploadResponse, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid image: %w", err)
	}
	subtype, ok := formats[format]
	if !ok {
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	return &UploadResponse{
		ID:     typeid.NewAssetID(),
		Src:    "data:image/" + subtype + ";base64," + base64.StdEncoding.EncodeToString(data),
		Width:  cfg.Width,
		Height: cfg.Height,
		Type:   format,
		Name:   name,
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
