package web

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/image/draw"
)

const thumbSize = 96

func (s *Server) handleSampleThumb(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 1 {
		respondError(w, http.StatusBadRequest, "sample number must be a positive number")
		return
	}

	data, err := os.ReadFile(s.corpus.SamplePath(identity, n))
	if err != nil {
		respondError(w, http.StatusNotFound, "sample not found")
		return
	}
	thumb, err := resizePNG(data, thumbSize)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(thumb)
}

// resizePNG scales an image to fit within maxSize while keeping aspect
// ratio. Returns PNG-encoded bytes; images already small enough pass
// through untouched.
func resizePNG(data []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= maxSize && height <= maxSize {
		return data, nil
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxSize
		newHeight = int(float64(height) * float64(maxSize) / float64(width))
	} else {
		newHeight = maxSize
		newWidth = int(float64(width) * float64(maxSize) / float64(height))
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.BiLinear.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}
