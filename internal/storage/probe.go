package storage

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const octetStream = "application/octet-stream"

// DetectMimeFile sniffs the content type of a local file, falling back to
// its extension.
func DetectMimeFile(filePath string) string {
	if m, err := mimetype.DetectFile(filePath); err == nil && !m.Is(octetStream) {
		return m.String()
	}
	return MimeByName(filePath)
}

// MimeByName guesses a content type from a file name's extension.
func MimeByName(name string) string {
	ext := strings.ToLower(path.Ext(name))
	switch ext {
	case ".tif", ".tiff":
		return "image/tiff"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return octetStream
}

// Dimensions decodes only the image header. Unknown formats yield nils.
func Dimensions(r io.Reader) (*int, *int) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return nil, nil
	}
	w, h := cfg.Width, cfg.Height
	return &w, &h
}
