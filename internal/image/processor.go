package image

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/disintegration/imaging"
)

const (
	MaxLogoBytes     = 10 * 1024 * 1024 // 10MB
	MaxLogoDimension = 4096
	ThumbSize        = 300
)

// Logo holds the validated original upload plus the thumbnail rendition that
// gets stored alongside it.
type Logo struct {
	Original    []byte
	Thumbnail   []byte
	ContentType string
	Width       int
	Height      int
}

// ProcessLogo validates a jpeg/png upload and derives a square center-cropped
// thumbnail. The content type is sniffed from the bytes, not trusted from the
// request.
func ProcessLogo(file io.Reader, header *multipart.FileHeader) (*Logo, error) {
	if header.Size > MaxLogoBytes {
		return nil, fmt.Errorf("file size %d exceeds maximum %d bytes", header.Size, MaxLogoBytes)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	contentType := http.DetectContentType(data)
	if contentType != "image/jpeg" && contentType != "image/png" {
		return nil, fmt.Errorf("invalid file type %q: only jpeg and png are allowed", contentType)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > MaxLogoDimension || h > MaxLogoDimension {
		return nil, fmt.Errorf("image dimensions %dx%d exceed maximum %d", w, h, MaxLogoDimension)
	}

	thumb := imaging.Fill(img, ThumbSize, ThumbSize, imaging.Center, imaging.Lanczos)

	var thumbBuf bytes.Buffer
	if format == "png" {
		err = imaging.Encode(&thumbBuf, thumb, imaging.PNG)
	} else {
		err = imaging.Encode(&thumbBuf, thumb, imaging.JPEG, imaging.JPEGQuality(85))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return &Logo{
		Original:    data,
		Thumbnail:   thumbBuf.Bytes(),
		ContentType: contentType,
		Width:       w,
		Height:      h,
	}, nil
}

// IsSquare reports whether the dimensions are within 1% of a 1:1 ratio.
func IsSquare(width, height int) bool {
	if width == height {
		return true
	}
	larger, smaller := width, height
	if height > width {
		larger, smaller = height, width
	}
	return float64(larger-smaller)/float64(larger) <= 0.01
}
