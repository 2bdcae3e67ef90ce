// Package imaging prepares user photos for upload: it checks the format,
// bounds the size and re-encodes everything as JPEG.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height sent to the upload service.
const MaxDimension = 1600

// MaxInputSize caps the bytes read from a single upload.
const MaxInputSize = 10 << 20

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// Errors returned by Prepare.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format (only JPEG and PNG accepted)")
	ErrTooLarge          = errors.New("image is too large")
)

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Photo is an image ready for upload.
type Photo struct {
	Filename string
	Data     []byte
	MIME     string
	Width    int
	Height   int
}

// Prepare reads an uploaded image, validates the format by sniffing bytes,
// downscales it to fit MaxDimension and re-encodes it as JPEG. Transparent
// PNG areas become white.
func Prepare(r io.Reader, filename string) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxInputSize {
		return nil, ErrTooLarge
	}

	// Sniff actual MIME type from bytes (not trusting client headers).
	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = fit(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := img.Bounds()
	return &Photo{
		Filename: jpegName(filename),
		Data:     buf.Bytes(),
		MIME:     "image/jpeg",
		Width:    b.Dx(),
		Height:   b.Dy(),
	}, nil
}

// fit flattens img onto white and scales it so neither side exceeds maxDim.
// Uses Catmull-Rom interpolation; images already within bounds keep their
// size.
func fit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	newW, newH := w, h
	if w > maxDim || h > maxDim {
		if w > h {
			newW = maxDim
			newH = max(1, int(float64(h)*float64(maxDim)/float64(w)))
		} else {
			newH = maxDim
			newW = max(1, int(float64(w)*float64(maxDim)/float64(h)))
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// jpegName swaps the extension of the client's file name for .jpg.
func jpegName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = "photo"
	}
	return base + ".jpg"
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
