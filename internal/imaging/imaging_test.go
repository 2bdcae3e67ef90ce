package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func createTestJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTransparentPNG(w, h int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestPrepareJPEG(t *testing.T) {
	photo, err := Prepare(bytes.NewReader(createTestJPEG(100, 80)), "sofa.jpeg")
	if err != nil {
		t.Fatalf("Prepare JPEG: %v", err)
	}
	if photo.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", photo.MIME)
	}
	if photo.Filename != "sofa.jpg" {
		t.Errorf("expected sofa.jpg, got %q", photo.Filename)
	}
	if photo.Width != 100 || photo.Height != 80 {
		t.Errorf("small image should not be resized: got %dx%d", photo.Width, photo.Height)
	}
}

func TestPreparePNGFlattened(t *testing.T) {
	photo, err := Prepare(bytes.NewReader(createTransparentPNG(20, 20)), `C:\photos\bed.png`)
	if err != nil {
		t.Fatalf("Prepare PNG: %v", err)
	}
	if photo.Filename != "bed.jpg" {
		t.Errorf("expected bed.jpg, got %q", photo.Filename)
	}

	img, _, err := image.Decode(bytes.NewReader(photo.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	r, g, b, _ := img.At(10, 10).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("expected transparent area to become white, got %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestPrepareDownscale(t *testing.T) {
	photo, err := Prepare(bytes.NewReader(createTestJPEG(3200, 1600)), "wide.jpg")
	if err != nil {
		t.Fatalf("Prepare large image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(photo.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != MaxDimension || bounds.Dy() != MaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", MaxDimension, MaxDimension/2, bounds.Dx(), bounds.Dy())
	}
}

func TestPrepareRejectsOtherFormats(t *testing.T) {
	for name, data := range map[string][]byte{
		"text": []byte("not an image"),
		"gif":  []byte("GIF89a..."),
	} {
		_, err := Prepare(bytes.NewReader(data), "x")
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: expected ErrUnsupportedFormat, got %v", name, err)
		}
	}
}

func TestPrepareTooLarge(t *testing.T) {
	data := make([]byte, MaxInputSize+1)
	copy(data, createTestJPEG(1, 1))

	_, err := Prepare(bytes.NewReader(data), "big.jpg")
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestJPEGName(t *testing.T) {
	tests := map[string]string{
		"":              "photo.jpg",
		"a.b.png":       "a.b.jpg",
		"../../etc/pwd": "pwd.jpg",
		"noext":         "noext.jpg",
	}
	for in, want := range tests {
		if got := jpegName(in); got != want {
			t.Errorf("jpegName(%q) = %q, want %q", in, got, want)
		}
	}
}
