package cloud

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
)

func sample(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func TestNormalize(t *testing.T) {
	src := sample(200, 100)
	var pngBuf, jpegBuf bytes.Buffer
	if err := png.Encode(&pngBuf, src); err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(&jpegBuf, src, nil); err != nil {
		t.Fatal(err)
	}
	webpData, err := webp.EncodeRGBA(src, 90)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name  string
		data  []byte
		width int
		wantH int
	}{
		{"png shrink", pngBuf.Bytes(), 50, 25},
		{"jpeg enlarge", jpegBuf.Bytes(), 400, 200},
		{"webp", webpData, 100, 50},
	}
	s := NewImageService()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := s.Normalize(c.data, c.width)
			if err != nil {
				t.Fatalf("Normalize error %v", err)
			}
			img, format, err := image.Decode(bytes.NewReader(out))
			if err != nil {
				t.Fatal(err)
			}
			if format != "png" {
				t.Errorf("format = %s, want png", format)
			}
			if b := img.Bounds(); b.Dx() != c.width || b.Dy() != c.wantH {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), c.width, c.wantH)
			}
		})
	}
}

func TestNormalizeRejects(t *testing.T) {
	s := NewImageService()
	if _, err := s.Normalize([]byte("not an image"), 100); err == nil {
		t.Errorf("garbage accepted")
	}
	if _, err := s.Normalize(nil, 100); err == nil {
		t.Errorf("empty input accepted")
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, sample(4, 4))
	if _, err := s.Normalize(buf.Bytes(), 0); err == nil {
		t.Errorf("zero width accepted")
	}
}
