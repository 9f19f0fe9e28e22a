package cloud

import (
	"bytes"
	"image"
	"net/http"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// ImageService 把上传的图片缩放到指定宽度（保持宽高比）并编码为PNG。
// 支持 jpeg/png/gif/bmp/tiff 与 webp。
type ImageService struct{}

func NewImageService() *ImageService {
	return &ImageService{}
}

func (s *ImageService) Normalize(data []byte, width int) ([]byte, error) {
	if width <= 0 {
		return nil, errors.Errorf("invalid width %d", width)
	}
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	resized := imaging.Resize(img, width, 0, imaging.Lanczos)
	buf := bytes.Buffer{}
	if err = imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, errors.Wrap(err, "encode png")
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image")
	}
	if http.DetectContentType(data) == "image/webp" {
		img, err := webp.Decode(bytes.NewReader(data))
		return img, errors.Wrap(err, "decode webp")
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	return img, errors.Wrap(err, "decode image")
}
