package fileconv

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"go.uber.org/zap"
	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// JPEGQuality is the fixed quality used for lossy image output.
const JPEGQuality = 95

// ImageStrategy re-encodes raster images locally.
type ImageStrategy struct {
	conv *Converter
}

func newImageStrategy(c *Converter) *ImageStrategy {
	return &ImageStrategy{conv: c}
}

func (s *ImageStrategy) Accepts(source, target Format) bool {
	r := s.conv.registry
	return r.IsFamily(source, FamilyImage) && r.IsFamily(target, FamilyImage)
}

func (s *ImageStrategy) Convert(ctx context.Context, req Request) ([]byte, error) {
	codec := s.conv.caps.image()

	img, err := codec.Decode(req.Data)
	if err != nil {
		return nil, &DecodeError{Format: req.SourceType, Err: err}
	}

	b := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if codec.Opaque(req.TargetType) {
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	}
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Over)

	var buf bytes.Buffer
	if err := codec.Encode(&buf, canvas, req.TargetType); err != nil {
		return nil, &EncodeError{Format: req.TargetType, Err: err}
	}

	loggerFrom(ctx).Debug("image re-encoded",
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()),
	)
	return buf.Bytes(), nil
}

// imageCodec is the default ImageCodec. Decoding covers every format
// registered with the image package (jpeg, png, gif, webp, bmp).
type imageCodec struct{}

func newImageCodec() *imageCodec {
	return &imageCodec{}
}

func (imageCodec) Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

func (imageCodec) Encode(w io.Writer, img image.Image, target Format) error {
	switch target {
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: png.DefaultCompression}
		return enc.Encode(w, img)
	case FormatGIF:
		return gif.Encode(w, img, &gif.Options{NumColors: 256})
	case FormatBMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("no encoder for %s", target)
}

func (imageCodec) Opaque(target Format) bool {
	switch target {
	case FormatJPEG, FormatBMP:
		return true
	}
	return false
}
