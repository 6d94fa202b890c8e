package artwork

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"

	"github.com/khanCurtis/rustwav/internal/constants"
	"github.com/khanCurtis/rustwav/internal/domain"
)

// Fit scales the image down to the profile's pixel cap and re-encodes it as
// JPEG, stepping the quality down until the byte cap is met. When even the
// lowest quality is too large it returns nil: the caps are hard limits and a
// track ships without art rather than over them.
func Fit(data []byte, profile domain.OutputProfile) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	img = scaleDown(img, profile.ArtMaxPx)

	for q := constants.ArtJPEGQualityStart; q >= constants.ArtJPEGQualityFloor; q -= constants.ArtJPEGQualityStep {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return nil, err
		}
		if buf.Len() <= profile.ArtMaxBytes {
			return buf.Bytes(), nil
		}
	}

	return nil, nil
}

// scaleDown resizes so the longer edge is at most maxPx, preserving aspect
// ratio. Images already within the cap pass through untouched.
func scaleDown(img image.Image, maxPx int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= maxPx && height <= maxPx {
		return img
	}

	ratio := float64(width) / float64(height)
	if width >= height {
		width = maxPx
		height = int(float64(maxPx) / ratio)
	} else {
		height = maxPx
		width = int(float64(maxPx) * ratio)
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
