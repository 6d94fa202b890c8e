package artwork

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/khanCurtis/rustwav/internal/constants"
	"github.com/khanCurtis/rustwav/internal/domain"
)

func portableProfile() domain.OutputProfile {
	return domain.OutputProfile{
		Kind:        domain.ProfilePortable,
		ArtMaxPx:    constants.PortableArtMaxPx,
		ArtMaxBytes: constants.PortableArtMaxBytes,
	}
}

func testImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), uint8((x + y) % 256), 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestFit_DownscalesToCap(t *testing.T) {
	data := testImage(t, 1000, 600)

	fitted, err := Fit(data, portableProfile())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if fitted == nil {
		t.Fatal("expected fitted art")
	}
	if len(fitted) > constants.PortableArtMaxBytes {
		t.Errorf("fitted art is %d bytes, cap is %d", len(fitted), constants.PortableArtMaxBytes)
	}

	img, _, err := image.Decode(bytes.NewReader(fitted))
	if err != nil {
		t.Fatalf("decode fitted art: %v", err)
	}
	b := img.Bounds()
	if b.Dx() > constants.PortableArtMaxPx || b.Dy() > constants.PortableArtMaxPx {
		t.Errorf("fitted art is %dx%d, pixel cap is %d", b.Dx(), b.Dy(), constants.PortableArtMaxPx)
	}
	// Aspect ratio preserved: 1000x600 -> 128x76.
	if b.Dx() != constants.PortableArtMaxPx {
		t.Errorf("longer edge should hit the cap, got %d", b.Dx())
	}
}

func TestFit_SmallImagePassesThrough(t *testing.T) {
	data := testImage(t, 64, 64)

	fitted, err := Fit(data, portableProfile())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if fitted == nil {
		t.Fatal("expected art within caps to survive")
	}

	img, _, err := image.Decode(bytes.NewReader(fitted))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Errorf("small image should keep its dimensions, got %v", img.Bounds())
	}
}

func TestFit_OutputIsJPEG(t *testing.T) {
	fitted, err := Fit(testImage(t, 256, 256), portableProfile())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(fitted)); err != nil {
		t.Errorf("fitted art should be JPEG: %v", err)
	}
}

func TestFit_EmptyInput(t *testing.T) {
	fitted, err := Fit(nil, portableProfile())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if fitted != nil {
		t.Error("empty input should yield nil art")
	}
}

func TestFit_GarbageInput(t *testing.T) {
	if _, err := Fit([]byte("not an image"), portableProfile()); err == nil {
		t.Error("expected decode error")
	}
}
