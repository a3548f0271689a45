package render

import (
	"context"
	"testing"

	"github.com/matzehuels/venuemap/pkg/errors"
)

func TestConvertMissingBinary(t *testing.T) {
	old := converter
	converter = "venuemap-no-such-rasterizer"
	t.Cleanup(func() { converter = old })

	if Available() {
		t.Fatal("Available reported a missing binary")
	}
	if _, err := ToPDF(context.Background(), []byte("<svg/>")); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPDF err = %v, want UNSUPPORTED", err)
	}
	if _, err := ToPNG(context.Background(), []byte("<svg/>"), 2); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPNG err = %v, want UNSUPPORTED", err)
	}
}

func TestToPNGScale(t *testing.T) {
	if _, err := ToPNG(context.Background(), []byte("<svg/>"), 0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestConvert(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`)
	png, err := ToPNG(context.Background(), svg, 1)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("output is not a PNG")
	}
}
