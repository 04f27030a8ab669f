package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"

	"github.com/matzehuels/seatplan/pkg/errors"
)

// ToPDF converts SVG to PDF with rsvg-convert. The conversion is killed
// when ctx ends.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToPNG converts SVG to PNG with rsvg-convert. A scale of 2 doubles the
// resolution; scales <= 0 are treated as 1.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return rsvgConvert(ctx, svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extra ...string) ([]byte, error) {
	bin, err := exec.LookPath("rsvg-convert")
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export needs rsvg-convert (brew install librsvg, or apt install librsvg2-bin)", format)
	}

	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", format}, extra...)...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rsvg-convert %s: %s", format, bytes.TrimSpace(stderr.Bytes()))
	}
	return out.Bytes(), nil
}
