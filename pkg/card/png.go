package card

import (
	"bytes"
	"fmt"
	"os/exec"

	apperrors "github.com/streakstats/streakcard/pkg/errors"
)

// ToPNG rasterizes SVG bytes with rsvg-convert at the given scale factor
// (2.0 doubles the pixel dimensions).
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeUnsupported,
			"png output requires librsvg (apt install librsvg2-bin / brew install librsvg)")
	}

	cmd := exec.Command("rsvg-convert", "-f", "png", "-z", fmt.Sprintf("%.2f", scale))
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err,
			"rsvg-convert failed: %s", errBuf.String())
	}
	return out.Bytes(), nil
}
