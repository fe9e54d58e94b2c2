package scene

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/matzehuels/easel/pkg/errors"
)

// ParseColor parses #rgb, #rrggbb, and #rrggbbaa hex colors. Alpha
// defaults to opaque.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if hex == s {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidColor, "color %q must start with #", s)
	}

	var r, g, b, a uint64
	var err error
	switch len(hex) {
	case 3:
		r, g, b, a, err = parseHexParts(hex[0:1]+hex[0:1], hex[1:2]+hex[1:2], hex[2:3]+hex[2:3], "ff")
	case 6:
		r, g, b, a, err = parseHexParts(hex[0:2], hex[2:4], hex[4:6], "ff")
	case 8:
		r, g, b, a, err = parseHexParts(hex[0:2], hex[2:4], hex[4:6], hex[6:8])
	default:
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidColor, "color %q has invalid length", s)
	}
	if err != nil {
		return color.RGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "color %q", s)
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}, nil
}

func parseHexParts(rs, gs, bs, as string) (r, g, b, a uint64, err error) {
	if r, err = strconv.ParseUint(rs, 16, 8); err != nil {
		return
	}
	if g, err = strconv.ParseUint(gs, 16, 8); err != nil {
		return
	}
	if b, err = strconv.ParseUint(bs, 16, 8); err != nil {
		return
	}
	a, err = strconv.ParseUint(as, 16, 8)
	return
}
