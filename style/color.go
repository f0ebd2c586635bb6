package style

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// parseColor reads "#rgb", "#rrggbb", "#rrggbbaa", "rgb(r, g, b)", "rgba(r, g, b, a)" or a CSS
// colour name into channels in [0, 1]. Alpha is dropped.
func parseColor(s string) (rgb [3]float64, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s[1:])
	case strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba("):
		open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
		if end < open {
			return rgb, false
		}
		parts := strings.Split(s[open+1:end], ",")
		if len(parts) < 3 {
			return rgb, false
		}
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
			if err != nil {
				return rgb, false
			}
			rgb[i] = clamp01(v / 255)
		}
		return rgb, true
	}
	if c, found := colornames.Map[s]; found {
		return [3]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}, true
	}
	return rgb, false
}

func parseHexColor(hex string) (rgb [3]float64, ok bool) {
	var step int
	switch len(hex) {
	case 3, 4:
		step = 1
	case 6, 8:
		step = 2
	default:
		return rgb, false
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(hex[i*step:(i+1)*step], 16, 8)
		if err != nil {
			return rgb, false
		}
		if step == 1 {
			v *= 17
		}
		rgb[i] = float64(v) / 255
	}
	return rgb, true
}

// formatHexColor recombines channels into "#rrggbb".
func formatHexColor(rgb [3]float64) string {
	return fmt.Sprintf("#%02x%02x%02x", to255(rgb[0]), to255(rgb[1]), to255(rgb[2]))
}

func to255(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
