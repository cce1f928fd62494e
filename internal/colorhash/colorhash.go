// Package colorhash derives stable colors from strings.
//
// The same input always produces the same color. Hue, saturation and
// lightness are picked from caller supplied ranges using a BKDR hash of the
// input.
package colorhash

import (
	"math"
	"unicode/utf16"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	hashSeed      = 131
	hashSeedGuard = 137
	hueResolution = 727

	// maxSafeInteger mirrors the largest integer a float64 holds exactly.
	maxSafeInteger = 9007199254740991
)

var defaultLevels = []float64{0.35, 0.5, 0.65}

// HueRange constrains generated hues to [Min, Max] degrees.
type HueRange struct {
	Min float64
	Max float64
}

// Options configures a ColorHash. Empty slices fall back to defaults.
type Options struct {
	Hue        []HueRange
	Lightness  []float64
	Saturation []float64
	// Hash replaces the default BKDR hash when set.
	Hash func(string) uint64
}

// ColorHash maps strings to colors.
type ColorHash struct {
	hue        []HueRange
	lightness  []float64
	saturation []float64
	hash       func(string) uint64
}

// New creates a ColorHash from options.
func New(opts Options) *ColorHash {
	ch := &ColorHash{
		hue:        append([]HueRange(nil), opts.Hue...),
		lightness:  append([]float64(nil), opts.Lightness...),
		saturation: append([]float64(nil), opts.Saturation...),
		hash:       opts.Hash,
	}
	if len(ch.lightness) == 0 {
		ch.lightness = append(ch.lightness, defaultLevels...)
	}
	if len(ch.saturation) == 0 {
		ch.saturation = append(ch.saturation, defaultLevels...)
	}
	if ch.hash == nil {
		ch.hash = BKDRHash
	}
	return ch
}

// BKDRHash hashes the UTF-16 code units of s with a trailing "x" appended,
// so that single character inputs still spread across the color space.
func BKDRHash(s string) uint64 {
	const guard = maxSafeInteger / hashSeedGuard

	var hash uint64
	for _, unit := range utf16.Encode([]rune(s + "x")) {
		if hash > guard {
			hash /= hashSeedGuard
		}
		hash = hash*hashSeed + uint64(unit)
	}
	return hash
}

// HSL returns hue in degrees and saturation/lightness in [0, 1].
func (c *ColorHash) HSL(s string) (h, sat, l float64) {
	hash := c.hash(s)

	if n := uint64(len(c.hue)); n > 0 {
		r := c.hue[hash%n]
		h = math.Mod(float64(hash)/float64(n), hueResolution)*(r.Max-r.Min)/hueResolution + r.Min
	} else {
		h = float64(hash % 359)
	}

	hash = ceilDiv(hash, 360)
	sat = c.saturation[hash%uint64(len(c.saturation))]
	hash = ceilDiv(hash, uint64(len(c.saturation)))
	l = c.lightness[hash%uint64(len(c.lightness))]

	return h, sat, l
}

// Color returns the color for s.
func (c *ColorHash) Color(s string) colorful.Color {
	return colorful.Hsl(c.HSL(s))
}

// Hex returns the color for s as lowercase "#rrggbb".
func (c *ColorHash) Hex(s string) string {
	return c.Color(s).Hex()
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}
