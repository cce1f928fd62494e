package card

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/projectcard/internal/colorhash"
	"github.com/conneroisu/projectcard/internal/markup"
)

var (
	bannerHue = []colorhash.HueRange{{Min: 45, Max: 360}}

	bannerText = colorhash.New(colorhash.Options{
		Hue:       bannerHue,
		Lightness: []float64{0.8, 0.9},
	})
	bannerBackground = colorhash.New(colorhash.Options{
		Hue:        bannerHue,
		Lightness:  []float64{0.35, 0.4},
		Saturation: []float64{0.65, 0.85, 1},
	})
)

// BannerColors derives the banner's text and background colors from name.
// Light text on a dark, saturated background keeps the label readable.
func BannerColors(name string) (text, background string) {
	return bannerText.Hex(name), bannerBackground.Hex(name)
}

// Banner renders a 350x150 SVG with name centered on a color derived from
// the name itself.
func Banner(name string) templ.Component {
	text, background := BannerColors(name)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := markup.NewWriter(w)
		hw.Raw(`<svg height="150px" width="350px" style="background-color: `)
		hw.Text(background)
		hw.Raw(`" class="card-img-top"><text text-anchor="middle" x="50%" y="58%" fill="`)
		hw.Text(text)
		hw.Raw(`" style="font-size: 2.5rem; font-style: italic">`)
		hw.Text(name)
		hw.Raw(`</text></svg>`)
		return hw.Err()
	})
}
