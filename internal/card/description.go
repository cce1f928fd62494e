package card

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/projectcard/internal/markup"
)

// DescriptionComponent renders one paragraph per entry, in order.
func DescriptionComponent(d Description) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := markup.NewWriter(w)
		for _, text := range d {
			hw.Raw(`<p class="card-text-project">`)
			hw.Text(text)
			hw.Raw(`</p>`)
		}
		return hw.Err()
	})
}
