package card

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/projectcard/internal/logging"
	"github.com/conneroisu/projectcard/internal/markup"
)

// DefaultStaticURL is where StaticFS is expected to be mounted.
const DefaultStaticURL = "/static"

// Option customizes Card.
type Option func(*renderOptions)

type renderOptions struct {
	assets AssetResolver
	icons  IconSet
	links  LinkOptions
	logger logging.Logger
}

// WithAssets resolves local images. Without it every local image falls
// back to the banner.
func WithAssets(assets AssetResolver) Option {
	return func(o *renderOptions) { o.assets = assets }
}

// WithIcons overrides the icon URLs.
func WithIcons(icons IconSet) Option {
	return func(o *renderOptions) { o.icons = icons }
}

// WithLinkOptions sets the footer link style.
func WithLinkOptions(opts LinkOptions) Option {
	return func(o *renderOptions) { o.links = opts }
}

// WithLogger receives image fallbacks at debug level.
func WithLogger(logger logging.Logger) Option {
	return func(o *renderOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newRenderOptions(opts []Option) *renderOptions {
	o := &renderOptions{
		icons:  DefaultIcons(DefaultStaticURL),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Card renders a project card.
func Card(p ProjectCard, opts ...Option) templ.Component {
	o := newRenderOptions(opts)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := markup.NewWriter(w)
		hw.Raw(`<div class="card border border-dark">`)
		hw.Component(ctx, o.imageArea(ctx, p))
		hw.Raw(`<div class="card-body"><div style="display: flex"><div class="card-title">`)
		hw.Text(p.Name)
		hw.Raw(`</div><div style="width: 0.8125rem"></div><img src="`)
		hw.Text(o.icons.For(SourceExternal))
		hw.Raw(`" alt=""></div>`)
		hw.Component(ctx, DescriptionComponent(p.Description))
		hw.Raw(`</div><div class="card-footer"><div class="docs-links">`)
		hw.Component(ctx, linkGroup(p.Links, DocLink, o.icons, o.links))
		hw.Raw(`</div><div class="social-links">`)
		hw.Component(ctx, linkGroup(p.Links, SocialLink, o.icons, o.links))
		hw.Raw(`</div></div></div>`)
		return hw.Err()
	})
}

// imageArea picks the explicit image, then the banner, then nothing. A
// failed lookup is not an error for the card.
func (o *renderOptions) imageArea(ctx context.Context, p ProjectCard) templ.Component {
	if p.Image != "" {
		src, err := ImageSource(p.Image, o.assets)
		if err == nil {
			return imageTag(src, p.Name)
		}
		o.logger.Debug(ctx, "image unavailable, using fallback",
			"project", p.Name,
			"image", p.Image,
			"reason", err.Error(),
			"banner", p.BannerEnabled(),
		)
	}

	if p.BannerEnabled() {
		return Banner(p.DisplayName())
	}
	return nil
}

func imageTag(src, alt string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := markup.NewWriter(w)
		hw.Raw(`<img class="card-img-top" src="`)
		hw.Text(src)
		hw.Raw(`" alt="`)
		hw.Text(alt)
		hw.Raw(`">`)
		return hw.Err()
	})
}
