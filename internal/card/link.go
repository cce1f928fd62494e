package card

import (
	"context"
	"io"
	"regexp"

	"github.com/a-h/templ"

	"github.com/conneroisu/projectcard/internal/markup"
)

// Link sources. They double as CSS variable names for button backgrounds.
const (
	SourceGitHub   = "github"
	SourceWebsite  = "website"
	SourceDiscord  = "discord"
	SourceTwitter  = "twitter"
	SourceTelegram = "telegram"
)

var schemeRelative = regexp.MustCompile(`(?i)^(?:[a-z]+:)?//`)

// NormalizeURL prefixes "//" to URLs without a scheme so browsers do not
// resolve them relative to the current page. Anything else is returned
// unchanged, malformed or not.
func NormalizeURL(url string) string {
	if schemeRelative.MatchString(url) {
		return url
	}
	return "//" + url
}

// LinkOptions controls how a footer link looks.
type LinkOptions struct {
	// Button renders the link as a button colored by its source.
	Button bool `json:"button" yaml:"button"`
	// ShowText adds the source label next to the icon.
	ShowText bool `json:"show_text" yaml:"show_text"`
}

// LinkComponent renders a link that opens in a new browsing context
// without leaking the referrer or an opener handle.
func LinkComponent(url, source, icon string, opts LinkOptions) templ.Component {
	url = NormalizeURL(url)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := markup.NewWriter(w)
		hw.Raw(`<div class="link"><a href="`)
		hw.Text(url)
		hw.Raw(`" target="_blank" rel="noopener noreferrer"`)
		if opts.Button {
			hw.Raw(` class="btn" style="background-color: var(--`)
			hw.Text(source)
			hw.Raw(`)"`)
		}
		hw.Raw(`><img class="icon" src="`)
		hw.Text(icon)
		hw.Raw(`" alt="`)
		hw.Text(source)
		hw.Raw(`">`)
		if opts.ShowText {
			hw.Raw(`<div class="link-title">`)
			hw.Text(source)
			hw.Raw(`</div>`)
		}
		hw.Raw(`</a></div>`)
		return hw.Err()
	})
}

// DocLink picks the documentation link of an entry: GitHub, then website.
func DocLink(l Link) (url, source string, ok bool) {
	switch {
	case l.GitHub != "":
		return l.GitHub, SourceGitHub, true
	case l.Website != "":
		return l.Website, SourceWebsite, true
	default:
		return "", "", false
	}
}

// SocialLink picks the social link of an entry: Discord, Twitter, then
// Telegram.
func SocialLink(l Link) (url, source string, ok bool) {
	switch {
	case l.Discord != "":
		return l.Discord, SourceDiscord, true
	case l.Twitter != "":
		return l.Twitter, SourceTwitter, true
	case l.Telegram != "":
		return l.Telegram, SourceTelegram, true
	default:
		return "", "", false
	}
}

type linkPicker func(Link) (url, source string, ok bool)

func linkGroup(links []Link, pick linkPicker, icons IconSet, opts LinkOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, l := range links {
			url, source, ok := pick(l)
			if !ok {
				continue
			}
			if err := LinkComponent(url, source, icons.For(source), opts).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}
