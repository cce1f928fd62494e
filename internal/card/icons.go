package card

import (
	"embed"
	"io/fs"
	"strings"
)

//go:embed static
var staticFiles embed.FS

// SourceExternal is the decorative icon next to the card title.
const SourceExternal = "external"

// IconSet maps link sources to icon URLs.
type IconSet map[string]string

// DefaultIcons points every source at the bundled SVGs served under
// baseURL (see StaticFS).
func DefaultIcons(baseURL string) IconSet {
	base := strings.TrimRight(baseURL, "/") + "/icons/"
	return IconSet{
		SourceGitHub:   base + "github.svg",
		SourceWebsite:  base + "website.svg",
		SourceDiscord:  base + "discord.svg",
		SourceTwitter:  base + "twitter.svg",
		SourceTelegram: base + "telegram.svg",
		SourceExternal: base + "box_arrow_out.svg",
	}
}

// For returns the icon for source, or "" if there is none.
func (s IconSet) For(source string) string {
	return s[source]
}

// StaticFS holds card.css and the icons directory.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
