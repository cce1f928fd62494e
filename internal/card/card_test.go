package card

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/projectcard/internal/errors"
	"github.com/conneroisu/projectcard/internal/logging"
)

var testAssets = &DirAssets{
	FS: fstest.MapFS{
		"acme.png":      {Data: []byte("png")},
		"img/a b.png":   {Data: []byte("png")},
		"img/empty.svg": {Data: []byte("<svg/>")},
	},
	BaseURL: "/assets/",
}

func TestCardExample(t *testing.T) {
	p := ProjectCard{
		Name:        "Acme",
		Description: Description{"A tool.", "For builders."},
	}

	doc := parse(t, render(t, Card(p)))

	cards := findAll(doc, byClass("card"))
	require.Len(t, cards, 1)
	assert.Equal(t, "card border border-dark", attr(cards[0], "class"))

	titles := findAll(doc, byClass("card-title"))
	require.Len(t, titles, 1)
	assert.Equal(t, "Acme", textOf(titles[0]))

	var texts []string
	for _, p := range findAll(doc, byClass("card-text-project")) {
		texts = append(texts, textOf(p))
	}
	assert.Equal(t, []string{"A tool.", "For builders."}, texts)

	_, background := BannerColors("Acme")
	svgs := findAll(doc, byTag("svg"))
	require.Len(t, svgs, 1)
	assert.Equal(t, "background-color: "+background, attr(svgs[0], "style"))

	assert.Len(t, findAll(doc, byClass("docs-links")), 1)
	assert.Len(t, findAll(doc, byClass("social-links")), 1)
	assert.Empty(t, findAll(doc, byClass("link")))
}

func TestCardTitleIcon(t *testing.T) {
	doc := parse(t, render(t, Card(ProjectCard{Name: "Acme"}, WithIcons(IconSet{SourceExternal: "/out.svg"}))))

	bodies := findAll(doc, byClass("card-body"))
	require.Len(t, bodies, 1)
	imgs := findAll(bodies[0], byTag("img"))
	require.Len(t, imgs, 1)
	assert.Equal(t, "/out.svg", attr(imgs[0], "src"))
}

func TestCardImageSelection(t *testing.T) {
	testCases := []struct {
		name       string
		card       ProjectCard
		opts       []Option
		wantImgSrc string
		wantBanner string
	}{
		{
			name:       "remote image",
			card:       ProjectCard{Name: "Acme", Image: "https://cdn.acme.dev/logo.png"},
			wantImgSrc: "https://cdn.acme.dev/logo.png",
		},
		{
			name:       "remote image without resolver and banner disabled",
			card:       ProjectCard{Name: "Acme", Image: "http://cdn.acme.dev/logo.png", RenderBanner: boolPtr(false)},
			wantImgSrc: "http://cdn.acme.dev/logo.png",
		},
		{
			name:       "local image resolved",
			card:       ProjectCard{Name: "Acme", Image: "acme.png"},
			opts:       []Option{WithAssets(testAssets)},
			wantImgSrc: "/assets/acme.png",
		},
		{
			name:       "local image path is escaped",
			card:       ProjectCard{Name: "Acme", Image: "img/a b.png"},
			opts:       []Option{WithAssets(testAssets)},
			wantImgSrc: "/assets/img/a%20b.png",
		},
		{
			name:       "missing local image falls back to banner",
			card:       ProjectCard{Name: "Acme", Image: "missing.png"},
			opts:       []Option{WithAssets(testAssets)},
			wantBanner: "Acme",
		},
		{
			name:       "directory is not an image",
			card:       ProjectCard{Name: "Acme", Image: "img"},
			opts:       []Option{WithAssets(testAssets)},
			wantBanner: "Acme",
		},
		{
			name:       "traversal is rejected",
			card:       ProjectCard{Name: "Acme", Image: "../secret.png"},
			opts:       []Option{WithAssets(testAssets)},
			wantBanner: "Acme",
		},
		{
			name:       "local image without resolver falls back",
			card:       ProjectCard{Name: "Acme", Image: "acme.png", RenderBanner: boolPtr(true)},
			wantBanner: "Acme",
		},
		{
			name: "failed image with banner disabled renders nothing",
			card: ProjectCard{Name: "Acme", Image: "missing.png", RenderBanner: boolPtr(false)},
			opts: []Option{WithAssets(testAssets)},
		},
		{
			name:       "no image uses banner by default",
			card:       ProjectCard{Name: "Acme"},
			wantBanner: "Acme",
		},
		{
			name:       "banner prefers short name",
			card:       ProjectCard{Name: "Acme Corporation Toolkit", ShortName: "ACT"},
			wantBanner: "ACT",
		},
		{
			name: "no image and banner disabled",
			card: ProjectCard{Name: "Acme", RenderBanner: boolPtr(false)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := parse(t, render(t, Card(tc.card, tc.opts...)))

			imgs := findAll(doc, byClass("card-img-top"))
			if tc.wantImgSrc == "" && tc.wantBanner == "" {
				assert.Empty(t, imgs)
				return
			}
			require.Len(t, imgs, 1)

			if tc.wantImgSrc != "" {
				assert.Equal(t, "img", imgs[0].Data)
				assert.Equal(t, tc.wantImgSrc, attr(imgs[0], "src"))
				assert.Equal(t, tc.card.Name, attr(imgs[0], "alt"))
				return
			}

			assert.Equal(t, "svg", imgs[0].Data)
			assert.Equal(t, tc.wantBanner, textOf(imgs[0]))
			_, background := BannerColors(tc.wantBanner)
			assert.Equal(t, "background-color: "+background, attr(imgs[0], "style"))
		})
	}
}

func TestCardLinkGroups(t *testing.T) {
	p := ProjectCard{
		Name:        "Acme",
		Description: Description{"A tool."},
		Links: []Link{
			{GitHub: "github.com/acme/tool"},
			{Discord: "https://discord.gg/acme"},
			{Website: "acme.dev", Twitter: "twitter.com/acme"},
			{},
			{Telegram: "t.me/acme"},
		},
	}

	doc := parse(t, render(t, Card(p)))

	docs := findAll(doc, byClass("docs-links"))
	require.Len(t, docs, 1)
	var docHrefs []string
	for _, a := range findAll(docs[0], byTag("a")) {
		docHrefs = append(docHrefs, attr(a, "href"))
	}
	assert.Equal(t, []string{"//github.com/acme/tool", "//acme.dev"}, docHrefs)

	social := findAll(doc, byClass("social-links"))
	require.Len(t, social, 1)
	var socialHrefs []string
	var socialAlts []string
	for _, a := range findAll(social[0], byTag("a")) {
		socialHrefs = append(socialHrefs, attr(a, "href"))
		socialAlts = append(socialAlts, attr(findAll(a, byTag("img"))[0], "alt"))
	}
	assert.Equal(t, []string{"https://discord.gg/acme", "//twitter.com/acme", "//t.me/acme"}, socialHrefs)
	assert.Equal(t, []string{SourceDiscord, SourceTwitter, SourceTelegram}, socialAlts)

	assert.Len(t, findAll(doc, byClass("link")), 5)
}

func TestCardEntryWithoutKnownFieldRendersNoLink(t *testing.T) {
	doc := parse(t, render(t, Card(ProjectCard{Name: "Acme", Links: []Link{{}, {}}})))
	assert.Empty(t, findAll(doc, byClass("link")))
	assert.Empty(t, findAll(doc, byTag("a")))
}

func TestCardLinkOptions(t *testing.T) {
	p := ProjectCard{Name: "Acme", Links: []Link{{GitHub: "https://github.com/acme"}}}
	doc := parse(t, render(t, Card(p, WithLinkOptions(LinkOptions{Button: true, ShowText: true}))))

	anchors := findAll(doc, byTag("a"))
	require.Len(t, anchors, 1)
	assert.Equal(t, "btn", attr(anchors[0], "class"))
	assert.Len(t, findAll(doc, byClass("link-title")), 1)
}

func TestCardDefaultIcons(t *testing.T) {
	p := ProjectCard{Name: "Acme", Links: []Link{{Website: "acme.dev"}}}
	doc := parse(t, render(t, Card(p)))

	icons := findAll(doc, byClass("icon"))
	require.Len(t, icons, 1)
	assert.Equal(t, "/static/icons/website.svg", attr(icons[0], "src"))
}

func TestCardIsDeterministic(t *testing.T) {
	p := ProjectCard{
		Name:        "Acme",
		Description: Description{"A tool."},
		Links:       []Link{{GitHub: "github.com/acme"}, {Discord: "discord.gg/acme"}},
	}
	c := Card(p)
	assert.Equal(t, render(t, c), render(t, c))
	assert.Equal(t, render(t, c), render(t, Card(p)))
}

func TestCardLogsImageFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelDebug, Format: "json", Output: &buf})

	p := ProjectCard{Name: "Acme", Image: "missing.png"}
	markup := render(t, Card(p, WithAssets(testAssets), WithLogger(logger)))
	assert.Contains(t, markup, "<svg")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Acme", entry["project"])
	assert.Equal(t, "missing.png", entry["image"])
}

func TestCardDoesNotMutateInput(t *testing.T) {
	p := ProjectCard{
		Name:        "Acme",
		Description: Description{"A tool."},
		Links:       []Link{{GitHub: "github.com/acme"}},
	}
	_ = render(t, Card(p))

	assert.Equal(t, "github.com/acme", p.Links[0].GitHub)
	assert.Nil(t, p.RenderBanner)
}

func TestDirAssetsErrors(t *testing.T) {
	_, err := testAssets.Resolve("missing.png")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAsset))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = testAssets.Resolve("/etc/passwd")
	assert.True(t, errors.IsType(err, errors.ErrorTypeAsset))

	_, err = testAssets.Resolve(".")
	assert.Error(t, err)
}

func TestImageSource(t *testing.T) {
	src, err := ImageSource("https://acme.dev/a.png", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://acme.dev/a.png", src)

	_, err = ImageSource("a.png", nil)
	assert.Error(t, err)

	src, err = ImageSource("a.png", AssetResolverFunc(func(name string) (string, error) {
		return "/cdn/" + name, nil
	}))
	require.NoError(t, err)
	assert.Equal(t, "/cdn/a.png", src)
}

func TestStaticFS(t *testing.T) {
	static := StaticFS()
	for _, name := range []string{"card.css", "icons/github.svg", "icons/website.svg", "icons/discord.svg", "icons/twitter.svg", "icons/telegram.svg", "icons/box_arrow_out.svg"} {
		_, err := fs.Stat(static, name)
		assert.NoError(t, err, name)
	}

	for source, url := range DefaultIcons("/static/") {
		assert.Contains(t, url, "/static/icons/", source)
	}
}

func TestRenderRespectsWriterErrors(t *testing.T) {
	err := Card(ProjectCard{Name: "Acme"}).Render(context.Background(), failingWriter{})
	assert.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, fs.ErrClosed }
