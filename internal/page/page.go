// Package page wraps rendered cards in a complete HTML document for the
// preview server and the render command.
package page

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/projectcard/internal/card"
	"github.com/conneroisu/projectcard/internal/markup"
)

// DefaultWebSocketPath is where the live reload script connects.
const DefaultWebSocketPath = "/ws"

type LayoutOptions struct {
	// StaticURL is the prefix the card stylesheet is served under.
	StaticURL string
	// LiveReload adds a script that reloads the page when the server
	// broadcasts {"type":"reload"}.
	LiveReload    bool
	WebSocketPath string
}

func (o LayoutOptions) withDefaults() LayoutOptions {
	if o.StaticURL == "" {
		o.StaticURL = card.DefaultStaticURL
	}
	if o.WebSocketPath == "" {
		o.WebSocketPath = DefaultWebSocketPath
	}
	return o
}

const liveReloadScript = `(function () {
  var path = document.currentScript.dataset.ws;
  var delay = 1000;
  function connect() {
    var proto = location.protocol === "https:" ? "wss:" : "ws:";
    var ws = new WebSocket(proto + "//" + location.host + path);
    ws.onopen = function () { delay = 1000; };
    ws.onmessage = function (e) {
      try {
        if (JSON.parse(e.data).type === "reload") location.reload();
      } catch (_) {}
    };
    ws.onclose = function () {
      setTimeout(connect, delay);
      delay = Math.min(delay * 2, 10000);
    };
  }
  connect();
})();`

// Layout renders the document scaffolding around the children passed with
// templ.WithChildren.
func Layout(title string, opts LayoutOptions) templ.Component {
	opts = opts.withDefaults()
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		pw := markup.NewWriter(w)
		pw.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		pw.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		pw.Raw(`<title>`)
		pw.Text(title)
		pw.Raw(`</title><link rel="stylesheet" href="`)
		pw.Text(opts.StaticURL + "/card.css")
		pw.Raw(`"></head><body><main>`)
		pw.Component(ctx, templ.GetChildren(ctx))
		pw.Raw(`</main>`)
		if opts.LiveReload {
			pw.Raw(`<script data-ws="`)
			pw.Text(opts.WebSocketPath)
			pw.Raw(`">`)
			pw.Raw(liveReloadScript)
			pw.Raw(`</script>`)
		}
		pw.Raw(`</body></html>`)
		return pw.Err()
	})
}

// Document renders body inside Layout.
func Document(title string, opts LayoutOptions, body templ.Component) templ.Component {
	layout := Layout(title, opts)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return layout.Render(templ.WithChildren(ctx, body), w)
	})
}

// Gallery lays cards out in a responsive grid.
func Gallery(cards []templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		pw := markup.NewWriter(w)
		pw.Raw(`<div class="card-gallery">`)
		for _, c := range cards {
			pw.Component(ctx, c)
		}
		pw.Raw(`</div>`)
		return pw.Err()
	})
}

// Message renders a short notice, used for empty catalogs and unknown
// project names.
func Message(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		pw := markup.NewWriter(w)
		pw.Raw(`<p class="notice">`)
		pw.Text(text)
		pw.Raw(`</p>`)
		return pw.Err()
	})
}
