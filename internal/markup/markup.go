// Package markup writes HTML fragments for hand-built templ components.
package markup

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Writer keeps the first write error so markup can be emitted without
// checking every call.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes s unescaped.
func (mw *Writer) Raw(s string) {
	if mw.err != nil {
		return
	}
	_, mw.err = io.WriteString(mw.w, s)
}

// Text writes s HTML-escaped, for element content and attribute values.
func (mw *Writer) Text(s string) {
	mw.Raw(templ.EscapeString(s))
}

// Component renders c in place. A nil component writes nothing.
func (mw *Writer) Component(ctx context.Context, c templ.Component) {
	if mw.err != nil || c == nil {
		return
	}
	mw.err = c.Render(ctx, mw.w)
}

// Err returns the first error seen.
func (mw *Writer) Err() error {
	return mw.err
}
