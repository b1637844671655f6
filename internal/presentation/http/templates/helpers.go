package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// RawHTML returns a templ component that writes the provided HTML without escaping.
func RawHTML(html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, err := io.WriteString(w, html)
		return err
	})
}

// writer accumulates the first write error so components read top to bottom.
type writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newWriter(ctx context.Context, w io.Writer) *writer {
	return &writer{ctx: ctx, w: w, err: ctx.Err()}
}

func (b *writer) raw(s string) {
	if b.err != nil {
		return
	}
	_, b.err = io.WriteString(b.w, s)
}

func (b *writer) text(s string) {
	b.raw(templ.EscapeString(s))
}

func (b *writer) attr(name, value string) {
	b.raw(" " + name + "=\"")
	b.text(value)
	b.raw("\"")
}

func (b *writer) href(url string) {
	b.attr("href", string(templ.URL(url)))
}

func (b *writer) component(c templ.Component) {
	if b.err != nil || c == nil {
		return
	}
	b.err = c.Render(b.ctx, b.w)
}
