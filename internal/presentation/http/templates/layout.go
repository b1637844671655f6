package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

type navLink struct {
	nav   Nav
	label string
	url   string
}

var navLinks = []navLink{
	{nav: NavBanks, label: "For banks", url: "/"},
	{nav: NavNews, label: "News", url: "/news"},
	{nav: NavCareers, label: "Careers", url: "/careers"},
}

// Layout wraps page content in the shared document chrome.
func Layout(data LayoutData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := newWriter(ctx, w)

		title := strings.TrimSpace(data.Title)
		if title == "" {
			title = SiteName
		} else if title != SiteName {
			title = title + " • " + SiteName
		}

		footer := strings.TrimSpace(data.FooterNote)
		if footer == "" {
			footer = DefaultFooterNote
		}

		b.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.raw("<title>")
		b.text(title)
		b.raw("</title>")
		if description := strings.TrimSpace(data.Description); description != "" {
			b.raw(`<meta name="description"`)
			b.attr("content", description)
			b.raw(">")
		}
		b.raw(`<link rel="icon" type="image/svg+xml" href="/static/favicon.svg">`)
		b.raw(`<link rel="stylesheet" href="/static/site.css">`)
		b.raw("</head><body>")

		b.raw(`<header class="site-header"><a class="brand" href="/">`)
		b.text(SiteName)
		b.raw(`</a><nav aria-label="Main"><ul>`)
		for _, link := range navLinks {
			b.raw("<li><a")
			b.href(link.url)
			if link.nav == data.Active {
				b.raw(` aria-current="page"`)
			}
			b.raw(">")
			b.text(link.label)
			b.raw("</a></li>")
		}
		b.raw("</ul></nav></header>")

		b.raw(`<main id="content">`)
		b.component(content)
		b.raw("</main>")

		b.raw(`<footer class="site-footer"><p>`)
		b.text(footer)
		b.raw("</p></footer></body></html>")

		return b.err
	})
}
