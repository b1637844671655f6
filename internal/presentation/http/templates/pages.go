package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// LandingPage renders the "for banks" landing page.
func LandingPage(data LandingPageData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := newWriter(ctx, w)

		b.raw(`<section class="hero"><h1>Real-time payments for the banks your customers already trust</h1>`)
		b.raw(`<p class="lead">Fintide connects regional banks and credit unions to instant settlement, `)
		b.raw(`open banking APIs and fraud screening without replacing the core banking system.</p>`)
		b.raw(`<p><a class="button" href="/careers">Join the team</a> <a class="button secondary" href="/news">Read the latest news</a></p></section>`)

		b.raw(`<section class="features"><h2>Built for banks</h2><ul>`)
		for _, feature := range landingFeatures {
			b.raw("<li><h3>")
			b.text(feature[0])
			b.raw("</h3><p>")
			b.text(feature[1])
			b.raw("</p></li>")
		}
		b.raw("</ul></section>")

		b.raw(`<section class="latest-news"><h2>Latest news</h2>`)
		if len(data.Teasers) == 0 {
			b.raw(`<p class="empty">No news yet. Check back soon.</p>`)
		} else {
			b.component(teaserList(data.Teasers))
			b.raw(`<p><a href="/news">All news</a></p>`)
		}
		b.raw("</section>")

		return b.err
	})

	return Layout(LayoutData{
		Title:       SiteName,
		Description: "Payment infrastructure for regional banks and credit unions.",
		Active:      NavBanks,
	}, content)
}

var landingFeatures = [][2]string{
	{"Instant settlement", "Settle account-to-account and card payments in seconds, around the clock."},
	{"Open banking APIs", "Expose accounts and payment initiation to licensed third parties through one gateway."},
	{"Compliance built in", "Sanctions screening and transaction monitoring run before money moves."},
}

// NewsIndexPage lists published articles, newest first.
func NewsIndexPage(data NewsIndexData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := newWriter(ctx, w)

		b.raw("<h1>News</h1>")
		if len(data.Articles) == 0 {
			b.raw(`<p class="empty">No articles have been published yet.</p>`)
		} else {
			b.component(teaserList(data.Articles))
		}

		return b.err
	})

	return Layout(LayoutData{Title: "News", Description: "Announcements and press releases from Fintide.", Active: NavNews}, content)
}

// ArticlePage renders a single news article.
func ArticlePage(data ArticlePageData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := newWriter(ctx, w)

		b.raw(`<article class="article"><header><h1>`)
		b.text(data.Title)
		b.raw("</h1>")
		if data.PublishedLabel != "" {
			b.raw("<p class=\"meta\"><time")
			b.attr("datetime", data.PublishedISO)
			b.raw(">")
			b.text(data.PublishedLabel)
			b.raw("</time></p>")
		}
		b.raw(`</header><div class="article-body">`)
		b.component(RawHTML(data.BodyHTML))
		b.raw(`</div><p><a href="/news">Back to all news</a></p></article>`)

		return b.err
	})

	return Layout(LayoutData{Title: data.Title, Description: data.Excerpt, Active: NavNews}, content)
}

// CareersPage lists open jobs grouped by team and offers the newsletter form.
func CareersPage(data CareersPageData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := newWriter(ctx, w)

		b.raw("<h1>Careers</h1>")
		b.raw(`<p class="lead">We are a small team building infrastructure that banks depend on. We hire across Europe.</p>`)

		if len(data.Teams) == 0 {
			b.raw(`<p class="empty">There are no open positions right now. Subscribe below to hear about new roles.</p>`)
		}

		for _, team := range data.Teams {
			b.raw(`<section class="team"><h2>`)
			b.text(team.Team)
			b.raw(`</h2><ul class="jobs">`)
			for _, job := range team.Jobs {
				b.raw("<li><a")
				b.href(job.URL)
				b.raw(">")
				b.text(job.Title)
				b.raw(`</a> <span class="meta">`)
				b.text(job.Location)
				if job.EmploymentType != "" {
					b.raw(" · ")
					b.text(job.EmploymentType)
				}
				b.raw("</span></li>")
			}
			b.raw("</ul></section>")
		}

		b.component(newsletterForm("careers"))

		return b.err
	})

	return Layout(LayoutData{Title: "Careers", Description: "Open positions at Fintide.", Active: NavCareers}, content)
}

// JobPage renders a single job opening.
func JobPage(data JobPageData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := newWriter(ctx, w)

		b.raw(`<article class="job"><header><h1>`)
		b.text(data.Title)
		b.raw(`</h1><p class="meta">`)
		b.text(data.Team)
		for _, part := range []string{data.Location, data.EmploymentType} {
			if part == "" {
				continue
			}
			b.raw(" · ")
			b.text(part)
		}
		b.raw(`</p></header><div class="job-body">`)
		b.component(RawHTML(data.DescriptionHTML))
		b.raw(`</div><p><a href="/careers">All open positions</a></p></article>`)

		return b.err
	})

	return Layout(LayoutData{Title: data.Title, Active: NavCareers}, content)
}

// SubscribedPage confirms a newsletter signup.
func SubscribedPage(data SubscribedPageData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := newWriter(ctx, w)

		b.raw(`<section class="subscribed"><h1>`)
		if data.AlreadySubscribed {
			b.raw("You are already subscribed")
		} else {
			b.raw("Thanks for subscribing")
		}
		b.raw("</h1><p>We will send news about Fintide to <strong>")
		b.text(data.Email)
		b.raw(`</strong>.</p><p><a href="/careers">Back to careers</a></p></section>`)

		return b.err
	})

	return Layout(LayoutData{Title: "Newsletter", Active: NavCareers}, content)
}

// ErrorPage renders an error view.
func ErrorPage(data ErrorPageData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := newWriter(ctx, w)

		backURL, backLabel := data.BackURL, data.BackLabel
		if backURL == "" {
			backURL, backLabel = "/", "Go to the homepage"
		}

		b.raw(`<section class="error"><h1>`)
		b.text(data.StatusLabel)
		b.raw("</h1><p>")
		b.text(data.Message)
		b.raw("</p><p><a")
		b.href(backURL)
		b.raw(">")
		b.text(backLabel)
		b.raw("</a></p></section>")

		return b.err
	})

	return Layout(LayoutData{Title: data.StatusLabel}, content)
}

func teaserList(teasers []ArticleTeaser) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := newWriter(ctx, w)

		b.raw(`<ul class="teasers">`)
		for _, teaser := range teasers {
			b.raw("<li><h3><a")
			b.href(teaser.URL)
			b.raw(">")
			b.text(teaser.Title)
			b.raw("</a></h3>")
			if teaser.PublishedLabel != "" {
				b.raw(`<p class="meta"><time`)
				b.attr("datetime", teaser.PublishedISO)
				b.raw(">")
				b.text(teaser.PublishedLabel)
				b.raw("</time></p>")
			}
			if teaser.Excerpt != "" {
				b.raw("<p>")
				b.text(teaser.Excerpt)
				b.raw("</p>")
			}
			b.raw("</li>")
		}
		b.raw("</ul>")

		return b.err
	})
}

func newsletterForm(source string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := newWriter(ctx, w)

		b.raw(`<section class="newsletter"><h2>Stay in the loop</h2>`)
		b.raw(`<p>Get new openings and company news by email. No spam, unsubscribe any time.</p>`)
		b.raw(`<form method="post" action="/newsletter"><label for="newsletter-email">Email address</label>`)
		b.raw(`<input id="newsletter-email" type="email" name="email" required maxlength="254" autocomplete="email">`)
		b.raw(`<input type="hidden" name="source"`)
		b.attr("value", source)
		b.raw(`><button type="submit">Subscribe</button></form></section>`)

		return b.err
	})
}
