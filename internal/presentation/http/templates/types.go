package templates

// SiteName is used in page titles and the header.
const SiteName = "Fintide"

// DefaultFooterNote is shown in the shared layout when a page does not supply custom text.
const DefaultFooterNote = "Fintide builds payment infrastructure for banks and credit unions."

// Nav identifies the active main navigation entry.
type Nav string

const (
	NavNone    Nav = ""
	NavBanks   Nav = "banks"
	NavNews    Nav = "news"
	NavCareers Nav = "careers"
)

// LayoutData configures the shared page chrome.
type LayoutData struct {
	Title       string
	Description string
	Active      Nav
	FooterNote  string
}

// ArticleTeaser is a news entry shown in lists.
type ArticleTeaser struct {
	Title          string
	URL            string
	Excerpt        string
	PublishedLabel string
	PublishedISO   string
}

// LandingPageData contains dynamic values rendered on the landing page.
type LandingPageData struct {
	Teasers []ArticleTeaser
}

// NewsIndexData lists published articles.
type NewsIndexData struct {
	Articles []ArticleTeaser
}

// ArticlePageData holds a single article.
type ArticlePageData struct {
	Title          string
	Excerpt        string
	BodyHTML       string
	PublishedLabel string
	PublishedISO   string
}

// JobTeaser is a job opening shown on the careers page.
type JobTeaser struct {
	Title          string
	URL            string
	Location       string
	EmploymentType string
}

// TeamJobs groups openings by team.
type TeamJobs struct {
	Team string
	Jobs []JobTeaser
}

// CareersPageData bundles openings and the newsletter form state.
type CareersPageData struct {
	Teams []TeamJobs
}

// JobPageData holds a single job opening.
type JobPageData struct {
	Title           string
	Team            string
	Location        string
	EmploymentType  string
	DescriptionHTML string
}

// SubscribedPageData is rendered after a newsletter form post.
type SubscribedPageData struct {
	Email             string
	AlreadySubscribed bool
}

// ErrorPageData holds information for rendering an error view.
type ErrorPageData struct {
	StatusLabel string
	Message     string
	BackURL     string
	BackLabel   string
}
