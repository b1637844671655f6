package migrations

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	careersdata "fintide/site/internal/data/careers"
	newsdata "fintide/site/internal/data/news"
	domaincareers "fintide/site/internal/domain/careers"
	domainnews "fintide/site/internal/domain/news"
)

// DefaultJobs are the openings inserted into an empty jobs table.
var DefaultJobs = []domaincareers.Job{
	{
		Title:          "Senior Backend Engineer (Payments)",
		Team:           "Engineering",
		Location:       "Berlin or remote (EU)",
		EmploymentType: "Full-time",
		DescriptionHTML: "<p>You will build the settlement and reconciliation services our partner banks rely on every day.</p>" +
			"<ul><li>Go services on SQL databases</li><li>ISO 20022 messaging</li><li>On-call rotation shared across the team</li></ul>",
		Open: true,
	},
	{
		Title:          "Site Reliability Engineer",
		Team:           "Engineering",
		Location:       "Berlin",
		EmploymentType: "Full-time",
		DescriptionHTML: "<p>Keep our bank-facing platform available and observable across regions.</p>" +
			"<ul><li>Incident response and postmortems</li><li>Capacity planning</li></ul>",
		Open: true,
	},
	{
		Title:           "Partnerships Manager, Regional Banks",
		Team:            "Partnerships",
		Location:        "Frankfurt",
		EmploymentType:  "Full-time",
		DescriptionHTML: "<p>Own the relationship with our regional and cooperative bank partners from pilot to rollout.</p>",
		Open:            true,
	},
	{
		Title:           "Compliance Analyst (AML/KYC)",
		Team:            "Risk & Compliance",
		Location:        "Amsterdam or remote (EU)",
		EmploymentType:  "Full-time",
		DescriptionHTML: "<p>Review onboarding cases, tune transaction monitoring rules and work with regulators.</p>",
		Open:            true,
	},
}

// DefaultArticles are the news articles inserted into an empty articles table.
var DefaultArticles = []domainnews.Article{
	{
		Title:       "Fintide launches instant settlement for partner banks",
		Excerpt:     "Partner banks can now settle card and account-to-account payments in seconds instead of days.",
		BodyHTML:    "<p>Partner banks can now settle card and account-to-account payments in seconds instead of days.</p><p>The rollout starts with three cooperative banks in Germany.</p>",
		PublishedAt: time.Date(2025, time.February, 3, 9, 0, 0, 0, time.UTC),
	},
	{
		Title:       "Q3 Earnings: Up 12%!",
		Excerpt:     "Transaction volume across our bank network grew twelve percent quarter over quarter.",
		BodyHTML:    "<p>Transaction volume across our bank network grew twelve percent quarter over quarter.</p>",
		PublishedAt: time.Date(2025, time.October, 21, 8, 0, 0, 0, time.UTC),
	},
}

// SeedContent inserts the default jobs and articles into tables that are still empty.
// Tables that already hold rows are left untouched.
func SeedContent(ctx context.Context, jobs *careersdata.Repository, articles *newsdata.Repository, logger *logrus.Logger) error {
	if jobs == nil || articles == nil {
		return eris.New("seed repositories are required")
	}

	logFields := logrus.Fields{"component": "content.seed"}

	jobCount, err := jobs.Count(ctx)
	if err != nil {
		return eris.Wrap(err, "counting jobs before seeding")
	}

	if jobCount == 0 {
		for i := range DefaultJobs {
			job := DefaultJobs[i]
			if err := jobs.Create(ctx, &job); err != nil {
				return eris.Wrapf(err, "seeding job: %s", job.Title)
			}
		}
		if logger != nil {
			logger.WithFields(logFields).WithField("jobs", len(DefaultJobs)).Info("seeded job openings")
		}
	}

	articleCount, err := articles.Count(ctx)
	if err != nil {
		return eris.Wrap(err, "counting articles before seeding")
	}

	if articleCount == 0 {
		for i := range DefaultArticles {
			article := DefaultArticles[i]
			if err := articles.Create(ctx, &article); err != nil {
				return eris.Wrapf(err, "seeding article: %s", article.Title)
			}
		}
		if logger != nil {
			logger.WithFields(logFields).WithField("articles", len(DefaultArticles)).Info("seeded news articles")
		}
	}

	return nil
}
