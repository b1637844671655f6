package http

import (
	"context"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"fintide/site/internal/domain/careers"
	"fintide/site/internal/domain/news"
	"fintide/site/internal/presentation/http/templates"
)

const (
	landingTeaserCount = 3
	newsIndexLimit     = 50
	dateLabelLayout    = "2 January 2006"
)

type refInput struct {
	Ref string `path:"ref" doc:"Resource reference in the form {id}-{slug}"`
}

func (s *Server) registerLandingRoute() {
	huma.Get(s.api, "/", s.landingHandler, htmlOperation("For banks landing page", stdhttp.StatusInternalServerError))
}

func (s *Server) registerNewsRoutes() {
	huma.Get(s.api, "/news", s.newsIndexHandler, htmlOperation("List news articles", stdhttp.StatusInternalServerError))
	huma.Get(s.api, "/news/{ref}", s.articleHandler, htmlOperation(
		"Fetch news article",
		stdhttp.StatusMovedPermanently,
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerCareersRoutes() {
	huma.Get(s.api, "/careers", s.careersHandler, htmlOperation("List open positions", stdhttp.StatusInternalServerError))
	huma.Get(s.api, "/careers/{ref}", s.jobHandler, htmlOperation(
		"Fetch job opening",
		stdhttp.StatusMovedPermanently,
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) landingHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	articles, err := s.news.ListRecent(ctx, landingTeaserCount)
	if err != nil {
		// The landing page still renders without teasers.
		s.recordError(ctx, err, "loading landing page teasers", nil)
		articles = nil
	}

	data := templates.LandingPageData{Teasers: toArticleTeasers(articles)}
	return s.renderPage(ctx, stdhttp.StatusOK, templates.LandingPage(data), nil), nil
}

func (s *Server) newsIndexHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	articles, err := s.news.ListRecent(ctx, newsIndexLimit)
	if err != nil {
		return s.handleError(ctx, err, "listing news articles", nil), nil
	}

	data := templates.NewsIndexData{Articles: toArticleTeasers(articles)}
	return s.renderPage(ctx, stdhttp.StatusOK, templates.NewsIndexPage(data), nil), nil
}

func (s *Server) articleHandler(ctx context.Context, input *refInput) (*htmlResponse, error) {
	ref := strings.TrimSpace(input.Ref)
	fields := logrus.Fields{"ref": ref}

	article, redirect, err := s.news.Resolve(ctx, ref)
	if err != nil {
		return s.handleError(ctx, err, "resolving news article", fields), nil
	}

	if redirect != "" {
		return newRedirectResponse(stdhttp.StatusMovedPermanently, redirect), nil
	}

	data := templates.ArticlePageData{
		Title:          article.Title,
		Excerpt:        article.Excerpt,
		BodyHTML:       article.BodyHTML,
		PublishedLabel: formatDate(article.PublishedAt),
		PublishedISO:   formatISO(article.PublishedAt),
	}

	return s.renderPage(ctx, stdhttp.StatusOK, templates.ArticlePage(data), fields), nil
}

func (s *Server) careersHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	jobs, err := s.careers.ListOpenings(ctx)
	if err != nil {
		return s.handleError(ctx, err, "listing job openings", nil), nil
	}

	data := templates.CareersPageData{Teams: groupJobsByTeam(jobs)}
	return s.renderPage(ctx, stdhttp.StatusOK, templates.CareersPage(data), nil), nil
}

func (s *Server) jobHandler(ctx context.Context, input *refInput) (*htmlResponse, error) {
	ref := strings.TrimSpace(input.Ref)
	fields := logrus.Fields{"ref": ref}

	job, redirect, err := s.careers.Resolve(ctx, ref)
	if err != nil {
		return s.handleError(ctx, err, "resolving job opening", fields), nil
	}

	if redirect != "" {
		return newRedirectResponse(stdhttp.StatusMovedPermanently, redirect), nil
	}

	data := templates.JobPageData{
		Title:           job.Title,
		Team:            job.Team,
		Location:        job.Location,
		EmploymentType:  job.EmploymentType,
		DescriptionHTML: job.DescriptionHTML,
	}

	return s.renderPage(ctx, stdhttp.StatusOK, templates.JobPage(data), fields), nil
}

func toArticleTeasers(articles []news.Article) []templates.ArticleTeaser {
	teasers := make([]templates.ArticleTeaser, 0, len(articles))
	for _, article := range articles {
		teasers = append(teasers, templates.ArticleTeaser{
			Title:          article.Title,
			URL:            article.Path(),
			Excerpt:        article.Excerpt,
			PublishedLabel: formatDate(article.PublishedAt),
			PublishedISO:   formatISO(article.PublishedAt),
		})
	}
	return teasers
}

// groupJobsByTeam keeps the order of the input, which is sorted by team.
func groupJobsByTeam(jobs []careers.Job) []templates.TeamJobs {
	groups := make([]templates.TeamJobs, 0)
	index := make(map[string]int)

	for _, job := range jobs {
		team := strings.TrimSpace(job.Team)
		if team == "" {
			team = "Other"
		}

		pos, ok := index[team]
		if !ok {
			pos = len(groups)
			index[team] = pos
			groups = append(groups, templates.TeamJobs{Team: team})
		}

		groups[pos].Jobs = append(groups[pos].Jobs, templates.JobTeaser{
			Title:          job.Title,
			URL:            job.Path(),
			Location:       job.Location,
			EmploymentType: job.EmploymentType,
		})
	}

	return groups
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLabelLayout)
}

func formatISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
