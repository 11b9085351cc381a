// internal/collector/details.go
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	custom_errors "github-repo-report/internal/errors"
	"github-repo-report/internal/model"
	"github-repo-report/internal/store"
)

// DetailFetcher fetches the per-repository detail kinds.
type DetailFetcher interface {
	ListTagNames(ctx context.Context, owner, name string) (model.RepositoryTags, error)
	LatestCommit(ctx context.Context, owner, name string) (model.CommitInfo, error)
}

// RepoIdentifier holds the owner and name of a repository.
type RepoIdentifier struct {
	Owner string
	Name  string
}

// DetailCollector fetches tags and latest commit for every summary entry,
// skipping entries already present in the corresponding store.
type DetailCollector struct {
	fetcher DetailFetcher
	tags    store.Store
	commits store.Store
	logger  *slog.Logger
}

// NewDetailCollector creates a new DetailCollector instance.
func NewDetailCollector(fetcher DetailFetcher, tags, commits store.Store, logger *slog.Logger) *DetailCollector {
	return &DetailCollector{
		fetcher: fetcher,
		tags:    tags,
		commits: commits,
		logger:  logger,
	}
}

type fetchFunc func(ctx context.Context, id RepoIdentifier) (any, error)

// Run processes all tag fetches, then all commit fetches, in summary order.
// A failure for one repository and kind is recorded and logged; it never
// stops the run.
func (c *DetailCollector) Run(ctx context.Context, repos []model.RepositorySummary) *Report {
	report := &Report{}

	c.collect(ctx, report, KindTags, c.tags, repos, func(ctx context.Context, id RepoIdentifier) (any, error) {
		return c.fetcher.ListTagNames(ctx, id.Owner, id.Name)
	})
	c.collect(ctx, report, KindCommit, c.commits, repos, func(ctx context.Context, id RepoIdentifier) (any, error) {
		return c.fetcher.LatestCommit(ctx, id.Owner, id.Name)
	})

	c.logger.Info("Detail collection finished",
		"tags_fetched", report.Count(KindTags, StatusFetched),
		"commits_fetched", report.Count(KindCommit, StatusFetched),
		"failed", len(report.Failures()),
	)
	return report
}

func (c *DetailCollector) collect(ctx context.Context, report *Report, kind Kind, st store.Store, repos []model.RepositorySummary, fetch fetchFunc) {
	for _, repo := range repos {
		if ctx.Err() != nil {
			c.logger.Warn("Detail collection interrupted", "kind", kind, "reason", ctx.Err())
			return
		}

		status, err := c.collectOne(ctx, kind, st, repo.FullName, fetch)
		report.add(repo.FullName, kind, status, err)
	}
}

func (c *DetailCollector) collectOne(ctx context.Context, kind Kind, st store.Store, fullName string, fetch fetchFunc) (OutcomeStatus, error) {
	logger := c.logger.With("repo", fullName, "kind", kind)

	state, err := st.Lookup(fullName)
	if err != nil {
		logger.Error("Failed to check cache", "error", err)
		return StatusFailed, err
	}
	switch state {
	case store.StatusCached:
		logger.Info("Skipping, already saved")
		return StatusSkipped, nil
	case store.StatusFailed:
		logger.Info("Retrying previously failed fetch")
	}

	fail := func(err error) (OutcomeStatus, error) {
		logger.Error("Failed to collect repository detail", "error", err)
		if markErr := st.MarkFailed(fullName, err); markErr != nil {
			logger.Warn("Failed to record failure", "error", markErr)
		}
		return StatusFailed, err
	}

	id, err := parseRepoIdentifier(fullName)
	if err != nil {
		return fail(err)
	}

	value, err := fetch(ctx, id)
	if err != nil {
		return fail(fmt.Errorf("fetching %s for %s: %w", kind, fullName, err))
	}

	if err := st.Save(fullName, value); err != nil {
		return fail(fmt.Errorf("saving %s for %s: %w", kind, fullName, err))
	}
	logger.Info("Saved repository detail")
	return StatusFetched, nil
}

func parseRepoIdentifier(fullName string) (RepoIdentifier, error) {
	parts := strings.Split(fullName, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoIdentifier{}, &custom_errors.ErrInvalidRepoFormat{Repo: fullName}
	}
	return RepoIdentifier{Owner: parts[0], Name: parts[1]}, nil
}
