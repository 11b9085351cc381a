// internal/collector/summary.go
package collector

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	custom_errors "github-repo-report/internal/errors"
	"github-repo-report/internal/model"
	"github-repo-report/internal/store"
)

// RepoLister lists every repository of an organization.
type RepoLister interface {
	ListOrgRepositories(ctx context.Context, org string) ([]model.RepositorySummary, error)
}

// SummaryCollector pages through an organization's repositories and writes
// the projected list to the summary file.
type SummaryCollector struct {
	lister      RepoLister
	logger      *slog.Logger
	summaryFile string
}

// NewSummaryCollector creates a new SummaryCollector instance.
func NewSummaryCollector(lister RepoLister, logger *slog.Logger, summaryFile string) *SummaryCollector {
	return &SummaryCollector{
		lister:      lister,
		logger:      logger,
		summaryFile: summaryFile,
	}
}

// Run fetches the full repository list of org and saves it. Nothing is
// written unless every page was fetched.
func (c *SummaryCollector) Run(ctx context.Context, org string) ([]model.RepositorySummary, error) {
	logger := c.logger.With("org", org)
	logger.Info("Collecting repository summary")

	repos, err := c.lister.ListOrgRepositories(ctx, org)
	if err != nil {
		return nil, err
	}
	if repos == nil {
		repos = []model.RepositorySummary{}
	}

	if err := store.WriteJSON(c.summaryFile, repos); err != nil {
		return nil, fmt.Errorf("failed to save summary: %w", err)
	}
	logger.Info("Repository summary saved", "file", c.summaryFile, "count", len(repos))

	return repos, nil
}

// LoadSummary reads the summary file written by SummaryCollector.
func LoadSummary(path string) ([]model.RepositorySummary, error) {
	var repos []model.RepositorySummary
	err := store.ReadJSON(path, &repos)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &custom_errors.ErrMissingPrerequisite{Path: path, Hint: "run the summary command first"}
	}
	if err != nil {
		return nil, err
	}
	return repos, nil
}
