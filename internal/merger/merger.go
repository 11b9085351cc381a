// internal/merger/merger.go

// Package merger joins the repository summary with the cached per-repository
// details and exports the result.
package merger

import (
	"fmt"
	"log/slog"
	"strings"

	"github-repo-report/internal/model"
	"github-repo-report/internal/store"
)

// Merger joins summary entries with their detail entries.
type Merger struct {
	tags    store.Store
	commits store.Store
	logger  *slog.Logger
}

// NewMerger creates a new Merger reading details from the given stores.
func NewMerger(tags, commits store.Store, logger *slog.Logger) *Merger {
	return &Merger{tags: tags, commits: commits, logger: logger}
}

// Combine returns one CombinedRecord per summary entry, in summary order.
// Missing tags become an empty list and missing commit info becomes
// model.UnknownCommit. A detail entry that exists but cannot be decoded is an
// error.
func (m *Merger) Combine(repos []model.RepositorySummary) ([]model.CombinedRecord, error) {
	records := make([]model.CombinedRecord, 0, len(repos))
	missing := 0

	for _, repo := range repos {
		var tags model.RepositoryTags
		found, err := m.tags.Load(repo.FullName, &tags)
		if err != nil {
			return nil, fmt.Errorf("loading tags for %s: %w", repo.FullName, err)
		}
		if !found {
			missing++
		}

		commit := model.UnknownCommit()
		found, err = m.commits.Load(repo.FullName, &commit)
		if err != nil {
			return nil, fmt.Errorf("loading commit info for %s: %w", repo.FullName, err)
		}
		if !found {
			missing++
		}

		records = append(records, combine(repo, tags, commit))
	}

	if missing > 0 {
		m.logger.Warn("Some detail entries are missing, defaults substituted", "missing", missing)
	}
	return records, nil
}

func combine(repo model.RepositorySummary, tags model.RepositoryTags, commit model.CommitInfo) model.CombinedRecord {
	return model.CombinedRecord{
		Name:            repo.Name,
		FullName:        repo.FullName,
		HTMLURL:         repo.HTMLURL,
		Description:     repo.Description,
		CreatedAt:       repo.CreatedAt,
		UpdatedAt:       repo.UpdatedAt,
		PushedAt:        repo.PushedAt,
		Private:         repo.Private,
		Archived:        repo.Archived,
		Disabled:        repo.Disabled,
		ForksCount:      repo.ForksCount,
		OpenIssuesCount: repo.OpenIssuesCount,
		StargazersCount: repo.StargazersCount,
		WatchersCount:   repo.WatchersCount,
		Language:        repo.Language,
		Size:            repo.Size,
		Topics:          strings.Join(repo.Topics, ","),
		DefaultBranch:   repo.DefaultBranch,
		Visibility:      repo.Visibility,
		LastCommitUser:  commit.LastCommitUser,
		LastCommitDate:  commit.LastCommitDate,
		Tags:            strings.Join(tags, ","),
	}
}
