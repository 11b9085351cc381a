// internal/github/client.go
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	custom_errors "github-repo-report/internal/errors"
	"github-repo-report/internal/model"
)

const defaultPageSize = 100

// Client is a wrapper around the go-github client.
type Client struct {
	gh       *github.Client
	logger   *slog.Logger
	pageSize int
}

// Option customizes a Client.
type Option func(*Client) error

// WithBaseURL points the client at an alternate API root such as a GitHub
// Enterprise instance or a test server.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		if raw == "" {
			return nil
		}
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid GitHub API URL %q: %w", raw, err)
		}
		c.gh.BaseURL = u
		return nil
	}
}

// WithPageSize sets the per_page value used for list endpoints.
func WithPageSize(n int) Option {
	return func(c *Client) error {
		if n < 1 || n > 100 {
			return fmt.Errorf("page size must be between 1 and 100, got %d", n)
		}
		c.pageSize = n
		return nil
	}
}

// NewClient creates and configures a new Client instance.
// The provided token is used to create an authenticated http.Client.
func NewClient(token string, logger *slog.Logger, opts ...Option) (*Client, error) {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		hc = oauth2.NewClient(context.Background(), ts)
	}

	c := &Client{
		gh:       github.NewClient(hc),
		logger:   logger,
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ListOrgRepositories fetches every repository of an organization, including
// archived ones, following the Link header until no next page is announced.
// Any page error aborts the listing.
//
// Pages are decoded straight into model.RepositorySummary so that absent
// fields stay nil and timestamps keep the exact text the API sent.
func (c *Client) ListOrgRepositories(ctx context.Context, org string) ([]model.RepositorySummary, error) {
	var all []model.RepositorySummary

	endpoint := fmt.Sprintf("orgs/%s/repos", url.PathEscape(org))
	query := url.Values{}
	query.Set("type", "all")
	query.Set("per_page", strconv.Itoa(c.pageSize))

	page := 0
	for {
		c.logger.Debug("Fetching repositories page", "org", org, "page", page)

		if page > 0 {
			query.Set("page", strconv.Itoa(page))
		}
		req, err := c.gh.NewRequest(http.MethodGet, endpoint+"?"+query.Encode(), nil)
		if err != nil {
			return nil, err
		}

		var repos []model.RepositorySummary
		resp, err := c.gh.Do(ctx, req, &repos)
		if err != nil {
			return nil, fmt.Errorf("listing repositories of %s: %w", org, err)
		}

		for _, repo := range repos {
			if repo.Topics == nil {
				repo.Topics = []string{}
			}
			all = append(all, repo)
		}
		c.logger.Info("Fetched repositories", "org", org, "count", len(repos))

		if resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
	}

	return all, nil
}

// ListTagNames returns the names of all tags of a repository in API order.
func (c *Client) ListTagNames(ctx context.Context, owner, name string) (model.RepositoryTags, error) {
	names := model.RepositoryTags{}

	opts := &github.ListOptions{PerPage: c.pageSize}
	for {
		tags, resp, err := c.gh.Repositories.ListTags(ctx, owner, name, opts)
		if err != nil {
			return nil, err
		}
		for _, tag := range tags {
			if tag.Name == nil {
				return nil, &custom_errors.ErrUnexpectedResponse{
					Endpoint: fmt.Sprintf("repos/%s/%s/tags", owner, name),
					Reason:   "tag without a name",
				}
			}
			names = append(names, *tag.Name)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return names, nil
}

// commitEntry is the part of a commit listing entry read by LatestCommit.
type commitEntry struct {
	Commit *struct {
		Committer *struct {
			Name *string `json:"name"`
			Date *string `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

// LatestCommit returns the committer name and date of the most recent commit.
// Repositories without history yield model.UnknownCommit. The date is passed
// through as sent by the API.
func (c *Client) LatestCommit(ctx context.Context, owner, name string) (model.CommitInfo, error) {
	endpoint := fmt.Sprintf("repos/%s/%s/commits", url.PathEscape(owner), url.PathEscape(name))
	req, err := c.gh.NewRequest(http.MethodGet, endpoint+"?per_page=1", nil)
	if err != nil {
		return model.CommitInfo{}, err
	}

	var commits []commitEntry
	if _, err := c.gh.Do(ctx, req, &commits); err != nil {
		if isEmptyRepository(err) {
			c.logger.Debug("Repository has no commits", "owner", owner, "repo", name)
			return model.UnknownCommit(), nil
		}
		return model.CommitInfo{}, err
	}
	if len(commits) == 0 {
		return model.UnknownCommit(), nil
	}

	info, reason := toCommitInfo(commits[0])
	if reason != "" {
		return model.CommitInfo{}, &custom_errors.ErrUnexpectedResponse{Endpoint: endpoint, Reason: reason}
	}
	return info, nil
}

// isEmptyRepository reports whether err is GitHub's 409 answer for a
// repository that has no commits yet.
func isEmptyRepository(err error) bool {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) || ghErr.Response == nil {
		return false
	}
	return ghErr.Response.StatusCode == http.StatusConflict
}

// toCommitInfo reads the committer of a commit entry. A non-empty reason
// names the missing part.
func toCommitInfo(e commitEntry) (model.CommitInfo, string) {
	if e.Commit == nil || e.Commit.Committer == nil {
		return model.CommitInfo{}, "commit without committer"
	}
	committer := e.Commit.Committer
	if committer.Name == nil {
		return model.CommitInfo{}, "committer without name"
	}
	if committer.Date == nil {
		return model.CommitInfo{}, "committer without date"
	}
	return model.CommitInfo{
		LastCommitUser: *committer.Name,
		LastCommitDate: *committer.Date,
	}, ""
}
