// internal/database/models.go
package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type RepositoryReport struct {
	FullName        string             `json:"full_name"`
	Name            pgtype.Text        `json:"name"`
	HtmlUrl         pgtype.Text        `json:"html_url"`
	Description     pgtype.Text        `json:"description"`
	CreatedAt       pgtype.Text        `json:"created_at"`
	UpdatedAt       pgtype.Text        `json:"updated_at"`
	PushedAt        pgtype.Text        `json:"pushed_at"`
	Private         pgtype.Bool        `json:"private"`
	Archived        pgtype.Bool        `json:"archived"`
	Disabled        pgtype.Bool        `json:"disabled"`
	ForksCount      pgtype.Int4        `json:"forks_count"`
	OpenIssuesCount pgtype.Int4        `json:"open_issues_count"`
	StargazersCount pgtype.Int4        `json:"stargazers_count"`
	WatchersCount   pgtype.Int4        `json:"watchers_count"`
	Language        pgtype.Text        `json:"language"`
	Size            pgtype.Int4        `json:"size"`
	Topics          string             `json:"topics"`
	DefaultBranch   pgtype.Text        `json:"default_branch"`
	Visibility      pgtype.Text        `json:"visibility"`
	LastCommitUser  string             `json:"last_commit_user"`
	LastCommitDate  string             `json:"last_commit_date"`
	Tags            string             `json:"tags"`
	LoadedAt        pgtype.Timestamptz `json:"loaded_at"`
}
