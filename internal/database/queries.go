// internal/database/queries.go
package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const countRepositoryReports = `-- name: CountRepositoryReports :one
SELECT COUNT(*) FROM repository_reports
`

func (q *Queries) CountRepositoryReports(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countRepositoryReports)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listRepositoryReports = `-- name: ListRepositoryReports :many
SELECT full_name, name, html_url, description, created_at, updated_at, pushed_at,
       private, archived, disabled, forks_count, open_issues_count, stargazers_count,
       watchers_count, language, size, topics, default_branch, visibility,
       last_commit_user, last_commit_date, tags, loaded_at
FROM repository_reports
ORDER BY full_name
`

func (q *Queries) ListRepositoryReports(ctx context.Context) ([]RepositoryReport, error) {
	rows, err := q.db.Query(ctx, listRepositoryReports)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RepositoryReport
	for rows.Next() {
		var i RepositoryReport
		if err := rows.Scan(
			&i.FullName,
			&i.Name,
			&i.HtmlUrl,
			&i.Description,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.PushedAt,
			&i.Private,
			&i.Archived,
			&i.Disabled,
			&i.ForksCount,
			&i.OpenIssuesCount,
			&i.StargazersCount,
			&i.WatchersCount,
			&i.Language,
			&i.Size,
			&i.Topics,
			&i.DefaultBranch,
			&i.Visibility,
			&i.LastCommitUser,
			&i.LastCommitDate,
			&i.Tags,
			&i.LoadedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertRepositoryReport = `-- name: UpsertRepositoryReport :exec
INSERT INTO repository_reports (
    full_name, name, html_url, description, created_at, updated_at, pushed_at,
    private, archived, disabled, forks_count, open_issues_count, stargazers_count,
    watchers_count, language, size, topics, default_branch, visibility,
    last_commit_user, last_commit_date, tags, loaded_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, NOW()
)
ON CONFLICT (full_name) DO UPDATE SET
    name = EXCLUDED.name,
    html_url = EXCLUDED.html_url,
    description = EXCLUDED.description,
    created_at = EXCLUDED.created_at,
    updated_at = EXCLUDED.updated_at,
    pushed_at = EXCLUDED.pushed_at,
    private = EXCLUDED.private,
    archived = EXCLUDED.archived,
    disabled = EXCLUDED.disabled,
    forks_count = EXCLUDED.forks_count,
    open_issues_count = EXCLUDED.open_issues_count,
    stargazers_count = EXCLUDED.stargazers_count,
    watchers_count = EXCLUDED.watchers_count,
    language = EXCLUDED.language,
    size = EXCLUDED.size,
    topics = EXCLUDED.topics,
    default_branch = EXCLUDED.default_branch,
    visibility = EXCLUDED.visibility,
    last_commit_user = EXCLUDED.last_commit_user,
    last_commit_date = EXCLUDED.last_commit_date,
    tags = EXCLUDED.tags,
    loaded_at = NOW()
`

type UpsertRepositoryReportParams struct {
	FullName        string      `json:"full_name"`
	Name            pgtype.Text `json:"name"`
	HtmlUrl         pgtype.Text `json:"html_url"`
	Description     pgtype.Text `json:"description"`
	CreatedAt       pgtype.Text `json:"created_at"`
	UpdatedAt       pgtype.Text `json:"updated_at"`
	PushedAt        pgtype.Text `json:"pushed_at"`
	Private         pgtype.Bool `json:"private"`
	Archived        pgtype.Bool `json:"archived"`
	Disabled        pgtype.Bool `json:"disabled"`
	ForksCount      pgtype.Int4 `json:"forks_count"`
	OpenIssuesCount pgtype.Int4 `json:"open_issues_count"`
	StargazersCount pgtype.Int4 `json:"stargazers_count"`
	WatchersCount   pgtype.Int4 `json:"watchers_count"`
	Language        pgtype.Text `json:"language"`
	Size            pgtype.Int4 `json:"size"`
	Topics          string      `json:"topics"`
	DefaultBranch   pgtype.Text `json:"default_branch"`
	Visibility      pgtype.Text `json:"visibility"`
	LastCommitUser  string      `json:"last_commit_user"`
	LastCommitDate  string      `json:"last_commit_date"`
	Tags            string      `json:"tags"`
}

func (q *Queries) UpsertRepositoryReport(ctx context.Context, arg UpsertRepositoryReportParams) error {
	_, err := q.db.Exec(ctx, upsertRepositoryReport,
		arg.FullName,
		arg.Name,
		arg.HtmlUrl,
		arg.Description,
		arg.CreatedAt,
		arg.UpdatedAt,
		arg.PushedAt,
		arg.Private,
		arg.Archived,
		arg.Disabled,
		arg.ForksCount,
		arg.OpenIssuesCount,
		arg.StargazersCount,
		arg.WatchersCount,
		arg.Language,
		arg.Size,
		arg.Topics,
		arg.DefaultBranch,
		arg.Visibility,
		arg.LastCommitUser,
		arg.LastCommitDate,
		arg.Tags,
	)
	return err
}
