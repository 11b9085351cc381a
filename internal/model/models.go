// internal/model/models.go
package model

import (
	"reflect"
	"strings"
)

// UnknownCommitValue is substituted for commit fields when a repository has no
// commit history or its commit detail was never fetched.
const UnknownCommitValue = "Unknown"

// RepositorySummary is the fixed projection of an organization repository kept
// in the summary file. Fields the API did not send stay nil so they are
// written back as null. Timestamps are the API's opaque strings.
type RepositorySummary struct {
	Name            *string  `json:"name"`
	FullName        string   `json:"full_name"`
	HTMLURL         *string  `json:"html_url"`
	Description     *string  `json:"description"`
	CreatedAt       *string  `json:"created_at"`
	UpdatedAt       *string  `json:"updated_at"`
	PushedAt        *string  `json:"pushed_at"`
	Private         *bool    `json:"private"`
	Archived        *bool    `json:"archived"`
	Disabled        *bool    `json:"disabled"`
	ForksCount      *int     `json:"forks_count"`
	OpenIssuesCount *int     `json:"open_issues_count"`
	StargazersCount *int     `json:"stargazers_count"`
	WatchersCount   *int     `json:"watchers_count"`
	Language        *string  `json:"language"`
	Size            *int     `json:"size"`
	Topics          []string `json:"topics"`
	DefaultBranch   *string  `json:"default_branch"`
	Visibility      *string  `json:"visibility"`
}

// RepositoryTags is the ordered list of tag names of one repository.
type RepositoryTags []string

// CommitInfo describes the most recent commit of a repository.
type CommitInfo struct {
	LastCommitUser string `json:"last_commit_user"`
	LastCommitDate string `json:"last_commit_date"`
}

// UnknownCommit returns the placeholder used for empty or missing commit history.
func UnknownCommit() CommitInfo {
	return CommitInfo{
		LastCommitUser: UnknownCommitValue,
		LastCommitDate: UnknownCommitValue,
	}
}

// CombinedRecord is one flattened row of the exported report. The json tag
// order is the column order of both exports.
type CombinedRecord struct {
	Name            *string `json:"name"`
	FullName        string  `json:"full_name"`
	HTMLURL         *string `json:"html_url"`
	Description     *string `json:"description"`
	CreatedAt       *string `json:"created_at"`
	UpdatedAt       *string `json:"updated_at"`
	PushedAt        *string `json:"pushed_at"`
	Private         *bool   `json:"private"`
	Archived        *bool   `json:"archived"`
	Disabled        *bool   `json:"disabled"`
	ForksCount      *int    `json:"forks_count"`
	OpenIssuesCount *int    `json:"open_issues_count"`
	StargazersCount *int    `json:"stargazers_count"`
	WatchersCount   *int    `json:"watchers_count"`
	Language        *string `json:"language"`
	Size            *int    `json:"size"`
	Topics          string  `json:"topics"`
	DefaultBranch   *string `json:"default_branch"`
	Visibility      *string `json:"visibility"`
	LastCommitUser  string  `json:"last_commit_user"`
	LastCommitDate  string  `json:"last_commit_date"`
	Tags            string  `json:"tags"`
}

var combinedColumns = jsonColumns(reflect.TypeOf(CombinedRecord{}))

// jsonColumns returns the json names of t's fields in declaration order.
func jsonColumns(t reflect.Type) []string {
	cols := make([]string, t.NumField())
	for i := range cols {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		cols[i] = name
	}
	return cols
}

// CombinedColumns returns the column names of a CombinedRecord in export order.
func CombinedColumns() []string {
	return append([]string(nil), combinedColumns...)
}

// Field is a single named column value of a CombinedRecord.
type Field struct {
	Key   string
	Value any
}

// Fields returns the record's columns in export order. Pointer fields are
// dereferenced; a nil pointer is reported as a nil Value.
func (r CombinedRecord) Fields() []Field {
	v := reflect.ValueOf(r)
	fields := make([]Field, len(combinedColumns))
	for i, key := range combinedColumns {
		fv := v.Field(i)
		var value any
		switch {
		case fv.Kind() != reflect.Pointer:
			value = fv.Interface()
		case !fv.IsNil():
			value = fv.Elem().Interface()
		}
		fields[i] = Field{Key: key, Value: value}
	}
	return fields
}
