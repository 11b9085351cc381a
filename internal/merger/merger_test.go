// internal/merger/merger_test.go
package merger

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github-repo-report/internal/database"
	"github-repo-report/internal/model"
	"github-repo-report/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int { return &n }

func TestMerger_Combine(t *testing.T) {
	t.Run("substitutes defaults when no detail entries exist", func(t *testing.T) {
		m := NewMerger(store.NewMemoryStore(), store.NewMemoryStore(), testLogger())
		repos := []model.RepositorySummary{{Name: strPtr("repo1"), FullName: "org/repo1", Topics: []string{"infra"}}}

		records, err := m.Combine(repos)

		require.NoError(t, err)
		require.Len(t, records, 1)
		r := records[0]
		assert.Equal(t, "", r.Tags)
		assert.Equal(t, "Unknown", r.LastCommitUser)
		assert.Equal(t, "Unknown", r.LastCommitDate)
		assert.Equal(t, "infra", r.Topics)
	})

	t.Run("one record per summary entry in summary order", func(t *testing.T) {
		tags, commits := store.NewMemoryStore(), store.NewMemoryStore()
		require.NoError(t, tags.Save("org/b", model.RepositoryTags{"v2", "v1"}))
		require.NoError(t, commits.Save("org/c", model.CommitInfo{LastCommitUser: "carol", LastCommitDate: "2024-03-01T00:00:00Z"}))
		m := NewMerger(tags, commits, testLogger())
		repos := []model.RepositorySummary{
			{Name: strPtr("c"), FullName: "org/c"},
			{Name: strPtr("a"), FullName: "org/a"},
			{Name: strPtr("b"), FullName: "org/b"},
		}

		records, err := m.Combine(repos)

		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "org/c", records[0].FullName)
		assert.Equal(t, "carol", records[0].LastCommitUser)
		assert.Equal(t, "org/a", records[1].FullName)
		assert.Equal(t, "org/b", records[2].FullName)
		assert.Equal(t, "v2,v1", records[2].Tags)
		assert.Equal(t, "Unknown", records[2].LastCommitUser)
	})

	t.Run("passes summary fields through unchanged", func(t *testing.T) {
		m := NewMerger(store.NewMemoryStore(), store.NewMemoryStore(), testLogger())
		repo := model.RepositorySummary{
			Name: strPtr("api"), FullName: "org/api", HTMLURL: strPtr("https://github.com/org/api"),
			Description: strPtr("API"), CreatedAt: strPtr("2020-01-02T05:04:05+02:00"),
			Private: boolPtr(true), Archived: boolPtr(true), Disabled: boolPtr(false),
			ForksCount: intPtr(1), OpenIssuesCount: intPtr(2), StargazersCount: intPtr(3),
			WatchersCount: intPtr(4), Size: intPtr(5), Topics: []string{"a", "b"},
			DefaultBranch: strPtr("main"), Visibility: strPtr("private"),
		}

		records, err := m.Combine([]model.RepositorySummary{repo})

		require.NoError(t, err)
		r := records[0]
		assert.Equal(t, "https://github.com/org/api", *r.HTMLURL)
		assert.Equal(t, repo.Description, r.Description)
		assert.Equal(t, "2020-01-02T05:04:05+02:00", *r.CreatedAt)
		assert.Nil(t, r.Language)
		assert.Nil(t, r.PushedAt)
		assert.True(t, *r.Private)
		assert.True(t, *r.Archived)
		assert.False(t, *r.Disabled)
		assert.Equal(t, 5, *r.Size)
		assert.Equal(t, "a,b", r.Topics)
		assert.Equal(t, "private", *r.Visibility)
	})

	t.Run("absent summary fields are exported as null", func(t *testing.T) {
		var repos []model.RepositorySummary
		require.NoError(t, json.Unmarshal([]byte(`[{"name":"repo1","full_name":"org/repo1","topics":["infra"]}]`), &repos))
		m := NewMerger(store.NewMemoryStore(), store.NewMemoryStore(), testLogger())

		records, err := m.Combine(repos)
		require.NoError(t, err)

		dir := t.TempDir()
		jsonPath := filepath.Join(dir, "combined_repo_data.json")
		csvPath := filepath.Join(dir, "combined_repo_data.csv")
		require.NoError(t, ExportJSON(jsonPath, records))
		require.NoError(t, ExportCSV(csvPath, records))

		var decoded []map[string]any
		data, err := os.ReadFile(jsonPath)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Len(t, decoded, 1)
		assert.Equal(t, "repo1", decoded[0]["name"])
		assert.Equal(t, "infra", decoded[0]["topics"])
		for _, key := range []string{"html_url", "visibility", "default_branch", "private", "archived", "forks_count", "size"} {
			assert.Contains(t, decoded[0], key)
			assert.Nil(t, decoded[0][key], key)
		}

		rows := readCSV(t, csvPath)
		require.Len(t, rows, 2)
		cells := map[string]string{}
		for i, k := range rows[0] {
			cells[k] = rows[1][i]
		}
		assert.Equal(t, "", cells["visibility"])
		assert.Equal(t, "", cells["forks_count"])
		assert.Equal(t, "", cells["private"])
	})

	t.Run("fails on a malformed detail file", func(t *testing.T) {
		dir := t.TempDir()
		tags, err := store.NewFileStore(dir, "tags")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(tags.Path("org/a"), []byte("nope"), 0o644))
		m := NewMerger(tags, store.NewMemoryStore(), testLogger())

		_, err = m.Combine([]model.RepositorySummary{{FullName: "org/a"}})

		assert.Error(t, err)
	})
}

func readCSV(t *testing.T, path string) [][]string {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

// jsonKeyOrder returns the keys of the first object of a JSON array file in document order.
func jsonKeyOrder(t *testing.T, path string) []string {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	dec := json.NewDecoder(bytes.NewReader(data))

	_, err = dec.Token() // [
	require.NoError(t, err)
	_, err = dec.Token() // {
	require.NoError(t, err)

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		keys = append(keys, tok.(string))
		var skip json.RawMessage
		require.NoError(t, dec.Decode(&skip))
	}
	return keys
}

func TestExport(t *testing.T) {
	records := []model.CombinedRecord{
		{
			Name: strPtr("repo1"), FullName: "org/repo1", Description: strPtr(`says "hi", twice`),
			Private: boolPtr(false), ForksCount: intPtr(7), Topics: "a,b", Tags: "v1,v2",
			LastCommitUser: "alice", LastCommitDate: "2024-01-01T00:00:00Z",
		},
		{Name: strPtr("repo2"), FullName: "org/repo2", Archived: boolPtr(true), LastCommitUser: "Unknown", LastCommitDate: "Unknown"},
	}

	t.Run("json keeps types and nulls", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "combined_repo_data.json")
		require.NoError(t, ExportJSON(path, records))

		var decoded []map[string]any
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Len(t, decoded, 2)
		assert.Equal(t, "a,b", decoded[0]["topics"])
		assert.Equal(t, float64(7), decoded[0]["forks_count"])
		assert.Equal(t, false, decoded[0]["private"])
		assert.Equal(t, true, decoded[1]["archived"])
		assert.Contains(t, decoded[1], "language")
		assert.Nil(t, decoded[1]["language"])
		assert.Contains(t, string(data), "\n    {\n        \"name\": \"repo1\"")
	})

	t.Run("csv header matches json key order", func(t *testing.T) {
		dir := t.TempDir()
		jsonPath := filepath.Join(dir, "combined_repo_data.json")
		csvPath := filepath.Join(dir, "combined_repo_data.csv")
		require.NoError(t, ExportJSON(jsonPath, records))
		require.NoError(t, ExportCSV(csvPath, records))

		rows := readCSV(t, csvPath)
		require.Len(t, rows, 3)
		assert.Equal(t, jsonKeyOrder(t, jsonPath), rows[0])
	})

	t.Run("csv stringifies values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "combined_repo_data.csv")
		require.NoError(t, ExportCSV(path, records))

		rows := readCSV(t, path)
		header := rows[0]
		first := map[string]string{}
		for i, k := range header {
			first[k] = rows[1][i]
		}
		assert.Equal(t, "a,b", first["topics"])
		assert.Equal(t, "v1,v2", first["tags"])
		assert.Equal(t, "7", first["forks_count"])
		assert.Equal(t, "false", first["private"])
		assert.Equal(t, `says "hi", twice`, first["description"])
		assert.Equal(t, "", first["language"])
	})

	t.Run("csv rows end with CRLF", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "combined_repo_data.csv")
		require.NoError(t, ExportCSV(path, records))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.SplitAfter(string(data), "\n")
		require.Len(t, lines, 4) // header, two rows, trailing empty
		for _, line := range lines[:3] {
			assert.True(t, strings.HasSuffix(line, "\r\n"), "line %q", line)
		}
		assert.Equal(t, strings.Join(model.CombinedColumns(), ",")+"\r\n", lines[0])
	})

	t.Run("empty collection produces empty files without error", func(t *testing.T) {
		dir := t.TempDir()
		csvPath := filepath.Join(dir, "combined_repo_data.csv")
		jsonPath := filepath.Join(dir, "combined_repo_data.json")

		require.NoError(t, ExportCSV(csvPath, nil))
		require.NoError(t, ExportJSON(jsonPath, nil))

		data, err := os.ReadFile(csvPath)
		require.NoError(t, err)
		assert.Empty(t, data)
		data, err = os.ReadFile(jsonPath)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(data))
	})
}

// MockQuerier is a mock of the database.Querier interface.
type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) CountRepositoryReports(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockQuerier) ListRepositoryReports(ctx context.Context) ([]database.RepositoryReport, error) {
	args := m.Called(ctx)
	return args.Get(0).([]database.RepositoryReport), args.Error(1)
}
func (m *MockQuerier) UpsertRepositoryReport(ctx context.Context, arg database.UpsertRepositoryReportParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

func TestPublishRecords(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts every record with nullable columns", func(t *testing.T) {
		mockQ := new(MockQuerier)
		records := []model.CombinedRecord{
			{FullName: "org/a", Description: strPtr("A"), ForksCount: intPtr(2), Private: boolPtr(false)},
			{FullName: "org/b"},
		}
		mockQ.On("UpsertRepositoryReport", ctx, mock.MatchedBy(func(p database.UpsertRepositoryReportParams) bool {
			return p.FullName == "org/a" && p.Description.Valid && p.Description.String == "A" &&
				p.ForksCount.Valid && p.ForksCount.Int32 == 2 && p.Private.Valid && !p.Private.Bool
		})).Return(nil).Once()
		mockQ.On("UpsertRepositoryReport", ctx, mock.MatchedBy(func(p database.UpsertRepositoryReportParams) bool {
			return p.FullName == "org/b" && !p.Description.Valid && !p.Language.Valid &&
				!p.Name.Valid && !p.Private.Valid && !p.ForksCount.Valid && !p.Visibility.Valid
		})).Return(nil).Once()

		err := publishRecords(ctx, mockQ, records)

		assert.NoError(t, err)
		mockQ.AssertExpectations(t)
	})

	t.Run("stops at the first failing upsert", func(t *testing.T) {
		mockQ := new(MockQuerier)
		dbErr := errors.New("unexpected database error")
		mockQ.On("UpsertRepositoryReport", ctx, mock.Anything).Return(dbErr).Once()

		err := publishRecords(ctx, mockQ, []model.CombinedRecord{{FullName: "org/a"}, {FullName: "org/b"}})

		assert.ErrorIs(t, err, dbErr)
		mockQ.AssertNumberOfCalls(t, "UpsertRepositoryReport", 1)
	})
}
