// internal/merger/publish.go
package merger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github-repo-report/internal/database"
	"github-repo-report/internal/model"
)

// Publisher upserts combined records into PostgreSQL.
type Publisher struct {
	dbpool *pgxpool.Pool
	logger *slog.Logger
}

// NewPublisher creates a new Publisher instance.
func NewPublisher(dbpool *pgxpool.Pool, logger *slog.Logger) *Publisher {
	return &Publisher{dbpool: dbpool, logger: logger}
}

// Publish writes all records in one transaction; either every record is
// stored or none is.
func (p *Publisher) Publish(ctx context.Context, records []model.CombinedRecord) error {
	tx, err := p.dbpool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // Rollback is a no-op if the transaction is already committed.

	if err := publishRecords(ctx, database.New(tx), records); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	p.logger.Info("Published combined records to database", "count", len(records))
	return nil
}

func publishRecords(ctx context.Context, q database.Querier, records []model.CombinedRecord) error {
	for _, r := range records {
		if err := q.UpsertRepositoryReport(ctx, toUpsertParams(r)); err != nil {
			return fmt.Errorf("upserting %s: %w", r.FullName, err)
		}
	}
	return nil
}

func toUpsertParams(r model.CombinedRecord) database.UpsertRepositoryReportParams {
	return database.UpsertRepositoryReportParams{
		FullName:        r.FullName,
		Name:            toText(r.Name),
		HtmlUrl:         toText(r.HTMLURL),
		Description:     toText(r.Description),
		CreatedAt:       toText(r.CreatedAt),
		UpdatedAt:       toText(r.UpdatedAt),
		PushedAt:        toText(r.PushedAt),
		Private:         toBool(r.Private),
		Archived:        toBool(r.Archived),
		Disabled:        toBool(r.Disabled),
		ForksCount:      toInt4(r.ForksCount),
		OpenIssuesCount: toInt4(r.OpenIssuesCount),
		StargazersCount: toInt4(r.StargazersCount),
		WatchersCount:   toInt4(r.WatchersCount),
		Language:        toText(r.Language),
		Size:            toInt4(r.Size),
		Topics:          r.Topics,
		DefaultBranch:   toText(r.DefaultBranch),
		Visibility:      toText(r.Visibility),
		LastCommitUser:  r.LastCommitUser,
		LastCommitDate:  r.LastCommitDate,
		Tags:            r.Tags,
	}
}

func toText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func toBool(b *bool) pgtype.Bool {
	if b == nil {
		return pgtype.Bool{}
	}
	return pgtype.Bool{Bool: *b, Valid: true}
}

func toInt4(n *int) pgtype.Int4 {
	if n == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*n), Valid: true}
}
