// internal/database/querier.go
package database

import (
	"context"
)

type Querier interface {
	CountRepositoryReports(ctx context.Context) (int64, error)
	ListRepositoryReports(ctx context.Context) ([]RepositoryReport, error)
	UpsertRepositoryReport(ctx context.Context, arg UpsertRepositoryReportParams) error
}

var _ Querier = (*Queries)(nil)
