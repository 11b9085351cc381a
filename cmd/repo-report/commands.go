// cmd/repo-report/commands.go
package main

import (
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github-repo-report/internal/collector"
	"github-repo-report/internal/config"
	"github-repo-report/internal/database"
	"github-repo-report/internal/github"
	"github-repo-report/internal/merger"
	"github-repo-report/internal/model"
	"github-repo-report/internal/store"
)

const (
	tagsSuffix   = "tags"
	commitSuffix = "commit"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "repo-report",
		Short: "Collect GitHub organization repository metadata into JSON and CSV reports",
		Long: `repo-report collects repository metadata of a GitHub organization in three steps:

  1. summary  <org> <token>   list every repository into the summary file
  2. details  <token>         fetch tags and latest commit per repository (already saved entries are skipped)
  3. combine                  join summary and details, write combined JSON and CSV

Paths, log level and API URL are read from the environment or a .env file
(SUMMARY_FILE, TAGS_DIR, COMMITS_DIR, COMBINED_JSON_FILE, COMBINED_CSV_FILE,
LOG_LEVEL, LOG_FORMAT, GITHUB_API_URL, PAGE_SIZE, DB_URL).`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid at this point; later failures should not print usage.
			cmd.SilenceUsage = true

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.cfg = cfg
			a.logger = newLogger(cfg, cmd.OutOrStdout())
			return nil
		},
	}

	root.AddCommand(summaryCmd(a), detailsCmd(a), combineCmd(a))
	return root
}

func summaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <org> <token>",
		Short: "List all repositories of an organization into the summary file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, token := args[0], args[1]

			client, err := a.newGithubClient(token)
			if err != nil {
				return err
			}

			repos, err := collector.NewSummaryCollector(client, a.logger, a.cfg.SummaryFile).Run(cmd.Context(), org)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Repository summary information for %d repositories saved to %s.\n", len(repos), a.cfg.SummaryFile)
			return nil
		},
	}
}

func detailsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "details <token>",
		Short: "Fetch tags and latest commit of every repository in the summary file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, err := collector.LoadSummary(a.cfg.SummaryFile)
			if err != nil {
				return err
			}

			client, err := a.newGithubClient(args[0])
			if err != nil {
				return err
			}
			tags, err := store.NewFileStore(a.cfg.TagsDir, tagsSuffix)
			if err != nil {
				return err
			}
			commits, err := store.NewFileStore(a.cfg.CommitsDir, commitSuffix)
			if err != nil {
				return err
			}

			report := collector.NewDetailCollector(client, tags, commits, a.logger).Run(cmd.Context(), repos)
			if err := report.Write(cmd.OutOrStdout()); err != nil {
				return err
			}
			return cmd.Context().Err()
		},
	}
}

func combineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "combine",
		Short: "Join summary and details and export combined JSON and CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, err := collector.LoadSummary(a.cfg.SummaryFile)
			if err != nil {
				return err
			}

			m := merger.NewMerger(
				store.OpenFileStore(a.cfg.TagsDir, tagsSuffix),
				store.OpenFileStore(a.cfg.CommitsDir, commitSuffix),
				a.logger,
			)
			records, err := m.Combine(repos)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := merger.ExportJSON(a.cfg.CombinedJSONFile, records); err != nil {
				return err
			}
			fmt.Fprintf(out, "Combined data saved to %s\n", a.cfg.CombinedJSONFile)

			if err := merger.ExportCSV(a.cfg.CombinedCSVFile, records); err != nil {
				return err
			}
			fmt.Fprintf(out, "Combined data saved to %s\n", a.cfg.CombinedCSVFile)

			if a.cfg.DBURL == "" {
				return nil
			}
			return a.publish(cmd, records)
		},
	}
}

func (a *app) newGithubClient(token string) (*github.Client, error) {
	return github.NewClient(token, a.logger,
		github.WithBaseURL(a.cfg.GithubAPIURL),
		github.WithPageSize(a.cfg.PageSize),
	)
}

func (a *app) publish(cmd *cobra.Command, records []model.CombinedRecord) error {
	ctx := cmd.Context()

	if err := database.RunMigrations(a.cfg.DBURL); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	a.logger.Info("Database migrations applied successfully")

	dbpool, err := pgxpool.New(ctx, a.cfg.DBURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbpool.Close()

	if err := merger.NewPublisher(dbpool, a.logger).Publish(ctx, records); err != nil {
		return fmt.Errorf("failed to publish combined records: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Combined data published to database (%d records)\n", len(records))
	return nil
}
