package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	config "taskboard.com/taskboard/internal/configs"
	repository "taskboard.com/taskboard/internal/repositories"
	"taskboard.com/taskboard/internal/services"
)

var reportID uint

var reportCmd = &cobra.Command{
	Use:   "report {analytics|workload|projects}",
	Short: "Print a report as JSON",
	Long: "Builds a report straight from the database, bypassing authorization.\n" +
		"analytics takes a project id; workload and projects take an organization id.",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"analytics", "workload", "projects"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		db := config.NewDatabaseClient(cfg.DatabaseDriver, cfg.DatabaseDSN)

		projects := repository.NewProjectRepository(db)
		reports := services.NewReportService(
			repository.NewReportRepository(db),
			projects,
			repository.NewOrganizationRepository(db),
		)

		ctx := cmd.Context()
		var (
			out any
			err error
		)
		switch args[0] {
		case "analytics":
			out, err = reports.RunTaskAnalytics(ctx, reportID)
		case "workload":
			out, err = reports.RunUserWorkload(ctx, reportID)
		case "projects":
			out, err = reports.RunProjectComparison(ctx, reportID)
		}
		if err != nil {
			return fmt.Errorf("%s report: %w", args[0], err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	reportCmd.Flags().UintVar(&reportID, "id", 0, "project id (analytics) or organization id (workload, projects)")
	_ = reportCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(reportCmd)
}
