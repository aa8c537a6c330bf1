package commands

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Riyan-420/CryptoSentinel-V2/config"
	"github.com/Riyan-420/CryptoSentinel-V2/errors"
	"github.com/Riyan-420/CryptoSentinel-V2/logger"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the CryptoSentinel database",
	Long: `Manage database operations.

Examples:
  cryptosentinel db stats     # Show row counts and latest activity
  cryptosentinel db migrate   # Apply pending schema migrations`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	RunE:  runDbStats,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE:  runDbMigrate,
}

func init() {
	dbCmd.AddCommand(dbStatsCmd)
	dbCmd.AddCommand(dbMigrateCmd)
}

func runDbStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	database, err := openDatabase(cfg, logger.Logger)
	if err != nil {
		return err
	}
	defer database.Close()

	counts := map[string]int{}
	for _, table := range []string{"features", "model_versions", "predictions", "run_state"} {
		var n int
		if err := database.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			return errors.Wrapf(err, "count %s", table)
		}
		counts[table] = n
	}

	var validated, correct int
	err = database.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(was_correct), 0)
		FROM predictions WHERE validated_at IS NOT NULL`).Scan(&validated, &correct)
	if err != nil && err != sql.ErrNoRows {
		return errors.Wrap(err, "query validation stats")
	}

	fmt.Println("Database Statistics")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Database path:     %s\n\n", cfg.Database.Path)
	fmt.Printf("Feature rows:      %d\n", counts["features"])
	fmt.Printf("Model versions:    %d\n", counts["model_versions"])
	fmt.Printf("Predictions:       %d\n", counts["predictions"])
	fmt.Printf("Scheduled jobs:    %d\n\n", counts["run_state"])
	fmt.Printf("Validated:         %d\n", validated)
	if validated > 0 {
		fmt.Printf("Correct:           %d (%.1f%%)\n", correct,
			float64(correct)/float64(validated)*100)
	}
	return nil
}

func runDbMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	database, err := openDatabase(cfg, logger.Logger)
	if err != nil {
		return err
	}
	defer database.Close()

	fmt.Println("Migrations applied")
	return nil
}
