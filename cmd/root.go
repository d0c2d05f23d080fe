package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trip-claim/internal/config"
	"github.com/sells-group/trip-claim/internal/period"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "trip-claim [month]",
	Short: "Export a month of rides into a filled claim form",
	Long: "Lists the rides of a calendar month (1-12, default: last month), downloads their receipts, " +
		"merges them into one PDF, fills the Claim Form spreadsheet and packages the result.",
	Args: monthArg,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// arguments are valid from here on, later failures are not usage errors
		cmd.SilenceUsage = true

		c, err := config.Load(configFile())
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log, zap.String("run_id", uuid.NewString())); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: runExport,
}

// configFile is TRIPCLAIM_CONFIG when set, otherwise config.DefaultPath.
func configFile() string {
	if p := os.Getenv("TRIPCLAIM_CONFIG"); p != "" {
		return p
	}
	return config.DefaultPath
}

// monthArg accepts no argument or a single month number.
func monthArg(cmd *cobra.Command, args []string) error {
	if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
		return err
	}
	if len(args) == 1 {
		if _, err := period.ParseMonth(args[0]); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
