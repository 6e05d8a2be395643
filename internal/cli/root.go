package cli

import (
	"log/slog"

	"github.com/osvaldoandrade/graphql-migrate/internal/config"
	"github.com/osvaldoandrade/graphql-migrate/internal/platform"
	"github.com/spf13/cobra"
)

type RootOptions struct {
	JSONOutput bool
	EnvFile    string
	Settings   config.Settings
	Logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &RootOptions{EnvFile: config.DefaultEnvFile}
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "graphql-migrate",
		Short: "Apply GraphQL schema files to a schema endpoint",
		Long: "Collects files matching a name pattern under a root directory, " +
			"concatenates them in path order and posts the result to {url}/admin/schema.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadEnvFile(opts.EnvFile); err != nil {
				return err
			}
			settings, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := platform.ConfigureLogger(platform.LoggerOptions{
				Level:  settings.LogLevel,
				Format: settings.LogFormat,
				Output: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			opts.Settings = settings
			opts.Logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApply(cmd, opts, dryRun)
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())
	cmd.PersistentFlags().BoolVar(&opts.JSONOutput, "json", false, "Emit JSON output")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", opts.EnvFile, "Dotenv file loaded before reading the environment (empty to skip)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build the payload without sending it")

	cmd.AddCommand(
		newApplyCmd(opts),
		newListCmd(opts),
	)

	return cmd
}
