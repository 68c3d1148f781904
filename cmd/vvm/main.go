package main

import (
	"context"
	"fmt"
	"os"

	"github.com/NilFoundation/vvm/cmd/vvm/balance"
	"github.com/NilFoundation/vvm/cmd/vvm/common"
	configcmd "github.com/NilFoundation/vvm/cmd/vvm/config"
	"github.com/NilFoundation/vvm/cmd/vvm/contract"
	"github.com/NilFoundation/vvm/common/logging"
	"github.com/NilFoundation/vvm/internal/config"
	"github.com/NilFoundation/vvm/internal/db"
	"github.com/NilFoundation/vvm/internal/exec"
	"github.com/NilFoundation/vvm/internal/telemetry"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/spf13/cobra"
)

type RootCommand struct {
	baseCmd  *cobra.Command
	env      common.Env
	cfgFile  string
	logLevel string
	metrics  bool
}

var logger = logging.NewLogger("rootCommand")

func main() {
	var rootCmd *RootCommand

	rootCmd = &RootCommand{
		env: common.Env{
			DB:     db.NewDefaultBadgerDBOptions(),
			Origin: types.HexToAddress("0x01"),
			Block:  1,
		},
		baseCmd: &cobra.Command{
			Use:   "vvm",
			Short: "Run contract calls against a local database",
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
				return rootCmd.setup(cmd.Context())
			},
			PersistentPostRun: func(cmd *cobra.Command, args []string) {
				if rootCmd.metrics {
					telemetry.Shutdown(cmd.Context())
				}
			},
			SilenceUsage: true,
		},
	}

	flags := rootCmd.baseCmd.PersistentFlags()
	flags.StringVarP(&rootCmd.cfgFile, "config", "c", "", "Path to config file")
	flags.StringVar(&rootCmd.env.DB.Path, "db-path", rootCmd.env.DB.Path, "Path to the database")
	flags.StringVarP(&rootCmd.logLevel, "log-level", "l", "info", "Log level: trace|debug|info|warn|error|fatal|panic")
	flags.BoolVar(&rootCmd.env.DebugMessage, "debug-message", false, "Print the debug messages of contracts")
	flags.Var(&rootCmd.env.Origin, "origin", "Account the stack is run on behalf of")
	flags.Uint64Var(&rootCmd.env.Block, "block", rootCmd.env.Block, "Number of the block the stack is run in")
	flags.Uint64Var(&rootCmd.env.Timestamp, "timestamp", 0, "Timestamp of the block (derived from --block if not set)")
	flags.BoolVar(&rootCmd.env.DB.DropOnOpen, "drop-db", false, "Drop all data in the database before running the command")
	flags.BoolVar(&rootCmd.metrics, "metrics", false, "Export metrics over OTLP gRPC")

	rootCmd.registerSubCommands()
	rootCmd.Execute()
}

func (rc *RootCommand) registerSubCommands() {
	rc.baseCmd.AddCommand(contract.GetCommands(&rc.env)...)
	rc.baseCmd.AddCommand(
		balance.GetCommand(&rc.env),
		configcmd.GetCommand(&rc.env),
	)

	logger.Trace().Msg("Subcommands registered")
}

func (rc *RootCommand) setup(ctx context.Context) error {
	if err := logging.TrySetupGlobalLevel(rc.logLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	cfg, err := config.Load(rc.cfgFile)
	if err != nil {
		return err
	}
	rc.env.Config = cfg

	if rc.metrics {
		if err := telemetry.Init(ctx, &telemetry.Config{
			ServiceName:        "vvm",
			MetricExportOption: telemetry.ExportOptionGrpc,
		}); err != nil {
			return fmt.Errorf("failed to init telemetry: %w", err)
		}
		if rc.env.Metrics, err = exec.NewMetricsHandler("vvm"); err != nil {
			return err
		}
	}

	logger.Debug().Str("db", rc.env.DB.Path).Msg("Configuration loaded")
	return nil
}

// Execute runs the root command and handles any errors
func (rc *RootCommand) Execute() {
	if err := rc.baseCmd.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}

	logger.Trace().Msg("Command executed successfully")
}
