package config

import (
	"github.com/NilFoundation/vvm/cmd/vvm/common"
	vvmconfig "github.com/NilFoundation/vvm/internal/config"
	"github.com/spf13/cobra"
)

func GetCommand(env *common.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the engine configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return vvmconfig.Dump(cmd.OutOrStdout(), env.Config)
		},
	})
	return cmd
}
