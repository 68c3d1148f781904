package contract

import (
	"fmt"

	"github.com/NilFoundation/vvm/cmd/vvm/common"
	"github.com/NilFoundation/vvm/internal/native"
	"github.com/spf13/cobra"
)

func GetUploadCommand(env *common.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "upload [name]",
		Short: "Upload the code of a bundled contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.Run(cmd.Context(), func(s *common.Session) error {
				if _, ok := s.Registry.Hash(args[0]); !ok {
					return fmt.Errorf("unknown contract %q, available: %v", args[0], s.Registry.Names())
				}
				hash, err := s.Loader.Upload(native.Code(args[0]))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Code hash: %s\n", hash)
				return nil
			})
		},
	}
}
