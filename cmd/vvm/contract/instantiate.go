package contract

import (
	"fmt"

	"github.com/NilFoundation/vvm/cmd/vvm/common"
	"github.com/NilFoundation/vvm/internal/exec"
	"github.com/NilFoundation/vvm/internal/gas"
	"github.com/NilFoundation/vvm/internal/native"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

func GetInstantiateCommand(env *common.Env) *cobra.Command {
	params := newParams()
	cmd := &cobra.Command{
		Use:   "instantiate [name]",
		Short: "Instantiate a bundled contract",
		Long:  "Instantiate a bundled contract. The code is uploaded first if needed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.Run(cmd.Context(), func(s *common.Session) error {
				return runInstantiate(cmd, s, params, args[0])
			})
		},
	}
	params.register(cmd)
	cmd.Flags().StringVar(&params.salt, saltFlag, "", "Hex encoded salt")
	return cmd
}

func runInstantiate(cmd *cobra.Command, s *common.Session, params *contractParams, name string) error {
	if _, ok := s.Registry.Hash(name); !ok {
		return fmt.Errorf("unknown contract %q, available: %v", name, s.Registry.Names())
	}
	hash, err := s.Loader.Upload(native.Code(name))
	if err != nil {
		return err
	}

	meter := gas.NewMeter(params.gasLimit)
	executable, err := s.Loader.FromStorage(hash, &s.Config().Schedule, meter)
	if err != nil {
		return err
	}

	debug := s.DebugBuffer()
	addr, ret, err := exec.RunInstantiate(
		s.Params(), s.Origin(), executable, meter, params.value,
		ethcommon.FromHex(params.input), ethcommon.FromHex(params.salt), debug)
	if err == nil && ret.IsSuccess() {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Contract address: %s\n", addr)
	}
	return common.PrintResult(cmd.OutOrStdout(), ret, err, meter, debug)
}
