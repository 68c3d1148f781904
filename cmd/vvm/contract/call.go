package contract

import (
	"fmt"

	"github.com/NilFoundation/vvm/cmd/vvm/common"
	"github.com/NilFoundation/vvm/internal/exec"
	"github.com/NilFoundation/vvm/internal/gas"
	"github.com/NilFoundation/vvm/internal/types"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

func GetCallCommand(env *common.Env) *cobra.Command {
	params := newParams()
	cmd := &cobra.Command{
		Use:   "call [address]",
		Short: "Call a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var address types.Address
			if err := address.Set(args[0]); err != nil {
				return fmt.Errorf("invalid address: %w", err)
			}
			return env.Run(cmd.Context(), func(s *common.Session) error {
				meter := gas.NewMeter(params.gasLimit)
				debug := s.DebugBuffer()
				ret, _, err := exec.RunCall(
					s.Params(), s.Origin(), address, meter, params.value, ethcommon.FromHex(params.input), debug)
				return common.PrintResult(cmd.OutOrStdout(), ret, err, meter, debug)
			})
		},
	}
	params.register(cmd)
	return cmd
}
