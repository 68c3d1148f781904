package contract

import (
	"github.com/NilFoundation/vvm/cmd/vvm/common"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/spf13/cobra"
)

const (
	valueFlag = "value"
	inputFlag = "input"
	saltFlag  = "salt"
	gasFlag   = "gas"
)

const defaultGasLimit = types.Gas(10_000_000)

type contractParams struct {
	value    types.Value
	input    string
	salt     string
	gasLimit types.Gas
}

func newParams() *contractParams {
	return &contractParams{value: types.NewZeroValue(), gasLimit: defaultGasLimit}
}

func (p *contractParams) register(cmd *cobra.Command) {
	cmd.Flags().Var(&p.value, valueFlag, "Value to transfer")
	cmd.Flags().StringVar(&p.input, inputFlag, "", "Hex encoded input")
	cmd.Flags().Var(&p.gasLimit, gasFlag, "Gas limit")
}

// GetCommands returns the commands operating on contracts.
func GetCommands(env *common.Env) []*cobra.Command {
	return []*cobra.Command{
		GetUploadCommand(env),
		GetInstantiateCommand(env),
		GetCallCommand(env),
	}
}
