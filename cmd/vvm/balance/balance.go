package balance

import (
	"fmt"

	"github.com/NilFoundation/vvm/cmd/vvm/common"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/spf13/cobra"
)

func GetCommand(env *common.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Inspect and set account balances",
	}
	cmd.AddCommand(getCommand(env), setCommand(env))
	return cmd
}

func getCommand(env *common.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get [address]",
		Short: "Print the balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var address types.Address
			if err := address.Set(args[0]); err != nil {
				return fmt.Errorf("invalid address: %w", err)
			}
			return env.Run(cmd.Context(), func(s *common.Session) error {
				balance, err := s.Ledger.BalanceOf(address)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), balance)
				return nil
			})
		},
	}
}

func setCommand(env *common.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set [address] [value]",
		Short: "Set the balance of an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var address types.Address
			if err := address.Set(args[0]); err != nil {
				return fmt.Errorf("invalid address: %w", err)
			}
			value, err := types.NewValueFromDecimal(args[1])
			if err != nil {
				return fmt.Errorf("invalid value: %w", err)
			}
			return env.Run(cmd.Context(), func(s *common.Session) error {
				return s.Ledger.SetBalance(address, value)
			})
		},
	}
}
