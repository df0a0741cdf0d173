package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sautihq/sauti/internal/at"
)

func newBalanceCmd() *cobra.Command {
	var wallet bool

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the application balance, or the wallet balance with --wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client := at.New(cfg.AT, log)

			var out string
			if wallet {
				out, err = client.WalletBalance(cmd.Context())
			} else {
				out, err = client.ApplicationBalance(cmd.Context())
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&wallet, "wallet", false, "query the payment wallet instead of the app balance")
	return cmd
}
