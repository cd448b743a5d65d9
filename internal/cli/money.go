package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTransferCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "transfer <session-id> <to> <amount>",
		Short: "Transfer funds to another player or the bank",
		Long: `Transfer funds from the acting player to another player, or to
the bank when <to> is "bank". The sender defaults to --player and can
be overridden with --from.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}

			sender := from
			if sender == "" {
				sender = cfg.PlayerID
			}
			if sender == "" {
				return fmt.Errorf("sender required: set --from or --player")
			}

			req := map[string]any{
				"from":   sender,
				"to":     args[1],
				"amount": amount,
			}
			var result Session

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/transfers", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Sending player id (default: --player)")

	return cmd
}

func newDisburseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disburse <session-id> <to> <amount>",
		Short: "Pay a player from the bank (host only, use --as host)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}

			req := map[string]any{
				"to":     args[1],
				"amount": amount,
			}
			var result Session

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/disbursements", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func parseAmount(s string) (int64, error) {
	var amount int64
	if _, err := fmt.Sscanf(s, "%d", &amount); err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return amount, nil
}
