package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sautihq/sauti/internal/store"
)

func newCallsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "calls",
		Short: "List recent voice calls and dispatched operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := store.Open(paths.DBPath(cfg.Store), log)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()
			callLog := store.NewCallLog(db)

			calls, err := callLog.RecentCalls(limit)
			if err != nil {
				return err
			}
			dispatches, err := callLog.RecentDispatches(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Voice calls (%d):\n", len(calls))
			for _, c := range calls {
				fmt.Fprintf(out, "  %s  %-6s %s  %s\n",
					c.CreatedAt.Format("2006-01-02 15:04:05"), c.Kind, c.ToNumber, c.SessionID)
			}

			fmt.Fprintf(out, "\nDispatches (%d):\n", len(dispatches))
			for _, d := range dispatches {
				status := "ok"
				if !d.OK {
					status = "error"
				}
				fmt.Fprintf(out, "  %s  %-30s %-5s %dms\n",
					d.CreatedAt.Format("2006-01-02 15:04:05"), d.Operation, status, d.DurationMS)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries per section")
	return cmd
}
