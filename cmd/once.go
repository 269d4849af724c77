package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/sevenrooms-watcher/internal/scheduler"
)

func newOnceCmd(configPath *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "once",
		Short: "Run a single poll pass over all configured dates and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, dryRun)
			if err != nil {
				return err
			}
			defer a.close()

			st := a.scheduler().Pass(cmd.Context(), scheduler.State{})
			out := cmd.OutOrStdout()
			for _, r := range st.LastPass {
				fmt.Fprintf(out, "date=%s outcome=%s slots=%d matches=%s notified=%d",
					r.Date.Format("2006-01-02"), r.Outcome, r.Slots, strings.Join(r.Matches, ","), r.Notified)
				if r.Err != "" {
					fmt.Fprintf(out, " error=%q", r.Err)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "match and log slots without sending notifications")
	return cmd
}
