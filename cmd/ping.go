package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/sevenrooms-watcher/internal/application/usecases"
)

func newPingCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Fetch availability for the first configured date and print the outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, true)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			uc := usecases.PingProvider{Provider: a.provider}
			sum, err := uc.Execute(ctx, a.cfg.Dates()[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok date=%s outcome=%s slots=%d bookable=%d\n",
				sum.Provider, sum.Date.Format("2006-01-02"), sum.Outcome, sum.Slots, sum.Bookable)

			if a.cfg.Telegram.Enabled() {
				name, err := a.telegram.Ping()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "telegram: ok bot=@%s\n", name)
			}
			return nil
		},
	}
}
