package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/sevenrooms-watcher/internal/domain/reservation"
)

func newNotifyTestCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "notify-test",
		Short: "Send a sample notification through every configured channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.close()

			id := "notify-test"
			desc := "Sample seating"
			slot := reservation.Slot{
				TimeISO:            a.cfg.DatesNeeded[0] + " " + a.cfg.TimesNeeded[0],
				AccessPersistentID: &id,
				Description:        &desc,
			}
			rep := a.notifier.Dispatch(cmd.Context(), slot)

			out := cmd.OutOrStdout()
			var failed []string
			for _, d := range rep.Deliveries {
				line := fmt.Sprintf("%s: %s", d.Channel, d.Status)
				if d.Reason != "" {
					line += " (" + d.Reason + ")"
				}
				if d.Err != nil {
					line += ": " + d.Err.Error()
					failed = append(failed, d.Channel)
				}
				fmt.Fprintln(out, line)
			}
			if len(failed) > 0 {
				return fmt.Errorf("delivery failed: %s", strings.Join(failed, ", "))
			}
			if !rep.Sent() {
				return fmt.Errorf("no channel delivered the notification: configure TELEGRAM_* or ENABLE_EMAIL")
			}
			return nil
		},
	}
}
