package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "srwatch",
		Short:         "Watch SevenRooms availability and notify when a wanted slot becomes bookable",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("SRWATCH_CONFIG"), "optional YAML config file (env vars override it)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newKeysCmd())
	root.AddCommand(newWatchCmd(&configPath))
	root.AddCommand(newOnceCmd(&configPath))
	root.AddCommand(newPingCmd(&configPath))
	root.AddCommand(newNotifyTestCmd(&configPath))

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
