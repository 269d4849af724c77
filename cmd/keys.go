package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/gorilla/securecookie"
	"github.com/spf13/cobra"

	"github.com/example/sevenrooms-watcher/internal/auth"
)

func newKeysCmd() *cobra.Command {
	var password string

	c := &cobra.Command{
		Use:   "keys",
		Short: "Generate SESSION_HASH_KEY and SESSION_BLOCK_KEY values (base64) for the status server",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			hash := securecookie.GenerateRandomKey(32)
			block := securecookie.GenerateRandomKey(32)
			if hash == nil || block == nil {
				return fmt.Errorf("could not generate random keys")
			}
			fmt.Fprintf(out, "export SESSION_HASH_KEY=%s\n", base64.StdEncoding.EncodeToString(hash))
			fmt.Fprintf(out, "export SESSION_BLOCK_KEY=%s\n", base64.StdEncoding.EncodeToString(block))

			if password != "" {
				h, err := auth.HashPassword(password)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "export STATUS_PASSWORD_BCRYPT='%s'\n", h)
			}
			return nil
		},
	}
	c.Flags().StringVar(&password, "password", "", "also print a bcrypt hash of this status-page password")
	return c
}
