package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/phrazzld/taskdesk/internal/service/auth"
	"github.com/spf13/cobra"
)

// newHashPasswordCmd prints the bcrypt hash of a password, for seeding users
// by hand. The password is read from stdin unless given as an argument.
func newHashPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cost, _ := cmd.Flags().GetInt("cost")

			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			hash, err := auth.HashPassword(password, cost)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
	cmd.Flags().Int("cost", 0, "bcrypt cost (0 uses the library default)")
	return cmd
}
