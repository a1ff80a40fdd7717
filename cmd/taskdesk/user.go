package main

import (
	"fmt"

	"github.com/phrazzld/taskdesk/internal/config"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/platform/postgres"
	"github.com/phrazzld/taskdesk/internal/service"
	"github.com/phrazzld/taskdesk/internal/service/auth"
	"github.com/phrazzld/taskdesk/internal/store"
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserCreateCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user who can sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var input service.NewUserInput
			input.Name, _ = cmd.Flags().GetString("name")
			input.Email, _ = cmd.Flags().GetString("email")
			input.Role, _ = cmd.Flags().GetString("role")
			input.Password, _ = cmd.Flags().GetString("password")

			cfg, err := config.LoadDatabase()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			log, err := logger.Setup(cfg.Server)
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}

			db, err := setupAppDatabase(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			users, err := service.NewUserService(
				store.NewDBTransactor(db),
				postgres.NewPostgresUserStore(db, log),
				func(password string) (string, error) { return auth.HashPassword(password, 0) },
				log,
			)
			if err != nil {
				return err
			}

			user, err := users.CreateUser(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (%s)\n", user.Role, user.Email, user.ID)
			return err
		},
	}

	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("email", "", "sign-in email")
	cmd.Flags().String("role", "user", "admin or user")
	cmd.Flags().String("password", "", "initial password")
	for _, name := range []string{"name", "email", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
