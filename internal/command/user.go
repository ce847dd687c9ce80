package command

import (
	"bytes"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
)

func userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User commands",
	}
	cmd.AddCommand(
		userCreateCommand(),
		userDeleteCommand(),
	)
	return cmd
}

func userCreateCommand() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "create EMAIL",
		Short: "Create user",
		Long: "Creates a user with the provided email and username. Passwords may be\n" +
			"provided via stdin or through the interactive prompt.",

		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			rt, err := loadDeps(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := rt.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			email := args[0]
			if username == "" {
				username = email
			}
			passwd, err := prompt("password: ", true)
			if err != nil {
				return err
			}
			user, err := rt.svc.Register(cmd.Context(), username, email, string(passwd))
			if err != nil {
				return err
			}

			rt.logger.InfoContext(cmd.Context(), "created user",
				slog.Uint64("id", user.ID),
				slog.String("email", user.Email),
				slog.String("username", user.Username),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "display name of the user (defaults to the email)")
	return cmd
}

func userDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete EMAIL",
		Short: "Delete user",
		Long: "Permanently deletes the user with all of their projects, tasks, and sessions. " +
			"This operation is permanent and irreversible.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			rt, err := loadDeps(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := rt.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			email := args[0]
			logger := rt.logger.With(slog.String("email", email))
			user, err := rt.store.GetUserByEmail(cmd.Context(), email)
			if err != nil {
				return err
			}
			resp, err := prompt("Are you sure you want to delete this user? [y|N] ", false)
			if !bytes.Equal(resp, []byte{'y'}) || err != nil {
				logger.InfoContext(cmd.Context(), "aborted user deletion")
				return err
			}
			if err = rt.svc.DeleteAccount(cmd.Context(), user.ID); err != nil {
				return err
			}
			logger.InfoContext(cmd.Context(), "user deleted")
			return nil
		},
	}
}
