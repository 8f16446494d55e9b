package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/brainrot/internal/client/storage"
)

func newForgotPasswordCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := cmdCtx.anonymousClient()
			resp, err := client.ForgotPassword(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			cmdCtx.io.Println(resp.Message)
			return nil
		},
	}
}

func newResetPasswordCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <token>",
		Short: "Set a new password using a reset token from email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := cmdCtx.io.ReadPassword("New password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			client := cmdCtx.anonymousClient()
			resp, err := client.ResetPassword(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}

			cmdCtx.io.Println(resp.Message)
			return nil
		},
	}
}

func newSetUsernameCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-username <username>",
		Short: "Change the username of the current user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, session, err := cmdCtx.authenticatedClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := client.UpdateUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			// Обновляем username в локальной сессии
			if err := updateSessionUsername(cmd, session, resp.User.Username); err != nil {
				return err
			}

			cmdCtx.io.Printf("Username updated to %s\n", resp.User.Username)
			return nil
		},
	}
}

func newSetPasswordCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-password",
		Short: "Change the password of the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := cmdCtx.authenticatedClient(cmd.Context())
			if err != nil {
				return err
			}

			current, err := cmdCtx.io.ReadPassword("Current password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			newPassword, err := cmdCtx.io.ReadPassword("New password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			resp, err := client.UpdatePassword(cmd.Context(), current, newPassword)
			if err != nil {
				return err
			}

			cmdCtx.io.Println(resp.Message)
			return nil
		},
	}
}

func updateSessionUsername(cmd *cobra.Command, session *storage.Session, username string) error {
	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	session.Username = username
	if err := store.SaveSession(cmd.Context(), session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}
