package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/iudanet/brainrot/internal/client/storage"
	"github.com/iudanet/brainrot/pkg/api"
)

func newRegisterCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Register a new account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := cmdCtx.io.ReadInput("Username: ")
			if err != nil {
				return fmt.Errorf("failed to read username: %w", err)
			}

			email, err := cmdCtx.io.ReadInput("Email: ")
			if err != nil {
				return fmt.Errorf("failed to read email: %w", err)
			}

			password, err := cmdCtx.io.ReadPassword("Password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			client := cmdCtx.anonymousClient()
			resp, err := client.Signup(cmd.Context(), api.SignupRequest{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			if err := saveSession(cmd.Context(), cmdCtx.server(), resp); err != nil {
				return err
			}

			cmdCtx.io.Printf("Registered and logged in as %s\n", resp.User.Username)
			return nil
		},
	}
}

func newLoginCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in to the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := cmdCtx.io.ReadInput("Email: ")
			if err != nil {
				return fmt.Errorf("failed to read email: %w", err)
			}

			password, err := cmdCtx.io.ReadPassword("Password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			client := cmdCtx.anonymousClient()
			resp, err := client.Login(cmd.Context(), api.LoginRequest{
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			if err := saveSession(cmd.Context(), cmdCtx.server(), resp); err != nil {
				return err
			}

			cmdCtx.io.Printf("Logged in as %s\n", resp.User.Username)
			return nil
		},
	}
}

func newLogoutCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			if err := store.DeleteSession(cmd.Context()); err != nil {
				if err == storage.ErrSessionNotFound {
					cmdCtx.io.Println("Not logged in")
					return nil
				}
				return fmt.Errorf("failed to delete session: %w", err)
			}

			cmdCtx.io.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, session, err := cmdCtx.authenticatedClient(cmd.Context())
			if err != nil {
				return err
			}

			// Профиль запрашиваем с сервера: username могли поменять
			// с другой машины
			resp, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}

			cmdCtx.io.Printf("Username: %s\n", resp.User.Username)
			cmdCtx.io.Printf("Email:    %s\n", resp.User.Email)
			cmdCtx.io.Printf("Server:   %s\n", session.ServerURL)
			cmdCtx.io.Printf("Session expires: %s\n",
				time.Unix(session.ExpiresAt, 0).Format(time.RFC3339))
			return nil
		},
	}
}

// saveSession сохраняет сессию после успешного signup/login
func saveSession(ctx context.Context, serverURL string, resp *api.AuthResponse) error {
	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	session := &storage.Session{
		ServerURL: serverURL,
		Token:     resp.Token,
		UserID:    resp.User.ID,
		Username:  resp.User.Username,
		Email:     resp.User.Email,
		ExpiresAt: tokenExpiry(resp.Token),
	}

	if err := store.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// tokenExpiry достает exp claim из токена без проверки подписи
// Подпись проверяет сервер, клиенту нужна только дата для подсказки
func tokenExpiry(token string) int64 {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Unix()
		}
	}
	// Не смогли распарсить - считаем сутки, сервер все равно проверит
	return time.Now().Add(24 * time.Hour).Unix()
}
