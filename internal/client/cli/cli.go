// Package cli содержит команды консольного клиента brainrot
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/brainrot/internal/client/api"
	"github.com/iudanet/brainrot/internal/client/iocli"
	"github.com/iudanet/brainrot/internal/client/storage"
	"github.com/iudanet/brainrot/internal/client/storage/boltdb"
)

// defaultServerURL адрес сервера по умолчанию
const defaultServerURL = "http://localhost:3000"

// commandContext общее состояние команд: IO и значение флага --server
type commandContext struct {
	io        iocli.IO
	serverURL string
}

// NewRootCommand собирает дерево команд клиента
func NewRootCommand(version string) *cobra.Command {
	cmdCtx := &commandContext{
		io: iocli.NewStdio(),
	}

	root := &cobra.Command{
		Use:           "brainrot",
		Short:         "CLI client for the brainrot clip generator",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cmdCtx.serverURL, "server", "", "server base URL (default $BRAINROT_SERVER or "+defaultServerURL+")")

	root.AddCommand(
		newRegisterCommand(cmdCtx),
		newLoginCommand(cmdCtx),
		newLogoutCommand(cmdCtx),
		newWhoamiCommand(cmdCtx),
		newGenerateCommand(cmdCtx),
		newClipsCommand(cmdCtx),
		newForgotPasswordCommand(cmdCtx),
		newResetPasswordCommand(cmdCtx),
		newSetUsernameCommand(cmdCtx),
		newSetPasswordCommand(cmdCtx),
	)

	return root
}

// server возвращает адрес сервера: флаг, потом окружение, потом дефолт
func (c *commandContext) server() string {
	if c.serverURL != "" {
		return c.serverURL
	}
	if env := os.Getenv("BRAINROT_SERVER"); env != "" {
		return env
	}
	return defaultServerURL
}

// sessionDBPath путь к файлу сессии в каталоге конфигурации пользователя
func sessionDBPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config dir: %w", err)
	}

	dir := filepath.Join(configDir, "brainrot")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}

	return filepath.Join(dir, "session.db"), nil
}

// openStorage открывает локальное хранилище сессии
func openStorage() (*boltdb.Storage, error) {
	path, err := sessionDBPath()
	if err != nil {
		return nil, err
	}
	return boltdb.New(path)
}

// anonymousClient создает API клиент без токена (register, login, reset)
func (c *commandContext) anonymousClient() *api.Client {
	return api.NewClient(c.server())
}

// authenticatedClient загружает сессию и создает клиент с токеном
// Возвращает также саму сессию для вывода username и т.п.
func (c *commandContext) authenticatedClient(ctx context.Context) (*api.Client, *storage.Session, error) {
	store, err := openStorage()
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = store.Close()
	}()

	session, err := store.GetSession(ctx)
	if err != nil {
		if err == storage.ErrSessionNotFound {
			return nil, nil, fmt.Errorf("not logged in. Run 'brainrot login' first")
		}
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}

	if time.Now().Unix() > session.ExpiresAt {
		return nil, nil, fmt.Errorf("session expired. Run 'brainrot login' again")
	}

	// Флаг --server перекрывает адрес, сохраненный при логине
	serverURL := session.ServerURL
	if c.serverURL != "" {
		serverURL = c.serverURL
	}

	client := api.NewClient(serverURL)
	client.SetToken(session.Token)

	return client, session, nil
}
