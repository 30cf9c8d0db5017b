// Package cli implements the tieba command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tiebago/tieba/internal/api"
	"github.com/tiebago/tieba/internal/config"
	"github.com/tiebago/tieba/internal/db"
	"github.com/tiebago/tieba/internal/logging"
	"github.com/tiebago/tieba/internal/store"
)

// Execute runs the CLI.
func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "tieba",
		Short:         "Terminal client for a tieba forum server",
		Long:          "tieba browses forums, posts, and private messages from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path")
	cmd.PersistentFlags().String("base-url", "", "Override the API base URL")

	cmd.AddCommand(
		newLoginCmd(&configFile),
		newLogoutCmd(&configFile),
		newRegisterCmd(&configFile),
		newWhoamiCmd(&configFile),
		newProfileCmd(&configFile),
		newPasswdCmd(&configFile),
		newTiebaCmd(&configFile),
		newPostCmd(&configFile),
		newMsgCmd(&configFile),
		newChatCmd(&configFile),
	)

	return cmd
}

// app wires the configuration, local database, transport and stores for
// one command invocation.
type app struct {
	cfg      *config.Config
	db       *db.DB
	creds    *db.CredentialRepository
	users    *store.UserStore
	messages *store.MessageStore
	tiebas   *store.TiebaStore
	ctxStore *config.ContextStore
}

func newApp(cmd *cobra.Command, configFile string) (*app, error) {
	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	if baseURL, _ := cmd.Flags().GetString("base-url"); baseURL != "" {
		cfg.API.BaseURL = baseURL
	}

	initLogging(cfg)

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DatabasePath(), cfg.Database.BusyTimeoutMs)
	if err != nil {
		return nil, err
	}

	creds, err := db.NewCredentialRepository(database)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	client, err := api.NewClient(api.Config{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		Credentials: creds,
	})
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	notifier := store.LogNotifier{Log: logging.Component("cli")}
	history := db.NewSearchHistoryRepository(database)

	return &app{
		cfg:      cfg,
		db:       database,
		creds:    creds,
		users:    store.NewUserStore(client, creds, notifier),
		messages: store.NewMessageStore(client, notifier),
		tiebas:   store.NewTiebaStore(client, notifier, history),
		ctxStore: config.NewContextStore(""),
	}, nil
}

func initLogging(cfg *config.Config) {
	logCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if cfg.Logging.File != "" {
		if f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			logCfg.Output = f
			logCfg.Format = "json"
		}
	}
	logging.Init(logCfg)
}

func (a *app) Close() {
	if a != nil && a.db != nil {
		_ = a.db.Close()
	}
}

// requireLogin restores the stored session and fails when none is valid.
func (a *app) requireLogin(cmd *cobra.Command) error {
	res := a.users.CheckLoginStatus(cmd.Context())
	if !res.OK {
		return fmt.Errorf("not logged in: %s (run `tieba login`)", res.Message)
	}
	return nil
}

// failed converts a store failure into a command error.
func failed(message string) error {
	if message == "" {
		message = "operation failed"
	}
	return errors.New(message)
}
