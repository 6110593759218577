package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"backend-antisocial/internal/auth"
	"backend-antisocial/internal/config"
	"backend-antisocial/internal/db"
	"backend-antisocial/internal/logging"
	"backend-antisocial/internal/social"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd(defaultEnv()).Execute(); err != nil {
		os.Exit(1)
	}
}

// env holds what the client needs from the outside world.
type env struct {
	out        io.Writer
	loadConfig func() config.Config
	newLogger  func(level string) (*zap.Logger, error)
	connect    func(config.Config) (db.Querier, func(), error)
}

func defaultEnv() env {
	return env{
		out:        os.Stdout,
		loadConfig: config.Load,
		newLogger:  logging.New,
		connect: func(cfg config.Config) (db.Querier, func(), error) {
			pool, err := db.ConnectPostgres(cfg)
			if err != nil {
				return nil, nil, err
			}
			return pool, pool.Close, nil
		},
	}
}

// client is built once per invocation in PersistentPreRunE.
type client struct {
	out     io.Writer
	logger  *zap.Logger
	feed    *social.Service
	session *auth.SessionStore
	close   func()
}

func newRootCmd(e env) *cobra.Command {
	var (
		sessionPath string
		logLevel    string
		c           = &client{out: e.out}
	)

	root := &cobra.Command{
		Use:          "antisocial",
		Short:        "Terminal client for the antisocial network",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := e.loadConfig()
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logger, err := e.newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			c.logger = logger

			q, closeFn, err := e.connect(cfg)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			c.close = closeFn

			path := sessionPath
			if path == "" {
				path = cfg.SessionFile
			}
			if path == "" {
				if path, err = auth.DefaultSessionPath(); err != nil {
					return fmt.Errorf("resolve session file: %w", err)
				}
			}

			authSvc, err := auth.NewService(cfg.JWTSecret, cfg.SharedPassword, q)
			if err != nil {
				return err
			}
			store := social.NewStore(q)
			c.feed = social.NewService(store, store, logger)
			c.session = auth.NewSessionStore(authSvc, auth.NewFilePersister(path))
			if err := c.session.Init(c.ctx(cmd)); err != nil {
				logger.Warn("session restore failed, continuing anonymous", zap.String("path", path), zap.Error(err))
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.close != nil {
				c.close()
			}
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.SetOut(e.out)
	root.PersistentFlags().StringVar(&sessionPath, "session", "", "session file (default $HOME/.antisocial/session.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		feedCmd(c),
		postCmd(c),
		profileCmd(c),
		tagsCmd(c),
		registerCmd(c),
		loginCmd(c),
		logoutCmd(c),
		whoamiCmd(c),
		publishCmd(c),
		commentCmd(c),
	)
	return root
}

func (c *client) ctx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
