package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bcfview/bcfview/internal/config"
	"github.com/bcfview/bcfview/internal/database"
	"github.com/bcfview/bcfview/internal/loader"
	"github.com/bcfview/bcfview/internal/logging"
	"github.com/bcfview/bcfview/internal/usecase"
)

type app struct {
	logLevel  string
	logFormat string
	log       zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: logging.Nop()}

	cmd := &cobra.Command{
		Use:          "bcfview",
		Short:        "bcfview - browse BIM Collaboration Format archives",
		Long:         "bcfview loads BCF archives into a session and shows their topics, comments and viewpoints.",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := a.logLevel
			if !cmd.Flags().Changed("log-level") {
				if env := config.GetLogLevel(); env != "" {
					level = env
				}
			}
			a.log = logging.New(logging.Config{
				Level:  level,
				Format: logging.Format(a.logFormat),
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level: debug, info, warn, or error")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", string(logging.FormatConsole), "Log format: console or json")

	cmd.AddCommand(newLoadCmd(a))
	cmd.AddCommand(newAppendCmd(a))
	cmd.AddCommand(newClearCmd(a))
	cmd.AddCommand(newRemoveCmd(a))
	cmd.AddCommand(newShowCmd(a))
	cmd.AddCommand(newTopicCmd(a))
	cmd.AddCommand(newCameraCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newMCPCmd(a))

	return cmd
}

// withSession opens the catalog, restores the stored session and runs fn.
func (a *app) withSession(ctx context.Context, fn func(*usecase.Session) error) error {
	dbCtx, err := database.CreateDatabase("")
	if err != nil {
		return err
	}
	defer func() {
		_ = database.CloseDatabase(dbCtx)
	}()

	session := usecase.NewSession(dbCtx, loader.New(loader.WithLogger(a.log)), a.log)
	if err := session.Open(ctx); err != nil {
		return err
	}
	return fn(session)
}
