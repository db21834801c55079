package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"panefm/internal/app"
	"panefm/internal/config"
	"panefm/internal/logging"
)

var errNoTerminal = errors.Base("panefm needs an interactive terminal")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "panefm [left] [right]",
		Short:         "Dual-pane terminal file manager",
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.Flags().SortFlags = false
	config.RegisterFlags(cmd.Flags())
	cmd.Flags().StringP("config", "c", "", "Config file (default is the user config dir)")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errNoTerminal
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		defaultPath, err := config.ConfigPath()
		if err != nil {
			return err
		}
		configPath = defaultPath
	}

	v := config.NewViper()
	configWarning := ""
	if err := config.ReadFile(v, configPath); err != nil {
		configWarning = "Config warning: using defaults"
		v = config.NewViper()
	}
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg := config.FromViper(v)
	if len(args) > 0 {
		cfg.LeftPath = args[0]
	}
	if len(args) > 1 {
		cfg.RightPath = args[1]
	}

	logger, closer, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Info().Str("config", configPath).Str("left", cfg.LeftPath).Str("right", cfg.RightPath).Msg("starting")

	ctx := logger.WithContext(cmd.Context())
	return app.Run(ctx, app.Options{
		Config:        cfg,
		ConfigPath:    configPath,
		ConfigWarning: configWarning,
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "panefm:", err)
		stop()
		os.Exit(1)
	}
}
