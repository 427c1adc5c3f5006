// Command tracker is the command-line client for the time tracker storage.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"timeTracker/internal/app"
	"timeTracker/internal/config"
	"timeTracker/internal/logger"
	"timeTracker/internal/service"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type options struct {
	configPath string
	userID     int64
	color      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "tracker",
		Short:         "Time tracker - items, tags and start/stop timers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	bindGlobalFlags(rootCmd.PersistentFlags(), opts)

	rootCmd.AddCommand(newMigrateCmd(opts))
	rootCmd.AddCommand(newSeedCmd(opts))
	rootCmd.AddCommand(newItemsCmd(opts))
	rootCmd.AddCommand(newStartCmd(opts))
	rootCmd.AddCommand(newStopCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))
	return rootCmd
}

func bindGlobalFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVarP(&opts.configPath, "config", "c", "config.yml", "path to config file (empty for defaults and env only)")
	fs.Int64VarP(&opts.userID, "user", "u", 1, "owner id")
	fs.BoolVar(&opts.color, "color", false, "colorize table output")
}

func (o *options) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}
	if err := logger.Init(cfg.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}
	return cfg, nil
}

// openService открывает хранилище из конфига; close нужно вызвать после работы
func (o *options) openService(ctx context.Context) (*service.ItemService, service.Repository, func(), error) {
	cfg, err := o.load()
	if err != nil {
		return nil, nil, nil, err
	}

	repo, closeRepo, err := app.OpenRepository(ctx, cfg, false)
	if err != nil {
		return nil, nil, nil, err
	}
	return service.NewItemService(repo), repo, func() {
		closeRepo()
		logger.Sync()
	}, nil
}
