package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"homecloud/internal/adapters/localstorage"
	"homecloud/internal/adapters/server"
	"homecloud/internal/adapters/trash"
	"homecloud/internal/config"
	"homecloud/internal/metrics"
	"homecloud/internal/usecases"
)

type serveOptions struct {
	configPath string
	root       string
	listen     string
	logLevel   string
	qr         bool
}

var serveOpts serveOptions

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "serve the storage root over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(serveOpts)
		if err != nil {
			return err
		}
		setupLogger(cfg.Log)

		return runServer(cmd.Context(), cfg, serveOpts.qr, cmd.OutOrStdout())
	},
}

func init() {
	flags := serveCMD.Flags()
	flags.StringVarP(&serveOpts.configPath, "config", "c", "", "path to config.yaml")
	flags.StringVar(&serveOpts.root, "root", "", "storage root directory, overrides storage.root_path")
	flags.StringVar(&serveOpts.listen, "listen", "", "listen address, overrides server.listen")
	flags.StringVar(&serveOpts.logLevel, "log-level", "", "debug|info|warn|error, overrides log.level")
	flags.BoolVar(&serveOpts.qr, "qr", false, "print the LAN address as a QR code")

	rootCMD.AddCommand(serveCMD)
}

// loadConfig: файл, потом флаги поверх, потом валидация.
func loadConfig(opts serveOptions) (*config.Config, error) {
	cfg, err := config.LoadConfigWithError(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.root != "" {
		cfg.Storage.RootPath = opts.root
	}
	if opts.listen != "" {
		cfg.Server.Listen = opts.listen
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	if err = cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setupLogger(cfg config.LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func prepareRoot(cfg config.StorageConfig) error {
	if cfg.CreateRoot {
		if err := os.MkdirAll(cfg.RootPath, cfg.DirPermissions); err != nil {
			return fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	info, err := os.Stat(cfg.RootPath)
	if err != nil {
		return fmt.Errorf("storage root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage root %s is not a directory", cfg.RootPath)
	}
	return nil
}

func newRouter(cfg *config.Config) http.Handler {
	bin := trash.New(trash.Config{Enabled: cfg.Trash.Enabled, Dir: cfg.Trash.Dir})
	metrics.SetTrashAvailable(bin.Available())

	storage := localstorage.NewLocalStorageService(cfg.Storage.DirPermissions, cfg.Storage.FilePermissions)
	cmds := usecases.NewCommandService(cfg.Storage.RootPath, storage, bin, cfg.Archive.PreservePaths)
	handler := server.NewHandler(cmds, cfg.Server.MaxUploadSize)

	return server.NewRouter(handler, cfg.Routes, cfg.Metrics)
}

func runServer(ctx context.Context, cfg *config.Config, showQR bool, out io.Writer) error {
	if err := prepareRoot(cfg.Storage); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           newRouter(cfg),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	ln, err := net.Listen("tcp", cfg.Server.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Listen, err)
	}

	logrus.WithField("root", cfg.Storage.RootPath).Infof("Server running on %s", ln.Addr())
	if showQR {
		if qrErr := printQR(out, ln.Addr()); qrErr != nil {
			logrus.Warnf("Failed to print QR code: %v", qrErr)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if serveErr := srv.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", serveErr)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		logrus.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			return fmt.Errorf("server shutdown: %w", shutdownErr)
		}
		logrus.Info("Server stopped gracefully")
		return nil
	})

	return g.Wait()
}
