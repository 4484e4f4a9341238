package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ahmad-alkadri/bucket-site/internal/config"
	"github.com/ahmad-alkadri/bucket-site/internal/log"
	"github.com/ahmad-alkadri/bucket-site/internal/services"
)

func main() {
	if err := newRootCommand(config.NewViper()).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "bucket-site: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "bucket-site",
		Short:         "Serve static files out of a cloud storage bucket",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config %s: %w", cfgFile, err)
				}
			}

			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "optional config file (yaml, toml or json)")
	flags.String("port", "8080", "port to listen on")
	flags.String("backend", config.BackendGCS, "storage backend: gcs, minio or s3")
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlag(config.KeyServerPort, flags.Lookup("port"))
	_ = v.BindPFlag(config.KeyStorageBackend, flags.Lookup("backend"))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := log.Configure(os.Stdout, cfg.LogFormat, cfg.LogLevel); err != nil {
		return fmt.Errorf("log config error: %w", err)
	}

	log.Info(ctx).
		Str("bucket", cfg.Bucket).
		Str("backend", cfg.StorageBackend).
		Str("index_object", cfg.IndexObject).
		Bool("mask_fetch_errors", cfg.MaskFetchErrors).
		Msg("starting server")

	store, err := services.NewBlobStore(ctx, cfg)
	if err != nil {
		log.Error(ctx).Err(err).Msg("failed to initialize storage")
		return err
	}
	log.Info(ctx).Str("backend", store.Backend()).Msg("storage initialized")

	handler := NewHTTPHandler(
		NewDefaultBlobService(store, NewDefaultContentDecoder()),
		NewDefaultResponseFormatter(),
		NewDefaultObjectPathExtractor(cfg.IndexObject),
		cfg.MaskFetchErrors,
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runServer(ctx, cfg, NewRouter(*log.Logger(), handler))
}
