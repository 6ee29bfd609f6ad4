// Package cmd implements the npy subcommands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/born-ml/npy"
	"github.com/born-ml/npy/internal/config"
)

type appKey struct{}

// app is the per-invocation state shared by subcommands.
type app struct {
	config *config.Config
	codec  *npy.Codec
	logger *slog.Logger
}

func appFrom(cmd *cobra.Command) (*app, error) {
	a, ok := cmd.Context().Value(appKey{}).(*app)
	if !ok {
		return nil, fmt.Errorf("command not initialized")
	}
	return a, nil
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "npy",
		Short: "Inspect and create NumPy .npy files",
		Long: `npy reads and writes NumPy .npy array files.

Sources may be local paths or http(s) URLs.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("zero-copy", false, "Alias decoded data to the loaded buffer")
	rootCmd.PersistentFlags().Bool("raw-f16", false, "Keep float16 values as raw bit patterns")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Timeout for remote sources")

	rootCmd.AddCommand(newInfoCmd(), newCatCmd(), newCreateCmd(), newVersionCmd())
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration, applies flag overrides and installs the logger.
func setup(cmd *cobra.Command, _ []string) error {
	cfg := config.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("zero-copy") {
		cfg.ZeroCopy, _ = flags.GetBool("zero-copy")
	}
	if flags.Changed("raw-f16") {
		raw, _ := flags.GetBool("raw-f16")
		cfg.ConvertFloat16 = !raw
	}
	if flags.Changed("timeout") {
		cfg.HTTPTimeout, _ = flags.GetDuration("timeout")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	codec := npy.New(cfg.ReadOptions()).WithHTTPTimeout(cfg.HTTPTimeout)
	logger.Debug("configured",
		"convert_float16", cfg.ConvertFloat16,
		"zero_copy", cfg.ZeroCopy,
		"http_timeout", cfg.HTTPTimeout.String())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appKey{}, &app{config: cfg, codec: codec, logger: logger}))
	return nil
}

// fetch loads src and logs how long it took.
func (a *app) fetch(ctx context.Context, src string) ([]byte, error) {
	start := time.Now()
	buf, err := a.codec.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("fetched source", "src", src, "remote", npy.IsURL(src), "bytes", len(buf), "elapsed", time.Since(start))
	return buf, nil
}
