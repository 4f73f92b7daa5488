package main

import (
	"fmt"
	"os"

	"github.com/fagongzi/buddy"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose  bool
	sizeHint uint64
	layout   bool
)

var rootCmd = &cobra.Command{
	Use:   "buddyctl",
	Short: "Exercise and inspect a buddy allocator pool",
	Long: `buddyctl creates a buddy allocator pool, runs an allocation trace or a
random workload against it, and reports statistics, failures and the final
block layout. Every run ends with a structural validation of the pool.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Uint64Var(&sizeHint, "size", 1<<20, "Pool size hint in bytes, rounded up to a power of two")
	rootCmd.PersistentFlags().BoolVar(&layout, "layout", false, "Print the block layout after the run")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// withPool runs fn against a fresh pool and destroys it afterwards.
func withPool(fn func(p *buddy.Pool) error) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	p, err := buddy.New(sizeHint, buddy.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Destroy(); err != nil {
			logger.Error("failed to destroy pool", zap.Error(err))
		}
	}()
	return fn(p)
}
