package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/govm-net/contract/config"
	"github.com/govm-net/contract/log"
	"github.com/govm-net/contract/runtime"
	"github.com/govm-net/contract/store"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "contract-cli",
	Short: "Contract runtime command line tool",
	Long: `Contract runtime command line tool for computing selectors, inspecting,
deploying and calling WebAssembly contracts against a local state store.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file (YAML)")
	rootCmd.AddCommand(selectorCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(eventsCmd)
}

// session bundles what the state-changing commands need.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   store.Store
	runtime *runtime.Runtime
}

func open(ctx context.Context) (*session, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	logger, err := log.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(store.Kind(cfg.Store.Kind), cfg.StoreParams())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	rt, err := runtime.New(ctx, st,
		runtime.WithFamily(cfg.Family()),
		runtime.WithScratchCapacity(cfg.ScratchCapacity),
		runtime.WithMaxCallDepth(cfg.MaxCallDepth),
		runtime.WithMaxCodeSize(cfg.MaxCodeSize),
		runtime.WithLogger(logger))
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create runtime: %w", err)
	}
	logger.Debug("runtime ready",
		zap.String("family", cfg.HashFamily),
		zap.String("store", cfg.Store.Kind))
	return &session{cfg: cfg, logger: logger, store: st, runtime: rt}, nil
}

func (s *session) close(ctx context.Context) {
	if err := s.runtime.Close(ctx); err != nil {
		s.logger.Warn("failed to close runtime", zap.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("failed to close store", zap.Error(err))
	}
	_ = s.logger.Sync()
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
