package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/davebream/rpcstub/internal/config"
	"github.com/davebream/rpcstub/internal/logging"
	"github.com/davebream/rpcstub/internal/stub"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	host        string
	port        int
	logLevel    string
	metricsAddr string
	maxBody     int64
)

var rootCmd = &cobra.Command{
	Use:   "rpcstub",
	Short: "Mock blockchain JSON-RPC server",
	Long: `rpcstub answers JSON-RPC 2.0 calls over HTTP POST with fixed canned
results, for integration tests that need a node endpoint.

With no arguments it listens on 0.0.0.0:8545 until interrupted.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		logger, err := logging.New(os.Stderr, cfg.LogLevel)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return stub.New(cfg, logger, cmd.OutOrStdout()).Run(ctx)
	},
}

// resolveConfig applies, in order: defaults, the --config file, then any
// flags set explicitly on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = host
	}
	if flags.Changed("port") {
		cfg.Port = port
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = metricsAddr
	}
	if flags.Changed("max-body-bytes") {
		cfg.MaxBodyBytes = maxBody
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	flags.StringVar(&host, "host", config.DefaultHost, "Interface to listen on")
	flags.IntVar(&port, "port", config.DefaultPort, "Port to listen on")
	flags.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (disabled when empty)")
	flags.Int64Var(&maxBody, "max-body-bytes", 0, "Read at most this many body bytes (0 reads the full Content-Length)")
}
