package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang-pingcompare/internal/adapter/comparator"
	"golang-pingcompare/internal/adapter/infrastructure/file"
	"golang-pingcompare/internal/adapter/infrastructure/icmp"
	"golang-pingcompare/internal/adapter/infrastructure/network"
	"golang-pingcompare/internal/adapter/infrastructure/ping"
	"golang-pingcompare/internal/adapter/probe"
	"golang-pingcompare/internal/adapter/scanner"
	"golang-pingcompare/internal/pkg/config"
	"golang-pingcompare/internal/pkg/logging"
	"golang-pingcompare/internal/pkg/report"
	"golang-pingcompare/internal/port"
	"golang-pingcompare/internal/types"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type compareFlags struct {
	config      string
	exclude     []string
	method      string
	privileged  bool
	routeCheck  bool
	timeout     time.Duration
	attempts    int
	concurrency int
	scanTimeout time.Duration
	output      string
	format      string
	logLevel    string
	logFormat   string
}

var compareOpts compareFlags

// loadConfig reads the config file if one was given and overlays explicitly set flags and arguments.
func loadConfig(flags *pflag.FlagSet, opts compareFlags, args []string) (*config.Config, error) {
	cfg := config.Default()
	if opts.config != "" {
		loaded, err := config.Load(file.NewManagerAdapter(), opts.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Networks = args
	}
	if flags.Changed("exclude") {
		cfg.Exclude = opts.exclude
	}
	if flags.Changed("method") {
		cfg.Probe.Method = strings.ToLower(opts.method)
	}
	if flags.Changed("privileged") {
		cfg.Probe.Privileged = opts.privileged
	}
	if flags.Changed("route-check") {
		cfg.Probe.RouteCheck = opts.routeCheck
	}
	if flags.Changed("timeout") {
		cfg.Probe.Timeout = opts.timeout
	}
	if flags.Changed("attempts") {
		cfg.Probe.Attempts = opts.attempts
	}
	if flags.Changed("concurrency") {
		cfg.Scan.MaxConcurrency = opts.concurrency
	}
	if flags.Changed("scan-timeout") {
		cfg.Scan.Timeout = opts.scanTimeout
	}
	if flags.Changed("output") {
		cfg.Report.Path = opts.output
	}
	if flags.Changed("format") {
		cfg.Report.Format = strings.ToLower(opts.format)
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = opts.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createProber builds the configured prober, optionally behind the route pre-check.
func createProber(cfg config.ProbeConfig) port.Prober {
	logger := logging.GetLogger()

	var prober port.Prober
	switch strings.ToLower(cfg.Method) {
	case config.MethodPing:
		prober = ping.NewProberAdapter()
	default:
		prober = icmp.NewProberAdapter(cfg.Privileged)
	}
	logger.WithFields(map[string]interface{}{
		"method":     cfg.Method,
		"privileged": cfg.Privileged,
		"timeout":    cfg.Timeout.String(),
		"attempts":   cfg.Attempts,
	}).Debug("Created prober")

	if cfg.RouteCheck {
		prober = probe.NewRoutedProber(prober, network.NewManagerAdapter())
		logger.Debug("Route pre-check enabled")
	}
	return prober
}

// compareArgs accepts either no networks, taking them from the config file, or both.
func compareArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return fmt.Errorf("expected two networks, got %d", len(args))
	}
	return nil
}

// printResult writes the summary line for a finished run.
func printResult(w io.Writer, mismatches []types.Mismatch) {
	if len(mismatches) == 0 {
		fmt.Fprintln(w, "Complete, no address response mismatch detected")
		return
	}

	failed := make([]string, 0, len(mismatches))
	for _, m := range mismatches {
		failed = append(failed, m.FailedAddress().String())
	}
	fmt.Fprintf(w, "Address(es) failed to match ping responses: %s\n", strings.Join(failed, ", "))
}

var compareCmd = &cobra.Command{
	Use:   "compare [NETWORK_1 NETWORK_2]",
	Short: "Probe two networks and report host offsets whose reachability differs",
	Long: `Probe every host of two IPv4 networks and report the host offsets whose
reachability differs. Offsets are positions from the network address, so with
192.168.1.0/24 and 192.168.2.0/24 offset 17 joins 192.168.1.17 and 192.168.2.17.`,
	Args:         compareArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags(), compareOpts, args)
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}

		logging.InitLogger(cfg.Logging)
		logger := logging.GetLogger()

		// Create context for graceful shutdown
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		go func() {
			select {
			case sig := <-sigChan:
				logger.WithField("signal", sig.String()).Info("Received shutdown signal")
				cancel()
			case <-ctx.Done():
			}
		}()

		networkScanner := scanner.NewScanner(createProber(cfg.Probe), scanner.Options{
			MaxConcurrency: cfg.Scan.MaxConcurrency,
			ProbeTimeout:   cfg.Probe.Timeout,
			Attempts:       cfg.Probe.Attempts,
			ScanTimeout:    cfg.Scan.Timeout,
		})

		c, err := comparator.NewConfigured(networkScanner, cfg.Networks[0], cfg.Networks[1])
		if err != nil {
			return err
		}
		if err := c.Exclude(cfg.Exclude); err != nil {
			return err
		}

		for _, n := range cfg.Networks {
			fmt.Fprintf(cmd.OutOrStdout(), "Pinging network %s\n", n)
		}
		if err := c.Run(ctx); err != nil {
			return err
		}

		mismatches, err := c.Mismatches()
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), mismatches)

		if cfg.Report.Path != "" {
			r, err := report.Build(c, time.Now())
			if err != nil {
				return err
			}
			if err := report.NewWriter(file.NewManagerAdapter()).Write(r, cfg.Report.Path, cfg.Report.Format); err != nil {
				logging.WithError(err).WithField("path", cfg.Report.Path).Error("Report not written")
				return err
			}
			logger.WithField("path", cfg.Report.Path).Info("Report written")
		}
		return nil
	},
}

// bindCompareFlags registers the compare flags on f, storing values in opts.
func bindCompareFlags(f *pflag.FlagSet, opts *compareFlags) {
	f.StringVarP(&opts.config, "config", "f", "", "Path to config file (YAML)")
	f.StringSliceVarP(&opts.exclude, "exclude", "x", nil, "Host offsets to skip in both networks, e.g. 0,255")
	f.StringVar(&opts.method, "method", config.MethodICMP, "Probe method: icmp or ping")
	f.BoolVar(&opts.privileged, "privileged", false, "Use raw ICMP sockets (requires CAP_NET_RAW)")
	f.BoolVar(&opts.routeCheck, "route-check", false, "Fail probes without a usable route before sending them")
	f.DurationVar(&opts.timeout, "timeout", config.DefaultProbeTimeout, "Per-probe timeout")
	f.IntVar(&opts.attempts, "attempts", config.DefaultAttempts, "Probe passes for unreachable hosts")
	f.IntVar(&opts.concurrency, "concurrency", config.DefaultMaxConcurrency, "Maximum in-flight probes per network")
	f.DurationVar(&opts.scanTimeout, "scan-timeout", 0, "Deadline for a whole network scan (0 disables)")
	f.StringVarP(&opts.output, "output", "o", "", "Write a report to this path")
	f.StringVar(&opts.format, "format", config.FormatYAML, "Report format: yaml or json")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level")
	f.StringVar(&opts.logFormat, "log-format", "compact", "Log format: json, text, simple or compact")
}

func init() {
	bindCompareFlags(compareCmd.Flags(), &compareOpts)
	rootCmd.AddCommand(compareCmd)
}
