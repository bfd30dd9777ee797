// Command fbctest checks genome-scale metabolic models and builds, compares
// and archives their reproducibility reports.
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
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/fbctest/config"
	"github.com/katalvlaran/fbctest/fba"
	"github.com/katalvlaran/fbctest/logging"
	"github.com/katalvlaran/fbctest/lp"
	"github.com/katalvlaran/fbctest/metrics"
	"github.com/katalvlaran/fbctest/screen"
)

// errFailed marks a command whose check ran but did not pass; main maps it
// to exit status 1 without printing it again.
var errFailed = errors.New("check failed")

// app is the state shared by every command of one invocation.
type app struct {
	// flags
	configPath  string
	verbose     bool
	workers     int
	metricsAddr string

	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Collector
	server  *http.Server
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "fbctest",
		Short:         "Quality checks and reproducibility reports for metabolic models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "fbctest.yaml", "Configuration file (missing file means defaults)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().IntVarP(&a.workers, "workers", "w", 0, "Screening workers (overrides configuration)")
	root.PersistentFlags().StringVar(&a.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")

	root.AddCommand(a.checkCmd(), a.frogCmd(), a.archiveCmd())

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Screening.Workers = a.workers
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	a.logger, err = logging.New(cfg.Logging, a.verbose)
	if err != nil {
		return err
	}
	a.metrics = metrics.NewCollector("fbctest")

	if a.metricsAddr != "" {
		ln, err := net.Listen("tcp", a.metricsAddr)
		if err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", a.metrics.Handler())
		a.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		a.logger.Info("serving metrics", zap.String("addr", ln.Addr().String()))
	}

	return nil
}

// teardown runs after the command whether or not it succeeded.
func (a *app) teardown() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_ = a.server.Shutdown(ctx)
		cancel()
	}
	if a.logger != nil {
		a.logger.Debug("done", zap.Float64("solves", a.metrics.Total("solves_total")))
		_ = a.logger.Sync()
	}
}

// engine wires solver, optimizer and screening pool from the configuration.
func (a *app) engine() (*fba.Optimizer, *screen.Engine, error) {
	solver, err := lp.NewSimplex()
	if err != nil {
		return nil, nil, err
	}
	opt, err := fba.New(solver,
		fba.WithTimeout(a.cfg.Screening.Timeout),
		fba.WithLogger(a.logger),
		fba.WithMetrics(a.metrics),
	)
	if err != nil {
		return nil, nil, err
	}
	eng, err := screen.NewEngine(opt,
		screen.WithWorkers(a.cfg.Screening.Workers),
		screen.WithLogger(a.logger),
	)
	if err != nil {
		return nil, nil, err
	}

	return opt, eng, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{}
	defer a.teardown()
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, cancel := signalContext(context.Background())
	defer cancel()
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}

	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
