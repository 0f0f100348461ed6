// Package cmd implements the listdemo CLI commands.
//
// The root command resolves listdemo.yaml and the global flags into a
// session shared by the run and dump subcommands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/go-drift/listadapter/cmd/listdemo/internal/config"
	"github.com/go-drift/listadapter/cmd/listdemo/internal/feed"
	"github.com/go-drift/listadapter/cmd/listdemo/internal/logging"
	"github.com/go-drift/listadapter/pkg/adapter"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// session carries the resolved settings of one invocation.
type session struct {
	configPath  string
	logFile     string
	verbose     bool
	pageSize    int
	pages       int
	latency     time.Duration
	failureRate float64
	seed        uint64

	cfg     *config.Resolved
	log     *zap.Logger
	restore func()
}

func newRootCmd(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:   "listdemo",
		Short: "Browse a paged feed through the list adapter",
		Long: `listdemo loads a simulated paged feed into a list adapter.

The first page fills the list; scrolling near the end asks for the next
page, and a failed page can be retried from the last row. Settings come
from listdemo.yaml in the working directory, overridden by flags.`,
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.resolve(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&s.configPath, "config", "", "config file (default ./"+config.FileName+")")
	flags.StringVar(&s.logFile, "log-file", "", "write logs to this rotating file")
	flags.BoolVar(&s.verbose, "verbose", false, "log at debug level with stack traces")
	flags.IntVar(&s.pageSize, "page-size", config.DefaultPageSize, "entries per page after the first")
	flags.IntVar(&s.pages, "pages", config.DefaultPages, "pages after the first before the feed ends")
	flags.DurationVar(&s.latency, "latency", config.DefaultLatency, "simulated latency per page")
	flags.Float64Var(&s.failureRate, "failure-rate", 0, "probability that a page load fails")
	flags.Uint64Var(&s.seed, "seed", 0, "seed for injected failures")

	root.AddCommand(newRunCmd(s), newDumpCmd(s))
	return root
}

// Execute runs the CLI. An interrupt cancels page loads in flight.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	s := &session{}
	return execute(ctx, newRootCmd(s), s)
}

// execute runs root and closes the session whether or not a command failed.
func execute(ctx context.Context, root *cobra.Command, s *session) error {
	defer s.close()
	return root.ExecuteContext(ctx)
}

func (s *session) resolve(cmd *cobra.Command) error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Resolve(dir, s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("page-size") {
		cfg.PageSize = s.pageSize
	}
	if flags.Changed("pages") {
		cfg.Pages = s.pages
	}
	if flags.Changed("latency") {
		cfg.Latency = s.latency
	}
	if flags.Changed("failure-rate") {
		cfg.FailureRate = s.failureRate
	}
	if flags.Changed("seed") {
		cfg.Seed = s.seed
	}
	if flags.Changed("log-file") {
		cfg.Log.Filename = s.logFile
	}
	if s.verbose {
		cfg.Level = zapcore.DebugLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg

	// The interactive list owns the terminal, so it only logs to a file.
	var fallback io.Writer
	if cmd.Name() == "dump" {
		fallback = cmd.ErrOrStderr()
	}
	s.log = logging.New(cfg.Log, cfg.Level, fallback)
	s.restore = logging.Install(s.log, s.verbose)
	s.log.Debug("config resolved",
		zap.String("path", cfg.Path),
		zap.Int("pageSize", cfg.PageSize),
		zap.Int("pages", cfg.Pages),
		zap.Duration("latency", cfg.Latency),
		zap.Float64("failureRate", cfg.FailureRate),
	)
	return nil
}

func (s *session) close() {
	if s.log != nil {
		_ = s.log.Sync()
	}
	if s.restore != nil {
		s.restore()
		s.restore = nil
	}
}

func (s *session) feed() *feed.Feed {
	return feed.New(feed.Options{
		FirstPage:   s.cfg.FirstPage,
		PageSize:    s.cfg.PageSize,
		Pages:       s.cfg.Pages,
		GroupEvery:  s.cfg.GroupEvery,
		Latency:     s.cfg.Latency,
		FailureRate: s.cfg.FailureRate,
		Seed:        s.cfg.Seed,
	}, s.log)
}

// label renders feed items; groups read as section titles.
func label(it adapter.Item) string {
	switch it := it.(type) {
	case *feed.Group:
		return "# " + it.Title
	case *feed.Entry:
		return "  " + it.Title
	default:
		return fmt.Sprintf("%v", it)
	}
}
