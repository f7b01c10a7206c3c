// Command cbridge-go drives every boundary component from the outside, the
// way a foreign caller would, and prints what it observed.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/heap"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/logging"
)

const defaultLogLevel = "warning"

func main() {
	var levelVar slog.LevelVar
	levelVar.Set(slog.LevelWarn)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &levelVar}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(logger, &levelVar)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("command interrupted", "error", err)
			os.Exit(130)
		}
		logger.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// globals holds the persistent flags after the config file was overlaid.
type globals struct {
	logLevel   string
	logFormat  string
	configPath string
	heap       string
	heapLimit  uint32
	debug      bool
	zeroize    bool

	slog     *slog.Logger
	levelVar *slog.LevelVar
	logger   logging.Logger
	sync     func()
}

func newRootCommand(logger *slog.Logger, levelVar *slog.LevelVar) *cobra.Command {
	g := &globals{slog: logger, levelVar: levelVar, sync: func() {}}

	root := &cobra.Command{
		Use:           "cbridge-go",
		Short:         "Exercise the cbridge foreign-function boundary",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&g.logLevel, "log-level", defaultLogLevel, "Set log verbosity (debug, info, warning, error)")
	flags.StringVar(&g.logFormat, "log-format", "text", "Log backend (text, json, zap)")
	flags.StringVar(&g.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&g.heap, "heap", "go", "Foreign heap (go, wasm, native)")
	flags.Uint32Var(&g.heapLimit, "heap-limit", 0, "Heap size limit in bytes (0 for the default)")
	flags.BoolVar(&g.debug, "debug", false, "Verify layouts and log component lifecycle")
	flags.BoolVar(&g.zeroize, "zeroize", true, "Wipe secret buffers after use")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return g.resolve(cmd)
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		g.sync()
	}

	root.AddCommand(
		newVersionCommand(),
		newHandleCommand(g),
		newStringCommand(g),
		newStructCommand(g),
		newResultCommand(g),
		newCallbackCommand(g),
		newSecpCommand(g),
		newLayoutCommand(g),
	)
	return root
}

// resolve overlays the config file with explicitly set flags and builds the
// logger.
func (g *globals) resolve(cmd *cobra.Command) error {
	if g.configPath != "" {
		fc, err := loadConfig(g.configPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if fc.Heap != "" && !flags.Changed("heap") {
			g.heap = fc.Heap
		}
		if fc.HeapLimit != nil && !flags.Changed("heap-limit") {
			g.heapLimit = *fc.HeapLimit
		}
		if fc.LogLevel != "" && !flags.Changed("log-level") {
			g.logLevel = fc.LogLevel
		}
		if fc.Debug != nil && !flags.Changed("debug") {
			g.debug = *fc.Debug
		}
		if fc.Zeroize != nil && !flags.Changed("zeroize") {
			g.zeroize = *fc.Zeroize
		}
	}

	level, err := parseLogLevel(g.logLevel)
	if err != nil {
		return err
	}
	if g.levelVar != nil {
		g.levelVar.Set(level)
	}

	switch strings.ToLower(g.logFormat) {
	case "", "text":
		g.logger = logging.New(g.slog)
	case "json":
		g.logger = logging.New(slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: g.levelVar})))
	case "zap":
		zl, err := newZap(level)
		if err != nil {
			return err
		}
		g.logger = logging.NewZap(zl)
		g.sync = func() { _ = zl.Sync() }
	default:
		return fmt.Errorf("unknown log format %q", g.logFormat)
	}
	return nil
}

func newZap(level slog.Level) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level <= slog.LevelDebug:
		return zapcore.DebugLevel
	case level <= slog.LevelInfo:
		return zapcore.InfoLevel
	case level <= slog.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

func (g *globals) config() (cbridge.Config, error) {
	kind, err := heap.ParseKind(strings.ToLower(strings.TrimSpace(g.heap)))
	if err != nil {
		return cbridge.Config{}, err
	}
	return cbridge.Config{
		Heap:      kind,
		HeapLimit: g.heapLimit,
		Debug:     g.debug,
		Zeroize:   g.zeroize,
		Logger:    g.logger,
	}, nil
}

// open builds a boundary for one command. The caller closes it.
func (g *globals) open(ctx context.Context) (*cbridge.Boundary, error) {
	cfg, err := g.config()
	if err != nil {
		return nil, err
	}
	b, err := cbridge.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open boundary with %s heap: %w", cfg.Heap, err)
	}
	return b, nil
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error", "err":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", value)
	}
}
