package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/vocaloid-birthday/internal/collect"
	"github.com/handiism/vocaloid-birthday/internal/config"
	ioutils "github.com/handiism/vocaloid-birthday/internal/io"
	"github.com/handiism/vocaloid-birthday/internal/model"
	"github.com/handiism/vocaloid-birthday/internal/nicovideo"
)

var version = "dev"

var errInterrupted = errors.New("interrupted")

type options struct {
	configPath string
	outputDir  string
	verbose    bool

	// signals delivers interrupts; nil means the process signals.
	signals <-chan os.Signal
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&options{})
}

func newRootCmdWith(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "birthday-collect",
		Short: "Collect VOCALOID songs by upload day into a JSON snapshot",
		Long: `Searches the niconico snapshot API once for every calendar day, finding
VOCALOID songs uploaded on that month and day in any year since 2007, and
writes the results to data/vocaloid_birthday_songs.json.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to a YAML or JSON config file")
	cmd.Flags().StringVar(&opts.outputDir, "output", "", "Output directory (overrides config)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show per-day output and debug logs")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("birthday-collect version %s\n", version)
		},
	})

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	out := cmd.OutOrStdout()

	settings := config.DefaultSettings()
	if opts.configPath != "" {
		var err error
		settings, err = config.Load(opts.configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	if opts.outputDir != "" {
		settings.OutputDir = opts.outputDir
	}

	logger := opts.logger
	if logger == nil {
		var err error
		logger, err = newLogger(opts.verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
	}
	logger = logger.With(zap.String("run", uuid.NewString()))

	signals := opts.signals
	if signals == nil {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		signals = sigCh
	}

	client := nicovideo.NewClient(settings, logger)
	collector := collect.NewCollector(settings, client, logger, newPrinter(out, opts.verbose).print)

	var mapping model.ResultMapping
	done := make(chan struct{})

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		defer close(done)
		var err error
		mapping, err = collector.Run(ctx)
		return err
	})
	g.Go(func() error {
		select {
		case <-signals:
			return errInterrupted
		case <-done:
			return nil
		}
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, errInterrupted) || errors.Is(err, context.Canceled) {
			fmt.Fprintln(out, "\n⚠️  Interrupted by user. Nothing was saved.")
			return nil
		}
		return err
	}

	path, err := ioutils.SaveSnapshot(cmd.Context(), settings.OutputDir, settings.FileName, mapping, time.Now(), settings.Description)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "💾 Saved: %s\n", path)
	fmt.Fprintln(out, "\n✅ All tasks completed successfully!")
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

// printer writes collector progress events as prefixed lines.
type printer struct {
	w       io.Writer
	verbose bool
}

func newPrinter(w io.Writer, verbose bool) *printer {
	return &printer{w: w, verbose: verbose}
}

func (p *printer) print(event collect.ProgressEvent) {
	if event.Level == collect.LevelVerbose && !p.verbose {
		return
	}

	var prefix string
	var style lipgloss.Style
	switch event.Level {
	case collect.LevelError:
		prefix, style = "❌ ", errorStyle
	case collect.LevelWarning:
		prefix, style = "⚠️  ", warningStyle
	case collect.LevelSuccess:
		prefix, style = "✅ ", successStyle
	case collect.LevelInfo:
		prefix, style = "📅 ", infoStyle
	default:
		prefix, style = "   ", dimStyle
	}

	fmt.Fprintln(p.w, style.Render(prefix+event.Message))
}
