package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/appengine-ltd/craftworks/internal/config"
	"github.com/appengine-ltd/craftworks/internal/content"
	"github.com/appengine-ltd/craftworks/internal/crafting"
	"github.com/appengine-ltd/craftworks/internal/observability"
	"github.com/appengine-ltd/craftworks/internal/workshop"
)

// version, commit, date are injected at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	flags := pflag.NewFlagSet("craftworks", pflag.ContinueOnError)
	var (
		showVersion bool
		configPath  string
		contentList []string
		archivePath string
		logLevel    string
		metricsAddr string
	)
	flags.BoolVar(&showVersion, "version", false, "print version and exit")
	flags.StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	flags.StringSliceVar(&contentList, "content", nil, "extra content files (yaml, json or jsonc)")
	flags.StringVarP(&archivePath, "archive", "a", "", "archive loaded at start and used by autosave")
	flags.StringVar(&logLevel, "log-level", "", "log level override")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if showVersion {
		fmt.Fprintf(out, "craftworks %s (%s) %s\n", version, commit, date)
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if len(contentList) > 0 {
		cfg.Content = append(cfg.Content, contentList...)
	}
	if archivePath != "" {
		cfg.Archive = archivePath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := observability.InitLogger("craftworks", cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	catalog, _, err := content.BuildCatalog(cfg.SkipBuiltin, cfg.Content, logger)
	if err != nil {
		return err
	}
	recorder := observability.NewEngineRecorder()
	fresh := func() *crafting.Registry {
		return crafting.NewRegistry(catalog,
			crafting.WithLogger(logger.With().Str("component", "engine").Logger()),
			crafting.WithRecorder(recorder),
		)
	}

	opts := []workshop.Option{workshop.WithLogger(logger)}
	if cfg.AutoSave {
		opts = append(opts, workshop.WithAutoSave(cfg.Archive))
	}
	ws := workshop.New(fresh, opts...)
	if cfg.Archive != "" {
		if _, statErr := os.Stat(cfg.Archive); statErr == nil {
			if err := ws.Load(cfg.Archive); err != nil {
				return fmt.Errorf("load archive: %w", err)
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := observability.ServeMetrics(ctx, cfg.MetricsAddr, logger); err != nil {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	// Positional arguments run as a single command.
	if rest := flags.Args(); len(rest) > 0 {
		res := ws.Execute(strings.Join(rest, " "))
		fmt.Fprintln(out, res.Message)
		return nil
	}
	return repl(ctx, ws, in, out, logger)
}

func repl(ctx context.Context, ws *workshop.Workshop, in io.Reader, out io.Writer, logger zerolog.Logger) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			logger.Error().Err(err).Msg("read input")
		}
	}()

	fmt.Fprintln(out, "craftworks ready. Type help for commands.")
	for {
		fmt.Fprint(out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			res := ws.Execute(line)
			if !res.Handled {
				continue
			}
			fmt.Fprintln(out, res.Message)
			if res.Quit {
				return nil
			}
		}
	}
}
