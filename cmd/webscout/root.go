package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/leofalp/webscout/core/result"
	"github.com/leofalp/webscout/internal/config"
	"github.com/leofalp/webscout/providers/status"
	"github.com/leofalp/webscout/providers/tool"
	"github.com/leofalp/webscout/providers/tool/webtools"
)

const version = "0.1.0"

// errToolFailed marks a tool run whose outcome was a failure. The outcome
// itself has already been printed.
var errToolFailed = errors.New("tool reported a failure")

type flags struct {
	envFile     string
	timeout     time.Duration
	readTimeout time.Duration
	delay       time.Duration
	userAgent   string
	maxChars    int
	searchURL   string
	pypiURL     string
	logLevel    string
	logFormat   string
	quiet       bool
	compact     bool
}

// app is the state shared by every subcommand, built once per invocation.
type app struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	flags   flags
	cfg     config.Config
	logger  *slog.Logger
	catalog *tool.Catalog
}

func newRootCmd(stdin io.Reader, stdout io.Writer, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:           "webscout",
		Short:         "Web search, page reading and documentation lookup tools",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.envFile, "env-file", "", "load settings from this .env file (default ./.env when present)")
	pf.DurationVar(&a.flags.timeout, "timeout", 0, "per-request timeout (env "+config.EnvTimeout+")")
	pf.DurationVar(&a.flags.readTimeout, "read-timeout", 0, "read_webpage timeout (env "+config.EnvReadTimeout+")")
	pf.DurationVar(&a.flags.delay, "delay", 0, "courtesy delay between requests, 0 disables (env "+config.EnvDelay+")")
	pf.StringVar(&a.flags.userAgent, "user-agent", "", "User-Agent header (env "+config.EnvUserAgent+")")
	pf.IntVar(&a.flags.maxChars, "max-chars", 0, "page text budget in characters (env "+config.EnvMaxChars+")")
	pf.StringVar(&a.flags.searchURL, "search-url", "", "DuckDuckGo HTML endpoint (env "+config.EnvSearchURL+")")
	pf.StringVar(&a.flags.pypiURL, "pypi-url", "", "PyPI JSON API root (env "+config.EnvPyPIURL+")")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR (env "+config.EnvLogLevel+")")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "console or json (env "+config.EnvLogFormat+")")
	pf.BoolVarP(&a.flags.quiet, "quiet", "q", false, "do not print status lines")
	pf.BoolVar(&a.flags.compact, "compact", false, "print JSON on one line")

	cmd.AddCommand(
		newSearchCmd(a),
		newReadCmd(a),
		newDocsCmd(a),
		newStackOverflowCmd(a),
		newPyPICmd(a),
		newToolsCmd(a),
		newCallCmd(a),
		newServeCmd(a),
	)
	return cmd
}

// setup loads configuration (defaults, .env, environment, then flags),
// installs the logger and builds the tool catalog.
func (a *app) setup(cmd *cobra.Command) error {
	var envFiles []string
	if a.flags.envFile != "" {
		envFiles = append(envFiles, a.flags.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	pf := cmd.Flags()
	if pf.Changed("timeout") {
		cfg.Timeout = a.flags.timeout
	}
	if pf.Changed("read-timeout") {
		cfg.ReadTimeout = a.flags.readTimeout
	}
	if pf.Changed("delay") {
		cfg.Delay = a.flags.delay
	}
	if pf.Changed("user-agent") {
		cfg.UserAgent = a.flags.userAgent
	}
	if pf.Changed("max-chars") {
		cfg.MaxChars = a.flags.maxChars
	}
	if pf.Changed("search-url") {
		cfg.SearchURL = a.flags.searchURL
	}
	if pf.Changed("pypi-url") {
		cfg.PyPIURL = a.flags.pypiURL
	}
	if pf.Changed("log-level") {
		level, err := config.ParseLogLevel(a.flags.logLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	}
	if pf.Changed("log-format") {
		cfg.LogFormat = a.flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	a.cfg = cfg
	a.logger = newLogger(a.stderr, cfg)
	slog.SetDefault(a.logger)
	a.catalog = webtools.New(cfg, a.logger).Catalog()

	a.logger.Debug("Configuration loaded",
		slog.Duration("timeout", cfg.Timeout),
		slog.Duration("delay", cfg.Delay),
		slog.String("log_level", config.LogLevelString(cfg.LogLevel)),
	)
	return nil
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	if cfg.LogFormat == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      cfg.LogLevel,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(w),
	}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// reporter returns the status sink for shell runs: styled lines on stderr
// unless --quiet, always mirrored into debug logs.
func (a *app) reporter() status.Reporter {
	logs := status.NewSlogReporter(a.logger)
	if a.flags.quiet {
		return logs
	}
	return status.Multi(status.NewConsoleReporter(a.stderr), logs)
}

// run calls the named tool with args (marshalled to JSON unless already a
// string) and prints its output.
func (a *app) run(cmd *cobra.Command, name string, args any) error {
	input, ok := args.(string)
	if !ok {
		raw, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("encoding arguments: %w", err)
		}
		input = string(raw)
	}

	ctx := status.ContextWithReporter(cmd.Context(), a.reporter())
	out, err := a.catalog.Call(ctx, name, input)
	if err != nil {
		return err
	}
	if err := a.print(out); err != nil {
		return err
	}

	var outcome result.Outcome
	if err := json.Unmarshal([]byte(out), &outcome); err == nil && outcome.Status == result.StatusFailure {
		return errToolFailed
	}
	return nil
}

func (a *app) print(raw string) error {
	if a.flags.compact {
		_, err := fmt.Fprintln(a.stdout, raw)
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(a.stdout)
	return err
}
