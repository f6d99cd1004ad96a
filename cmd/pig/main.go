// Command pig resolves OpenAPI documents and renders code-generation
// templates against the resolved context tree.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oinktools/pig"
	"github.com/oinktools/pig/config"
	"github.com/oinktools/pig/internal/cliutil"
	"github.com/oinktools/pig/internal/mcpserver"
	"github.com/oinktools/pig/render"
	"github.com/oinktools/pig/resolver"
	"github.com/oinktools/pig/watch"
)

var (
	rootCmd = &cobra.Command{
		Use:   "pig [config]",
		Short: "pig - template-driven code generation from OpenAPI documents",
		Long: `pig resolves every $ref in an OpenAPI document into a single context
tree and renders the templates of each pig.yaml entry against it.

Without arguments pig looks for pig.yaml in the current directory and
its parents. Pass a config path to use a specific file instead.`,
		Example: `  pig                     render every entry of the nearest pig.yaml
  pig ./api/pig.yaml      render a specific config
  pig --watch             keep running and re-render on changes
  pig mcp                 serve the resolver over MCP stdio`,
		Version:      pig.Version(),
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         runRoot,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print detailed build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cliutil.Writef(cmd.OutOrStdout(), "%s\n", pig.BuildInfo())
		},
	}

	mcpCmd = &cobra.Command{
		Use:   "mcp",
		Short: "Start a Model Context Protocol server on stdio",
		Long: `Start a Model Context Protocol server on stdio exposing the entries,
resolve, and render tools to MCP clients such as coding agents.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()
			return mcpserver.Run(ctx)
		},
	}
)

func init() {
	// Registering the version flag ourselves gives it the -V shorthand;
	// cobra still handles printing.
	rootCmd.Flags().BoolP("version", "V", false, "version for pig")
	rootCmd.Flags().BoolP("watch", "w", false, "keep running and re-render when inputs change")
	rootCmd.Flags().Bool("parallel", true, "render config entries concurrently")
	rootCmd.Flags().String("log-level", "info", "log verbosity: debug, info, warn, or error")
	rootCmd.Flags().Bool("no-color", false, "disable colored output")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	opts, err := config.OptionsFromEnv()
	if err != nil {
		return err
	}
	applyFlags(cmd, &opts)
	if len(args) == 1 {
		opts.Config = args[0]
	}

	if opts.NoColor {
		color.NoColor = true
	}

	level, err := parseLogLevel(opts.LogLevel)
	if err != nil {
		return err
	}
	logger := resolver.NewSlogAdapter(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfgPath := opts.Config
	if cfgPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		cfgPath, err = config.Discover(cwd)
		if err != nil {
			return err
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	driver := render.NewDriver()
	driver.Logger = logger
	driver.Parallel = opts.Parallel

	ctx, stop := signalContext()
	defer stop()

	if opts.Watch {
		w := watch.New(cfg, driver)
		w.Logger = logger
		if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	outcome := driver.Run(ctx, cfg)
	printOutcome(cmd.OutOrStdout(), cfg, outcome)
	if failed := outcome.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d entries failed", failed, len(outcome))
	}
	return nil
}

// applyFlags copies explicitly set flags into opts, so flags win over
// PIG_* environment variables.
func applyFlags(cmd *cobra.Command, opts *config.Options) {
	flags := cmd.Flags()
	if flags.Changed("watch") {
		opts.Watch, _ = flags.GetBool("watch")
	}
	if flags.Changed("parallel") {
		opts.Parallel, _ = flags.GetBool("parallel")
	}
	if flags.Changed("log-level") {
		opts.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("no-color") {
		opts.NoColor, _ = flags.GetBool("no-color")
	}
}

func printOutcome(w io.Writer, cfg *config.Config, outcome render.Outcome) {
	base := cfg.Dir()
	for _, res := range outcome {
		api := relTo(base, res.Entry.API)
		if res.Err != nil {
			cliutil.Writef(w, "%s %s: %v\n", cliutil.FailureMark(), api, res.Err)
			continue
		}
		cliutil.Writef(w, "%s %s: %d files -> %s (%s)\n",
			cliutil.SuccessMark(), api, len(res.Rendered),
			relTo(base, res.Entry.Out), res.Duration.Round(time.Millisecond))
	}
}

// relTo shortens path for display. Paths outside base stay absolute.
func relTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q: use debug, info, warn, or error", s)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
