// Package cli implements the hbond command-line interface: global flags,
// configuration and logger initialisation, output formatting and the
// subcommands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/hbond-engine/internal/application/analysis"
	"github.com/turtacn/hbond-engine/internal/config"
	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-engine/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Output formats.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputTable = "table"
)

type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	Timeout      time.Duration
}

// CLIContext carries initialised dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Service      analysis.Service
	OutputFormat string
	Timeout      time.Duration
}

// NewRootCommand creates the root command with its global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hbond",
		Short: "Hydrogen-bond detection for nucleic-acid and protein structures",
		Long: "hbond finds, classifies and scores hydrogen bonds between residues of a\n" +
			"PDB structure using named parameter presets.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./hbond.yaml if present)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", OutputText, "output format (text, json, table)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	pf.DurationVar(&opts.Timeout, "timeout", 5*time.Minute, "analysis timeout")

	cmd.AddCommand(NewDetectCmd(), NewPresetsCmd(), NewDBCmd(), NewCacheCmd(), newVersionCmd())
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch opts.OutputFormat {
	case OutputText, OutputJSON, OutputTable:
	default:
		return errors.InvalidParam(fmt.Sprintf("unknown output format %q", opts.OutputFormat))
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}
	logger, err := initLogger(opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	svc, err := analysis.NewService(analysis.Dependencies{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Service:      svc,
		OutputFormat: opts.OutputFormat,
		Timeout:      opts.Timeout,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads the explicit config file, else the first default path
// that exists, else defaults plus HBOND_* variables.
func initConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}
	searchPaths := []string{"./hbond.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".hbond", "config.yaml"))
	}
	for _, p := range searchPaths {
		if _, err := os.Stat(p); err == nil {
			return config.Load(p)
		}
	}
	return config.LoadFromEnv()
}

// initLogger creates a console logger on stderr so stdout stays parseable.
func initLogger(opts *RootOptions) (logging.Logger, error) {
	level := strings.ToLower(opts.LogLevel)
	if opts.Verbose {
		level = logging.LevelDebug
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// GetCLIContext extracts the CLIContext installed by the root command.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLI context not initialised")
	}
	return cliCtx, nil
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "hbond %s (commit: %s, built: %s)\n", Version, GitCommit, BuildDate)
			return nil
		},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Output
// ─────────────────────────────────────────────────────────────────────────────

type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

// PrintResult writes data in the requested format.  JSON encodes the value
// returned by a JSON() method when data has one.
func PrintResult(cmd *cobra.Command, format string, data interface{}) error {
	switch format {
	case OutputJSON:
		if j, ok := data.(interface{ JSON() interface{} }); ok {
			data = j.JSON()
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case OutputTable:
		if tp, ok := data.(tableProvider); ok {
			fmt.Fprint(cmd.OutOrStdout(), FormatTable(tp.TableHeaders(), tp.TableRows()))
			return nil
		}
	}
	switch v := data.(type) {
	case fmt.Stringer:
		fmt.Fprint(cmd.OutOrStdout(), v.String())
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", v)
	}
	return nil
}

// PrintError writes err to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

// FormatTable renders headers and rows as an aligned ASCII table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i := range headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			if i == len(headers)-1 {
				sb.WriteString(val)
			} else {
				sb.WriteString(padRight(val, widths[i]))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	writeRow(seps)
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

//Personal.AI order the ending
