// Package cli implements the deplint command-line interface.
package cli

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deplint/pkg/buildinfo"
	"github.com/matzehuels/deplint/pkg/deps"
	"github.com/matzehuels/deplint/pkg/httputil"
	"github.com/matzehuels/deplint/pkg/integrations"
	"github.com/matzehuels/deplint/pkg/integrations/npm"
)

const (
	// appName is the application name used for display.
	appName = "deplint"

	// envRegistry overrides the default registry base URL.
	envRegistry = "DEPLINT_REGISTRY"

	// envFile is loaded from the working directory before every command.
	envFile = ".env"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Interactive enables the progress spinner. Set it when stderr is a
	// terminal.
	Interactive bool

	registry string
	retries  int
	timeout  time.Duration
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "deplint resolves npm dependency graphs and lints them",
		Long:          `deplint resolves a package and its dependencies against an npm registry, then prints the dependency tree or checks every package against configurable lint rules.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnv(envFile)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.registry, "registry", "", "registry base URL (default $"+envRegistry+" or "+npm.DefaultRegistry+")")
	pf.IntVar(&c.retries, "retries", httputil.DefaultRetries, "retries per registry request after a transient failure")
	pf.DurationVar(&c.timeout, "timeout", integrations.DefaultTimeout, "timeout per registry request")

	root.AddCommand(c.treeCommand())
	root.AddCommand(c.lintCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Registry
// =============================================================================

// registryURL picks the registry: --registry, then $DEPLINT_REGISTRY, then
// fromFile (a config file setting), then the public registry.
func (c *CLI) registryURL(fromFile string) string {
	switch {
	case c.registry != "":
		return c.registry
	case os.Getenv(envRegistry) != "":
		return os.Getenv(envRegistry)
	case fromFile != "":
		return fromFile
	default:
		return npm.DefaultRegistry
	}
}

// newFetcher returns a registry client configured from the global flags.
func (c *CLI) newFetcher(registry string) deps.Fetcher {
	return npm.NewClient(httputil.NewHTTPTransport(c.timeout, nil), registry, max(c.retries, 0)+1)
}

// loadEnv loads path into the environment. A missing file is not an error;
// variables already set are kept.
func loadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
