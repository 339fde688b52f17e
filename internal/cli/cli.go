// Package cli implements the vegadoc command-line interface.
//
// This package provides commands for building a documentation project
// (executing embedded chart snippets and writing per-format output
// trees) and for serving the built site locally. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - build: Convert the project's Markdown pages into the requested
//     output formats, executing chart snippets along the way
//   - serve: Serve the build output directory over HTTP for preview
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vegadoc/vegadoc/pkg/buildinfo"
	"github.com/vegadoc/vegadoc/pkg/project"
)

// appName is the application name used for display.
const appName = "vegadoc"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Vegadoc builds documentation with live Vega-Lite charts",
		Long:         `Vegadoc is a documentation builder that executes chart snippets embedded in Markdown pages and turns them into interactive Vega-Lite plots in the generated site.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadProject loads the project configuration rooted at dir. A missing
// vegadoc.toml yields the defaults rooted at dir.
func loadProject(dir string) (project.Project, error) {
	return project.Load(filepath.Join(dir, project.Filename))
}
