package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vegadoc/vegadoc/pkg/build"
	"github.com/vegadoc/vegadoc/pkg/errors"
	"github.com/vegadoc/vegadoc/pkg/render"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	formats string // comma-separated format override (e.g. "html,text")
}

// buildCommand creates the build command for converting a project.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build [dir]",
		Short: "Build the documentation project",
		Long: `Build converts every Markdown page under the project's source
directory into the configured output formats. Chart snippets are
executed during the build; the first failing snippet aborts it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			p, err := loadProject(dir)
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}
			if opts.formats != "" {
				p.Build.Formats = splitFormats(opts.formats)
				for _, f := range p.Build.Formats {
					if err := render.ValidateFormat(f); err != nil {
						printError("%s", errors.UserMessage(err))
						return err
					}
				}
			}

			prog := newProgress(c.Logger)
			runner := build.NewRunner(c.Logger)
			result, err := runner.Run(cmd.Context(), p)
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}
			prog.done("Build finished")

			printBuildSummary(p, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "formats", "f", "", "comma-separated output formats (overrides vegadoc.toml)")

	return cmd
}

// splitFormats parses a comma-separated format string into a slice.
func splitFormats(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
