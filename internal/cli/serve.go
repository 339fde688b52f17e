package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/vegadoc/vegadoc/internal/preview"
	"github.com/vegadoc/vegadoc/pkg/build"
	vderrors "github.com/vegadoc/vegadoc/pkg/errors"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string // listen address
	noBuild bool   // serve the existing output without rebuilding
}

// serveCommand creates the serve command for previewing a built site.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: "localhost:8080"}

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serve the built site locally",
		Long: `Serve runs a local HTTP server over the project's output
directory. By default the project is built first; pass --no-build to
serve whatever output already exists.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			p, err := loadProject(dir)
			if err != nil {
				printError("%s", vderrors.UserMessage(err))
				return err
			}

			if !opts.noBuild {
				runner := build.NewRunner(c.Logger)
				result, err := runner.Run(cmd.Context(), p)
				if err != nil {
					printError("%s", vderrors.UserMessage(err))
					return err
				}
				printBuildSummary(p, result)
			}

			server, err := preview.NewServer(p.OutputDir(), c.Logger)
			if err != nil {
				printError("%s", vderrors.UserMessage(err))
				return err
			}

			printInfo("Serving %s", StyleLink.Render("http://"+opts.addr))
			return listenUntilCanceled(cmd.Context(), opts.addr, server)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", opts.addr, "listen address")
	cmd.Flags().BoolVar(&opts.noBuild, "no-build", false, "skip the build and serve existing output")

	return cmd
}

// listenUntilCanceled serves handler on addr until ctx is canceled,
// then shuts the server down gracefully.
func listenUntilCanceled(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
