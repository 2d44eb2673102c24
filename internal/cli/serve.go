package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/situationroom/pkg/dashboard"
	"github.com/matzehuels/situationroom/pkg/server"
	"github.com/matzehuels/situationroom/pkg/storage"
)

// serveCommand runs the JSON API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API over HTTP",
		Long: `Serve the dashboard API over HTTP until interrupted.

Every change made through the API is saved to the configured storage
backend. With --watch and the file backend, edits made to the state file
by other processes (for example another sitroom command) are picked up
without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withSession(cmd, func(s *session) error {
				addr := s.cfg.Server.Listen
				if cmd.Flags().Changed("listen") {
					addr = listen
				}
				if cmd.Flags().Changed("watch") {
					s.cfg.Server.Watch = watch
				}
				if s.cfg.Server.Watch {
					if err := c.watchState(ctx, s); err != nil {
						return err
					}
				}

				srv := server.New(c.registry, s.store, s.storage,
					server.WithLogger(s.logger),
					server.WithBaseURL(s.cfg.Share.BaseURL),
				)
				return srv.Run(ctx, addr)
			})
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default from config: 127.0.0.1:8080)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the state file when it changes on disk")
	return cmd
}

// watchState replaces the in-memory state whenever the state file changes.
// A deleted file resets to a single empty dashboard.
func (c *CLI) watchState(ctx context.Context, s *session) error {
	fs, ok := s.storage.(*storage.FileStore)
	if !ok {
		printWarning(c.status, "--watch needs the file backend, ignoring")
		return nil
	}
	s.logger.Info("watching state file", "path", fs.Path())
	return fs.Watch(ctx, func(st *dashboard.State) {
		if st == nil {
			initial := dashboard.Initial(time.Now())
			st = &initial
		}
		s.store.Replace(*st)
		s.logger.Info("reloaded state file", "dashboards", len(st.Dashboards))
	})
}
