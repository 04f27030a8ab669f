package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/seatplan/pkg/api"
	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/planner"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API on the configured store.

Requests authenticate with HS256 bearer tokens whose subject is the user id.
The signing secret comes from server.jwt_secret (SEATPLAN_SERVER_JWT_SECRET);
mint development tokens with "seatplan token".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cfg.Server.JWTSecret == "" {
				return errors.Validation("server.jwt_secret is not set (SEATPLAN_SERVER_JWT_SECRET)")
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			logger := loggerFromContext(cmd.Context())

			return c.withPlanner(cmd.Context(), func(svc *planner.Service) error {
				auth := api.NewAuthenticator(cfg.Server.JWTSecret, cfg.Server.JWTIssuer)
				srv := api.New(svc, auth, api.WithLogger(logger))
				logger.Info("store ready", "backend", cfg.Store.Backend, "cache", cfg.Cache.Mode)
				return srv.ListenAndServe(cmd.Context(), addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr)")

	return cmd
}
