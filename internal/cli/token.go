package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seatplan/pkg/api"
	"github.com/matzehuels/seatplan/pkg/errors"
)

// tokenCommand mints a bearer token for the acting user, for local
// development against "seatplan serve".
func (c *CLI) tokenCommand() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an API bearer token for the acting user",
		Example: `  curl -H "Authorization: Bearer $(seatplan token -u alice)" localhost:8080/layouts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cfg.Server.JWTSecret == "" {
				return errors.Validation("server.jwt_secret is not set (SEATPLAN_SERVER_JWT_SECRET)")
			}
			user, err := c.user()
			if err != nil {
				return err
			}
			tok, err := api.NewAuthenticator(cfg.Server.JWTSecret, cfg.Server.JWTIssuer).Issue(user, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", api.DefaultTokenTTL, "token lifetime")

	return cmd
}
