package main

import (
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"pet-care-simulator/internal/ports/auth"
)

// newTokenCmd emite un JWT firmado con auth.jwt_secret para pruebas locales.
func newTokenCmd() *cobra.Command {
	var (
		userID string
		email  string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed JWT for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return oops.Code("CONFIG_INVALID").Errorf("auth.jwt_secret is required to issue tokens")
			}
			if ttl > 0 {
				cfg.Auth.JWTTTL = ttl
			}

			v, err := newJWT(cfg.Auth)
			if err != nil {
				return err
			}
			token, err := v.Sign(auth.Claims{UserID: userID, Email: email})
			if err != nil {
				return err
			}
			cmd.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (sub claim)")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default auth.jwt_ttl)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
