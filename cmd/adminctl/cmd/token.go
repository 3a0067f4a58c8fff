package cmd

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/lumenlabs/studyportal/internal/config"
)

// TokenCmd mints a development bearer token. Production tokens come
// from the identity provider; this exists so local API calls and test
// environments do not need one.
func TokenCmd() *cobra.Command {
	var (
		email  string
		admin  bool
		expiry time.Duration
	)

	tokenCmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a development bearer token for a principal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			claims := jwt.MapClaims{
				"sub":   args[0],
				"email": email,
				"admin": admin,
				"iat":   time.Now().Unix(),
				"exp":   time.Now().Add(expiry).Unix(),
			}
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
			signed, err := token.SignedString([]byte(cfg.JWTSecret))
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			fmt.Println(signed)
			return nil
		},
	}

	tokenCmd.Flags().StringVar(&email, "email", "", "email claim for the token")
	tokenCmd.Flags().BoolVar(&admin, "admin", false, "mint an administrator token")
	tokenCmd.Flags().DurationVar(&expiry, "expiry", 24*time.Hour, "token lifetime")

	return tokenCmd
}
