// ABOUTME: Issues bearer tokens for the HTTP API
// ABOUTME: Tokens are signed with the configured JWT secret
package cli

import (
	"flag"
	"fmt"
	"time"

	"github.com/harperreed/solocrm/auth"
	"github.com/harperreed/solocrm/models"
)

// TokenCommand prints a signed token for user.
func TokenCommand(secret string, user models.User, args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	ttl := fs.Duration("ttl", 24*time.Hour, "Token lifetime")
	email := fs.String("email", user.Email, "Email to embed in the token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	authenticator, err := auth.New(secret, *ttl)
	if err != nil {
		return err
	}

	user.Email = *email
	token, err := authenticator.Issue(user)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	_, _ = fmt.Fprintln(stdout, token)
	return nil
}
