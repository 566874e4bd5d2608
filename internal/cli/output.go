package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/cozy-creator/hubuser/internal/config"
	"github.com/cozy-creator/hubuser/internal/services"
)

const redacted = "xxxxx"

// kvPassword matches a password setting of a keyword/value DSN, quoted or not.
var kvPassword = regexp.MustCompile(`(?i)(\bpassword\s*=\s*)('(?:[^'\\]|\\.)*'|\S+)`)

// redactDSN hides the password of a connection URL or keyword/value DSN.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err == nil && u.Scheme != "" && u.Host != "" {
		if q := u.Query(); q.Has("password") {
			q.Set("password", redacted)
			u.RawQuery = q.Encode()
		}
		return u.Redacted()
	}
	dsn = kvPassword.ReplaceAllString(dsn, "${1}"+redacted)
	if i := strings.LastIndex(dsn, "@"); i >= 0 {
		return dsn[i+1:]
	}
	return dsn
}

func printHeader(w io.Writer, cfg *config.Config, req services.Request) {
	switch cfg.Mode {
	case config.ModeDirect:
		fmt.Fprintln(w, "Creating user in database...")
		fmt.Fprintf(w, "  Database: %s\n", redactDSN(cfg.DatabaseDSN))
		fmt.Fprintf(w, "  Email: %s\n", req.Identifier.Value)
	default:
		fmt.Fprintln(w, "Creating user...")
		fmt.Fprintf(w, "  Hub URL: %s\n", cfg.HubURL)
		fmt.Fprintf(w, "  Identifier: %s\n", req.Identifier.Value)
	}
	fmt.Fprintf(w, "  Username: %s\n", req.Username)
	fmt.Fprintln(w)
}

func printResult(w io.Writer, res *services.Result) error {
	switch res.Mode {
	case services.ModeDirect:
		u := res.User
		fmt.Fprintln(w, "User created successfully!")
		fmt.Fprintf(w, "  User ID: %s\n", u.ID)
		fmt.Fprintf(w, "  Email: %s\n", u.Email)
		fmt.Fprintf(w, "  Username: %s\n", u.Username)
		fmt.Fprintf(w, "  Email Verified: %t\n", u.EmailVerified)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "You can now login with:")
		fmt.Fprintf(w, "  cozyctl login --email %s --password <password>\n", u.Email)
	default:
		fmt.Fprintln(w, "Registration successful!")
		body, err := json.MarshalIndent(res.Response.Body, "", "  ")
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		fmt.Fprintln(w, string(body))
		if res.Response.Message != "" {
			fmt.Fprintf(w, "\nNote: %s\n", res.Response.Message)
		}
	}
	return nil
}
