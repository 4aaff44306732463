// Package main provides a CLI tool for minting admin tokens for the
// tokengate API. These tokens use the dev signing key by default and will NOT
// work against a production deployment with its own key.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	admin "tokengate/pkg/platform/middleware/admin"
)

const (
	// Dev signing key - matches config.go when ADMIN_JWT_SIGNING_KEY is not set
	devSigningKey = "dev-secret-key-change-in-production"

	defaultTokenTTL = 15 * time.Minute
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Subject   string            `json:"subject"`
	ExpiresIn string            `json:"expires_in"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	subject := flag.String("subject", "local-admin", "Admin actor identifier recorded in the audit trail")
	key := flag.String("key", "", "Signing key (defaults to the dev key)")
	ttl := flag.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	asJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	signingKey := *key
	if signingKey == "" {
		signingKey = devSigningKey
	}

	tok, err := admin.IssueToken(signingKey, *subject, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to mint token:", err)
		os.Exit(1)
	}

	if *asJSON {
		out := tokenOutput{
			Token:     tok,
			Subject:   *subject,
			ExpiresIn: ttl.String(),
			Usage: map[string]string{
				"header": "Authorization: Bearer " + tok,
			},
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}
	fmt.Println(tok)
}
