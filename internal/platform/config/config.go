package config

import (
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr string

	// AdminJWTSigningKey signs and verifies the admin API tokens.
	AdminJWTSigningKey string

	// AdminTokenTTL bounds admin token lifetime.
	AdminTokenTTL time.Duration

	// DeployerAddress owns the default operator whitelist seeded at boot.
	// 0x-hex; empty disables seeding.
	DeployerAddress string

	// DefaultWhitelistName is the display name of the seeded list.
	DefaultWhitelistName string

	// SQLiteDSN selects the persistent allowlist store. Empty keeps the
	// registry in memory.
	SQLiteDSN string

	// EthRPCURL points receiver code lookups at a live node. Empty keeps
	// chain state in memory, which only sees explicitly marked contracts.
	EthRPCURL string
}

// DefaultAdminTokenTTL applies when ADMIN_TOKEN_TTL is unset or malformed.
var DefaultAdminTokenTTL = 15 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("TOKENGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	signingKey := os.Getenv("ADMIN_JWT_SIGNING_KEY")
	if signingKey == "" {
		// Use a default for development - should be overridden in production
		signingKey = "dev-secret-key-change-in-production"
	}

	ttl := DefaultAdminTokenTTL
	if raw := os.Getenv("ADMIN_TOKEN_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			ttl = parsed
		}
	}

	name := os.Getenv("DEFAULT_WHITELIST_NAME")
	if name == "" {
		name = "default operator whitelist"
	}

	return Server{
		Addr:                 addr,
		AdminJWTSigningKey:   signingKey,
		AdminTokenTTL:        ttl,
		DeployerAddress:      os.Getenv("DEPLOYER_ADDRESS"),
		DefaultWhitelistName: name,
		SQLiteDSN:            os.Getenv("TOKENGATE_SQLITE_DSN"),
		EthRPCURL:            os.Getenv("TOKENGATE_ETH_RPC_URL"),
	}
}
