// Package seeder provisions the registry state a fresh deployment expects:
// the deployer-owned default operator whitelist, plus any initially trusted
// operators.
package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"tokengate/internal/allowlist/models"
	"tokengate/pkg/domain"
)

// Registry is the allowlist surface the seeder drives.
type Registry interface {
	Create(ctx context.Context, kind models.Kind, caller domain.Address, name string) (*models.Allowlist, error)
	Add(ctx context.Context, kind models.Kind, id domain.AllowlistID, caller, account domain.Address) error
	Exists(ctx context.Context, kind models.Kind, id domain.AllowlistID) (bool, error)
}

// Seeder creates the default operator whitelist on first boot.
type Seeder struct {
	registry Registry
	logger   *slog.Logger
}

func New(registry Registry, logger *slog.Logger) *Seeder {
	return &Seeder{registry: registry, logger: logger}
}

// SeedDefaultWhitelist creates the deployer-owned operator whitelist (id 1)
// with the given members, once. User-created operator lists then start at
// id 2, and collections can adopt id 1 as a sane default. A registry that
// already issued an operator list (a persistent store surviving a restart)
// is left untouched.
func (s *Seeder) SeedDefaultWhitelist(ctx context.Context, deployer domain.Address, name string, members []domain.Address) (domain.AllowlistID, error) {
	exists, err := s.registry.Exists(ctx, models.KindOperators, 1)
	if err != nil {
		return 0, fmt.Errorf("probe default whitelist: %w", err)
	}
	if exists {
		s.logger.InfoContext(ctx, "default operator whitelist already present, skipping seed")
		return 1, nil
	}

	list, err := s.registry.Create(ctx, models.KindOperators, deployer, name)
	if err != nil {
		return 0, fmt.Errorf("create default whitelist: %w", err)
	}
	for _, member := range members {
		if err := s.registry.Add(ctx, models.KindOperators, list.ID, deployer, member); err != nil {
			return 0, fmt.Errorf("seed default whitelist member %s: %w", member.Hex(), err)
		}
	}

	s.logger.InfoContext(ctx, "default operator whitelist seeded",
		"id", list.ID,
		"owner", deployer,
		"members", len(members),
	)
	return list.ID, nil
}
