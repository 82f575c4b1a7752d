package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/aidanlsb/planvault/internal/frontmatter"
	"github.com/aidanlsb/planvault/internal/plans"
	"github.com/aidanlsb/planvault/internal/vault"
	"github.com/aidanlsb/planvault/internal/vault/restapi"
)

// Gateway opens the configured vault backend.
func (c *Config) Gateway() (vault.Gateway, error) {
	switch c.Vault.Backend {
	case BackendLocal:
		info, err := os.Stat(c.Vault.Path)
		if err != nil {
			return nil, fmt.Errorf("vault path %s: %w", c.Vault.Path, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("vault path %s is not a directory", c.Vault.Path)
		}
		return vault.NewOSGateway(c.Vault.Path), nil
	case BackendREST, "":
		return restapi.New(restapi.Options{
			BaseURL:            c.Vault.URL,
			APIKey:             c.Vault.APIKey,
			InsecureSkipVerify: c.Vault.InsecureSkipVerify,
			Timeout:            c.Vault.Timeout.Duration,
		})
	default:
		return nil, fmt.Errorf("%w: unknown vault backend %q", ErrInvalid, c.Vault.Backend)
	}
}

// FrontmatterCodec returns the configured frontmatter codec.
func (p PlansConfig) FrontmatterCodec() (frontmatter.Codec, error) {
	return frontmatter.ByName(p.Codec)
}

// Location returns the time zone that defines "today".
func (p PlansConfig) Location() (*time.Location, error) {
	if p.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("plans.timezone: %w", err)
	}
	return loc, nil
}

// ManagerOptions translates the plans section into plans.Manager options.
func (c *Config) ManagerOptions(logger *zap.Logger) ([]plans.Option, error) {
	codec, err := c.Plans.FrontmatterCodec()
	if err != nil {
		return nil, err
	}
	loc, err := c.Plans.Location()
	if err != nil {
		return nil, err
	}
	return []plans.Option{
		plans.WithLayout(c.Plans.Layout),
		plans.WithCodec(codec),
		plans.WithLocation(loc),
		plans.WithLogger(logger),
	}, nil
}

// NewManager opens the vault and builds a plans.Manager over it.
func (c *Config) NewManager(logger *zap.Logger) (*plans.Manager, error) {
	gw, err := c.Gateway()
	if err != nil {
		return nil, err
	}
	opts, err := c.ManagerOptions(logger)
	if err != nil {
		return nil, err
	}
	return plans.New(gw, opts...), nil
}
