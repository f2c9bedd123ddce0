package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/campusgrid/orgcanvas/pkg/authz"
	"github.com/campusgrid/orgcanvas/pkg/cache"
	"github.com/campusgrid/orgcanvas/pkg/chart"
	"github.com/campusgrid/orgcanvas/pkg/config"
	"github.com/campusgrid/orgcanvas/pkg/org"
	"github.com/campusgrid/orgcanvas/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "orgcanvas"

// newService assembles the chart service from configuration. A non-empty
// fixture path overrides the configured store with a memory store seeded
// from the file, which is how the render and view commands work offline.
func newService(ctx context.Context, cfg *config.Config, fixture string, logger *log.Logger) (*chart.Service, error) {
	st, err := openStore(ctx, cfg, fixture)
	if err != nil {
		return nil, err
	}

	c, err := openCache(ctx, cfg)
	if err != nil {
		_ = st.Close(ctx)
		return nil, err
	}

	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if cfg.Cache.TenantID != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.Cache.TenantID)
	}

	az, err := openAuthz(cfg, logger)
	if err != nil {
		_ = st.Close(ctx)
		_ = c.Close()
		return nil, err
	}

	return chart.NewService(st, az, c, keyer, logger), nil
}

func openStore(ctx context.Context, cfg *config.Config, fixture string) (store.Store, error) {
	if fixture == "" {
		fixture = cfg.Store.Fixture
	}

	switch {
	case fixture != "":
		company, err := org.ReadFixtureFile(fixture)
		if err != nil {
			return nil, fmt.Errorf("load fixture: %w", err)
		}
		return store.NewMemoryFromCompany(*company), nil
	case cfg.Store.Backend == config.StoreMongo:
		return store.NewMongo(ctx, store.MongoConfig{
			URI:      cfg.Store.MongoURI,
			Database: cfg.Store.Database,
		})
	default:
		return store.NewMemory(), nil
	}
}

func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheFile:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	default:
		return cache.NewNullCache(), nil
	}
}

func openAuthz(cfg *config.Config, logger *log.Logger) (authz.Service, error) {
	if cfg.Authz.Backend != config.AuthzCasbin {
		return authz.AllowAll{}, nil
	}

	// The config keeps one filter set per subject; the enforcer wants them
	// per tab. Same restrictions apply to every tab a subject can see.
	scopes := make(authz.StaticScopes, len(cfg.Authz.Scopes))
	for subject, filters := range cfg.Authz.Scopes {
		scopes[subject] = map[string]authz.Filters{
			authz.TabOrgStructure: filters,
			authz.TabBranches:     filters,
			authz.TabStudents:     filters,
		}
	}
	return authz.NewEnforcer(cfg.Authz.Policy, scopes, logger)
}

// cacheDir returns the pipeline cache directory, creating it if needed.
func cacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
