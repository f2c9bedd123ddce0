package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Store.Backend != StoreMemory ||
		cfg.Cache.Backend != CacheNull || cfg.Authz.Backend != AuthzAllowAll {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orgcanvas.toml")
	doc := `
[server]
addr = ":9090"

[store]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"
database = "campus"

[cache]
backend = "redis"
tenant_id = "acme"

[cache.redis]
addr = "redis:6379"
db = 2

[authz]
backend = "casbin"
policy = "/etc/orgcanvas/policy.csv"

[authz.scopes.branch-admin]
school_ids = ["s1"]
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeoutSec != 15 {
		t.Errorf("unset fields should keep defaults, read timeout = %d", cfg.Server.ReadTimeoutSec)
	}
	if cfg.Store.Backend != StoreMongo || cfg.Store.Database != "campus" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Cache.Redis.Addr != "redis:6379" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("redis = %+v", cfg.Cache.Redis)
	}
	if cfg.Cache.TenantID != "acme" {
		t.Errorf("tenant_id = %q", cfg.Cache.TenantID)
	}
	scope, ok := cfg.Authz.Scopes["branch-admin"]
	if !ok || len(scope.SchoolIDs) != 1 || scope.SchoolIDs[0] != "s1" {
		t.Errorf("scopes = %+v", cfg.Authz.Scopes)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name, doc, wantErr string
	}{
		{"bad toml", "store = [", "parse config"},
		{"unknown store", "[store]\nbackend = \"dynamo\"", "unknown store backend"},
		{"mongo without uri", "[store]\nbackend = \"mongo\"", "mongo_uri is required"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n[cache.redis]\naddr = \"\"", "redis.addr is required"},
		{"casbin without policy", "[authz]\nbackend = \"casbin\"", "policy is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			if err := os.WriteFile(path, []byte(tt.doc), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefault(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}
