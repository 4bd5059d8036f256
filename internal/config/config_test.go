package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ListenAddr != ":8080" || cfg.CacheTTL != 5*time.Minute || cfg.SolverTolerance != 100 {
		t.Errorf("DefaultConfig = %+v", cfg)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty", cfg.RedisAddr)
	}
}

func TestLoad_Env(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FINPLAN_CONFIG", "")
	t.Setenv("FINPLAN_LISTEN_ADDR", ":9999")
	t.Setenv("FINPLAN_DEBUG", "1")
	t.Setenv("FINPLAN_DATA_DIR", filepath.Join(dir, "scenarios"))
	t.Setenv("FINPLAN_REDIS_ADDR", "localhost:6379")
	t.Setenv("FINPLAN_CACHE_TTL", "90s")
	t.Setenv("FINPLAN_SOLVER_TOLERANCE", "0.5")

	cfg := Load()
	if cfg.ListenAddr != ":9999" || !cfg.Debug {
		t.Errorf("server settings = %q debug=%v", cfg.ListenAddr, cfg.Debug)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.CacheTTL != 90*time.Second || cfg.SolverTolerance != 0.5 {
		t.Errorf("cache/solver settings = %+v", cfg)
	}
	if _, err := os.Stat(cfg.DataDirectory); err != nil {
		t.Errorf("data directory not created: %v", err)
	}
}

func TestLoad_BadEnvIgnored(t *testing.T) {
	t.Setenv("FINPLAN_CONFIG", "")
	t.Setenv("FINPLAN_DATA_DIR", t.TempDir())
	t.Setenv("FINPLAN_CACHE_TTL", "soon")
	t.Setenv("FINPLAN_SOLVER_TOLERANCE", "-3")

	cfg := Load()
	if cfg.CacheTTL != 5*time.Minute || cfg.SolverTolerance != 100 {
		t.Errorf("bad values should keep defaults, got ttl=%v tol=%v", cfg.CacheTTL, cfg.SolverTolerance)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "finplan.yaml")
	content := "listen_addr: \":7000\"\nredis_addr: cache:6379\ncache_ttl: 10m\nsolver_tolerance: 2\ndata_directory: " + dir + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FINPLAN_CONFIG", path)
	t.Setenv("FINPLAN_LISTEN_ADDR", ":7001")
	t.Setenv("FINPLAN_DATA_DIR", "")
	t.Setenv("FINPLAN_REDIS_ADDR", "")
	t.Setenv("FINPLAN_CACHE_TTL", "")
	t.Setenv("FINPLAN_SOLVER_TOLERANCE", "")

	cfg := Load()
	if cfg.ListenAddr != ":7001" {
		t.Errorf("env should win over file, ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.RedisAddr != "cache:6379" || cfg.CacheTTL != 10*time.Minute || cfg.SolverTolerance != 2 || cfg.DataDirectory != dir {
		t.Errorf("file settings not applied: %+v", cfg)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("listen_addr: [unclosed"), 0644)
	if err := cfg.LoadFile(bad); err == nil {
		t.Error("expected parse error")
	}
}
