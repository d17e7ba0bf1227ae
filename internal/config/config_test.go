package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bobmcallan/anvil/internal/mine"
	"github.com/bobmcallan/anvil/internal/safety"
)

func writeTOML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "anvil.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Mining.Collision != mine.CollisionDrop {
		t.Errorf("expected default collision drop, got %s", cfg.Mining.Collision)
	}
	if cfg.Output.Dir != "./generated" {
		t.Errorf("expected default output dir ./generated, got %s", cfg.Output.Dir)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
	if !cfg.Safety.RequireWriteConfirmation {
		t.Error("expected require_write_confirmation to default to true")
	}
	if len(cfg.Safety.RedactPatterns) != len(safety.DefaultRedactPatterns) {
		t.Errorf("expected default redact patterns, got %v", cfg.Safety.RedactPatterns)
	}
	if issues := cfg.Validate(); len(issues) != 0 {
		t.Errorf("default config should be valid, got %v", issues)
	}
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles with no files should not error: %v", err)
	}
	if cfg.Safety.MaxTools != 0 {
		t.Errorf("expected unlimited max_tools, got %d", cfg.Safety.MaxTools)
	}
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	path := writeTOML(t, `
[safety]
allowlist = ["get_user", "list_users"]
denylist = ["delete_user"]
block_destructive = true
require_write_confirmation = false
redact_patterns = ["pin"]
max_tools = 10

[mining]
collision = "number"

[output]
dir = "/tmp/out"
server_name = "users-mcp"

[logging]
level = "debug"
outputs = ["console", "file"]
`)

	cfg, err := LoadFromFiles(path)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if len(cfg.Safety.Allowlist) != 2 || cfg.Safety.Allowlist[1] != "list_users" {
		t.Errorf("unexpected allowlist %v", cfg.Safety.Allowlist)
	}
	if !cfg.Safety.BlockDestructive {
		t.Error("expected block_destructive true")
	}
	if cfg.Safety.RequireWriteConfirmation {
		t.Error("expected require_write_confirmation false")
	}
	if len(cfg.Safety.RedactPatterns) != 1 || cfg.Safety.RedactPatterns[0] != "pin" {
		t.Errorf("redact_patterns should replace defaults, got %v", cfg.Safety.RedactPatterns)
	}
	if cfg.Safety.MaxTools != 10 {
		t.Errorf("expected max_tools 10, got %d", cfg.Safety.MaxTools)
	}
	if cfg.Mining.Collision != mine.CollisionNumber {
		t.Errorf("expected collision number, got %s", cfg.Mining.Collision)
	}
	if cfg.Output.Dir != "/tmp/out" || cfg.Output.ServerName != "users-mcp" {
		t.Errorf("unexpected output %+v", cfg.Output)
	}
	if cfg.Logging.Level != "debug" || len(cfg.Logging.Outputs) != 2 {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadFromFiles_PartialOverride(t *testing.T) {
	path := writeTOML(t, `
[safety]
max_tools = 3
`)

	cfg, err := LoadFromFiles(path)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Safety.MaxTools != 3 {
		t.Errorf("expected max_tools 3, got %d", cfg.Safety.MaxTools)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level preserved, got %s", cfg.Logging.Level)
	}
	if len(cfg.Safety.RedactPatterns) != len(safety.DefaultRedactPatterns) {
		t.Errorf("expected default redact patterns preserved, got %v", cfg.Safety.RedactPatterns)
	}
}

func TestLoadFromFiles_MultipleFiles(t *testing.T) {
	base := writeTOML(t, `
[output]
dir = "base"
server_name = "base-name"
`)
	override := writeTOML(t, `
[output]
dir = "override"
`)

	cfg, err := LoadFromFiles(base, override)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Output.Dir != "override" {
		t.Errorf("later file should win, got %s", cfg.Output.Dir)
	}
	if cfg.Output.ServerName != "base-name" {
		t.Errorf("earlier value should survive, got %s", cfg.Output.ServerName)
	}
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/anvil.toml")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoadFromFiles_InvalidTOML(t *testing.T) {
	path := writeTOML(t, `[safety`)
	if _, err := LoadFromFiles(path); err == nil {
		t.Error("expected error for invalid TOML, got nil")
	}
}

func TestLoadFromFiles_UnknownKeyRejected(t *testing.T) {
	path := writeTOML(t, `
[safety]
allow_list = ["a"]
`)
	if _, err := LoadFromFiles(path); err == nil {
		t.Error("expected error for unknown safety key, got nil")
	}
}

func TestLoadFromFiles_BadCollisionRejected(t *testing.T) {
	path := writeTOML(t, `
[mining]
collision = "explode"
`)
	if _, err := LoadFromFiles(path); err == nil {
		t.Error("expected error for unknown collision policy, got nil")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	t.Setenv("ANVIL_LOG_LEVEL", "warn")
	t.Setenv("ANVIL_OUTPUT_DIR", "/env/out")
	t.Setenv("ANVIL_SERVER_NAME", "env-name")
	t.Setenv("ANVIL_MINING_COLLISION", "number")
	t.Setenv("ANVIL_SAFETY_ALLOWLIST", "a, b ,,c")
	t.Setenv("ANVIL_SAFETY_BLOCK_DESTRUCTIVE", "true")
	t.Setenv("ANVIL_SAFETY_MAX_TOOLS", "4")

	applyEnvOverrides(cfg)

	if cfg.Logging.Level != "warn" {
		t.Errorf("expected env log level warn, got %s", cfg.Logging.Level)
	}
	if cfg.Output.Dir != "/env/out" || cfg.Output.ServerName != "env-name" {
		t.Errorf("unexpected output %+v", cfg.Output)
	}
	if cfg.Mining.Collision != mine.CollisionNumber {
		t.Errorf("expected collision number, got %s", cfg.Mining.Collision)
	}
	if strings.Join(cfg.Safety.Allowlist, ",") != "a,b,c" {
		t.Errorf("unexpected allowlist %v", cfg.Safety.Allowlist)
	}
	if !cfg.Safety.BlockDestructive || cfg.Safety.MaxTools != 4 {
		t.Errorf("unexpected safety %+v", cfg.Safety)
	}
	if issues := cfg.Validate(); len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}

func TestApplyEnvOverrides_InvalidValuesReported(t *testing.T) {
	cfg := NewDefaultConfig()

	t.Setenv("ANVIL_SAFETY_MAX_TOOLS", "many")
	t.Setenv("ANVIL_SAFETY_BLOCK_DESTRUCTIVE", "sometimes")

	applyEnvOverrides(cfg)

	if cfg.Safety.MaxTools != 0 || cfg.Safety.BlockDestructive {
		t.Errorf("invalid env values must not be applied, got %+v", cfg.Safety)
	}
	if issues := cfg.Validate(); len(issues) != 2 {
		t.Errorf("expected 2 issues, got %v", issues)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, "flag-out", "flag-name", true)

	if cfg.Output.Dir != "flag-out" || cfg.Output.ServerName != "flag-name" {
		t.Errorf("unexpected output %+v", cfg.Output)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("verbose should force debug, got %s", cfg.Logging.Level)
	}
}

func TestApplyFlagOverrides_EmptyNoOverride(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, "", "", false)

	if cfg.Output.Dir != "./generated" {
		t.Errorf("expected default dir, got %s", cfg.Output.Dir)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default level, got %s", cfg.Logging.Level)
	}
}

func TestValidate_Issues(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Safety.MaxTools = -1
	cfg.Safety.RedactPatterns = []string{"("}
	cfg.Logging.Level = "loud"
	cfg.Logging.Outputs = []string{"syslog"}

	issues := cfg.Validate()
	if len(issues) != 4 {
		t.Errorf("expected 4 issues, got %d: %v", len(issues), issues)
	}
}
