package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/anvil/internal/common"
	"github.com/bobmcallan/anvil/internal/mine"
	"github.com/bobmcallan/anvil/internal/safety"
)

// Config represents the application configuration.
type Config struct {
	Safety  safety.Policy        `toml:"safety"`
	Mining  mine.Options         `toml:"mining"`
	Output  OutputConfig         `toml:"output"`
	Logging common.LoggingConfig `toml:"logging"`

	envIssues []string
}

// OutputConfig controls where and under which name artifacts are written.
type OutputConfig struct {
	Dir        string `toml:"dir"`
	ServerName string `toml:"server_name"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files. Unknown keys are rejected.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies ANVIL_* environment variable overrides to config.
// Malformed values are kept as issues and reported by Validate.
func applyEnvOverrides(config *Config) {
	if level := os.Getenv("ANVIL_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if outputs := os.Getenv("ANVIL_LOG_OUTPUTS"); outputs != "" {
		config.Logging.Outputs = splitList(outputs)
	}
	if path := os.Getenv("ANVIL_LOG_FILE"); path != "" {
		config.Logging.FilePath = path
	}
	if dir := os.Getenv("ANVIL_OUTPUT_DIR"); dir != "" {
		config.Output.Dir = dir
	}
	if name := os.Getenv("ANVIL_SERVER_NAME"); name != "" {
		config.Output.ServerName = name
	}
	if v := os.Getenv("ANVIL_MINING_COLLISION"); v != "" {
		if p, err := mine.ParseCollisionPolicy(v); err == nil {
			config.Mining.Collision = p
		} else {
			config.envIssues = append(config.envIssues, "ANVIL_MINING_COLLISION: "+err.Error())
		}
	}
	if v := os.Getenv("ANVIL_SAFETY_ALLOWLIST"); v != "" {
		config.Safety.Allowlist = splitList(v)
	}
	if v := os.Getenv("ANVIL_SAFETY_DENYLIST"); v != "" {
		config.Safety.Denylist = splitList(v)
	}
	if v := os.Getenv("ANVIL_SAFETY_BLOCK_DESTRUCTIVE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Safety.BlockDestructive = b
		} else {
			config.envIssues = append(config.envIssues, fmt.Sprintf("ANVIL_SAFETY_BLOCK_DESTRUCTIVE: %q is not a boolean", v))
		}
	}
	if v := os.Getenv("ANVIL_SAFETY_MAX_TOOLS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Safety.MaxTools = n
		} else {
			config.envIssues = append(config.envIssues, fmt.Sprintf("ANVIL_SAFETY_MAX_TOOLS: %q is not an integer", v))
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, outputDir, serverName string, verbose bool) {
	if outputDir != "" {
		config.Output.Dir = outputDir
	}
	if serverName != "" {
		config.Output.ServerName = serverName
	}
	if verbose {
		config.Logging.Level = "debug"
	}
}

// Validate returns every configuration issue. An empty slice means valid.
func (c *Config) Validate() []string {
	issues := append([]string(nil), c.envIssues...)
	issues = append(issues, c.Safety.Issues()...)

	switch c.Mining.Collision {
	case mine.CollisionDrop, mine.CollisionNumber:
	default:
		issues = append(issues, fmt.Sprintf("mining.collision must be drop or number, got %q", c.Mining.Collision))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		issues = append(issues, fmt.Sprintf("logging.level %q is not a known level", c.Logging.Level))
	}
	for _, out := range c.Logging.Outputs {
		if out != "console" && out != "file" {
			issues = append(issues, fmt.Sprintf("logging.outputs entry %q must be console or file", out))
		}
	}
	return issues
}
