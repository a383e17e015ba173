package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format represents the file format of a configuration file.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatTOML
	FormatJSON
)

// detectFormat determines the file format based on extension or content.
func detectFormat(path string, content []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	}
	return sniffFormat(content)
}

// sniffFormat attempts to detect format from content for extensionless files.
func sniffFormat(content []byte) Format {
	trimmed := strings.TrimSpace(string(content))

	if strings.HasPrefix(trimmed, "{") {
		return FormatJSON
	}

	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") || strings.Contains(line, " = ") {
			return FormatTOML
		}
		if strings.Contains(line, ":") && !strings.Contains(line, "=") {
			return FormatYAML
		}
	}

	if strings.Contains(trimmed, ":") {
		return FormatYAML
	}
	return FormatUnknown
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns in content.
func expandEnvVars(content []byte) []byte {
	return envVarPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		parts := envVarPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		value := os.Getenv(string(parts[1]))
		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}
		return []byte(value)
	})
}

// parse decodes content over the defaults according to format.
func parse(content []byte, format Format) (*Config, error) {
	content = expandEnvVars(content)
	cfg := Default()

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(content, cfg)
	case FormatTOML:
		err = toml.Unmarshal(content, cfg)
	case FormatJSON:
		err = json.Unmarshal(content, cfg)
	default:
		return nil, fmt.Errorf("unable to determine config format")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// searchNames are the candidate file names, probed in order.
var searchNames = []string{
	"shellcmdr.toml",
	"shellcmdr.yaml",
	"shellcmdr.yml",
	"shellcmdr.json",
}

// resolvePath finds the configuration file. An explicit path wins; otherwise
// the working directory and the user config directory are searched.
func resolvePath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	dirs := []string{"."}
	if confDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(confDir, "shellcmdr"))
	}
	for _, dir := range dirs {
		for _, name := range searchNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}
	return "", nil
}

// Load resolves, parses and validates the configuration. A missing file is
// not an error: the defaults apply. Environment variables from a local .env
// file are loaded first so both ${VAR} expansion and process env pick them up.
func Load(explicit string) (*Config, error) {
	_ = godotenv.Load()

	path, err := resolvePath(explicit)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		cfg, err = parse(content, detectFormat(path, content))
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
